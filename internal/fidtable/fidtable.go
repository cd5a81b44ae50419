// Package fidtable tracks the fids live on a 9P session: the root fid
// issued at attach time, and every fid walked to since.
//
// It is adapted from the teacher's internal/threadsafe.Map (a
// generic, mutex-protected map) and conn.session (which keys sessions
// by fid). Unlike threadsafe.Map, Table is typed for Entry records
// and enforces the root-fid-set-once rule from spec §4.4, rather than
// being a general-purpose interface{} map.
package fidtable

import (
	"fmt"
	"sync"

	"aqwari.net/net/ninep/wire"
)

// ErrRootAlreadySet is returned by SetRoot if called more than once.
var ErrRootAlreadySet = fmt.Errorf("fidtable: root fid already set")

// ErrNotFound is returned by Lookup and Remove for an unknown fid.
var ErrNotFound = fmt.Errorf("fidtable: fid not found")

// Entry records what the tracker knows about one live fid: the fid
// itself, the path it was walked from the root to reach, and the last
// qid the server returned for it.
type Entry struct {
	Fid   uint32
	Wname []string
	Qid   wire.Qid
}

// Table records every fid currently live on a session. The zero value
// is ready to use.
type Table struct {
	mu      sync.Mutex
	root    *Entry
	entries map[uint32]Entry
}

// SetRoot records the session's root fid. It may be called exactly
// once; subsequent calls return ErrRootAlreadySet.
func (t *Table) SetRoot(fid uint32, qid wire.Qid) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.root != nil {
		return ErrRootAlreadySet
	}
	t.root = &Entry{Fid: fid, Qid: qid}
	return nil
}

// Root returns the session's root entry. ok is false if SetRoot has
// not yet been called.
func (t *Table) Root() (Entry, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.root == nil {
		return Entry{}, false
	}
	return *t.root, true
}

// Add records a newly walked fid. It overwrites any prior entry for
// the same numeric fid (callers never reuse a fid per spec §4.4, but
// Add does not itself enforce that; the session's id issuer does).
func (t *Table) Add(fid uint32, wname []string, qid wire.Qid) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.entries == nil {
		t.entries = make(map[uint32]Entry)
	}
	t.entries[fid] = Entry{Fid: fid, Wname: wname, Qid: qid}
}

// Lookup returns the entry for fid, checking both the root and the
// secondary entries.
func (t *Table) Lookup(fid uint32) (Entry, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.root != nil && t.root.Fid == fid {
		return *t.root, nil
	}
	e, ok := t.entries[fid]
	if !ok {
		return Entry{}, ErrNotFound
	}
	return e, nil
}

// Remove deletes fid from the secondary entries, as happens after a
// successful Rclunk. Removing the root fid is not supported: the root
// fid lives for the entire session (spec §3).
func (t *Table) Remove(fid uint32) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.entries[fid]; !ok {
		return ErrNotFound
	}
	delete(t.entries, fid)
	return nil
}

// Len returns the number of secondary (non-root) fids currently
// tracked. Used by tests to assert no fid leaks across error paths
// (spec §8 property 6).
func (t *Table) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.entries)
}
