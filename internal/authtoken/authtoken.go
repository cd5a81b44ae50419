// Package authtoken generates short, sortable, allocation-light
// correlation tokens for a session's diagnostic logging.
//
// The 9P2000 auth protocol tunnels an implementation-defined handshake
// over reads and writes to an afid (spec §4.6); this client core probes
// only far enough to learn whether a server requires it (see
// SPEC_FULL.md). The token generated here carries no protocol meaning
// — it is attached to a session's log lines so that a host binding
// running many concurrent sessions can tell them apart, using
// github.com/rs/xid the way the rest of the retrieval pack's services
// use it for lightweight request/session identifiers.
package authtoken

import "github.com/rs/xid"

// New returns a fresh, globally unique, time-sortable token suitable
// for tagging one session's log output.
func New() string {
	return xid.New().String()
}
