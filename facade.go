package ninep

import (
	"context"
	"fmt"

	"aqwari.net/net/ninep/internal/path9p"
	"aqwari.net/net/ninep/wire"
)

// This file implements the filesystem façade (spec §4.7): the three
// read-only operations a host filesystem binding drives — listing a
// directory, statting a path, and reading file data — each translated
// into a Twalk/operation/Tclunk sequence. Every operation clunks the
// fid it walked, even when an earlier step failed, without overwriting
// that earlier error (spec §4.7 step 4); only the clunk's own failure
// is logged.

// maxReadCount returns the largest Tread/Rread count this session will
// request, bounded by the negotiated msize and by 65535 (spec §4.5:
// msize includes 11 bytes of Rread header, so the data portion can
// never exceed msize-11, and 9P counts are only 16 bits wide in
// practice for directory reads).
func maxReadCount(msize uint32) uint32 {
	const rreadOverhead = 4 + 1 + 2 + 4 // size type tag count
	if msize <= rreadOverhead {
		return 0
	}
	max := msize - rreadOverhead
	if max > 65535 {
		max = 65535
	}
	return max
}

// walk walks wname from the session's root fid to a freshly issued
// fid, tagging any error with op for the caller's CallbackError. A
// server reporting fewer qids than requested path elements, or an
// Rerror reply, both mean the path does not exist: walk reports that
// as a *CallbackError with Kind KindNotFound, not a session-fatal
// error, and leaves no fid tracked, so no clunk is owed.
//
// Caller must hold s.mu.
func (s *Session) walk(op string, wname []string) (fid uint32, qid wire.Qid, err error) {
	root, ok := s.table.Root()
	if !ok {
		return 0, wire.Qid{}, s.fail(ErrSessionClosed)
	}
	newfid, err := s.fids.Next()
	if err != nil {
		return 0, wire.Qid{}, s.fail(ErrFidSpaceExhausted)
	}

	msg, err := s.request(func(tag uint16) ([]byte, error) {
		return wire.BuildTWalk(s.tx, tag, root.Fid, newfid, wname)
	})
	if err != nil {
		return 0, wire.Qid{}, err
	}

	switch m := msg.(type) {
	case wire.RWalk:
		if len(m.Wqid) != len(wname) {
			return 0, wire.Qid{}, &CallbackError{Kind: KindNotFound, Op: op, Err: wire.ErrShortWalkReply}
		}
		q := root.Qid
		if len(m.Wqid) > 0 {
			q = m.Wqid[len(m.Wqid)-1]
		}
		s.table.Add(newfid, wname, q)
		return newfid, q, nil
	case wire.RError:
		return 0, wire.Qid{}, &CallbackError{Kind: KindNotFound, Op: op, Err: &RemoteError{Op: "walk", Ename: m.Ename}}
	default:
		return 0, wire.Qid{}, s.fail(ErrUnexpectedMessageReceived)
	}
}

// clunk releases fid. Any failure is logged, never returned: the
// caller's own result (success or a CallbackError) has already been
// decided and must not be overwritten by a clunk that merely failed to
// tidy up server-side state (spec §4.7 step 4).
//
// Caller must hold s.mu.
func (s *Session) clunk(fid uint32) {
	msg, err := s.request(func(tag uint16) ([]byte, error) {
		return wire.BuildTClunk(s.tx, tag, fid), nil
	})
	if err != nil {
		return // session already marked fatal by request
	}
	if _, ok := msg.(wire.RClunk); ok {
		s.table.Remove(fid)
		return
	}
	s.cfg.logf("9p[%s]: clunk of fid %d did not succeed: %v", s.id, fid, msg)
}

// openForRead issues Topen(fid, OREAD). It returns a *CallbackError, not a
// session-fatal error, when the server refuses with Rerror.
//
// Caller must hold s.mu.
func (s *Session) openForRead(op string, fid uint32) error {
	mode := wire.OpenMode{Access: wire.OREAD}.Encode()
	msg, err := s.request(func(tag uint16) ([]byte, error) {
		return wire.BuildTOpen(s.tx, tag, fid, mode), nil
	})
	if err != nil {
		return err
	}
	switch m := msg.(type) {
	case wire.ROpen:
		return nil
	case wire.RError:
		return &CallbackError{Kind: KindDenied, Op: op, Err: &RemoteError{Op: "open", Ename: m.Ename}}
	default:
		return s.fail(ErrUnexpectedMessageReceived)
	}
}

// ListDirectory walks to path, opens it for reading, and reads its
// full contents as a sequence of Tread calls at advancing offsets
// (spec §4.7), decoding the concatenated replies as a run of Stat
// records. It stops at the first zero-length Rread, as a conforming
// server's end-of-directory signal.
func (s *Session) ListDirectory(ctx context.Context, path string) ([]wire.Stat, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fatalErr != nil {
		return nil, s.fatalErr
	}

	fid, _, err := s.walk("list", path9p.Split(path))
	if err != nil {
		return nil, err
	}
	defer s.clunk(fid)

	if err := s.openForRead("list", fid); err != nil {
		return nil, err
	}

	var data []byte
	var offset uint64
	count := maxReadCount(s.msize)
	for {
		msg, err := s.request(func(tag uint16) ([]byte, error) {
			return wire.BuildTRead(s.tx, tag, fid, offset, count), nil
		})
		if err != nil {
			return nil, err
		}
		switch m := msg.(type) {
		case wire.RRead:
			if len(m.Data) == 0 {
				stats, derr := wire.DecodeStats(data)
				if derr != nil {
					return nil, s.fail(derr)
				}
				return stats, nil
			}
			data = append(data, m.Data...)
			offset += uint64(len(m.Data))
		case wire.RError:
			return nil, &CallbackError{Kind: KindIOError, Op: "list", Err: &RemoteError{Op: "read", Ename: m.Ename}}
		default:
			return nil, s.fail(ErrUnexpectedMessageReceived)
		}
	}
}

// Stat walks to path and returns its metadata.
func (s *Session) Stat(ctx context.Context, path string) (wire.Stat, error) {
	if err := ctx.Err(); err != nil {
		return wire.Stat{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fatalErr != nil {
		return wire.Stat{}, s.fatalErr
	}

	fid, _, err := s.walk("stat", path9p.Split(path))
	if err != nil {
		return wire.Stat{}, err
	}
	defer s.clunk(fid)

	msg, err := s.request(func(tag uint16) ([]byte, error) {
		return wire.BuildTStat(s.tx, tag, fid), nil
	})
	if err != nil {
		return wire.Stat{}, err
	}
	switch m := msg.(type) {
	case wire.RStat:
		return m.Stat, nil
	case wire.RError:
		return wire.Stat{}, &CallbackError{Kind: KindIOError, Op: "stat", Err: &RemoteError{Op: "stat", Ename: m.Ename}}
	default:
		return wire.Stat{}, s.fail(ErrUnexpectedMessageReceived)
	}
}

// Read walks to path, opens it for reading, and reads up to len(buf)
// bytes starting at offset into buf, returning the number of bytes
// copied. A zero-length Rread reply — end of file — is reported as a
// *CallbackError with Kind KindEOF, not an error the caller must
// distinguish from a short read by inspecting n.
func (s *Session) Read(ctx context.Context, path string, offset int64, buf []byte) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if offset < 0 {
		return 0, &CallbackError{Kind: KindIOError, Op: "read", Err: fmt.Errorf("9p: negative offset")}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fatalErr != nil {
		return 0, s.fatalErr
	}

	fid, _, err := s.walk("read", path9p.Split(path))
	if err != nil {
		return 0, err
	}
	defer s.clunk(fid)

	if err := s.openForRead("read", fid); err != nil {
		return 0, err
	}

	want := uint32(len(buf))
	if max := maxReadCount(s.msize); want > max {
		want = max
	}

	msg, err := s.request(func(tag uint16) ([]byte, error) {
		return wire.BuildTRead(s.tx, tag, fid, uint64(offset), want), nil
	})
	if err != nil {
		return 0, err
	}
	switch m := msg.(type) {
	case wire.RRead:
		if len(m.Data) == 0 {
			return 0, &CallbackError{Kind: KindEOF, Op: "read"}
		}
		return copy(buf, m.Data), nil
	case wire.RError:
		return 0, &CallbackError{Kind: KindIOError, Op: "read", Err: &RemoteError{Op: "read", Ename: m.Ename}}
	default:
		return 0, s.fail(ErrUnexpectedMessageReceived)
	}
}
