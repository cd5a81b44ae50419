package ninep

import (
	"bufio"
	"context"
	"net"
	"sync"
	"time"

	"aqwari.net/net/ninep/internal/authtoken"
	"aqwari.net/net/ninep/internal/fidtable"
	"aqwari.net/net/ninep/internal/idpool"
	"aqwari.net/net/ninep/internal/transportscope"
	"aqwari.net/net/ninep/wire"
	"aqwari.net/net/ninep/wire/txbuf"
)

// A Session is one TCP connection to a 9P server, after a successful
// version handshake and attach. It is presented to callers as an
// opaque handle (spec §9): its socket, scratch buffer, and fid tracker
// are never observed from outside this package.
//
// A Session serializes every operation behind a single mutex (spec §5:
// at most one request is ever outstanding on the wire at a time — this
// client does not pipeline).
type Session struct {
	cfg   Config
	conn  net.Conn
	br    *bufio.Reader
	tx    *txbuf.TxBuffer
	tags  idpool.TagIssuer
	fids  idpool.FidIssuer
	table fidtable.Table
	msize uint32
	id    string // diagnostic correlation token; see internal/authtoken

	mu       sync.Mutex
	closed   bool
	fatalErr error

	release func()
}

// Dial connects to the 9P server described by cfg, negotiates a
// protocol version, probes for (but does not drive) authentication,
// and attaches to the requested file tree. The returned Session is
// ready for ListDirectory, Stat, and Read calls.
func Dial(ctx context.Context, cfg Config) (*Session, error) {
	release, err := transportscope.Acquire()
	if err != nil {
		return nil, err
	}

	conn, err := dial(ctx, cfg)
	if err != nil {
		release()
		return nil, err
	}

	s := &Session{
		cfg:     cfg,
		conn:    conn,
		br:      bufio.NewReaderSize(conn, int(cfg.maxSize())),
		tx:      txbuf.New(int(cfg.maxSize())),
		id:      authtoken.New(),
		release: release,
	}

	if err := s.handshake(); err != nil {
		s.closeTransport()
		return nil, err
	}
	if err := s.authProbe(); err != nil {
		s.closeTransport()
		return nil, err
	}
	if err := s.attach(); err != nil {
		s.closeTransport()
		return nil, err
	}
	return s, nil
}

// Close releases the session's transport. It is safe to call more
// than once.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	return s.closeTransportLocked()
}

func (s *Session) closeTransport() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closeTransportLocked()
}

func (s *Session) closeTransportLocked() error {
	err := s.conn.Close()
	if s.release != nil {
		s.release()
		s.release = nil
	}
	return err
}

// fail marks the session unusable with err, the first such error
// winning. Per spec §7, protocol decode errors, transport errors, and
// unexpected reply types are session-fatal: once fail has been called,
// every subsequent call returns the same err immediately without
// touching the transport (spec §8 scenario S6).
//
// Caller must hold s.mu.
func (s *Session) fail(err error) error {
	if s.fatalErr == nil {
		s.fatalErr = err
		s.cfg.logf("9p[%s]: session failed: %v", s.id, err)
	}
	return s.fatalErr
}

// sendRecv writes one request for tag (built by build) and reads
// exactly one reply, enforcing that the reply's tag equals tag (spec
// §3). It returns a session-fatal error, or the decoded reply — which
// may itself be a wire.RError; callers that can tolerate a remote
// error (Walk, Stat, Read, Open) check for that themselves rather than
// treating it as session-fatal.
//
// Caller must hold s.mu.
func (s *Session) sendRecv(tag uint16, build func(tag uint16) ([]byte, error)) (wire.Msg, error) {
	if s.fatalErr != nil {
		return nil, s.fatalErr
	}
	if s.closed {
		return nil, s.fail(ErrSessionClosed)
	}

	if err := s.conn.SetDeadline(s.deadline()); err != nil {
		return nil, s.fail(&netError{op: "deadline", err: err})
	}

	frame, err := build(tag)
	if err != nil {
		return nil, s.fail(err)
	}
	if _, err := s.conn.Write(frame); err != nil {
		return nil, s.fail(s.mapIOErr("send", err))
	}

	raw, err := wire.ReadFrame(s.br, int64(s.msize))
	if err != nil {
		return nil, s.fail(s.mapIOErr("recv", err))
	}
	msg, err := wire.Decode(raw)
	if err != nil {
		return nil, s.fail(err)
	}
	if msg.MsgTag() != tag {
		return nil, s.fail(wire.ErrTagMismatch)
	}
	if re, ok := msg.(wire.RError); ok {
		s.cfg.logf("9p[%s]: server error: %s", s.id, re.Ename)
	}
	return msg, nil
}

// deadline returns the absolute time a blocking send or receive must
// complete by, per cfg.Timeout, or the zero Time (no deadline) if
// Timeout is unset.
func (s *Session) deadline() time.Time {
	if s.cfg.Timeout <= 0 {
		return time.Time{}
	}
	return time.Now().Add(s.cfg.Timeout)
}

// mapIOErr turns a transport error into a session-fatal error,
// distinguishing a deadline expiry (ErrTimeout, per cfg.Timeout) from
// any other transport failure.
func (s *Session) mapIOErr(op string, err error) error {
	if ne, ok := err.(net.Error); ok && ne.Timeout() {
		return ErrTimeout
	}
	return &netError{op: op, err: err}
}

// request is like sendRecv, but issues a fresh tag itself. Used by
// every request after the version handshake, which alone must use
// wire.NOTAG.
//
// Caller must hold s.mu.
func (s *Session) request(build func(tag uint16) ([]byte, error)) (wire.Msg, error) {
	if s.fatalErr != nil {
		return nil, s.fatalErr
	}
	tag, err := s.tags.Next()
	if err != nil {
		return nil, s.fail(ErrFidSpaceExhausted)
	}
	return s.sendRecv(tag, build)
}

// handshake performs the Tversion/Rversion exchange (spec §4.6),
// always under wire.NOTAG since no tag space exists yet.
func (s *Session) handshake() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	want := s.cfg.maxSize()
	msg, err := s.sendRecv(wire.NOTAG, func(uint16) ([]byte, error) {
		return wire.BuildTVersion(s.tx, want, wire.Version)
	})
	if err != nil {
		return err
	}
	rv, ok := msg.(wire.RVersion)
	if !ok {
		return s.fail(ErrVersionHandshakeFailed)
	}
	if rv.Version != wire.Version || rv.Msize == 0 || rv.Msize > want {
		return s.fail(ErrVersionHandshakeFailed)
	}
	s.msize = rv.Msize // spec §3: msize only ever shrinks from here on
	return nil
}

// authProbe sends Tauth(NOFID, ...) to discover whether the server
// requires authentication. An Rerror reply is the common case — no
// authentication required — and the client proceeds straight to
// attach. Any other reply means the server wants to drive an auth
// exchange this client does not support (SPEC_FULL.md, "Auth probe").
func (s *Session) authProbe() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	uname, aname := s.cfg.uname(), s.cfg.Aname
	msg, err := s.request(func(tag uint16) ([]byte, error) {
		return wire.BuildTAuth(s.tx, tag, wire.NOFID, uname, aname)
	})
	if err != nil {
		return err
	}
	switch msg.(type) {
	case wire.RError:
		return nil
	case wire.RAuth:
		return s.fail(ErrServerRequestedAuthentication)
	default:
		return s.fail(ErrUnexpectedMessageReceived)
	}
}

// attach issues the session's root fid and performs Tattach.
func (s *Session) attach() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rootfid, err := s.fids.Next()
	if err != nil {
		return s.fail(ErrFidSpaceExhausted)
	}
	uname, aname := s.cfg.uname(), s.cfg.Aname

	msg, err := s.request(func(tag uint16) ([]byte, error) {
		return wire.BuildTAttach(s.tx, tag, rootfid, wire.NOFID, uname, aname)
	})
	if err != nil {
		return err
	}
	ra, ok := msg.(wire.RAttach)
	if !ok {
		return s.fail(ErrAttachFailed)
	}
	if err := s.table.SetRoot(rootfid, ra.Qid); err != nil {
		return s.fail(err)
	}
	return nil
}
