package ninep

import (
	"bufio"
	"context"
	"net"
	"testing"
	"time"

	"aqwari.net/net/ninep/wire"
	"aqwari.net/net/ninep/wire/txbuf"
)

// newTestSession wires up a Session over one end of a net.Pipe,
// without going through Dial's DNS resolution and TCP dialing, so
// tests can drive the wire protocol directly against a scripted peer.
func newTestSession(conn net.Conn, cfg Config) *Session {
	if cfg.MaxSize == 0 {
		cfg.MaxSize = 4096
	}
	return &Session{
		cfg:  cfg,
		conn: conn,
		br:   bufio.NewReaderSize(conn, int(cfg.maxSize())),
		tx:   txbuf.New(int(cfg.maxSize())),
	}
}

// respondFunc builds the reply frame for one request a scripted peer
// receives. It is handed the decoded request and returns the bytes to
// write back, or nil to close the connection without replying.
type respondFunc func(tx *txbuf.TxBuffer, req wire.Msg) []byte

// runScriptedPeer reads and responds to requests on conn until it is
// closed or respond signals EOF, then closes conn.
func runScriptedPeer(t *testing.T, conn net.Conn, respond respondFunc) {
	t.Helper()
	go func() {
		defer conn.Close()
		br := bufio.NewReaderSize(conn, 1<<20)
		tx := txbuf.New(1 << 16)
		for {
			raw, err := wire.ReadFrame(br, 0)
			if err != nil {
				return
			}
			req, err := wire.Decode(raw)
			if err != nil {
				return
			}
			reply := respond(tx, req)
			if reply == nil {
				return
			}
			if _, err := conn.Write(reply); err != nil {
				return
			}
		}
	}()
}

// standardAttach replies to the Tversion/Tauth/Tattach sequence every
// Dial performs, with no authentication required and root qid q.
func standardAttach(q wire.Qid, rest respondFunc) respondFunc {
	stage := 0
	return func(tx *txbuf.TxBuffer, req wire.Msg) []byte {
		switch stage {
		case 0:
			stage++
			tv := req.(wire.TVersion)
			return buildRVersion(tx, tv.Msize, wire.Version, nil)
		case 1:
			stage++
			ta := req.(wire.TAuth)
			return buildRError(tx, ta.Tag, "authentication not required")
		case 2:
			stage++
			tatt := req.(wire.TAttach)
			return buildRAttach(tx, tatt.Tag, q)
		default:
			if rest == nil {
				return nil
			}
			return rest(tx, req)
		}
	}
}

// The wire package exposes only Build* for T-messages (what a client
// sends); these small helpers assemble the R-message frames a test's
// fake server needs to send back, using the same reset, append, then
// backfill-the-length txbuf approach the real codec's encoder.go uses.
func buildRVersion(tx *txbuf.TxBuffer, msize uint32, version string, _ []byte) []byte {
	return rawFrame(tx, rVersionType, wire.NOTAG, func(b []byte) []byte {
		b = putU32(b, msize)
		return putStr(b, version)
	})
}

func buildRError(tx *txbuf.TxBuffer, tag uint16, ename string) []byte {
	return rawFrame(tx, rErrorType, tag, func(b []byte) []byte {
		return putStr(b, ename)
	})
}

func buildRAuth(tx *txbuf.TxBuffer, tag uint16, aqid wire.Qid) []byte {
	return rawFrame(tx, rAuthType, tag, func(b []byte) []byte {
		return putQ(b, aqid)
	})
}

func buildRAttach(tx *txbuf.TxBuffer, tag uint16, qid wire.Qid) []byte {
	return rawFrame(tx, rAttachType, tag, func(b []byte) []byte {
		return putQ(b, qid)
	})
}

func buildRWalk(tx *txbuf.TxBuffer, tag uint16, wqid []wire.Qid) []byte {
	return rawFrame(tx, rWalkType, tag, func(b []byte) []byte {
		b = putU16(b, uint16(len(wqid)))
		for _, q := range wqid {
			b = putQ(b, q)
		}
		return b
	})
}

func buildROpen(tx *txbuf.TxBuffer, tag uint16, qid wire.Qid, iounit uint32) []byte {
	return rawFrame(tx, rOpenType, tag, func(b []byte) []byte {
		b = putQ(b, qid)
		return putU32(b, iounit)
	})
}

func buildRRead(tx *txbuf.TxBuffer, tag uint16, data []byte) []byte {
	return rawFrame(tx, rReadType, tag, func(b []byte) []byte {
		b = putU32(b, uint32(len(data)))
		return append(b, data...)
	})
}

func buildRClunk(tx *txbuf.TxBuffer, tag uint16) []byte {
	return rawFrame(tx, rClunkType, tag, func(b []byte) []byte { return b })
}

func buildRStat(tx *txbuf.TxBuffer, tag uint16, stat wire.Stat) []byte {
	return rawFrame(tx, rStatType, tag, func(b []byte) []byte {
		body := statBody(stat)
		b = putU16(b, uint16(len(body)))
		return append(b, body...)
	})
}

// Message type octets duplicated here (rather than exported from wire)
// because only a test's fake server needs to emit R-messages; a real
// client never does.
const (
	rVersionType = 101
	rAuthType    = 103
	rErrorType   = 107
	rAttachType  = 105
	rWalkType    = 111
	rOpenType    = 113
	rReadType    = 117
	rClunkType   = 121
	rStatType    = 125
)

func rawFrame(tx *txbuf.TxBuffer, typ uint8, tag uint16, body func([]byte) []byte) []byte {
	tx.Reset()
	tx.WriteByte(typ)
	tx.Write([]byte{byte(tag), byte(tag >> 8)})
	b := body(nil)
	tx.Write(b)
	return tx.Bytes()
}

func putU16(b []byte, v uint16) []byte { return append(b, byte(v), byte(v>>8)) }
func putU32(b []byte, v uint32) []byte {
	return append(b, byte(v), byte(v>>8), byte(v>>16), byte(v>>24))
}
func putU64(b []byte, v uint64) []byte {
	for i := 0; i < 8; i++ {
		b = append(b, byte(v>>(8*i)))
	}
	return b
}
func putStr(b []byte, s string) []byte {
	b = putU16(b, uint16(len(s)))
	return append(b, s...)
}
func putQ(b []byte, q wire.Qid) []byte {
	b = append(b, byte(q.Type))
	b = putU32(b, q.Version)
	return putU64(b, q.Path)
}
func statBody(s wire.Stat) []byte {
	var b []byte
	b = putU16(b, s.Type)
	b = putU32(b, s.Dev)
	b = putQ(b, s.Qid)
	b = putU32(b, s.Mode)
	b = putU32(b, s.Atime)
	b = putU32(b, s.Mtime)
	b = putU64(b, s.Length)
	b = putStr(b, s.Name)
	b = putStr(b, s.Uid)
	b = putStr(b, s.Gid)
	b = putStr(b, s.Muid)
	return b
}

func dialAndAttach(t *testing.T, respond respondFunc) (*Session, net.Conn) {
	t.Helper()
	client, server := net.Pipe()
	runScriptedPeer(t, server, respond)

	s := newTestSession(client, Config{MaxSize: 4096})
	if err := s.handshake(); err != nil {
		t.Fatalf("handshake: %v", err)
	}
	if err := s.authProbe(); err != nil {
		t.Fatalf("authProbe: %v", err)
	}
	if err := s.attach(); err != nil {
		t.Fatalf("attach: %v", err)
	}
	return s, server
}

func TestHandshakeNegotiatesSmallerMsize(t *testing.T) {
	client, server := net.Pipe()
	runScriptedPeer(t, server, func(tx *txbuf.TxBuffer, req wire.Msg) []byte {
		return buildRVersion(tx, 2048, wire.Version, nil)
	})

	s := newTestSession(client, Config{MaxSize: 8192})
	if err := s.handshake(); err != nil {
		t.Fatalf("handshake: %v", err)
	}
	if s.msize != 2048 {
		t.Fatalf("msize = %d, want 2048 (server's smaller offer)", s.msize)
	}
}

func TestAttachFailsWhenServerRequestsAuth(t *testing.T) {
	client, server := net.Pipe()
	runScriptedPeer(t, server, func(tx *txbuf.TxBuffer, req wire.Msg) []byte {
		switch m := req.(type) {
		case wire.TVersion:
			return buildRVersion(tx, m.Msize, wire.Version, nil)
		case wire.TAuth:
			return buildRAuth(tx, m.Tag, wire.Qid{Type: wire.QTAUTH})
		}
		return nil
	})

	s := newTestSession(client, Config{})
	if err := s.handshake(); err != nil {
		t.Fatalf("handshake: %v", err)
	}
	if err := s.authProbe(); err != ErrServerRequestedAuthentication {
		t.Fatalf("authProbe error = %v, want ErrServerRequestedAuthentication", err)
	}
}

func TestUnexpectedReplyMarksSessionUnusable(t *testing.T) {
	root := wire.Qid{Type: wire.QTDIR, Path: 1}
	calls := 0
	respond := standardAttach(root, func(tx *txbuf.TxBuffer, req wire.Msg) []byte {
		calls++
		// Any post-attach request gets an Rflush back, which is never a
		// valid reply to a Twalk.
		return rawFrame(tx, 109, req.MsgTag(), func(b []byte) []byte { return b })
	})
	s, server := dialAndAttach(t, respond)
	defer server.Close()

	ctx := context.Background()
	_, err := s.Stat(ctx, `foo`)
	if err == nil {
		t.Fatal("expected a session-fatal error")
	}
	callsAfterFirst := calls

	// A second call must fail immediately with the same error, without
	// sending anything further on the wire.
	_, err2 := s.Stat(ctx, `bar`)
	if err2 != err {
		t.Fatalf("second call error = %v, want the same fatal error %v", err2, err)
	}
	if calls != callsAfterFirst {
		t.Fatalf("second call touched the transport: calls went from %d to %d", callsAfterFirst, calls)
	}
}

func TestDialRetryGivesUpAfterMaxAttempts(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()
	_, err := DialRetry(ctx, Config{Host: "127.0.0.1", Service: "1"}, 2)
	if err == nil {
		t.Fatal("expected an error connecting to a port nothing listens on")
	}
}
