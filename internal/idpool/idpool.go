// Package idpool issues the monotonically increasing tag and fid
// values a 9P session hands out.
//
// It is adapted from the teacher's internal/pool package, which issues
// fid and tag numbers for a multiplexing server and reclaims clunked
// values for reuse. This client's session is synchronous and
// single-flight (spec §5: no pipelining), and spec §3/§4.4 requires
// that a clunked fid, and every issued tag, never be reused within a
// session — so the free-list/reclaim half of the teacher's pool is
// dropped; only the lock-free monotonic counter survives, adapted to
// the narrower guarantee this domain actually needs.
package idpool

import (
	"fmt"
	"sync/atomic"
)

// ErrExhausted is returned once an issuer has handed out every value
// in its id space. Per spec §4.4, this is a fatal session error.
var ErrExhausted = fmt.Errorf("idpool: identifier space exhausted")

// TagIssuer hands out unique uint16 tags, starting at 1. The reserved
// value wire.NOTAG (0xFFFF) is never issued.
type TagIssuer struct {
	next uint32
}

// Next returns the next tag, or ErrExhausted if the space (1..0xFFFE)
// is used up.
func (p *TagIssuer) Next() (uint16, error) {
	v := atomic.AddUint32(&p.next, 1)
	if v >= 0xFFFF {
		return 0, ErrExhausted
	}
	return uint16(v), nil
}

// FidIssuer hands out unique uint32 fids, starting at 1. The reserved
// value wire.NOFID (0xFFFFFFFF) is never issued.
type FidIssuer struct {
	next uint64
}

// Next returns the next fid, or ErrExhausted if the space is used up.
func (p *FidIssuer) Next() (uint32, error) {
	v := atomic.AddUint64(&p.next, 1)
	if v >= 0xFFFFFFFF {
		return 0, ErrExhausted
	}
	return uint32(v), nil
}
