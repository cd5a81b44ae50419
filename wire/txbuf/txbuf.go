// Package txbuf provides a single-owner transmit scratch buffer for
// building 9P messages.
//
// A TxBuffer is grounded in the teacher's internal/wire.TxWriter (which
// isolates a set of writes as a single transaction on a shared
// io.Writer) and, more directly, in the original 9p-dokany client's
// TxMessage: a reusable buffer that reserves space for the sizeof
// length prefix, lets the caller append fields in order, and backfills
// the prefix once the message is complete.
package txbuf

import "encoding/binary"

// lengthPrefixSize is the width, in bytes, of the 9P message's
// leading size[4] field.
const lengthPrefixSize = 4

// A TxBuffer is a reusable scratch buffer for encoding a single 9P
// message at a time. It has one owner (the session engine) and is
// reset and reused across every request sent on a session, so it never
// allocates once warmed up.
type TxBuffer struct {
	buf []byte
}

// New returns an empty TxBuffer with capacity preallocated.
func New(capacity int) *TxBuffer {
	return &TxBuffer{buf: make([]byte, lengthPrefixSize, capacity)}
}

// Reset clears t, leaving room for the length prefix to be backfilled
// by Bytes. It must be called before building every new message.
func (t *TxBuffer) Reset() {
	t.buf = t.buf[:lengthPrefixSize]
}

// Write implements io.Writer, appending p to the buffer after the
// reserved length prefix. It never returns an error.
func (t *TxBuffer) Write(p []byte) (int, error) {
	t.buf = append(t.buf, p...)
	return len(p), nil
}

// WriteByte appends a single byte.
func (t *TxBuffer) WriteByte(b byte) error {
	t.buf = append(t.buf, b)
	return nil
}

// Len returns the number of bytes written since the last Reset,
// including the reserved length prefix.
func (t *TxBuffer) Len() int { return len(t.buf) }

// Bytes backfills the reserved length prefix with the total byte count
// written since Reset, and returns the complete, ready-to-send frame.
// The returned slice aliases t's internal buffer and is only valid
// until the next Reset.
func (t *TxBuffer) Bytes() []byte {
	binary.LittleEndian.PutUint32(t.buf[:lengthPrefixSize], uint32(len(t.buf)))
	return t.buf
}
