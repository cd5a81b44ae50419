package wire

import "encoding/binary"

// A Cursor reads fixed- and variable-length fields from a byte slice in
// the order the 9P2000 wire format defines them. Every read is bounds
// checked; a read that would run past the end of buf sets err to
// ErrBufferOverrun and all further reads are no-ops returning zero
// values, so callers can perform a whole message's worth of reads and
// check err once at the end.
type Cursor struct {
	buf []byte
	pos int
	err error
}

// NewCursor returns a Cursor over buf, starting at offset 0.
func NewCursor(buf []byte) *Cursor {
	return &Cursor{buf: buf}
}

// Err returns the first error encountered during decoding, if any.
func (c *Cursor) Err() error { return c.err }

// Len returns the number of bytes remaining unread.
func (c *Cursor) Len() int { return len(c.buf) - c.pos }

// Residual returns the bytes that have not yet been consumed.
func (c *Cursor) Residual() []byte { return c.buf[c.pos:] }

func (c *Cursor) take(n int) []byte {
	if c.err != nil {
		return nil
	}
	if c.pos+n > len(c.buf) {
		c.err = ErrBufferOverrun
		return nil
	}
	b := c.buf[c.pos : c.pos+n]
	c.pos += n
	return b
}

// ReadUint8 consumes one byte.
func (c *Cursor) ReadUint8() uint8 {
	b := c.take(1)
	if b == nil {
		return 0
	}
	return b[0]
}

// ReadUint16 consumes two little-endian bytes.
func (c *Cursor) ReadUint16() uint16 {
	b := c.take(2)
	if b == nil {
		return 0
	}
	return binary.LittleEndian.Uint16(b)
}

// ReadUint32 consumes four little-endian bytes.
func (c *Cursor) ReadUint32() uint32 {
	b := c.take(4)
	if b == nil {
		return 0
	}
	return binary.LittleEndian.Uint32(b)
}

// ReadUint64 consumes eight little-endian bytes.
func (c *Cursor) ReadUint64() uint64 {
	b := c.take(8)
	if b == nil {
		return 0
	}
	return binary.LittleEndian.Uint64(b)
}

// ReadBytes consumes and returns n raw bytes, copied so the result
// outlives the buffer backing the Cursor.
func (c *Cursor) ReadBytes(n int) []byte {
	b := c.take(n)
	if b == nil {
		return nil
	}
	out := make([]byte, n)
	copy(out, b)
	return out
}

// ReadBytesN consumes n bytes, where n arrives as a uint32 straight off
// the wire (a Tread/Rread/Twrite count). It bounds n against the
// remaining buffer before converting to int, so a huge count can never
// wrap negative and reach take with a negative length on a platform
// where int is 32 bits.
func (c *Cursor) ReadBytesN(n uint32) []byte {
	if c.err != nil {
		return nil
	}
	if uint64(n) > uint64(c.Len()) {
		c.err = ErrBufferOverrun
		return nil
	}
	return c.ReadBytes(int(n))
}

// ReadString reads a uint16 byte count followed by that many bytes,
// and returns them as a string. The bytes are opaque to the codec;
// UTF-8 validity is the caller's concern.
func (c *Cursor) ReadString() string {
	n := c.ReadUint16()
	if c.err != nil {
		return ""
	}
	b := c.take(int(n))
	if b == nil {
		return ""
	}
	return string(b)
}

// ReadQid reads a 13-byte Qid: type[1] version[4] path[8].
func (c *Cursor) ReadQid() Qid {
	var q Qid
	q.Type = QidType(c.ReadUint8())
	q.Version = c.ReadUint32()
	q.Path = c.ReadUint64()
	return q
}

// ReadStat reads a uint16 outer size, then parses exactly that many
// bytes into a Stat. If the inner fields need more bytes than the
// declared size, err is set to ErrBufferOverrun; if they leave some of
// the declared bytes unconsumed, err is set to ErrStatSizeMismatch (see
// spec §9: the original implementation never verified this; this port
// does).
func (c *Cursor) ReadStat() Stat {
	var s Stat
	size := c.ReadUint16()
	if c.err != nil {
		return s
	}
	if int(size) > maxStatLen {
		c.err = ErrFieldTooLong
		return s
	}
	inner := c.take(int(size))
	if inner == nil {
		return s
	}
	sub := NewCursor(inner)
	s.Type = sub.ReadUint16()
	s.Dev = sub.ReadUint32()
	s.Qid = sub.ReadQid()
	s.Mode = sub.ReadUint32()
	s.Atime = sub.ReadUint32()
	s.Mtime = sub.ReadUint32()
	s.Length = sub.ReadUint64()
	s.Name = sub.ReadString()
	s.Uid = sub.ReadString()
	s.Gid = sub.ReadString()
	s.Muid = sub.ReadString()
	if sub.err != nil {
		c.err = sub.err
		return s
	}
	if sub.Len() != 0 {
		c.err = ErrStatSizeMismatch
		return s
	}
	return s
}

// --- encode side -----------------------------------------------------
//
// Writers below append to a byte slice, mirroring the original
// C++ TxMessage::writeInteger family (see TxMessage.cpp). The
// accumulating slice is owned by the caller (in practice, the stat body
// encodeStatBody builds, which writeStat then copies into a
// wire/txbuf.TxBuffer).

func putUint8(buf []byte, v uint8) []byte {
	return append(buf, v)
}

func putUint16(buf []byte, v uint16) []byte {
	var b [2]byte
	binary.LittleEndian.PutUint16(b[:], v)
	return append(buf, b[:]...)
}

func putUint32(buf []byte, v uint32) []byte {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	return append(buf, b[:]...)
}

func putUint64(buf []byte, v uint64) []byte {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	return append(buf, b[:]...)
}

// putString appends a uint16 length prefix followed by s's bytes. It
// returns ErrStringTooLong, and buf unchanged, if s is larger than can
// be represented in a uint16.
func putString(buf []byte, s string) ([]byte, error) {
	if len(s) > 1<<16-1 {
		return buf, ErrStringTooLong
	}
	buf = putUint16(buf, uint16(len(s)))
	return append(buf, s...), nil
}

func putQid(buf []byte, q Qid) []byte {
	buf = putUint8(buf, uint8(q.Type))
	buf = putUint32(buf, q.Version)
	buf = putUint64(buf, q.Path)
	return buf
}

func encodeStatBody(s Stat) ([]byte, error) {
	body := make([]byte, 0, minStatLen+len(s.Name)+len(s.Uid)+len(s.Gid)+len(s.Muid))
	body = putUint16(body, s.Type)
	body = putUint32(body, s.Dev)
	body = putQid(body, s.Qid)
	body = putUint32(body, s.Mode)
	body = putUint32(body, s.Atime)
	body = putUint32(body, s.Mtime)
	body = putUint64(body, s.Length)
	var err error
	for _, field := range []string{s.Name, s.Uid, s.Gid, s.Muid} {
		body, err = putString(body, field)
		if err != nil {
			return nil, err
		}
	}
	return body, nil
}
