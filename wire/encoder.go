package wire

import "aqwari.net/net/ninep/wire/txbuf"

// Each Build function resets tx, then writes the message type octet,
// the tag, and the message-specific fields in the order the protocol
// defines (spec §4.2). The length prefix is backfilled when the caller
// retrieves tx.Bytes(). Mirrors the original TxMessageBuilder's
// buildT* methods, one function per message kind.

func finish(tx *txbuf.TxBuffer, typ uint8, tag uint16) {
	tx.Reset()
	tx.WriteByte(typ)
	writeUint16(tx, tag)
}

func writeUint16(tx *txbuf.TxBuffer, v uint16) {
	var b [2]byte
	b[0] = byte(v)
	b[1] = byte(v >> 8)
	tx.Write(b[:])
}

func writeUint32(tx *txbuf.TxBuffer, v uint32) {
	var b [4]byte
	b[0] = byte(v)
	b[1] = byte(v >> 8)
	b[2] = byte(v >> 16)
	b[3] = byte(v >> 24)
	tx.Write(b[:])
}

func writeUint64(tx *txbuf.TxBuffer, v uint64) {
	var b [8]byte
	for i := 0; i < 8; i++ {
		b[i] = byte(v >> (8 * i))
	}
	tx.Write(b[:])
}

func writeString(tx *txbuf.TxBuffer, s string) error {
	if len(s) > 1<<16-1 {
		return ErrStringTooLong
	}
	writeUint16(tx, uint16(len(s)))
	tx.Write([]byte(s))
	return nil
}

func writeQid(tx *txbuf.TxBuffer, q Qid) {
	tx.WriteByte(byte(q.Type))
	writeUint32(tx, q.Version)
	writeUint64(tx, q.Path)
}

func writeStat(tx *txbuf.TxBuffer, s Stat) error {
	body, err := encodeStatBody(s)
	if err != nil {
		return err
	}
	if len(body) > 1<<16-1 {
		return ErrFieldTooLong
	}
	writeUint16(tx, uint16(len(body)))
	tx.Write(body)
	return nil
}

// BuildTVersion encodes a Tversion request. Tag is always NOTAG.
func BuildTVersion(tx *txbuf.TxBuffer, msize uint32, version string) ([]byte, error) {
	finish(tx, Tversion, NOTAG)
	writeUint32(tx, msize)
	if err := writeString(tx, version); err != nil {
		return nil, err
	}
	return tx.Bytes(), nil
}

// BuildTAuth encodes a Tauth request.
func BuildTAuth(tx *txbuf.TxBuffer, tag uint16, afid uint32, uname, aname string) ([]byte, error) {
	finish(tx, Tauth, tag)
	writeUint32(tx, afid)
	if err := writeString(tx, uname); err != nil {
		return nil, err
	}
	if err := writeString(tx, aname); err != nil {
		return nil, err
	}
	return tx.Bytes(), nil
}

// BuildTFlush encodes a Tflush request.
func BuildTFlush(tx *txbuf.TxBuffer, tag, oldtag uint16) []byte {
	finish(tx, Tflush, tag)
	writeUint16(tx, oldtag)
	return tx.Bytes()
}

// BuildTAttach encodes a Tattach request.
func BuildTAttach(tx *txbuf.TxBuffer, tag uint16, fid, afid uint32, uname, aname string) ([]byte, error) {
	finish(tx, Tattach, tag)
	writeUint32(tx, fid)
	writeUint32(tx, afid)
	if err := writeString(tx, uname); err != nil {
		return nil, err
	}
	if err := writeString(tx, aname); err != nil {
		return nil, err
	}
	return tx.Bytes(), nil
}

// BuildTWalk encodes a Twalk request. At most MaxWElem path elements
// may be walked in a single request.
func BuildTWalk(tx *txbuf.TxBuffer, tag uint16, fid, newfid uint32, wname []string) ([]byte, error) {
	if len(wname) > MaxWElem {
		return nil, ErrFieldTooLong
	}
	finish(tx, Twalk, tag)
	writeUint32(tx, fid)
	writeUint32(tx, newfid)
	writeUint16(tx, uint16(len(wname)))
	for _, name := range wname {
		if err := writeString(tx, name); err != nil {
			return nil, err
		}
	}
	return tx.Bytes(), nil
}

// BuildTOpen encodes a Topen request.
func BuildTOpen(tx *txbuf.TxBuffer, tag uint16, fid uint32, mode uint8) []byte {
	finish(tx, Topen, tag)
	writeUint32(tx, fid)
	tx.WriteByte(mode)
	return tx.Bytes()
}

// BuildTCreate encodes a Tcreate request.
func BuildTCreate(tx *txbuf.TxBuffer, tag uint16, fid uint32, name string, perm uint32, mode uint8) ([]byte, error) {
	finish(tx, Tcreate, tag)
	writeUint32(tx, fid)
	if err := writeString(tx, name); err != nil {
		return nil, err
	}
	writeUint32(tx, perm)
	tx.WriteByte(mode)
	return tx.Bytes(), nil
}

// BuildTRead encodes a Tread request.
func BuildTRead(tx *txbuf.TxBuffer, tag uint16, fid uint32, offset uint64, count uint32) []byte {
	finish(tx, Tread, tag)
	writeUint32(tx, fid)
	writeUint64(tx, offset)
	writeUint32(tx, count)
	return tx.Bytes()
}

// BuildTWrite encodes a Twrite request.
func BuildTWrite(tx *txbuf.TxBuffer, tag uint16, fid uint32, offset uint64, data []byte) []byte {
	finish(tx, Twrite, tag)
	writeUint32(tx, fid)
	writeUint64(tx, offset)
	writeUint32(tx, uint32(len(data)))
	tx.Write(data)
	return tx.Bytes()
}

// BuildTClunk encodes a Tclunk request.
func BuildTClunk(tx *txbuf.TxBuffer, tag uint16, fid uint32) []byte {
	finish(tx, Tclunk, tag)
	writeUint32(tx, fid)
	return tx.Bytes()
}

// BuildTRemove encodes a Tremove request.
func BuildTRemove(tx *txbuf.TxBuffer, tag uint16, fid uint32) []byte {
	finish(tx, Tremove, tag)
	writeUint32(tx, fid)
	return tx.Bytes()
}

// BuildTStat encodes a Tstat request.
func BuildTStat(tx *txbuf.TxBuffer, tag uint16, fid uint32) []byte {
	finish(tx, Tstat, tag)
	writeUint32(tx, fid)
	return tx.Bytes()
}

// BuildTWstat encodes a Twstat request.
func BuildTWstat(tx *txbuf.TxBuffer, tag uint16, fid uint32, stat Stat) ([]byte, error) {
	finish(tx, Twstat, tag)
	writeUint32(tx, fid)
	if err := writeStat(tx, stat); err != nil {
		return nil, err
	}
	return tx.Bytes(), nil
}
