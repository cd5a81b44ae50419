package wire

import (
	"bufio"
	"io"
)

// ReadFrame reads one complete, length-prefixed 9P message from br and
// returns its bytes including the 4-byte size prefix. It first peeks
// the size field without consuming it, then reads exactly that many
// bytes, retrying on short reads (spec §4.6 "Framing on receive"). End
// of stream before the 4-byte size field is complete is returned as
// io.EOF; end of stream after it, before the frame is complete, as
// io.ErrUnexpectedEOF.
func ReadFrame(br *bufio.Reader, maxSize int64) ([]byte, error) {
	head, err := br.Peek(4)
	if err != nil {
		if err == io.EOF {
			return nil, io.EOF
		}
		return nil, err
	}
	size := int64(head[0]) | int64(head[1])<<8 | int64(head[2])<<16 | int64(head[3])<<24
	if size < minMsgSize {
		return nil, ErrMessageTooShort
	}
	if maxSize > 0 && size > maxSize {
		return nil, ErrBufferOverrun
	}

	buf := make([]byte, size)
	read := 0
	for read < len(buf) {
		n, err := br.Read(buf[read:])
		if n == 0 && err != nil {
			if err == io.EOF {
				return nil, io.ErrUnexpectedEOF
			}
			return nil, err
		}
		read += n
	}
	return buf, nil
}

const minMsgSize = 4 + 1 + 2 // size[4] type[1] tag[2]

// Decode parses one framed 9P message (as returned by ReadFrame) into
// its tagged variant Msg. Unknown message types yield
// ErrUnknownMessageTag. Any residual, undeclared bytes after a
// message's fields are fully parsed is ErrResidualBytes.
func Decode(frame []byte) (Msg, error) {
	if len(frame) < minMsgSize {
		return nil, ErrMessageTooShort
	}
	c := NewCursor(frame[4:])
	typ := c.ReadUint8()
	tag := c.ReadUint16()
	if c.Err() != nil {
		return nil, c.Err()
	}

	// Reject a frame that is already too short for its declared type's
	// fixed fields before parsing any of them, the way the teacher's
	// styxproto decoder consults its own minSizeLUT. typ values outside
	// the table, or that fall in an unused gap within it (the reserved
	// "terror" slot), read back a zero minimum and fall through to the
	// switch below, which reports ErrUnknownMessageTag for them.
	if int(typ) < len(minSizeLUT) {
		if min := minSizeLUT[typ]; min != 0 && len(frame)-4 < min {
			return nil, ErrBufferOverrun
		}
	}

	var m Msg
	switch typ {
	case Tversion:
		msize := c.ReadUint32()
		version := c.ReadString()
		m = TVersion{Msize: msize, Version: version}
	case Rversion:
		msize := c.ReadUint32()
		version := c.ReadString()
		m = RVersion{Msize: msize, Version: version}
	case Tauth:
		afid := c.ReadUint32()
		uname := c.ReadString()
		aname := c.ReadString()
		m = TAuth{Tag: tag, Afid: afid, Uname: uname, Aname: aname}
	case Rauth:
		m = RAuth{Tag: tag, Aqid: c.ReadQid()}
	case Rerror:
		m = RError{Tag: tag, Ename: c.ReadString()}
	case Tflush:
		m = TFlush{Tag: tag, Oldtag: c.ReadUint16()}
	case Rflush:
		m = RFlush{Tag: tag}
	case Tattach:
		fid := c.ReadUint32()
		afid := c.ReadUint32()
		uname := c.ReadString()
		aname := c.ReadString()
		m = TAttach{Tag: tag, Fid: fid, Afid: afid, Uname: uname, Aname: aname}
	case Rattach:
		m = RAttach{Tag: tag, Qid: c.ReadQid()}
	case Twalk:
		fid := c.ReadUint32()
		newfid := c.ReadUint32()
		nwname := c.ReadUint16()
		if c.Err() == nil && int(nwname) > MaxWElem {
			return nil, ErrFieldTooLong
		}
		wname := make([]string, nwname)
		for i := range wname {
			wname[i] = c.ReadString()
		}
		m = TWalk{Tag: tag, Fid: fid, Newfid: newfid, Wname: wname}
	case Rwalk:
		nwqid := c.ReadUint16()
		if c.Err() == nil && int(nwqid) > MaxWElem {
			return nil, ErrFieldTooLong
		}
		wqid := make([]Qid, nwqid)
		for i := range wqid {
			wqid[i] = c.ReadQid()
		}
		m = RWalk{Tag: tag, Wqid: wqid}
	case Topen:
		m = TOpen{Tag: tag, Fid: c.ReadUint32(), Mode: c.ReadUint8()}
	case Ropen:
		m = ROpen{Tag: tag, Qid: c.ReadQid(), IOunit: c.ReadUint32()}
	case Tcreate:
		fid := c.ReadUint32()
		name := c.ReadString()
		perm := c.ReadUint32()
		mode := c.ReadUint8()
		m = TCreate{Tag: tag, Fid: fid, Name: name, Perm: perm, Mode: mode}
	case Rcreate:
		m = RCreate{Tag: tag, Qid: c.ReadQid(), IOunit: c.ReadUint32()}
	case Tread:
		m = TRead{Tag: tag, Fid: c.ReadUint32(), Offset: c.ReadUint64(), Count: c.ReadUint32()}
	case Rread:
		count := c.ReadUint32()
		m = RRead{Tag: tag, Data: c.ReadBytesN(count)}
	case Twrite:
		fid := c.ReadUint32()
		offset := c.ReadUint64()
		count := c.ReadUint32()
		data := c.ReadBytesN(count)
		m = TWrite{Tag: tag, Fid: fid, Offset: offset, Data: data}
	case Rwrite:
		m = RWrite{Tag: tag, Count: c.ReadUint32()}
	case Tclunk:
		m = TClunk{Tag: tag, Fid: c.ReadUint32()}
	case Rclunk:
		m = RClunk{Tag: tag}
	case Tremove:
		m = TRemove{Tag: tag, Fid: c.ReadUint32()}
	case Rremove:
		m = RRemove{Tag: tag}
	case Tstat:
		m = TStat{Tag: tag, Fid: c.ReadUint32()}
	case Rstat:
		m = RStat{Tag: tag, Stat: c.ReadStat()}
	case Twstat:
		fid := c.ReadUint32()
		stat := c.ReadStat()
		m = TWstat{Tag: tag, Fid: fid, Stat: stat}
	case Rwstat:
		m = RWstat{Tag: tag}
	default:
		return nil, ErrUnknownMessageTag
	}

	if c.Err() != nil {
		return nil, c.Err()
	}
	if c.Len() != 0 {
		return nil, ErrResidualBytes
	}
	return m, nil
}
