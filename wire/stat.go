package wire

import "fmt"

// Stat describes a directory entry: file metadata returned by Rstat and
// carried, one per entry, in the data of a directory's Rread replies.
type Stat struct {
	Type   uint16
	Dev    uint32
	Qid    Qid
	Mode   uint32
	Atime  uint32 // seconds since the Unix epoch
	Mtime  uint32
	Length uint64
	Name   string
	Uid    string
	Gid    string
	Muid   string
}

func (s Stat) String() string {
	return fmt.Sprintf("stat name=%q qid=%s mode=%o length=%d uid=%q gid=%q",
		s.Name, s.Qid, s.Mode, s.Length, s.Uid, s.Gid)
}

// DecodeStats decodes a run of consecutive length-prefixed Stat records
// from data, as returned by reading a directory's contents. It is used
// by the filesystem façade's ListDirectory, which concatenates the data
// portions of successive Rread replies and decodes them as a whole.
//
// Stat records are never split across the data of two Rread replies by
// a conforming server (see spec §4.7), so DecodeStats does not need to
// buffer a partial trailing record; any leftover bytes that do not form
// a complete Stat are reported as ErrBufferOverrun, and a record whose
// fields stop short of its declared size as ErrStatSizeMismatch.
func DecodeStats(data []byte) ([]Stat, error) {
	var stats []Stat
	c := NewCursor(data)
	for c.Len() > 0 {
		s := c.ReadStat()
		if c.Err() != nil {
			return nil, c.Err()
		}
		stats = append(stats, s)
	}
	return stats, nil
}
