package wire

import "fmt"

// QidType is the high byte of a Qid, a bit vector describing the kind
// of file. These mirror the teacher's QidType bitmask constants and
// the original client's Qid type predicates (DataTypes.h).
type QidType uint8

const (
	QTDIR    QidType = 0x80 // directories
	QTAPPEND QidType = 0x40 // append-only files
	QTEXCL   QidType = 0x20 // exclusive-use files
	QTMOUNT  QidType = 0x10 // mounted channel
	QTAUTH   QidType = 0x08 // authentication file (afid)
	QTTMP    QidType = 0x04 // non-backed-up file
	QTFILE   QidType = 0x00
)

// Qid is the server-assigned identity of a file. Two files on the same
// server hierarchy are identical if and only if their Qids are equal.
// A Qid is immutable once returned by the server.
type Qid struct {
	Type    QidType
	Version uint32
	Path    uint64
}

// IsDir reports whether q identifies a directory.
func (q Qid) IsDir() bool { return q.Type&QTDIR != 0 }

// IsAppendOnly reports whether q identifies an append-only file.
func (q Qid) IsAppendOnly() bool { return q.Type&QTAPPEND != 0 }

// IsExclusive reports whether q identifies an exclusive-use file.
func (q Qid) IsExclusive() bool { return q.Type&QTEXCL != 0 }

// IsMount reports whether q identifies a mounted channel.
func (q Qid) IsMount() bool { return q.Type&QTMOUNT != 0 }

// IsAuth reports whether q identifies an authentication file.
func (q Qid) IsAuth() bool { return q.Type&QTAUTH != 0 }

// IsTemp reports whether q identifies a non-backed-up (temporary) file.
func (q Qid) IsTemp() bool { return q.Type&QTTMP != 0 }

func (q Qid) String() string {
	return fmt.Sprintf("type=%#x version=%d path=%d", uint8(q.Type), q.Version, q.Path)
}
