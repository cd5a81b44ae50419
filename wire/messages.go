package wire

// Msg is implemented by every decoded or to-be-encoded 9P message.
type Msg interface {
	// MsgTag is the tag correlating a request with its reply. Tversion
	// (and Rversion) always carry NOTAG.
	MsgTag() uint16
}

// T-messages: requests a client builds and sends.

type TVersion struct {
	Msize   uint32
	Version string
}

func (TVersion) MsgTag() uint16 { return NOTAG }

type TAuth struct {
	Tag   uint16
	Afid  uint32
	Uname string
	Aname string
}

func (m TAuth) MsgTag() uint16 { return m.Tag }

type TFlush struct {
	Tag    uint16
	Oldtag uint16
}

func (m TFlush) MsgTag() uint16 { return m.Tag }

type TAttach struct {
	Tag   uint16
	Fid   uint32
	Afid  uint32
	Uname string
	Aname string
}

func (m TAttach) MsgTag() uint16 { return m.Tag }

type TWalk struct {
	Tag    uint16
	Fid    uint32
	Newfid uint32
	Wname  []string
}

func (m TWalk) MsgTag() uint16 { return m.Tag }

type TOpen struct {
	Tag  uint16
	Fid  uint32
	Mode uint8
}

func (m TOpen) MsgTag() uint16 { return m.Tag }

type TCreate struct {
	Tag  uint16
	Fid  uint32
	Name string
	Perm uint32
	Mode uint8
}

func (m TCreate) MsgTag() uint16 { return m.Tag }

type TRead struct {
	Tag    uint16
	Fid    uint32
	Offset uint64
	Count  uint32
}

func (m TRead) MsgTag() uint16 { return m.Tag }

type TWrite struct {
	Tag    uint16
	Fid    uint32
	Offset uint64
	Data   []byte
}

func (m TWrite) MsgTag() uint16 { return m.Tag }

type TClunk struct {
	Tag uint16
	Fid uint32
}

func (m TClunk) MsgTag() uint16 { return m.Tag }

type TRemove struct {
	Tag uint16
	Fid uint32
}

func (m TRemove) MsgTag() uint16 { return m.Tag }

type TStat struct {
	Tag uint16
	Fid uint32
}

func (m TStat) MsgTag() uint16 { return m.Tag }

type TWstat struct {
	Tag  uint16
	Fid  uint32
	Stat Stat
}

func (m TWstat) MsgTag() uint16 { return m.Tag }

// R-messages: replies a client receives and decodes.

type RVersion struct {
	Msize   uint32
	Version string
}

func (RVersion) MsgTag() uint16 { return NOTAG }

type RAuth struct {
	Tag  uint16
	Aqid Qid
}

func (m RAuth) MsgTag() uint16 { return m.Tag }

// RError is the reply sent instead of any expected R-message when a
// request fails. It implements error so it can be returned directly.
type RError struct {
	Tag   uint16
	Ename string
}

func (m RError) MsgTag() uint16 { return m.Tag }
func (m RError) Error() string  { return m.Ename }

type RFlush struct {
	Tag uint16
}

func (m RFlush) MsgTag() uint16 { return m.Tag }

type RAttach struct {
	Tag uint16
	Qid Qid
}

func (m RAttach) MsgTag() uint16 { return m.Tag }

type RWalk struct {
	Tag  uint16
	Wqid []Qid
}

func (m RWalk) MsgTag() uint16 { return m.Tag }

type ROpen struct {
	Tag    uint16
	Qid    Qid
	IOunit uint32
}

func (m ROpen) MsgTag() uint16 { return m.Tag }

type RCreate struct {
	Tag    uint16
	Qid    Qid
	IOunit uint32
}

func (m RCreate) MsgTag() uint16 { return m.Tag }

type RRead struct {
	Tag  uint16
	Data []byte
}

func (m RRead) MsgTag() uint16 { return m.Tag }

type RWrite struct {
	Tag   uint16
	Count uint32
}

func (m RWrite) MsgTag() uint16 { return m.Tag }

type RClunk struct {
	Tag uint16
}

func (m RClunk) MsgTag() uint16 { return m.Tag }

type RRemove struct {
	Tag uint16
}

func (m RRemove) MsgTag() uint16 { return m.Tag }

type RStat struct {
	Tag  uint16
	Stat Stat
}

func (m RStat) MsgTag() uint16 { return m.Tag }

type RWstat struct {
	Tag uint16
}

func (m RWstat) MsgTag() uint16 { return m.Tag }
