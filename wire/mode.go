package wire

// OpenAccess is the low two bits of a 9P open-mode byte.
type OpenAccess uint8

const (
	OREAD  OpenAccess = 0
	OWRITE OpenAccess = 1
	ORDWR  OpenAccess = 2
	OEXEC  OpenAccess = 3
)

// Open-mode flag bits, or'd in with the access bits.
const (
	OTRUNC  uint8 = 0x10 // truncate file on open
	ORCLOSE uint8 = 0x40 // remove file on clunk
)

const openModeReservedMask uint8 = ^(0x03 | OTRUNC | ORCLOSE)

// OpenMode is the single-byte access+flags field carried by Topen and
// Tcreate. It is encoded total (every value round-trips) but decoded
// strictly: any bit outside access|OTRUNC|ORCLOSE is a protocol error.
type OpenMode struct {
	Access  OpenAccess
	Truncate bool
	RemoveOnClunk bool
}

// Encode packs m into the single mode byte sent on the wire.
func (m OpenMode) Encode() uint8 {
	b := uint8(m.Access)
	if m.Truncate {
		b |= OTRUNC
	}
	if m.RemoveOnClunk {
		b |= ORCLOSE
	}
	return b
}

// DecodeOpenMode unpacks a mode byte. It rejects any reserved bit with
// ErrReservedBitsSet (spec §4.5).
func DecodeOpenMode(b uint8) (OpenMode, error) {
	if b&openModeReservedMask != 0 {
		return OpenMode{}, ErrReservedBitsSet
	}
	return OpenMode{
		Access:        OpenAccess(b & 0x03),
		Truncate:      b&OTRUNC != 0,
		RemoveOnClunk: b&ORCLOSE != 0,
	}, nil
}
