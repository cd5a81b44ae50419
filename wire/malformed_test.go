package wire

import "testing"

func TestDecodeUnknownType(t *testing.T) {
	frame := []byte{8, 0, 0, 0, 250, 1, 0, 0}
	if _, err := Decode(frame); err != ErrUnknownMessageTag {
		t.Fatalf("err = %v, want ErrUnknownMessageTag", err)
	}
}

func TestDecodeTruncated(t *testing.T) {
	// A Tclunk frame claims to carry a fid[4] but is cut short.
	frame := []byte{7, 0, 0, 0, Tclunk, 1, 0}
	if _, err := Decode(frame); err != ErrBufferOverrun {
		t.Fatalf("err = %v, want ErrBufferOverrun", err)
	}
}

func TestDecodeResidualBytes(t *testing.T) {
	// A well-formed Rclunk with one extra trailing byte.
	frame := []byte{8, 0, 0, 0, Rclunk, 1, 0, 0xAA}
	if _, err := Decode(frame); err != ErrResidualBytes {
		t.Fatalf("err = %v, want ErrResidualBytes", err)
	}
}

func TestStatDeclaredSizeTooSmall(t *testing.T) {
	// outer size says 2 bytes follow, but a Stat needs at least minStatLen.
	c := NewCursor([]byte{2, 0, 0xAA, 0xBB})
	_ = c.ReadStat()
	if c.Err() != ErrBufferOverrun {
		t.Fatalf("err = %v, want ErrBufferOverrun", c.Err())
	}
}
