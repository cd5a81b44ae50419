package wire

import "testing"

func TestModeRoundTrip(t *testing.T) {
	cases := []OpenMode{
		{Access: OREAD},
		{Access: OWRITE, Truncate: true},
		{Access: ORDWR, RemoveOnClunk: true},
		{Access: OEXEC, Truncate: true, RemoveOnClunk: true},
	}
	for _, m := range cases {
		b := m.Encode()
		got, err := DecodeOpenMode(b)
		if err != nil {
			t.Fatalf("DecodeOpenMode(%#x): %v", b, err)
		}
		if got != m {
			t.Fatalf("DecodeOpenMode(%#x) = %+v, want %+v", b, got, m)
		}
	}
}

func TestModeRejectsReservedBits(t *testing.T) {
	if _, err := DecodeOpenMode(0x20); err != ErrReservedBitsSet {
		t.Fatalf("err = %v, want ErrReservedBitsSet", err)
	}
}
