package idpool

import "testing"

func TestTagIssuerMonotonic(t *testing.T) {
	var p TagIssuer
	prev := uint16(0)
	for i := 0; i < 10; i++ {
		tag, err := p.Next()
		if err != nil {
			t.Fatal(err)
		}
		if i > 0 && tag <= prev {
			t.Fatalf("tag %d did not increase past %d", tag, prev)
		}
		prev = tag
	}
}

func TestFidIssuerNeverReusesAfterMany(t *testing.T) {
	var p FidIssuer
	seen := make(map[uint32]bool)
	for i := 0; i < 1000; i++ {
		fid, err := p.Next()
		if err != nil {
			t.Fatal(err)
		}
		if seen[fid] {
			t.Fatalf("fid %d issued twice", fid)
		}
		seen[fid] = true
	}
}
