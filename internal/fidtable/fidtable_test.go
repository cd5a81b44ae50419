package fidtable

import (
	"testing"

	"aqwari.net/net/ninep/wire"
)

func TestRootSetOnce(t *testing.T) {
	var tb Table
	if err := tb.SetRoot(0, wire.Qid{Path: 1}); err != nil {
		t.Fatal(err)
	}
	if err := tb.SetRoot(1, wire.Qid{Path: 2}); err != ErrRootAlreadySet {
		t.Fatalf("err = %v, want ErrRootAlreadySet", err)
	}
}

func TestAddLookupRemove(t *testing.T) {
	var tb Table
	tb.Add(5, []string{"a", "b"}, wire.Qid{Path: 9})

	e, err := tb.Lookup(5)
	if err != nil {
		t.Fatal(err)
	}
	if e.Qid.Path != 9 {
		t.Fatalf("qid = %+v", e.Qid)
	}
	if tb.Len() != 1 {
		t.Fatalf("Len = %d, want 1", tb.Len())
	}
	if err := tb.Remove(5); err != nil {
		t.Fatal(err)
	}
	if tb.Len() != 0 {
		t.Fatalf("Len = %d, want 0 after Remove", tb.Len())
	}
	if _, err := tb.Lookup(5); err != ErrNotFound {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestRootSurvivesSecondaryRemoves(t *testing.T) {
	var tb Table
	if err := tb.SetRoot(0, wire.Qid{Path: 1}); err != nil {
		t.Fatal(err)
	}
	tb.Add(1, []string{"x"}, wire.Qid{Path: 2})
	tb.Remove(1)

	root, ok := tb.Root()
	if !ok || root.Fid != 0 {
		t.Fatalf("root = %+v, ok = %v", root, ok)
	}
}
