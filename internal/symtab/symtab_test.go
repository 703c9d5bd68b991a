package symtab

import "testing"

func TestInsertAndDuplicate(t *testing.T) {
	var tab Table
	if err := tab.Insert("LOOP", 100, Code); err != nil {
		t.Fatal(err)
	}
	if err := tab.Insert("LOOP", 200, Data); err != ErrDuplicateName {
		t.Errorf("expected ErrDuplicateName, got %v", err)
	}
}

func TestPromoteToEntry(t *testing.T) {
	var tab Table
	tab.Insert("LOOP", 100, Code)
	if err := tab.PromoteToEntry("LOOP"); err != nil {
		t.Fatal(err)
	}
	if e := tab.Find("LOOP"); e.Kind != Entry {
		t.Errorf("expected Entry, got %v", e.Kind)
	}

	if err := tab.PromoteToEntry("MISSING"); err != ErrUndefined {
		t.Errorf("expected ErrUndefined, got %v", err)
	}

	tab.Insert("EXT", 0, Extern)
	if err := tab.PromoteToEntry("EXT"); err != ErrAlreadyExtern {
		t.Errorf("expected ErrAlreadyExtern, got %v", err)
	}
}

func TestAppendReferenceAndRebase(t *testing.T) {
	var tab Table
	tab.Insert("DAT", 3, Data)
	tab.Insert("EXT", 0, Extern)
	tab.AppendReference("EXT", 105)
	tab.AppendReference("EXT", 108)

	tab.Rebase(110)

	if e := tab.FindKind("DAT", Data); e.Address != 113 {
		t.Errorf("DAT address = %d, want 113", e.Address)
	}

	var refs int
	for _, e := range tab.Iter() {
		if e.Kind == Extern && e.Address != 0 {
			refs++
		}
	}
	if refs != 2 {
		t.Errorf("got %d reference entries, want 2", refs)
	}
}
