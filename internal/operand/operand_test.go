package operand

import "testing"

func TestClassifyImmediate(t *testing.T) {
	r, err := Classify("#-7")
	if err != nil {
		t.Fatal(err)
	}
	if r.Mode != Immediate || r.Value != -7 {
		t.Errorf("got %+v", r)
	}
}

func TestClassifyRegister(t *testing.T) {
	r, err := Classify("r3")
	if err != nil {
		t.Fatal(err)
	}
	if r.Mode != Register || r.Reg != 3 {
		t.Errorf("got %+v", r)
	}

	if _, err := Classify("r8"); err != ErrInvalidAddress {
		t.Errorf("expected ErrInvalidAddress for r8, got %v", err)
	}
	if _, err := Classify("r"); err != ErrInvalidAddress {
		t.Errorf("expected ErrInvalidAddress for r, got %v", err)
	}
}

func TestClassifyDirectAndRelative(t *testing.T) {
	r, err := Classify("LOOP")
	if err != nil || r.Mode != Direct || r.Label != "LOOP" {
		t.Errorf("got %+v, err=%v", r, err)
	}

	r, err = Classify("&LOOP")
	if err != nil || r.Mode != Relative || r.Label != "LOOP" {
		t.Errorf("got %+v, err=%v", r, err)
	}
}

func TestClassifyNoAddressing(t *testing.T) {
	if _, err := Classify(""); err != ErrNoAddressing {
		t.Errorf("expected ErrNoAddressing, got %v", err)
	}
	if _, err := Classify("1abc"); err != ErrNoAddressing {
		t.Errorf("expected ErrNoAddressing for an invalid label, got %v", err)
	}
}
