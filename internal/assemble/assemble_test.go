package assemble

import (
	"strings"
	"testing"

	"github.com/arnediff/asm24/internal/config"
	"github.com/arnediff/asm24/internal/symtab"
)

func run(t *testing.T, src string) *Job {
	t.Helper()
	lines := strings.Split(strings.TrimLeft(src, "\n"), "\n")
	j := NewJob("t.am", config.Default())
	if err := j.Run(lines); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return j
}

func runErr(t *testing.T, src string) error {
	t.Helper()
	lines := strings.Split(strings.TrimLeft(src, "\n"), "\n")
	j := NewJob("t.am", config.Default())
	return j.Run(lines)
}

func cellWord(t *testing.T, j *Job, addr int) uint32 {
	t.Helper()
	c := j.Code.Get(addr - StartIC)
	if c == nil {
		t.Fatalf("no cell at address %d", addr)
	}
	return c.Encode()
}

func TestImmediateToRegister(t *testing.T) {
	j := run(t, `
mov #5, r2
stop
`)

	// opcode 0 (mov), src_mode=0 (immediate), dest_mode=3 (register),
	// dest_reg=2, func=0, are=Absolute(4).
	want := uint32(0)<<18 | uint32(0)<<16 | uint32(3)<<11 | uint32(2)<<8 | uint32(4)
	if got := cellWord(t, j, 100); got != want {
		t.Errorf("instruction word = %06x, want %06x", got, want)
	}

	// the immediate operand's extra word: value=5, are=Absolute.
	if got, want := cellWord(t, j, 101), uint32(5)<<3|4; got != want {
		t.Errorf("immediate word = %06x, want %06x", got, want)
	}

	if j.FinalIC != 103 {
		t.Errorf("FinalIC = %d, want 103", j.FinalIC)
	}
}

func TestDirectLabelResolution(t *testing.T) {
	j := run(t, `
LOOP: inc r0
mov LOOP, r1
stop
`)

	// the mov's source operand is a direct reference to LOOP, defined at
	// address 100.
	const movAddr = 101
	srcCell := j.Code.Get(movAddr + 1 - StartIC)
	if srcCell == nil {
		t.Fatal("expected the direct operand's cell to be populated")
	}
	if srcCell.Data.Value != 100 {
		t.Errorf("resolved address = %d, want 100", srcCell.Data.Value)
	}
}

func TestDataDirectiveAndSymbolRebase(t *testing.T) {
	j := run(t, `
NUM: .data 1, -2, 3
mov NUM, r1
stop
`)

	if len(j.Data) != 3 || j.Data[0] != 1 || j.Data[1] != -2 || j.Data[2] != 3 {
		t.Errorf("data image = %v", j.Data)
	}

	e := j.Symbols.Find("NUM")
	if e == nil {
		t.Fatal("expected NUM to be defined")
	}
	if e.Address != j.FinalIC {
		t.Errorf("NUM address = %d, want rebased to FinalIC %d", e.Address, j.FinalIC)
	}
}

func TestStringDirective(t *testing.T) {
	j := run(t, `
S: .string "ab"
stop
`)

	want := []int32{'a', 'b', 0}
	if len(j.Data) != len(want) {
		t.Fatalf("data = %v, want %v", j.Data, want)
	}
	for i := range want {
		if j.Data[i] != want[i] {
			t.Errorf("data[%d] = %d, want %d", i, j.Data[i], want[i])
		}
	}
}

func TestExternAndEntry(t *testing.T) {
	j := run(t, `
.extern FOO
.entry BAR
BAR: jsr FOO
stop
`)

	if e := j.Symbols.FindKind("BAR", symtab.Entry); e == nil {
		t.Error("expected BAR to be promoted to Entry")
	}

	var foundRef bool
	for _, e := range j.Symbols.Iter() {
		if e.Name == "FOO" && e.Address != 0 {
			foundRef = true
		}
	}
	if !foundRef {
		t.Error("expected a reference-site entry for FOO")
	}
}

func TestRelativeAddressingOnJump(t *testing.T) {
	j := run(t, `
LOOP: inc r0
jmp &LOOP
stop
`)

	cell := j.Code.Get(101 + 1 - StartIC)
	if cell == nil {
		t.Fatal("expected the relative operand's cell to be populated")
	}
	if cell.Data.Value != -1 {
		t.Errorf("relative distance = %d, want -1", cell.Data.Value)
	}
}

func TestRelativeAddressingOutsideJumpIsError(t *testing.T) {
	err := runErr(t, `
LOOP: inc r0
mov &LOOP, r1
stop
`)
	if err == nil {
		t.Error("expected an error for relative addressing outside a jump group")
	}
}

func TestDuplicateLabelIsError(t *testing.T) {
	err := runErr(t, `
LOOP: inc r0
LOOP: dec r0
stop
`)
	if err == nil {
		t.Error("expected an error for a duplicate label")
	}
}

func TestUndefinedSymbolIsError(t *testing.T) {
	err := runErr(t, `
mov MISSING, r1
stop
`)
	if err == nil {
		t.Error("expected an error for an undefined symbol")
	}
}

func TestOperandArityMismatch(t *testing.T) {
	err := runErr(t, `
mov r1
`)
	if err == nil {
		t.Error("expected an error for too few operands")
	}
}

func TestUnknownMnemonicIsError(t *testing.T) {
	err := runErr(t, `
frobnicate r1
`)
	if err == nil {
		t.Error("expected an error for an unknown mnemonic")
	}
}

func TestTooManyOperandsNamesMnemonicAndCounts(t *testing.T) {
	err := runErr(t, `
inc r1, r2, r3
`)
	if err == nil {
		t.Fatal("expected an error for too many operands")
	}
	msg := err.Error()
	if !strings.Contains(msg, "inc") || !strings.Contains(msg, "1") || !strings.Contains(msg, "3") {
		t.Errorf("error = %q, want it to name the mnemonic and both counts", msg)
	}
}

func TestReservedWordAsLabelIsError(t *testing.T) {
	err := runErr(t, `
mov: stop
`)
	if err == nil {
		t.Error("expected an error for a label colliding with a mnemonic")
	}
}

func TestReservedWordAsExternOperandIsError(t *testing.T) {
	err := runErr(t, `
.extern mov
stop
`)
	if err == nil {
		t.Error("expected an error for an extern operand colliding with a mnemonic")
	}
}

func TestReservedWordAsEntryOperandIsError(t *testing.T) {
	err := runErr(t, `
.entry data
stop
`)
	if err == nil {
		t.Error("expected an error for an entry operand colliding with a directive name")
	}
}
