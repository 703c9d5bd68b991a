package word

import "testing"

func TestInstructionEncode(t *testing.T) {
	i := Instruction{Opcode: 2, SrcMode: 1, SrcReg: 3, DestMode: 1, DestReg: 5, Func: 1, ARE: Absolute}
	got := i.Encode()
	want := uint32(2)<<18 | uint32(1)<<16 | uint32(3)<<13 | uint32(1)<<11 | uint32(5)<<8 | uint32(1)<<3 | uint32(Absolute)
	if got != want {
		t.Errorf("Encode() = %06x, want %06x", got, want)
	}
}

func TestDataEncode(t *testing.T) {
	d := Data{Value: 5, ARE: Relocatable}
	if got, want := d.Encode(), uint32(5)<<3|uint32(Relocatable); got != want {
		t.Errorf("Encode() = %06x, want %06x", got, want)
	}
}

func TestImageGrowAndOverflow(t *testing.T) {
	img := NewImage(4)
	if err := img.Grow(4); err != nil {
		t.Fatal(err)
	}
	if err := img.Grow(5); err != ErrOverflow {
		t.Errorf("expected ErrOverflow, got %v", err)
	}
}

func TestImageSetGetCells(t *testing.T) {
	img := NewImage(8)
	if err := img.Set(0, Cell{Kind: KindInstruction, Inst: Instruction{Opcode: 1}}); err != nil {
		t.Fatal(err)
	}
	if err := img.Set(2, Cell{Kind: KindData, Data: Data{Value: 9}}); err != nil {
		t.Fatal(err)
	}

	if c := img.Get(1); c != nil {
		t.Errorf("expected index 1 to be unpopulated, got %+v", c)
	}

	cells := img.Cells()
	if len(cells) != 2 || cells[0].Index != 0 || cells[1].Index != 2 {
		t.Errorf("got %+v", cells)
	}
}
