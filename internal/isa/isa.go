// Package isa holds the static tables that map mnemonics to their
// opcode/function pair and operand arity, and dot-words to directive
// kinds. These tables are read-only and shared by every pass.
package isa

// Mnemonic describes one assembly instruction mnemonic's encoding and
// required operand count.
type Mnemonic struct {
	Opcode   uint8
	Func     uint8
	Operands int
}

// Mnemonics maps every instruction mnemonic defined by the machine to
// its encoding, taken directly from the reference instruction table.
var Mnemonics = map[string]Mnemonic{
	"mov":  {Opcode: 0, Func: 0, Operands: 2},
	"cmp":  {Opcode: 1, Func: 0, Operands: 2},
	"add":  {Opcode: 2, Func: 1, Operands: 2},
	"sub":  {Opcode: 2, Func: 2, Operands: 2},
	"lea":  {Opcode: 4, Func: 0, Operands: 2},
	"clr":  {Opcode: 5, Func: 1, Operands: 1},
	"not":  {Opcode: 5, Func: 2, Operands: 1},
	"inc":  {Opcode: 5, Func: 3, Operands: 1},
	"dec":  {Opcode: 5, Func: 4, Operands: 1},
	"jmp":  {Opcode: 9, Func: 1, Operands: 1},
	"bne":  {Opcode: 9, Func: 2, Operands: 1},
	"jsr":  {Opcode: 9, Func: 3, Operands: 1},
	"red":  {Opcode: 12, Func: 0, Operands: 1},
	"prn":  {Opcode: 13, Func: 0, Operands: 1},
	"rts":  {Opcode: 14, Func: 0, Operands: 0},
	"stop": {Opcode: 15, Func: 0, Operands: 0},
}

// JumpOpcode is the opcode shared by jmp/bne/jsr, the only group that
// accepts relative addressing.
const JumpOpcode = 9

// DirKind identifies which dot-directive a line invokes.
type DirKind int

const (
	DirData DirKind = iota
	DirString
	DirEntry
	DirExtern
)

// Directives maps a dot-word to its DirKind.
var Directives = map[string]DirKind{
	".data":   DirData,
	".string": DirString,
	".entry":  DirEntry,
	".extern": DirExtern,
}

// IsReservedWord reports whether name collides with a directive or
// mnemonic, and therefore cannot be used as a label or macro name. The
// reference implementation rejects this collision at the point a name
// is read rather than waiting for the generic duplicate-definition
// check, so that the diagnostic can name the specific reason.
func IsReservedWord(name string) bool {
	if _, ok := Mnemonics[name]; ok {
		return true
	}
	if _, ok := Directives["."+name]; ok {
		return true
	}
	return name == "mcro" || name == "mcroend"
}
