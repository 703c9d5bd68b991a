// Package operand implements the side-effect-free operand classifier:
// mapping a textual operand to one of {Immediate, Direct, Relative,
// Register} or to one of the classifier's own error states.
package operand

import (
	"errors"
	"fmt"

	"github.com/arnediff/asm24/internal/lex"
)

// Mode identifies which addressing mode an operand token resolved to.
type Mode int

const (
	Immediate Mode = iota
	Direct
	Relative
	Register
)

// ErrNoAddressing is returned when the operand token is syntactically
// malformed in a way that is only an error if the opcode required an
// operand at all (an empty or otherwise unrecognizable token).
var ErrNoAddressing = errors.New("operand has no recognizable addressing mode")

// ErrInvalidAddress is returned when the operand looks like a
// register reference but is out of range (e.g. "r8") or malformed
// (e.g. "r" or "r12"). Unlike ErrNoAddressing this is always a hard
// error, even for opcodes that take no operand.
var ErrInvalidAddress = errors.New("invalid register operand")

// Result is the outcome of classifying one operand token.
type Result struct {
	Mode  Mode
	Value int32  // meaningful when Mode == Immediate
	Label string // meaningful when Mode == Direct or Mode == Relative
	Reg   int    // meaningful when Mode == Register
}

// Classify determines the addressing mode of a single operand token.
// It performs no side effects; callers are responsible for reporting
// any error it returns.
func Classify(token string) (Result, error) {
	switch {
	case len(token) == 0:
		return Result{}, ErrNoAddressing

	case token[0] == '#':
		rest := token[1:]
		if !lex.IsIntegerLiteral(rest) {
			return Result{}, fmt.Errorf("invalid integer literal %q", rest)
		}
		return Result{Mode: Immediate, Value: parseSignedInt(rest)}, nil

	case token[0] == '&':
		rest := token[1:]
		if !lex.IsLabelName(rest) {
			return Result{}, fmt.Errorf("invalid label name %q", rest)
		}
		return Result{Mode: Relative, Label: rest}, nil

	case token[0] == 'r':
		if len(token) != 2 || token[1] < '0' || token[1] > '7' {
			return Result{}, ErrInvalidAddress
		}
		return Result{Mode: Register, Reg: int(token[1] - '0')}, nil

	case lex.IsLabelName(token):
		return Result{Mode: Direct, Label: token}, nil

	default:
		return Result{}, ErrNoAddressing
	}
}

// parseSignedInt parses a string already validated by
// lex.IsIntegerLiteral: an optional sign followed by decimal digits.
func parseSignedInt(s string) int32 {
	neg := false
	i := 0
	switch s[0] {
	case '-':
		neg = true
		i = 1
	case '+':
		i = 1
	}
	var v int32
	for ; i < len(s); i++ {
		v = v*10 + int32(s[i]-'0')
	}
	if neg {
		return -v
	}
	return v
}
