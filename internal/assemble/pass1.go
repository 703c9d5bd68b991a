package assemble

import (
	"strings"

	"github.com/arnediff/asm24/internal/diag"
	"github.com/arnediff/asm24/internal/isa"
	"github.com/arnediff/asm24/internal/lex"
	"github.com/arnediff/asm24/internal/operand"
	"github.com/arnediff/asm24/internal/symtab"
	"github.com/arnediff/asm24/internal/word"
)

// runPass1 walks the expanded source once, building the symbol table
// and emitting a partially-encoded code image: instruction words are
// complete, immediate-operand data words are complete, and direct or
// relative operand cells are reserved empty, to be filled in by the
// second pass.
func (j *Job) runPass1(lines []string) error {
	for i, raw := range lines {
		lineno := i + 1

		line := lex.SkipSpace(raw)
		if line == "" || line[0] == ';' {
			continue
		}

		var label string
		var hasLabel bool
		label, line, hasLabel = lex.ReadLabelPrefix(line)
		if hasLabel {
			if !lex.IsLabelName(label) {
				return diag.New(j.Filename, lineno, "invalid label name: %s", label)
			}
			if isa.IsReservedWord(label) {
				return diag.New(j.Filename, lineno, "label name matches a reserved word: %s", label)
			}
			if j.Symbols.Find(label) != nil {
				return diag.New(j.Filename, lineno, "label %s already defined", label)
			}
			line = lex.SkipSpace(line)
		}

		if line == "" {
			continue
		}

		token, rest := lex.FirstToken(line)

		if strings.HasPrefix(token, ".") {
			kind, ok := isa.Directives[token]
			if !ok {
				return diag.New(j.Filename, lineno, "invalid directive: %s", token)
			}
			if err := j.pass1Directive(lineno, kind, label, hasLabel, lex.SkipSpace(rest)); err != nil {
				return err
			}
			continue
		}

		if hasLabel {
			if err := j.Symbols.Insert(label, j.ic, symtab.Code); err != nil {
				return diag.New(j.Filename, lineno, "label %s already defined", label)
			}
		}

		if err := j.pass1Instruction(lineno, token, lex.SkipSpace(rest)); err != nil {
			return err
		}
	}

	return nil
}

func (j *Job) pass1Directive(lineno int, kind isa.DirKind, label string, hasLabel bool, rest string) error {
	switch kind {
	case isa.DirData:
		if hasLabel {
			if err := j.Symbols.Insert(label, j.dc, symtab.Data); err != nil {
				return diag.New(j.Filename, lineno, "label %s already defined", label)
			}
		}
		return j.pass1Data(lineno, rest)

	case isa.DirString:
		if hasLabel {
			if err := j.Symbols.Insert(label, j.dc, symtab.Data); err != nil {
				return diag.New(j.Filename, lineno, "label %s already defined", label)
			}
		}
		return j.pass1String(lineno, rest)

	case isa.DirExtern:
		return j.pass1Extern(lineno, rest)

	case isa.DirEntry:
		if hasLabel {
			return diag.New(j.Filename, lineno, "cannot define label for .entry directive")
		}
		return j.pass1EntrySyntax(lineno, rest)
	}
	return nil
}

// pass1Data parses a comma-separated list of signed integer literals
// and appends each to the data image.
func (j *Job) pass1Data(lineno int, rest string) error {
	rest = lex.SkipSpace(rest)
	if rest == "" {
		return diag.New(j.Filename, lineno, "empty .data directive")
	}

	for {
		tok, remainder, hadComma := splitOnComma(rest)
		tok = strings.TrimRight(tok, " \t")
		if tok == "" {
			return diag.New(j.Filename, lineno, "empty number after comma")
		}
		if !lex.IsIntegerLiteral(tok) {
			return diag.New(j.Filename, lineno, "invalid number '%s' - only digits allowed (with optional +/- prefix)", tok)
		}

		j.Data = append(j.Data, parseInt32(tok))
		j.dc++

		if !hadComma {
			return nil
		}

		remainder = lex.SkipSpace(remainder)
		if remainder == "" {
			return diag.New(j.Filename, lineno, "trailing comma with no number")
		}
		if strings.HasPrefix(remainder, ",") {
			return diag.New(j.Filename, lineno, "multiple consecutive commas found")
		}
		rest = remainder
	}
}

// splitOnComma splits s at its first top-level comma, returning the
// token before it and the remainder after it (with the comma itself
// removed from both), and whether a comma was found at all. If s has
// no comma, token is s, remainder is empty, and hadComma is false.
func splitOnComma(s string) (token, remainder string, hadComma bool) {
	if idx := strings.IndexByte(s, ','); idx >= 0 {
		return s[:idx], s[idx+1:], true
	}
	return s, "", false
}

func parseInt32(s string) int32 {
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

// pass1String parses a double-quoted string literal, appending each
// character's codepoint to the data image followed by a zero
// terminator.
func (j *Job) pass1String(lineno int, rest string) error {
	rest = lex.SkipSpace(rest)
	if rest == "" || rest[0] != '"' {
		return diag.New(j.Filename, lineno, "string must begin with quote")
	}
	body := rest[1:]
	end := strings.IndexByte(body, '"')
	if end < 0 {
		return diag.New(j.Filename, lineno, "unterminated string")
	}
	for i := 0; i < end; i++ {
		j.Data = append(j.Data, int32(body[i]))
		j.dc++
	}
	j.Data = append(j.Data, 0)
	j.dc++

	trailing := lex.SkipSpace(body[end+1:])
	if trailing != "" {
		return diag.New(j.Filename, lineno, "unexpected content after string")
	}
	return nil
}

// pass1Extern validates the operand label of an .extern directive and
// inserts it into the symbol table with address 0.
func (j *Job) pass1Extern(lineno int, rest string) error {
	name, trailing := lex.FirstToken(rest)
	if !lex.IsLabelName(name) {
		return diag.New(j.Filename, lineno, "invalid external label: %s", name)
	}
	if isa.IsReservedWord(name) {
		return diag.New(j.Filename, lineno, "label name matches a reserved word: %s", name)
	}
	if lex.SkipSpace(trailing) != "" {
		return diag.New(j.Filename, lineno, "unexpected content after external label")
	}
	if err := j.Symbols.Insert(name, 0, symtab.Extern); err != nil {
		return diag.New(j.Filename, lineno, "label %s already defined", name)
	}
	return nil
}

// pass1EntrySyntax checks the syntactic shape of an .entry directive's
// operand; resolution is deferred to the second pass.
func (j *Job) pass1EntrySyntax(lineno int, rest string) error {
	name, trailing := lex.FirstToken(rest)
	if !lex.IsLabelName(name) {
		return diag.New(j.Filename, lineno, "invalid entry label: %s", name)
	}
	if isa.IsReservedWord(name) {
		return diag.New(j.Filename, lineno, "label name matches a reserved word: %s", name)
	}
	if lex.SkipSpace(trailing) != "" {
		return diag.New(j.Filename, lineno, "unexpected content after entry label")
	}
	return nil
}

// pass1Instruction parses and encodes one instruction line: its
// mnemonic, its operands, and the instruction word plus any extra
// words its operands require.
func (j *Job) pass1Instruction(lineno int, mnemonicTok, rest string) error {
	mnemonic, ok := isa.Mnemonics[mnemonicTok]
	if !ok {
		return diag.New(j.Filename, lineno, "invalid operation: %s", mnemonicTok)
	}

	ops := splitOperands(rest)
	if len(ops) != mnemonic.Operands {
		return diag.New(j.Filename, lineno, "operation '%s' requires %d operand(s), got %d", mnemonicTok, mnemonic.Operands, len(ops))
	}

	results := make([]operand.Result, len(ops))
	for i, tok := range ops {
		r, err := operand.Classify(tok)
		if err != nil {
			return diag.New(j.Filename, lineno, "%s", err.Error())
		}
		results[i] = r
	}

	var srcMode, destMode operand.Mode
	var srcReg, destReg int
	var srcSet, destSet bool

	switch len(results) {
	case 0:
		// all fields zero
	case 1:
		if mnemonicTok == "prn" {
			srcMode, srcReg, srcSet = results[0].Mode, results[0].Reg, true
		} else {
			destMode, destReg, destSet = results[0].Mode, results[0].Reg, true
		}
	case 2:
		srcMode, srcReg, srcSet = results[0].Mode, results[0].Reg, true
		destMode, destReg, destSet = results[1].Mode, results[1].Reg, true
	}

	icStart := j.ic
	inst := word.Instruction{
		Opcode: mnemonic.Opcode,
		Func:   mnemonic.Func,
		ARE:    word.Absolute,
	}
	if srcSet {
		inst.SrcMode = uint8(srcMode)
		inst.SrcReg = uint8(srcReg)
	}
	if destSet {
		inst.DestMode = uint8(destMode)
		inst.DestReg = uint8(destReg)
	}
	if err := j.Code.Set(j.ic-StartIC, word.Cell{Kind: word.KindInstruction, Inst: inst, Len: 1}); err != nil {
		return diag.New(j.Filename, lineno, "code image overflow")
	}
	j.ic++

	for _, r := range results {
		if err := j.pass1ExtraWord(lineno, mnemonic, r); err != nil {
			return err
		}
	}

	j.Code.Get(icStart - StartIC).Len = j.ic - icStart

	return nil
}

// pass1ExtraWord emits or reserves the extra word (if any) an operand
// requires beyond the instruction word itself.
func (j *Job) pass1ExtraWord(lineno int, mnemonic isa.Mnemonic, r operand.Result) error {
	switch r.Mode {
	case operand.Register:
		return nil

	case operand.Immediate:
		d := word.Data{Value: r.Value, ARE: word.Absolute}
		if err := j.Code.Set(j.ic-StartIC, word.Cell{Kind: word.KindData, Data: d}); err != nil {
			return diag.New(j.Filename, lineno, "code image overflow")
		}
		j.ic++
		return nil

	case operand.Direct:
		if err := j.Code.Grow(j.ic - StartIC + 1); err != nil {
			return diag.New(j.Filename, lineno, "code image overflow")
		}
		j.ic++
		return nil

	case operand.Relative:
		if mnemonic.Opcode != isa.JumpOpcode {
			return diag.New(j.Filename, lineno, "relative addressing mode (&) can only be used with jump instructions (jmp, bne, jsr)")
		}
		if err := j.Code.Grow(j.ic - StartIC + 1); err != nil {
			return diag.New(j.Filename, lineno, "code image overflow")
		}
		j.ic++
		return nil
	}
	return nil
}

// splitOperands splits an instruction's operand text into its
// comma-separated tokens, however many there are. The caller checks
// the resulting count against the mnemonic's required arity, so both
// too-few and too-many operands are reported by the same diagnostic,
// naming the mnemonic and the counts involved.
func splitOperands(rest string) []string {
	rest = lex.SkipSpace(rest)
	var ops []string

	for rest != "" {
		tok, remainder := firstOperandToken(rest)
		if tok == "" {
			break
		}
		ops = append(ops, tok)
		rest = lex.SkipSpace(remainder)
		if strings.HasPrefix(rest, ",") {
			rest = lex.SkipSpace(rest[1:])
		}
	}

	return ops
}

// firstOperandToken reads the next operand token: everything up to
// the first space, tab, or comma.
func firstOperandToken(s string) (token, rest string) {
	i := 0
	for i < len(s) && s[i] != ' ' && s[i] != '\t' && s[i] != ',' {
		i++
	}
	return s[:i], s[i:]
}
