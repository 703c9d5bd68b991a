package assemble

import (
	"github.com/arnediff/asm24/internal/diag"
	"github.com/arnediff/asm24/internal/isa"
	"github.com/arnediff/asm24/internal/lex"
	"github.com/arnediff/asm24/internal/operand"
	"github.com/arnediff/asm24/internal/symtab"
	"github.com/arnediff/asm24/internal/word"
)

// runPass2 re-walks the same expanded source the first pass saw, with
// the instruction counter reset to StartIC, resolving every symbol
// reference the first pass left open: filling in direct and relative
// operand cells and promoting .entry targets.
func (j *Job) runPass2(lines []string) error {
	for i, raw := range lines {
		lineno := i + 1

		line := lex.SkipSpace(raw)
		if line == "" || line[0] == ';' {
			continue
		}

		if _, rest, ok := lex.ReadLabelPrefix(line); ok {
			line = lex.SkipSpace(rest)
		}
		if line == "" {
			continue
		}

		token, rest := lex.FirstToken(line)

		if kind, ok := isa.Directives[token]; ok {
			if kind == isa.DirEntry {
				name, _ := lex.FirstToken(lex.SkipSpace(rest))
				if err := j.promoteEntry(lineno, name); err != nil {
					return err
				}
			}
			continue
		}

		if err := j.pass2Instruction(lineno, token, lex.SkipSpace(rest)); err != nil {
			return err
		}
	}

	return nil
}

func (j *Job) promoteEntry(lineno int, name string) error {
	switch err := j.Symbols.PromoteToEntry(name); err {
	case nil:
		return nil
	case symtab.ErrUndefined:
		return diag.New(j.Filename, lineno, "undefined symbol %s for .entry", name)
	case symtab.ErrAlreadyExtern:
		return diag.New(j.Filename, lineno, "symbol %s cannot be both external and entry", name)
	default:
		return diag.New(j.Filename, lineno, "%s", err.Error())
	}
}

func (j *Job) pass2Instruction(lineno int, mnemonicTok string, rest string) error {
	mnemonic := isa.Mnemonics[mnemonicTok]

	cell := j.Code.Get(j.ic - StartIC)
	if cell == nil {
		return diag.New(j.Filename, lineno, "internal error: no instruction recorded at address %d", j.ic)
	}
	instLen := cell.Len
	instStart := j.ic

	ops := splitOperands(rest)

	cursor := j.ic + 1
	for _, tok := range ops {
		r, err := operand.Classify(tok)
		if err != nil {
			return diag.New(j.Filename, lineno, "%s", err.Error())
		}
		next, err := j.pass2Operand(lineno, instStart, cursor, mnemonic, r)
		if err != nil {
			return err
		}
		cursor = next
	}

	j.ic = instStart + instLen
	return nil
}

// pass2Operand resolves one operand occupying the cell at cursor (for
// Direct and Relative modes) or no cell at all (Register), or the cell
// the first pass already filled (Immediate). It returns the cursor
// position for the next operand.
func (j *Job) pass2Operand(lineno, instStart, cursor int, mnemonic isa.Mnemonic, r operand.Result) (int, error) {
	switch r.Mode {
	case operand.Immediate, operand.Register:
		if r.Mode == operand.Immediate {
			return cursor + 1, nil
		}
		return cursor, nil

	case operand.Direct:
		sym := j.Symbols.Find(r.Label)
		if sym == nil {
			return 0, diag.New(j.Filename, lineno, "undefined symbol: %s", r.Label)
		}
		are := word.Relocatable
		if sym.Kind == symtab.Extern {
			are = word.External
		}
		if err := j.Code.Set(cursor-StartIC, word.Cell{Kind: word.KindData, Data: word.Data{Value: int32(sym.Address), ARE: are}}); err != nil {
			return 0, diag.New(j.Filename, lineno, "code image overflow")
		}
		if sym.Kind == symtab.Extern {
			j.Symbols.AppendReference(r.Label, cursor)
		}
		return cursor + 1, nil

	case operand.Relative:
		if mnemonic.Opcode != isa.JumpOpcode {
			return 0, diag.New(j.Filename, lineno, "relative addressing mode (&) can only be used with jump instructions (jmp, bne, jsr)")
		}
		sym := j.Symbols.FindKind(r.Label, symtab.Code)
		if sym == nil {
			return 0, diag.New(j.Filename, lineno, "symbol %s must be a code label for relative addressing", r.Label)
		}
		dist := int32(sym.Address - instStart)
		if err := j.Code.Set(cursor-StartIC, word.Cell{Kind: word.KindData, Data: word.Data{Value: dist, ARE: word.Absolute}}); err != nil {
			return 0, diag.New(j.Filename, lineno, "code image overflow")
		}
		return cursor + 1, nil
	}

	return cursor, nil
}
