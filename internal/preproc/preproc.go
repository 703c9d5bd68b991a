// Package preproc implements the macro preprocessor: it consumes raw
// source lines and produces an expanded source, passing empty,
// comment, and non-macro lines through verbatim and replacing macro
// invocations with their recorded bodies.
package preproc

import (
	"github.com/arnediff/asm24/internal/config"
	"github.com/arnediff/asm24/internal/diag"
	"github.com/arnediff/asm24/internal/isa"
	"github.com/arnediff/asm24/internal/lex"
)

type macro struct {
	name  string
	lines []string
}

// Expand runs the macro preprocessor over raw source lines, producing
// the expanded source. filename is used only to attribute diagnostics
// raised during preprocessing itself (a malformed mcro/mcroend); it is
// not the name later diagnostics use, since those are attributed to
// the expanded .am file by line number within the expanded content.
func Expand(lines []string, filename string, limits *config.Limits) ([]string, error) {
	var errs diag.List
	defs := make(map[string]*macro)
	var out []string

	var inDef bool
	var cur *macro

	for i, raw := range lines {
		lineno := i + 1
		trimmed := lex.SkipSpace(raw)

		if inDef {
			token, rest := lex.FirstToken(trimmed)
			if token == "mcroend" && lex.SkipSpace(rest) == "" {
				defs[cur.name] = cur
				inDef = false
				cur = nil
				continue
			}
			if token == "mcro" {
				errs.Addf(filename, lineno, "nested macro definition")
				break
			}
			if len(cur.lines) >= limits.MacroBodyLines {
				errs.Addf(filename, lineno, "macro %q exceeds maximum of %d lines", cur.name, limits.MacroBodyLines)
				break
			}
			cur.lines = append(cur.lines, raw)
			continue
		}

		token, rest := lex.FirstToken(trimmed)

		switch token {
		case "mcro":
			nameTok, after := lex.FirstToken(lex.SkipSpace(rest))
			if nameTok == "" {
				errs.Addf(filename, lineno, "missing macro name after mcro")
				break
			}
			if lex.SkipSpace(after) != "" {
				errs.Addf(filename, lineno, "extra content after macro name %q", nameTok)
				break
			}
			if !isValidMacroName(nameTok) {
				errs.Addf(filename, lineno, "invalid macro name %q", nameTok)
				break
			}
			if _, exists := defs[nameTok]; exists {
				errs.Addf(filename, lineno, "macro %q already defined", nameTok)
				break
			}
			if len(defs) >= limits.MacroTableSize {
				errs.Addf(filename, lineno, "macro table exceeds maximum of %d macros", limits.MacroTableSize)
				break
			}
			inDef = true
			cur = &macro{name: nameTok}
			continue

		case "mcroend":
			errs.Addf(filename, lineno, "mcroend without matching mcro")

		default:
			if token != "" {
				if m, ok := defs[token]; ok && lex.SkipSpace(rest) == "" {
					out = append(out, m.lines...)
					continue
				}
			}
			out = append(out, raw)
		}

		if !errs.Empty() {
			break
		}
	}

	if !errs.Empty() {
		return nil, errs.First()
	}

	if inDef {
		errs.Addf(filename, len(lines), "unclosed macro definition %q at end of file", cur.name)
		return nil, errs.First()
	}

	return out, nil
}

// isValidMacroName validates a candidate macro name against the
// augmented label-name rule (letters, digits, underscore, starting
// with a letter) and rejects any name that collides with a reserved
// word: mcro, mcroend, a directive, or a mnemonic.
func isValidMacroName(name string) bool {
	if !lex.IsMacroName(name) {
		return false
	}
	if name == "mcro" || name == "mcroend" {
		return false
	}
	return !isa.IsReservedWord(name)
}
