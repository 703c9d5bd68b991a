// Package config holds the assembler's configurable capacity limits:
// the code-image cell budget, the macro table/body caps, and the
// source-line-length policy the base spec calls out as implementation
// choices that must nonetheless be documented and overridable.
//
// The field lookup mirrors the teacher host's settings package: a
// reflect.Type walk builds a doc-tagged field table once, indexed by a
// prefixtree so a field can be addressed by any unambiguous lowercase
// prefix of its name.
package config

import (
	"fmt"
	"io"
	"reflect"
	"strconv"
	"strings"

	"github.com/beevik/prefixtree/v2"
)

// LinePolicy controls how the reader handles a source line exceeding
// MaxSourceLine content characters.
type LinePolicy int

const (
	// RejectLongLines fails the job with a diagnostic naming the
	// offending line. This is the default: it is the only policy that
	// can't silently corrupt a program by truncating a label or
	// operand mid-token.
	RejectLongLines LinePolicy = iota
	// TruncateLongLines keeps the first MaxSourceLine characters and
	// discards the rest.
	TruncateLongLines
)

func (p LinePolicy) String() string {
	if p == TruncateLongLines {
		return "truncate"
	}
	return "reject"
}

// Limits holds every configurable capacity bound used by the
// assembler. The defaults match the reference implementation's fixed
// constants (MAX_CODE_SIZE, MAX_MACROS, MAX_MACRO_LINES, MAX_SOURCE_LINE)
// but, unlike the reference, every bound here may be overridden at
// runtime through Set.
type Limits struct {
	CodeImageCells int        `doc:"maximum number of 24-bit code-image cells"`
	MacroTableSize int        `doc:"maximum number of distinct macro definitions"`
	MacroBodyLines int        `doc:"maximum number of lines in a single macro body"`
	MaxSourceLine  int        `doc:"maximum content characters per source line"`
	OnLongLine     LinePolicy `doc:"behavior when a source line exceeds MaxSourceLine (0=reject, 1=truncate)"`
}

// Default returns the limits the reference implementation hard-codes.
func Default() *Limits {
	return &Limits{
		CodeImageCells: 1200,
		MacroTableSize: 50,
		MacroBodyLines: 100,
		MaxSourceLine:  80,
		OnLongLine:     RejectLongLines,
	}
}

type limitsField struct {
	name  string
	index int
	kind  reflect.Kind
	typ   reflect.Type
	doc   string
}

var (
	limitsTree   = prefixtree.New[*limitsField]()
	limitsFields []limitsField
)

func init() {
	t := reflect.TypeOf(Limits{})
	limitsFields = make([]limitsField, t.NumField())
	for i := 0; i < len(limitsFields); i++ {
		f := t.Field(i)
		doc, _ := f.Tag.Lookup("doc")
		limitsFields[i] = limitsField{
			name:  f.Name,
			index: i,
			kind:  f.Type.Kind(),
			typ:   f.Type,
			doc:   doc,
		}
		limitsTree.Add(strings.ToLower(f.Name), &limitsFields[i])
	}
}

// Display writes a human-readable listing of every limit and its
// documentation to w, used by the "config show" CLI command.
func (l *Limits) Display(w io.Writer) {
	v := reflect.ValueOf(l).Elem()
	for i, f := range limitsFields {
		fv := v.Field(i)
		var s string
		switch f.kind {
		case reflect.Int:
			s = fmt.Sprintf("    %-16s %d", f.name, fv.Int())
		default:
			s = fmt.Sprintf("    %-16s %v", f.name, fv)
		}
		fmt.Fprintf(w, "%-28s (%s)\n", s, f.doc)
	}
}

// Set updates the named limit (matched by unambiguous prefix, case
// insensitive). Integer limits take a decimal integer; OnLongLine takes
// "reject" or "truncate".
func (l *Limits) Set(name, value string) error {
	f, err := limitsTree.FindValue(strings.ToLower(name))
	if err != nil {
		return err
	}

	v := reflect.ValueOf(l).Elem().Field(f.index)
	switch {
	case f.kind == reflect.Int && f.typ != reflect.TypeOf(LinePolicy(0)):
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid integer value %q for %s", value, f.name)
		}
		v.SetInt(int64(n))
	default:
		switch strings.ToLower(value) {
		case "reject":
			v.SetInt(int64(RejectLongLines))
		case "truncate":
			v.SetInt(int64(TruncateLongLines))
		default:
			return fmt.Errorf("invalid value %q for %s", value, f.name)
		}
	}
	return nil
}
