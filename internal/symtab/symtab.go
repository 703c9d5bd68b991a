// Package symtab implements the assembler's symbol table: an
// insertion-ordered sequence of symbol entries, looked up linearly by
// name or by name-and-kind. The reference implementation uses a
// hand-rolled linked list and puns external-reference sites onto the
// same entries as declarations; here that's replaced by a single
// ordered slice with an explicit Kind field and an Address==0 vs.
// Address!=0 discriminator between an extern's declaration and its
// reference sites, as the base spec requires.
package symtab

import "errors"

// Kind identifies what a symbol entry represents.
type Kind int

const (
	Code Kind = iota
	Data
	Entry
	Extern
)

// Symbol is one symbol-table record: a name, an address, a kind, and
// (implicitly) its position in the table via insertion order.
type Symbol struct {
	Name    string
	Address int
	Kind    Kind
}

// Table is the ordered, append-only symbol table for one assembly job.
type Table struct {
	entries []Symbol
}

// ErrDuplicateName is returned by Insert when a definition with the
// same name already exists.
var ErrDuplicateName = errors.New("symbol already defined")

// ErrUndefined is returned by PromoteToEntry when no Code or Data
// symbol with the given name exists.
var ErrUndefined = errors.New("symbol is not defined")

// ErrAlreadyExtern is returned by PromoteToEntry when the only
// definition found for the name is an Extern symbol.
var ErrAlreadyExtern = errors.New("symbol is declared extern")

// Insert adds a new symbol definition. It fails if a definition
// (Code, Data, or Extern) with the same name already exists.
func (t *Table) Insert(name string, addr int, kind Kind) error {
	if t.Find(name) != nil {
		return ErrDuplicateName
	}
	t.entries = append(t.entries, Symbol{Name: name, Address: addr, Kind: kind})
	return nil
}

// Find returns a pointer to the first entry matching name, or nil.
// The returned pointer aliases the table's backing storage; callers
// must not retain it across a mutating call.
func (t *Table) Find(name string) *Symbol {
	for i := range t.entries {
		if t.entries[i].Name == name {
			return &t.entries[i]
		}
	}
	return nil
}

// FindKind returns a pointer to the first entry matching both name and
// kind, or nil.
func (t *Table) FindKind(name string, kind Kind) *Symbol {
	for i := range t.entries {
		if t.entries[i].Name == name && t.entries[i].Kind == kind {
			return &t.entries[i]
		}
	}
	return nil
}

// AppendReference appends a reference-site entry for an external
// symbol: an Extern entry whose address is the code cell that
// references it. Reference-site entries are distinguished from the
// extern's declaration (inserted with address 0 by Insert) by having a
// non-zero address, and a table may hold many of them sharing a name.
func (t *Table) AppendReference(name string, addr int) {
	t.entries = append(t.entries, Symbol{Name: name, Address: addr, Kind: Extern})
}

// PromoteToEntry changes an existing Code or Data symbol's kind to
// Entry. If the only definition found is already Extern, it fails with
// ErrAlreadyExtern. If the symbol is already an Entry, the call
// succeeds without effect (idempotent).
func (t *Table) PromoteToEntry(name string) error {
	for i := range t.entries {
		e := &t.entries[i]
		if e.Name != name {
			continue
		}
		switch e.Kind {
		case Code, Data:
			e.Kind = Entry
			return nil
		case Entry:
			return nil
		case Extern:
			return ErrAlreadyExtern
		}
	}
	return ErrUndefined
}

// Rebase adds delta to the address of every Data-kind symbol. Called
// once at the boundary between the first and second pass, so that a
// data symbol's address -- previously an offset into the data image --
// becomes its absolute location in the combined code+data image.
func (t *Table) Rebase(delta int) {
	for i := range t.entries {
		if t.entries[i].Kind == Data {
			t.entries[i].Address += delta
		}
	}
}

// Iter returns every entry in insertion order. The returned slice is a
// copy-free view; callers must not mutate it.
func (t *Table) Iter() []Symbol {
	return t.entries
}
