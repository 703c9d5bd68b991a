// Package objimage serializes a completed assembly job into its three
// output artifacts: the object image (.ob), the entry table (.ent),
// and the external-reference table (.ext).
package objimage

import (
	"fmt"
	"io"

	"github.com/arnediff/asm24/internal/assemble"
	"github.com/arnediff/asm24/internal/symtab"
)

// WriteObject writes the .ob artifact: a header giving the code and
// data sizes, followed by one line per populated code cell and then
// one line per data cell, each a 7-digit address and a 6-digit
// lowercase hex encoding of the 24-bit word.
func WriteObject(w io.Writer, j *assemble.Job) error {
	codeSize := j.FinalIC - assemble.StartIC
	if _, err := fmt.Fprintf(w, "%d %d\n", codeSize, len(j.Data)); err != nil {
		return err
	}

	for _, ca := range j.Code.Cells() {
		addr := ca.Index + assemble.StartIC
		if _, err := fmt.Fprintf(w, "%07d %06x\n", addr, ca.Cell.Encode()&0xffffff); err != nil {
			return err
		}
	}

	for i, v := range j.Data {
		addr := i + j.FinalIC
		if _, err := fmt.Fprintf(w, "%07d %06x\n", addr, uint32(v)&0xffffff); err != nil {
			return err
		}
	}

	return nil
}

// WriteEntries writes the .ent artifact if at least one Entry symbol
// exists, and reports whether it wrote anything.
func WriteEntries(w io.Writer, j *assemble.Job) (bool, error) {
	var wrote bool
	for _, e := range j.Symbols.Iter() {
		if e.Kind != symtab.Entry {
			continue
		}
		if _, err := fmt.Fprintf(w, "%s %07d\n", e.Name, e.Address); err != nil {
			return wrote, err
		}
		wrote = true
	}
	return wrote, nil
}

// WriteExterns writes the .ext artifact if at least one reference-site
// Extern entry exists (an Extern symbol with non-zero address), and
// reports whether it wrote anything.
func WriteExterns(w io.Writer, j *assemble.Job) (bool, error) {
	var wrote bool
	for _, e := range j.Symbols.Iter() {
		if e.Kind != symtab.Extern || e.Address == 0 {
			continue
		}
		if _, err := fmt.Fprintf(w, "%s %07d\n", e.Name, e.Address); err != nil {
			return wrote, err
		}
		wrote = true
	}
	return wrote, nil
}
