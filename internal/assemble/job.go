// Package assemble implements the two-pass assembler core: the first
// pass builds the symbol table and a partially-encoded code image while
// walking the expanded source once, and the second pass re-walks the
// same source to resolve every symbol reference left open by the
// first, producing the final code and data images a Job exposes for
// serialization.
package assemble

import (
	"github.com/arnediff/asm24/internal/config"
	"github.com/arnediff/asm24/internal/symtab"
	"github.com/arnediff/asm24/internal/word"
)

// StartIC is the instruction counter's initial value. Addresses below
// this value are reserved and never assigned to code or data.
const StartIC = 100

// Job holds everything produced while assembling one expanded source
// file: the symbol table, the code image, the data image, and the
// counters that tracked their growth. A Job is used once; construct a
// fresh one per input file.
type Job struct {
	Filename string
	Limits   *config.Limits

	Symbols symtab.Table
	Code    *word.Image
	Data    []int32

	ic int
	dc int

	// FinalIC is the instruction counter's value at the end of the
	// first pass: StartIC plus the number of code cells emitted. It is
	// also the base address data symbols are rebased to, and the
	// address data cells are emitted at in the object image.
	FinalIC int
}

// NewJob creates a Job ready to assemble the named source under the
// given capacity limits.
func NewJob(filename string, limits *config.Limits) *Job {
	return &Job{
		Filename: filename,
		Limits:   limits,
		Code:     word.NewImage(limits.CodeImageCells),
		ic:       StartIC,
	}
}

// Run assembles lines (the already macro-expanded source) in full: a
// first pass over lines, a rebase of every data symbol to its final
// absolute address, then a second pass over the same lines to resolve
// symbol references. It returns the first error encountered by either
// pass.
func (j *Job) Run(lines []string) error {
	if err := j.runPass1(lines); err != nil {
		return err
	}

	j.FinalIC = j.ic
	j.Symbols.Rebase(j.FinalIC)

	j.ic = StartIC
	if err := j.runPass2(lines); err != nil {
		return err
	}

	return nil
}
