// Package diag implements the error reporting shared by every stage of
// the assembler pipeline: the preprocessor, the two passes, and the
// object-image writer all report failures through the same Error type
// so that a job can surface "the first failure" uniformly.
package diag

import "fmt"

// An Error describes a single failure tied to a specific source
// position. File is the name of the source the position belongs to
// (the .as file, or the expanded .am file once macros have been
// expanded); Line is 1-based.
type Error struct {
	File string
	Line int
	Msg  string
}

func (e *Error) Error() string {
	return fmt.Sprintf("Error in %s line %d: %s", e.File, e.Line, e.Msg)
}

// New constructs an Error from a format string, in the style of
// fmt.Errorf.
func New(file string, line int, format string, args ...any) *Error {
	return &Error{File: file, Line: line, Msg: fmt.Sprintf(format, args...)}
}

// List accumulates errors encountered while scanning a source so that a
// stage can keep going (within the bounds the base spec allows) and
// still report only the first failure to the caller, the same way the
// teacher's assembler collects asmerror values into a slice before
// surfacing the first one as the job's error.
type List struct {
	errs []*Error
}

// Add appends an error to the list.
func (l *List) Add(e *Error) {
	l.errs = append(l.errs, e)
}

// Addf appends a formatted error to the list.
func (l *List) Addf(file string, line int, format string, args ...any) {
	l.Add(New(file, line, format, args...))
}

// Empty reports whether the list has no errors.
func (l *List) Empty() bool {
	return len(l.errs) == 0
}

// First returns the first error added to the list, or nil if the list
// is empty. A job's outward-facing error is always the first one
// encountered, matching the base spec's fail-fast propagation policy.
func (l *List) First() error {
	if len(l.errs) == 0 {
		return nil
	}
	return l.errs[0]
}

// All returns every error collected, in the order they were added.
func (l *List) All() []*Error {
	return l.errs
}
