package reduce

import (
	"fmt"
	"sort"
	"strings"

	"github.com/starkandwayne/goutils/ansi"
)

// MultiError accumulates independent errors so the engine can report all
// of them at once for a Fatal-internal abort (spec.md §7). Grounded on
// pkg/graft/errors.go's MultiError.
type MultiError struct {
	Errors []error
}

func (e MultiError) Error() string {
	s := make([]string, 0, len(e.Errors))
	for _, err := range e.Errors {
		s = append(s, fmt.Sprintf(" - %s\n", err))
	}
	sort.Strings(s)
	return ansi.Sprintf("@r{%d} error(s) detected:\n%s", len(e.Errors), strings.Join(s, ""))
}

// Append adds err to the collection, flattening nested MultiErrors.
// Nil errors are ignored.
func (e *MultiError) Append(err error) {
	if err == nil {
		return
	}
	if mult, ok := err.(MultiError); ok {
		e.Errors = append(e.Errors, mult.Errors...)
		return
	}
	e.Errors = append(e.Errors, err)
}

// Count returns the number of accumulated errors.
func (e *MultiError) Count() int {
	return len(e.Errors)
}

// OrNil returns nil if no errors were accumulated, else the MultiError
// itself.
func (e MultiError) OrNil() error {
	if len(e.Errors) == 0 {
		return nil
	}
	return e
}

// FatalError marks an error that must abort the whole run immediately
// (spec.md §7 Fatal-internal / Fatal-oracle rows): parse failure, a
// missing syntax link on a prototype symbol, a disk copy failure on
// commit, a response-file cycle, an oracle spawn/exec failure, or a
// dry-run rejection on unmodified input.
type FatalError struct {
	Context string
	Err     error
}

func (e *FatalError) Error() string {
	return ansi.Sprintf("@R{fatal}: %s: %s", e.Context, e.Err)
}

func (e *FatalError) Unwrap() error {
	return e.Err
}

// Fatal wraps err as a FatalError with the given context, or returns nil
// if err is nil.
func Fatal(context string, err error) error {
	if err == nil {
		return nil
	}
	return &FatalError{Context: context, Err: err}
}
