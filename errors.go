// Copyright (c) 2011 Damian Gryski <damian@gryski.com>
// License: GPLv3 or, at your option, any later version

package graph

import (
	"errors"
	"fmt"

	pkgerrors "github.com/pkg/errors"
)

// Sentinel errors for the taxonomy in spec §7. Callers should use
// errors.Is against these rather than matching on message text; every
// wrap below carries the failing row/stage detail in its message.
var (
	// ErrBinding is returned when an InMemorySource name has no
	// binding at Run time.
	ErrBinding = errors.New("no binding for input")
	// ErrParse is returned when a source or row literal cannot be
	// parsed.
	ErrParse = errors.New("parse error")
	// ErrField is returned when a row lacks a field an operator
	// requested.
	ErrField = errors.New("missing field")
	// ErrOrdering is returned when a reduce or join stage observes a
	// grouping key that is smaller than a previously seen key,
	// meaning the upstream was not actually sorted as required.
	ErrOrdering = errors.New("input not sorted by declared keys")
	// ErrIO wraps a file open/read/write failure in a source or in
	// the external sort's spill machinery.
	ErrIO = errors.New("i/o error")
	// ErrUserFunc wraps an error returned by a Filter predicate.
	// Panics are not recovered, MapFunc errors are returned as they
	// are, and LineParser errors are wrapped as ErrParse instead.
	ErrUserFunc = errors.New("user function error")
)

// FieldError reports a missing field, naming both the field and the
// operator that requested it so a misconfigured pipeline is easy to
// locate.
type FieldError struct {
	Field string
	Op    string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: field %q not present (in %s)", ErrField, e.Field, e.Op)
}

func (e *FieldError) Unwrap() error { return ErrField }

func fieldErr(op, field string) error {
	return pkgerrors.WithStack(&FieldError{Field: field, Op: op})
}

func bindingErr(name string) error {
	return pkgerrors.Wrapf(ErrBinding, "input %q", name)
}

func parseErr(context string, cause error) error {
	return pkgerrors.Wrapf(ErrParse, "%s: %v", context, cause)
}

func ioErr(context string, cause error) error {
	return pkgerrors.Wrapf(ErrIO, "%s: %v", context, cause)
}

func orderingErr(op string, prev, cur []any) error {
	return pkgerrors.Wrapf(ErrOrdering, "%s: key went from %v to %v", op, prev, cur)
}

func userFuncErr(op string, cause error) error {
	return pkgerrors.Wrapf(ErrUserFunc, "%s: %v", op, cause)
}
