package ir

import (
	"fmt"

	"github.com/pkg/errors"
)

// UnsupportedConstructError is reported when a component is asked to process a
// node kind it has no case for.
type UnsupportedConstructError struct {
	Operation string
	Construct string
}

func (e *UnsupportedConstructError) Error() string {
	return fmt.Sprintf("%s: unsupported construct %s", e.Operation, e.Construct)
}

// NewUnsupportedConstructError creates a new UnsupportedConstructError for node
func NewUnsupportedConstructError(operation string, node interface{}) error {
	construct := fmt.Sprintf("%T", node)
	if decl, ok := node.(Declaration); ok {
		construct = fmt.Sprintf("%s %q", decl.GetKind(), decl.GetName())
	}
	return errors.WithStack(&UnsupportedConstructError{Operation: operation, Construct: construct})
}

// InvariantViolationError identifies the handle pair whose remap would break
// the graph.
type InvariantViolationError struct {
	Old    Symbol
	New    Symbol
	Reason string
}

func (e *InvariantViolationError) Error() string {
	return fmt.Sprintf("invariant violation remapping #%d -> #%d: %s", e.Old, e.New, e.Reason)
}

// NewInvariantViolationError creates a new InvariantViolationError
func NewInvariantViolationError(old, new Symbol, format string, args ...interface{}) error {
	return errors.WithStack(&InvariantViolationError{Old: old, New: new, Reason: fmt.Sprintf(format, args...)})
}

// UnboundSymbolError is raised when resolving a symbol that has no declaration.
type UnboundSymbolError struct {
	Symbol Symbol
}

func (e *UnboundSymbolError) Error() string {
	return fmt.Sprintf("symbol #%d is not bound", e.Symbol)
}
