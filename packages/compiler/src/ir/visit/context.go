package visit

import (
	"dotlin-go/packages/compiler/src/ir"
)

// ExpressionContext describes where an expression sits
type ExpressionContext struct {
	// Container is the nearest file, class, function or constructor. New
	// declarations synthesized while rewriting an expression are parented to it.
	Container ir.DeclarationParent
	// Initializer is the field or variable whose initializer contains the
	// expression, or nil.
	Initializer ir.Declaration
}

// NewExpressionContext creates a context rooted at container
func NewExpressionContext(container ir.DeclarationParent) ExpressionContext {
	return ExpressionContext{Container: container}
}

// Enter returns the context for the children of node. The initializer is kept
// across nested declarations so a lambda inside a field initializer still
// reports that field.
func (c ExpressionContext) Enter(node ir.Node) ExpressionContext {
	switch n := node.(type) {
	case *ir.Field:
		c.Initializer = n
	case *ir.Variable:
		c.Initializer = n
	}
	if parent, ok := node.(ir.DeclarationParent); ok {
		c.Container = parent
	}
	return c
}

// InInitializer reports whether the context is inside a field or variable initializer
func (c ExpressionContext) InInitializer() bool {
	return c.Initializer != nil
}

// InitializerField returns the field whose initializer is being visited, if any
func (c ExpressionContext) InitializerField() (*ir.Field, bool) {
	field, ok := c.Initializer.(*ir.Field)
	return field, ok
}
