package visit

import (
	"dotlin-go/packages/compiler/src/ir"
)

// Walk calls fn for root and, pre-order, every node it owns. When fn returns
// false the children of that node are skipped.
func Walk(root ir.Node, fn func(ir.Node) bool) {
	if !fn(root) {
		return
	}
	root.AcceptChildren(func(child ir.Node) {
		Walk(child, fn)
	})
}

// ExpressionTransform is invoked for every expression after its children have
// been transformed. The returned expression replaces it in its slot.
type ExpressionTransform func(expr ir.Expression, ctx ExpressionContext) ir.Expression

// TransformExpressions transforms every expression owned by root, post-order.
// Declarations nested in expressions (locals, lambdas) are descended into and
// update the context. If root is itself an expression the caller is
// responsible for transforming it.
func TransformExpressions(root ir.Node, ctx ExpressionContext, fn ExpressionTransform) {
	transformIn(root, ctx.Enter(root), fn)
}

// TransformExpression transforms expr and everything it owns, returning the
// expression that replaces it.
func TransformExpression(expr ir.Expression, ctx ExpressionContext, fn ExpressionTransform) ir.Expression {
	transformIn(expr, ctx.Enter(expr), fn)
	return fn(expr, ctx)
}

func transformIn(node ir.Node, ctx ExpressionContext, fn ExpressionTransform) {
	node.TransformChildren(func(child ir.Expression) ir.Expression {
		return TransformExpression(child, ctx, fn)
	})
	node.AcceptChildren(func(child ir.Node) {
		if _, ok := child.(ir.Expression); ok {
			return
		}
		transformIn(child, ctx.Enter(child), fn)
	})
}
