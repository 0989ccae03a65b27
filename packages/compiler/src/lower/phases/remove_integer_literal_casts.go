package phases

import (
	"dotlin-go/packages/compiler/src/ir"
	"dotlin-go/packages/compiler/src/ir/visit"
	"dotlin-go/packages/compiler/src/lower/compilation"
	"dotlin-go/packages/compiler/src/lower/transform"
)

// RemoveIntegerLiteralCasts removes implicit conversions between integer
// types, which are all one integer type in the target. A converted constant
// takes the converted type.
func RemoveIntegerLiteralCasts(ctx *compilation.Context, expr ir.Expression, vctx visit.ExpressionContext) (transform.Result[ir.Expression], error) {
	op, ok := expr.(*ir.TypeOperatorCall)
	if !ok || (op.Operator != ir.TypeOperatorImplicitCast && op.Operator != ir.TypeOperatorImplicitIntegerCoercion) {
		return transform.NoChange[ir.Expression](), nil
	}
	b := ctx.Module.Builtins
	if !isPrimitiveInteger(b, op.Type) || !isPrimitiveInteger(b, op.Argument.GetType()) {
		return transform.NoChange[ir.Expression](), nil
	}

	if c, ok := op.Argument.(*ir.Const); ok && c.Kind.IsInteger() {
		return transform.Replace[ir.Expression](ir.NewConst(constKindOf(b, op.Type), c.Value, op.Type)), nil
	}
	return transform.Replace(op.Argument), nil
}
