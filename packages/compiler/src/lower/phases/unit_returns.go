package phases

import (
	"dotlin-go/packages/compiler/src/ir"
	"dotlin-go/packages/compiler/src/ir/visit"
	"dotlin-go/packages/compiler/src/lower/compilation"
	"dotlin-go/packages/compiler/src/lower/transform"
)

// UnitReturns turns `return Unit` into a bare return.
func UnitReturns(ctx *compilation.Context, expr ir.Expression, vctx visit.ExpressionContext) (transform.Result[ir.Expression], error) {
	ret, ok := expr.(*ir.Return)
	if !ok {
		return transform.NoChange[ir.Expression](), nil
	}
	obj, ok := ret.Value.(*ir.GetObject)
	if !ok || obj.Class != ctx.Module.Builtins.Unit.GetSymbol() {
		return transform.NoChange[ir.Expression](), nil
	}
	return transform.Replace[ir.Expression](ir.NewReturn(ret.Target, nil, ret.Type)), nil
}
