package phases

import (
	"dotlin-go/packages/compiler/src/ir"
	"dotlin-go/packages/compiler/src/ir/visit"
	"dotlin-go/packages/compiler/src/lower/compilation"
	"dotlin-go/packages/compiler/src/lower/transform"
)

// ConjunctionsDisjunctions turns the whens that `&&` and `||` were desugared
// to back into conjunctions and disjunctions. `a && b` is
// `when { a -> b; else -> false }` and `a || b` is
// `when { a -> true; else -> b }`.
func ConjunctionsDisjunctions(ctx *compilation.Context, expr ir.Expression, vctx visit.ExpressionContext) (transform.Result[ir.Expression], error) {
	when, ok := expr.(*ir.When)
	if !ok || len(when.Branches) == 0 {
		return transform.NoChange[ir.Expression](), nil
	}

	first := when.Branches[0]
	last := when.Branches[len(when.Branches)-1]
	switch when.Origin {
	case ir.OriginAndAnd:
		var operands []ir.Expression
		for _, e := range []ir.Expression{first.Condition, first.Result} {
			// children are lowered first, so `a && b && c` arrives as a nested conjunction
			if nested, ok := e.(*ir.Conjunction); ok {
				operands = append(operands, nested.Operands...)
			} else {
				operands = append(operands, e)
			}
		}
		return transform.Replace[ir.Expression](ir.NewConjunction(when.Type, operands...)), nil
	case ir.OriginOrOr:
		var operands []ir.Expression
		for _, e := range []ir.Expression{first.Condition, last.Result} {
			if nested, ok := e.(*ir.Disjunction); ok {
				operands = append(operands, nested.Operands...)
			} else {
				operands = append(operands, e)
			}
		}
		return transform.Replace[ir.Expression](ir.NewDisjunction(when.Type, operands...)), nil
	}
	return transform.NoChange[ir.Expression](), nil
}
