package phases

import (
	"dotlin-go/packages/compiler/src/ir"
	"dotlin-go/packages/compiler/src/ir/visit"
	"dotlin-go/packages/compiler/src/lower/compilation"
	"dotlin-go/packages/compiler/src/lower/transform"
)

// Composites splices composite blocks in statement position into the
// enclosing statement list. Composites do not open a scope, so their
// statements belong to the enclosing list.
func Composites(ctx *compilation.Context, stmt ir.Statement, vctx visit.ExpressionContext) (transform.Result[ir.Statement], error) {
	block, ok := stmt.(*ir.Block)
	if !ok || block.Origin != ir.OriginComposite {
		return transform.NoChange[ir.Statement](), nil
	}

	result := transform.NoChange[ir.Statement]()
	for _, inner := range flattenComposites(block.Statements) {
		result = result.And(transform.AddBefore(inner))
	}
	return result.And(transform.Remove[ir.Statement]()), nil
}

func flattenComposites(statements []ir.Statement) []ir.Statement {
	var flat []ir.Statement
	for _, stmt := range statements {
		if block, ok := stmt.(*ir.Block); ok && block.Origin == ir.OriginComposite {
			flat = append(flat, flattenComposites(block.Statements)...)
			continue
		}
		flat = append(flat, stmt)
	}
	return flat
}
