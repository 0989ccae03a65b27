package phases

import (
	"dotlin-go/packages/compiler/src/ir"
	"dotlin-go/packages/compiler/src/ir/visit"
	"dotlin-go/packages/compiler/src/lower/compilation"
)

// PropertiesReferencingThis marks fields whose initializer reads `this` as
// late, since the target evaluates field initializers before `this` exists.
func PropertiesReferencingThis(ctx *compilation.Context, file *ir.File) error {
	visit.TransformExpressions(file, visit.NewExpressionContext(file), func(expr ir.Expression, vctx visit.ExpressionContext) ir.Expression {
		if _, ok := expr.(*ir.GetThis); !ok {
			return expr
		}
		if field, ok := vctx.InitializerField(); ok && !field.IsLate {
			field.IsLate = true
			ctx.Logf("field %q references this in its initializer", field.Name)
		}
		return expr
	})
	return nil
}
