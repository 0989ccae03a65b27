package phases

import (
	"dotlin-go/packages/compiler/src/ir"
	"dotlin-go/packages/compiler/src/lower/compilation"
	"dotlin-go/packages/compiler/src/lower/transform"
)

// DefaultConstructors removes primary constructors that do nothing but call
// the super constructor without arguments. The target generates them.
func DefaultConstructors(ctx *compilation.Context, decl ir.Declaration) (transform.Result[ir.Declaration], error) {
	ctor, ok := decl.(*ir.Constructor)
	if !ok || !ctor.IsPrimary || ctor.Visibility != ir.VisibilityPublic ||
		len(ctor.ValueParameters) > 0 || len(ctor.TypeParameters) > 0 {
		return transform.NoChange[ir.Declaration](), nil
	}

	body, ok := ctor.Body.(*ir.BlockBody)
	if !ok || len(body.Statements) != 1 {
		return transform.NoChange[ir.Declaration](), nil
	}
	call, ok := body.Statements[0].(*ir.Call)
	if !ok || call.Origin != ir.OriginDelegatingConstructorCall ||
		len(call.Arguments) > 0 || len(call.TypeArguments) > 0 {
		return transform.NoChange[ir.Declaration](), nil
	}

	return transform.Remove[ir.Declaration](), nil
}
