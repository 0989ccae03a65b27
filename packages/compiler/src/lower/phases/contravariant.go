package phases

import (
	"dotlin-go/packages/compiler/src/ir"
	"dotlin-go/packages/compiler/src/ir/visit"
	"dotlin-go/packages/compiler/src/lower/compilation"
)

// Contravariant replaces type arguments bound to type parameters declared
// `in` by dynamic, since the target has no `in` variance. Use-site
// projections are kept. Function types are left alone: their parameter
// positions are already contravariant by construction.
func Contravariant(ctx *compilation.Context, file *ir.File) error {
	visit.TransformTypes(file, func(t ir.Type, tc visit.TypeContext, owner ir.Node) ir.Type {
		switch tc {
		case visit.TypeContextTypeParameterSuperType, visit.TypeContextValueParameterType,
			visit.TypeContextField, visit.TypeContextVariable:
			return dynamicContravariantArguments(ctx.Symbols, t)
		}
		return t
	})
	return nil
}

func dynamicContravariantArguments(table *ir.SymbolTable, t ir.Type) ir.Type {
	st, ok := t.(*ir.SimpleType)
	if !ok || len(st.Arguments) == 0 {
		return t
	}
	params := declaredTypeParameters(table, st.Classifier)

	var args []ir.TypeArgument
	for i, arg := range st.Arguments {
		replacement := arg
		switch {
		case arg.IsStar():
		case i < len(params) && params[i].Variance == ir.VarianceIn:
			replacement = ir.InvariantArgument(ir.Dynamic)
		default:
			if nested := dynamicContravariantArguments(table, arg.Type); nested != arg.Type {
				replacement = ir.TypeArgument{Variance: arg.Variance, Type: nested}
			}
		}
		if replacement != arg && args == nil {
			args = make([]ir.TypeArgument, len(st.Arguments))
			copy(args, st.Arguments)
		}
		if args != nil {
			args[i] = replacement
		}
	}
	if args == nil {
		return t
	}
	return st.WithArguments(args)
}

func declaredTypeParameters(table *ir.SymbolTable, classifier ir.Symbol) []*ir.TypeParameter {
	decl, ok := table.Lookup(classifier)
	if !ok {
		return nil
	}
	switch d := decl.(type) {
	case *ir.Class:
		return d.TypeParameters
	case *ir.TypeAlias:
		return d.TypeParameters
	}
	return nil
}
