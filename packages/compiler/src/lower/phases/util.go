package phases

import (
	"strings"

	"dotlin-go/packages/compiler/src/ir"
)

// isSpecialName reports whether name is generated, like `<init>` or `<get-x>`
func isSpecialName(name string) bool {
	return strings.HasPrefix(name, "<")
}

// isLocal reports whether decl is declared inside a function body
func isLocal(decl ir.Declaration) bool {
	switch decl.GetParent().(type) {
	case *ir.Function, *ir.Constructor:
		return true
	}
	return false
}

func containsDeclaration(list []ir.Declaration, decl ir.Declaration) bool {
	for _, d := range list {
		if d == decl {
			return true
		}
	}
	return false
}

// isPrimitiveInteger reports whether t is one of the integer builtins, which
// are all the same integer type in the target.
func isPrimitiveInteger(b *ir.Builtins, t ir.Type) bool {
	st, ok := t.(*ir.SimpleType)
	if !ok || st.Nullable {
		return false
	}
	switch st.Classifier {
	case b.Byte.GetSymbol(), b.Short.GetSymbol(), b.Int.GetSymbol(), b.Long.GetSymbol():
		return true
	}
	return false
}

// constKindOf returns the constant kind of values of the integer type t
func constKindOf(b *ir.Builtins, t ir.Type) ir.ConstKind {
	switch t.(*ir.SimpleType).Classifier {
	case b.Byte.GetSymbol():
		return ir.ConstKindByte
	case b.Short.GetSymbol():
		return ir.ConstKindShort
	case b.Long.GetSymbol():
		return ir.ConstKindLong
	}
	return ir.ConstKindInt
}
