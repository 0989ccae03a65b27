package visit

import (
	"dotlin-go/packages/compiler/src/ir"
)

// TypeContext tags the position in which a type occurs
type TypeContext int

const (
	// TypeContextClassSuperType - A super type of a class
	TypeContextClassSuperType TypeContext = iota
	// TypeContextTypeParameterSuperType - An upper bound of a type parameter
	TypeContextTypeParameterSuperType
	// TypeContextFunctionReturnType - The return type of a function or constructor
	TypeContextFunctionReturnType
	// TypeContextValueParameterType - The declared type of a value parameter
	TypeContextValueParameterType
	// TypeContextVarargElementType - The element type of a vararg value parameter
	TypeContextVarargElementType
	// TypeContextField - The type of a field
	TypeContextField
	// TypeContextVariable - The type of a local variable
	TypeContextVariable
	// TypeContextTypeAlias - The target of a type alias
	TypeContextTypeAlias
	// TypeContextExpressionType - The static type of an expression
	TypeContextExpressionType
	// TypeContextTypeOperand - The operand of a cast or instance check
	TypeContextTypeOperand
	// TypeContextVarargExpression - The element type of a vararg expression
	TypeContextVarargExpression
	// TypeContextCallTypeArgument - An explicit type argument of a call
	TypeContextCallTypeArgument
	// TypeContextTypeArgument - A type argument nested inside another type
	TypeContextTypeArgument
)

var typeContextNames = map[TypeContext]string{
	TypeContextClassSuperType:         "class super type",
	TypeContextTypeParameterSuperType: "type parameter super type",
	TypeContextFunctionReturnType:     "function return type",
	TypeContextValueParameterType:     "value parameter type",
	TypeContextVarargElementType:      "vararg element type",
	TypeContextField:                  "field type",
	TypeContextVariable:               "variable type",
	TypeContextTypeAlias:              "type alias target",
	TypeContextExpressionType:         "expression type",
	TypeContextTypeOperand:            "type operand",
	TypeContextVarargExpression:       "vararg expression element type",
	TypeContextCallTypeArgument:       "call type argument",
	TypeContextTypeArgument:           "type argument",
}

func (c TypeContext) String() string {
	return typeContextNames[c]
}

// IsSuperType reports whether the context is a super type or upper bound
func (c TypeContext) IsSuperType() bool {
	return c == TypeContextClassSuperType || c == TypeContextTypeParameterSuperType
}

// TypeTransform rewrites a type found in context tc of owner.
type TypeTransform func(t ir.Type, tc TypeContext, owner ir.Node) ir.Type

// TypeVisitor receives a type found in context tc of owner.
type TypeVisitor func(t ir.Type, tc TypeContext, owner ir.Node)

// VisitTypes reports every type under root, including the arguments nested in
// generic types, which are reported with TypeContextTypeArgument. Function
// types are reported as a whole.
func VisitTypes(root ir.Node, fn TypeVisitor) {
	Walk(root, func(n ir.Node) bool {
		forEachTypeSlot(n, func(slot *ir.Type, tc TypeContext) {
			visitType(*slot, tc, n, fn)
		})
		return true
	})
}

func visitType(t ir.Type, tc TypeContext, owner ir.Node, fn TypeVisitor) {
	fn(t, tc, owner)
	if st, ok := t.(*ir.SimpleType); ok {
		for _, arg := range st.Arguments {
			if !arg.IsStar() {
				visitType(arg.Type, TypeContextTypeArgument, owner, fn)
			}
		}
	}
}

// TransformTypes replaces every top level type slot under root with the
// result of fn. Nested arguments are fn's responsibility.
func TransformTypes(root ir.Node, fn TypeTransform) {
	Walk(root, func(n ir.Node) bool {
		forEachTypeSlot(n, func(slot *ir.Type, tc TypeContext) {
			*slot = fn(*slot, tc, n)
		})
		return true
	})
}

func forEachTypeSlot(n ir.Node, fn func(slot *ir.Type, tc TypeContext)) {
	each := func(types []ir.Type, tc TypeContext) {
		for i := range types {
			if types[i] != nil {
				fn(&types[i], tc)
			}
		}
	}
	one := func(slot *ir.Type, tc TypeContext) {
		if *slot != nil {
			fn(slot, tc)
		}
	}

	switch n := n.(type) {
	case *ir.Class:
		each(n.SuperTypes, TypeContextClassSuperType)
	case *ir.TypeParameter:
		each(n.SuperTypes, TypeContextTypeParameterSuperType)
	case *ir.Function:
		one(&n.ReturnType, TypeContextFunctionReturnType)
	case *ir.Constructor:
		one(&n.ReturnType, TypeContextFunctionReturnType)
	case *ir.ValueParameter:
		one(&n.Type, TypeContextValueParameterType)
		one(&n.VarargElementType, TypeContextVarargElementType)
	case *ir.Field:
		one(&n.Type, TypeContextField)
	case *ir.Variable:
		one(&n.Type, TypeContextVariable)
	case *ir.TypeAlias:
		one(&n.Target, TypeContextTypeAlias)
	case ir.Expression:
		t := n.GetType()
		if t != nil {
			fn(&t, TypeContextExpressionType)
			n.SetType(t)
		}
		switch e := n.(type) {
		case *ir.TypeOperatorCall:
			one(&e.Operand, TypeContextTypeOperand)
		case *ir.Vararg:
			one(&e.ElementType, TypeContextVarargExpression)
		case *ir.Call:
			each(e.TypeArguments, TypeContextCallTypeArgument)
		}
	}
}
