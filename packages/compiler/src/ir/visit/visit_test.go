package visit_test

import (
	"testing"

	"dotlin-go/packages/compiler/src/ir"
	"dotlin-go/packages/compiler/src/ir/irtest"
	"dotlin-go/packages/compiler/src/ir/visit"

	"github.com/google/go-cmp/cmp"
)

func TestVisitTypes(t *testing.T) {
	fx := irtest.NewFixture()
	list := fx.Class("List", ir.ClassKindInterface)
	tp := ir.NewTypeParameter("E", ir.VarianceOut, fx.Builtins.AnyType())
	list.AddTypeParameter(tp)
	fx.Module.Bind(tp)

	fn := ir.NewFunction("first", fx.Int())
	items := ir.NewValueParameter("items", ir.NewSimpleType(list.GetSymbol(), ir.TypeArgument{Variance: ir.VarianceIn, Type: fx.Int()}))
	items.VarargElementType = fx.Int()
	fn.AddValueParameter(items)
	fx.File.AddDeclaration(fn)
	fx.Module.Bind(fn)
	fn.Body = ir.NewExpressionBody(ir.NewTypeOperatorCall(ir.TypeOperatorCast,
		ir.NewGetValue(items.GetSymbol(), items.Type), fx.Int(), fx.Int()))

	var got []string
	visit.VisitTypes(fx.File, func(typ ir.Type, tc visit.TypeContext, owner ir.Node) {
		got = append(got, tc.String()+": "+ir.RenderType(fx.Symbols(), typ))
	})
	expected := []string{
		"class super type: Any",
		"type parameter super type: Any",
		"function return type: Int",
		"value parameter type: List<in Int>",
		"type argument: Int",
		"vararg element type: Int",
		"expression type: Int",
		"type operand: Int",
		"expression type: List<in Int>",
		"type argument: Int",
	}
	if diff := cmp.Diff(expected, got); diff != "" {
		t.Errorf("VisitTypes() mismatch (-want +got):\n%s", diff)
	}
}

func TestTransformTypes(t *testing.T) {
	fx := irtest.NewFixture()
	field := ir.NewField("x", fx.Int())
	fx.File.AddDeclaration(field)
	fx.Module.Bind(field)
	field.Initializer = fx.IntConst(1)

	visit.TransformTypes(fx.File, func(typ ir.Type, tc visit.TypeContext, owner ir.Node) ir.Type {
		if tc == visit.TypeContextField {
			return ir.Dynamic
		}
		return typ
	})
	if field.Type != ir.Type(ir.Dynamic) {
		t.Errorf("field type = %s, want dynamic", ir.RenderType(fx.Symbols(), field.Type))
	}
	if diff := cmp.Diff("Int", ir.RenderType(fx.Symbols(), field.Initializer.GetType())); diff != "" {
		t.Errorf("initializer type mismatch (-want +got):\n%s", diff)
	}
}

func TestTransformExpressions(t *testing.T) {
	t.Run("should report containers and initializers", func(t *testing.T) {
		fx := irtest.NewFixture()
		class := fx.Class("C", ir.ClassKindClass)
		field := ir.NewField("f", fx.Int())
		class.AddDeclaration(field)
		lambda := ir.NewFunction("<anonymous>", fx.Int())
		lambda.Body = ir.NewExpressionBody(fx.IntConst(1))
		field.Initializer = ir.NewFunctionExpr(lambda, ir.NewFunctionType(fx.Int()))
		lambda.SetParent(class)
		method := ir.NewFunction("m", fx.Int())
		class.AddDeclaration(method)
		method.Body = ir.NewExpressionBody(fx.IntConst(2))
		fx.Module.Bind(class)

		type seen struct {
			Value       interface{}
			Container   string
			Initializer string
		}
		var got []seen
		visit.TransformExpressions(fx.File, visit.ExpressionContext{}, func(expr ir.Expression, ctx visit.ExpressionContext) ir.Expression {
			if c, ok := expr.(*ir.Const); ok {
				s := seen{Value: c.Value}
				if decl, ok := ctx.Container.(ir.Declaration); ok {
					s.Container = decl.GetName()
				}
				if ctx.InInitializer() {
					s.Initializer = ctx.Initializer.GetName()
				}
				got = append(got, s)
			}
			return expr
		})
		expected := []seen{
			{Value: int64(1), Container: "<anonymous>", Initializer: "f"},
			{Value: int64(2), Container: "m"},
		}
		if diff := cmp.Diff(expected, got); diff != "" {
			t.Errorf("TransformExpressions() mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("should transform children before parents", func(t *testing.T) {
		fx := irtest.NewFixture()
		fn := ir.NewFunction("f", fx.Builtins.BooleanType())
		fx.File.AddDeclaration(fn)
		fx.Module.Bind(fn)
		boolType := fx.Builtins.BooleanType()
		fn.Body = ir.NewExpressionBody(ir.NewConjunction(boolType,
			ir.NewConst(ir.ConstKindBoolean, true, boolType),
			ir.NewConst(ir.ConstKindBoolean, false, boolType)))

		var order []string
		visit.TransformExpressions(fn, visit.ExpressionContext{}, func(expr ir.Expression, _ visit.ExpressionContext) ir.Expression {
			switch e := expr.(type) {
			case *ir.Const:
				order = append(order, "const")
				return ir.NewConst(ir.ConstKindBoolean, !e.Value.(bool), e.Type)
			case *ir.Conjunction:
				order = append(order, "conjunction")
			}
			return expr
		})
		if diff := cmp.Diff([]string{"const", "const", "conjunction"}, order); diff != "" {
			t.Errorf("visit order mismatch (-want +got):\n%s", diff)
		}
		conj := fn.Body.(*ir.ExpressionBody).Expression.(*ir.Conjunction)
		if conj.Operands[0].(*ir.Const).Value != false {
			t.Errorf("replacement was not stored in its slot")
		}
	})
}

func TestWalk(t *testing.T) {
	fx := irtest.NewFixture()
	f := fx.IdentityFunction(fx.File, "f")
	var names []string
	visit.Walk(fx.File, func(n ir.Node) bool {
		if decl, ok := n.(ir.Declaration); ok {
			names = append(names, decl.GetName())
		}
		_, isBody := n.(ir.Body)
		return !isBody
	})
	if diff := cmp.Diff([]string{f.Name, "T", "x"}, names); diff != "" {
		t.Errorf("Walk() mismatch (-want +got):\n%s", diff)
	}
}
