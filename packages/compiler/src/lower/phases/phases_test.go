package phases_test

import (
	"testing"

	"dotlin-go/packages/compiler/src/ir"
	"dotlin-go/packages/compiler/src/ir/irtest"
	"dotlin-go/packages/compiler/src/lower"
	"dotlin-go/packages/compiler/src/lower/compilation"
	"dotlin-go/packages/compiler/src/lower/phases"

	"github.com/google/go-cmp/cmp"
)

func runPhase(t *testing.T, fx *irtest.Fixture, name string, kind lower.Granularity, fn interface{}) {
	t.Helper()
	phase := lower.Phase{Name: name, Kind: kind, Fn: fn}
	if err := lower.Run(compilation.NewContext(fx.Module, nil), []lower.Phase{phase}); err != nil {
		t.Fatalf("%s error = %v", name, err)
	}
}

func names(decls []ir.Declaration) []string {
	result := make([]string, len(decls))
	for i, decl := range decls {
		result[i] = decl.GetName()
	}
	return result
}

func assertDump(t *testing.T, fx *irtest.Fixture, expected string, n ir.Node) {
	t.Helper()
	if diff := cmp.Diff(expected, fx.Dump(n)); diff != "" {
		t.Errorf("dump mismatch (-want +got):\n%s", diff)
	}
}

func booleanParameter(fx *irtest.Fixture, fn *ir.Function, name string) *ir.GetValue {
	vp := ir.NewValueParameter(name, fx.Builtins.BooleanType())
	fn.AddValueParameter(vp)
	fx.Module.Bind(vp)
	return ir.NewGetValue(vp.GetSymbol(), fx.Builtins.BooleanType())
}

func booleanConst(fx *irtest.Fixture, v bool) *ir.Const {
	return ir.NewConst(ir.ConstKindBoolean, v, fx.Builtins.BooleanType())
}

func TestInterfaceToAbstractClass(t *testing.T) {
	fx := irtest.NewFixture()
	shape := fx.Class("Shape", ir.ClassKindInterface)
	area := ir.NewFunction("area", fx.Int())
	shape.AddDeclaration(area)
	fx.Module.Bind(area)
	square := fx.Class("Square", ir.ClassKindClass)
	square.SuperTypes = []ir.Type{shape.DefaultType()}

	runPhase(t, fx, "InterfaceToAbstractClass", lower.GranularityDeclaration, phases.InterfaceToAbstractClass)

	converted, ok := fx.File.Declarations[0].(*ir.Class)
	if !ok || converted == shape {
		t.Fatalf("Shape was not replaced by a copy")
	}
	assertDump(t, fx, `CLASS name=Shape kind=class modality=abstract visibility=public supertypes=[Any]
  FUN name=area returnType=Int modality=abstract visibility=public
`, converted)
	if got := square.SuperTypes[0].(*ir.SimpleType).Classifier; got != converted.GetSymbol() {
		t.Errorf("Square extends #%d, want the abstract class #%d", got, converted.GetSymbol())
	}
}

func TestPrivateNames(t *testing.T) {
	fx := irtest.NewFixture()
	helper := fx.IdentityFunction(fx.File, "helper")
	helper.Visibility = ir.VisibilityPrivate
	fx.IdentityFunction(fx.File, "__util")
	secret := fx.IdentityFunction(fx.File, "_secret")
	secret.Visibility = ir.VisibilityPrivate
	caller := fx.Caller(fx.File, "caller", helper)

	runPhase(t, fx, "PrivateNames", lower.GranularityDeclaration, phases.PrivateNames)

	expected := []string{"_helper", "util", "_secret", "caller"}
	if diff := cmp.Diff(expected, names(fx.File.Declarations)); diff != "" {
		t.Errorf("file declarations mismatch (-want +got):\n%s", diff)
	}
	if fx.File.Declarations[2] != ir.Declaration(secret) {
		t.Errorf("_secret was copied although its name is already private")
	}
	assertDump(t, fx, `FUN name=caller returnType=Unit modality=final visibility=public
  BLOCK_BODY
    CALL _helper type=Int typeArguments=[Int]
      CONST kind=Int value=5 type=Int
`, caller)
}

func TestConstructorNames(t *testing.T) {
	fx := irtest.NewFixture()
	point := fx.Class("Point", ir.ClassKindClass)
	primary := ir.NewConstructor(point.DefaultType(), true)
	point.AddDeclaration(primary)
	secondary := ir.NewConstructor(point.DefaultType(), false)
	v := ir.NewValueParameter("v", fx.Int())
	secondary.AddValueParameter(v)
	point.AddDeclaration(secondary)
	fx.Module.Bind(point)
	secondary.Body = ir.NewBlockBody(ir.NewGetValue(v.GetSymbol(), fx.Int()))

	factory := ir.NewFunction("create", point.DefaultType())
	factory.Body = ir.NewBlockBody(ir.NewCall(secondary.GetSymbol(), point.DefaultType(), fx.IntConst(1)))
	fx.File.AddDeclaration(factory)
	fx.Module.Bind(factory)

	runPhase(t, fx, "ConstructorNames", lower.GranularityDeclaration, phases.ConstructorNames)

	assertDump(t, fx, `CLASS name=Point kind=class modality=final visibility=public supertypes=[Any]
  CONSTRUCTOR name=<init> returnType=Point visibility=public primary
  CONSTRUCTOR name=$constructor$1 returnType=Point visibility=public
    VALUE_PARAMETER name=v index=0 type=Int
    BLOCK_BODY
      GET_VALUE v type=Int
`, point)
	assertDump(t, fx, `FUN name=create returnType=Point modality=final visibility=public
  BLOCK_BODY
    CALL $constructor$1 type=Point
      CONST kind=Int value=1 type=Int
`, factory)

	named := point.Constructors()[1]
	read := named.Body.(*ir.BlockBody).Statements[0].(*ir.GetValue)
	if read.Symbol != named.ValueParameters[0].GetSymbol() {
		t.Errorf("the moved body reads #%d, want the copied parameter #%d", read.Symbol, named.ValueParameters[0].GetSymbol())
	}
}

func TestDefaultConstructors(t *testing.T) {
	fx := irtest.NewFixture()
	base := fx.Class("Base", ir.ClassKindClass)
	base.Modality = ir.ModalityOpen
	baseConstructor := ir.NewConstructor(base.DefaultType(), true)
	base.AddDeclaration(baseConstructor)
	fx.Module.Bind(baseConstructor)

	superCall := func(args ...ir.Expression) *ir.Call {
		call := ir.NewCall(baseConstructor.GetSymbol(), fx.Builtins.UnitType(), args...)
		call.Origin = ir.OriginDelegatingConstructorCall
		return call
	}
	tests := []struct {
		name      string
		configure func(ctor *ir.Constructor)
		body      func() *ir.BlockBody
		removed   bool
	}{
		{
			name:    "should remove a constructor that only calls super",
			body:    func() *ir.BlockBody { return ir.NewBlockBody(superCall()) },
			removed: true,
		},
		{
			name:    "should keep a constructor passing arguments to super",
			body:    func() *ir.BlockBody { return ir.NewBlockBody(superCall(fx.IntConst(1))) },
			removed: false,
		},
		{
			name: "should keep a private constructor",
			configure: func(ctor *ir.Constructor) {
				ctor.Visibility = ir.VisibilityPrivate
			},
			body:    func() *ir.BlockBody { return ir.NewBlockBody(superCall()) },
			removed: false,
		},
		{
			name: "should keep a constructor with parameters",
			configure: func(ctor *ir.Constructor) {
				ctor.AddValueParameter(ir.NewValueParameter("v", fx.Int()))
			},
			body:    func() *ir.BlockBody { return ir.NewBlockBody(superCall()) },
			removed: false,
		},
		{
			name:    "should keep a constructor doing more work",
			body:    func() *ir.BlockBody { return ir.NewBlockBody(superCall(), fx.IntConst(1)) },
			removed: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			class := fx.Class("Derived", ir.ClassKindClass)
			class.SuperTypes = []ir.Type{base.DefaultType()}
			ctor := ir.NewConstructor(class.DefaultType(), true)
			if tt.configure != nil {
				tt.configure(ctor)
			}
			ctor.Body = tt.body()
			class.AddDeclaration(ctor)
			fx.Module.Bind(ctor)

			runPhase(t, fx, "DefaultConstructors", lower.GranularityDeclaration, phases.DefaultConstructors)

			if removed := len(class.Constructors()) == 0; removed != tt.removed {
				t.Errorf("removed = %v, want %v", removed, tt.removed)
			}
			if len(base.Constructors()) != 1 {
				t.Errorf("the bodiless constructor of Base was removed")
			}
		})
	}
}

func TestPropertySimplifying(t *testing.T) {
	t.Run("should turn a property with default accessors into its field", func(t *testing.T) {
		fx := irtest.NewFixture()
		box := fx.Class("Box", ir.ClassKindClass)
		prop := fx.Property(box, "size", fx.Int(), true)

		use := ir.NewFunction("use", fx.Int())
		b := ir.NewValueParameter("b", box.DefaultType())
		use.AddValueParameter(b)
		fx.File.AddDeclaration(use)
		fx.Module.Bind(use)
		get := ir.NewCall(prop.Getter.GetSymbol(), fx.Int())
		get.DispatchReceiver = ir.NewGetValue(b.GetSymbol(), box.DefaultType())
		set := ir.NewCall(prop.Setter.GetSymbol(), fx.Builtins.UnitType(), fx.IntConst(3))
		set.DispatchReceiver = ir.NewGetValue(b.GetSymbol(), box.DefaultType())
		use.Body = ir.NewBlockBody(get, set)

		runPhase(t, fx, "PropertySimplifying", lower.GranularityDeclaration, phases.PropertySimplifying)

		assertDump(t, fx, `CLASS name=Box kind=class modality=final visibility=public supertypes=[Any]
  FIELD name=size type=Int visibility=public
`, box)
		assertDump(t, fx, `FUN name=use returnType=Int modality=final visibility=public
  VALUE_PARAMETER name=b index=0 type=Box
  BLOCK_BODY
    GET_FIELD size type=Int
      GET_VALUE b type=Box
    SET_FIELD size type=Unit
      GET_VALUE b type=Box
      CONST kind=Int value=3 type=Int
`, use)
	})

	t.Run("should flatten a property with a custom getter", func(t *testing.T) {
		fx := irtest.NewFixture()
		box := fx.Class("Box", ir.ClassKindClass)
		prop := fx.Property(box, "area", fx.Int(), false)
		prop.Getter.Origin = ir.OriginDefined

		runPhase(t, fx, "PropertySimplifying", lower.GranularityDeclaration, phases.PropertySimplifying)

		assertDump(t, fx, `CLASS name=Box kind=class modality=final visibility=public supertypes=[Any]
  FIELD name=$area type=Int visibility=public final
  FUN name=area returnType=Int modality=final visibility=public correspondingProperty=area
    BLOCK_BODY
      RETURN target=area type=Nothing
        GET_FIELD $area type=Int
          GET_THIS Box type=Box
`, box)
	})
}

func TestPropertiesReferencingThis(t *testing.T) {
	fx := irtest.NewFixture()
	class := fx.Class("Node", ir.ClassKindClass)
	self := ir.NewField("self", class.DefaultType())
	self.Initializer = ir.NewGetThis(class.GetSymbol(), class.DefaultType())
	class.AddDeclaration(self)
	count := ir.NewField("count", fx.Int())
	count.Initializer = fx.IntConst(0)
	class.AddDeclaration(count)
	fx.Module.Bind(class)

	runPhase(t, fx, "PropertiesReferencingThis", lower.GranularityFile, phases.PropertiesReferencingThis)

	if !self.IsLate {
		t.Errorf("self is not late although its initializer reads this")
	}
	if count.IsLate {
		t.Errorf("count is late although its initializer is a constant")
	}
}

func TestComposites(t *testing.T) {
	fx := irtest.NewFixture()
	composite := func(statements ...ir.Statement) *ir.Block {
		block := ir.NewBlock(fx.Builtins.UnitType(), statements...)
		block.Origin = ir.OriginComposite
		return block
	}
	fn := ir.NewFunction("f", fx.Builtins.UnitType())
	fn.Body = ir.NewBlockBody(composite(fx.IntConst(1), composite(fx.IntConst(2))), fx.IntConst(3))
	fx.File.AddDeclaration(fn)
	fx.Module.Bind(fn)

	runPhase(t, fx, "Composites", lower.GranularityStatement, phases.Composites)

	assertDump(t, fx, `FUN name=f returnType=Unit modality=final visibility=public
  BLOCK_BODY
    CONST kind=Int value=1 type=Int
    CONST kind=Int value=2 type=Int
    CONST kind=Int value=3 type=Int
`, fn)
}

func TestConjunctionsDisjunctions(t *testing.T) {
	t.Run("should flatten chained conjunctions", func(t *testing.T) {
		fx := irtest.NewFixture()
		fn := ir.NewFunction("f", fx.Builtins.BooleanType())
		fx.File.AddDeclaration(fn)
		fx.Module.Bind(fn)
		a := booleanParameter(fx, fn, "a")
		b := booleanParameter(fx, fn, "b")
		c := booleanParameter(fx, fn, "c")
		and := func(left, right ir.Expression) *ir.When {
			return ir.NewWhen(fx.Builtins.BooleanType(), ir.OriginAndAnd,
				&ir.Branch{Condition: left, Result: right},
				&ir.Branch{Condition: booleanConst(fx, true), Result: booleanConst(fx, false)})
		}
		fn.Body = ir.NewExpressionBody(and(and(a, b), c))

		runPhase(t, fx, "ConjunctionsDisjunctions", lower.GranularityExpression, phases.ConjunctionsDisjunctions)

		assertDump(t, fx, `EXPRESSION_BODY
  CONJUNCTION type=Boolean
    GET_VALUE a type=Boolean
    GET_VALUE b type=Boolean
    GET_VALUE c type=Boolean
`, fn.Body)
	})

	t.Run("should turn an or into a disjunction", func(t *testing.T) {
		fx := irtest.NewFixture()
		fn := ir.NewFunction("f", fx.Builtins.BooleanType())
		fx.File.AddDeclaration(fn)
		fx.Module.Bind(fn)
		a := booleanParameter(fx, fn, "a")
		b := booleanParameter(fx, fn, "b")
		fn.Body = ir.NewExpressionBody(ir.NewWhen(fx.Builtins.BooleanType(), ir.OriginOrOr,
			&ir.Branch{Condition: a, Result: booleanConst(fx, true)},
			&ir.Branch{Condition: booleanConst(fx, true), Result: b}))

		runPhase(t, fx, "ConjunctionsDisjunctions", lower.GranularityExpression, phases.ConjunctionsDisjunctions)

		assertDump(t, fx, `EXPRESSION_BODY
  DISJUNCTION type=Boolean
    GET_VALUE a type=Boolean
    GET_VALUE b type=Boolean
`, fn.Body)
	})

	t.Run("should leave an if alone", func(t *testing.T) {
		fx := irtest.NewFixture()
		fn := ir.NewFunction("f", fx.Builtins.BooleanType())
		fx.File.AddDeclaration(fn)
		fx.Module.Bind(fn)
		a := booleanParameter(fx, fn, "a")
		fn.Body = ir.NewExpressionBody(ir.NewWhen(fx.Builtins.BooleanType(), ir.OriginIf,
			&ir.Branch{Condition: a, Result: booleanConst(fx, false)}))

		runPhase(t, fx, "ConjunctionsDisjunctions", lower.GranularityExpression, phases.ConjunctionsDisjunctions)

		assertDump(t, fx, `EXPRESSION_BODY
  WHEN type=Boolean origin=IF
    BRANCH
      GET_VALUE a type=Boolean
      CONST kind=Boolean value=false type=Boolean
`, fn.Body)
	})
}

func TestRemoveIntegerLiteralCasts(t *testing.T) {
	fx := irtest.NewFixture()
	long := fx.Builtins.Long.DefaultType()
	str := fx.Builtins.StringType()
	fn := ir.NewFunction("f", fx.Builtins.UnitType())
	x := ir.NewValueParameter("x", fx.Int())
	fn.AddValueParameter(x)
	fx.File.AddDeclaration(fn)
	fx.Module.Bind(fn)
	fn.Body = ir.NewBlockBody(
		ir.NewTypeOperatorCall(ir.TypeOperatorImplicitIntegerCoercion, fx.IntConst(7), long, long),
		ir.NewTypeOperatorCall(ir.TypeOperatorImplicitCast, ir.NewGetValue(x.GetSymbol(), fx.Int()), long, long),
		ir.NewTypeOperatorCall(ir.TypeOperatorCast, ir.NewGetValue(x.GetSymbol(), fx.Int()), long, long),
		ir.NewTypeOperatorCall(ir.TypeOperatorImplicitCast, ir.NewGetValue(x.GetSymbol(), fx.Int()), str, str),
	)

	runPhase(t, fx, "RemoveIntegerLiteralCasts", lower.GranularityExpression, phases.RemoveIntegerLiteralCasts)

	assertDump(t, fx, `BLOCK_BODY
  CONST kind=Long value=7 type=Long
  GET_VALUE x type=Int
  TYPE_OP CAST operand=Long type=Long
    GET_VALUE x type=Int
  TYPE_OP IMPLICIT_CAST operand=String type=String
    GET_VALUE x type=Int
`, fn.Body)
}

func TestUnitReturns(t *testing.T) {
	fx := irtest.NewFixture()
	fn := ir.NewFunction("f", fx.Builtins.UnitType())
	fx.File.AddDeclaration(fn)
	fx.Module.Bind(fn)
	unit := ir.NewGetObject(fx.Builtins.Unit.GetSymbol(), fx.Builtins.UnitType())
	fn.Body = ir.NewBlockBody(ir.NewReturn(fn.GetSymbol(), unit, fx.Builtins.NothingType()))

	runPhase(t, fx, "UnitReturns", lower.GranularityExpression, phases.UnitReturns)

	assertDump(t, fx, `FUN name=f returnType=Unit modality=final visibility=public
  BLOCK_BODY
    RETURN target=f type=Nothing
`, fn)
}

func TestContravariant(t *testing.T) {
	fx := irtest.NewFixture()
	consumer := fx.Class("Consumer", ir.ClassKindClass)
	consumer.AddTypeParameter(ir.NewTypeParameter("T", ir.VarianceIn))
	box := fx.Class("Box", ir.ClassKindClass)
	box.AddTypeParameter(ir.NewTypeParameter("T", ir.VarianceInvariant))
	fx.Module.Bind(consumer)
	fx.Module.Bind(box)

	consumerOf := func(arg ir.Type) ir.Type {
		return ir.NewSimpleType(consumer.GetSymbol(), ir.InvariantArgument(arg))
	}
	boxOf := func(arg ir.TypeArgument) ir.Type {
		return ir.NewSimpleType(box.GetSymbol(), arg)
	}
	fn := ir.NewFunction("f", consumerOf(fx.Int()))
	fn.AddValueParameter(ir.NewValueParameter("p", consumerOf(fx.Int())))
	fn.AddValueParameter(ir.NewValueParameter("q", boxOf(ir.TypeArgument{Variance: ir.VarianceIn, Type: fx.Int()})))
	fn.AddValueParameter(ir.NewValueParameter("r", boxOf(ir.InvariantArgument(consumerOf(fx.Int())))))
	fn.AddValueParameter(ir.NewValueParameter("s", boxOf(ir.InvariantArgument(fx.Int()))))
	fx.File.AddDeclaration(fn)
	fx.Module.Bind(fn)

	runPhase(t, fx, "Contravariant", lower.GranularityFile, phases.Contravariant)

	assertDump(t, fx, `FUN name=f returnType=Consumer<Int> modality=final visibility=public
  VALUE_PARAMETER name=p index=0 type=Consumer<dynamic>
  VALUE_PARAMETER name=q index=1 type=Box<in Int>
  VALUE_PARAMETER name=r index=2 type=Box<Consumer<dynamic>>
  VALUE_PARAMETER name=s index=3 type=Box<Int>
`, fn)
}

func TestCollectImports(t *testing.T) {
	fx := irtest.NewFixture()
	lib := fx.AddFile("lib.kt", "lib")
	helper := fx.IdentityFunction(lib, "helper")
	widget := ir.NewClass("Widget", ir.ClassKindClass)
	lib.AddDeclaration(widget)
	fx.Module.Bind(widget)

	fx.Caller(fx.File, "caller", helper)
	render := ir.NewFunction("render", fx.Builtins.UnitType())
	render.AddValueParameter(ir.NewValueParameter("w", widget.DefaultType()))
	fx.File.AddDeclaration(render)
	fx.Module.Bind(render)
	local := fx.IdentityFunction(fx.File, "local")
	fx.Caller(fx.File, "localCaller", local)

	runPhase(t, fx, "CollectImports", lower.GranularityFile, phases.CollectImports)

	if diff := cmp.Diff([]string{"lib.Widget", "lib.helper"}, fx.File.Imports); diff != "" {
		t.Errorf("main.kt imports mismatch (-want +got):\n%s", diff)
	}
	if len(lib.Imports) != 0 {
		t.Errorf("lib.kt imports = %v, want none", lib.Imports)
	}
}

func TestLower(t *testing.T) {
	fx := irtest.NewFixture()
	shape := fx.Class("Shape", ir.ClassKindInterface)
	area := ir.NewFunction("area", fx.Int())
	shape.AddDeclaration(area)
	fx.Module.Bind(area)
	square := fx.Class("Square", ir.ClassKindClass)
	square.SuperTypes = []ir.Type{shape.DefaultType()}
	side := fx.Property(square, "side", fx.Int(), false)

	measure := ir.NewFunction("measure", fx.Int())
	s := ir.NewValueParameter("s", square.DefaultType())
	measure.AddValueParameter(s)
	fx.File.AddDeclaration(measure)
	fx.Module.Bind(measure)
	get := ir.NewCall(side.Getter.GetSymbol(), fx.Int())
	get.DispatchReceiver = ir.NewGetValue(s.GetSymbol(), square.DefaultType())
	measure.Body = ir.NewBlockBody(ir.NewReturn(measure.GetSymbol(), get, fx.Builtins.NothingType()))

	if err := lower.Lower(fx.Module, nil); err != nil {
		t.Fatalf("Lower() error = %v", err)
	}

	assertDump(t, fx, `CLASS name=Shape kind=class modality=abstract visibility=public supertypes=[Any]
  FUN name=area returnType=Int modality=abstract visibility=public
`, fx.File.Declarations[0])
	assertDump(t, fx, `CLASS name=Square kind=class modality=final visibility=public supertypes=[Shape]
  FIELD name=side type=Int visibility=public final
`, square)
	assertDump(t, fx, `FUN name=measure returnType=Int modality=final visibility=public
  VALUE_PARAMETER name=s index=0 type=Square
  BLOCK_BODY
    RETURN target=measure type=Nothing
      GET_FIELD side type=Int
        GET_VALUE s type=Square
`, measure)
}
