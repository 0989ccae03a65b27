// Package irtest builds small program graphs for tests.
package irtest

import (
	"dotlin-go/packages/compiler/src/ir"
)

// Fixture is a module with one file, `main.kt` in package `app`
type Fixture struct {
	Module   *ir.Module
	File     *ir.File
	Builtins *ir.Builtins
}

// NewFixture creates a new Fixture
func NewFixture() *Fixture {
	m := ir.NewModule("test")
	file := ir.NewFile("main.kt", "app")
	m.AddFile(file)
	return &Fixture{Module: m, File: file, Builtins: m.Builtins}
}

// AddFile adds another file to the module
func (f *Fixture) AddFile(name, pkg string) *ir.File {
	file := ir.NewFile(name, pkg)
	f.Module.AddFile(file)
	return file
}

// Symbols returns the symbol table of the module
func (f *Fixture) Symbols() *ir.SymbolTable {
	return f.Module.Symbols
}

// Dump renders n
func (f *Fixture) Dump(n ir.Node) string {
	return ir.Dump(f.Module.Symbols, n)
}

// Int returns `Int`
func (f *Fixture) Int() ir.Type {
	return f.Builtins.IntType()
}

// IntConst returns the literal v
func (f *Fixture) IntConst(v int64) *ir.Const {
	return ir.NewConst(ir.ConstKindInt, v, f.Int())
}

// IdentityFunction adds `fun name<T>(x: T): T { return x }` to parent
func (f *Fixture) IdentityFunction(parent ir.DeclarationParent, name string) *ir.Function {
	fn := ir.NewFunction(name, nil)
	tp := ir.NewTypeParameter("T", ir.VarianceInvariant, f.Builtins.AnyType().WithNullability(true))
	fn.AddTypeParameter(tp)
	f.add(parent, fn)
	f.Module.Bind(fn)
	t := ir.NewSimpleType(tp.GetSymbol())
	fn.ReturnType = t
	x := ir.NewValueParameter("x", t)
	fn.AddValueParameter(x)
	f.Module.Bind(x)
	fn.Body = ir.NewBlockBody(ir.NewReturn(fn.GetSymbol(), ir.NewGetValue(x.GetSymbol(), t), f.Builtins.NothingType()))
	return fn
}

// Caller adds `fun name() { callee(5) }` to parent
func (f *Fixture) Caller(parent ir.DeclarationParent, name string, callee *ir.Function) *ir.Function {
	fn := ir.NewFunction(name, f.Builtins.UnitType())
	call := ir.NewCall(callee.GetSymbol(), f.Int(), f.IntConst(5))
	call.TypeArguments = []ir.Type{f.Int()}
	fn.Body = ir.NewBlockBody(call)
	f.add(parent, fn)
	f.Module.Bind(fn)
	return fn
}

// Property adds a property with a backing field and default accessors to
// class. A setter is generated when isVar is set.
func (f *Fixture) Property(class *ir.Class, name string, t ir.Type, isVar bool) *ir.Property {
	prop := ir.NewProperty(name, isVar)
	class.AddDeclaration(prop)
	f.Module.Bind(prop)

	field := ir.NewField(name, t)
	field.SetParent(class)
	field.IsFinal = !isVar
	field.CorrespondingProperty = prop.GetSymbol()
	prop.BackingField = field
	f.Module.Bind(field)

	getter := ir.NewFunction("<get-"+name+">", t)
	getter.SetParent(class)
	getter.Origin = ir.OriginDefaultAccessor
	getter.CorrespondingProperty = prop.GetSymbol()
	prop.Getter = getter
	f.Module.Bind(getter)
	getter.Body = ir.NewBlockBody(ir.NewReturn(getter.GetSymbol(),
		ir.NewGetField(field.GetSymbol(), ir.NewGetThis(class.GetSymbol(), class.DefaultType()), t),
		f.Builtins.NothingType()))

	if isVar {
		setter := ir.NewFunction("<set-"+name+">", f.Builtins.UnitType())
		setter.SetParent(class)
		setter.Origin = ir.OriginDefaultAccessor
		setter.CorrespondingProperty = prop.GetSymbol()
		value := ir.NewValueParameter("value", t)
		setter.AddValueParameter(value)
		prop.Setter = setter
		f.Module.Bind(setter)
		setter.Body = ir.NewBlockBody(ir.NewSetField(field.GetSymbol(),
			ir.NewGetThis(class.GetSymbol(), class.DefaultType()),
			ir.NewGetValue(value.GetSymbol(), t),
			f.Builtins.UnitType()))
	}
	return prop
}

// Class adds an empty class to the main file
func (f *Fixture) Class(name string, kind ir.ClassKind) *ir.Class {
	class := ir.NewClass(name, kind)
	class.SuperTypes = []ir.Type{f.Builtins.AnyType()}
	f.File.AddDeclaration(class)
	f.Module.Bind(class)
	return class
}

func (f *Fixture) add(parent ir.DeclarationParent, decl ir.Declaration) {
	switch p := parent.(type) {
	case *ir.File:
		p.AddDeclaration(decl)
	case *ir.Class:
		p.AddDeclaration(decl)
	default:
		decl.SetParent(parent)
	}
}
