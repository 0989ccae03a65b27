package ir

// BuiltinsPackage is the package of the builtin declarations
const BuiltinsPackage = "kotlin"

// Builtins holds the builtin classes every module can refer to. They live in
// their own file, which is never lowered and never part of a remap scope.
type Builtins struct {
	File    *File
	Any     *Class
	Nothing *Class
	Unit    *Class
	Boolean *Class
	Char    *Class
	Byte    *Class
	Short   *Class
	Int     *Class
	Long    *Class
	Double  *Class
	String  *Class
}

func newBuiltins(m *Module) *Builtins {
	file := NewFile("builtins", BuiltinsPackage)
	file.Module = m
	b := &Builtins{File: file}
	builtin := func(name string, kind ClassKind) *Class {
		class := NewClass(name, kind)
		class.IsExternal = true
		class.Modality = ModalityOpen
		file.AddDeclaration(class)
		m.Symbols.Bind(class)
		return class
	}
	b.Any = builtin("Any", ClassKindClass)
	b.Nothing = builtin("Nothing", ClassKindClass)
	b.Unit = builtin("Unit", ClassKindObject)
	b.Boolean = builtin("Boolean", ClassKindClass)
	b.Char = builtin("Char", ClassKindClass)
	b.Byte = builtin("Byte", ClassKindClass)
	b.Short = builtin("Short", ClassKindClass)
	b.Int = builtin("Int", ClassKindClass)
	b.Long = builtin("Long", ClassKindClass)
	b.Double = builtin("Double", ClassKindClass)
	b.String = builtin("String", ClassKindClass)
	return b
}

// Lookup returns the builtin class called name
func (b *Builtins) Lookup(name string) (*Class, bool) {
	for _, decl := range b.File.Declarations {
		if class, ok := decl.(*Class); ok && class.Name == name {
			return class, true
		}
	}
	return nil, false
}

// AnyType returns `Any`
func (b *Builtins) AnyType() *SimpleType { return b.Any.DefaultType() }

// UnitType returns `Unit`
func (b *Builtins) UnitType() *SimpleType { return b.Unit.DefaultType() }

// NothingType returns `Nothing`
func (b *Builtins) NothingType() *SimpleType { return b.Nothing.DefaultType() }

// BooleanType returns `Boolean`
func (b *Builtins) BooleanType() *SimpleType { return b.Boolean.DefaultType() }

// IntType returns `Int`
func (b *Builtins) IntType() *SimpleType { return b.Int.DefaultType() }

// StringType returns `String`
func (b *Builtins) StringType() *SimpleType { return b.String.DefaultType() }

// IsBuiltinFile reports whether file holds the builtins
func (b *Builtins) IsBuiltinFile(file *File) bool {
	return file == b.File
}

// IsUnit reports whether t is the non-null `Unit` type
func (b *Builtins) IsUnit(t Type) bool {
	st, ok := t.(*SimpleType)
	return ok && !st.Nullable && st.Classifier == b.Unit.GetSymbol()
}
