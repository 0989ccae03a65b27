package ir

// Module is the unit handed to the lowering pipeline: every file of a
// compilation plus the symbol table they share.
type Module struct {
	Name     string
	Files    []*File
	Symbols  *SymbolTable
	Builtins *Builtins
}

// NewModule creates a new Module with a fresh symbol table and builtins
func NewModule(name string) *Module {
	table := NewSymbolTable()
	m := &Module{
		Name:    name,
		Symbols: table,
	}
	m.Builtins = newBuiltins(m)
	return m
}

// AddFile adds a file to the module
func (m *Module) AddFile(file *File) {
	file.Module = m
	m.Files = append(m.Files, file)
}

// Bind binds decl and every declaration it owns that has no symbol yet.
func (m *Module) Bind(decl Declaration) Symbol {
	var bind func(n Node)
	bind = func(n Node) {
		if d, ok := n.(Declaration); ok && d.GetSymbol() == NoSymbol {
			m.Symbols.Bind(d)
		}
		n.AcceptChildren(bind)
	}
	bind(decl)
	return decl.GetSymbol()
}

// File is a single source file
type File struct {
	Name         string
	Package      string
	Declarations []Declaration
	Imports      []string
	Module       *Module
}

// NewFile creates a new File
func NewFile(name, pkg string) *File {
	return &File{Name: name, Package: pkg}
}

// AddDeclaration appends a top level declaration
func (f *File) AddDeclaration(decl Declaration) {
	decl.SetParent(f)
	f.Declarations = append(f.Declarations, decl)
}

func (f *File) AcceptChildren(fn func(Node)) {
	for _, decl := range f.Declarations {
		fn(decl)
	}
}

func (f *File) TransformChildren(fn func(Expression) Expression) {}

func (f *File) isDeclarationParent() {}

// FileOf returns the file that contains decl, or nil if it is detached.
func FileOf(decl Declaration) *File {
	parent := decl.GetParent()
	for parent != nil {
		switch p := parent.(type) {
		case *File:
			return p
		case Declaration:
			parent = p.GetParent()
		default:
			return nil
		}
	}
	return nil
}

// EnclosingClass returns the nearest class containing decl, or nil.
func EnclosingClass(decl Declaration) *Class {
	parent := decl.GetParent()
	for parent != nil {
		switch p := parent.(type) {
		case *Class:
			return p
		case Declaration:
			parent = p.GetParent()
		default:
			return nil
		}
	}
	return nil
}
