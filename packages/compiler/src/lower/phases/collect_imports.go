package phases

import (
	"dotlin-go/packages/compiler/src/ir"
	"dotlin-go/packages/compiler/src/ir/visit"
	"dotlin-go/packages/compiler/src/lower/compilation"
)

// CollectImports registers an import for every top level declaration of
// another package that file refers to. Builtins are always in scope.
func CollectImports(ctx *compilation.Context, file *ir.File) error {
	refer := func(sym ir.Symbol) {
		decl, ok := ctx.Symbols.Lookup(sym)
		if !ok {
			return
		}
		top := topLevel(decl)
		if top == nil {
			return
		}
		other := ir.FileOf(top)
		if other == nil || other.Package == file.Package || ctx.Module.Builtins.IsBuiltinFile(other) {
			return
		}
		name := top.GetName()
		if other.Package != "" {
			name = other.Package + "." + name
		}
		if ctx.AddImport(file, name) {
			ctx.Logf("%s imports %s", file.Name, name)
		}
	}

	visit.Walk(file, func(n ir.Node) bool {
		switch e := n.(type) {
		case *ir.Call:
			refer(e.Symbol)
		case *ir.GetField:
			refer(e.Symbol)
		case *ir.SetField:
			refer(e.Symbol)
		case *ir.GetObject:
			refer(e.Class)
		}
		return true
	})
	visit.VisitTypes(file, func(t ir.Type, _ visit.TypeContext, _ ir.Node) {
		classifiers(t, refer)
	})
	return nil
}

// topLevel returns the declaration of a file that contains decl
func topLevel(decl ir.Declaration) ir.Declaration {
	for {
		switch parent := decl.GetParent().(type) {
		case *ir.File:
			return decl
		case ir.Declaration:
			decl = parent
		default:
			return nil
		}
	}
}

func classifiers(t ir.Type, fn func(ir.Symbol)) {
	switch t := t.(type) {
	case *ir.SimpleType:
		fn(t.Classifier)
		for _, arg := range t.Arguments {
			if !arg.IsStar() {
				classifiers(arg.Type, fn)
			}
		}
	case *ir.FunctionType:
		for _, param := range t.Parameters {
			classifiers(param, fn)
		}
		classifiers(t.Return, fn)
	}
}
