package phases

import (
	"fmt"

	"dotlin-go/packages/compiler/src/ir"
	"dotlin-go/packages/compiler/src/ir/visit"
	"dotlin-go/packages/compiler/src/lower/compilation"
	"dotlin-go/packages/compiler/src/lower/transform"
)

// ConstructorNames gives secondary constructors a name of their own, since the
// target only allows one unnamed constructor per class. The name is
// `$constructor$N` with N the position among the constructors of the class.
func ConstructorNames(ctx *compilation.Context, decl ir.Declaration) (transform.Result[ir.Declaration], error) {
	ctor, ok := decl.(*ir.Constructor)
	if !ok || ctor.IsPrimary {
		return transform.NoChange[ir.Declaration](), nil
	}
	class, ok := ctor.GetParent().(*ir.Class)
	if !ok {
		return transform.NoChange[ir.Declaration](), nil
	}
	index := -1
	for i, c := range class.Constructors() {
		if c == ctor {
			index = i
		}
	}

	named := ir.NewConstructor(ctor.ReturnType, false)
	named.Name = fmt.Sprintf("$constructor$%d", index)
	named.Visibility = ctor.Visibility
	named.IsExternal = ctor.IsExternal
	named.Origin = ctor.Origin
	named.SetParent(class)
	for _, param := range ctor.ValueParameters {
		copied := ir.NewValueParameter(param.Name, param.Type)
		copied.VarargElementType = param.VarargElementType
		copied.Default = param.Default
		named.AddValueParameter(copied)
	}
	named.Body = ctor.Body
	reparentLocals(named.Body, ctor, named)

	// Constructors are called from anywhere in the module. The driver also
	// redirects the parameters, which the moved body still reads.
	return transform.ReplaceAt[ir.Declaration](named, ir.RemapModule), nil
}

// reparentLocals moves the declarations directly owned by from that sit under
// node to to.
func reparentLocals(node ir.Node, from, to ir.DeclarationParent) {
	if node == nil {
		return
	}
	visit.Walk(node, func(n ir.Node) bool {
		if decl, ok := n.(ir.Declaration); ok && decl.GetParent() == from {
			decl.SetParent(to)
		}
		return true
	})
}
