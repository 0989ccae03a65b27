package phases

import (
	"dotlin-go/packages/compiler/src/ir"
	"dotlin-go/packages/compiler/src/ir/deepcopy"
	"dotlin-go/packages/compiler/src/lower/compilation"
	"dotlin-go/packages/compiler/src/lower/transform"
)

// InterfaceToAbstractClass converts interfaces to abstract classes, since the
// target has no interfaces. Members without a body become abstract.
func InterfaceToAbstractClass(ctx *compilation.Context, decl ir.Declaration) (transform.Result[ir.Declaration], error) {
	class, ok := decl.(*ir.Class)
	if !ok || !class.IsInterface() || class.IsExternal {
		return transform.NoChange[ir.Declaration](), nil
	}

	// Interfaces can be implemented from any file.
	clone, err := deepcopy.Class(ctx.Module, class, func(b *deepcopy.ClassBuilder) {
		b.ClassKind = ir.ClassKindClass
		b.Modality = ir.ModalityAbstract
	}, deepcopy.WithRedirect(ir.RemapModule))
	if err != nil {
		return transform.NoChange[ir.Declaration](), err
	}

	for _, member := range clone.Declarations {
		switch m := member.(type) {
		case *ir.Function:
			if m.Body == nil {
				m.Modality = ir.ModalityAbstract
			}
		case *ir.Property:
			if m.BackingField == nil && (m.Getter == nil || m.Getter.Body == nil) {
				m.Modality = ir.ModalityAbstract
			}
		}
	}

	return transform.ReplaceWithCopy[ir.Declaration](clone), nil
}
