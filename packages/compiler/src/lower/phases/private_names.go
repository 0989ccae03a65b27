package phases

import (
	"strings"

	"dotlin-go/packages/compiler/src/ir"
	"dotlin-go/packages/compiler/src/ir/deepcopy"
	"dotlin-go/packages/compiler/src/lower/compilation"
	"dotlin-go/packages/compiler/src/lower/transform"
)

// PrivateNames prefixes private declarations with an underscore, which is how
// the target marks a declaration private. Public declarations starting with
// underscores lose them.
func PrivateNames(ctx *compilation.Context, decl ir.Declaration) (transform.Result[ir.Declaration], error) {
	visibility, ok := memberVisibility(decl)
	if !ok || isSpecialName(decl.GetName()) {
		return transform.NoChange[ir.Declaration](), nil
	}

	name := decl.GetName()
	newName := strings.TrimLeft(name, "_")
	level := ir.RemapModule
	if visibility == ir.VisibilityPrivate {
		if strings.HasPrefix(name, "_") {
			return transform.NoChange[ir.Declaration](), nil
		}
		newName = "_" + name
		// private declarations are only visible in their file
		level = ir.RemapFile
	}
	if newName == name || newName == "" {
		return transform.NoChange[ir.Declaration](), nil
	}

	renamed, err := deepcopy.Rename(ctx.Module, decl, newName, deepcopy.WithRedirect(level))
	if err != nil {
		return transform.NoChange[ir.Declaration](), err
	}
	ctx.Logf("renamed %s %q to %q", decl.GetKind(), name, newName)

	result := transform.ReplaceWithCopy(renamed)
	// A backing field listed among the class members has to follow its copy.
	if prop, ok := decl.(*ir.Property); ok && prop.BackingField != nil {
		if class, ok := prop.GetParent().(*ir.Class); ok && containsDeclaration(class.Declarations, prop.BackingField) {
			field := renamed.(*ir.Property).BackingField
			result = result.And(transform.ReplaceElement[ir.Declaration](prop.BackingField, field, ir.RemapNone))
		}
	}
	return result, nil
}

// memberVisibility returns the visibility of declarations that have a name
// of their own in the output. Accessors, backing fields, parameters and
// locals are named through something else.
func memberVisibility(decl ir.Declaration) (ir.Visibility, bool) {
	switch d := decl.(type) {
	case *ir.Class:
		return d.Visibility, d.Visibility != ir.VisibilityLocal
	case *ir.Function:
		if d.IsAccessor() || isLocal(d) {
			return 0, false
		}
		return d.Visibility, d.Visibility != ir.VisibilityLocal
	case *ir.Property:
		return d.Visibility, !isLocal(d)
	case *ir.Field:
		if d.CorrespondingProperty != ir.NoSymbol {
			return 0, false
		}
		return d.Visibility, true
	case *ir.TypeAlias:
		return d.Visibility, true
	}
	return 0, false
}
