package phases

import (
	"dotlin-go/packages/compiler/src/ir"
	"dotlin-go/packages/compiler/src/ir/remap"
	"dotlin-go/packages/compiler/src/lower/compilation"
	"dotlin-go/packages/compiler/src/lower/transform"
)

// PropertySimplifying replaces every property by what the target declares
// instead. A property whose accessors are all default becomes its backing
// field, and calls to the accessors become reads and writes of the field.
// Any other property is flattened into its field, getter and setter.
func PropertySimplifying(ctx *compilation.Context, decl ir.Declaration) (transform.Result[ir.Declaration], error) {
	prop, ok := decl.(*ir.Property)
	if !ok || prop.IsExternal {
		return transform.NoChange[ir.Declaration](), nil
	}

	if field := prop.BackingField; field != nil && hasDefaultAccessors(prop) {
		mapping := remap.Mapping{prop.Getter.GetSymbol(): field.GetSymbol()}
		if prop.Setter != nil {
			mapping[prop.Setter.GetSymbol()] = field.GetSymbol()
		}
		// Accessors are called from anywhere in the module.
		if err := remap.AtLevel(ctx.Symbols, prop, ir.RemapModule, mapping); err != nil {
			return transform.NoChange[ir.Declaration](), err
		}
		for from, to := range mapping {
			ctx.Symbols.MarkRedirected(from, to)
		}
		field.Name = prop.Name
		field.Visibility = prop.Visibility
		field.CorrespondingProperty = ir.NoSymbol
		if listedMember(prop, field) {
			return transform.Remove[ir.Declaration](), nil
		}
		return transform.AddBefore[ir.Declaration](field).And(transform.Remove[ir.Declaration]()), nil
	}

	var result transform.Result[ir.Declaration]
	if field := prop.BackingField; field != nil {
		field.Name = "$" + prop.Name
		field.CorrespondingProperty = ir.NoSymbol
		if !listedMember(prop, field) {
			result = result.And(transform.Add[ir.Declaration](field))
		}
	}
	// The accessors keep pointing at the removed property so the emitter can
	// tell getters from setters.
	if prop.Getter != nil {
		prop.Getter.Name = prop.Name
		result = result.And(transform.Add[ir.Declaration](prop.Getter))
	}
	if prop.Setter != nil {
		prop.Setter.Name = prop.Name
		result = result.And(transform.Add[ir.Declaration](prop.Setter))
	}
	return result.And(transform.Remove[ir.Declaration]()), nil
}

// listedMember reports whether field is already a member of the container of prop
func listedMember(prop *ir.Property, field *ir.Field) bool {
	switch parent := prop.GetParent().(type) {
	case *ir.Class:
		return containsDeclaration(parent.Declarations, field)
	case *ir.File:
		return containsDeclaration(parent.Declarations, field)
	}
	return false
}

func hasDefaultAccessors(prop *ir.Property) bool {
	if prop.Getter == nil || prop.Getter.Origin != ir.OriginDefaultAccessor {
		return false
	}
	if !prop.IsVar {
		return true
	}
	return prop.Setter != nil && prop.Setter.Origin == ir.OriginDefaultAccessor
}
