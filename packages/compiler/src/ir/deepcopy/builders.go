package deepcopy

import (
	"dotlin-go/packages/compiler/src/ir"
)

// ClassBuilder holds the header of a class copy
type ClassBuilder struct {
	Name       string
	ClassKind  ir.ClassKind
	Visibility ir.Visibility
	Modality   ir.Modality
	IsExternal bool
	Origin     ir.Origin
	SuperTypes []ir.Type
}

// Class copies class and everything it owns. customize may change the header
// of the copy.
func Class(m *ir.Module, class *ir.Class, customize func(*ClassBuilder), opts ...Option) (*ir.Class, error) {
	b := &ClassBuilder{
		Name:       class.Name,
		ClassKind:  class.ClassKind,
		Visibility: class.Visibility,
		Modality:   class.Modality,
		IsExternal: class.IsExternal,
		Origin:     class.Origin,
		SuperTypes: class.SuperTypes,
	}
	if customize != nil {
		customize(b)
	}
	return run(m, class, opts, func(c *copier, clone *ir.Class) {
		clone.Name = b.Name
		clone.ClassKind = b.ClassKind
		clone.Visibility = b.Visibility
		clone.Modality = b.Modality
		clone.IsExternal = b.IsExternal
		clone.Origin = b.Origin
		clone.SuperTypes = c.typeList(b.SuperTypes)
	})
}

// FunctionBuilder holds the header of a function copy
type FunctionBuilder struct {
	Name       string
	Visibility ir.Visibility
	Modality   ir.Modality
	IsExternal bool
	IsStatic   bool
	Origin     ir.Origin
	ReturnType ir.Type
}

// Function copies fn, its parameters and body
func Function(m *ir.Module, fn *ir.Function, customize func(*FunctionBuilder), opts ...Option) (*ir.Function, error) {
	b := &FunctionBuilder{
		Name:       fn.Name,
		Visibility: fn.Visibility,
		Modality:   fn.Modality,
		IsExternal: fn.IsExternal,
		IsStatic:   fn.IsStatic,
		Origin:     fn.Origin,
		ReturnType: fn.ReturnType,
	}
	if customize != nil {
		customize(b)
	}
	return run(m, fn, opts, func(c *copier, clone *ir.Function) {
		clone.Name = b.Name
		clone.Visibility = b.Visibility
		clone.Modality = b.Modality
		clone.IsExternal = b.IsExternal
		clone.IsStatic = b.IsStatic
		clone.Origin = b.Origin
		clone.ReturnType = c.typ(b.ReturnType)
	})
}

// ConstructorBuilder holds the header of a constructor copy
type ConstructorBuilder struct {
	Name       string
	Visibility ir.Visibility
	IsPrimary  bool
	IsExternal bool
	Origin     ir.Origin
}

// Constructor copies ctor, its parameters and body
func Constructor(m *ir.Module, ctor *ir.Constructor, customize func(*ConstructorBuilder), opts ...Option) (*ir.Constructor, error) {
	b := &ConstructorBuilder{
		Name:       ctor.Name,
		Visibility: ctor.Visibility,
		IsPrimary:  ctor.IsPrimary,
		IsExternal: ctor.IsExternal,
		Origin:     ctor.Origin,
	}
	if customize != nil {
		customize(b)
	}
	return run(m, ctor, opts, func(c *copier, clone *ir.Constructor) {
		clone.Name = b.Name
		clone.Visibility = b.Visibility
		clone.IsPrimary = b.IsPrimary
		clone.IsExternal = b.IsExternal
		clone.Origin = b.Origin
	})
}

// PropertyBuilder holds the header of a property copy
type PropertyBuilder struct {
	Name       string
	Visibility ir.Visibility
	Modality   ir.Modality
	IsVar      bool
	IsExternal bool
	Origin     ir.Origin
}

// Property copies prop together with its backing field and accessors. The
// copies point back at the copied property.
func Property(m *ir.Module, prop *ir.Property, customize func(*PropertyBuilder), opts ...Option) (*ir.Property, error) {
	b := &PropertyBuilder{
		Name:       prop.Name,
		Visibility: prop.Visibility,
		Modality:   prop.Modality,
		IsVar:      prop.IsVar,
		IsExternal: prop.IsExternal,
		Origin:     prop.Origin,
	}
	if customize != nil {
		customize(b)
	}
	return run(m, prop, opts, func(c *copier, clone *ir.Property) {
		clone.Name = b.Name
		clone.Visibility = b.Visibility
		clone.Modality = b.Modality
		clone.IsVar = b.IsVar
		clone.IsExternal = b.IsExternal
		clone.Origin = b.Origin
	})
}

// FieldBuilder holds the header of a field copy
type FieldBuilder struct {
	Name       string
	Visibility ir.Visibility
	Type       ir.Type
	IsFinal    bool
	IsStatic   bool
	IsLate     bool
	Origin     ir.Origin
}

// Field copies field and its initializer
func Field(m *ir.Module, field *ir.Field, customize func(*FieldBuilder), opts ...Option) (*ir.Field, error) {
	b := &FieldBuilder{
		Name:       field.Name,
		Visibility: field.Visibility,
		Type:       field.Type,
		IsFinal:    field.IsFinal,
		IsStatic:   field.IsStatic,
		IsLate:     field.IsLate,
		Origin:     field.Origin,
	}
	if customize != nil {
		customize(b)
	}
	return run(m, field, opts, func(c *copier, clone *ir.Field) {
		clone.Name = b.Name
		clone.Visibility = b.Visibility
		clone.Type = c.typ(b.Type)
		clone.IsFinal = b.IsFinal
		clone.IsStatic = b.IsStatic
		clone.IsLate = b.IsLate
		clone.Origin = b.Origin
	})
}

// ValueParameterBuilder holds the header of a value parameter copy
type ValueParameterBuilder struct {
	Name              string
	Type              ir.Type
	VarargElementType ir.Type
	Origin            ir.Origin
}

// ValueParameter copies param and its default value
func ValueParameter(m *ir.Module, param *ir.ValueParameter, customize func(*ValueParameterBuilder), opts ...Option) (*ir.ValueParameter, error) {
	b := &ValueParameterBuilder{
		Name:              param.Name,
		Type:              param.Type,
		VarargElementType: param.VarargElementType,
		Origin:            param.Origin,
	}
	if customize != nil {
		customize(b)
	}
	return run(m, param, opts, func(c *copier, clone *ir.ValueParameter) {
		clone.Name = b.Name
		clone.Type = c.typ(b.Type)
		clone.VarargElementType = c.typ(b.VarargElementType)
		clone.Origin = b.Origin
	})
}

// VariableBuilder holds the header of a variable copy
type VariableBuilder struct {
	Name   string
	Type   ir.Type
	IsVar  bool
	IsLate bool
	Origin ir.Origin
}

// Variable copies variable and its initializer
func Variable(m *ir.Module, variable *ir.Variable, customize func(*VariableBuilder), opts ...Option) (*ir.Variable, error) {
	b := &VariableBuilder{
		Name:   variable.Name,
		Type:   variable.Type,
		IsVar:  variable.IsVar,
		IsLate: variable.IsLate,
		Origin: variable.Origin,
	}
	if customize != nil {
		customize(b)
	}
	return run(m, variable, opts, func(c *copier, clone *ir.Variable) {
		clone.Name = b.Name
		clone.Type = c.typ(b.Type)
		clone.IsVar = b.IsVar
		clone.IsLate = b.IsLate
		clone.Origin = b.Origin
	})
}

// TypeAliasBuilder holds the header of a type alias copy
type TypeAliasBuilder struct {
	Name       string
	Visibility ir.Visibility
	Target     ir.Type
	Origin     ir.Origin
}

// TypeAlias copies alias and its type parameters
func TypeAlias(m *ir.Module, alias *ir.TypeAlias, customize func(*TypeAliasBuilder), opts ...Option) (*ir.TypeAlias, error) {
	b := &TypeAliasBuilder{
		Name:       alias.Name,
		Visibility: alias.Visibility,
		Target:     alias.Target,
		Origin:     alias.Origin,
	}
	if customize != nil {
		customize(b)
	}
	return run(m, alias, opts, func(c *copier, clone *ir.TypeAlias) {
		clone.Name = b.Name
		clone.Visibility = b.Visibility
		clone.Target = c.typ(b.Target)
		clone.Origin = b.Origin
	})
}

// Rename copies decl under a new name. Renaming changes the identity every
// later reference comparison uses, so callers that keep existing references
// pass WithRedirect.
func Rename(m *ir.Module, decl ir.Declaration, name string, opts ...Option) (ir.Declaration, error) {
	switch d := decl.(type) {
	case *ir.Class:
		clone, err := Class(m, d, func(b *ClassBuilder) { b.Name = name }, opts...)
		if err != nil {
			return nil, err
		}
		return clone, nil
	case *ir.Function:
		clone, err := Function(m, d, func(b *FunctionBuilder) { b.Name = name }, opts...)
		if err != nil {
			return nil, err
		}
		return clone, nil
	case *ir.Constructor:
		clone, err := Constructor(m, d, func(b *ConstructorBuilder) { b.Name = name }, opts...)
		if err != nil {
			return nil, err
		}
		return clone, nil
	case *ir.Property:
		clone, err := Property(m, d, func(b *PropertyBuilder) { b.Name = name }, opts...)
		if err != nil {
			return nil, err
		}
		return clone, nil
	case *ir.Field:
		clone, err := Field(m, d, func(b *FieldBuilder) { b.Name = name }, opts...)
		if err != nil {
			return nil, err
		}
		return clone, nil
	case *ir.ValueParameter:
		clone, err := ValueParameter(m, d, func(b *ValueParameterBuilder) { b.Name = name }, opts...)
		if err != nil {
			return nil, err
		}
		return clone, nil
	case *ir.Variable:
		clone, err := Variable(m, d, func(b *VariableBuilder) { b.Name = name }, opts...)
		if err != nil {
			return nil, err
		}
		return clone, nil
	case *ir.TypeAlias:
		clone, err := TypeAlias(m, d, func(b *TypeAliasBuilder) { b.Name = name }, opts...)
		if err != nil {
			return nil, err
		}
		return clone, nil
	}
	// type parameters are only copied with their owner
	return nil, ir.NewUnsupportedConstructError("rename", decl)
}
