package serial

import (
	"dotlin-go/packages/compiler/src/ir"

	"github.com/pkg/errors"
)

type enum interface {
	~int
	String() string
}

// enumNames indexes the values up to last by their rendering
func enumNames[T enum](last T) map[string]T {
	names := make(map[string]T, int(last)+1)
	for v := T(0); v <= last; v++ {
		names[v.String()] = v
	}
	return names
}

var (
	visibilities  = enumNames(ir.VisibilityLocal)
	modalities    = enumNames(ir.ModalitySealed)
	classKinds    = enumNames(ir.ClassKindAnnotation)
	variances     = enumNames(ir.VarianceOut)
	origins       = enumNames(ir.OriginSynthesized)
	typeOperators = enumNames(ir.TypeOperatorImplicitCoercionToUnit)

	constKinds = map[string]ir.ConstKind{
		"Null":    ir.ConstKindNull,
		"Boolean": ir.ConstKindBoolean,
		"Char":    ir.ConstKindChar,
		"Byte":    ir.ConstKindByte,
		"Short":   ir.ConstKindShort,
		"Int":     ir.ConstKindInt,
		"Long":    ir.ConstKindLong,
		"Double":  ir.ConstKindDouble,
		"String":  ir.ConstKindString,
	}
)

// lookup resolves name in names. An empty name is the zero value.
func lookup[T any](names map[string]T, what, name string) (T, error) {
	var zero T
	if name == "" {
		return zero, nil
	}
	v, ok := names[name]
	if !ok {
		return zero, errors.Errorf("unknown %s %q", what, name)
	}
	return v, nil
}
