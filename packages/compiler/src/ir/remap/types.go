package remap

import (
	"dotlin-go/packages/compiler/src/ir"
)

// TypeSubstitution returns the replacement for t, or false to let RemapType
// descend into t's components.
type TypeSubstitution func(t ir.Type) (ir.Type, bool)

// RemapType rewrites t through sub, descending into generic arguments and
// function type components. The input instance is returned when nothing
// changed.
func RemapType(t ir.Type, sub TypeSubstitution) ir.Type {
	if t == nil {
		return nil
	}
	if replacement, ok := sub(t); ok {
		return replacement
	}
	switch t := t.(type) {
	case *ir.SimpleType:
		args, changed := RemapArguments(t.Arguments, sub)
		if !changed {
			return t
		}
		return t.WithArguments(args)
	case *ir.FunctionType:
		changed := false
		params := make([]ir.Type, len(t.Parameters))
		for i, param := range t.Parameters {
			params[i] = RemapType(param, sub)
			changed = changed || params[i] != param
		}
		ret := RemapType(t.Return, sub)
		if !changed && ret == t.Return {
			return t
		}
		return &ir.FunctionType{Parameters: params, Return: ret, Nullable: t.Nullable}
	default:
		return t
	}
}

// RemapArguments rewrites every non star argument through sub. The input
// slice is returned when nothing changed.
func RemapArguments(args []ir.TypeArgument, sub TypeSubstitution) ([]ir.TypeArgument, bool) {
	var result []ir.TypeArgument
	for i, arg := range args {
		if arg.IsStar() {
			continue
		}
		remapped := RemapType(arg.Type, sub)
		if remapped == arg.Type {
			continue
		}
		if result == nil {
			result = make([]ir.TypeArgument, len(args))
			copy(result, args)
		}
		result[i] = ir.TypeArgument{Variance: arg.Variance, Type: remapped}
	}
	if result == nil {
		return args, false
	}
	return result, true
}

// ClassifierSubstitution replaces the classifier of every simple type whose
// classifier is a key of mapping.
func ClassifierSubstitution(mapping map[ir.Symbol]ir.Symbol) TypeSubstitution {
	var sub TypeSubstitution
	sub = func(t ir.Type) (ir.Type, bool) {
		st, ok := t.(*ir.SimpleType)
		if !ok {
			return nil, false
		}
		to, ok := mapping[st.Classifier]
		if !ok {
			return nil, false
		}
		args, _ := RemapArguments(st.Arguments, sub)
		return &ir.SimpleType{Classifier: to, Arguments: args, Nullable: st.Nullable}, true
	}
	return sub
}
