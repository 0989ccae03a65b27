package ir

// Type is the static type of a declaration or expression. Types are values:
// they are never mutated after construction, rewrites build new instances.
type Type interface {
	IsNullable() bool
	isType()
}

// SimpleType is a classifier (class, type parameter or type alias) applied to
// type arguments.
type SimpleType struct {
	Classifier Symbol
	Arguments  []TypeArgument
	Nullable   bool
}

// NewSimpleType creates a new SimpleType
func NewSimpleType(classifier Symbol, args ...TypeArgument) *SimpleType {
	return &SimpleType{Classifier: classifier, Arguments: args}
}

// IsNullable returns whether the type admits null
func (t *SimpleType) IsNullable() bool {
	return t.Nullable
}

// WithNullability returns a copy of t with the given nullability
func (t *SimpleType) WithNullability(nullable bool) *SimpleType {
	if t.Nullable == nullable {
		return t
	}
	return &SimpleType{Classifier: t.Classifier, Arguments: t.Arguments, Nullable: nullable}
}

// WithArguments returns a copy of t with args as its arguments
func (t *SimpleType) WithArguments(args []TypeArgument) *SimpleType {
	return &SimpleType{Classifier: t.Classifier, Arguments: args, Nullable: t.Nullable}
}

func (t *SimpleType) isType() {}

// TypeArgument is a possibly projected argument of a SimpleType. A nil Type is
// a star projection.
type TypeArgument struct {
	Variance Variance
	Type     Type
}

// InvariantArgument creates an unprojected type argument
func InvariantArgument(t Type) TypeArgument {
	return TypeArgument{Variance: VarianceInvariant, Type: t}
}

// StarArgument creates a star projection
func StarArgument() TypeArgument {
	return TypeArgument{}
}

// IsStar returns whether the argument is a star projection
func (a TypeArgument) IsStar() bool {
	return a.Type == nil
}

// FunctionType is the type of a function value, `(P1, P2) -> R`.
type FunctionType struct {
	Parameters []Type
	Return     Type
	Nullable   bool
}

// NewFunctionType creates a new FunctionType
func NewFunctionType(ret Type, params ...Type) *FunctionType {
	return &FunctionType{Parameters: params, Return: ret}
}

// IsNullable returns whether the type admits null
func (t *FunctionType) IsNullable() bool {
	return t.Nullable
}

func (t *FunctionType) isType() {}

// DynamicType is the unchecked type of the target language.
type DynamicType struct{}

// Dynamic is the only DynamicType instance
var Dynamic = &DynamicType{}

// IsNullable returns true, dynamic admits every value
func (t *DynamicType) IsNullable() bool {
	return true
}

func (t *DynamicType) isType() {}

// IsFunctionType reports whether t is function shaped.
func IsFunctionType(t Type) bool {
	_, ok := t.(*FunctionType)
	return ok
}
