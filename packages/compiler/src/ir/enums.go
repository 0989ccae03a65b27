package ir

// DeclarationKind identifies the concrete kind of a declaration
type DeclarationKind int

const (
	// DeclarationKindClass - A class, interface, object or enum
	DeclarationKindClass DeclarationKind = iota
	// DeclarationKindFunction - A member, top level or local function (including accessors)
	DeclarationKindFunction
	// DeclarationKindConstructor - A primary or secondary constructor
	DeclarationKindConstructor
	// DeclarationKindProperty - A property owning a backing field and accessors
	DeclarationKindProperty
	// DeclarationKindField - A field, usually the backing field of a property
	DeclarationKindField
	// DeclarationKindValueParameter - A value parameter of a function or constructor
	DeclarationKindValueParameter
	// DeclarationKindVariable - A local variable
	DeclarationKindVariable
	// DeclarationKindTypeAlias - A type alias
	DeclarationKindTypeAlias
	// DeclarationKindTypeParameter - A type parameter of a class, function or type alias
	DeclarationKindTypeParameter
)

var declarationKindNames = map[DeclarationKind]string{
	DeclarationKindClass:          "class",
	DeclarationKindFunction:       "function",
	DeclarationKindConstructor:    "constructor",
	DeclarationKindProperty:       "property",
	DeclarationKindField:          "field",
	DeclarationKindValueParameter: "value parameter",
	DeclarationKindVariable:       "variable",
	DeclarationKindTypeAlias:      "type alias",
	DeclarationKindTypeParameter:  "type parameter",
}

func (k DeclarationKind) String() string {
	if name, ok := declarationKindNames[k]; ok {
		return name
	}
	return "unknown"
}

// ClassKind distinguishes the flavours of class declarations
type ClassKind int

const (
	// ClassKindClass - A regular class
	ClassKindClass ClassKind = iota
	// ClassKindInterface - An interface
	ClassKindInterface
	// ClassKindObject - A singleton object
	ClassKindObject
	// ClassKindEnum - An enum class
	ClassKindEnum
	// ClassKindAnnotation - An annotation class
	ClassKindAnnotation
)

func (k ClassKind) String() string {
	switch k {
	case ClassKindInterface:
		return "interface"
	case ClassKindObject:
		return "object"
	case ClassKindEnum:
		return "enum class"
	case ClassKindAnnotation:
		return "annotation class"
	default:
		return "class"
	}
}

// Visibility of a declaration
type Visibility int

const (
	VisibilityPublic Visibility = iota
	VisibilityInternal
	VisibilityProtected
	VisibilityPrivate
	VisibilityLocal
)

func (v Visibility) String() string {
	switch v {
	case VisibilityInternal:
		return "internal"
	case VisibilityProtected:
		return "protected"
	case VisibilityPrivate:
		return "private"
	case VisibilityLocal:
		return "local"
	default:
		return "public"
	}
}

// Modality of a class or member
type Modality int

const (
	ModalityFinal Modality = iota
	ModalityOpen
	ModalityAbstract
	ModalitySealed
)

func (m Modality) String() string {
	switch m {
	case ModalityOpen:
		return "open"
	case ModalityAbstract:
		return "abstract"
	case ModalitySealed:
		return "sealed"
	default:
		return "final"
	}
}

// Variance of a type parameter or type argument
type Variance int

const (
	// VarianceInvariant - No projection
	VarianceInvariant Variance = iota
	// VarianceIn - Contravariant (`in`) projection
	VarianceIn
	// VarianceOut - Covariant (`out`) projection
	VarianceOut
)

func (v Variance) String() string {
	switch v {
	case VarianceIn:
		return "in"
	case VarianceOut:
		return "out"
	default:
		return ""
	}
}

// TypeOperator is the operator of a TypeOperatorCall
type TypeOperator int

const (
	// TypeOperatorCast - `x as T`
	TypeOperatorCast TypeOperator = iota
	// TypeOperatorSafeCast - `x as? T`
	TypeOperatorSafeCast
	// TypeOperatorInstanceOf - `x is T`
	TypeOperatorInstanceOf
	// TypeOperatorNotInstanceOf - `x !is T`
	TypeOperatorNotInstanceOf
	// TypeOperatorImplicitCast - A cast inserted by the frontend
	TypeOperatorImplicitCast
	// TypeOperatorImplicitIntegerCoercion - An integer literal coerced to a smaller or larger integer type
	TypeOperatorImplicitIntegerCoercion
	// TypeOperatorImplicitCoercionToUnit - A value discarded in a Unit position
	TypeOperatorImplicitCoercionToUnit
)

var typeOperatorNames = map[TypeOperator]string{
	TypeOperatorCast:                    "CAST",
	TypeOperatorSafeCast:                "SAFE_CAST",
	TypeOperatorInstanceOf:              "INSTANCEOF",
	TypeOperatorNotInstanceOf:           "NOT_INSTANCEOF",
	TypeOperatorImplicitCast:            "IMPLICIT_CAST",
	TypeOperatorImplicitIntegerCoercion: "IMPLICIT_INTEGER_COERCION",
	TypeOperatorImplicitCoercionToUnit:  "IMPLICIT_COERCION_TO_UNIT",
}

func (o TypeOperator) String() string {
	return typeOperatorNames[o]
}

// Origin records why a node was created, which lowerings use to recognise
// frontend desugarings.
type Origin int

const (
	// OriginDefined - Written by the user
	OriginDefined Origin = iota
	// OriginDefaultAccessor - A getter or setter generated for a property without a custom body
	OriginDefaultAccessor
	// OriginAndAnd - A `when` produced from `a && b`
	OriginAndAnd
	// OriginOrOr - A `when` produced from `a || b`
	OriginOrOr
	// OriginIf - A `when` produced from an `if`
	OriginIf
	// OriginComposite - A block that only groups statements and introduces no scope
	OriginComposite
	// OriginDelegatingConstructorCall - A call to a super or this constructor
	OriginDelegatingConstructorCall
	// OriginSynthesized - Created by a lowering
	OriginSynthesized
)

var originNames = map[Origin]string{
	OriginDefined:                   "",
	OriginDefaultAccessor:           "DEFAULT_ACCESSOR",
	OriginAndAnd:                    "ANDAND",
	OriginOrOr:                      "OROR",
	OriginIf:                        "IF",
	OriginComposite:                 "COMPOSITE",
	OriginDelegatingConstructorCall: "DELEGATING_CONSTRUCTOR_CALL",
	OriginSynthesized:               "SYNTHESIZED",
}

func (o Origin) String() string {
	return originNames[o]
}

// ConstKind is the kind of a constant literal
type ConstKind int

const (
	ConstKindNull ConstKind = iota
	ConstKindBoolean
	ConstKindChar
	ConstKindByte
	ConstKindShort
	ConstKindInt
	ConstKindLong
	ConstKindDouble
	ConstKindString
)

// IsInteger reports whether the constant kind holds an integral value.
func (k ConstKind) IsInteger() bool {
	return k == ConstKindByte || k == ConstKindShort || k == ConstKindInt || k == ConstKindLong
}

// RemapLevel is the search scope of a reference remap
type RemapLevel int

const (
	// RemapNone - Do not remap references
	RemapNone RemapLevel = iota
	// RemapParent - Remap within the parent of the declaration
	RemapParent
	// RemapClass - Remap within the nearest enclosing class, or the file if there is none
	RemapClass
	// RemapFile - Remap within the file containing the declaration
	RemapFile
	// RemapModule - Remap within every file of the module
	RemapModule
)

func (l RemapLevel) String() string {
	switch l {
	case RemapParent:
		return "parent"
	case RemapClass:
		return "class"
	case RemapFile:
		return "file"
	case RemapModule:
		return "module"
	default:
		return "none"
	}
}
