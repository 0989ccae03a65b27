package ir

// Node is any element of the program graph
type Node interface {
	// AcceptChildren calls fn with every node owned by this node.
	AcceptChildren(fn func(Node))
	// TransformChildren replaces every owned expression slot with the result of fn.
	TransformChildren(fn func(Expression) Expression)
}

// Statement is a node that can appear in a statement list
type Statement interface {
	Node
	isStatement()
}

// Declaration is a named node that owns a symbol
type Declaration interface {
	Statement
	GetSymbol() Symbol
	GetKind() DeclarationKind
	GetName() string
	SetName(name string)
	GetParent() DeclarationParent
	SetParent(parent DeclarationParent)
	GetOrigin() Origin
	setSymbol(sym Symbol)
}

// DeclarationParent is a node that can contain declarations: a file, class,
// function or constructor.
type DeclarationParent interface {
	Node
	isDeclarationParent()
}

// DeclarationBase is the base for all declarations
type DeclarationBase struct {
	symbol Symbol
	Name   string
	Parent DeclarationParent
	Origin Origin
}

// GetSymbol returns the symbol bound to the declaration
func (d *DeclarationBase) GetSymbol() Symbol {
	return d.symbol
}

func (d *DeclarationBase) setSymbol(sym Symbol) {
	d.symbol = sym
}

// GetName returns the name
func (d *DeclarationBase) GetName() string {
	return d.Name
}

// SetName sets the name
func (d *DeclarationBase) SetName(name string) {
	d.Name = name
}

// GetParent returns the parent
func (d *DeclarationBase) GetParent() DeclarationParent {
	return d.Parent
}

// SetParent sets the parent
func (d *DeclarationBase) SetParent(parent DeclarationParent) {
	d.Parent = parent
}

// GetOrigin returns the origin
func (d *DeclarationBase) GetOrigin() Origin {
	return d.Origin
}

func (d *DeclarationBase) isStatement() {}

// Class is a class, interface, object or enum declaration
type Class struct {
	DeclarationBase
	ClassKind      ClassKind
	Visibility     Visibility
	Modality       Modality
	IsExternal     bool
	TypeParameters []*TypeParameter
	SuperTypes     []Type
	Declarations   []Declaration
}

// NewClass creates a new Class
func NewClass(name string, kind ClassKind) *Class {
	return &Class{
		DeclarationBase: DeclarationBase{Name: name},
		ClassKind:       kind,
		Modality:        ModalityFinal,
	}
}

// GetKind returns DeclarationKindClass
func (c *Class) GetKind() DeclarationKind {
	return DeclarationKindClass
}

// AddDeclaration appends decl to the members of the class
func (c *Class) AddDeclaration(decl Declaration) {
	decl.SetParent(c)
	c.Declarations = append(c.Declarations, decl)
}

// AddTypeParameter appends a type parameter to the class
func (c *Class) AddTypeParameter(tp *TypeParameter) {
	tp.SetParent(c)
	tp.Index = len(c.TypeParameters)
	c.TypeParameters = append(c.TypeParameters, tp)
}

// DefaultType returns the type of `this` inside the class
func (c *Class) DefaultType() *SimpleType {
	args := make([]TypeArgument, len(c.TypeParameters))
	for i, tp := range c.TypeParameters {
		args[i] = InvariantArgument(NewSimpleType(tp.GetSymbol()))
	}
	return NewSimpleType(c.GetSymbol(), args...)
}

// Constructors returns the constructors of the class in declaration order
func (c *Class) Constructors() []*Constructor {
	var result []*Constructor
	for _, decl := range c.Declarations {
		if ctor, ok := decl.(*Constructor); ok {
			result = append(result, ctor)
		}
	}
	return result
}

// IsInterface returns whether the class is an interface
func (c *Class) IsInterface() bool {
	return c.ClassKind == ClassKindInterface
}

func (c *Class) AcceptChildren(fn func(Node)) {
	for _, tp := range c.TypeParameters {
		fn(tp)
	}
	for _, decl := range c.Declarations {
		fn(decl)
	}
}

func (c *Class) TransformChildren(fn func(Expression) Expression) {}

func (c *Class) isDeclarationParent() {}

// FunctionBase is the base for functions and constructors
type FunctionBase struct {
	DeclarationBase
	Visibility      Visibility
	IsExternal      bool
	TypeParameters  []*TypeParameter
	ValueParameters []*ValueParameter
	ReturnType      Type
	Body            Body
}

func (f *FunctionBase) acceptFunctionChildren(fn func(Node)) {
	for _, tp := range f.TypeParameters {
		fn(tp)
	}
	for _, vp := range f.ValueParameters {
		fn(vp)
	}
	if f.Body != nil {
		fn(f.Body)
	}
}

// Function is a named or anonymous function, including property accessors
type Function struct {
	FunctionBase
	Modality   Modality
	IsStatic   bool
	Overridden []Symbol
	// CorrespondingProperty is set when the function is the getter or setter of a property.
	CorrespondingProperty Symbol
}

// NewFunction creates a new Function
func NewFunction(name string, returnType Type) *Function {
	return &Function{
		FunctionBase: FunctionBase{
			DeclarationBase: DeclarationBase{Name: name},
			ReturnType:      returnType,
		},
		Modality: ModalityFinal,
	}
}

// GetKind returns DeclarationKindFunction
func (f *Function) GetKind() DeclarationKind {
	return DeclarationKindFunction
}

// AddValueParameter appends a value parameter
func (f *Function) AddValueParameter(vp *ValueParameter) {
	vp.SetParent(f)
	vp.Index = len(f.ValueParameters)
	f.ValueParameters = append(f.ValueParameters, vp)
}

// AddTypeParameter appends a type parameter
func (f *Function) AddTypeParameter(tp *TypeParameter) {
	tp.SetParent(f)
	tp.Index = len(f.TypeParameters)
	f.TypeParameters = append(f.TypeParameters, tp)
}

// IsAccessor returns whether the function is a property getter or setter
func (f *Function) IsAccessor() bool {
	return f.CorrespondingProperty != NoSymbol
}

func (f *Function) AcceptChildren(fn func(Node)) {
	f.acceptFunctionChildren(fn)
}

func (f *Function) TransformChildren(fn func(Expression) Expression) {}

func (f *Function) isDeclarationParent() {}

// Constructor is a primary or secondary constructor
type Constructor struct {
	FunctionBase
	IsPrimary bool
}

// NewConstructor creates a new Constructor returning returnType
func NewConstructor(returnType Type, primary bool) *Constructor {
	return &Constructor{
		FunctionBase: FunctionBase{
			DeclarationBase: DeclarationBase{Name: "<init>"},
			ReturnType:      returnType,
		},
		IsPrimary: primary,
	}
}

// GetKind returns DeclarationKindConstructor
func (c *Constructor) GetKind() DeclarationKind {
	return DeclarationKindConstructor
}

// AddValueParameter appends a value parameter
func (c *Constructor) AddValueParameter(vp *ValueParameter) {
	vp.SetParent(c)
	vp.Index = len(c.ValueParameters)
	c.ValueParameters = append(c.ValueParameters, vp)
}

func (c *Constructor) AcceptChildren(fn func(Node)) {
	c.acceptFunctionChildren(fn)
}

func (c *Constructor) TransformChildren(fn func(Expression) Expression) {}

func (c *Constructor) isDeclarationParent() {}

// Property owns an optional backing field and accessors. The field and
// accessors point back at the property through CorrespondingProperty.
type Property struct {
	DeclarationBase
	Visibility   Visibility
	Modality     Modality
	IsVar        bool
	IsExternal   bool
	Overridden   []Symbol
	BackingField *Field
	Getter       *Function
	Setter       *Function
}

// NewProperty creates a new Property
func NewProperty(name string, isVar bool) *Property {
	return &Property{
		DeclarationBase: DeclarationBase{Name: name},
		IsVar:           isVar,
	}
}

// GetKind returns DeclarationKindProperty
func (p *Property) GetKind() DeclarationKind {
	return DeclarationKindProperty
}

func (p *Property) AcceptChildren(fn func(Node)) {
	if p.BackingField != nil {
		fn(p.BackingField)
	}
	if p.Getter != nil {
		fn(p.Getter)
	}
	if p.Setter != nil {
		fn(p.Setter)
	}
}

func (p *Property) TransformChildren(fn func(Expression) Expression) {}

// Field is a storage slot of a class or file
type Field struct {
	DeclarationBase
	Visibility  Visibility
	Type        Type
	Initializer Expression
	IsFinal     bool
	IsStatic    bool
	IsLate      bool
	// CorrespondingProperty is set when the field backs a property.
	CorrespondingProperty Symbol
}

// NewField creates a new Field
func NewField(name string, fieldType Type) *Field {
	return &Field{
		DeclarationBase: DeclarationBase{Name: name},
		Type:            fieldType,
	}
}

// GetKind returns DeclarationKindField
func (f *Field) GetKind() DeclarationKind {
	return DeclarationKindField
}

func (f *Field) AcceptChildren(fn func(Node)) {
	if f.Initializer != nil {
		fn(f.Initializer)
	}
}

func (f *Field) TransformChildren(fn func(Expression) Expression) {
	if f.Initializer != nil {
		f.Initializer = fn(f.Initializer)
	}
}

// ValueParameter is a parameter of a function or constructor
type ValueParameter struct {
	DeclarationBase
	Type Type
	// VarargElementType is set for vararg parameters
	VarargElementType Type
	Default           Expression
	Index             int
}

// NewValueParameter creates a new ValueParameter
func NewValueParameter(name string, paramType Type) *ValueParameter {
	return &ValueParameter{
		DeclarationBase: DeclarationBase{Name: name},
		Type:            paramType,
	}
}

// GetKind returns DeclarationKindValueParameter
func (p *ValueParameter) GetKind() DeclarationKind {
	return DeclarationKindValueParameter
}

func (p *ValueParameter) AcceptChildren(fn func(Node)) {
	if p.Default != nil {
		fn(p.Default)
	}
}

func (p *ValueParameter) TransformChildren(fn func(Expression) Expression) {
	if p.Default != nil {
		p.Default = fn(p.Default)
	}
}

// Variable is a local variable declaration
type Variable struct {
	DeclarationBase
	Type        Type
	Initializer Expression
	IsVar       bool
	IsLate      bool
}

// NewVariable creates a new Variable
func NewVariable(name string, varType Type, initializer Expression) *Variable {
	return &Variable{
		DeclarationBase: DeclarationBase{Name: name},
		Type:            varType,
		Initializer:     initializer,
	}
}

// GetKind returns DeclarationKindVariable
func (v *Variable) GetKind() DeclarationKind {
	return DeclarationKindVariable
}

func (v *Variable) AcceptChildren(fn func(Node)) {
	if v.Initializer != nil {
		fn(v.Initializer)
	}
}

func (v *Variable) TransformChildren(fn func(Expression) Expression) {
	if v.Initializer != nil {
		v.Initializer = fn(v.Initializer)
	}
}

// TypeAlias is a `typealias` declaration
type TypeAlias struct {
	DeclarationBase
	Visibility     Visibility
	TypeParameters []*TypeParameter
	Target         Type
}

// NewTypeAlias creates a new TypeAlias
func NewTypeAlias(name string, target Type) *TypeAlias {
	return &TypeAlias{
		DeclarationBase: DeclarationBase{Name: name},
		Target:          target,
	}
}

// GetKind returns DeclarationKindTypeAlias
func (a *TypeAlias) GetKind() DeclarationKind {
	return DeclarationKindTypeAlias
}

func (a *TypeAlias) AcceptChildren(fn func(Node)) {
	for _, tp := range a.TypeParameters {
		fn(tp)
	}
}

func (a *TypeAlias) TransformChildren(fn func(Expression) Expression) {}

// TypeParameter is a type parameter of a class, function or type alias
type TypeParameter struct {
	DeclarationBase
	Variance   Variance
	SuperTypes []Type
	Index      int
}

// NewTypeParameter creates a new TypeParameter
func NewTypeParameter(name string, variance Variance, superTypes ...Type) *TypeParameter {
	return &TypeParameter{
		DeclarationBase: DeclarationBase{Name: name},
		Variance:        variance,
		SuperTypes:      superTypes,
	}
}

// GetKind returns DeclarationKindTypeParameter
func (p *TypeParameter) GetKind() DeclarationKind {
	return DeclarationKindTypeParameter
}

func (p *TypeParameter) AcceptChildren(fn func(Node)) {}

func (p *TypeParameter) TransformChildren(fn func(Expression) Expression) {}

// Body is the body of a function or constructor
type Body interface {
	Node
	isBody()
}

// BlockBody is a body made of statements
type BlockBody struct {
	Statements []Statement
}

// NewBlockBody creates a new BlockBody
func NewBlockBody(statements ...Statement) *BlockBody {
	return &BlockBody{Statements: statements}
}

func (b *BlockBody) AcceptChildren(fn func(Node)) {
	for _, stmt := range b.Statements {
		fn(stmt)
	}
}

func (b *BlockBody) TransformChildren(fn func(Expression) Expression) {
	transformStatements(b.Statements, fn)
}

func (b *BlockBody) isBody() {}

// ExpressionBody is the body of an expression-bodied function
type ExpressionBody struct {
	Expression Expression
}

// NewExpressionBody creates a new ExpressionBody
func NewExpressionBody(expr Expression) *ExpressionBody {
	return &ExpressionBody{Expression: expr}
}

func (b *ExpressionBody) AcceptChildren(fn func(Node)) {
	fn(b.Expression)
}

func (b *ExpressionBody) TransformChildren(fn func(Expression) Expression) {
	b.Expression = fn(b.Expression)
}

func (b *ExpressionBody) isBody() {}

func transformStatements(statements []Statement, fn func(Expression) Expression) {
	for i, stmt := range statements {
		if expr, ok := stmt.(Expression); ok {
			statements[i] = fn(expr)
		}
	}
}
