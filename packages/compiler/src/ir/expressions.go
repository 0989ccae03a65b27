package ir

// Expression is a node that produces a value of a static type
type Expression interface {
	Statement
	GetType() Type
	SetType(t Type)
	isExpression()
}

// ExpressionBase is the base for all expressions
type ExpressionBase struct {
	Type Type
}

// GetType returns the static type of the expression
func (e *ExpressionBase) GetType() Type {
	return e.Type
}

// SetType sets the static type of the expression
func (e *ExpressionBase) SetType(t Type) {
	e.Type = t
}

func (e *ExpressionBase) isStatement() {}

func (e *ExpressionBase) isExpression() {}

// Const is a literal. Value is nil, bool, rune, int64, float64 or string
// depending on Kind.
type Const struct {
	ExpressionBase
	Kind  ConstKind
	Value interface{}
}

// NewConst creates a new Const
func NewConst(kind ConstKind, value interface{}, t Type) *Const {
	return &Const{ExpressionBase: ExpressionBase{Type: t}, Kind: kind, Value: value}
}

func (e *Const) AcceptChildren(fn func(Node)) {}

func (e *Const) TransformChildren(fn func(Expression) Expression) {}

// GetValue reads a variable or value parameter
type GetValue struct {
	ExpressionBase
	Symbol Symbol
}

// NewGetValue creates a new GetValue
func NewGetValue(sym Symbol, t Type) *GetValue {
	return &GetValue{ExpressionBase: ExpressionBase{Type: t}, Symbol: sym}
}

func (e *GetValue) AcceptChildren(fn func(Node)) {}

func (e *GetValue) TransformChildren(fn func(Expression) Expression) {}

// SetValue assigns a variable
type SetValue struct {
	ExpressionBase
	Symbol Symbol
	Value  Expression
}

// NewSetValue creates a new SetValue
func NewSetValue(sym Symbol, value Expression, t Type) *SetValue {
	return &SetValue{ExpressionBase: ExpressionBase{Type: t}, Symbol: sym, Value: value}
}

func (e *SetValue) AcceptChildren(fn func(Node)) {
	fn(e.Value)
}

func (e *SetValue) TransformChildren(fn func(Expression) Expression) {
	e.Value = fn(e.Value)
}

// GetField reads a field. Receiver is nil for static and top level fields.
type GetField struct {
	ExpressionBase
	Symbol   Symbol
	Receiver Expression
}

// NewGetField creates a new GetField
func NewGetField(sym Symbol, receiver Expression, t Type) *GetField {
	return &GetField{ExpressionBase: ExpressionBase{Type: t}, Symbol: sym, Receiver: receiver}
}

func (e *GetField) AcceptChildren(fn func(Node)) {
	if e.Receiver != nil {
		fn(e.Receiver)
	}
}

func (e *GetField) TransformChildren(fn func(Expression) Expression) {
	if e.Receiver != nil {
		e.Receiver = fn(e.Receiver)
	}
}

// SetField writes a field
type SetField struct {
	ExpressionBase
	Symbol   Symbol
	Receiver Expression
	Value    Expression
}

// NewSetField creates a new SetField
func NewSetField(sym Symbol, receiver Expression, value Expression, t Type) *SetField {
	return &SetField{ExpressionBase: ExpressionBase{Type: t}, Symbol: sym, Receiver: receiver, Value: value}
}

func (e *SetField) AcceptChildren(fn func(Node)) {
	if e.Receiver != nil {
		fn(e.Receiver)
	}
	fn(e.Value)
}

func (e *SetField) TransformChildren(fn func(Expression) Expression) {
	if e.Receiver != nil {
		e.Receiver = fn(e.Receiver)
	}
	e.Value = fn(e.Value)
}

// GetThis reads the receiver of the enclosing class
type GetThis struct {
	ExpressionBase
	Class Symbol
}

// NewGetThis creates a new GetThis
func NewGetThis(class Symbol, t Type) *GetThis {
	return &GetThis{ExpressionBase: ExpressionBase{Type: t}, Class: class}
}

func (e *GetThis) AcceptChildren(fn func(Node)) {}

func (e *GetThis) TransformChildren(fn func(Expression) Expression) {}

// GetObject reads the instance of an object declaration
type GetObject struct {
	ExpressionBase
	Class Symbol
}

// NewGetObject creates a new GetObject
func NewGetObject(class Symbol, t Type) *GetObject {
	return &GetObject{ExpressionBase: ExpressionBase{Type: t}, Class: class}
}

func (e *GetObject) AcceptChildren(fn func(Node)) {}

func (e *GetObject) TransformChildren(fn func(Expression) Expression) {}

// Call calls a function or constructor. A nil argument means the parameter's
// default value is used.
type Call struct {
	ExpressionBase
	Symbol           Symbol
	DispatchReceiver Expression
	TypeArguments    []Type
	Arguments        []Expression
	Origin           Origin
}

// NewCall creates a new Call
func NewCall(sym Symbol, t Type, args ...Expression) *Call {
	return &Call{ExpressionBase: ExpressionBase{Type: t}, Symbol: sym, Arguments: args}
}

func (e *Call) AcceptChildren(fn func(Node)) {
	if e.DispatchReceiver != nil {
		fn(e.DispatchReceiver)
	}
	for _, arg := range e.Arguments {
		if arg != nil {
			fn(arg)
		}
	}
}

func (e *Call) TransformChildren(fn func(Expression) Expression) {
	if e.DispatchReceiver != nil {
		e.DispatchReceiver = fn(e.DispatchReceiver)
	}
	for i, arg := range e.Arguments {
		if arg != nil {
			e.Arguments[i] = fn(arg)
		}
	}
}

// Return returns from the function Target. Value is nil for a bare return.
type Return struct {
	ExpressionBase
	Target Symbol
	Value  Expression
}

// NewReturn creates a new Return
func NewReturn(target Symbol, value Expression, t Type) *Return {
	return &Return{ExpressionBase: ExpressionBase{Type: t}, Target: target, Value: value}
}

func (e *Return) AcceptChildren(fn func(Node)) {
	if e.Value != nil {
		fn(e.Value)
	}
}

func (e *Return) TransformChildren(fn func(Expression) Expression) {
	if e.Value != nil {
		e.Value = fn(e.Value)
	}
}

// Throw throws Value
type Throw struct {
	ExpressionBase
	Value Expression
}

// NewThrow creates a new Throw
func NewThrow(value Expression, t Type) *Throw {
	return &Throw{ExpressionBase: ExpressionBase{Type: t}, Value: value}
}

func (e *Throw) AcceptChildren(fn func(Node)) {
	fn(e.Value)
}

func (e *Throw) TransformChildren(fn func(Expression) Expression) {
	e.Value = fn(e.Value)
}

// Block is a statement list used as an expression
type Block struct {
	ExpressionBase
	Statements []Statement
	Origin     Origin
}

// NewBlock creates a new Block
func NewBlock(t Type, statements ...Statement) *Block {
	return &Block{ExpressionBase: ExpressionBase{Type: t}, Statements: statements}
}

func (e *Block) AcceptChildren(fn func(Node)) {
	for _, stmt := range e.Statements {
		fn(stmt)
	}
}

func (e *Block) TransformChildren(fn func(Expression) Expression) {
	transformStatements(e.Statements, fn)
}

// Branch is a single `condition -> result` arm of a When
type Branch struct {
	Condition Expression
	Result    Expression
}

// When evaluates the result of the first branch whose condition holds
type When struct {
	ExpressionBase
	Branches []*Branch
	Origin   Origin
}

// NewWhen creates a new When
func NewWhen(t Type, origin Origin, branches ...*Branch) *When {
	return &When{ExpressionBase: ExpressionBase{Type: t}, Branches: branches, Origin: origin}
}

func (e *When) AcceptChildren(fn func(Node)) {
	for _, branch := range e.Branches {
		fn(branch.Condition)
		fn(branch.Result)
	}
}

func (e *When) TransformChildren(fn func(Expression) Expression) {
	for _, branch := range e.Branches {
		branch.Condition = fn(branch.Condition)
		branch.Result = fn(branch.Result)
	}
}

// TypeOperatorCall applies a type operator to Argument
type TypeOperatorCall struct {
	ExpressionBase
	Operator TypeOperator
	Argument Expression
	Operand  Type
}

// NewTypeOperatorCall creates a new TypeOperatorCall
func NewTypeOperatorCall(op TypeOperator, argument Expression, operand Type, t Type) *TypeOperatorCall {
	return &TypeOperatorCall{ExpressionBase: ExpressionBase{Type: t}, Operator: op, Argument: argument, Operand: operand}
}

func (e *TypeOperatorCall) AcceptChildren(fn func(Node)) {
	fn(e.Argument)
}

func (e *TypeOperatorCall) TransformChildren(fn func(Expression) Expression) {
	e.Argument = fn(e.Argument)
}

// Vararg packs elements passed to a vararg parameter
type Vararg struct {
	ExpressionBase
	ElementType Type
	Elements    []Expression
}

// NewVararg creates a new Vararg
func NewVararg(elementType Type, t Type, elements ...Expression) *Vararg {
	return &Vararg{ExpressionBase: ExpressionBase{Type: t}, ElementType: elementType, Elements: elements}
}

func (e *Vararg) AcceptChildren(fn func(Node)) {
	for _, el := range e.Elements {
		fn(el)
	}
}

func (e *Vararg) TransformChildren(fn func(Expression) Expression) {
	for i, el := range e.Elements {
		e.Elements[i] = fn(el)
	}
}

// FunctionExpr is a lambda or anonymous function
type FunctionExpr struct {
	ExpressionBase
	Function *Function
}

// NewFunctionExpr creates a new FunctionExpr
func NewFunctionExpr(function *Function, t Type) *FunctionExpr {
	return &FunctionExpr{ExpressionBase: ExpressionBase{Type: t}, Function: function}
}

func (e *FunctionExpr) AcceptChildren(fn func(Node)) {
	fn(e.Function)
}

func (e *FunctionExpr) TransformChildren(fn func(Expression) Expression) {}

// Conjunction is a short-circuiting `&&` over its operands
type Conjunction struct {
	ExpressionBase
	Operands []Expression
}

// NewConjunction creates a new Conjunction
func NewConjunction(t Type, operands ...Expression) *Conjunction {
	return &Conjunction{ExpressionBase: ExpressionBase{Type: t}, Operands: operands}
}

func (e *Conjunction) AcceptChildren(fn func(Node)) {
	for _, op := range e.Operands {
		fn(op)
	}
}

func (e *Conjunction) TransformChildren(fn func(Expression) Expression) {
	for i, op := range e.Operands {
		e.Operands[i] = fn(op)
	}
}

// Disjunction is a short-circuiting `||` over its operands
type Disjunction struct {
	ExpressionBase
	Operands []Expression
}

// NewDisjunction creates a new Disjunction
func NewDisjunction(t Type, operands ...Expression) *Disjunction {
	return &Disjunction{ExpressionBase: ExpressionBase{Type: t}, Operands: operands}
}

func (e *Disjunction) AcceptChildren(fn func(Node)) {
	for _, op := range e.Operands {
		fn(op)
	}
}

func (e *Disjunction) TransformChildren(fn func(Expression) Expression) {
	for i, op := range e.Operands {
		e.Operands[i] = fn(op)
	}
}
