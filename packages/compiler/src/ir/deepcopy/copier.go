package deepcopy

import (
	"dotlin-go/packages/compiler/src/ir"
	"dotlin-go/packages/compiler/src/ir/remap"
	"dotlin-go/packages/compiler/src/ir/visit"

	"github.com/pkg/errors"
)

type options struct {
	redirect      ir.RemapLevel
	internalRemap bool
}

// Option configures a deep copy
type Option func(*options)

// WithRedirect redirects every reference to the copied declarations found at
// level to their clones.
func WithRedirect(level ir.RemapLevel) Option {
	return func(o *options) {
		o.redirect = level
	}
}

// WithoutInternalRemap keeps references inside the clone pointing at the
// original declarations. Back references between a property and its field
// and accessors are still kept consistent.
func WithoutInternalRemap() Option {
	return func(o *options) {
		o.internalRemap = false
	}
}

// bailout carries an error out of the recursive copy
type bailout struct {
	err error
}

// copier clones one declaration subtree. symbols is the clone cache: one new
// symbol per distinct original declaration. clones memoizes cloned nodes so a
// declaration owned along two paths is cloned once.
type copier struct {
	table   *ir.SymbolTable
	opts    options
	symbols map[ir.Symbol]ir.Symbol
	clones  map[ir.Declaration]ir.Declaration
	order   []ir.Declaration
	types   remap.TypeSubstitution
}

func newCopier(m *ir.Module, opts []Option) *copier {
	c := &copier{
		table:   m.Symbols,
		opts:    options{redirect: ir.RemapNone, internalRemap: true},
		symbols: make(map[ir.Symbol]ir.Symbol),
		clones:  make(map[ir.Declaration]ir.Declaration),
	}
	for _, opt := range opts {
		opt(&c.opts)
	}
	c.types = remap.ClassifierSubstitution(c.symbols)
	return c
}

// run copies original, lets finish apply the builder to the clone, binds the
// new symbols and performs the requested redirect.
func run[D ir.Declaration](m *ir.Module, original D, opts []Option, finish func(c *copier, clone D)) (result D, err error) {
	var zero D
	c := newCopier(m, opts)
	defer func() {
		if r := recover(); r != nil {
			b, ok := r.(bailout)
			if !ok {
				panic(r)
			}
			result, err = zero, b.err
		}
	}()

	if original.GetSymbol() == ir.NoSymbol {
		return zero, errors.Errorf("deep copy: %s %q is not bound", original.GetKind(), original.GetName())
	}
	c.collect(original)
	clone := c.declaration(original).(D)
	clone.SetParent(original.GetParent())
	finish(c, clone)
	c.bind()
	if err := c.redirect(original); err != nil {
		return zero, err
	}
	return clone, nil
}

func (c *copier) fail(err error) {
	panic(bailout{err: err})
}

// collect allocates one symbol per distinct declaration owned by root.
func (c *copier) collect(root ir.Declaration) {
	visit.Walk(root, func(n ir.Node) bool {
		decl, ok := n.(ir.Declaration)
		if !ok {
			return true
		}
		if _, seen := c.symbols[decl.GetSymbol()]; seen {
			return false
		}
		if decl.GetSymbol() == ir.NoSymbol {
			c.fail(errors.Errorf("deep copy: %s %q is not bound", decl.GetKind(), decl.GetName()))
		}
		c.symbols[decl.GetSymbol()] = c.table.Allocate()
		return true
	})
}

func (c *copier) bind() {
	for _, original := range c.order {
		c.table.BindTo(c.symbols[original.GetSymbol()], c.clones[original])
	}
	for from, to := range c.symbols {
		if _, ok := c.table.Lookup(to); !ok {
			c.fail(errors.Errorf("deep copy: no clone was produced for #%d", from))
		}
	}
}

func (c *copier) redirect(original ir.Declaration) error {
	if c.opts.redirect == ir.RemapNone {
		return nil
	}
	if err := remap.AtLevel(c.table, original, c.opts.redirect, remap.Mapping(c.symbols)); err != nil {
		return err
	}
	for from, to := range c.symbols {
		c.table.MarkRedirected(from, to)
	}
	return nil
}

// register records clone as the copy of original and reparents it.
func (c *copier) register(original, clone ir.Declaration) {
	c.clones[original] = clone
	c.order = append(c.order, original)
	clone.SetParent(c.parent(original.GetParent()))
}

func (c *copier) parent(p ir.DeclarationParent) ir.DeclarationParent {
	if decl, ok := p.(ir.Declaration); ok {
		if clone, ok := c.clones[decl]; ok {
			return clone.(ir.DeclarationParent)
		}
	}
	return p
}

// sym maps a reference held inside the copied subtree.
func (c *copier) sym(s ir.Symbol) ir.Symbol {
	if !c.opts.internalRemap {
		return s
	}
	return c.backRef(s)
}

// backRef maps a back reference, which always follows the clone.
func (c *copier) backRef(s ir.Symbol) ir.Symbol {
	if to, ok := c.symbols[s]; ok {
		return to
	}
	return s
}

func (c *copier) syms(syms []ir.Symbol) []ir.Symbol {
	if syms == nil {
		return nil
	}
	result := make([]ir.Symbol, len(syms))
	for i, s := range syms {
		result[i] = c.sym(s)
	}
	return result
}

func (c *copier) typ(t ir.Type) ir.Type {
	if !c.opts.internalRemap {
		return t
	}
	return remap.RemapType(t, c.types)
}

func (c *copier) typeList(types []ir.Type) []ir.Type {
	if types == nil {
		return nil
	}
	result := make([]ir.Type, len(types))
	for i, t := range types {
		result[i] = c.typ(t)
	}
	return result
}

func (c *copier) declaration(d ir.Declaration) ir.Declaration {
	if clone, ok := c.clones[d]; ok {
		return clone
	}
	switch d := d.(type) {
	case *ir.Class:
		return c.class(d)
	case *ir.Function:
		return c.function(d)
	case *ir.Constructor:
		return c.constructor(d)
	case *ir.Property:
		return c.property(d)
	case *ir.Field:
		return c.field(d)
	case *ir.ValueParameter:
		return c.valueParameter(d)
	case *ir.Variable:
		return c.variable(d)
	case *ir.TypeAlias:
		return c.typeAlias(d)
	case *ir.TypeParameter:
		return c.typeParameter(d)
	}
	c.fail(ir.NewUnsupportedConstructError("deep copy", d))
	return nil
}

func (c *copier) class(o *ir.Class) *ir.Class {
	n := &ir.Class{
		DeclarationBase: ir.DeclarationBase{Name: o.Name, Origin: o.Origin},
		ClassKind:       o.ClassKind,
		Visibility:      o.Visibility,
		Modality:        o.Modality,
		IsExternal:      o.IsExternal,
	}
	c.register(o, n)
	n.TypeParameters = c.typeParameters(o.TypeParameters)
	n.SuperTypes = c.typeList(o.SuperTypes)
	for _, decl := range o.Declarations {
		n.Declarations = append(n.Declarations, c.declaration(decl))
	}
	return n
}

func (c *copier) functionBase(o, n *ir.FunctionBase) {
	n.Visibility = o.Visibility
	n.IsExternal = o.IsExternal
	n.TypeParameters = c.typeParameters(o.TypeParameters)
	for _, vp := range o.ValueParameters {
		n.ValueParameters = append(n.ValueParameters, c.declaration(vp).(*ir.ValueParameter))
	}
	n.ReturnType = c.typ(o.ReturnType)
	n.Body = c.body(o.Body)
}

func (c *copier) function(o *ir.Function) *ir.Function {
	n := &ir.Function{
		FunctionBase: ir.FunctionBase{DeclarationBase: ir.DeclarationBase{Name: o.Name, Origin: o.Origin}},
		Modality:     o.Modality,
		IsStatic:     o.IsStatic,
	}
	c.register(o, n)
	c.functionBase(&o.FunctionBase, &n.FunctionBase)
	n.Overridden = c.syms(o.Overridden)
	n.CorrespondingProperty = c.backRef(o.CorrespondingProperty)
	return n
}

func (c *copier) constructor(o *ir.Constructor) *ir.Constructor {
	n := &ir.Constructor{
		FunctionBase: ir.FunctionBase{DeclarationBase: ir.DeclarationBase{Name: o.Name, Origin: o.Origin}},
		IsPrimary:    o.IsPrimary,
	}
	c.register(o, n)
	c.functionBase(&o.FunctionBase, &n.FunctionBase)
	return n
}

func (c *copier) property(o *ir.Property) *ir.Property {
	n := &ir.Property{
		DeclarationBase: ir.DeclarationBase{Name: o.Name, Origin: o.Origin},
		Visibility:      o.Visibility,
		Modality:        o.Modality,
		IsVar:           o.IsVar,
		IsExternal:      o.IsExternal,
	}
	c.register(o, n)
	n.Overridden = c.syms(o.Overridden)
	if o.BackingField != nil {
		n.BackingField = c.declaration(o.BackingField).(*ir.Field)
	}
	if o.Getter != nil {
		n.Getter = c.declaration(o.Getter).(*ir.Function)
	}
	if o.Setter != nil {
		n.Setter = c.declaration(o.Setter).(*ir.Function)
	}
	return n
}

func (c *copier) field(o *ir.Field) *ir.Field {
	n := &ir.Field{
		DeclarationBase: ir.DeclarationBase{Name: o.Name, Origin: o.Origin},
		Visibility:      o.Visibility,
		IsFinal:         o.IsFinal,
		IsStatic:        o.IsStatic,
		IsLate:          o.IsLate,
	}
	c.register(o, n)
	n.Type = c.typ(o.Type)
	n.Initializer = c.expression(o.Initializer)
	n.CorrespondingProperty = c.backRef(o.CorrespondingProperty)
	return n
}

func (c *copier) valueParameter(o *ir.ValueParameter) *ir.ValueParameter {
	n := &ir.ValueParameter{
		DeclarationBase: ir.DeclarationBase{Name: o.Name, Origin: o.Origin},
		Index:           o.Index,
	}
	c.register(o, n)
	n.Type = c.typ(o.Type)
	n.VarargElementType = c.typ(o.VarargElementType)
	n.Default = c.expression(o.Default)
	return n
}

func (c *copier) variable(o *ir.Variable) *ir.Variable {
	n := &ir.Variable{
		DeclarationBase: ir.DeclarationBase{Name: o.Name, Origin: o.Origin},
		IsVar:           o.IsVar,
		IsLate:          o.IsLate,
	}
	c.register(o, n)
	n.Type = c.typ(o.Type)
	n.Initializer = c.expression(o.Initializer)
	return n
}

func (c *copier) typeAlias(o *ir.TypeAlias) *ir.TypeAlias {
	n := &ir.TypeAlias{
		DeclarationBase: ir.DeclarationBase{Name: o.Name, Origin: o.Origin},
		Visibility:      o.Visibility,
	}
	c.register(o, n)
	n.TypeParameters = c.typeParameters(o.TypeParameters)
	n.Target = c.typ(o.Target)
	return n
}

func (c *copier) typeParameter(o *ir.TypeParameter) *ir.TypeParameter {
	n := &ir.TypeParameter{
		DeclarationBase: ir.DeclarationBase{Name: o.Name, Origin: o.Origin},
		Variance:        o.Variance,
		Index:           o.Index,
	}
	c.register(o, n)
	n.SuperTypes = c.typeList(o.SuperTypes)
	return n
}

func (c *copier) typeParameters(tps []*ir.TypeParameter) []*ir.TypeParameter {
	var result []*ir.TypeParameter
	for _, tp := range tps {
		result = append(result, c.declaration(tp).(*ir.TypeParameter))
	}
	return result
}

func (c *copier) body(b ir.Body) ir.Body {
	switch b := b.(type) {
	case nil:
		return nil
	case *ir.BlockBody:
		return &ir.BlockBody{Statements: c.statements(b.Statements)}
	case *ir.ExpressionBody:
		return &ir.ExpressionBody{Expression: c.expression(b.Expression)}
	}
	c.fail(ir.NewUnsupportedConstructError("deep copy", b))
	return nil
}

func (c *copier) statements(statements []ir.Statement) []ir.Statement {
	result := make([]ir.Statement, len(statements))
	for i, stmt := range statements {
		switch s := stmt.(type) {
		case ir.Declaration:
			result[i] = c.declaration(s)
		case ir.Expression:
			result[i] = c.expression(s)
		default:
			c.fail(ir.NewUnsupportedConstructError("deep copy", stmt))
		}
	}
	return result
}

func (c *copier) expressions(exprs []ir.Expression) []ir.Expression {
	if exprs == nil {
		return nil
	}
	result := make([]ir.Expression, len(exprs))
	for i, e := range exprs {
		result[i] = c.expression(e)
	}
	return result
}

func (c *copier) expression(e ir.Expression) ir.Expression {
	if e == nil {
		return nil
	}
	t := c.typ(e.GetType())
	switch e := e.(type) {
	case *ir.Const:
		return ir.NewConst(e.Kind, e.Value, t)
	case *ir.GetValue:
		return ir.NewGetValue(c.sym(e.Symbol), t)
	case *ir.SetValue:
		return ir.NewSetValue(c.sym(e.Symbol), c.expression(e.Value), t)
	case *ir.GetField:
		return ir.NewGetField(c.sym(e.Symbol), c.expression(e.Receiver), t)
	case *ir.SetField:
		return ir.NewSetField(c.sym(e.Symbol), c.expression(e.Receiver), c.expression(e.Value), t)
	case *ir.GetThis:
		return ir.NewGetThis(c.sym(e.Class), t)
	case *ir.GetObject:
		return ir.NewGetObject(c.sym(e.Class), t)
	case *ir.Call:
		call := ir.NewCall(c.sym(e.Symbol), t, c.expressions(e.Arguments)...)
		call.DispatchReceiver = c.expression(e.DispatchReceiver)
		call.TypeArguments = c.typeList(e.TypeArguments)
		call.Origin = e.Origin
		return call
	case *ir.Return:
		return ir.NewReturn(c.sym(e.Target), c.expression(e.Value), t)
	case *ir.Throw:
		return ir.NewThrow(c.expression(e.Value), t)
	case *ir.Block:
		block := ir.NewBlock(t, c.statements(e.Statements)...)
		block.Origin = e.Origin
		return block
	case *ir.When:
		when := ir.NewWhen(t, e.Origin)
		for _, branch := range e.Branches {
			when.Branches = append(when.Branches, &ir.Branch{
				Condition: c.expression(branch.Condition),
				Result:    c.expression(branch.Result),
			})
		}
		return when
	case *ir.TypeOperatorCall:
		return ir.NewTypeOperatorCall(e.Operator, c.expression(e.Argument), c.typ(e.Operand), t)
	case *ir.Vararg:
		return ir.NewVararg(c.typ(e.ElementType), t, c.expressions(e.Elements)...)
	case *ir.FunctionExpr:
		return ir.NewFunctionExpr(c.declaration(e.Function).(*ir.Function), t)
	case *ir.Conjunction:
		return ir.NewConjunction(t, c.expressions(e.Operands)...)
	case *ir.Disjunction:
		return ir.NewDisjunction(t, c.expressions(e.Operands)...)
	}
	c.fail(ir.NewUnsupportedConstructError("deep copy", e))
	return nil
}
