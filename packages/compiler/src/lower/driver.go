package lower

import (
	"fmt"

	"dotlin-go/packages/compiler/src/ir"
	"dotlin-go/packages/compiler/src/ir/remap"
	"dotlin-go/packages/compiler/src/ir/visit"
	"dotlin-go/packages/compiler/src/lower/compilation"
	"dotlin-go/packages/compiler/src/lower/transform"

	"github.com/pkg/errors"
)

// spliceEach visits the elements of list in order and splices every result
// into it. store is called with the new list before the result is wired, so
// remapping sees the container as the phase left it. Elements a result
// introduces are not visited themselves, only their children.
func spliceEach[E comparable](
	ctx *compilation.Context,
	list []E,
	parent ir.DeclarationParent,
	store func([]E),
	apply func(E) (transform.Result[E], error),
	children func(E) error,
) error {
	for i := 0; i < len(list); {
		visited := list[i]
		r, err := apply(visited)
		if err != nil {
			return err
		}
		if r.IsNoChange() {
			if err := children(visited); err != nil {
				return err
			}
			i++
			continue
		}

		spliced, start, n, err := transform.Splice(list, i, r)
		if err != nil {
			return errors.Wrapf(err, "applying the result for %s", describe(visited))
		}
		list = spliced
		store(list)
		if err := wire(ctx, parent, visited, r.Steps()); err != nil {
			return err
		}
		for _, element := range list[start : start+n] {
			if err := children(element); err != nil {
				return err
			}
		}
		i = start + n
	}
	return nil
}

// wire connects the elements introduced by steps to parent and redirects the
// references to every replaced declaration at the level its step requested.
func wire[E comparable](ctx *compilation.Context, parent ir.DeclarationParent, visited E, steps []transform.Step[E]) error {
	var zero E
	for _, step := range steps {
		if step.Kind == transform.StepRemove {
			continue
		}
		node, ok := any(step.New).(ir.Node)
		if !ok {
			continue
		}
		adopt(ctx, node, parent)
		if step.Kind != transform.StepReplace {
			continue
		}
		if step.Remap == ir.RemapNone && !step.Copied {
			continue
		}
		newDecl, ok := node.(ir.Declaration)
		if !ok {
			continue
		}
		old := step.Old
		if old == zero {
			old = visited
		}
		oldDecl, ok := any(old).(ir.Declaration)
		if !ok {
			// nothing refers to a statement that is not a declaration
			continue
		}
		if step.Copied {
			if err := checkCopied(ctx, oldDecl, newDecl); err != nil {
				return err
			}
			continue
		}
		if err := redirect(ctx, oldDecl, newDecl, step.Remap); err != nil {
			return err
		}
	}
	return nil
}

// adopt parents node to parent when it is a declaration, and binds every
// declaration under node that has no symbol yet. Nested declarations without
// a parent are parented to their nearest container.
func adopt(ctx *compilation.Context, node ir.Node, parent ir.DeclarationParent) {
	if decl, ok := node.(ir.Declaration); ok && parent != nil {
		decl.SetParent(parent)
	}
	var bind func(n ir.Node, container ir.DeclarationParent)
	bind = func(n ir.Node, container ir.DeclarationParent) {
		if decl, ok := n.(ir.Declaration); ok {
			if decl.GetParent() == nil && container != nil {
				decl.SetParent(container)
			}
			if decl.GetSymbol() == ir.NoSymbol {
				ctx.Symbols.Bind(decl)
			}
		}
		if p, ok := n.(ir.DeclarationParent); ok {
			container = p
		}
		n.AcceptChildren(func(child ir.Node) {
			bind(child, container)
		})
	}
	bind(node, parent)
}

// checkCopied verifies that the deep copy standing in for old redirected the
// references to old to it.
func checkCopied(ctx *compilation.Context, old, replacement ir.Declaration) error {
	to, done := ctx.Symbols.RedirectedTo(old.GetSymbol())
	if !done {
		return ir.NewInvariantViolationError(old.GetSymbol(), replacement.GetSymbol(),
			"the copy of %s %q did not redirect references", old.GetKind(), old.GetName())
	}
	if to != replacement.GetSymbol() {
		return ir.NewInvariantViolationError(old.GetSymbol(), replacement.GetSymbol(),
			"references to %s %q were redirected to #%d, not to the copy", old.GetKind(), old.GetName(), to)
	}
	return nil
}

// redirect remaps old to replacement at level. Only one layer may redirect a
// replaced declaration: replacing one whose references a deep copy already
// redirected must use RemapNone.
func redirect(ctx *compilation.Context, old, replacement ir.Declaration, level ir.RemapLevel) error {
	if to, done := ctx.Symbols.RedirectedTo(old.GetSymbol()); done {
		return ir.NewInvariantViolationError(old.GetSymbol(), replacement.GetSymbol(),
			"references to %s %q were already redirected to #%d", old.GetKind(), old.GetName(), to)
	}
	mapping := replacementMapping(old, replacement)
	if err := remap.AtLevel(ctx.Symbols, old, level, mapping); err != nil {
		return err
	}
	for from, to := range mapping {
		ctx.Symbols.MarkRedirected(from, to)
	}
	ctx.Logf("redirected %s %q (#%d -> #%d) at %s level", old.GetKind(), old.GetName(),
		old.GetSymbol(), replacement.GetSymbol(), level)
	return nil
}

// replacementMapping pairs old with replacement and, where both have the same
// shape, the parameters and accessors they own.
func replacementMapping(old, replacement ir.Declaration) remap.Mapping {
	mapping := remap.Mapping{}
	pair := func(from, to ir.Declaration) {
		if from.GetSymbol() != to.GetSymbol() {
			mapping[from.GetSymbol()] = to.GetSymbol()
		}
	}
	pair(old, replacement)

	typeParameters := func(from, to []*ir.TypeParameter) {
		if len(from) == len(to) {
			for i := range from {
				pair(from[i], to[i])
			}
		}
	}
	valueParameters := func(from, to []*ir.ValueParameter) {
		if len(from) == len(to) {
			for i := range from {
				pair(from[i], to[i])
			}
		}
	}

	switch o := old.(type) {
	case *ir.Class:
		if r, ok := replacement.(*ir.Class); ok {
			typeParameters(o.TypeParameters, r.TypeParameters)
		}
	case *ir.Function:
		if r, ok := replacement.(*ir.Function); ok {
			typeParameters(o.TypeParameters, r.TypeParameters)
			valueParameters(o.ValueParameters, r.ValueParameters)
		}
	case *ir.Constructor:
		if r, ok := replacement.(*ir.Constructor); ok {
			valueParameters(o.ValueParameters, r.ValueParameters)
		}
	case *ir.Property:
		if r, ok := replacement.(*ir.Property); ok {
			if o.BackingField != nil && r.BackingField != nil {
				pair(o.BackingField, r.BackingField)
			}
			if o.Getter != nil && r.Getter != nil {
				pair(o.Getter, r.Getter)
			}
			if o.Setter != nil && r.Setter != nil {
				pair(o.Setter, r.Setter)
			}
		}
	}
	return mapping
}

func describe(element interface{}) string {
	if decl, ok := element.(ir.Declaration); ok {
		return fmt.Sprintf("%s %q", decl.GetKind(), decl.GetName())
	}
	return fmt.Sprintf("%T", element)
}

// declarationDriver invokes a DeclarationFn on the members of files and
// classes, on the declarations of statement lists, on value parameters and on
// the field and accessors of properties.
type declarationDriver struct {
	ctx *compilation.Context
	fn  DeclarationFn
}

func newDeclarationDriver(ctx *compilation.Context, fn DeclarationFn) *declarationDriver {
	return &declarationDriver{ctx: ctx, fn: fn}
}

func (d *declarationDriver) file(file *ir.File) error {
	return d.declarations(file.Declarations, file, func(list []ir.Declaration) {
		file.Declarations = list
	})
}

func (d *declarationDriver) declarations(list []ir.Declaration, parent ir.DeclarationParent, store func([]ir.Declaration)) error {
	return spliceEach(d.ctx, list, parent, store, func(decl ir.Declaration) (transform.Result[ir.Declaration], error) {
		return d.fn(d.ctx, decl)
	}, d.children)
}

func (d *declarationDriver) children(decl ir.Declaration) error {
	switch n := decl.(type) {
	case *ir.Class:
		return d.declarations(n.Declarations, n, func(list []ir.Declaration) {
			n.Declarations = list
		})
	case *ir.Function:
		return d.function(&n.FunctionBase, n)
	case *ir.Constructor:
		return d.function(&n.FunctionBase, n)
	case *ir.Property:
		return d.property(n)
	}
	return d.nested(decl, decl.GetParent())
}

func (d *declarationDriver) function(fn *ir.FunctionBase, container ir.DeclarationParent) error {
	err := spliceEach(d.ctx, fn.ValueParameters, container, func(list []*ir.ValueParameter) {
		for i, vp := range list {
			vp.Index = i
		}
		fn.ValueParameters = list
	}, func(vp *ir.ValueParameter) (transform.Result[*ir.ValueParameter], error) {
		r, err := d.fn(d.ctx, vp)
		if err != nil {
			return transform.NoChange[*ir.ValueParameter](), err
		}
		var misplaced ir.Declaration
		narrowed := transform.Map(r, func(decl ir.Declaration) *ir.ValueParameter {
			param, ok := decl.(*ir.ValueParameter)
			if !ok {
				misplaced = decl
			}
			return param
		})
		if misplaced != nil {
			return narrowed, errors.Errorf("%s cannot stand in a value parameter list", describe(misplaced))
		}
		return narrowed, nil
	}, func(vp *ir.ValueParameter) error {
		return d.nested(vp, container)
	})
	if err != nil {
		return err
	}
	if fn.Body != nil {
		return d.nestedNode(fn.Body, container)
	}
	return nil
}

// property visits the field and accessors of prop. A backing field that is
// also a member of the container is visited there, not here.
func (d *declarationDriver) property(prop *ir.Property) error {
	parent := prop.GetParent()
	if prop.BackingField != nil && !isMember(parent, prop.BackingField) {
		if err := slot(d, prop.BackingField, parent, func(f *ir.Field) { prop.BackingField = f }); err != nil {
			return err
		}
	}
	if prop.Getter != nil {
		if err := slot(d, prop.Getter, parent, func(f *ir.Function) { prop.Getter = f }); err != nil {
			return err
		}
	}
	if prop.Setter != nil {
		if err := slot(d, prop.Setter, parent, func(f *ir.Function) { prop.Setter = f }); err != nil {
			return err
		}
	}
	return nil
}

func isMember(parent ir.DeclarationParent, decl ir.Declaration) bool {
	var members []ir.Declaration
	switch p := parent.(type) {
	case *ir.Class:
		members = p.Declarations
	case *ir.File:
		members = p.Declarations
	default:
		return false
	}
	for _, member := range members {
		if member == decl {
			return true
		}
	}
	return false
}

// slot applies the phase to a declaration held in an optional single slot
func slot[T ir.Declaration](d *declarationDriver, current T, parent ir.DeclarationParent, store func(T)) error {
	r, err := d.fn(d.ctx, current)
	if err != nil {
		return err
	}
	if r.IsNoChange() {
		return d.children(current)
	}
	replaced, err := transform.ApplySingle[ir.Declaration](current, r, true)
	if err != nil {
		return errors.Wrapf(err, "applying the result for %s", describe(current))
	}
	var typed T
	if replaced != nil {
		var ok bool
		if typed, ok = replaced.(T); !ok {
			return errors.Errorf("%s cannot replace %s", describe(replaced), describe(current))
		}
	}
	store(typed)
	if err := wire[ir.Declaration](d.ctx, parent, current, r.Steps()); err != nil {
		return err
	}
	if replaced == nil {
		return nil
	}
	return d.children(typed)
}

// nested looks for statement lists and lambdas under node
func (d *declarationDriver) nested(node ir.Node, container ir.DeclarationParent) error {
	var err error
	node.AcceptChildren(func(child ir.Node) {
		if err == nil {
			err = d.nestedNode(child, container)
		}
	})
	return err
}

func (d *declarationDriver) nestedNode(node ir.Node, container ir.DeclarationParent) error {
	switch n := node.(type) {
	case *ir.BlockBody:
		return d.statements(n.Statements, container, func(list []ir.Statement) { n.Statements = list })
	case *ir.Block:
		return d.statements(n.Statements, container, func(list []ir.Statement) { n.Statements = list })
	case *ir.FunctionExpr:
		return d.children(n.Function)
	case ir.Declaration:
		return d.children(n)
	}
	return d.nested(node, container)
}

func (d *declarationDriver) statements(list []ir.Statement, container ir.DeclarationParent, store func([]ir.Statement)) error {
	return spliceEach(d.ctx, list, container, store, func(stmt ir.Statement) (transform.Result[ir.Statement], error) {
		decl, ok := stmt.(ir.Declaration)
		if !ok {
			return transform.NoChange[ir.Statement](), nil
		}
		r, err := d.fn(d.ctx, decl)
		return transform.Map(r, func(decl ir.Declaration) ir.Statement { return decl }), err
	}, func(stmt ir.Statement) error {
		return d.nestedNode(stmt, container)
	})
}

// statementDriver invokes a StatementFn on every statement of every
// statement list: block bodies and blocks, including those nested in
// expressions and lambdas.
type statementDriver struct {
	ctx *compilation.Context
	fn  StatementFn
}

func newStatementDriver(ctx *compilation.Context, fn StatementFn) *statementDriver {
	return &statementDriver{ctx: ctx, fn: fn}
}

func (d *statementDriver) node(node ir.Node, vctx visit.ExpressionContext) error {
	vctx = vctx.Enter(node)
	switch n := node.(type) {
	case *ir.BlockBody:
		return d.list(n.Statements, vctx, func(list []ir.Statement) { n.Statements = list })
	case *ir.Block:
		return d.list(n.Statements, vctx, func(list []ir.Statement) { n.Statements = list })
	}
	var err error
	node.AcceptChildren(func(child ir.Node) {
		if err == nil {
			err = d.node(child, vctx)
		}
	})
	return err
}

func (d *statementDriver) list(list []ir.Statement, vctx visit.ExpressionContext, store func([]ir.Statement)) error {
	return spliceEach(d.ctx, list, vctx.Container, store, func(stmt ir.Statement) (transform.Result[ir.Statement], error) {
		return d.fn(d.ctx, stmt, vctx)
	}, func(stmt ir.Statement) error {
		return d.node(stmt, vctx)
	})
}

// transformExpressions invokes fn on every expression of file, children
// first. Expressions sit in single slots, so only replacing is legal.
func transformExpressions(ctx *compilation.Context, file *ir.File, fn ExpressionFn) error {
	var firstErr error
	visit.TransformExpressions(file, visit.NewExpressionContext(file), func(expr ir.Expression, vctx visit.ExpressionContext) ir.Expression {
		if firstErr != nil {
			return expr
		}
		r, err := fn(ctx, expr, vctx)
		if err == nil && !r.IsNoChange() {
			var replaced ir.Expression
			if replaced, err = transform.ApplySingle(expr, r, false); err == nil {
				adopt(ctx, replaced, vctx.Container)
				return replaced
			}
		}
		if err != nil {
			firstErr = errors.Wrapf(err, "transforming %s", describe(expr))
		}
		return expr
	})
	return firstErr
}
