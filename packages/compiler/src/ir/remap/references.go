package remap

import (
	"maps"
	"slices"

	"dotlin-go/packages/compiler/src/ir"
	"dotlin-go/packages/compiler/src/ir/visit"

	"github.com/hashicorp/go-set/v3"
)

// Mapping maps the symbols of replaced declarations to their replacements
type Mapping map[ir.Symbol]ir.Symbol

// References redirects every reference owned by root whose symbol is a key of
// mapping. Remapping is idempotent: after one pass no key of mapping is
// referenced under root anymore. root itself is not replaced even if it is a
// referring expression.
func References(table *ir.SymbolTable, root ir.Node, mapping Mapping) error {
	if len(mapping) == 0 {
		return nil
	}
	if err := Validate(table, mapping); err != nil {
		return err
	}
	return newRemapper(table, mapping).remap(root)
}

// Validate checks that mapping can be applied without breaking the graph:
// both sides are bound, kinds are compatible and no replacement is itself
// replaced.
func Validate(table *ir.SymbolTable, mapping Mapping) error {
	replacements := set.New[ir.Symbol](len(mapping))
	for _, to := range mapping {
		replacements.Insert(to)
	}
	for _, from := range slices.Sorted(maps.Keys(mapping)) {
		to := mapping[from]
		if replacements.Contains(from) {
			return ir.NewInvariantViolationError(from, to, "#%d is both replaced and a replacement", from)
		}
		oldDecl, ok := table.Lookup(from)
		if !ok {
			return ir.NewInvariantViolationError(from, to, "the replaced symbol is not bound")
		}
		newDecl, ok := table.Lookup(to)
		if !ok {
			return ir.NewInvariantViolationError(from, to, "the replacement symbol is not bound")
		}
		if !compatible(oldDecl, newDecl) {
			return ir.NewInvariantViolationError(from, to, "%s %q cannot be replaced by %s %q",
				oldDecl.GetKind(), oldDecl.GetName(), newDecl.GetKind(), newDecl.GetName())
		}
	}
	return nil
}

func compatible(oldDecl, newDecl ir.Declaration) bool {
	switch o := oldDecl.(type) {
	case *ir.Variable, *ir.ValueParameter, *ir.Field:
		switch newDecl.(type) {
		case *ir.Variable, *ir.ValueParameter, *ir.Field:
			return true
		}
		return false
	case *ir.Function:
		switch newDecl.(type) {
		case *ir.Function:
			return true
		case *ir.Field:
			return o.IsAccessor()
		}
		return false
	case *ir.Class, *ir.TypeParameter, *ir.TypeAlias:
		switch newDecl.(type) {
		case *ir.Class, *ir.TypeParameter, *ir.TypeAlias:
			return true
		}
		return false
	}
	return oldDecl.GetKind() == newDecl.GetKind()
}

type remapper struct {
	table   *ir.SymbolTable
	mapping Mapping
	types   TypeSubstitution
	err     error
}

func newRemapper(table *ir.SymbolTable, mapping Mapping) *remapper {
	return &remapper{
		table:   table,
		mapping: mapping,
		types:   ClassifierSubstitution(mapping),
	}
}

func (r *remapper) remap(root ir.Node) error {
	visit.TransformExpressions(root, visit.ExpressionContext{}, func(expr ir.Expression, _ visit.ExpressionContext) ir.Expression {
		if r.err != nil {
			return expr
		}
		return r.expression(expr)
	})
	if r.err != nil {
		return r.err
	}
	visit.Walk(root, func(n ir.Node) bool {
		if decl, ok := n.(ir.Declaration); ok {
			r.declaration(decl)
		}
		return r.err == nil
	})
	if r.err != nil {
		return r.err
	}
	visit.TransformTypes(root, func(t ir.Type, _ visit.TypeContext, _ ir.Node) ir.Type {
		return RemapType(t, r.types)
	})
	return nil
}

func (r *remapper) symbol(sym ir.Symbol) ir.Symbol {
	if to, ok := r.mapping[sym]; ok {
		return to
	}
	return sym
}

// expression rewrites a referring expression. Reads and writes are rebuilt
// when the replacement is a different kind of storage.
func (r *remapper) expression(expr ir.Expression) ir.Expression {
	switch e := expr.(type) {
	case *ir.GetValue:
		to, ok := r.mapping[e.Symbol]
		if !ok {
			return e
		}
		if _, isField := r.table.Resolve(to).(*ir.Field); isField {
			return ir.NewGetField(to, nil, e.Type)
		}
		e.Symbol = to
	case *ir.SetValue:
		to, ok := r.mapping[e.Symbol]
		if !ok {
			return e
		}
		if _, isField := r.table.Resolve(to).(*ir.Field); isField {
			return ir.NewSetField(to, nil, e.Value, e.Type)
		}
		e.Symbol = to
	case *ir.GetField:
		to, ok := r.mapping[e.Symbol]
		if !ok {
			return e
		}
		if _, isField := r.table.Resolve(to).(*ir.Field); isField {
			e.Symbol = to
			return e
		}
		if e.Receiver != nil {
			r.err = ir.NewInvariantViolationError(e.Symbol, to, "a field read with a receiver cannot become a variable read")
			return e
		}
		return ir.NewGetValue(to, e.Type)
	case *ir.SetField:
		to, ok := r.mapping[e.Symbol]
		if !ok {
			return e
		}
		if _, isField := r.table.Resolve(to).(*ir.Field); isField {
			e.Symbol = to
			return e
		}
		if e.Receiver != nil {
			r.err = ir.NewInvariantViolationError(e.Symbol, to, "a field write with a receiver cannot become a variable write")
			return e
		}
		return ir.NewSetValue(to, e.Value, e.Type)
	case *ir.Call:
		to, ok := r.mapping[e.Symbol]
		if !ok {
			return e
		}
		if _, isField := r.table.Resolve(to).(*ir.Field); isField {
			return r.accessorCall(e, to)
		}
		e.Symbol = to
	case *ir.Return:
		e.Target = r.symbol(e.Target)
	case *ir.GetThis:
		e.Class = r.symbol(e.Class)
	case *ir.GetObject:
		e.Class = r.symbol(e.Class)
	}
	return expr
}

// accessorCall turns a getter or setter call into a field access.
func (r *remapper) accessorCall(call *ir.Call, field ir.Symbol) ir.Expression {
	switch len(call.Arguments) {
	case 0:
		return ir.NewGetField(field, call.DispatchReceiver, call.Type)
	case 1:
		return ir.NewSetField(field, call.DispatchReceiver, call.Arguments[0], call.Type)
	}
	r.err = ir.NewInvariantViolationError(call.Symbol, field, "a call with %d arguments cannot become a field access", len(call.Arguments))
	return call
}

func (r *remapper) declaration(decl ir.Declaration) {
	switch d := decl.(type) {
	case *ir.Function:
		r.overridden(d, d.Overridden)
		d.CorrespondingProperty = r.symbol(d.CorrespondingProperty)
	case *ir.Field:
		d.CorrespondingProperty = r.symbol(d.CorrespondingProperty)
	case *ir.Property:
		r.overridden(d, d.Overridden)
		if d.BackingField != nil {
			if to, ok := r.mapping[d.BackingField.GetSymbol()]; ok {
				field, isField := r.table.Resolve(to).(*ir.Field)
				if !isField {
					r.err = ir.NewInvariantViolationError(d.BackingField.GetSymbol(), to, "the backing field of %q must stay a field", d.Name)
					return
				}
				d.BackingField = field
			}
		}
		d.Getter = r.accessor(d.Getter)
		d.Setter = r.accessor(d.Setter)
	}
}

// overridden redirects the declarations decl overrides. The replacement has
// to be the same kind of declaration: a field cannot be overridden.
func (r *remapper) overridden(decl ir.Declaration, syms []ir.Symbol) {
	for i, sym := range syms {
		to, ok := r.mapping[sym]
		if !ok {
			continue
		}
		if replacement := r.table.Resolve(to); replacement.GetKind() != decl.GetKind() {
			r.err = ir.NewInvariantViolationError(sym, to, "%s %q overrides #%d, which cannot be replaced by %s %q",
				decl.GetKind(), decl.GetName(), sym, replacement.GetKind(), replacement.GetName())
			return
		}
		syms[i] = to
	}
}

// accessor follows a remapped getter or setter. An accessor replaced by a
// field no longer belongs to the property.
func (r *remapper) accessor(fn *ir.Function) *ir.Function {
	if fn == nil {
		return nil
	}
	to, ok := r.mapping[fn.GetSymbol()]
	if !ok {
		return fn
	}
	replacement, isFunction := r.table.Resolve(to).(*ir.Function)
	if !isFunction {
		return nil
	}
	return replacement
}
