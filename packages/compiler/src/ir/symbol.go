package ir

import (
	"github.com/pkg/errors"
)

// Symbol is a stable, indirect reference to a declaration. Nodes refer to each
// other through symbols, never through pointers, so that replacing a
// declaration only requires redirecting the symbol.
type Symbol int

// NoSymbol is the zero symbol. It is never bound.
const NoSymbol Symbol = 0

// SymbolTable binds symbols to declarations. A binding only changes through
// Forward, which module level remaps use once every reference in the module has
// been redirected.
type SymbolTable struct {
	bindings   []Declaration
	redirected map[Symbol]Symbol
}

// NewSymbolTable creates a new SymbolTable
func NewSymbolTable() *SymbolTable {
	return &SymbolTable{
		// index 0 is NoSymbol
		bindings:   []Declaration{nil},
		redirected: make(map[Symbol]Symbol),
	}
}

// Allocate reserves a fresh symbol that is not bound yet.
func (t *SymbolTable) Allocate() Symbol {
	t.bindings = append(t.bindings, nil)
	return Symbol(len(t.bindings) - 1)
}

// Bind allocates a new symbol and binds decl to it.
func (t *SymbolTable) Bind(decl Declaration) Symbol {
	sym := t.Allocate()
	t.BindTo(sym, decl)
	return sym
}

// BindTo binds a reserved symbol to decl. Both must be unbound.
func (t *SymbolTable) BindTo(sym Symbol, decl Declaration) {
	if !t.allocated(sym) {
		panic(errors.Errorf("symbol #%d was never allocated", sym))
	}
	if t.bindings[sym] != nil {
		panic(errors.Errorf("symbol #%d is already bound to %s %q", sym, t.bindings[sym].GetKind(), t.bindings[sym].GetName()))
	}
	if decl.GetSymbol() != NoSymbol {
		panic(errors.Errorf("%s %q already owns symbol #%d", decl.GetKind(), decl.GetName(), decl.GetSymbol()))
	}
	t.bindings[sym] = decl
	decl.setSymbol(sym)
}

// Resolve returns the declaration bound to sym. Resolving an unbound symbol
// means a remap step was skipped and is fatal.
func (t *SymbolTable) Resolve(sym Symbol) Declaration {
	decl, ok := t.Lookup(sym)
	if !ok {
		panic(errors.WithStack(&UnboundSymbolError{Symbol: sym}))
	}
	return decl
}

// Lookup returns the declaration bound to sym, if any.
func (t *SymbolTable) Lookup(sym Symbol) (Declaration, bool) {
	if !t.allocated(sym) || t.bindings[sym] == nil {
		return nil, false
	}
	return t.bindings[sym], true
}

// Forward makes old resolve to the declaration currently bound to new.
func (t *SymbolTable) Forward(old, new Symbol) {
	decl := t.Resolve(new)
	if !t.allocated(old) {
		panic(errors.Errorf("symbol #%d was never allocated", old))
	}
	t.bindings[old] = decl
}

// MarkRedirected records that every reference to old was already redirected to new.
func (t *SymbolTable) MarkRedirected(old, new Symbol) {
	t.redirected[old] = new
}

// RedirectedTo returns the symbol old was redirected to by an earlier remap.
func (t *SymbolTable) RedirectedTo(old Symbol) (Symbol, bool) {
	sym, ok := t.redirected[old]
	return sym, ok
}

// Len returns the number of allocated symbols.
func (t *SymbolTable) Len() int {
	return len(t.bindings) - 1
}

func (t *SymbolTable) allocated(sym Symbol) bool {
	return sym > NoSymbol && int(sym) < len(t.bindings)
}
