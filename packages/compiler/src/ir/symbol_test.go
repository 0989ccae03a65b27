package ir_test

import (
	"testing"

	"dotlin-go/packages/compiler/src/ir"

	"github.com/google/go-cmp/cmp"
	"github.com/pkg/errors"
)

func TestSymbolTable(t *testing.T) {
	t.Run("should bind and resolve declarations", func(t *testing.T) {
		table := ir.NewSymbolTable()
		f := ir.NewFunction("f", nil)
		sym := table.Bind(f)
		if sym == ir.NoSymbol {
			t.Fatalf("Bind() returned NoSymbol")
		}
		if f.GetSymbol() != sym {
			t.Errorf("GetSymbol() = %d, want %d", f.GetSymbol(), sym)
		}
		if got := table.Resolve(sym); got != f {
			t.Errorf("Resolve() = %v, want %v", got, f)
		}
	})

	t.Run("should never reuse a symbol", func(t *testing.T) {
		table := ir.NewSymbolTable()
		a := table.Bind(ir.NewField("a", nil))
		b := table.Bind(ir.NewField("b", nil))
		reserved := table.Allocate()
		if a == b || b == reserved || a == reserved {
			t.Errorf("symbols are not unique: %d %d %d", a, b, reserved)
		}
		if diff := cmp.Diff(3, table.Len()); diff != "" {
			t.Errorf("Len() mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("should report unbound symbols", func(t *testing.T) {
		table := ir.NewSymbolTable()
		reserved := table.Allocate()
		if _, ok := table.Lookup(reserved); ok {
			t.Errorf("Lookup() of a reserved symbol succeeded")
		}
		defer func() {
			r := recover()
			err, ok := r.(error)
			if !ok {
				t.Fatalf("Resolve() panicked with %v, want an error", r)
			}
			var unbound *ir.UnboundSymbolError
			if !errors.As(err, &unbound) || unbound.Symbol != reserved {
				t.Errorf("Resolve() panicked with %v, want UnboundSymbolError for #%d", err, reserved)
			}
		}()
		table.Resolve(reserved)
	})

	t.Run("should refuse to bind a declaration twice", func(t *testing.T) {
		table := ir.NewSymbolTable()
		f := ir.NewFunction("f", nil)
		table.Bind(f)
		defer func() {
			if recover() == nil {
				t.Errorf("Bind() of a bound declaration did not panic")
			}
		}()
		table.Bind(f)
	})

	t.Run("should forward an old symbol to a new declaration", func(t *testing.T) {
		table := ir.NewSymbolTable()
		oldFn := ir.NewFunction("f", nil)
		newFn := ir.NewFunction("f2", nil)
		oldSym := table.Bind(oldFn)
		newSym := table.Bind(newFn)
		table.Forward(oldSym, newSym)
		if got := table.Resolve(oldSym); got != newFn {
			t.Errorf("Resolve(old) = %q, want %q", got.GetName(), newFn.GetName())
		}
		if oldFn.GetSymbol() != oldSym {
			t.Errorf("forwarding changed the symbol of the old declaration")
		}
	})

	t.Run("should record redirects", func(t *testing.T) {
		table := ir.NewSymbolTable()
		if _, ok := table.RedirectedTo(1); ok {
			t.Errorf("RedirectedTo() reported a redirect on a fresh table")
		}
		table.MarkRedirected(1, 2)
		got, ok := table.RedirectedTo(1)
		if !ok || got != 2 {
			t.Errorf("RedirectedTo(1) = %d, %v, want 2, true", got, ok)
		}
	})
}

func TestModule(t *testing.T) {
	t.Run("should bind every owned declaration", func(t *testing.T) {
		m := ir.NewModule("app")
		before := m.Symbols.Len()
		f := ir.NewFunction("f", m.Builtins.IntType())
		f.AddValueParameter(ir.NewValueParameter("x", m.Builtins.IntType()))
		f.Body = ir.NewBlockBody(ir.NewVariable("y", m.Builtins.IntType(), nil))
		m.Bind(f)
		if diff := cmp.Diff(3, m.Symbols.Len()-before); diff != "" {
			t.Errorf("bound symbols mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("should find the file and class of a member", func(t *testing.T) {
		m := ir.NewModule("app")
		file := ir.NewFile("main.kt", "app")
		m.AddFile(file)
		class := ir.NewClass("C", ir.ClassKindClass)
		file.AddDeclaration(class)
		f := ir.NewFunction("f", nil)
		class.AddDeclaration(f)
		if ir.FileOf(f) != file {
			t.Errorf("FileOf() did not return the containing file")
		}
		if ir.EnclosingClass(f) != class {
			t.Errorf("EnclosingClass() did not return the containing class")
		}
		if ir.EnclosingClass(class) != nil {
			t.Errorf("EnclosingClass() of a top level class is not nil")
		}
	})
}

func TestDump(t *testing.T) {
	m := ir.NewModule("app")
	file := ir.NewFile("main.kt", "app")
	m.AddFile(file)
	intType := m.Builtins.IntType()
	f := ir.NewFunction("f", intType)
	x := ir.NewValueParameter("x", intType)
	f.AddValueParameter(x)
	file.AddDeclaration(f)
	m.Bind(f)
	f.Body = ir.NewBlockBody(ir.NewReturn(f.GetSymbol(), ir.NewGetValue(x.GetSymbol(), intType), m.Builtins.NothingType()))

	expected := `FILE name=main.kt package=app
  FUN name=f returnType=Int modality=final visibility=public
    VALUE_PARAMETER name=x index=0 type=Int
    BLOCK_BODY
      RETURN target=f type=Nothing
        GET_VALUE x type=Int
`
	if diff := cmp.Diff(expected, ir.Dump(m.Symbols, file)); diff != "" {
		t.Errorf("Dump() mismatch (-want +got):\n%s", diff)
	}
}
