package serial_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"dotlin-go/packages/compiler/src/ir"
	"dotlin-go/packages/compiler/src/ir/serial"

	"github.com/google/go-cmp/cmp"
)

const libDocument = `{
  "name": "lib.kt",
  "package": "lib",
  "declarations": [
    {
      "kind": "function", "id": 1, "name": "helper",
      "returnType": {"builtin": "Int"},
      "valueParameters": [{"kind": "parameter", "id": 2, "name": "x", "type": {"builtin": "Int"}}],
      "body": {"kind": "blockBody", "statements": [
        {"kind": "return", "ref": 1, "type": {"builtin": "Nothing"},
         "expression": {"kind": "getValue", "ref": 2, "type": {"builtin": "Int"}}}
      ]}
    }
  ]
}`

const mainDocument = `{
  "name": "main.kt",
  "package": "app",
  "declarations": [
    {
      "kind": "class", "id": 3, "name": "Box",
      "typeParameters": [{"kind": "typeparameter", "id": 8, "name": "T", "variance": "in"}],
      "superTypes": [{"builtin": "Any"}],
      "declarations": [
        {
          "kind": "property", "id": 4, "name": "size", "var": true,
          "backingField": {"kind": "field", "id": 5, "name": "size", "type": {"builtin": "Int"}},
          "getter": {"kind": "function", "id": 6, "name": "<get-size>", "origin": "DEFAULT_ACCESSOR", "returnType": {"builtin": "Int"}}
        }
      ]
    },
    {
      "kind": "function", "id": 7, "name": "caller",
      "returnType": {"builtin": "Unit"},
      "valueParameters": [
        {"kind": "parameter", "id": 9, "name": "box",
         "type": {"classifier": 3, "arguments": [{"variance": "in", "type": {"builtin": "Int"}}], "nullable": true}},
        {"kind": "parameter", "id": 10, "name": "f", "type": {"parameters": [{"builtin": "Int"}], "return": "dynamic"}}
      ],
      "body": {"kind": "blockBody", "statements": [
        {"kind": "variable", "id": 11, "name": "n", "type": {"builtin": "Long"},
         "initializer": {"kind": "typeOperator", "operator": "IMPLICIT_INTEGER_COERCION", "operand": {"builtin": "Long"}, "type": {"builtin": "Long"},
                         "expression": {"kind": "const", "constKind": "Int", "value": 5, "type": {"builtin": "Int"}}}},
        {"kind": "call", "ref": 1, "type": {"builtin": "Int"},
         "arguments": [{"kind": "const", "constKind": "Int", "value": 5, "type": {"builtin": "Int"}}]}
      ]}
    }
  ]
}`

func TestParse(t *testing.T) {
	module, err := serial.Parse("test", []byte(libDocument), []byte(mainDocument))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if len(module.Files) != 2 {
		t.Fatalf("Parse() built %d files, want 2", len(module.Files))
	}

	t.Run("should build every declaration", func(t *testing.T) {
		expected := `FILE name=lib.kt package=lib
  FUN name=helper returnType=Int modality=final visibility=public
    VALUE_PARAMETER name=x index=0 type=Int
    BLOCK_BODY
      RETURN target=helper type=Nothing
        GET_VALUE x type=Int
`
		if diff := cmp.Diff(expected, ir.Dump(module.Symbols, module.Files[0])); diff != "" {
			t.Errorf("lib.kt mismatch (-want +got):\n%s", diff)
		}

		expected = `FILE name=main.kt package=app
  CLASS name=Box kind=class modality=final visibility=public supertypes=[Any]
    TYPE_PARAMETER name=T index=0 variance=in superTypes=[]
    PROPERTY name=size modality=final visibility=public var
      FIELD name=size type=Int visibility=public correspondingProperty=size
      FUN name=<get-size> returnType=Int modality=final visibility=public correspondingProperty=size origin=DEFAULT_ACCESSOR
  FUN name=caller returnType=Unit modality=final visibility=public
    VALUE_PARAMETER name=box index=0 type=Box<in Int>?
    VALUE_PARAMETER name=f index=1 type=(Int) -> dynamic
    BLOCK_BODY
      VAR name=n type=Long
        TYPE_OP IMPLICIT_INTEGER_COERCION operand=Long type=Long
          CONST kind=Int value=5 type=Int
      CALL helper type=Int
        CONST kind=Int value=5 type=Int
`
		if diff := cmp.Diff(expected, ir.Dump(module.Symbols, module.Files[1])); diff != "" {
			t.Errorf("main.kt mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("should parent accessors and locals", func(t *testing.T) {
		box := module.Files[1].Declarations[0].(*ir.Class)
		prop := box.Declarations[0].(*ir.Property)
		if prop.Getter.GetParent() != ir.DeclarationParent(box) || prop.BackingField.GetParent() != ir.DeclarationParent(box) {
			t.Errorf("the field and getter of size are not members of Box")
		}
		if prop.Getter.CorrespondingProperty != prop.GetSymbol() {
			t.Errorf("the getter does not point back at size")
		}

		caller := module.Files[1].Declarations[1].(*ir.Function)
		local := caller.Body.(*ir.BlockBody).Statements[0].(*ir.Variable)
		if local.GetParent() != ir.DeclarationParent(caller) {
			t.Errorf("n is not parented to caller")
		}
	})

	t.Run("should resolve references across files", func(t *testing.T) {
		helper := module.Files[0].Declarations[0]
		caller := module.Files[1].Declarations[1].(*ir.Function)
		call := caller.Body.(*ir.BlockBody).Statements[1].(*ir.Call)
		if call.Symbol != helper.GetSymbol() {
			t.Errorf("call refers to #%d, want helper #%d", call.Symbol, helper.GetSymbol())
		}
	})
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name     string
		document string
		message  string
	}{
		{
			name:     "malformed json",
			document: `{"name": "a.kt", "declarations": [`,
			message:  "failed to decode document 0",
		},
		{
			name:     "missing name",
			document: `{"package": "app"}`,
			message:  "document has no name",
		},
		{
			name:     "undeclared reference",
			document: `{"name": "a.kt", "declarations": [{"kind": "function", "id": 1, "name": "f", "body": {"kind": "expressionBody", "expression": {"kind": "call", "ref": 42}}}]}`,
			message:  "undeclared id 42",
		},
		{
			name:     "duplicate id",
			document: `{"name": "a.kt", "declarations": [{"kind": "function", "id": 1, "name": "f"}, {"kind": "function", "id": 1, "name": "g"}]}`,
			message:  "id 1 is declared twice",
		},
		{
			name:     "missing id",
			document: `{"name": "a.kt", "declarations": [{"kind": "function", "name": "f"}]}`,
			message:  `function "f" has no id`,
		},
		{
			name:     "unknown expression",
			document: `{"name": "a.kt", "declarations": [{"kind": "function", "id": 1, "name": "f", "body": {"kind": "blockBody", "statements": [{"kind": "loop"}]}}]}`,
			message:  `unknown node kind "loop"`,
		},
		{
			name:     "unknown builtin",
			document: `{"name": "a.kt", "declarations": [{"kind": "field", "id": 1, "name": "x", "type": {"builtin": "Foo"}}]}`,
			message:  `unknown builtin "Foo"`,
		},
		{
			name:     "unknown visibility",
			document: `{"name": "a.kt", "declarations": [{"kind": "function", "id": 1, "name": "f", "visibility": "secret"}]}`,
			message:  `unknown visibility "secret"`,
		},
		{
			name:     "unknown type keyword",
			document: `{"name": "a.kt", "declarations": [{"kind": "field", "id": 1, "name": "x", "type": "any"}]}`,
			message:  `unknown type "any"`,
		},
	}

	for _, tt := range tests {
		t.Run("should reject "+tt.name, func(t *testing.T) {
			_, err := serial.Parse("test", []byte(tt.document))
			if err == nil {
				t.Fatalf("Parse() succeeded, want an error containing %q", tt.message)
			}
			if !strings.Contains(err.Error(), tt.message) {
				t.Errorf("Parse() error = %q, want it to contain %q", err.Error(), tt.message)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	write := func(name, content string) string {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
		return path
	}
	paths := []string{write("main.json", mainDocument), write("lib.json", libDocument)}

	t.Run("should keep the order of the paths", func(t *testing.T) {
		module, err := serial.Load(context.Background(), "test", paths)
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		names := make([]string, len(module.Files))
		for i, file := range module.Files {
			names[i] = file.Name
		}
		if diff := cmp.Diff([]string{"main.kt", "lib.kt"}, names); diff != "" {
			t.Errorf("files mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("should name the file it could not read", func(t *testing.T) {
		missing := filepath.Join(dir, "missing.json")
		_, err := serial.Load(context.Background(), "test", append(paths, missing))
		if err == nil || !strings.Contains(err.Error(), "failed to read "+missing) {
			t.Errorf("Load() error = %v, want a read error for %s", err, missing)
		}
	})

	t.Run("should stop when the context is cancelled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		if _, err := serial.Load(ctx, "test", paths); err == nil {
			t.Errorf("Load() succeeded with a cancelled context")
		}
	})
}
