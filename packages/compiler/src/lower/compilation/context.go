package compilation

import (
	"io"
	"log"
	"slices"

	"dotlin-go/packages/compiler/src/config"
	"dotlin-go/packages/compiler/src/ir"

	set "github.com/hashicorp/go-set/v3"
)

// Context is the mutable state of one lowering run. It is created by the
// pipeline, handed to every phase and discarded when the run ends.
type Context struct {
	Module  *ir.Module
	Symbols *ir.SymbolTable
	Config  *config.CompilerConfig
	Logger  *log.Logger

	pendingImports map[*ir.File]*set.Set[string]
}

// NewContext creates a new Context for module
func NewContext(module *ir.Module, cfg *config.CompilerConfig) *Context {
	if cfg == nil {
		cfg = config.NewCompilerConfig()
	}
	out := cfg.LogOutput
	if !cfg.Verbose || out == nil {
		out = io.Discard
	}
	return &Context{
		Module:         module,
		Symbols:        module.Symbols,
		Config:         cfg,
		Logger:         log.New(out, "dotlin: ", 0),
		pendingImports: make(map[*ir.File]*set.Set[string]),
	}
}

// AddImport records that file needs an import of name. It reports whether the
// import is new.
func (c *Context) AddImport(file *ir.File, name string) bool {
	imports, ok := c.pendingImports[file]
	if !ok {
		imports = set.New[string](0)
		c.pendingImports[file] = imports
	}
	return imports.Insert(name)
}

// Imports returns the pending imports of file, sorted
func (c *Context) Imports(file *ir.File) []string {
	imports, ok := c.pendingImports[file]
	if !ok {
		return nil
	}
	result := imports.Slice()
	slices.Sort(result)
	return result
}

// FlushImports merges the pending imports into every file and clears them
func (c *Context) FlushImports() {
	for _, file := range c.Module.Files {
		pending := c.Imports(file)
		if len(pending) == 0 {
			continue
		}
		merged := set.From(file.Imports)
		merged.InsertSlice(pending)
		file.Imports = merged.Slice()
		slices.Sort(file.Imports)
	}
	clear(c.pendingImports)
}

// Logf writes a trace line when the run is verbose
func (c *Context) Logf(format string, args ...interface{}) {
	c.Logger.Printf(format, args...)
}
