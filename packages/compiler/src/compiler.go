package compiler

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"dotlin-go/packages/compiler/src/config"
	"dotlin-go/packages/compiler/src/ir"
	"dotlin-go/packages/compiler/src/ir/serial"
	"dotlin-go/packages/compiler/src/lower"
)

// DefaultOutput is the output directory used when the project names none
const DefaultOutput = "out"

type Compiler struct {
	project     *config.Project
	config      *config.CompilerConfig
	projectRoot string
	projectPath string
}

// NewCompiler creates a new compiler instance
func NewCompiler(projectPath string, opts ...config.CompilerConfigOption) (*Compiler, error) {
	project, err := config.ParseProject(projectPath)
	if err != nil {
		return nil, err
	}

	absPath, _ := filepath.Abs(projectPath)
	projectRoot := project.GetProjectRoot(absPath)

	return &Compiler{
		project:     project,
		config:      config.NewCompilerConfig(append(project.Options(), opts...)...),
		projectRoot: projectRoot,
		projectPath: absPath,
	}, nil
}

// Compile loads the inputs of the project, lowers them and writes the dump of
// every lowered file to the output directory.
func (c *Compiler) Compile(ctx context.Context) error {
	fmt.Println("Starting compilation...")
	fmt.Printf("Project root: %s\n", c.projectRoot)

	inputs := c.project.ResolveInputs(c.projectRoot)
	fmt.Printf("Found %d files to compile\n", len(inputs))
	for _, input := range inputs {
		fmt.Printf("  - %s\n", input)
	}

	module, err := serial.Load(ctx, filepath.Base(c.projectRoot), inputs)
	if err != nil {
		return fmt.Errorf("failed to load inputs: %w", err)
	}

	fmt.Printf("Lowering for target %s\n", c.config.TargetVersion)
	if err := lower.Lower(module, c.config); err != nil {
		return fmt.Errorf("failed to lower: %w", err)
	}

	written, err := c.writeOutputs(module)
	if err != nil {
		return err
	}
	fmt.Printf("Wrote %d files\n", len(written))
	for _, path := range written {
		fmt.Printf("  - %s\n", path)
	}
	return nil
}

// OutputDir returns the directory lowered files are written to
func (c *Compiler) OutputDir() string {
	output := c.project.Output
	if output == "" {
		output = DefaultOutput
	}
	if filepath.IsAbs(output) {
		return output
	}
	return filepath.Join(c.projectRoot, output)
}

// writeOutputs writes `<file>.ir` for every file of module
func (c *Compiler) writeOutputs(module *ir.Module) ([]string, error) {
	outDir := c.OutputDir()
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	var written []string
	for _, file := range module.Files {
		path := filepath.Join(outDir, file.Name+".ir")
		if err := os.WriteFile(path, []byte(ir.Dump(module.Symbols, file)), 0o644); err != nil {
			return nil, fmt.Errorf("failed to write %s: %w", path, err)
		}
		written = append(written, path)
	}
	return written, nil
}
