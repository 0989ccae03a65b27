package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	compiler "dotlin-go/packages/compiler/src"
	"dotlin-go/packages/compiler/src/config"

	"github.com/Masterminds/semver/v3"
)

func main() {
	project := flag.String("p", "project.json", "Path to project.json")
	target := flag.String("target", "", "Target language version, overrides the project")
	verbose := flag.Bool("v", false, "Log every phase")
	flag.Parse()

	absPath, err := filepath.Abs(*project)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error resolving path: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Compiling project: %s\n", absPath)

	var opts []config.CompilerConfigOption
	if *verbose {
		opts = append(opts, config.WithVerbose(true))
	}
	if *target != "" {
		version, err := semver.NewVersion(*target)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Invalid target version %q: %v\n", *target, err)
			os.Exit(1)
		}
		opts = append(opts, config.WithTargetVersion(version))
	}
	if err := runCompilation(absPath, opts...); err != nil {
		fmt.Fprintf(os.Stderr, "Compilation failed: %v\n", err)
		os.Exit(1)
	}
}

func runCompilation(projectPath string, opts ...config.CompilerConfigOption) error {
	comp, err := compiler.NewCompiler(projectPath, opts...)
	if err != nil {
		return fmt.Errorf("failed to create compiler: %w", err)
	}

	return comp.Compile(context.Background())
}
