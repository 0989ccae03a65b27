package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/Masterminds/semver/v3"
)

// Project is the content of a project file
type Project struct {
	TargetVersion  string   `json:"targetVersion"`
	Inputs         []string `json:"inputs"`
	Output         string   `json:"output"`
	Verbose        bool     `json:"verbose"`
	DisabledPhases []string `json:"disabledPhases"`
}

// ParseProject reads and parses a project file
func ParseProject(path string) (*Project, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve path: %w", err)
	}

	data, err := os.ReadFile(absPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read project: %w", err)
	}

	var project Project
	if err := json.Unmarshal(data, &project); err != nil {
		return nil, fmt.Errorf("failed to parse project: %w", err)
	}
	if len(project.Inputs) == 0 {
		return nil, fmt.Errorf("project %s lists no inputs", absPath)
	}
	if project.TargetVersion != "" {
		if _, err := semver.NewVersion(project.TargetVersion); err != nil {
			return nil, fmt.Errorf("invalid targetVersion %q: %w", project.TargetVersion, err)
		}
	}

	return &project, nil
}

// GetProjectRoot returns the directory containing the project file
func (p *Project) GetProjectRoot(projectPath string) string {
	return filepath.Dir(projectPath)
}

// ResolveInputs returns the input paths relative to root made absolute
func (p *Project) ResolveInputs(root string) []string {
	paths := make([]string, len(p.Inputs))
	for i, input := range p.Inputs {
		if filepath.IsAbs(input) {
			paths[i] = input
		} else {
			paths[i] = filepath.Join(root, input)
		}
	}
	return paths
}

// Options converts the project settings into compiler options
func (p *Project) Options() []CompilerConfigOption {
	opts := []CompilerConfigOption{WithVerbose(p.Verbose)}
	if p.TargetVersion != "" {
		// validated by ParseProject
		opts = append(opts, WithTargetVersion(semver.MustParse(p.TargetVersion)))
	}
	if len(p.DisabledPhases) > 0 {
		opts = append(opts, WithDisabledPhases(p.DisabledPhases...))
	}
	return opts
}
