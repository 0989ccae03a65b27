package config_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"dotlin-go/packages/compiler/src/config"

	"github.com/Masterminds/semver/v3"
	"github.com/google/go-cmp/cmp"
)

func TestNewCompilerConfig(t *testing.T) {
	t.Run("should use defaults", func(t *testing.T) {
		cfg := config.NewCompilerConfig()
		if diff := cmp.Diff(config.DefaultTargetVersion, cfg.TargetVersion.String()); diff != "" {
			t.Errorf("TargetVersion mismatch (-want +got):\n%s", diff)
		}
		if cfg.Verbose {
			t.Errorf("Verbose = true, want false")
		}
	})

	t.Run("should apply options", func(t *testing.T) {
		var out bytes.Buffer
		cfg := config.NewCompilerConfig(
			config.WithTargetVersion(semver.MustParse("3.1.0")),
			config.WithVerbose(true),
			config.WithDisabledPhases("UnitReturns"),
			config.WithDisabledPhases("Composites"),
			config.WithLogOutput(&out),
		)
		if diff := cmp.Diff("3.1.0", cfg.TargetVersion.String()); diff != "" {
			t.Errorf("TargetVersion mismatch (-want +got):\n%s", diff)
		}
		if diff := cmp.Diff([]string{"UnitReturns", "Composites"}, cfg.DisabledPhases); diff != "" {
			t.Errorf("DisabledPhases mismatch (-want +got):\n%s", diff)
		}
		if !cfg.IsPhaseDisabled("Composites") || cfg.IsPhaseDisabled("PrivateNames") {
			t.Errorf("IsPhaseDisabled() does not follow DisabledPhases")
		}
		if cfg.LogOutput != &out {
			t.Errorf("LogOutput was not set")
		}
	})
}

func writeProject(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "project.json")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestParseProject(t *testing.T) {
	t.Run("should parse a project file", func(t *testing.T) {
		path := writeProject(t, `{
  "targetVersion": "2.5.0",
  "inputs": ["main.json", "/abs/lib.json"],
  "output": "out",
  "verbose": true,
  "disabledPhases": ["Contravariant"]
}`)
		project, err := config.ParseProject(path)
		if err != nil {
			t.Fatalf("ParseProject() error = %v", err)
		}
		root := project.GetProjectRoot(path)
		expected := []string{filepath.Join(root, "main.json"), "/abs/lib.json"}
		if diff := cmp.Diff(expected, project.ResolveInputs(root)); diff != "" {
			t.Errorf("ResolveInputs() mismatch (-want +got):\n%s", diff)
		}

		cfg := config.NewCompilerConfig(project.Options()...)
		if diff := cmp.Diff("2.5.0", cfg.TargetVersion.String()); diff != "" {
			t.Errorf("TargetVersion mismatch (-want +got):\n%s", diff)
		}
		if !cfg.Verbose || !cfg.IsPhaseDisabled("Contravariant") {
			t.Errorf("project options were not applied: %+v", cfg)
		}
	})

	errorCases := []struct {
		name    string
		content string
	}{
		{"malformed json", `{"inputs": [`},
		{"missing inputs", `{"output": "out"}`},
		{"invalid version", `{"inputs": ["a.json"], "targetVersion": "two"}`},
	}
	for _, tc := range errorCases {
		t.Run("should reject "+tc.name, func(t *testing.T) {
			if _, err := config.ParseProject(writeProject(t, tc.content)); err == nil {
				t.Errorf("ParseProject() succeeded, want an error")
			}
		})
	}

	t.Run("should report a missing file", func(t *testing.T) {
		if _, err := config.ParseProject(filepath.Join(t.TempDir(), "missing.json")); err == nil {
			t.Errorf("ParseProject() succeeded, want an error")
		}
	})
}
