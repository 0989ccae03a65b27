package config

import (
	"io"
	"os"

	"github.com/Masterminds/semver/v3"
)

// DefaultTargetVersion is the language version lowered for when none is configured
const DefaultTargetVersion = "2.0.0"

// CompilerConfig represents the compiler configuration
type CompilerConfig struct {
	// TargetVersion gates phases that only apply to some language versions
	TargetVersion *semver.Version
	Verbose       bool
	// DisabledPhases lists phase names the pipeline skips
	DisabledPhases []string
	LogOutput      io.Writer
}

// NewCompilerConfig creates a new CompilerConfig with optional parameters
func NewCompilerConfig(opts ...CompilerConfigOption) *CompilerConfig {
	config := &CompilerConfig{
		TargetVersion: semver.MustParse(DefaultTargetVersion),
		Verbose:       false,
		LogOutput:     os.Stderr,
	}

	for _, opt := range opts {
		opt(config)
	}

	return config
}

// CompilerConfigOption is a function that modifies CompilerConfig
type CompilerConfigOption func(*CompilerConfig)

// WithTargetVersion sets the target language version
func WithTargetVersion(version *semver.Version) CompilerConfigOption {
	return func(c *CompilerConfig) {
		c.TargetVersion = version
	}
}

// WithVerbose sets whether the pipeline traces every phase
func WithVerbose(verbose bool) CompilerConfigOption {
	return func(c *CompilerConfig) {
		c.Verbose = verbose
	}
}

// WithDisabledPhases skips the named phases
func WithDisabledPhases(names ...string) CompilerConfigOption {
	return func(c *CompilerConfig) {
		c.DisabledPhases = append(c.DisabledPhases, names...)
	}
}

// WithLogOutput sets where trace lines are written
func WithLogOutput(w io.Writer) CompilerConfigOption {
	return func(c *CompilerConfig) {
		c.LogOutput = w
	}
}

// IsPhaseDisabled returns whether the phase called name is skipped
func (c *CompilerConfig) IsPhaseDisabled(name string) bool {
	for _, disabled := range c.DisabledPhases {
		if disabled == name {
			return true
		}
	}
	return false
}
