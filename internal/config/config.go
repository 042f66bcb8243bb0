// Package config loads the front end's run-time options: how many
// diagnostics to collect before giving up on a file, and whether
// Unsupported-feature diagnostics should be treated as fatal.
package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

// Options is the top-level smlfront.yaml configuration.
type Options struct {
	// MaxErrors caps how many diagnostics one file accumulates before the
	// driver stops reporting further ones. Zero means unlimited.
	MaxErrors int `yaml:"max_errors,omitempty"`

	// StrictUnsupported treats any diagnostics.ErrParserUnsupported /
	// checker-side Unsupported-node diagnostic as a build failure rather
	// than a best-effort, still-exit-zero warning.
	StrictUnsupported bool `yaml:"strict_unsupported,omitempty"`
}

// Default returns the zero-configuration Options: unlimited errors,
// Unsupported diagnostics treated as non-fatal.
func Default() Options {
	return Options{}
}

// Load reads and parses a YAML options file at path. A missing file is not
// an error; it yields Default().
func Load(path string) (Options, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return Options{}, err
	}
	opts := Default()
	if err := yaml.Unmarshal(data, &opts); err != nil {
		return Options{}, err
	}
	return opts, nil
}
