// Package config loads the optional YAML file seeding a saturation run's
// resource caps and rule-set selection.
//
// Grounded on Aman-CERP-amanmcp's internal/config: a defaults-then-merge
// loader over gopkg.in/yaml.v3, with CLI flags applied on top (amanmcp's
// "flags override config" precedence, reproduced in Driver.ApplyFlags).
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// RuleSet names which catalogue variant a run should use.
type RuleSet string

const (
	Coarse RuleSet = "coarse"
	Fine   RuleSet = "fine"
)

// Driver mirrors saturate.Params plus the rule-set selector, in the shape
// a YAML file provides it.
type Driver struct {
	MaxIterations int     `yaml:"max_iterations"`
	MaxNodes      int     `yaml:"max_nodes"`
	MaxSeconds    float64 `yaml:"max_seconds"`
	MemoryCapMiB  int64   `yaml:"memory_cap_mib"`
	Rules         RuleSet `yaml:"rules"`
}

// Default returns the built-in defaults used when no -config flag and no
// matching field in a loaded file are present.
func Default() Driver {
	return Driver{
		MaxIterations: 30,
		MaxNodes:      200000,
		MaxSeconds:    30,
		MemoryCapMiB:  2048,
		Rules:         Fine,
	}
}

// Load reads a YAML file at path and merges it onto Default(), matching
// amanmcp's "only non-zero fields override" merge rule.
func Load(path string) (Driver, error) {
	d := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return d, fmt.Errorf("config: read %s: %w", path, err)
	}
	var parsed Driver
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return d, fmt.Errorf("config: parse %s: %w", path, err)
	}
	d.mergeWith(parsed)
	return d, nil
}

func (d *Driver) mergeWith(other Driver) {
	if other.MaxIterations != 0 {
		d.MaxIterations = other.MaxIterations
	}
	if other.MaxNodes != 0 {
		d.MaxNodes = other.MaxNodes
	}
	if other.MaxSeconds != 0 {
		d.MaxSeconds = other.MaxSeconds
	}
	if other.MemoryCapMiB != 0 {
		d.MemoryCapMiB = other.MemoryCapMiB
	}
	if other.Rules != "" {
		d.Rules = other.Rules
	}
}

// ApplyFlags overrides d's fields with whichever of the given values are
// non-zero, matching amanmcp's "flags override config" precedence. Meant
// to be called with values parsed from cobra flags, where an unset flag
// keeps its Go zero value.
func (d *Driver) ApplyFlags(maxIterations int, maxNodes int, maxSeconds float64, memoryCapMiB int64, rules RuleSet) {
	if maxIterations != 0 {
		d.MaxIterations = maxIterations
	}
	if maxNodes != 0 {
		d.MaxNodes = maxNodes
	}
	if maxSeconds != 0 {
		d.MaxSeconds = maxSeconds
	}
	if memoryCapMiB != 0 {
		d.MemoryCapMiB = memoryCapMiB
	}
	if rules != "" {
		d.Rules = rules
	}
}
