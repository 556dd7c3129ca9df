// Package config loads the `.jassist.yaml` file that tunes which assists
// are offered and how their rewrites are printed.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// FileName is the name of the configuration file looked up by Find.
const FileName = ".jassist.yaml"

type Config struct {
	// Disabled lists rule ids that are never evaluated.
	Disabled []string `yaml:"disabled,omitempty"`
	// Relevance overrides the relevance of proposals by rule id.
	Relevance map[string]int `yaml:"relevance,omitempty"`
	// Indent is one level of indentation in printed code.
	Indent string `yaml:"indent,omitempty"`
	// Verify re-parses every rewritten document and drops proposals that
	// would leave it syntactically broken.
	Verify bool `yaml:"verify"`
	// EagerValidation builds every rewrite while collecting so that
	// proposals whose rewrite fails never reach the caller.
	EagerValidation bool   `yaml:"eager_validation"`
	Compat          Compat `yaml:"compat,omitempty"`
}

// Compat holds switches that restore historical behaviour.
type Compat struct {
	// ConditionalReturnElseBranch makes "replace conditional with if-else"
	// return the else expression in the else branch. When false, both
	// branches return the then expression.
	ConditionalReturnElseBranch bool `yaml:"conditional_return_else_branch"`
}

func Default() *Config {
	return &Config{
		Indent:          "    ",
		Verify:          false,
		EagerValidation: true,
	}
}

// IsDisabled reports whether the rule with the given id is turned off.
func (c *Config) IsDisabled(rule string) bool {
	if c == nil {
		return false
	}
	for _, d := range c.Disabled {
		if d == rule {
			return true
		}
	}
	return false
}

// RelevanceOf returns the configured relevance for rule, if any.
func (c *Config) RelevanceOf(rule string) (int, bool) {
	if c == nil {
		return 0, false
	}
	r, ok := c.Relevance[rule]
	return r, ok
}

// Parse decodes YAML on top of the defaults.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if cfg.Indent == "" {
		cfg.Indent = Default().Indent
	}
	return cfg, nil
}

// Load reads the configuration file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Find looks for FileName in dir and its parents and loads the first one
// found. Without a file the defaults are returned.
func Find(dir string) (*Config, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", dir, err)
	}
	for {
		path := filepath.Join(abs, FileName)
		if _, err := os.Stat(path); err == nil {
			return Load(path)
		} else if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("stat config: %w", err)
		}
		parent := filepath.Dir(abs)
		if parent == abs {
			return Default(), nil
		}
		abs = parent
	}
}

// Marshal renders cfg as YAML, for `jassist config` style dumps and tests.
func (c *Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}
