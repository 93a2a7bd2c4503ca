package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const (
	// Dir is the per-project directory that marks a planner project root.
	Dir      = ".planner"
	FileName = "config.yaml"
)

// ErrNoProject is returned by FindProjectRoot when no config is found.
var ErrNoProject = errors.New("no .planner/config.yaml found (searched from cwd to root)")

// Config holds project defaults for the planner commands. Command-line
// flags override every field.
type Config struct {
	Template        string `yaml:"template" validate:"required"`
	TemplateFile    string `yaml:"template-file"`
	Mode            string `yaml:"mode" validate:"oneof=append merge reconcile"`
	ReconcileStrict *bool  `yaml:"reconcile-strict" validate:"required"`
	Owner           string `yaml:"owner" validate:"required,max=64"`
	LogLevel        string `yaml:"log-level" validate:"oneof=debug info warn error disabled"`
}

// Path returns the config file location under projectRoot.
func Path(projectRoot string) string {
	return filepath.Join(projectRoot, Dir, FileName)
}

// Default returns a validated config with every default filled in.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

// Load reads a YAML config file and returns a validated Config.
func Load(path, projectRoot string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := Validate(&cfg, projectRoot); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Strict reports whether reconcile matching is scope-safe.
func (c *Config) Strict() bool {
	return c.ReconcileStrict == nil || *c.ReconcileStrict
}

// TemplatePath resolves TemplateFile against projectRoot. It returns ""
// when no template file is configured.
func (c *Config) TemplatePath(projectRoot string) string {
	if c.TemplateFile == "" {
		return ""
	}
	if filepath.IsAbs(c.TemplateFile) {
		return c.TemplateFile
	}
	return filepath.Join(projectRoot, c.TemplateFile)
}

// FindProjectRoot walks up from start looking for .planner/config.yaml.
func FindProjectRoot(start string) (string, error) {
	dir, err := filepath.Abs(start)
	if err != nil {
		return "", err
	}
	for {
		if _, err := os.Stat(Path(dir)); err == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", ErrNoProject
		}
		dir = parent
	}
}

// Discover loads the project config above start. Outside a project it
// returns the defaults and an empty root.
func Discover(start string) (*Config, string, error) {
	root, err := FindProjectRoot(start)
	if errors.Is(err, ErrNoProject) {
		return Default(), "", nil
	}
	if err != nil {
		return nil, "", err
	}
	cfg, err := Load(Path(root), root)
	if err != nil {
		return nil, "", fmt.Errorf("loading config: %w", err)
	}
	return cfg, root, nil
}
