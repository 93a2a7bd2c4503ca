// Package templates holds the step lists used to expand outcome roots.
package templates

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Set maps a template name to its ordered step titles.
type Set map[string][]string

var defaults = Set{
	"simple": {"Design", "Implement", "Test", "Docs"},
	"dev":    {"Design", "Implement", "Test", "Docs", "Review", "Release"},
	"ops":    {"Monitoring", "SLOs", "Runbooks", "Playbooks", "Reliability"},
}

// DefaultName is the template used when none is chosen.
const DefaultName = "simple"

// ConfigError reports a malformed template file.
type ConfigError struct {
	Msg string
}

func (e *ConfigError) Error() string { return e.Msg }

// Defaults returns a fresh copy of the built-in templates.
func Defaults() Set {
	return defaults.Clone()
}

// Clone deep-copies the set.
func (s Set) Clone() Set {
	out := make(Set, len(s))
	for k, v := range s {
		out[k] = append([]string(nil), v...)
	}
	return out
}

// Names returns the template names in sorted order.
func (s Set) Names() []string {
	names := make([]string, 0, len(s))
	for k := range s {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Steps returns the step titles for name.
func (s Set) Steps(name string) ([]string, bool) {
	steps, ok := s[name]
	return steps, ok
}

// Merge returns the built-ins with overrides applied. Overrides replace
// templates of the same name and may add new ones.
func Merge(overrides Set) Set {
	merged := Defaults()
	for k, v := range overrides {
		merged[k] = append([]string(nil), v...)
	}
	return merged
}

// LoadFile reads a YAML template file of the form `name: [step, ...]`.
// An empty file yields an empty set.
func LoadFile(path string) (Set, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading template file: %w", err)
	}
	return Parse(data)
}

// Parse decodes template YAML.
func Parse(data []byte) (Set, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, &ConfigError{Msg: fmt.Sprintf("template file is not valid YAML: %v", err)}
	}
	if doc.Kind == 0 || len(doc.Content) == 0 {
		return Set{}, nil
	}
	root := doc.Content[0]
	if root.Kind == yaml.ScalarNode && root.ShortTag() == "!!null" {
		return Set{}, nil
	}
	if root.Kind != yaml.MappingNode {
		return nil, &ConfigError{Msg: "template file must be a mapping of name -> list[str]"}
	}

	out := make(Set)
	for i := 0; i+1 < len(root.Content); i += 2 {
		key, val := root.Content[i], root.Content[i+1]
		if !isString(key) || strings.TrimSpace(key.Value) == "" {
			return nil, &ConfigError{Msg: "template names must be non-empty strings"}
		}
		name := strings.TrimSpace(key.Value)
		if val.Kind != yaml.SequenceNode || len(val.Content) == 0 {
			return nil, &ConfigError{Msg: fmt.Sprintf("template '%s' must be a non-empty list", name)}
		}
		steps := make([]string, 0, len(val.Content))
		for _, item := range val.Content {
			if !isString(item) || strings.TrimSpace(item.Value) == "" {
				return nil, &ConfigError{Msg: fmt.Sprintf("template '%s' items must be non-empty strings", name)}
			}
			steps = append(steps, strings.TrimSpace(item.Value))
		}
		out[name] = steps
	}
	return out, nil
}

func isString(n *yaml.Node) bool {
	return n.Kind == yaml.ScalarNode && n.ShortTag() == "!!str"
}

// LoadAndMerge returns the built-ins, merged with path when it is set.
func LoadAndMerge(path string) (Set, error) {
	if path == "" {
		return Defaults(), nil
	}
	overrides, err := LoadFile(path)
	if err != nil {
		return nil, err
	}
	return Merge(overrides), nil
}

// IsNotFound reports whether err came from a missing template file.
func IsNotFound(err error) bool {
	return errors.Is(err, os.ErrNotExist)
}
