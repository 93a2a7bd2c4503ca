// Package patch applies edit plans: additive proposals that add nodes and
// fill in fields on existing ones without overwriting anything already set.
package patch

import (
	"errors"
	"fmt"
	"os"

	"github.com/jorge-barreto/planner/internal/planio"
)

// ErrInvalid marks an edit plan with the wrong shape.
var ErrInvalid = errors.New("invalid edit plan")

// AddNode proposes a new node. Its id may be changed on collision.
type AddNode struct {
	Node map[string]any
}

// UpdateNode proposes field values for an existing node.
type UpdateNode struct {
	ID     string
	Fields map[string]any
}

// EditPlan is a parsed edit proposal.
type EditPlan struct {
	AddNodes    []AddNode
	UpdateNodes []UpdateNode
	Notes       []string
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalid, fmt.Sprintf(format, args...))
}

// Parse checks the shape of a decoded edit plan:
//
//	add_nodes:    [{node: {...}}]
//	update_nodes: [{id: string, fields: {...}}]
//	notes:        [string]
//
// Every key is optional.
func Parse(raw any) (*EditPlan, error) {
	obj, ok := raw.(map[string]any)
	if !ok {
		return nil, invalid("edit plan must be an object")
	}

	adds, ok := listOrEmpty(obj["add_nodes"])
	if !ok {
		return nil, invalid("add_nodes must be a list")
	}
	updates, ok := listOrEmpty(obj["update_nodes"])
	if !ok {
		return nil, invalid("update_nodes must be a list")
	}
	notesRaw, ok := listOrEmpty(obj["notes"])
	if !ok {
		return nil, invalid("notes must be a list of strings")
	}

	ep := &EditPlan{}
	for i, item := range adds {
		m, ok := item.(map[string]any)
		if !ok {
			return nil, invalid("add_nodes[%d] must be {node: {...}}", i)
		}
		node, ok := m["node"].(map[string]any)
		if !ok {
			return nil, invalid("add_nodes[%d] must be {node: {...}}", i)
		}
		ep.AddNodes = append(ep.AddNodes, AddNode{Node: node})
	}
	for i, item := range updates {
		m, ok := item.(map[string]any)
		if !ok {
			return nil, invalid("update_nodes[%d] must be an object", i)
		}
		id, ok := m["id"].(string)
		if !ok || id == "" {
			return nil, invalid("update_nodes[%d].id must be a non-empty string", i)
		}
		fields, ok := m["fields"].(map[string]any)
		if !ok {
			return nil, invalid("update_nodes[%d].fields must be an object", i)
		}
		ep.UpdateNodes = append(ep.UpdateNodes, UpdateNode{ID: id, Fields: fields})
	}
	for _, item := range notesRaw {
		s, ok := item.(string)
		if !ok {
			return nil, invalid("notes must be a list of strings")
		}
		ep.Notes = append(ep.Notes, s)
	}
	return ep, nil
}

func listOrEmpty(v any) ([]any, bool) {
	if v == nil {
		return nil, true
	}
	l, ok := v.([]any)
	return l, ok
}

// LoadFile reads an edit plan from a .yaml, .yml or .json file.
func LoadFile(path string) (*EditPlan, error) {
	format, ok := planio.FormatFor(path)
	if !ok {
		return nil, fmt.Errorf("%s: supported formats are .yaml/.yml and .json", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading edit plan: %w", err)
	}
	raw, err := planio.Decode(data, format)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalid, path, err)
	}
	return Parse(raw)
}
