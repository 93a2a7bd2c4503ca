package testutil

import (
	"github.com/jorge-barreto/planner/internal/plan"
)

// Node options
type NodeOption func(map[string]any)

func WithDoD(items ...string) NodeOption {
	return func(n map[string]any) {
		n[plan.FieldDefinitionOfDone] = plan.StringsToAny(items)
	}
}

func WithDeps(ids ...string) NodeOption {
	return func(n map[string]any) {
		n[plan.FieldDependsOn] = plan.StringsToAny(ids)
	}
}

func WithOwner(owner string) NodeOption {
	return func(n map[string]any) {
		n[plan.FieldOwner] = owner
	}
}

func WithEstimate(hours any) NodeOption {
	return func(n map[string]any) {
		n[plan.FieldEstimateHours] = hours
	}
}

func WithField(key string, v any) NodeOption {
	return func(n map[string]any) {
		n[key] = v
	}
}

func Without(key string) NodeOption {
	return func(n map[string]any) {
		delete(n, key)
	}
}

// NewNode builds a raw node record shaped like loader output. Tasks get an
// owner by default so they lint clean.
func NewNode(id string, typ plan.NodeType, title string, opts ...NodeOption) map[string]any {
	n := map[string]any{
		plan.FieldID:               id,
		plan.FieldType:             string(typ),
		plan.FieldTitle:            title,
		plan.FieldDefinitionOfDone: []any{"done"},
		plan.FieldDependsOn:        []any{},
	}
	if typ == plan.TypeTask {
		n[plan.FieldOwner] = "alice"
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Outcome builds a root outcome node.
func Outcome(id string, opts ...NodeOption) map[string]any {
	return NewNode(id, plan.TypeOutcome, "Outcome "+id, opts...)
}

// NewDoc wraps raw nodes in a document with schema_version "0.1.0".
func NewDoc(nodes ...map[string]any) *plan.Document {
	list := make([]any, len(nodes))
	for i, n := range nodes {
		list[i] = n
	}
	return &plan.Document{SchemaVersion: "0.1.0", Nodes: list}
}

// NodeByID finds the raw node with the given id.
func NodeByID(doc *plan.Document, id string) map[string]any {
	nodes, _ := doc.NodeList()
	for _, raw := range nodes {
		if got, ok := plan.NodeID(raw); ok && got == id {
			m, _ := plan.AsMap(raw)
			return m
		}
	}
	return nil
}

// IDs returns the node ids of doc in order.
func IDs(doc *plan.Document) []string {
	nodes, _ := doc.NodeList()
	var out []string
	for _, raw := range nodes {
		if id, ok := plan.NodeID(raw); ok {
			out = append(out, id)
		}
	}
	return out
}

// Codes returns the code of every error, in order.
func Codes(errs []plan.Error) []string {
	out := make([]string, len(errs))
	for i, e := range errs {
		out[i] = e.Code
	}
	return out
}
