package planio

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/jorge-barreto/planner/internal/fsutil"
	"github.com/jorge-barreto/planner/internal/plan"
)

// Marshal renders doc. Node keys come out in canonical field order, then any
// extra keys sorted by name.
func Marshal(doc *plan.Document, format Format) ([]byte, error) {
	top := ordered(doc)
	switch format {
	case FormatYAML:
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(top); err != nil {
			return nil, fmt.Errorf("encoding yaml: %w", err)
		}
		if err := enc.Close(); err != nil {
			return nil, fmt.Errorf("encoding yaml: %w", err)
		}
		return buf.Bytes(), nil
	case FormatJSON:
		data, err := json.MarshalIndent(top, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("encoding json: %w", err)
		}
		return append(data, '\n'), nil
	}
	return nil, fmt.Errorf("unknown format %q", format)
}

// Write renders doc in the format implied by path and replaces the file
// atomically.
func Write(path string, doc *plan.Document) error {
	format, ok := FormatFor(path)
	if !ok {
		return fmt.Errorf("%s: supported formats are .yaml/.yml and .json", path)
	}
	data, err := Marshal(doc, format)
	if err != nil {
		return err
	}
	if err := fsutil.WriteFileAtomic(path, data, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

func ordered(doc *plan.Document) orderedMap {
	top := orderedMap{}
	top.set("schema_version", doc.SchemaVersion)
	if nodes, ok := doc.NodeList(); ok {
		out := make([]any, len(nodes))
		for i, raw := range nodes {
			if m, ok := plan.AsMap(raw); ok {
				out[i] = orderedNode(m)
			} else {
				out[i] = raw
			}
		}
		top.set("nodes", out)
	} else {
		top.set("nodes", doc.Nodes)
	}
	if doc.RootIDs != nil {
		top.set("root_ids", doc.RootIDs)
	}
	return top
}

func orderedNode(m map[string]any) orderedMap {
	out := orderedMap{}
	known := make(map[string]bool, len(plan.FieldOrder))
	for _, k := range plan.FieldOrder {
		known[k] = true
		if v, ok := m[k]; ok {
			out.set(k, v)
		}
	}
	var extra []string
	for k := range m {
		if !known[k] {
			extra = append(extra, k)
		}
	}
	sort.Strings(extra)
	for _, k := range extra {
		out.set(k, m[k])
	}
	return out
}

// orderedMap is a mapping that encodes its keys in insertion order.
type orderedMap struct {
	keys   []string
	values map[string]any
}

func (m *orderedMap) set(k string, v any) {
	if m.values == nil {
		m.values = make(map[string]any)
	}
	if _, ok := m.values[k]; !ok {
		m.keys = append(m.keys, k)
	}
	m.values[k] = v
}

func (m orderedMap) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, k := range m.keys {
		key := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: k}
		val := &yaml.Node{}
		if err := val.Encode(m.values[k]); err != nil {
			return nil, err
		}
		node.Content = append(node.Content, key, val)
	}
	return node, nil
}

func (m orderedMap) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range m.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		val, err := json.Marshal(m.values[k])
		if err != nil {
			return nil, err
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
