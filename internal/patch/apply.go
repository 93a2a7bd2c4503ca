package patch

import (
	"fmt"
	"reflect"

	"github.com/jorge-barreto/planner/internal/plan"
)

// Result is the outcome of Apply.
type Result struct {
	Document *plan.Document
	IDRemap  map[string]string // proposed id -> allocated id, collisions only
	Notes    []string
}

// Apply returns a copy of doc with edit applied. Added nodes are appended
// in order; update values only fill fields that are missing or empty, and
// list values are unioned into existing lists.
func Apply(doc *plan.Document, edit *EditPlan) (*Result, error) {
	var nodes []any
	switch raw := doc.Nodes.(type) {
	case nil:
	case []any:
		nodes = plan.CloneValue(raw).([]any)
	default:
		return nil, fmt.Errorf("%w: plan nodes must be a list", ErrInvalid)
	}

	byID := make(map[string]map[string]any)
	taken := make(map[string]bool)
	for _, raw := range nodes {
		m, ok := plan.AsMap(raw)
		if !ok {
			continue
		}
		id, ok := m[plan.FieldID].(string)
		if !ok {
			continue
		}
		taken[id] = true
		if _, dup := byID[id]; !dup {
			byID[id] = m
		}
	}

	remap := make(map[string]string)
	var added []map[string]any
	for i, add := range edit.AddNodes {
		node := plan.CloneNode(add.Node)
		proposed, ok := plan.NonBlankString(node[plan.FieldID])
		if !ok {
			return nil, fmt.Errorf("%w: add_nodes[%d].node.id must be a non-empty string", ErrInvalid, i)
		}
		id, err := allocateID(proposed, taken)
		if err != nil {
			return nil, err
		}
		if id != proposed {
			remap[proposed] = id
		}
		node[plan.FieldID] = id
		added = append(added, node)
	}

	for _, node := range added {
		if deps, ok := node[plan.FieldDependsOn]; ok {
			node[plan.FieldDependsOn] = remapValue(deps, remap)
		}
		nodes = append(nodes, node)
		if _, dup := byID[node[plan.FieldID].(string)]; !dup {
			byID[node[plan.FieldID].(string)] = node
		}
	}

	for _, upd := range edit.UpdateNodes {
		target, ok := byID[lookup(remap, upd.ID)]
		if !ok {
			continue
		}
		for k, v := range upd.Fields {
			if v == nil {
				continue
			}
			fill(target, k, remapValue(plan.CloneValue(v), remap))
		}
	}

	out := &plan.Document{
		File:          doc.File,
		SchemaVersion: plan.CloneValue(doc.SchemaVersion),
		Nodes:         nodes,
		RootIDs:       plan.CloneValue(doc.RootIDs),
	}
	if nodes == nil {
		out.Nodes = []any{}
	}
	return &Result{Document: out, IDRemap: remap, Notes: edit.Notes}, nil
}

// fill sets target[k] to v when the field is missing or empty, or unions v
// into an existing list.
func fill(target map[string]any, k string, v any) {
	cur, present := target[k]
	if add, ok := v.([]any); ok {
		if existing, ok := cur.([]any); ok {
			for _, item := range add {
				if !containsValue(existing, item) {
					existing = append(existing, item)
				}
			}
			target[k] = existing
			return
		}
	}
	if !present || isEmpty(cur) {
		target[k] = v
	}
}

func isEmpty(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return t == ""
	case []any:
		return len(t) == 0
	}
	return false
}

func containsValue(list []any, v any) bool {
	for _, item := range list {
		if reflect.DeepEqual(item, v) {
			return true
		}
	}
	return false
}

func lookup(remap map[string]string, id string) string {
	if to, ok := remap[id]; ok {
		return to
	}
	return id
}

// remapValue rewrites strings, and strings inside lists, through remap.
func remapValue(v any, remap map[string]string) any {
	switch t := v.(type) {
	case string:
		return lookup(remap, t)
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = remapValue(item, remap)
		}
		return out
	}
	return v
}
