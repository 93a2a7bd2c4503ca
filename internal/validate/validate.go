// Package validate turns a raw plan document into a typed graph.
package validate

import (
	"fmt"
	"sort"
	"strings"

	"github.com/jorge-barreto/planner/internal/plan"
)

// Validate checks doc against the plan schema and referential rules.
// It returns the graph only when no errors were found; errors are sorted.
func Validate(doc *plan.Document) (*plan.Graph, []plan.Error) {
	v := &validator{file: doc.File}

	schemaVersion, ok := plan.NonBlankString(doc.SchemaVersion)
	if !ok {
		v.add(plan.CodeRequiredField, "schema_version is required and must be a non-empty string", "schema_version")
	}

	rawNodes, ok := doc.NodeList()
	if !ok {
		v.add(plan.CodeRequiredField, "nodes is required and must be an array", "nodes")
		return nil, plan.SortErrors(v.errs)
	}

	nodes := make(map[string]plan.Node)
	index := make(map[string]int)
	var ids []string
	for i, raw := range rawNodes {
		n, ok := v.node(i, raw, nodes)
		if !ok {
			continue
		}
		nodes[n.ID] = n
		index[n.ID] = i
		ids = append(ids, n.ID)
	}

	for _, id := range ids {
		for j, dep := range nodes[id].DependsOn {
			if _, ok := nodes[dep]; !ok {
				v.add(plan.CodeUnknownDependency,
					fmt.Sprintf("depends_on references unknown id: %s", dep),
					fmt.Sprintf("nodes[%d].depends_on[%d]", index[id], j))
			}
		}
	}

	roots := v.roots(doc.RootIDs, ids, nodes)

	if len(v.errs) > 0 {
		return nil, plan.SortErrors(v.errs)
	}

	var edges []plan.Edge
	for _, id := range ids {
		for _, dep := range nodes[id].DependsOn {
			edges = append(edges, plan.Edge{NodeID: id, DependsOn: dep})
		}
	}
	sort.Strings(roots)

	return &plan.Graph{
		SchemaVersion: schemaVersion,
		Nodes:         nodes,
		IDs:           ids,
		Edges:         edges,
		Roots:         roots,
	}, nil
}

type validator struct {
	file string
	errs []plan.Error
}

func (v *validator) add(code, msg, path string) {
	v.errs = append(v.errs, plan.Error{Code: code, Message: msg, File: v.file, Path: path})
}

// node checks one raw record. Required-field failures stop checks for that
// record and exclude it; optional-field failures are reported but the node is
// still accepted.
func (v *validator) node(i int, raw any, accepted map[string]plan.Node) (plan.Node, bool) {
	path := fmt.Sprintf("nodes[%d]", i)

	m, ok := plan.AsMap(raw)
	if !ok {
		v.add(plan.CodeInvalidType, "node must be an object", path)
		return plan.Node{}, false
	}

	id, ok := plan.NonBlankString(m[plan.FieldID])
	if !ok {
		v.add(plan.CodeRequiredField, "id is required and must be a non-empty string", path+".id")
		return plan.Node{}, false
	}
	if _, dup := accepted[id]; dup {
		v.add(plan.CodeDuplicateID, fmt.Sprintf("duplicate node id: %s", id), path+".id")
		return plan.Node{}, false
	}

	typ, _ := m[plan.FieldType].(string)
	if !plan.ValidType(typ) {
		v.add(plan.CodeInvalidEnum, fmt.Sprintf("type must be one of %s", typeList()), path+".type")
		return plan.Node{}, false
	}

	title, ok := plan.NonBlankString(m[plan.FieldTitle])
	if !ok {
		v.add(plan.CodeRequiredField, "title is required and must be a non-empty string", path+".title")
		return plan.Node{}, false
	}

	dod, ok := plan.StringList(m[plan.FieldDefinitionOfDone])
	if !ok {
		v.add(plan.CodeInvalidType, "definition_of_done must be an array of strings", path+".definition_of_done")
		return plan.Node{}, false
	}

	deps, ok := plan.StringList(m[plan.FieldDependsOn])
	if !ok {
		v.add(plan.CodeInvalidType, "depends_on must be an array of strings", path+".depends_on")
		return plan.Node{}, false
	}

	n := plan.Node{
		ID:               id,
		Type:             plan.NodeType(typ),
		Title:            title,
		DefinitionOfDone: dod,
		DependsOn:        deps,
	}

	if raw, present := m[plan.FieldOwner]; present && raw != nil {
		if s, ok := raw.(string); ok {
			n.Owner = &s
		} else {
			v.add(plan.CodeInvalidType, "owner must be a string", path+".owner")
		}
	}
	if raw, present := m[plan.FieldEstimateHours]; present && raw != nil {
		if f, ok := plan.Number(raw); ok {
			n.EstimateHours = &f
		} else {
			v.add(plan.CodeInvalidType, "estimate_hours must be a number", path+".estimate_hours")
		}
	}
	if raw, present := m[plan.FieldPriority]; present && raw != nil {
		if p, ok := plan.Integer(raw); ok {
			n.Priority = &p
		} else {
			v.add(plan.CodeInvalidType, "priority must be an integer", path+".priority")
		}
	}

	return n, true
}

// roots applies the root rules: declared root_ids must exist and have no
// dependencies; otherwise every zero-dependency node is a root.
func (v *validator) roots(declared any, ids []string, nodes map[string]plan.Node) []string {
	var roots []string

	if declared == nil {
		for _, id := range ids {
			if len(nodes[id].DependsOn) == 0 {
				roots = append(roots, id)
			}
		}
		if len(roots) == 0 {
			v.add(plan.CodeNoRoots, "no root nodes found (a root must have depends_on: [])", "root_ids")
		}
		return roots
	}

	rootIDs, ok := plan.StringList(declared)
	if !ok {
		v.add(plan.CodeInvalidType, "root_ids must be an array of strings", "root_ids")
		return nil
	}
	seen := make(map[string]bool)
	for k, rid := range rootIDs {
		path := fmt.Sprintf("root_ids[%d]", k)
		n, ok := nodes[rid]
		switch {
		case seen[rid]:
		case !ok:
			v.add(plan.CodeUnknownRoot, fmt.Sprintf("root_ids references unknown id: %s", rid), path)
		case len(n.DependsOn) > 0:
			v.add(plan.CodeRootHasDependencies,
				fmt.Sprintf("root node must have depends_on: [], but %s has dependencies", rid), path)
		default:
			seen[rid] = true
			roots = append(roots, rid)
		}
	}
	if len(roots) == 0 {
		v.add(plan.CodeNoRoots, "root_ids did not yield any valid roots", "root_ids")
	}
	return roots
}

func typeList() string {
	names := make([]string, len(plan.NodeTypes))
	for i, t := range plan.NodeTypes {
		names[i] = string(t)
	}
	sort.Strings(names)
	return "[" + strings.Join(names, ", ") + "]"
}
