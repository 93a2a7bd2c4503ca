// Package expand grows a plan by attaching a deliverable and a chain of
// template tasks to each outcome root.
//
// Expansion never touches the caller's document. The result is a new
// document in which original nodes keep their positions, repaired nodes are
// replaced by copies, and created nodes are appended in root-then-step order.
package expand

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/jorge-barreto/planner/internal/plan"
	"github.com/jorge-barreto/planner/internal/templates"
)

// Mode selects how existing nodes are reused.
type Mode string

const (
	// ModeAppend always creates new nodes.
	ModeAppend Mode = "append"
	// ModeMerge reuses nodes that match a structural key, unchanged.
	ModeMerge Mode = "merge"
	// ModeReconcile reuses matching nodes and repairs them.
	ModeReconcile Mode = "reconcile"
)

// Modes lists the supported modes in display order.
var Modes = []Mode{ModeAppend, ModeMerge, ModeReconcile}

// DefaultOwner is assigned to tasks that have no owner.
const DefaultOwner = "auto"

var (
	ErrUnknownTemplate = errors.New("expand: unknown template")
	ErrUnknownMode     = errors.New("expand: unknown mode")
	ErrMalformedNodes  = errors.New("expand: nodes must be an array")
)

// ParseMode returns the Mode named by s.
func ParseMode(s string) (Mode, error) {
	for _, m := range Modes {
		if string(m) == s {
			return m, nil
		}
	}
	return "", fmt.Errorf("%w: %q (choose one of: %s)", ErrUnknownMode, s, modeNames())
}

func modeNames() string {
	names := make([]string, len(Modes))
	for i, m := range Modes {
		names[i] = string(m)
	}
	return strings.Join(names, ", ")
}

// Options configures one expansion run.
type Options struct {
	RootIDs         []string
	Template        string
	Templates       templates.Set
	Mode            Mode
	ReconcileStrict bool
	Owner           string // defaults to DefaultOwner
}

// Result is the outcome of Expand.
type Result struct {
	Document *plan.Document
	Created  []string
	Reused   []string // matched nodes, repaired or not
	Repaired []string // matched nodes whose content changed
}

// Expand attaches a deliverable and task chain to each root in opts.RootIDs.
// On error nothing is returned.
func Expand(doc *plan.Document, opts Options) (*Result, error) {
	steps, ok := opts.Templates.Steps(opts.Template)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTemplate, opts.Template)
	}
	if len(steps) == 0 {
		return nil, fmt.Errorf("%w: %s has no steps", ErrUnknownTemplate, opts.Template)
	}
	if _, err := ParseMode(string(opts.Mode)); err != nil {
		return nil, err
	}
	rawNodes, ok := doc.NodeList()
	if !ok {
		return nil, ErrMalformedNodes
	}
	if opts.Owner == "" {
		opts.Owner = DefaultOwner
	}

	e := &engine{
		opts:    opts,
		nodes:   append([]any(nil), rawNodes...),
		taken:   make(map[string]bool),
		claimed: make(map[int]bool),
		result:  &Result{},
	}
	for _, raw := range rawNodes {
		if id, ok := plan.NodeID(raw); ok {
			e.taken[id] = true
		}
	}

	for _, root := range opts.RootIDs {
		if err := e.expandRoot(root, steps); err != nil {
			return nil, err
		}
	}

	e.result.Document = &plan.Document{
		SchemaVersion: plan.CloneValue(doc.SchemaVersion),
		Nodes:         e.nodes,
		RootIDs:       plan.CloneValue(doc.RootIDs),
	}
	return e.result, nil
}

type engine struct {
	opts    Options
	nodes   []any
	taken   map[string]bool
	claimed map[int]bool
	result  *Result
}

func (e *engine) expandRoot(root string, steps []string) error {
	delID, err := e.deliverable(root)
	if err != nil {
		return err
	}
	prev := ""
	for i, step := range steps {
		prev, err = e.task(root, step, i+1, delID, prev)
		if err != nil {
			return err
		}
	}
	return nil
}

func (e *engine) deliverable(root string) (string, error) {
	k := deliverableKey(root)
	switch e.opts.Mode {
	case ModeMerge:
		if idx := e.find(k.matches); idx >= 0 {
			return e.reuse(idx), nil
		}
	case ModeReconcile:
		if idx := e.find(k.titleMatches); idx >= 0 {
			return e.repair(idx, func(n map[string]any) { repairDeliverable(n, root) }), nil
		}
	}

	id, err := allocateID(deliverableBaseID(root), e.taken)
	if err != nil {
		return "", err
	}
	e.create(map[string]any{
		plan.FieldID:               id,
		plan.FieldType:             string(plan.TypeDeliverable),
		plan.FieldTitle:            k.title,
		plan.FieldDefinitionOfDone: plan.StringsToAny(deliverableDoD),
		plan.FieldDependsOn:        []any{root},
	})
	return id, nil
}

func (e *engine) task(root, step string, seq int, delID, prev string) (string, error) {
	k := taskKey(step, root, delID)
	required := []string{delID}
	if prev != "" {
		required = append(required, prev)
	}

	switch e.opts.Mode {
	case ModeMerge:
		if idx := e.find(k.matches); idx >= 0 {
			return e.reuse(idx), nil
		}
	case ModeReconcile:
		idx := e.find(k.matches)
		if idx < 0 && !e.opts.ReconcileStrict {
			idx = e.find(k.titleMatches)
		}
		if idx >= 0 {
			return e.repair(idx, func(n map[string]any) {
				repairTask(n, step, e.opts.Owner, required)
			}), nil
		}
	}

	id, err := allocateID(taskBaseID(root, seq), e.taken)
	if err != nil {
		return "", err
	}
	e.create(map[string]any{
		plan.FieldID:               id,
		plan.FieldType:             string(plan.TypeTask),
		plan.FieldTitle:            k.title,
		plan.FieldDefinitionOfDone: plan.StringsToAny(taskDoD(step)),
		plan.FieldDependsOn:        plan.StringsToAny(required),
		plan.FieldOwner:            e.opts.Owner,
		plan.FieldEstimateHours:    1,
	})
	return id, nil
}

// find returns the index of the unclaimed node accepted by match with the
// smallest id, or -1. Equal ids resolve to the earliest position.
func (e *engine) find(match func(map[string]any) bool) int {
	best, bestID := -1, ""
	for i, raw := range e.nodes {
		if e.claimed[i] {
			continue
		}
		m, ok := plan.AsMap(raw)
		if !ok {
			continue
		}
		id, ok := m[plan.FieldID].(string)
		if !ok || !match(m) {
			continue
		}
		if best < 0 || id < bestID {
			best, bestID = i, id
		}
	}
	return best
}

func (e *engine) reuse(idx int) string {
	e.claimed[idx] = true
	id, _ := plan.NodeID(e.nodes[idx])
	e.result.Reused = append(e.result.Reused, id)
	return id
}

// repair applies fix to a copy of the node at idx and swaps the copy in
// when it differs from the original.
func (e *engine) repair(idx int, fix func(map[string]any)) string {
	orig, _ := plan.AsMap(e.nodes[idx])
	repaired := plan.CloneNode(orig)
	fix(repaired)
	id := e.reuse(idx)
	if !reflect.DeepEqual(orig, repaired) {
		e.nodes[idx] = repaired
		e.result.Repaired = append(e.result.Repaired, id)
	}
	return id
}

func (e *engine) create(node map[string]any) {
	e.claimed[len(e.nodes)] = true
	e.nodes = append(e.nodes, node)
	e.result.Created = append(e.result.Created, node[plan.FieldID].(string))
}
