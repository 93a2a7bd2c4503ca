package expand

import (
	"fmt"
	"sort"
	"strings"

	"github.com/jorge-barreto/planner/internal/plan"
	"github.com/jorge-barreto/planner/internal/templates"
)

// Request holds unchecked caller choices for an expansion.
type Request struct {
	Root            string // empty expands every outcome root
	Template        string
	Templates       templates.Set
	Mode            string
	ReconcileStrict bool
	Owner           string
}

// ResolveRoots returns the outcome roots to expand: root alone when set,
// otherwise every outcome root of g in id order.
func ResolveRoots(doc *plan.Document, g *plan.Graph, root string) ([]string, []plan.Error) {
	fail := func(code, msg, path string) ([]string, []plan.Error) {
		return nil, []plan.Error{{Code: code, Message: msg, File: doc.File, Path: path}}
	}
	if root != "" {
		n, ok := g.Node(root)
		if !ok {
			return fail(plan.CodeExpandUnknownRoot,
				fmt.Sprintf("--root references unknown id: %s", root), "root")
		}
		if n.Type != plan.TypeOutcome {
			return fail(plan.CodeExpandUnsupportedRoot,
				fmt.Sprintf("--root must be type=outcome, got type=%s", n.Type), "root")
		}
		return []string{root}, nil
	}
	var roots []string
	for _, id := range g.Roots {
		if n, ok := g.Node(id); ok && n.Type == plan.TypeOutcome {
			roots = append(roots, id)
		}
	}
	if len(roots) == 0 {
		return fail(plan.CodeExpandNoOutcomeRoots, "no outcome roots to expand (roots exist, but none are type=outcome)", "root_ids")
	}
	sort.Strings(roots)
	return roots, nil
}

// Preflight checks req against a validated graph and returns the Options to
// pass to Expand. It stops at the first failing check, in the order roots,
// template, mode.
func Preflight(doc *plan.Document, g *plan.Graph, req Request) (Options, []plan.Error) {
	fail := func(code, msg, path string) (Options, []plan.Error) {
		return Options{}, []plan.Error{{Code: code, Message: msg, File: doc.File, Path: path}}
	}

	roots, errs := ResolveRoots(doc, g, req.Root)
	if len(errs) > 0 {
		return Options{}, errs
	}

	set := req.Templates
	if set == nil {
		set = templates.Defaults()
	}
	name := req.Template
	if name == "" {
		name = templates.DefaultName
	}
	if _, ok := set.Steps(name); !ok {
		return fail(plan.CodeExpandUnknownTemplate,
			fmt.Sprintf("unknown template: %s (choose one of: %s)", name, strings.Join(set.Names(), ", ")), "template")
	}

	modeName := req.Mode
	if modeName == "" {
		modeName = string(ModeAppend)
	}
	mode, err := ParseMode(modeName)
	if err != nil {
		return fail(plan.CodeExpandUnknownMode,
			fmt.Sprintf("unknown mode: %s (choose one of: %s)", modeName, modeNames()), "mode")
	}

	return Options{
		RootIDs:         roots,
		Template:        name,
		Templates:       set,
		Mode:            mode,
		ReconcileStrict: req.ReconcileStrict,
		Owner:           req.Owner,
	}, nil
}
