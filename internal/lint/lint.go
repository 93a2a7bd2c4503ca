// Package lint runs structural quality rules over a raw plan document.
//
// Lint is best-effort: it works on documents that would fail validation and
// skips any rule it cannot evaluate. Shape problems belong to the validator.
package lint

import (
	"fmt"
	"strings"

	"github.com/jorge-barreto/planner/internal/plan"
)

// record is the subset of a raw node the rules look at.
type record struct {
	index int
	id    string
	typ   string
	raw   map[string]any
	deps  []string
}

// Lint returns every rule violation in doc, sorted by (file, path, code).
func Lint(doc *plan.Document) []plan.Error {
	rawNodes, ok := doc.NodeList()
	if !ok {
		return []plan.Error{}
	}

	var records []record
	for i, raw := range rawNodes {
		m, ok := plan.AsMap(raw)
		if !ok {
			continue
		}
		id, ok := m[plan.FieldID].(string)
		if !ok {
			continue
		}
		typ, _ := m[plan.FieldType].(string)
		records = append(records, record{
			index: i,
			id:    id,
			typ:   typ,
			raw:   m,
			deps:  plan.Strings(m[plan.FieldDependsOn]),
		})
	}

	l := &linter{file: doc.File}
	l.duplicates(records)
	l.fields(records)

	first := firstOccurrences(records)
	l.unreachable(first, doc.RootIDs)
	l.cycles(first)

	return plan.SortErrors(l.errs)
}

type linter struct {
	file string
	errs []plan.Error
}

func (l *linter) add(code, msg, path string) {
	l.errs = append(l.errs, plan.Error{Code: code, Message: msg, File: l.file, Path: path})
}

func (l *linter) duplicates(records []record) {
	counts := make(map[string]int)
	for _, r := range records {
		counts[r.id]++
	}
	seen := make(map[string]bool)
	for _, r := range records {
		if counts[r.id] < 2 {
			continue
		}
		if !seen[r.id] {
			seen[r.id] = true
			continue
		}
		l.add(plan.CodeLintDuplicateID,
			fmt.Sprintf("duplicate node id: %s (count=%d)", r.id, counts[r.id]),
			fmt.Sprintf("nodes[%d].id", r.index))
	}
}

func (l *linter) fields(records []record) {
	for _, r := range records {
		if r.typ == string(plan.TypeTask) || r.typ == string(plan.TypeCheck) {
			if n, ok := plan.ListLen(r.raw[plan.FieldDefinitionOfDone]); ok && n == 0 {
				l.add(plan.CodeLintEmptyDoD,
					fmt.Sprintf("%s %s has an empty definition_of_done", r.typ, r.id),
					fmt.Sprintf("nodes[%d].definition_of_done", r.index))
			}
		}
		if r.typ == string(plan.TypeTask) {
			if _, ok := plan.NonBlankString(r.raw[plan.FieldOwner]); !ok {
				l.add(plan.CodeLintTaskMissingOwner,
					fmt.Sprintf("task %s has no owner", r.id),
					fmt.Sprintf("nodes[%d].owner", r.index))
			}
		}
	}
}

// firstOccurrences keeps the first record for every id, in document order.
func firstOccurrences(records []record) []record {
	seen := make(map[string]bool)
	var out []record
	for _, r := range records {
		if seen[r.id] {
			continue
		}
		seen[r.id] = true
		out = append(out, r)
	}
	return out
}

// roots mirrors the validator's root rules without reporting anything.
func roots(records []record, declared any) []string {
	byID := make(map[string]record, len(records))
	for _, r := range records {
		byID[r.id] = r
	}
	var out []string
	if declared == nil {
		for _, r := range records {
			if len(r.deps) == 0 && isEmptyList(r.raw[plan.FieldDependsOn]) {
				out = append(out, r.id)
			}
		}
		return out
	}
	for _, id := range plan.Strings(declared) {
		if r, ok := byID[id]; ok && len(r.deps) == 0 {
			out = append(out, id)
		}
	}
	return out
}

func isEmptyList(v any) bool {
	n, ok := plan.ListLen(v)
	return ok && n == 0
}

func (l *linter) unreachable(records []record, declared any) {
	rs := roots(records, declared)
	if len(rs) == 0 {
		return
	}

	dependents := make(map[string][]string)
	for _, r := range records {
		for _, dep := range r.deps {
			dependents[dep] = append(dependents[dep], r.id)
		}
	}

	visited := make(map[string]bool)
	queue := append([]string(nil), rs...)
	for _, id := range rs {
		visited[id] = true
	}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		for _, next := range dependents[id] {
			if !visited[next] {
				visited[next] = true
				queue = append(queue, next)
			}
		}
	}

	for _, r := range records {
		if !visited[r.id] {
			l.add(plan.CodeLintUnreachableNode,
				fmt.Sprintf("node %s is not reachable from any root", r.id),
				fmt.Sprintf("nodes[%d].id", r.index))
		}
	}
}

type color uint8

const (
	white color = iota
	gray
	black
)

// frame is one entry of the explicit DFS stack: a node and the position of
// the next dependency to visit.
type frame struct {
	id   string
	next int
}

func (l *linter) cycles(records []record) {
	byID := make(map[string]record, len(records))
	for _, r := range records {
		byID[r.id] = r
	}

	state := make(map[string]color, len(records))
	seen := make(map[string]bool)

	for _, start := range records {
		if state[start.id] != white {
			continue
		}
		stack := []frame{{id: start.id}}
		state[start.id] = gray

		for len(stack) > 0 {
			top := &stack[len(stack)-1]
			deps := byID[top.id].deps
			if top.next >= len(deps) {
				state[top.id] = black
				stack = stack[:len(stack)-1]
				continue
			}
			dep := deps[top.next]
			top.next++

			if _, known := byID[dep]; !known {
				continue
			}
			switch state[dep] {
			case white:
				state[dep] = gray
				stack = append(stack, frame{id: dep})
			case gray:
				cycle := cycleFrom(stack, dep)
				key := canonical(cycle)
				if seen[key] {
					continue
				}
				seen[key] = true
				first := byID[cycle[0]]
				l.add(plan.CodeLintCycleDetected,
					fmt.Sprintf("dependency cycle detected: %s", strings.Join(cycle, " -> ")),
					fmt.Sprintf("nodes[%d].depends_on", first.index))
			}
		}
	}
}

// cycleFrom returns the stack suffix starting at id, closed with id again.
func cycleFrom(stack []frame, id string) []string {
	start := 0
	for i := range stack {
		if stack[i].id == id {
			start = i
			break
		}
	}
	out := make([]string, 0, len(stack)-start+1)
	for _, f := range stack[start:] {
		out = append(out, f.id)
	}
	return append(out, id)
}

// canonical rotates a closed cycle to start at its smallest id so the same
// loop found from different entry points compares equal.
func canonical(cycle []string) string {
	ring := cycle[:len(cycle)-1]
	lo := 0
	for i, id := range ring {
		if id < ring[lo] {
			lo = i
		}
	}
	rotated := append(append([]string(nil), ring[lo:]...), ring[:lo]...)
	return strings.Join(rotated, "\x00")
}
