package expand

import (
	"math"

	"github.com/jorge-barreto/planner/internal/plan"
)

var deliverableDoD = []string{"Implementation complete", "Reviewed and accepted"}

func taskDoD(step string) []string {
	return []string{step + " complete"}
}

// normalizeDeps puts required first, in order, followed by the existing
// dependencies in their original order. Later duplicates are dropped.
func normalizeDeps(required, existing []string) []string {
	seen := make(map[string]bool, len(required)+len(existing))
	out := make([]string, 0, len(required)+len(existing))
	for _, group := range [][]string{required, existing} {
		for _, dep := range group {
			if seen[dep] {
				continue
			}
			seen[dep] = true
			out = append(out, dep)
		}
	}
	return out
}

// repairDeliverable backfills a matched deliverable. It never removes fields.
func repairDeliverable(node map[string]any, root string) {
	dod := plan.Strings(node[plan.FieldDefinitionOfDone])
	for _, d := range deliverableDoD {
		if len(dod) >= len(deliverableDoD) {
			break
		}
		if !containsString(dod, d) {
			dod = append(dod, d)
		}
	}
	node[plan.FieldDefinitionOfDone] = plan.StringsToAny(dod)
	node[plan.FieldDependsOn] = plan.StringsToAny(
		normalizeDeps([]string{root}, plan.Strings(node[plan.FieldDependsOn])))
}

// repairTask backfills a matched task and rewires its chain dependencies.
func repairTask(node map[string]any, step, owner string, required []string) {
	dod := plan.Strings(node[plan.FieldDefinitionOfDone])
	if len(dod) == 0 {
		dod = taskDoD(step)
	}
	node[plan.FieldDefinitionOfDone] = plan.StringsToAny(dod)

	if _, ok := plan.NonBlankString(node[plan.FieldOwner]); !ok {
		node[plan.FieldOwner] = owner
	}

	node[plan.FieldEstimateHours] = repairEstimate(node[plan.FieldEstimateHours])

	node[plan.FieldDependsOn] = plan.StringsToAny(
		normalizeDeps(required, plan.Strings(node[plan.FieldDependsOn])))
}

// repairEstimate returns a positive whole number of hours. Integers pass
// through unchanged, fractional hours round up, anything else becomes 1.
func repairEstimate(v any) any {
	if n, ok := plan.Integer(v); ok {
		if n > 0 {
			return v
		}
		return 1
	}
	f, ok := plan.Number(v)
	if !ok || f <= 0 || math.IsNaN(f) || math.IsInf(f, 0) {
		return 1
	}
	return int(math.Ceil(f))
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
