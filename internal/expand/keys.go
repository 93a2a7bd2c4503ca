package expand

import "github.com/jorge-barreto/planner/internal/plan"

func deliverableTitle(root string) string {
	return "Deliver: " + root
}

func taskTitle(step, root string) string {
	return step + ": " + root
}

// key is the structural identity of a generated node: the title it carries
// and the dependency that ties it to its parent in the chain.
type key struct {
	title    string
	requires string
}

// deliverableKey identifies the deliverable for an outcome root.
func deliverableKey(root string) key {
	return key{title: deliverableTitle(root), requires: root}
}

// taskKey identifies one step of the chain under a specific deliverable.
func taskKey(step, root, deliverableID string) key {
	return key{title: taskTitle(step, root), requires: deliverableID}
}

// titleMatches compares only the title.
func (k key) titleMatches(node map[string]any) bool {
	title, _ := node[plan.FieldTitle].(string)
	return title == k.title
}

// matches compares the title and requires the parent dependency.
func (k key) matches(node map[string]any) bool {
	if !k.titleMatches(node) {
		return false
	}
	for _, dep := range plan.Strings(node[plan.FieldDependsOn]) {
		if dep == k.requires {
			return true
		}
	}
	return false
}
