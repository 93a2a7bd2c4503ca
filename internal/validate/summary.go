package validate

import (
	"fmt"
	"strings"

	"github.com/jorge-barreto/planner/internal/plan"
)

// TypeCounts returns the number of nodes per type. Types with no nodes are
// omitted.
func TypeCounts(g *plan.Graph) map[string]int {
	counts := make(map[string]int)
	for _, n := range g.Nodes {
		counts[string(n.Type)]++
	}
	return counts
}

// Summarize renders the one-screen summary printed after a clean validation.
func Summarize(g *plan.Graph) string {
	counts := TypeCounts(g)
	parts := make([]string, len(plan.NodeTypes))
	for i, t := range plan.NodeTypes {
		parts[i] = fmt.Sprintf("%s=%d", t, counts[string(t)])
	}
	return fmt.Sprintf("OK: %d nodes (%s)\nRoots: %s",
		len(g.Nodes), strings.Join(parts, ", "), strings.Join(g.Roots, ", "))
}
