package ux

import (
	"strings"

	"github.com/jorge-barreto/planner/internal/expand"
	"github.com/jorge-barreto/planner/internal/templates"
)

// RenderExpand prints what an expansion created, reused and repaired.
func RenderExpand(p *Printer, res *expand.Result) {
	p.Heading("Expansion:")
	p.Line("  created:  %d%s", len(res.Created), idList(res.Created))
	p.Line("  reused:   %d%s", len(res.Reused), idList(res.Reused))
	p.Line("  repaired: %d%s", len(res.Repaired), idList(res.Repaired))
}

func idList(ids []string) string {
	if len(ids) == 0 {
		return ""
	}
	return " (" + strings.Join(ids, ", ") + ")"
}

// RenderTemplates lists every template with its steps, in name order.
func RenderTemplates(p *Printer, set templates.Set) {
	p.Line("Templates:")
	for _, name := range set.Names() {
		steps, _ := set.Steps(name)
		p.Line("- %s: %s", name, strings.Join(steps, ", "))
	}
}
