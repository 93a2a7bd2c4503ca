// Package scaffold creates a starter planner project.
package scaffold

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jorge-barreto/planner/internal/config"
	"github.com/jorge-barreto/planner/internal/fsutil"
	"github.com/jorge-barreto/planner/internal/ux"
)

// ExamplePlan is the plan file written by Init, relative to the target.
const ExamplePlan = "plans/example.yaml"

var configTemplate = `# Defaults for planner commands. Flags override every value.
template: simple
template-file: .planner/templates.yaml
mode: merge
reconcile-strict: true
owner: auto
log-level: warn
`

var templatesTemplate = `# Extra expansion templates, merged over the built-ins.
review:
  - Design
  - Review
  - Ship
`

var planTemplate = `schema_version: "0.1.0"
nodes:
  - id: OUT-001
    type: outcome
    title: Customers can export reports
    definition_of_done:
      - Export is available from the reports page
    depends_on: []
  - id: MS-001
    type: milestone
    title: Export beta
    definition_of_done:
      - Beta customers enabled
    depends_on: [OUT-001]
`

// Init creates .planner/ with a config and template file, plus an example
// plan, under targetDir.
func Init(targetDir string, p *ux.Printer) error {
	plannerDir := filepath.Join(targetDir, config.Dir)
	if _, err := os.Stat(plannerDir); err == nil {
		return fmt.Errorf("%s directory already exists in %s", config.Dir, targetDir)
	}

	files := []struct {
		rel  string
		body string
	}{
		{filepath.Join(config.Dir, config.FileName), configTemplate},
		{filepath.Join(config.Dir, "templates.yaml"), templatesTemplate},
		{filepath.FromSlash(ExamplePlan), planTemplate},
	}
	for _, f := range files {
		path := filepath.Join(targetDir, f.rel)
		if f.rel == filepath.FromSlash(ExamplePlan) {
			if _, err := os.Stat(path); err == nil {
				continue
			}
		}
		if err := fsutil.WriteFileAtomic(path, []byte(f.body), 0644); err != nil {
			return fmt.Errorf("writing %s: %w", f.rel, err)
		}
	}

	p.OK("Initialized %s/ directory", config.Dir)
	p.Line("")
	p.Line("  Created:")
	p.Line("    %s/%s      project defaults", config.Dir, config.FileName)
	p.Line("    %s/templates.yaml   extra expansion templates", config.Dir)
	p.Line("    %s          example plan", ExamplePlan)
	p.Line("")
	p.Line("  Next steps:")
	p.Line("    1. planner validate %s", ExamplePlan)
	p.Line("    2. planner expand %s --out plans/expanded.yaml", ExamplePlan)
	return nil
}
