package docs

var topics = []Topic{
	{
		Name:    "quickstart",
		Title:   "Quick Start",
		Summary: "Getting started with planner",
		Content: topicQuickstart,
	},
	{
		Name:    "schema",
		Title:   "Plan Schema",
		Summary: "Plan file layout, node fields, and roots",
		Content: topicSchema,
	},
	{
		Name:    "errors",
		Title:   "Validation Errors",
		Summary: "Every E_ code the validator and loader can report",
		Content: topicErrors,
	},
	{
		Name:    "lint",
		Title:   "Lint Rules",
		Summary: "Quality rules beyond schema validation",
		Content: topicLint,
	},
	{
		Name:    "expand",
		Title:   "Expansion",
		Summary: "Deliverable and task generation, modes, and id allocation",
		Content: topicExpand,
	},
	{
		Name:    "templates",
		Title:   "Templates",
		Summary: "Built-in step lists and template override files",
		Content: topicTemplates,
	},
	{
		Name:    "patch",
		Title:   "Edit Plans",
		Summary: "Applying additive edit plans with apply-patch",
		Content: topicPatch,
	},
	{
		Name:    "config",
		Title:   "Configuration Reference",
		Summary: "Project config file, fields, and defaults",
		Content: topicConfig,
	},
}

const topicQuickstart = `Quick Start
===========

1. Initialize a project:

    cd your-project
    planner init

   This creates .planner/config.yaml and plans/example.yaml.

2. Check the example plan:

    planner validate plans/example.yaml
    planner lint plans/example.yaml

3. Expand every outcome root into a deliverable and a task chain:

    planner expand plans/example.yaml --out plans/expanded.yaml

4. Re-run with --mode merge or --mode reconcile to keep the output stable
   as the plan evolves. See 'planner docs expand'.

Exit codes: 0 success, 1 the file could not be loaded or written, 2 the
plan failed validation or lint, or a flag value was rejected.
`

const topicSchema = `Plan Schema
===========

A plan is a YAML (.yaml, .yml) or JSON (.json) mapping:

    schema_version: "0.1.0"
    nodes:
      - id: OUT-001
        type: outcome
        title: Customers can export reports
        definition_of_done: ["Export available in the UI"]
        depends_on: []
    root_ids: [OUT-001]        # optional

Node fields:

  id                  required, non-empty string, unique
  type                required: outcome, deliverable, milestone, task, check
  title               required, non-empty string
  definition_of_done  required list of strings (may be empty)
  depends_on          required list of node ids (may be empty)
  owner               optional string
  estimate_hours      optional number
  priority            optional integer

Unknown node fields are kept when a plan is rewritten. Unknown top-level
keys are dropped.

Roots: when root_ids is present every entry must name a node with no
dependencies. Otherwise every node with depends_on: [] is a root. A plan
must have at least one root.

Cycles below a root are legal for validation; lint reports them.
`

const topicErrors = `Validation Errors
=================

Errors print as:

    <file>:<path>: <CODE>: <message>

and are sorted by file, then path, then code.

Loading:

  E_FILE_NOT_FOUND         the plan file does not exist
  E_FILE_READ              the file could not be read
  E_UNSUPPORTED_FORMAT     extension is not .yaml, .yml or .json
  E_YAML_PARSE             YAML syntax error
  E_JSON_PARSE             JSON syntax error
  E_INVALID_TOP_LEVEL      the document is not a mapping

Validation:

  E_REQUIRED_FIELD         schema_version, nodes, id or title missing/blank
  E_INVALID_TYPE           a field has the wrong type
  E_INVALID_ENUM           type is not one of the five node types
  E_DUPLICATE_ID           an id was already used by an earlier node
  E_UNKNOWN_DEPENDENCY     depends_on names a node that does not exist
  E_NO_ROOTS               no root could be determined
  E_UNKNOWN_ROOT           root_ids names a node that does not exist
  E_ROOT_HAS_DEPENDENCIES  a declared root has dependencies

Expansion (checked before anything is generated):

  E_EXPAND_UNKNOWN_ROOT           --root names a node that does not exist
  E_EXPAND_UNSUPPORTED_ROOT_TYPE  --root is not an outcome
  E_EXPAND_NO_OUTCOME_ROOTS       no root is an outcome
  E_EXPAND_UNKNOWN_TEMPLATE       --template is not defined
  E_EXPAND_UNKNOWN_MODE           --mode is not append, merge or reconcile
  E_TEMPLATE_FILE_NOT_FOUND       --template-file does not exist
  E_TEMPLATE_FILE_INVALID         --template-file is malformed
`

const topicLint = `Lint Rules
==========

planner lint runs these rules and also reports validation errors. Lint
works on plans that fail validation and skips rules it cannot evaluate.

  L_DUPLICATE_ID              every repeat of an id after the first
  L_EMPTY_DEFINITION_OF_DONE  task or check with definition_of_done: []
  L_TASK_MISSING_OWNER        task without a non-blank owner
  L_UNREACHABLE_NODE          node not reachable from any root by following
                              dependents; skipped when there are no roots
  L_CYCLE_DETECTED            dependency cycle, printed as A -> B -> A and
                              reported once per cycle

Text output starts with the rule set version line "SDF v0".
`

const topicExpand = `Expansion
=========

    planner expand plan.yaml --out expanded.yaml [--root OUT-001]
        [--template simple] [--mode append|merge|reconcile]
        [--reconcile-strict | --reconcile-loose] [--report run.json]

For each outcome root the expander adds:

  DEL-<root>-01      "Deliver: <root>", depends on the root
  TSK-<root>-NN      "<Step>: <root>" for each template step, depending on
                     the deliverable and the previous task

Without --root every outcome root is expanded in id order.

Ids: when a base id is taken the first free of <id>-A .. <id>-Z is used.
If all 26 are taken expansion fails and nothing is written.

Modes:

  append     always create new nodes; running twice adds a second chain
  merge      reuse a deliverable titled "Deliver: <root>" that depends on
             the root, and tasks titled "<Step>: <root>" that depend on the
             deliverable; running twice changes nothing
  reconcile  like merge, but matches deliverables by title alone and
             repairs what it reuses:
               - deliverable definition_of_done filled to two entries
               - task definition_of_done set to "<Step> complete" if empty
               - task owner set to "auto" if missing
               - task estimate_hours set to 1 if missing or not positive
               - depends_on gets the deliverable and previous task first,
                 keeping any other dependencies after them

--reconcile-strict (default) only reuses a task that already depends on
the chosen deliverable. --reconcile-loose falls back to title matching and
may claim an unrelated task with the same title.

The result is validated and linted before it is written.
`

const topicTemplates = `Templates
=========

Built-in templates:

  simple  Design, Implement, Test, Docs
  dev     Design, Implement, Test, Docs, Review, Release
  ops     Monitoring, SLOs, Runbooks, Playbooks, Reliability

A template file adds or replaces templates:

    review:
      - Design
      - Review
    simple: [Build, Ship]

Every name must be a non-empty string and every value a non-empty list of
non-empty strings. List the merged set with:

    planner templates --template-file templates.yaml
`

const topicPatch = `Edit Plans
==========

    planner apply-patch plan.yaml --patch edit.yaml --out patched.yaml

An edit plan is additive:

    add_nodes:
      - node: {id: TSK-9, type: task, title: Review, ...}
    update_nodes:
      - id: TSK-1
        fields: {owner: alice}
    notes: ["why the change was proposed"]

Added nodes whose id is taken are renamed <id>-A .. <id>-Z, then
<id>-AA .. <id>-ZZ. References to renamed ids in added nodes and update
values are rewritten.

Updates never overwrite: a field is set only when missing or empty, and
list values are merged into existing lists. Updates to unknown ids are
ignored.

The patched plan is validated and linted before it is written.
`

const topicConfig = `Configuration Reference
=======================

planner looks for .planner/config.yaml in the current directory and its
parents. Flags override every setting.

    template: simple            # default template name
    template-file: templates.yaml   # relative to the project root
    mode: append                # append | merge | reconcile
    reconcile-strict: true
    owner: auto                 # owner for generated tasks
    log-level: warn             # debug | info | warn | error | disabled

PLANNER_LOG_LEVEL overrides log-level. Logs go to stderr.
`
