package expand

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jorge-barreto/planner/internal/lint"
	"github.com/jorge-barreto/planner/internal/plan"
	"github.com/jorge-barreto/planner/internal/templates"
	"github.com/jorge-barreto/planner/internal/testutil"
	"github.com/jorge-barreto/planner/internal/validate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func simpleOpts(mode Mode, roots ...string) Options {
	return Options{
		RootIDs:         roots,
		Template:        "simple",
		Templates:       templates.Defaults(),
		Mode:            mode,
		ReconcileStrict: true,
	}
}

func requireClean(t *testing.T, doc *plan.Document) {
	t.Helper()
	_, errs := validate.Validate(doc)
	require.Empty(t, errs, "validate")
	require.Empty(t, lint.Lint(doc), "lint")
}

func TestExpand_SimpleTemplate(t *testing.T) {
	doc := testutil.NewDoc(testutil.Outcome("OUT-001"))

	res, err := Expand(doc, simpleOpts(ModeAppend, "OUT-001"))
	require.NoError(t, err)

	assert.Equal(t, []string{
		"OUT-001", "DEL-OUT-001-01",
		"TSK-OUT-001-01", "TSK-OUT-001-02", "TSK-OUT-001-03", "TSK-OUT-001-04",
	}, testutil.IDs(res.Document))
	assert.Equal(t, testutil.IDs(res.Document)[1:], res.Created)
	assert.Empty(t, res.Reused)

	del := testutil.NodeByID(res.Document, "DEL-OUT-001-01")
	assert.Equal(t, "deliverable", del[plan.FieldType])
	assert.Equal(t, "Deliver: OUT-001", del[plan.FieldTitle])
	assert.Equal(t, []any{"OUT-001"}, del[plan.FieldDependsOn])
	assert.Equal(t, []any{"Implementation complete", "Reviewed and accepted"}, del[plan.FieldDefinitionOfDone])

	titles := []string{"Design", "Implement", "Test", "Docs"}
	prev := ""
	for i, step := range titles {
		id := fmt.Sprintf("TSK-OUT-001-%02d", i+1)
		task := testutil.NodeByID(res.Document, id)
		require.NotNil(t, task, id)
		assert.Equal(t, step+": OUT-001", task[plan.FieldTitle])
		assert.Equal(t, "task", task[plan.FieldType])
		assert.Equal(t, "auto", task[plan.FieldOwner])
		assert.Equal(t, 1, task[plan.FieldEstimateHours])
		assert.Equal(t, []any{step + " complete"}, task[plan.FieldDefinitionOfDone])
		want := []any{"DEL-OUT-001-01"}
		if prev != "" {
			want = append(want, prev)
		}
		assert.Equal(t, want, task[plan.FieldDependsOn])
		prev = id
	}

	requireClean(t, res.Document)
}

func TestExpand_DoesNotMutateInput(t *testing.T) {
	task := testutil.NewNode("TSK-OUT-001-01", plan.TypeTask, "Design: OUT-001",
		testutil.WithDeps("DEL-OUT-001-01"), testutil.Without(plan.FieldOwner))
	doc := testutil.NewDoc(
		testutil.Outcome("OUT-001"),
		testutil.NewNode("DEL-OUT-001-01", plan.TypeDeliverable, "Deliver: OUT-001", testutil.WithDeps("OUT-001")),
		task,
	)
	before := plan.CloneValue(doc.Nodes)

	_, err := Expand(doc, simpleOpts(ModeReconcile, "OUT-001"))
	require.NoError(t, err)

	assert.Equal(t, before, doc.Nodes)
	_, hasOwner := task[plan.FieldOwner]
	assert.False(t, hasOwner)
}

func TestExpand_MergeIsIdempotent(t *testing.T) {
	doc := testutil.NewDoc(testutil.Outcome("OUT-001"))

	first, err := Expand(doc, simpleOpts(ModeMerge, "OUT-001"))
	require.NoError(t, err)
	second, err := Expand(first.Document, simpleOpts(ModeMerge, "OUT-001"))
	require.NoError(t, err)

	assert.Equal(t, first.Document.Nodes, second.Document.Nodes)
	assert.Empty(t, second.Created)
	assert.Len(t, second.Reused, 5)
	assert.Empty(t, second.Repaired)
}

func TestExpand_MergeDoesNotRepair(t *testing.T) {
	doc := testutil.NewDoc(
		testutil.Outcome("OUT-001"),
		testutil.NewNode("DEL-OUT-001-01", plan.TypeDeliverable, "Deliver: OUT-001", testutil.WithDeps("OUT-001")),
		testutil.NewNode("TSK-OUT-001-01", plan.TypeTask, "Design: OUT-001",
			testutil.WithDeps("DEL-OUT-001-01"), testutil.WithEstimate(0)),
	)

	res, err := Expand(doc, simpleOpts(ModeMerge, "OUT-001"))
	require.NoError(t, err)

	task := testutil.NodeByID(res.Document, "TSK-OUT-001-01")
	assert.Equal(t, 0, task[plan.FieldEstimateHours])
	assert.Equal(t, []string{"TSK-OUT-001-02", "TSK-OUT-001-03", "TSK-OUT-001-04"}, res.Created)
	// The second step chains off the reused task.
	assert.Equal(t, []any{"DEL-OUT-001-01", "TSK-OUT-001-01"},
		testutil.NodeByID(res.Document, "TSK-OUT-001-02")[plan.FieldDependsOn])
}

func TestExpand_MergePicksSmallestID(t *testing.T) {
	doc := testutil.NewDoc(
		testutil.Outcome("OUT-001"),
		testutil.NewNode("DEL-Z", plan.TypeDeliverable, "Deliver: OUT-001", testutil.WithDeps("OUT-001")),
		testutil.NewNode("DEL-A", plan.TypeDeliverable, "Deliver: OUT-001", testutil.WithDeps("OUT-001")),
	)

	res, err := Expand(doc, simpleOpts(ModeMerge, "OUT-001"))
	require.NoError(t, err)

	assert.Equal(t, []string{"DEL-A"}, res.Reused)
	assert.Equal(t, []any{"DEL-A"}, testutil.NodeByID(res.Document, "TSK-OUT-001-01")[plan.FieldDependsOn])
}

func TestExpand_MergeRequiresRootDependency(t *testing.T) {
	doc := testutil.NewDoc(
		testutil.Outcome("OUT-001"),
		testutil.Outcome("OUT-002"),
		testutil.NewNode("DEL-OTHER", plan.TypeDeliverable, "Deliver: OUT-001", testutil.WithDeps("OUT-002")),
	)

	res, err := Expand(doc, simpleOpts(ModeMerge, "OUT-001"))
	require.NoError(t, err)

	assert.Empty(t, res.Reused)
	assert.Contains(t, res.Created, "DEL-OUT-001-01")
}

func TestExpand_AppendTwiceSuffixesIDs(t *testing.T) {
	doc := testutil.NewDoc(testutil.Outcome("OUT-001"))

	first, err := Expand(doc, simpleOpts(ModeAppend, "OUT-001"))
	require.NoError(t, err)
	second, err := Expand(first.Document, simpleOpts(ModeAppend, "OUT-001"))
	require.NoError(t, err)

	assert.Equal(t, []string{
		"DEL-OUT-001-01-A",
		"TSK-OUT-001-01-A", "TSK-OUT-001-02-A", "TSK-OUT-001-03-A", "TSK-OUT-001-04-A",
	}, second.Created)
	assert.Equal(t, []any{"DEL-OUT-001-01-A"},
		testutil.NodeByID(second.Document, "TSK-OUT-001-01-A")[plan.FieldDependsOn])

	requireClean(t, first.Document)
	requireClean(t, second.Document)
}

func TestExpand_ReconcileRepairsIncompleteTask(t *testing.T) {
	doc := testutil.NewDoc(
		testutil.Outcome("OUT-001"),
		testutil.Outcome("OUT-EXTRA"),
		testutil.NewNode("DEL-OUT-001-01", plan.TypeDeliverable, "Deliver: OUT-001",
			testutil.WithDeps("OUT-001"), testutil.WithDoD("Implementation complete")),
		testutil.NewNode("TSK-OUT-001-01", plan.TypeTask, "Design: OUT-001",
			testutil.WithDeps("OUT-EXTRA", "DEL-OUT-001-01"),
			testutil.Without(plan.FieldOwner),
			testutil.WithEstimate(0),
			testutil.WithDoD(),
			testutil.WithField("notes", "keep me")),
	)
	doc.RootIDs = []any{"OUT-001", "OUT-EXTRA"}

	res, err := Expand(doc, simpleOpts(ModeReconcile, "OUT-001"))
	require.NoError(t, err)

	task := testutil.NodeByID(res.Document, "TSK-OUT-001-01")
	assert.Equal(t, "auto", task[plan.FieldOwner])
	assert.Equal(t, 1, task[plan.FieldEstimateHours])
	assert.Equal(t, []any{"Design complete"}, task[plan.FieldDefinitionOfDone])
	assert.Equal(t, []any{"DEL-OUT-001-01", "OUT-EXTRA"}, task[plan.FieldDependsOn])
	assert.Equal(t, "keep me", task["notes"])

	del := testutil.NodeByID(res.Document, "DEL-OUT-001-01")
	assert.Equal(t, []any{"Implementation complete", "Reviewed and accepted"}, del[plan.FieldDefinitionOfDone])

	assert.ElementsMatch(t, []string{"DEL-OUT-001-01", "TSK-OUT-001-01"}, res.Repaired)
	assert.Equal(t, []string{"TSK-OUT-001-02", "TSK-OUT-001-03", "TSK-OUT-001-04"}, res.Created)

	// Repaired nodes keep their positions.
	assert.Equal(t, []string{"OUT-001", "OUT-EXTRA", "DEL-OUT-001-01", "TSK-OUT-001-01"},
		testutil.IDs(res.Document)[:4])
	assert.Equal(t, []any{"OUT-001", "OUT-EXTRA"}, res.Document.RootIDs)

	requireClean(t, res.Document)
}

func TestExpand_ReconcileIsIdempotent(t *testing.T) {
	doc := testutil.NewDoc(
		testutil.Outcome("OUT-001"),
		testutil.NewNode("TSK-OUT-001-02", plan.TypeTask, "Implement: OUT-001",
			testutil.Without(plan.FieldOwner), testutil.WithEstimate(2.5)),
	)

	first, err := Expand(doc, Options{
		RootIDs: []string{"OUT-001"}, Template: "simple", Templates: templates.Defaults(),
		Mode: ModeReconcile, ReconcileStrict: false,
	})
	require.NoError(t, err)
	assert.Equal(t, 3, testutil.NodeByID(first.Document, "TSK-OUT-001-02")[plan.FieldEstimateHours])

	second, err := Expand(first.Document, Options{
		RootIDs: []string{"OUT-001"}, Template: "simple", Templates: templates.Defaults(),
		Mode: ModeReconcile, ReconcileStrict: false,
	})
	require.NoError(t, err)

	assert.Equal(t, first.Document.Nodes, second.Document.Nodes)
	assert.Empty(t, second.Created)
	assert.Empty(t, second.Repaired)
}

func scopeFixture() *plan.Document {
	return testutil.NewDoc(
		testutil.Outcome("OUT-EXP-001"),
		testutil.NewNode("DEL-OUT-EXP-001-01", plan.TypeDeliverable, "Deliver: OUT-EXP-001",
			testutil.WithDeps("OUT-EXP-001"), testutil.WithDoD("Implementation complete", "Reviewed and accepted")),
		testutil.NewNode("DEL-OUT-EXP-001-01-A", plan.TypeDeliverable, "Other deliverable",
			testutil.WithDeps("OUT-EXP-001")),
		testutil.NewNode("TSK-FOREIGN-01", plan.TypeTask, "Design: OUT-EXP-001",
			testutil.WithDeps("DEL-OUT-EXP-001-01-A"), testutil.WithEstimate(1)),
	)
}

func TestExpand_ReconcileStrictLeavesForeignTask(t *testing.T) {
	doc := scopeFixture()

	res, err := Expand(doc, simpleOpts(ModeReconcile, "OUT-EXP-001"))
	require.NoError(t, err)

	foreign := testutil.NodeByID(res.Document, "TSK-FOREIGN-01")
	assert.Equal(t, []any{"DEL-OUT-EXP-001-01-A"}, foreign[plan.FieldDependsOn])
	assert.NotContains(t, res.Reused, "TSK-FOREIGN-01")

	created := testutil.NodeByID(res.Document, "TSK-OUT-EXP-001-01")
	require.NotNil(t, created)
	assert.Equal(t, "Design: OUT-EXP-001", created[plan.FieldTitle])
	assert.Equal(t, "DEL-OUT-EXP-001-01", created[plan.FieldDependsOn].([]any)[0])
}

func TestExpand_ReconcileLooseClaimsForeignTask(t *testing.T) {
	doc := scopeFixture()
	opts := simpleOpts(ModeReconcile, "OUT-EXP-001")
	opts.ReconcileStrict = false

	res, err := Expand(doc, opts)
	require.NoError(t, err)

	var designs []map[string]any
	nodes, _ := res.Document.NodeList()
	for _, raw := range nodes {
		m := raw.(map[string]any)
		if m[plan.FieldTitle] == "Design: OUT-EXP-001" {
			designs = append(designs, m)
		}
	}
	require.Len(t, designs, 1)
	assert.Equal(t, "TSK-FOREIGN-01", designs[0][plan.FieldID])
	assert.Equal(t, []any{"DEL-OUT-EXP-001-01", "DEL-OUT-EXP-001-01-A"}, designs[0][plan.FieldDependsOn])
	assert.Contains(t, res.Repaired, "TSK-FOREIGN-01")
}

func TestExpand_IDExhaustion(t *testing.T) {
	nodes := []map[string]any{
		testutil.Outcome("OUT-001"),
		testutil.NewNode("DEL-OUT-001-01", plan.TypeDeliverable, "x", testutil.WithDeps("OUT-001")),
	}
	for _, ch := range suffixes {
		nodes = append(nodes, testutil.NewNode(fmt.Sprintf("DEL-OUT-001-01-%c", ch), plan.TypeDeliverable, "x",
			testutil.WithDeps("OUT-001")))
	}
	doc := testutil.NewDoc(nodes...)

	res, err := Expand(doc, simpleOpts(ModeAppend, "OUT-001"))
	assert.Nil(t, res)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrIDExhausted))
	assert.Contains(t, err.Error(), "DEL-OUT-001-01")
}

func TestExpand_UnknownTemplate(t *testing.T) {
	doc := testutil.NewDoc(testutil.Outcome("OUT-001"))
	opts := simpleOpts(ModeAppend, "OUT-001")
	opts.Template = "nope"

	_, err := Expand(doc, opts)
	assert.ErrorIs(t, err, ErrUnknownTemplate)
}

func TestExpand_UnknownMode(t *testing.T) {
	doc := testutil.NewDoc(testutil.Outcome("OUT-001"))

	_, err := Expand(doc, simpleOpts(Mode("replace"), "OUT-001"))
	assert.ErrorIs(t, err, ErrUnknownMode)
}

func TestExpand_CustomOwnerAndTemplate(t *testing.T) {
	doc := testutil.NewDoc(testutil.Outcome("OUT-001"))
	set := templates.Merge(templates.Set{"tiny": {"Build"}})

	res, err := Expand(doc, Options{
		RootIDs: []string{"OUT-001"}, Template: "tiny", Templates: set,
		Mode: ModeAppend, Owner: "team-a",
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"DEL-OUT-001-01", "TSK-OUT-001-01"}, res.Created)
	assert.Equal(t, "team-a", testutil.NodeByID(res.Document, "TSK-OUT-001-01")[plan.FieldOwner])
}

func TestExpand_MultipleRootsInOrder(t *testing.T) {
	doc := testutil.NewDoc(testutil.Outcome("OUT-A"), testutil.Outcome("OUT-B"))
	set := templates.Set{"one": {"Do"}}

	res, err := Expand(doc, Options{RootIDs: []string{"OUT-A", "OUT-B"}, Template: "one", Templates: set, Mode: ModeAppend})
	require.NoError(t, err)

	assert.Equal(t, []string{"DEL-OUT-A-01", "TSK-OUT-A-01", "DEL-OUT-B-01", "TSK-OUT-B-01"}, res.Created)
	requireClean(t, res.Document)
}

func TestNormalizeDeps(t *testing.T) {
	got := normalizeDeps([]string{"DEL", "PREV"}, []string{"X", "PREV", "Y", "X"})
	assert.Equal(t, []string{"DEL", "PREV", "X", "Y"}, got)
}

func TestRepairEstimate(t *testing.T) {
	tests := []struct {
		in   any
		want any
	}{
		{nil, 1},
		{0, 1},
		{-3, 1},
		{4, 4},
		{2.0, 2},
		{0.5, 1},
		{2.1, 3},
		{-0.5, 1},
		{"3", 1},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, repairEstimate(tt.in), "repairEstimate(%v)", tt.in)
	}
}

func TestParseMode(t *testing.T) {
	m, err := ParseMode("reconcile")
	require.NoError(t, err)
	assert.Equal(t, ModeReconcile, m)

	_, err = ParseMode("upsert")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "append, merge, reconcile")
}
