package patch

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/jorge-barreto/planner/internal/plan"
	"github.com/jorge-barreto/planner/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	ep, err := Parse(map[string]any{
		"add_nodes": []any{
			map[string]any{"node": map[string]any{"id": "TSK-9"}},
		},
		"update_nodes": []any{
			map[string]any{"id": "TSK-1", "fields": map[string]any{"owner": "bob"}},
		},
		"notes": []any{"split design step"},
	})
	require.NoError(t, err)

	require.Len(t, ep.AddNodes, 1)
	assert.Equal(t, "TSK-9", ep.AddNodes[0].Node["id"])
	require.Len(t, ep.UpdateNodes, 1)
	assert.Equal(t, "TSK-1", ep.UpdateNodes[0].ID)
	assert.Equal(t, []string{"split design step"}, ep.Notes)
}

func TestParse_EmptyObject(t *testing.T) {
	ep, err := Parse(map[string]any{})
	require.NoError(t, err)
	assert.Empty(t, ep.AddNodes)
	assert.Empty(t, ep.UpdateNodes)
	assert.Empty(t, ep.Notes)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		raw  any
		msg  string
	}{
		{"not object", []any{}, "must be an object"},
		{"add_nodes scalar", map[string]any{"add_nodes": "x"}, "add_nodes must be a list"},
		{"add without node", map[string]any{"add_nodes": []any{map[string]any{"id": "A"}}}, "add_nodes[0]"},
		{"update_nodes map", map[string]any{"update_nodes": map[string]any{}}, "update_nodes must be a list"},
		{"update without id", map[string]any{"update_nodes": []any{map[string]any{"fields": map[string]any{}}}}, "update_nodes[0].id"},
		{"update without fields", map[string]any{"update_nodes": []any{map[string]any{"id": "A"}}}, "update_nodes[0].fields"},
		{"notes not strings", map[string]any{"notes": []any{1}}, "notes must be a list of strings"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.raw)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalid))
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "edit.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"add_nodes":[{"node":{"id":"A","estimate_hours":2}}]}`), 0644))

	ep, err := LoadFile(path)
	require.NoError(t, err)
	require.Len(t, ep.AddNodes, 1)
	assert.Equal(t, 2, ep.AddNodes[0].Node["estimate_hours"])

	_, err = LoadFile(filepath.Join(t.TempDir(), "edit.txt"))
	require.Error(t, err)
}

func baseDoc() *plan.Document {
	return testutil.NewDoc(
		testutil.Outcome("OUT-1"),
		testutil.NewNode("TSK-1", plan.TypeTask, "Build", testutil.WithDeps("OUT-1"),
			testutil.Without(plan.FieldOwner), testutil.WithDoD()),
	)
}

func TestApply_AddsNodesAndRemapsCollisions(t *testing.T) {
	doc := baseDoc()
	edit := &EditPlan{
		AddNodes: []AddNode{
			{Node: map[string]any{"id": "TSK-1", "type": "task", "title": "Review", "depends_on": []any{"OUT-1"}}},
			{Node: map[string]any{"id": "TSK-2", "type": "task", "title": "Ship", "depends_on": []any{"TSK-1"}}},
		},
		Notes: []string{"n"},
	}

	res, err := Apply(doc, edit)
	require.NoError(t, err)

	assert.Equal(t, map[string]string{"TSK-1": "TSK-1-A"}, res.IDRemap)
	assert.Equal(t, []string{"OUT-1", "TSK-1", "TSK-1-A", "TSK-2"}, testutil.IDs(res.Document))
	assert.Equal(t, []any{"TSK-1-A"}, testutil.NodeByID(res.Document, "TSK-2")[plan.FieldDependsOn])
	assert.Equal(t, []string{"n"}, res.Notes)

	// The proposal is not modified.
	assert.Equal(t, "TSK-1", edit.AddNodes[0].Node["id"])
}

func TestApply_UpdatesFillOnly(t *testing.T) {
	doc := baseDoc()
	edit := &EditPlan{UpdateNodes: []UpdateNode{{
		ID: "TSK-1",
		Fields: map[string]any{
			plan.FieldOwner:            "bob",
			plan.FieldTitle:            "Renamed",
			plan.FieldDefinitionOfDone: []any{"Built"},
			plan.FieldDependsOn:        []any{"OUT-1", "TSK-0"},
			"estimate_hours":           nil,
		},
	}}}

	res, err := Apply(doc, edit)
	require.NoError(t, err)

	task := testutil.NodeByID(res.Document, "TSK-1")
	assert.Equal(t, "bob", task[plan.FieldOwner])
	assert.Equal(t, "Build", task[plan.FieldTitle])
	assert.Equal(t, []any{"Built"}, task[plan.FieldDefinitionOfDone])
	assert.Equal(t, []any{"OUT-1", "TSK-0"}, task[plan.FieldDependsOn])
	_, has := task["estimate_hours"]
	assert.False(t, has)

	orig := testutil.NodeByID(doc, "TSK-1")
	_, has = orig[plan.FieldOwner]
	assert.False(t, has)
	assert.Equal(t, []any{"OUT-1"}, orig[plan.FieldDependsOn])
}

func TestApply_UpdatesFollowRemap(t *testing.T) {
	doc := baseDoc()
	edit := &EditPlan{
		AddNodes: []AddNode{{Node: map[string]any{"id": "OUT-1", "type": "task", "title": "Dup"}}},
		UpdateNodes: []UpdateNode{
			{ID: "TSK-1", Fields: map[string]any{plan.FieldDependsOn: []any{"OUT-1"}}},
			{ID: "OUT-1", Fields: map[string]any{plan.FieldOwner: "carol"}},
			{ID: "GHOST", Fields: map[string]any{plan.FieldOwner: "dave"}},
		},
	}

	res, err := Apply(doc, edit)
	require.NoError(t, err)

	assert.Equal(t, []any{"OUT-1", "OUT-1-A"}, testutil.NodeByID(res.Document, "TSK-1")[plan.FieldDependsOn])
	assert.Equal(t, "carol", testutil.NodeByID(res.Document, "OUT-1-A")[plan.FieldOwner])
	assert.Nil(t, testutil.NodeByID(res.Document, "GHOST"))
}

func TestApply_RejectsBlankAddID(t *testing.T) {
	_, err := Apply(baseDoc(), &EditPlan{AddNodes: []AddNode{{Node: map[string]any{"id": " "}}}})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalid))
}

func TestAllocateID_TwoLetterFallback(t *testing.T) {
	taken := map[string]bool{"X": true}
	for c := 'A'; c <= 'Z'; c++ {
		taken[fmt.Sprintf("X-%c", c)] = true
	}

	id, err := allocateID("X", taken)
	require.NoError(t, err)
	assert.Equal(t, "X-AA", id)

	id, err = allocateID("X", taken)
	require.NoError(t, err)
	assert.Equal(t, "X-AB", id)
}

func TestAllocateID_Exhausted(t *testing.T) {
	taken := map[string]bool{"X": true}
	suffixes(func(s string) bool {
		taken["X-"+s] = true
		return true
	})

	_, err := allocateID("X", taken)
	assert.ErrorIs(t, err, ErrIDExhausted)
}
