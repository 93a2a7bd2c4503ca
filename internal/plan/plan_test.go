package plan

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestError_String(t *testing.T) {
	assert.Equal(t, "p.yaml:nodes[0].id: E_REQUIRED_FIELD: id is required",
		Error{Code: CodeRequiredField, Message: "id is required", File: "p.yaml", Path: "nodes[0].id"}.Error())
	assert.Equal(t, "root_ids: E_NO_ROOTS: none",
		Error{Code: CodeNoRoots, Message: "none", Path: "root_ids"}.Error())
	assert.Equal(t, "<plan>: E_X: boom", Error{Code: "E_X", Message: "boom"}.Error())
}

func TestError_IsLint(t *testing.T) {
	assert.True(t, Error{Code: CodeLintCycleDetected}.IsLint())
	assert.False(t, Error{Code: CodeDuplicateID}.IsLint())
}

func TestSortErrors(t *testing.T) {
	errs := []Error{
		{Code: "E_B", File: "b.yaml", Path: "nodes[0]"},
		{Code: "E_B", File: "a.yaml", Path: "nodes[1]"},
		{Code: "E_A", File: "a.yaml", Path: "nodes[1]"},
		{Code: "E_C", File: "a.yaml", Path: "nodes[0]"},
	}

	SortErrors(errs)

	assert.Equal(t, []Error{
		{Code: "E_C", File: "a.yaml", Path: "nodes[0]"},
		{Code: "E_A", File: "a.yaml", Path: "nodes[1]"},
		{Code: "E_B", File: "a.yaml", Path: "nodes[1]"},
		{Code: "E_B", File: "b.yaml", Path: "nodes[0]"},
	}, errs)
}

func TestStringList(t *testing.T) {
	got, ok := StringList([]any{"a", "b"})
	assert.True(t, ok)
	assert.Equal(t, []string{"a", "b"}, got)

	got, ok = StringList([]any{})
	assert.True(t, ok)
	assert.Empty(t, got)

	_, ok = StringList([]any{"a", 1})
	assert.False(t, ok)
	_, ok = StringList(nil)
	assert.False(t, ok)
	_, ok = StringList("a")
	assert.False(t, ok)
}

func TestStrings_SkipsNonStrings(t *testing.T) {
	assert.Equal(t, []string{"a", "c"}, Strings([]any{"a", 2, "c"}))
	assert.Nil(t, Strings("a"))
}

func TestCloneNode_IsDeep(t *testing.T) {
	orig := map[string]any{
		FieldID:        "A",
		FieldDependsOn: []any{"B"},
		"meta":         map[string]any{"tags": []any{"x"}},
	}

	clone := CloneNode(orig)
	clone[FieldDependsOn].([]any)[0] = "Z"
	clone["meta"].(map[string]any)["tags"].([]any)[0] = "y"

	assert.Equal(t, []any{"B"}, orig[FieldDependsOn])
	assert.Equal(t, []any{"x"}, orig["meta"].(map[string]any)["tags"])
}

func TestNumberAndInteger(t *testing.T) {
	f, ok := Number(3)
	assert.True(t, ok)
	assert.Equal(t, 3.0, f)
	_, ok = Number("3")
	assert.False(t, ok)

	n, ok := Integer(int64(7))
	assert.True(t, ok)
	assert.Equal(t, 7, n)
	_, ok = Integer(7.0)
	assert.False(t, ok)
}

func TestValidType(t *testing.T) {
	for _, typ := range NodeTypes {
		assert.True(t, ValidType(string(typ)))
	}
	assert.False(t, ValidType("epic"))
	assert.False(t, ValidType("Task"))
}
