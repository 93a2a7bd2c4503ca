package plan

import (
	"sort"
	"strings"
)

// Validation codes.
const (
	CodeRequiredField       = "E_REQUIRED_FIELD"
	CodeInvalidType         = "E_INVALID_TYPE"
	CodeInvalidEnum         = "E_INVALID_ENUM"
	CodeDuplicateID         = "E_DUPLICATE_ID"
	CodeUnknownDependency   = "E_UNKNOWN_DEPENDENCY"
	CodeNoRoots             = "E_NO_ROOTS"
	CodeUnknownRoot         = "E_UNKNOWN_ROOT"
	CodeRootHasDependencies = "E_ROOT_HAS_DEPENDENCIES"
)

// Lint codes.
const (
	CodeLintDuplicateID      = "L_DUPLICATE_ID"
	CodeLintEmptyDoD         = "L_EMPTY_DEFINITION_OF_DONE"
	CodeLintTaskMissingOwner = "L_TASK_MISSING_OWNER"
	CodeLintUnreachableNode  = "L_UNREACHABLE_NODE"
	CodeLintCycleDetected    = "L_CYCLE_DETECTED"
)

// Expansion preflight codes.
const (
	CodeExpandUnknownRoot     = "E_EXPAND_UNKNOWN_ROOT"
	CodeExpandUnsupportedRoot = "E_EXPAND_UNSUPPORTED_ROOT_TYPE"
	CodeExpandNoOutcomeRoots  = "E_EXPAND_NO_OUTCOME_ROOTS"
	CodeExpandUnknownTemplate = "E_EXPAND_UNKNOWN_TEMPLATE"
	CodeExpandUnknownMode     = "E_EXPAND_UNKNOWN_MODE"
)

// Load and template file codes.
const (
	CodeFileNotFound         = "E_FILE_NOT_FOUND"
	CodeFileRead             = "E_FILE_READ"
	CodeUnsupportedFormat    = "E_UNSUPPORTED_FORMAT"
	CodeYAMLParse            = "E_YAML_PARSE"
	CodeJSONParse            = "E_JSON_PARSE"
	CodeInvalidTopLevel      = "E_INVALID_TOP_LEVEL"
	CodeTemplateFileNotFound = "E_TEMPLATE_FILE_NOT_FOUND"
	CodeTemplateFileInvalid  = "E_TEMPLATE_FILE_INVALID"
)

// Error is a structured problem found in a plan. File and Path are optional.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	File    string `json:"file,omitempty"`
	Path    string `json:"path,omitempty"`
}

func (e Error) Error() string {
	return e.Location() + ": " + e.Code + ": " + e.Message
}

// Location renders file and path joined by ':', or "<plan>" when both are
// empty.
func (e Error) Location() string {
	var loc []string
	if e.File != "" {
		loc = append(loc, e.File)
	}
	if e.Path != "" {
		loc = append(loc, e.Path)
	}
	if len(loc) == 0 {
		return "<plan>"
	}
	return strings.Join(loc, ":")
}

// IsLint reports whether the error came from a lint rule.
func (e Error) IsLint() bool {
	return strings.HasPrefix(e.Code, "L_")
}

// SortErrors orders errors by (file, path, code) in place and returns them.
func SortErrors(errs []Error) []Error {
	sort.SliceStable(errs, func(i, j int) bool {
		a, b := errs[i], errs[j]
		if a.File != b.File {
			return a.File < b.File
		}
		if a.Path != b.Path {
			return a.Path < b.Path
		}
		return a.Code < b.Code
	})
	return errs
}
