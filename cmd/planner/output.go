package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/jorge-barreto/planner/internal/plan"
	"github.com/jorge-barreto/planner/internal/ux"
)

// Codes reported by the CLI itself rather than the engine.
const (
	codeValidateUnknownFormat = "E_VALIDATE_UNKNOWN_FORMAT"
	codeLintUnknownFormat     = "E_LINT_UNKNOWN_FORMAT"
	codePatchInvalid          = "E_PATCH_INVALID"
	codeWriteFailed           = "E_WRITE_FAILED"
)

const sdfVersion = "v0"

type format string

const (
	formatText format = "text"
	formatJSON format = "json"
)

// parseFormat checks a --format value. code names the command-specific
// error code.
func parseFormat(s, code string) (format, *plan.Error) {
	switch format(s) {
	case formatText, formatJSON:
		return format(s), nil
	}
	return "", &plan.Error{
		Code:    code,
		Message: fmt.Sprintf("unknown format: %s (choose one of: %s, %s)", s, formatText, formatJSON),
		Path:    "format",
	}
}

// printErrors writes errs sorted, one per line.
func printErrors(w io.Writer, errs []plan.Error) {
	sorted := append([]plan.Error(nil), errs...)
	ux.NewPrinter(w).Errors(plan.SortErrors(sorted))
}

// writeJSON writes v as two-space indented JSON. Map keys come out sorted.
func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// errorItem renders e for JSON output. source is fixed when non-empty,
// otherwise derived from the code prefix.
func errorItem(e plan.Error, source string) map[string]any {
	if source == "" {
		switch {
		case strings.HasPrefix(e.Code, "L_"):
			source = "lint"
		case strings.HasPrefix(e.Code, "E_"):
			source = "validate"
		default:
			source = "unknown"
		}
	}
	return map[string]any{
		"code":     e.Code,
		"message":  e.Message,
		"file":     nullable(e.File),
		"path":     nullable(e.Path),
		"severity": "error",
		"source":   source,
	}
}

func errorItems(errs []plan.Error, source string) []map[string]any {
	items := make([]map[string]any, len(errs))
	for i, e := range errs {
		items[i] = errorItem(e, source)
	}
	return items
}
