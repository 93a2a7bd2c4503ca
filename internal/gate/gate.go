// Package gate decides whether a plan is fit to be written.
package gate

import (
	"github.com/jorge-barreto/planner/internal/lint"
	"github.com/jorge-barreto/planner/internal/plan"
	"github.com/jorge-barreto/planner/internal/validate"
)

// Result is the verdict of Check.
type Result struct {
	OK     bool
	Errors []plan.Error
}

// Check validates doc and, when validation passes, lints it. Only the first
// failing stage is reported.
func Check(doc *plan.Document) Result {
	if _, errs := validate.Validate(doc); len(errs) > 0 {
		return Result{Errors: errs}
	}
	if errs := lint.Lint(doc); len(errs) > 0 {
		return Result{Errors: errs}
	}
	return Result{OK: true}
}

// All runs validation and lint together and reports every error, sorted.
func All(doc *plan.Document) Result {
	_, verrs := validate.Validate(doc)
	errs := append(lint.Lint(doc), verrs...)
	if len(errs) > 0 {
		return Result{Errors: plan.SortErrors(errs)}
	}
	return Result{OK: true}
}
