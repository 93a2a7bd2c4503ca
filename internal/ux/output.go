package ux

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"

	"github.com/jorge-barreto/planner/internal/plan"
)

// ANSI color helpers
const (
	Reset  = "\033[0m"
	Bold   = "\033[1m"
	Dim    = "\033[2m"
	Red    = "\033[31m"
	Green  = "\033[32m"
	Yellow = "\033[33m"
	Cyan   = "\033[36m"
)

// IsTerminal reports whether w is an interactive terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// ColorEnabled reports whether ANSI colour should be written to w.
// NO_COLOR disables it everywhere.
func ColorEnabled(w io.Writer) bool {
	if _, set := os.LookupEnv("NO_COLOR"); set {
		return false
	}
	return IsTerminal(w)
}

// Printer writes human-facing output, coloured only on terminals.
type Printer struct {
	w     io.Writer
	color bool
}

// NewPrinter returns a Printer for w.
func NewPrinter(w io.Writer) *Printer {
	return &Printer{w: w, color: ColorEnabled(w)}
}

func (p *Printer) paint(code, s string) string {
	if !p.color {
		return s
	}
	return code + s + Reset
}

// Line prints s as-is.
func (p *Printer) Line(format string, args ...any) {
	fmt.Fprintf(p.w, format+"\n", args...)
}

// OK prints a success line.
func (p *Printer) OK(format string, args ...any) {
	fmt.Fprintln(p.w, p.paint(Green, fmt.Sprintf(format, args...)))
}

// Warn prints a warning line.
func (p *Printer) Warn(format string, args ...any) {
	fmt.Fprintln(p.w, p.paint(Yellow, fmt.Sprintf(format, args...)))
}

// Heading prints a bold line.
func (p *Printer) Heading(format string, args ...any) {
	fmt.Fprintln(p.w, p.paint(Bold, fmt.Sprintf(format, args...)))
}

// Errors prints one line per error in the order given, location dimmed.
func (p *Printer) Errors(errs []plan.Error) {
	for _, e := range errs {
		fmt.Fprintf(p.w, "%s: %s: %s\n", p.paint(Dim, e.Location()), p.paint(Red, e.Code), e.Message)
	}
}
