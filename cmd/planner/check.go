package main

import (
	"context"

	cli "github.com/urfave/cli/v3"

	"github.com/jorge-barreto/planner/internal/lint"
	"github.com/jorge-barreto/planner/internal/plan"
	"github.com/jorge-barreto/planner/internal/planio"
	"github.com/jorge-barreto/planner/internal/validate"
)

func formatFlag() cli.Flag {
	return &cli.StringFlag{Name: "format", Value: string(formatText), Usage: "Output format: text|json"}
}

func validateCmd(a *app) *cli.Command {
	return &cli.Command{
		Name:      "validate",
		Usage:     "Validate a plan file against schema v0",
		ArgsUsage: "<path>",
		Flags:     []cli.Flag{formatFlag()},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			stdout, stderr := outWriter(cmd), errWriter(cmd)

			f, ferr := parseFormat(cmd.String("format"), codeValidateUnknownFormat)
			if ferr != nil {
				printErrors(stderr, []plan.Error{*ferr})
				return exit(exitInvalid)
			}
			path, err := pathArg(cmd)
			if err != nil {
				return err
			}

			emit := func(ok bool, code int, schemaVersion any, errs []plan.Error, source string, summary any) error {
				payload := map[string]any{
					"tool":           "planner",
					"command":        "validate",
					"schema_version": schemaVersion,
					"ok":             ok,
					"error_count":    len(errs),
					"errors":         errorItems(errs, source),
					"summary":        summary,
				}
				if err := writeJSON(stdout, payload); err != nil {
					return err
				}
				return exit(code)
			}

			doc, lerr := planio.Load(path)
			if lerr != nil {
				a.log.Debug().Str("code", lerr.Code).Msg("plan load failed")
				if f == formatJSON {
					return emit(false, exitLoad, nil, []plan.Error{*lerr}, "load", nil)
				}
				printErrors(stderr, []plan.Error{*lerr})
				return exit(exitLoad)
			}

			g, errs := validate.Validate(doc)
			a.log.Debug().Int("errors", len(errs)).Msg("validated plan")
			if len(errs) > 0 {
				if f == formatJSON {
					var sv any
					if s, ok := doc.SchemaVersion.(string); ok {
						sv = s
					}
					return emit(false, exitInvalid, sv, errs, "validate", nil)
				}
				printErrors(stderr, errs)
				return exit(exitInvalid)
			}

			if f == formatText {
				_, err := stdout.Write([]byte(validate.Summarize(g) + "\n"))
				return err
			}
			roots := append([]string{}, g.Roots...)
			return emit(true, exitOK, g.SchemaVersion, nil, "", map[string]any{
				"node_count":  len(g.Nodes),
				"type_counts": validate.TypeCounts(g),
				"roots":       roots,
			})
		},
	}
}

func lintCmd(a *app) *cli.Command {
	return &cli.Command{
		Name:      "lint",
		Usage:     "Lint a plan file (rules beyond schema validation)",
		ArgsUsage: "<path>",
		Flags:     []cli.Flag{formatFlag()},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			stdout, stderr := outWriter(cmd), errWriter(cmd)

			f, ferr := parseFormat(cmd.String("format"), codeLintUnknownFormat)
			if ferr != nil {
				printErrors(stderr, []plan.Error{*ferr})
				return exit(exitInvalid)
			}
			path, err := pathArg(cmd)
			if err != nil {
				return err
			}

			emit := func(ok bool, code int, errs []plan.Error) error {
				payload := map[string]any{
					"tool":        "planner",
					"command":     "lint",
					"sdf_version": sdfVersion,
					"ok":          ok,
					"error_count": len(errs),
					"errors":      errorItems(errs, ""),
				}
				if err := writeJSON(stdout, payload); err != nil {
					return err
				}
				return exit(code)
			}

			doc, lerr := planio.Load(path)
			if lerr != nil {
				if f == formatJSON {
					return emit(false, exitLoad, []plan.Error{*lerr})
				}
				printErrors(stderr, []plan.Error{*lerr})
				return exit(exitLoad)
			}

			errs := lint.Lint(doc)
			_, verrs := validate.Validate(doc)
			a.log.Debug().Int("lint", len(errs)).Int("validate", len(verrs)).Msg("linted plan")
			errs = plan.SortErrors(append(errs, verrs...))

			if f == formatJSON {
				if len(errs) > 0 {
					return emit(false, exitInvalid, errs)
				}
				return emit(true, exitOK, nil)
			}
			if _, err := stdout.Write([]byte("SDF " + sdfVersion + "\n")); err != nil {
				return err
			}
			if len(errs) > 0 {
				printErrors(stderr, errs)
				return exit(exitInvalid)
			}
			_, err = stdout.Write([]byte("OK: lint passed\n"))
			return err
		},
	}
}
