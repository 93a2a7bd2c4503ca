package main

import (
	"context"
	"errors"
	"fmt"

	cli "github.com/urfave/cli/v3"

	"github.com/jorge-barreto/planner/internal/config"
	"github.com/jorge-barreto/planner/internal/expand"
	"github.com/jorge-barreto/planner/internal/gate"
	"github.com/jorge-barreto/planner/internal/plan"
	"github.com/jorge-barreto/planner/internal/planio"
	"github.com/jorge-barreto/planner/internal/report"
	"github.com/jorge-barreto/planner/internal/templates"
	"github.com/jorge-barreto/planner/internal/ux"
	"github.com/jorge-barreto/planner/internal/validate"
)

func templateFileFlag() cli.Flag {
	return &cli.StringFlag{Name: "template-file", Usage: "Optional YAML file to add/override templates"}
}

// templateFile picks --template-file, falling back to the project config.
func templateFile(cmd *cli.Command, cfg *config.Config, root string) string {
	if cmd.IsSet("template-file") {
		return cmd.String("template-file")
	}
	return cfg.TemplatePath(root)
}

// loadTemplates returns the built-ins merged with path. The returned error
// carries the exit code to use.
func loadTemplates(path, file string) (templates.Set, *plan.Error, int) {
	set, err := templates.LoadAndMerge(path)
	if err == nil {
		return set, nil, exitOK
	}
	var cfgErr *templates.ConfigError
	switch {
	case templates.IsNotFound(err):
		return nil, &plan.Error{
			Code:    plan.CodeTemplateFileNotFound,
			Message: fmt.Sprintf("template file not found: %s", path),
			File:    file,
			Path:    "template_file",
		}, exitLoad
	case errors.As(err, &cfgErr):
		return nil, &plan.Error{
			Code:    plan.CodeTemplateFileInvalid,
			Message: cfgErr.Msg,
			File:    file,
			Path:    "template_file",
		}, exitInvalid
	}
	return nil, &plan.Error{
		Code:    plan.CodeFileRead,
		Message: err.Error(),
		File:    file,
		Path:    "template_file",
	}, exitLoad
}

func templatesCmd(a *app) *cli.Command {
	return &cli.Command{
		Name:  "templates",
		Usage: "List available expansion templates",
		Flags: []cli.Flag{templateFileFlag()},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, root, err := a.project(cmd)
			if err != nil {
				return err
			}
			set, terr, code := loadTemplates(templateFile(cmd, cfg, root), "")
			if terr != nil {
				printErrors(errWriter(cmd), []plan.Error{*terr})
				return exit(code)
			}
			ux.RenderTemplates(ux.NewPrinter(outWriter(cmd)), set)
			return nil
		},
	}
}

func expandCmd(a *app) *cli.Command {
	return &cli.Command{
		Name:      "expand",
		Usage:     "Expand outcome roots into deliverables and tasks",
		ArgsUsage: "<path>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "out", Usage: "Path to write the expanded plan (required)"},
			&cli.StringFlag{Name: "root", Usage: "Expand only this outcome node id"},
			&cli.StringFlag{Name: "template", Usage: "Expansion template: simple|dev|ops or one from --template-file"},
			templateFileFlag(),
			&cli.StringFlag{Name: "mode", Usage: "Expansion mode: append, merge (idempotent), or reconcile (repair)"},
			&cli.BoolFlag{Name: "reconcile-strict", Usage: "In reconcile mode, only reuse tasks already scoped to the chosen deliverable"},
			&cli.BoolFlag{Name: "reconcile-loose", Usage: "In reconcile mode, also reuse tasks matched by title alone"},
			&cli.StringFlag{Name: "owner", Usage: "Owner for generated tasks"},
			&cli.StringFlag{Name: "report", Usage: "Write a JSON run report to this path"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			stdout, stderr := outWriter(cmd), errWriter(cmd)

			path, err := pathArg(cmd)
			if err != nil {
				return err
			}
			out := cmd.String("out")
			if out == "" {
				return cli.Exit("expand: --out is required", exitInvalid)
			}
			if cmd.Bool("reconcile-strict") && cmd.Bool("reconcile-loose") {
				return cli.Exit("expand: --reconcile-strict and --reconcile-loose are mutually exclusive", exitInvalid)
			}
			cfg, root, err := a.project(cmd)
			if err != nil {
				return err
			}

			doc, lerr := planio.Load(path)
			if lerr != nil {
				printErrors(stderr, []plan.Error{*lerr})
				return exit(exitLoad)
			}
			g, errs := validate.Validate(doc)
			if len(errs) > 0 {
				printErrors(stderr, errs)
				return exit(exitInvalid)
			}
			if _, errs := expand.ResolveRoots(doc, g, cmd.String("root")); len(errs) > 0 {
				printErrors(stderr, errs)
				return exit(exitInvalid)
			}

			set, terr, code := loadTemplates(templateFile(cmd, cfg, root), doc.File)
			if terr != nil {
				printErrors(stderr, []plan.Error{*terr})
				return exit(code)
			}

			req := expand.Request{
				Root:            cmd.String("root"),
				Template:        pick(cmd, "template", cfg.Template),
				Templates:       set,
				Mode:            pick(cmd, "mode", cfg.Mode),
				ReconcileStrict: cfg.Strict(),
				Owner:           pick(cmd, "owner", cfg.Owner),
			}
			switch {
			case cmd.IsSet("reconcile-loose"):
				req.ReconcileStrict = !cmd.Bool("reconcile-loose")
			case cmd.IsSet("reconcile-strict"):
				req.ReconcileStrict = cmd.Bool("reconcile-strict")
			}

			opts, errs := expand.Preflight(doc, g, req)
			if len(errs) > 0 {
				printErrors(stderr, errs)
				return exit(exitInvalid)
			}
			a.log.Debug().
				Strs("roots", opts.RootIDs).
				Str("template", opts.Template).
				Str("mode", string(opts.Mode)).
				Bool("strict", opts.ReconcileStrict).
				Msg("expanding plan")

			res, err := expand.Expand(doc, opts)
			if err != nil {
				return cli.Exit(err.Error(), exitInvalid)
			}

			if verdict := gate.All(res.Document); !verdict.OK {
				a.log.Warn().Int("errors", len(verdict.Errors)).Msg("expanded plan failed gate, nothing written")
				printErrors(stderr, verdict.Errors)
				return exit(exitInvalid)
			}
			if err := ctx.Err(); err != nil {
				return cli.Exit(fmt.Sprintf("expand: %v", err), exitLoad)
			}
			if err := planio.Write(out, res.Document); err != nil {
				printErrors(stderr, []plan.Error{{Code: codeWriteFailed, Message: err.Error(), File: out}})
				return exit(exitLoad)
			}

			p := ux.NewPrinter(stdout)
			p.OK("OK: wrote expanded plan to %s", out)
			ux.RenderExpand(p, res)
			a.log.Info().
				Int("created", len(res.Created)).
				Int("reused", len(res.Reused)).
				Int("repaired", len(res.Repaired)).
				Msg("expansion written")

			if reportPath := cmd.String("report"); reportPath != "" {
				r := report.New("expand")
				r.Input, r.Output = path, out
				r.Template, r.Mode = opts.Template, string(opts.Mode)
				r.SetStrict(opts.ReconcileStrict)
				r.Roots = opts.RootIDs
				r.Created = append(r.Created, res.Created...)
				r.Reused = append(r.Reused, res.Reused...)
				r.Repaired = append(r.Repaired, res.Repaired...)
				if err := r.Save(reportPath); err != nil {
					return cli.Exit(err.Error(), exitLoad)
				}
			}
			return nil
		},
	}
}

// pick returns the flag value when set, otherwise fallback.
func pick(cmd *cli.Command, flag, fallback string) string {
	if cmd.IsSet(flag) {
		return cmd.String(flag)
	}
	return fallback
}
