package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"

	cli "github.com/urfave/cli/v3"

	"github.com/jorge-barreto/planner/internal/docs"
	"github.com/jorge-barreto/planner/internal/gate"
	"github.com/jorge-barreto/planner/internal/patch"
	"github.com/jorge-barreto/planner/internal/plan"
	"github.com/jorge-barreto/planner/internal/planio"
	"github.com/jorge-barreto/planner/internal/report"
	"github.com/jorge-barreto/planner/internal/scaffold"
	"github.com/jorge-barreto/planner/internal/ux"
)

func applyPatchCmd(a *app) *cli.Command {
	return &cli.Command{
		Name:      "apply-patch",
		Usage:     "Apply an additive edit plan, gate the result, and write it",
		ArgsUsage: "<path>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "patch", Usage: "Edit plan file (.yaml/.yml/.json, required)"},
			&cli.StringFlag{Name: "out", Usage: "Path to write the patched plan (required)"},
			&cli.StringFlag{Name: "report", Usage: "Write a JSON run report to this path"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			stdout, stderr := outWriter(cmd), errWriter(cmd)

			path, err := pathArg(cmd)
			if err != nil {
				return err
			}
			patchPath, out := cmd.String("patch"), cmd.String("out")
			if patchPath == "" || out == "" {
				return cli.Exit("apply-patch: --patch and --out are required", exitInvalid)
			}
			if _, _, err := a.project(cmd); err != nil {
				return err
			}

			doc, lerr := planio.Load(path)
			if lerr != nil {
				printErrors(stderr, []plan.Error{*lerr})
				return exit(exitLoad)
			}
			edit, err := patch.LoadFile(patchPath)
			if err != nil {
				printErrors(stderr, []plan.Error{{Code: codePatchInvalid, Message: err.Error(), File: patchPath}})
				if errors.Is(err, patch.ErrInvalid) {
					return exit(exitInvalid)
				}
				return exit(exitLoad)
			}
			a.log.Debug().
				Int("add", len(edit.AddNodes)).
				Int("update", len(edit.UpdateNodes)).
				Msg("loaded edit plan")

			res, err := patch.Apply(doc, edit)
			if err != nil {
				return cli.Exit(fmt.Sprintf("apply-patch: %v", err), exitInvalid)
			}

			if verdict := gate.Check(res.Document); !verdict.OK {
				a.log.Warn().Int("errors", len(verdict.Errors)).Msg("patched plan failed gate, nothing written")
				printErrors(stderr, verdict.Errors)
				return exit(exitInvalid)
			}
			if err := ctx.Err(); err != nil {
				return cli.Exit(fmt.Sprintf("apply-patch: %v", err), exitLoad)
			}
			if err := planio.Write(out, res.Document); err != nil {
				printErrors(stderr, []plan.Error{{Code: codeWriteFailed, Message: err.Error(), File: out}})
				return exit(exitLoad)
			}

			p := ux.NewPrinter(stdout)
			p.OK("OK: wrote patched plan to %s", out)
			for _, from := range sortedKeys(res.IDRemap) {
				p.Warn("  renamed %s -> %s", from, res.IDRemap[from])
			}

			if reportPath := cmd.String("report"); reportPath != "" {
				r := report.New("apply-patch")
				r.Input, r.Output = path, out
				r.IDRemap = res.IDRemap
				r.Notes = res.Notes
				nodes, _ := res.Document.NodeList()
				for _, raw := range nodes[len(nodes)-len(edit.AddNodes):] {
					if id, ok := plan.NodeID(raw); ok {
						r.Created = append(r.Created, id)
					}
				}
				if err := r.Save(reportPath); err != nil {
					return cli.Exit(err.Error(), exitLoad)
				}
			}
			return nil
		},
	}
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func initCmd(a *app) *cli.Command {
	return &cli.Command{
		Name:  "init",
		Usage: "Initialize a .planner/ directory with example config and plan",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			dir := cmd.Root().String("project-dir")
			if dir == "" {
				wd, err := os.Getwd()
				if err != nil {
					return err
				}
				dir = wd
			}
			a.log.Debug().Str("dir", dir).Msg("initializing project")
			return scaffold.Init(dir, ux.NewPrinter(outWriter(cmd)))
		},
	}
}

func docsCmd() *cli.Command {
	return &cli.Command{
		Name:      "docs",
		Usage:     "Show documentation",
		ArgsUsage: "[topic]",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			w := outWriter(cmd)
			name := cmd.Args().First()
			if name == "" {
				fmt.Fprint(w, "\nAvailable topics:\n\n")
				for _, t := range docs.All() {
					fmt.Fprintf(w, "  %-14s %s\n", t.Name, t.Summary)
				}
				fmt.Fprintln(w, "\nRun 'planner docs <topic>' to read a topic.")
				return nil
			}
			t, err := docs.Get(name)
			if err != nil {
				return cli.Exit(err.Error(), exitInvalid)
			}
			fmt.Fprint(w, t.Content)
			return nil
		},
	}
}
