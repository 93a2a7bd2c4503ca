package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	cli "github.com/urfave/cli/v3"

	"github.com/jorge-barreto/planner/internal/config"
	"github.com/jorge-barreto/planner/internal/logging"
	"github.com/jorge-barreto/planner/internal/ux"
)

// Exit codes.
const (
	exitOK      = 0
	exitLoad    = 1
	exitInvalid = 2
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newApp().Run(ctx, os.Args); err != nil {
		var ec cli.ExitCoder
		if errors.As(err, &ec) {
			if msg := ec.Error(); msg != "" {
				fmt.Fprintf(os.Stderr, "%serror:%s %s\n", ux.Red, ux.Reset, msg)
			}
			os.Exit(ec.ExitCode())
		}
		fmt.Fprintf(os.Stderr, "%serror:%s %v\n", ux.Red, ux.Reset, err)
		os.Exit(exitLoad)
	}
}

// app carries state shared by every subcommand of one invocation.
type app struct {
	log zerolog.Logger
}

func newApp() *cli.Command {
	a := &app{log: zerolog.Nop()}
	return &cli.Command{
		Name:        "planner",
		Usage:       "Validate, lint and expand plan graphs",
		Description: "Run 'planner docs' for documentation on the plan schema, lint rules, expansion modes, and more.",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "Log level: debug, info, warn, error, disabled",
				Sources: cli.EnvVars(logging.EnvVar),
			},
			&cli.StringFlag{
				Name:  "project-dir",
				Usage: "Directory to search upward from for .planner/config.yaml (default: working directory)",
			},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			level := logging.DefaultLevel
			if cmd.IsSet("log-level") {
				level = cmd.String("log-level")
				if _, err := logging.ParseLevel(level); err != nil {
					return ctx, cli.Exit(err.Error(), exitInvalid)
				}
			}
			a.log = a.newLogger(cmd, level)
			return ctx, nil
		},
		ExitErrHandler: func(context.Context, *cli.Command, error) {},
		Commands: []*cli.Command{
			validateCmd(a),
			lintCmd(a),
			expandCmd(a),
			templatesCmd(a),
			applyPatchCmd(a),
			initCmd(a),
			docsCmd(),
		},
	}
}

func (a *app) newLogger(cmd *cli.Command, level string) zerolog.Logger {
	w := errWriter(cmd)
	return logging.New(w, level, !ux.ColorEnabled(w))
}

// project loads the project config. Outside a project the defaults are
// returned with an empty root. The config log level applies unless
// --log-level or the environment chose one.
func (a *app) project(cmd *cli.Command) (*config.Config, string, error) {
	start := cmd.Root().String("project-dir")
	if start == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, "", err
		}
		start = wd
	}
	cfg, root, err := config.Discover(start)
	if err != nil {
		return nil, "", cli.Exit(err.Error(), exitLoad)
	}
	if !cmd.Root().IsSet("log-level") {
		a.log = a.newLogger(cmd, cfg.LogLevel)
	}
	if root != "" {
		a.log.Debug().Str("root", root).Msg("loaded project config")
	} else {
		a.log.Debug().Msg("no project config found, using defaults")
	}
	return cfg, root, nil
}

func outWriter(cmd *cli.Command) io.Writer {
	if w := cmd.Root().Writer; w != nil {
		return w
	}
	return os.Stdout
}

func errWriter(cmd *cli.Command) io.Writer {
	if w := cmd.Root().ErrWriter; w != nil {
		return w
	}
	return os.Stderr
}

// exit returns an error that only carries an exit code; the command has
// already printed what went wrong.
func exit(code int) error {
	if code == exitOK {
		return nil
	}
	return cli.Exit("", code)
}

// pathArg returns the single plan path argument.
func pathArg(cmd *cli.Command) (string, error) {
	path := cmd.Args().First()
	if path == "" {
		return "", cli.Exit(fmt.Sprintf("%s: plan path argument is required", cmd.Name), exitInvalid)
	}
	return path, nil
}
