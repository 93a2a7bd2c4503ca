package config

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/jorge-barreto/planner/internal/expand"
	"github.com/jorge-barreto/planner/internal/logging"
	"github.com/jorge-barreto/planner/internal/templates"
)

var (
	structValidator *validator.Validate
	validatorOnce   sync.Once
)

// getValidator returns the shared validator. Field names in errors are the
// YAML keys.
func getValidator() *validator.Validate {
	validatorOnce.Do(func() {
		structValidator = validator.New(validator.WithRequiredStructEnabled())
		structValidator.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("yaml"), ",", 2)[0]
			if name == "" || name == "-" {
				return fld.Name
			}
			return name
		})
	})
	return structValidator
}

func applyDefaults(cfg *Config) {
	if cfg.Template == "" {
		cfg.Template = templates.DefaultName
	}
	if cfg.Mode == "" {
		cfg.Mode = string(expand.ModeAppend)
	}
	if cfg.ReconcileStrict == nil {
		strict := true
		cfg.ReconcileStrict = &strict
	}
	if cfg.Owner == "" {
		cfg.Owner = expand.DefaultOwner
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = logging.DefaultLevel
	}
}

// fieldError renders the first struct-tag failure in the config's own terms.
func fieldError(cfg *Config, err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return fmt.Errorf("config: %w", err)
	}
	e := verrs[0]
	switch e.Field() {
	case "mode":
		return fmt.Errorf("config: 'mode' %q is invalid (choose one of: %s)", cfg.Mode, modeChoices())
	case "log-level":
		return fmt.Errorf("config: 'log-level' %q is invalid (choose one of: %s)",
			cfg.LogLevel, strings.Join(logging.Levels, ", "))
	}
	switch e.Tag() {
	case "max":
		return fmt.Errorf("config: '%s' must be at most %s characters", e.Field(), e.Param())
	}
	return fmt.Errorf("config: '%s' is invalid", e.Field())
}

func modeChoices() string {
	names := make([]string, len(expand.Modes))
	for i, m := range expand.Modes {
		names[i] = string(m)
	}
	return strings.Join(names, ", ")
}

// Validate checks the config for errors and sets defaults.
func Validate(cfg *Config, projectRoot string) error {
	cfg.Template = strings.TrimSpace(cfg.Template)
	cfg.Owner = strings.TrimSpace(cfg.Owner)
	cfg.LogLevel = strings.ToLower(strings.TrimSpace(cfg.LogLevel))
	applyDefaults(cfg)

	if err := getValidator().Struct(cfg); err != nil {
		return fieldError(cfg, err)
	}

	set := templates.Defaults()
	if path := cfg.TemplatePath(projectRoot); path != "" {
		if _, err := os.Stat(path); err != nil {
			return fmt.Errorf("config: template file %q not found", path)
		}
		merged, err := templates.LoadAndMerge(path)
		if err != nil {
			return fmt.Errorf("config: 'template-file': %w", err)
		}
		set = merged
	}
	if _, ok := set.Steps(cfg.Template); !ok {
		return fmt.Errorf("config: template %q is not defined (choose one of: %s)",
			cfg.Template, strings.Join(set.Names(), ", "))
	}
	return nil
}
