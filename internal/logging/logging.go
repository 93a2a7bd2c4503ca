// Package logging builds the zerolog logger used by the planner CLI.
package logging

import (
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog"
)

// DefaultLevel keeps the CLI quiet unless something goes wrong.
const DefaultLevel = "warn"

// EnvVar overrides the configured level when set.
const EnvVar = "PLANNER_LOG_LEVEL"

// Levels lists the accepted level names.
var Levels = []string{"debug", "info", "warn", "error", "disabled"}

// ParseLevel maps a level name to a zerolog level.
func ParseLevel(s string) (zerolog.Level, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for _, l := range Levels {
		if l == name {
			return zerolog.ParseLevel(name)
		}
	}
	return zerolog.NoLevel, fmt.Errorf("unknown log level %q", s)
}

// New returns a console logger writing to w. An unknown level falls back to
// DefaultLevel.
func New(w io.Writer, level string, noColor bool) zerolog.Logger {
	lvl, err := ParseLevel(level)
	if err != nil {
		lvl, _ = ParseLevel(DefaultLevel)
	}
	out := zerolog.ConsoleWriter{
		Out:        w,
		TimeFormat: "15:04:05",
		NoColor:    noColor,
		FormatLevel: func(i interface{}) string {
			tag := levelTag(fmt.Sprintf("%s", i))
			if noColor {
				return tag
			}
			return levelColor(tag) + tag + "\033[0m"
		},
	}
	return zerolog.New(out).Level(lvl).With().Timestamp().Logger()
}

func levelTag(level string) string {
	switch strings.ToUpper(level) {
	case "DEBUG":
		return "[DBG]"
	case "INFO":
		return "[INF]"
	case "WARN":
		return "[WRN]"
	case "ERROR":
		return "[ERR]"
	}
	return "[" + strings.ToUpper(level) + "]"
}

func levelColor(tag string) string {
	switch tag {
	case "[DBG]":
		return "\033[36m"
	case "[INF]":
		return "\033[32m"
	case "[WRN]":
		return "\033[33m"
	case "[ERR]":
		return "\033[31m"
	}
	return ""
}
