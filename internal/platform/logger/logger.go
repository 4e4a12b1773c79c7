package logger

import (
	"os"
	"strings"

	"github.com/rs/zerolog"
)

type Options struct {
	Level  string // debug|info|warn|error (default info)
	Format string // text|json (default text)
	App    string
}

// New construye el logger del proceso sobre zerolog.
func New(opts Options) zerolog.Logger {
	level := parseLevel(opts.Level)

	var out = zerolog.New(os.Stdout)
	if strings.ToLower(strings.TrimSpace(opts.Format)) != "json" {
		out = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: "15:04:05"})
	}

	ctx := out.Level(level).With().Timestamp()
	if app := strings.TrimSpace(opts.App); app != "" {
		ctx = ctx.Str("app", app)
	}
	return ctx.Logger()
}

func parseLevel(s string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}
