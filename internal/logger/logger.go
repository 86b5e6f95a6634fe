// Package logger configures zerolog from command line options.
package logger

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Logger is a go-flags option group.
type Logger struct {
	Level  string `long:"log-level"  env:"LOG_LEVEL"  description:"Log level" choice:"trace" choice:"debug" choice:"info" choice:"warn" choice:"error" choice:"disabled" default:"info"`
	Format string `long:"log-format" env:"LOG_FORMAT" description:"Log output format" choice:"console" choice:"json" default:"console"`
	File   string `long:"log-file"   env:"LOG_FILE"   description:"Write logs to this file instead of stderr"`
}

// New builds a logger writing to w.
func (l Logger) New(w io.Writer) (zerolog.Logger, error) {
	level := zerolog.InfoLevel
	if l.Level != "" {
		lvl, err := zerolog.ParseLevel(l.Level)
		if err != nil {
			return zerolog.Nop(), fmt.Errorf("log level: %w", err)
		}
		level = lvl
	}
	if l.Format != "json" {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.DateTime, NoColor: w != os.Stderr}
	}
	return zerolog.New(w).Level(level).With().Timestamp().Logger(), nil
}

// Setup points the global logger at the configured output. With interactive
// set and no log file, logging is discarded so it cannot draw over a full
// screen program. The returned func closes the log file, if any.
func (l Logger) Setup(interactive bool) (func() error, error) {
	var (
		out     io.Writer = os.Stderr
		closeFn           = func() error { return nil }
	)
	switch {
	case l.File != "":
		f, err := os.OpenFile(l.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return closeFn, fmt.Errorf("open log file: %w", err)
		}
		out, closeFn = f, f.Close
	case interactive:
		log.Logger = zerolog.Nop()
		return closeFn, nil
	}

	lg, err := l.New(out)
	if err != nil {
		_ = closeFn()
		return func() error { return nil }, err
	}
	log.Logger = lg
	zerolog.DefaultContextLogger = &log.Logger
	return closeFn, nil
}
