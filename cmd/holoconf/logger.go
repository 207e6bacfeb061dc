package main

import (
	"io"
	"log/slog"
	"os"

	"github.com/rfestag/holoconf/log"
)

// setupLogger installs a process-wide slog.Logger built from logCfg,
// writing to stderr.
func setupLogger(logCfg *log.Config) {
	setupLoggerTo(logCfg, os.Stderr)
}

// setupLoggerTo is [setupLogger] with an explicit sink, used by the
// validate command's -q path to route log output through a
// [log.Publisher] instead of directly to stderr (see validate.go).
func setupLoggerTo(logCfg *log.Config, w io.Writer) {
	handler, err := logCfg.NewHandler(w)
	if err != nil {
		slog.SetDefault(slog.New(slog.NewTextHandler(w, nil)))

		return
	}

	slog.SetDefault(slog.New(handler))
}
