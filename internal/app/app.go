// Package app wires the sequencer together: it owns the configured logger,
// loads the sequence model, and drives planning, execution and reporting.
package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/vk/seqrungo/internal/ctxlog"
	"github.com/vk/seqrungo/internal/model"
	"github.com/vk/seqrungo/internal/tool"
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	SequencePath  string
	Tool          string
	StopOnFailure *bool
	DryRun        bool
	ReportPath    string
	LogFormat     string
	LogLevel      string
}

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW     io.Writer
	logger   *slog.Logger
	config   *Config
	sequence *model.Sequence
	tool     tool.Tool
}

// Option customizes an App, primarily for tests.
type Option func(*App)

// WithTool replaces the os/exec tool implementation, letting tests inject a
// recording fake.
func WithTool(t tool.Tool) Option {
	return func(a *App) {
		a.tool = t
	}
}

// NewApp is the constructor for the main application. It returns a fully
// initialized App instance with its own isolated logger and a loaded
// sequence model. A failure to load the sequence is a fatal startup error
// and panics; the caller recovers it into a clean exit.
func NewApp(outW io.Writer, config *Config, opts ...Option) *App {
	logger := newLogger(config.LogLevel, config.LogFormat, outW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	sequence, err := model.LoadSequence(ctx, config.SequencePath)
	if err != nil {
		panic(fmt.Errorf("failed to load sequence: %w", err))
	}
	logger.Debug("Sequence model loaded.", "runs", len(sequence.Runs))

	a := &App{
		outW:     outW,
		logger:   logger,
		config:   config,
		sequence: sequence,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Sequence returns the loaded sequence model. This is primarily for testing.
func (a *App) Sequence() *model.Sequence {
	return a.sequence
}
