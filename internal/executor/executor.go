// Package executor runs a resolved plan: every invocation in order, one at
// a time, each blocking until the external tool's process has terminated
// before the next one starts.
package executor

import (
	"context"
	"fmt"
	"time"

	"github.com/vk/seqrungo/internal/ctxlog"
	"github.com/vk/seqrungo/internal/plan"
	"github.com/vk/seqrungo/internal/report"
	"github.com/vk/seqrungo/internal/tool"
)

// Executor drives the external tool through a plan's invocations.
type Executor struct {
	plan *plan.Plan
	tool tool.Tool
}

// New creates an Executor for the given plan and tool.
func New(p *plan.Plan, t tool.Tool) *Executor {
	return &Executor{
		plan: p,
		tool: t,
	}
}

// Run executes the plan sequentially. The returned report is always
// complete: every planned invocation appears in it, as ok, failed or
// skipped. The error is non-nil when any invocation failed or the context
// was cancelled.
func (e *Executor) Run(ctx context.Context) (*report.Report, error) {
	logger := ctxlog.FromContext(ctx)
	rep := report.New(e.plan.Tool, e.plan.StopOnFailure)
	defer rep.Finish()

	total := len(e.plan.Invocations)
	for i, inv := range e.plan.Invocations {
		if err := ctx.Err(); err != nil {
			e.skipRemaining(rep, i)
			return rep, err
		}

		logger.Info("▶️ Starting run",
			"run", fmt.Sprintf("%d/%d", i+1, total),
			"subcommand", inv.Subcommand,
			"name", inv.Name,
			"config", inv.ConfigPath)

		started := time.Now()
		err := e.tool.Run(ctx, inv.Subcommand, inv.ConfigPath)
		duration := time.Since(started)

		if err != nil {
			rep.Append(report.Result{
				Subcommand: inv.Subcommand,
				Name:       inv.Name,
				Config:     inv.ConfigPath,
				Status:     report.StatusFailed,
				ExitCode:   tool.ExitCode(err),
				StartedAt:  started,
				Duration:   duration.Round(time.Millisecond).String(),
			})
			logger.Error("Run failed.",
				"run", fmt.Sprintf("%d/%d", i+1, total),
				"subcommand", inv.Subcommand,
				"name", inv.Name,
				"error", err)

			if ctxErr := ctx.Err(); ctxErr != nil {
				e.skipRemaining(rep, i+1)
				return rep, ctxErr
			}
			if e.plan.StopOnFailure {
				e.skipRemaining(rep, i+1)
				return rep, fmt.Errorf("run %d/%d (%s %s) failed, aborting sequence: %w",
					i+1, total, inv.Subcommand, inv.Name, err)
			}
			continue
		}

		rep.Append(report.Result{
			Subcommand: inv.Subcommand,
			Name:       inv.Name,
			Config:     inv.ConfigPath,
			Status:     report.StatusOK,
			ExitCode:   0,
			StartedAt:  started,
			Duration:   duration.Round(time.Millisecond).String(),
		})
		logger.Info("✅ Run finished.",
			"run", fmt.Sprintf("%d/%d", i+1, total),
			"subcommand", inv.Subcommand,
			"name", inv.Name,
			"duration", duration.Round(time.Millisecond))
	}

	if failed := rep.Totals.Failed; failed > 0 {
		return rep, fmt.Errorf("%d of %d runs failed", failed, total)
	}
	return rep, nil
}

// skipRemaining records every invocation from index on as skipped.
func (e *Executor) skipRemaining(rep *report.Report, from int) {
	for _, inv := range e.plan.Invocations[from:] {
		rep.Append(report.Result{
			Subcommand: inv.Subcommand,
			Name:       inv.Name,
			Config:     inv.ConfigPath,
			Status:     report.StatusSkipped,
		})
	}
}
