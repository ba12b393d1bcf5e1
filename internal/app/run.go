package app

import (
	"context"
	"fmt"
	"os"

	"github.com/vk/seqrungo/internal/ctxlog"
	"github.com/vk/seqrungo/internal/executor"
	"github.com/vk/seqrungo/internal/plan"
	"github.com/vk/seqrungo/internal/tool"
)

// Run executes the main application logic based on the loaded configuration.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	p, err := plan.Build(ctx, a.sequence, plan.Overrides{
		Tool:          a.config.Tool,
		StopOnFailure: a.config.StopOnFailure,
	})
	if err != nil {
		return fmt.Errorf("failed to build execution plan: %w", err)
	}
	a.logger.Debug("Execution plan built.", "invocations", len(p.Invocations))

	if len(p.Invocations) == 0 {
		a.logger.Warn("No runs found in plan, execution not required.")
		return nil
	}

	if a.config.DryRun {
		a.logger.Info("Dry run requested, printing plan without executing.")
		for i, inv := range p.Invocations {
			fmt.Fprintf(a.outW, "%2d. %s\n", i+1, inv.CommandLine(p.Tool))
		}
		return nil
	}

	t := a.tool
	if t == nil {
		// The external tool's own output is the user-visible output of a
		// run, so the child inherits the parent's streams.
		t = tool.NewExecTool(p.Tool, p.Workdir, os.Stdout, os.Stderr)
	}

	a.logger.Info("🚀 Starting sequential execution...",
		"tool", p.Tool, "runs", len(p.Invocations), "stop_on_failure", p.StopOnFailure)

	rep, runErr := executor.New(p, t).Run(ctx)

	rep.Summary(a.outW)
	if a.config.ReportPath != "" {
		if err := rep.WriteFile(a.config.ReportPath); err != nil {
			a.logger.Error("Failed to write run report.", "path", a.config.ReportPath, "error", err)
			if runErr == nil {
				runErr = err
			}
		} else {
			a.logger.Info("Run report written.", "path", a.config.ReportPath)
		}
	}

	if runErr != nil {
		return fmt.Errorf("execution failed: %w", runErr)
	}
	a.logger.Info("🏁 Execution finished.")

	a.logger.Debug("App.Run method finished.")
	return nil
}
