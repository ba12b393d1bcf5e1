package executor_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/seqrungo/internal/executor"
	"github.com/vk/seqrungo/internal/plan"
	"github.com/vk/seqrungo/internal/report"
	"github.com/vk/seqrungo/internal/testutil"
	"github.com/vk/seqrungo/internal/tool"
)

// sixRunPlan mirrors the historical experiment sequence: train/test three
// nets, with the final test run reusing the second net's config.
func sixRunPlan(stopOnFailure bool) *plan.Plan {
	return &plan.Plan{
		Tool:          "searchnets",
		StopOnFailure: stopOnFailure,
		Invocations: []plan.Invocation{
			{Subcommand: "train", Name: "alexnet", ConfigPath: "a.ini"},
			{Subcommand: "test", Name: "alexnet", ConfigPath: "a.ini"},
			{Subcommand: "train", Name: "VGG16", ConfigPath: "b.ini"},
			{Subcommand: "test", Name: "VGG16", ConfigPath: "b.ini"},
			{Subcommand: "train", Name: "CORnet_Z", ConfigPath: "c.ini"},
			{Subcommand: "test", Name: "CORnet_Z", ConfigPath: "b.ini"},
		},
	}
}

func TestRun_LaunchOrder(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	recorder := &testutil.RecorderTool{}
	exec := executor.New(sixRunPlan(true), recorder)

	// --- Act ---
	rep, err := exec.Run(context.Background())

	// --- Assert ---
	require.NoError(t, err)
	launches := recorder.Launches()
	require.Len(t, launches, 6)

	expected := [][]string{
		{"train", "a.ini"},
		{"test", "a.ini"},
		{"train", "b.ini"},
		{"test", "b.ini"},
		{"train", "c.ini"},
		{"test", "b.ini"},
	}
	for i, launch := range launches {
		assert.Equal(t, expected[i], launch.Args(), "launch %d", i)
	}

	assert.Equal(t, 6, rep.Totals.OK)
	assert.Zero(t, rep.Totals.Failed)
	assert.Zero(t, rep.Totals.Skipped)
}

func TestRun_SequentialBarrier(t *testing.T) {
	t.Parallel()

	// Each fake launch takes real time; no launch may start before the
	// previous one finished.
	recorder := &testutil.RecorderTool{Delay: 20 * time.Millisecond}
	exec := executor.New(sixRunPlan(true), recorder)

	_, err := exec.Run(context.Background())

	require.NoError(t, err)
	launches := recorder.Launches()
	require.Len(t, launches, 6)
	for i := 1; i < len(launches); i++ {
		assert.False(t, launches[i].StartedAt.Before(launches[i-1].FinishedAt),
			"launch %d started before launch %d finished", i, i-1)
	}
}

func TestRun_StopOnFailure(t *testing.T) {
	t.Parallel()

	recorder := &testutil.RecorderTool{
		FailOn: map[string]error{
			testutil.FailKey("train", "b.ini"): &tool.ExitError{Code: 2},
		},
	}
	exec := executor.New(sixRunPlan(true), recorder)

	rep, err := exec.Run(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "aborting sequence")
	assert.Len(t, recorder.Launches(), 3, "nothing may launch after the failure")

	require.Len(t, rep.Runs, 6, "the report covers every planned invocation")
	assert.Equal(t, 2, rep.Totals.OK)
	assert.Equal(t, 1, rep.Totals.Failed)
	assert.Equal(t, 3, rep.Totals.Skipped)
	assert.Equal(t, report.StatusFailed, rep.Runs[2].Status)
	assert.Equal(t, 2, rep.Runs[2].ExitCode)
	for _, res := range rep.Runs[3:] {
		assert.Equal(t, report.StatusSkipped, res.Status)
	}
}

func TestRun_ContinueOnFailure(t *testing.T) {
	t.Parallel()

	recorder := &testutil.RecorderTool{
		FailOn: map[string]error{
			testutil.FailKey("train", "b.ini"): &tool.ExitError{Code: 2},
			testutil.FailKey("test", "b.ini"):  &tool.ExitError{Code: 1},
		},
	}
	exec := executor.New(sixRunPlan(false), recorder)

	rep, err := exec.Run(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "3 of 6 runs failed")
	assert.Len(t, recorder.Launches(), 6, "every run launches despite failures")
	assert.Equal(t, 3, rep.Totals.OK)
	assert.Equal(t, 3, rep.Totals.Failed)
	assert.Zero(t, rep.Totals.Skipped)
}

func TestRun_ContextCancelledUpfront(t *testing.T) {
	t.Parallel()

	recorder := &testutil.RecorderTool{}
	exec := executor.New(sixRunPlan(true), recorder)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	rep, err := exec.Run(ctx)

	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Empty(t, recorder.Launches())
	assert.Equal(t, 6, rep.Totals.Skipped)
}

func TestRun_EmptyPlan(t *testing.T) {
	t.Parallel()

	exec := executor.New(&plan.Plan{Tool: "searchnets", StopOnFailure: true}, &testutil.RecorderTool{})

	rep, err := exec.Run(context.Background())

	require.NoError(t, err)
	assert.Empty(t, rep.Runs)
}
