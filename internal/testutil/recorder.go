package testutil

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// Launch is one recorded call to the fake tool, with timestamps so tests can
// assert that invocations never overlap.
type Launch struct {
	Subcommand string
	ConfigPath string
	StartedAt  time.Time
	FinishedAt time.Time
}

// Args renders the launch as the argument vector passed to the tool.
func (l Launch) Args() []string {
	return []string{l.Subcommand, l.ConfigPath}
}

// RecorderTool is a fake tool.Tool that records every launch instead of
// spawning a process. FailOn maps "subcommand config" keys to the error the
// fake returns for that launch; Delay, when non-zero, makes each launch take
// real time so overlap assertions are meaningful.
type RecorderTool struct {
	FailOn map[string]error
	Delay  time.Duration

	mu       sync.Mutex
	launches []Launch
}

// FailKey builds the FailOn map key for a launch.
func FailKey(subcommand, configPath string) string {
	return fmt.Sprintf("%s %s", subcommand, configPath)
}

// Run implements tool.Tool.
func (r *RecorderTool) Run(ctx context.Context, subcommand, configPath string) error {
	started := time.Now()
	if r.Delay > 0 {
		select {
		case <-time.After(r.Delay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	r.mu.Lock()
	r.launches = append(r.launches, Launch{
		Subcommand: subcommand,
		ConfigPath: configPath,
		StartedAt:  started,
		FinishedAt: time.Now(),
	})
	r.mu.Unlock()

	if err, ok := r.FailOn[FailKey(subcommand, configPath)]; ok {
		return err
	}
	return nil
}

// Launches returns a copy of all recorded launches in call order.
func (r *RecorderTool) Launches() []Launch {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Launch(nil), r.launches...)
}
