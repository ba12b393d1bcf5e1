// Package report collects the per-invocation outcome of a sequence run and
// renders it for humans (a colored terminal summary) and for machines (a
// YAML report file).
package report

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/gookit/color"
	"gopkg.in/yaml.v3"
)

// Status classifies the outcome of a single invocation.
type Status string

const (
	StatusOK      Status = "ok"
	StatusFailed  Status = "failed"
	StatusSkipped Status = "skipped"
)

// Result is the recorded outcome of one invocation.
type Result struct {
	Subcommand string    `yaml:"subcommand"`
	Name       string    `yaml:"name"`
	Config     string    `yaml:"config"`
	Status     Status    `yaml:"status"`
	ExitCode   int       `yaml:"exit_code"`
	StartedAt  time.Time `yaml:"started_at,omitempty"`
	Duration   string    `yaml:"duration,omitempty"`
}

// Totals aggregates result statuses across the whole run.
type Totals struct {
	OK      int `yaml:"ok"`
	Failed  int `yaml:"failed"`
	Skipped int `yaml:"skipped"`
}

// Report is the full record of one sequence run.
type Report struct {
	ID            string    `yaml:"id"`
	Tool          string    `yaml:"tool"`
	StopOnFailure bool      `yaml:"stop_on_failure"`
	StartedAt     time.Time `yaml:"started_at"`
	FinishedAt    time.Time `yaml:"finished_at"`
	Runs          []Result  `yaml:"runs"`
	Totals        Totals    `yaml:"totals"`
}

// New creates a Report for a starting run with a fresh run id.
func New(tool string, stopOnFailure bool) *Report {
	return &Report{
		ID:            uuid.NewString(),
		Tool:          tool,
		StopOnFailure: stopOnFailure,
		StartedAt:     time.Now(),
	}
}

// Append records one result and updates the totals.
func (r *Report) Append(res Result) {
	r.Runs = append(r.Runs, res)
	switch res.Status {
	case StatusOK:
		r.Totals.OK++
	case StatusFailed:
		r.Totals.Failed++
	case StatusSkipped:
		r.Totals.Skipped++
	}
}

// Finish stamps the end of the run.
func (r *Report) Finish() {
	r.FinishedAt = time.Now()
}

// WriteFile writes the report as YAML to the given path.
func (r *Report) WriteFile(path string) error {
	data, err := yaml.Marshal(r)
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write report to %s: %w", path, err)
	}
	return nil
}

// Summary renders a one-line-per-invocation human summary.
func (r *Report) Summary(w io.Writer) {
	for i, res := range r.Runs {
		fmt.Fprintf(w, "%2d. %-7s %-18s %-9s %s\n",
			i+1, res.Subcommand, res.Name, statusLabel(res.Status), res.Config)
	}
	fmt.Fprintf(w, "\n%d ok, %d failed, %d skipped (tool: %s)\n",
		r.Totals.OK, r.Totals.Failed, r.Totals.Skipped, r.Tool)
}

// statusLabel colors a status for terminal output.
func statusLabel(s Status) string {
	switch s {
	case StatusOK:
		return color.Green.Sprint(s)
	case StatusFailed:
		return color.Red.Sprint(s)
	default:
		return color.Yellow.Sprint(s)
	}
}
