package plan

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/vk/seqrungo/internal/ctxlog"
	"github.com/vk/seqrungo/internal/model"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
)

// DefaultTool is the external tool binary launched when the sequence does
// not name one.
const DefaultTool = "searchnets"

// Invocation is one fully-resolved launch of the external tool.
type Invocation struct {
	Subcommand string
	Name       string
	ConfigPath string
	SourceFile string
}

// CommandLine renders the invocation as the command the executor will run,
// for dry-run output and logs.
func (inv Invocation) CommandLine(tool string) string {
	return fmt.Sprintf("%s %s %s", tool, inv.Subcommand, inv.ConfigPath)
}

// Plan is the resolved, validated execution plan. Invocations run strictly
// in slice order.
type Plan struct {
	Tool          string
	StopOnFailure bool
	Workdir       string
	Invocations   []Invocation
}

// Overrides carries CLI-level overrides applied on top of the sequence's
// own settings.
type Overrides struct {
	Tool          string
	StopOnFailure *bool
}

// Build resolves a sequence model into a Plan.
func Build(ctx context.Context, seq *model.Sequence, over Overrides) (*Plan, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Building execution plan from sequence model...")

	evalCtx, err := resolveEvalContext(seq)
	if err != nil {
		return nil, err
	}

	p := &Plan{
		Tool:          DefaultTool,
		StopOnFailure: true,
	}

	if s := seq.Settings; s != nil {
		p.Tool, err = evalString(s.Tool, evalCtx, p.Tool)
		if err != nil {
			return nil, fmt.Errorf("invalid tool in settings (%s): %w", s.FSInformation.FilePath, err)
		}
		p.StopOnFailure, err = evalBool(s.StopOnFailure, evalCtx, p.StopOnFailure)
		if err != nil {
			return nil, fmt.Errorf("invalid stop_on_failure in settings (%s): %w", s.FSInformation.FilePath, err)
		}
		p.Workdir, err = evalString(s.Workdir, evalCtx, "")
		if err != nil {
			return nil, fmt.Errorf("invalid workdir in settings (%s): %w", s.FSInformation.FilePath, err)
		}
	}

	if over.Tool != "" {
		p.Tool = over.Tool
	}
	if over.StopOnFailure != nil {
		p.StopOnFailure = *over.StopOnFailure
	}
	if strings.TrimSpace(p.Tool) == "" {
		return nil, fmt.Errorf("tool must not be empty")
	}

	for _, run := range seq.Runs {
		enabled, err := evalBool(run.Enabled, evalCtx, true)
		if err != nil {
			return nil, fmt.Errorf("invalid enabled for run %q %q (%s): %w",
				run.Subcommand, run.Name, run.FSInformation.FilePath, err)
		}
		if !enabled {
			logger.Debug("Run disabled, excluding from plan.",
				"subcommand", run.Subcommand, "name", run.Name)
			continue
		}

		configPath, err := evalString(run.Config, evalCtx, "")
		if err != nil {
			return nil, fmt.Errorf("invalid config for run %q %q (%s): %w",
				run.Subcommand, run.Name, run.FSInformation.FilePath, err)
		}
		if strings.TrimSpace(configPath) == "" {
			return nil, fmt.Errorf("empty config for run %q %q (%s)",
				run.Subcommand, run.Name, run.FSInformation.FilePath)
		}

		p.Invocations = append(p.Invocations, Invocation{
			Subcommand: run.Subcommand,
			Name:       run.Name,
			ConfigPath: configPath,
			SourceFile: run.FSInformation.FilePath,
		})
	}

	logger.Debug("Execution plan built.",
		"tool", p.Tool, "invocations", len(p.Invocations), "stop_on_failure", p.StopOnFailure)
	return p, nil
}

// resolveEvalContext builds the cty evaluation context available to sequence
// expressions: the process environment under `env` and the resolved locals
// under `local`.
func resolveEvalContext(seq *model.Sequence) (*hcl.EvalContext, error) {
	evalCtx := &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"env": envObject(),
		},
	}

	seen := map[string]string{}
	for _, l := range seq.Locals {
		if prev, dup := seen[l.Name]; dup {
			return nil, fmt.Errorf("duplicate local %q in %s (first defined in %s)",
				l.Name, l.FSInformation.FilePath, prev)
		}
		seen[l.Name] = l.FSInformation.FilePath
	}

	// Locals may reference each other in any declaration order, so resolve
	// them as a fixpoint: evaluate whatever currently can be, repeat until
	// nothing more resolves.
	resolved := map[string]cty.Value{}
	remaining := append([]*model.Local(nil), seq.Locals...)
	for len(remaining) > 0 {
		var next []*model.Local
		var lastDiags hcl.Diagnostics
		progress := false

		for _, l := range remaining {
			evalCtx.Variables["local"] = cty.ObjectVal(resolved)
			val, diags := l.Expr.Value(evalCtx)
			if diags.HasErrors() {
				next = append(next, l)
				lastDiags = diags
				continue
			}
			resolved[l.Name] = val
			progress = true
		}

		if !progress {
			return nil, fmt.Errorf("unresolvable local %q in %s (cycle or undefined reference): %w",
				next[0].Name, next[0].FSInformation.FilePath, lastDiags)
		}
		remaining = next
	}
	evalCtx.Variables["local"] = cty.ObjectVal(resolved)

	return evalCtx, nil
}

// envObject exposes the process environment to expressions as an object
// value, e.g. `env.HOME`.
func envObject() cty.Value {
	vars := map[string]cty.Value{}
	for _, kv := range os.Environ() {
		if k, v, ok := strings.Cut(kv, "="); ok && k != "" {
			vars[k] = cty.StringVal(v)
		}
	}
	return cty.ObjectVal(vars)
}

// evalString evaluates an optional expression to a string, converting if
// necessary. A nil expression yields the default.
func evalString(expr hcl.Expression, evalCtx *hcl.EvalContext, def string) (string, error) {
	if expr == nil {
		return def, nil
	}
	val, diags := expr.Value(evalCtx)
	if diags.HasErrors() {
		return "", diags
	}
	converted, err := convert.Convert(val, cty.String)
	if err != nil {
		return "", fmt.Errorf("expected a string, got %s", val.Type().FriendlyName())
	}
	if converted.IsNull() {
		return def, nil
	}
	return converted.AsString(), nil
}

// evalBool evaluates an optional expression to a bool, converting if
// necessary. A nil expression yields the default.
func evalBool(expr hcl.Expression, evalCtx *hcl.EvalContext, def bool) (bool, error) {
	if expr == nil {
		return def, nil
	}
	val, diags := expr.Value(evalCtx)
	if diags.HasErrors() {
		return false, diags
	}
	converted, err := convert.Convert(val, cty.Bool)
	if err != nil {
		return false, fmt.Errorf("expected a bool, got %s", val.Type().FriendlyName())
	}
	if converted.IsNull() {
		return def, nil
	}
	return converted.True(), nil
}
