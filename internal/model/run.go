// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// This file defines the Run structure, the atomic unit of work within a
// Sequence. It represents a single, configured invocation of the external
// tool: one subcommand applied to one configuration file.
package model

import (
	"fmt"

	"github.com/hashicorp/hcl/v2"
)

// Subcommands the external tool understands. The subcommand is the first
// block label of a `run` block and is validated at parse time.
const (
	SubcommandTrain = "train"
	SubcommandTest  = "test"
)

// ValidSubcommand reports whether s names a known tool subcommand.
func ValidSubcommand(s string) bool {
	return s == SubcommandTrain || s == SubcommandTest
}

// Run is the format-agnostic representation of a `run` block.
type Run struct {
	Subcommand    string
	Name          string
	FSInformation *FSInfo

	// Config is the expression for the tool configuration file path.
	// Required.
	Config hcl.Expression

	// Enabled optionally disables a run without deleting its block.
	// Nil means enabled.
	Enabled hcl.Expression
}

// hclRun represents a single 'run' block for initial decoding from HCL.
type hclRun struct {
	Subcommand string   `hcl:"subcommand,label"`
	Name       string   `hcl:"name,label"`
	Body       hcl.Body `hcl:",remain"`
}

// runBodySchema describes the attributes a `run` block body may carry.
var runBodySchema = &hcl.BodySchema{
	Attributes: []hcl.AttributeSchema{
		{Name: "config", Required: true},
		{Name: "enabled"},
	},
}

// NewRunFromHCL creates a new Run from a parsed HCL run block.
func NewRunFromHCL(parsedRun *hclRun, filePath string) (*Run, hcl.Diagnostics) {
	run := &Run{
		Subcommand:    parsedRun.Subcommand,
		Name:          parsedRun.Name,
		FSInformation: NewFSInfo(filePath),
	}

	var allDiags hcl.Diagnostics

	if !ValidSubcommand(run.Subcommand) {
		allDiags = append(allDiags, &hcl.Diagnostic{
			Severity: hcl.DiagError,
			Summary:  "Invalid run subcommand",
			Detail: fmt.Sprintf(
				"Run %q uses subcommand %q; must be %q or %q.",
				run.Name, run.Subcommand, SubcommandTrain, SubcommandTest,
			),
		})
	}

	bodyContent, contentDiags := parsedRun.Body.Content(runBodySchema)
	allDiags = append(allDiags, contentDiags...)
	if contentDiags.HasErrors() {
		return nil, allDiags
	}

	if attr, exists := bodyContent.Attributes["config"]; exists {
		run.Config = attr.Expr
	}
	if attr, exists := bodyContent.Attributes["enabled"]; exists {
		run.Enabled = attr.Expr
	}

	if allDiags.HasErrors() {
		return nil, allDiags
	}
	return run, allDiags
}
