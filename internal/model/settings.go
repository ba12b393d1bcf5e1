// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// This file defines the Settings structure, the sequence-wide execution
// settings block. A sequence has at most one `settings` block across all of
// its files; which tool binary to launch and what to do when a run fails are
// properties of the whole sequence, not of an individual run.
package model

import (
	"github.com/hashicorp/hcl/v2"
)

// Settings is the format-agnostic representation of the `settings` block.
// All fields are optional; the planner supplies the defaults.
type Settings struct {
	FSInformation *FSInfo

	// Tool is the expression for the external tool binary to invoke.
	Tool hcl.Expression

	// StopOnFailure controls whether a failing run aborts the remainder of
	// the sequence. The policy is always explicit in the resolved plan; an
	// absent attribute resolves to true.
	StopOnFailure hcl.Expression

	// Workdir is the working directory for the tool's child processes.
	Workdir hcl.Expression
}

// hclSettings represents the 'settings' block for initial decoding from HCL.
type hclSettings struct {
	Body hcl.Body `hcl:",remain"`
}

// settingsBodySchema describes the attributes a `settings` block may carry.
var settingsBodySchema = &hcl.BodySchema{
	Attributes: []hcl.AttributeSchema{
		{Name: "tool"},
		{Name: "stop_on_failure"},
		{Name: "workdir"},
	},
}

// NewSettingsFromHCL creates a new Settings from a parsed HCL settings block.
func NewSettingsFromHCL(parsedSettings *hclSettings, filePath string) (*Settings, hcl.Diagnostics) {
	settings := &Settings{
		FSInformation: NewFSInfo(filePath),
	}

	bodyContent, diags := parsedSettings.Body.Content(settingsBodySchema)
	if diags.HasErrors() {
		return nil, diags
	}

	if attr, exists := bodyContent.Attributes["tool"]; exists {
		settings.Tool = attr.Expr
	}
	if attr, exists := bodyContent.Attributes["stop_on_failure"]; exists {
		settings.StopOnFailure = attr.Expr
	}
	if attr, exists := bodyContent.Attributes["workdir"]; exists {
		settings.Workdir = attr.Expr
	}

	return settings, diags
}
