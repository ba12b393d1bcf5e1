// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// This file defines the Local structure. A `locals` block lets a sequence
// author name a value once (typically a configs directory) and reference it
// from run blocks as `local.<name>`, instead of hand-duplicating the same
// path fragment across invocations.
package model

import (
	"github.com/hashicorp/hcl/v2"
)

// Local is one named value from a `locals` block. The expression is
// unevaluated; locals may reference each other and the planner resolves
// them as a set.
type Local struct {
	Name          string
	Expr          hcl.Expression
	FSInformation *FSInfo
}

// hclLocalsBlock represents a 'locals' block for initial decoding from HCL.
type hclLocalsBlock struct {
	Body hcl.Body `hcl:",remain"`
}

// NewLocalsFromHCL extracts the named values from a parsed locals block.
func NewLocalsFromHCL(parsedLocals *hclLocalsBlock, filePath string) ([]*Local, hcl.Diagnostics) {
	attrs, diags := parsedLocals.Body.JustAttributes()
	if diags.HasErrors() {
		return nil, diags
	}

	locals := make([]*Local, 0, len(attrs))
	for name, attr := range attrs {
		locals = append(locals, &Local{
			Name:          name,
			Expr:          attr.Expr,
			FSInformation: NewFSInfo(filePath),
		})
	}
	return locals, diags
}
