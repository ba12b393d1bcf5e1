// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// This file defines the Sequence structure, the root container for all
// configuration loaded from a user's .hcl files.
//
// A user may split a long experiment across several files. The loading
// functions here discover every file under the given path and consolidate
// their `run` blocks into a single ordered list: files in lexical path
// order, blocks in declaration order within each file. That combined order
// is the execution order, so aggregation must never reorder anything.
package model

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/vk/seqrungo/internal/ctxlog"
	"github.com/vk/seqrungo/internal/fsutil"
)

// Sequence represents the user's run sequence definition.
type Sequence struct {
	Runs     []*Run
	Settings *Settings
	Locals   []*Local
}

// NewSequence creates and returns an initialized Sequence.
func NewSequence() *Sequence {
	return &Sequence{
		Runs: []*Run{},
	}
}

// hclSequenceFile represents the top-level structure of one file for decoding.
type hclSequenceFile struct {
	Runs     []*hclRun         `hcl:"run,block"`
	Settings []*hclSettings    `hcl:"settings,block"`
	Locals   []*hclLocalsBlock `hcl:"locals,block"`
}

// appendFromHCL parses a single HCL file and appends its contents to the
// sequence, preserving declaration order.
func (s *Sequence) appendFromHCL(filePath string, parser *hclparse.Parser) error {
	hclFile, diags := parser.ParseHCLFile(filePath)
	if diags.HasErrors() {
		return fmt.Errorf("failed to parse HCL file %s: %w", filePath, diags)
	}

	var parsedFile hclSequenceFile
	diags = gohcl.DecodeBody(hclFile.Body, nil, &parsedFile)
	if diags.HasErrors() {
		return fmt.Errorf("failed to decode HCL file %s: %w", filePath, diags)
	}

	for _, parsedRun := range parsedFile.Runs {
		run, runDiags := NewRunFromHCL(parsedRun, filePath)
		if runDiags.HasErrors() {
			return fmt.Errorf("error parsing run in file %s: %w", filePath, runDiags)
		}
		s.Runs = append(s.Runs, run)
	}

	for _, parsedSettings := range parsedFile.Settings {
		if s.Settings != nil {
			return fmt.Errorf(
				"duplicate settings block in file %s: a sequence has at most one (first seen in %s)",
				filePath, s.Settings.FSInformation.FilePath,
			)
		}
		settings, settingsDiags := NewSettingsFromHCL(parsedSettings, filePath)
		if settingsDiags.HasErrors() {
			return fmt.Errorf("error parsing settings in file %s: %w", filePath, settingsDiags)
		}
		s.Settings = settings
	}

	for _, parsedLocals := range parsedFile.Locals {
		locals, localDiags := NewLocalsFromHCL(parsedLocals, filePath)
		if localDiags.HasErrors() {
			return fmt.Errorf("error parsing locals in file %s: %w", filePath, localDiags)
		}
		s.Locals = append(s.Locals, locals...)
	}

	return nil
}

// LoadSequence finds and parses all HCL files under a given path into a
// Sequence model. The path may be a single .hcl file or a directory.
func LoadSequence(ctx context.Context, sequencePath string) (*Sequence, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Loading sequence from path", "path", sequencePath)

	files, err := fsutil.FindFilesByExtension(sequencePath, ".hcl")
	if err != nil {
		return nil, fmt.Errorf("failed to find sequence files in %s: %w", sequencePath, err)
	}

	sequence := NewSequence()
	if len(files) == 0 {
		logger.Warn("No .hcl sequence files found in path, returning empty sequence", "path", sequencePath)
		return sequence, nil
	}

	parser := hclparse.NewParser()
	for _, file := range files {
		if err := sequence.appendFromHCL(file, parser); err != nil {
			return nil, err
		}
	}

	logger.Debug("Sequence loaded.", "files", len(files), "runs", len(sequence.Runs))
	return sequence, nil
}
