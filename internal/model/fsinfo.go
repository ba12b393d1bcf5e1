// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// This file defines the FSInfo struct, which stores file system metadata.
//
// The file path connects a parsed in-memory object (a Run, Settings or Local)
// back to its physical source on disk. It is what lets the planner and the
// executor report not just *what* is wrong but *in which file* the
// problematic definition lives.
package model

type FSInfo struct {
	FilePath string
}

func NewFSInfo(filePath string) *FSInfo {
	return &FSInfo{
		FilePath: filePath,
	}
}
