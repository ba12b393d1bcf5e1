// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// Package model provides the Go struct representation of the seqrun HCL
// configuration. Its purpose is to create a strongly-typed, in-memory model
// of the user's sequence definitions by parsing the raw HCL files.
//
// # Core Concepts
//
// The model is built around a few key structures:
//
//   - Sequence: The root container. It aggregates every `run` block parsed
//     from one or more .hcl files, in declaration order, together with the
//     optional `settings` block and any `locals`.
//
//   - Run: A single configured invocation of the external tool. The two
//     block labels name the subcommand (train or test) and a human-readable
//     run name; the body carries the config path expression.
//
//   - Settings: Sequence-wide execution settings such as the tool binary
//     and the failure policy.
//
//   - FSInfo: Metadata linking every parsed block back to its source file,
//     used for error messages.
//
// Why store raw hcl.Expression fields?
//
// Attribute values are kept as hcl.Expression rather than primitive Go
// types. Evaluation is deferred to the plan package, which supplies the
// cty evaluation context (locals and the process environment). The model
// captures the user's intent as an expression; the planner resolves it
// into a concrete value. This keeps the model a pure parse product that
// can be validated and inspected without side effects.
package model
