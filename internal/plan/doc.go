// Package plan resolves a parsed sequence model into a concrete execution
// plan. It evaluates every deferred HCL expression (locals, settings, run
// attributes) against a cty evaluation context, validates the result, and
// produces the flat, ordered list of tool invocations the executor runs.
// The executor never sees HCL; it only sees resolved strings.
package plan
