// Package parse extracts structured tool calls from free-form assistant
// text.
//
// Two strategies exist and deliberately stay divergent:
//   - Strict: first structurally valid entry in any fenced block, with the
//     API-call shape (url + method) required inside parameters.
//   - Lenient: the last fenced json block verbatim, no per-entry checks.
//
// They can disagree on the same input; call sites pick one explicitly.
// Neither strategy ever returns an error: anything malformed degrades to a
// rationale-only result.
package parse
