// Package tools defines the capability contract, the registry/dispatcher,
// and the built-in capabilities.
//
// Includes:
//   - Capability: Validate (pure parameter checks) + Execute (the effect).
//   - Registry: name→capability lookup; Dispatch gates Execute behind
//     validation and reports every failure as a Result, never a panic.
//   - GenerateSchema[T](): derive JSON Schema from parameter structs for
//     model-facing definitions.
//   - Built-ins: api_call (REST requests), file_operation (sandboxed
//     create/read/modify).
package tools
