// Package memory holds the conversation history model and its JSON
// persistence.
//
// A history is an ordered, append-only slice of Turn values; the first
// turn's user text is treated as the original request by the analyzers and
// the follow-up generator.
package memory
