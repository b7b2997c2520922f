// Package loop composes the transport, parser, registry, analyzer, and
// follow-up generator into the turn-by-turn conversation driver.
//
// Flow per turn:
//
//	prompt -> model -> parse -> dispatch tool call -> classify -> follow-up
//
// The driver never retries; failed tool calls surface as report text in the
// next turn's context, and transport failures abort the run.
package loop
