// Package followup turns a task status and the conversation context into
// the next user-turn text, or signals that the loop should terminate.
package followup
