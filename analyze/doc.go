// Package analyze classifies the latest assistant answer into one of three
// task states: COMPLETED, NEEDS_MORE_INFO, or CONTINUE.
//
// Three analyzers exist: RuleAnalyzer (fixed phrase checks), ModelAnalyzer
// (asks a second model through an llm.Transport), and HeuristicAnalyzer
// (length and structure features, no transport). Classification holds no
// state across turns; the history passed in is the only context.
package analyze
