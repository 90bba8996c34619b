// Package main hosts the humspine CLI.
//
// Commands read spine files, run the analysis pipeline with options taken
// from the [analysis] config section (overridable per invocation), and print
// the resulting structure as tables or JSON. Summaries can be recorded in
// the SQLite analysis cache when [cache] is enabled.
package main
