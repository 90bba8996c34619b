// Package analysiscache records per-file analysis summaries in SQLite.
//
// Rows are keyed by the SHA-256 of the file content, so re-analyzing an
// unchanged file replaces its previous summary. Writers serialize on a lock
// file beside the database; readers rely on WAL mode.
package analysiscache
