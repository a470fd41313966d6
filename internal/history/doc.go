// Package history persists one row per conversion job in a SQLite database.
//
// The history is an audit trail: rows are written after each job finishes
// and read back only for reporting. Nothing consults it to skip or resume
// work. Schema changes bump schemaVersion; an older database must be deleted
// to adopt the new layout.
package history
