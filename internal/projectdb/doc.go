// Package projectdb keeps project notes and AYON documents in SQLite.
//
// It backs hosts that have no project file of their own: NotesHost exposes a
// project's notes row as a host.Host so the guarded notes protocol works
// unchanged, and DocumentStore stores the document natively, one row per
// top-level key.
package projectdb
