// Package logging assembles the slog loggers used by the equalizer CLI and
// the registries it drives.
//
// Console output goes to stderr in the configured format. When a log
// directory is configured every record is also appended to FileName as a
// JSON line, which is what "equalizer logs" reads back. Standard field keys
// keep log lines about a project, container, or publish instance greppable.
package logging
