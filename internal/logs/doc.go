// Package logs reads the equalizer log file for the CLI: the last lines of
// the file, then optionally every line appended afterwards.
//
// Lines can be narrowed with a Matcher, typically one built by
// ProjectMatcher so a single project's activity can be followed in a log
// shared by every project.
package logs
