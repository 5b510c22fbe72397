// Package workfile treats a project file on disk as the host's notes slot.
//
// A Session holds the project text in memory the way the application holds
// an open project: edits mark it dirty and only Save touches disk. Reads and
// saves take a flock on a sidecar lock file so two processes never interleave
// a save with a load.
package workfile
