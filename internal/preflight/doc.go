// Package preflight provides readiness checks for the local paths and the
// host installation equalizer depends on.
//
// The CLI "equalizer doctor" command runs RunAll and prints one line per
// result. Checks for features that are not configured are skipped.
package preflight
