// Package publish holds the checks and export planning run before a
// matchmove or lens distortion product is published.
//
// Validation failures are reported as ValidationError values. They classify
// themselves through ErrorKind so callers can route them to the artist
// instead of treating them as crashes.
package publish
