// Package fileutil holds small filesystem helpers shared by the host
// backends.
package fileutil
