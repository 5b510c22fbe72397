// Package main hosts the equalizer CLI entrypoint and command graph.
//
// The Cobra command tree opens a project through the configured notes
// backend (a workfile on disk or a row in the project database), reads and
// edits the embedded AYON document through the container and publish
// instance registries, and surfaces the publish and launch helpers.
// Commands that change the document save the workfile before returning.
//
// Keep this package lean: the behavior lives in the internal packages and
// commands here only parse flags, open the project, and render output.
package main
