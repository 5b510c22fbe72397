// Package pipeline keeps the container and publish instance collections of
// the project document.
//
// Containers are closed records, unique by (name, namespace). Publish
// instances are open mappings keyed by instance_id. Both collections are read
// from and merge-written back through a metadata.Store, so every other
// top-level document key survives untouched.
package pipeline
