// Package loader places published image sequences on scene cameras and
// records each placement as a container.
package loader
