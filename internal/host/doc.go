// Package host defines the capability surface the AYON integration needs from
// the tracking application: a single free-text notes slot attached to the open
// project, and a hook that asks the application to redraw after the slot
// changes.
//
// Backends live in their own packages (workfile, projectdb); this package
// only carries the interface and an in-memory implementation used by tests
// and by callers that embed the registries without a real project.
package host
