// Package creator turns user requests into publish instances.
//
// A Creator owns the instances carrying its identifier. It builds new
// instances with generated ids and product names, collects its own instances
// back from the registry, and applies changes and removals through the
// registry's upsert operations.
package creator
