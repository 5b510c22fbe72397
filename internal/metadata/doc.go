// Package metadata turns a host's free-text notes slot into a structured
// JSON document.
//
// The document is embedded in the notes between two guard tokens:
//
//	AYON_CONTEXT::<json>::AYON_CONTEXT_END
//
// Everything outside the guard is left untouched, so operators can keep
// writing their own notes around it. A missing or unparsable guard always
// degrades to an empty document; only failures of the host itself are
// reported to callers.
//
// Store is the seam the registries depend on. NotesStore implements it over a
// host.Host; backends with a native key/value facility implement it directly.
package metadata
