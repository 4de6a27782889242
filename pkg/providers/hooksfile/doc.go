// Package hooksfile implements the JSON-object native format shared by
// the claude and gemini providers: a settings document whose top-level
// "hooks" key maps event names to binding lists.
//
// The package owns exactly the managed bindings (those whose hook names
// carry the codmate tag) and nothing else. Foreign bindings are kept as
// raw values and written back verbatim, in their original relative
// order, so user- or tool-authored content survives every sync
// untouched. Unknown top-level keys round-trip the same way.
package hooksfile
