// Package syntax defines the arena-backed syntax tree for one compilation
// unit of the quill source subset.
//
// Nodes live in a flat arena and reference each other by NodeID: the parent
// owns the ordered child list, a child holds a non-owning back-reference to
// its parent. Ids are 1-based, NoNode (0) is the sentinel. Names are interned
// through source.Interner so identical identifiers across files share one id.
//
// Trees are built by internal/parser and are read-only afterwards; the
// scanner and generators only traverse them.
package syntax
