package syntax

import (
	"quill/internal/source"
)

// Node is one syntax node. Children are owned by the node (ordered), Parent
// is a non-owning back-reference.
type Node struct {
	Kind     NodeKind
	Span     source.Span
	Parent   NodeID
	Children []NodeID

	// Name — сегменты имени через точку:
	//   UsingDirective — целевое имя (N.MyAttribute);
	//   NamespaceDecl  — имя пространства (может быть составным);
	//   Attribute      — имя атрибута как написано в исходнике;
	//   остальные декларации — один сегмент.
	Name []source.StringID

	// Alias — алиас using-директивы (NoStringID, если алиаса нет).
	Alias source.StringID

	// Global — true для `global using ...`.
	Global bool
}

// LastNameSegment возвращает последний сегмент имени (NoStringID, если имени нет).
func (n *Node) LastNameSegment() source.StringID {
	if len(n.Name) == 0 {
		return source.NoStringID
	}
	return n.Name[len(n.Name)-1]
}

// HasAlias reports whether the node is a using directive with an alias clause.
func (n *Node) HasAlias() bool {
	return n.Alias != source.NoStringID
}
