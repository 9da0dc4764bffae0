package syntax

import (
	"strings"

	"quill/internal/source"
)

// Tree holds all nodes of one compilation unit.
type Tree struct {
	fileID   source.FileID
	arena    *arena
	root     NodeID
	interner *source.Interner
}

// NewTree creates an empty tree for the given file with a root CompilationUnit node.
func NewTree(fileID source.FileID, interner *source.Interner, capHint uint) *Tree {
	t := &Tree{
		fileID:   fileID,
		arena:    newArena(capHint),
		interner: interner,
	}
	t.root = t.arena.allocate(Node{
		Kind: KindCompilationUnit,
		Span: source.Span{File: fileID},
	})
	return t
}

// FileID returns the source file this tree was parsed from.
func (t *Tree) FileID() source.FileID { return t.fileID }

// Root returns the CompilationUnit node id.
func (t *Tree) Root() NodeID { return t.root }

// Interner returns the shared string interner.
func (t *Tree) Interner() *source.Interner { return t.interner }

// Len returns the number of nodes in the tree.
func (t *Tree) Len() int { return t.arena.len() }

// New allocates a node and links it as the last child of parent.
func (t *Tree) New(kind NodeKind, span source.Span, parent NodeID) NodeID {
	id := t.arena.allocate(Node{
		Kind:   kind,
		Span:   span,
		Parent: parent,
	})
	if parent != NoNode {
		p := t.arena.get(parent)
		p.Children = append(p.Children, id)
	}
	return id
}

// Node returns the node for id, or nil for NoNode.
func (t *Tree) Node(id NodeID) *Node {
	return t.arena.get(id)
}

// Kind returns the node kind (KindInvalid for NoNode).
func (t *Tree) Kind(id NodeID) NodeKind {
	n := t.arena.get(id)
	if n == nil {
		return KindInvalid
	}
	return n.Kind
}

// Parent возвращает родителя узла (NoNode для корня).
func (t *Tree) Parent(id NodeID) NodeID {
	n := t.arena.get(id)
	if n == nil {
		return NoNode
	}
	return n.Parent
}

// Children returns the ordered child list. READONLY.
func (t *Tree) Children(id NodeID) []NodeID {
	n := t.arena.get(id)
	if n == nil {
		return nil
	}
	return n.Children
}

// SetName задаёт сегменты имени узла.
func (t *Tree) SetName(id NodeID, segments []source.StringID) {
	n := t.arena.get(id)
	if n == nil {
		return
	}
	n.Name = append([]source.StringID(nil), segments...)
}

// SetAlias marks a using directive with its alias and global flag.
func (t *Tree) SetAlias(id NodeID, alias source.StringID, global bool) {
	n := t.arena.get(id)
	if n == nil {
		return
	}
	n.Alias = alias
	n.Global = global
}

// CoverSpan расширяет span узла до заданного.
func (t *Tree) CoverSpan(id NodeID, sp source.Span) {
	n := t.arena.get(id)
	if n == nil {
		return
	}
	if n.Span.Empty() {
		n.Span = sp
		return
	}
	n.Span = n.Span.Cover(sp)
}

// NameString собирает имя узла в строку через точку (для сообщений и отладки).
func (t *Tree) NameString(id NodeID) string {
	n := t.arena.get(id)
	if n == nil || len(n.Name) == 0 {
		return ""
	}
	segs := make([]string, 0, len(n.Name))
	for _, s := range n.Name {
		segs = append(segs, t.interner.MustLookup(s))
	}
	return strings.Join(segs, ".")
}
