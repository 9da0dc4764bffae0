package scan

import (
	"context"
	"strings"

	"quill/internal/source"
	"quill/internal/syntax"
)

const attributeSuffix = "Attribute"

// scanner — состояние одного обхода: стек локальных алиасов и накопленный
// результат. Обход строго однопоточный, pre-order.
type scanner struct {
	ctx     context.Context
	tree    *syntax.Tree
	globals *GlobalAliases
	kind    syntax.NodeKind

	// requested и requestedTrim — искомое имя как есть и без суффикса
	// "Attribute" (NoStringID, если суффикса не было).
	requested     source.StringID
	requestedTrim source.StringID

	locals AliasTable // стек: push при входе в scope, срез назад при выходе
	out    []syntax.NodeID
}

// FindAttributedNodes collects declarations of the requested kind that carry
// an attribute whose name resolves to attributeName. Result order is
// depth-first pre-order; a node is recorded at most once (first match wins).
// The walk is cooperative: ctx is checked at the top of every visit, and a
// cancelled scan returns ctx.Err() with no partial results.
func FindAttributedNodes(
	ctx context.Context,
	tree *syntax.Tree,
	globals *GlobalAliases,
	attributeName string,
	kind syntax.NodeKind,
) ([]syntax.NodeID, error) {
	interner := tree.Interner()

	s := &scanner{
		ctx:           ctx,
		tree:          tree,
		globals:       globals,
		kind:          kind,
		requested:     interner.Intern(attributeName),
		requestedTrim: source.NoStringID,
	}
	if trimmed, ok := strings.CutSuffix(attributeName, attributeSuffix); ok && trimmed != "" {
		s.requestedTrim = interner.Intern(trimmed)
	}

	if err := s.visitScope(tree.Root()); err != nil {
		return nil, err
	}
	return s.out, nil
}

// visitScope обходит узел-область (compilation unit или namespace):
// сначала push локальных алиасов области, затем члены, затем откат стека.
func (s *scanner) visitScope(id syntax.NodeID) error {
	if err := s.ctx.Err(); err != nil {
		return err
	}

	depth := len(s.locals)
	s.pushLocalAliases(id)

	for _, child := range s.tree.Children(id) {
		if err := s.visit(child); err != nil {
			return err
		}
	}

	// Алиасы вложенной области не должны утекать к соседям.
	s.locals = s.locals[:depth]
	return nil
}

func (s *scanner) visit(id syntax.NodeID) error {
	if err := s.ctx.Err(); err != nil {
		return err
	}

	node := s.tree.Node(id)
	switch node.Kind {
	case syntax.KindAttribute:
		// Атрибуты не вкладываются в атрибуты: не рекурсируем.
		s.checkAttribute(id, node)
		return nil
	case syntax.KindNamespaceDecl:
		return s.visitScope(id)
	case syntax.KindUsingDirective:
		// Уже учтена при входе в scope.
		return nil
	default:
		for _, child := range s.tree.Children(id) {
			if err := s.visit(child); err != nil {
				return err
			}
		}
		return nil
	}
}

// pushLocalAliases кладёт в стек локальные (не global) алиасы области.
func (s *scanner) pushLocalAliases(scope syntax.NodeID) {
	for _, child := range s.tree.Children(scope) {
		node := s.tree.Node(child)
		if node.Kind != syntax.KindUsingDirective || node.Global || !node.HasAlias() {
			continue
		}
		s.locals = append(s.locals, AliasEntry{
			Alias:  node.Alias,
			Target: node.LastNameSegment(),
		})
	}
}

// checkAttribute решает, записывать ли родительскую декларацию атрибута.
func (s *scanner) checkAttribute(id syntax.NodeID, node *syntax.Node) {
	// Родитель атрибута — список атрибутов, его родитель — декларация.
	target := s.tree.Parent(s.tree.Parent(id))
	if target == syntax.NoNode || s.tree.Kind(target) != s.kind {
		return
	}
	// Fast path: узел уже записан первым совпавшим атрибутом.
	// Списки атрибутов — первые дети декларации, поэтому проверки одного
	// узла всегда идут подряд и достаточно сравнить последний результат.
	if len(s.out) > 0 && s.out[len(s.out)-1] == target {
		return
	}

	written := node.LastNameSegment()
	if written == source.NoStringID {
		return
	}

	visited := make(map[source.StringID]struct{}, 4)
	if s.resolveMatches(written, visited) {
		s.out = append(s.out, target)
	}
}

// resolveMatches проверяет имя на совпадение с искомым, раскрывая алиасы.
// Алиас может вести на другой алиас; visited защищает от циклов: уже
// раскрытое имя повторно не раскрывается, эта ветвь просто не совпадает.
func (s *scanner) resolveMatches(name source.StringID, visited map[source.StringID]struct{}) bool {
	if s.nameMatches(name) {
		return true
	}
	if _, seen := visited[name]; seen {
		return false
	}
	visited[name] = struct{}{}

	// Локальные алиасы — от внутренней области к внешней (ближняя побеждает),
	// затем глобальные в порядке объявления.
	for i := len(s.locals) - 1; i >= 0; i-- {
		if s.locals[i].Alias == name && s.resolveMatches(s.locals[i].Target, visited) {
			return true
		}
	}
	for _, entry := range s.globals.Entries() {
		if entry.Alias == name && s.resolveMatches(entry.Target, visited) {
			return true
		}
	}
	return false
}

// nameMatches — ordinal-сравнение: точное имя либо искомое без "Attribute".
// Сравниваются интернированные ID, т.е. байты, без учёта локали.
func (s *scanner) nameMatches(name source.StringID) bool {
	if name == s.requested {
		return true
	}
	return s.requestedTrim != source.NoStringID && name == s.requestedTrim
}
