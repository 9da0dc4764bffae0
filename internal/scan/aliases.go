package scan

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"quill/internal/source"
	"quill/internal/syntax"
)

// AliasEntry — одна пара (алиас, последний сегмент целевого имени).
type AliasEntry struct {
	Alias  source.StringID
	Target source.StringID
}

// AliasTable — упорядоченный список алиасов одной области видимости.
type AliasTable []AliasEntry

// BuildGlobalAliases walks only the top-level using directives of one unit
// and returns the `global using Alias = ...` entries in declaration order.
// Directives without an alias clause are ignored.
func BuildGlobalAliases(tree *syntax.Tree) AliasTable {
	var out AliasTable
	for _, child := range tree.Children(tree.Root()) {
		node := tree.Node(child)
		if node.Kind != syntax.KindUsingDirective {
			continue
		}
		if !node.Global || !node.HasAlias() {
			continue
		}
		out = append(out, AliasEntry{
			Alias:  node.Alias,
			Target: node.LastNameSegment(),
		})
	}
	return out
}

// GlobalAliases оборачивает объединённую таблицу в reference-comparable
// значение: неизменившийся набор алиасов узнаётся за O(1) по указателю,
// а кэш сканера может ключеваться на identity.
type GlobalAliases struct {
	entries AliasTable
}

// NewGlobalAliases wraps an already merged table.
func NewGlobalAliases(entries AliasTable) *GlobalAliases {
	return &GlobalAliases{entries: entries}
}

// Entries returns the merged table. READONLY.
func (g *GlobalAliases) Entries() AliasTable {
	if g == nil {
		return nil
	}
	return g.entries
}

// Len returns the number of merged entries.
func (g *GlobalAliases) Len() int {
	if g == nil {
		return 0
	}
	return len(g.entries)
}

// CollectGlobalAliases извлекает глобальные алиасы из всех файлов программы.
// Каждый файл сканируется независимо (параллельно), результаты склеиваются
// в порядке файлов, заданном вызывающим — не в порядке завершения горутин.
func CollectGlobalAliases(ctx context.Context, trees []*syntax.Tree, jobs int) (*GlobalAliases, error) {
	if len(trees) == 0 {
		return NewGlobalAliases(nil), nil
	}

	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	// Результаты (индексы уникальны для каждой горутины, мьютекс не нужен)
	perFile := make([]AliasTable, len(trees))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(trees)))

	for i, tree := range trees {
		i, tree := i, tree
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			perFile[i] = BuildGlobalAliases(tree)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	var merged AliasTable
	for _, table := range perFile {
		merged = append(merged, table...)
	}
	return NewGlobalAliases(merged), nil
}
