package scan

import (
	"context"
	"slices"
	"sync"

	"quill/internal/syntax"
)

// cacheKey — идентичность запроса: конкретное дерево + конкретный набор
// глобальных алиасов (оба по указателю) + имя атрибута + вид узла.
type cacheKey struct {
	tree    *syntax.Tree
	globals *GlobalAliases
	name    string
	kind    syntax.NodeKind
}

// Cache memoizes scan results across incremental runs. A hit requires the
// same tree and the same *GlobalAliases identity, so any reparse or alias
// change naturally misses. Safe for concurrent use.
type Cache struct {
	mu      sync.RWMutex
	results map[cacheKey][]syntax.NodeID
}

func NewCache() *Cache {
	return &Cache{results: make(map[cacheKey][]syntax.NodeID)}
}

// FindAttributedNodes — кэширующая обёртка над FindAttributedNodes.
// Отменённый скан не кэшируется.
func (c *Cache) FindAttributedNodes(
	ctx context.Context,
	tree *syntax.Tree,
	globals *GlobalAliases,
	attributeName string,
	kind syntax.NodeKind,
) ([]syntax.NodeID, error) {
	key := cacheKey{tree: tree, globals: globals, name: attributeName, kind: kind}

	c.mu.RLock()
	cached, ok := c.results[key]
	c.mu.RUnlock()
	if ok {
		return slices.Clone(cached), nil
	}

	out, err := FindAttributedNodes(ctx, tree, globals, attributeName, kind)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.results[key] = out
	c.mu.Unlock()
	return slices.Clone(out), nil
}

// Len returns the number of memoized entries.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.results)
}
