package gen

import (
	"fmt"
	"slices"
)

// GeneratedSource — один сгенерированный артефакт, именованный hint name.
type GeneratedSource struct {
	HintName string
	Content  string
}

// HintCollisionError reports a duplicate hint name. It is a configuration
// error: the driver aborts the run instead of downgrading it to a warning.
type HintCollisionError struct {
	HintName string
}

func (e *HintCollisionError) Error() string {
	return fmt.Sprintf("hint name %q registered twice", e.HintName)
}

// ArtifactSet — упорядоченное множество артефактов одного генератора.
// Порядок вставки сохраняется; hint name уникален внутри множества.
type ArtifactSet struct {
	items []GeneratedSource
	index map[string]int
}

func NewArtifactSet() *ArtifactSet {
	return &ArtifactSet{index: make(map[string]int)}
}

// Add registers a new artifact. A duplicate hint name is a HintCollisionError,
// never a silent overwrite.
func (s *ArtifactSet) Add(hintName, content string) error {
	if hintName == "" {
		return fmt.Errorf("empty hint name")
	}
	if _, exists := s.index[hintName]; exists {
		return &HintCollisionError{HintName: hintName}
	}
	s.index[hintName] = len(s.items)
	s.items = append(s.items, GeneratedSource{HintName: hintName, Content: content})
	return nil
}

// Replace overwrites an existing artifact or adds a new one (edit application).
func (s *ArtifactSet) Replace(hintName, content string) {
	if idx, ok := s.index[hintName]; ok {
		s.items[idx].Content = content
		return
	}
	s.index[hintName] = len(s.items)
	s.items = append(s.items, GeneratedSource{HintName: hintName, Content: content})
}

// Remove удаляет артефакт по hint name (no-op, если его нет).
func (s *ArtifactSet) Remove(hintName string) {
	idx, ok := s.index[hintName]
	if !ok {
		return
	}
	s.items = slices.Delete(s.items, idx, idx+1)
	delete(s.index, hintName)
	// индексы правее сдвинулись
	for i := idx; i < len(s.items); i++ {
		s.index[s.items[i].HintName] = i
	}
}

// Get возвращает артефакт по hint name.
func (s *ArtifactSet) Get(hintName string) (GeneratedSource, bool) {
	if idx, ok := s.index[hintName]; ok {
		return s.items[idx], true
	}
	return GeneratedSource{}, false
}

// Items returns the artifacts in insertion order. READONLY.
func (s *ArtifactSet) Items() []GeneratedSource {
	return s.items
}

// Len returns the number of artifacts.
func (s *ArtifactSet) Len() int {
	return len(s.items)
}

// Clone returns an independent deep copy (strings are immutable, so the
// item slice and index are the only state to copy).
func (s *ArtifactSet) Clone() *ArtifactSet {
	out := &ArtifactSet{
		items: slices.Clone(s.items),
		index: make(map[string]int, len(s.index)),
	}
	for k, v := range s.index {
		out.index[k] = v
	}
	return out
}

// Equal reports whether two sets hold identical artifacts in identical order.
func (s *ArtifactSet) Equal(other *ArtifactSet) bool {
	if s.Len() != other.Len() {
		return false
	}
	for i := range s.items {
		if s.items[i] != other.items[i] {
			return false
		}
	}
	return true
}
