package gen

import (
	"errors"
	"testing"
)

func TestArtifactSetAddPreservesOrder(t *testing.T) {
	s := NewArtifactSet()
	for _, hint := range []string{"c.g.ql", "a.g.ql", "b.g.ql"} {
		if err := s.Add(hint, "body:"+hint); err != nil {
			t.Fatalf("Add(%q) failed: %v", hint, err)
		}
	}

	items := s.Items()
	if len(items) != 3 {
		t.Fatalf("expected 3 artifacts, got %d", len(items))
	}
	// Порядок вставки, не лексикографический.
	want := []string{"c.g.ql", "a.g.ql", "b.g.ql"}
	for i, hint := range want {
		if items[i].HintName != hint {
			t.Errorf("item %d: expected %q, got %q", i, hint, items[i].HintName)
		}
	}
}

func TestArtifactSetDuplicateHint(t *testing.T) {
	s := NewArtifactSet()
	if err := s.Add("x.g.ql", "one"); err != nil {
		t.Fatalf("first Add failed: %v", err)
	}
	err := s.Add("x.g.ql", "two")
	var collision *HintCollisionError
	if !errors.As(err, &collision) {
		t.Fatalf("expected HintCollisionError, got %v", err)
	}
	if collision.HintName != "x.g.ql" {
		t.Errorf("expected hint in error, got %q", collision.HintName)
	}
	// Дубль не затирает первый артефакт.
	if got, _ := s.Get("x.g.ql"); got.Content != "one" {
		t.Errorf("duplicate Add must not overwrite, got %q", got.Content)
	}
}

func TestArtifactSetEmptyHint(t *testing.T) {
	s := NewArtifactSet()
	if err := s.Add("", "body"); err == nil {
		t.Fatal("expected error for empty hint name")
	}
}

func TestArtifactSetReplace(t *testing.T) {
	s := NewArtifactSet()
	if err := s.Add("a.g.ql", "old"); err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	s.Replace("a.g.ql", "new")
	if got, _ := s.Get("a.g.ql"); got.Content != "new" {
		t.Errorf("Replace must overwrite, got %q", got.Content)
	}
	if s.Len() != 1 {
		t.Errorf("Replace of existing hint must not grow the set, got %d", s.Len())
	}

	// Replace несуществующего hint — вставка.
	s.Replace("b.g.ql", "fresh")
	if s.Len() != 2 {
		t.Errorf("Replace of new hint must append, got %d", s.Len())
	}
	if s.Items()[1].HintName != "b.g.ql" {
		t.Errorf("appended artifact must keep insertion order, got %v", s.Items())
	}
}

func TestArtifactSetRemove(t *testing.T) {
	s := NewArtifactSet()
	for _, hint := range []string{"a", "b", "c"} {
		if err := s.Add(hint, hint); err != nil {
			t.Fatalf("Add failed: %v", err)
		}
	}

	s.Remove("b")
	if s.Len() != 2 {
		t.Fatalf("expected 2 artifacts after Remove, got %d", s.Len())
	}
	if _, ok := s.Get("b"); ok {
		t.Error("removed artifact still retrievable")
	}
	// Индекс правее удалённого должен остаться валидным.
	if got, ok := s.Get("c"); !ok || got.Content != "c" {
		t.Errorf("index corrupted after Remove: %v, ok=%v", got, ok)
	}

	// Повторное удаление — no-op.
	s.Remove("b")
	if s.Len() != 2 {
		t.Errorf("double Remove changed the set, got %d", s.Len())
	}

	// Освободившийся hint можно занять заново.
	if err := s.Add("b", "again"); err != nil {
		t.Errorf("re-adding removed hint failed: %v", err)
	}
}

func TestArtifactSetCloneIsIndependent(t *testing.T) {
	s := NewArtifactSet()
	if err := s.Add("a", "original"); err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	clone := s.Clone()
	clone.Replace("a", "mutated")
	if err := clone.Add("b", "extra"); err != nil {
		t.Fatalf("Add to clone failed: %v", err)
	}

	if got, _ := s.Get("a"); got.Content != "original" {
		t.Errorf("clone mutation leaked into original: %q", got.Content)
	}
	if s.Len() != 1 {
		t.Errorf("clone growth leaked into original: %d", s.Len())
	}
}

func TestArtifactSetEqual(t *testing.T) {
	a := NewArtifactSet()
	b := NewArtifactSet()
	for _, s := range []*ArtifactSet{a, b} {
		if err := s.Add("x", "1"); err != nil {
			t.Fatalf("Add failed: %v", err)
		}
		if err := s.Add("y", "2"); err != nil {
			t.Fatalf("Add failed: %v", err)
		}
	}
	if !a.Equal(b) {
		t.Error("identical sets must be equal")
	}

	b.Replace("y", "3")
	if a.Equal(b) {
		t.Error("sets with different content must not be equal")
	}

	// Одинаковое содержимое, другой порядок.
	c := NewArtifactSet()
	if err := c.Add("y", "2"); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if err := c.Add("x", "1"); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if a.Equal(c) {
		t.Error("order matters for equality")
	}
}
