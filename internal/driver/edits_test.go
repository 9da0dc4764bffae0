package driver_test

import (
	"context"
	"testing"

	"quill/internal/driver"
	"quill/internal/gen"
	"quill/internal/generators"
)

func textEdit(kind gen.EditKind, path, content string) gen.Edit {
	return gen.Edit{Kind: kind, Text: gen.AdditionalText{Path: path, Content: content}}
}

func mustApply(t *testing.T, d driver.Driver, program driver.Program) (driver.Driver, driver.Program) {
	t.Helper()
	d, program, ok, err := d.TryApplyEdits(context.Background(), program)
	if err != nil {
		t.Fatalf("TryApplyEdits failed: %v", err)
	}
	if !ok {
		t.Fatal("expected edits to apply")
	}
	return d, program
}

// До первого полного запуска инкрементальный путь недоступен.
func TestTryApplyEditsBeforeFirstRun(t *testing.T) {
	program := makeProgram(t, `class A;`)
	d := driver.New(driver.Options{})
	d = mustAdd(t, d, emits("g", "a.g.ql", "x"))
	d = d.WithPendingEdits(textEdit(gen.EditTextAdded, "t.txt", "hello"))

	_, _, ok, err := d.TryApplyEdits(context.Background(), program)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Fatal("edits must not apply before the first full run")
	}
}

// Пустая очередь — тривиальный успех, вывод не меняется.
func TestTryApplyEditsEmptyQueue(t *testing.T) {
	program := makeProgram(t, `class A;`)
	d := driver.New(driver.Options{})
	d = mustAdd(t, d, emits("g", "a.g.ql", "x"))
	d, program, _ = mustRun(t, d, program)

	_, p2 := mustApply(t, d, program)
	if len(p2.GeneratedSources()) != 1 || p2.GeneratedSources()[0].Content != "x" {
		t.Fatalf("trivial apply must keep output, got %v", p2.GeneratedSources())
	}
}

// Новый генератор после полного запуска инвалидирует инкрементальный путь.
func TestAddGeneratorsInvalidatesEdits(t *testing.T) {
	program := makeProgram(t, `class A;`)
	d := driver.New(driver.Options{})
	d = mustAdd(t, d, generators.NewMirror())
	d, program, _ = mustRun(t, d, program)

	d = mustAdd(t, d, emits("late", "late.g.ql", "z"))
	d = d.WithPendingEdits(textEdit(gen.EditTextAdded, "t.txt", "hello"))

	_, _, ok, err := d.TryApplyEdits(context.Background(), program)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Fatal("edits must not apply after the generator set changed")
	}
}

// Инкрементальное применение эквивалентно полному перезапуску байт-в-байт.
func TestEditFullEquivalenceViaMirror(t *testing.T) {
	program := makeProgram(t, `class A;`)
	base := driver.New(driver.Options{})
	base = mustAdd(t, base, generators.NewMirror())
	base = base.WithAdditionalTexts(
		gen.AdditionalText{Path: "a.txt", Content: "alpha"},
		gen.AdditionalText{Path: "b.txt", Content: "beta"},
	)
	base, program, _ = mustRun(t, base, program)

	edits := []gen.Edit{
		textEdit(gen.EditTextAdded, "c.txt", "gamma"),
		textEdit(gen.EditTextChanged, "a.txt", "ALPHA"),
		textEdit(gen.EditTextRemoved, "b.txt", ""),
	}

	// Инкрементальный путь.
	incr := base.WithPendingEdits(edits...)
	incr, incrProgram := mustApply(t, incr, program)
	if incr.State() != driver.StateFullyGenerated {
		t.Fatalf("expected FullyGenerated after apply, got %v", incr.State())
	}

	// Полный перезапуск над теми же входами (очередь уже обновила тексты).
	full := base.WithPendingEdits(edits...)
	_, fullProgram, _ := mustRun(t, full, program)

	got, want := incrProgram.GeneratedSources(), fullProgram.GeneratedSources()
	gotSet := make(map[string]string, len(got))
	for _, art := range got {
		gotSet[art.HintName] = art.Content
	}
	wantSet := make(map[string]string, len(want))
	for _, art := range want {
		wantSet[art.HintName] = art.Content
	}
	if len(gotSet) != len(wantSet) {
		t.Fatalf("artifact sets differ: %v vs %v", gotSet, wantSet)
	}
	for hint, content := range wantSet {
		if gotSet[hint] != content {
			t.Errorf("artifact %q: incremental %q, full %q", hint, gotSet[hint], content)
		}
	}
}

// Артефакты, не затронутые правками, остаются байт-в-байт прежними.
func TestUntouchedArtifactsStable(t *testing.T) {
	program := makeProgram(t, `class A;`)
	d := driver.New(driver.Options{})
	d = mustAdd(t, d, generators.NewMirror())
	d = d.WithAdditionalTexts(
		gen.AdditionalText{Path: "keep.txt", Content: "stable"},
		gen.AdditionalText{Path: "change.txt", Content: "old"},
	)
	d, program, _ = mustRun(t, d, program)

	before := ""
	for _, art := range program.GeneratedSources() {
		if art.HintName == generators.MirrorHint("keep.txt") {
			before = art.Content
		}
	}

	d = d.WithPendingEdits(textEdit(gen.EditTextChanged, "change.txt", "new"))
	_, p2 := mustApply(t, d, program)

	for _, art := range p2.GeneratedSources() {
		if art.HintName == generators.MirrorHint("keep.txt") {
			if art.Content != before {
				t.Fatalf("untouched artifact changed: %q vs %q", art.Content, before)
			}
			return
		}
	}
	t.Fatal("untouched artifact disappeared")
}

// Правка, отвергнутая всеми callback-ами, атомарно проваливает всю очередь:
// принятые ранее правки не просачиваются в вывод.
func TestAtomicEditFailure(t *testing.T) {
	program := makeProgram(t, `class A;`)

	picky := &testGen{
		name: "picky",
		execute: func(ec *gen.ExecContext) error {
			return ec.AddSource("picky.g.ql", "base")
		},
	}
	picky.callback = func(ec *gen.EditContext, edit gen.Edit) bool {
		if edit.Text.Path == "reject.txt" {
			return false
		}
		ec.ReplaceSource("picky.g.ql", "edited:"+edit.Text.Path)
		return true
	}

	d := driver.New(driver.Options{})
	d = mustAdd(t, d, picky)
	d, program, _ = mustRun(t, d, program)

	d = d.WithPendingEdits(
		textEdit(gen.EditTextAdded, "accept.txt", "ok"),
		textEdit(gen.EditTextAdded, "reject.txt", "nope"),
	)

	d2, p2, ok, err := d.TryApplyEdits(context.Background(), program)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Fatal("expected atomic failure")
	}
	arts := p2.GeneratedSources()
	if len(arts) != 1 || arts[0].Content != "base" {
		t.Fatalf("partial edit leaked into output: %v", arts)
	}
	// Очередь сохраняется: полный запуск остаётся доступным путём.
	if len(d2.PendingEdits()) != 2 {
		t.Fatalf("expected queue retained, got %d edits", len(d2.PendingEdits()))
	}
}

// Генератор без callback-ов не может удовлетворить ни одну правку.
func TestEditsRejectedWithoutCallbacks(t *testing.T) {
	program := makeProgram(t, `class A;`)
	d := driver.New(driver.Options{})
	d = mustAdd(t, d, emits("plain", "p.g.ql", "x"))
	d, program, _ = mustRun(t, d, program)

	d = d.WithPendingEdits(textEdit(gen.EditTextAdded, "t.txt", "hello"))
	_, _, ok, err := d.TryApplyEdits(context.Background(), program)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Fatal("edit with no callbacks must fail")
	}
}

// WithPendingEdits сразу применяет правку к набору текстов: отброшенная
// очередь ничего не теряет при полном запуске.
func TestPendingEditsUpdateTextsImmediately(t *testing.T) {
	d := driver.New(driver.Options{})
	d = d.WithAdditionalTexts(gen.AdditionalText{Path: "a.txt", Content: "old"})

	d = d.WithPendingEdits(
		textEdit(gen.EditTextChanged, "a.txt", "new"),
		textEdit(gen.EditTextAdded, "b.txt", "fresh"),
	)

	texts := d.AdditionalTexts()
	if len(texts) != 2 {
		t.Fatalf("expected 2 texts, got %d", len(texts))
	}
	if texts[0].Content != "new" {
		t.Errorf("changed text not applied: %q", texts[0].Content)
	}
	if texts[1].Path != "b.txt" || texts[1].Content != "fresh" {
		t.Errorf("added text missing: %v", texts[1])
	}

	d = d.WithPendingEdits(textEdit(gen.EditTextRemoved, "a.txt", ""))
	texts = d.AdditionalTexts()
	if len(texts) != 1 || texts[0].Path != "b.txt" {
		t.Fatalf("removed text still present: %v", texts)
	}
}
