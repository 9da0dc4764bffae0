package driver_test

import (
	"context"
	"errors"
	"testing"

	"quill/internal/diag"
	"quill/internal/driver"
	"quill/internal/gen"
	"quill/internal/lexer"
	"quill/internal/parser"
	"quill/internal/source"
	"quill/internal/syntax"
)

// testGen — настраиваемый генератор для тестов драйвера.
type testGen struct {
	name      string
	initErr   error
	initPanic bool
	initCount int
	execute   func(ec *gen.ExecContext) error
	callback  gen.EditCallback
}

func (g *testGen) Name() string { return g.name }

func (g *testGen) Init(ic *gen.InitContext) error {
	g.initCount++
	if g.initPanic {
		panic("init blew up")
	}
	if g.initErr != nil {
		return g.initErr
	}
	if g.callback != nil {
		ic.RegisterEditCallback(g.callback)
	}
	return nil
}

func (g *testGen) Execute(ec *gen.ExecContext) error {
	if g.execute != nil {
		return g.execute(ec)
	}
	return nil
}

// emits — генератор, всегда добавляющий фиксированный артефакт.
func emits(name, hint, content string) *testGen {
	return &testGen{
		name: name,
		execute: func(ec *gen.ExecContext) error {
			return ec.AddSource(hint, content)
		},
	}
}

// makeProgram парсит исходники в снимок программы; общий interner на все файлы.
func makeProgram(t *testing.T, sources ...string) driver.Program {
	t.Helper()
	fs := source.NewFileSet()
	interner := source.NewInterner()
	units := make([]*syntax.Tree, 0, len(sources))
	for i, src := range sources {
		fileID := fs.AddVirtual("test"+string(rune('a'+i))+".ql", []byte(src))
		file := fs.Get(fileID)
		bag := diag.NewBag(50)
		lx := lexer.New(file, lexer.Options{Reporter: &lexer.ReporterAdapter{Bag: bag}})
		result := parser.ParseFile(fileID, lx, interner, parser.Options{
			Reporter:  diag.BagReporter{Bag: bag},
			MaxErrors: 50,
		})
		if bag.HasErrors() {
			t.Fatalf("unexpected parse errors: %v", bag.Items())
		}
		units = append(units, result.Tree)
	}
	return driver.NewProgram(fs, units)
}

func mustAdd(t *testing.T, d driver.Driver, gs ...gen.Generator) driver.Driver {
	t.Helper()
	d, err := d.AddGenerators(gs...)
	if err != nil {
		t.Fatalf("AddGenerators failed: %v", err)
	}
	return d
}

func mustRun(t *testing.T, d driver.Driver, program driver.Program) (driver.Driver, driver.Program, *diag.Bag) {
	t.Helper()
	d, program, bag, err := d.RunFullGeneration(context.Background(), program)
	if err != nil {
		t.Fatalf("RunFullGeneration failed: %v", err)
	}
	return d, program, bag
}

func countCode(bag *diag.Bag, code diag.Code) int {
	n := 0
	for _, item := range bag.Items() {
		if item.Code == code {
			n++
		}
	}
	return n
}

func TestStateTransitions(t *testing.T) {
	program := makeProgram(t, `class A;`)
	d := driver.New(driver.Options{})
	d = mustAdd(t, d, emits("g", "a.g.ql", "x"))

	if d.State() != driver.StateUnconfigured {
		t.Fatalf("expected Unconfigured, got %v", d.State())
	}

	d, program, _ = mustRun(t, d, program)
	if d.State() != driver.StateFullyGenerated {
		t.Fatalf("expected FullyGenerated, got %v", d.State())
	}

	d = d.WithPendingEdits(gen.Edit{Kind: gen.EditTextAdded, Text: gen.AdditionalText{Path: "t.txt"}})
	if d.State() != driver.StatePendingEdits {
		t.Fatalf("expected PendingEdits, got %v", d.State())
	}

	// Полный запуск сбрасывает очередь.
	d, _, _ = mustRun(t, d, program)
	if d.State() != driver.StateFullyGenerated {
		t.Fatalf("expected FullyGenerated after rerun, got %v", d.State())
	}
	if len(d.PendingEdits()) != 0 {
		t.Fatalf("expected empty queue, got %d edits", len(d.PendingEdits()))
	}
}

// Повторный запуск над теми же входами даёт байт-в-байт тот же вывод.
func TestRunIdempotence(t *testing.T) {
	program := makeProgram(t, `class A;`)
	d := driver.New(driver.Options{})
	d = mustAdd(t, d, emits("g1", "one.g.ql", "first"), emits("g2", "two.g.ql", "second"))

	d, p1, _ := mustRun(t, d, program)
	_, p2, _ := mustRun(t, d, program)

	a1, a2 := p1.GeneratedSources(), p2.GeneratedSources()
	if len(a1) != 2 || len(a2) != 2 {
		t.Fatalf("expected 2 artifacts per run, got %d and %d", len(a1), len(a2))
	}
	for i := range a1 {
		if a1[i] != a2[i] {
			t.Errorf("artifact %d differs: %v vs %v", i, a1[i], a2[i])
		}
	}
}

// Init зовётся ровно один раз за всю жизнь handle, сколько бы ни было запусков
// и производных значений драйвера.
func TestInitOnceEver(t *testing.T) {
	program := makeProgram(t, `class A;`)
	g := emits("g", "a.g.ql", "x")
	d := driver.New(driver.Options{})
	d = mustAdd(t, d, g)

	d1, _, _ := mustRun(t, d, program)
	d2, _, _ := mustRun(t, d1, program)
	mustRun(t, d2, program)
	// И запуск от старого значения — handle общий.
	mustRun(t, d1, program)

	if g.initCount != 1 {
		t.Fatalf("expected exactly 1 init call, got %d", g.initCount)
	}
}

// Упавший Init навсегда выключает генератор; предупреждение повторяется
// на каждом полном запуске, остальные генераторы работают.
func TestInitFailureIsolatedAndRewarned(t *testing.T) {
	program := makeProgram(t, `class A;`)
	broken := &testGen{name: "broken", initErr: errors.New("bad config")}
	healthy := emits("healthy", "ok.g.ql", "fine")

	d := driver.New(driver.Options{})
	d = mustAdd(t, d, broken, healthy)

	d, p1, bag1 := mustRun(t, d, program)
	if got := countCode(bag1, diag.GenInitFailed); got != 1 {
		t.Fatalf("run 1: expected 1 init warning, got %d", got)
	}
	if len(p1.GeneratedSources()) != 1 || p1.GeneratedSources()[0].HintName != "ok.g.ql" {
		t.Fatalf("expected only healthy output, got %v", p1.GeneratedSources())
	}

	_, _, bag2 := mustRun(t, d, program)
	if got := countCode(bag2, diag.GenInitFailed); got != 1 {
		t.Fatalf("run 2: expected repeated init warning, got %d", got)
	}
	if broken.initCount != 1 {
		t.Fatalf("failed init must not be retried, got %d calls", broken.initCount)
	}
}

// Паника одного генератора — warning; второй генератор всё равно вносит вклад.
func TestExecuteFailureIsolation(t *testing.T) {
	program := makeProgram(t, `class A;`)
	panicking := &testGen{
		name: "panicking",
		execute: func(*gen.ExecContext) error {
			panic("kaboom")
		},
	}
	healthy := emits("healthy", "d.g.ql", "D")

	d := driver.New(driver.Options{})
	d = mustAdd(t, d, panicking, healthy)

	_, p, bag := mustRun(t, d, program)
	if got := countCode(bag, diag.GenExecuteFailed); got != 1 {
		t.Fatalf("expected 1 execute warning, got %d: %v", got, bag.Items())
	}
	arts := p.GeneratedSources()
	if len(arts) != 1 || arts[0].HintName != "d.g.ql" || arts[0].Content != "D" {
		t.Fatalf("expected healthy artifact only, got %v", arts)
	}
}

// Коллизия hint name между генераторами фатальна: запуск прерывается,
// драйвер и программа не меняются.
func TestCrossGeneratorHintCollisionFatal(t *testing.T) {
	program := makeProgram(t, `class A;`)
	d := driver.New(driver.Options{})
	d = mustAdd(t, d, emits("g1", "same.g.ql", "one"), emits("g2", "same.g.ql", "two"))

	d2, p2, _, err := d.RunFullGeneration(context.Background(), program)
	if err == nil {
		t.Fatal("expected hint collision error")
	}
	if d2.State() != driver.StateUnconfigured {
		t.Fatalf("driver must stay unchanged, got state %v", d2.State())
	}
	if len(p2.GeneratedSources()) != 0 {
		t.Fatalf("program must stay unchanged, got %v", p2.GeneratedSources())
	}
}

// Дубль hint name внутри одного генератора — та же фатальная ошибка.
func TestWithinGeneratorHintCollisionFatal(t *testing.T) {
	program := makeProgram(t, `class A;`)
	dup := &testGen{
		name: "dup",
		execute: func(ec *gen.ExecContext) error {
			if err := ec.AddSource("x.g.ql", "a"); err != nil {
				return err
			}
			return ec.AddSource("x.g.ql", "b")
		},
	}
	d := driver.New(driver.Options{})
	d = mustAdd(t, d, dup)

	_, _, _, err := d.RunFullGeneration(context.Background(), program)
	var collision *gen.HintCollisionError
	if !errors.As(err, &collision) {
		t.Fatalf("expected HintCollisionError, got %v", err)
	}
}

func TestDuplicateGeneratorName(t *testing.T) {
	d := driver.New(driver.Options{})
	_, err := d.AddGenerators(emits("same", "a.g.ql", "1"), emits("same", "b.g.ql", "2"))
	if err == nil {
		t.Fatal("expected duplicate name error")
	}
}

// Отменённый контекст возвращает значение-приёмник без изменений.
func TestCancelledRunLeavesDriverUnchanged(t *testing.T) {
	program := makeProgram(t, `class A;`)
	g := emits("g", "a.g.ql", "x")
	d := driver.New(driver.Options{})
	d = mustAdd(t, d, g)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	d2, _, _, err := d.RunFullGeneration(ctx, program)
	if err == nil {
		t.Fatal("expected cancellation error")
	}
	if d2.State() != driver.StateUnconfigured {
		t.Fatalf("expected unchanged driver, got state %v", d2.State())
	}
	if g.initCount != 0 {
		t.Fatalf("cancelled run must not init generators, got %d", g.initCount)
	}
}
