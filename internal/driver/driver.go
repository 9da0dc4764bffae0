package driver

import (
	"fmt"
	"slices"

	"quill/internal/gen"
	"quill/internal/pipeline"
	"quill/internal/scan"
)

// State describes where a Driver value sits in its lifecycle.
type State uint8

const (
	// StateUnconfigured — ни одного полного запуска ещё не было.
	StateUnconfigured State = iota
	// StateFullyGenerated — есть кэш последнего полного вывода, очередь пуста.
	StateFullyGenerated
	// StatePendingEdits — есть кэш и непустая очередь правок.
	StatePendingEdits
)

func (s State) String() string {
	switch s {
	case StateUnconfigured:
		return "Unconfigured"
	case StateFullyGenerated:
		return "FullyGenerated"
	case StatePendingEdits:
		return "PendingEdits"
	}
	return "Unknown"
}

type handleState uint8

const (
	handleNew handleState = iota
	handleReady
	handleFailed
)

// handle — общее (между производными Driver-значениями) состояние одного
// генератора: инициализация случается ровно один раз за всё время жизни.
type handle struct {
	g         gen.Generator
	state     handleState
	callbacks []gen.EditCallback
	initErr   error
}

// runSnapshot — кэш последнего полного вывода: набор генераторов на момент
// запуска и артефакты каждого. После создания не мутируется.
type runSnapshot struct {
	handles []*handle
	perGen  []*gen.ArtifactSet
	merged  []gen.GeneratedSource
}

// Options configures a new Driver.
type Options struct {
	// Jobs ограничивает параллелизм генераторов и пофайлового скана (0 = GOMAXPROCS).
	Jobs int
	// MaxDiagnostics ограничивает размер diag.Bag одного запуска (0 = 100).
	MaxDiagnostics int
	// Progress получает события хода запуска (nil = без прогресса).
	Progress pipeline.ProgressSink
}

// Driver — значение; каждый переход возвращает новое значение.
type Driver struct {
	handles []*handle
	texts   []gen.AdditionalText
	edits   []gen.Edit
	scans   *scan.Cache
	opts    Options
	last    *runSnapshot
}

// New creates an empty driver; generators may be added later.
func New(opts Options) Driver {
	if opts.MaxDiagnostics == 0 {
		opts.MaxDiagnostics = 100
	}
	return Driver{
		scans: scan.NewCache(),
		opts:  opts,
	}
}

// State returns the lifecycle state of this value.
func (d Driver) State() State {
	switch {
	case d.last == nil:
		return StateUnconfigured
	case len(d.edits) > 0:
		return StatePendingEdits
	default:
		return StateFullyGenerated
	}
}

// Generators returns the registered generators in registration order.
func (d Driver) Generators() []gen.Generator {
	out := make([]gen.Generator, len(d.handles))
	for i, h := range d.handles {
		out[i] = h.g
	}
	return out
}

// AdditionalTexts returns the current auxiliary inputs. READONLY.
func (d Driver) AdditionalTexts() []gen.AdditionalText { return d.texts }

// PendingEdits returns the queued edits in arrival order. READONLY.
func (d Driver) PendingEdits() []gen.Edit { return d.edits }

// AddGenerators appends generators and returns the new value. It never
// initializes or runs anything; the next TryApplyEdits is invalidated until
// a full run (the new generator has no artifact set to edit). A duplicate
// generator name is a fatal configuration error.
func (d Driver) AddGenerators(gs ...gen.Generator) (Driver, error) {
	seen := make(map[string]struct{}, len(d.handles)+len(gs))
	for _, h := range d.handles {
		seen[h.g.Name()] = struct{}{}
	}

	handles := slices.Clone(d.handles)
	for _, g := range gs {
		name := g.Name()
		if _, dup := seen[name]; dup {
			return d, fmt.Errorf("generator %q registered twice", name)
		}
		seen[name] = struct{}{}
		handles = append(handles, &handle{g: g})
	}
	d.handles = handles
	return d, nil
}

// WithAdditionalTexts appends auxiliary inputs and returns the new value.
func (d Driver) WithAdditionalTexts(texts ...gen.AdditionalText) Driver {
	d.texts = append(slices.Clone(d.texts), texts...)
	return d
}

// WithPendingEdits queues edits and returns the new value. The text set is
// updated immediately, так что последующий полный запуск уже отражает
// текущие входы и отброшенная очередь не теряет данных.
func (d Driver) WithPendingEdits(edits ...gen.Edit) Driver {
	d.edits = append(slices.Clone(d.edits), edits...)
	texts := slices.Clone(d.texts)
	for _, e := range edits {
		texts = applyTextEdit(texts, e)
	}
	d.texts = texts
	return d
}

// applyTextEdit применяет одну правку к набору additional texts (identity — путь).
func applyTextEdit(texts []gen.AdditionalText, e gen.Edit) []gen.AdditionalText {
	switch e.Kind {
	case gen.EditTextAdded:
		return append(texts, e.Text)
	case gen.EditTextRemoved:
		return slices.DeleteFunc(texts, func(t gen.AdditionalText) bool {
			return t.Path == e.Text.Path
		})
	case gen.EditTextChanged:
		for i := range texts {
			if texts[i].Path == e.Text.Path {
				texts[i] = e.Text
			}
		}
		return texts
	default:
		return texts
	}
}

// sameHandles — тот же набор генераторов (те же указатели в том же порядке)?
func sameHandles(a, b []*handle) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func (d Driver) jobs() int {
	return d.opts.Jobs
}

func (d Driver) emit(evt pipeline.Event) {
	if d.opts.Progress != nil {
		d.opts.Progress.OnEvent(evt)
	}
}
