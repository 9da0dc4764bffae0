package driver

import (
	"context"
	"errors"
	"runtime"
	"slices"
	"time"

	"golang.org/x/sync/errgroup"

	"quill/internal/diag"
	"quill/internal/gen"
	"quill/internal/pipeline"
	"quill/internal/scan"
	"quill/internal/source"
)

// execSlot — результат одного генератора внутри запуска. Индексы слотов
// уникальны для каждой горутины, мьютекс не нужен.
type execSlot struct {
	artifacts *gen.ArtifactSet
	bag       *diag.Bag
	execErr   error
}

// RunFullGeneration re-executes every generator from scratch against the
// snapshot and returns the new driver value, the new program and collected
// diagnostics. Not-yet-initialized handles are initialized exactly once;
// a handle that failed to initialize is skipped and reported with one
// warning. The edit queue is always cleared: a full run supersedes queued
// edits because the text set already reflects them.
//
// Cancellation and configuration errors (hint-name collision) return the
// receiver unchanged — пред-вызовное значение и есть точка отката.
func (d Driver) RunFullGeneration(ctx context.Context, program Program) (Driver, Program, *diag.Bag, error) {
	if err := ctx.Err(); err != nil {
		return d, program, nil, err
	}

	bag := diag.NewBag(d.opts.MaxDiagnostics)

	// Фаза init: ровно один раз на handle за всю его жизнь. Сломанный handle
	// напоминает о себе предупреждением на каждом полном запуске.
	for _, h := range d.handles {
		switch h.state {
		case handleNew:
			ic := &gen.InitContext{}
			if err := gen.SafeInit(h.g, ic); err != nil {
				h.state = handleFailed
				h.initErr = err
				bag.Add(diag.NewWarning(diag.GenInitFailed, source.Span{}, err.Error()))
				continue
			}
			h.state = handleReady
			h.callbacks = ic.Callbacks()
		case handleFailed:
			bag.Add(diag.NewWarning(diag.GenInitFailed, source.Span{}, h.initErr.Error()))
		case handleReady:
			// уже инициализирован
		}
	}

	d.emit(pipeline.Event{Stage: pipeline.StageAliases, Status: pipeline.StatusWorking})
	globals, err := scan.CollectGlobalAliases(ctx, program.Units(), d.jobs())
	if err != nil {
		d.emit(pipeline.Event{Stage: pipeline.StageAliases, Status: pipeline.StatusError, Err: err})
		return d, program, bag, err
	}
	d.emit(pipeline.Event{Stage: pipeline.StageAliases, Status: pipeline.StatusDone})

	inputs := gen.ExecInputs{
		Units:   program.Units(),
		FileSet: program.FileSet(),
		Globals: globals,
		Scans:   d.scans,
		Texts:   d.texts,
	}

	slots, err := d.executeAll(ctx, inputs)
	if err != nil {
		return d, program, bag, err
	}

	// Сбор диагностик и слияние артефактов — в порядке регистрации,
	// чтобы вывод был детерминирован.
	d.emit(pipeline.Event{Stage: pipeline.StageMerge, Status: pipeline.StatusWorking})
	perGen := make([]*gen.ArtifactSet, len(d.handles))
	for i := range d.handles {
		slot := slots[i]
		if slot == nil {
			// handleFailed: не исполнялся, пустой вклад.
			perGen[i] = gen.NewArtifactSet()
			continue
		}
		bag.Merge(slot.bag)
		if slot.execErr != nil {
			// Частичный вывод упавшего генератора отбрасывается; остальные
			// генераторы не затронуты, на следующем полном запуске — повтор.
			bag.Add(diag.NewWarning(diag.GenExecuteFailed, source.Span{}, slot.execErr.Error()))
			perGen[i] = gen.NewArtifactSet()
			continue
		}
		perGen[i] = slot.artifacts
	}

	merged, err := mergeArtifacts(d.handles, perGen)
	if err != nil {
		d.emit(pipeline.Event{Stage: pipeline.StageMerge, Status: pipeline.StatusError, Err: err})
		return d, program, bag, err
	}
	d.emit(pipeline.Event{Stage: pipeline.StageMerge, Status: pipeline.StatusDone})

	newProgram := program.WithGeneratedSources(merged)
	d.last = &runSnapshot{
		handles: slices.Clone(d.handles),
		perGen:  perGen,
		merged:  merged,
	}
	d.edits = nil
	return d, newProgram, bag, nil
}

// executeAll запускает готовые генераторы параллельно, каждый со своей
// изолированной выходной поверхностью и своим diag.Bag.
func (d Driver) executeAll(ctx context.Context, inputs gen.ExecInputs) ([]*execSlot, error) {
	slots := make([]*execSlot, len(d.handles))

	jobs := d.jobs()
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, max(len(d.handles), 1)))

	for i, h := range d.handles {
		if h.state != handleReady {
			continue
		}
		i, h := i, h
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}

			name := h.g.Name()
			started := time.Now()
			d.emit(pipeline.Event{Name: name, Stage: pipeline.StageGenerate, Status: pipeline.StatusWorking})

			slot := &execSlot{bag: diag.NewBag(d.opts.MaxDiagnostics)}
			ec := gen.NewExecContext(gctx, inputs, diag.BagReporter{Bag: slot.bag})
			execErr := gen.SafeExecute(h.g, ec)

			// Отмена и фатальные ошибки конфигурации прерывают весь запуск.
			if err := gctx.Err(); err != nil {
				return err
			}
			if execErr != nil {
				var collision *gen.HintCollisionError
				if errors.As(execErr, &collision) {
					d.emit(pipeline.Event{Name: name, Stage: pipeline.StageGenerate, Status: pipeline.StatusError, Err: execErr, Elapsed: time.Since(started)})
					return execErr
				}
				slot.execErr = execErr
				d.emit(pipeline.Event{Name: name, Stage: pipeline.StageGenerate, Status: pipeline.StatusError, Err: execErr, Elapsed: time.Since(started)})
			} else {
				slot.artifacts = ec.Artifacts()
				d.emit(pipeline.Event{Name: name, Stage: pipeline.StageGenerate, Status: pipeline.StatusDone, Elapsed: time.Since(started)})
			}
			slots[i] = slot
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return slots, nil
}
