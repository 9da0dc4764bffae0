package driver

import (
	"context"
	"fmt"
	"slices"

	"quill/internal/gen"
)

// TryApplyEdits attempts to satisfy the queued edits against the cached
// full-generation output without re-running generators. It fails — with the
// program unchanged — when no full run has ever happened, when the generator
// set changed since the last full run, or when any queued edit is accepted
// by no callback. Application is atomic: one rejected edit rolls back the
// whole attempt, принятые ранее правки не остаются применёнными частично.
//
// On success the driver transitions to FullyGenerated with a cleared queue;
// artifacts untouched by the edits stay byte-identical to the prior output.
func (d Driver) TryApplyEdits(ctx context.Context, program Program) (Driver, Program, bool, error) {
	if err := ctx.Err(); err != nil {
		return d, program, false, err
	}

	// Ни одного полного запуска — нечего инкрементально править.
	if d.last == nil {
		return d, program, false, nil
	}
	// Любое изменение набора генераторов инвалидирует контракт: у нового
	// генератора нет начального набора артефактов.
	if !sameHandles(d.handles, d.last.handles) {
		return d, program, false, nil
	}
	// Пустая очередь — тривиальный успех без изменений.
	if len(d.edits) == 0 {
		return d, program, true, nil
	}

	// Правки применяются к копиям: при любом отказе откат бесплатный.
	clones := make([]*gen.ArtifactSet, len(d.last.perGen))
	for i, set := range d.last.perGen {
		clones[i] = set.Clone()
	}

	for _, edit := range d.edits {
		if err := ctx.Err(); err != nil {
			return d, program, false, err
		}
		satisfied := false
		for gi, h := range d.last.handles {
			for _, cb := range h.callbacks {
				if cb(gen.NewEditContext(clones[gi]), edit) {
					satisfied = true
				}
			}
		}
		// Правка, которую не принял ни один callback (или callback-ов нет
		// вовсе), проваливает всю очередь целиком.
		if !satisfied {
			return d, program, false, nil
		}
	}

	merged, err := mergeArtifacts(d.last.handles, clones)
	if err != nil {
		return d, program, false, err
	}

	newProgram := program.WithGeneratedSources(merged)
	d.last = &runSnapshot{
		handles: slices.Clone(d.handles),
		perGen:  clones,
		merged:  merged,
	}
	d.edits = nil
	return d, newProgram, true, nil
}

// mergeArtifacts склеивает наборы генераторов в порядке регистрации;
// коллизия hint name между генераторами — ошибка конфигурации.
func mergeArtifacts(handles []*handle, sets []*gen.ArtifactSet) ([]gen.GeneratedSource, error) {
	var merged []gen.GeneratedSource
	seen := make(map[string]int)
	for i, set := range sets {
		for _, art := range set.Items() {
			if prev, dup := seen[art.HintName]; dup {
				return nil, fmt.Errorf("hint name %q produced by both %q and %q",
					art.HintName, handles[prev].g.Name(), handles[i].g.Name())
			}
			seen[art.HintName] = i
			merged = append(merged, art)
		}
	}
	return merged, nil
}
