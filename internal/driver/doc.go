// Package driver orchestrates generator plugins over program snapshots.
//
// Driver is an immutable value: AddGenerators, WithAdditionalTexts,
// WithPendingEdits, RunFullGeneration and TryApplyEdits all return a new
// value and leave the receiver untouched, so a caller holding an older
// Driver keeps observing its old snapshot. There is no driver singleton.
//
// The state machine: Unconfigured (no full run yet) → FullyGenerated
// (cached output, empty edit queue) → PendingEdits (cached output, queued
// edits) → FullyGenerated again after a successful TryApplyEdits or any
// RunFullGeneration. TryApplyEdits never falls back to a full run on its
// own; it reports failure and the caller decides.
//
// Generator init state lives in handles shared by pointer across derived
// Driver values: Init runs exactly once per registered handle, ever.
package driver
