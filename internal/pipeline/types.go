package pipeline

import "time"

// Stage describes a high-level generation pipeline phase.
type Stage string

const (
	// StageParse is the per-file parsing stage.
	StageParse Stage = "parse"
	// StageAliases is the global-alias collection stage.
	StageAliases Stage = "aliases"
	// StageGenerate is the per-generator execution stage.
	StageGenerate Stage = "generate"
	// StageMerge is the artifact merge stage.
	StageMerge Stage = "merge"
)

// Status captures progress state within a stage.
type Status string

const (
	// StatusQueued indicates the task is waiting to start.
	StatusQueued Status = "queued"
	// StatusWorking indicates the task is currently working.
	StatusWorking Status = "working"
	// StatusDone indicates the task is done.
	StatusDone Status = "done"
	// StatusError indicates the task encountered an error.
	StatusError Status = "error"
)

// Event reports progress for a named unit of work: a file during parsing, a
// generator during execution, or the overall pipeline when Name is empty.
type Event struct {
	Name    string
	Stage   Stage
	Status  Status
	Err     error
	Elapsed time.Duration
}

// ProgressSink consumes progress events.
type ProgressSink interface {
	OnEvent(Event)
}
