package driver

import (
	"slices"

	"quill/internal/gen"
	"quill/internal/source"
	"quill/internal/syntax"
)

// Program — неизменяемый снимок программы: упорядоченные compilation units
// плюс набор сгенерированных артефактов последнего запуска.
type Program struct {
	units     []*syntax.Tree
	fileSet   *source.FileSet
	generated []gen.GeneratedSource
}

// NewProgram builds a snapshot over parsed units in caller-supplied file order.
func NewProgram(fileSet *source.FileSet, units []*syntax.Tree) Program {
	return Program{
		units:   slices.Clone(units),
		fileSet: fileSet,
	}
}

// Units returns the compilation units in file order. READONLY.
func (p Program) Units() []*syntax.Tree { return p.units }

// FileSet returns the underlying sources (may be nil for synthetic programs).
func (p Program) FileSet() *source.FileSet { return p.fileSet }

// GeneratedSources returns the merged artifacts of the last run. READONLY.
func (p Program) GeneratedSources() []gen.GeneratedSource { return p.generated }

// WithGeneratedSources returns a new snapshot with the artifact set replaced
// wholesale. The receiver is unchanged (value-update pattern).
func (p Program) WithGeneratedSources(artifacts []gen.GeneratedSource) Program {
	p.generated = slices.Clone(artifacts)
	return p
}
