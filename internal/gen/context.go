package gen

import (
	"context"

	"quill/internal/diag"
	"quill/internal/scan"
	"quill/internal/source"
	"quill/internal/syntax"
)

// ExecContext — изолированная поверхность одного генератора на один запуск:
// снимок программы только для чтения плюс собственный выходной набор.
// Генераторы не делят между собой никаких мутабельных коллекций.
type ExecContext struct {
	ctx      context.Context
	units    []*syntax.Tree
	fileSet  *source.FileSet
	globals  *scan.GlobalAliases
	scans    *scan.Cache
	texts    []AdditionalText
	out      *ArtifactSet
	reporter diag.Reporter

	fatal error // коллизия hint name: фатально, не диагностика
}

// ExecInputs bundles the read-only inputs the driver hands to one generator.
type ExecInputs struct {
	Units   []*syntax.Tree
	FileSet *source.FileSet
	Globals *scan.GlobalAliases
	Scans   *scan.Cache
	Texts   []AdditionalText
}

func NewExecContext(ctx context.Context, in ExecInputs, reporter diag.Reporter) *ExecContext {
	return &ExecContext{
		ctx:      ctx,
		units:    in.Units,
		fileSet:  in.FileSet,
		globals:  in.Globals,
		scans:    in.Scans,
		texts:    in.Texts,
		out:      NewArtifactSet(),
		reporter: reporter,
	}
}

// Context returns the cancellation context of the run.
func (ec *ExecContext) Context() context.Context { return ec.ctx }

// Units returns the program's compilation units in file order. READONLY.
func (ec *ExecContext) Units() []*syntax.Tree { return ec.units }

// FileSet returns the source files of the snapshot (may be nil in tests).
func (ec *ExecContext) FileSet() *source.FileSet { return ec.fileSet }

// AdditionalTexts returns the auxiliary inputs in registration order. READONLY.
func (ec *ExecContext) AdditionalTexts() []AdditionalText { return ec.texts }

// FindAttributedNodes scans one unit through the driver's shared scan cache.
func (ec *ExecContext) FindAttributedNodes(tree *syntax.Tree, attributeName string, kind syntax.NodeKind) ([]syntax.NodeID, error) {
	if ec.scans != nil {
		return ec.scans.FindAttributedNodes(ec.ctx, tree, ec.globals, attributeName, kind)
	}
	return scan.FindAttributedNodes(ec.ctx, tree, ec.globals, attributeName, kind)
}

// AddSource registers a named artifact. A duplicate hint name within the
// generator's own output is a fatal configuration error.
func (ec *ExecContext) AddSource(hintName, content string) error {
	if err := ec.out.Add(hintName, content); err != nil {
		ec.fatal = err
		return err
	}
	return nil
}

// Report passes a generator-authored diagnostic through untouched.
func (ec *ExecContext) Report(d diag.Diagnostic) {
	if ec.reporter != nil {
		ec.reporter.Report(d.Code, d.Severity, d.Primary, d.Message, d.Notes)
	}
}

// Artifacts returns the generator's output set for this run.
func (ec *ExecContext) Artifacts() *ArtifactSet { return ec.out }

// FatalErr returns the configuration error raised during execution, if any.
func (ec *ExecContext) FatalErr() error { return ec.fatal }
