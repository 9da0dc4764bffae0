package diagfmt

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/fatih/color"

	"quill/internal/diag"
	"quill/internal/source"
)

// Pretty форматирует диагностики в человекочитаемый вид.
// Идёт по bag.Items() (ожидается bag.Sort() заранее).
// Для каждой диагностики печатает:
// <path>:<line>:<col>: <SEV> <CODE>: <Message>
// затем Notes с отступом. Цвет включается опцией.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	if bag == nil {
		return
	}
	for _, d := range bag.Items() {
		fmt.Fprintf(w, "%s: %s %s: %s\n",
			formatSpan(d.Primary, fs, opts.PathMode),
			severityText(d.Severity, opts.Color),
			d.Code.String(),
			d.Message)
		if opts.ShowNotes {
			for _, note := range d.Notes {
				fmt.Fprintf(w, "  note: %s: %s\n", formatSpan(note.Span, fs, opts.PathMode), note.Msg)
			}
		}
	}
}

func severityText(sev diag.Severity, colored bool) string {
	text := sev.String()
	if !colored {
		return text
	}
	switch sev {
	case diag.SevError:
		return color.New(color.FgRed, color.Bold).Sprint(text)
	case diag.SevWarning:
		return color.New(color.FgYellow, color.Bold).Sprint(text)
	default:
		return color.New(color.FgCyan).Sprint(text)
	}
}

// formatSpan — "<path>:<line>:<col>" либо "<generator>" для диагностик без позиции.
func formatSpan(sp source.Span, fs *source.FileSet, mode PathMode) string {
	if fs == nil || fs.Len() == 0 || (sp == source.Span{}) {
		return "<generator>"
	}
	f := fs.Get(sp.File)
	start, _ := fs.Resolve(sp)
	return fmt.Sprintf("%s:%d:%d", formatPath(f.Path, fs.BaseDir(), mode), start.Line, start.Col)
}

func formatPath(path, baseDir string, mode PathMode) string {
	switch mode {
	case PathModeAbsolute:
		if abs, err := filepath.Abs(path); err == nil {
			return abs
		}
		return path
	case PathModeBasename:
		return filepath.Base(path)
	case PathModeRelative, PathModeAuto:
		if rel, err := filepath.Rel(baseDir, path); err == nil && !filepath.IsAbs(rel) {
			return rel
		}
		return path
	default:
		return path
	}
}
