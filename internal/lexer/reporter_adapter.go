package lexer

import (
	"quill/internal/diag"
	"quill/internal/source"
)

// ReporterAdapter адаптирует diag.Bag под тонкий lexer.Reporter.
type ReporterAdapter struct {
	Bag *diag.Bag
}

func (r *ReporterAdapter) Report(kind string, span source.Span, msg string) {
	if r.Bag == nil {
		return
	}
	code := diag.LexInfo
	switch kind {
	case "unknown-char":
		code = diag.LexUnknownChar
	case "unterminated-string":
		code = diag.LexUnterminatedString
	case "unterminated-comment":
		code = diag.SynUnclosedDelimiter
	}
	r.Bag.Add(diag.NewError(code, span, msg))
}
