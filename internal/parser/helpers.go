package parser

import (
	"quill/internal/diag"
	"quill/internal/source"
	"quill/internal/token"
)

// advance — съедает следующий токен и обновляет lastSpan
func (p *Parser) advance() token.Token {
	tok := p.lx.Next()
	if tok.Kind != token.EOF && tok.Kind != token.Invalid {
		p.lastSpan = tok.Span
	}
	return tok
}

func (p *Parser) at(k token.Kind) bool {
	return p.lx.Peek().Kind == k
}

// getDiagnosticSpan — возвращает лучший span для диагностики.
// Если текущий токен EOF с нулевой длиной, используем позицию после lastSpan.
func (p *Parser) getDiagnosticSpan() source.Span {
	peek := p.lx.Peek()
	if (peek.Kind == token.EOF || peek.Kind == token.Invalid) && peek.Span.Empty() {
		if p.lastSpan.End > 0 {
			return source.Span{
				File:  p.lastSpan.File,
				Start: p.lastSpan.End,
				End:   p.lastSpan.End,
			}
		}
	}
	return peek.Span
}

// expect — ожидаем конкретный токен. Если нет — репортим и возвращаем (invalid,false).
func (p *Parser) expect(k token.Kind, code diag.Code, msg string) (token.Token, bool) {
	if p.at(k) {
		return p.advance(), true
	}
	diagSpan := p.getDiagnosticSpan()
	p.report(code, diag.SevError, diagSpan, msg)
	return token.Token{Kind: token.Invalid, Span: diagSpan, Text: p.lx.Peek().Text}, false
}

// want - желаем увидеть токен, но кидаем warning, если нет
func (p *Parser) want(k token.Kind, code diag.Code, msg string) bool {
	if p.at(k) {
		p.advance()
		return true
	}
	p.report(code, diag.SevWarning, p.getDiagnosticSpan(), msg)
	return false
}

// репортует ошибку и передает текущий спан
func (p *Parser) err(code diag.Code, msg string) bool {
	return p.report(code, diag.SevError, p.getDiagnosticSpan(), msg)
}

func (p *Parser) report(code diag.Code, sev diag.Severity, sp source.Span, msg string) bool {
	if p.opts.Reporter == nil {
		return false
	}
	if sev == diag.SevError {
		p.opts.CurrentErrors++
	}
	if p.opts.Enough() {
		return false
	}
	p.opts.Reporter.Report(code, sev, sp, msg, nil)
	return true
}

// parseDottedName разбирает Ident { "." Ident } и возвращает сегменты.
func (p *Parser) parseDottedName() ([]source.StringID, source.Span, bool) {
	first, ok := p.expect(token.Ident, diag.SynExpectIdentifier, "expected identifier")
	if !ok {
		return nil, first.Span, false
	}
	segs := []source.StringID{p.interner.Intern(first.Text)}
	sp := first.Span
	for p.at(token.Dot) {
		p.advance()
		seg, ok := p.expect(token.Ident, diag.SynExpectIdentifier, "expected identifier after '.'")
		if !ok {
			return segs, sp, false
		}
		segs = append(segs, p.interner.Intern(seg.Text))
		sp = sp.Cover(seg.Span)
	}
	return segs, sp, true
}
