package parser

import (
	"quill/internal/diag"
	"quill/internal/source"
	"quill/internal/syntax"
	"quill/internal/token"
)

// parseUsing разбирает using-директиву:
//
//	["global"] "using" [Ident "="] DottedName ";"
//
// Алиас распознаётся после факта: если за первым (одиночным) именем идёт '=',
// это имя было алиасом. Лексер даёт только один токен lookahead.
func (p *Parser) parseUsing(parent syntax.NodeID) bool {
	start := p.lx.Peek().Span

	global := false
	if p.at(token.KwGlobal) {
		p.advance()
		global = true
	}

	if _, ok := p.expect(token.KwUsing, diag.SynUnexpectedToken, "expected 'using'"); !ok {
		return false
	}

	segs, nameSpan, ok := p.parseDottedName()
	if !ok {
		return false
	}

	alias := source.NoStringID
	target := segs
	sp := start.Cover(nameSpan)

	if p.at(token.Assign) {
		if len(segs) != 1 {
			p.err(diag.SynUnexpectedToken, "alias must be a single identifier")
			return false
		}
		p.advance()
		alias = segs[0]
		var targetSpan source.Span
		target, targetSpan, ok = p.parseDottedName()
		if !ok {
			return false
		}
		sp = sp.Cover(targetSpan)
	}

	p.want(token.Semicolon, diag.SynExpectSemicolon, "expected ';' after using directive")

	id := p.tree.New(syntax.KindUsingDirective, sp, parent)
	p.tree.SetName(id, target)
	p.tree.SetAlias(id, alias, global)
	return true
}
