package parser

import (
	"quill/internal/diag"
	"quill/internal/source"
	"quill/internal/syntax"
	"quill/internal/token"
)

// pendingAttr — атрибут, распознанный до того, как создан узел декларации.
// Узлы атрибутов материализуются первыми детьми декларации, поэтому
// pre-order обхода совпадает с порядком объявления.
type pendingAttr struct {
	name []source.StringID
	span source.Span
}

type pendingAttrList struct {
	attrs []pendingAttr
	span  source.Span
}

// parseDecl разбирает декларацию с опциональными списками атрибутов:
//
//	{ "[" Attr {"," Attr} "]" }* (namespace | class | struct | interface | record | enum)
func (p *Parser) parseDecl(parent syntax.NodeID) bool {
	var lists []pendingAttrList
	for p.at(token.LBracket) {
		list, ok := p.parseAttributeList()
		if !ok {
			return false
		}
		lists = append(lists, list)
	}

	switch p.lx.Peek().Kind {
	case token.KwNamespace:
		return p.parseNamespace(parent, lists)
	case token.KwClass, token.KwStruct, token.KwInterface, token.KwRecord, token.KwEnum:
		return p.parseTypeDecl(parent, lists)
	default:
		p.err(diag.SynUnexpectedToken, "expected declaration after attribute list")
		return false
	}
}

func (p *Parser) parseAttributeList() (pendingAttrList, bool) {
	open := p.advance() // '['
	list := pendingAttrList{span: open.Span}

	if p.at(token.RBracket) {
		p.report(diag.SynEmptyAttributeList, diag.SevWarning, open.Span.Cover(p.lx.Peek().Span), "empty attribute list")
		close := p.advance()
		list.span = list.span.Cover(close.Span)
		return list, true
	}

	for {
		segs, sp, ok := p.parseDottedName()
		if !ok {
			return list, false
		}
		// Аргументы атрибута лексируются, но не интерпретируются.
		if p.at(token.LParen) {
			argSpan, ok := p.skipAttributeArgs()
			if !ok {
				return list, false
			}
			sp = sp.Cover(argSpan)
		}
		list.attrs = append(list.attrs, pendingAttr{name: segs, span: sp})

		if p.at(token.Comma) {
			p.advance()
			continue
		}
		break
	}

	close, ok := p.expect(token.RBracket, diag.SynExpectRBracket, "expected ']' to close attribute list")
	if !ok {
		return list, false
	}
	list.span = list.span.Cover(close.Span)
	return list, true
}

// skipAttributeArgs пропускает сбалансированные скобки аргументов атрибута.
func (p *Parser) skipAttributeArgs() (source.Span, bool) {
	open := p.advance() // '('
	sp := open.Span
	depth := 1
	for depth > 0 {
		switch p.lx.Peek().Kind {
		case token.EOF:
			p.err(diag.SynUnclosedDelimiter, "unclosed attribute argument list")
			return sp, false
		case token.LParen:
			depth++
		case token.RParen:
			depth--
		}
		tok := p.advance()
		sp = sp.Cover(tok.Span)
	}
	return sp, true
}

// skipBalancedBraces пропускает токены до '}', парного уже съеденной '{'.
func (p *Parser) skipBalancedBraces() {
	depth := 1
	for depth > 0 && !p.at(token.EOF) {
		switch p.advance().Kind {
		case token.LBrace:
			depth++
		case token.RBrace:
			depth--
		}
	}
}

// attachAttrs материализует накопленные списки атрибутов детьми decl-узла.
func (p *Parser) attachAttrs(decl syntax.NodeID, lists []pendingAttrList) {
	for _, list := range lists {
		listID := p.tree.New(syntax.KindAttributeList, list.span, decl)
		for _, attr := range list.attrs {
			attrID := p.tree.New(syntax.KindAttribute, attr.span, listID)
			p.tree.SetName(attrID, attr.name)
		}
		p.tree.CoverSpan(decl, list.span)
	}
}

// parseNamespace разбирает `namespace N.M { members }`.
func (p *Parser) parseNamespace(parent syntax.NodeID, lists []pendingAttrList) bool {
	kw := p.advance() // 'namespace'

	segs, nameSpan, ok := p.parseDottedName()
	if !ok {
		return false
	}

	id := p.tree.New(syntax.KindNamespaceDecl, kw.Span.Cover(nameSpan), parent)
	p.tree.SetName(id, segs)
	p.attachAttrs(id, lists)

	if _, ok := p.expect(token.LBrace, diag.SynExpectLBrace, "expected '{' after namespace name"); !ok {
		return false
	}

	for !p.at(token.RBrace) && !p.at(token.EOF) {
		if !p.parseMember(id) {
			p.resync()
		}
	}

	close, ok := p.expect(token.RBrace, diag.SynUnclosedDelimiter, "expected '}' to close namespace")
	if ok {
		p.tree.CoverSpan(id, close.Span)
	}
	return ok
}

var declKinds = map[token.Kind]syntax.NodeKind{
	token.KwClass:     syntax.KindClassDecl,
	token.KwStruct:    syntax.KindStructDecl,
	token.KwInterface: syntax.KindInterfaceDecl,
	token.KwRecord:    syntax.KindRecordDecl,
	token.KwEnum:      syntax.KindEnumDecl,
}

// parseTypeDecl разбирает `class Name { nested... }` (и struct/interface/record/enum).
// Тело опционально: допускается `class Name;`.
func (p *Parser) parseTypeDecl(parent syntax.NodeID, lists []pendingAttrList) bool {
	kw := p.advance()
	kind := declKinds[kw.Kind]

	name, ok := p.expect(token.Ident, diag.SynExpectName, "expected type name")
	if !ok {
		return false
	}

	id := p.tree.New(kind, kw.Span.Cover(name.Span), parent)
	p.tree.SetName(id, []source.StringID{p.interner.Intern(name.Text)})
	p.attachAttrs(id, lists)

	if p.at(token.Semicolon) {
		close := p.advance()
		p.tree.CoverSpan(id, close.Span)
		return true
	}

	if _, ok := p.expect(token.LBrace, diag.SynExpectLBrace, "expected '{' or ';' after type name"); !ok {
		return false
	}

	// Внутри тела распознаём только вложенные декларации; прочие токены
	// пропускаются до границы.
	for !p.at(token.RBrace) && !p.at(token.EOF) {
		switch p.lx.Peek().Kind {
		case token.LBracket, token.KwClass, token.KwStruct, token.KwInterface,
			token.KwRecord, token.KwEnum:
			if !p.parseDecl(id) {
				p.resync()
			}
		default:
			// Пропускаемая конструкция может содержать собственные скобки.
			if tok := p.advance(); tok.Kind == token.LBrace {
				p.skipBalancedBraces()
			}
		}
	}

	close, ok := p.expect(token.RBrace, diag.SynUnclosedDelimiter, "expected '}' to close type body")
	if ok {
		p.tree.CoverSpan(id, close.Span)
	}
	return ok
}
