package parser

import (
	"quill/internal/diag"
	"quill/internal/lexer"
	"quill/internal/source"
	"quill/internal/syntax"
	"quill/internal/token"
)

type Options struct {
	MaxErrors     uint
	CurrentErrors uint
	Reporter      diag.Reporter
}

// Enough - проверить, достигли ли мы максимального количества ошибок
func (o *Options) Enough() bool {
	if o.MaxErrors == 0 {
		return false
	}
	return o.CurrentErrors >= o.MaxErrors
}

type Result struct {
	Tree *syntax.Tree
}

// Parser — состояние парсера на один файл
type Parser struct {
	lx       *lexer.Lexer
	tree     *syntax.Tree
	interner *source.Interner
	opts     Options
	lastSpan source.Span // span последнего съеденного токена для лучшей диагностики
}

// ParseFile — входная точка для разбора одного файла.
// Требует уже созданный lexer (на основе source.File).
func ParseFile(fileID source.FileID, lx *lexer.Lexer, interner *source.Interner, opts Options) Result {
	p := Parser{
		lx:       lx,
		tree:     syntax.NewTree(fileID, interner, 64),
		interner: interner,
		opts:     opts,
		lastSpan: lx.EmptySpan(),
	}

	p.parseUnit()
	return Result{Tree: p.tree}
}

// parseUnit — основной цикл верхнего уровня: пока не EOF — parseMember.
func (p *Parser) parseUnit() {
	root := p.tree.Root()
	startSpan := p.lx.Peek().Span
	for !p.at(token.EOF) {
		if !p.parseMember(root) {
			p.resync()
		}
	}
	p.tree.CoverSpan(root, startSpan.Cover(p.lastSpan))
}

// parseMember разбирает одну конструкцию внутри unit или namespace:
// using-директиву либо декларацию (возможно с атрибутами).
func (p *Parser) parseMember(parent syntax.NodeID) bool {
	switch p.lx.Peek().Kind {
	case token.KwGlobal, token.KwUsing:
		return p.parseUsing(parent)
	case token.LBracket, token.KwNamespace, token.KwClass, token.KwStruct,
		token.KwInterface, token.KwRecord, token.KwEnum:
		return p.parseDecl(parent)
	default:
		p.err(diag.SynUnexpectedTopLevel, "expected using directive or declaration, got "+p.lx.Peek().Kind.String())
		return false
	}
}

// resync пропускает токены до следующей надёжной границы (`;`, `}` или начало конструкции).
func (p *Parser) resync() {
	for {
		switch p.lx.Peek().Kind {
		case token.EOF, token.KwGlobal, token.KwUsing, token.KwNamespace,
			token.KwClass, token.KwStruct, token.KwInterface, token.KwRecord,
			token.KwEnum, token.LBracket:
			return
		case token.Semicolon, token.RBrace:
			p.advance()
			return
		default:
			p.advance()
		}
	}
}
