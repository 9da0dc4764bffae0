package lexer

import (
	"quill/internal/source"
	"quill/internal/token"
)

// Lexer выдаёт значимые токены quill-подмножества; пробелы и комментарии
// пропускаются на месте, без модели trivia.
type Lexer struct {
	file   *source.File
	cursor Cursor
	opts   Options
	look   *token.Token // 1-элементный буфер для Peek
}

func New(file *source.File, opts Options) *Lexer {
	return &Lexer{
		file:   file,
		cursor: NewCursor(file),
		opts:   opts,
	}
}

// Next возвращает следующий значимый токен. После EOF всегда возвращает EOF.
func (lx *Lexer) Next() token.Token {
	if lx.look != nil {
		tok := *lx.look
		lx.look = nil
		return tok
	}
	return lx.scan()
}

// Peek возвращает следующий токен, не съедая его.
func (lx *Lexer) Peek() token.Token {
	if lx.look == nil {
		tok := lx.scan()
		lx.look = &tok
	}
	return *lx.look
}

func (lx *Lexer) scan() token.Token {
	lx.skipTrivia()

	if lx.cursor.EOF() {
		return token.Token{
			Kind: token.EOF,
			Span: lx.emptySpan(),
			Text: "",
		}
	}

	ch := lx.cursor.Peek()

	switch {
	case isIdentStartByte(ch) || ch >= utf8RuneSelf:
		return lx.scanIdentOrKeyword()
	case isDec(ch):
		return lx.scanNumber()
	case ch == '"':
		return lx.scanString()
	default:
		return lx.scanPunct()
	}
}

// Tokens сканирует весь файл до EOF включительно.
func (lx *Lexer) Tokens() []token.Token {
	var out []token.Token
	for {
		tok := lx.Next()
		out = append(out, tok)
		if tok.Kind == token.EOF {
			break
		}
	}
	return out
}

// skipTrivia пропускает пробелы, строчные и блочные комментарии.
func (lx *Lexer) skipTrivia() {
	for !lx.cursor.EOF() {
		ch := lx.cursor.Peek()
		switch {
		case ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r':
			lx.cursor.Bump()
		case ch == '/':
			b0, b1, ok := lx.cursor.Peek2()
			if !ok || b0 != '/' {
				return
			}
			switch b1 {
			case '/':
				// строчный комментарий до конца строки
				for !lx.cursor.EOF() && lx.cursor.Peek() != '\n' {
					lx.cursor.Bump()
				}
			case '*':
				lx.skipBlockComment()
			default:
				return
			}
		default:
			return
		}
	}
}

func (lx *Lexer) skipBlockComment() {
	start := lx.cursor.Mark()
	lx.cursor.Bump() // '/'
	lx.cursor.Bump() // '*'
	for !lx.cursor.EOF() {
		if lx.cursor.Eat('*') {
			if lx.cursor.Eat('/') {
				return
			}
			continue
		}
		lx.cursor.Bump()
	}
	lx.report("unterminated-comment", lx.cursor.SpanFrom(start), "unterminated block comment")
}

func (lx *Lexer) scanIdentOrKeyword() token.Token {
	start := lx.cursor.Mark()

	r, sz := lx.peekRune()
	if sz == 0 {
		return token.Token{Kind: token.Invalid, Span: lx.cursor.SpanFrom(start), Text: ""}
	}
	if r < utf8RuneSelf {
		lx.cursor.Bump()
		for isIdentContinueByte(lx.cursor.Peek()) {
			lx.cursor.Bump()
		}
		// возможен Unicode-хвост
		for {
			r2, sz2 := lx.peekRune()
			if sz2 <= 1 || !isIdentContinueRune(r2) {
				break
			}
			lx.bumpRune()
			for isIdentContinueByte(lx.cursor.Peek()) {
				lx.cursor.Bump()
			}
		}
	} else {
		if !isIdentStartRune(r) {
			return lx.scanPunct()
		}
		lx.bumpRune()
		for {
			r2, sz2 := lx.peekRune()
			if sz2 == 0 || !isIdentContinueRune(r2) {
				break
			}
			lx.bumpRune()
		}
	}

	sp := lx.cursor.SpanFrom(start)
	text := string(lx.file.Content[sp.Start:sp.End])

	// Проверка на ключевое слово (регистрозависимо)
	if k, ok := token.LookupKeyword(text); ok {
		return token.Token{Kind: k, Span: sp, Text: text}
	}
	return token.Token{Kind: token.Ident, Span: sp, Text: text}
}

func (lx *Lexer) scanNumber() token.Token {
	start := lx.cursor.Mark()
	for isDec(lx.cursor.Peek()) {
		lx.cursor.Bump()
	}
	sp := lx.cursor.SpanFrom(start)
	return token.Token{
		Kind: token.IntLit,
		Span: sp,
		Text: string(lx.file.Content[sp.Start:sp.End]),
	}
}

func (lx *Lexer) scanString() token.Token {
	start := lx.cursor.Mark()
	lx.cursor.Bump() // opening quote
	for !lx.cursor.EOF() {
		ch := lx.cursor.Bump()
		if ch == '\\' && !lx.cursor.EOF() {
			lx.cursor.Bump()
			continue
		}
		if ch == '"' {
			sp := lx.cursor.SpanFrom(start)
			return token.Token{
				Kind: token.StringLit,
				Span: sp,
				Text: string(lx.file.Content[sp.Start:sp.End]),
			}
		}
		if ch == '\n' {
			break
		}
	}
	sp := lx.cursor.SpanFrom(start)
	lx.report("unterminated-string", sp, "unterminated string literal")
	return token.Token{
		Kind: token.Invalid,
		Span: sp,
		Text: string(lx.file.Content[sp.Start:sp.End]),
	}
}

func (lx *Lexer) scanPunct() token.Token {
	start := lx.cursor.Mark()
	ch := lx.cursor.Bump()

	var kind token.Kind
	switch ch {
	case '.':
		kind = token.Dot
	case ',':
		kind = token.Comma
	case ';':
		kind = token.Semicolon
	case '=':
		kind = token.Assign
	case '[':
		kind = token.LBracket
	case ']':
		kind = token.RBracket
	case '{':
		kind = token.LBrace
	case '}':
		kind = token.RBrace
	case '(':
		kind = token.LParen
	case ')':
		kind = token.RParen
	default:
		kind = token.Invalid
	}

	sp := lx.cursor.SpanFrom(start)
	tok := token.Token{
		Kind: kind,
		Span: sp,
		Text: string(lx.file.Content[sp.Start:sp.End]),
	}
	if kind == token.Invalid {
		lx.report("unknown-char", sp, "unexpected character "+tok.Text)
	}
	return tok
}

// EmptySpan возвращает пустой span на текущей позиции (для инициализации узлов).
func (lx *Lexer) EmptySpan() source.Span {
	return lx.emptySpan()
}

func (lx *Lexer) emptySpan() source.Span {
	return source.Span{
		File:  lx.file.ID,
		Start: lx.cursor.Off,
		End:   lx.cursor.Off,
	}
}
