// Package token defines lexical token kinds for the quill source subset.
// Invariants:
//   - Token.Text is a slice of the original source (no copies).
//   - Token.Span matches Text exactly (Start..End).
//   - Attribute lists are lexed as plain '[' Ident ... ']' tokens; there are
//     no per-attribute token kinds, attribute structure is the parser's job.
//   - Keywords are contextual only where the grammar says so; the lexer
//     always reports the keyword kind and the parser decides.
package token
