package token

// Kind represents the category of a source token.
type Kind uint8

const (
	// Invalid indicates an erroneous token.
	Invalid Kind = iota
	// EOF marks the end of the source input.
	EOF

	// Ident represents an identifier token.
	Ident
	// IntLit represents an integer literal (attribute arguments only).
	IntLit
	// StringLit represents a string literal (attribute arguments only).
	StringLit

	// KwGlobal represents the 'global' keyword.
	KwGlobal // global
	// KwUsing represents the 'using' keyword.
	KwUsing // using
	// KwNamespace represents the 'namespace' keyword.
	KwNamespace // namespace
	// KwClass represents the 'class' keyword.
	KwClass // class
	// KwStruct represents the 'struct' keyword.
	KwStruct // struct
	// KwInterface represents the 'interface' keyword.
	KwInterface // interface
	// KwRecord represents the 'record' keyword.
	KwRecord // record
	// KwEnum represents the 'enum' keyword.
	KwEnum // enum

	// Dot represents '.'.
	Dot
	// Comma represents ','.
	Comma
	// Semicolon represents ';'.
	Semicolon
	// Assign represents '='.
	Assign
	// LBracket represents '['.
	LBracket
	// RBracket represents ']'.
	RBracket
	// LBrace represents '{'.
	LBrace
	// RBrace represents '}'.
	RBrace
	// LParen represents '('.
	LParen
	// RParen represents ')'.
	RParen
)

var kindNames = map[Kind]string{
	Invalid:     "Invalid",
	EOF:         "EOF",
	Ident:       "Ident",
	IntLit:      "IntLit",
	StringLit:   "StringLit",
	KwGlobal:    "global",
	KwUsing:     "using",
	KwNamespace: "namespace",
	KwClass:     "class",
	KwStruct:    "struct",
	KwInterface: "interface",
	KwRecord:    "record",
	KwEnum:      "enum",
	Dot:         ".",
	Comma:       ",",
	Semicolon:   ";",
	Assign:      "=",
	LBracket:    "[",
	RBracket:    "]",
	LBrace:      "{",
	RBrace:      "}",
	LParen:      "(",
	RParen:      ")",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "Unknown"
}
