package token

var keywords = map[string]Kind{
	"global":    KwGlobal,
	"using":     KwUsing,
	"namespace": KwNamespace,
	"class":     KwClass,
	"struct":    KwStruct,
	"interface": KwInterface,
	"record":    KwRecord,
	"enum":      KwEnum,
}

// LookupKeyword возвращает Kind ключевого слова, если лексема им является.
// Регистр важен: "Class" — обычный идентификатор.
func LookupKeyword(lexeme string) (Kind, bool) {
	kind, ok := keywords[lexeme]
	return kind, ok
}
