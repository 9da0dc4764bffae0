package diag

import (
	"fmt"
)

type Code uint16

const (
	// Неизвестная ошибка - на первое время
	UnknownCode Code = 0

	// Лексические
	LexInfo               Code = 1000
	LexUnknownChar        Code = 1001
	LexUnterminatedString Code = 1002
	LexBadNumber          Code = 1003

	// Синтаксические
	SynInfo               Code = 2000
	SynUnexpectedToken    Code = 2001
	SynUnclosedDelimiter  Code = 2002
	SynExpectIdentifier   Code = 2003
	SynExpectSemicolon    Code = 2004
	SynExpectLBrace       Code = 2005
	SynExpectRBracket     Code = 2006
	SynExpectName         Code = 2007
	SynUnexpectedTopLevel Code = 2008
	SynEmptyAttributeList Code = 2009

	// Генерация (драйвер и плагины)
	GenInfo               Code = 4000
	GenInitFailed         Code = 4001
	GenExecuteFailed      Code = 4002
	GenHintNameCollision  Code = 4003
	GenDuplicateGenerator Code = 4004

	// I/O
	IOLoadFileError  Code = 9001
	IOWriteFileError Code = 9002
)

// String возвращает стабильную строковую форму кода: QL + четыре цифры.
func (c Code) String() string {
	return fmt.Sprintf("QL%04d", uint16(c))
}
