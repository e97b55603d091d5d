package diag

import (
	"fmt"
)

type Code uint16

const (
	// Неизвестная ошибка - на первое время
	UnknownCode Code = 0

	// Лексические
	LexInfo                     Code = 1000
	LexUnknownChar              Code = 1001
	LexUnterminatedBlockComment Code = 1002
	LexBadNumber                Code = 1003
	LexBadNumberSuffix          Code = 1004
	LexBadLifetime              Code = 1005
	LexBadLabel                 Code = 1006
	LexTokenTooLong             Code = 1007

	// Парсерные
	SynInfo              Code = 2000
	SynUnexpectedToken   Code = 2001
	SynExpectExpression  Code = 2002
	SynExpectPattern     Code = 2003
	SynExpectType        Code = 2004
	SynExpectIdentifier  Code = 2005
	SynExpectSemicolon   Code = 2006
	SynUnclosedParen     Code = 2007
	SynUnclosedBrace     Code = 2008
	SynExpectBlock       Code = 2009
	SynExpectFieldName   Code = 2010
	SynEmptyExpression   Code = 2011
	SynTooManyDiagnostic Code = 2099

	// Файлы и кэш
	IOInfo         Code = 3000
	IOReadFailed   Code = 3001
	IOCacheCorrupt Code = 3002
	IOCacheWrite   Code = 3003

	// Наблюдаемость
	ObsInfo    Code = 4000
	ObsTimings Code = 4001
)

var (
	codeDescription = map[Code]string{
		UnknownCode:                 "Unknown error",
		LexInfo:                     "Lexical information",
		LexUnknownChar:              "Unknown character",
		LexUnterminatedBlockComment: "Unterminated block comment",
		LexBadNumber:                "Bad number",
		LexBadNumberSuffix:          "Bad number suffix",
		LexBadLifetime:              "Bad lifetime",
		LexBadLabel:                 "Bad label",
		LexTokenTooLong:             "Token too long",
		SynInfo:                     "Syntax information",
		SynUnexpectedToken:          "Unexpected token",
		SynExpectExpression:         "Expected expression",
		SynExpectPattern:            "Expected pattern",
		SynExpectType:               "Expected type",
		SynExpectIdentifier:         "Expected identifier",
		SynExpectSemicolon:          "Expected semicolon",
		SynUnclosedParen:            "Unclosed parenthesis",
		SynUnclosedBrace:            "Unclosed brace",
		SynExpectBlock:              "Expected block",
		SynExpectFieldName:          "Expected field name",
		SynEmptyExpression:          "Empty expression",
		SynTooManyDiagnostic:        "Too many diagnostics",
		IOInfo:                      "I/O information",
		IOReadFailed:                "Cannot read file",
		IOCacheCorrupt:              "Corrupt cache entry",
		IOCacheWrite:                "Cannot write cache entry",
		ObsInfo:                     "Observability information",
		ObsTimings:                  "Pipeline timings",
	}
)

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("LEX%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("SYN%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("IO%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("OBS%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[UnknownCode]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
