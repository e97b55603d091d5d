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
	// Number is a numeric literal, optionally suffixed: 12, 1.5, 7u8, 2.0f32.
	Number
	// Lifetime is 'a.
	Lifetime
	// Label is $x, the binding name of a pattern.
	Label

	KwIf   // if
	KwElse // else
	KwThen // then
	KwIs   // is
	KwTrue // true
	KwMut  // mut

	Plus       // +
	Minus      // -
	Star       // *
	Slash      // /
	Percent    // %
	Assign     // =
	EqEq       // ==
	Bang       // !
	BangEq     // !=
	Lt         // <
	LtEq       // <=
	Gt         // >
	GtEq       // >=
	Shl        // <<
	Shr        // >>
	Amp        // &
	Pipe       // |
	Caret      // ^
	AndAnd     // &&
	OrOr       // ||
	Question   // ?
	ColonColon // ::
	Semicolon  // ;
	Comma      // ,
	Dot        // .
	LParen     // (
	RParen     // )
	LBrace     // {
	RBrace     // }
)

var kindNames = [...]string{
	Invalid:    "Invalid",
	EOF:        "EOF",
	Ident:      "Ident",
	Number:     "Number",
	Lifetime:   "Lifetime",
	Label:      "Label",
	KwIf:       "KwIf",
	KwElse:     "KwElse",
	KwThen:     "KwThen",
	KwIs:       "KwIs",
	KwTrue:     "KwTrue",
	KwMut:      "KwMut",
	Plus:       "Plus",
	Minus:      "Minus",
	Star:       "Star",
	Slash:      "Slash",
	Percent:    "Percent",
	Assign:     "Assign",
	EqEq:       "EqEq",
	Bang:       "Bang",
	BangEq:     "BangEq",
	Lt:         "Lt",
	LtEq:       "LtEq",
	Gt:         "Gt",
	GtEq:       "GtEq",
	Shl:        "Shl",
	Shr:        "Shr",
	Amp:        "Amp",
	Pipe:       "Pipe",
	Caret:      "Caret",
	AndAnd:     "AndAnd",
	OrOr:       "OrOr",
	Question:   "Question",
	ColonColon: "ColonColon",
	Semicolon:  "Semicolon",
	Comma:      "Comma",
	Dot:        "Dot",
	LParen:     "LParen",
	RParen:     "RParen",
	LBrace:     "LBrace",
	RBrace:     "RBrace",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return "Kind(?)"
}
