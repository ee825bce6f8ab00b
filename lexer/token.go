package lexer

type TokenKind = string

const (
	TokenIdentifier TokenKind = "identifier"
	TokenInteger    TokenKind = "integer"
	TokenDecimal    TokenKind = "decimal"
	TokenCharacter  TokenKind = "character"
	TokenString     TokenKind = "string"
	TokenOperator   TokenKind = "operator"
)

// Token is one classified lexeme. Text keeps the raw source spelling,
// delimiters and escapes included, Index is the zero-based character offset
// of its first character.
type Token struct {
	Kind  TokenKind
	Text  string
	Index int
}

// keywords are lexed as plain identifiers, the parser matches them by text.
var Keywords = map[string]bool{
	"LET":    true,
	"DEF":    true,
	"DO":     true,
	"END":    true,
	"IF":     true,
	"ELSE":   true,
	"FOR":    true,
	"IN":     true,
	"WHILE":  true,
	"RETURN": true,
	"AND":    true,
	"OR":     true,
	"TRUE":   true,
	"FALSE":  true,
	"NIL":    true,
}
