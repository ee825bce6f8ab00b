package lexer

import (
	"slate/internals"
	"strings"
	"unicode"
)

type Lexer struct {
	Content []rune
	Cur     int
}

func NewLexer(content string) *Lexer {
	return &Lexer{
		Content: []rune(content),
		Cur:     0,
	}
}

// Tokenize consumes the whole input and returns the ordered token sequence
// the parser works on. The first malformed lexeme aborts with a SyntaxError
// carrying its offset.
func (l *Lexer) Tokenize() ([]Token, error) {
	tokens := make([]Token, 0)

	for {
		l.skipWhiteSpace()
		if l.Cur >= len(l.Content) {
			return tokens, nil
		}

		tok, err := l.nextToken()
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, tok)
	}
}

func (l *Lexer) skipWhiteSpace() {
	for l.Cur < len(l.Content) && unicode.IsSpace(l.Content[l.Cur]) {
		l.Cur++
	}
}

func (l *Lexer) nextToken() (Token, error) {
	start := l.Cur
	char := l.Content[l.Cur]

	switch {
	case isIdentifierStart(char):
		for l.Cur < len(l.Content) && isIdentifierPart(l.Content[l.Cur]) {
			l.Cur++
		}
		return l.token(TokenIdentifier, start), nil

	case unicode.IsDigit(char):
		return l.lexNumber(start), nil

	case char == '\'':
		return l.lexCharacter(start)

	case char == '"':
		return l.lexString(start)

	default:
		return l.lexOperator(start), nil
	}
}

func (l *Lexer) lexNumber(start int) Token {
	for l.Cur < len(l.Content) && unicode.IsDigit(l.Content[l.Cur]) {
		l.Cur++
	}

	// a dot only belongs to the number when digits follow, otherwise it is
	// left for the member access operator
	if l.Cur+1 < len(l.Content) && l.Content[l.Cur] == '.' && unicode.IsDigit(l.Content[l.Cur+1]) {
		l.Cur++
		for l.Cur < len(l.Content) && unicode.IsDigit(l.Content[l.Cur]) {
			l.Cur++
		}
		return l.token(TokenDecimal, start)
	}

	return l.token(TokenInteger, start)
}

func (l *Lexer) lexCharacter(start int) (Token, error) {
	l.Cur++ // consume the opening quote

	if l.Cur >= len(l.Content) || l.Content[l.Cur] == '\n' || l.Content[l.Cur] == '\'' {
		return Token{}, internals.Syntax(start, "unterminated character literal")
	}

	if l.Content[l.Cur] == '\\' {
		if err := l.lexEscape(start); err != nil {
			return Token{}, err
		}
	} else {
		l.Cur++
	}

	if l.Cur >= len(l.Content) || l.Content[l.Cur] != '\'' {
		return Token{}, internals.Syntax(start, "unterminated character literal")
	}
	l.Cur++ // consume the closing quote

	return l.token(TokenCharacter, start), nil
}

func (l *Lexer) lexString(start int) (Token, error) {
	l.Cur++ // consume the opening quote

	for l.Cur < len(l.Content) && l.Content[l.Cur] != '"' {
		if l.Content[l.Cur] == '\n' {
			return Token{}, internals.Syntax(start, "unterminated string literal")
		}
		if l.Content[l.Cur] == '\\' {
			if err := l.lexEscape(l.Cur); err != nil {
				return Token{}, err
			}
			continue
		}
		l.Cur++
	}

	if l.Cur >= len(l.Content) {
		return Token{}, internals.Syntax(start, "unterminated string literal")
	}
	l.Cur++ // consume the closing quote

	return l.token(TokenString, start), nil
}

func (l *Lexer) lexEscape(at int) error {
	l.Cur++ // consume the backslash
	if l.Cur >= len(l.Content) || !strings.ContainsRune(`bnrt'"\`, l.Content[l.Cur]) {
		return internals.Syntax(at, "invalid escape sequence")
	}
	l.Cur++
	return nil
}

func (l *Lexer) lexOperator(start int) Token {
	char := l.Content[l.Cur]
	l.Cur++

	// <= >= == != are the only two-character operators
	if strings.ContainsRune("<>=!", char) && l.Cur < len(l.Content) && l.Content[l.Cur] == '=' {
		l.Cur++
	}

	return l.token(TokenOperator, start)
}

func (l *Lexer) token(kind TokenKind, start int) Token {
	return Token{
		Kind:  kind,
		Text:  string(l.Content[start:l.Cur]),
		Index: start,
	}
}

func isIdentifierStart(char rune) bool {
	return unicode.IsLetter(char) || char == '_'
}

func isIdentifierPart(char rune) bool {
	return unicode.IsLetter(char) || unicode.IsDigit(char) || char == '_'
}
