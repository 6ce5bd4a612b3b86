package dice

import (
	"fmt"
	"math"
	"unicode"
	"unicode/utf8"
)

// TokenKind identifies the class of a lexed token.
type TokenKind int

const (
	TokenEOF TokenKind = iota
	TokenNumber
	TokenD
	TokenPercent
	TokenFudge
	TokenPlus
	TokenMinus
	TokenStar
	TokenSlash
	TokenLParen
	TokenRParen
	TokenK
	TokenH
	TokenL
	TokenP
	TokenExplode
	TokenR
	TokenO
	TokenEq
	TokenLt
	TokenGt
)

var tokenNames = map[TokenKind]string{
	TokenEOF:     "end of input",
	TokenNumber:  "number",
	TokenD:       "'d'",
	TokenPercent: "'%'",
	TokenFudge:   "'F'",
	TokenPlus:    "'+'",
	TokenMinus:   "'-'",
	TokenStar:    "'*'",
	TokenSlash:   "'/'",
	TokenLParen:  "'('",
	TokenRParen:  "')'",
	TokenK:       "'k'",
	TokenH:       "'h'",
	TokenL:       "'l'",
	TokenP:       "'p'",
	TokenExplode: "'!'",
	TokenR:       "'r'",
	TokenO:       "'o'",
	TokenEq:      "'='",
	TokenLt:      "'<'",
	TokenGt:      "'>'",
}

func (k TokenKind) String() string {
	if s, ok := tokenNames[k]; ok {
		return s
	}
	return fmt.Sprintf("TokenKind(%d)", int(k))
}

// Token is one lexical unit of a dice expression. Num is meaningful only
// when Kind is TokenNumber.
type Token struct {
	Kind TokenKind
	Num  int64
}

// String renders the token for diagnostics, e.g. "number 6" or "'d'".
func (t Token) String() string {
	if t.Kind == TokenNumber {
		return fmt.Sprintf("number %d", t.Num)
	}
	return t.Kind.String()
}

// Lexer turns a dice expression into a token stream. It keeps no lookahead
// beyond one token; Peek is implemented by position save/restore.
type Lexer struct {
	input string
	pos   int // byte offset of the next unread rune
	start int // byte offset of the most recently lexed token
}

// NewLexer creates a lexer over input.
func NewLexer(input string) *Lexer {
	return &Lexer{input: input}
}

// Pos returns the byte offset of the most recently lexed token.
func (l *Lexer) Pos() int {
	return l.start
}

// Peek returns the next token without consuming it.
func (l *Lexer) Peek() (Token, error) {
	savedPos, savedStart := l.pos, l.start
	tok, err := l.Next()
	l.pos, l.start = savedPos, savedStart
	return tok, err
}

// Next consumes and returns the next token. End of input is reported as a
// TokenEOF token, not an error; only characters outside the notation
// alphabet produce an *UnexpectedCharError.
func (l *Lexer) Next() (Token, error) {
	l.skipWhitespace()
	if l.pos >= len(l.input) {
		l.start = l.pos
		return Token{Kind: TokenEOF}, nil
	}

	l.start = l.pos
	c := l.input[l.pos]
	if c >= '0' && c <= '9' {
		return l.number(), nil
	}

	var kind TokenKind
	switch c {
	case 'd', 'D':
		kind = TokenD
	case '%':
		kind = TokenPercent
	case 'F', 'f':
		kind = TokenFudge
	case '+':
		kind = TokenPlus
	case '-':
		kind = TokenMinus
	case '*':
		kind = TokenStar
	case '/':
		kind = TokenSlash
	case '(':
		kind = TokenLParen
	case ')':
		kind = TokenRParen
	case 'k', 'K':
		kind = TokenK
	case 'h', 'H':
		kind = TokenH
	case 'l', 'L':
		kind = TokenL
	case 'p', 'P':
		kind = TokenP
	case '!':
		kind = TokenExplode
	case 'r', 'R':
		kind = TokenR
	case 'o', 'O':
		kind = TokenO
	case '=':
		kind = TokenEq
	case '<':
		kind = TokenLt
	case '>':
		kind = TokenGt
	default:
		r, _ := utf8.DecodeRuneInString(l.input[l.pos:])
		return Token{}, &UnexpectedCharError{Char: r, Pos: l.pos}
	}

	l.pos++
	return Token{Kind: kind}, nil
}

func (l *Lexer) skipWhitespace() {
	for l.pos < len(l.input) {
		r, size := utf8.DecodeRuneInString(l.input[l.pos:])
		if !unicode.IsSpace(r) {
			return
		}
		l.pos += size
	}
}

// number scans an unsigned decimal literal, saturating at MaxInt64 instead
// of wrapping on overflow.
func (l *Lexer) number() Token {
	var value int64
	saturated := false
	for l.pos < len(l.input) {
		c := l.input[l.pos]
		if c < '0' || c > '9' {
			break
		}
		l.pos++
		if saturated {
			continue
		}
		digit := int64(c - '0')
		if value > (math.MaxInt64-digit)/10 {
			value = math.MaxInt64
			saturated = true
			continue
		}
		value = value*10 + digit
	}
	return Token{Kind: TokenNumber, Num: value}
}
