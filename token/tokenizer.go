package token

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/agildata/zeroproxy/zerror"
)

// Cursor walks a SQL string rune by rune, letting a Dialect peek ahead
// before committing to consuming characters (needed for multi-char
// operators and dialect-specific quoting).
type Cursor struct {
	src []rune
	pos int
}

func newCursor(sql string) *Cursor {
	return &Cursor{src: []rune(sql)}
}

func (c *Cursor) Peek() (rune, bool) {
	if c.pos >= len(c.src) {
		return 0, false
	}
	return c.src[c.pos], true
}

func (c *Cursor) PeekAt(offset int) (rune, bool) {
	idx := c.pos + offset
	if idx < 0 || idx >= len(c.src) {
		return 0, false
	}
	return c.src[idx], true
}

func (c *Cursor) Next() (rune, bool) {
	r, ok := c.Peek()
	if ok {
		c.pos++
	}
	return r, ok
}

func (c *Cursor) Pos() int { return c.pos }

func (c *Cursor) AtEOF() bool { return c.pos >= len(c.src) }

// Dialect is the subset of dialect.Dialect the tokenizer depends on.
// Defined here (rather than importing the dialect package) to avoid a
// cyclic import; dialect.Dialect satisfies this interface structurally.
type Dialect interface {
	NextToken(c *Cursor, reg *Registry) (Token, bool, error)
	IsKeyword(word string) bool
}

// Tokenize lexes sql under dialect d, returning the token stream and a
// fresh Registry holding every literal body encountered. Each call
// allocates its own Registry: literal indices never carry meaning across
// two different Tokenize calls.
func Tokenize(sql string, d Dialect) ([]Token, *Registry, error) {
	reg := NewRegistry()
	c := newCursor(sql)
	var tokens []Token

	for !c.AtEOF() {
		start := c.pos

		if r, ok := c.Peek(); ok && unicode.IsSpace(r) {
			for {
				r, ok := c.Peek()
				if !ok || !unicode.IsSpace(r) {
					break
				}
				c.Next()
			}
			continue // whitespace is consumed but not emitted
		}

		if handled, ok, err := d.NextToken(c, reg); ok {
			if err != nil {
				return nil, nil, err
			}
			tokens = append(tokens, handled)
			continue
		} else if err != nil {
			return nil, nil, err
		}

		r, _ := c.Peek()
		switch {
		case r == '\'':
			tok, err := scanString(c, reg)
			if err != nil {
				return nil, nil, err
			}
			tokens = append(tokens, tok)

		case r == ':' :
			c.Next()
			nameStart := c.pos
			for {
				r, ok := c.Peek()
				if !ok || !(unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_') {
					break
				}
				c.Next()
			}
			tokens = append(tokens, Token{Kind: BoundParam, Text: string(c.src[nameStart:c.pos]), Pos: start})

		case r == '?':
			c.Next()
			tokens = append(tokens, Token{Kind: BoundParam, Text: "?", Pos: start})

		case unicode.IsDigit(r):
			tok, err := scanNumber(c, reg)
			if err != nil {
				return nil, nil, err
			}
			tokens = append(tokens, tok)

		case unicode.IsLetter(r) || r == '_':
			tok := scanIdentOrKeyword(c, d, reg)
			tokens = append(tokens, tok)

		case strings.ContainsRune(",()[].;", r):
			c.Next()
			tokens = append(tokens, Token{Kind: Punctuator, Text: string(r), Pos: start})

		case strings.ContainsRune("+-*/%=<>!|&^~", r):
			tok := scanOperator(c)
			tokens = append(tokens, tok)

		default:
			return nil, nil, zerror.NewParseError("1064", "unexpected character %q at position %d", r, start)
		}
	}

	tokens = append(tokens, Token{Kind: EOF, Pos: c.pos})
	return tokens, reg, nil
}

func scanString(c *Cursor, reg *Registry) (Token, error) {
	start := c.pos
	c.Next() // opening quote
	var sb strings.Builder
	for {
		r, ok := c.Next()
		if !ok {
			return Token{}, zerror.NewParseError("1064", "unterminated string literal starting at position %d", start)
		}
		if r == '\\' {
			if next, ok := c.Next(); ok {
				writeEscape(&sb, next)
				continue
			}
			return Token{}, zerror.NewParseError("1064", "unterminated escape in string literal starting at position %d", start)
		}
		if r == '\'' {
			if next, ok := c.Peek(); ok && next == '\'' {
				c.Next()
				sb.WriteRune('\'')
				continue
			}
			break
		}
		sb.WriteRune(r)
	}
	idx := reg.Push(sb.String())
	return Token{Kind: Literal, LiteralKind: LiteralString, LiteralIndex: idx, Text: "?", Pos: start}, nil
}

// writeEscape handles the character following a backslash inside a string
// literal. Only \' is a recognized escape; every other backslash is
// literal, so both the backslash and the following character are kept
// as written.
func writeEscape(sb *strings.Builder, r rune) {
	if r == '\'' {
		sb.WriteRune('\'')
		return
	}
	sb.WriteRune('\\')
	sb.WriteRune(r)
}

func scanNumber(c *Cursor, reg *Registry) (Token, error) {
	start := c.pos
	isDouble := false
	for {
		r, ok := c.Peek()
		if !ok {
			break
		}
		if unicode.IsDigit(r) {
			c.Next()
			continue
		}
		if r == '.' {
			if isDouble {
				break
			}
			isDouble = true
			c.Next()
			continue
		}
		break
	}
	text := string(c.src[start:c.pos])
	kind := LiteralLong
	if isDouble {
		kind = LiteralDouble
	}
	idx := reg.Push(text)
	return Token{Kind: Literal, LiteralKind: kind, LiteralIndex: idx, Text: "?", Pos: start}, nil
}

func scanIdentOrKeyword(c *Cursor, d Dialect, reg *Registry) Token {
	start := c.pos
	for {
		r, ok := c.Peek()
		if !ok || !(unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || r == '$') {
			break
		}
		c.Next()
	}
	word := string(c.src[start:c.pos])

	switch strings.ToUpper(word) {
	case "TRUE", "FALSE":
		idx := reg.Push(strings.ToUpper(word))
		return Token{Kind: Literal, LiteralKind: LiteralBool, LiteralIndex: idx, Text: "?", Pos: start}
	case "NULL":
		idx := reg.Push("NULL")
		return Token{Kind: Literal, LiteralKind: LiteralNull, LiteralIndex: idx, Text: "?", Pos: start}
	case "AND", "OR", "NOT", "IN", "LIKE", "IS", "BETWEEN":
		return Token{Kind: Operator, Text: strings.ToUpper(word), Pos: start}
	}

	if d.IsKeyword(word) {
		return Token{Kind: Keyword, Text: strings.ToUpper(word), Pos: start}
	}
	return Token{Kind: Identifier, Text: word, Pos: start}
}

func scanOperator(c *Cursor) Token {
	start := c.pos
	r, _ := c.Next()
	two := string(r)
	if next, ok := c.Peek(); ok {
		switch string(r) + string(next) {
		case "<=", ">=", "<>", "!=", "||", "&&", "<<", ">>":
			c.Next()
			two = string(r) + string(next)
		}
	}
	return Token{Kind: Operator, Text: two, Pos: start}
}

// ValidateUTF8 is used by callers that read raw client bytes before
// handing them to Tokenize, so a malformed multi-byte sequence surfaces
// as a ParseError rather than silently truncating.
func ValidateUTF8(s string) error {
	if !utf8.ValidString(s) {
		return zerror.NewParseError("1064", "statement is not valid UTF-8")
	}
	return nil
}
