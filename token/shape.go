package token

import "strings"

// Shape renders tokens into a cache key that depends only on token
// kind/text, never on literal bodies — two statements differing only in
// literal values produce the same shape and therefore share a cached
// plan.
func Shape(tokens []Token) string {
	var sb strings.Builder
	for _, t := range tokens {
		sb.WriteByte(byte(t.Kind))
		sb.WriteByte(0)
		if t.Kind == Literal {
			sb.WriteByte(byte(t.LiteralKind))
		} else {
			sb.WriteString(t.Text)
		}
		sb.WriteByte(0x1F)
	}
	return sb.String()
}
