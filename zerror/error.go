// Package zerror defines the proxy's boundary error type.
//
// Every error that can reach a client is one of four kinds, each carrying a
// MySQL-ish SQLSTATE/error code so the wire handler can translate it
// directly into an ERR packet without inspecting the message text.
package zerror

import "fmt"

// Kind classifies a ZeroError for callers that want to branch on category
// (e.g. the wire handler decides whether to drop the connection or just the
// statement) without string-matching the code.
type Kind int

const (
	ParseError Kind = iota
	EncryptionError
	DecryptionError
	SchemaError
)

func (k Kind) String() string {
	switch k {
	case ParseError:
		return "ParseError"
	case EncryptionError:
		return "EncryptionError"
	case DecryptionError:
		return "DecryptionError"
	case SchemaError:
		return "SchemaError"
	default:
		return "UnknownError"
	}
}

// ZeroError is the error type returned across every component boundary in
// the proxy (tokenizer, parser, planners, crypto, schema provider).
type ZeroError struct {
	Kind    Kind
	Message string
	Code    string
}

func (e *ZeroError) Error() string {
	return fmt.Sprintf("%s [%s]: %s", e.Kind, e.Code, e.Message)
}

func NewParseError(code, format string, args ...interface{}) *ZeroError {
	return &ZeroError{Kind: ParseError, Code: code, Message: fmt.Sprintf(format, args...)}
}

func NewEncryptionError(code, format string, args ...interface{}) *ZeroError {
	return &ZeroError{Kind: EncryptionError, Code: code, Message: fmt.Sprintf(format, args...)}
}

func NewDecryptionError(code, format string, args ...interface{}) *ZeroError {
	return &ZeroError{Kind: DecryptionError, Code: code, Message: fmt.Sprintf(format, args...)}
}

func NewSchemaError(code, format string, args ...interface{}) *ZeroError {
	return &ZeroError{Kind: SchemaError, Code: code, Message: fmt.Sprintf(format, args...)}
}

// SQLState maps a ZeroError's short code onto the 5-character SQLSTATE the
// wire protocol's ERR packet expects.
func (e *ZeroError) SQLState() string {
	switch e.Code {
	case "1064":
		return "42000"
	case "1054":
		return "42S22"
	default:
		return "HY000"
	}
}

// As reports whether err is a *ZeroError, unwrapping it for callers that
// need to branch on Kind/Code (mirrors the stdlib errors.As contract).
func As(err error) (*ZeroError, bool) {
	ze, ok := err.(*ZeroError)
	return ze, ok
}
