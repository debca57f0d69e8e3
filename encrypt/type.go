// Package encrypt implements the native type codec and column cipher used
// to turn typed SQL values into ciphertext bytes and back.
package encrypt

import (
	"fmt"
	"strings"

	"github.com/agildata/zeroproxy/zerror"
)

// EncryptionType names a column's configured encryption scheme.
type EncryptionType int

const (
	NA EncryptionType = iota
	AES
	AESGCM
	OPE
)

func (e EncryptionType) String() string {
	switch e {
	case AES:
		return "AES"
	case AESGCM:
		return "AES_GCM"
	case OPE:
		return "OPE"
	default:
		return "NA"
	}
}

// SupportsEquality reports whether two ciphertexts produced under this
// scheme for equal plaintexts are themselves equal. AES is deterministic
// (its nonce is derived from the column key; no separate per-column IV is
// configured) so it does; AES_GCM uses a random nonce per value so it
// never does.
func (e EncryptionType) SupportsEquality() bool {
	return e == AES
}

// ParseEncryptionType parses a config-file encryption name. The
// historical "AES-SALTED" alias is intentionally not accepted.
func ParseEncryptionType(s string) (EncryptionType, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "", "NA", "NONE":
		return NA, nil
	case "AES":
		return AES, nil
	case "AES_GCM", "AESGCM":
		return AESGCM, nil
	case "OPE":
		return OPE, nil
	default:
		return NA, zerror.NewEncryptionError("1064", "unknown encryption type %q", s)
	}
}

// NativeType names the logical value shape a column's plaintext bytes
// are encoded/decoded as, independent of its encryption scheme.
type NativeType int

const (
	TUnknown NativeType = iota
	TU64
	TI64
	TF64
	TBool
	TD128
	TDateTime
	TDate
	TTimestamp
	TTime
	TYear
	TChar
	TVarchar
	TFixedBinary
	TVarBinary
	TLongBlob
	TLongText
)

func (t NativeType) String() string {
	switch t {
	case TU64:
		return "U64"
	case TI64:
		return "I64"
	case TF64:
		return "F64"
	case TBool:
		return "BOOL"
	case TD128:
		return "D128"
	case TDateTime:
		return "DATETIME"
	case TDate:
		return "DATE"
	case TTimestamp:
		return "TIMESTAMP"
	case TTime:
		return "TIME"
	case TYear:
		return "YEAR"
	case TChar:
		return "CHAR"
	case TVarchar:
		return "VARCHAR"
	case TFixedBinary:
		return "BINARY"
	case TVarBinary:
		return "VARBINARY"
	case TLongBlob:
		return "LONGBLOB"
	case TLongText:
		return "LONGTEXT"
	default:
		return "UNKNOWN"
	}
}

// ParseNativeType parses a config-file native_type name, accepting the
// parenthesized precision/length suffix MySQL column definitions carry
// (e.g. "DATETIME(3)", "VARCHAR(255)") without interpreting it further;
// callers that need the size/fsp must re-parse the original column DDL.
func ParseNativeType(s string) (NativeType, error) {
	name := s
	if idx := strings.IndexByte(s, '('); idx >= 0 {
		name = s[:idx]
	}
	switch strings.ToUpper(strings.TrimSpace(name)) {
	case "U64", "BIGINT UNSIGNED":
		return TU64, nil
	case "I64", "BIGINT", "INT", "INTEGER", "SMALLINT", "TINYINT", "MEDIUMINT":
		return TI64, nil
	case "F64", "FLOAT", "DOUBLE":
		return TF64, nil
	case "BOOL", "BOOLEAN":
		return TBool, nil
	case "D128", "DECIMAL", "DEC":
		return TD128, nil
	case "DATETIME":
		return TDateTime, nil
	case "DATE":
		return TDate, nil
	case "TIMESTAMP":
		return TTimestamp, nil
	case "TIME":
		return TTime, nil
	case "YEAR":
		return TYear, nil
	case "CHAR", "NCHAR":
		return TChar, nil
	case "VARCHAR", "NVARCHAR":
		return TVarchar, nil
	case "BINARY":
		return TFixedBinary, nil
	case "VARBINARY":
		return TVarBinary, nil
	case "LONGBLOB", "BLOB", "TINYBLOB", "MEDIUMBLOB":
		return TLongBlob, nil
	case "LONGTEXT", "TEXT", "TINYTEXT", "MEDIUMTEXT":
		return TLongText, nil
	default:
		return TUnknown, fmt.Errorf("unknown native type %q", s)
	}
}
