package encrypt

import (
	"encoding/binary"
	"fmt"
	"math"
	"time"

	"github.com/shopspring/decimal"
)

// Encode converts a typed plaintext value into the fixed-layout byte
// encoding used both as the AEAD plaintext and, for unencrypted columns,
// the on-the-wire native representation.
func Encode(t NativeType, v interface{}) ([]byte, error) {
	switch t {
	case TBool:
		b, ok := v.(bool)
		if !ok {
			return nil, fmt.Errorf("encode: expected bool, got %T", v)
		}
		if b {
			return []byte{1}, nil
		}
		return []byte{0}, nil

	case TU64:
		u, err := toUint64(v)
		if err != nil {
			return nil, err
		}
		buf := make([]byte, 8)
		binary.BigEndian.PutUint64(buf, u)
		return buf, nil

	case TI64, TYear:
		i, err := toInt64(v)
		if err != nil {
			return nil, err
		}
		buf := make([]byte, 8)
		binary.BigEndian.PutUint64(buf, uint64(i))
		return buf, nil

	case TF64:
		f, err := toFloat64(v)
		if err != nil {
			return nil, err
		}
		buf := make([]byte, 8)
		binary.BigEndian.PutUint64(buf, math.Float64bits(f))
		return buf, nil

	case TD128:
		d, ok := v.(decimal.Decimal)
		if !ok {
			return nil, fmt.Errorf("encode: expected decimal.Decimal, got %T", v)
		}
		return encodeD128(d), nil

	case TDateTime, TTimestamp:
		ts, ok := v.(time.Time)
		if !ok {
			return nil, fmt.Errorf("encode: expected time.Time, got %T", v)
		}
		return encodeDateTime(ts), nil

	case TDate, TTime:
		ts, ok := v.(time.Time)
		if !ok {
			return nil, fmt.Errorf("encode: expected time.Time, got %T", v)
		}
		buf := make([]byte, 8)
		binary.BigEndian.PutUint64(buf, uint64(ts.Unix()))
		return buf, nil

	case TChar, TVarchar, TLongText:
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("encode: expected string, got %T", v)
		}
		return []byte(s), nil

	case TFixedBinary, TVarBinary, TLongBlob:
		b, ok := v.([]byte)
		if !ok {
			return nil, fmt.Errorf("encode: expected []byte, got %T", v)
		}
		return b, nil

	default:
		return nil, fmt.Errorf("encode: unsupported native type %s", t)
	}
}

// Decode is the inverse of Encode.
func Decode(t NativeType, buf []byte) (interface{}, error) {
	switch t {
	case TBool:
		if len(buf) != 1 {
			return nil, fmt.Errorf("decode bool: expected 1 byte, got %d", len(buf))
		}
		return buf[0] != 0, nil

	case TU64:
		if len(buf) != 8 {
			return nil, fmt.Errorf("decode u64: expected 8 bytes, got %d", len(buf))
		}
		return binary.BigEndian.Uint64(buf), nil

	case TI64, TYear:
		if len(buf) != 8 {
			return nil, fmt.Errorf("decode i64: expected 8 bytes, got %d", len(buf))
		}
		return int64(binary.BigEndian.Uint64(buf)), nil

	case TF64:
		if len(buf) != 8 {
			return nil, fmt.Errorf("decode f64: expected 8 bytes, got %d", len(buf))
		}
		return math.Float64frombits(binary.BigEndian.Uint64(buf)), nil

	case TD128:
		if len(buf) != 16 {
			return nil, fmt.Errorf("decode d128: expected 16 bytes, got %d", len(buf))
		}
		return decodeD128(buf)

	case TDateTime, TTimestamp:
		return decodeDateTime(buf)

	case TDate, TTime:
		if len(buf) != 8 {
			return nil, fmt.Errorf("decode date/time: expected 8 bytes, got %d", len(buf))
		}
		return time.Unix(int64(binary.BigEndian.Uint64(buf)), 0).UTC(), nil

	case TChar, TVarchar, TLongText:
		return string(buf), nil

	case TFixedBinary, TVarBinary, TLongBlob:
		return buf, nil

	default:
		return nil, fmt.Errorf("decode: unsupported native type %s", t)
	}
}

// encodeD128 lays out a decimal as 16 bytes: two header bytes (sign, then
// scale), followed by the unscaled value's base-10 digits packed two per
// byte with the two hex nibbles swapped (a quirk preserved from the
// reference codec this was ported from), right-aligned in the remaining
// 14 bytes behind leading zero bytes.
func encodeD128(d decimal.Decimal) []byte {
	out := make([]byte, 16)
	coeff := d.Coefficient()
	sign := byte(0)
	if coeff.Sign() < 0 {
		sign = 1
		coeff.Abs(coeff)
	}
	digits := coeff.String()
	if len(digits)%2 != 0 {
		digits = "0" + digits
	}
	out[0] = sign
	out[1] = byte(int8(-d.Exponent()))
	body := make([]byte, 0, len(digits)/2)
	for i := 0; i < len(digits); i += 2 {
		hi := digits[i] - '0'
		lo := digits[i+1] - '0'
		body = append(body, (lo<<4)|hi)
	}
	start := 16 - len(body)
	if start < 2 {
		start = 2
	}
	copy(out[start:], body)
	return out
}

func decodeD128(buf []byte) (decimal.Decimal, error) {
	sign := buf[0]
	exp := int32(int8(buf[1]))
	var digits []byte
	for _, b := range buf[2:] {
		hi := b & 0x0F
		lo := (b >> 4) & 0x0F
		digits = append(digits, '0'+hi, '0'+lo)
	}
	if len(digits) == 0 {
		digits = []byte{'0'}
	}
	s := string(digits)
	if sign == 1 {
		s = "-" + s
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, err
	}
	return d.Shift(-exp), nil
}

// encodeDateTime packs a unix timestamp (8 bytes) followed by the
// sub-second fraction in nanoseconds (4 bytes), both big-endian.
func encodeDateTime(t time.Time) []byte {
	buf := make([]byte, 12)
	binary.BigEndian.PutUint64(buf[0:8], uint64(t.Unix()))
	binary.BigEndian.PutUint32(buf[8:12], uint32(t.Nanosecond()))
	return buf
}

func decodeDateTime(buf []byte) (time.Time, error) {
	if len(buf) != 12 {
		return time.Time{}, fmt.Errorf("decode datetime: expected 12 bytes, got %d", len(buf))
	}
	sec := int64(binary.BigEndian.Uint64(buf[0:8]))
	nsec := int64(binary.BigEndian.Uint32(buf[8:12]))
	return time.Unix(sec, nsec).UTC(), nil
}

func toUint64(v interface{}) (uint64, error) {
	switch n := v.(type) {
	case uint64:
		return n, nil
	case int64:
		return uint64(n), nil
	case int:
		return uint64(n), nil
	default:
		return 0, fmt.Errorf("encode u64: expected integer, got %T", v)
	}
}

func toInt64(v interface{}) (int64, error) {
	switch n := v.(type) {
	case int64:
		return n, nil
	case int:
		return int64(n), nil
	case uint64:
		return int64(n), nil
	default:
		return 0, fmt.Errorf("encode i64: expected integer, got %T", v)
	}
}

func toFloat64(v interface{}) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case float32:
		return float64(n), nil
	default:
		return 0, fmt.Errorf("encode f64: expected float, got %T", v)
	}
}
