package encrypt

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testKey(t *testing.T) Key {
	raw := "6162636465666768696a6b6c6d6e6f707172737475767778797a303132333435"
	k, err := ParseKey(raw)
	require.NoError(t, err)
	return k
}

func TestAESRoundTripDeterministic(t *testing.T) {
	key := testKey(t)
	plaintext := []byte("hello world")

	c1, err := Encrypt(AES, key, plaintext)
	require.NoError(t, err)
	c2, err := Encrypt(AES, key, plaintext)
	require.NoError(t, err)

	assert.Equal(t, c1, c2, "AES scheme must be deterministic for equal plaintexts")

	got, err := Decrypt(key, c1)
	require.NoError(t, err)
	assert.Equal(t, plaintext, got)
}

func TestAESGCMRoundTripRandomized(t *testing.T) {
	key := testKey(t)
	plaintext := []byte("hello world")

	c1, err := Encrypt(AESGCM, key, plaintext)
	require.NoError(t, err)
	c2, err := Encrypt(AESGCM, key, plaintext)
	require.NoError(t, err)

	assert.NotEqual(t, c1, c2, "AES_GCM scheme must use a fresh nonce per call")

	got, err := Decrypt(key, c2)
	require.NoError(t, err)
	assert.Equal(t, plaintext, got)
}

func TestDecryptTooShort(t *testing.T) {
	key := testKey(t)
	_, err := Decrypt(key, []byte{1, 2, 3})
	require.Error(t, err)
	ze, ok := err.(interface{ SQLState() string })
	require.True(t, ok)
	_ = ze
}

func TestDecryptTamperedTagFails(t *testing.T) {
	key := testKey(t)
	c, err := Encrypt(AESGCM, key, []byte("payload"))
	require.NoError(t, err)
	c[len(c)-1] ^= 0xFF

	_, err = Decrypt(key, c)
	require.Error(t, err)
}

func TestCodecRoundTripIntegers(t *testing.T) {
	for _, v := range []int64{0, 1, -1, 1234567890, -9223372036854775808} {
		buf, err := Encode(TI64, v)
		require.NoError(t, err)
		got, err := Decode(TI64, buf)
		require.NoError(t, err)
		assert.Equal(t, v, got)
	}
}

func TestCodecRoundTripBool(t *testing.T) {
	for _, v := range []bool{true, false} {
		buf, err := Encode(TBool, v)
		require.NoError(t, err)
		got, err := Decode(TBool, buf)
		require.NoError(t, err)
		assert.Equal(t, v, got)
	}
}

func TestCodecRoundTripString(t *testing.T) {
	buf, err := Encode(TVarchar, "hello, 世界")
	require.NoError(t, err)
	got, err := Decode(TVarchar, buf)
	require.NoError(t, err)
	assert.Equal(t, "hello, 世界", got)
}

func TestCodecRoundTripDecimal(t *testing.T) {
	d := decimal.RequireFromString("1234.5678")
	buf, err := Encode(TD128, d)
	require.NoError(t, err)
	require.Len(t, buf, 16)
	got, err := Decode(TD128, buf)
	require.NoError(t, err)
	gotDec := got.(decimal.Decimal)
	assert.True(t, d.Equal(gotDec), "expected %s, got %s", d, gotDec)
}

func TestCodecRoundTripDateTime(t *testing.T) {
	ts := time.Date(2024, 3, 15, 10, 30, 0, 123000000, time.UTC)
	buf, err := Encode(TDateTime, ts)
	require.NoError(t, err)
	require.Len(t, buf, 12)
	got, err := Decode(TDateTime, buf)
	require.NoError(t, err)
	gotTs := got.(time.Time)
	assert.True(t, ts.Equal(gotTs))
}

func TestParseEncryptionTypeRejectsSaltedAlias(t *testing.T) {
	_, err := ParseEncryptionType("AES-SALTED")
	require.Error(t, err)
}
