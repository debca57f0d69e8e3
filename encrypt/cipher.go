package encrypt

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"io"

	"github.com/agildata/zeroproxy/zerror"
)

// Key is a 32-byte AES-256 key, as configured per column in hex.
type Key [32]byte

// ParseKey decodes a hex-encoded 32-byte key, the format column
// configuration carries it in.
func ParseKey(hexKey string) (Key, error) {
	var k Key
	raw, err := hex.DecodeString(hexKey)
	if err != nil {
		return k, zerror.NewEncryptionError("1064", "invalid hex key: %v", err)
	}
	if len(raw) != 32 {
		return k, zerror.NewEncryptionError("1064", "key must decode to 32 bytes, got %d", len(raw))
	}
	copy(k[:], raw)
	return k, nil
}

// deterministicNonce derives a fixed 12-byte nonce for a given key so
// that AES (as opposed to AES_GCM) ciphertexts of equal plaintexts are
// byte-identical and therefore support equality comparisons pushed down
// to the wire.
func deterministicNonce(key Key) []byte {
	sum := sha256.Sum256(key[:])
	return sum[:12]
}

// Encrypt seals plaintext under key, laying the result out as
// nonce(12) || ciphertext || tag(16). For scheme AES the nonce is
// deterministic (derived from the key); for AES_GCM it is drawn fresh
// from crypto/rand on every call.
func Encrypt(scheme EncryptionType, key Key, plaintext []byte) ([]byte, error) {
	block, err := aes.NewCipher(key[:])
	if err != nil {
		return nil, zerror.NewEncryptionError("1064", "cannot construct cipher: %v", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, zerror.NewEncryptionError("1064", "cannot construct GCM mode: %v", err)
	}

	var nonce []byte
	switch scheme {
	case AES:
		nonce = deterministicNonce(key)
	case AESGCM:
		nonce = make([]byte, gcm.NonceSize())
		if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
			return nil, zerror.NewEncryptionError("1064", "cannot generate nonce: %v", err)
		}
	default:
		return nil, zerror.NewEncryptionError("1064", "unsupported encryption scheme %s", scheme)
	}

	sealed := gcm.Seal(nil, nonce, plaintext, nil)
	out := make([]byte, 0, len(nonce)+len(sealed))
	out = append(out, nonce...)
	out = append(out, sealed...)
	return out, nil
}

// Decrypt opens a nonce(12) || ciphertext || tag(16) blob produced by
// Encrypt. Any malformed input (too short, bad tag) surfaces as a
// DecryptionError with code "123".
func Decrypt(key Key, buf []byte) ([]byte, error) {
	if len(buf) < 28 {
		return nil, zerror.NewDecryptionError("123", "ciphertext too short: %d bytes", len(buf))
	}

	block, err := aes.NewCipher(key[:])
	if err != nil {
		return nil, zerror.NewDecryptionError("123", "cannot construct cipher: %v", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, zerror.NewDecryptionError("123", "cannot construct GCM mode: %v", err)
	}

	nonce := buf[:12]
	sealed := buf[12:]
	plaintext, err := gcm.Open(nil, nonce, sealed, nil)
	if err != nil {
		return nil, zerror.NewDecryptionError("123", "authentication failed: %v", err)
	}
	return plaintext, nil
}
