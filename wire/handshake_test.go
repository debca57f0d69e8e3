package wire

import "testing"

func TestNewHandshakeProducesTwentyByteScramble(t *testing.T) {
	hs, err := NewHandshake(7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(hs.Scramble) != 20 {
		t.Fatalf("expected 20-byte scramble, got %d", len(hs.Scramble))
	}
}

func TestHandshakeEncodeLayout(t *testing.T) {
	hs := Handshake{ConnectionID: 99, Scramble: make([]byte, 20)}
	for i := range hs.Scramble {
		hs.Scramble[i] = byte(i + 1)
	}
	buf := hs.Encode()
	if buf[0] != ProtocolVersion {
		t.Fatalf("expected protocol version byte, got %d", buf[0])
	}

	seed, err := seedFromGreeting(buf)
	if err != nil {
		t.Fatalf("seedFromGreeting: %v", err)
	}
	if len(seed) != 20 {
		t.Fatalf("expected 20-byte recovered seed, got %d", len(seed))
	}
	for i, b := range seed {
		if b != byte(i+1) {
			t.Fatalf("seed[%d] = %d, want %d", i, b, i+1)
		}
	}
}

func TestNativePasswordScrambleEmptyPassword(t *testing.T) {
	if scramble := nativePasswordScramble("", []byte("abcdefgh")); scramble != nil {
		t.Fatalf("expected nil scramble for empty password, got %v", scramble)
	}
}

func TestNativePasswordScrambleDeterministic(t *testing.T) {
	seed := []byte("01234567890123456789")
	a := nativePasswordScramble("secret", seed)
	b := nativePasswordScramble("secret", seed)
	if len(a) != 20 {
		t.Fatalf("expected 20-byte scramble, got %d", len(a))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("expected deterministic scramble, differed at %d", i)
		}
	}
}

func TestBuildAuthResponseContainsUserAndDB(t *testing.T) {
	seed := []byte("01234567890123456789")
	resp := buildAuthResponse("alice", "secret", "zero", seed)

	pos := 4 + 4 + 1 + 23
	user, pos := ReadNullTerminatedString(resp, pos)
	if user != "alice" {
		t.Fatalf("expected user alice, got %q", user)
	}
	scrambleLen := int(resp[pos])
	pos++
	pos += scrambleLen
	db, _ := ReadNullTerminatedString(resp, pos)
	if db != "zero" {
		t.Fatalf("expected db zero, got %q", db)
	}
}
