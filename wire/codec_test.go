package wire

import "testing"

func TestWriteLenencIntRoundTrip(t *testing.T) {
	cases := []uint64{0, 1, 250, 251, 65535, 65536, 1<<24 - 1, 1 << 24, 1 << 40}
	for _, n := range cases {
		buf := WriteLenencInt(nil, n)
		got, _, ok := ReadLenencInt(buf, 0)
		if !ok {
			t.Fatalf("ReadLenencInt(%d): unexpected NULL marker", n)
		}
		if got != n {
			t.Fatalf("roundtrip %d: got %d", n, got)
		}
	}
}

func TestReadLenencIntNullMarker(t *testing.T) {
	_, pos, ok := ReadLenencInt([]byte{0xFB}, 0)
	if ok {
		t.Fatal("expected ok=false for NULL marker")
	}
	if pos != 1 {
		t.Fatalf("expected pos 1, got %d", pos)
	}
}

func TestLenencStringRoundTrip(t *testing.T) {
	buf := WriteLenencString(nil, []byte("hello world"))
	got, pos, ok := ReadLenencString(buf, 0)
	if !ok || string(got) != "hello world" {
		t.Fatalf("got %q ok=%v", got, ok)
	}
	if pos != len(buf) {
		t.Fatalf("expected pos at end, got %d of %d", pos, len(buf))
	}
}

func TestNullTerminatedStringRoundTrip(t *testing.T) {
	buf := WriteNullTerminated(nil, []byte("zeroproxy"))
	got, pos := ReadNullTerminatedString(buf, 0)
	if got != "zeroproxy" {
		t.Fatalf("got %q", got)
	}
	if pos != len(buf) {
		t.Fatalf("expected pos at end, got %d", pos)
	}
}

func TestFrameHeaderEncodesLengthAndSequence(t *testing.T) {
	payload := []byte{1, 2, 3}
	framed := Frame(payload, 7)
	if len(framed) != 4+len(payload) {
		t.Fatalf("unexpected frame length %d", len(framed))
	}
	length, _ := ReadUB3(framed, 0)
	if int(length) != len(payload) {
		t.Fatalf("expected length %d, got %d", len(payload), length)
	}
	if framed[3] != 7 {
		t.Fatalf("expected sequence id 7, got %d", framed[3])
	}
}

func TestUBWritersLittleEndian(t *testing.T) {
	buf := WriteUB4(nil, 0x01020304)
	if buf[0] != 0x04 || buf[1] != 0x03 || buf[2] != 0x02 || buf[3] != 0x01 {
		t.Fatalf("expected little-endian bytes, got % x", buf)
	}
}
