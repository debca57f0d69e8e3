package wire

import (
	"bufio"
	"net"
	"testing"
	"time"

	"github.com/agildata/zeroproxy/encrypt"
)

// bufReader wraps conn in a fresh bufio.Reader. Each packet in these
// tests is written with a single conn.Write call, so a new reader per
// readPacket call never loses bytes buffered past the current packet.
func bufReader(conn net.Conn) *bufio.Reader {
	return bufio.NewReader(conn)
}

type stubRewriter struct {
	sql     string
	columns []ColumnDecrypt
}

func (s *stubRewriter) Rewrite(schema, sql string) (RewriteResult, error) {
	return RewriteResult{SQL: s.sql, Columns: s.columns}, nil
}

func testKeyFor(t *testing.T) encrypt.Key {
	t.Helper()
	key, err := encrypt.ParseKey("6162636465666768696a6b6c6d6e6f707172737475767778797a303132333435")
	if err != nil {
		t.Fatalf("ParseKey: %v", err)
	}
	return key
}

// TestHandlerRelaysAndDecryptsResultRow drives a full connection: a fake
// upstream server presents a handshake, accepts auth, then returns a
// one-row result set whose single column is AES-encrypted; a fake
// client connects through the Handler and must observe the decrypted
// plaintext.
func TestHandlerRelaysAndDecryptsResultRow(t *testing.T) {
	key := testKeyFor(t)
	plain, err := encrypt.Encode(encrypt.TI64, int64(12345))
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	cipher, err := encrypt.Encrypt(encrypt.AES, key, plain)
	if err != nil {
		t.Fatalf("Encrypt: %v", err)
	}

	clientSide, proxyClientSide := net.Pipe()
	upstreamAppSide, proxyUpstreamSide := net.Pipe()

	h := &Handler{
		Client:           proxyClientSide,
		Upstream:         proxyUpstreamSide,
		Rewriter:         &stubRewriter{sql: "select ssn from users", columns: []ColumnDecrypt{{Encryption: encrypt.AES, NativeType: encrypt.TI64, Key: key}}},
		UpstreamUser:     "root",
		UpstreamPassword: "",
		UpstreamDB:       "zero",
	}

	done := make(chan error, 1)
	go func() { done <- h.Serve() }()

	fakeUpstreamDone := make(chan error, 1)
	go func() { fakeUpstreamDone <- driveFakeUpstream(upstreamAppSide, cipher) }()

	fakeClientDone := make(chan string, 1)
	fakeClientErr := make(chan error, 1)
	go func() {
		row, err := driveFakeClient(clientSide)
		fakeClientDone <- row
		fakeClientErr <- err
	}()

	select {
	case err := <-fakeUpstreamDone:
		if err != nil {
			t.Fatalf("fake upstream: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for fake upstream")
	}

	var row string
	select {
	case row = <-fakeClientDone:
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for fake client")
	}
	if err := <-fakeClientErr; err != nil {
		t.Fatalf("fake client: %v", err)
	}

	if row != "12345" {
		t.Fatalf("expected decrypted row value 12345, got %q", row)
	}

	clientSide.Close()
	upstreamAppSide.Close()
	<-done
}

func driveFakeUpstream(conn net.Conn, cipherValue []byte) error {
	hs, err := NewHandshake(1)
	if err != nil {
		return err
	}
	if err := writePacket(conn, hs.Encode(), 0); err != nil {
		return err
	}
	if _, _, err := readPacket(bufReader(conn)); err != nil {
		return err
	}
	if err := writePacket(conn, OKPacket{}.Encode(), 2); err != nil {
		return err
	}

	// ComQuery forwarded by the handler.
	if _, _, err := readPacket(bufReader(conn)); err != nil {
		return err
	}

	if err := writePacket(conn, EncodeResultSetHeader(1), 1); err != nil {
		return err
	}
	field := FieldPacket{Schema: "zero", Table: "users", Name: "ssn", ColumnType: TypeLonglong}
	if err := writePacket(conn, field.Encode(), 2); err != nil {
		return err
	}
	if err := writePacket(conn, EOFPacket{}.Encode(), 3); err != nil {
		return err
	}
	row := EncodeTextRow([][]byte{cipherValue})
	if err := writePacket(conn, row, 4); err != nil {
		return err
	}
	return writePacket(conn, EOFPacket{}.Encode(), 5)
}

func driveFakeClient(conn net.Conn) (string, error) {
	if _, _, err := readPacket(bufReader(conn)); err != nil {
		return "", err
	}
	if err := writePacket(conn, []byte{0x00}, 1); err != nil {
		return "", err
	}
	if _, _, err := readPacket(bufReader(conn)); err != nil { // OK
		return "", err
	}

	if err := writePacket(conn, append([]byte{byte(ComQuery)}, []byte("select ssn from users")...), 0); err != nil {
		return "", err
	}

	if _, _, err := readPacket(bufReader(conn)); err != nil { // header
		return "", err
	}
	if _, _, err := readPacket(bufReader(conn)); err != nil { // field
		return "", err
	}
	if _, _, err := readPacket(bufReader(conn)); err != nil { // EOF
		return "", err
	}
	row, _, err := readPacket(bufReader(conn))
	if err != nil {
		return "", err
	}
	if _, _, err := readPacket(bufReader(conn)); err != nil { // EOF
		return "", err
	}

	val, _, ok := ReadLenencString(row, 0)
	if !ok {
		return "", nil
	}
	return string(val), nil
}
