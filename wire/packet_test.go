package wire

import (
	"bytes"
	"testing"
)

func TestOKPacketEncode(t *testing.T) {
	p := OKPacket{AffectedRows: 3, LastInsertID: 42, StatusFlags: ServerStatusAutocommit}
	buf := p.Encode()
	if buf[0] != 0x00 {
		t.Fatalf("expected leading 0x00, got 0x%02x", buf[0])
	}
	rows, pos, ok := ReadLenencInt(buf, 1)
	if !ok || rows != 3 {
		t.Fatalf("expected affected rows 3, got %d", rows)
	}
	insertID, pos, ok := ReadLenencInt(buf, pos)
	if !ok || insertID != 42 {
		t.Fatalf("expected insert id 42, got %d", insertID)
	}
	status, _ := ReadUB2(buf, pos)
	if status != ServerStatusAutocommit {
		t.Fatalf("expected autocommit status flag, got 0x%x", status)
	}
}

func TestEOFPacketEncode(t *testing.T) {
	p := EOFPacket{Warnings: 2, StatusFlags: ServerStatusAutocommit}
	buf := p.Encode()
	if buf[0] != 0xFE {
		t.Fatalf("expected leading 0xFE, got 0x%02x", buf[0])
	}
	if len(buf) != 5 {
		t.Fatalf("expected 5-byte EOF body, got %d", len(buf))
	}
}

func TestErrPacketEncode(t *testing.T) {
	p := ErrPacket{ErrorCode: 1064, SQLState: "42000", Message: "bad sql"}
	buf := p.Encode()
	if buf[0] != 0xFF {
		t.Fatalf("expected leading 0xFF, got 0x%02x", buf[0])
	}
	code, _ := ReadUB2(buf, 1)
	if code != 1064 {
		t.Fatalf("expected error code 1064, got %d", code)
	}
	if buf[3] != '#' {
		t.Fatalf("expected marker '#', got %q", buf[3])
	}
	if string(buf[4:9]) != "42000" {
		t.Fatalf("expected sqlstate 42000, got %q", buf[4:9])
	}
	if string(buf[9:]) != "bad sql" {
		t.Fatalf("expected message, got %q", buf[9:])
	}
}

func TestErrPacketDefaultsSQLState(t *testing.T) {
	p := ErrPacket{ErrorCode: 1, SQLState: "", Message: "x"}
	buf := p.Encode()
	if string(buf[4:9]) != "HY000" {
		t.Fatalf("expected fallback HY000, got %q", buf[4:9])
	}
}

func TestFieldPacketEncode(t *testing.T) {
	p := FieldPacket{
		Schema: "zero", Table: "users", OrgTable: "users",
		Name: "ssn", OrgName: "ssn",
		Charset: 33, ColumnLength: 255, ColumnType: TypeVarString, Decimals: 0,
	}
	buf := p.Encode()
	catalog, pos, ok := ReadLenencString(buf, 0)
	if !ok || string(catalog) != "def" {
		t.Fatalf("expected default catalog, got %q", catalog)
	}
	schema, pos, ok := ReadLenencString(buf, pos)
	if !ok || string(schema) != "zero" {
		t.Fatalf("expected schema zero, got %q", schema)
	}
	_ = pos
}

func TestEncodeTextRowNullHandling(t *testing.T) {
	row := EncodeTextRow([][]byte{[]byte("a"), nil, []byte("bb")})
	v1, pos, ok := ReadLenencString(row, 0)
	if !ok || string(v1) != "a" {
		t.Fatalf("expected a, got %q", v1)
	}
	if row[pos] != 0xFB {
		t.Fatalf("expected NULL marker, got 0x%02x", row[pos])
	}
	pos++
	v2, _, ok := ReadLenencString(row, pos)
	if !ok || string(v2) != "bb" {
		t.Fatalf("expected bb, got %q", v2)
	}
}

func TestEncodeResultSetHeader(t *testing.T) {
	buf := EncodeResultSetHeader(3)
	n, _, ok := ReadLenencInt(buf, 0)
	if !ok || n != 3 {
		t.Fatalf("expected column count 3, got %d", n)
	}
}

func TestFrameRoundTripsThroughPacketBoundary(t *testing.T) {
	payload := OKPacket{AffectedRows: 1}.Encode()
	framed := Frame(payload, 0)
	if !bytes.Equal(framed[4:], payload) {
		t.Fatal("framed payload mismatch")
	}
}
