package wire

// OKPacket is the server's acknowledgement of a successful command that
// returns no result set.
type OKPacket struct {
	AffectedRows uint64
	LastInsertID uint64
	StatusFlags  uint16
	Warnings     uint16
	Message      string
}

// Encode renders p as an OK packet body (without the 4-byte frame
// header).
func (p OKPacket) Encode() []byte {
	buf := []byte{0x00}
	buf = WriteLenencInt(buf, p.AffectedRows)
	buf = WriteLenencInt(buf, p.LastInsertID)
	buf = WriteUB2(buf, p.StatusFlags)
	buf = WriteUB2(buf, p.Warnings)
	if p.Message != "" {
		buf = append(buf, []byte(p.Message)...)
	}
	return buf
}

// EOFPacket marks the end of a field-list or result-row sequence for
// clients that have not negotiated ClientDeprecateEOF.
type EOFPacket struct {
	Warnings    uint16
	StatusFlags uint16
}

func (p EOFPacket) Encode() []byte {
	buf := []byte{0xFE}
	buf = WriteUB2(buf, p.Warnings)
	buf = WriteUB2(buf, p.StatusFlags)
	return buf
}

// ErrPacket reports a failed command.
type ErrPacket struct {
	ErrorCode uint16
	SQLState  string
	Message   string
}

func (p ErrPacket) Encode() []byte {
	buf := []byte{0xFF}
	buf = WriteUB2(buf, p.ErrorCode)
	buf = append(buf, '#')
	state := p.SQLState
	if len(state) != 5 {
		state = "HY000"
	}
	buf = append(buf, []byte(state)...)
	buf = append(buf, []byte(p.Message)...)
	return buf
}

// FieldPacket describes one result-set column.
type FieldPacket struct {
	Catalog      string
	Schema       string
	Table        string
	OrgTable     string
	Name         string
	OrgName      string
	Charset      uint16
	ColumnLength uint32
	ColumnType   ColumnType
	Flags        uint16
	Decimals     byte
}

func (p FieldPacket) Encode() []byte {
	var buf []byte
	catalog := p.Catalog
	if catalog == "" {
		catalog = "def"
	}
	buf = WriteLenencString(buf, []byte(catalog))
	buf = WriteLenencString(buf, []byte(p.Schema))
	buf = WriteLenencString(buf, []byte(p.Table))
	buf = WriteLenencString(buf, []byte(p.OrgTable))
	buf = WriteLenencString(buf, []byte(p.Name))
	buf = WriteLenencString(buf, []byte(p.OrgName))
	buf = WriteByte(buf, 0x0c) // length of the fixed-size fields below
	buf = WriteUB2(buf, p.Charset)
	buf = WriteUB4(buf, p.ColumnLength)
	buf = WriteByte(buf, byte(p.ColumnType))
	buf = WriteUB2(buf, p.Flags)
	buf = WriteByte(buf, p.Decimals)
	buf = WriteUB2(buf, 0) // filler
	return buf
}

// EncodeResultSetHeader encodes the leading length-encoded column count
// packet of a ComQueryResponse result set.
func EncodeResultSetHeader(columnCount int) []byte {
	return WriteLenencInt(nil, uint64(columnCount))
}

// EncodeTextRow encodes one row of a text-protocol result set: each
// value as a length-encoded string, or 0xFB for SQL NULL.
func EncodeTextRow(values [][]byte) []byte {
	var buf []byte
	for _, v := range values {
		if v == nil {
			buf = WriteByte(buf, 0xFB)
			continue
		}
		buf = WriteLenencString(buf, v)
	}
	return buf
}
