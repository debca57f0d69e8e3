package wire

import (
	"encoding/binary"
	"fmt"
	"strconv"

	jerrors "github.com/juju/errors"

	"github.com/agildata/zeroproxy/encrypt"
	"github.com/agildata/zeroproxy/zerror"
)

// handleQuery implements ComQueryResponse: rewrite the SQL, forward it,
// and relay the result, decrypting any configured columns as rows pass
// through.
func (h *Handler) handleQuery(payload []byte) error {
	sql := string(payload[1:])

	result, err := h.Rewriter.Rewrite(h.schema, sql)
	if err != nil {
		return h.respondErr(err)
	}

	out := append([]byte{byte(ComQuery)}, []byte(result.SQL)...)
	if err := writePacket(h.Upstream, out, 0); err != nil {
		return jerrors.Annotate(err, "forwarding query")
	}
	return h.relayResultSet(result.Columns)
}

// respondErr sends payload's error as a MySQL ERR packet to the client
// and leaves the connection in ExpectClientRequest: a failed statement
// never kills the connection.
func (h *Handler) respondErr(err error) error {
	code := uint16(1064)
	state := "42000"
	msg := err.Error()
	if ze, ok := zerror.As(err); ok {
		state = ze.SQLState()
		msg = ze.Message
		if n, convErr := strconv.Atoi(ze.Code); convErr == nil {
			code = uint16(n)
		}
	}
	pkt := ErrPacket{ErrorCode: code, SQLState: state, Message: msg}
	return writePacket(h.Client, pkt.Encode(), h.clientSeq+1)
}

// relayResultSet implements ComQueryResponse/ComQueryFieldPacket/
// ExpectResultRow/IgnoreFurtherResults for the text protocol. columns
// may be nil (passthrough statements, or statements whose projection
// could not be resolved), in which case rows forward verbatim.
func (h *Handler) relayResultSet(columns []ColumnDecrypt) error {
	first, seq, err := readPacket(h.ur)
	if err != nil {
		return jerrors.Annotate(err, "reading query response header")
	}
	if err := writePacket(h.Client, first, seq); err != nil {
		return err
	}
	if len(first) == 0 || isTerminator(first) {
		return nil
	}
	if first[0] == 0xFB {
		return jerrors.New("local infile request is not supported")
	}

	fieldCount, _, ok := ReadLenencInt(first, 0)
	if !ok {
		return jerrors.New("malformed field count packet")
	}

	for i := uint64(0); i < fieldCount; i++ {
		pkt, pseq, err := readPacket(h.ur)
		if err != nil {
			return jerrors.Annotate(err, "reading field packet")
		}
		if err := writePacket(h.Client, pkt, pseq); err != nil {
			return err
		}
	}

	// Optional EOF after the field list (omitted when the connection
	// negotiated ClientDeprecateEOF, which this proxy does not offer).
	eof, eseq, err := readPacket(h.ur)
	if err != nil {
		return jerrors.Annotate(err, "reading field-list terminator")
	}
	if err := writePacket(h.Client, eof, eseq); err != nil {
		return err
	}

	for {
		row, rseq, err := readPacket(h.ur)
		if err != nil {
			return jerrors.Annotate(err, "reading result row")
		}
		if isTerminator(row) {
			return writePacket(h.Client, row, rseq)
		}

		rewritten, decErr := decryptRow(row, columns)
		if decErr != nil {
			if err := h.respondErr(decErr); err != nil {
				return err
			}
			return h.ignoreFurtherResults()
		}
		if err := writePacket(h.Client, rewritten, rseq); err != nil {
			return err
		}
	}
}

// ignoreFurtherResults drops upstream packets until a terminator, per
// the IgnoreFurtherResults state entered after a row decryption failure.
func (h *Handler) ignoreFurtherResults() error {
	for {
		pkt, _, err := readPacket(h.ur)
		if err != nil {
			return jerrors.Annotate(err, "draining result set after decryption error")
		}
		if isTerminator(pkt) {
			return nil
		}
	}
}

// decryptRow re-renders a text-protocol row, replacing any column whose
// decryption scheme is not NA with its decrypted plaintext rendering.
func decryptRow(row []byte, columns []ColumnDecrypt) ([]byte, error) {
	if columns == nil {
		return row, nil
	}
	var out []byte
	pos := 0
	for i := 0; pos < len(row); i++ {
		var dec ColumnDecrypt
		if i < len(columns) {
			dec = columns[i]
		}

		val, next, ok := ReadLenencString(row, pos)
		if !ok {
			out = WriteByte(out, 0xFB)
			pos = next
			continue
		}
		pos = next

		if dec.Encryption == encrypt.NA {
			out = WriteLenencString(out, val)
			continue
		}

		plain, err := decryptColumnValue(val, dec)
		if err != nil {
			return nil, err
		}
		out = WriteLenencString(out, plain)
	}
	return out, nil
}

func decryptColumnValue(ciphertext []byte, dec ColumnDecrypt) ([]byte, error) {
	raw, err := encrypt.Decrypt(dec.Key, ciphertext)
	if err != nil {
		return nil, err
	}
	value, err := encrypt.Decode(dec.NativeType, raw)
	if err != nil {
		return nil, err
	}
	return renderValue(value), nil
}

func renderValue(v interface{}) []byte {
	switch t := v.(type) {
	case string:
		return []byte(t)
	case []byte:
		return t
	default:
		return []byte(formatAny(t))
	}
}

// handleStmtPrepare rewrites the statement the same way ComQuery does,
// forwards it, and — once the upstream assigns a statement id — records
// the result columns so a later ComStmtExecute can decrypt rows.
// Bound parameters are not re-encrypted (see the Handler.preparedColumns
// doc comment); deterministic-equality columns in a prepared statement
// therefore must rely on literals, not placeholders, to match encrypted
// values upstream.
func (h *Handler) handleStmtPrepare(payload []byte) error {
	sql := string(payload[1:])
	result, err := h.Rewriter.Rewrite(h.schema, sql)
	if err != nil {
		return h.respondErr(err)
	}

	out := append([]byte{byte(ComStmtPrepare)}, []byte(result.SQL)...)
	if err := writePacket(h.Upstream, out, 0); err != nil {
		return jerrors.Annotate(err, "forwarding prepare")
	}

	head, seq, err := readPacket(h.ur)
	if err != nil {
		return jerrors.Annotate(err, "reading prepare response")
	}
	if err := writePacket(h.Client, head, seq); err != nil {
		return err
	}
	if isTerminator(head) {
		return nil
	}
	if len(head) < 9 {
		return jerrors.New("malformed stmt prepare OK packet")
	}
	stmtID := binary.LittleEndian.Uint32(head[1:5])
	numColumns := binary.LittleEndian.Uint16(head[5:7])
	numParams := binary.LittleEndian.Uint16(head[7:9])

	if err := h.relayDefinitions(int(numParams)); err != nil {
		return err
	}
	if err := h.relayDefinitions(int(numColumns)); err != nil {
		return err
	}

	h.preparedColumns[stmtID] = result.Columns
	return nil
}

// relayDefinitions forwards n parameter/column definition packets
// followed by their terminating EOF, verbatim.
func (h *Handler) relayDefinitions(n int) error {
	if n == 0 {
		return nil
	}
	for i := 0; i < n; i++ {
		pkt, seq, err := readPacket(h.ur)
		if err != nil {
			return jerrors.Annotate(err, "reading prepared statement definition")
		}
		if err := writePacket(h.Client, pkt, seq); err != nil {
			return err
		}
	}
	eof, seq, err := readPacket(h.ur)
	if err != nil {
		return jerrors.Annotate(err, "reading definition terminator")
	}
	return writePacket(h.Client, eof, seq)
}

// handleStmtExecute forwards the binary-protocol execute payload
// unchanged and relays the result set, decrypting rows using the
// columns recorded at prepare time.
func (h *Handler) handleStmtExecute(payload []byte) error {
	if len(payload) < 5 {
		return h.forwardAll(payload, h.clientSeq, h.ur)
	}
	stmtID := binary.LittleEndian.Uint32(payload[1:5])
	columns := h.preparedColumns[stmtID]

	if err := writePacket(h.Upstream, payload, 0); err != nil {
		return jerrors.Annotate(err, "forwarding execute")
	}
	return h.relayResultSet(columns)
}

func formatAny(v interface{}) string {
	return fmt.Sprintf("%v", v)
}
