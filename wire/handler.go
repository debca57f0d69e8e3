// Package wire implements the MySQL client/server wire protocol: packet
// framing, the OK/EOF/ERR/field packet encoders, and the per-connection
// state machine that intercepts ComQuery payloads for rewriting while
// relaying every other packet between a client and the real upstream
// server verbatim.
package wire

import (
	"bufio"
	"encoding/binary"
	"io"
	"net"

	jerrors "github.com/juju/errors"

	"github.com/agildata/zeroproxy/encrypt"
	"github.com/agildata/zeroproxy/logger"
)

// ColumnDecrypt names the decryption needed for one result-set column.
// Encryption == encrypt.NA means the column is forwarded verbatim.
type ColumnDecrypt struct {
	Encryption encrypt.EncryptionType
	NativeType encrypt.NativeType
	Key        encrypt.Key
}

// RewriteResult is what a QueryRewriter produces for one statement: the
// SQL to actually send upstream (identical to the input on passthrough)
// plus, when known, the encryption carried by each projected column so
// result rows can be decrypted on the way back to the client.
type RewriteResult struct {
	SQL     string
	Columns []ColumnDecrypt
}

// QueryRewriter turns client-supplied SQL into upstream SQL. It is
// implemented by the proxy package, which owns the statement cache,
// schema provider, and planner/writer pipeline; wire only consumes the
// interface so the protocol state machine stays independent of the SQL
// stack.
type QueryRewriter interface {
	Rewrite(schema, sql string) (RewriteResult, error)
}

// Handler drives one client connection: it authenticates to upstream with
// its own credentials and greets the client with the proxy's own
// handshake (neither exchange is relayed), then intercepts ComQuery (and,
// for result decryption only, ComStmtPrepare/ComStmtExecute) payloads.
type Handler struct {
	Client   net.Conn
	Upstream net.Conn
	Rewriter QueryRewriter

	// ClientUser/ClientPassword carry the configured client credentials.
	// greetClient does not check them: any client able to reach the
	// listener is accepted.
	ClientUser     string
	ClientPassword string

	// UpstreamUser/UpstreamPassword/UpstreamDB authenticate this
	// connection's dedicated upstream link, independent of whatever the
	// client itself presented.
	UpstreamUser     string
	UpstreamPassword string
	UpstreamDB       string

	connectionID uint32

	schema    string
	clientSeq byte

	cr *bufio.Reader
	ur *bufio.Reader

	// preparedColumns tracks, per upstream-assigned statement id, the
	// column decryption recorded when the statement was prepared.
	// Binary-protocol bound parameters are forwarded unencrypted: the
	// ComStmtExecute payload would need to be fully decoded (null
	// bitmap, per-param types, values) to encrypt them in place, which
	// is out of scope for this pass. Literal-bearing statements go
	// through ComQuery, where encryption is fully applied.
	preparedColumns map[uint32][]ColumnDecrypt
}

// Serve runs the connection state machine until either side closes or
// a fatal protocol error occurs. It always closes both connections
// before returning.
func (h *Handler) Serve() error {
	defer h.Client.Close()
	defer h.Upstream.Close()

	h.preparedColumns = map[uint32][]ColumnDecrypt{}
	h.schema = h.UpstreamDB
	h.cr = bufio.NewReader(h.Client)
	h.ur = bufio.NewReader(h.Upstream)

	if err := h.authenticateUpstream(); err != nil {
		return jerrors.Annotate(err, "authenticating to upstream")
	}
	if err := h.greetClient(); err != nil {
		return jerrors.Annotate(err, "handshake")
	}

	for {
		payload, seq, err := readPacket(h.cr)
		if err != nil {
			if err == io.EOF {
				return nil
			}
			return jerrors.Annotate(err, "reading client request")
		}
		h.clientSeq = seq
		if len(payload) == 0 {
			continue
		}

		cmd := Command(payload[0])
		switch cmd {
		case ComQuit:
			h.forward(h.Upstream, payload, seq)
			return nil
		case ComInitDB:
			h.schema = string(payload[1:])
			if err := h.forwardAndRelayOkErr(payload, seq); err != nil {
				return err
			}
		case ComQuery:
			if err := h.handleQuery(payload); err != nil {
				return err
			}
		case ComStmtPrepare:
			if err := h.handleStmtPrepare(payload); err != nil {
				return err
			}
		case ComStmtExecute:
			if err := h.handleStmtExecute(payload); err != nil {
				return err
			}
		case ComStmtClose:
			if len(payload) >= 5 {
				id := binary.LittleEndian.Uint32(payload[1:5])
				delete(h.preparedColumns, id)
			}
			h.forward(h.Upstream, payload, seq)
		default:
			if err := h.forwardAll(payload, seq, h.ur); err != nil {
				return err
			}
		}
	}
}

// authenticateUpstream performs this connection's own client-side
// handshake against the real server, using the configured upstream
// credentials rather than whatever the downstream client presents.
func (h *Handler) authenticateUpstream() error {
	greet, _, err := readPacket(h.ur)
	if err != nil {
		return jerrors.Annotate(err, "reading upstream greeting")
	}
	seed, err := seedFromGreeting(greet)
	if err != nil {
		return err
	}

	resp := buildAuthResponse(h.UpstreamUser, h.UpstreamPassword, h.UpstreamDB, seed)
	if err := writePacket(h.Upstream, resp, 1); err != nil {
		return jerrors.Annotate(err, "sending upstream auth response")
	}

	result, _, err := readPacket(h.ur)
	if err != nil {
		return jerrors.Annotate(err, "reading upstream auth result")
	}
	if len(result) == 0 || result[0] == 0xFF {
		return jerrors.Errorf("upstream rejected authentication: %s", string(result))
	}
	return nil
}

// seedFromGreeting extracts the 20-byte auth seed from a v10 handshake
// packet: 8 bytes before the first filler byte, then 12 more after the
// capability/charset/status block.
func seedFromGreeting(greet []byte) ([]byte, error) {
	pos := 1
	_, pos = ReadNullTerminatedString(greet, pos)
	pos += 4 // connection id
	if pos+8 > len(greet) {
		return nil, jerrors.New("truncated handshake greeting")
	}
	seed := append([]byte{}, greet[pos:pos+8]...)
	pos += 8 + 1 // seed part 1 + filler
	pos += 2 + 1 + 2 + 2 + 1 + 10
	if pos >= len(greet) {
		return seed, nil
	}
	rest, _ := ReadNullTerminatedString(greet, pos)
	return append(seed, rest...), nil
}

// greetClient sends this proxy's own handshake to the connecting
// client and accepts its response without checking it against
// ClientUser/ClientPassword: the connection's real trust boundary is
// the upstream authentication in authenticateUpstream, which uses the operator-configured upstream
// credentials regardless of what the client presents.
func (h *Handler) greetClient() error {
	hs, err := NewHandshake(h.connectionID)
	if err != nil {
		return err
	}
	if err := writePacket(h.Client, hs.Encode(), 0); err != nil {
		return err
	}

	if _, _, err := readPacket(h.cr); err != nil {
		return jerrors.Annotate(err, "reading client auth response")
	}

	ok := OKPacket{StatusFlags: ServerStatusAutocommit}
	return writePacket(h.Client, ok.Encode(), 2)
}

func (h *Handler) forward(conn net.Conn, payload []byte, seq byte) {
	if err := writePacket(conn, payload, seq); err != nil {
		logger.Errorf("forwarding packet: %v", err)
	}
}

// forwardAndRelayOkErr forwards payload upstream then copies back a
// single OK/ERR response, for commands with no result set.
func (h *Handler) forwardAndRelayOkErr(payload []byte, seq byte) error {
	if err := writePacket(h.Upstream, payload, seq); err != nil {
		return jerrors.Annotate(err, "forwarding request")
	}
	resp, rseq, err := readPacket(h.ur)
	if err != nil {
		return jerrors.Annotate(err, "reading response")
	}
	return writePacket(h.Client, resp, rseq)
}

// forwardAll implements the ForwardAll state: forward payload upstream,
// then relay every response packet verbatim until an OK/EOF/ERR
// terminator passes through.
func (h *Handler) forwardAll(payload []byte, seq byte, ur *bufio.Reader) error {
	if err := writePacket(h.Upstream, payload, seq); err != nil {
		return jerrors.Annotate(err, "forwarding request")
	}
	for {
		resp, rseq, err := readPacket(ur)
		if err != nil {
			return jerrors.Annotate(err, "reading response")
		}
		if err := writePacket(h.Client, resp, rseq); err != nil {
			return err
		}
		if isTerminator(resp) {
			return nil
		}
	}
}

func isTerminator(payload []byte) bool {
	if len(payload) == 0 {
		return true
	}
	switch payload[0] {
	case 0x00, 0xFE, 0xFF:
		return true
	default:
		return false
	}
}

// readPacket reads one frame: 3-byte LE length, 1-byte sequence id,
// then that many payload bytes.
func readPacket(r *bufio.Reader) ([]byte, byte, error) {
	header := make([]byte, 4)
	if _, err := io.ReadFull(r, header); err != nil {
		return nil, 0, err
	}
	length, _ := ReadUB3(header, 0)
	seq := header[3]
	payload := make([]byte, length)
	if length > 0 {
		if _, err := io.ReadFull(r, payload); err != nil {
			return nil, 0, err
		}
	}
	return payload, seq, nil
}

func writePacket(w io.Writer, payload []byte, seq byte) error {
	_, err := w.Write(Frame(payload, seq))
	return err
}
