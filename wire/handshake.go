package wire

import "crypto/rand"

const (
	ServerVersion   = "5.7.32-zeroproxy"
	ProtocolVersion = 10
	charsetUTF8     = 33
)

// Handshake is the initial greeting packet sent to a newly accepted
// client, before any authentication exchange.
type Handshake struct {
	ConnectionID uint32
	Scramble     []byte
}

// NewHandshake builds a greeting carrying a fresh 20-byte scramble.
func NewHandshake(connectionID uint32) (Handshake, error) {
	scramble := make([]byte, 20)
	if _, err := rand.Read(scramble); err != nil {
		return Handshake{}, err
	}
	return Handshake{ConnectionID: connectionID, Scramble: scramble}, nil
}

// Encode renders the handshake (v10) packet body.
func (h Handshake) Encode() []byte {
	// ClientDeprecateEOF is deliberately not advertised: the result-set
	// relay in query.go forwards upstream's field-list/row terminators
	// verbatim, and upstream was not asked to deprecate them either.
	capabilities := ClientLongPassword | ClientFoundRows | ClientLongFlag |
		ClientConnectWithDB | ClientProtocol41 | ClientSecureConnection |
		ClientPluginAuth

	buf := []byte{ProtocolVersion}
	buf = WriteNullTerminated(buf, []byte(ServerVersion))
	buf = WriteUB4(buf, h.ConnectionID)
	buf = WriteBytes(buf, h.Scramble[:8])
	buf = WriteByte(buf, 0) // filler
	buf = WriteUB2(buf, uint16(capabilities))
	buf = WriteByte(buf, charsetUTF8)
	buf = WriteUB2(buf, ServerStatusAutocommit)
	buf = WriteUB2(buf, uint16(capabilities>>16))
	buf = WriteByte(buf, byte(len(h.Scramble)+1))
	buf = WriteBytes(buf, make([]byte, 10)) // reserved
	buf = WriteNullTerminated(buf, h.Scramble[8:])
	buf = WriteNullTerminated(buf, []byte("mysql_native_password"))
	return buf
}
