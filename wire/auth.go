package wire

import "crypto/sha1"

// nativePasswordScramble computes the mysql_native_password response:
// SHA1(password) XOR SHA1(seed + SHA1(SHA1(password))).
// An empty password yields an empty response, matching the real
// protocol's handling of anonymous accounts.
func nativePasswordScramble(password string, seed []byte) []byte {
	if password == "" {
		return nil
	}
	pwHash := sha1.Sum([]byte(password))
	pwHashHash := sha1.Sum(pwHash[:])

	h := sha1.New()
	h.Write(seed)
	h.Write(pwHashHash[:])
	seedHash := h.Sum(nil)

	out := make([]byte, len(pwHash))
	for i := range out {
		out[i] = pwHash[i] ^ seedHash[i]
	}
	return out
}

// buildAuthResponse encodes a MySQL protocol 41 client auth response
// packet authenticating as user/db against a server that issued seed.
func buildAuthResponse(user, password, db string, seed []byte) []byte {
	capabilities := uint32(ClientLongPassword | ClientFoundRows | ClientLongFlag |
		ClientProtocol41 | ClientSecureConnection | ClientPluginAuth)
	if db != "" {
		capabilities |= ClientConnectWithDB
	}

	scramble := nativePasswordScramble(password, seed)

	var buf []byte
	buf = WriteUB4(buf, capabilities)
	buf = WriteUB4(buf, 1<<24-1) // max packet size
	buf = WriteByte(buf, 33)     // charset: utf8_general_ci
	buf = WriteBytes(buf, make([]byte, 23))
	buf = WriteNullTerminated(buf, []byte(user))
	buf = WriteByte(buf, byte(len(scramble)))
	buf = WriteBytes(buf, scramble)
	if db != "" {
		buf = WriteNullTerminated(buf, []byte(db))
	}
	buf = WriteNullTerminated(buf, []byte("mysql_native_password"))
	return buf
}
