package wire

// Command is a COM_* packet type byte, the first byte of a client
// request packet in ExpectClientRequest state.
type Command byte

const (
	ComSleep Command = iota
	ComQuit
	ComInitDB
	ComQuery
	ComFieldList
	ComCreateDB
	ComDropDB
	ComRefresh
	ComShutdown
	ComStatistics
	ComProcessInfo
	ComConnect
	ComProcessKill
	ComDebug
	ComPing
	ComTime
	ComDelayedInsert
	ComChangeUser
	ComBinlogDump
	ComTableDump
	ComConnectOut
	ComRegisterSlave
	ComStmtPrepare
	ComStmtExecute
	ComStmtSendLongData
	ComStmtClose
	ComStmtReset
	ComSetOption
	ComStmtFetch
	ComDaemon
	ComBinlogDumpGTID
	ComResetConnection
)

// Status flags carried in OK/EOF packets.
const (
	ServerStatusInTrans    uint16 = 0x0001
	ServerStatusAutocommit uint16 = 0x0002
	ServerMoreResultsExist uint16 = 0x0008
)

// Capability flags negotiated during the handshake. Only the subset the
// proxy actually inspects or sets is named.
const (
	ClientLongPassword  uint32 = 0x00000001
	ClientFoundRows     uint32 = 0x00000002
	ClientLongFlag      uint32 = 0x00000004
	ClientConnectWithDB uint32 = 0x00000008
	ClientProtocol41    uint32 = 0x00000200
	ClientSecureConnection uint32 = 0x00008000
	ClientPluginAuth    uint32 = 0x00080000
	ClientDeprecateEOF  uint32 = 0x01000000
)
