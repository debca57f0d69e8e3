// Package conf loads the proxy's TOML configuration file: upstream
// connection info, client-facing listener settings, parsing options and
// the per-schema/per-table/per-column encryption map.
package conf

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/pelletier/go-toml"

	"github.com/agildata/zeroproxy/encrypt"
	"github.com/agildata/zeroproxy/logger"
	"github.com/agildata/zeroproxy/zerror"
)

// ClientConfig describes the address the proxy listens on for incoming
// client connections.
type ClientConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
	User string `toml:"user"`
	Password string `toml:"password"`
}

// ConnectionConfig describes the upstream MySQL server the proxy forwards
// (rewritten) traffic to.
type ConnectionConfig struct {
	Host     string `toml:"host"`
	Port     int    `toml:"port"`
	User     string `toml:"user"`
	Password string `toml:"password"`
	DB       string `toml:"db"`
}

// ParsingConfig tunes the tokenizer/parser/cache layer.
type ParsingConfig struct {
	StatementCacheSize int    `toml:"statement_cache_size"`
	Mode               string `toml:"mode"`
}

// Permissive reports whether unparseable statements should always be
// forwarded rather than rejected. Anything other than the literal
// string "strict" is treated as permissive, matching the TOML default
// of an empty mode.
func (c ParsingConfig) Permissive() bool {
	return c.Mode != "strict"
}

// ForwardableUnparsed lists the statement kinds a strict-mode proxy
// still forwards verbatim even though it cannot plan them.
var ForwardableUnparsed = []string{"SET", "SHOW", "BEGIN", "COMMIT", "ROLLBACK"}

// LogConfig controls where the proxy's logs go and at what level.
type LogConfig struct {
	ErrorLogPath string `toml:"error_log_path"`
	InfoLogPath  string `toml:"info_log_path"`
	LogLevel     string `toml:"level"`
}

// Logger converts the TOML-facing LogConfig into the logger package's
// own Config type.
func (c LogConfig) Logger() logger.Config {
	return logger.Config{ErrorLogPath: c.ErrorLogPath, InfoLogPath: c.InfoLogPath, LogLevel: c.LogLevel}
}

// ColumnConfig binds a column to a native type and, optionally, an
// encryption scheme and key.
type ColumnConfig struct {
	Name       string `toml:"name"`
	NativeType string `toml:"native_type"`
	Encryption string `toml:"encryption"`
	Key        string `toml:"key"`
}

// TableConfig names a table's configured columns.
type TableConfig struct {
	Name    string         `toml:"name"`
	Columns []ColumnConfig `toml:"columns"`
}

// SchemaConfig names a schema's configured tables.
type SchemaConfig struct {
	Name   string        `toml:"name"`
	Tables []TableConfig `toml:"tables"`
}

// Cfg is the fully resolved proxy configuration.
type Cfg struct {
	Client     ClientConfig            `toml:"client"`
	Connection ConnectionConfig        `toml:"connection"`
	Parsing    ParsingConfig           `toml:"parsing"`
	Log        LogConfig               `toml:"log"`
	Schemas    map[string]SchemaConfig `toml:"schemas"`
}

var envPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// resolveEnv substitutes ${VAR} references against the process environment
// everywhere a string field of Cfg could plausibly hold one (passwords,
// hosts pulled from a deployment's environment).
func resolveEnv(s string) string {
	return envPattern.ReplaceAllStringFunc(s, func(m string) string {
		name := m[2 : len(m)-1]
		if v, ok := os.LookupEnv(name); ok {
			return v
		}
		return m
	})
}

// Load reads and parses the TOML file at path, resolving ${ENV_VAR}
// references and validating the encryption map.
func Load(path string) (*Cfg, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, zerror.NewSchemaError("1049", "cannot read config file %s: %v", path, err)
	}

	var cfg Cfg
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, zerror.NewParseError("1064", "cannot parse config file %s: %v", path, err)
	}

	cfg.Client.Host = resolveEnv(cfg.Client.Host)
	cfg.Client.User = resolveEnv(cfg.Client.User)
	cfg.Client.Password = resolveEnv(cfg.Client.Password)
	cfg.Connection.Host = resolveEnv(cfg.Connection.Host)
	cfg.Connection.User = resolveEnv(cfg.Connection.User)
	cfg.Connection.Password = resolveEnv(cfg.Connection.Password)
	cfg.Connection.DB = resolveEnv(cfg.Connection.DB)

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Cfg) validate() error {
	for schemaName, schema := range c.Schemas {
		for _, table := range schema.Tables {
			for _, col := range table.Columns {
				if col.Encryption == "" {
					continue
				}
				scheme, err := encrypt.ParseEncryptionType(col.Encryption)
				if err != nil {
					return zerror.NewSchemaError("1105", "schema %s table %s column %s: %v",
						schemaName, table.Name, col.Name, err)
				}
				if scheme == encrypt.OPE {
					return zerror.NewSchemaError("1105",
						"schema %s table %s column %s: OPE encryption is not supported",
						schemaName, table.Name, col.Name)
				}
				if scheme != encrypt.NA && strings.TrimSpace(col.Key) == "" {
					return zerror.NewSchemaError("1105", "schema %s table %s column %s: encrypted column requires a key",
						schemaName, table.Name, col.Name)
				}
			}
		}
	}
	return nil
}

// MissingErr reports a required configuration property that was absent,
// in the style of the upstream config builder's own property errors.
func MissingErr(prop string) error {
	return zerror.NewSchemaError("1105", "missing required config property: %s", prop)
}

func (c *ClientConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

func (c *ConnectionConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
