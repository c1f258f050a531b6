package ygggo_dbal

import (
	"os"
	"strconv"
	"strings"
)

// Environment variable names for the scoped test backend.
const (
	EnvDriver     = "YGGGO_DB_DRIVER"
	EnvUser       = "YGGGO_DB_USER"
	EnvPassword   = "YGGGO_DB_PASSWORD"
	EnvHost       = "YGGGO_DB_HOST"
	EnvPort       = "YGGGO_DB_PORT"
	EnvDBName     = "YGGGO_DB_DBNAME"
	EnvServer     = "YGGGO_DB_SERVER"
	EnvUnixSocket = "YGGGO_DB_UNIX_SOCKET"
	EnvPath       = "YGGGO_DB_PATH"
	EnvMemory     = "YGGGO_DB_MEMORY"

	// EnvEventSubscribers lists event subscribers to attach to every
	// provisioned connection, comma separated, in order.
	EnvEventSubscribers = "YGGGO_DB_EVENT_SUBSCRIBERS"
)

// Environment variable names for the privileged backend used to create and
// drop the test database. When EnvTmpDriver is unset the privileged settings
// are derived from the scoped ones instead.
const (
	EnvTmpDriver     = "YGGGO_TMPDB_DRIVER"
	EnvTmpUser       = "YGGGO_TMPDB_USER"
	EnvTmpPassword   = "YGGGO_TMPDB_PASSWORD"
	EnvTmpHost       = "YGGGO_TMPDB_HOST"
	EnvTmpPort       = "YGGGO_TMPDB_PORT"
	EnvTmpDBName     = "YGGGO_TMPDB_DBNAME"
	EnvTmpServer     = "YGGGO_TMPDB_SERVER"
	EnvTmpUnixSocket = "YGGGO_TMPDB_UNIX_SOCKET"
	EnvTmpPath       = "YGGGO_TMPDB_PATH"
	EnvTmpMemory     = "YGGGO_TMPDB_MEMORY"
)

// BackendSettings holds the configured connection settings for one backend
// account. Zero values mean "not configured"; they are never defaulted here.
type BackendSettings struct {
	Driver     string
	User       string
	Password   string
	Host       string
	Port       int
	DBName     string
	Server     string
	UnixSocket string
	Path       string
	Memory     bool
}

// Config is the full configuration consumed by a Session: the scoped test
// account, the optional privileged account, and the event subscribers to
// attach to provisioned connections.
type Config struct {
	Test        BackendSettings
	Privileged  BackendSettings
	Subscribers []string
}

// HasExplicitConfiguration reports whether an explicit backend is
// configured. Without one the session falls back to embedded SQLite and
// skips the database reset entirely.
func (c Config) HasExplicitConfiguration() bool { return c.Test.Driver != "" }

// LoadEnv builds a Config from the process environment. Each recognized
// variable maps to one named field; absent variables leave the zero value.
func LoadEnv() Config {
	return Config{
		Test: BackendSettings{
			Driver:     os.Getenv(EnvDriver),
			User:       os.Getenv(EnvUser),
			Password:   os.Getenv(EnvPassword),
			Host:       os.Getenv(EnvHost),
			Port:       envInt(EnvPort),
			DBName:     os.Getenv(EnvDBName),
			Server:     os.Getenv(EnvServer),
			UnixSocket: os.Getenv(EnvUnixSocket),
			Path:       os.Getenv(EnvPath),
			Memory:     envBool(EnvMemory),
		},
		Privileged: BackendSettings{
			Driver:     os.Getenv(EnvTmpDriver),
			User:       os.Getenv(EnvTmpUser),
			Password:   os.Getenv(EnvTmpPassword),
			Host:       os.Getenv(EnvTmpHost),
			Port:       envInt(EnvTmpPort),
			DBName:     os.Getenv(EnvTmpDBName),
			Server:     os.Getenv(EnvTmpServer),
			UnixSocket: os.Getenv(EnvTmpUnixSocket),
			Path:       os.Getenv(EnvTmpPath),
			Memory:     envBool(EnvTmpMemory),
		},
		Subscribers: splitSubscribers(os.Getenv(EnvEventSubscribers)),
	}
}

func envInt(key string) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return 0
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0
	}
	return n
}

func envBool(key string) bool {
	v, err := strconv.ParseBool(strings.TrimSpace(os.Getenv(key)))
	return err == nil && v
}

// splitSubscribers parses a comma separated subscriber list, preserving
// order and dropping empty entries.
func splitSubscribers(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	names := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			names = append(names, p)
		}
	}
	if len(names) == 0 {
		return nil
	}
	return names
}
