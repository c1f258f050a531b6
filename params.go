package ygggo_dbal

import (
	"fmt"
	"os"
)

// ConnParams is the resolved parameter set for one connection request.
// It is built once by a resolver and treated as immutable by value.
type ConnParams struct {
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

// TestParams resolves the scoped test account's connection parameters.
// It is a presence-only copy of the primary settings: what is not
// configured stays zero, nothing is defaulted.
func TestParams(c Config) ConnParams {
	return paramsFromSettings(c.Test)
}

// PrivilegedParams resolves the parameters of an account authorized to
// create and drop databases.
//
// When a privileged driver is configured explicitly its settings are taken
// verbatim, database name included (the privileged database may itself be
// the intended target). Otherwise the scoped settings are reused with the
// database name stripped: a connection meant to drop and recreate the test
// database must not open bound to it.
func PrivilegedParams(c Config) ConnParams {
	if c.Privileged.Driver != "" {
		return paramsFromSettings(c.Privileged)
	}
	p := paramsFromSettings(c.Test)
	p.DBName = ""
	return p
}

// FallbackParams builds parameters for the embedded SQLite backend, used
// when no explicit backend is configured. A configured file path selects a
// file-backed database, removing any stale file first; otherwise the
// database lives in memory. When no SQLite driver is registered the error
// wraps ErrNoBackend so callers can skip instead of fail.
func FallbackParams(c Config) (ConnParams, error) {
	if !sqliteAvailable() {
		return ConnParams{}, fmt.Errorf("embedded sqlite driver not registered: %w", ErrNoBackend)
	}
	if c.Test.Path != "" {
		if err := os.Remove(c.Test.Path); err != nil && !os.IsNotExist(err) {
			return ConnParams{}, &ConfigurationError{Key: EnvPath, Message: "cannot remove stale database file", Cause: err}
		}
		return ConnParams{Driver: DriverSQLite, Path: c.Test.Path}, nil
	}
	return ConnParams{Driver: DriverSQLite, Memory: true}, nil
}

// ResolveParams picks the scoped parameter set for a connection request:
// the configured backend when one is present, the SQLite fallback otherwise.
func ResolveParams(c Config) (ConnParams, error) {
	if c.HasExplicitConfiguration() {
		return TestParams(c), nil
	}
	return FallbackParams(c)
}

func paramsFromSettings(s BackendSettings) ConnParams {
	return ConnParams{
		Driver:     s.Driver,
		User:       s.User,
		Password:   s.Password,
		Host:       s.Host,
		Port:       s.Port,
		DBName:     s.DBName,
		Server:     s.Server,
		UnixSocket: s.UnixSocket,
		Path:       s.Path,
		Memory:     s.Memory,
	}
}
