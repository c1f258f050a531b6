package ygggo_dbal

import (
	"fmt"
	"net/url"
	"strings"
	"sync"
)

// DSNBuilder turns resolved connection parameters into a driver DSN.
type DSNBuilder func(ConnParams) string

type driverEntry struct {
	sqlDriver string // name registered with database/sql
	buildDSN  DSNBuilder
}

var dsnBuilders = struct {
	mu sync.RWMutex
	m  map[string]driverEntry
}{m: map[string]driverEntry{
	DriverMySQL:    {sqlDriver: "mysql", buildDSN: mysqlDSN},
	DriverPostgres: {sqlDriver: "pgx", buildDSN: postgresDSN},
	"postgres":     {sqlDriver: "pgx", buildDSN: postgresDSN},
	DriverSQLite:   {sqlDriver: sqliteDriverName, buildDSN: sqliteDSN},
	"sqlite3":      {sqlDriver: sqliteDriverName, buildDSN: sqliteDSN},
}}

// RegisterDriver maps a configured driver name to a database/sql driver
// and a DSN builder. Like RegisterPlatform it is meant for init time.
func RegisterDriver(name, sqlDriver string, build DSNBuilder) {
	dsnBuilders.mu.Lock()
	defer dsnBuilders.mu.Unlock()
	dsnBuilders.m[name] = driverEntry{sqlDriver: sqlDriver, buildDSN: build}
}

// buildDSN maps resolved connection parameters to the registered
// database/sql driver name and its DSN.
func buildDSN(p ConnParams) (string, string, error) {
	dsnBuilders.mu.RLock()
	entry, ok := dsnBuilders.m[p.Driver]
	dsnBuilders.mu.RUnlock()
	if !ok {
		return "", "", &ConfigurationError{Key: p.Driver, Message: "unknown database driver"}
	}
	return entry.sqlDriver, entry.buildDSN(p), nil
}

// mysqlDSN builds a go-sql-driver DSN. The password is passed raw, the
// driver does not expect URL encoding there.
func mysqlDSN(p ConnParams) string {
	auth := ""
	if p.User != "" {
		if p.Password != "" {
			auth = fmt.Sprintf("%s:%s@", p.User, p.Password)
		} else {
			auth = p.User + "@"
		}
	}

	var proto string
	if p.UnixSocket != "" {
		proto = fmt.Sprintf("unix(%s)", p.UnixSocket)
	} else {
		addr := hostOf(p)
		if p.Port > 0 {
			addr = fmt.Sprintf("%s:%d", addr, p.Port)
		}
		proto = fmt.Sprintf("tcp(%s)", addr)
	}

	return fmt.Sprintf("%s%s/%s", auth, proto, url.PathEscape(p.DBName))
}

// postgresDSN builds a pgx DSN. Unix socket connections use the keyword
// form, everything else the URL form.
func postgresDSN(p ConnParams) string {
	if p.UnixSocket != "" {
		var b strings.Builder
		kv := func(k, v string) {
			if v != "" {
				if b.Len() > 0 {
					b.WriteByte(' ')
				}
				fmt.Fprintf(&b, "%s=%s", k, v)
			}
		}
		kv("host", p.UnixSocket)
		kv("user", p.User)
		kv("password", p.Password)
		kv("dbname", p.DBName)
		if p.Port > 0 {
			kv("port", fmt.Sprintf("%d", p.Port))
		}
		return b.String()
	}

	u := url.URL{Scheme: "postgres", Host: hostOf(p)}
	if p.Port > 0 {
		u.Host = fmt.Sprintf("%s:%d", hostOf(p), p.Port)
	}
	if p.User != "" {
		if p.Password != "" {
			u.User = url.UserPassword(p.User, p.Password)
		} else {
			u.User = url.User(p.User)
		}
	}
	if p.DBName != "" {
		u.Path = "/" + p.DBName
	}
	return u.String()
}

// hostOf prefers the host parameter and falls back to the server alias some
// backends configure instead.
func hostOf(p ConnParams) string {
	if p.Host != "" {
		return p.Host
	}
	return p.Server
}
