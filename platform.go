package ygggo_dbal

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	_ "github.com/go-sql-driver/mysql" // mysql backend
	_ "github.com/jackc/pgx/v5/stdlib" // postgres backend
)

// Recognized driver names.
const (
	DriverMySQL    = "mysql"
	DriverPostgres = "pgx"
	DriverSQLite   = "sqlite"
)

// Platform captures what differs between backends: whether databases can be
// created and dropped directly, how identifiers are quoted, how the current
// database is discovered, how a just-generated identity value is fetched,
// and how an existing schema is torn down when the backend cannot simply
// drop the whole database.
type Platform interface {
	Name() string

	// SupportsCreateDropDatabase reports whether the backend has native
	// CREATE DATABASE / DROP DATABASE statements.
	SupportsCreateDropDatabase() bool

	QuoteIdentifier(name string) string

	// CurrentDatabaseSQL returns a query yielding the connection's current
	// database name, or "" when the backend has no such notion.
	CurrentDatabaseSQL() string

	CreateDatabaseSQL(name string) string
	DropDatabaseSQL(name string) string

	// SequenceName derives the backend's canonical sequence name for an
	// autoincrement-emulating column, or "" for backends with a native
	// last-insert-id mechanism.
	SequenceName(schema, table, column string) string

	// LastInsertIDSQL returns the query (and arguments) that fetches the
	// most recently generated identity value. Backends with native
	// retrieval ignore sequence; sequence-emulated backends require it.
	LastInsertIDSQL(sequence string) (string, []any, error)

	// DropAllStatements introspects the connection's current schema and
	// returns the DDL that drops every object in it. Only meaningful for
	// backends without native create/drop database support.
	DropAllStatements(ctx context.Context, conn *Conn) ([]string, error)
}

var platforms = struct {
	mu sync.RWMutex
	m  map[string]Platform
}{m: map[string]Platform{
	DriverMySQL:    mysqlPlatform{},
	DriverPostgres: postgresPlatform{},
	"postgres":     postgresPlatform{},
	DriverSQLite:   sqlitePlatform{},
	"sqlite3":      sqlitePlatform{},
}}

// RegisterPlatform makes a platform available under the given driver name.
// Registration is typically done from an init function, before any
// connection is opened with that driver.
func RegisterPlatform(driver string, p Platform) {
	platforms.mu.Lock()
	defer platforms.mu.Unlock()
	platforms.m[driver] = p
}

// PlatformFor returns the platform registered for a driver name.
func PlatformFor(driver string) (Platform, error) {
	platforms.mu.RLock()
	defer platforms.mu.RUnlock()
	if p, ok := platforms.m[driver]; ok {
		return p, nil
	}
	return nil, &ConfigurationError{Key: driver, Message: "unknown database driver"}
}

type mysqlPlatform struct{}

func (mysqlPlatform) Name() string                     { return "mysql" }
func (mysqlPlatform) SupportsCreateDropDatabase() bool { return true }

func (mysqlPlatform) QuoteIdentifier(name string) string {
	return "`" + strings.ReplaceAll(name, "`", "``") + "`"
}

func (mysqlPlatform) CurrentDatabaseSQL() string { return "SELECT DATABASE()" }

func (p mysqlPlatform) CreateDatabaseSQL(name string) string {
	return "CREATE DATABASE " + p.QuoteIdentifier(name)
}

func (p mysqlPlatform) DropDatabaseSQL(name string) string {
	return "DROP DATABASE IF EXISTS " + p.QuoteIdentifier(name)
}

func (mysqlPlatform) SequenceName(schema, table, column string) string { return "" }

func (mysqlPlatform) LastInsertIDSQL(string) (string, []any, error) {
	return "SELECT LAST_INSERT_ID()", nil, nil
}

func (mysqlPlatform) DropAllStatements(context.Context, *Conn) ([]string, error) {
	return nil, errors.New("mysql drops whole databases, not individual schema objects")
}

type postgresPlatform struct{}

func (postgresPlatform) Name() string                     { return "postgres" }
func (postgresPlatform) SupportsCreateDropDatabase() bool { return true }

func (postgresPlatform) QuoteIdentifier(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

func (postgresPlatform) CurrentDatabaseSQL() string { return "SELECT current_database()" }

func (p postgresPlatform) CreateDatabaseSQL(name string) string {
	return "CREATE DATABASE " + p.QuoteIdentifier(name)
}

func (p postgresPlatform) DropDatabaseSQL(name string) string {
	return "DROP DATABASE IF EXISTS " + p.QuoteIdentifier(name)
}

// SequenceName follows the serial naming convention. The schema qualifier
// is kept so the name resolves even when the connection's search path
// points elsewhere.
func (postgresPlatform) SequenceName(schema, table, column string) string {
	name := fmt.Sprintf("%s_%s_seq", table, column)
	if schema != "" {
		return schema + "." + name
	}
	return name
}

func (postgresPlatform) LastInsertIDSQL(sequence string) (string, []any, error) {
	if sequence == "" {
		return "", nil, &IdentityResolutionError{Cause: errors.New("a sequence name is required on this backend")}
	}
	return "SELECT currval($1)", []any{sequence}, nil
}

func (postgresPlatform) DropAllStatements(context.Context, *Conn) ([]string, error) {
	return nil, errors.New("postgres drops whole databases, not individual schema objects")
}

type sqlitePlatform struct{}

func (sqlitePlatform) Name() string                     { return "sqlite" }
func (sqlitePlatform) SupportsCreateDropDatabase() bool { return false }

func (sqlitePlatform) QuoteIdentifier(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

func (sqlitePlatform) CurrentDatabaseSQL() string { return "" }

func (sqlitePlatform) CreateDatabaseSQL(name string) string { return "" }
func (sqlitePlatform) DropDatabaseSQL(name string) string   { return "" }

func (sqlitePlatform) SequenceName(schema, table, column string) string { return "" }

func (sqlitePlatform) LastInsertIDSQL(string) (string, []any, error) {
	return "SELECT last_insert_rowid()", nil, nil
}

// DropAllStatements reads sqlite_master and generates one DROP per object.
// Triggers and views go before tables so nothing references a table when it
// falls. Internal sqlite_* objects are left alone.
func (p sqlitePlatform) DropAllStatements(ctx context.Context, conn *Conn) ([]string, error) {
	rows, err := conn.Query(ctx, `SELECT type, name FROM sqlite_master
		WHERE name NOT LIKE 'sqlite_%'
		ORDER BY CASE type
			WHEN 'trigger' THEN 0
			WHEN 'view' THEN 1
			WHEN 'index' THEN 2
			ELSE 3 END, name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stmts []string
	for rows.Next() {
		var typ, name string
		if err := rows.Scan(&typ, &name); err != nil {
			return nil, err
		}
		switch typ {
		case "trigger":
			stmts = append(stmts, "DROP TRIGGER IF EXISTS "+p.QuoteIdentifier(name))
		case "view":
			stmts = append(stmts, "DROP VIEW IF EXISTS "+p.QuoteIdentifier(name))
		case "index":
			stmts = append(stmts, "DROP INDEX IF EXISTS "+p.QuoteIdentifier(name))
		case "table":
			stmts = append(stmts, "DROP TABLE IF EXISTS "+p.QuoteIdentifier(name))
		}
	}
	return stmts, rows.Err()
}
