package ygggo_dbal

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
)

// fakeDriver simulates a server-style backend with CREATE/DROP DATABASE
// support. It records every opened DSN and executed statement so lifecycle
// tests can assert on the exact reset protocol.
type fakeDriver struct {
	mu         sync.Mutex
	databases  map[string]bool
	statements []string
	openedDSNs []string
	currentDB  string // answer to SELECT DATABASE()
	failOn     string // statements containing this substring fail
}

func (d *fakeDriver) reset() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.databases = make(map[string]bool)
	d.statements = nil
	d.openedDSNs = nil
	d.currentDB = ""
	d.failOn = ""
}

func (d *fakeDriver) recorded() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.statements...)
}

func (d *fakeDriver) Open(name string) (driver.Conn, error) {
	d.mu.Lock()
	d.openedDSNs = append(d.openedDSNs, name)
	d.mu.Unlock()
	return &fakeConn{driver: d}, nil
}

type fakeConn struct {
	driver *fakeDriver
}

func (c *fakeConn) Prepare(query string) (driver.Stmt, error) {
	return &fakeStmt{conn: c, query: query}, nil
}
func (c *fakeConn) Close() error                           { return nil }
func (c *fakeConn) Begin() (driver.Tx, error)              { return &fakeTx{}, nil }
func (c *fakeConn) Ping(ctx context.Context) error         { return nil }
func (c *fakeConn) ResetSession(ctx context.Context) error { return nil }

func (c *fakeConn) QueryContext(ctx context.Context, query string, args []driver.NamedValue) (driver.Rows, error) {
	return c.query(query)
}

func (c *fakeConn) ExecContext(ctx context.Context, query string, args []driver.NamedValue) (driver.Result, error) {
	return c.exec(query)
}

func (c *fakeConn) query(query string) (driver.Rows, error) {
	upper := strings.ToUpper(strings.TrimSpace(query))
	if strings.Contains(upper, "SELECT DATABASE()") {
		c.driver.mu.Lock()
		name := c.driver.currentDB
		c.driver.mu.Unlock()
		return &fakeRows{values: []string{name}, index: -1}, nil
	}
	return &fakeRows{index: -1}, nil
}

func (c *fakeConn) exec(query string) (driver.Result, error) {
	d := c.driver
	d.mu.Lock()
	defer d.mu.Unlock()
	d.statements = append(d.statements, query)

	if d.failOn != "" && strings.Contains(strings.ToUpper(query), strings.ToUpper(d.failOn)) {
		return nil, errors.New("simulated failure: " + query)
	}

	upper := strings.ToUpper(strings.TrimSpace(query))
	switch {
	case strings.HasPrefix(upper, "CREATE DATABASE"):
		d.databases[lastIdentifier(query)] = true
	case strings.HasPrefix(upper, "DROP DATABASE"):
		delete(d.databases, lastIdentifier(query))
	}
	return fakeResult{}, nil
}

// lastIdentifier extracts the unquoted database name from the end of a
// CREATE/DROP DATABASE statement.
func lastIdentifier(query string) string {
	fields := strings.Fields(query)
	if len(fields) == 0 {
		return ""
	}
	return strings.Trim(fields[len(fields)-1], "`\"'")
}

type fakeStmt struct {
	conn  *fakeConn
	query string
}

func (s *fakeStmt) Close() error  { return nil }
func (s *fakeStmt) NumInput() int { return 0 }
func (s *fakeStmt) Exec(args []driver.Value) (driver.Result, error) {
	return s.conn.exec(s.query)
}
func (s *fakeStmt) Query(args []driver.Value) (driver.Rows, error) {
	return s.conn.query(s.query)
}

type fakeRows struct {
	values []string
	index  int
}

func (r *fakeRows) Columns() []string { return []string{"value"} }
func (r *fakeRows) Close() error      { return nil }
func (r *fakeRows) Next(dest []driver.Value) error {
	r.index++
	if r.index >= len(r.values) {
		return io.EOF
	}
	dest[0] = r.values[r.index]
	return nil
}

type fakeResult struct{}

func (fakeResult) LastInsertId() (int64, error) { return 0, nil }
func (fakeResult) RowsAffected() (int64, error) { return 1, nil }

type fakeTx struct{}

func (fakeTx) Commit() error   { return nil }
func (fakeTx) Rollback() error { return nil }

var testFakeDriver = &fakeDriver{databases: make(map[string]bool)}

func init() {
	sql.Register("ygggo_fake", testFakeDriver)
	RegisterDriver("fakedb", "ygggo_fake", func(p ConnParams) string {
		return fmt.Sprintf("%s@%s/%s", p.User, p.Host, p.DBName)
	})
	RegisterPlatform("fakedb", mysqlPlatform{})
}
