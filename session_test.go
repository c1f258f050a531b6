package ygggo_dbal

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fakeConfig(dbname string) Config {
	return Config{Test: BackendSettings{
		Driver: "fakedb",
		User:   "tester",
		Host:   "localhost",
		DBName: dbname,
	}}
}

func TestEnsureInitialized_DropAndCreate(t *testing.T) {
	ctx := context.Background()
	testFakeDriver.reset()
	testFakeDriver.databases["app_test"] = true // pre-existing, with contents

	s := NewSession(fakeConfig("app_test"))
	require.NoError(t, s.EnsureInitialized(ctx))

	stmts := testFakeDriver.recorded()
	require.Len(t, stmts, 2)
	assert.Equal(t, "DROP DATABASE IF EXISTS `app_test`", stmts[0])
	assert.Equal(t, "CREATE DATABASE `app_test`", stmts[1])
	assert.True(t, testFakeDriver.databases["app_test"], "database should exist after reset")
}

func TestEnsureInitialized_IdempotentPerSession(t *testing.T) {
	ctx := context.Background()
	testFakeDriver.reset()

	s := NewSession(fakeConfig("app_test"))
	require.NoError(t, s.EnsureInitialized(ctx))
	first := len(testFakeDriver.recorded())

	require.NoError(t, s.EnsureInitialized(ctx))
	require.NoError(t, s.EnsureInitialized(ctx))
	assert.Equal(t, first, len(testFakeDriver.recorded()), "repeat calls must not touch the backend")
}

func TestEnsureInitialized_NoopWithoutExplicitConfiguration(t *testing.T) {
	ctx := context.Background()
	testFakeDriver.reset()

	s := NewSession(Config{})
	require.NoError(t, s.EnsureInitialized(ctx))
	assert.Empty(t, testFakeDriver.recorded())
}

func TestEnsureInitialized_PrivilegedOpensWithoutDBName(t *testing.T) {
	ctx := context.Background()
	testFakeDriver.reset()

	s := NewSession(fakeConfig("app_test"))
	require.NoError(t, s.EnsureInitialized(ctx))

	// The privileged reset connection must not be bound to the database it
	// is about to drop.
	require.NotEmpty(t, testFakeDriver.openedDSNs)
	assert.True(t, strings.HasSuffix(testFakeDriver.openedDSNs[0], "/"),
		"privileged DSN should carry no database name, got %q", testFakeDriver.openedDSNs[0])
}

func TestEnsureInitialized_ResolvesImplicitDatabaseName(t *testing.T) {
	ctx := context.Background()
	testFakeDriver.reset()
	testFakeDriver.currentDB = "implicit_db"

	s := NewSession(fakeConfig(""))
	require.NoError(t, s.EnsureInitialized(ctx))

	stmts := testFakeDriver.recorded()
	require.Len(t, stmts, 2)
	assert.Equal(t, "DROP DATABASE IF EXISTS `implicit_db`", stmts[0])
	assert.Equal(t, "CREATE DATABASE `implicit_db`", stmts[1])
}

func TestEnsureInitialized_FailureLeavesSessionRetryable(t *testing.T) {
	ctx := context.Background()
	testFakeDriver.reset()
	testFakeDriver.failOn = "CREATE DATABASE"

	s := NewSession(fakeConfig("app_test"))
	err := s.EnsureInitialized(ctx)
	require.Error(t, err)
	var lerr *LifecycleError
	require.True(t, errors.As(err, &lerr))
	assert.Equal(t, "drop and create", lerr.Strategy)

	// The flag stays unset, so the next call retries from the top.
	testFakeDriver.mu.Lock()
	testFakeDriver.failOn = ""
	testFakeDriver.mu.Unlock()
	require.NoError(t, s.EnsureInitialized(ctx))
	assert.True(t, testFakeDriver.databases["app_test"])
}

func TestEnsureInitialized_SchemaTeardown(t *testing.T) {
	ctx := context.Background()
	path := ScratchPath()
	defer os.Remove(path)
	cfg := Config{Test: BackendSettings{Driver: DriverSQLite, Path: path}}

	// Seed the database with a table, an index, a view and a trigger.
	seed, err := Open(ctx, TestParams(cfg))
	require.NoError(t, err)
	for _, stmt := range []string{
		"CREATE TABLE items (id INTEGER PRIMARY KEY, name TEXT)",
		"CREATE INDEX idx_items_name ON items (name)",
		"CREATE VIEW item_names AS SELECT name FROM items",
		"CREATE TRIGGER trg_items AFTER INSERT ON items BEGIN SELECT 1; END",
		"INSERT INTO items (name) VALUES ('leftover')",
	} {
		_, err := seed.Exec(ctx, stmt)
		require.NoError(t, err, stmt)
	}
	require.NoError(t, seed.Close())

	s := NewSession(cfg)
	require.NoError(t, s.EnsureInitialized(ctx))

	// SQLite has no DROP DATABASE; the existing file must now be empty.
	check, err := Open(ctx, TestParams(cfg))
	require.NoError(t, err)
	defer check.Close()
	var count int
	require.NoError(t, check.QueryRow(ctx,
		"SELECT COUNT(*) FROM sqlite_master WHERE name NOT LIKE 'sqlite_%'").Scan(&count))
	assert.Zero(t, count, "schema should contain zero objects after teardown")
}

func TestConnect_ResetsOnceThenReuses(t *testing.T) {
	ctx := context.Background()
	testFakeDriver.reset()

	s := NewSession(fakeConfig("app_test"))

	conn, err := s.Connect(ctx)
	require.NoError(t, err)
	require.NoError(t, conn.Close())
	after := len(testFakeDriver.recorded())

	conn2, err := s.Connect(ctx)
	require.NoError(t, err)
	require.NoError(t, conn2.Close())
	assert.Equal(t, after, len(testFakeDriver.recorded()), "second connect must not reset again")
}

func TestConnect_FallbackWithoutConfiguration(t *testing.T) {
	ctx := context.Background()

	s := NewSession(Config{})
	conn, err := s.Connect(ctx)
	require.NoError(t, err)
	defer conn.Close()

	assert.Equal(t, DriverSQLite, conn.Params().Driver)
	assert.True(t, conn.Params().Memory)

	// The fallback database is usable immediately.
	_, err = conn.Exec(ctx, "CREATE TABLE t (id INTEGER PRIMARY KEY)")
	assert.NoError(t, err)
}

func TestConnect_UnknownDriver(t *testing.T) {
	ctx := context.Background()

	s := NewSession(Config{Test: BackendSettings{Driver: "no-such-driver"}})
	_, err := s.Connect(ctx)
	require.Error(t, err)
	var cerr *ConfigurationError
	assert.True(t, errors.As(err, &cerr))
}
