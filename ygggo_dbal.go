// Package ygggo_dbal provisions database connections for automated test
// environments across multiple backends.
//
// # Overview
//
// ygggo_dbal decides which physical database a test run talks to and with
// what privilege level, brings that database to a known-empty state exactly
// once per process, and resolves just-inserted autoincrement identity
// values even on backends that emulate autoincrement through a named
// sequence. MySQL, PostgreSQL and embedded SQLite backends ship in the box;
// further platforms plug in through RegisterPlatform.
//
// # Quick Start
//
//	import ggd "github.com/yggai/ygggo_dbal"
//
//	session := ggd.NewSessionEnv()
//	conn, err := session.Connect(ctx)
//	if err != nil {
//		if ggd.IsSkip(err) {
//			t.Skip("no database backend configured")
//		}
//		t.Fatal(err)
//	}
//	defer conn.Close()
//
//	_, err = conn.Exec(ctx, "INSERT INTO users (name) VALUES (?)", "Alice")
//	id, err := conn.LastInsertID(ctx, "")
//
// The first Connect on a session recreates the configured test database
// (DROP DATABASE plus CREATE DATABASE through a privileged account, or an
// object-by-object schema teardown on backends without those statements).
// Later Connect calls reuse the already-reset database.
//
// # Configuration
//
// Configuration comes from the environment. The scoped test account uses
// the YGGGO_DB_* family (DRIVER, USER, PASSWORD, HOST, PORT, DBNAME,
// SERVER, UNIX_SOCKET, PATH, MEMORY); an optional privileged account for
// database create/drop uses YGGGO_TMPDB_* with the same suffixes. When no
// driver is configured at all, an embedded in-memory SQLite database is
// used and no reset is needed.
//
// # Sequence-emulated identity
//
// On PostgreSQL the generated key is read from the column's sequence:
//
//	seq := conn.Platform().SequenceName("myschema", "users", "id")
//	id, err := conn.LastInsertID(ctx, seq)
//
// The qualified name works even when the sequence's schema is not on the
// connection's search path.
package ygggo_dbal

// Version returns the current library version.
func Version() string { return "v0.1.0" }
