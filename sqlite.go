package ygggo_dbal

import (
	"database/sql"
	"os"
	"path/filepath"
	"slices"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // embedded fallback backend
)

// sqliteDriverName is how modernc.org/sqlite registers itself with
// database/sql.
const sqliteDriverName = "sqlite"

// sqliteAvailable reports whether an embedded SQLite driver is registered.
// Importing this package registers one, but callers embedding the library
// behind build constraints may end up without it; they get the skip signal
// instead of an error.
func sqliteAvailable() bool {
	return slices.Contains(sql.Drivers(), sqliteDriverName)
}

// sqliteDSN turns fallback parameters into a modernc sqlite DSN. A busy
// timeout keeps concurrent test goroutines from tripping over SQLITE_BUSY.
func sqliteDSN(p ConnParams) string {
	if p.Memory || p.Path == "" {
		return ":memory:"
	}
	return "file:" + p.Path + "?_pragma=busy_timeout(5000)"
}

// ScratchPath returns a unique temp-file path for a throwaway file-backed
// database, suitable for BackendSettings.Path.
func ScratchPath() string {
	return filepath.Join(os.TempDir(), "ygggo_dbal_"+uuid.NewString()+".db")
}
