package ygggo_dbal

import (
	"errors"
	"fmt"
)

// ErrNoBackend signals that no database backend is configured and the
// embedded SQLite fallback is unavailable. Test harnesses should treat it
// as "skip", not as a failure of the code under test.
var ErrNoBackend = errors.New("no database backend configured or available")

// IsSkip reports whether err is the skip signal (ErrNoBackend, possibly
// wrapped).
func IsSkip(err error) bool { return errors.Is(err, ErrNoBackend) }

// ConfigurationError reports malformed or missing configuration, including
// unknown event-subscriber and driver names.
type ConfigurationError struct {
	Key     string // offending configuration key or name, if known
	Message string
	Cause   error
}

func (e *ConfigurationError) Error() string {
	if e.Key != "" {
		return fmt.Sprintf("configuration error: %s: %s", e.Key, e.Message)
	}
	return "configuration error: " + e.Message
}

func (e *ConfigurationError) Unwrap() error { return e.Cause }

// ConnectionError reports that the driver rejected the connection
// parameters or the backend is unreachable. Opens are not retried.
type ConnectionError struct {
	Driver string
	Cause  error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("connection failed (driver %q): %v", e.Driver, e.Cause)
}

func (e *ConnectionError) Unwrap() error { return e.Cause }

// IdentityResolutionError reports that no generated identity value is
// available on the connection, or that a named sequence does not exist.
type IdentityResolutionError struct {
	Sequence string // empty for native last-insert-id backends
	Cause    error
}

func (e *IdentityResolutionError) Error() string {
	if e.Sequence != "" {
		return fmt.Sprintf("cannot resolve last insert id from sequence %q: %v", e.Sequence, e.Cause)
	}
	return fmt.Sprintf("cannot resolve last insert id: %v", e.Cause)
}

func (e *IdentityResolutionError) Unwrap() error { return e.Cause }

// LifecycleError reports that a database reset strategy failed partway.
// The session keeps its initialization flag unset so a later call retries
// from the top.
type LifecycleError struct {
	Strategy string // "drop and create" or "schema teardown"
	Cause    error
}

func (e *LifecycleError) Error() string {
	return fmt.Sprintf("database reset (%s) failed: %v", e.Strategy, e.Cause)
}

func (e *LifecycleError) Unwrap() error { return e.Cause }
