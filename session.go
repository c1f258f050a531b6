package ygggo_dbal

import (
	"context"
	"errors"
	"log/slog"
)

// Session orchestrates connection provisioning for one test run. It owns
// the once-per-process initialization flag, so parallel test processes each
// hold an independent Session.
//
// The flag is a fast-path skip, not a lock: two goroutines racing into
// EnsureInitialized may both run the reset, which is harmless because both
// strategies use drop-if-exists semantics. Separate processes sharing one
// physical database are not coordinated at all.
type Session struct {
	cfg              Config
	logger           *slog.Logger
	telemetryEnabled bool
	initialized      bool
}

// NewSession creates a session for the given configuration.
func NewSession(cfg Config) *Session {
	return &Session{cfg: cfg, logger: defaultLogger}
}

// NewSessionEnv creates a session configured from the environment.
func NewSessionEnv() *Session { return NewSession(LoadEnv()) }

// Config returns the session's configuration.
func (s *Session) Config() Config { return s.cfg }

// SetLogger overrides the structured logger for this session and the
// connections it hands out.
func (s *Session) SetLogger(logger *slog.Logger) {
	if s != nil && logger != nil {
		s.logger = logger
	}
}

// Connect hands back a scoped connection, resetting the test database first
// if this session has not done so yet. Configured event subscribers are
// attached in order. Without an explicit backend the embedded SQLite
// fallback is used; if that is unavailable the error satisfies IsSkip.
func (s *Session) Connect(ctx context.Context) (*Conn, error) {
	if s.cfg.HasExplicitConfiguration() {
		if err := s.EnsureInitialized(ctx); err != nil {
			return nil, err
		}
	}
	params, err := ResolveParams(s.cfg)
	if err != nil {
		return nil, err
	}
	conn, err := OpenWithSubscribers(ctx, params, s.cfg.Subscribers)
	if err != nil {
		return nil, err
	}
	conn.SetLogger(s.logger)
	return conn, nil
}

// EnsureInitialized brings the target test database to a known-empty state,
// once per session. Backends with native CREATE/DROP DATABASE get a full
// drop and recreate through a privileged connection; the rest get a
// schema teardown on the scoped connection. A failure leaves the flag
// unset, so the next call retries from the top.
func (s *Session) EnsureInitialized(ctx context.Context) error {
	if s.initialized {
		return nil
	}
	if !s.cfg.HasExplicitConfiguration() {
		// The fallback backend starts empty by construction.
		return nil
	}

	ctx, span := s.startSpan(ctx, "ensure_initialized")
	err := s.reset(ctx)
	s.finishSpan(span, err)
	if err != nil {
		return err
	}
	s.initialized = true
	return nil
}

func (s *Session) reset(ctx context.Context) error {
	priv, err := Open(ctx, PrivilegedParams(s.cfg))
	if err != nil {
		return err
	}
	defer priv.Close()
	priv.SetLogger(s.logger)

	if priv.Platform().SupportsCreateDropDatabase() {
		return s.dropAndCreate(ctx, priv)
	}
	return s.teardownSchema(ctx)
}

// dropAndCreate recreates the scoped database through the privileged
// connection. The database name comes from the scoped parameters; when
// those leave it implicit, a scoped connection is opened briefly to ask the
// backend for it.
func (s *Session) dropAndCreate(ctx context.Context, priv *Conn) error {
	name := s.cfg.Test.DBName
	if name == "" {
		resolved, err := s.scopedDatabaseName(ctx)
		if err != nil {
			return err
		}
		name = resolved
	}
	if name == "" {
		return &LifecycleError{Strategy: "drop and create", Cause: errors.New("cannot determine the target database name")}
	}

	platform := priv.Platform()
	for _, stmt := range []string{platform.DropDatabaseSQL(name), platform.CreateDatabaseSQL(name)} {
		if _, err := priv.Exec(ctx, stmt); err != nil {
			return &LifecycleError{Strategy: "drop and create", Cause: err}
		}
	}
	s.logger.Info("test database recreated", "database", name, "driver", s.cfg.Test.Driver)
	return nil
}

func (s *Session) scopedDatabaseName(ctx context.Context) (string, error) {
	scoped, err := Open(ctx, TestParams(s.cfg))
	if err != nil {
		return "", err
	}
	defer scoped.Close()

	query := scoped.Platform().CurrentDatabaseSQL()
	if query == "" {
		return "", nil
	}
	var name string
	if err := scoped.QueryRow(ctx, query).Scan(&name); err != nil {
		return "", &LifecycleError{Strategy: "drop and create", Cause: err}
	}
	return name, nil
}

// teardownSchema wipes the scoped database object by object, for backends
// without native CREATE/DROP DATABASE. No new database is created.
func (s *Session) teardownSchema(ctx context.Context) error {
	scoped, err := Open(ctx, TestParams(s.cfg))
	if err != nil {
		return err
	}
	defer scoped.Close()
	scoped.SetLogger(s.logger)

	stmts, err := scoped.Platform().DropAllStatements(ctx, scoped)
	if err != nil {
		return &LifecycleError{Strategy: "schema teardown", Cause: err}
	}
	for _, stmt := range stmts {
		if _, err := scoped.Exec(ctx, stmt); err != nil {
			return &LifecycleError{Strategy: "schema teardown", Cause: err}
		}
	}
	s.logger.Info("test schema emptied", "driver", s.cfg.Test.Driver, "objects", len(stmts))
	return nil
}
