package ygggo_dbal

import (
	"context"
	"database/sql"
	"log/slog"
	"time"
)

// Conn is a live connection handle to one backend. It wraps *sql.DB so the
// driver's own pooling applies, but callers own it exclusively and must
// close it on every exit path.
type Conn struct {
	db       *sql.DB
	params   ConnParams
	platform Platform
	events   *EventManager
	logger   *slog.Logger
	closed   bool
}

// Open resolves the driver and DSN for params, opens the connection and
// verifies it with a ping. Driver rejections and unreachable backends
// surface as ConnectionError; there is no retry at this layer.
func Open(ctx context.Context, params ConnParams) (*Conn, error) {
	return openConn(ctx, params, nil)
}

// OpenWithSubscribers opens like Open and additionally instantiates each
// named event subscriber, registering them in the order listed. An unknown
// name fails with ConfigurationError before any connection is made.
func OpenWithSubscribers(ctx context.Context, params ConnParams, subscribers []string) (*Conn, error) {
	return openConn(ctx, params, subscribers)
}

func openConn(ctx context.Context, params ConnParams, subscribers []string) (*Conn, error) {
	// Instantiate subscribers first so a bad name costs no connection.
	subs := make([]Subscriber, 0, len(subscribers))
	for _, name := range subscribers {
		s, err := newSubscriber(name)
		if err != nil {
			return nil, err
		}
		subs = append(subs, s)
	}

	platform, err := PlatformFor(params.Driver)
	if err != nil {
		return nil, err
	}

	driverName, dsn, err := buildDSN(params)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, &ConnectionError{Driver: params.Driver, Cause: err}
	}
	// A handle stands for one exclusively owned connection. Pinning a single
	// underlying connection keeps per-connection state meaningful, most
	// importantly native last-insert-id retrieval, and gives every handle on
	// an in-memory SQLite database the same database.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, &ConnectionError{Driver: params.Driver, Cause: err}
	}

	conn := &Conn{
		db:       db,
		params:   params,
		platform: platform,
		events:   &EventManager{},
		logger:   defaultLogger,
	}
	for _, s := range subs {
		conn.events.Subscribe(s)
	}
	conn.events.dispatch(Event{Kind: EventConnect, Conn: conn})
	return conn, nil
}

// DB exposes the underlying handle for callers needing raw database/sql
// access.
func (c *Conn) DB() *sql.DB { return c.db }

// Params returns the parameters this connection was opened with.
func (c *Conn) Params() ConnParams { return c.params }

// Platform returns the backend's platform.
func (c *Conn) Platform() Platform { return c.platform }

// Events returns the connection's event manager.
func (c *Conn) Events() *EventManager { return c.events }

// SetLogger overrides the structured logger for this connection.
func (c *Conn) SetLogger(logger *slog.Logger) {
	if c == nil || logger == nil {
		return
	}
	c.logger = logger
}

// Exec runs a statement that returns no rows.
func (c *Conn) Exec(ctx context.Context, query string, args ...any) (sql.Result, error) {
	start := time.Now()
	res, err := c.db.ExecContext(ctx, query, args...)
	c.logQuery(ctx, "exec", query, time.Since(start), err)
	return res, err
}

// Query runs a query returning rows.
func (c *Conn) Query(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	start := time.Now()
	rows, err := c.db.QueryContext(ctx, query, args...)
	c.logQuery(ctx, "query", query, time.Since(start), err)
	return rows, err
}

// QueryRow runs a query expected to return at most one row.
func (c *Conn) QueryRow(ctx context.Context, query string, args ...any) *sql.Row {
	start := time.Now()
	row := c.db.QueryRowContext(ctx, query, args...)
	c.logQuery(ctx, "query", query, time.Since(start), nil)
	return row
}

// Ping verifies the connection is still alive.
func (c *Conn) Ping(ctx context.Context) error {
	return c.db.PingContext(ctx)
}

// Close releases the connection. Safe to call more than once.
func (c *Conn) Close() error {
	if c == nil || c.db == nil || c.closed {
		return nil
	}
	c.closed = true
	err := c.db.Close()
	c.events.dispatch(Event{Kind: EventClose, Conn: c, Err: err})
	return err
}
