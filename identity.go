package ygggo_dbal

import (
	"context"
	"errors"
)

// LastInsertID returns the identity value generated by the most recent
// insert on this connection.
//
// Backends with a native last-insert-id mechanism ignore sequence. Backends
// that emulate autoincrement through a named sequence require it; the
// caller derives it with Platform.SequenceName, and a schema-qualified name
// is accepted even when it points outside the connection's default schema.
func (c *Conn) LastInsertID(ctx context.Context, sequence string) (int64, error) {
	query, args, err := c.platform.LastInsertIDSQL(sequence)
	if err != nil {
		return 0, err
	}

	var id int64
	if err := c.QueryRow(ctx, query, args...).Scan(&id); err != nil {
		return 0, &IdentityResolutionError{Sequence: sequence, Cause: err}
	}
	if sequence == "" && id == 0 {
		// Native backends report 0 when the connection has not inserted
		// an identity value yet.
		return 0, &IdentityResolutionError{Cause: errors.New("no identity value generated on this connection")}
	}
	return id, nil
}
