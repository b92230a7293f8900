package driver

import (
	"context"
)

// Connector opens connections to a single endpoint.
type Connector interface {
	Connect(ctx context.Context, desc *Descriptor) (Conn, error)
}

// Conn is a live session on one endpoint. A Conn is not safe for concurrent use.
type Conn interface {
	Ping(ctx context.Context) error
	Prepare(ctx context.Context, query string) (Stmt, error)
	// Exec runs an unprepared statement and discards any result.
	Exec(ctx context.Context, query string) error
	SetAutoCommit(ctx context.Context, autocommit bool) error
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
	LastInsertID(ctx context.Context) (int64, error)
	Close() error
}

type Stmt interface {
	Execute(ctx context.Context, args []Value) (*Result, error)
	Close() error
}

// Result is the fully fetched outcome of a statement.
// Columns is empty for statements without result metadata.
type Result struct {
	Columns      []string
	Rows         [][]interface{}
	AffectedRows int64
	InsertID     int64
}
