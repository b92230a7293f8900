package sqldb

import (
	"context"

	"github.com/gmodb/rwdb/pkg/driver"
	"github.com/jmoiron/sqlx"
)

type sqlConn struct {
	db      *sqlx.DB
	conn    *sqlx.Conn
	dialect Dialect
}

func (c *sqlConn) Ping(ctx context.Context) error {
	return toDriverError(c.conn.PingContext(ctx))
}

func (c *sqlConn) Prepare(ctx context.Context, query string) (driver.Stmt, error) {
	stmt, err := c.conn.PreparexContext(ctx, c.dialect.Rewrite(query))
	if err != nil {
		return nil, toDriverError(err)
	}
	return &sqlStmt{stmt: stmt, conn: c}, nil
}

func (c *sqlConn) Exec(ctx context.Context, query string) error {
	query = c.dialect.Rewrite(query)
	if query == "" {
		return nil
	}
	_, err := c.conn.ExecContext(ctx, query)
	return toDriverError(err)
}

func (c *sqlConn) SetAutoCommit(ctx context.Context, autocommit bool) error {
	return c.Exec(ctx, c.dialect.AutoCommitSQL(autocommit))
}

func (c *sqlConn) Commit(ctx context.Context) error {
	return c.Exec(ctx, "COMMIT")
}

func (c *sqlConn) Rollback(ctx context.Context) error {
	return c.Exec(ctx, "ROLLBACK")
}

func (c *sqlConn) LastInsertID(ctx context.Context) (int64, error) {
	return c.queryInt(ctx, c.dialect.LastInsertIDSQL())
}

func (c *sqlConn) Close() error {
	err := c.conn.Close()
	if dberr := c.db.Close(); err == nil {
		err = dberr
	}
	return toDriverError(err)
}

func (c *sqlConn) queryInt(ctx context.Context, query string) (int64, error) {
	var n int64
	if err := c.conn.QueryRowxContext(ctx, query).Scan(&n); err != nil {
		return 0, toDriverError(err)
	}
	return n, nil
}
