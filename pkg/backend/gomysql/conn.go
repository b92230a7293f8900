package gomysql

import (
	"context"

	"github.com/gmodb/rwdb/pkg/driver"
	"github.com/siddontang/go-mysql/client"
	"github.com/siddontang/go-mysql/mysql"
)

const (
	sqlAutoCommitOn  = "SET autocommit = 1"
	sqlAutoCommitOff = "SET autocommit = 0"
)

type backendConn struct {
	*client.Conn
	addr         string
	username     string
	lastInsertID int64
}

func newConn(conn *client.Conn, addr, username string) *backendConn {
	return &backendConn{
		Conn:     conn,
		addr:     addr,
		username: username,
	}
}

func (bc *backendConn) Ping(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return toDriverError(bc.Conn.Ping())
}

func (bc *backendConn) Prepare(ctx context.Context, query string) (driver.Stmt, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	stmt, err := bc.Conn.Prepare(query)
	if err != nil {
		return nil, toDriverError(err)
	}
	return &backendStmt{Stmt: stmt, conn: bc}, nil
}

func (bc *backendConn) Exec(ctx context.Context, query string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	result, err := bc.Conn.Execute(query)
	if err != nil {
		return toDriverError(err)
	}
	bc.recordResult(result)
	return nil
}

// SetAutoCommit leaves the last insert id untouched, as it is not a statement of the caller.
func (bc *backendConn) SetAutoCommit(ctx context.Context, autocommit bool) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	query := sqlAutoCommitOff
	if autocommit {
		query = sqlAutoCommitOn
	}
	_, err := bc.Conn.Execute(query)
	return toDriverError(err)
}

func (bc *backendConn) Commit(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return toDriverError(bc.Conn.Commit())
}

func (bc *backendConn) Rollback(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return toDriverError(bc.Conn.Rollback())
}

// LastInsertID returns the id generated by the last statement run on this connection.
func (bc *backendConn) LastInsertID(ctx context.Context) (int64, error) {
	return bc.lastInsertID, nil
}

func (bc *backendConn) Close() error {
	return toDriverError(bc.Conn.Close())
}

// recordResult keeps the insert id of the latest statement, zero when it generated none.
func (bc *backendConn) recordResult(result *mysql.Result) {
	if result == nil {
		bc.lastInsertID = 0
		return
	}
	bc.lastInsertID = int64(result.InsertId)
}
