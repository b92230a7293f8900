package sqldb

import (
	"context"

	"github.com/gmodb/rwdb/pkg/driver"
	"github.com/jmoiron/sqlx"
)

type sqlStmt struct {
	stmt *sqlx.Stmt
	conn *sqlConn
}

// Execute runs the statement as a query so that statements with and without
// a result set share one path. Rows are always drained: some drivers only step
// the statement when rows are read.
func (s *sqlStmt) Execute(ctx context.Context, args []driver.Value) (*driver.Result, error) {
	rows, err := s.stmt.QueryxContext(ctx, driver.NativeValues(args)...)
	if err != nil {
		return nil, toDriverError(err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, toDriverError(err)
	}

	ret := &driver.Result{}
	for rows.Next() {
		values, err := rows.SliceScan()
		if err != nil {
			return nil, toDriverError(err)
		}
		ret.Rows = append(ret.Rows, values)
	}
	if err := rows.Err(); err != nil {
		return nil, toDriverError(err)
	}
	if err := rows.Close(); err != nil {
		return nil, toDriverError(err)
	}

	if len(columns) > 0 {
		ret.Columns = columns
		ret.AffectedRows = int64(len(ret.Rows))
		return ret, nil
	}

	if ret.AffectedRows, err = s.conn.queryInt(ctx, s.conn.dialect.AffectedRowsSQL()); err != nil {
		return nil, err
	}
	if ret.InsertID, err = s.conn.queryInt(ctx, s.conn.dialect.LastInsertIDSQL()); err != nil {
		return nil, err
	}
	return ret, nil
}

func (s *sqlStmt) Close() error {
	return toDriverError(s.stmt.Close())
}
