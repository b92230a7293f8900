package gomysql

import (
	"context"

	"github.com/gmodb/rwdb/pkg/driver"
	"github.com/pingcap/errors"
	"github.com/pingcap/tidb/util/hack"
	"github.com/siddontang/go-mysql/client"
	"github.com/siddontang/go-mysql/mysql"
)

type backendStmt struct {
	*client.Stmt
	conn *backendConn
}

func (s *backendStmt) Execute(ctx context.Context, args []driver.Value) (*driver.Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	result, err := s.Stmt.Execute(driver.NativeValues(args)...)
	if err != nil {
		return nil, toDriverError(err)
	}
	s.conn.recordResult(result)
	return convertResult(result)
}

func (s *backendStmt) Close() error {
	return toDriverError(s.Stmt.Close())
}

func convertResult(result *mysql.Result) (*driver.Result, error) {
	ret := &driver.Result{
		AffectedRows: int64(result.AffectedRows),
		InsertID:     int64(result.InsertId),
	}
	if result.Resultset == nil || len(result.Fields) == 0 {
		return ret, nil
	}

	ret.Columns = convertFieldNames(result.Fields)
	rowNum := result.RowNumber()
	ret.Rows = make([][]interface{}, 0, rowNum)
	for i := 0; i < rowNum; i++ {
		row := make([]interface{}, len(ret.Columns))
		for j := range row {
			v, err := result.GetValue(i, j)
			if err != nil {
				return nil, errors.Trace(err)
			}
			row[j] = v
		}
		ret.Rows = append(ret.Rows, row)
	}
	// mysqli reports the number of returned rows for SELECT
	ret.AffectedRows = int64(rowNum)
	return ret, nil
}

func convertFieldNames(fields []*mysql.Field) []string {
	names := make([]string, 0, len(fields))
	for _, field := range fields {
		names = append(names, string(hack.String(field.Name)))
	}
	return names
}
