package sqldb

import (
	"github.com/gmodb/rwdb/pkg/driver"
	rwerrors "github.com/gmodb/rwdb/pkg/util/errors"
	"github.com/go-sql-driver/mysql"
	"github.com/mattn/go-sqlite3"
)

// toDriverError attaches the mysql error number or sqlite result code of err as a *driver.Error.
func toDriverError(err error) error {
	if err == nil {
		return nil
	}
	var myErr *mysql.MySQLError
	if rwerrors.As(err, &myErr) {
		return driver.NewError(int(myErr.Number), myErr.Message, err)
	}
	var liteErr sqlite3.Error
	if rwerrors.As(err, &liteErr) {
		return driver.NewError(int(liteErr.Code), liteErr.Error(), err)
	}
	return driver.NewError(0, err.Error(), err)
}
