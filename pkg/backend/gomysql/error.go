package gomysql

import (
	"github.com/gmodb/rwdb/pkg/driver"
	rwerrors "github.com/gmodb/rwdb/pkg/util/errors"
	"github.com/siddontang/go-mysql/mysql"
)

// toDriverError attaches the server error code of err, if any, as a *driver.Error.
func toDriverError(err error) error {
	if err == nil {
		return nil
	}
	var myErr *mysql.MyError
	if rwerrors.As(err, &myErr) {
		return driver.NewError(int(myErr.Code), myErr.Message, err)
	}
	return driver.NewError(0, err.Error(), err)
}
