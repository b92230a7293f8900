package backend

import (
	"strings"

	"github.com/gmodb/rwdb/pkg/backend/gomysql"
	"github.com/gmodb/rwdb/pkg/backend/sqldb"
	"github.com/gmodb/rwdb/pkg/driver"
	"github.com/pingcap/errors"
)

const (
	DriverGoMySQL = "gomysql"
	DriverMySQL   = sqldb.DialectMySQL
	DriverSQLite  = sqldb.DialectSQLite

	DefaultDriver = DriverGoMySQL
)

var ErrUnknownDriver = errors.New("unknown driver")

// NewConnector returns the Connector for a cluster driver name. An empty name selects DefaultDriver.
func NewConnector(name string) (driver.Connector, error) {
	switch strings.ToLower(name) {
	case "", DriverGoMySQL:
		return gomysql.NewConnector(), nil
	case DriverMySQL, DriverSQLite, "sqlite":
		return sqldb.NewConnectorByName(name)
	default:
		return nil, errors.WithMessage(ErrUnknownDriver, name)
	}
}
