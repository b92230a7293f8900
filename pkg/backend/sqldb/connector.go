package sqldb

import (
	"context"
	"fmt"

	"github.com/gmodb/rwdb/pkg/driver"
	"github.com/jmoiron/sqlx"
	"github.com/pingcap/errors"

	// registers the mysql driver
	_ "github.com/go-sql-driver/mysql"
	// registers the sqlite3 driver
	_ "github.com/mattn/go-sqlite3"
)

// Connector opens database/sql connections through a Dialect.
// Every connection gets its own pool of one, pinned for its whole life,
// so session state such as transactions and isolation level is kept.
type Connector struct {
	dialect Dialect
}

func NewConnector(dialect Dialect) *Connector {
	return &Connector{dialect: dialect}
}

// NewConnectorByName returns a Connector for a dialect registered with LookupDialect.
func NewConnectorByName(name string) (*Connector, error) {
	dialect, ok := LookupDialect(name)
	if !ok {
		return nil, errors.Errorf("unknown sql dialect: %s", name)
	}
	return NewConnector(dialect), nil
}

func (c *Connector) Connect(ctx context.Context, desc *driver.Descriptor) (driver.Conn, error) {
	db, err := sqlx.Open(c.dialect.DriverName(), c.dialect.DSN(desc))
	if err != nil {
		return nil, toDriverError(errors.WithMessage(err, fmt.Sprintf("open %s %s", c.dialect.DriverName(), desc.Addr())))
	}
	db.SetMaxOpenConns(1)

	conn, err := db.Connx(ctx)
	if err != nil {
		_ = db.Close()
		return nil, toDriverError(err)
	}
	return &sqlConn{db: db, conn: conn, dialect: c.dialect}, nil
}
