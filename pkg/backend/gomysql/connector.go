package gomysql

import (
	"context"
	"fmt"

	"github.com/gmodb/rwdb/pkg/driver"
	"github.com/pingcap/errors"
	"github.com/siddontang/go-mysql/client"
)

const DefaultCharset = "utf8mb4"

// Connector opens go-mysql client connections.
type Connector struct {
	charset string
}

func NewConnector() *Connector {
	return &Connector{charset: DefaultCharset}
}

// WithCharset returns a copy of the connector that sets charset on new connections.
func (c *Connector) WithCharset(charset string) *Connector {
	return &Connector{charset: charset}
}

// Connect dials desc. ctx is only checked before dialing; go-mysql dials without a deadline.
func (c *Connector) Connect(ctx context.Context, desc *driver.Descriptor) (driver.Conn, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	conn, err := client.Connect(desc.Addr(), desc.User(), desc.Password(), desc.Schema())
	if err != nil {
		return nil, toDriverError(errors.WithMessage(err, fmt.Sprintf("connect %s", desc.Addr())))
	}

	if c.charset != "" {
		if err := conn.SetCharset(c.charset); err != nil {
			_ = conn.Close()
			return nil, toDriverError(err)
		}
	}
	return newConn(conn, desc.Addr(), desc.User()), nil
}
