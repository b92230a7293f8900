package rwdb

import (
	"context"

	"github.com/gmodb/rwdb/pkg/driver"
	"github.com/gmodb/rwdb/pkg/metrics"
	"go.uber.org/zap"
)

// Ping probes both connections and reopens the ones that fail, like every statement does.
func (c *Client) Ping(ctx context.Context) error {
	if c.closed.Get() {
		return ErrClientClosed
	}
	return c.reconnect(ctx)
}

func (c *Client) reconnect(ctx context.Context) error {
	if err := c.reconnectEndpoint(ctx, c.master); err != nil {
		return err
	}
	if c.slave == nil || c.slave == c.master {
		return nil
	}
	return c.reconnectEndpoint(ctx, c.slave)
}

// reconnectEndpoint reopens ep once if it is stale or its probe fails.
// Inside a transaction the master is never reopened: a new connection would run the
// remaining statements outside the transaction.
func (c *Client) reconnectEndpoint(ctx context.Context, ep *endpoint) error {
	if !ep.stale && ep.conn != nil {
		err := ep.conn.Ping(ctx)
		if err == nil {
			return nil
		}
		if c.inTxn && ep == c.master {
			return c.transactionLost(err)
		}
		c.logger.Warn("connection probe failed, reconnecting", zap.String("connection", string(ep.role)),
			zap.String("addr", ep.desc.Addr()), zap.Error(err))
	} else if c.inTxn && ep == c.master {
		return c.transactionLost(nil)
	}

	c.closeEndpoint(ep)
	conn, err := c.open(ctx, ep.role, ep.desc)
	metrics.ReconnectCounter.WithLabelValues(c.name, string(ep.role), metrics.RetLabel(err)).Inc()
	if err != nil {
		ep.stale = true
		return err
	}
	ep.conn = conn
	ep.stale = false
	return nil
}

// open connects to desc and probes the new connection.
func (c *Client) open(ctx context.Context, role Role, desc *driver.Descriptor) (driver.Conn, error) {
	conn, err := c.connector.Connect(ctx, desc)
	if err == nil && conn == nil {
		err = ErrNilConnection
	}
	if err != nil {
		return nil, c.connectionError(role, desc, err)
	}

	if err := conn.Ping(ctx); err != nil {
		if cerr := conn.Close(); cerr != nil {
			c.logger.Warn("close unusable connection error", zap.String("connection", string(role)), zap.Error(cerr))
		}
		return nil, c.connectionError(role, desc, err)
	}
	return conn, nil
}

func (c *Client) connectionError(role Role, desc *driver.Descriptor, cause error) error {
	err := &ConnectionError{Role: role, Addr: desc.Addr(), cause: cause}
	c.logger.Error("Unable to establish connection to database", zap.String("connection", string(role)),
		zap.String("addr", desc.Addr()), zap.String("user", desc.User()), zap.String("schema", desc.Schema()),
		zap.Error(cause))
	return err
}

// transactionLost drops the master connection of the running transaction. The endpoint stays
// stale so it is reopened by the first statement after the transaction.
func (c *Client) transactionLost(cause error) error {
	c.closeEndpoint(c.master)
	c.master.stale = true
	c.logger.Error("master connection lost inside a transaction", zap.String("addr", c.master.desc.Addr()), zap.Error(cause))
	return &ConnectionError{Role: RoleMaster, Addr: c.master.desc.Addr(), cause: ErrTransactionLost}
}
