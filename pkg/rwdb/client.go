package rwdb

import (
	"context"

	"github.com/gmodb/rwdb/pkg/driver"
	"github.com/gmodb/rwdb/pkg/util/logutil"
	"github.com/gmodb/rwdb/pkg/util/sync2"
	"go.uber.org/zap"
)

const defaultClusterName = "default"

// ExecOptions are the per-call options of a statement.
type ExecOptions struct {
	// UseMaster sends the statement to the master even if it could run on the slave.
	UseMaster bool
	// NoLock runs the statement under READ UNCOMMITTED.
	NoLock bool
}

type endpoint struct {
	role Role
	desc *driver.Descriptor
	conn driver.Conn
	// stale forces a reopen before the next statement, skipping the probe.
	stale bool
}

type Option func(*Client)

// WithLogger sets the logger used by the client. The default is logutil.BgLogger().
func WithLogger(lg *zap.Logger) Option {
	return func(c *Client) {
		c.logger = lg
	}
}

// WithName sets the cluster name used in logs and metric labels.
func WithName(name string) Option {
	return func(c *Client) {
		c.name = name
	}
}

// Client routes statements between a master connection and an optional slave connection.
type Client struct {
	name      string
	connector driver.Connector
	logger    *zap.Logger

	master *endpoint
	// slave is nil when the descriptor has no slave. Inside a transaction it is master.
	slave *endpoint
	inTxn bool

	affectedRows int64
	closed       sync2.AtomicBool
}

// New opens the master connection, then the slave connection if desc has a slave.
// If the slave can not be opened, the master connection is closed again.
func New(ctx context.Context, connector driver.Connector, desc *driver.Descriptor, opts ...Option) (*Client, error) {
	c := &Client{
		name:      defaultClusterName,
		connector: connector,
		closed:    sync2.NewAtomicBool(false),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = logutil.BgLogger()
	}
	c.logger = c.logger.With(zap.String("cluster", c.name))

	masterConn, err := c.open(ctx, RoleMaster, desc)
	if err != nil {
		return nil, err
	}
	c.master = &endpoint{role: RoleMaster, desc: desc, conn: masterConn}

	if slaveDesc := desc.Slave(); slaveDesc != nil {
		slaveConn, err := c.open(ctx, RoleSlave, slaveDesc)
		if err != nil {
			c.closeEndpoint(c.master)
			return nil, err
		}
		c.slave = &endpoint{role: RoleSlave, desc: slaveDesc, conn: slaveConn}
	}

	c.logger.Info("rwdb client connected", zap.String("master", desc.Addr()), zap.Bool("hasSlave", c.slave != nil))
	return c, nil
}

func (c *Client) Name() string {
	return c.name
}

// HasSlave reports whether statements may be routed to a slave connection.
func (c *Client) HasSlave() bool {
	return c.slave != nil && c.slave != c.master
}

// AffectedRows returns the number of rows changed by the most recent statement.
func (c *Client) AffectedRows() int64 {
	return c.affectedRows
}

// LastInsertID returns the id generated by the last insert on the master connection.
// The id belongs to a connection, so it is not available once that connection is lost.
func (c *Client) LastInsertID(ctx context.Context) (int64, error) {
	if c.closed.Get() {
		return 0, ErrClientClosed
	}
	if c.master.conn == nil {
		return 0, &ConnectionError{Role: RoleMaster, Addr: c.master.desc.Addr(), cause: ErrConnectionLost}
	}
	return c.master.conn.LastInsertID(ctx)
}

// Close closes both connections. Errors are logged and otherwise ignored.
// Calling Close more than once is a no-op.
func (c *Client) Close() {
	if !c.closed.CompareAndSwap(false, true) {
		return
	}
	c.closeEndpoint(c.master)
	if c.slave != nil && c.slave != c.master {
		c.closeEndpoint(c.slave)
	}
}

func (c *Client) closeEndpoint(ep *endpoint) {
	if ep == nil || ep.conn == nil {
		return
	}
	if err := ep.conn.Close(); err != nil {
		c.logger.Warn("close connection error", zap.String("connection", string(ep.role)),
			zap.String("addr", ep.desc.Addr()), zap.Error(err))
	}
	ep.conn = nil
}

// UseMaster returns a Querier that sends every statement to the master.
func (c *Client) UseMaster() Querier {
	return c.With(ExecOptions{UseMaster: true})
}

// WithNoLock returns a Querier that runs every statement under READ UNCOMMITTED.
func (c *Client) WithNoLock() Querier {
	return c.With(ExecOptions{NoLock: true})
}

func (c *Client) With(opts ExecOptions) Querier {
	return Querier{client: c, opts: opts}
}

func (c *Client) Execute(ctx context.Context, query string, params ...interface{}) ([]Row, error) {
	return c.execute(ctx, ExecOptions{}, query, params)
}

func (c *Client) ExecuteWith(ctx context.Context, opts ExecOptions, query string, params ...interface{}) ([]Row, error) {
	return c.execute(ctx, opts, query, params)
}

func (c *Client) SingleValue(ctx context.Context, query string, params ...interface{}) (interface{}, error) {
	return c.With(ExecOptions{}).SingleValue(ctx, query, params...)
}

func (c *Client) SingleRow(ctx context.Context, query string, params ...interface{}) (Row, error) {
	return c.With(ExecOptions{}).SingleRow(ctx, query, params...)
}

func (c *Client) SingleColumn(ctx context.Context, query string, params ...interface{}) ([]interface{}, error) {
	return c.With(ExecOptions{}).SingleColumn(ctx, query, params...)
}

func (c *Client) KeyValueArray(ctx context.Context, query string, params ...interface{}) (map[string]interface{}, error) {
	return c.With(ExecOptions{}).KeyValueArray(ctx, query, params...)
}
