package rwdb

import (
	"context"

	"github.com/gmodb/rwdb/pkg/metrics"
	"github.com/opentracing/opentracing-go"
	"github.com/pingcap/errors"
	"go.uber.org/zap"
)

// TxFunc is the unit of work run by Transaction.
type TxFunc func(ctx context.Context, c *Client) error

// Transaction runs fn on the master with auto-commit disabled. Reads inside fn go to the
// master too. If fn returns nil the transaction is committed; if fn fails, panics or the
// commit fails, it is rolled back and the error is returned unchanged (panics are re-raised).
// A Transaction inside fn joins the outer one.
func (c *Client) Transaction(ctx context.Context, fn TxFunc) (err error) {
	if c.closed.Get() {
		return ErrClientClosed
	}
	if c.inTxn {
		return fn(ctx, c)
	}

	span, ctx := opentracing.StartSpanFromContext(ctx, "rwdb.transaction")
	defer span.Finish()

	if err = c.reconnectEndpoint(ctx, c.master); err != nil {
		return err
	}
	if err = c.master.conn.SetAutoCommit(ctx, false); err != nil {
		c.logger.Error("disable autocommit error", zap.Error(err))
		return errors.WithMessage(err, "begin transaction")
	}

	originSlave := c.slave
	c.slave = c.master
	c.inTxn = true

	committed := false
	defer func() {
		if c.master.conn == nil {
			// the master was lost inside fn, the server already discarded the transaction
			c.inTxn = false
			c.slave = originSlave
			return
		}
		if !committed {
			if rerr := c.master.conn.Rollback(ctx); rerr != nil {
				c.logger.Error("rollback error", zap.Error(rerr))
			}
			metrics.TransactionCounter.WithLabelValues(c.name, metrics.LblRollback).Inc()
		}
		c.endTransaction(ctx, originSlave)
	}()

	if err = fn(ctx, c); err != nil {
		return err
	}
	if c.master.conn == nil {
		// fn swallowed the error of a lost master
		return &ConnectionError{Role: RoleMaster, Addr: c.master.desc.Addr(), cause: ErrTransactionLost}
	}
	if err = c.master.conn.Commit(ctx); err != nil {
		c.logger.Error("commit error", zap.Error(err))
		return err
	}
	committed = true
	metrics.TransactionCounter.WithLabelValues(c.name, metrics.LblCommit).Inc()
	return nil
}

func (c *Client) endTransaction(ctx context.Context, originSlave *endpoint) {
	c.inTxn = false
	c.slave = originSlave
	if err := c.master.conn.SetAutoCommit(ctx, true); err != nil {
		c.logger.Error("restore autocommit error", zap.Error(err))
		c.master.stale = true
	}
}

// WithTransaction is Transaction for units of work that produce a value.
func WithTransaction[T any](ctx context.Context, c *Client, fn func(ctx context.Context, c *Client) (T, error)) (T, error) {
	var result T
	err := c.Transaction(ctx, func(ctx context.Context, c *Client) error {
		var err error
		result, err = fn(ctx, c)
		return err
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return result, nil
}

// InsertAndReturnID runs an insert in a transaction and returns the generated id.
func (c *Client) InsertAndReturnID(ctx context.Context, query string, params ...interface{}) (int64, error) {
	return WithTransaction(ctx, c, func(ctx context.Context, c *Client) (int64, error) {
		if _, err := c.Execute(ctx, query, params...); err != nil {
			return 0, err
		}
		return c.LastInsertID(ctx)
	})
}
