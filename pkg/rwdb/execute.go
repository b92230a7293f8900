package rwdb

import (
	"context"
	"time"

	"github.com/gmodb/rwdb/pkg/driver"
	"github.com/gmodb/rwdb/pkg/metrics"
	"github.com/opentracing/opentracing-go"
	"go.uber.org/zap"
)

const (
	sqlReadUncommitted = "SET SESSION TRANSACTION ISOLATION LEVEL READ UNCOMMITTED"
	sqlRepeatableRead  = "SET SESSION TRANSACTION ISOLATION LEVEL REPEATABLE READ"
)

func (c *Client) execute(ctx context.Context, opts ExecOptions, query string, params []interface{}) (rows []Row, err error) {
	if c.closed.Get() {
		return nil, ErrClientClosed
	}

	span, ctx := opentracing.StartSpanFromContext(ctx, "rwdb.execute")
	defer span.Finish()

	plan, err := ExpandQueryParams(query, params)
	if err != nil {
		c.logger.Error("expand query params error", zap.String("query", query), zap.Error(err))
		return nil, err
	}

	if err = c.reconnect(ctx); err != nil {
		return nil, err
	}

	ep := c.chooseEndpoint(plan.Query, opts.UseMaster)
	role := c.roleOf(ep)
	span.SetTag("role", string(role))

	startTime := time.Now()
	defer func() {
		recordQueryMetrics(c.name, role, startTime, err)
	}()

	if opts.NoLock {
		c.openNoLock(ctx, ep)
		defer c.closeNoLock(ctx, ep)
	}

	c.logger.Debug(plan.Query, zap.Any("params", plan.Params), zap.String("connection", string(role)),
		zap.Bool("usingNoLock", opts.NoLock))

	stmt, err := ep.conn.Prepare(ctx, plan.Query)
	if err != nil {
		return nil, c.statementError(OpPrepare, plan, err)
	}
	defer func() {
		if cerr := stmt.Close(); cerr != nil {
			c.logger.Warn("close statement error", zap.String("query", plan.Query), zap.Error(cerr))
		}
	}()

	var values []driver.Value
	if len(plan.Params) > 0 {
		if values, err = CoerceParams(plan.Params); err != nil {
			return nil, c.statementError(OpExecute, plan, err)
		}
	}

	result, err := stmt.Execute(ctx, values)
	if err != nil {
		return nil, c.statementError(OpExecute, plan, err)
	}

	c.affectedRows = result.AffectedRows
	return newRows(result), nil
}

// ExecRaw runs query without preparing it. Scripts use it for statements
// that can not be prepared, such as most DDL.
func (c *Client) ExecRaw(ctx context.Context, opts ExecOptions, query string) (err error) {
	if c.closed.Get() {
		return ErrClientClosed
	}

	span, ctx := opentracing.StartSpanFromContext(ctx, "rwdb.exec_raw")
	defer span.Finish()

	if err = c.reconnect(ctx); err != nil {
		return err
	}

	ep := c.chooseEndpoint(query, opts.UseMaster)
	role := c.roleOf(ep)
	span.SetTag("role", string(role))

	startTime := time.Now()
	defer func() {
		recordQueryMetrics(c.name, role, startTime, err)
	}()

	if opts.NoLock {
		c.openNoLock(ctx, ep)
		defer c.closeNoLock(ctx, ep)
	}

	c.logger.Debug(query, zap.String("connection", string(role)), zap.Bool("usingNoLock", opts.NoLock))
	if err = ep.conn.Exec(ctx, query); err != nil {
		return c.statementError(OpExecute, &QueryPlan{Query: query}, err)
	}
	return nil
}

// openNoLock lowers the isolation level of ep's session. A failure only costs
// the locking behaviour, so it is logged and the statement still runs.
func (c *Client) openNoLock(ctx context.Context, ep *endpoint) {
	if err := ep.conn.Exec(ctx, sqlReadUncommitted); err != nil {
		c.logger.Warn("set read uncommitted error", zap.String("connection", string(ep.role)), zap.Error(err))
	}
}

// closeNoLock restores the isolation level. If that fails the session must not be
// reused, so the endpoint is reopened before the next statement.
func (c *Client) closeNoLock(ctx context.Context, ep *endpoint) {
	if err := ep.conn.Exec(ctx, sqlRepeatableRead); err != nil {
		c.logger.Error("restore repeatable read error", zap.String("connection", string(ep.role)), zap.Error(err))
		ep.stale = true
	}
}

func (c *Client) statementError(op StatementOp, plan *QueryPlan, cause error) error {
	code, msg := driver.ErrorCode(cause)
	c.logger.Error(op.String(), zap.String("query", plan.Query), zap.Any("params", plan.Params),
		zap.String("error", msg), zap.Int("errorNum", code))
	return &StatementError{
		Op:      op,
		Query:   plan.Query,
		Params:  plan.Params,
		Message: msg,
		Code:    code,
		cause:   cause,
	}
}

func recordQueryMetrics(cluster string, role Role, startTime time.Time, err error) {
	metrics.QueryCounter.WithLabelValues(cluster, string(role), metrics.RetLabel(err)).Inc()
	metrics.QueryDurationHistogram.WithLabelValues(cluster, string(role)).Observe(time.Since(startTime).Seconds())
}
