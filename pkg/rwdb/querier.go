package rwdb

import "context"

// Querier runs statements on a Client with fixed ExecOptions.
// It is a value: deriving a new Querier never changes the Client or other Queriers.
type Querier struct {
	client *Client
	opts   ExecOptions
}

func (q Querier) Options() ExecOptions {
	return q.opts
}

func (q Querier) UseMaster() Querier {
	q.opts.UseMaster = true
	return q
}

func (q Querier) WithNoLock() Querier {
	q.opts.NoLock = true
	return q
}

func (q Querier) Execute(ctx context.Context, query string, params ...interface{}) ([]Row, error) {
	return q.client.execute(ctx, q.opts, query, params)
}

// SingleValue returns the first column of the first row, or nil if there are no rows.
func (q Querier) SingleValue(ctx context.Context, query string, params ...interface{}) (interface{}, error) {
	rows, err := q.Execute(ctx, query, params...)
	if err != nil {
		return nil, err
	}
	return firstValue(rows), nil
}

// SingleRow returns the first row, or an empty Row if there are no rows.
func (q Querier) SingleRow(ctx context.Context, query string, params ...interface{}) (Row, error) {
	rows, err := q.Execute(ctx, query, params...)
	if err != nil {
		return Row{}, err
	}
	if len(rows) == 0 {
		return Row{}, nil
	}
	return rows[0], nil
}

// SingleColumn returns the first column of every row.
func (q Querier) SingleColumn(ctx context.Context, query string, params ...interface{}) ([]interface{}, error) {
	rows, err := q.Execute(ctx, query, params...)
	if err != nil {
		return nil, err
	}
	return firstColumn(rows), nil
}

// KeyValueArray maps the first column of every row to the rest of the row, see KeyValues.
func (q Querier) KeyValueArray(ctx context.Context, query string, params ...interface{}) (map[string]interface{}, error) {
	rows, err := q.Execute(ctx, query, params...)
	if err != nil {
		return nil, err
	}
	return KeyValues(rows), nil
}
