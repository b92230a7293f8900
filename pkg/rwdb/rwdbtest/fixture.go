// Package rwdbtest provides a database fixture for tests: a client on a fresh
// in-memory sqlite database, with schema and YAML datasets loaded before the test runs.
package rwdbtest

import (
	"bytes"
	"context"
	"fmt"
	"io/ioutil"
	"sort"
	"strings"
	"testing"

	"github.com/gmodb/rwdb/pkg/backend/sqldb"
	"github.com/gmodb/rwdb/pkg/driver"
	"github.com/gmodb/rwdb/pkg/rwdb"
	"github.com/goccy/go-yaml"
	"github.com/pingcap/errors"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

// Dataset maps table names to their rows. Rows are column to value mappings.
//
//	guestbook:
//	  - id: 1
//	    content: Hello buddy!
type Dataset yaml.MapSlice

type fixtureConfig struct {
	connector driver.Connector
	desc      *driver.Descriptor
	schema    []string
	datasets  []string
}

type Option func(*fixtureConfig)

// WithConnection runs the fixture against another database, e.g. a mysql test server.
func WithConnection(connector driver.Connector, desc *driver.Descriptor) Option {
	return func(cfg *fixtureConfig) {
		cfg.connector = connector
		cfg.desc = desc
	}
}

// WithSchema runs stmts before the datasets are loaded.
func WithSchema(stmts ...string) Option {
	return func(cfg *fixtureConfig) {
		cfg.schema = append(cfg.schema, stmts...)
	}
}

// WithDataset loads the YAML dataset file at path.
func WithDataset(path string) Option {
	return func(cfg *fixtureConfig) {
		cfg.datasets = append(cfg.datasets, path)
	}
}

// Fixture owns one client for the duration of a test.
type Fixture struct {
	t      testing.TB
	ctx    context.Context
	client *rwdb.Client
}

// NewFixture opens the client, creates the schema and loads the datasets.
// The client is closed when the test finishes.
func NewFixture(t testing.TB, opts ...Option) *Fixture {
	cfg := &fixtureConfig{
		connector: sqldb.NewConnector(mustDialect(t, sqldb.DialectSQLite)),
		desc:      driver.NewDescriptor("", 0, "", "", sqldb.SQLiteMemory),
	}
	for _, opt := range opts {
		opt(cfg)
	}

	ctx := context.Background()
	client, err := rwdb.New(ctx, cfg.connector, cfg.desc, rwdb.WithName("rwdbtest"), rwdb.WithLogger(zaptest.NewLogger(t)))
	require.NoError(t, err)
	t.Cleanup(client.Close)

	f := &Fixture{t: t, ctx: ctx, client: client}
	for _, stmt := range cfg.schema {
		_, err := client.Execute(ctx, stmt)
		require.NoError(t, err, stmt)
	}
	for _, path := range cfg.datasets {
		f.LoadDataset(path)
	}
	return f
}

func mustDialect(t testing.TB, name string) sqldb.Dialect {
	dialect, ok := sqldb.LookupDialect(name)
	require.True(t, ok)
	return dialect
}

func (f *Fixture) Client() *rwdb.Client {
	return f.client
}

func (f *Fixture) Context() context.Context {
	return f.ctx
}

// LoadDataset empties every table of the dataset file at path, then inserts its rows.
func (f *Fixture) LoadDataset(path string) {
	data, err := ioutil.ReadFile(path)
	require.NoError(f.t, err)
	dataset, err := ParseDataset(data)
	require.NoError(f.t, err, path)
	require.NoError(f.t, Load(f.ctx, f.client, dataset), path)
}

// RowCount returns the number of rows in table.
func (f *Fixture) RowCount(table string) int64 {
	v, err := f.client.UseMaster().SingleValue(f.ctx, "SELECT COUNT(*) FROM "+table)
	require.NoError(f.t, err)
	n, ok := v.(int64)
	require.True(f.t, ok, "unexpected count type %T", v)
	return n
}

func ParseDataset(data []byte) (Dataset, error) {
	var dataset yaml.MapSlice
	if err := yaml.NewDecoder(bytes.NewReader(data), yaml.UseOrderedMap()).Decode(&dataset); err != nil {
		return nil, errors.WithMessage(err, "parse dataset")
	}
	return Dataset(dataset), nil
}

// Load replaces the content of the dataset tables with the dataset rows.
func Load(ctx context.Context, client *rwdb.Client, dataset Dataset) error {
	for _, item := range dataset {
		table := fmt.Sprint(item.Key)
		if _, err := client.Execute(ctx, "DELETE FROM "+table); err != nil {
			return err
		}

		rows, ok := item.Value.([]interface{})
		if !ok && item.Value != nil {
			return errors.Errorf("dataset table %s: rows must be a list", table)
		}
		for i, r := range rows {
			row, err := toMapSlice(r)
			if err != nil {
				return errors.WithMessage(err, fmt.Sprintf("dataset table %s: row %d", table, i))
			}
			query, params := insertStatement(table, row)
			if _, err := client.Execute(ctx, query, params...); err != nil {
				return err
			}
		}
	}
	return nil
}

func toMapSlice(v interface{}) (yaml.MapSlice, error) {
	switch row := v.(type) {
	case yaml.MapSlice:
		return row, nil
	case map[string]interface{}:
		keys := make([]string, 0, len(row))
		for k := range row {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		ms := make(yaml.MapSlice, 0, len(row))
		for _, k := range keys {
			ms = append(ms, yaml.MapItem{Key: k, Value: row[k]})
		}
		return ms, nil
	default:
		return nil, errors.Errorf("row must be a mapping, got %T", v)
	}
}

func insertStatement(table string, row yaml.MapSlice) (string, []interface{}) {
	columns := make([]string, 0, len(row))
	params := make([]interface{}, 0, len(row))
	for _, col := range row {
		columns = append(columns, fmt.Sprint(col.Key))
		params = append(params, col.Value)
	}
	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", table, strings.Join(columns, ", "),
		strings.TrimSuffix(strings.Repeat("?, ", len(columns)), ", "))
	return query, params
}
