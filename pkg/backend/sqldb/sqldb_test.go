package sqldb

import (
	"context"
	"testing"

	"github.com/gmodb/rwdb/pkg/driver"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

func TestMySQLDialect(t *testing.T) {
	d, ok := LookupDialect("MySQL")
	require.True(t, ok)
	assert.Equal(t, "mysql", d.DriverName())
	assert.Equal(t, "app:secret@tcp(db1:3307)/shop", d.DSN(driver.NewDescriptor("db1", 3307, "app", "secret", "shop")))
	assert.Equal(t, "INSERT IGNORE INTO t VALUES (1)", d.Rewrite("INSERT IGNORE INTO t VALUES (1)"))
	assert.Equal(t, "SET autocommit = 0", d.AutoCommitSQL(false))
	assert.Equal(t, "SET autocommit = 1", d.AutoCommitSQL(true))
}

func TestSQLiteDialect(t *testing.T) {
	d, ok := LookupDialect("sqlite3")
	require.True(t, ok)
	assert.Equal(t, SQLiteMemory, d.DSN(driver.NewDescriptor("", 0, "", "", "")))
	assert.Equal(t, "/tmp/app.db", d.DSN(driver.NewDescriptor("", 0, "", "", "/tmp/app.db")))
	assert.Equal(t, "INSERT OR IGNORE INTO t VALUES (1)", d.Rewrite("insert  ignore INTO t VALUES (1)"))
	assert.Equal(t, "", d.Rewrite("SET SESSION TRANSACTION ISOLATION LEVEL READ UNCOMMITTED"))
	assert.Equal(t, "BEGIN", d.AutoCommitSQL(false))
	assert.Equal(t, "", d.AutoCommitSQL(true))

	_, ok = LookupDialect("oracle")
	assert.False(t, ok)
}

type SQLiteConnTestSuite struct {
	suite.Suite
	ctx  context.Context
	conn driver.Conn
}

func TestSQLiteConnTestSuite(t *testing.T) {
	suite.Run(t, new(SQLiteConnTestSuite))
}

func (s *SQLiteConnTestSuite) SetupTest() {
	s.ctx = context.Background()
	connector, err := NewConnectorByName(DialectSQLite)
	require.NoError(s.T(), err)

	conn, err := connector.Connect(s.ctx, driver.NewDescriptor("", 0, "", "", SQLiteMemory))
	require.NoError(s.T(), err)
	s.conn = conn
	require.NoError(s.T(), s.conn.Ping(s.ctx))

	s.exec("CREATE TABLE users (id INTEGER PRIMARY KEY AUTOINCREMENT, name TEXT UNIQUE, avatar BLOB)", nil)
}

func (s *SQLiteConnTestSuite) TearDownTest() {
	require.NoError(s.T(), s.conn.Close())
}

func (s *SQLiteConnTestSuite) exec(query string, args []driver.Value) *driver.Result {
	stmt, err := s.conn.Prepare(s.ctx, query)
	require.NoError(s.T(), err)
	defer stmt.Close()

	ret, err := stmt.Execute(s.ctx, args)
	require.NoError(s.T(), err)
	return ret
}

func (s *SQLiteConnTestSuite) TestInsertAndSelect() {
	ret := s.exec("INSERT INTO users (name, avatar) VALUES (?, ?), (?, ?)",
		[]driver.Value{driver.Text("ann"), driver.Blob("png"), driver.Text("bob"), driver.Blob(nil)})
	require.Equal(s.T(), int64(2), ret.AffectedRows)
	require.Equal(s.T(), int64(2), ret.InsertID)
	require.Empty(s.T(), ret.Columns)

	id, err := s.conn.LastInsertID(s.ctx)
	require.NoError(s.T(), err)
	require.Equal(s.T(), int64(2), id)

	ret = s.exec("SELECT id, name, avatar FROM users ORDER BY id", nil)
	require.Equal(s.T(), []string{"id", "name", "avatar"}, ret.Columns)
	require.Len(s.T(), ret.Rows, 2)
	require.Equal(s.T(), int64(1), ret.Rows[0][0])
	require.Equal(s.T(), "ann", ret.Rows[0][1])
	require.Equal(s.T(), []byte("png"), ret.Rows[0][2])
	require.Nil(s.T(), ret.Rows[1][2])
}

func (s *SQLiteConnTestSuite) TestInsertIgnore() {
	s.exec("INSERT INTO users (name) VALUES (?)", []driver.Value{driver.Text("ann")})
	ret := s.exec("INSERT IGNORE INTO users (name) VALUES (?)", []driver.Value{driver.Text("ann")})
	require.Equal(s.T(), int64(0), ret.AffectedRows)
}

func (s *SQLiteConnTestSuite) TestTransaction() {
	require.NoError(s.T(), s.conn.SetAutoCommit(s.ctx, false))
	s.exec("INSERT INTO users (name) VALUES (?)", []driver.Value{driver.Text("ann")})
	require.NoError(s.T(), s.conn.Rollback(s.ctx))
	require.NoError(s.T(), s.conn.SetAutoCommit(s.ctx, true))

	ret := s.exec("SELECT COUNT(*) FROM users", nil)
	require.Equal(s.T(), int64(0), ret.Rows[0][0])

	require.NoError(s.T(), s.conn.SetAutoCommit(s.ctx, false))
	s.exec("INSERT INTO users (name) VALUES (?)", []driver.Value{driver.Text("ann")})
	require.NoError(s.T(), s.conn.Commit(s.ctx))
	require.NoError(s.T(), s.conn.SetAutoCommit(s.ctx, true))

	ret = s.exec("SELECT COUNT(*) FROM users", nil)
	require.Equal(s.T(), int64(1), ret.Rows[0][0])
}

func (s *SQLiteConnTestSuite) TestIsolationIsNoop() {
	require.NoError(s.T(), s.conn.Exec(s.ctx, "SET SESSION TRANSACTION ISOLATION LEVEL READ UNCOMMITTED"))
}

func (s *SQLiteConnTestSuite) TestErrors() {
	_, err := s.conn.Prepare(s.ctx, "SELECT * FROM nope")
	require.Error(s.T(), err)
	code, msg := driver.ErrorCode(err)
	require.Equal(s.T(), 1, code)
	require.Contains(s.T(), msg, "no such table")

	s.exec("INSERT INTO users (name) VALUES (?)", []driver.Value{driver.Text("ann")})
	stmt, err := s.conn.Prepare(s.ctx, "INSERT INTO users (name) VALUES (?)")
	require.NoError(s.T(), err)
	defer stmt.Close()
	_, err = stmt.Execute(s.ctx, []driver.Value{driver.Text("ann")})
	code, _ = driver.ErrorCode(err)
	require.Equal(s.T(), 19, code)
}
