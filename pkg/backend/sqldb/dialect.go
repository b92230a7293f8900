package sqldb

import (
	"regexp"
	"strings"

	"github.com/gmodb/rwdb/pkg/driver"
	"github.com/go-sql-driver/mysql"
)

const (
	DialectMySQL  = "mysql"
	DialectSQLite = "sqlite3"

	SQLiteMemory = ":memory:"
)

// Dialect adapts a database/sql driver to the statements the client issues.
type Dialect interface {
	// DriverName is the name the driver is registered with in database/sql.
	DriverName() string
	DSN(desc *driver.Descriptor) string
	// Rewrite adapts query to the dialect. An empty result means there is nothing to run.
	Rewrite(query string) string
	AutoCommitSQL(autocommit bool) string
	AffectedRowsSQL() string
	LastInsertIDSQL() string
}

type mysqlDialect struct{}

func (mysqlDialect) DriverName() string { return DialectMySQL }

func (mysqlDialect) DSN(desc *driver.Descriptor) string {
	cfg := mysql.NewConfig()
	cfg.Net = "tcp"
	cfg.Addr = desc.Addr()
	cfg.User = desc.User()
	cfg.Passwd = desc.Password()
	cfg.DBName = desc.Schema()
	return cfg.FormatDSN()
}

func (mysqlDialect) Rewrite(query string) string { return query }

func (mysqlDialect) AutoCommitSQL(autocommit bool) string {
	if autocommit {
		return "SET autocommit = 1"
	}
	return "SET autocommit = 0"
}

func (mysqlDialect) AffectedRowsSQL() string { return "SELECT ROW_COUNT()" }
func (mysqlDialect) LastInsertIDSQL() string { return "SELECT LAST_INSERT_ID()" }

var (
	insertIgnoreRegexp    = regexp.MustCompile(`(?i)\bINSERT\s+IGNORE\b`)
	sessionIsolationRegex = regexp.MustCompile(`(?i)^\s*SET\s+SESSION\s+TRANSACTION\b`)
)

type sqliteDialect struct{}

func (sqliteDialect) DriverName() string { return DialectSQLite }

// DSN uses the schema as the database file name, in memory when empty.
func (sqliteDialect) DSN(desc *driver.Descriptor) string {
	if desc.Schema() == "" {
		return SQLiteMemory
	}
	return desc.Schema()
}

func (sqliteDialect) Rewrite(query string) string {
	// sqlite has a single isolation level
	if sessionIsolationRegex.MatchString(query) {
		return ""
	}
	return insertIgnoreRegexp.ReplaceAllString(query, "INSERT OR IGNORE")
}

// AutoCommitSQL opens a transaction when auto-commit is disabled. sqlite returns to
// auto-commit by itself after COMMIT or ROLLBACK.
func (sqliteDialect) AutoCommitSQL(autocommit bool) string {
	if autocommit {
		return ""
	}
	return "BEGIN"
}

func (sqliteDialect) AffectedRowsSQL() string { return "SELECT changes()" }
func (sqliteDialect) LastInsertIDSQL() string { return "SELECT last_insert_rowid()" }

// LookupDialect returns the dialect registered under name.
func LookupDialect(name string) (Dialect, bool) {
	switch strings.ToLower(name) {
	case DialectMySQL:
		return mysqlDialect{}, true
	case DialectSQLite, "sqlite":
		return sqliteDialect{}, true
	default:
		return nil, false
	}
}
