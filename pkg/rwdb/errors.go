package rwdb

import (
	"fmt"

	rwerrors "github.com/gmodb/rwdb/pkg/util/errors"
	"github.com/pingcap/errors"
)

var (
	ErrClientClosed        = errors.New("rwdb: client is closed")
	ErrEmptyArrayParam     = errors.New("rwdb: array parameter is empty")
	ErrPlaceholderMismatch = errors.New("rwdb: array parameters do not match ?? placeholders")
	ErrNilConnection       = errors.New("rwdb: connector returned no connection")
	ErrConnectionLost      = errors.New("rwdb: connection is lost")
	ErrTransactionLost     = errors.New("rwdb: master connection lost inside a transaction")
)

type StatementOp int

const (
	OpPrepare StatementOp = iota
	OpExecute
)

func (op StatementOp) String() string {
	switch op {
	case OpPrepare:
		return "Error preparing statement"
	case OpExecute:
		return "Error executing statement"
	default:
		return "Error running statement"
	}
}

// ConnectionError is returned when a connection can not be established or re-established.
type ConnectionError struct {
	Role  Role
	Addr  string
	cause error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("Unable to establish connection to database (%s %s): %v", e.Role, e.Addr, e.cause)
}

func (e *ConnectionError) Cause() error {
	return e.cause
}

func (e *ConnectionError) Unwrap() error {
	return e.cause
}

// StatementError is returned when the driver fails to prepare or execute a statement.
type StatementError struct {
	Op      StatementOp
	Query   string
	Params  []interface{}
	Message string
	Code    int
	cause   error
}

func (e *StatementError) Error() string {
	return fmt.Sprintf("%s: %s (errno %d)", e.Op, e.Message, e.Code)
}

func (e *StatementError) Cause() error {
	return e.cause
}

func (e *StatementError) Unwrap() error {
	return e.cause
}

func IsConnectionError(err error) bool {
	var cerr *ConnectionError
	return rwerrors.As(err, &cerr)
}

// AsStatementError returns the first *StatementError in the chain of err.
func AsStatementError(err error) (*StatementError, bool) {
	var serr *StatementError
	if rwerrors.As(err, &serr) {
		return serr, true
	}
	return nil, false
}
