package driver

import (
	"fmt"

	rwerrors "github.com/gmodb/rwdb/pkg/util/errors"
)

// Error is a failure reported by the database server or client library,
// normalized to a numeric code and message.
type Error struct {
	Code    int
	Message string
	cause   error
}

func NewError(code int, message string, cause error) *Error {
	return &Error{Code: code, Message: message, cause: cause}
}

func (e *Error) Error() string {
	return fmt.Sprintf("%d: %s", e.Code, e.Message)
}

func (e *Error) Cause() error {
	return e.cause
}

// ErrorCode returns the code and message of the first *Error in the chain of err.
// A foreign error yields code 0 and its own message.
func ErrorCode(err error) (int, string) {
	if err == nil {
		return 0, ""
	}
	var derr *Error
	if rwerrors.As(err, &derr) {
		return derr.Code, derr.Message
	}
	return 0, err.Error()
}
