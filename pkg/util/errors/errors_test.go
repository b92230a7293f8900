package errors

import (
	"testing"

	"github.com/pingcap/errors"
	"github.com/siddontang/go-mysql/mysql"
	"github.com/stretchr/testify/assert"
)

type codeError struct {
	code int
}

func (e *codeError) Error() string {
	return "code error"
}

func TestIs(t *testing.T) {
	badConn := mysql.ErrBadConn
	err := errors.AddStack(badConn)
	assert.True(t, Is(err, badConn))

	err = errors.WithMessage(err, "query failed")
	assert.True(t, Is(err, badConn))
	assert.False(t, Is(err, mysql.ErrMalformPacket))
	assert.False(t, Is(nil, badConn))
	assert.True(t, Is(nil, nil))
}

func TestAs(t *testing.T) {
	origin := &codeError{code: 1060}
	err := errors.WithMessage(errors.AddStack(origin), "exec failed")

	var target *codeError
	assert.True(t, As(err, &target))
	assert.Equal(t, 1060, target.code)

	var notFound *mysql.MyError
	assert.False(t, As(err, &notFound))
	assert.Nil(t, notFound)
}

func TestCause(t *testing.T) {
	origin := errors.New("origin")
	assert.Nil(t, Cause(origin))

	wrapped := errors.WithMessage(origin, "wrapped")
	assert.Equal(t, origin, Cause(wrapped))
}
