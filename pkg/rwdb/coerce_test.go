package rwdb

import (
	sqldriver "database/sql/driver"
	"math"
	"testing"
	"time"

	"github.com/gmodb/rwdb/pkg/driver"
	"github.com/pingcap/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type status int

type color string

type valuer struct {
	v   sqldriver.Value
	err error
}

func (v valuer) Value() (sqldriver.Value, error) {
	return v.v, v.err
}

func TestCoerceParams(t *testing.T) {
	ts := time.Date(2020, 8, 26, 8, 19, 22, 0, time.UTC)
	var nilTime *time.Time

	params := []interface{}{
		42,
		int8(-1),
		uint32(7),
		3.5,
		float32(0.5),
		"x",
		true,
		false,
		ts,
		&ts,
		nilTime,
		[]byte("raw"),
		nil,
		driver.Text("kept"),
		status(3),
		color("red"),
		valuer{v: int64(9)},
		struct{ A int }{1},
	}
	values, err := CoerceParams(params)
	require.NoError(t, err)
	require.Len(t, values, len(params))

	expected := []driver.Value{
		driver.Integer(42),
		driver.Integer(-1),
		driver.Integer(7),
		driver.Double(3.5),
		driver.Double(0.5),
		driver.Text("x"),
		driver.Integer(1),
		driver.Integer(0),
		driver.Text("2020-08-26 08:19:22"),
		driver.Text("2020-08-26 08:19:22"),
		driver.Blob(nil),
		driver.Blob("raw"),
		driver.Blob(nil),
		driver.Text("kept"),
		driver.Integer(3),
		driver.Text("red"),
		driver.Integer(9),
		driver.Blob("{1}"),
	}
	assert.Equal(t, expected, values)
	assert.Equal(t, "iiiddsiissbbbsisib", TypeString(values))
}

type bigID uint64

func TestCoerceParams_LargeUnsigned(t *testing.T) {
	values, err := CoerceParams([]interface{}{
		uint64(math.MaxUint64),
		uint64(math.MaxInt64),
		bigID(math.MaxInt64 + 1),
		bigID(5),
	})
	require.NoError(t, err)
	assert.Equal(t, []driver.Value{
		driver.Text("18446744073709551615"),
		driver.Integer(math.MaxInt64),
		driver.Text("9223372036854775808"),
		driver.Integer(5),
	}, values)
	assert.Equal(t, "sisi", TypeString(values))
}

func TestCoerceParams_ValuerError(t *testing.T) {
	_, err := CoerceParams([]interface{}{1, valuer{err: errors.New("bad value")}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "coerce parameter 1")
	assert.Contains(t, err.Error(), "bad value")
}

func TestTypeString(t *testing.T) {
	values, err := CoerceParams([]interface{}{1, 2, 1.5, "s"})
	require.NoError(t, err)
	assert.Equal(t, "iids", TypeString(values))
	assert.Equal(t, "", TypeString(nil))
}
