package rwdb

import (
	sqldriver "database/sql/driver"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"time"

	"github.com/gmodb/rwdb/pkg/driver"
	"github.com/pingcap/errors"
)

const DateTimeLayout = "2006-01-02 15:04:05"

// CoerceParams classifies every parameter into its wire value.
// The checks run in a fixed order: integer, float, string, bool, date/time, then blob for the rest.
func CoerceParams(params []interface{}) ([]driver.Value, error) {
	values := make([]driver.Value, len(params))
	for i, p := range params {
		v, err := coerce(p)
		if err != nil {
			return nil, errors.WithMessage(err, fmt.Sprintf("coerce parameter %d", i))
		}
		values[i] = v
	}
	return values, nil
}

// TypeString returns the type tags of values, e.g. "iids".
func TypeString(values []driver.Value) string {
	tags := make([]byte, len(values))
	for i, v := range values {
		tags[i] = v.Tag()
	}
	return string(tags)
}

func coerce(p interface{}) (driver.Value, error) {
	switch v := p.(type) {
	case driver.Value:
		return v, nil
	case int:
		return driver.Integer(v), nil
	case int8:
		return driver.Integer(v), nil
	case int16:
		return driver.Integer(v), nil
	case int32:
		return driver.Integer(v), nil
	case int64:
		return driver.Integer(v), nil
	case uint:
		return coerceUint(uint64(v)), nil
	case uint8:
		return driver.Integer(v), nil
	case uint16:
		return driver.Integer(v), nil
	case uint32:
		return driver.Integer(v), nil
	case uint64:
		return coerceUint(v), nil
	case float32:
		return driver.Double(v), nil
	case float64:
		return driver.Double(v), nil
	case string:
		return driver.Text(v), nil
	case bool:
		if v {
			return driver.Integer(1), nil
		}
		return driver.Integer(0), nil
	case time.Time:
		return driver.Text(v.Format(DateTimeLayout)), nil
	case *time.Time:
		if v == nil {
			return driver.Blob(nil), nil
		}
		return driver.Text(v.Format(DateTimeLayout)), nil
	case []byte:
		return driver.Blob(v), nil
	case nil:
		return driver.Blob(nil), nil
	case sqldriver.Valuer:
		val, err := v.Value()
		if err != nil {
			return nil, err
		}
		return coerce(val)
	}
	return coerceReflect(reflect.ValueOf(p))
}

// coerceReflect handles named types whose underlying kind is a basic type.
func coerceReflect(v reflect.Value) (driver.Value, error) {
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return driver.Integer(v.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return coerceUint(v.Uint()), nil
	case reflect.Float32, reflect.Float64:
		return driver.Double(v.Float()), nil
	case reflect.String:
		return driver.Text(v.String()), nil
	case reflect.Bool:
		return coerce(v.Bool())
	case reflect.Ptr:
		if v.IsNil() {
			return driver.Blob(nil), nil
		}
		return coerce(v.Elem().Interface())
	}
	return driver.Blob(fmt.Sprint(v.Interface())), nil
}

// coerceUint binds values above math.MaxInt64 as decimal text, which the server converts back.
func coerceUint(u uint64) driver.Value {
	if u > math.MaxInt64 {
		return driver.Text(strconv.FormatUint(u, 10))
	}
	return driver.Integer(u)
}
