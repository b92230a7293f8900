package rwdb

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/pingcap/errors"
)

const arrayMarker = "??"

var whitespaceRegexp = regexp.MustCompile(`[\t\r\n ]+`)

// QueryPlan is a statement ready to be prepared: placeholders expanded and parameters flattened.
type QueryPlan struct {
	Query  string
	Params []interface{}
}

func collapseWhitespace(query string) string {
	return whitespaceRegexp.ReplaceAllString(query, " ")
}

// ExpandQueryParams replaces the n-th "??" marker of query with one "?" per element
// of the n-th slice parameter, and flattens the slice into the parameter list.
// Runs of whitespace in query are collapsed to a single space.
func ExpandQueryParams(query string, params []interface{}) (*QueryPlan, error) {
	rest := collapseWhitespace(query)
	flat := make([]interface{}, 0, len(params))

	var sb strings.Builder
	for i, param := range params {
		elems, ok := arrayElems(param)
		if !ok {
			flat = append(flat, param)
			continue
		}
		if len(elems) == 0 {
			return nil, errors.WithMessage(ErrEmptyArrayParam, fmt.Sprintf("parameter %d", i))
		}

		idx := strings.Index(rest, arrayMarker)
		if idx < 0 {
			return nil, errors.WithMessage(ErrPlaceholderMismatch, fmt.Sprintf("no ?? left for parameter %d", i))
		}
		sb.WriteString(rest[:idx])
		sb.WriteString(questionMarks(len(elems)))
		rest = rest[idx+len(arrayMarker):]

		flat = append(flat, elems...)
	}
	if strings.Contains(rest, arrayMarker) {
		return nil, errors.WithMessage(ErrPlaceholderMismatch, "unbound ?? left in query")
	}
	sb.WriteString(rest)

	return &QueryPlan{Query: sb.String(), Params: flat}, nil
}

func questionMarks(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

// arrayElems returns the elements of slice and array parameters.
// Byte slices are binary values, not arrays.
func arrayElems(param interface{}) ([]interface{}, bool) {
	if param == nil {
		return nil, false
	}
	v := reflect.ValueOf(param)
	switch v.Kind() {
	case reflect.Slice, reflect.Array:
		if v.Type().Elem().Kind() == reflect.Uint8 {
			return nil, false
		}
	default:
		return nil, false
	}

	elems := make([]interface{}, v.Len())
	for i := range elems {
		elems[i] = v.Index(i).Interface()
	}
	return elems, true
}
