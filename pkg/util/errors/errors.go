package errors

import (
	"reflect"
)

// copied from errors.Is(), but replace Unwrap() with Cause()
func Is(err, target error) bool {
	if target == nil {
		return err == target
	}

	isComparable := reflect.TypeOf(target).Comparable()
	for {
		if isComparable && err == target {
			return true
		}
		if x, ok := err.(interface{ Is(error) bool }); ok && x.Is(target) {
			return true
		}
		if err = Cause(err); err == nil {
			return false
		}
	}
}

var errorType = reflect.TypeOf((*error)(nil)).Elem()

// copied from errors.As(), but replace Unwrap() with Cause()
func As(err error, target interface{}) bool {
	if target == nil {
		panic("errors: target cannot be nil")
	}
	val := reflect.ValueOf(target)
	typ := val.Type()
	if typ.Kind() != reflect.Ptr || val.IsNil() {
		panic("errors: target must be a non-nil pointer")
	}
	targetType := typ.Elem()
	if targetType.Kind() != reflect.Interface && !targetType.Implements(errorType) {
		panic("errors: *target must be interface or implement error")
	}
	for err != nil {
		if reflect.TypeOf(err).AssignableTo(targetType) {
			val.Elem().Set(reflect.ValueOf(err))
			return true
		}
		if x, ok := err.(interface{ As(interface{}) bool }); ok && x.As(target) {
			return true
		}
		err = Cause(err)
	}
	return false
}

// Cause returns the error wrapped by err, or nil if err wraps nothing.
// Both pingcap/errors style Cause() and standard Unwrap() are followed.
func Cause(err error) error {
	if u, ok := err.(interface{ Cause() error }); ok {
		return u.Cause()
	}
	if u, ok := err.(interface{ Unwrap() error }); ok {
		return u.Unwrap()
	}
	return nil
}
