package utils

import (
	"reflect"

	"github.com/pkg/errors"
)

// NewUnexpectedTypeError is used when there is a type mismatch.
func NewUnexpectedTypeError[ExpectedT any](actual interface{}) error {
	return errors.Errorf("expected %s but got %T", reflect.TypeOf((*ExpectedT)(nil)).Elem(), actual)
}

// AssertType converts a value held as interface{}, such as converted model attributes, to T.
func AssertType[T any](from interface{}) (T, error) {
	if asserted, ok := from.(T); ok {
		return asserted, nil
	}
	var zero T
	return zero, NewUnexpectedTypeError[T](from)
}
