package enum

import (
	"fmt"
	"reflect"
)

var enumManager = map[string]any{}

type enum[T comparable] struct {
	toEnum map[string]T
}

func New[T comparable](value T) T {
	name := reflect.TypeOf(value).Name()
	if _, ok := enumManager[name]; !ok {
		enumManager[name] = enum[T]{toEnum: make(map[string]T)}
	}

	enumManager[name].(enum[T]).toEnum[fmt.Sprintf("%v", value)] = value
	return value
}

func ToEnum[T comparable](s string) (T, error) {
	var defaultT T
	e, ok := enumManager[reflect.TypeOf(defaultT).Name()]
	if !ok {
		return defaultT, fmt.Errorf("not found enum type %T", defaultT)
	}

	t, ok := e.(enum[T]).toEnum[s]
	if !ok {
		return defaultT, fmt.Errorf("not found value %s in enum %T", s, defaultT)
	}

	return t, nil
}
