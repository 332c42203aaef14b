package utils

import "reflect"

// IsNil reports whether val is nil or an interface holding a nil pointer,
// map, slice, func or channel.
func IsNil(val any) bool {
	rv := reflect.ValueOf(val)
	if !rv.IsValid() {
		return true
	}
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.Interface:
		return rv.IsNil()
	}
	return false
}
