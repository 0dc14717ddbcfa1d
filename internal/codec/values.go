package codec

import (
	"reflect"
	"runtime"
)

// Callable is a field value carrying executable behavior along with its
// source text. Persisting a record stores only the source.
type Callable interface {
	Source() string
}

// Element is a field value bound to a live UI object. Elements cannot be
// persisted and are dropped from encoded records.
type Element interface {
	ElementTag() string
}

// Script is a Callable holding a Go function together with the source text
// it was built from.
type Script struct {
	Src string
	Fn  func(args ...any) any
}

// Source returns the script text.
func (s Script) Source() string {
	return s.Src
}

// Call invokes the function, returning nil when none is set.
func (s Script) Call(args ...any) any {
	if s.Fn == nil {
		return nil
	}
	return s.Fn(args...)
}

// Invocation renders callable source in the persisted form "(" + src + ");".
func Invocation(src string) string {
	return "(" + src + ");"
}

// callableSource reports whether v is callable and, if so, the source text
// to persist. Plain Go funcs have no source; their symbol name stands in.
func callableSource(v any) (string, bool) {
	if c, ok := v.(Callable); ok {
		return c.Source(), true
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Func {
		return "", false
	}
	if rv.IsNil() {
		return "", false
	}
	fn := runtime.FuncForPC(rv.Pointer())
	if fn == nil {
		return "func", true
	}
	return fn.Name(), true
}

// isElement reports whether v is a UI element.
func isElement(v any) bool {
	_, ok := v.(Element)
	return ok
}

// unrepresentable reports whether v has no JSON form at all.
func unrepresentable(v any) bool {
	if isElement(v) {
		return true
	}
	if _, ok := v.(Callable); ok {
		return true
	}
	switch reflect.ValueOf(v).Kind() {
	case reflect.Func, reflect.Chan, reflect.UnsafePointer, reflect.Complex64, reflect.Complex128:
		return true
	}
	return false
}
