package predicate

import "strings"

// Optional is a filter input that may be absent.
type Optional[T any] struct {
	value T
	ok    bool
}

func Some[T any](v T) Optional[T] {
	return Optional[T]{value: v, ok: true}
}

func None[T any]() Optional[T] {
	return Optional[T]{}
}

// FromPtr treats nil as absent.
func FromPtr[T any](p *T) Optional[T] {
	if p == nil {
		return None[T]()
	}
	return Some(*p)
}

// NonZero treats the zero value as absent.
func NonZero[T comparable](v T) Optional[T] {
	var zero T
	if v == zero {
		return None[T]()
	}
	return Some(v)
}

// NonBlank treats empty and whitespace-only strings as absent. The value is
// kept untrimmed.
func NonBlank(s string) Optional[string] {
	if strings.TrimSpace(s) == "" {
		return None[string]()
	}
	return Some(s)
}

func (o Optional[T]) Get() (T, bool) {
	return o.value, o.ok
}

func (o Optional[T]) IsPresent() bool {
	return o.ok
}

// OrElse returns the value or def when absent.
func (o Optional[T]) OrElse(def T) T {
	if o.ok {
		return o.value
	}
	return def
}
