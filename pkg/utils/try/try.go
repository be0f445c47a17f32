// Package try shortens (value, error) pairs where an error can only be fatal,
// as in tests and main functions.
package try

// Fataler is *testing.T, *log.Logger and so on.
type Fataler interface {
	Fatal(...any)
}

type Result[T any] struct {
	value T
	err   error
}

// To holds a pair of value and error.
func To[T any](value T, err error) Result[T] {
	return Result[T]{value: value, err: err}
}

// OrFatal returns the value, or calls ftl.Fatal with the error.
func (r Result[T]) OrFatal(ftl Fataler) T {
	if r.err != nil {
		if h, ok := ftl.(interface{ Helper() }); ok {
			h.Helper()
		}
		ftl.Fatal(r.err)
		return *new(T)
	}
	return r.value
}

// OrDefault returns d instead of a value with error.
func (r Result[T]) OrDefault(d T) T {
	if r.err != nil {
		return d
	}
	return r.value
}
