// Package pointer helps optional fields, which are pointers.
package pointer

// Ref points a copy of t.
func Ref[T any](t T) *T {
	return &t
}

// SafeDeref is the value of ptr, or the zero value for nil.
func SafeDeref[T any](ptr *T) T {
	if ptr == nil {
		return *new(T)
	}
	return *ptr
}
