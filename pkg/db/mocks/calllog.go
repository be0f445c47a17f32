package mocks

// CallLog records arguments of each call to a mocked method.
type CallLog[T any] []T

// Times is how many times the method is called.
func (cl CallLog[T]) Times() int {
	return len(cl)
}
