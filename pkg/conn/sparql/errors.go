package sparql

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// query or update is rejected by the repository as syntactically wrong.
	ErrMalformedQuery = errors.New("malformed sparql query")

	// update violates SHACL shapes loaded in the repository.
	ErrValidation = errors.New("shacl validation failed")

	// the repository responds with an unexpected status.
	ErrRepository = errors.New("repository error")
)

// ResponseError is an error response from RDF4J server.
//
// It unwraps to one of ErrMalformedQuery, ErrValidation or ErrRepository.
type ResponseError struct {
	Status int
	Body   string
	kind   error
}

func (e *ResponseError) Error() string {
	return fmt.Sprintf("%s: status %d: %s", e.kind, e.Status, e.Body)
}

func (e *ResponseError) Unwrap() error {
	return e.kind
}

func newResponseError(status int, body string) *ResponseError {
	kind := ErrRepository
	switch {
	case strings.Contains(body, "ShaclSailValidationException"):
		kind = ErrValidation
	case status == 400:
		kind = ErrMalformedQuery
	}
	return &ResponseError{Status: status, Body: strings.TrimSpace(body), kind: kind}
}
