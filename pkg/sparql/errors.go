package sparql

import (
	"errors"
	"fmt"

	"github.com/opensilex/phis/pkg/sparql/mapper"
)

var (
	// the resource is not found.
	ErrNotFoundURI = errors.New("URI not found")

	// the user is not allowed to access the resource.
	ErrForbiddenURIAccess = errors.New("access to URI is forbidden")

	// the URI is already used by another resource.
	ErrAlreadyExists = errors.New("URI already exists")

	// the resource is referred by other resources, so it can not be deleted.
	ErrInUse = errors.New("URI is in use")

	// ordering by unknown field is requested.
	ErrInvalidOrderField = errors.New("invalid order field")

	// rdf:type of a resource is not a subclass of the expected class.
	ErrInvalidType = errors.New("invalid rdf type")

	// a required field is missing.
	ErrRequired = mapper.ErrRequired
)

// URIError is an error about a resource. It unwraps to its Reason.
type URIError struct {
	URI    mapper.URI
	Reason error
}

func (e *URIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Reason, e.URI)
}

func (e *URIError) Unwrap() error {
	return e.Reason
}

func NotFound(uri mapper.URI) error {
	return &URIError{URI: uri, Reason: ErrNotFoundURI}
}

func Forbidden(uri mapper.URI) error {
	return &URIError{URI: uri, Reason: ErrForbiddenURIAccess}
}

func AlreadyExists(uri mapper.URI) error {
	return &URIError{URI: uri, Reason: ErrAlreadyExists}
}

func InUse(uri mapper.URI) error {
	return &URIError{URI: uri, Reason: ErrInUse}
}
