package db

import "context"

type Group struct {
	URI         string
	Name        string
	Description string

	// URIs of member users
	Members []string
}

type GroupParam struct {
	URI         string
	Name        string
	Description string
}

type GroupInterface interface {
	// Create registers new group.
	//
	// Returns:
	//
	// - error: ErrConflict when uri or name is already used.
	Create(ctx context.Context, param GroupParam) (Group, error)

	// AddMember puts user into group. Adding a member twice is not an error.
	//
	// Returns:
	//
	// - error: ErrMissing when group or user is not found.
	AddMember(ctx context.Context, groupURI string, userURI string) error

	// Get returns the group with members.
	//
	// Returns:
	//
	// - error: ErrMissing when group is not found.
	Get(ctx context.Context, uri string) (Group, error)

	// Search finds groups whose name contains name (case insensitive), ordered by name.
	Search(ctx context.Context, name string, page, pageSize int) ([]Group, int, error)
}
