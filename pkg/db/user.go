package db

import (
	"context"
)

type User struct {
	URI          string
	Email        string
	FirstName    string
	FamilyName   string
	Admin        bool
	Language     string
	PasswordHash string

	// URIs of groups the user belongs to
	Groups []string
}

// Name is "FirstName FamilyName".
func (u User) Name() string {
	switch {
	case u.FirstName == "":
		return u.FamilyName
	case u.FamilyName == "":
		return u.FirstName
	}
	return u.FirstName + " " + u.FamilyName
}

// InGroup tells u is a member of one of groups.
func (u User) InGroup(groups ...string) bool {
	for _, g := range groups {
		for _, mine := range u.Groups {
			if g == mine {
				return true
			}
		}
	}
	return false
}

type UserParam struct {
	URI          string
	Email        string
	FirstName    string
	FamilyName   string
	Admin        bool
	Language     string
	PasswordHash string
}

type UserInterface interface {
	// Get returns the user with groups.
	//
	// Returns:
	//
	// - error: ErrMissing when no users have uri.
	Get(ctx context.Context, uri string) (User, error)

	// GetByEmail returns the user with groups.
	//
	// Returns:
	//
	// - error: ErrMissing when no users have email.
	GetByEmail(ctx context.Context, email string) (User, error)

	// Exists tells a user has uri.
	Exists(ctx context.Context, uri string) (bool, error)

	// ExistsEmail tells a user has email.
	ExistsEmail(ctx context.Context, email string) (bool, error)

	// Create registers new user.
	//
	// Returns:
	//
	// - error: ErrConflict when uri or email is already used.
	Create(ctx context.Context, param UserParam) (User, error)

	// Search finds users whose name or email contains name (case insensitive),
	// ordered by email.
	//
	// Returns:
	//
	// - []User: users in the page (without groups)
	//
	// - int: total count of matched users
	Search(ctx context.Context, name string, page, pageSize int) ([]User, int, error)

	// Groups lists URIs of groups which the user belongs to.
	Groups(ctx context.Context, userURI string) ([]string, error)
}
