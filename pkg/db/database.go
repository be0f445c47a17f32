// Package db declares the relational stores of phis: users, groups and their schema.
package db

import (
	"context"
	"errors"
)

var (
	// requested record is not found.
	ErrMissing = errors.New("missing")

	// record conflicts with existing one (duplicated email, uri or name).
	ErrConflict = errors.New("conflict")
)

type Database interface {
	Users() UserInterface
	Groups() GroupInterface
	Schema() SchemaInterface
	Ping(ctx context.Context) error
	Close() error
}

type SchemaInterface interface {
	// Version returns the current schema version. 0 means no schema is applied.
	Version(ctx context.Context) (int, error)

	// Upgrade applies all schema versions newer than the current one.
	Upgrade(ctx context.Context) error

	// Latest is the newest version this build knows.
	Latest() (int, error)
}
