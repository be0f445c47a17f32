package security

import (
	"context"
	"errors"

	kdb "github.com/opensilex/phis/pkg/db"
	xe "github.com/opensilex/phis/pkg/errors"
	"golang.org/x/crypto/bcrypt"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

// HashPassword hashes password with bcrypt.
func HashPassword(password string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", xe.Wrap(err)
	}
	return string(h), nil
}

// Authenticate finds the user having email and password.
//
// Unknown email and wrong password are both ErrInvalidCredentials.
func Authenticate(ctx context.Context, users kdb.UserInterface, email string, password string) (kdb.User, error) {
	u, err := users.GetByEmail(ctx, email)
	if errors.Is(err, kdb.ErrMissing) {
		return kdb.User{}, xe.Wrap(ErrInvalidCredentials)
	} else if err != nil {
		return kdb.User{}, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return kdb.User{}, xe.Wrap(ErrInvalidCredentials)
	}
	return u, nil
}
