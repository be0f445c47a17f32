package security

import (
	"errors"
	"strings"

	"github.com/labstack/echo/v4"
	apierr "github.com/opensilex/phis/pkg/api/types/errors"
	kdb "github.com/opensilex/phis/pkg/db"
)

const userKey = "phis.security.user"

type FilterOption func(*filterConfig)

type filterConfig struct {
	public map[string]bool
}

// WithPublicRoutes lets requests to the routes pass without token.
//
// Routes are compared with the path they are registered with (echo.Context.Path),
// like "/rest/data/file/:uri", not with request paths.
func WithPublicRoutes(paths ...string) FilterOption {
	return func(fc *filterConfig) {
		for _, p := range paths {
			fc.public[p] = true
		}
	}
}

// Filter is a middleware requiring "Authorization: Bearer <token>".
//
// The user of the token is loaded from users and is available with UserOf.
//
// It should be used as a middleware after routing (echo.Echo.Use or echo.Group),
// since public routes are told by the matched route.
func Filter(issuer *TokenIssuer, users kdb.UserInterface, opts ...FilterOption) echo.MiddlewareFunc {
	fc := &filterConfig{public: map[string]bool{}}
	for _, o := range opts {
		o(fc)
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if fc.public[c.Path()] {
				return next(c)
			}

			scheme, token, ok := strings.Cut(c.Request().Header.Get("Authorization"), " ")
			if !ok || !strings.EqualFold(scheme, "Bearer") || token == "" {
				return apierr.Unauthorized("You cannot access this resource.", nil)
			}
			claims, err := issuer.Verify(strings.TrimSpace(token))
			if err != nil {
				return apierr.Unauthorized("Invalid token", err)
			}
			u, err := users.Get(c.Request().Context(), claims.Subject)
			if errors.Is(err, kdb.ErrMissing) {
				return apierr.Unauthorized("Invalid token", err)
			} else if err != nil {
				return apierr.InternalServerError(err)
			}
			SetUser(c, u)
			return next(c)
		}
	}
}

// SetUser binds the authenticated user to the request context.
func SetUser(c echo.Context, u kdb.User) {
	c.Set(userKey, u)
}

// UserOf returns the user authenticated by Filter.
func UserOf(c echo.Context) (kdb.User, bool) {
	u, ok := c.Get(userKey).(kdb.User)
	return u, ok
}

// MustUserOf is UserOf, responding 401 when no user is authenticated.
func MustUserOf(c echo.Context) (kdb.User, error) {
	u, ok := UserOf(c)
	if !ok {
		return kdb.User{}, apierr.Unauthorized("You cannot access this resource.", nil)
	}
	return u, nil
}

// RequireAdmin responds 403 unless the authenticated user is an admin.
func RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		u, err := MustUserOf(c)
		if err != nil {
			return err
		}
		if !u.Admin {
			return apierr.Forbidden("administrator privileges are required", nil)
		}
		return next(c)
	}
}
