package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	apierr "github.com/opensilex/phis/pkg/api/types/errors"
	"github.com/opensilex/phis/pkg/api/types/results"
	kdb "github.com/opensilex/phis/pkg/db"
	"github.com/opensilex/phis/pkg/security"
	"github.com/opensilex/phis/pkg/uri"
	"github.com/opensilex/phis/pkg/utils"
)

type Credentials struct {
	Identifier string `json:"identifier"`
	Password   string `json:"password"`
}

type Token struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Issuer issues access tokens. *security.TokenIssuer implements it.
type Issuer interface {
	Issue(user kdb.User) (string, time.Time, error)
}

func AuthenticateHandler(users kdb.UserInterface, issuer Issuer) echo.HandlerFunc {
	return func(c echo.Context) error {
		cred := new(Credentials)
		if err := bindJSON(c, cred); err != nil {
			return err
		}
		if cred.Identifier == "" || cred.Password == "" {
			return apierr.BadRequest("identifier and password are required", nil)
		}
		u, err := security.Authenticate(c.Request().Context(), users, cred.Identifier, cred.Password)
		if err != nil {
			return HTTPError(err)
		}
		tok, exp, err := issuer.Issue(u)
		if err != nil {
			return apierr.InternalServerError(err)
		}
		return c.JSON(http.StatusOK, results.Single(Token{Token: tok, ExpiresAt: exp}))
	}
}

// User is a user in responses. Password hashes are never responded.
type User struct {
	URI        string   `json:"uri"`
	Email      string   `json:"email"`
	FirstName  string   `json:"firstName"`
	FamilyName string   `json:"familyName"`
	Admin      bool     `json:"admin"`
	Language   string   `json:"language,omitempty"`
	Groups     []string `json:"groups"`
}

func userOf(u kdb.User) User {
	groups := u.Groups
	if groups == nil {
		groups = []string{}
	}
	return User{
		URI: u.URI, Email: u.Email, FirstName: u.FirstName, FamilyName: u.FamilyName,
		Admin: u.Admin, Language: u.Language, Groups: groups,
	}
}

type NewUser struct {
	Email      string `json:"email"`
	FirstName  string `json:"firstName"`
	FamilyName string `json:"familyName"`
	Admin      bool   `json:"admin"`
	Language   string `json:"language"`
	Password   string `json:"password"`
}

func SearchUsersHandler(users kdb.UserInterface) echo.HandlerFunc {
	return func(c echo.Context) error {
		if _, err := security.MustUserOf(c); err != nil {
			return err
		}
		page, pageSize, err := Pagination(c)
		if err != nil {
			return err
		}
		if pageSize == 0 {
			pageSize = defaultPageSize
		}
		found, total, err := users.Search(c.Request().Context(), c.QueryParam("name"), page, pageSize)
		if err != nil {
			return HTTPError(err)
		}
		return c.JSON(http.StatusOK, results.List(utils.Map(found, userOf), page, pageSize, total))
	}
}

func GetUserHandler(users kdb.UserInterface, param string) echo.HandlerFunc {
	return func(c echo.Context) error {
		if _, err := security.MustUserOf(c); err != nil {
			return err
		}
		u, err := uriParam(c, param)
		if err != nil {
			return err
		}
		found, err := users.Get(c.Request().Context(), string(u))
		if err != nil {
			return HTTPError(err)
		}
		return c.JSON(http.StatusOK, results.Single(userOf(found)))
	}
}

// CreateUserHandler registers a user.
//
// The route should be restricted to administrators with security.RequireAdmin.
//
// baseURI is the base of user URIs.
func CreateUserHandler(users kdb.UserInterface, baseURI string) echo.HandlerFunc {
	return func(c echo.Context) error {
		nu := new(NewUser)
		if err := bindJSON(c, nu); err != nil {
			return err
		}
		created, err := createUser(c.Request().Context(), users, baseURI, *nu)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusCreated, results.Created([]string{created.URI}))
	}
}

// createUser validates nu and registers it.
func createUser(ctx context.Context, users kdb.UserInterface, baseURI string, nu NewUser) (kdb.User, error) {
	if nu.Email == "" || nu.Password == "" || nu.FamilyName == "" {
		return kdb.User{}, apierr.BadRequest("email, familyName and password are required", nil)
	}
	hash, err := security.HashPassword(nu.Password)
	if err != nil {
		return kdb.User{}, apierr.InternalServerError(err)
	}
	created, err := users.Create(ctx, kdb.UserParam{
		URI:          uri.ForClass(baseURI, "user", nu.FirstName, nu.FamilyName),
		Email:        nu.Email,
		FirstName:    nu.FirstName,
		FamilyName:   nu.FamilyName,
		Admin:        nu.Admin,
		Language:     nu.Language,
		PasswordHash: hash,
	})
	if err != nil {
		return kdb.User{}, HTTPError(err)
	}
	return created, nil
}

type Group struct {
	URI         string   `json:"uri"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Members     []string `json:"members"`
}

func groupOf(g kdb.Group) Group {
	members := g.Members
	if members == nil {
		members = []string{}
	}
	return Group{URI: g.URI, Name: g.Name, Description: g.Description, Members: members}
}

func SearchGroupsHandler(groups kdb.GroupInterface) echo.HandlerFunc {
	return func(c echo.Context) error {
		if _, err := security.MustUserOf(c); err != nil {
			return err
		}
		page, pageSize, err := Pagination(c)
		if err != nil {
			return err
		}
		if pageSize == 0 {
			pageSize = defaultPageSize
		}
		found, total, err := groups.Search(c.Request().Context(), c.QueryParam("name"), page, pageSize)
		if err != nil {
			return HTTPError(err)
		}
		out := make([]Group, len(found))
		for i, g := range found {
			out[i] = groupOf(g)
		}
		return c.JSON(http.StatusOK, results.List(out, page, pageSize, total))
	}
}

// CreateGroupHandler registers a group with its members.
//
// The route should be restricted to administrators with security.RequireAdmin.
func CreateGroupHandler(groups kdb.GroupInterface, baseURI string) echo.HandlerFunc {
	return func(c echo.Context) error {
		req := new(Group)
		if err := bindJSON(c, req); err != nil {
			return err
		}
		if req.Name == "" {
			return apierr.BadRequest("name is required", nil)
		}
		ctx := c.Request().Context()
		g, err := groups.Create(ctx, kdb.GroupParam{
			URI:         uri.ForClass(baseURI, "group", req.Name),
			Name:        req.Name,
			Description: req.Description,
		})
		if err != nil {
			return HTTPError(err)
		}
		for _, m := range req.Members {
			if err := groups.AddMember(ctx, g.URI, m); err != nil {
				return HTTPError(err)
			}
		}
		return c.JSON(http.StatusCreated, results.Created([]string{g.URI}))
	}
}
