package handlers

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	apierr "github.com/opensilex/phis/pkg/api/types/errors"
	"github.com/opensilex/phis/pkg/api/types/results"
	kdb "github.com/opensilex/phis/pkg/db"
	"github.com/opensilex/phis/pkg/domain/variable"
	"github.com/opensilex/phis/pkg/security"
	"github.com/opensilex/phis/pkg/sparql"
	"github.com/opensilex/phis/pkg/sparql/mapper"
	"github.com/opensilex/phis/pkg/utils"
)

// VariableStore is a store of variables or their components. *variable.Store implements it.
type VariableStore[P mapper.Model] interface {
	Create(ctx context.Context, user kdb.User, ms ...P) error
	Update(ctx context.Context, user kdb.User, m P) error
	Delete(ctx context.Context, uri mapper.URI) error
	Get(ctx context.Context, user kdb.User, uri mapper.URI) (P, error)
	Search(ctx context.Context, user kdb.User, params variable.SearchParams) (sparql.ListWithPagination[P], error)
}

func SearchVariablesHandler[P mapper.Model](store VariableStore[P]) echo.HandlerFunc {
	return func(c echo.Context) error {
		user, err := security.MustUserOf(c)
		if err != nil {
			return err
		}
		page, pageSize, err := Pagination(c)
		if err != nil {
			return err
		}
		found, err := store.Search(c.Request().Context(), user, variable.SearchParams{
			Name:     c.QueryParam("name"),
			OrderBy:  orderBy(c),
			Page:     page,
			PageSize: pageSize,
		})
		if err != nil {
			return HTTPError(err)
		}
		return respondList(c, found)
	}
}

func GetVariableHandler[P mapper.Model](store VariableStore[P], param string) echo.HandlerFunc {
	return func(c echo.Context) error {
		user, err := security.MustUserOf(c)
		if err != nil {
			return err
		}
		uri, err := uriParam(c, param)
		if err != nil {
			return err
		}
		m, err := store.Get(c.Request().Context(), user, uri)
		if err != nil {
			return HTTPError(err)
		}
		return c.JSON(http.StatusOK, results.Single(m))
	}
}

// CreateVariablesHandler creates models listed in the body.
func CreateVariablesHandler[T any, P mapper.PModel[T]](store VariableStore[P]) echo.HandlerFunc {
	return func(c echo.Context) error {
		user, err := security.MustUserOf(c)
		if err != nil {
			return err
		}
		ms := []P{}
		if err := bindJSON(c, &ms); err != nil {
			return err
		}
		if len(ms) == 0 {
			return apierr.BadRequest("nothing is given", nil)
		}
		if err := store.Create(c.Request().Context(), user, ms...); err != nil {
			return HTTPError(err)
		}
		return respondCreated(c, utils.Map(ms, func(m P) mapper.URI { return m.Res().URI }))
	}
}

func UpdateVariableHandler[T any, P mapper.PModel[T]](store VariableStore[P]) echo.HandlerFunc {
	return func(c echo.Context) error {
		user, err := security.MustUserOf(c)
		if err != nil {
			return err
		}
		m := P(new(T))
		if err := bindJSON(c, m); err != nil {
			return err
		}
		if m.Res().URI == "" {
			return apierr.BadRequest("uri is required", nil)
		}
		if err := store.Update(c.Request().Context(), user, m); err != nil {
			return HTTPError(err)
		}
		return c.JSON(http.StatusOK, results.Single(m))
	}
}

func DeleteVariableHandler[P mapper.Model](store VariableStore[P], param string) echo.HandlerFunc {
	return func(c echo.Context) error {
		if _, err := security.MustUserOf(c); err != nil {
			return err
		}
		uri, err := uriParam(c, param)
		if err != nil {
			return err
		}
		if err := store.Delete(c.Request().Context(), uri); err != nil {
			return HTTPError(err)
		}
		return c.JSON(http.StatusOK, results.Created([]string{string(uri)}, results.Info("Resource deleted", string(uri))))
	}
}
