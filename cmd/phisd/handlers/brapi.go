package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/opensilex/phis/pkg/api/types/results"
	"github.com/opensilex/phis/pkg/domain/brapi"
	"github.com/opensilex/phis/pkg/security"
)

func BrAPICallsHandler(svc *brapi.Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		calls := svc.Calls(c.QueryParam("datatype"))
		return c.JSON(http.StatusOK, results.List(calls, 0, len(calls), len(calls)))
	}
}

func BrAPITraitsHandler(svc *brapi.Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		if _, err := security.MustUserOf(c); err != nil {
			return err
		}
		page, pageSize, err := Pagination(c)
		if err != nil {
			return err
		}
		found, err := svc.Traits(c.Request().Context(), page, pageSize)
		if err != nil {
			return HTTPError(err)
		}
		return respondList(c, found)
	}
}

func BrAPITraitHandler(svc *brapi.Service, param string) echo.HandlerFunc {
	return func(c echo.Context) error {
		if _, err := security.MustUserOf(c); err != nil {
			return err
		}
		id, err := uriParam(c, param)
		if err != nil {
			return err
		}
		t, err := svc.Trait(c.Request().Context(), id)
		if err != nil {
			return HTTPError(err)
		}
		return c.JSON(http.StatusOK, results.Single(t))
	}
}
