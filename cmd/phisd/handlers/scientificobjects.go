package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	apierr "github.com/opensilex/phis/pkg/api/types/errors"
	"github.com/opensilex/phis/pkg/api/types/results"
	"github.com/opensilex/phis/pkg/domain/scientificobject"
	"github.com/opensilex/phis/pkg/security"
	"github.com/opensilex/phis/pkg/sparql/mapper"
	"github.com/opensilex/phis/pkg/utils"
)

func SearchScientificObjectsHandler(sos scientificobject.Interface) echo.HandlerFunc {
	return func(c echo.Context) error {
		if _, err := security.MustUserOf(c); err != nil {
			return err
		}
		page, pageSize, err := Pagination(c)
		if err != nil {
			return err
		}
		found, err := sos.Search(c.Request().Context(), scientificobject.SearchParams{
			URI:        c.QueryParam("uri"),
			Experiment: mapper.URI(c.QueryParam("experiment")),
			Alias:      c.QueryParam("alias"),
			RDFType:    mapper.URI(c.QueryParam("rdfType")),
			Page:       page,
			PageSize:   pageSize,
		})
		if err != nil {
			return HTTPError(err)
		}
		return respondList(c, found)
	}
}

func GetScientificObjectHandler(sos scientificobject.Interface, param string) echo.HandlerFunc {
	return func(c echo.Context) error {
		if _, err := security.MustUserOf(c); err != nil {
			return err
		}
		uri, err := uriParam(c, param)
		if err != nil {
			return err
		}
		so, err := sos.Get(c.Request().Context(), uri)
		if err != nil {
			return HTTPError(err)
		}
		return c.JSON(http.StatusOK, results.Single(so))
	}
}

func CreateScientificObjectsHandler(sos scientificobject.Interface) echo.HandlerFunc {
	return func(c echo.Context) error {
		if _, err := security.MustUserOf(c); err != nil {
			return err
		}
		list := []*scientificobject.ScientificObject{}
		if err := bindJSON(c, &list); err != nil {
			return err
		}
		if len(list) == 0 {
			return apierr.BadRequest("no scientific objects are given", nil)
		}
		uris, err := sos.CheckAndInsert(c.Request().Context(), list)
		if err != nil {
			return HTTPError(err)
		}
		return respondCreated(c, uris)
	}
}

func UpdateScientificObjectsHandler(sos scientificobject.Interface) echo.HandlerFunc {
	return func(c echo.Context) error {
		if _, err := security.MustUserOf(c); err != nil {
			return err
		}
		list := []*scientificobject.ScientificObject{}
		if err := bindJSON(c, &list); err != nil {
			return err
		}
		if len(list) == 0 {
			return apierr.BadRequest("no scientific objects are given", nil)
		}
		if err := sos.Update(c.Request().Context(), list); err != nil {
			return HTTPError(err)
		}
		return c.JSON(http.StatusOK, results.Created(
			utils.Map(list, func(so *scientificobject.ScientificObject) string { return string(so.URI) }),
			results.Info("Resources updated", ""),
		))
	}
}
