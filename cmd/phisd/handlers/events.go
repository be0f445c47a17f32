package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	apierr "github.com/opensilex/phis/pkg/api/types/errors"
	"github.com/opensilex/phis/pkg/api/types/results"
	"github.com/opensilex/phis/pkg/domain/event"
	"github.com/opensilex/phis/pkg/security"
	"github.com/opensilex/phis/pkg/sparql/mapper"
)

func SearchEventsHandler(events event.Interface) echo.HandlerFunc {
	return func(c echo.Context) error {
		if _, err := security.MustUserOf(c); err != nil {
			return err
		}
		page, pageSize, err := Pagination(c)
		if err != nil {
			return err
		}
		params := event.SearchParams{
			URI:      c.QueryParam("uri"),
			RDFType:  mapper.URI(c.QueryParam("rdfType")),
			Concerns: uriList(c, "concernedItems"),
			Page:     page,
			PageSize: pageSize,
		}
		if params.StartDate, err = dateParam(c, "startDate", false); err != nil {
			return err
		}
		if params.EndDate, err = dateParam(c, "endDate", true); err != nil {
			return err
		}

		found, err := events.Search(c.Request().Context(), params)
		if err != nil {
			return HTTPError(err)
		}
		return respondList(c, found)
	}
}

func GetEventHandler(events event.Interface, param string) echo.HandlerFunc {
	return func(c echo.Context) error {
		if _, err := security.MustUserOf(c); err != nil {
			return err
		}
		uri, err := uriParam(c, param)
		if err != nil {
			return err
		}
		e, err := events.Get(c.Request().Context(), uri)
		if err != nil {
			return HTTPError(err)
		}
		return c.JSON(http.StatusOK, results.Single(e))
	}
}

func CreateEventsHandler(events event.Interface) echo.HandlerFunc {
	return func(c echo.Context) error {
		if _, err := security.MustUserOf(c); err != nil {
			return err
		}
		es := []*event.Event{}
		if err := bindJSON(c, &es); err != nil {
			return err
		}
		if len(es) == 0 {
			return apierr.BadRequest("no events are given", nil)
		}
		uris, err := events.Create(c.Request().Context(), es)
		if err != nil {
			return HTTPError(err)
		}
		return respondCreated(c, uris)
	}
}
