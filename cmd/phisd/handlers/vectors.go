package handlers

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	apierr "github.com/opensilex/phis/pkg/api/types/errors"
	"github.com/opensilex/phis/pkg/api/types/results"
	"github.com/opensilex/phis/pkg/dateformat"
	"github.com/opensilex/phis/pkg/domain/vector"
	"github.com/opensilex/phis/pkg/security"
	"github.com/opensilex/phis/pkg/sparql/mapper"
)

func SearchVectorsHandler(vectors vector.Interface) echo.HandlerFunc {
	return func(c echo.Context) error {
		if _, err := security.MustUserOf(c); err != nil {
			return err
		}
		page, pageSize, err := Pagination(c)
		if err != nil {
			return err
		}
		params := vector.SearchParams{
			URI:            c.QueryParam("uri"),
			Label:          c.QueryParam("label"),
			Brand:          c.QueryParam("brand"),
			SerialNumber:   c.QueryParam("serialNumber"),
			RDFType:        mapper.URI(c.QueryParam("rdfType")),
			PersonInCharge: c.QueryParam("personInCharge"),
			Page:           page,
			PageSize:       pageSize,
		}
		for name, dest := range map[string]**time.Time{
			"inServiceDate":  &params.InServiceDate,
			"dateOfPurchase": &params.DateOfPurchase,
		} {
			s := c.QueryParam(name)
			if s == "" {
				continue
			}
			d, err := dateformat.ParseDate(s)
			if err != nil {
				return apierr.BadRequest(name+" should be a date (yyyy-MM-dd)", err)
			}
			*dest = &d
		}

		found, err := vectors.Search(c.Request().Context(), params)
		if err != nil {
			return HTTPError(err)
		}
		return respondList(c, found)
	}
}

func GetVectorHandler(vectors vector.Interface, param string) echo.HandlerFunc {
	return func(c echo.Context) error {
		if _, err := security.MustUserOf(c); err != nil {
			return err
		}
		uri, err := uriParam(c, param)
		if err != nil {
			return err
		}
		v, err := vectors.Get(c.Request().Context(), uri)
		if err != nil {
			return HTTPError(err)
		}
		return c.JSON(http.StatusOK, results.Single(v))
	}
}

func CreateVectorsHandler(vectors vector.Interface) echo.HandlerFunc {
	return func(c echo.Context) error {
		if _, err := security.MustUserOf(c); err != nil {
			return err
		}
		vs := []*vector.Vector{}
		if err := bindJSON(c, &vs); err != nil {
			return err
		}
		if len(vs) == 0 {
			return apierr.BadRequest("no vectors are given", nil)
		}
		uris, err := vectors.CheckAndInsert(c.Request().Context(), vs)
		if err != nil {
			return HTTPError(err)
		}
		return respondCreated(c, uris)
	}
}

func UpdateVectorsHandler(vectors vector.Interface) echo.HandlerFunc {
	return func(c echo.Context) error {
		if _, err := security.MustUserOf(c); err != nil {
			return err
		}
		vs := []*vector.Vector{}
		if err := bindJSON(c, &vs); err != nil {
			return err
		}
		if len(vs) == 0 {
			return apierr.BadRequest("no vectors are given", nil)
		}
		if err := vectors.CheckAndUpdate(c.Request().Context(), vs); err != nil {
			return HTTPError(err)
		}
		uris := make([]string, len(vs))
		for i, v := range vs {
			uris[i] = string(v.URI)
		}
		return c.JSON(http.StatusOK, results.Created(uris, results.Info("Resources updated", "")))
	}
}
