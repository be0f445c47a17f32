package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	apierr "github.com/opensilex/phis/pkg/api/types/errors"
	"github.com/opensilex/phis/pkg/api/types/results"
	"github.com/opensilex/phis/pkg/domain/annotation"
	"github.com/opensilex/phis/pkg/security"
	"github.com/opensilex/phis/pkg/sparql/mapper"
)

func SearchAnnotationsHandler(annotations annotation.Interface) echo.HandlerFunc {
	return func(c echo.Context) error {
		if _, err := security.MustUserOf(c); err != nil {
			return err
		}
		page, pageSize, err := Pagination(c)
		if err != nil {
			return err
		}
		found, err := annotations.Search(c.Request().Context(), annotation.SearchParams{
			URI:         mapper.URI(c.QueryParam("uri")),
			Creator:     mapper.URI(c.QueryParam("creator")),
			Target:      mapper.URI(c.QueryParam("target")),
			MotivatedBy: mapper.URI(c.QueryParam("motivatedBy")),
			BodyValue:   c.QueryParam("bodyValue"),
			Page:        page,
			PageSize:    pageSize,
		})
		if err != nil {
			return HTTPError(err)
		}
		return respondList(c, found)
	}
}

func GetAnnotationHandler(annotations annotation.Interface, param string) echo.HandlerFunc {
	return func(c echo.Context) error {
		if _, err := security.MustUserOf(c); err != nil {
			return err
		}
		uri, err := uriParam(c, param)
		if err != nil {
			return err
		}
		a, err := annotations.Get(c.Request().Context(), uri)
		if err != nil {
			return HTTPError(err)
		}
		return c.JSON(http.StatusOK, results.Single(a))
	}
}

// CreateAnnotationsHandler creates annotations in the body. Their creator is the requesting user.
func CreateAnnotationsHandler(annotations annotation.Interface) echo.HandlerFunc {
	return func(c echo.Context) error {
		user, err := security.MustUserOf(c)
		if err != nil {
			return err
		}
		as := []*annotation.Annotation{}
		if err := bindJSON(c, &as); err != nil {
			return err
		}
		if len(as) == 0 {
			return apierr.BadRequest("no annotations are given", nil)
		}
		uris, err := annotations.CheckAndInsert(c.Request().Context(), as, user)
		if err != nil {
			return HTTPError(err)
		}
		return respondCreated(c, uris)
	}
}
