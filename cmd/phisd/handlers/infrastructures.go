package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	apierr "github.com/opensilex/phis/pkg/api/types/errors"
	"github.com/opensilex/phis/pkg/api/types/results"
	"github.com/opensilex/phis/pkg/domain/infrastructure"
	"github.com/opensilex/phis/pkg/security"
	"github.com/opensilex/phis/pkg/sparql/mapper"
	"github.com/opensilex/phis/pkg/sparql/tree"
	"github.com/opensilex/phis/pkg/utils"
	"github.com/opensilex/phis/pkg/utils/pointer"
)

func SearchInfrastructuresHandler(infras infrastructure.Interface) echo.HandlerFunc {
	return func(c echo.Context) error {
		if _, err := security.MustUserOf(c); err != nil {
			return err
		}
		page, pageSize, err := Pagination(c)
		if err != nil {
			return err
		}
		found, err := infras.Search(c.Request().Context(), infrastructure.SearchParams{
			URI:      c.QueryParam("uri"),
			Label:    c.QueryParam("label"),
			RDFType:  mapper.URI(c.QueryParam("rdfType")),
			Lang:     lang(c),
			Page:     page,
			PageSize: pageSize,
		})
		if err != nil {
			return HTTPError(err)
		}
		return respondList(c, found)
	}
}

func GetInfrastructureHandler(infras infrastructure.Interface, param string) echo.HandlerFunc {
	return func(c echo.Context) error {
		if _, err := security.MustUserOf(c); err != nil {
			return err
		}
		uri, err := uriParam(c, param)
		if err != nil {
			return err
		}
		i, err := infras.Get(c.Request().Context(), uri, lang(c))
		if err != nil {
			return HTTPError(err)
		}
		return c.JSON(http.StatusOK, results.Single(i))
	}
}

// InfrastructureTreeHandler responds the tree under "uri" query, or all infrastructures without it.
func InfrastructureTreeHandler(infras infrastructure.Interface) echo.HandlerFunc {
	return func(c echo.Context) error {
		if _, err := security.MustUserOf(c); err != nil {
			return err
		}
		excludeRoot, err := boolParam(c, "excludeRoot")
		if err != nil {
			return err
		}
		t, err := infras.Tree(
			c.Request().Context(), mapper.URI(c.QueryParam("uri")),
			pointer.SafeDeref(excludeRoot), lang(c),
		)
		if err != nil {
			return HTTPError(err)
		}
		dtos := tree.ToDTO(t, false)
		return c.JSON(http.StatusOK, results.List(dtos, 0, len(dtos), len(dtos)))
	}
}

func CreateInfrastructuresHandler(infras infrastructure.Interface) echo.HandlerFunc {
	return func(c echo.Context) error {
		if _, err := security.MustUserOf(c); err != nil {
			return err
		}
		is := []*infrastructure.Infrastructure{}
		if err := bindJSON(c, &is); err != nil {
			return err
		}
		if len(is) == 0 {
			return apierr.BadRequest("no infrastructures are given", nil)
		}
		if err := infras.Create(c.Request().Context(), lang(c), is...); err != nil {
			return HTTPError(err)
		}
		return respondCreated(c, utils.Map(is, func(i *infrastructure.Infrastructure) mapper.URI { return i.URI }))
	}
}
