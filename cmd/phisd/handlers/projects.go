package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	apierr "github.com/opensilex/phis/pkg/api/types/errors"
	"github.com/opensilex/phis/pkg/api/types/results"
	"github.com/opensilex/phis/pkg/domain/project"
	"github.com/opensilex/phis/pkg/security"
	"github.com/opensilex/phis/pkg/sparql/mapper"
	"github.com/opensilex/phis/pkg/utils"
)

func SearchProjectsHandler(projects project.Interface) echo.HandlerFunc {
	return func(c echo.Context) error {
		user, err := security.MustUserOf(c)
		if err != nil {
			return err
		}
		page, pageSize, err := Pagination(c)
		if err != nil {
			return err
		}
		start, err := dateParam(c, "startDate", false)
		if err != nil {
			return err
		}
		end, err := dateParam(c, "endDate", true)
		if err != nil {
			return err
		}

		found, err := projects.Search(c.Request().Context(), user, project.SearchParams{
			Label:            c.QueryParam("label"),
			FinancialFunding: c.QueryParam("financialFunding"),
			StartDate:        start,
			EndDate:          end,
			OrderBy:          orderBy(c),
			Page:             page,
			PageSize:         pageSize,
		})
		if err != nil {
			return HTTPError(err)
		}
		return respondList(c, found)
	}
}

func GetProjectHandler(projects project.Interface, param string) echo.HandlerFunc {
	return func(c echo.Context) error {
		user, err := security.MustUserOf(c)
		if err != nil {
			return err
		}
		uri, err := uriParam(c, param)
		if err != nil {
			return err
		}
		p, err := projects.Get(c.Request().Context(), user, uri)
		if err != nil {
			return HTTPError(err)
		}
		return c.JSON(http.StatusOK, results.Single(p))
	}
}

// GetProjectsByURIsHandler responds projects listed in "uris" query, skipping ones the user can not see.
func GetProjectsByURIsHandler(projects project.Interface) echo.HandlerFunc {
	return func(c echo.Context) error {
		user, err := security.MustUserOf(c)
		if err != nil {
			return err
		}
		uris := uriList(c, "uris")
		if len(uris) == 0 {
			return apierr.BadRequest("uris is required", nil)
		}
		found, err := projects.GetList(c.Request().Context(), user, uris)
		if err != nil {
			return HTTPError(err)
		}
		return c.JSON(http.StatusOK, results.List(found, 0, len(found), len(found)))
	}
}

func CreateProjectsHandler(projects project.Interface) echo.HandlerFunc {
	return func(c echo.Context) error {
		user, err := security.MustUserOf(c)
		if err != nil {
			return err
		}
		ps := []*project.Project{}
		if err := bindJSON(c, &ps); err != nil {
			return err
		}
		if len(ps) == 0 {
			return apierr.BadRequest("no projects are given", nil)
		}
		if err := projects.Create(c.Request().Context(), user, ps...); err != nil {
			return HTTPError(err)
		}
		return respondCreated(c, utils.Map(ps, func(p *project.Project) mapper.URI { return p.URI }))
	}
}

func UpdateProjectHandler(projects project.Interface) echo.HandlerFunc {
	return func(c echo.Context) error {
		user, err := security.MustUserOf(c)
		if err != nil {
			return err
		}
		p := new(project.Project)
		if err := bindJSON(c, p); err != nil {
			return err
		}
		if p.URI == "" {
			return apierr.BadRequest("uri is required", nil)
		}
		if err := projects.Update(c.Request().Context(), user, p); err != nil {
			return HTTPError(err)
		}
		return c.JSON(http.StatusOK, results.Single(p))
	}
}

func DeleteProjectHandler(projects project.Interface, param string) echo.HandlerFunc {
	return func(c echo.Context) error {
		user, err := security.MustUserOf(c)
		if err != nil {
			return err
		}
		uri, err := uriParam(c, param)
		if err != nil {
			return err
		}
		if err := projects.Delete(c.Request().Context(), user, uri); err != nil {
			return HTTPError(err)
		}
		return c.JSON(http.StatusOK, results.Created([]string{string(uri)}, results.Info("Resource deleted", string(uri))))
	}
}
