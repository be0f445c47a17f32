package handlers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	apierr "github.com/opensilex/phis/pkg/api/types/errors"
	"github.com/opensilex/phis/pkg/api/types/results"
	"github.com/opensilex/phis/pkg/domain/experiment"
	"github.com/opensilex/phis/pkg/security"
	"github.com/opensilex/phis/pkg/sparql/mapper"
	"github.com/opensilex/phis/pkg/utils"
)

func SearchExperimentsHandler(experiments experiment.Interface) echo.HandlerFunc {
	return func(c echo.Context) error {
		user, err := security.MustUserOf(c)
		if err != nil {
			return err
		}
		page, pageSize, err := Pagination(c)
		if err != nil {
			return err
		}
		params := experiment.SearchParams{
			Label:    c.QueryParam("label"),
			Projects: uriList(c, "projects"),
			Species:  uriList(c, "species"),
			OrderBy:  orderBy(c),
			Page:     page,
			PageSize: pageSize,
		}
		if s := c.QueryParam("campaign"); s != "" {
			campaign, err := strconv.Atoi(s)
			if err != nil {
				return apierr.BadRequest("campaign should be a year", err)
			}
			params.Campaign = &campaign
		}
		if params.StartDate, err = dateParam(c, "startDate", false); err != nil {
			return err
		}
		if params.EndDate, err = dateParam(c, "endDate", true); err != nil {
			return err
		}
		if params.IsPublic, err = boolParam(c, "isPublic"); err != nil {
			return err
		}
		if params.IsEnded, err = boolParam(c, "isEnded"); err != nil {
			return err
		}

		found, err := experiments.Search(c.Request().Context(), user, params)
		if err != nil {
			return HTTPError(err)
		}
		return respondList(c, found)
	}
}

func GetExperimentHandler(experiments experiment.Interface, param string) echo.HandlerFunc {
	return func(c echo.Context) error {
		user, err := security.MustUserOf(c)
		if err != nil {
			return err
		}
		uri, err := uriParam(c, param)
		if err != nil {
			return err
		}
		xp, err := experiments.Get(c.Request().Context(), user, uri)
		if err != nil {
			return HTTPError(err)
		}
		return c.JSON(http.StatusOK, results.Single(xp))
	}
}

func CreateExperimentsHandler(experiments experiment.Interface) echo.HandlerFunc {
	return func(c echo.Context) error {
		user, err := security.MustUserOf(c)
		if err != nil {
			return err
		}
		xps := []*experiment.Experiment{}
		if err := bindJSON(c, &xps); err != nil {
			return err
		}
		if len(xps) == 0 {
			return apierr.BadRequest("no experiments are given", nil)
		}
		if err := experiments.Create(c.Request().Context(), user, xps...); err != nil {
			return HTTPError(err)
		}
		return respondCreated(c, utils.Map(xps, func(x *experiment.Experiment) mapper.URI { return x.URI }))
	}
}

func UpdateExperimentHandler(experiments experiment.Interface) echo.HandlerFunc {
	return func(c echo.Context) error {
		user, err := security.MustUserOf(c)
		if err != nil {
			return err
		}
		xp := new(experiment.Experiment)
		if err := bindJSON(c, xp); err != nil {
			return err
		}
		if xp.URI == "" {
			return apierr.BadRequest("uri is required", nil)
		}
		if err := experiments.Update(c.Request().Context(), user, xp); err != nil {
			return HTTPError(err)
		}
		return c.JSON(http.StatusOK, results.Single(xp))
	}
}

func DeleteExperimentHandler(experiments experiment.Interface, param string) echo.HandlerFunc {
	return func(c echo.Context) error {
		user, err := security.MustUserOf(c)
		if err != nil {
			return err
		}
		uri, err := uriParam(c, param)
		if err != nil {
			return err
		}
		if err := experiments.Delete(c.Request().Context(), user, uri); err != nil {
			return HTTPError(err)
		}
		return c.JSON(http.StatusOK, results.Created([]string{string(uri)}, results.Info("Resource deleted", string(uri))))
	}
}
