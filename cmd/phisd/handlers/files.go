package handlers

import (
	"encoding/json"
	"mime"
	"net/http"

	"github.com/labstack/echo/v4"
	apierr "github.com/opensilex/phis/pkg/api/types/errors"
	"github.com/opensilex/phis/pkg/api/types/results"
	"github.com/opensilex/phis/pkg/domain/file"
	"github.com/opensilex/phis/pkg/security"
	"github.com/opensilex/phis/pkg/sparql/mapper"
	"github.com/opensilex/phis/pkg/utils/pointer"
)

func SearchFilesHandler(files file.Interface) echo.HandlerFunc {
	return func(c echo.Context) error {
		if _, err := security.MustUserOf(c); err != nil {
			return err
		}
		page, pageSize, err := Pagination(c)
		if err != nil {
			return err
		}
		rdfType := mapper.URI(c.QueryParam("rdfType"))
		if rdfType == "" {
			return apierr.BadRequest("rdfType is required", nil)
		}
		asc, err := boolParam(c, "dateSortAsc")
		if err != nil {
			return err
		}
		params := file.SearchParams{
			RDFType:         rdfType,
			StartDate:       c.QueryParam("startDate"),
			EndDate:         c.QueryParam("endDate"),
			ProvenanceURI:   mapper.URI(c.QueryParam("provenance")),
			JSONValueFilter: c.QueryParam("jsonValueFilter"),
			ConcernedItems:  uriList(c, "concernedItems"),
			DateSortAsc:     pointer.SafeDeref(asc),
			Page:            page,
			PageSize:        pageSize,
		}

		ctx := c.Request().Context()
		total, err := files.Count(ctx, params)
		if err != nil {
			return HTTPError(err)
		}
		found, err := files.Search(ctx, params)
		if err != nil {
			return HTTPError(err)
		}
		return c.JSON(http.StatusOK, results.List(found, page, files.PageSize(pageSize), int(total)))
	}
}

// UploadFileHandler stores a file posted as multipart form,
// with its description (JSON) in "description" and its content in "file".
func UploadFileHandler(files file.Interface) echo.HandlerFunc {
	return func(c echo.Context) error {
		if _, err := security.MustUserOf(c); err != nil {
			return err
		}
		desc := new(file.FileDescription)
		raw := c.FormValue("description")
		if raw == "" {
			return apierr.BadRequest("description is required", nil)
		}
		if err := json.Unmarshal([]byte(raw), desc); err != nil {
			return apierr.BadRequest("can not understand the description", err)
		}

		fh, err := c.FormFile("file")
		if err != nil {
			return apierr.BadRequest("file is required", err)
		}
		content, err := fh.Open()
		if err != nil {
			return apierr.InternalServerError(err)
		}
		defer content.Close()
		if desc.Filename == "" {
			desc.Filename = fh.Filename
		}

		uri, err := files.CheckAndInsert(c.Request().Context(), desc, content)
		if err != nil {
			return HTTPError(err)
		}
		return respondCreated(c, []mapper.URI{uri})
	}
}

// RegisterWebPathsHandler stores descriptions of files served elsewhere.
func RegisterWebPathsHandler(files file.Interface) echo.HandlerFunc {
	return func(c echo.Context) error {
		if _, err := security.MustUserOf(c); err != nil {
			return err
		}
		type withPath struct {
			file.FileDescription
			Path string `json:"path"`
		}
		reqs := []withPath{}
		if err := bindJSON(c, &reqs); err != nil {
			return err
		}
		if len(reqs) == 0 {
			return apierr.BadRequest("no descriptions are given", nil)
		}
		descs := make([]*file.FileDescription, len(reqs))
		for i := range reqs {
			d := reqs[i].FileDescription
			d.Path = reqs[i].Path
			descs[i] = &d
		}
		uris, err := files.CheckAndInsertWithWebPath(c.Request().Context(), descs)
		if err != nil {
			return HTTPError(err)
		}
		return respondCreated(c, uris)
	}
}

func GetFileDescriptionHandler(files file.Interface, param string) echo.HandlerFunc {
	return func(c echo.Context) error {
		if _, err := security.MustUserOf(c); err != nil {
			return err
		}
		uri, err := uriParam(c, param)
		if err != nil {
			return err
		}
		desc, err := files.FindByURI(c.Request().Context(), uri)
		if err != nil {
			return HTTPError(err)
		}
		return c.JSON(http.StatusOK, results.Single(desc))
	}
}

// DownloadFileHandler responds content of the file.
// Files kept elsewhere are redirected to their web path.
//
// With "width" and/or "height", images are scaled down or up to fit in them.
func DownloadFileHandler(files file.Interface, param string) echo.HandlerFunc {
	return func(c echo.Context) error {
		uri, err := uriParam(c, param)
		if err != nil {
			return err
		}
		width, err := intParam(c, "width")
		if err != nil {
			return err
		}
		height, err := intParam(c, "height")
		if err != nil {
			return err
		}
		desc, err := files.FindByURI(c.Request().Context(), uri)
		if err != nil {
			return HTTPError(err)
		}
		if desc.WebPath() {
			return c.Redirect(http.StatusFound, desc.Path)
		}
		content, err := files.Open(desc)
		if err != nil {
			return HTTPError(err)
		}
		defer content.Close()

		c.Response().Header().Set(
			echo.HeaderContentDisposition,
			mime.FormatMediaType("attachment", map[string]string{"filename": desc.Filename}),
		)
		if width == 0 && height == 0 {
			return c.Stream(http.StatusOK, echo.MIMEOctetStream, content)
		}
		resized, ctype, err := file.Resize(content, width, height)
		if err != nil {
			c.Response().Header().Del(echo.HeaderContentDisposition)
			return HTTPError(err)
		}
		return c.Blob(http.StatusOK, ctype, resized)
	}
}
