package handler // handler defines http handlers

import (
	"errors"
	"mime/multipart"
	"net/http"
	"path"
	"strconv"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/vidtube/internal/repository"
	"github.com/iliyamo/vidtube/internal/utils"
)

// getUserID extracts the authenticated user id from the echo context. The
// JWT middleware stores it as uint64; other numeric types are tolerated
// for callers that stash the value directly.
func getUserID(c echo.Context) (uint64, error) {
	v := c.Get("user_id")
	switch t := v.(type) {
	case uint64:
		return t, nil
	case int:
		return uint64(t), nil
	case int64:
		return uint64(t), nil
	case float64:
		return uint64(t), nil
	case string:
		if n, err := strconv.ParseUint(t, 10, 64); err == nil {
			return n, nil
		}
	}
	return 0, errors.New("invalid user_id in context")
}

// parseID parses a path or query identifier. Identifiers are positive
// decimal integers; anything else is malformed and must be rejected
// before a single persistence call.
func parseID(raw string) (uint64, bool) {
	n, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || n == 0 {
		return 0, false
	}
	return n, true
}

// parsePage reads the shared pagination query parameters and validates
// them against the given sort whitelist.
func parsePage(c echo.Context, allowed map[string]string) (repository.Page, error) {
	return repository.NewPage(
		c.QueryParam("page"),
		c.QueryParam("limit"),
		c.QueryParam("sortBy"),
		c.QueryParam("sortType"),
		allowed,
	)
}

// failFor maps repository sentinel errors to the error envelope. The
// fallback message is used for unexpected persistence failures.
func failFor(c echo.Context, err error, fallback string) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return utils.Fail(c, http.StatusNotFound, "not found")
	case errors.Is(err, repository.ErrForbidden):
		return utils.Fail(c, http.StatusForbidden, "you do not own this resource")
	case errors.Is(err, repository.ErrUserExists):
		return utils.Fail(c, http.StatusConflict, "user already exists")
	case errors.Is(err, repository.ErrBadPage):
		return utils.Fail(c, http.StatusBadRequest, "invalid pagination parameters")
	default:
		return utils.Fail(c, http.StatusInternalServerError, fallback)
	}
}

// objectKey builds a unique object storage key under the given folder,
// keeping the original file extension.
func objectKey(folder string, fh *multipart.FileHeader) string {
	return folder + "/" + uuid.NewString() + path.Ext(fh.Filename)
}

// saveUpload streams one multipart file into the media store and returns
// its hosted URL.
func saveUpload(c echo.Context, media MediaStore, folder string, fh *multipart.FileHeader) (string, error) {
	src, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()
	return media.Save(c.Request().Context(), objectKey(folder, fh), src)
}
