package handler

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/vidtube/internal/model"
	"github.com/iliyamo/vidtube/internal/queue"
	"github.com/iliyamo/vidtube/internal/repository"
	qp "github.com/iliyamo/vidtube/internal/service"
	"github.com/iliyamo/vidtube/internal/utils"
)

// VideoHandler bundles dependencies for the video endpoints.
type VideoHandler struct {
	Videos VideoStore
	Media  MediaStore
}

func NewVideoHandler(videos VideoStore, media MediaStore) *VideoHandler {
	return &VideoHandler{Videos: videos, Media: media}
}

// List handles GET /videos (public browse). The userId query parameter
// scopes the listing to one channel and must be a well-formed identifier;
// query optionally narrows by a case-insensitive title substring.
func (h *VideoHandler) List(c echo.Context) error {
	ownerID, ok := parseID(c.QueryParam("userId"))
	if !ok {
		return utils.Fail(c, http.StatusBadRequest, "invalid user id")
	}
	page, err := parsePage(c, repository.VideoSortFields)
	if err != nil {
		return failFor(c, err, "invalid query")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	videos, err := h.Videos.ListByOwner(ctx, ownerID,
		strings.TrimSpace(c.QueryParam("query")), page)
	if err != nil {
		return failFor(c, err, "could not list videos")
	}
	return utils.Respond(c, http.StatusOK, videos, "videos fetched successfully")
}

// Publish handles POST /videos (protected, multipart). Both the video
// file and the thumbnail must upload before the record is created; when a
// later step fails, every object already uploaded is deleted again so no
// orphaned media survives a failed publish.
func (h *VideoHandler) Publish(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return utils.Fail(c, http.StatusUnauthorized, "unauthorized")
	}
	title := strings.TrimSpace(c.FormValue("title"))
	description := strings.TrimSpace(c.FormValue("description"))
	if title == "" || description == "" {
		return utils.Fail(c, http.StatusBadRequest, "some fields are missing")
	}
	duration := 0.0
	if raw := strings.TrimSpace(c.FormValue("duration")); raw != "" {
		duration, err = strconv.ParseFloat(raw, 64)
		if err != nil || duration < 0 {
			return utils.Fail(c, http.StatusBadRequest, "invalid duration")
		}
	}

	videoFile, err := c.FormFile("videoFile")
	if err != nil {
		return utils.Fail(c, http.StatusBadRequest, "some fields are missing")
	}
	thumbFile, err := c.FormFile("thumbnail")
	if err != nil {
		return utils.Fail(c, http.StatusBadRequest, "some fields are missing")
	}

	videoURL, err := saveUpload(c, h.Media, "videos", videoFile)
	if err != nil {
		return utils.Fail(c, http.StatusInternalServerError, "video upload failed")
	}
	thumbURL, err := saveUpload(c, h.Media, "thumbnails", thumbFile)
	if err != nil {
		_ = h.Media.Delete(c.Request().Context(), videoURL)
		return utils.Fail(c, http.StatusInternalServerError, "thumbnail upload failed")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	v := model.Video{
		OwnerID:     ownerID,
		VideoFile:   videoURL,
		Thumbnail:   thumbURL,
		Title:       title,
		Description: description,
		Duration:    duration,
	}
	if err := h.Videos.Create(ctx, &v); err != nil {
		_ = h.Media.Delete(c.Request().Context(), videoURL)
		_ = h.Media.Delete(c.Request().Context(), thumbURL)
		return utils.Fail(c, http.StatusInternalServerError, "could not publish video")
	}

	_ = qp.PublishVideoPublished(ctx, queue.VideoPublishedEvent{
		VideoID:     v.ID,
		OwnerID:     v.OwnerID,
		Title:       v.Title,
		Duration:    v.Duration,
		PublishedAt: time.Now().UTC().Format(time.RFC3339),
	})

	return utils.Respond(c, http.StatusCreated, v, "video published successfully")
}

// Get handles GET /videos/:videoId (protected). Every fetch bumps the
// view counter by exactly one.
func (h *VideoHandler) Get(c echo.Context) error {
	id, ok := parseID(c.Param("videoId"))
	if !ok {
		return utils.Fail(c, http.StatusBadRequest, "invalid video id")
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	v, err := h.Videos.FetchAndCountView(ctx, id)
	if err != nil {
		return failFor(c, err, "could not fetch video")
	}
	return utils.Respond(c, http.StatusOK, v, "video fetched successfully")
}

// Update handles PATCH /videos/:videoId (protected, multipart). At least
// one of title, description or thumbnail must be present. The mutation is
// a single update-if-owner statement in the repository.
func (h *VideoHandler) Update(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return utils.Fail(c, http.StatusUnauthorized, "unauthorized")
	}
	id, ok := parseID(c.Param("videoId"))
	if !ok {
		return utils.Fail(c, http.StatusBadRequest, "invalid video id")
	}

	var title, description, thumbnail *string
	if v := strings.TrimSpace(c.FormValue("title")); v != "" {
		title = &v
	}
	if v := strings.TrimSpace(c.FormValue("description")); v != "" {
		description = &v
	}
	thumbFile, _ := c.FormFile("thumbnail")
	if title == nil && description == nil && thumbFile == nil {
		return utils.Fail(c, http.StatusBadRequest, "fields are missing")
	}
	if thumbFile != nil {
		url, err := saveUpload(c, h.Media, "thumbnails", thumbFile)
		if err != nil {
			return utils.Fail(c, http.StatusInternalServerError, "thumbnail upload failed")
		}
		thumbnail = &url
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	v, err := h.Videos.UpdateDetails(ctx, id, ownerID, title, description, thumbnail)
	if err != nil {
		if thumbnail != nil {
			_ = h.Media.Delete(c.Request().Context(), *thumbnail)
		}
		return failFor(c, err, "could not update video")
	}
	return utils.Respond(c, http.StatusOK, v, "video updated successfully")
}

// TogglePublish handles PATCH /videos/toggle/:videoId (protected).
func (h *VideoHandler) TogglePublish(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return utils.Fail(c, http.StatusUnauthorized, "unauthorized")
	}
	id, ok := parseID(c.Param("videoId"))
	if !ok {
		return utils.Fail(c, http.StatusBadRequest, "invalid video id")
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	v, err := h.Videos.TogglePublish(ctx, id, ownerID)
	if err != nil {
		return failFor(c, err, "could not toggle publish status")
	}
	return utils.Respond(c, http.StatusOK, v, "video status changed successfully")
}

// Delete handles DELETE /videos/:videoId (protected). The delete is
// owner-scoped; a miss does not reveal whether the video exists under
// another owner.
func (h *VideoHandler) Delete(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return utils.Fail(c, http.StatusUnauthorized, "unauthorized")
	}
	id, ok := parseID(c.Param("videoId"))
	if !ok {
		return utils.Fail(c, http.StatusBadRequest, "invalid video id")
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Videos.DeleteByOwner(ctx, id, ownerID); err != nil {
		return failFor(c, err, "could not delete video")
	}
	return utils.Respond(c, http.StatusOK, nil, "video deleted successfully")
}
