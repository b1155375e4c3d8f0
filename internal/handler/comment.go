package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/vidtube/internal/model"
	"github.com/iliyamo/vidtube/internal/repository"
	"github.com/iliyamo/vidtube/internal/utils"
)

// CommentHandler bundles dependencies for the comment endpoints.
type CommentHandler struct {
	Comments CommentStore
}

func NewCommentHandler(comments CommentStore) *CommentHandler {
	return &CommentHandler{Comments: comments}
}

type createCommentReq struct {
	Content string `json:"content"`
}

// Create handles POST /comments/:videoId (protected). A comment on a
// video that does not exist comes back as not found, surfaced by the
// foreign key on the insert rather than a separate lookup.
func (h *CommentHandler) Create(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return utils.Fail(c, http.StatusUnauthorized, "unauthorized")
	}
	videoID, ok := parseID(c.Param("videoId"))
	if !ok {
		return utils.Fail(c, http.StatusBadRequest, "invalid video id")
	}
	var req createCommentReq
	if err := c.Bind(&req); err != nil {
		return utils.Fail(c, http.StatusBadRequest, "invalid request body")
	}
	req.Content = strings.TrimSpace(req.Content)
	if req.Content == "" {
		return utils.Fail(c, http.StatusBadRequest, "content is required")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	cm := model.Comment{VideoID: videoID, OwnerID: ownerID, Content: req.Content}
	if err := h.Comments.Create(ctx, &cm); err != nil {
		return failFor(c, err, "could not create comment")
	}
	return utils.Respond(c, http.StatusCreated, cm, "comment created successfully")
}

// ListByVideo handles GET /comments/:videoId (protected, paginated).
func (h *CommentHandler) ListByVideo(c echo.Context) error {
	videoID, ok := parseID(c.Param("videoId"))
	if !ok {
		return utils.Fail(c, http.StatusBadRequest, "invalid video id")
	}
	page, err := parsePage(c, repository.CommentSortFields)
	if err != nil {
		return failFor(c, err, "invalid query")
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	comments, err := h.Comments.ListByVideo(ctx, videoID, page)
	if err != nil {
		return failFor(c, err, "could not list comments")
	}
	return utils.Respond(c, http.StatusOK, comments, "comments fetched successfully")
}

// ListByUser handles GET /comments/user-comments/:userId (protected,
// paginated). Lists every comment one user wrote across all videos.
func (h *CommentHandler) ListByUser(c echo.Context) error {
	userID, ok := parseID(c.Param("userId"))
	if !ok {
		return utils.Fail(c, http.StatusBadRequest, "invalid user id")
	}
	page, err := parsePage(c, repository.CommentSortFields)
	if err != nil {
		return failFor(c, err, "invalid query")
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	comments, err := h.Comments.ListByOwner(ctx, userID, page)
	if err != nil {
		return failFor(c, err, "could not list comments")
	}
	return utils.Respond(c, http.StatusOK, comments, "comments fetched successfully")
}

// Delete handles DELETE /comments/c/:commentId (protected, owner only).
func (h *CommentHandler) Delete(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return utils.Fail(c, http.StatusUnauthorized, "unauthorized")
	}
	id, ok := parseID(c.Param("commentId"))
	if !ok {
		return utils.Fail(c, http.StatusBadRequest, "invalid comment id")
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Comments.DeleteByOwner(ctx, id, ownerID); err != nil {
		return failFor(c, err, "could not delete comment")
	}
	return utils.Respond(c, http.StatusOK, nil, "comment deleted successfully")
}
