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

// TweetHandler bundles dependencies for the tweet endpoints.
type TweetHandler struct {
	Tweets TweetStore
}

func NewTweetHandler(tweets TweetStore) *TweetHandler {
	return &TweetHandler{Tweets: tweets}
}

type tweetReq struct {
	Content string `json:"content"`
}

// Create handles POST /tweets (protected).
func (h *TweetHandler) Create(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return utils.Fail(c, http.StatusUnauthorized, "unauthorized")
	}
	var req tweetReq
	if err := c.Bind(&req); err != nil {
		return utils.Fail(c, http.StatusBadRequest, "invalid request body")
	}
	req.Content = strings.TrimSpace(req.Content)
	if req.Content == "" {
		return utils.Fail(c, http.StatusBadRequest, "content is required")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	t := model.Tweet{OwnerID: ownerID, Content: req.Content}
	if err := h.Tweets.Create(ctx, &t); err != nil {
		return failFor(c, err, "could not create tweet")
	}
	return utils.Respond(c, http.StatusCreated, t, "tweet created successfully")
}

// List handles GET /tweets/user/:userId (protected, paginated).
func (h *TweetHandler) List(c echo.Context) error {
	userID, ok := parseID(c.Param("userId"))
	if !ok {
		return utils.Fail(c, http.StatusBadRequest, "invalid user id")
	}
	page, err := parsePage(c, repository.TweetSortFields)
	if err != nil {
		return failFor(c, err, "invalid query")
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	tweets, err := h.Tweets.ListByOwner(ctx, userID, page)
	if err != nil {
		return failFor(c, err, "could not list tweets")
	}
	return utils.Respond(c, http.StatusOK, tweets, "tweets fetched successfully")
}

// Update handles PATCH /tweets/:tweetId (protected, owner only). The
// repository performs the ownership check and the write as one statement.
func (h *TweetHandler) Update(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return utils.Fail(c, http.StatusUnauthorized, "unauthorized")
	}
	id, ok := parseID(c.Param("tweetId"))
	if !ok {
		return utils.Fail(c, http.StatusBadRequest, "invalid tweet id")
	}
	var req tweetReq
	if err := c.Bind(&req); err != nil {
		return utils.Fail(c, http.StatusBadRequest, "invalid request body")
	}
	req.Content = strings.TrimSpace(req.Content)
	if req.Content == "" {
		return utils.Fail(c, http.StatusBadRequest, "content is required")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	t, err := h.Tweets.UpdateContent(ctx, id, ownerID, req.Content)
	if err != nil {
		return failFor(c, err, "could not update tweet")
	}
	return utils.Respond(c, http.StatusOK, t, "tweet updated successfully")
}

// Delete handles DELETE /tweets/:tweetId (protected, owner only).
func (h *TweetHandler) Delete(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return utils.Fail(c, http.StatusUnauthorized, "unauthorized")
	}
	id, ok := parseID(c.Param("tweetId"))
	if !ok {
		return utils.Fail(c, http.StatusBadRequest, "invalid tweet id")
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Tweets.DeleteByOwner(ctx, id, ownerID); err != nil {
		return failFor(c, err, "could not delete tweet")
	}
	return utils.Respond(c, http.StatusOK, nil, "tweet deleted successfully")
}
