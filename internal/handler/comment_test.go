package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/vidtube/internal/model"
)

func TestCreateComment(t *testing.T) {
	comments := newFakeComments()
	comments.videoExists[7] = true
	h := NewCommentHandler(comments)

	c, rec := newJSONCtx(t, http.MethodPost, "/api/v1/comments/7",
		map[string]string{"content": "nice video"})
	c.SetParamNames("videoId")
	c.SetParamValues("7")
	asUser(c, 3)

	require.NoError(t, h.Create(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	var got model.Comment
	decodeData(t, rec, &got)
	assert.Equal(t, uint64(7), got.VideoID)
	assert.Equal(t, uint64(3), got.OwnerID)
	assert.Equal(t, "nice video", got.Content)
}

func TestCreateCommentOnMissingVideo(t *testing.T) {
	h := NewCommentHandler(newFakeComments())

	c, rec := newJSONCtx(t, http.MethodPost, "/api/v1/comments/99",
		map[string]string{"content": "into the void"})
	c.SetParamNames("videoId")
	c.SetParamValues("99")
	asUser(c, 3)

	require.NoError(t, h.Create(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreateCommentRequiresContent(t *testing.T) {
	comments := newFakeComments()
	comments.videoExists[7] = true
	h := NewCommentHandler(comments)

	c, rec := newJSONCtx(t, http.MethodPost, "/api/v1/comments/7",
		map[string]string{"content": "   "})
	c.SetParamNames("videoId")
	c.SetParamValues("7")
	asUser(c, 3)

	require.NoError(t, h.Create(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func seedComment(t *testing.T, comments *fakeComments, videoID, ownerID uint64, content string) model.Comment {
	t.Helper()
	comments.videoExists[videoID] = true
	cm := model.Comment{VideoID: videoID, OwnerID: ownerID, Content: content}
	require.NoError(t, comments.Create(context.Background(), &cm))
	return cm
}

func TestListCommentsByVideoPaginated(t *testing.T) {
	comments := newFakeComments()
	for i := 0; i < 4; i++ {
		seedComment(t, comments, 7, 3, "on seven")
	}
	seedComment(t, comments, 8, 3, "on eight")
	h := NewCommentHandler(comments)

	c, rec := newCtx(t, http.MethodGet, "/api/v1/comments/7?limit=2&page=2", nil, "")
	c.SetParamNames("videoId")
	c.SetParamValues("7")
	asUser(c, 3)

	require.NoError(t, h.ListByVideo(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var got []model.Comment
	decodeData(t, rec, &got)
	require.Len(t, got, 2)
	for _, cm := range got {
		assert.Equal(t, uint64(7), cm.VideoID)
	}
}

func TestListCommentsByUser(t *testing.T) {
	comments := newFakeComments()
	seedComment(t, comments, 7, 3, "mine")
	seedComment(t, comments, 8, 3, "also mine")
	seedComment(t, comments, 7, 4, "someone else")
	h := NewCommentHandler(comments)

	c, rec := newCtx(t, http.MethodGet, "/api/v1/comments/user-comments/3", nil, "")
	c.SetParamNames("userId")
	c.SetParamValues("3")
	asUser(c, 3)

	require.NoError(t, h.ListByUser(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var got []model.Comment
	decodeData(t, rec, &got)
	require.Len(t, got, 2)
	for _, cm := range got {
		assert.Equal(t, uint64(3), cm.OwnerID)
	}
}

func TestDeleteCommentOwnership(t *testing.T) {
	comments := newFakeComments()
	cm := seedComment(t, comments, 7, 3, "short-lived")
	h := NewCommentHandler(comments)

	// Deleting someone else's comment is a zero-row miss and reads as 404.
	c, rec := newCtx(t, http.MethodDelete, "/api/v1/comments/c/1", nil, "")
	c.SetParamNames("commentId")
	c.SetParamValues("1")
	asUser(c, 4)
	require.NoError(t, h.Delete(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, comments.comments, cm.ID)

	c2, rec2 := newCtx(t, http.MethodDelete, "/api/v1/comments/c/1", nil, "")
	c2.SetParamNames("commentId")
	c2.SetParamValues("1")
	asUser(c2, 3)
	require.NoError(t, h.Delete(c2))
	assert.Equal(t, http.StatusOK, rec2.Code)
	assert.NotContains(t, comments.comments, cm.ID)
}
