package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/vidtube/internal/model"
)

func seedVideo(t *testing.T, videos *fakeVideos, ownerID uint64, title string) model.Video {
	t.Helper()
	v := model.Video{
		OwnerID:     ownerID,
		VideoFile:   "https://media.test/videos/" + title,
		Thumbnail:   "https://media.test/thumbnails/" + title,
		Title:       title,
		Description: "about " + title,
		Duration:    12.5,
	}
	require.NoError(t, videos.Create(context.Background(), &v))
	return v
}

func TestListVideosRequiresUserID(t *testing.T) {
	h := NewVideoHandler(newFakeVideos(), &fakeMedia{})

	c, rec := newCtx(t, http.MethodGet, "/api/v1/videos", nil, "")
	require.NoError(t, h.List(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListVideosScopeAndLimit(t *testing.T) {
	videos := newFakeVideos()
	for i := 0; i < 5; i++ {
		seedVideo(t, videos, 1, "mine")
	}
	seedVideo(t, videos, 2, "other")
	h := NewVideoHandler(videos, &fakeMedia{})

	c, rec := newCtx(t, http.MethodGet, "/api/v1/videos?userId=1&limit=3", nil, "")
	require.NoError(t, h.List(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var got []model.Video
	decodeData(t, rec, &got)
	require.Len(t, got, 3)
	for _, v := range got {
		assert.Equal(t, uint64(1), v.OwnerID)
	}
}

func TestListVideosRejectsUnknownSortField(t *testing.T) {
	h := NewVideoHandler(newFakeVideos(), &fakeMedia{})

	c, rec := newCtx(t, http.MethodGet, "/api/v1/videos?userId=1&sortBy=owner_id", nil, "")
	require.NoError(t, h.List(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPublishVideo(t *testing.T) {
	videos := newFakeVideos()
	media := &fakeMedia{}
	h := NewVideoHandler(videos, media)

	c, rec := newMultipartCtx(t, http.MethodPost, "/api/v1/videos", map[string]string{
		"title":       "my first video",
		"description": "hello",
		"duration":    "42.5",
	}, map[string]string{"videoFile": "mp4-bytes", "thumbnail": "png-bytes"})
	asUser(c, 1)

	require.NoError(t, h.Publish(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	var v model.Video
	decodeData(t, rec, &v)
	assert.Equal(t, uint64(1), v.OwnerID)
	assert.Equal(t, 42.5, v.Duration)
	assert.True(t, v.IsPublished)
	assert.Len(t, media.saved, 2)
	assert.Empty(t, media.deleted)
	assert.True(t, videos.sawDeadline, "persistence call should carry a timeout")
}

func TestPublishVideoMissingFile(t *testing.T) {
	media := &fakeMedia{}
	h := NewVideoHandler(newFakeVideos(), media)

	c, rec := newMultipartCtx(t, http.MethodPost, "/api/v1/videos", map[string]string{
		"title":       "no thumbnail",
		"description": "hello",
	}, map[string]string{"videoFile": "mp4-bytes"})
	asUser(c, 1)

	require.NoError(t, h.Publish(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	// Validation happens before any upload.
	assert.Empty(t, media.saved)
}

func TestPublishVideoCompensatesFailedThumbnail(t *testing.T) {
	media := &fakeMedia{failAt: 2}
	h := NewVideoHandler(newFakeVideos(), media)

	c, rec := newMultipartCtx(t, http.MethodPost, "/api/v1/videos", map[string]string{
		"title":       "doomed",
		"description": "hello",
	}, map[string]string{"videoFile": "mp4-bytes", "thumbnail": "png-bytes"})
	asUser(c, 1)

	require.NoError(t, h.Publish(c))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	// The video object uploaded in step one must not be left behind.
	require.Len(t, media.saved, 1)
	assert.Equal(t, media.saved, media.deleted)
}

func TestGetVideoCountsView(t *testing.T) {
	videos := newFakeVideos()
	v := seedVideo(t, videos, 1, "watched")
	h := NewVideoHandler(videos, &fakeMedia{})

	for want := uint64(1); want <= 2; want++ {
		c, rec := newCtx(t, http.MethodGet, "/api/v1/videos/1", nil, "")
		c.SetParamNames("videoId")
		c.SetParamValues("1")
		asUser(c, 2)
		require.NoError(t, h.Get(c))
		require.Equal(t, http.StatusOK, rec.Code)

		var got model.Video
		decodeData(t, rec, &got)
		assert.Equal(t, v.ID, got.ID)
		assert.Equal(t, want, got.Views)
	}
}

func TestGetVideoNotFound(t *testing.T) {
	h := NewVideoHandler(newFakeVideos(), &fakeMedia{})

	c, rec := newCtx(t, http.MethodGet, "/api/v1/videos/99", nil, "")
	c.SetParamNames("videoId")
	c.SetParamValues("99")
	asUser(c, 1)
	require.NoError(t, h.Get(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUpdateVideoForbiddenLeavesRecordUnchanged(t *testing.T) {
	videos := newFakeVideos()
	v := seedVideo(t, videos, 1, "original")
	h := NewVideoHandler(videos, &fakeMedia{})

	c, rec := newMultipartCtx(t, http.MethodPatch, "/api/v1/videos/1",
		map[string]string{"title": "hijacked"}, nil)
	c.SetParamNames("videoId")
	c.SetParamValues("1")
	asUser(c, 2) // not the owner

	require.NoError(t, h.Update(c))
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "original", videos.videos[v.ID].Title)
}

func TestUpdateVideoByOwner(t *testing.T) {
	videos := newFakeVideos()
	v := seedVideo(t, videos, 1, "original")
	h := NewVideoHandler(videos, &fakeMedia{})

	c, rec := newMultipartCtx(t, http.MethodPatch, "/api/v1/videos/1",
		map[string]string{"title": "renamed"}, nil)
	c.SetParamNames("videoId")
	c.SetParamValues("1")
	asUser(c, 1)

	require.NoError(t, h.Update(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var got model.Video
	decodeData(t, rec, &got)
	assert.Equal(t, "renamed", got.Title)
	assert.Equal(t, v.Description, got.Description)
}

func TestUpdateVideoRequiresAField(t *testing.T) {
	videos := newFakeVideos()
	seedVideo(t, videos, 1, "original")
	h := NewVideoHandler(videos, &fakeMedia{})

	c, rec := newMultipartCtx(t, http.MethodPatch, "/api/v1/videos/1", nil, nil)
	c.SetParamNames("videoId")
	c.SetParamValues("1")
	asUser(c, 1)

	require.NoError(t, h.Update(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestTogglePublishFlips(t *testing.T) {
	videos := newFakeVideos()
	seedVideo(t, videos, 1, "toggled")
	h := NewVideoHandler(videos, &fakeMedia{})

	for _, want := range []bool{false, true} {
		c, rec := newCtx(t, http.MethodPatch, "/api/v1/videos/toggle/1", nil, "")
		c.SetParamNames("videoId")
		c.SetParamValues("1")
		asUser(c, 1)
		require.NoError(t, h.TogglePublish(c))
		require.Equal(t, http.StatusOK, rec.Code)

		var got model.Video
		decodeData(t, rec, &got)
		assert.Equal(t, want, got.IsPublished)
	}
}

func TestDeleteVideo(t *testing.T) {
	videos := newFakeVideos()
	v := seedVideo(t, videos, 1, "short-lived")
	h := NewVideoHandler(videos, &fakeMedia{})

	// A non-owner's delete is a zero-row miss: the response is 404, not
	// 403, so the caller cannot tell whether the video exists at all.
	c, rec := newCtx(t, http.MethodDelete, "/api/v1/videos/1", nil, "")
	c.SetParamNames("videoId")
	c.SetParamValues("1")
	asUser(c, 2)
	require.NoError(t, h.Delete(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, videos.videos, v.ID)

	c2, rec2 := newCtx(t, http.MethodDelete, "/api/v1/videos/1", nil, "")
	c2.SetParamNames("videoId")
	c2.SetParamValues("1")
	asUser(c2, 1)
	require.NoError(t, h.Delete(c2))
	assert.Equal(t, http.StatusOK, rec2.Code)
	assert.NotContains(t, videos.videos, v.ID)
}
