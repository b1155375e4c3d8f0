package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/vidtube/internal/model"
	"github.com/iliyamo/vidtube/internal/repository"
)

// In-memory fakes for the store interfaces. They reproduce the sentinel
// error semantics of the real repositories so handler tests exercise the
// same error mapping paths.

type fakeUsers struct {
	users  map[uint64]model.User
	nextID uint64
	// subscribers[channelID] holds the subscriber set used by ChannelProfile.
	subscribers map[uint64]map[uint64]bool
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{users: map[uint64]model.User{}, subscribers: map[uint64]map[uint64]bool{}}
}

func (f *fakeUsers) Create(_ context.Context, u *model.User) error {
	for _, existing := range f.users {
		if existing.Username == u.Username || existing.Email == u.Email {
			return repository.ErrUserExists
		}
	}
	f.nextID++
	u.ID = f.nextID
	f.users[u.ID] = *u
	return nil
}

func (f *fakeUsers) GetByID(_ context.Context, id uint64) (model.User, error) {
	u, ok := f.users[id]
	if !ok {
		return model.User{}, repository.ErrNotFound
	}
	return u, nil
}

func (f *fakeUsers) GetByUsernameOrEmail(_ context.Context, username, email string) (model.User, error) {
	for _, u := range f.users {
		if (username != "" && u.Username == strings.ToLower(username)) ||
			(email != "" && u.Email == strings.ToLower(email)) {
			return u, nil
		}
	}
	return model.User{}, repository.ErrNotFound
}

func (f *fakeUsers) StoreRefreshHash(_ context.Context, id uint64, hash string) error {
	u, ok := f.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.RefreshTokenHash = hash
	f.users[id] = u
	return nil
}

func (f *fakeUsers) ClearRefreshHash(_ context.Context, id uint64) error {
	u, ok := f.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.RefreshTokenHash = ""
	f.users[id] = u
	return nil
}

func (f *fakeUsers) UpdatePasswordHash(_ context.Context, id uint64, hash string) error {
	u, ok := f.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.PasswordHash = hash
	f.users[id] = u
	return nil
}

func (f *fakeUsers) UpdateAccount(_ context.Context, id uint64, fullName, email string) (model.User, error) {
	u, ok := f.users[id]
	if !ok {
		return model.User{}, repository.ErrNotFound
	}
	u.FullName, u.Email = fullName, email
	f.users[id] = u
	return u, nil
}

func (f *fakeUsers) UpdateAvatar(_ context.Context, id uint64, url string) (model.User, error) {
	u, ok := f.users[id]
	if !ok {
		return model.User{}, repository.ErrNotFound
	}
	u.Avatar = url
	f.users[id] = u
	return u, nil
}

func (f *fakeUsers) UpdateCoverImage(_ context.Context, id uint64, url string) (model.User, error) {
	u, ok := f.users[id]
	if !ok {
		return model.User{}, repository.ErrNotFound
	}
	u.CoverImage = url
	f.users[id] = u
	return u, nil
}

func (f *fakeUsers) ChannelProfile(_ context.Context, username string, viewerID uint64) (model.ChannelProfile, error) {
	for _, u := range f.users {
		if u.Username != username {
			continue
		}
		var subscribedTo uint64
		for _, set := range f.subscribers {
			if set[u.ID] {
				subscribedTo++
			}
		}
		return model.ChannelProfile{
			ID: u.ID, Username: u.Username, FullName: u.FullName, Email: u.Email,
			Avatar: u.Avatar, CoverImage: u.CoverImage,
			SubscribersCount:     uint64(len(f.subscribers[u.ID])),
			ChannelsSubscribedTo: subscribedTo,
			IsSubscribed:         f.subscribers[u.ID][viewerID],
		}, nil
	}
	return model.ChannelProfile{}, repository.ErrNotFound
}

type fakeVideos struct {
	videos map[uint64]model.Video
	order  []uint64
	nextID uint64
	// sawDeadline records whether Create received a deadline-bound context,
	// as the handlers' persistence timeout convention requires.
	sawDeadline bool
}

func newFakeVideos() *fakeVideos { return &fakeVideos{videos: map[uint64]model.Video{}} }

func (f *fakeVideos) Create(ctx context.Context, v *model.Video) error {
	if _, ok := ctx.Deadline(); ok {
		f.sawDeadline = true
	}
	f.nextID++
	v.ID = f.nextID
	v.IsPublished = true
	f.videos[v.ID] = *v
	f.order = append(f.order, v.ID)
	return nil
}

func (f *fakeVideos) FetchAndCountView(_ context.Context, id uint64) (model.Video, error) {
	v, ok := f.videos[id]
	if !ok {
		return model.Video{}, repository.ErrNotFound
	}
	v.Views++
	f.videos[id] = v
	return v, nil
}

func (f *fakeVideos) ListByOwner(_ context.Context, ownerID uint64, query string, p repository.Page) ([]model.Video, error) {
	var all []model.Video
	for _, id := range f.order {
		v := f.videos[id]
		if v.OwnerID != ownerID || !v.IsPublished {
			continue
		}
		if query != "" && !strings.Contains(strings.ToLower(v.Title), strings.ToLower(query)) {
			continue
		}
		all = append(all, v)
	}
	start := p.Offset()
	if start >= len(all) {
		return []model.Video{}, nil
	}
	end := start + p.Limit
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], nil
}

func (f *fakeVideos) missErr(id uint64) error {
	if _, ok := f.videos[id]; !ok {
		return repository.ErrNotFound
	}
	return repository.ErrForbidden
}

func (f *fakeVideos) UpdateDetails(_ context.Context, id, ownerID uint64, title, description, thumbnail *string) (model.Video, error) {
	v, ok := f.videos[id]
	if !ok || v.OwnerID != ownerID {
		return model.Video{}, f.missErr(id)
	}
	if title != nil {
		v.Title = *title
	}
	if description != nil {
		v.Description = *description
	}
	if thumbnail != nil {
		v.Thumbnail = *thumbnail
	}
	f.videos[id] = v
	return v, nil
}

func (f *fakeVideos) TogglePublish(_ context.Context, id, ownerID uint64) (model.Video, error) {
	v, ok := f.videos[id]
	if !ok || v.OwnerID != ownerID {
		return model.Video{}, f.missErr(id)
	}
	v.IsPublished = !v.IsPublished
	f.videos[id] = v
	return v, nil
}

func (f *fakeVideos) DeleteByOwner(_ context.Context, id, ownerID uint64) error {
	v, ok := f.videos[id]
	if !ok || v.OwnerID != ownerID {
		// Owner-scoped deletes conflate "absent" and "not yours" into a
		// single zero-row miss, like the SQL repositories.
		return repository.ErrNotFound
	}
	delete(f.videos, id)
	return nil
}

type fakeComments struct {
	comments map[uint64]model.Comment
	order    []uint64
	nextID   uint64
	// videoExists mirrors the foreign key on comments.video_id.
	videoExists map[uint64]bool
}

func newFakeComments() *fakeComments {
	return &fakeComments{comments: map[uint64]model.Comment{}, videoExists: map[uint64]bool{}}
}

func (f *fakeComments) Create(_ context.Context, cm *model.Comment) error {
	if !f.videoExists[cm.VideoID] {
		return repository.ErrNotFound
	}
	f.nextID++
	cm.ID = f.nextID
	f.comments[cm.ID] = *cm
	f.order = append(f.order, cm.ID)
	return nil
}

func (f *fakeComments) list(match func(model.Comment) bool, p repository.Page) []model.Comment {
	var all []model.Comment
	for _, id := range f.order {
		if cm := f.comments[id]; match(cm) {
			all = append(all, cm)
		}
	}
	start := p.Offset()
	if start >= len(all) {
		return []model.Comment{}
	}
	end := start + p.Limit
	if end > len(all) {
		end = len(all)
	}
	return all[start:end]
}

func (f *fakeComments) ListByVideo(_ context.Context, videoID uint64, p repository.Page) ([]model.Comment, error) {
	return f.list(func(cm model.Comment) bool { return cm.VideoID == videoID }, p), nil
}

func (f *fakeComments) ListByOwner(_ context.Context, ownerID uint64, p repository.Page) ([]model.Comment, error) {
	return f.list(func(cm model.Comment) bool { return cm.OwnerID == ownerID }, p), nil
}

func (f *fakeComments) DeleteByOwner(_ context.Context, id, ownerID uint64) error {
	cm, ok := f.comments[id]
	if !ok || cm.OwnerID != ownerID {
		return repository.ErrNotFound
	}
	delete(f.comments, id)
	return nil
}

type fakeTweets struct {
	tweets      map[uint64]model.Tweet
	order       []uint64
	nextID      uint64
	sawDeadline bool
}

func newFakeTweets() *fakeTweets { return &fakeTweets{tweets: map[uint64]model.Tweet{}} }

func (f *fakeTweets) Create(ctx context.Context, t *model.Tweet) error {
	if _, ok := ctx.Deadline(); ok {
		f.sawDeadline = true
	}
	f.nextID++
	t.ID = f.nextID
	f.tweets[t.ID] = *t
	f.order = append(f.order, t.ID)
	return nil
}

func (f *fakeTweets) ListByOwner(_ context.Context, ownerID uint64, p repository.Page) ([]model.Tweet, error) {
	var all []model.Tweet
	for _, id := range f.order {
		if t := f.tweets[id]; t.OwnerID == ownerID {
			all = append(all, t)
		}
	}
	start := p.Offset()
	if start >= len(all) {
		return []model.Tweet{}, nil
	}
	end := start + p.Limit
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], nil
}

func (f *fakeTweets) UpdateContent(_ context.Context, id, ownerID uint64, content string) (model.Tweet, error) {
	t, ok := f.tweets[id]
	if !ok {
		return model.Tweet{}, repository.ErrNotFound
	}
	if t.OwnerID != ownerID {
		return model.Tweet{}, repository.ErrForbidden
	}
	t.Content = content
	f.tweets[id] = t
	return t, nil
}

func (f *fakeTweets) DeleteByOwner(_ context.Context, id, ownerID uint64) error {
	t, ok := f.tweets[id]
	if !ok || t.OwnerID != ownerID {
		return repository.ErrNotFound
	}
	delete(f.tweets, id)
	return nil
}

type fakeSubs struct {
	// edges[channelID][subscriberID]
	edges         map[uint64]map[uint64]bool
	channelExists map[uint64]bool
}

func newFakeSubs() *fakeSubs {
	return &fakeSubs{edges: map[uint64]map[uint64]bool{}, channelExists: map[uint64]bool{}}
}

func (f *fakeSubs) Toggle(_ context.Context, channelID, subscriberID uint64) (bool, error) {
	if f.edges[channelID][subscriberID] {
		delete(f.edges[channelID], subscriberID)
		return false, nil
	}
	if !f.channelExists[channelID] {
		return false, repository.ErrNotFound
	}
	if f.edges[channelID] == nil {
		f.edges[channelID] = map[uint64]bool{}
	}
	f.edges[channelID][subscriberID] = true
	return true, nil
}

// fakeMedia records every Save and Delete so tests can assert that failed
// multi-step operations clean up after themselves.
type fakeMedia struct {
	saved   []string
	deleted []string
	// failAt makes the Nth Save call (1-based) fail; 0 disables.
	failAt int
	calls  int
}

func (f *fakeMedia) Save(_ context.Context, name string, r io.Reader) (string, error) {
	f.calls++
	if f.failAt != 0 && f.calls == f.failAt {
		return "", errors.New("upload failed")
	}
	_, _ = io.Copy(io.Discard, r)
	url := "https://media.test/" + name
	f.saved = append(f.saved, url)
	return url, nil
}

func (f *fakeMedia) Delete(_ context.Context, url string) error {
	f.deleted = append(f.deleted, url)
	return nil
}

// ----- request helpers -----

func newCtx(t *testing.T, method, target string, body io.Reader, contentType string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	req := httptest.NewRequest(method, target, body)
	if contentType != "" {
		req.Header.Set(echo.HeaderContentType, contentType)
	}
	rec := httptest.NewRecorder()
	return echo.New().NewContext(req, rec), rec
}

func newJSONCtx(t *testing.T, method, target string, payload interface{}) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	b, err := json.Marshal(payload)
	require.NoError(t, err)
	return newCtx(t, method, target, bytes.NewReader(b), echo.MIMEApplicationJSON)
}

// newMultipartCtx builds a multipart request from text fields and named
// file parts (part name to file content).
func newMultipartCtx(t *testing.T, method, target string, fields map[string]string, files map[string]string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	for name, content := range files {
		fw, err := w.CreateFormFile(name, name+".bin")
		require.NoError(t, err)
		_, err = fw.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return newCtx(t, method, target, &buf, w.FormDataContentType())
}

func asUser(c echo.Context, id uint64) {
	c.Set("user_id", id)
	c.Set("username", "user")
}

type envelope struct {
	Status  int             `json:"status"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return env
}

func decodeData(t *testing.T, rec *httptest.ResponseRecorder, out interface{}) envelope {
	t.Helper()
	env := decodeEnvelope(t, rec)
	require.NoError(t, json.Unmarshal(env.Data, out))
	return env
}
