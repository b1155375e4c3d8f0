package handler

import (
	"context"
	"io"

	"github.com/iliyamo/vidtube/internal/model"
	"github.com/iliyamo/vidtube/internal/repository"
	"github.com/iliyamo/vidtube/internal/storage"
)

// The handler structs depend on small interfaces instead of the concrete
// repositories so tests can swap in in-memory fakes. The repository types
// satisfy these at compile time (see the assertions at the bottom).

// UserStore captures the persistence operations required by the auth and
// profile handlers.
type UserStore interface {
	Create(ctx context.Context, u *model.User) error
	GetByID(ctx context.Context, id uint64) (model.User, error)
	GetByUsernameOrEmail(ctx context.Context, username, email string) (model.User, error)
	StoreRefreshHash(ctx context.Context, id uint64, hash string) error
	ClearRefreshHash(ctx context.Context, id uint64) error
	UpdatePasswordHash(ctx context.Context, id uint64, hash string) error
	UpdateAccount(ctx context.Context, id uint64, fullName, email string) (model.User, error)
	UpdateAvatar(ctx context.Context, id uint64, url string) (model.User, error)
	UpdateCoverImage(ctx context.Context, id uint64, url string) (model.User, error)
	ChannelProfile(ctx context.Context, username string, viewerID uint64) (model.ChannelProfile, error)
}

// VideoStore captures persistence for the video handlers.
type VideoStore interface {
	Create(ctx context.Context, v *model.Video) error
	FetchAndCountView(ctx context.Context, id uint64) (model.Video, error)
	ListByOwner(ctx context.Context, ownerID uint64, query string, p repository.Page) ([]model.Video, error)
	UpdateDetails(ctx context.Context, id, ownerID uint64, title, description, thumbnail *string) (model.Video, error)
	TogglePublish(ctx context.Context, id, ownerID uint64) (model.Video, error)
	DeleteByOwner(ctx context.Context, id, ownerID uint64) error
}

// CommentStore captures persistence for the comment handlers.
type CommentStore interface {
	Create(ctx context.Context, cm *model.Comment) error
	ListByVideo(ctx context.Context, videoID uint64, p repository.Page) ([]model.Comment, error)
	ListByOwner(ctx context.Context, ownerID uint64, p repository.Page) ([]model.Comment, error)
	DeleteByOwner(ctx context.Context, id, ownerID uint64) error
}

// TweetStore captures persistence for the tweet handlers.
type TweetStore interface {
	Create(ctx context.Context, t *model.Tweet) error
	ListByOwner(ctx context.Context, ownerID uint64, p repository.Page) ([]model.Tweet, error)
	UpdateContent(ctx context.Context, id, ownerID uint64, content string) (model.Tweet, error)
	DeleteByOwner(ctx context.Context, id, ownerID uint64) error
}

// SubscriptionStore captures persistence for the subscription handlers.
type SubscriptionStore interface {
	Toggle(ctx context.Context, channelID, subscriberID uint64) (bool, error)
}

// MediaStore is the media-upload collaborator: Save streams content into
// object storage and returns the hosted URL, Delete removes an uploaded
// artifact when a later step of a multi-upload operation fails.
type MediaStore interface {
	Save(ctx context.Context, name string, r io.Reader) (string, error)
	Delete(ctx context.Context, url string) error
}

var (
	_ UserStore         = (*repository.UserRepo)(nil)
	_ VideoStore        = (*repository.VideoRepo)(nil)
	_ CommentStore      = (*repository.CommentRepo)(nil)
	_ TweetStore        = (*repository.TweetRepo)(nil)
	_ SubscriptionStore = (*repository.SubscriptionRepo)(nil)
	_ MediaStore        = (*storage.S3Store)(nil)
)
