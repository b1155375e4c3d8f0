package model

import "time"

// Video represents a published video record in the `videos` table.
// The media files themselves live in object storage; only their
// hosted URLs are persisted here.
//
// Fields:
//  ID          – primary key identifier.
//  OwnerID     – user who published the video.
//  VideoFile   – hosted URL of the video media.
//  Thumbnail   – hosted URL of the thumbnail image.
//  Title       – video title.
//  Description – free-form description.
//  Duration    – media duration in seconds.
//  Views       – view counter, incremented atomically on each fetch.
//  IsPublished – publish flag, togglable by the owner only.
//  CreatedAt   – creation timestamp.
//  UpdatedAt   – last update timestamp.
type Video struct {
	ID          uint64    `json:"id"`          // videos.id
	OwnerID     uint64    `json:"owner"`       // videos.owner_id
	VideoFile   string    `json:"videoFile"`   // videos.video_file
	Thumbnail   string    `json:"thumbnail"`   // videos.thumbnail
	Title       string    `json:"title"`       // videos.title
	Description string    `json:"description"` // videos.description
	Duration    float64   `json:"duration"`    // videos.duration (seconds)
	Views       uint64    `json:"views"`       // videos.views
	IsPublished bool      `json:"isPublished"` // videos.is_published
	CreatedAt   time.Time `json:"createdAt"`   // videos.created_at
	UpdatedAt   time.Time `json:"updatedAt"`   // videos.updated_at
}
