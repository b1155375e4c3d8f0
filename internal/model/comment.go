package model

import "time"

// Comment represents a row in the `comments` table. A comment always
// belongs to one video and one author.
//
// Fields:
//  ID        – primary key identifier.
//  VideoID   – video the comment was left on.
//  OwnerID   – author of the comment.
//  Content   – text content.
//  CreatedAt – creation timestamp.
//  UpdatedAt – last update timestamp.
type Comment struct {
	ID        uint64    `json:"id"`        // comments.id
	VideoID   uint64    `json:"video"`     // comments.video_id
	OwnerID   uint64    `json:"owner"`     // comments.owner_id
	Content   string    `json:"content"`   // comments.content
	CreatedAt time.Time `json:"createdAt"` // comments.created_at
	UpdatedAt time.Time `json:"updatedAt"` // comments.updated_at
}
