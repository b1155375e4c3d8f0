package model

import "time"

// Tweet represents a short text post in the `tweets` table, mutable
// by its owner only.
//
// Fields:
//  ID        – primary key identifier.
//  OwnerID   – author of the tweet.
//  Content   – text content.
//  CreatedAt – creation timestamp.
//  UpdatedAt – last update timestamp.
type Tweet struct {
	ID        uint64    `json:"id"`        // tweets.id
	OwnerID   uint64    `json:"owner"`     // tweets.owner_id
	Content   string    `json:"content"`   // tweets.content
	CreatedAt time.Time `json:"createdAt"` // tweets.created_at
	UpdatedAt time.Time `json:"updatedAt"` // tweets.updated_at
}
