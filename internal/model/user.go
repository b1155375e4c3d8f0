package model

import "time"

// User represents an application user record as stored in the `users`
// table. The password hash and the refresh token slot are never
// serialized to JSON; every payload built from this struct therefore
// excludes credentials by construction.
//
// Fields:
//  ID               – primary key identifier of the user.
//  Username         – unique, lowercased handle of the channel.
//  Email            – unique email address.
//  FullName         – display name.
//  Avatar           – hosted URL of the avatar image (required).
//  CoverImage       – hosted URL of the cover image (optional, may be empty).
//  PasswordHash     – bcrypt hashed password.
//  RefreshTokenHash – SHA-256 hex digest of the current refresh token,
//                     empty when the user is logged out. Single slot: a new
//                     login or refresh overwrites it, invalidating the
//                     previous session.
//  CreatedAt        – timestamp of creation.
//  UpdatedAt        – timestamp of last update.
type User struct {
	ID               uint64    `json:"id"`         // users.id
	Username         string    `json:"username"`   // users.username
	Email            string    `json:"email"`      // users.email
	FullName         string    `json:"fullName"`   // users.full_name
	Avatar           string    `json:"avatar"`     // users.avatar
	CoverImage       string    `json:"coverImage"` // users.cover_image
	PasswordHash     string    `json:"-"`          // users.password_hash
	RefreshTokenHash string    `json:"-"`          // users.refresh_token_hash (nullable)
	CreatedAt        time.Time `json:"createdAt"`  // users.created_at
	UpdatedAt        time.Time `json:"updatedAt"`  // users.updated_at
}

// ChannelProfile is the aggregate view of a user's channel as returned
// by the channel profile endpoint. Counts are computed from the
// subscriptions table; IsSubscribed reflects whether the requesting
// viewer currently follows the channel.
type ChannelProfile struct {
	ID                   uint64 `json:"id"`
	Username             string `json:"username"`
	FullName             string `json:"fullName"`
	Email                string `json:"email"`
	Avatar               string `json:"avatar"`
	CoverImage           string `json:"coverImage"`
	SubscribersCount     uint64 `json:"subscribersCount"`
	ChannelsSubscribedTo uint64 `json:"channelsSubscribedToCount"`
	IsSubscribed         bool   `json:"isSubscribed"`
}
