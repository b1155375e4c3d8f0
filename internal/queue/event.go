// Package queue contains message payloads exchanged over the message broker
// and the background consumer that turns them into the activity log.
package queue

// VideoPublishedEvent is published when a video upload completes and the
// record is created. It carries enough information for downstream
// consumers to log or notify without querying the primary database.
type VideoPublishedEvent struct {
	VideoID     uint64  `json:"video_id"`
	OwnerID     uint64  `json:"owner_id"`
	Title       string  `json:"title"`
	Duration    float64 `json:"duration"`
	PublishedAt string  `json:"published_at"`
}

// UserRegisteredEvent is published when a new account is created.
type UserRegisteredEvent struct {
	UserID       uint64 `json:"user_id"`
	Username     string `json:"username"`
	RegisteredAt string `json:"registered_at"`
}
