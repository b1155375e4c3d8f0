package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/vidtube/internal/config"
	"github.com/iliyamo/vidtube/internal/handler"
	"github.com/iliyamo/vidtube/internal/middleware"
)

// Handlers collects every handler the router needs. The fields are
// constructed in main and passed in together so route registration stays
// in one place.
type Handlers struct {
	Auth         *handler.AuthHandler
	Video        *handler.VideoHandler
	Comment      *handler.CommentHandler
	Tweet        *handler.TweetHandler
	Subscription *handler.SubscriptionHandler
}

// RegisterRoutes registers routes that do not require authentication.
// Currently the health check and the public video browse endpoint.
func RegisterRoutes(e *echo.Echo, h Handlers, rdb *redis.Client) {
	e.GET("/healthz", handler.Health)

	// Public browse is the only cacheable listing: its responses carry no
	// viewer-specific data, so a shared Redis cache entry is safe.
	e.GET("/api/v1/videos", h.Video.List, middleware.NewRedisCache(config.LoadCacheConfig(), rdb))
}

// RegisterAPI registers the authenticated API surface under /api/v1.
// Every route in the protected group runs the JWT middleware before the
// handler; the auth group stays open for register, login and refresh.
func RegisterAPI(e *echo.Echo, h Handlers, accessSecret string) {
	open := e.Group("/api/v1/users")
	open.POST("/register", h.Auth.Register)
	open.POST("/login", h.Auth.Login)
	open.POST("/refresh-token", h.Auth.Refresh)

	api := e.Group("/api/v1")
	api.Use(middleware.JWTAuth(accessSecret))

	users := api.Group("/users")
	users.POST("/logout", h.Auth.Logout)
	users.POST("/change-password", h.Auth.ChangePassword)
	users.GET("/current-user", h.Auth.CurrentUser)
	users.PATCH("/update-account", h.Auth.UpdateAccount)
	users.PATCH("/avatar", h.Auth.UpdateAvatar)
	users.PATCH("/cover-image", h.Auth.UpdateCoverImage)
	users.GET("/c/:username", h.Auth.ChannelProfile)

	videos := api.Group("/videos")
	videos.POST("", h.Video.Publish)
	videos.GET("/:videoId", h.Video.Get)
	videos.PATCH("/:videoId", h.Video.Update)
	videos.DELETE("/:videoId", h.Video.Delete)
	videos.PATCH("/toggle/:videoId", h.Video.TogglePublish)

	comments := api.Group("/comments")
	comments.POST("/:videoId", h.Comment.Create)
	comments.GET("/:videoId", h.Comment.ListByVideo)
	comments.GET("/user-comments/:userId", h.Comment.ListByUser)
	comments.DELETE("/c/:commentId", h.Comment.Delete)

	tweets := api.Group("/tweets")
	tweets.POST("", h.Tweet.Create)
	tweets.GET("/user/:userId", h.Tweet.List)
	tweets.PATCH("/:tweetId", h.Tweet.Update)
	tweets.DELETE("/:tweetId", h.Tweet.Delete)

	subs := api.Group("/subscriptions")
	subs.POST("/c/:channelId", h.Subscription.Toggle)
}
