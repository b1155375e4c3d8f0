package main // Entry point package

import (
	"context"
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/vidtube/internal/config"
	"github.com/iliyamo/vidtube/internal/database"
	"github.com/iliyamo/vidtube/internal/handler"
	"github.com/iliyamo/vidtube/internal/middleware"
	"github.com/iliyamo/vidtube/internal/queue"
	"github.com/iliyamo/vidtube/internal/repository"
	"github.com/iliyamo/vidtube/internal/router"
	"github.com/iliyamo/vidtube/internal/storage"
)

func main() {
	_ = godotenv.Load() // .env is optional; real deployments use the environment

	cfg := config.Load()

	db, err := database.Open(cfg)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	media, err := storage.NewS3Store(context.Background(), config.LoadObjectStoreConfig())
	if err != nil {
		log.Fatalf("object storage: %v", err)
	}

	// Redis is optional infrastructure. A nil client disables the response
	// cache and turns the rate limiter into a pass-through.
	rdb := config.NewRedisClient()

	users := repository.NewUserRepo(db)
	videos := repository.NewVideoRepo(db)
	comments := repository.NewCommentRepo(db)
	tweets := repository.NewTweetRepo(db)
	subs := repository.NewSubscriptionRepo(db)

	h := router.Handlers{
		Auth:         handler.NewAuthHandler(cfg, users, media),
		Video:        handler.NewVideoHandler(videos, media),
		Comment:      handler.NewCommentHandler(comments),
		Tweet:        handler.NewTweetHandler(tweets),
		Subscription: handler.NewSubscriptionHandler(subs),
	}

	e := echo.New()
	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))
	router.RegisterRoutes(e, h, rdb)
	router.RegisterAPI(e, h, cfg.AccessSecret)

	// The activity consumer drains published events into the activity log.
	// It reconnects on failure and only returns on unrecoverable errors.
	go func() {
		if err := queue.StartActivityConsumer(); err != nil {
			log.Printf("activity consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)

	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
