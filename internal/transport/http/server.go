package http

import (
	"context"
	"fmt"
	"log"
	stdhttp "net/http"
	"time"

	"blogplatform/internal/config"
	"blogplatform/internal/database"
	"blogplatform/internal/handler"
	"blogplatform/internal/redis"
	"blogplatform/internal/repository"
	"blogplatform/internal/service"
	"blogplatform/internal/session"
)

func Run() error {
	// 1. Load Configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// 2. Connect to Database and apply schema migrations
	db, err := database.Connect(cfg)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	if err := database.Migrate(context.Background(), db); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	// 3. Connect to Redis (session store backend)
	redisClient, err := redis.NewClient(cfg.RedisURL)
	if err != nil {
		return fmt.Errorf("failed to create redis client: %w", err)
	}
	defer redisClient.Close()

	if err := redisClient.Ping(context.Background()); err != nil {
		return fmt.Errorf("failed to connect to redis: %w", err)
	}

	// 4. Wire repositories, services and handlers
	sessionMaxAge := time.Duration(cfg.SessionMaxAge) * time.Second
	sessions := session.NewRedisStore(redisClient.Client, cfg.SessionSecret, sessionMaxAge)

	userRepo := repository.NewUserRepository(db)
	postRepo := repository.NewPostRepository(db)
	friendshipRepo := repository.NewFriendshipRepository(db)

	userService := service.NewUserService(userRepo, cfg.DefaultProfilePicture)
	postService := service.NewPostService(postRepo)
	friendService := service.NewFriendService(friendshipRepo, userRepo)

	router := NewRouter(RouterConfig{
		AuthHandler:    handler.NewAuthHandler(userService, sessions, sessionMaxAge),
		HomeHandler:    handler.NewHomeHandler(postService, friendService, sessions),
		ProfileHandler: handler.NewProfileHandler(userService, postService, friendService, sessions),
		FriendHandler:  handler.NewFriendHandler(userService, friendService, sessions),
		Sessions:       sessions,
		SessionMaxAge:  sessionMaxAge,
	})

	// 5. Serve
	log.Printf("Starting server on :%s", cfg.ServerPort)
	return stdhttp.ListenAndServe(":"+cfg.ServerPort, router)
}
