package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"

	"github.com/groomly/grooming-scheduler/internal/config"
	dbpkg "github.com/groomly/grooming-scheduler/internal/db"
	"github.com/groomly/grooming-scheduler/internal/hold"
	"github.com/groomly/grooming-scheduler/internal/middleware"
	"github.com/groomly/grooming-scheduler/internal/routes"
)

func main() {

	cfg := config.Load()
	db := dbpkg.NewDB(cfg)

	locker := newLocker(cfg)

	r := gin.Default()

	r.Use(middleware.CORSMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	holdManager := routes.RegisterRoutes(r, db, cfg, locker)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	sweeper := hold.NewSweeper(holdManager, cfg.HoldSweepInterval)
	go sweeper.Run(ctx)

	log.Printf("Server running on %s", cfg.Addr())
	if err := r.Run(cfg.Addr()); err != nil {
		log.Fatalf("failed to start server: %v", err)
	}
}

// newLocker picks the slot locker: redis when configured, otherwise
// an in-process locker good for a single replica.
func newLocker(cfg *config.Config) hold.SlotLocker {
	if cfg.RedisURL == "" {
		return hold.NewMemoryLocker()
	}

	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		log.Fatalf("invalid REDIS_URL: %v", err)
	}

	client := redis.NewClient(opts)
	return hold.NewRedisLocker(client, 0)
}
