package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rednote/backend/internal/auth"
	"github.com/rednote/backend/internal/cache"
	"github.com/rednote/backend/internal/database"
	"github.com/rednote/backend/internal/handlers"
	"github.com/rednote/backend/internal/logger"
	"github.com/rednote/backend/internal/middleware"
	"github.com/rednote/backend/internal/storage"
	"github.com/rednote/backend/internal/store"
	"github.com/rednote/backend/internal/util"
	"go.uber.org/zap"
)

func main() {
	// .env is optional; production reads the process environment.
	_ = godotenv.Load()

	if err := logger.Initialize(os.Getenv("LOG_LEVEL"), os.Getenv("LOG_FILE")); err != nil {
		panic(err)
	}
	defer logger.Close()

	logger.Log.Info("Server starting")

	// Initialize database
	if err := database.Initialize(); err != nil {
		logger.FatalWithFields("Failed to initialize database", err)
	}
	defer database.Close()

	// Run migrations
	if err := database.Migrate(); err != nil {
		logger.FatalWithFields("Failed to run migrations", err)
	}

	st := store.New(database.DB)

	// Initialize auth service
	jwtSecret := []byte(os.Getenv("JWT_SECRET"))
	if len(jwtSecret) == 0 {
		logger.FatalWithFields("JWT_SECRET environment variable is required", nil)
	}
	authService := auth.NewService(jwtSecret, st)

	// Initialize S3 blob store
	blobs, err := storage.NewS3Store(
		os.Getenv("AWS_REGION"),
		os.Getenv("AWS_BUCKET"),
		os.Getenv("CDN_BASE_URL"),
	)
	if err != nil {
		logger.FatalWithFields("Failed to initialize S3 storage", err)
	}
	if err := blobs.CheckBucketAccess(context.Background()); err != nil {
		logger.WarnWithFields("S3 bucket access failed; image uploads will fail", err)
	}

	// Redis is optional: rate limiting fails open without it.
	if redisClient, err := cache.NewRedisClient(
		os.Getenv("REDIS_HOST"),
		os.Getenv("REDIS_PORT"),
		os.Getenv("REDIS_PASSWORD"),
	); err != nil {
		logger.WarnWithFields("Redis unavailable; rate limiting disabled", err)
	} else {
		defer redisClient.Close()
	}

	h := handlers.NewHandlers(authService, st, blobs)

	r := setupRouter(h, authService)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8787"
	}

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: r,
	}

	go func() {
		logger.Log.Info("Listening", zap.String("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.FatalWithFields("Failed to start server", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info("Shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.FatalWithFields("Server forced to shutdown", err)
	}

	logger.Log.Info("Server exited")
}

func setupRouter(h *handlers.Handlers, authService *auth.Service) *gin.Engine {
	gin.SetMode(os.Getenv("GIN_MODE"))
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.MetricsMiddleware())
	r.Use(gzip.Gzip(gzip.DefaultCompression))

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{"*"}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization"}
	r.Use(cors.New(corsConfig))

	r.GET("/health", func(c *gin.Context) {
		if err := database.Health(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":    "ok",
			"timestamp": time.Now().UTC(),
		})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Writes share one rate-limit window per client IP.
	writeLimit := middleware.RedisRateLimitMiddleware(60, time.Minute)

	api := r.Group("/api/v1")
	{
		users := api.Group("/users")
		{
			users.POST("/register", writeLimit, h.Register)
			users.POST("/login", writeLimit, h.Login)
			users.GET("/me", authService.RequireAuth(), h.Me)
			users.POST("/avatar", authService.RequireAuth(), writeLimit, h.UploadAvatar)
		}

		posts := api.Group("/posts")
		{
			posts.POST("", authService.RequireAuth(), writeLimit, h.PublishPost)
			posts.GET("/feed", authService.OptionalAuth(), h.PostFeed)
			posts.GET("/:id", authService.OptionalAuth(), h.PostDetail)
			posts.GET("/:id/comments", authService.OptionalAuth(), h.RootComments)
			posts.GET("/:id/comments/feed", authService.OptionalAuth(), h.CommentFeed)
			posts.POST("/:id/like", authService.RequireAuth(), writeLimit, h.LikePost)
		}

		comments := api.Group("/comments")
		{
			comments.POST("", authService.RequireAuth(), writeLimit, h.PublishComment)
			comments.GET("/:id/replies", authService.OptionalAuth(), h.Replies)
			comments.POST("/:id/like", authService.RequireAuth(), writeLimit, h.LikeComment)
		}
	}

	// 404s also use the envelope so clients parse one shape everywhere.
	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, util.Envelope{Code: "NOT_FOUND", Msg: "route not found"})
	})

	return r
}
