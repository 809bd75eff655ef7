package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/yourname/bioclock/internal"
	"github.com/yourname/bioclock/internal/api"
	"github.com/yourname/bioclock/internal/auth"
	"github.com/yourname/bioclock/internal/config"
	"github.com/yourname/bioclock/internal/storage"
)

func main() {
	cfg := config.Load()

	logger, err := internal.BuildLogger(cfg.Env)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		logger.Fatalf("invalid TIMEZONE %q: %v", cfg.Timezone, err)
	}

	if cfg.DBType == "file" {
		dataDir := "data"
		if _, err := os.Stat(dataDir); os.IsNotExist(err) {
			_ = os.Mkdir(dataDir, 0755)
		}
		// Create default user if not exists
		if _, err := os.Stat(cfg.FileUsers); os.IsNotExist(err) {
			_ = os.WriteFile(cfg.FileUsers, []byte(`[{"id":"u1","token":"`+cfg.AuthToken+`","name":"Demo User"}]`), 0644)
		}
	}

	var repos *storage.Repositories
	switch cfg.DBType {
	case "postgres":
		repos, err = storage.NewPostgresRepositories(cfg.DBDSN, logger)
	default:
		repos, err = storage.NewFileRepositories(cfg.FileUsers, cfg.FileEvents, cfg.FileInsights, logger)
	}
	if err != nil {
		logger.Fatalf("failed to init storage: %v", err)
	}

	var provider auth.Provider
	switch cfg.AuthMode {
	case "remote":
		provider = auth.NewRemoteAuthProvider(cfg.AuthServiceURL, logger)
	case "jwt":
		provider = auth.NewJWTAuthProvider(cfg.JWTSecret, logger)
	default:
		provider = auth.NewLocalAuthProvider(repos.Users, logger)
	}

	app := api.NewApp(logger, repos.Events, repos.Insights, loc)

	if cfg.Env != "development" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000", "http://localhost:5173"},
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Request-ID"},
		AllowCredentials: true,
	}))
	r.Use(api.RequestIDMiddleware())

	// Protected routes
	protected := r.Group("/")
	protected.Use(auth.AuthMiddleware(provider))
	protected.POST("/events", api.PostEvent(app))
	protected.GET("/events", api.GetEvents(app))
	protected.GET("/insights", api.GetInsights(app))
	protected.POST("/insights/:id/read", api.MarkInsightRead(app))
	protected.GET("/insights/summary", api.GetInsightSummary(app))

	srv := &http.Server{Addr: cfg.ListenAddr, Handler: r}

	go func() {
		logger.Infof("Server running on %s", cfg.ListenAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Errorf("server shutdown: %v", err)
	}
	if repos.Closer != nil {
		if err := repos.Closer.Close(); err != nil {
			logger.Errorf("storage close: %v", err)
		}
	}
}
