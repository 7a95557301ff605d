package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/jdoyle/galleria/gallery/application"
	"github.com/jdoyle/galleria/gallery/persistence"
	"github.com/jdoyle/galleria/gallery/storage"
	"github.com/jdoyle/galleria/internal/middleware"
	"github.com/jdoyle/galleria/internal/rest"
	"github.com/jdoyle/galleria/shared/config"
	"github.com/jdoyle/galleria/shared/db"
)

const shutdownTimeout = 5 * time.Second

func main() {
	cfg := config.Load()

	// Initialize dependencies
	client, err := db.Connect(context.Background(), cfg.MongoURI)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer func() {
		if err := client.Disconnect(context.Background()); err != nil {
			log.Error().Err(err).Msg("Failed to disconnect from database")
		}
	}()

	blobs, err := storage.NewDiskBlobStore(cfg.UploadDir, "/uploads")
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize blob store")
	}

	imageRepo := persistence.NewMongoImageRepository(client.Database(cfg.MongoDatabase))
	imageService := application.NewImageService(imageRepo, blobs)

	router := gin.New()
	router.Use(middleware.LoggingMiddleware())
	router.Use(gin.CustomRecovery(middleware.HandlePanics()))
	router.Use(cors.New(corsConfig(cfg.AllowedOrigin)))

	rest.NewApi(router, rest.NewImagesHandler(imageService), middleware.Auth(middleware.AllowAll{}))

	// Uploaded blobs and the gallery page are served by this process.
	router.Static("/uploads", cfg.UploadDir)
	router.StaticFile("/", filepath.Join(cfg.WebDir, "index.html"))
	router.StaticFile("/app.js", filepath.Join(cfg.WebDir, "app.js"))
	router.StaticFile("/styles.css", filepath.Join(cfg.WebDir, "styles.css"))

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.Info().Msg("Starting server on port :" + cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt)
	<-quit

	log.Info().Msg("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Failed to shutdown server")
	}

	log.Info().Msg("Server stopped")
}

func corsConfig(allowedOrigin string) cors.Config {
	c := cors.DefaultConfig()
	c.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	c.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization"}

	if allowedOrigin == "*" {
		c.AllowAllOrigins = true
	} else {
		c.AllowOrigins = []string{allowedOrigin}
	}

	return c
}
