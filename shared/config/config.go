package config

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// Config is the externally supplied runtime configuration, loaded once
// in main and passed down explicitly.
type Config struct {
	Port          string
	MongoURI      string
	MongoDatabase string
	UploadDir     string
	WebDir        string
	AllowedOrigin string
}

// Load reads configuration from the environment, with a .env file as
// an optional source for local development.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Debug().Err(err).Msg("No .env file loaded")
	}

	return &Config{
		Port:          getEnv("PORT", "5000"),
		MongoURI:      getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDatabase: getEnv("MONGO_DB", "galleria"),
		UploadDir:     getEnv("UPLOAD_DIR", "./uploads"),
		WebDir:        getEnv("WEB_DIR", "./web"),
		AllowedOrigin: getEnv("ALLOWED_ORIGIN", "*"),
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
