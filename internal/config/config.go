package config

import (
	"os"

	"github.com/DanmmGuide/server/internal/logs"
)

type Config struct {
	Port            string
	DBPath          string
	JWTSecret       string
	DogAPIBaseURL   string
	DogAPIKey       string
	TranslateAPIURL string
	UploadDir       string
}

func LoadConfig() *Config {
	if os.Getenv("JWT_SECRET") == "" {
		logs.LogJSON("WARN", "JWT_SECRET is not set, tokens will be signed with an empty key", nil)
	}
	return &Config{
		Port:            getenv("PORT", "8080"),
		DBPath:          getenv("DB_PATH", "dangguide.db"),
		JWTSecret:       os.Getenv("JWT_SECRET"),
		DogAPIBaseURL:   getenv("DOG_API_BASE_URL", "https://api.thedogapi.com/v1"),
		DogAPIKey:       os.Getenv("DOG_API_KEY"),
		TranslateAPIURL: os.Getenv("TRANSLATE_API_URL"),
		UploadDir:       getenv("UPLOAD_DIR", "static/post_images"),
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
