package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// Config holds all runtime configuration, loaded once at startup and
// injected into whatever needs it.
type Config struct {
	Port          string
	MongoURI      string
	DBName        string
	JWTSecret     string
	TokenExpiry   time.Duration
	AllowedOrigin string
}

// LoadConfig reads configuration from the environment, with .env as a
// development convenience.
func LoadConfig() *Config {
	if err := godotenv.Load(); err != nil {
		logrus.Info("No .env file found, relying on environment variables")
	}

	expiryHours := 72
	if v := os.Getenv("TOKEN_EXPIRY_HOURS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			expiryHours = parsed
		}
	}

	return &Config{
		Port:          getEnv("PORT", "5001"),
		MongoURI:      getEnv("MONGO_URI", "mongodb://localhost:27017"),
		DBName:        getEnv("DB_NAME", "otherscovers"),
		JWTSecret:     getEnv("JWT_SECRET", ""),
		TokenExpiry:   time.Duration(expiryHours) * time.Hour,
		AllowedOrigin: getEnv("ALLOWED_ORIGIN", "http://localhost:3000"),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
