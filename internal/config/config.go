package config

import (
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/JoelCaquene/davenport-downs/pkg/logger"
)

type Config struct {
	DBHost        string
	DBPort        string
	DBUser        string
	DBPassword    string
	DBName        string
	ListenAddr    string
	JWTSecret     string
	RedisAddr     string
	RedisPassword string
	TimeZone      string
	InviteBaseURL string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	return &Config{
		DBHost:        getEnv("POSTGRES_HOST", "localhost"),
		DBPort:        getEnv("POSTGRES_PORT", "5432"),
		DBUser:        getEnv("POSTGRES_USER", "postgres"),
		DBPassword:    getEnv("POSTGRES_PASSWORD", "postgres"),
		DBName:        getEnv("POSTGRES_DB", "davenport"),
		ListenAddr:    getEnv("LISTEN_ADDR", ":8080"),
		JWTSecret:     getEnv("JWT_SECRET", ""),
		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		TimeZone:      getEnv("PLATFORM_TIMEZONE", "Africa/Luanda"),
		InviteBaseURL: getEnv("INVITE_BASE_URL", "https://davenportdowns.com"),
	}
}

// Location resolves the platform operating timezone. The withdrawal window is
// checked against this zone, not the server's.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.TimeZone)
	if err != nil {
		logger.Warn("Unknown timezone %q, falling back to UTC", c.TimeZone)
		return time.UTC
	}
	return loc
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}
