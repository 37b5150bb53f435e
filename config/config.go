package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all application configuration loaded from environment variables.
// Components receive it (or the relevant slice of it) at construction; nothing
// reads the environment after Load returns.
type Config struct {
	PostgresHost     string
	PostgresPort     string
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresSSLMode  string

	S3Bucket        string
	S3Region        string
	S3Endpoint      string // optional, for S3-compatible stores
	S3AccessKey     string
	S3SecretKey     string
	S3PublicBaseURL string

	JWTSecret string
	Port      string

	// Collector / fetch tuning. The inter-request delay is a correctness
	// requirement: request rates above it trigger the target's bot blocking
	// and every extraction degrades to empty.
	RequestDelayMs     int
	SettleMs           int
	NavTimeoutSec      int
	DownloadTimeoutSec int
	MaxRetries         int
	MaxImageWorkers    int

	ChromeBin string
}

// Load reads the .env file and returns a populated Config struct.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("[config] No .env file found, falling back to system env vars")
	}

	return &Config{
		PostgresHost:     getEnv("POSTGRES_HOST", "localhost"),
		PostgresPort:     getEnv("POSTGRES_PORT", "5432"),
		PostgresUser:     getEnv("POSTGRES_USER", "importer"),
		PostgresPassword: getEnv("POSTGRES_PASSWORD", "importer123"),
		PostgresDB:       getEnv("POSTGRES_DB", "marketplace_db"),
		PostgresSSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),

		S3Bucket:        getEnv("S3_BUCKET", "marketplace-product-images"),
		S3Region:        getEnv("S3_REGION", "us-east-1"),
		S3Endpoint:      getEnv("S3_ENDPOINT", ""),
		S3AccessKey:     getEnv("S3_ACCESS_KEY", ""),
		S3SecretKey:     getEnv("S3_SECRET_KEY", ""),
		S3PublicBaseURL: getEnv("S3_PUBLIC_BASE_URL", ""),

		JWTSecret: getEnv("JWT_SECRET", ""),
		Port:      getEnv("PORT", "8080"),

		RequestDelayMs:     getEnvInt("REQUEST_DELAY_MS", 2000),
		SettleMs:           getEnvInt("SETTLE_MS", 3000),
		NavTimeoutSec:      getEnvInt("NAV_TIMEOUT_SEC", 20),
		DownloadTimeoutSec: getEnvInt("DOWNLOAD_TIMEOUT_SEC", 15),
		MaxRetries:         getEnvInt("MAX_RETRIES", 2),
		MaxImageWorkers:    getEnvInt("MAX_IMAGE_WORKERS", 3),

		ChromeBin: getEnv("CHROME_BIN", ""),
	}
}

// DSN returns the PostgreSQL connection string.
func (c *Config) DSN() string {
	return "host=" + c.PostgresHost +
		" port=" + c.PostgresPort +
		" user=" + c.PostgresUser +
		" password=" + c.PostgresPassword +
		" dbname=" + c.PostgresDB +
		" sslmode=" + c.PostgresSSLMode
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		n, err := strconv.Atoi(val)
		if err == nil {
			return n
		}
	}
	return fallback
}
