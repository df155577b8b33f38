package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        string
	DatabaseURL string
	Environment string
	BunDebug    bool

	// Admin auth
	JWTSecret     string
	AdminPassword string
	TokenTTL      time.Duration

	// Static front-end shell + gallery file
	StaticDir   string
	GalleryPath string

	// CORS
	AllowedOrigins []string
}

// Load loads environment variables and returns a Config struct.
// Missing required variables are fatal: the process must not come up
// half-configured.
func Load() *Config {
	_ = godotenv.Load()

	tokenTTLMin, _ := strconv.Atoi(getEnv("TOKEN_TTL_MINUTES", "600"))

	allowedOrigins := strings.Split(
		getEnv("ALLOWED_ORIGINS", "http://localhost:3000,http://localhost:3003,http://127.0.0.1:3000,http://127.0.0.1:3003"),
		",",
	)

	return &Config{
		Port:           getEnv("APP_PORT", "3003"),
		DatabaseURL:    databaseURL(),
		Environment:    getEnv("ENVIRONMENT", "development"),
		BunDebug:       getEnvAsBool("BUNDEBUG", false),
		JWTSecret:      mustEnv("JWT_SECRET"),
		AdminPassword:  mustEnv("ADMIN_PASSWORD"),
		TokenTTL:       time.Duration(tokenTTLMin) * time.Minute,
		StaticDir:      getEnv("STATIC_DIR", "public"),
		GalleryPath:    getEnv("GALLERY_PATH", "gallery.json"),
		AllowedOrigins: allowedOrigins,
	}
}

// databaseURL prefers a full DATABASE_URL and otherwise assembles one from
// the individual DB_* variables, all of which are then required.
func databaseURL() string {
	if dsn := os.Getenv("DATABASE_URL"); dsn != "" {
		return dsn
	}
	host := mustEnv("DB_HOST")
	user := mustEnv("DB_USER")
	pass := mustEnv("DB_PASSWORD")
	name := mustEnv("DB_NAME")
	port := getEnv("DB_PORT", "5432")
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", user, pass, host, port, name)
}

func mustEnv(key string) string {
	val := os.Getenv(key)
	if val == "" {
		log.Fatalf("%s environment variable is required", key)
	}
	return val
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	valStr := os.Getenv(key)
	if valStr == "" {
		return fallback
	}
	val, err := strconv.ParseBool(valStr)
	if err != nil {
		log.Printf("invalid bool for %s, defaulting to %v\n", key, fallback)
		return fallback
	}
	return val
}
