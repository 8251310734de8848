package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Mongo    MongoConfig
	JWT      JWTConfig
	Server   ServerConfig
	CORS     CORSConfig
	Log      LogConfig
	Search   SearchConfig
	Security SecurityConfig
}

type MongoConfig struct {
	URI                    string
	Database               string
	Collection             string
	ConnectTimeout         time.Duration
	ServerSelectionTimeout time.Duration
	QueryTimeout           time.Duration
}

type JWTConfig struct {
	Secret            string
	AccessTokenExpiry time.Duration
}

type ServerConfig struct {
	Port            string
	GinMode         string
	ShutdownTimeout time.Duration
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

type SearchConfig struct {
	// CacheTTL of zero disables the search cache
	CacheTTL time.Duration
}

type SecurityConfig struct {
	BcryptCost int
}

func LoadConfig() *Config {
	// Load .env file if it exists
	_ = godotenv.Load()

	config := &Config{
		Mongo: MongoConfig{
			URI:                    getEnv("MONGO_URI", "mongodb://localhost:27017"),
			Database:               getEnv("DB_NAME", "chetak"),
			Collection:             getEnv("COLLECTION_NAME", "hospitals"),
			ConnectTimeout:         parseDuration(getEnv("MONGO_CONNECT_TIMEOUT", "10s"), 10*time.Second),
			ServerSelectionTimeout: parseDuration(getEnv("MONGO_SERVER_SELECTION_TIMEOUT", "5s"), 5*time.Second),
			QueryTimeout:           parseDuration(getEnv("MONGO_QUERY_TIMEOUT", "10s"), 10*time.Second),
		},
		JWT: JWTConfig{
			Secret:            getEnv("JWT_SECRET", "your-secret-key"),
			AccessTokenExpiry: parseDuration(getEnv("ACCESS_TOKEN_EXPIRY", "60m"), 60*time.Minute),
		},
		Server: ServerConfig{
			Port:            getEnv("PORT", "8080"),
			GinMode:         getEnv("GIN_MODE", "debug"),
			ShutdownTimeout: parseDuration(getEnv("SHUTDOWN_TIMEOUT", "10s"), 10*time.Second),
		},
		CORS: CORSConfig{
			AllowedOrigins: parseOrigins(getEnv("ALLOWED_ORIGINS", "http://localhost,http://localhost:5500,http://127.0.0.1:5500")),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
		Search: SearchConfig{
			CacheTTL: parseDuration(getEnv("SEARCH_CACHE_TTL", "0s"), 0),
		},
		Security: SecurityConfig{
			BcryptCost: getEnvInt("BCRYPT_COST", 12),
		},
	}

	return config
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		fmt.Printf("Warning: Invalid integer for %s '%s', using default\n", key, value)
		return defaultValue
	}
	return n
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	duration, err := time.ParseDuration(s)
	if err != nil || duration < 0 {
		fmt.Printf("Warning: Invalid duration format '%s', using default\n", s)
		return fallback
	}
	return duration
}

func parseOrigins(s string) []string {
	origins := []string{}
	for _, origin := range strings.Split(s, ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			origins = append(origins, origin)
		}
	}
	return origins
}
