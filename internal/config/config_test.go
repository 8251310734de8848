package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadConfig_Defaults(t *testing.T) {
	for _, key := range []string{
		"MONGO_URI", "DB_NAME", "COLLECTION_NAME", "ACCESS_TOKEN_EXPIRY",
		"BCRYPT_COST", "SEARCH_CACHE_TTL", "ALLOWED_ORIGINS", "PORT",
	} {
		t.Setenv(key, "")
	}

	cfg := LoadConfig()

	assert.Equal(t, "mongodb://localhost:27017", cfg.Mongo.URI)
	assert.Equal(t, "chetak", cfg.Mongo.Database)
	assert.Equal(t, "hospitals", cfg.Mongo.Collection)
	assert.Equal(t, 5*time.Second, cfg.Mongo.ServerSelectionTimeout)
	assert.Equal(t, 60*time.Minute, cfg.JWT.AccessTokenExpiry)
	assert.Equal(t, 12, cfg.Security.BcryptCost)
	assert.Equal(t, time.Duration(0), cfg.Search.CacheTTL, "search cache is opt-in")
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Len(t, cfg.CORS.AllowedOrigins, 3)
}

func TestLoadConfig_EnvironmentVariables(t *testing.T) {
	t.Setenv("MONGO_URI", "mongodb://db:27017")
	t.Setenv("DB_NAME", "testdb")
	t.Setenv("ACCESS_TOKEN_EXPIRY", "15m")
	t.Setenv("BCRYPT_COST", "10")
	t.Setenv("SEARCH_CACHE_TTL", "30s")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example, https://b.example,")

	cfg := LoadConfig()

	assert.Equal(t, "mongodb://db:27017", cfg.Mongo.URI)
	assert.Equal(t, "testdb", cfg.Mongo.Database)
	assert.Equal(t, 15*time.Minute, cfg.JWT.AccessTokenExpiry)
	assert.Equal(t, 10, cfg.Security.BcryptCost)
	assert.Equal(t, 30*time.Second, cfg.Search.CacheTTL)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORS.AllowedOrigins)
}

func TestLoadConfig_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("ACCESS_TOKEN_EXPIRY", "an hour")
	t.Setenv("BCRYPT_COST", "high")

	cfg := LoadConfig()

	assert.Equal(t, 60*time.Minute, cfg.JWT.AccessTokenExpiry)
	assert.Equal(t, 12, cfg.Security.BcryptCost)
}
