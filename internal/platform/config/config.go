package config

import (
	"log"
	"os"
	"strconv"
	"time"
)

type ServerConfig struct {
	Port string
}

type DBConfig struct {
	Path string // SQLite database file path
}

type CacheConfig struct {
	RedisAddr   string // empty means no redis, fall back to direct queries
	CategoryTTL time.Duration
}

type AuthConfig struct {
	JWTSecret     []byte
	TokenLifetime time.Duration
}

type StorefrontConfig struct {
	APIBaseURL   string
	FetchTimeout time.Duration
	CartFile     string
}

func LoadDBConfig() DBConfig {
	path := "mtech_store.db"
	if envPath := os.Getenv("STORE_DB_PATH"); envPath != "" {
		path = envPath
	}
	return DBConfig{Path: path}
}

func LoadServerConfig(defaultPort string) ServerConfig {
	port := defaultPort
	if envPort := os.Getenv("SERVER_PORT"); envPort != "" {
		port = envPort
	}
	return ServerConfig{Port: ":" + port}
}

func LoadCacheConfig() CacheConfig {
	return CacheConfig{
		RedisAddr:   GetEnv("REDIS_ADDR", ""),
		CategoryTTL: time.Duration(GetEnvAsInt("CATEGORY_CACHE_TTL_SECONDS", 300)) * time.Second,
	}
}

func LoadAuthConfig() AuthConfig {
	secret := os.Getenv("JWT_SECRET_KEY")
	if secret == "" {
		log.Println("Warning: JWT_SECRET_KEY not set, using default insecure key")
		secret = "mtech-secret-maurya-enterprises-2025" // fallback
	}
	return AuthConfig{
		JWTSecret:     []byte(secret),
		TokenLifetime: time.Duration(GetEnvAsInt("TOKEN_LIFETIME_HOURS", 24)) * time.Hour,
	}
}

func LoadStorefrontConfig() StorefrontConfig {
	return StorefrontConfig{
		APIBaseURL:   GetEnv("MTECH_API_URL", "http://localhost:3000"),
		FetchTimeout: time.Duration(GetEnvAsInt("MTECH_FETCH_TIMEOUT_SECONDS", 5)) * time.Second,
		CartFile:     GetEnv("MTECH_CART_FILE", "mtech_cart.json"),
	}
}

func GetEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func GetEnvAsInt(key string, fallback int) int {
	strValue := GetEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}
