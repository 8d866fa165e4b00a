package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type contextKey string

// UserIDKey хранит id администратора, извлечённый из JWT.
const UserIDKey contextKey = "user_id"

const (
	ClientStoreMock  = "mock"
	ClientStoreRedis = "redis"

	KeySourceStatic = "static"
	KeySourceRedis  = "redis"
)

// Config хранит все конфигурации приложения
type Config struct {
	Env         string
	DatabaseDSN string
	JwtSecret   string
	ServerPort  string
	LogLevel    string
	StaticDir   string

	AdminUsername     string
	AdminPassword     string
	AdminPasswordHash string

	ClientAPIKeys   []string
	ClientStore     string
	ClientKeySource string

	Redis RedisConfig

	GoogleCredentialsFile string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// NewConfig читает .env (если есть) и переменные окружения.
func NewConfig() *Config {
	_ = godotenv.Load()

	return &Config{
		Env:         getEnv("APP_ENV", "development"),
		DatabaseDSN: getEnv("DATABASE_DSN", "./data.db"),
		JwtSecret:   getEnv("JWT_SECRET", "change-me-in-production"),
		ServerPort:  getEnv("SERVER_PORT", "6066"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		StaticDir:   getEnv("STATIC_DIR", "./static"),

		AdminUsername: getEnv("ADMIN_USERNAME", "admin"),
		// Если хеш не задан, ADMIN_PASSWORD хешируется при старте (только для разработки)
		AdminPassword:     getEnv("ADMIN_PASSWORD", ""),
		AdminPasswordHash: getEnv("ADMIN_PASSWORD_HASH", ""),

		ClientAPIKeys:   getEnvList("CLIENT_API_KEYS", []string{"demo_key_123", "test_key_456", "dev_key_789"}),
		ClientStore:     getEnv("CLIENT_STORE", ClientStoreMock),
		ClientKeySource: getEnv("CLIENT_KEY_SOURCE", KeySourceStatic),

		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},

		GoogleCredentialsFile: getEnv("GOOGLE_CREDENTIALS_FILE", "credentials.json"),
	}
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// NeedsRedis сообщает, использует ли хоть один компонент redis.
func (c *Config) NeedsRedis() bool {
	return c.ClientStore == ClientStoreRedis || c.ClientKeySource == KeySourceRedis
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, exists := os.LookupEnv(key); exists {
		if v, err := strconv.Atoi(value); err == nil {
			return v
		}
	}
	return fallback
}

func getEnvList(key string, fallback []string) []string {
	value, exists := os.LookupEnv(key)
	if !exists || strings.TrimSpace(value) == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
