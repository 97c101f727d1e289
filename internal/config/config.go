package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Addr      string
	JWTSecret string
	TokenTTL  time.Duration
	MediaDir  string
	PageSize  int
	RedisAddr string

	// CSRFKey - ключ подписи CSRF-cookie (32 байта); пустой - случайный при старте
	CSRFKey       string
	// SecureCookies - сайт работает за HTTPS
	SecureCookies bool
}

func LoadEnv() {
	err := godotenv.Load()
	if err != nil {
		log.Println(".env file not found")
	}
}

func GetEnv(key string) string {
	value := os.Getenv(key)
	if value == "" {
		log.Fatalf("environment variable %s is not set", key)
	}
	return value
}

// GetEnvDefault возвращает значение переменной окружения или fallback, если она пуста
func GetEnvDefault(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}

// Load собирает конфигурацию сервера из окружения.
// JWT_SECRET обязателен, остальное имеет значения по умолчанию.
func Load() *Config {
	return &Config{
		Addr:      GetEnvDefault("ADDR", ":8080"),
		JWTSecret: GetEnv("JWT_SECRET"),
		TokenTTL:  parseDuration("TOKEN_TTL", 72*time.Hour),
		MediaDir:  GetEnvDefault("MEDIA_DIR", "./media"),
		PageSize:  parseInt("PAGE_SIZE", 10),
		RedisAddr: os.Getenv("REDIS_ADDR"),

		CSRFKey:       os.Getenv("CSRF_KEY"),
		SecureCookies: parseBool("SECURE_COOKIES", false),
	}
}

func parseDuration(key string, fallback time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		log.Printf("invalid %s=%q, using %s", key, raw, fallback)
		return fallback
	}
	return d
}

func parseInt(key string, fallback int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		log.Printf("invalid %s=%q, using %d", key, raw, fallback)
		return fallback
	}
	return n
}

func parseBool(key string, fallback bool) bool {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		log.Printf("invalid %s=%q, using %t", key, raw, fallback)
		return fallback
	}
	return b
}
