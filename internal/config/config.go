package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	APIPort  string
	LogLevel string

	GeminiAPIKey string
	GeminiModel  string

	CompletionTimeoutSeconds int
	MaxUploadBytes           int64

	RetryMaxAttempts      int
	RetryInitialBackoffMS int
	RetryMaxBackoffMS     int
	BreakerEnabled        bool

	// Traffic control; zero disables the corresponding gate.
	APIRateLimitRPS       int
	APIRateLimitBurst     int
	MaxConcurrentRequests int
	BackpressureWaitMS    int
}

func Load() Config {
	// .env is optional; deployments normally set the environment directly.
	_ = godotenv.Load()

	return Config{
		APIPort:  mustEnv("API_PORT", "8080"),
		LogLevel: mustEnv("LOG_LEVEL", "info"),

		GeminiAPIKey: mustEnv("GEMINI_API_KEY", ""),
		GeminiModel:  mustEnv("GEMINI_MODEL", "gemini-1.5-flash-latest"),

		CompletionTimeoutSeconds: mustEnvInt("COMPLETION_TIMEOUT_SECONDS", 60),
		MaxUploadBytes:           int64(mustEnvInt("MAX_UPLOAD_BYTES", 10<<20)),

		RetryMaxAttempts:      mustEnvInt("LLM_RETRY_MAX_ATTEMPTS", 3),
		RetryInitialBackoffMS: mustEnvInt("LLM_RETRY_INITIAL_BACKOFF_MS", 2000),
		RetryMaxBackoffMS:     mustEnvInt("LLM_RETRY_MAX_BACKOFF_MS", 8000),
		BreakerEnabled:        mustEnvBool("LLM_BREAKER_ENABLED", true),

		APIRateLimitRPS:       mustEnvInt("API_RATE_LIMIT_RPS", 0),
		APIRateLimitBurst:     mustEnvInt("API_RATE_LIMIT_BURST", 0),
		MaxConcurrentRequests: mustEnvInt("API_MAX_CONCURRENT_REQUESTS", 0),
		BackpressureWaitMS:    mustEnvInt("API_BACKPRESSURE_WAIT_MS", 100),
	}
}

func mustEnv(key, fallback string) string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	return v
}

func mustEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func mustEnvBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return parsed
}
