package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const defaultAPIBaseURL = "https://api.feexpay.me"

type Config struct {
	AppEnv             string
	LogLevel           string
	AppPort            string
	SandboxBaseURL     string
	LiveBaseURL        string
	HTTPTimeout        time.Duration
	APIRateLimit       float64
	APIRateBurst       int
	SessionSecret      string
	SessionTTL         time.Duration
	CallbackForwardURL string
}

func LoadConfig() *Config {
	_ = godotenv.Load()

	cfg := &Config{
		AppEnv:             os.Getenv("APP_ENV"),
		LogLevel:           os.Getenv("LOG_LEVEL"),
		AppPort:            getEnv("APP_PORT", "8080"),
		SandboxBaseURL:     getEnv("FEEXPAY_SANDBOX_URL", defaultAPIBaseURL),
		LiveBaseURL:        getEnv("FEEXPAY_LIVE_URL", defaultAPIBaseURL),
		HTTPTimeout:        getDuration("FEEXPAY_HTTP_TIMEOUT", 60*time.Second),
		APIRateLimit:       getFloat("FEEXPAY_RATE_LIMIT", 10),
		APIRateBurst:       getInt("FEEXPAY_RATE_BURST", 20),
		SessionSecret:      os.Getenv("SESSION_SECRET"),
		SessionTTL:         getDuration("SESSION_TTL", 30*time.Minute),
		CallbackForwardURL: os.Getenv("CALLBACK_FORWARD_URL"),
	}

	return cfg
}

// BaseURL picks the API root for a widget mode. Anything but LIVE is sandbox.
func (c *Config) BaseURL(mode string) string {
	if mode == "LIVE" {
		return c.LiveBaseURL
	}
	return c.SandboxBaseURL
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(os.Getenv(key))
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

func getInt(key string, fallback int) int {
	n, err := strconv.Atoi(os.Getenv(key))
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}

func getFloat(key string, fallback float64) float64 {
	f, err := strconv.ParseFloat(os.Getenv(key), 64)
	if err != nil || f <= 0 {
		return fallback
	}
	return f
}
