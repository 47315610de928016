package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration.
type Config struct {
	AppName     string
	AppVersion  string
	Environment string
	HTTPAddr    string

	AuthJWTSecret string
	AuthJWTTTL    time.Duration

	OTLPEndpoint string

	DBType     string
	DBHost     string
	DBPort     string
	DBName     string
	DBUser     string
	DBPassword string
	DBSSLMode  string

	RedisAddr     string
	RedisPassword string

	MetalPriceAPIKey  string
	MetalPriceBaseURL string
	BaseCurrency      string

	LLMAPIKey  string
	LLMBaseURL string
	LLMModel   string

	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	SMTPFrom     string
}

// Load loads configuration from environment variables and .env file.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		AppName:     getenv("APP_SERVICE", "amanah"),
		AppVersion:  getenv("APP_VERSION", "0.1.0"),
		Environment: getenv("ENVIRONMENT", "development"),
		HTTPAddr:    getenv("HTTP_ADDR", ":8080"),

		AuthJWTSecret: strings.TrimSpace(getenv("JWT_SECRET", "")),
		AuthJWTTTL:    time.Duration(getenvInt("JWT_TTL_HOURS", 168)) * time.Hour,

		OTLPEndpoint: getenv("OTLP_ENDPOINT", "localhost:4317"),

		DBType:     getenv("DATABASE_TYPE", "postgres"),
		DBHost:     getenv("DATABASE_HOST", "localhost"),
		DBPort:     getenv("DATABASE_PORT", "5432"),
		DBName:     getenv("DATABASE_NAME", "halaltools"),
		DBUser:     getenv("DATABASE_USER", "postgres"),
		DBPassword: getenv("DATABASE_PASSWORD", "postgres"),
		DBSSLMode:  getenv("DATABASE_SSLMODE", "disable"),

		RedisAddr:     strings.TrimSpace(getenv("REDIS_ADDR", "")),
		RedisPassword: getenv("REDIS_PASSWORD", ""),

		MetalPriceAPIKey:  strings.TrimSpace(getenv("METALPRICE_API_KEY", "")),
		MetalPriceBaseURL: getenv("METALPRICE_BASE_URL", "https://api.metalpriceapi.com/v1"),
		BaseCurrency:      getenv("METALPRICE_BASE_CURRENCY", "PKR"),

		LLMAPIKey:  strings.TrimSpace(getenv("TOGETHER_API_KEY", "")),
		LLMBaseURL: getenv("TOGETHER_BASE_URL", "https://api.together.xyz/v1"),
		LLMModel:   getenv("TOGETHER_MODEL", "mistralai/Mixtral-8x7B-Instruct-v0.1"),

		SMTPHost:     getenv("EMAIL_SMTP_HOST", ""),
		SMTPPort:     getenvInt("EMAIL_SMTP_PORT", 587),
		SMTPUsername: getenv("EMAIL_USER", ""),
		SMTPPassword: getenv("EMAIL_PASS", ""),
		SMTPFrom:     getenv("EMAIL_FROM", "Halal Tools Support <support@halaltools.app>"),
	}
}

func (c Config) IsProduction() bool {
	return strings.EqualFold(strings.TrimSpace(c.Environment), "production")
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return def
	}
	return parsed
}
