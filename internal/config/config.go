package config

import (
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	// Database
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// Redis (optional; leaderboards and topic cache are skipped when empty)
	RedisURL string

	// JWT
	JWTSecret        string
	JWTAccessExpiry  time.Duration
	JWTRefreshExpiry time.Duration

	// Assistant
	AssistantFunctionURL   string
	AssistantFunctionToken string
	AIDailyLimit           int
	AITimeout              time.Duration
	QuotaTimezone          string

	// OpenAI-compatible fallback provider
	OpenAIAPIKey string
	OpenAIAPIURL string
	OpenAIModel  string

	// Upstream of the self-hosted perplexity_chat function
	PerplexityAPIKey string
	PerplexityAPIURL string
	PerplexityModel  string

	// Admin
	AdminEmails  string
	AdminUserIDs string
	AdminToken   string

	// Server
	Port        string
	CORSOrigins string
	LogFormat   string
	SentryDSN   string
	AppEnv      string
}

var defaults = map[string]interface{}{
	"DB_HOST":     "localhost",
	"DB_PORT":     "5432",
	"DB_USER":     "postgres",
	"DB_PASSWORD": "",
	"DB_NAME":     "puzzlepals",
	"DB_SSLMODE":  "disable",

	"REDIS_URL": "",

	"JWT_SECRET":         "",
	"JWT_ACCESS_EXPIRY":  "15m",
	"JWT_REFRESH_EXPIRY": "168h",

	"ASSISTANT_FUNCTION_URL":   "https://us-central1-puzzlepals.cloudfunctions.net/perplexity_chat",
	"ASSISTANT_FUNCTION_TOKEN": "",
	"AI_DAILY_LIMIT":           6,
	"AI_TIMEOUT":               "60s",
	"QUOTA_TIMEZONE":           "UTC",

	"OPENAI_API_KEY": "",
	"OPENAI_API_URL": "https://api.openai.com/v1",
	"OPENAI_MODEL":   "gpt-4o-mini",

	"PERPLEXITY_API_KEY": "",
	"PERPLEXITY_API_URL": "https://api.perplexity.ai",
	"PERPLEXITY_MODEL":   "sonar",

	"ADMIN_EMAILS":   "",
	"ADMIN_USER_IDS": "",
	"ADMIN_TOKEN":    "",

	"PORT":         "8080",
	"CORS_ORIGINS": "*",
	"LOG_FORMAT":   "json",
	"SENTRY_DSN":   "",
	"APP_ENV":      "development",
}

// Load reads configuration from .env, an optional CONFIG_FILE and the environment,
// in increasing order of precedence.
func Load() *Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		slog.Warn("failed to load .env file", "error", err)
	}

	v := viper.New()
	for key, val := range defaults {
		v.SetDefault(key, val)
	}
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			slog.Warn("failed to read config file", "path", path, "error", err)
		}
	}

	return &Config{
		DBHost:     v.GetString("DB_HOST"),
		DBPort:     v.GetString("DB_PORT"),
		DBUser:     v.GetString("DB_USER"),
		DBPassword: v.GetString("DB_PASSWORD"),
		DBName:     v.GetString("DB_NAME"),
		DBSSLMode:  v.GetString("DB_SSLMODE"),

		RedisURL: v.GetString("REDIS_URL"),

		JWTSecret:        v.GetString("JWT_SECRET"),
		JWTAccessExpiry:  parseDuration(v.GetString("JWT_ACCESS_EXPIRY"), 15*time.Minute),
		JWTRefreshExpiry: parseDuration(v.GetString("JWT_REFRESH_EXPIRY"), 168*time.Hour),

		AssistantFunctionURL:   v.GetString("ASSISTANT_FUNCTION_URL"),
		AssistantFunctionToken: v.GetString("ASSISTANT_FUNCTION_TOKEN"),
		AIDailyLimit:           positiveInt(v.GetInt("AI_DAILY_LIMIT"), 6),
		AITimeout:              parseDuration(v.GetString("AI_TIMEOUT"), 60*time.Second),
		QuotaTimezone:          v.GetString("QUOTA_TIMEZONE"),

		OpenAIAPIKey: v.GetString("OPENAI_API_KEY"),
		OpenAIAPIURL: v.GetString("OPENAI_API_URL"),
		OpenAIModel:  v.GetString("OPENAI_MODEL"),

		PerplexityAPIKey: v.GetString("PERPLEXITY_API_KEY"),
		PerplexityAPIURL: v.GetString("PERPLEXITY_API_URL"),
		PerplexityModel:  v.GetString("PERPLEXITY_MODEL"),

		AdminEmails:  v.GetString("ADMIN_EMAILS"),
		AdminUserIDs: v.GetString("ADMIN_USER_IDS"),
		AdminToken:   v.GetString("ADMIN_TOKEN"),

		Port:        v.GetString("PORT"),
		CORSOrigins: v.GetString("CORS_ORIGINS"),
		LogFormat:   v.GetString("LOG_FORMAT"),
		SentryDSN:   v.GetString("SENTRY_DSN"),
		AppEnv:      v.GetString("APP_ENV"),
	}
}

func (c *Config) DSN() string {
	return "host=" + c.DBHost +
		" user=" + c.DBUser +
		" password=" + c.DBPassword +
		" dbname=" + c.DBName +
		" port=" + c.DBPort +
		" sslmode=" + c.DBSSLMode +
		" TimeZone=UTC"
}

// Location is the time zone that defines a quota day. Unknown zones fall back to UTC.
func (c *Config) Location() *time.Location {
	if c.QuotaTimezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(c.QuotaTimezone)
	if err != nil {
		slog.Warn("unknown quota timezone, using UTC", "timezone", c.QuotaTimezone)
		return time.UTC
	}
	return loc
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

func positiveInt(n, fallback int) int {
	if n <= 0 {
		return fallback
	}
	return n
}
