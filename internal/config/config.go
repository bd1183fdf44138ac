package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Booking conflict policies.
const (
	ConflictPolicyAllow  = "allow"
	ConflictPolicyReject = "reject"
)

// Config holds application configuration
type Config struct {
	Port      string
	Env       string
	LogLevel  string
	LogFormat string

	// Storage selection: a non-empty DatabaseURL selects Postgres, otherwise SQLitePath is used.
	DatabaseURL       string
	SQLitePath        string
	SQLiteForeignKeys bool
	DBMaxConns        int
	AutoMigrate       bool
	SeedData          bool

	BookingConflictPolicy string

	RedisAddr      string
	RedisPassword  string
	RedisTLS       bool
	RosterCacheTTL time.Duration

	CORSAllowedOrigins    []string
	WebhookRateLimitRPS   float64
	WebhookRateLimitBurst int

	HTTPReadTimeout  time.Duration
	HTTPWriteTimeout time.Duration
	ShutdownTimeout  time.Duration
}

// Load reads configuration from environment variables
func Load() *Config {
	return &Config{
		Port:      getEnv("PORT", "5000"),
		Env:       getEnv("ENV", "development"),
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "json"),

		DatabaseURL:       strings.TrimSpace(getEnv("DATABASE_URL", "")),
		SQLitePath:        getEnv("SQLITE_PATH", "appointments.db"),
		SQLiteForeignKeys: getEnvAsBool("SQLITE_FOREIGN_KEYS", false),
		DBMaxConns:        getEnvAsInt("DB_MAX_CONNS", 10),
		AutoMigrate:       getEnvAsBool("AUTO_MIGRATE", true),
		SeedData:          getEnvAsBool("SEED_DATA", true),

		BookingConflictPolicy: parseConflictPolicy(getEnv("BOOKING_CONFLICT_POLICY", ConflictPolicyAllow)),

		RedisAddr:      getEnv("REDIS_ADDR", ""),
		RedisPassword:  getEnv("REDIS_PASSWORD", ""),
		RedisTLS:       getEnvAsBool("REDIS_TLS", false),
		RosterCacheTTL: getEnvAsDuration("ROSTER_CACHE_TTL", 10*time.Minute),

		CORSAllowedOrigins:    getEnvAsList("CORS_ALLOWED_ORIGINS", []string{"*"}),
		WebhookRateLimitRPS:   getEnvAsFloat("WEBHOOK_RATE_LIMIT_RPS", 0),
		WebhookRateLimitBurst: getEnvAsInt("WEBHOOK_RATE_LIMIT_BURST", 20),

		HTTPReadTimeout:  getEnvAsDuration("HTTP_READ_TIMEOUT", 15*time.Second),
		HTTPWriteTimeout: getEnvAsDuration("HTTP_WRITE_TIMEOUT", 15*time.Second),
		ShutdownTimeout:  getEnvAsDuration("SHUTDOWN_TIMEOUT", 30*time.Second),
	}
}

// UsePostgres reports whether the networked backend is selected.
func (c *Config) UsePostgres() bool {
	return c != nil && strings.TrimSpace(c.DatabaseURL) != ""
}

// RejectDoubleBooking reports whether bookings on an already scheduled
// doctor/datetime pair should be refused.
func (c *Config) RejectDoubleBooking() bool {
	return c != nil && c.BookingConflictPolicy == ConflictPolicyReject
}

func parseConflictPolicy(raw string) string {
	if strings.EqualFold(strings.TrimSpace(raw), ConflictPolicyReject) {
		return ConflictPolicyReject
	}
	return ConflictPolicyAllow
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsBool retrieves an environment variable as a boolean or returns a default value
func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsList(key string, defaultValue []string) []string {
	raw := strings.TrimSpace(getEnv(key, ""))
	if raw == "" {
		return defaultValue
	}
	var values []string
	for _, part := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			values = append(values, trimmed)
		}
	}
	if len(values) == 0 {
		return defaultValue
	}
	return values
}
