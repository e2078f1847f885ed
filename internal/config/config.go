package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	StorageMongo  = "mongo"
	StorageRedis  = "redis"
	StorageMemory = "memory"
)

// Fallback JWT secrets for local development. Production refuses to start
// with any of them.
const (
	defaultAccessTokenSecret        = "access-secret-change-in-production"
	defaultRefreshTokenSecret       = "refresh-secret-change-in-production"
	defaultResetPasswordTokenSecret = "reset-secret-change-in-production"
)

type Config struct {
	Port        string
	Environment string // ENV: production, development, etc.
	LogLevel    string

	MongoURI          string
	DBName            string
	StorageDriver     string        // users: mongo or memory
	RefreshTokenStore string        // refresh tokens: mongo, redis or memory
	MongoSupervise    time.Duration // ping interval of the connection supervisor
	RedisURI          string

	AccessTokenSecret        string
	RefreshTokenSecret       string
	ResetPasswordTokenSecret string
	AccessTokenTTL           time.Duration
	RefreshTokenTTL          time.Duration
	ResetPasswordTokenTTL    time.Duration
	ResetPasswordURL         string

	GatewayKey         string // X-API-KEY shared secret; empty disables the check
	RequireBearerUsers bool   // bearer auth on /api/users/{userId}/...
	AllowedOrigins     []string
	TrustProxyHeaders  bool // use X-Forwarded-For / X-Real-IP for client IPs

	SentryDSN              string
	SentryTracesSampleRate float64
}

func Load() *Config {
	env := strings.ToLower(strings.TrimSpace(getEnv("ENV", "development")))

	return &Config{
		Port:        getEnv("PORT", "3002"),
		Environment: env,
		LogLevel:    getEnv("LOG_LEVEL", "info"),

		MongoURI:          getEnv("DB_CONNECTION_STRING", getEnv("MONGOOSE_CONNECTION_STRING", "mongodb://localhost:27017")),
		DBName:            getEnv("DB_NAME", "crypto-dca"),
		StorageDriver:     strings.ToLower(getEnv("STORAGE_DRIVER", StorageMongo)),
		RefreshTokenStore: strings.ToLower(getEnv("REFRESH_TOKEN_STORE", StorageMongo)),
		MongoSupervise:    getEnvDuration("MONGO_SUPERVISE_INTERVAL", 30*time.Second),
		RedisURI:          getEnv("REDIS_URI", "redis://localhost:6379/0"),

		AccessTokenSecret:        getEnv("JWT_SECRET_ACCESS_TOKEN", defaultAccessTokenSecret),
		RefreshTokenSecret:       getEnv("JWT_SECRET_REFRESH_TOKEN", defaultRefreshTokenSecret),
		ResetPasswordTokenSecret: getEnv("JWT_SECRET_RESET_PASSWORD_TOKEN", defaultResetPasswordTokenSecret),
		AccessTokenTTL:           getEnvDuration("ACCESS_TOKEN_TTL", time.Hour),
		RefreshTokenTTL:          getEnvDuration("REFRESH_TOKEN_TTL", 7*24*time.Hour),
		ResetPasswordTokenTTL:    getEnvDuration("RESET_PASSWORD_TOKEN_TTL", time.Hour),
		ResetPasswordURL:         getEnv("RESET_PASSWORD_URL", "https://crypto-stdev-cra.vercel.app/auth/reset"),

		GatewayKey:         getEnv("API_GATEWAY_KEY", ""),
		RequireBearerUsers: getEnvBool("REQUIRE_BEARER_FOR_USER_ROUTES", true),
		AllowedOrigins:     parseList(getEnv("ALLOWED_ORIGINS", "*")),
		TrustProxyHeaders:  getEnvBool("TRUST_PROXY_HEADERS", false),

		SentryDSN:              getEnv("SENTRY_DSN", ""),
		SentryTracesSampleRate: getEnvFloat("SENTRY_TRACES_SAMPLE_RATE", 1.0),
	}
}

// IsProduction returns true when ENV is set to "production".
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// DefaultSecrets lists the env vars whose JWT secret is still the built-in
// fallback.
func (c *Config) DefaultSecrets() []string {
	var names []string
	if c.AccessTokenSecret == defaultAccessTokenSecret {
		names = append(names, "JWT_SECRET_ACCESS_TOKEN")
	}
	if c.RefreshTokenSecret == defaultRefreshTokenSecret {
		names = append(names, "JWT_SECRET_REFRESH_TOKEN")
	}
	if c.ResetPasswordTokenSecret == defaultResetPasswordTokenSecret {
		names = append(names, "JWT_SECRET_RESET_PASSWORD_TOKEN")
	}
	return names
}

// Validate rejects configurations that must not run in production.
func (c *Config) Validate() error {
	if names := c.DefaultSecrets(); c.IsProduction() && len(names) > 0 {
		return fmt.Errorf("production requires explicit JWT secrets: %s not set", strings.Join(names, ", "))
	}
	return nil
}

func parseList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		log.Printf("Invalid value for %s, using default %s", key, defaultValue)
		return defaultValue
	}
	return d
}

func getEnvBool(key string, defaultValue bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return defaultValue
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		log.Printf("Invalid value for %s, using default %t", key, defaultValue)
		return defaultValue
	}
	return b
}

func getEnvFloat(key string, defaultValue float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return defaultValue
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		log.Printf("Invalid value for %s, using default %g", key, defaultValue)
		return defaultValue
	}
	return f
}
