package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/fx"
)

const EnvProduction = "production"

const devJWTSecret = "inkwell-development-secret-change-me"

var ErrMissingJWTSecret = errors.New("AUTH_JWT_SECRET is required in production")

var Module = fx.Module("config",
	fx.Provide(
		Load,
		NewSessionConfigHolder,
	),
)

// Config holds application configuration.
type Config struct {
	AppName     string
	AppVersion  string
	Environment string
	HTTPAddr    string

	AuthCookieSecure    bool
	AuthJWTSecret       string
	AuthJWTIssuer       string
	AuthAccessTokenTTL  time.Duration
	AuthRefreshTokenTTL time.Duration
	CORSAllowedOrigins  []string
	TrustedProxies      []string
	SnowflakeNode       int64
	SignInRatePerSecond float64
	SignInBurst         int
	OTLPEndpoint        string
	OTLPProtocol        string
	OTelEnabled         bool
	OTelSamplingRatio   float64

	LogLevel  string
	LogFormat string
	LogSQL    string

	DBType            string
	DBHost            string
	DBPort            string
	DBName            string
	DBUser            string
	DBPassword        string
	DBSSLMode         string
	DBMaxIdleConn     int
	DBMaxOpenConn     int
	DBConnMaxLifetime int
	DBConnMaxIdleTime int

	RedisAddr     string
	RedisPassword string
	RedisDB       int
}

// Load reads configuration from the environment and an optional .env file.
func Load() (Config, error) {
	_ = godotenv.Load()

	environment := strings.ToLower(getenv("ENVIRONMENT", "development"))
	production := environment == EnvProduction

	authCookieSecure := production
	if !authCookieSecure {
		authCookieSecure = getenvBool("AUTH_COOKIE_SECURE", false)
	}

	appName := getenv("APP_SERVICE", "inkwell")
	secret := strings.TrimSpace(getenv("AUTH_JWT_SECRET", ""))
	if secret == "" {
		if production {
			return Config{}, ErrMissingJWTSecret
		}
		secret = devJWTSecret
	}

	cfg := Config{
		AppName:             appName,
		AppVersion:          getenv("APP_VERSION", "0.1.0"),
		Environment:         environment,
		HTTPAddr:            getenv("HTTP_ADDR", ":8080"),
		AuthCookieSecure:    authCookieSecure,
		AuthJWTSecret:       secret,
		AuthJWTIssuer:       getenv("AUTH_JWT_ISSUER", appName),
		AuthAccessTokenTTL:  getenvDuration("AUTH_ACCESS_TOKEN_TTL", 15*time.Minute),
		AuthRefreshTokenTTL: getenvDuration("AUTH_REFRESH_TOKEN_TTL", 30*24*time.Hour),
		CORSAllowedOrigins:  splitList(getenv("CORS_ALLOWED_ORIGINS", "")),
		TrustedProxies:      splitList(getenv("TRUSTED_PROXIES", "")),
		SnowflakeNode:       getenvInt64("SNOWFLAKE_NODE", 1),
		SignInRatePerSecond: getenvFloat("SIGNIN_RATE_PER_SECOND", 0.2),
		SignInBurst:         int(getenvInt64("SIGNIN_BURST", 5)),
		OTLPEndpoint:        getenv("OTEL_EXPORTER_OTLP_ENDPOINT", getenv("OTLP_ENDPOINT", "localhost:4317")),
		OTLPProtocol:        strings.ToLower(getenv("OTEL_EXPORTER_OTLP_PROTOCOL", "grpc")),
		OTelEnabled:         getenvBool("OTEL_ENABLED", true),
		OTelSamplingRatio:   getenvFloat("OTEL_SAMPLING_RATIO", 0.1),
		LogLevel:            strings.ToLower(getenv("LOG_LEVEL", "info")),
		LogFormat:           strings.ToLower(getenv("LOG_FORMAT", "json")),
		LogSQL:              strings.ToLower(getenv("LOG_SQL", "warn")),
		DBType:              getenv("DATABASE_TYPE", "postgres"),
		DBHost:              getenv("DATABASE_HOST", "localhost"),
		DBPort:              getenv("DATABASE_PORT", "5432"),
		DBName:              getenv("DATABASE_NAME", "inkwell"),
		DBUser:              getenv("DATABASE_USER", "postgres"),
		DBPassword:          getenv("DATABASE_PASSWORD", ""),
		DBSSLMode:           getenv("DATABASE_SSLMODE", "disable"),
		DBMaxIdleConn:       int(getenvInt64("DATABASE_MAX_IDLE_CONN", 10)),
		DBMaxOpenConn:       int(getenvInt64("DATABASE_MAX_OPEN_CONN", 50)),
		DBConnMaxLifetime:   int(getenvInt64("DATABASE_CONN_MAX_LIFETIME", 300)),
		DBConnMaxIdleTime:   int(getenvInt64("DATABASE_CONN_MAX_IDLE_TIME", 60)),
		RedisAddr:           strings.TrimSpace(getenv("REDIS_ADDR", "")),
		RedisPassword:       getenv("REDIS_PASSWORD", ""),
		RedisDB:             int(getenvInt64("REDIS_DB", 0)),
	}

	return cfg, nil
}

func (c Config) IsProduction() bool {
	return c.Environment == EnvProduction
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvBool(key string, def bool) bool {
	value := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	if value == "" {
		return def
	}
	switch value {
	case "1", "true", "yes", "y", "on":
		return true
	case "0", "false", "no", "n", "off":
		return false
	default:
		return def
	}
}

func getenvInt64(key string, def int64) int64 {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	parsed, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return def
	}
	return parsed
}

func getenvFloat(key string, def float64) float64 {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil || parsed <= 0 {
		return def
	}
	return parsed
}

func getenvDuration(key string, def time.Duration) time.Duration {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	parsed, err := ParseDuration(value)
	if err != nil || parsed <= 0 {
		return def
	}
	return parsed
}

// ParseDuration extends time.ParseDuration with a whole-day "d" unit.
func ParseDuration(value string) (time.Duration, error) {
	value = strings.TrimSpace(value)
	if days, ok := strings.CutSuffix(value, "d"); ok {
		n, err := strconv.Atoi(days)
		if err != nil {
			return 0, err
		}
		return time.Duration(n) * 24 * time.Hour, nil
	}
	return time.ParseDuration(value)
}

func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		out = append(out, p)
	}
	return out
}
