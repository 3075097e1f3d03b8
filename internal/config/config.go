package config

import (
	"errors"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const devJWTSecret = "dev-only-jwt-secret"

// Config holds the runtime settings of the API server.
type Config struct {
	Env            string
	Port           string
	DBDriver       string
	DBDSN          string
	JWTSecret      string
	TokenTTL       time.Duration
	RequestTimeout time.Duration
	RabbitMQURL    string
	GoogleClientID string
	CORSOrigins    []string
	LogLevel       string
	LogFormat      string
	// AuthRateLimit is the number of login/register attempts allowed per
	// client IP and minute; 0 disables the limit.
	AuthRateLimit int
}

// IsProduction reports whether internal error details must be hidden.
func (c Config) IsProduction() bool {
	return c.Env == "production"
}

// Load reads an optional .env file and then the environment.
func Load() (Config, error) {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	v := viper.New()
	SetDefaults(v)
	v.AutomaticEnv()
	return FromViper(v)
}

// SetDefaults registers the default value of every key.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("APP_PORT", ":8080")
	v.SetDefault("DATABASE_DRIVER", "sqlite")
	v.SetDefault("DATABASE_DSN", "bookclub.db")
	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("TOKEN_TTL", "24h")
	v.SetDefault("REQUEST_TIMEOUT", "5s")
	v.SetDefault("RABBITMQ_URL", "")
	v.SetDefault("GOOGLE_CLIENT_ID", "")
	v.SetDefault("CORS_ORIGINS", "http://localhost:3000,http://localhost:5173")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
	v.SetDefault("AUTH_RATE_LIMIT", 20)
}

// FromViper builds a Config from an already populated viper instance.
func FromViper(v *viper.Viper) (Config, error) {
	cfg := Config{
		Env:            strings.ToLower(v.GetString("APP_ENV")),
		Port:           v.GetString("APP_PORT"),
		DBDriver:       strings.ToLower(v.GetString("DATABASE_DRIVER")),
		DBDSN:          v.GetString("DATABASE_DSN"),
		JWTSecret:      v.GetString("JWT_SECRET"),
		TokenTTL:       v.GetDuration("TOKEN_TTL"),
		RequestTimeout: v.GetDuration("REQUEST_TIMEOUT"),
		RabbitMQURL:    v.GetString("RABBITMQ_URL"),
		GoogleClientID: v.GetString("GOOGLE_CLIENT_ID"),
		CORSOrigins:    splitList(v.GetString("CORS_ORIGINS")),
		LogLevel:       v.GetString("LOG_LEVEL"),
		LogFormat:      v.GetString("LOG_FORMAT"),
		AuthRateLimit:  v.GetInt("AUTH_RATE_LIMIT"),
	}

	if cfg.JWTSecret == "" {
		if cfg.IsProduction() {
			return Config{}, errors.New("JWT_SECRET must be set in production")
		}
		cfg.JWTSecret = devJWTSecret
	}
	if cfg.TokenTTL <= 0 {
		return Config{}, errors.New("TOKEN_TTL must be a positive duration")
	}
	if cfg.RequestTimeout <= 0 {
		return Config{}, errors.New("REQUEST_TIMEOUT must be a positive duration")
	}
	if cfg.AuthRateLimit < 0 {
		return Config{}, errors.New("AUTH_RATE_LIMIT must not be negative")
	}
	switch cfg.DBDriver {
	case "sqlite", "postgres":
	default:
		return Config{}, errors.New("DATABASE_DRIVER must be sqlite or postgres")
	}
	return cfg, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
