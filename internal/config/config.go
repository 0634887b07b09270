package config

import (
	"os"
	"strings"
)

type Config struct {
	Server   ServerConfig
	Auth     AuthConfig
	Postgres PostgresConfig
	Media    MediaConfig
}

type ServerConfig struct {
	Port             string
	Env              string
	LogLevel         string
	WhitelistOrigins []string
	RateLimitPerMin  string
	RateLimitBurst   string
}

type AuthConfig struct {
	AccessSecret   string
	RefreshSecret  string
	AccessTTL      string
	RefreshTTL     string
	CookieDomain   string
	CookiePath     string
	CookieSecure   string
	CookieSameSite string
}

type PostgresConfig struct {
	DatabaseURL string
	Host        string
	Port        string
	User        string
	Password    string
	Database    string
	SSLMode     string
}

type MediaConfig struct {
	Bucket       string
	Region       string
	Endpoint     string
	AccessKey    string
	SecretKey    string
	UsePathStyle string
	PublicBase   string
}

func Load() Config {
	return Config{
		Server: ServerConfig{
			Port:             getenv("PORT", "3000"),
			Env:              getenv("APP_ENV", "development"),
			LogLevel:         getenv("LOG_LEVEL", "info"),
			WhitelistOrigins: splitList(getenv("WHITELIST_ORIGINS", "http://localhost:5173,http://localhost:5174")),
			RateLimitPerMin:  getenv("RATE_LIMIT_PER_MIN", "60"),
			RateLimitBurst:   getenv("RATE_LIMIT_BURST", "10"),
		},
		Auth: AuthConfig{
			AccessSecret:   os.Getenv("JWT_ACCESS_SECRET"),
			RefreshSecret:  os.Getenv("JWT_REFRESH_SECRET"),
			AccessTTL:      getenv("ACCESS_TOKEN_EXPIRY", "15m"),
			RefreshTTL:     getenv("REFRESH_TOKEN_EXPIRY", "168h"),
			CookieDomain:   os.Getenv("AUTH_COOKIE_DOMAIN"),
			CookiePath:     getenv("AUTH_COOKIE_PATH", "/"),
			CookieSecure:   os.Getenv("AUTH_COOKIE_SECURE"),
			CookieSameSite: getenv("AUTH_COOKIE_SAMESITE", "strict"),
		},
		Postgres: PostgresConfig{
			DatabaseURL: os.Getenv("DATABASE_URL"),
			Host:        getenv("PGHOST", "localhost"),
			Port:        getenv("PGPORT", "5432"),
			User:        os.Getenv("PGUSER"),
			Password:    os.Getenv("PGPASSWORD"),
			Database:    os.Getenv("PGDATABASE"),
			SSLMode:     getenv("PGSSLMODE", "disable"),
		},
		Media: MediaConfig{
			Bucket:       os.Getenv("MEDIA_BUCKET"),
			Region:       getenv("MEDIA_REGION", "us-east-1"),
			Endpoint:     os.Getenv("MEDIA_ENDPOINT"),
			AccessKey:    os.Getenv("MEDIA_ACCESS_KEY"),
			SecretKey:    os.Getenv("MEDIA_SECRET_KEY"),
			UsePathStyle: os.Getenv("MEDIA_USE_PATH_STYLE"),
			PublicBase:   os.Getenv("MEDIA_PUBLIC_BASE_URL"),
		},
	}
}

func (c Config) IsProduction() bool {
	return strings.EqualFold(c.Server.Env, "production")
}

func getenv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func splitList(val string) []string {
	parts := strings.Split(val, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
