package config

import (
	"errors"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/tropicaldog17/lessondesk/internal/db"
)

// Config holds all configuration values.
type Config struct {
	Env                string
	Port               string
	Database           db.Config
	RedisAddr          string
	RedisPassword      string
	RedisDB            int
	AllowedChannels    []string
	DisabledChannels   []string
	DraftSigningSecret string
	RateLimitPerMinute int
}

// IsProduction reports whether the service runs with production settings.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Load reads configuration from an optional .env file, an optional config.yaml and the
// environment, in increasing order of precedence.
func Load() (*Config, error) {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	return fromViper(v), nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("SERVER_PORT", "8080")
	v.SetDefault("DB_DRIVER", "postgres")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5433")
	v.SetDefault("DB_USER", "lessondesk_user")
	v.SetDefault("DB_PASSWORD", "lessondesk_password")
	v.SetDefault("DB_NAME", "lessondesk")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("SQLITE_PATH", "lessondesk.db")
	v.SetDefault("REDIS_ADDR", "")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("ALLOWED_CHANNELS", "sms,whatsapp,email,web")
	v.SetDefault("DISABLED_CHANNELS", "")
	v.SetDefault("DRAFT_SIGNING_SECRET", "")
	v.SetDefault("RATE_LIMIT_PER_MINUTE", 120)
}

func fromViper(v *viper.Viper) *Config {
	return &Config{
		Env:  v.GetString("APP_ENV"),
		Port: v.GetString("SERVER_PORT"),
		Database: db.Config{
			Driver:     v.GetString("DB_DRIVER"),
			Host:       v.GetString("DB_HOST"),
			Port:       v.GetString("DB_PORT"),
			User:       v.GetString("DB_USER"),
			Password:   v.GetString("DB_PASSWORD"),
			Name:       v.GetString("DB_NAME"),
			SSLMode:    v.GetString("DB_SSL_MODE"),
			SQLitePath: v.GetString("SQLITE_PATH"),
		},
		RedisAddr:          v.GetString("REDIS_ADDR"),
		RedisPassword:      v.GetString("REDIS_PASSWORD"),
		RedisDB:            v.GetInt("REDIS_DB"),
		AllowedChannels:    splitList(v.GetString("ALLOWED_CHANNELS")),
		DisabledChannels:   splitList(v.GetString("DISABLED_CHANNELS")),
		DraftSigningSecret: v.GetString("DRAFT_SIGNING_SECRET"),
		RateLimitPerMinute: v.GetInt("RATE_LIMIT_PER_MINUTE"),
	}
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		part = strings.ToLower(strings.TrimSpace(part))
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
