package main

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config carries everything the service reads from the environment. SMTP
// values are server-wide fallbacks; users normally configure their own
// account via /settings/smtp.
type Config struct {
	DSN          string `mapstructure:"db_dsn"`
	AutoMigrate  bool   `mapstructure:"db_auto_migrate"`
	JWTSecret    string `mapstructure:"jwt_secret"`
	ListenAddr   string `mapstructure:"listen_addr"`
	SMTPHost     string `mapstructure:"smtp_host"`
	SMTPPort     int    `mapstructure:"smtp_port"`
	SMTPUser     string `mapstructure:"smtp_user"`
	SMTPPassword string `mapstructure:"smtp_password"`
	SMTPFrom     string `mapstructure:"smtp_from"`
}

// LoadConfig reads a local .env (if present, never overriding already-set
// variables) and then the environment. Keys map to their upper-cased env
// names (db_dsn -> DB_DSN).
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetDefault("db_auto_migrate", true)
	v.SetDefault("jwt_secret", "dev-insecure-secret-change") // development fallback
	v.SetDefault("listen_addr", ":8081")
	v.SetDefault("smtp_port", 587)
	v.AutomaticEnv()
	for _, key := range []string{
		"db_dsn", "db_auto_migrate", "jwt_secret", "listen_addr",
		"smtp_host", "smtp_port", "smtp_user", "smtp_password", "smtp_from",
	} {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("bind env %s: %w", key, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parse configuration: %w", err)
	}
	return &cfg, nil
}
