package config

import (
	"os"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	DatabaseURL   string
	JWTSecret     string
	Port          string
	AdminLogin    string
	AdminPassword string
	Timezone      string
	Debug         bool
	TokenTTL      time.Duration
}

// Load reads settings from the environment, after loading a .env file if one
// exists in the working directory.
func Load() *Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Warnf("config: could not load .env: %v", err)
	}

	v := viper.New()
	v.SetTypeByDefaultValue(true)
	v.SetDefault("DATABASE_URL", "taskboard.db")
	v.SetDefault("JWT_SECRET", "your-secret-key-change-in-production")
	v.SetDefault("PORT", "8080")
	v.SetDefault("ADMIN_LOGIN", "admin")
	v.SetDefault("ADMIN_PASSWORD", "")
	v.SetDefault("TIMEZONE", "Local")
	v.SetDefault("DEBUG", false)
	v.SetDefault("TOKEN_TTL", 7*24*time.Hour)
	v.AutomaticEnv()

	return &Config{
		DatabaseURL:   v.GetString("DATABASE_URL"),
		JWTSecret:     v.GetString("JWT_SECRET"),
		Port:          v.GetString("PORT"),
		AdminLogin:    v.GetString("ADMIN_LOGIN"),
		AdminPassword: v.GetString("ADMIN_PASSWORD"),
		Timezone:      v.GetString("TIMEZONE"),
		Debug:         v.GetBool("DEBUG"),
		TokenTTL:      v.GetDuration("TOKEN_TTL"),
	}
}

// Location resolves the configured time zone, falling back to the server's
// local zone when the name is unknown.
func (c *Config) Location() *time.Location {
	if c.Timezone == "" || c.Timezone == "Local" {
		return time.Local
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		log.Warnf("config: unknown TIMEZONE %q, using local time", c.Timezone)
		return time.Local
	}
	return loc
}
