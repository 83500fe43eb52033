package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the application configuration.
type Config struct {
	ServerPort      int           `yaml:"port"`
	DatabasePath    string        `yaml:"database_path"`
	JWTSecret       string        `yaml:"jwt_secret"`
	AccessTokenTTL  time.Duration `yaml:"access_token_ttl"`
	RefreshTokenTTL time.Duration `yaml:"refresh_token_ttl"`
	AllowedOrigins  []string      `yaml:"allowed_origins"`
	LogLevel        string        `yaml:"log_level"`
	Env             string        `yaml:"env"`

	Superuser SuperuserConfig `yaml:"superuser"`
}

// SuperuserConfig drives the optional admin bootstrap on startup.
type SuperuserConfig struct {
	Create   bool   `yaml:"create"`
	Username string `yaml:"username"`
	Email    string `yaml:"email"`
	Password string `yaml:"password"`
}

const devJWTSecret = "devcheck-insecure-development-secret"

// IsProduction reports whether the service runs with production settings.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Load builds the configuration from defaults, an optional YAML file named by
// CONFIG_FILE, and finally environment variables.
func Load() (*Config, error) {
	cfg := defaults()

	if path := getEnv("CONFIG_FILE", ""); path != "" {
		if err := cfg.mergeFile(path); err != nil {
			return nil, err
		}
	}

	if err := cfg.mergeEnv(); err != nil {
		return nil, err
	}

	if cfg.JWTSecret == "" {
		if cfg.IsProduction() {
			return nil, errors.New("JWT_SECRET must be set in production")
		}
		cfg.JWTSecret = devJWTSecret
	}
	return cfg, nil
}

func defaults() *Config {
	return &Config{
		ServerPort:      8080,
		DatabasePath:    "./devcheck.db",
		AccessTokenTTL:  30 * time.Minute,
		RefreshTokenTTL: 24 * time.Hour,
		AllowedOrigins:  []string{"http://localhost:5173", "http://localhost:3000"},
		LogLevel:        "info",
		Env:             "development",
		Superuser: SuperuserConfig{
			Username: "admin",
			Email:    "admin@example.com",
		},
	}
}

func (c *Config) mergeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parsing config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) mergeEnv() error {
	if v, ok := os.LookupEnv("PORT"); ok {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid PORT %q: %w", v, err)
		}
		c.ServerPort = port
	}
	c.DatabasePath = getEnv("DATABASE_PATH", c.DatabasePath)
	c.JWTSecret = getEnv("JWT_SECRET", c.JWTSecret)
	c.LogLevel = getEnv("LOG_LEVEL", c.LogLevel)
	c.Env = getEnv("APP_ENV", c.Env)

	var err error
	if c.AccessTokenTTL, err = getDuration("ACCESS_TOKEN_TTL", c.AccessTokenTTL); err != nil {
		return err
	}
	if c.RefreshTokenTTL, err = getDuration("REFRESH_TOKEN_TTL", c.RefreshTokenTTL); err != nil {
		return err
	}

	if v, ok := os.LookupEnv("ALLOWED_ORIGINS"); ok {
		c.AllowedOrigins = splitList(v)
	}

	// Matches the value the deployment scripts have always exported.
	if v, ok := os.LookupEnv("CREATE_SUPERUSER"); ok {
		c.Superuser.Create = v == "True"
	}
	c.Superuser.Username = getEnv("SUPERUSER_USERNAME", c.Superuser.Username)
	c.Superuser.Email = getEnv("SUPERUSER_EMAIL", c.Superuser.Email)
	c.Superuser.Password = getEnv("SUPERUSER_PASSWORD", c.Superuser.Password)
	return nil
}

// Helper to get an environment variable with a default value.
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	v, ok := os.LookupEnv(key)
	if !ok {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	return d, nil
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
