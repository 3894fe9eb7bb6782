package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// Config holds the configuration for the API and the manage command.
type Config struct {
	AppEnv   string          `koanf:"app_env"`
	HTTP     HTTPConfig      `koanf:"http"`
	Database DatabaseConfig  `koanf:"database"`
	Auth     AuthConfig      `koanf:"auth"`
	Redis    RedisConfig     `koanf:"redis"`
	Shopping ShoppingConfig  `koanf:"shopping"`
	Media    MediaConfig     `koanf:"media"`
	S3       S3Config        `koanf:"s3"`
	Super    SuperuserConfig `koanf:"superuser"`
}

type HTTPConfig struct {
	Addr        string   `koanf:"addr"`
	CORSOrigins []string `koanf:"cors_origins"`
}

type DatabaseConfig struct {
	URL string `koanf:"url"`
}

type AuthConfig struct {
	JWTSecret string        `koanf:"jwt_secret"`
	TokenTTL  time.Duration `koanf:"token_ttl"`
}

type RedisConfig struct {
	Addr string `koanf:"addr"`
}

// ShoppingConfig drives the shopping list PDF renderer.
// FontPath is required unless Transliterate is on.
type ShoppingConfig struct {
	FontPath      string `koanf:"font_path"`
	Transliterate bool   `koanf:"transliterate"`
	TempDir       string `koanf:"temp_dir"`
}

type MediaConfig struct {
	Root string `koanf:"root"`
	URL  string `koanf:"url"`
}

// S3Config is optional. When Bucket is empty images go to Media.Root.
type S3Config struct {
	Endpoint      string `koanf:"endpoint"`
	AccessKey     string `koanf:"access_key"`
	SecretKey     string `koanf:"secret_key"`
	Bucket        string `koanf:"bucket"`
	PublicBaseURL string `koanf:"public_base_url"`
}

type SuperuserConfig struct {
	Email     string `koanf:"email"`
	Username  string `koanf:"username"`
	FirstName string `koanf:"first_name"`
	LastName  string `koanf:"last_name"`
	Password  string `koanf:"password"`
}

func defaultConfig() *Config {
	return &Config{
		AppEnv: "development",
		HTTP: HTTPConfig{
			Addr:        ":8000",
			CORSOrigins: []string{"http://localhost:3000"},
		},
		Auth: AuthConfig{
			TokenTTL: 24 * time.Hour,
		},
		Shopping: ShoppingConfig{
			FontPath: "data/fonts/NotoSans-Regular.ttf",
		},
		Media: MediaConfig{
			Root: "media",
			URL:  "/media",
		},
		Super: SuperuserConfig{
			Email:     "admin@admin.com",
			Username:  "admin",
			FirstName: "admin",
			LastName:  "admin",
			Password:  "admin",
		},
	}
}

var envMappings = map[string]string{
	"app_env":                "app_env",
	"http_addr":              "http.addr",
	"cors_origins":           "http.cors_origins",
	"database_url":           "database.url",
	"jwt_secret":             "auth.jwt_secret",
	"jwt_ttl":                "auth.token_ttl",
	"redis_addr":             "redis.addr",
	"shopping_font_path":     "shopping.font_path",
	"shopping_transliterate": "shopping.transliterate",
	"shopping_temp_dir":      "shopping.temp_dir",
	"media_root":             "media.root",
	"media_url":              "media.url",
	"s3_endpoint":            "s3.endpoint",
	"s3_access_key":          "s3.access_key",
	"s3_secret_key":          "s3.secret_key",
	"s3_bucket":              "s3.bucket",
	"s3_public_base_url":     "s3.public_base_url",
	"superuser_email":        "superuser.email",
	"superuser_username":     "superuser.username",
	"superuser_first_name":   "superuser.first_name",
	"superuser_last_name":    "superuser.last_name",
	"superuser_password":     "superuser.password",
}

var sliceConfigPaths = []string{"http.cors_origins"}

func envTransformFunc(key string) string {
	return envMappings[strings.ToLower(key)]
}

// Load reads .env (outside production), then layers defaults and environment.
func Load() (*Config, error) {
	if os.Getenv("APP_ENV") != "production" {
		_ = godotenv.Load()
	}

	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	return cfg, nil
}

func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok || strVal == "" {
			continue
		}
		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if err := k.Set(path, trimmed); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}

// Validate checks the settings the API cannot start without.
func (c *Config) Validate() error {
	var errs []error
	if c.Database.URL == "" {
		errs = append(errs, errors.New("DATABASE_URL is not set"))
	}
	if c.Auth.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET is not set"))
	}
	if c.Auth.TokenTTL <= 0 {
		errs = append(errs, errors.New("JWT_TTL must be positive"))
	}
	if !c.Shopping.Transliterate && c.Shopping.FontPath == "" {
		errs = append(errs, errors.New("SHOPPING_FONT_PATH is required unless SHOPPING_TRANSLITERATE is on"))
	}
	return errors.Join(errs...)
}

func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.AppEnv, "production")
}

// UseS3 reports whether recipe images go to object storage.
func (c *Config) UseS3() bool {
	return c.S3.Bucket != ""
}
