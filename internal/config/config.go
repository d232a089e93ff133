package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"
)

// DefaultJWTSecret is only accepted when USTABUL_ENV=development.
const DefaultJWTSecret = "supersecretkey"

type Config struct {
	Addr           string        `yaml:"addr"`
	JWTSecret      string        `yaml:"jwt_secret"`
	APITimeout     time.Duration `yaml:"timeout"`
	DatabasePath   string        `yaml:"database_path"`
	TokenDuration  time.Duration `yaml:"token_duration"`
	UploadDir      string        `yaml:"upload_dir"`
	CORSOrigins    []string      `yaml:"cors_origins"`
	RedisURL       string        `yaml:"redis_url"`
	SweeperSpec    string        `yaml:"sweeper_spec"`
	MigrateOnStart bool          `yaml:"migrate_on_start"`
	Marketplace    Marketplace   `yaml:"marketplace"`
}

type Marketplace struct {
	// EnforceOwnership makes accept/reject require the caller to own the job.
	EnforceOwnership bool          `yaml:"enforce_ownership"`
	JobLifetime      time.Duration `yaml:"job_lifetime"`
	MaxUploadBytes   int64         `yaml:"max_upload_bytes"`
}

func LoadConfig(path string) (*Config, error) {
	cfg := &Config{
		Addr:           getEnv("USTABUL_ADDR", ":8000"),
		JWTSecret:      getEnv("USTABUL_JWT_SECRET", DefaultJWTSecret),
		APITimeout:     15 * time.Second,
		DatabasePath:   getEnv("USTABUL_DATABASE_PATH", "ustabul.db"),
		TokenDuration:  7 * 24 * time.Hour,
		UploadDir:      getEnv("USTABUL_UPLOAD_DIR", "uploads"),
		CORSOrigins:    splitList(getEnv("USTABUL_CORS_ORIGINS", "*")),
		RedisURL:       getEnv("USTABUL_REDIS_URL", ""),
		SweeperSpec:    getEnv("USTABUL_SWEEPER_SPEC", "@every 10m"),
		MigrateOnStart: getEnv("USTABUL_MIGRATE_ON_START", "true") == "true",
		Marketplace: Marketplace{
			EnforceOwnership: getEnv("USTABUL_ENFORCE_OWNERSHIP", "false") == "true",
			JobLifetime:      30 * 24 * time.Hour,
			MaxUploadBytes:   10 << 20,
		},
	}
	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()

		dec := yaml.NewDecoder(f)
		if err := dec.Decode(cfg); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

// Validate checks the loaded configuration before the server starts.
func (c *Config) Validate() error {
	var errs []error

	if c.Addr == "" {
		errs = append(errs, errors.New("addr is required"))
	}
	if c.DatabasePath == "" {
		errs = append(errs, errors.New("database_path is required"))
	}
	if c.JWTSecret == "" {
		errs = append(errs, errors.New("jwt_secret is required"))
	} else if c.JWTSecret == DefaultJWTSecret && !IsDevelopment() {
		errs = append(errs, errors.New("jwt_secret uses the insecure default; set USTABUL_JWT_SECRET or USTABUL_ENV=development"))
	}
	if c.APITimeout <= 0 {
		errs = append(errs, fmt.Errorf("timeout must be positive, got %v", c.APITimeout))
	}
	if c.TokenDuration <= 0 {
		errs = append(errs, fmt.Errorf("token_duration must be positive, got %v", c.TokenDuration))
	}
	if c.UploadDir == "" {
		errs = append(errs, errors.New("upload_dir is required"))
	}
	if c.Marketplace.JobLifetime <= 0 {
		errs = append(errs, fmt.Errorf("marketplace.job_lifetime must be positive, got %v", c.Marketplace.JobLifetime))
	}
	if c.Marketplace.MaxUploadBytes <= 0 {
		errs = append(errs, fmt.Errorf("marketplace.max_upload_bytes must be positive, got %d", c.Marketplace.MaxUploadBytes))
	}
	if c.SweeperSpec != "" {
		if _, err := cron.ParseStandard(c.SweeperSpec); err != nil {
			errs = append(errs, fmt.Errorf("sweeper_spec: %w", err))
		}
	}

	return errors.Join(errs...)
}

// IsDevelopment reports whether USTABUL_ENV selects the development profile.
func IsDevelopment() bool {
	return strings.EqualFold(os.Getenv("USTABUL_ENV"), "development")
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return def
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
