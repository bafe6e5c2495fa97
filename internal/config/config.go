package config

import (
	"crypto/sha256"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"

	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

type Config struct {
	Environment             string
	ServerPort              string
	ServerReadHeaderTimeout time.Duration
	ServerWriteTimeout      time.Duration
	ServerIdleTimeout       time.Duration
	RequestTimeout          time.Duration
	JWTSecret               string
	JWTExpiresIn            time.Duration
	BcryptCost              int
	DBDriver                string
	DBFile                  string
	DatabaseURL             string
	DBMaxConns              int32
	DBMinConns              int32
	CSRFCookieKey           []byte
	CORSOrigins             []string
	StaticDir               string
	SeedDemoUser            bool
	GenericSignupConflicts  bool
	LogLevel                string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	env := getEnv("APP_ENV", getEnv("NODE_ENV", EnvDevelopment))

	cfg := &Config{
		Environment:             strings.ToLower(env),
		ServerPort:              getEnv("SERVER_PORT", getEnv("PORT", "8000")),
		ServerReadHeaderTimeout: getDuration("SERVER_READ_HEADER_TIMEOUT", 15*time.Second),
		ServerWriteTimeout:      getDuration("SERVER_WRITE_TIMEOUT", 30*time.Second),
		ServerIdleTimeout:       getDuration("SERVER_IDLE_TIMEOUT", 120*time.Second),
		RequestTimeout:          getDuration("REQUEST_TIMEOUT", 30*time.Second),
		JWTSecret:               strings.TrimSpace(os.Getenv("JWT_SECRET")),
		JWTExpiresIn:            time.Duration(getInt("JWT_EXPIRES_IN", 604800)) * time.Second,
		BcryptCost:              getInt("BCRYPT_COST", bcrypt.DefaultCost),
		DBDriver:                strings.ToLower(getEnv("DB_DRIVER", DriverSQLite)),
		DBFile:                  getEnv("DB_FILE", "./db/dev.db"),
		DatabaseURL:             strings.TrimSpace(os.Getenv("DATABASE_URL")),
		DBMaxConns:              int32(getInt("DB_MAX_CONNS", 10)),
		DBMinConns:              int32(getInt("DB_MIN_CONNS", 1)),
		CORSOrigins:             splitCSV(getEnv("CORS_ORIGINS", "http://localhost:3000")),
		StaticDir:               getEnv("STATIC_DIR", "../frontend/build"),
		SeedDemoUser:            getBool("SEED_DEMO_USER", false),
		GenericSignupConflicts:  getBool("SIGNUP_GENERIC_CONFLICTS", false),
		LogLevel:                strings.ToLower(getEnv("LOG_LEVEL", "info")),
	}

	if key := strings.TrimSpace(os.Getenv("CSRF_COOKIE_KEY")); key != "" {
		cfg.CSRFCookieKey = []byte(key)
	} else if cfg.JWTSecret != "" {
		cfg.CSRFCookieKey = DeriveKey(cfg.JWTSecret, "csrf-cookie")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if strings.TrimSpace(c.JWTSecret) == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}

	if c.JWTExpiresIn <= 0 {
		return fmt.Errorf("JWT_EXPIRES_IN must be positive")
	}

	if c.ServerPort == "" {
		return fmt.Errorf("SERVER_PORT cannot be empty")
	}

	if c.RequestTimeout <= 0 {
		return fmt.Errorf("REQUEST_TIMEOUT must be positive")
	}

	if c.BcryptCost < bcrypt.MinCost || c.BcryptCost > bcrypt.MaxCost {
		return fmt.Errorf("BCRYPT_COST must be between %d and %d", bcrypt.MinCost, bcrypt.MaxCost)
	}

	if len(c.CSRFCookieKey) < 32 {
		return fmt.Errorf("CSRF_COOKIE_KEY must be at least 32 bytes")
	}

	switch c.DBDriver {
	case DriverSQLite:
		if strings.TrimSpace(c.DBFile) == "" {
			return fmt.Errorf("DB_FILE cannot be empty")
		}
	case DriverPostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required when DB_DRIVER=postgres")
		}
		if c.DBMaxConns <= 0 || c.DBMinConns < 0 || c.DBMinConns > c.DBMaxConns {
			return fmt.Errorf("DB_MIN_CONNS/DB_MAX_CONNS are out of range")
		}
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}

	return nil
}

func (c *Config) IsProduction() bool {
	return c.Environment == EnvProduction
}

// DeriveKey stretches a secret into a 32-byte key scoped by purpose.
func DeriveKey(secret string, purpose string) []byte {
	sum := sha256.Sum256([]byte(purpose + ":" + secret))
	return sum[:]
}

func getEnv(key string, fallback string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}

	return v
}

func getInt(key string, fallback int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}

	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}

	return v
}

func getBool(key string, fallback bool) bool {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}

	v, err := strconv.ParseBool(raw)
	if err != nil {
		return fallback
	}

	return v
}

func getDuration(key string, fallback time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}

	v, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return v
}

func splitCSV(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed == "" {
			continue
		}
		out = append(out, trimmed)
	}

	return out
}
