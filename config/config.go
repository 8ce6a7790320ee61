package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
	EnvTest        = "test"

	defaultJWTSecret = "projectflow-dev-secret-change-me"
)

// Config holds everything the service reads from the environment.
type Config struct {
	Port         string
	Environment  string
	DatabasePath string

	JWTSecret    string
	JWTExpiresIn time.Duration
	BcryptCost   int

	CORSOrigin string

	UploadDir      string
	MaxUploadBytes int64

	LogFile  string
	LogLevel string

	MongoURI        string
	MongoDBName     string
	MongoCollection string

	CassandraHosts    []string
	CassandraKeyspace string
}

// Load reads an optional .env file and then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from a lookup function. Missing keys fall back to
// development defaults.
func FromEnv(getenv func(string) string) (*Config, error) {
	get := func(key, def string) string {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			return v
		}
		return def
	}

	cfg := &Config{
		Port:              get("SERVER_PORT", "3001"),
		Environment:       strings.ToLower(get("APP_ENV", EnvDevelopment)),
		DatabasePath:      get("DATABASE_PATH", "data/projectflow.db"),
		JWTSecret:         get("JWT_SECRET", defaultJWTSecret),
		CORSOrigin:        get("CORS_ORIGIN", "http://localhost:5175"),
		UploadDir:         get("UPLOAD_DIR", "uploads"),
		LogFile:           get("LOG_FILE", "logs/projectflow.log"),
		LogLevel:          get("LOG_LEVEL", "info"),
		MongoURI:          get("MONGO_URI", ""),
		MongoDBName:       get("MONGO_DB_NAME", "projectflow"),
		MongoCollection:   get("MONGO_COLLECTION", "activities"),
		CassandraKeyspace: get("CASS_KEYSPACE", "notifications"),
	}

	expires, err := ParseExpiry(get("JWT_EXPIRES_IN", "7d"))
	if err != nil {
		return nil, fmt.Errorf("invalid JWT_EXPIRES_IN: %w", err)
	}
	cfg.JWTExpiresIn = expires

	cost, err := strconv.Atoi(get("BCRYPT_COST", "12"))
	if err != nil || cost < 4 || cost > 31 {
		return nil, fmt.Errorf("invalid BCRYPT_COST %q: must be an integer between 4 and 31", getenv("BCRYPT_COST"))
	}
	cfg.BcryptCost = cost

	maxMB, err := strconv.Atoi(get("MAX_UPLOAD_MB", "10"))
	if err != nil || maxMB <= 0 {
		return nil, fmt.Errorf("invalid MAX_UPLOAD_MB %q: must be a positive integer", getenv("MAX_UPLOAD_MB"))
	}
	cfg.MaxUploadBytes = int64(maxMB) << 20

	if hosts := get("CASS_DB", ""); hosts != "" {
		for _, h := range strings.Split(hosts, ",") {
			if h = strings.TrimSpace(h); h != "" {
				cfg.CassandraHosts = append(cfg.CassandraHosts, h)
			}
		}
	}

	return cfg, nil
}

// ParseExpiry accepts Go durations ("36h") and day counts ("7d").
func ParseExpiry(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if strings.HasSuffix(s, "d") {
		days, err := strconv.Atoi(strings.TrimSuffix(s, "d"))
		if err != nil || days <= 0 {
			return 0, fmt.Errorf("bad day count %q", s)
		}
		return time.Duration(days) * 24 * time.Hour, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, err
	}
	if d <= 0 {
		return 0, fmt.Errorf("expiry must be positive, got %s", d)
	}
	return d, nil
}

func (c *Config) IsDevelopment() bool {
	return c.Environment == EnvDevelopment
}

// UsesDefaultSecret reports whether JWT_SECRET was left unset.
func (c *Config) UsesDefaultSecret() bool {
	return c.JWTSecret == defaultJWTSecret
}

func (c *Config) Addr() string {
	return ":" + strings.TrimPrefix(c.Port, ":")
}
