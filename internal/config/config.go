package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all the environment‐driven settings for the API server and the cache warmer.
type Config struct {
	// Database (Postgres), used by the cache warmer to read stored favorites
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresHost     string
	PostgresPort     int
	DatabaseURL      string

	// OpenWeatherMap
	OpenWeatherMapOrgKey string
	OpenWeatherMapURL    string
	UpstreamTimeout      time.Duration

	// Redis (envelope cache). Empty address disables caching.
	RedisPassword string
	RedisAddr     string
	CacheTTL      time.Duration

	// API
	Port           string
	StaticDir      string
	AllowedOrigins []string

	// Scheduler
	WarmSchedule string
}

// ClientConfig holds the settings of the terminal client.
type ClientConfig struct {
	ServerURL     string
	Timeout       time.Duration
	PrefsBackend  string // "sqlite" | "postgres" | "redis"
	PrefsDSN      string
	Profile       string
	RedisAddr     string
	RedisPassword string
}

const (
	defaultOpenWeatherMapURL = "https://api.openweathermap.org"
	defaultWarmSchedule      = "*/10 * * * *"
)

// loadDotEnv reads a .env file from the working directory when one exists.
// Variables already present in the environment win.
func loadDotEnv() {
	_ = godotenv.Load()
}

// Load reads and validates the variables the API server needs, applying defaults
// where appropriate. It returns an error if any required variable is missing or malformed.
func Load() (*Config, error) {
	loadDotEnv()

	cfg := &Config{}
	if err := loadWeather(cfg); err != nil {
		return nil, err
	}
	if err := loadRedis(cfg); err != nil {
		return nil, err
	}

	cfg.Port = os.Getenv("PORT")
	if cfg.Port == "" {
		cfg.Port = "8080"
	}
	cfg.StaticDir = os.Getenv("STATIC_DIR")
	cfg.AllowedOrigins = splitList(os.Getenv("CORS_ALLOWED_ORIGINS"))

	return cfg, nil
}

// LoadScheduler reads the variables the cache warmer needs. Postgres and Redis are both
// required: the warmer has nothing to do without a preference store or a cache.
func LoadScheduler() (*Config, error) {
	loadDotEnv()

	cfg := &Config{}
	if err := loadWeather(cfg); err != nil {
		return nil, err
	}
	if err := loadRedis(cfg); err != nil {
		return nil, err
	}
	if cfg.RedisAddr == "" {
		return nil, fmt.Errorf("REDIS_ADDR is required")
	}
	if err := loadPostgres(cfg); err != nil {
		return nil, err
	}

	cfg.WarmSchedule = os.Getenv("WARM_SCHEDULE")
	if cfg.WarmSchedule == "" {
		cfg.WarmSchedule = defaultWarmSchedule
	}
	return cfg, nil
}

// LoadClient reads the terminal client settings. Nothing is required.
func LoadClient() (*ClientConfig, error) {
	loadDotEnv()

	cfg := &ClientConfig{
		ServerURL:     os.Getenv("WEATHERWISE_SERVER_URL"),
		PrefsBackend:  os.Getenv("WEATHERWISE_PREFS_BACKEND"),
		PrefsDSN:      os.Getenv("WEATHERWISE_PREFS_DSN"),
		Profile:       os.Getenv("WEATHERWISE_PROFILE"),
		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
	}
	if cfg.ServerURL == "" {
		cfg.ServerURL = "http://localhost:8080"
	}
	if cfg.Profile == "" {
		cfg.Profile = "default"
	}

	timeout, err := durationOrDefault("WEATHERWISE_TIMEOUT", 15*time.Second)
	if err != nil {
		return nil, err
	}
	cfg.Timeout = timeout

	switch cfg.PrefsBackend {
	case "", "sqlite":
		cfg.PrefsBackend = "sqlite"
		if cfg.PrefsDSN == "" {
			cfg.PrefsDSN = "weatherwise.db"
		}
	case "postgres":
		if cfg.PrefsDSN == "" {
			return nil, fmt.Errorf("WEATHERWISE_PREFS_DSN is required for the postgres backend")
		}
	case "redis":
		if cfg.RedisAddr == "" {
			return nil, fmt.Errorf("REDIS_ADDR is required for the redis backend")
		}
	default:
		return nil, fmt.Errorf("invalid WEATHERWISE_PREFS_BACKEND %q", cfg.PrefsBackend)
	}

	return cfg, nil
}

func loadWeather(cfg *Config) error {
	cfg.OpenWeatherMapOrgKey = os.Getenv("OPENWEATHERMAP_ORG_API_KEY")
	if cfg.OpenWeatherMapOrgKey == "" {
		return fmt.Errorf("OPENWEATHERMAP_ORG_API_KEY is required")
	}
	cfg.OpenWeatherMapURL = os.Getenv("OPENWEATHERMAP_BASE_URL")
	if cfg.OpenWeatherMapURL == "" {
		cfg.OpenWeatherMapURL = defaultOpenWeatherMapURL
	}

	timeout, err := durationOrDefault("UPSTREAM_TIMEOUT", 10*time.Second)
	if err != nil {
		return err
	}
	cfg.UpstreamTimeout = timeout
	return nil
}

func loadRedis(cfg *Config) error {
	cfg.RedisAddr = os.Getenv("REDIS_ADDR")
	cfg.RedisPassword = os.Getenv("REDIS_PASSWORD")

	ttl, err := durationOrDefault("CACHE_TTL", 5*time.Minute)
	if err != nil {
		return err
	}
	cfg.CacheTTL = ttl
	return nil
}

func loadPostgres(cfg *Config) error {
	// A full DSN wins over the individual parts
	if dsn := os.Getenv("DATABASE_URL"); dsn != "" {
		cfg.DatabaseURL = dsn
		return nil
	}

	cfg.PostgresUser = os.Getenv("POSTGRES_USER")
	if cfg.PostgresUser == "" {
		return fmt.Errorf("POSTGRES_USER is required")
	}
	cfg.PostgresPassword = os.Getenv("POSTGRES_PASSWORD")
	if cfg.PostgresPassword == "" {
		return fmt.Errorf("POSTGRES_PASSWORD is required")
	}
	cfg.PostgresDB = os.Getenv("POSTGRES_DB")
	if cfg.PostgresDB == "" {
		return fmt.Errorf("POSTGRES_DB is required")
	}
	cfg.PostgresHost = os.Getenv("POSTGRES_HOST")
	if cfg.PostgresHost == "" {
		cfg.PostgresHost = "db"
	}
	pgPortStr := os.Getenv("POSTGRES_PORT")
	if pgPortStr == "" {
		pgPortStr = "5432"
	}
	pgPort, err := strconv.Atoi(pgPortStr)
	if err != nil {
		return fmt.Errorf("invalid POSTGRES_PORT %q: %w", pgPortStr, err)
	}
	cfg.PostgresPort = pgPort

	cfg.DatabaseURL = fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=disable",
		cfg.PostgresUser, cfg.PostgresPassword, cfg.PostgresHost, cfg.PostgresPort, cfg.PostgresDB,
	)
	return nil
}

func durationOrDefault(key string, def time.Duration) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return def, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, raw, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("invalid %s %q: must not be negative", key, raw)
	}
	return d, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
