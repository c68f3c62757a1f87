package config

import (
	"errors"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Config struct {
	Env       string
	Port      int
	APIPrefix string

	Catalog   CatalogConfig
	Redis     RedisConfig
	CORS      CORSConfig
	Log       LogConfig
	Scheduler SchedulerConfig
	PlanCache PlanCacheConfig
	Export    ExportConfig
}

// CatalogConfig selects and configures the topic catalog source.
type CatalogConfig struct {
	Source   string // "file" or "postgres"
	FilePath string

	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	Table        string
	MaxOpenConns int
	MaxIdleConns int
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// SchedulerConfig carries the plan-generation knobs: number of full-length
// sittings, the safety buffer before the exam, the default sitting weekday and
// the daily review/resource minute split.
type SchedulerConfig struct {
	TotalFLExams       int
	MinDaysBeforeTest  int
	DefaultFLWeekday   string
	WrittenReviewMins  int
	ResourceBudgetMins int
}

// PlanCacheConfig governs the optional redis-backed response cache for
// generated plans. Generation is deterministic per parameter set, so cached
// responses never go stale before the catalog is reloaded.
type PlanCacheConfig struct {
	Enabled bool
	TTL     time.Duration
}

// ExportConfig toggles the CSV/PDF plan export endpoint.
type ExportConfig struct {
	Enabled bool
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")

	cfg.Catalog = CatalogConfig{
		Source:       v.GetString("CATALOG_SOURCE"),
		FilePath:     v.GetString("CATALOG_FILE_PATH"),
		Host:         v.GetString("CATALOG_DB_HOST"),
		Port:         v.GetInt("CATALOG_DB_PORT"),
		User:         v.GetString("CATALOG_DB_USER"),
		Password:     v.GetString("CATALOG_DB_PASSWORD"),
		Name:         v.GetString("CATALOG_DB_NAME"),
		SSLMode:      v.GetString("CATALOG_DB_SSL_MODE"),
		Table:        v.GetString("CATALOG_DB_TABLE"),
		MaxOpenConns: v.GetInt("CATALOG_DB_MAX_OPEN_CONNS"),
		MaxIdleConns: v.GetInt("CATALOG_DB_MAX_IDLE_CONNS"),
	}

	cfg.Redis = RedisConfig{
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Scheduler = SchedulerConfig{
		TotalFLExams:       v.GetInt("SCHEDULER_TOTAL_FL_EXAMS"),
		MinDaysBeforeTest:  v.GetInt("SCHEDULER_MIN_DAYS_BEFORE_TEST"),
		DefaultFLWeekday:   v.GetString("SCHEDULER_DEFAULT_FL_WEEKDAY"),
		WrittenReviewMins:  v.GetInt("SCHEDULER_WRITTEN_REVIEW_MINUTES"),
		ResourceBudgetMins: v.GetInt("SCHEDULER_RESOURCE_MINUTES"),
	}

	cfg.PlanCache = PlanCacheConfig{
		Enabled: v.GetBool("ENABLE_PLAN_CACHE"),
		TTL:     parseDuration(v.GetString("PLAN_CACHE_TTL"), 15*time.Minute),
	}

	cfg.Export = ExportConfig{
		Enabled: v.GetBool("ENABLE_PLAN_EXPORT"),
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "")

	v.SetDefault("CATALOG_SOURCE", "file")
	v.SetDefault("CATALOG_FILE_PATH", "./Organized_MCAT_Topics.csv")
	v.SetDefault("CATALOG_DB_HOST", "localhost")
	v.SetDefault("CATALOG_DB_PORT", 5432)
	v.SetDefault("CATALOG_DB_USER", "postgres")
	v.SetDefault("CATALOG_DB_PASSWORD", "postgres")
	v.SetDefault("CATALOG_DB_NAME", "mcat_catalog")
	v.SetDefault("CATALOG_DB_SSL_MODE", "disable")
	v.SetDefault("CATALOG_DB_TABLE", "mcat_topics")
	v.SetDefault("CATALOG_DB_MAX_OPEN_CONNS", 5)
	v.SetDefault("CATALOG_DB_MAX_IDLE_CONNS", 2)

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("SCHEDULER_TOTAL_FL_EXAMS", 6)
	v.SetDefault("SCHEDULER_MIN_DAYS_BEFORE_TEST", 7)
	v.SetDefault("SCHEDULER_DEFAULT_FL_WEEKDAY", "Sat")
	v.SetDefault("SCHEDULER_WRITTEN_REVIEW_MINUTES", 60)
	v.SetDefault("SCHEDULER_RESOURCE_MINUTES", 240)

	v.SetDefault("ENABLE_PLAN_CACHE", false)
	v.SetDefault("PLAN_CACHE_TTL", "15m")

	v.SetDefault("ENABLE_PLAN_EXPORT", true)
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}
