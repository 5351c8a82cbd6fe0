package config

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"asset-grader/models"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	PostgresHost     string
	PostgresPort     string
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresSSLMode  string

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	RedisPrefix   string
	RulesTTLHours int

	RulesPath       string
	CorpusCSVPath   string
	GradesCSVPath   string
	RefreshSchedule string
	MetricsAddr     string
	LogLevel        string
	MaxRetries      int

	TuningFile string
	Tuning     Tuning
}

// Tuning groups the numeric knobs of a rules build. It can be supplied as a
// YAML file; values left out keep their defaults.
type Tuning struct {
	Selection   models.SelectionRule  `yaml:"selection"`
	Quality     models.QualityWeights `yaml:"quality"`
	Rules       models.RulesConfig    `yaml:"rules"`
	Concurrency int                   `yaml:"concurrency"`
}

// DefaultTuning returns the stock build tuning.
func DefaultTuning() Tuning {
	return Tuning{
		Selection:   models.SelectionRule{Count: models.DefaultExemplarCount},
		Quality:     models.DefaultQualityWeights(),
		Rules:       models.DefaultRulesConfig(),
		Concurrency: 4,
	}
}

// Load reads the .env file and returns a populated Config struct. Tuning is
// built from defaults, then the TUNING_FILE YAML, then individual
// environment overrides.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("[config] No .env file found, falling back to system env vars")
	}

	cfg := &Config{
		PostgresHost:     getEnv("POSTGRES_HOST", "localhost"),
		PostgresPort:     getEnv("POSTGRES_PORT", "5432"),
		PostgresUser:     getEnv("POSTGRES_USER", "grader"),
		PostgresPassword: getEnv("POSTGRES_PASSWORD", "grader123"),
		PostgresDB:       getEnv("POSTGRES_DB", "listings_db"),
		PostgresSSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),

		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("REDIS_DB", 0),
		RedisPrefix:   getEnv("REDIS_PREFIX", "grader"),
		RulesTTLHours: getEnvInt("RULES_TTL_HOURS", 24*7),

		RulesPath:       getEnv("RULES_PATH", "./output/rules.json"),
		CorpusCSVPath:   getEnv("CORPUS_CSV_PATH", ""),
		GradesCSVPath:   getEnv("GRADES_CSV_PATH", "./output/grades.csv"),
		RefreshSchedule: getEnv("REFRESH_SCHEDULE", "0 3 * * *"),
		MetricsAddr:     getEnv("METRICS_ADDR", ":9100"),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		MaxRetries:      getEnvInt("MAX_RETRIES", 3),

		TuningFile: getEnv("TUNING_FILE", ""),
		Tuning:     DefaultTuning(),
	}

	if cfg.TuningFile != "" {
		tuning, err := LoadTuningFile(cfg.TuningFile, cfg.Tuning)
		if err != nil {
			return nil, err
		}
		cfg.Tuning = tuning
	}

	t := &cfg.Tuning
	t.Selection.Count = getEnvInt("EXEMPLAR_COUNT", t.Selection.Count)
	t.Selection.Percent = getEnvFloat("EXEMPLAR_PERCENT", t.Selection.Percent)
	t.Rules.MinSampleSize = getEnvInt("MIN_SAMPLE_SIZE", t.Rules.MinSampleSize)
	t.Concurrency = getEnvInt("MAX_CONCURRENCY", t.Concurrency)

	return cfg, nil
}

// LoadTuningFile reads a YAML tuning file and applies it over base.
func LoadTuningFile(path string, base Tuning) (Tuning, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return base, fmt.Errorf("config: read tuning file %q: %w", path, err)
	}
	t, err := ApplyTuning(base, data)
	if err != nil {
		return base, fmt.Errorf("config: parse tuning file %q: %w", path, err)
	}
	return t, nil
}

// ApplyTuning decodes the YAML document data over base. Keys in the document
// win, explicit zeros included, and absent keys keep their base values. A
// sub-weight group named in the document replaces the base group whole so
// its fractions keep summing to one.
func ApplyTuning(base Tuning, data []byte) (Tuning, error) {
	result := base
	if err := yaml.Unmarshal(data, &result); err != nil {
		return base, err
	}

	var doc Tuning
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return base, err
	}
	sw, dw := &result.Rules.SubWeights, doc.Rules.SubWeights
	if dw.Content != (models.ContentWeights{}) {
		sw.Content = dw.Content
	}
	if dw.Media != (models.MediaWeights{}) {
		sw.Media = dw.Media
	}
	if dw.Trust != (models.TrustWeights{}) {
		sw.Trust = dw.Trust
	}
	if dw.Findability != (models.FindabilityWeights{}) {
		sw.Findability = dw.Findability
	}

	return result, nil
}

// DSN returns the PostgreSQL connection string.
func (c *Config) DSN() string {
	return "host=" + c.PostgresHost +
		" port=" + c.PostgresPort +
		" user=" + c.PostgresUser +
		" password=" + c.PostgresPassword +
		" dbname=" + c.PostgresDB +
		" sslmode=" + c.PostgresSSLMode
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		n, err := strconv.Atoi(val)
		if err == nil {
			return n
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if val := os.Getenv(key); val != "" {
		f, err := strconv.ParseFloat(val, 64)
		if err == nil {
			return f
		}
	}
	return fallback
}
