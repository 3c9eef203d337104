package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	BackendMemory   = "memory"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
)

type Config struct {
	Addr                    string        `yaml:"addr"`
	Environment             string        `yaml:"environment"`
	LogLevel                string        `yaml:"logLevel"`
	LogFormat               string        `yaml:"logFormat"`
	StoreBackend            string        `yaml:"storeBackend"`
	SQLitePath              string        `yaml:"sqlitePath"`
	DatabaseURL             string        `yaml:"databaseUrl"`
	DataEncryptionKey       string        `yaml:"dataEncryptionKey"`
	JWTSecret               string        `yaml:"jwtSecret"`
	TokenTTL                time.Duration `yaml:"tokenTtl"`
	AuthRequired            bool          `yaml:"authRequired"`
	DefaultRole             string        `yaml:"defaultRole"`
	SeedAdminEmail          string        `yaml:"seedAdminEmail"`
	SeedAdminPassword       string        `yaml:"seedAdminPassword"`
	TaskReviewStage         bool          `yaml:"taskReviewStage"`
	PayrollScheduleInterval time.Duration `yaml:"payrollScheduleInterval"`
	NATSURL                 string        `yaml:"natsUrl"`
	NATSSubjectPrefix       string        `yaml:"natsSubjectPrefix"`
	S3Bucket                string        `yaml:"s3Bucket"`
	S3Region                string        `yaml:"s3Region"`
	S3Endpoint              string        `yaml:"s3Endpoint"`
	S3AccessKey             string        `yaml:"s3AccessKey"`
	S3SecretKey             string        `yaml:"s3SecretKey"`
	EmailFrom               string        `yaml:"emailFrom"`
	EmailEnabled            bool          `yaml:"emailEnabled"`
	SMTPHost                string        `yaml:"smtpHost"`
	SMTPPort                int           `yaml:"smtpPort"`
	SMTPUser                string        `yaml:"smtpUser"`
	SMTPPassword            string        `yaml:"smtpPassword"`
	SMTPUseTLS              bool          `yaml:"smtpUseTls"`
	MaxBodyBytes            int64         `yaml:"maxBodyBytes"`
	RateLimitPerMinute      int           `yaml:"rateLimitPerMinute"`
	MetricsEnabled          bool          `yaml:"metricsEnabled"`
}

func Defaults() Config {
	return Config{
		Addr:               ":8080",
		Environment:        "development",
		LogLevel:           "info",
		LogFormat:          "json",
		StoreBackend:       BackendSQLite,
		SQLitePath:         "data/workflowpro.db",
		TokenTTL:           12 * time.Hour,
		DefaultRole:        "Admin",
		TaskReviewStage:    true,
		NATSSubjectPrefix:  "workflowpro.changes",
		S3Region:           "us-east-1",
		EmailFrom:          "no-reply@workflow.pro",
		SMTPPort:           587,
		SMTPUseTLS:         true,
		MaxBodyBytes:       1048576,
		RateLimitPerMinute: 120,
		MetricsEnabled:     true,
	}
}

// Load reads the optional YAML file named by CONFIG_FILE and then applies
// environment overrides on top of it.
func Load() (Config, error) {
	return LoadFile(os.Getenv("CONFIG_FILE"))
}

func LoadFile(path string) (Config, error) {
	cfg := Defaults()
	if strings.TrimSpace(path) != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config file: %w", err)
		}
	}
	applyEnv(&cfg)
	return cfg, nil
}

func applyEnv(c *Config) {
	c.Addr = getEnv("APP_ADDR", c.Addr)
	c.Environment = getEnv("APP_ENV", c.Environment)
	c.LogLevel = getEnv("LOG_LEVEL", c.LogLevel)
	c.LogFormat = getEnv("LOG_FORMAT", c.LogFormat)
	c.StoreBackend = getEnv("STORE_BACKEND", c.StoreBackend)
	c.SQLitePath = getEnv("SQLITE_PATH", c.SQLitePath)
	c.DatabaseURL = getEnv("DATABASE_URL", c.DatabaseURL)
	c.DataEncryptionKey = getEnv("DATA_ENCRYPTION_KEY", c.DataEncryptionKey)
	c.JWTSecret = getEnv("JWT_SECRET", c.JWTSecret)
	c.TokenTTL = getEnvDuration("TOKEN_TTL", c.TokenTTL)
	c.AuthRequired = getEnvBool("AUTH_REQUIRED", c.AuthRequired)
	c.DefaultRole = getEnv("DEFAULT_ROLE", c.DefaultRole)
	c.SeedAdminEmail = getEnv("SEED_ADMIN_EMAIL", c.SeedAdminEmail)
	c.SeedAdminPassword = getEnv("SEED_ADMIN_PASSWORD", c.SeedAdminPassword)
	c.TaskReviewStage = getEnvBool("TASK_REVIEW_STAGE", c.TaskReviewStage)
	c.PayrollScheduleInterval = getEnvDuration("PAYROLL_SCHEDULE_INTERVAL", c.PayrollScheduleInterval)
	c.NATSURL = getEnv("NATS_URL", c.NATSURL)
	c.NATSSubjectPrefix = getEnv("NATS_SUBJECT_PREFIX", c.NATSSubjectPrefix)
	c.S3Bucket = getEnv("S3_BUCKET", c.S3Bucket)
	c.S3Region = getEnv("S3_REGION", c.S3Region)
	c.S3Endpoint = getEnv("S3_ENDPOINT", c.S3Endpoint)
	c.S3AccessKey = getEnv("S3_ACCESS_KEY", c.S3AccessKey)
	c.S3SecretKey = getEnv("S3_SECRET_KEY", c.S3SecretKey)
	c.EmailFrom = getEnv("EMAIL_FROM", c.EmailFrom)
	c.EmailEnabled = getEnvBool("EMAIL_ENABLED", c.EmailEnabled)
	c.SMTPHost = getEnv("SMTP_HOST", c.SMTPHost)
	c.SMTPPort = getEnvInt("SMTP_PORT", c.SMTPPort)
	c.SMTPUser = getEnv("SMTP_USER", c.SMTPUser)
	c.SMTPPassword = getEnv("SMTP_PASSWORD", c.SMTPPassword)
	c.SMTPUseTLS = getEnvBool("SMTP_USE_TLS", c.SMTPUseTLS)
	c.MaxBodyBytes = int64(getEnvInt("MAX_BODY_BYTES", int(c.MaxBodyBytes)))
	c.RateLimitPerMinute = getEnvInt("RATE_LIMIT_PER_MINUTE", c.RateLimitPerMinute)
	c.MetricsEnabled = getEnvBool("METRICS_ENABLED", c.MetricsEnabled)
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func (c Config) Validate() error {
	switch c.StoreBackend {
	case BackendMemory:
	case BackendSQLite:
		if strings.TrimSpace(c.SQLitePath) == "" {
			return fmt.Errorf("SQLITE_PATH is required for the sqlite backend")
		}
	case BackendPostgres:
		if strings.TrimSpace(c.DatabaseURL) == "" {
			return fmt.Errorf("DATABASE_URL is required for the postgres backend")
		}
	default:
		return fmt.Errorf("STORE_BACKEND must be one of memory, sqlite, postgres")
	}
	if c.Environment == "production" {
		if strings.TrimSpace(c.JWTSecret) == "" {
			return fmt.Errorf("JWT_SECRET must be set to a strong value in production")
		}
		if strings.TrimSpace(c.DataEncryptionKey) == "" {
			return fmt.Errorf("DATA_ENCRYPTION_KEY must be set in production for encryption at rest")
		}
	}
	if c.AuthRequired && strings.TrimSpace(c.JWTSecret) == "" {
		return fmt.Errorf("JWT_SECRET must be set when AUTH_REQUIRED is true")
	}
	if c.MaxBodyBytes < 1024 {
		return fmt.Errorf("MAX_BODY_BYTES must be at least 1024")
	}
	if c.RateLimitPerMinute <= 0 {
		return fmt.Errorf("RATE_LIMIT_PER_MINUTE must be positive")
	}
	if c.EmailEnabled && c.SMTPHost == "" {
		return fmt.Errorf("SMTP_HOST must be set when EMAIL_ENABLED is true")
	}
	return nil
}
