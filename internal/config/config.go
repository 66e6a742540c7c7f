package config

import (
	"errors"
	"fmt"
	"log"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Storage drivers.
const (
	DriverMongo    = "mongo"
	DriverKV       = "kv"
	DriverPostgres = "postgres"
)

// Key-value backends for DriverKV.
const (
	KVMemory = "memory"
	KVRedis  = "redis"
)

// Config holds all configuration for the application.
// The values are read by Viper from a config file or environment variables.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Storage  StorageConfig  `mapstructure:"storage"`
	Database DatabaseConfig `mapstructure:"database"`
	Postgres PostgresConfig `mapstructure:"postgres"`
	Redis    RedisConfig    `mapstructure:"redis"`
	S3       S3Config       `mapstructure:"s3"`
	JWT      JWTConfig      `mapstructure:"jwt"`
	Coach    CoachConfig    `mapstructure:"coach"`
	Calendar CalendarConfig `mapstructure:"calendar"`
}

type ServerConfig struct {
	Address     string   `mapstructure:"address"`
	CORSOrigins []string `mapstructure:"cors_origins"`
}

// StorageConfig selects the repository driver.
type StorageConfig struct {
	Driver    string `mapstructure:"driver"`     // mongo, kv or postgres
	KVBackend string `mapstructure:"kv_backend"` // memory or redis
	// Path is the JSON snapshot file of the memory backend; empty keeps state in memory only.
	Path string `mapstructure:"path"`
}

type DatabaseConfig struct {
	URI  string `mapstructure:"uri"`
	Name string `mapstructure:"name"`
}

type PostgresConfig struct {
	DSN string `mapstructure:"dsn"`
}

type RedisConfig struct {
	URL    string `mapstructure:"url"`
	Prefix string `mapstructure:"prefix"`
}

type S3Config struct {
	Endpoint        string `mapstructure:"endpoint"`
	Region          string `mapstructure:"region"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
	BucketName      string `mapstructure:"bucket_name"`
	UseSSL          bool   `mapstructure:"use_ssl"`
}

// Enabled reports whether reports should be uploaded to a bucket.
func (c S3Config) Enabled() bool {
	return c.BucketName != ""
}

// JWTConfig defines JWT specific configuration
type JWTConfig struct {
	Secret     string        `mapstructure:"secret"`
	Expiration time.Duration `mapstructure:"expiration"`
}

// CoachConfig configures the plan and chat provider.
type CoachConfig struct {
	Provider string        `mapstructure:"provider"` // gemini or openai
	Model    string        `mapstructure:"model"`
	APIKey   string        `mapstructure:"api_key"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

// CalendarConfig fixes the day boundary used for "today".
type CalendarConfig struct {
	Timezone string `mapstructure:"timezone"`
}

// Option adjusts the loader before the config file is read.
type Option func(v *viper.Viper)

// WithDefault replaces a built-in default, so each binary can pick its own
// while files and the environment still take precedence.
func WithDefault(key string, value any) Option {
	return func(v *viper.Viper) { v.SetDefault(key, value) }
}

// LoadConfig reads configuration from a .env file, config.yaml in path and
// environment variables, in increasing order of precedence.
func LoadConfig(path string, opts ...Option) (config Config, err error) {
	if err := godotenv.Load(filepath.Join(path, ".env")); err == nil {
		log.Println("INFO: Loaded environment from .env")
	}

	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	// server.address -> SERVER_ADDRESS, coach.api_key -> COACH_API_KEY
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(`.`, `_`))

	setDefaults(v)
	for _, opt := range opts {
		opt(v)
	}

	err = v.ReadInConfig()
	var notFound viper.ConfigFileNotFoundError
	if errors.As(err, &notFound) {
		err = nil
	} else if err != nil {
		return config, fmt.Errorf("reading config file: %w", err)
	}

	if err = v.Unmarshal(&config); err != nil {
		return config, fmt.Errorf("decoding config: %w", err)
	}
	if err = config.Validate(); err != nil {
		return config, err
	}
	return config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.address", ":8080")
	v.SetDefault("server.cors_origins", []string{"*"})
	v.SetDefault("storage.driver", DriverMongo)
	v.SetDefault("storage.kv_backend", KVMemory)
	v.SetDefault("storage.path", "")
	v.SetDefault("database.uri", "mongodb://localhost:27017")
	v.SetDefault("database.name", "fittrack")
	v.SetDefault("postgres.dsn", "")
	v.SetDefault("redis.url", "redis://localhost:6379/0")
	v.SetDefault("redis.prefix", "")
	v.SetDefault("s3.endpoint", "")
	v.SetDefault("s3.region", "us-east-1")
	v.SetDefault("s3.access_key_id", "")
	v.SetDefault("s3.secret_access_key", "")
	v.SetDefault("s3.bucket_name", "")
	v.SetDefault("s3.use_ssl", true)
	v.SetDefault("jwt.secret", "")
	v.SetDefault("jwt.expiration", "24h")
	v.SetDefault("coach.provider", "gemini")
	v.SetDefault("coach.model", "")
	v.SetDefault("coach.api_key", "")
	v.SetDefault("coach.timeout", "2m")
	v.SetDefault("calendar.timezone", "UTC")
}

// Validate checks cross-field constraints that defaults cannot express.
func (c Config) Validate() error {
	switch c.Storage.Driver {
	case DriverMongo, DriverPostgres:
	case DriverKV:
		if c.Storage.KVBackend != KVMemory && c.Storage.KVBackend != KVRedis {
			return fmt.Errorf("config: unknown storage.kv_backend %q", c.Storage.KVBackend)
		}
	default:
		return fmt.Errorf("config: unknown storage.driver %q", c.Storage.Driver)
	}
	if c.Storage.Driver == DriverPostgres && c.Postgres.DSN == "" {
		return errors.New("config: postgres.dsn is required for the postgres driver")
	}
	if _, err := time.LoadLocation(c.Calendar.Timezone); err != nil {
		return fmt.Errorf("config: calendar.timezone: %w", err)
	}
	return nil
}
