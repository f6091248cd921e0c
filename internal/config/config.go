package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server     ServerConfig
	Storage    StorageConfig
	PostgreSQL PostgreSQLConfig
	Auth       AuthConfig
	Session    SessionConfig
	GenAI      GenAIConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port      string
	PublicURL string
	Mode      string // gin mode: debug, release or test
}

// StorageConfig selects the durable key-value backend
type StorageConfig struct {
	Driver     string // sqlite, postgres or memory
	SQLitePath string
}

// PostgreSQLConfig holds database configuration
type PostgreSQLConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	DBName       string
	Schema       string
	PoolMaxConns int
}

// AuthConfig holds the two shared passcodes
type AuthConfig struct {
	CreatorSecret   string
	RecipientSecret string
}

// SessionConfig holds session lifetime settings
type SessionConfig struct {
	IdleTimeout  time.Duration
	ErrorDisplay time.Duration
}

// GenAIConfig holds generative text service configuration.
// ApiKey is not read from here on each call; use APIKey() so rotated keys apply.
type GenAIConfig struct {
	ApiUrl  string
	Model   string
	Timeout time.Duration
	ApiKey  string
}

const envPrefix = "KOPI"

// SetDefaults registers a default for every key
func SetDefaults(v *viper.Viper) {
	v.SetDefault("Server.Port", "8080")
	v.SetDefault("Server.PublicURL", "http://localhost:8080")
	v.SetDefault("Server.Mode", "release")

	v.SetDefault("Storage.Driver", "sqlite")
	v.SetDefault("Storage.SQLitePath", "~/.letters-to-kopi/kopi.db")

	v.SetDefault("PostgreSQL.Host", "localhost")
	v.SetDefault("PostgreSQL.Port", 5432)
	v.SetDefault("PostgreSQL.User", "postgres")
	v.SetDefault("PostgreSQL.DBName", "kopi-db")
	v.SetDefault("PostgreSQL.Schema", "public")
	v.SetDefault("PostgreSQL.PoolMaxConns", 4)

	v.SetDefault("Auth.CreatorSecret", "blahck09")
	v.SetDefault("Auth.RecipientSecret", "250216")

	v.SetDefault("Session.IdleTimeout", 12*time.Hour)
	v.SetDefault("Session.ErrorDisplay", 2*time.Second)

	v.SetDefault("GenAI.ApiUrl", "https://generativelanguage.googleapis.com/v1beta")
	v.SetDefault("GenAI.Model", "gemini-3-flash-preview")
	v.SetDefault("GenAI.Timeout", 20*time.Second)
}

// New builds a viper instance with defaults and environment bindings.
// Every key can be overridden as KOPI_<SECTION>_<KEY>; the API key also
// accepts the bare GEMINI_API_KEY and API_KEY variables.
func New() *viper.Viper {
	v := viper.New()
	SetDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("GenAI.ApiKey", "KOPI_GENAI_APIKEY", "GEMINI_API_KEY", "API_KEY"); err != nil {
		log.Printf("Warning: could not bind API key environment: %v", err)
	}
	return v
}

// Load reads .env (if present) and the config file, then unmarshals into Config.
// A missing config file at the default path is not an error; defaults apply.
func Load(v *viper.Viper, configPath string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("Warning: could not load .env: %v", err)
	}

	explicit := configPath != ""
	if !explicit {
		configPath = "config.yaml"
	}

	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		if explicit || !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		log.Printf("No config file at %s, using defaults", configPath)
	} else {
		log.Printf("Using config file: %s", v.ConfigFileUsed())
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if cfg.Storage.Driver == "sqlite" {
		cfg.Storage.SQLitePath = expandHome(cfg.Storage.SQLitePath)
	}

	return &cfg, nil
}

// Validate checks required fields and enumerations
func (c *Config) Validate() error {
	if c.Auth.CreatorSecret == "" || c.Auth.RecipientSecret == "" {
		return fmt.Errorf("both creator and recipient secrets are required")
	}
	if c.Auth.CreatorSecret == c.Auth.RecipientSecret {
		return fmt.Errorf("creator and recipient secrets must differ")
	}

	switch c.Storage.Driver {
	case "sqlite":
		if c.Storage.SQLitePath == "" {
			return fmt.Errorf("sqlite path is required")
		}
	case "postgres":
		if c.PostgreSQL.Host == "" || c.PostgreSQL.DBName == "" {
			return fmt.Errorf("database configuration is incomplete")
		}
	case "memory":
	default:
		return fmt.Errorf("unknown storage driver %q", c.Storage.Driver)
	}

	if c.GenAI.Timeout <= 0 {
		return fmt.Errorf("genai timeout must be positive")
	}
	return nil
}

// APIKey returns a function that reads the generative text API key on every call
func APIKey(v *viper.Viper) func() string {
	return func() string {
		return v.GetString("GenAI.ApiKey")
	}
}

func expandHome(path string) string {
	if !strings.HasPrefix(path, "~") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		log.Printf("Warning: Could not resolve home directory for %s: %v", path, err)
		return path
	}
	return filepath.Join(home, path[1:])
}
