package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Supported storage drivers
const (
	DriverMongo    = "mongo"
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Log       LogConfig       `mapstructure:"log"`
	CORS      CORSConfig      `mapstructure:"cors"`
	Portfolio PortfolioConfig `mapstructure:"portfolio"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
	Notifier  NotifierConfig  `mapstructure:"notifier"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// DatabaseConfig selects and configures the contact store
type DatabaseConfig struct {
	Driver     string `mapstructure:"driver"`
	MongoURL   string `mapstructure:"mongo_url"`
	Name       string `mapstructure:"name"`
	Collection string `mapstructure:"collection"`
	// DSN is used by the mysql and postgres drivers
	DSN string `mapstructure:"dsn"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"` // json or text
	File       string `mapstructure:"file"`
	MaxSize    int    `mapstructure:"max_size"` // MB
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAge     int    `mapstructure:"max_age"` // days
	Compress   bool   `mapstructure:"compress"`
}

// CORSConfig holds cross-origin settings
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// PortfolioConfig holds the fixed figures reported by the stats endpoint
type PortfolioConfig struct {
	ProjectsCompleted int `mapstructure:"projects_completed"`
	YearsExperience   int `mapstructure:"years_experience"`
	HappyClients      int `mapstructure:"happy_clients"`
}

// SchedulerConfig holds the stats refresher configuration
type SchedulerConfig struct {
	Enabled       bool          `mapstructure:"enabled"`
	StatsInterval time.Duration `mapstructure:"stats_interval"`
}

// NotifierConfig holds Gmail API configuration for new-contact notifications
type NotifierConfig struct {
	Enabled      bool   `mapstructure:"enabled"`
	ClientID     string `mapstructure:"client_id"`
	ClientSecret string `mapstructure:"client_secret"`
	RefreshToken string `mapstructure:"refresh_token"`
	UserEmail    string `mapstructure:"user_email"`
	NotifyTo     string `mapstructure:"notify_to"`
}

// LoadConfig loads configuration from environment variables, an optional
// .env file and an optional config file
func LoadConfig() (*Config, error) {
	// .env is optional; real environment variables win.
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	v.AutomaticEnv()
	if err := bindEnvVars(v); err != nil {
		return nil, fmt.Errorf("error binding environment variables: %w", err)
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8001")
	v.SetDefault("server.read_timeout", "10s")
	v.SetDefault("server.write_timeout", "10s")

	v.SetDefault("database.driver", DriverMongo)
	v.SetDefault("database.mongo_url", "mongodb://localhost:27017/")
	v.SetDefault("database.name", "portfolio_db")
	v.SetDefault("database.collection", "contacts")
	v.SetDefault("database.dsn", "")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("log.file", "")
	v.SetDefault("log.max_size", 100)
	v.SetDefault("log.max_backups", 3)
	v.SetDefault("log.max_age", 28)
	v.SetDefault("log.compress", true)

	v.SetDefault("cors.allowed_origins", []string{"*"})

	v.SetDefault("portfolio.projects_completed", 50)
	v.SetDefault("portfolio.years_experience", 4)
	v.SetDefault("portfolio.happy_clients", 25)

	v.SetDefault("scheduler.enabled", true)
	v.SetDefault("scheduler.stats_interval", "1m")

	v.SetDefault("notifier.enabled", false)
	v.SetDefault("notifier.client_id", "")
	v.SetDefault("notifier.client_secret", "")
	v.SetDefault("notifier.refresh_token", "")
	v.SetDefault("notifier.user_email", "")
	v.SetDefault("notifier.notify_to", "")
}

func bindEnvVars(v *viper.Viper) error {
	bindings := map[string]string{
		// Server
		"server.port":          "SERVER_PORT",
		"server.read_timeout":  "SERVER_READ_TIMEOUT",
		"server.write_timeout": "SERVER_WRITE_TIMEOUT",

		// Database
		"database.driver":     "DB_DRIVER",
		"database.mongo_url":  "MONGO_URL",
		"database.name":       "DB_NAME",
		"database.collection": "DB_COLLECTION",
		"database.dsn":        "DATABASE_DSN",

		// Logging
		"log.level":  "LOG_LEVEL",
		"log.format": "LOG_FORMAT",
		"log.file":   "LOG_FILE",

		"cors.allowed_origins": "CORS_ALLOWED_ORIGINS",

		// Portfolio figures
		"portfolio.projects_completed": "PORTFOLIO_PROJECTS_COMPLETED",
		"portfolio.years_experience":   "PORTFOLIO_YEARS_EXPERIENCE",
		"portfolio.happy_clients":      "PORTFOLIO_HAPPY_CLIENTS",

		// Scheduler
		"scheduler.enabled":        "SCHEDULER_ENABLED",
		"scheduler.stats_interval": "SCHEDULER_STATS_INTERVAL",

		// Notifier
		"notifier.enabled":       "NOTIFIER_ENABLED",
		"notifier.client_id":     "GMAIL_CLIENT_ID",
		"notifier.client_secret": "GMAIL_CLIENT_SECRET",
		"notifier.refresh_token": "GMAIL_REFRESH_TOKEN",
		"notifier.user_email":    "GMAIL_USER_EMAIL",
		"notifier.notify_to":     "NOTIFY_TO",
	}

	for key, env := range bindings {
		if err := v.BindEnv(key, env); err != nil {
			return fmt.Errorf("bind %s: %w", key, err)
		}
	}
	return nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("server port is required")
	}

	switch c.Database.Driver {
	case DriverMongo:
		if c.Database.MongoURL == "" || c.Database.Name == "" || c.Database.Collection == "" {
			return fmt.Errorf("mongo url, database name, and collection are required")
		}
	case DriverMySQL, DriverPostgres:
		if c.Database.DSN == "" {
			return fmt.Errorf("database dsn is required for driver %q", c.Database.Driver)
		}
	case DriverMemory:
	default:
		return fmt.Errorf("unsupported database driver %q", c.Database.Driver)
	}

	if c.Scheduler.Enabled && c.Scheduler.StatsInterval <= 0 {
		return fmt.Errorf("scheduler stats interval must be greater than 0")
	}

	if c.Notifier.Enabled {
		if c.Notifier.ClientID == "" || c.Notifier.ClientSecret == "" || c.Notifier.RefreshToken == "" {
			return fmt.Errorf("Gmail OAuth2 credentials are required when the notifier is enabled")
		}
		if c.Notifier.UserEmail == "" || c.Notifier.NotifyTo == "" {
			return fmt.Errorf("notifier sender and recipient are required when the notifier is enabled")
		}
	}

	return nil
}
