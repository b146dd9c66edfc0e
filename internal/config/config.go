package config

import (
	"os"
	"path/filepath"
	"time"
)

// Config holds all configuration options for the course authoring service
type Config struct {
	Database    DatabaseConfig    `yaml:"database"`
	Server      ServerConfig      `yaml:"server"`
	Validation  ValidationConfig  `yaml:"validation"`
	Application ApplicationConfig `yaml:"application"`
	Log         LogConfig         `yaml:"log"`
}

// DatabaseConfig holds database-related configuration
type DatabaseConfig struct {
	Dialect         string        `yaml:"dialect" env:"COURSE_DB_DIALECT" env-default:"sqlite"`
	Dir             string        `yaml:"dir" env:"COURSE_DB_DIR"`
	Filename        string        `yaml:"filename" env:"COURSE_DB_FILENAME" env-default:"courses.db"`
	DSN             string        `yaml:"dsn" env:"COURSE_DB_DSN"`
	QueryTimeout    time.Duration `yaml:"query_timeout" env:"COURSE_DB_QUERY_TIMEOUT" env-default:"10s"`
	WriteTimeout    time.Duration `yaml:"write_timeout" env:"COURSE_DB_WRITE_TIMEOUT" env-default:"5s"`
	MaxOpenConns    int           `yaml:"max_open_conns" env:"COURSE_DB_MAX_OPEN_CONNS" env-default:"10"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime" env:"COURSE_DB_CONN_MAX_LIFETIME" env-default:"30m"`
	DirPermissions  uint32        `yaml:"dir_permissions" env:"COURSE_DB_DIR_PERMISSIONS" env-default:"493"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Address         string        `yaml:"address" env:"COURSE_HTTP_ADDRESS" env-default:":8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout" env:"COURSE_HTTP_READ_TIMEOUT" env-default:"10s"`
	WriteTimeout    time.Duration `yaml:"write_timeout" env:"COURSE_HTTP_WRITE_TIMEOUT" env-default:"10s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"COURSE_HTTP_SHUTDOWN_TIMEOUT" env-default:"15s"`
	EnableMetrics   bool          `yaml:"enable_metrics" env:"COURSE_HTTP_ENABLE_METRICS" env-default:"true"`
}

// ValidationConfig holds the option rules applied to choice tasks
type ValidationConfig struct {
	MinOptions         int `yaml:"min_options" env:"COURSE_VALIDATION_MIN_OPTIONS" env-default:"2"`
	MaxOptions         int `yaml:"max_options" env:"COURSE_VALIDATION_MAX_OPTIONS" env-default:"5"`
	OptionMinLength    int `yaml:"option_min_length" env:"COURSE_VALIDATION_OPTION_MIN" env-default:"4"`
	OptionMaxLength    int `yaml:"option_max_length" env:"COURSE_VALIDATION_OPTION_MAX" env-default:"80"`
	StatementMinLength int `yaml:"statement_min_length" env:"COURSE_VALIDATION_STATEMENT_MIN" env-default:"4"`
	StatementMaxLength int `yaml:"statement_max_length" env:"COURSE_VALIDATION_STATEMENT_MAX" env-default:"255"`
}

// ApplicationConfig holds application-level configuration
type ApplicationConfig struct {
	Timeout time.Duration `yaml:"timeout" env:"COURSE_APP_TIMEOUT" env-default:"60s"`
	Verbose bool          `yaml:"verbose" env:"COURSE_APP_VERBOSE"`
}

// LogConfig holds structured logging configuration
type LogConfig struct {
	Level  string `yaml:"level" env:"COURSE_LOG_LEVEL" env-default:"INFO"`
	Format string `yaml:"format" env:"COURSE_LOG_FORMAT" env-default:"text"`
}

// NewConfig creates a new configuration with sensible defaults
func NewConfig() *Config {
	homeDir, _ := os.UserHomeDir()

	return &Config{
		Database: DatabaseConfig{
			Dialect:         "sqlite",
			Dir:             filepath.Join(homeDir, ".coursectl"),
			Filename:        "courses.db",
			QueryTimeout:    10 * time.Second,
			WriteTimeout:    5 * time.Second,
			MaxOpenConns:    10,
			ConnMaxLifetime: 30 * time.Minute,
			DirPermissions:  0755,
		},
		Server: ServerConfig{
			Address:         ":8080",
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    10 * time.Second,
			ShutdownTimeout: 15 * time.Second,
			EnableMetrics:   true,
		},
		Validation: ValidationConfig{
			MinOptions:         2,
			MaxOptions:         5,
			OptionMinLength:    4,
			OptionMaxLength:    80,
			StatementMinLength: 4,
			StatementMaxLength: 255,
		},
		Application: ApplicationConfig{
			Timeout: 60 * time.Second,
		},
		Log: LogConfig{
			Level:  "INFO",
			Format: "text",
		},
	}
}

// GetDatabasePath returns the full path to the SQLite database file
func (c *Config) GetDatabasePath() string {
	if c.Database.Filename == ":memory:" {
		return c.Database.Filename
	}
	return filepath.Join(c.Database.Dir, c.Database.Filename)
}

// GetQueryTimeout returns the database query timeout
func (c *Config) GetQueryTimeout() time.Duration {
	return c.Database.QueryTimeout
}

// GetWriteTimeout returns the database write timeout
func (c *Config) GetWriteTimeout() time.Duration {
	return c.Database.WriteTimeout
}

// Validate validates the configuration and returns any errors
func (c *Config) Validate() error {
	switch c.Database.Dialect {
	case "sqlite":
		if c.Database.Filename == "" {
			return &ConfigError{Field: "database.filename", Message: "database filename cannot be empty"}
		}
		if c.Database.Dir == "" && c.Database.Filename != ":memory:" {
			return &ConfigError{Field: "database.dir", Message: "database directory cannot be empty"}
		}
	case "postgres":
		if c.Database.DSN == "" {
			return &ConfigError{Field: "database.dsn", Message: "postgres requires a connection string"}
		}
	default:
		return &ConfigError{Field: "database.dialect", Message: "dialect must be sqlite or postgres"}
	}
	if c.Database.QueryTimeout <= 0 {
		return &ConfigError{Field: "database.query_timeout", Message: "query timeout must be positive"}
	}
	if c.Database.WriteTimeout <= 0 {
		return &ConfigError{Field: "database.write_timeout", Message: "write timeout must be positive"}
	}

	if c.Server.Address == "" {
		return &ConfigError{Field: "server.address", Message: "listen address cannot be empty"}
	}

	v := c.Validation
	if v.MinOptions < 1 {
		return &ConfigError{Field: "validation.min_options", Message: "minimum option count must be at least 1"}
	}
	if v.MaxOptions < v.MinOptions {
		return &ConfigError{Field: "validation.max_options", Message: "maximum option count must not be less than minimum"}
	}
	if v.OptionMinLength < 1 {
		return &ConfigError{Field: "validation.option_min_length", Message: "option minimum length must be at least 1"}
	}
	if v.OptionMaxLength < v.OptionMinLength {
		return &ConfigError{Field: "validation.option_max_length", Message: "option maximum length must not be less than minimum"}
	}
	if v.StatementMinLength < 1 {
		return &ConfigError{Field: "validation.statement_min_length", Message: "statement minimum length must be at least 1"}
	}
	if v.StatementMaxLength < v.StatementMinLength {
		return &ConfigError{Field: "validation.statement_max_length", Message: "statement maximum length must not be less than minimum"}
	}

	if c.Application.Timeout <= 0 {
		return &ConfigError{Field: "application.timeout", Message: "application timeout must be positive"}
	}

	switch c.Log.Format {
	case "text", "json":
	default:
		return &ConfigError{Field: "log.format", Message: "log format must be text or json"}
	}

	return nil
}

// ConfigError represents a configuration validation error
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return e.Field + ": " + e.Message
}
