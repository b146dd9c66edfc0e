package config

import (
	stderrors "errors"
	"io/fs"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// Loader builds a Config from defaults, a dotenv file, an optional YAML
// file and the environment
type Loader struct {
	config     *Config
	configPath string
	envFile    string
}

// NewLoader reads ".env" by default
func NewLoader() *Loader {
	return &Loader{
		config:  NewConfig(),
		envFile: ".env",
	}
}

// WithConfigFile sets an optional YAML file read before the environment
func (l *Loader) WithConfigFile(path string) *Loader {
	l.configPath = path
	return l
}

// WithEnvFile sets the dotenv file merged into the environment. An empty
// path disables dotenv loading.
func (l *Loader) WithEnvFile(path string) *Loader {
	l.envFile = path
	return l
}

// Load loads configuration using the cascading strategy:
// 1. Start with defaults
// 2. Merge the .env file into the process environment (existing vars win)
// 3. Override with the YAML file, if any, then environment variables
// 4. Override with command line flags (LoadWithOverrides)
func (l *Loader) Load() (*Config, error) {
	if l.envFile != "" {
		if err := godotenv.Load(l.envFile); err != nil && !stderrors.Is(err, fs.ErrNotExist) {
			return nil, &ConfigError{Field: "env_file", Message: err.Error()}
		}
	}

	if err := l.read(); err != nil {
		return nil, err
	}

	if err := l.config.Validate(); err != nil {
		return nil, err
	}

	return l.config, nil
}

func (l *Loader) read() error {
	if l.configPath == "" {
		if err := cleanenv.ReadEnv(l.config); err != nil {
			return &ConfigError{Field: "env", Message: err.Error()}
		}
		return nil
	}

	if err := cleanenv.ReadConfig(l.configPath, l.config); err != nil {
		var pe *fs.PathError
		if stderrors.As(err, &pe) {
			if err := cleanenv.ReadEnv(l.config); err != nil {
				return &ConfigError{Field: "env", Message: err.Error()}
			}
			return nil
		}
		return &ConfigError{Field: "config_file", Message: err.Error()}
	}
	return nil
}

// LoadWithOverrides runs Load and then lays the flag values on top. The
// result is validated again since flags bypass the env checks.
func (l *Loader) LoadWithOverrides(overrides *ConfigOverrides) (*Config, error) {
	config, err := l.Load()
	if err != nil {
		return nil, err
	}
	if overrides != nil {
		l.applyOverrides(config, overrides)
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// ConfigOverrides carries the flags set on the command line. Nil fields
// leave the loaded value untouched.
type ConfigOverrides struct {
	// Database overrides
	DBDialect      *string
	DBDir          *string
	DBFilename     *string
	DBDSN          *string
	DBQueryTimeout *time.Duration
	DBWriteTimeout *time.Duration

	// Server overrides
	Address *string

	// Validation overrides
	MinOptions      *int
	MaxOptions      *int
	OptionMinLength *int
	OptionMaxLength *int

	// Application overrides
	Timeout *time.Duration
	Verbose *bool

	// Log overrides
	LogLevel  *string
	LogFormat *string
}

func override[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}

// applyOverrides copies every flag the user set onto config
func (l *Loader) applyOverrides(config *Config, o *ConfigOverrides) {
	db := &config.Database
	override(&db.Dialect, o.DBDialect)
	override(&db.Dir, o.DBDir)
	override(&db.Filename, o.DBFilename)
	override(&db.DSN, o.DBDSN)
	override(&db.QueryTimeout, o.DBQueryTimeout)
	override(&db.WriteTimeout, o.DBWriteTimeout)

	override(&config.Server.Address, o.Address)

	v := &config.Validation
	override(&v.MinOptions, o.MinOptions)
	override(&v.MaxOptions, o.MaxOptions)
	override(&v.OptionMinLength, o.OptionMinLength)
	override(&v.OptionMaxLength, o.OptionMaxLength)

	override(&config.Application.Timeout, o.Timeout)
	override(&config.Application.Verbose, o.Verbose)
	override(&config.Log.Level, o.LogLevel)
	override(&config.Log.Format, o.LogFormat)
}
