package moderator

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Supported database dialects.
const (
	DialectPostgres = "postgres"
	DialectMySQL    = "mysql"
	DialectSQLite   = "sqlite"
)

// Config is the console configuration. It is read from a YAML file and
// overridden by LFMOD_* environment variables.
type Config struct {
	Database DatabaseConfig `yaml:"database"`
	Store    struct {
		// Timeout bounds every store call made on behalf of one user action.
		Timeout  time.Duration `yaml:"timeout"`
		PageSize int           `yaml:"page_size"`
	} `yaml:"store"`
	Identity struct {
		// UID is the account the console signs in as.
		UID string `yaml:"uid"`
	} `yaml:"identity"`
	Contact ContactTemplate `yaml:"contact"`
	Log     struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"` // json|console
	} `yaml:"log"`
}

type DatabaseConfig struct {
	Dialect string `yaml:"dialect"`
	DSN     string `yaml:"dsn"`
}

// DefaultConfig returns the configuration used when nothing is set.
func DefaultConfig() *Config {
	cfg := &Config{}
	cfg.Database.Dialect = DialectSQLite
	cfg.Database.DSN = "lfmod.db"
	cfg.Store.Timeout = 15 * time.Second
	cfg.Store.PageSize = DefaultLimit
	cfg.Contact = DefaultContactTemplate()
	cfg.Log.Level = "info"
	cfg.Log.Format = "console"

	return cfg
}

// LoadConfig reads path (if not empty) over the defaults, then applies the
// environment overrides.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err = yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			*dst = strings.TrimSpace(v)
		}
	}

	str("LFMOD_DB_DIALECT", &c.Database.Dialect)
	str("LFMOD_DB_DSN", &c.Database.DSN)
	str("LFMOD_UID", &c.Identity.UID)
	str("LFMOD_LOG_LEVEL", &c.Log.Level)
	str("LFMOD_LOG_FORMAT", &c.Log.Format)

	if v, ok := lookup("LFMOD_PAGE_SIZE"); ok && v != "" {
		size, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("parse LFMOD_PAGE_SIZE: %w", err)
		}
		c.Store.PageSize = size
	}
	if v, ok := lookup("LFMOD_STORE_TIMEOUT"); ok && v != "" {
		timeout, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("parse LFMOD_STORE_TIMEOUT: %w", err)
		}
		c.Store.Timeout = timeout
	}

	return nil
}

// Validate checks the configuration and normalizes the page size.
func (c *Config) Validate() error {
	switch c.Database.Dialect {
	case DialectPostgres, DialectMySQL, DialectSQLite:
	default:
		return fmt.Errorf("unsupported database dialect %q", c.Database.Dialect)
	}

	if c.Database.DSN == "" {
		return fmt.Errorf("database dsn is empty")
	}
	if c.Store.Timeout <= 0 {
		return fmt.Errorf("store timeout must be positive, got %s", c.Store.Timeout)
	}

	c.Store.PageSize = NormalizeLimit(c.Store.PageSize)

	return nil
}
