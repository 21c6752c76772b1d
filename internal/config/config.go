package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"launchdash"
	"launchdash/internal/logging"
)

const EnvPrefix = "LAUNCHDASH"

type ServerConfig struct {
	Addr              string        `mapstructure:"addr"`
	ReadHeaderTimeout time.Duration `mapstructure:"read_header_timeout"`
	ReadTimeout       time.Duration `mapstructure:"read_timeout"`
	WriteTimeout      time.Duration `mapstructure:"write_timeout"`
	IdleTimeout       time.Duration `mapstructure:"idle_timeout"`
	RequestTimeout    time.Duration `mapstructure:"request_timeout"`
	ShutdownTimeout   time.Duration `mapstructure:"shutdown_timeout"`
}

// RefStoreConfig points at the database holding named dataset sources.
type RefStoreConfig struct {
	DSN           string `mapstructure:"dsn"`
	EncryptionKey string `mapstructure:"encryption_key"`
}

type Config struct {
	Server    ServerConfig                       `mapstructure:"server"`
	Source    launchdash.SourceConfig            `mapstructure:"source"`
	SourceRef string                             `mapstructure:"source_ref"`
	Sources   map[string]launchdash.SourceConfig `mapstructure:"sources"`
	RefStore  RefStoreConfig                     `mapstructure:"ref_store"`
	Log       logging.Config                     `mapstructure:"log"`
}

func SetDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", ":8050")
	v.SetDefault("server.read_header_timeout", 5*time.Second)
	v.SetDefault("server.read_timeout", 30*time.Second)
	v.SetDefault("server.write_timeout", 30*time.Second)
	v.SetDefault("server.idle_timeout", 60*time.Second)
	v.SetDefault("server.request_timeout", 10*time.Second)
	v.SetDefault("server.shutdown_timeout", 10*time.Second)

	v.SetDefault("source.type", "csv")
	v.SetDefault("source.path", launchdash.DefaultCSVPath)
	v.SetDefault("source.sheet", "")
	v.SetDefault("source.host", "")
	v.SetDefault("source.port", 0)
	v.SetDefault("source.user", "")
	v.SetDefault("source.password", "")
	v.SetDefault("source.database", "")
	v.SetDefault("source.sslmode", "")
	v.SetDefault("source.table", "")
	v.SetDefault("source_ref", "")

	v.SetDefault("ref_store.dsn", "")
	v.SetDefault("ref_store.encryption_key", "")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
}

// Load reads defaults, an optional config file and LAUNCHDASH_* environment
// overrides into a Config. A missing explicitly named file is an error.
func Load(v *viper.Viper, path string) (*Config, error) {
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if strings.TrimSpace(path) != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config to struct: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if strings.TrimSpace(c.Server.Addr) == "" {
		return errors.New("server.addr is required")
	}
	if c.Server.RequestTimeout <= 0 {
		return errors.New("server.request_timeout must be positive")
	}
	return nil
}
