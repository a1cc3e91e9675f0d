package internal

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

const EnvPrefix = "NOVANODE"

type NovaNodeConfig struct {
	AppName  string `mapstructure:"app_name"`
	LogLevel string `mapstructure:"log_level"`

	Storage struct {
		Workdir    string `mapstructure:"workdir"`
		File       string `mapstructure:"file"`
		CachePages int    `mapstructure:"cache_pages"`
	} `mapstructure:"storage"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app_name", "novanode")
	v.SetDefault("log_level", "info")
	v.SetDefault("storage.workdir", "./data")
	v.SetDefault("storage.file", "nodes.db")
	v.SetDefault("storage.cache_pages", 128)
}

// LoadConfig reads the YAML file at path over the defaults. An empty path
// uses the defaults only. NOVANODE_* environment variables override both,
// e.g. NOVANODE_STORAGE_WORKDIR.
func LoadConfig(path string) (*NovaNodeConfig, error) {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg NovaNodeConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *NovaNodeConfig) Validate() error {
	var errs []error
	if c.Storage.Workdir == "" {
		errs = append(errs, errors.New("config: storage.workdir is empty"))
	}
	if c.Storage.File == "" {
		errs = append(errs, errors.New("config: storage.file is empty"))
	}
	if c.Storage.CachePages <= 0 {
		errs = append(errs, fmt.Errorf("config: storage.cache_pages must be positive, got %d", c.Storage.CachePages))
	}
	if _, err := ParseLogLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// DataPath is the page file location.
func (c *NovaNodeConfig) DataPath() string {
	return filepath.Join(c.Storage.Workdir, c.Storage.File)
}

func ParseLogLevel(s string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("config: invalid log_level %q", s)
	}
	return l, nil
}
