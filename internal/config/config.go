// Package config loads anvilctl's configuration: where region files
// live, how the handle cache and maintenance scanner are tuned, and
// where logs go.
package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Storage     StorageConfig     `mapstructure:"storage" json:"storage"`
	HandleCache HandleCacheConfig `mapstructure:"handle_cache" json:"handle_cache"`
	Maintenance MaintenanceConfig `mapstructure:"maintenance" json:"maintenance"`
	Logging     LoggingConfig     `mapstructure:"logging" json:"logging"`
}

type StorageConfig struct {
	DataDir string `mapstructure:"data_dir" json:"data_dir"`
}

type HandleCacheConfig struct {
	Enabled bool `mapstructure:"enabled" json:"enabled"`
	TTLSecs int  `mapstructure:"ttl_secs" json:"ttl_secs"`
}

type MaintenanceConfig struct {
	Enabled  bool   `mapstructure:"enabled" json:"enabled"`
	CronExpr string `mapstructure:"cron_expr" json:"cron_expr"`
}

type LoggingConfig struct {
	Enabled    bool   `mapstructure:"enabled" json:"enabled"`
	FilePath   string `mapstructure:"file_path" json:"file_path"`
	MaxSize    int    `mapstructure:"max_size" json:"max_size"`
	MaxBackups int    `mapstructure:"max_backups" json:"max_backups"`
	MaxAge     int    `mapstructure:"max_age" json:"max_age"`
	Compress   bool   `mapstructure:"compress" json:"compress"`
}

// Load reads config.yaml from the first of configPath (when non-empty),
// the working directory, ./config and /etc/anvilstore that holds one,
// falling back to defaults when no file exists. ANVILSTORE_-prefixed
// environment variables override both.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")

	if configPath != "" {
		v.AddConfigPath(configPath)
	}
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/anvilstore")

	setDefaults(v)

	v.SetEnvPrefix("ANVILSTORE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("config: read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("config: validate: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	dataDir, err := filepath.Abs("./data")
	if err != nil {
		panic("config: unable to resolve default data dir")
	}
	v.SetDefault("storage.data_dir", dataDir)

	v.SetDefault("handle_cache.enabled", true)
	v.SetDefault("handle_cache.ttl_secs", 300)

	v.SetDefault("maintenance.enabled", false)
	v.SetDefault("maintenance.cron_expr", "0 */6 * * *")

	v.SetDefault("logging.enabled", true)
	v.SetDefault("logging.file_path", "./data/anvilstore.log")
	v.SetDefault("logging.max_size", 10)
	v.SetDefault("logging.max_backups", 5)
	v.SetDefault("logging.max_age", 30)
	v.SetDefault("logging.compress", true)
}

func validateConfig(cfg *Config) error {
	var err error
	cfg.Storage.DataDir, err = filepath.Abs(cfg.Storage.DataDir)
	if err != nil {
		return fmt.Errorf("invalid data directory: %w", err)
	}
	if cfg.HandleCache.TTLSecs <= 0 {
		return fmt.Errorf("handle_cache.ttl_secs must be positive")
	}
	return nil
}
