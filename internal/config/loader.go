package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// EnvPrefix prefixes every environment override, e.g. OMAG_DATABASE_DRIVER.
const EnvPrefix = "OMAG"

// DefaultPaths are searched when no explicit configuration file is given.
var DefaultPaths = []string{
	"./config.yaml",
	"./configs/config.yaml",
	"/etc/omag/config.yaml",
}

// Loader reads configuration files and environment overrides.
type Loader struct {
	viper    *viper.Viper
	validate *validator.Validate
	logger   *zap.Logger
	files    []string
}

// NewLoader creates a loader with every default registered.
func NewLoader(logger *zap.Logger) *Loader {
	if logger == nil {
		logger = zap.NewNop()
	}
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)
	return &Loader{viper: v, validate: validator.New(), logger: logger}
}

// Load merges the given files (or DefaultPaths), applies environment overrides and
// validates the result.
func (l *Loader) Load(paths ...string) (*Config, error) {
	if len(paths) == 0 {
		paths = DefaultPaths
	}
	for _, path := range paths {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			l.logger.Debug("Config file not found, skipping", zap.String("path", path))
			continue
		}
		l.viper.SetConfigFile(path)
		if err := l.viper.MergeInConfig(); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
		l.files = append(l.files, path)
	}
	if len(l.files) == 0 {
		l.logger.Warn("No configuration files found, using defaults and environment variables")
	} else {
		l.logger.Info("Loaded configuration files", zap.Strings("files", l.files))
	}
	return l.decode()
}

func (l *Loader) decode() (*Config, error) {
	var cfg Config
	if err := l.viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	applyServerDefaults(&cfg)
	if err := l.validate.Struct(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return &cfg, nil
}

// Watch reloads the configuration whenever the last loaded file changes. Invalid
// configurations are logged and skipped.
func (l *Loader) Watch(onChange func(*Config)) {
	if len(l.files) == 0 {
		return
	}
	l.viper.OnConfigChange(func(e fsnotify.Event) {
		cfg, err := l.decode()
		if err != nil {
			l.logger.Error("Ignoring invalid configuration change", zap.String("file", e.Name), zap.Error(err))
			return
		}
		l.logger.Info("Configuration reloaded", zap.String("file", e.Name))
		onChange(cfg)
	})
	l.viper.WatchConfig()
}

// Load is a convenience wrapper around NewLoader(logger).Load(paths...).
func Load(logger *zap.Logger, paths ...string) (*Config, error) {
	return NewLoader(logger).Load(paths...)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("environment", "development")

	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 9443)
	v.SetDefault("server.read_timeout", 30*time.Second)
	v.SetDefault("server.write_timeout", 30*time.Second)
	v.SetDefault("server.shutdown_timeout", 15*time.Second)
	v.SetDefault("server.cors_origins", []string{"*"})

	v.SetDefault("platform.url_root", "http://localhost:9443")

	v.SetDefault("database.driver", "memory")
	v.SetDefault("database.dsn", "")
	v.SetDefault("database.max_open_conns", 25)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime", 5*time.Minute)

	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.address", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.ttl", 5*time.Minute)

	v.SetDefault("kafka.enabled", false)
	v.SetDefault("kafka.brokers", []string{"localhost:9092"})
	v.SetDefault("kafka.in_topic", "egeria.omag.server.omas.dataengine.inTopic")
	v.SetDefault("kafka.out_topic", "egeria.omag.server.omas.assetmanager.outTopic")
	v.SetDefault("kafka.consumer_group_prefix", "omag")

	v.SetDefault("security.enabled", false)
	v.SetDefault("security.jwt_secret", "")
	v.SetDefault("security.issuer", "omag")

	v.SetDefault("audit.badger_path", "")
	v.SetDefault("logging.level", "info")

	v.SetDefault("telemetry.enabled", false)
	v.SetDefault("telemetry.service_name", "omag-server-platform")

	v.SetDefault("servers", []map[string]any{{"name": "omag-server"}})
}

// applyServerDefaults fills per-server values that viper cannot default inside a list.
func applyServerDefaults(cfg *Config) {
	for i := range cfg.Servers {
		s := &cfg.Servers[i]
		if s.MetadataCollectionName == "" {
			s.MetadataCollectionName = s.Name
		}
		if s.MetadataCollectionID == "" {
			s.MetadataCollectionID = s.Name + "-metadata-collection"
		}
		if s.MaxPageSize == 0 {
			s.MaxPageSize = 1000
		}
	}
}
