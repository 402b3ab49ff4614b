// Package config loads the OMAG server platform configuration.
package config

import (
	"time"
)

// Config is the configuration of one OMAG server platform process.
type Config struct {
	Environment string             `mapstructure:"environment" yaml:"environment" validate:"required"`
	Server      ServerConfig       `mapstructure:"server" yaml:"server"`
	Platform    PlatformConfig     `mapstructure:"platform" yaml:"platform"`
	Database    DatabaseConfig     `mapstructure:"database" yaml:"database"`
	Redis       RedisConfig        `mapstructure:"redis" yaml:"redis"`
	Kafka       KafkaConfig        `mapstructure:"kafka" yaml:"kafka"`
	Security    SecurityConfig     `mapstructure:"security" yaml:"security"`
	Audit       AuditConfig        `mapstructure:"audit" yaml:"audit"`
	Logging     LoggingConfig      `mapstructure:"logging" yaml:"logging"`
	Telemetry   TelemetryConfig    `mapstructure:"telemetry" yaml:"telemetry"`
	Servers     []OMAGServerConfig `mapstructure:"servers" yaml:"servers" validate:"required,min=1,dive"`
}

// ServerConfig holds HTTP listener settings.
type ServerConfig struct {
	Host            string        `mapstructure:"host" yaml:"host"`
	Port            int           `mapstructure:"port" yaml:"port" validate:"min=1,max=65535"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout" yaml:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout" yaml:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout"`
	CORSOrigins     []string      `mapstructure:"cors_origins" yaml:"cors_origins"`
}

// PlatformConfig describes how clients reach this platform.
type PlatformConfig struct {
	URLRoot string `mapstructure:"url_root" yaml:"url_root" validate:"required,url"`
}

// DatabaseConfig selects the metadata store.
type DatabaseConfig struct {
	Driver          string        `mapstructure:"driver" yaml:"driver" validate:"oneof=memory sqlite postgres"`
	DSN             string        `mapstructure:"dsn" yaml:"dsn"`
	MaxOpenConns    int           `mapstructure:"max_open_conns" yaml:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns" yaml:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime" yaml:"conn_max_lifetime"`
}

// RedisConfig configures the entity read cache.
type RedisConfig struct {
	Enabled  bool          `mapstructure:"enabled" yaml:"enabled"`
	Address  string        `mapstructure:"address" yaml:"address"`
	Password string        `mapstructure:"password" yaml:"password"`
	DB       int           `mapstructure:"db" yaml:"db"`
	TTL      time.Duration `mapstructure:"ttl" yaml:"ttl"`
}

// KafkaConfig configures the access service topics.
type KafkaConfig struct {
	Enabled             bool     `mapstructure:"enabled" yaml:"enabled"`
	Brokers             []string `mapstructure:"brokers" yaml:"brokers"`
	InTopic             string   `mapstructure:"in_topic" yaml:"in_topic"`
	OutTopic            string   `mapstructure:"out_topic" yaml:"out_topic"`
	ConsumerGroupPrefix string   `mapstructure:"consumer_group_prefix" yaml:"consumer_group_prefix"`
}

// SecurityConfig configures bearer token checks on REST calls.
type SecurityConfig struct {
	Enabled   bool   `mapstructure:"enabled" yaml:"enabled"`
	JWTSecret string `mapstructure:"jwt_secret" yaml:"jwt_secret"`
	Issuer    string `mapstructure:"issuer" yaml:"issuer"`
}

// AuditConfig selects where audit log records are kept.
type AuditConfig struct {
	// BadgerPath enables the badger destination when set.
	BadgerPath string `mapstructure:"badger_path" yaml:"badger_path"`
}

// LoggingConfig holds the zap level.
type LoggingConfig struct {
	Level string `mapstructure:"level" yaml:"level" validate:"omitempty,oneof=debug info warn warning error"`
}

// TelemetryConfig enables OpenTelemetry tracing.
type TelemetryConfig struct {
	Enabled     bool   `mapstructure:"enabled" yaml:"enabled"`
	ServiceName string `mapstructure:"service_name" yaml:"service_name"`
}

// OMAGServerConfig describes one logical OMAG server hosted by the platform.
type OMAGServerConfig struct {
	Name                   string   `mapstructure:"name" yaml:"name" validate:"required"`
	MetadataCollectionID   string   `mapstructure:"metadata_collection_id" yaml:"metadata_collection_id"`
	MetadataCollectionName string   `mapstructure:"metadata_collection_name" yaml:"metadata_collection_name"`
	DefaultZones           []string `mapstructure:"default_zones" yaml:"default_zones"`
	PublishedZones         []string `mapstructure:"published_zones" yaml:"published_zones"`
	MaxPageSize            int      `mapstructure:"max_page_size" yaml:"max_page_size" validate:"min=0"`
}

// OMAGServer returns the named server configuration.
func (c *Config) OMAGServer(name string) (OMAGServerConfig, bool) {
	for _, s := range c.Servers {
		if s.Name == name {
			return s, true
		}
	}
	return OMAGServerConfig{}, false
}
