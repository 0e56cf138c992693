package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"   validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Cache    CacheConfig    `mapstructure:"cache"    validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port"      validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// DatabaseConfig contains all database-related configuration settings.
// The database is the source of truth; startup fails if it is unreachable.
type DatabaseConfig struct {
	URL string `mapstructure:"url" validate:"required,url"`
}

// CacheConfig contains all cache-related configuration settings.
// The cache is optional at runtime: if the Redis instance named by URL is
// unreachable, or Enabled is false, the API serves directly from the
// database.
type CacheConfig struct {
	URL     string `mapstructure:"url" validate:"required,url"`
	Enabled bool   `mapstructure:"enabled"`
}
