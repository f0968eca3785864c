package config

import (
	"time"

	"github.com/spf13/viper"
)

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	URL             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// NewDatabaseConfig creates a new database configuration using Viper
func NewDatabaseConfig() DatabaseConfig {
	return DatabaseConfig{
		URL:             viper.GetString(DBURL),
		MaxOpenConns:    viper.GetInt(DBMaxOpenConns),
		MaxIdleConns:    viper.GetInt(DBMaxIdleConns),
		ConnMaxLifetime: viper.GetDuration(DBConnMaxLifetime),
	}
}

// GetConnectionString returns the PostgreSQL connection string
func (c DatabaseConfig) GetConnectionString() string {
	return c.URL
}
