package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func validConfig() Config {
	return Config{
		ServerPort:     8280,
		JWTSecret:      "secret",
		DatabaseDriver: DriverSQLite,
		DatabaseName:   "vistoria.db",
		StorageType:    StorageLocal,
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{"valid sqlite", func(c *Config) {}, false},
		{"invalid port", func(c *Config) { c.ServerPort = 0 }, true},
		{"missing jwt secret", func(c *Config) { c.JWTSecret = "" }, true},
		{"unknown driver", func(c *Config) { c.DatabaseDriver = "mysql" }, true},
		{"postgres without host", func(c *Config) { c.DatabaseDriver = DriverPostgres }, true},
		{"postgres complete", func(c *Config) {
			c.DatabaseDriver = DriverPostgres
			c.DatabaseHost = "localhost"
			c.DatabaseUser = "postgres"
		}, false},
		{"github storage without token", func(c *Config) { c.StorageType = StorageGitHub }, true},
		{"github storage complete", func(c *Config) {
			c.StorageType = StorageGitHub
			c.GitHubToken = "token"
			c.GitHubOwner = "owner"
			c.GitHubRepo = "repo"
		}, false},
		{"unknown storage", func(c *Config) { c.StorageType = "s3" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := validConfig()
			tt.mutate(&config)

			err := Validate(config)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestConfig_CacheEnabled(t *testing.T) {
	config := validConfig()
	assert.False(t, config.CacheEnabled())

	config.DatabaseCacheAddress = "localhost"
	config.DatabaseCachePort = 6379
	assert.True(t, config.CacheEnabled())
}
