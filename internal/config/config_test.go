package config

import (
	"os"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfig_Validate(t *testing.T) {
	base := func() *Config {
		return &Config{
			Port:              "8080",
			DBDriver:          "postgres",
			DBPassword:        "s3cure-password",
			DBSSLMode:         "require",
			Env:               "production",
			FirebaseProjectID: "sahityapata-prod",
			AdminEmails:       "editor@example.com",
		}
	}

	tests := []struct {
		name        string
		mutate      func(c *Config)
		expectError bool
	}{
		{"Valid production config", func(c *Config) {}, false},
		{"Missing port", func(c *Config) { c.Port = "" }, true},
		{"Unsupported driver", func(c *Config) { c.DBDriver = "mysql" }, true},
		{"Production without Firebase project", func(c *Config) { c.FirebaseProjectID = "" }, true},
		{"Production without admin allow-list", func(c *Config) { c.AdminEmails = "" }, true},
		{"Production with default password", func(c *Config) { c.DBPassword = "password" }, true},
		{"Development without Firebase project", func(c *Config) {
			c.Env = "development"
			c.FirebaseProjectID = ""
			c.AdminEmails = ""
			c.DBPassword = ""
		}, false},
		{"Sqlite driver accepted", func(c *Config) { c.DBDriver = "sqlite" }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := base()
			tt.mutate(c)
			err := c.Validate()
			if tt.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestConfig_AdminEmailSet(t *testing.T) {
	c := &Config{AdminEmails: " Editor@Example.com, reviewer@example.com ,, "}
	set := c.AdminEmailSet()

	assert.Len(t, set, 2)
	assert.Contains(t, set, "editor@example.com")
	assert.Contains(t, set, "reviewer@example.com")

	empty := &Config{}
	assert.Empty(t, empty.AdminEmailSet())
}

func TestLoadConfig_Defaults(t *testing.T) {
	defer os.Unsetenv("APP_ENV")
	defer viper.Reset()

	os.Setenv("APP_ENV", "test")

	c, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "8080", c.Port)
	assert.Equal(t, "postgres", c.DBDriver)
	assert.Equal(t, "test", c.Env)
	assert.False(t, c.TracingEnabled)
	assert.Equal(t, "stdout", c.TracingExporter)
}
