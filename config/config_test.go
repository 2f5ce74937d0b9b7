package config

import (
	"testing"

	"filatrack/pkg/logger"

	"github.com/stretchr/testify/assert"
)

func TestValidateConfig(t *testing.T) {
	log := logger.New("config_test")

	valid := Config{
		ServerPort:      8380,
		DatabasePath:    "filatrack.db",
		ElectricityRate: 0.15,
	}

	tests := []struct {
		name        string
		mutate      func(c *Config)
		expectError bool
	}{
		{
			name:   "Valid config",
			mutate: func(c *Config) {},
		},
		{
			name:        "Zero server port",
			mutate:      func(c *Config) { c.ServerPort = 0 },
			expectError: true,
		},
		{
			name:        "Empty database path",
			mutate:      func(c *Config) { c.DatabasePath = "" },
			expectError: true,
		},
		{
			name:        "Negative electricity rate",
			mutate:      func(c *Config) { c.ElectricityRate = -0.01 },
			expectError: true,
		},
		{
			name: "Backup enabled without directory",
			mutate: func(c *Config) {
				c.BackupEnabled = true
				c.BackupDirectory = ""
			},
			expectError: true,
		},
		{
			name: "Backup enabled with directory",
			mutate: func(c *Config) {
				c.BackupEnabled = true
				c.BackupDirectory = "backups"
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := valid
			tt.mutate(&config)

			err := validateConfig(config, log)

			if tt.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
