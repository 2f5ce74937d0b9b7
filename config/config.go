package config

import (
	"filatrack/pkg/logger"

	"github.com/spf13/viper"
)

type Config struct {
	GeneralVersion   string  `mapstructure:"GENERAL_VERSION"`
	Environment      string  `mapstructure:"ENVIRONMENT"`
	ServerPort       int     `mapstructure:"SERVER_PORT"`
	DatabasePath     string  `mapstructure:"DB_PATH"`
	CorsAllowOrigins string  `mapstructure:"CORS_ALLOW_ORIGINS"`
	ElectricityRate  float64 `mapstructure:"ELECTRICITY_RATE"`
	CurrencyCode     string  `mapstructure:"CURRENCY_CODE"`
	BackupDirectory  string  `mapstructure:"BACKUP_DIRECTORY"`
	BackupEnabled    bool    `mapstructure:"BACKUP_ENABLED"`
	SchedulerEnabled bool    `mapstructure:"SCHEDULER_ENABLED"`
}

var ConfigInstance Config

func New() (Config, error) {
	log := logger.New("config").Function("New")
	log.Info("Initializing config")

	// Enable automatic environment variable reading first
	viper.AutomaticEnv()

	// Bind environment variables to config keys
	envVars := []string{
		"GENERAL_VERSION", "ENVIRONMENT", "SERVER_PORT", "DB_PATH",
		"CORS_ALLOW_ORIGINS",
		"ELECTRICITY_RATE", "CURRENCY_CODE",
		"BACKUP_DIRECTORY", "BACKUP_ENABLED", "SCHEDULER_ENABLED",
	}

	for _, env := range envVars {
		if err := viper.BindEnv(env); err != nil {
			log.Warn("Failed to bind environment variable", "env", env, "error", err)
		}
	}

	setDefaults()

	// Check if key environment variables are already set
	envVarsSet := viper.IsSet("SERVER_PORT") && viper.IsSet("DB_PATH")

	if envVarsSet {
		log.Info("Environment variables detected, skipping file loading")
	} else {
		log.Info("Environment variables not found, attempting to load from files")

		// Load base .env file
		viper.SetConfigFile(".env")
		viper.SetConfigType("env")

		if err := viper.ReadInConfig(); err != nil {
			log.Warn("Could not find .env file", "error", err)
		} else {
			log.Info("Loaded .env file")
		}

		// Load .env.local overrides if it exists
		viper.SetConfigFile(".env.local")
		if err := viper.MergeInConfig(); err != nil {
			log.Debug("No .env.local file found", "error", err)
		} else {
			log.Info("Loaded .env.local overrides")
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return Config{}, log.Err("Fatal error: could not unmarshal config", err)
	}

	log.Info("Successfully initialized config", "config", config)
	if err := validateConfig(config, log); err != nil {
		return Config{}, err
	}

	ConfigInstance = config
	return ConfigInstance, nil
}

func GetConfig() Config {
	return ConfigInstance
}

func setDefaults() {
	viper.SetDefault("SERVER_PORT", 8380)
	viper.SetDefault("DB_PATH", "filatrack.db")
	viper.SetDefault("CURRENCY_CODE", "USD")
	viper.SetDefault("ELECTRICITY_RATE", 0.0)
	viper.SetDefault("BACKUP_DIRECTORY", "backups")
}

func validateConfig(config Config, log logger.Logger) error {
	if config.ServerPort <= 0 {
		return log.Error(
			"Fatal error: invalid server port",
			"port", config.ServerPort,
		)
	}

	if config.DatabasePath == "" {
		return log.Error("Fatal error: database path is empty")
	}

	if config.ElectricityRate < 0 {
		return log.Error(
			"Fatal error: electricity rate cannot be negative",
			"rate", config.ElectricityRate,
		)
	}

	if config.BackupEnabled && config.BackupDirectory == "" {
		return log.Error("Fatal error: BACKUP_DIRECTORY required when BACKUP_ENABLED is set")
	}

	return nil
}
