// Package config loads the archiver configuration from environment
// variables and an optional .env file.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/Coobeliues/vector-search/pkg/archive"
	"github.com/Coobeliues/vector-search/pkg/logger"
)

const (
	envPrefix = "VSARCHIVE"
)

// Config holds the configuration for the archiver.
type Config struct {
	Archive struct {
		OutputName   string   `mapstructure:"output_name" validate:"required" comment:"Archive filename written to the project's parent directory"`
		Excludes     []string `mapstructure:"excludes" comment:"Glob patterns omitted from the archive"`
		ListingLimit int      `mapstructure:"listing_limit" validate:"gte=1,lte=1000" comment:"Archive members printed in the success report"`
	} `mapstructure:"archive"`

	History struct {
		Enabled bool   `mapstructure:"enabled" comment:"Record runs in the local history database"`
		Path    string `mapstructure:"path" comment:"History database path (empty means ~/.vector-search/history.db)"`
	} `mapstructure:"history"`

	LogLevel string `mapstructure:"log_level" validate:"oneof=debug info warn error fatal panic" comment:"Log level"`
	Workers  int    `mapstructure:"workers" validate:"gte=1,lte=32" comment:"Concurrent packing workers"`
}

// Init initializes Viper configuration
func Init() {
	viper.SetEnvPrefix(envPrefix)
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))

	// Set default values
	setDefaults()
}

// setDefaults sets the default values for the configuration
func setDefaults() {
	viper.SetDefault("archive.output_name", "vector_search_project.tar.gz")
	viper.SetDefault("archive.excludes", archive.DefaultExcludes())
	viper.SetDefault("archive.listing_limit", 20)

	viper.SetDefault("history.enabled", true)
	viper.SetDefault("history.path", "")

	viper.SetDefault("log_level", "info")
	viper.SetDefault("workers", 3)
}

// Load loads the configuration from the environment variables and .env file
func Load() (*Config, error) {
	// Load .env if it exists
	if _, err := os.Stat(".env"); err == nil {
		logger.Info("Loading .env file")
		if err := godotenv.Load(); err != nil {
			return nil, fmt.Errorf("error loading .env file: %w", err)
		}
	}

	// Unmarshal the configuration
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling configuration: %v", err)
	}

	// Validate the configuration
	if err := validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// validate validates the configuration
func validate(cfg *Config) error {
	validate := validator.New()
	return validate.Struct(cfg)
}
