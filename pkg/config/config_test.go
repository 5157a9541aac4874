package config

import (
	"reflect"
	"testing"

	"github.com/spf13/viper"

	"github.com/Coobeliues/vector-search/pkg/archive"
)

// resetViper gives each test a fresh global viper with the archiver
// defaults registered.
func resetViper(t *testing.T) {
	t.Helper()
	viper.Reset()
	t.Cleanup(viper.Reset)
	Init()
}

func TestLoadDefaults(t *testing.T) {
	resetViper(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Archive.OutputName != "vector_search_project.tar.gz" {
		t.Errorf("Archive.OutputName = %q, expected %q",
			cfg.Archive.OutputName, "vector_search_project.tar.gz")
	}
	if cfg.Archive.ListingLimit != 20 {
		t.Errorf("Archive.ListingLimit = %d, expected 20", cfg.Archive.ListingLimit)
	}
	if !reflect.DeepEqual(cfg.Archive.Excludes, archive.DefaultExcludes()) {
		t.Errorf("Archive.Excludes = %v, expected the default exclusion list", cfg.Archive.Excludes)
	}
	if !cfg.History.Enabled {
		t.Error("History.Enabled = false, expected true")
	}
	if cfg.History.Path != "" {
		t.Errorf("History.Path = %q, expected empty", cfg.History.Path)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q, expected %q", cfg.LogLevel, "info")
	}
	if cfg.Workers != 3 {
		t.Errorf("Workers = %d, expected 3", cfg.Workers)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	resetViper(t)

	t.Setenv("VSARCHIVE_ARCHIVE_OUTPUT_NAME", "custom.tar.gz")
	t.Setenv("VSARCHIVE_ARCHIVE_LISTING_LIMIT", "5")
	t.Setenv("VSARCHIVE_HISTORY_ENABLED", "false")
	t.Setenv("VSARCHIVE_LOG_LEVEL", "debug")
	t.Setenv("VSARCHIVE_WORKERS", "5")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Archive.OutputName != "custom.tar.gz" {
		t.Errorf("Archive.OutputName = %q, expected %q", cfg.Archive.OutputName, "custom.tar.gz")
	}
	if cfg.Archive.ListingLimit != 5 {
		t.Errorf("Archive.ListingLimit = %d, expected 5", cfg.Archive.ListingLimit)
	}
	if cfg.History.Enabled {
		t.Error("History.Enabled = true, expected false")
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q, expected %q", cfg.LogLevel, "debug")
	}
	if cfg.Workers != 5 {
		t.Errorf("Workers = %d, expected 5", cfg.Workers)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"unknown log level", "VSARCHIVE_LOG_LEVEL", "verbose"},
		{"too many workers", "VSARCHIVE_WORKERS", "99"},
		{"zero workers", "VSARCHIVE_WORKERS", "0"},
		{"zero listing limit", "VSARCHIVE_ARCHIVE_LISTING_LIMIT", "0"},
		{"oversized listing limit", "VSARCHIVE_ARCHIVE_LISTING_LIMIT", "5000"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resetViper(t)
			t.Setenv(tt.key, tt.value)

			if _, err := Load(); err == nil {
				t.Errorf("Load() accepted %s=%q, expected a validation error", tt.key, tt.value)
			}
		})
	}
}
