package config

import (
	"path/filepath"
	"testing"
)

func TestConfig_GetTestPath(t *testing.T) {
	tests := []struct {
		name     string
		config   *Config
		expected string
	}{
		{
			name: "default path",
			config: &Config{
				ProjectPath: ".",
				TestPath:    ".",
				Flags:       Flags{},
			},
			expected: ".",
		},
		{
			name: "with test path flag",
			config: &Config{
				ProjectPath: "/project",
				TestPath:    ".",
				Flags: Flags{
					TestPath: "tests",
				},
			},
			expected: "/project/tests",
		},
		{
			name: "absolute test path",
			config: &Config{
				ProjectPath: "/project",
				TestPath:    ".",
				Flags: Flags{
					TestPath: "/absolute/path",
				},
			},
			expected: "/absolute/path",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.config.GetTestPath()
			if result != tt.expected {
				t.Errorf("expected %s, got %s", tt.expected, result)
			}
		})
	}
}

func TestConfig_GetFixtureDir(t *testing.T) {
	tests := []struct {
		name     string
		config   *Config
		expected string
	}{
		{
			name: "default under project",
			config: &Config{
				ProjectPath: "/project",
				FixtureDir:  "tests/fixtures",
			},
			expected: "/project/tests/fixtures",
		},
		{
			name: "flag override",
			config: &Config{
				ProjectPath: "/project",
				FixtureDir:  "tests/fixtures",
				Flags:       Flags{FixtureDir: "custom/fixtures"},
			},
			expected: "/project/custom/fixtures",
		},
		{
			name: "absolute flag override",
			config: &Config{
				ProjectPath: "/project",
				FixtureDir:  "tests/fixtures",
				Flags:       Flags{FixtureDir: "/elsewhere/fixtures"},
			},
			expected: "/elsewhere/fixtures",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.config.GetFixtureDir()
			if result != filepath.FromSlash(tt.expected) {
				t.Errorf("expected %s, got %s", tt.expected, result)
			}
		})
	}
}

func TestConfig_GetDatabaseName(t *testing.T) {
	cfg := New()

	t.Run("default database name", func(t *testing.T) {
		name := cfg.GetDatabaseName(1)
		expected := "testing_1"
		if name != expected {
			t.Errorf("expected %s, got %s", expected, name)
		}
	})

	t.Run("different worker IDs", func(t *testing.T) {
		seen := make(map[string]bool)
		for i := 1; i <= 5; i++ {
			name := cfg.GetDatabaseName(i)
			if name == "" {
				t.Errorf("database name should not be empty for worker %d", i)
			}
			if seen[name] {
				t.Errorf("duplicate database name %s for worker %d", name, i)
			}
			seen[name] = true
		}
	})
}

func TestNew(t *testing.T) {
	cfg := New()

	if cfg.ProjectPath != DefaultProjectPath {
		t.Errorf("expected ProjectPath %s, got %s", DefaultProjectPath, cfg.ProjectPath)
	}

	if cfg.FixtureDir != DefaultFixtureDir {
		t.Errorf("expected FixtureDir %s, got %s", DefaultFixtureDir, cfg.FixtureDir)
	}

	if cfg.Processors != DefaultProcessors {
		t.Errorf("expected Processors %d, got %d", DefaultProcessors, cfg.Processors)
	}

	if len(cfg.PathsToIgnore) != len(DefaultPathsToIgnore) {
		t.Errorf("expected %d paths to ignore, got %d", len(DefaultPathsToIgnore), len(cfg.PathsToIgnore))
	}
}
