package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// Config holds all configuration for the application
type Config struct {
	// Project settings
	ProjectPath string
	TestPath    string

	// Fixture settings
	FixtureDir    string
	ModuleMapFile string
	ReinitScript  string
	CacheName     string
	PHPBinary     string

	// Output settings
	OutputJSONFile string
	OutputJSONDir  string

	// Execution settings
	Processors int

	// Paths to ignore when scanning
	PathsToIgnore []string

	// Command flags
	Flags Flags
}

// Flags holds command-line flags
type Flags struct {
	Processors   int
	Migrate      bool
	NoFresh      bool
	TestPath     string
	NameFilter   string
	TestCases    bool
	FailFast     bool
	NoFixtures   bool
	FixtureDir   string
	ShowFixtures bool
	OpenFailures bool
}

// New creates a new Config with defaults
func New() *Config {
	cfg := &Config{
		ProjectPath:    DefaultProjectPath,
		TestPath:       DefaultTestPath,
		FixtureDir:     DefaultFixtureDir,
		ModuleMapFile:  DefaultModuleMapFile,
		ReinitScript:   DefaultReinitScript,
		CacheName:      DefaultCacheName,
		PHPBinary:      DefaultPHPBinary,
		OutputJSONFile: DefaultOutputJSONFile,
		OutputJSONDir:  DefaultOutputJSONDir,
		Processors:     DefaultProcessors,
		Flags:          Flags{Processors: DefaultProcessors},
	}
	// Copy default paths to ignore
	cfg.PathsToIgnore = make([]string, len(DefaultPathsToIgnore))
	copy(cfg.PathsToIgnore, DefaultPathsToIgnore)
	return cfg
}

// Load creates a config and applies flags
func Load(flags Flags) *Config {
	cfg := New()
	cfg.Flags = flags

	// Apply flag overrides
	if flags.Processors > 0 {
		cfg.Processors = flags.Processors
	}

	return cfg
}

// GetTestPath returns the test path, using flag if provided
func (c *Config) GetTestPath() string {
	if c.Flags.TestPath != "" {
		// If TestPath is provided, make it relative to ProjectPath if it's not absolute
		if filepath.IsAbs(c.Flags.TestPath) {
			return c.Flags.TestPath
		}
		return filepath.Join(c.ProjectPath, c.Flags.TestPath)
	}

	// Default: combine project path and test path
	return filepath.Join(c.ProjectPath, c.TestPath)
}

// GetFixtureDir returns the fixture base directory, using flag if provided
func (c *Config) GetFixtureDir() string {
	dir := c.FixtureDir
	if c.Flags.FixtureDir != "" {
		dir = c.Flags.FixtureDir
	}
	if filepath.IsAbs(dir) {
		return dir
	}
	return filepath.Join(c.ProjectPath, dir)
}

// GetModuleMapPath returns the path to the module map file
func (c *Config) GetModuleMapPath() string {
	if filepath.IsAbs(c.ModuleMapFile) {
		return c.ModuleMapFile
	}
	return filepath.Join(c.ProjectPath, c.ModuleMapFile)
}

// GetReinitScript returns the path to the application reinit script
func (c *Config) GetReinitScript() string {
	if filepath.IsAbs(c.ReinitScript) {
		return c.ReinitScript
	}
	return filepath.Join(c.ProjectPath, c.ReinitScript)
}

// GetOutputPath returns the absolute path to the output JSON file, so run and
// failures read/write the same file regardless of cwd.
func (c *Config) GetOutputPath() string {
	p := filepath.Join(c.ProjectPath, c.OutputJSONDir, c.OutputJSONFile)
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return p
}

// GetPHPUnitPath returns the path to PHPUnit binary
func (c *Config) GetPHPUnitPath() string {
	return filepath.Join(c.ProjectPath, "vendor", "bin", "phpunit")
}

// GetAutoloadPath returns the path to the Composer autoloader
func (c *Config) GetAutoloadPath() string {
	return filepath.Join(c.ProjectPath, "vendor", "autoload.php")
}

// GetDatabaseName returns the database name for a worker
func (c *Config) GetDatabaseName(workerID int) string {
	prefix := os.Getenv("DB_DATABASE_PREFIX")
	if prefix == "" {
		prefix = "testing"
	}
	return fmt.Sprintf("%s_%d", prefix, workerID)
}
