package config

const (
	// DefaultProjectPath is the default project path
	DefaultProjectPath = "."
	// DefaultTestPath is the default test path
	DefaultTestPath = "."
	// DefaultFixtureDir is the default base directory for fixture scripts,
	// relative to the project path
	DefaultFixtureDir = "tests/fixtures"
	// DefaultModuleMapFile is the default module map file name
	DefaultModuleMapFile = "modules.yaml"
	// DefaultReinitScript is the default application reinit script, relative
	// to the project path
	DefaultReinitScript = "tests/reinit.php"
	// DefaultCacheName is the name of the metadata cache invalidated after each test
	DefaultCacheName = "metadata"
	// DefaultOutputJSONFile is the default output JSON file name
	DefaultOutputJSONFile = "fixture-results.json"
	// DefaultOutputJSONDir is the default output directory
	DefaultOutputJSONDir = "storage"
	// DefaultProcessors is the default number of processors
	DefaultProcessors = 4
	// DefaultPHPBinary is the PHP interpreter used for fixtures and scripts
	DefaultPHPBinary = "php"
)

// DefaultPathsToIgnore are the default directories to ignore when scanning for tests
var DefaultPathsToIgnore = []string{
	"vendor",
	"node_modules",
	"public",
	"storage",
	"bootstrap",
	"config",
	"database",
	"resources",
	"routes",
}
