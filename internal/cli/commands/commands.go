package commands

import (
	"pfx/internal/cache"
	"pfx/internal/cli"
	"pfx/internal/config"
	"pfx/internal/discovery"
	"pfx/internal/execution"
	"pfx/internal/fixture"
	"pfx/internal/migration"
	"pfx/internal/parser"
	"pfx/internal/php"
	"pfx/internal/phpmodule"
	"pfx/internal/process"
	"pfx/internal/storage"
	"pfx/internal/ui"

	"github.com/spf13/cobra"
)

// Commands holds all CLI commands
type Commands struct {
	Run      *RunCommand
	List     *ListCommand
	Check    *CheckCommand
	Migrate  *MigrateCommand
	Failures *FailuresCommand
}

// NewCommands creates all commands with dependencies
func NewCommands(cfg *config.Config) *Commands {
	scanner := discovery.NewScanner(cfg.PathsToIgnore)
	filter := discovery.NewFilter()
	caseParser := discovery.NewParser()
	annotations := discovery.NewAnnotationParser()
	runner := execution.NewRunner(cfg)
	scheduler := execution.NewRoundRobinScheduler()
	phpunitParser := parser.NewPHPUnitParser()
	executor := execution.NewWorkerPool(cfg, runner, scheduler, phpunitParser, managerFactory(cfg))
	jsonStorage := storage.NewJSONStorage(cfg)
	formatter := ui.NewFormatter(cfg, caseParser, annotations, jsonStorage)
	dbManager := migration.NewDatabaseManager(cfg)
	migrator := migration.NewLaravelMigrator(cfg, dbManager)
	errorViewer := ui.NewErrorViewer(cfg)

	return &Commands{
		Run:      NewRunCommand(cfg, scanner, filter, caseParser, annotations, executor, phpunitParser, jsonStorage, formatter, migrator, errorViewer),
		List:     NewListCommand(cfg, scanner, filter, formatter),
		Check:    NewCheckCommand(cfg, scanner, filter, annotations),
		Migrate:  NewMigrateCommand(cfg, migrator),
		Failures: NewFailuresCommand(cfg, jsonStorage, errorViewer),
	}
}

// managerFactory wires a fixture lifecycle manager for one worker: its own
// PHP executor, reinitializer and cache invalidator, all bound to the
// worker's test database.
func managerFactory(cfg *config.Config) execution.ManagerFactory {
	return func(workerID int) (*fixture.Manager, error) {
		modules, err := phpmodule.NewResolver(cfg.ProjectPath, cfg.GetModuleMapPath())
		if err != nil {
			return nil, err
		}
		executor := php.NewExecutor(cfg, workerID)
		return fixture.NewManager(cfg.GetFixtureDir(), fixture.Options{
			Invoker:   executor,
			Modules:   modules,
			Reinit:    process.NewReinitializer(cfg, executor),
			Cache:     cache.New(cfg, workerID),
			CacheName: cfg.CacheName,
		})
	}
}

// Register registers all commands with cobra
func (c *Commands) Register(rootCmd *cobra.Command, flags *cli.Flags, cfg *config.Config) {
	applyFlags := func(cmd *cobra.Command, args []string) error {
		cfg.Flags = flags.ToConfigFlags()
		if flags.Processors > 0 {
			cfg.Processors = flags.Processors
		}
		return nil
	}

	// Run command
	runCmd := &cobra.Command{
		Use:     "run",
		Short:   "Run PHPUnit tests with their declared fixtures",
		Long:    "Discover tests, apply each test's declared fixtures, execute the test and revert the fixtures, in parallel workers",
		RunE:    c.Run.Execute,
		PreRunE: applyFlags,
	}
	runCmd.Flags().IntVarP(&flags.Processors, "processors", "p", 4, "Number of processors to use")
	runCmd.Flags().BoolVarP(&flags.Migrate, "migrate", "m", false, "Run migrations before executing tests")
	runCmd.Flags().BoolVar(&flags.NoFresh, "no-fresh", false, "Run migrations without fresh (only pending migrations)")
	runCmd.Flags().StringVarP(&flags.TestPath, "test-path", "t", "", "Path to the folder where test detection should start")
	runCmd.Flags().StringVarP(&flags.NameFilter, "filter", "f", "", "Filter tests by name pattern (supports wildcards, e.g., '*UserTest.php' or '*Payment*')")
	runCmd.Flags().StringVar(&flags.FixtureDir, "fixture-dir", "", "Base directory for fixture scripts (default tests/fixtures)")
	runCmd.Flags().BoolVar(&flags.FailFast, "fail-fast", false, "Stop on first test failure")
	runCmd.Flags().BoolVar(&flags.NoFixtures, "no-fixtures", false, "Skip the fixture lifecycle and run whole test files")
	runCmd.Flags().BoolVar(&flags.OpenFailures, "open-failures", false, "Open the failures viewer when the run finishes with failures")
	rootCmd.AddCommand(runCmd)

	// List command
	listCmd := &cobra.Command{
		Use:     "list",
		Short:   "List discovered tests",
		Long:    "Scan and list all PHPUnit tests without executing them",
		RunE:    c.List.Execute,
		PreRunE: applyFlags,
	}
	listCmd.Flags().StringVarP(&flags.NameFilter, "filter", "f", "", "Filter tests by name pattern (supports wildcards, e.g., '*UserTest.php' or '*Payment*')")
	listCmd.Flags().StringVarP(&flags.TestPath, "test-path", "t", "", "Path to the folder where test detection should start")
	listCmd.Flags().BoolVarP(&flags.TestCases, "test-cases", "c", false, "List test cases instead of test files")
	listCmd.Flags().BoolVar(&flags.ShowFixtures, "fixtures", false, "Show declared fixtures per test")
	rootCmd.AddCommand(listCmd)

	// Check command
	checkCmd := &cobra.Command{
		Use:     "check",
		Short:   "Validate declared fixtures without running tests",
		Long:    "Resolve every declared fixture identifier for every discovered test and report unresolvable ones and missing rollback artifacts",
		RunE:    c.Check.Execute,
		PreRunE: applyFlags,
	}
	checkCmd.Flags().StringVarP(&flags.NameFilter, "filter", "f", "", "Filter tests by name pattern")
	checkCmd.Flags().StringVarP(&flags.TestPath, "test-path", "t", "", "Path to the folder where test detection should start")
	checkCmd.Flags().StringVar(&flags.FixtureDir, "fixture-dir", "", "Base directory for fixture scripts (default tests/fixtures)")
	rootCmd.AddCommand(checkCmd)

	// Migrate command
	migrateCmd := &cobra.Command{
		Use:     "migrate",
		Short:   "Run database migrations for all test databases",
		Long:    "Execute migrations in parallel for all test databases used by workers",
		RunE:    c.Migrate.Execute,
		PreRunE: applyFlags,
	}
	migrateCmd.Flags().IntVarP(&flags.Processors, "processors", "p", 4, "Number of processors/workers to use")
	migrateCmd.Flags().BoolVar(&flags.NoFresh, "no-fresh", false, "Run migrations without fresh (only pending migrations)")
	rootCmd.AddCommand(migrateCmd)

	// Failures command
	failuresCmd := &cobra.Command{
		Use:   "failures",
		Short: "View test failures interactively",
		Long:  "Display test failures from the last test run in an interactive viewer",
		RunE:  c.Failures.Execute,
	}
	rootCmd.AddCommand(failuresCmd)
}
