package commands

import (
	"errors"
	"fmt"
	"path/filepath"

	"pfx/internal/config"
	"pfx/internal/discovery"
	"pfx/internal/domain"
	"pfx/internal/execution"
	"pfx/internal/fixture"
	"pfx/internal/migration"
	"pfx/internal/parser"
	"pfx/internal/storage"
	"pfx/internal/ui"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// RunCommand handles the run command
type RunCommand struct {
	config      *config.Config
	scanner     *discovery.Scanner
	filter      *discovery.Filter
	caseParser  *discovery.Parser
	annotations *discovery.AnnotationParser
	executor    *execution.WorkerPool
	parser      *parser.PHPUnitParser
	storage     storage.Storage
	formatter   *ui.Formatter
	migrator    migration.Migrator
	viewer      ui.Viewer
}

// NewRunCommand creates a new RunCommand
func NewRunCommand(
	cfg *config.Config,
	scanner *discovery.Scanner,
	filter *discovery.Filter,
	caseParser *discovery.Parser,
	annotations *discovery.AnnotationParser,
	executor *execution.WorkerPool,
	phpunitParser *parser.PHPUnitParser,
	st storage.Storage,
	formatter *ui.Formatter,
	migrator migration.Migrator,
	viewer ui.Viewer,
) *RunCommand {
	return &RunCommand{
		config:      cfg,
		scanner:     scanner,
		filter:      filter,
		caseParser:  caseParser,
		annotations: annotations,
		executor:    executor,
		parser:      phpunitParser,
		storage:     st,
		formatter:   formatter,
		migrator:    migrator,
		viewer:      viewer,
	}
}

// Execute runs the command
func (rc *RunCommand) Execute(cmd *cobra.Command, args []string) error {
	// Run migrations if flag is set
	if rc.config.Flags.Migrate {
		if err := rc.migrator.Run(rc.config.Processors, rc.config.Flags.NoFresh); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
		fmt.Println()
	}

	// Discover tests
	testPath := rc.config.GetTestPath()
	tests, err := rc.scanner.Scan(testPath)
	if err != nil {
		return err
	}
	tests = rc.filter.FilterByName(tests, rc.config.Flags.NameFilter)

	if len(tests) == 0 {
		color.Yellow("No tests to execute")
		return nil
	}

	jobs, err := rc.buildJobs(tests)
	if err != nil {
		return err
	}

	progressBar := ui.NewProgressBar(len(jobs))
	rc.executor.SetProgress(progressBar)

	results, duration, err := rc.executor.ExecuteWithOptions(jobs, rc.config.Flags.FailFast)
	if err != nil {
		return err
	}

	failures := rc.collectFailures(results)

	if err := rc.storage.Save(results, failures, duration, rc.config.Processors); err != nil {
		return fmt.Errorf("failed to save test results: %w", err)
	}

	if err := rc.formatter.PrintMetaStats(); err != nil {
		return err
	}

	if rc.config.Flags.OpenFailures && len(failures) > 0 {
		output, err := rc.storage.Load()
		if err != nil {
			return err
		}
		return rc.viewer.View(output)
	}

	return nil
}

// buildJobs expands test files into schedulable jobs. With fixtures enabled
// each test case becomes its own job so method-scope fixtures apply per case;
// with --no-fixtures a whole file is one job.
func (rc *RunCommand) buildJobs(tests []string) ([]execution.Job, error) {
	if rc.config.Flags.NoFixtures {
		jobs := make([]execution.Job, 0, len(tests))
		for _, test := range tests {
			jobs = append(jobs, execution.Job{Path: test})
		}
		return jobs, nil
	}

	var jobs []execution.Job
	for _, test := range tests {
		ann, err := rc.annotations.Parse(test)
		if err != nil {
			return nil, err
		}

		cases, err := rc.caseParser.FindTestCases(test)
		if err != nil {
			return nil, err
		}

		if len(cases) == 0 {
			// No detectable cases: run the file whole, class fixtures still apply
			jobs = append(jobs, execution.Job{Path: test, Meta: ann})
			continue
		}

		for _, testCase := range cases {
			jobs = append(jobs, execution.Job{Path: test, Case: testCase, Meta: ann})
		}
	}
	return jobs, nil
}

// collectFailures extracts per-case failure details from failed results
func (rc *RunCommand) collectFailures(results []domain.TestResult) []domain.TestFailure {
	var failures []domain.TestFailure
	for _, result := range results {
		if result.Success {
			continue
		}

		if result.Stage == domain.StageTest {
			parsed := rc.parser.ParseFailures(result)
			if len(parsed) == 0 {
				parsed = []domain.TestFailure{genericFailure(result)}
			}
			failures = append(failures, parsed...)
			continue
		}

		failures = append(failures, fixtureFailure(result))
	}
	return failures
}

// fixtureFailure converts a fixture-stage result into a failure record,
// pulling the fixture identity out of the wrapped execution error.
func fixtureFailure(result domain.TestResult) domain.TestFailure {
	failure := genericFailure(result)
	failure.Stage = result.Stage

	var execErr *fixture.ExecutionError
	if errors.As(result.Error, &execErr) {
		failure.Fixture = execErr.Fixture
	}
	return failure
}

func genericFailure(result domain.TestResult) domain.TestFailure {
	name := result.TestCase
	if name == "" {
		name = filepath.Base(result.TestPath)
	}
	return domain.TestFailure{
		TestName:   name,
		FilePath:   result.TestPath,
		Stage:      domain.StageTest,
		Message:    result.Output,
		StackTrace: []string{},
	}
}
