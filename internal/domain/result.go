package domain

import "time"

// Stage identifies which phase of a test cycle produced a result or failure.
type Stage string

const (
	// StageFixtureApply covers failures while applying declared fixtures
	StageFixtureApply Stage = "fixture_apply"
	// StageTest covers failures from the test body itself
	StageTest Stage = "test"
	// StageFixtureRevert covers failures while reverting applied fixtures
	StageFixtureRevert Stage = "fixture_revert"
)

// TestResult represents the result of executing a test case or file
type TestResult struct {
	TestPath string        // Path to the test file that was executed
	TestCase string        // Test method name, empty when the whole file was run
	Success  bool          // Whether the test passed
	Stage    Stage         // Phase that determined the outcome
	Output   string        // Raw output from PHPUnit or the failing fixture
	Error    error         // Error if execution failed
	Duration time.Duration // Time taken to execute
}

// TestResultsMeta contains metadata about a test run
type TestResultsMeta struct {
	TotalTests      int     `json:"total_tests"`
	PassedTests     int     `json:"passed_tests"`
	FailedTests     int     `json:"failed_tests"`
	FixtureFailures int     `json:"fixture_failures"`
	FailedTestCases int     `json:"failed_test_cases"`
	Duration        string  `json:"duration"`
	DurationSeconds float64 `json:"duration_seconds"`
	Workers         int     `json:"workers"`
	Timestamp       string  `json:"timestamp"`
}

// TestResultsOutput is the complete output structure for test results
type TestResultsOutput struct {
	Meta    TestResultsMeta `json:"meta"`
	Details []TestFailure   `json:"details"`
}
