package execution

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"regexp"
	"time"

	"pfx/internal/config"
	"pfx/internal/domain"
)

// Runner executes PHPUnit for a test file or a single test case
type Runner struct {
	config *config.Config
}

// NewRunner creates a new Runner
func NewRunner(cfg *config.Config) *Runner {
	return &Runner{config: cfg}
}

// Run executes PHPUnit for a whole test file
func (r *Runner) Run(testPath string, workerID int) domain.TestResult {
	return r.execute(testPath, "", workerID, r.config.GetPHPUnitPath(), testPath)
}

// RunCase executes PHPUnit for a single test method within a file
func (r *Runner) RunCase(testPath, caseName string, workerID int) domain.TestResult {
	filter := fmt.Sprintf("/^%s$/", regexp.QuoteMeta(caseName))
	return r.execute(testPath, caseName, workerID, r.config.GetPHPUnitPath(), "--filter", filter, testPath)
}

func (r *Runner) execute(testPath, caseName string, workerID int, name string, args ...string) domain.TestResult {
	cmd := exec.CommandContext(context.Background(), name, args...)

	// Each worker runs against its own test database
	cmd.Env = os.Environ()
	cmd.Env = append(cmd.Env, fmt.Sprintf("DB_DATABASE=%s", r.config.GetDatabaseName(workerID)))
	cmd.Dir = r.config.ProjectPath

	start := time.Now()
	output, err := cmd.CombinedOutput()

	return domain.TestResult{
		TestPath: testPath,
		TestCase: caseName,
		Success:  err == nil,
		Stage:    domain.StageTest,
		Output:   string(output),
		Error:    err,
		Duration: time.Since(start),
	}
}
