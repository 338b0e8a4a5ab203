package execution

import (
	"context"
	"sync"
	"time"

	"pfx/internal/config"
	"pfx/internal/domain"
	"pfx/internal/fixture"
	"pfx/internal/parser"
	"pfx/internal/ui"
)

// ManagerFactory builds the fixture lifecycle manager for one worker. Each
// worker gets its own manager: the applied log is single-test state and never
// shared between goroutines.
type ManagerFactory func(workerID int) (*fixture.Manager, error)

// WorkerPool manages a pool of workers for parallel test execution
type WorkerPool struct {
	config    *config.Config
	runner    *Runner
	scheduler Scheduler
	parser    *parser.PHPUnitParser
	managers  ManagerFactory
	progress  *ui.ProgressBar
}

// NewWorkerPool creates a new WorkerPool. The manager factory may be nil to
// run without the fixture lifecycle.
func NewWorkerPool(cfg *config.Config, runner *Runner, scheduler Scheduler, phpunitParser *parser.PHPUnitParser, managers ManagerFactory) *WorkerPool {
	return &WorkerPool{
		config:    cfg,
		runner:    runner,
		scheduler: scheduler,
		parser:    phpunitParser,
		managers:  managers,
	}
}

// SetProgress sets the progress bar for the worker pool
func (wp *WorkerPool) SetProgress(progress *ui.ProgressBar) {
	wp.progress = progress
}

// Execute executes jobs in parallel using the worker pool (no fail-fast).
func (wp *WorkerPool) Execute(jobs []Job) ([]domain.TestResult, time.Duration, error) {
	return wp.ExecuteWithOptions(jobs, false)
}

// ExecuteWithOptions executes jobs with optional fail-fast (stop on first failure).
func (wp *WorkerPool) ExecuteWithOptions(jobs []Job, failFast bool) ([]domain.TestResult, time.Duration, error) {
	if len(jobs) == 0 {
		return nil, 0, nil
	}

	workerCount := wp.config.Processors
	if workerCount <= 0 {
		workerCount = 1
	}

	needManagers := false
	for _, job := range jobs {
		if job.Meta != nil {
			needManagers = true
			break
		}
	}

	// Build per-worker fixture managers up front so a bad fixture directory
	// fails the run before anything executes
	managers := make([]*fixture.Manager, workerCount)
	if wp.managers != nil && needManagers {
		for i := range managers {
			mgr, err := wp.managers(i + 1)
			if err != nil {
				return nil, 0, err
			}
			managers[i] = mgr
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	batches := wp.scheduler.Schedule(jobs, workerCount)
	results := make(chan domain.TestResult, len(jobs))

	var mu sync.Mutex
	var completed, passedCases, failedCases int
	startTime := time.Now()

	var wg sync.WaitGroup
	for i, batch := range batches {
		wg.Add(1)
		go func(workerID int, batch []Job, mgr *fixture.Manager) {
			defer wg.Done()
			for _, job := range batch {
				select {
				case <-ctx.Done():
					return
				default:
				}

				result := wp.runJob(job, workerID, mgr)
				results <- result

				mu.Lock()
				completed++
				passed, failed := wp.countCases(result)
				passedCases += passed
				failedCases += failed
				if wp.progress != nil {
					wp.progress.Update(completed, passedCases, failedCases)
				}
				mu.Unlock()

				if failFast && !result.Success {
					cancel()
					return
				}
			}
		}(i+1, batch, managers[i])
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	var allResults []domain.TestResult
	for result := range results {
		allResults = append(allResults, result)
	}
	if wp.progress != nil {
		wp.progress.Finish()
	}
	return allResults, time.Since(startTime), nil
}

// runJob wraps one test execution in the fixture lifecycle: reinit and apply
// before, revert and cache invalidation after. A fixture apply failure aborts
// the test but still goes through OnTestEnd so applied fixtures revert and
// the cache is invalidated.
func (wp *WorkerPool) runJob(job Job, workerID int, mgr *fixture.Manager) domain.TestResult {
	withFixtures := mgr != nil && job.Meta != nil

	if withFixtures {
		if err := mgr.OnTestStart(jobMeta(job)); err != nil {
			_ = mgr.OnTestEnd()
			return domain.TestResult{
				TestPath: job.Path,
				TestCase: job.Case,
				Success:  false,
				Stage:    domain.StageFixtureApply,
				Output:   err.Error(),
				Error:    err,
			}
		}
	}

	var result domain.TestResult
	if job.Case != "" {
		result = wp.runner.RunCase(job.Path, job.Case, workerID)
	} else {
		result = wp.runner.Run(job.Path, workerID)
	}

	if withFixtures {
		if err := mgr.OnTestEnd(); err != nil && result.Success {
			result.Success = false
			result.Stage = domain.StageFixtureRevert
			result.Output = err.Error()
			result.Error = err
		}
	}

	return result
}

// countCases derives per-case pass/fail counts for the progress bar
func (wp *WorkerPool) countCases(result domain.TestResult) (passed, failed int) {
	if result.Stage != domain.StageTest {
		return 0, 1
	}
	if wp.parser != nil {
		return wp.parser.ParseTestCounts(result)
	}
	if result.Success {
		return 1, 0
	}
	return 0, 1
}

func jobMeta(job Job) fixture.TestMeta {
	return fixture.TestMeta{
		Class:          job.Meta.Class,
		MethodFixtures: job.Meta.CaseFixtures(job.Case),
		ClassFixtures:  job.Meta.ClassFixtures,
		ZeroArgMethods: job.Meta.ZeroArgMethods,
	}
}
