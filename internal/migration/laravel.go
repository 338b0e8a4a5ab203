package migration

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"time"

	"github.com/fatih/color"
	"github.com/schollz/progressbar/v3"

	"pfx/internal/config"
	"pfx/internal/domain"
)

// LaravelMigrator runs artisan migrations against every worker database in
// parallel.
type LaravelMigrator struct {
	config          *config.Config
	databaseManager *DatabaseManager
}

// NewLaravelMigrator creates a new LaravelMigrator
func NewLaravelMigrator(cfg *config.Config, dbManager *DatabaseManager) *LaravelMigrator {
	return &LaravelMigrator{
		config:          cfg,
		databaseManager: dbManager,
	}
}

// Run executes migrations in parallel for all workers
func (lm *LaravelMigrator) Run(workerCount int, noFresh bool) error {
	color.Cyan("Preparing %d test database(s)...", workerCount)

	workers, err := lm.databaseManager.EnsureDatabases(workerCount)
	if err != nil {
		return fmt.Errorf("failed to check databases: %w", err)
	}
	if len(workers) == 0 {
		return fmt.Errorf("no test databases available")
	}

	bar := progressbar.NewOptions(len(workers),
		progressbar.OptionSetDescription(color.CyanString("Migrating: ")),
		progressbar.OptionSetWidth(50),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        color.CyanString("█"),
			SaucerHead:    color.CyanString("█"),
			SaucerPadding: "░",
			BarStart:      "│",
			BarEnd:        "│",
		}),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprint(os.Stderr, "\n")
		}),
		progressbar.OptionSetRenderBlankState(true),
	)

	var wg sync.WaitGroup
	results := make(chan domain.MigrationResult, len(workers))
	startTime := time.Now()

	for _, workerID := range workers {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			result := lm.migrateWorker(id, noFresh)
			bar.Add(1)
			results <- result
		}(workerID)
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	var failed []domain.MigrationResult
	for result := range results {
		if !result.Success {
			failed = append(failed, result)
		}
	}
	bar.Finish()

	duration := time.Since(startTime)

	fmt.Print("\n")
	if len(failed) > 0 {
		color.Red("✗ Migration failed for %d worker(s)", len(failed))
		for _, result := range failed {
			color.Red("  Worker %d (DB: %s): %v", result.WorkerID, lm.config.GetDatabaseName(result.WorkerID), result.Error)
		}
		return fmt.Errorf("migration failed for %d worker(s)", len(failed))
	}

	color.Green("✓ Migrations completed for all %d workers", len(workers))
	color.White("Duration: %s", duration.Round(time.Millisecond))
	return nil
}

// migrateWorker executes migrate or migrate:fresh for one worker database
func (lm *LaravelMigrator) migrateWorker(workerID int, noFresh bool) domain.MigrationResult {
	projectAbsPath, err := filepath.Abs(lm.config.ProjectPath)
	if err != nil {
		return domain.MigrationResult{
			WorkerID: workerID,
			Success:  false,
			Error:    fmt.Errorf("failed to get absolute project path: %w", err),
		}
	}

	migrateCmd := "migrate:fresh"
	if noFresh {
		migrateCmd = "migrate"
	}

	artisanPath := filepath.Join(projectAbsPath, "artisan")
	cmd := exec.CommandContext(context.Background(), lm.config.PHPBinary, artisanPath, migrateCmd, "--env=testing", "--force")
	cmd.Env = os.Environ()
	cmd.Env = append(cmd.Env, fmt.Sprintf("DB_DATABASE=%s", lm.config.GetDatabaseName(workerID)))
	cmd.Dir = projectAbsPath

	output, err := cmd.CombinedOutput()
	return domain.MigrationResult{
		WorkerID: workerID,
		Success:  err == nil,
		Output:   string(output),
		Error:    err,
	}
}
