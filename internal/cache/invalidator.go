package cache

import (
	"os"
	"path/filepath"

	"pfx/internal/config"
)

// Invalidator drops a named application cache so that state left behind by one
// test cannot leak into the next.
type Invalidator interface {
	Invalidate(name string) error
}

// New selects an Invalidator based on the CACHE_DRIVER environment variable
// ("database" uses the cache table in the worker's test database, anything
// else uses the file cache under the project).
func New(cfg *config.Config, workerID int) Invalidator {
	if os.Getenv("CACHE_DRIVER") == "database" {
		return NewDatabaseInvalidator(cfg, workerID)
	}
	return NewFileInvalidator(cfg)
}

// FileInvalidator removes cache entries stored as files under
// storage/framework/cache/<name> in the project.
type FileInvalidator struct {
	config *config.Config
}

// NewFileInvalidator creates a FileInvalidator
func NewFileInvalidator(cfg *config.Config) *FileInvalidator {
	return &FileInvalidator{config: cfg}
}

// Invalidate removes all entries of the named cache. A cache directory that
// does not exist counts as already invalidated.
func (f *FileInvalidator) Invalidate(name string) error {
	dir := filepath.Join(f.config.ProjectPath, "storage", "framework", "cache", name)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	for _, entry := range entries {
		if err := os.RemoveAll(filepath.Join(dir, entry.Name())); err != nil {
			return err
		}
	}
	return nil
}
