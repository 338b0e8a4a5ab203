package process

import (
	"os"

	"pfx/internal/config"
	"pfx/internal/php"
)

// Reinitializer resets ambient PHP application state between tests by running
// a project-provided reinit script (cleared config, fresh container, etc.).
// Projects without such a script get a no-op.
type Reinitializer struct {
	config   *config.Config
	executor *php.Executor
}

// NewReinitializer creates a Reinitializer for one worker's executor
func NewReinitializer(cfg *config.Config, executor *php.Executor) *Reinitializer {
	return &Reinitializer{config: cfg, executor: executor}
}

// Reinitialize runs the reinit script once. Missing script is not an error.
func (r *Reinitializer) Reinitialize() error {
	script := r.config.GetReinitScript()
	if _, err := os.Stat(script); err != nil {
		return nil
	}
	return r.executor.ExecuteScript(script)
}
