package php

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"pfx/internal/config"
)

// Executor runs PHP fixture code in the project context. Scripts and callable
// invocations execute as php subprocesses in the project directory, with the
// worker's test database selected via the environment.
type Executor struct {
	config   *config.Config
	workerID int
}

// NewExecutor creates an Executor bound to one worker
func NewExecutor(cfg *config.Config, workerID int) *Executor {
	return &Executor{config: cfg, workerID: workerID}
}

// ExecuteScript runs a PHP script at the given path
func (e *Executor) ExecuteScript(path string) error {
	cmd := exec.CommandContext(context.Background(), e.config.PHPBinary, path)
	return e.run(cmd, path)
}

// InvokeMethod instantiates the given class and calls a zero-argument method
// on it. The class name is fully qualified, without a leading backslash.
func (e *Executor) InvokeMethod(class, method string) error {
	code := fmt.Sprintf("require %q; (new \\%s())->%s();", e.config.GetAutoloadPath(), class, method)
	cmd := exec.CommandContext(context.Background(), e.config.PHPBinary, "-r", code)
	return e.run(cmd, fmt.Sprintf("%s::%s", class, method))
}

func (e *Executor) run(cmd *exec.Cmd, what string) error {
	cmd.Dir = e.config.ProjectPath
	cmd.Env = os.Environ()
	cmd.Env = append(cmd.Env, fmt.Sprintf("DB_DATABASE=%s", e.config.GetDatabaseName(e.workerID)))

	output, err := cmd.CombinedOutput()
	if err != nil {
		if out := strings.TrimSpace(string(output)); out != "" {
			return fmt.Errorf("php %s: %w: %s", what, err, out)
		}
		return fmt.Errorf("php %s: %w", what, err)
	}
	return nil
}
