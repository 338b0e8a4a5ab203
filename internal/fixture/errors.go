package fixture

import "fmt"

// ConfigurationError reports an invalid fixture setup: a missing base
// directory or a forbidden character in a fixture identifier.
type ConfigurationError struct {
	Msg string
}

func (e *ConfigurationError) Error() string {
	return e.Msg
}

// NotFoundError reports a fixture identifier that resolves to no file under
// any resolution strategy.
type NotFoundError struct {
	ID     string
	Reason string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("fixture %q not found: %s", e.ID, e.Reason)
}

// ExecutionError wraps a failure raised while executing a fixture's side
// effects, naming the fixture that failed.
type ExecutionError struct {
	Fixture string
	Err     error
}

func (e *ExecutionError) Error() string {
	return fmt.Sprintf("fixture %s failed: %v", e.Fixture, e.Err)
}

func (e *ExecutionError) Unwrap() error {
	return e.Err
}
