package execution

import (
	"pfx/internal/discovery"
)

// Job is one schedulable unit of work: a single test case with its fixture
// metadata, or a whole test file when fixtures are disabled.
type Job struct {
	Path string                 // Test file path
	Case string                 // Test method name, empty means run the whole file
	Meta *discovery.Annotations // Fixture metadata for the file, nil disables the lifecycle
}
