package domain

// TestFailure represents a failed test case
type TestFailure struct {
	TestName     string   `json:"test_name"`
	FilePath     string   `json:"file_path"`
	Stage        Stage    `json:"stage"`
	Fixture      string   `json:"fixture,omitempty"` // Identity of the failing fixture, if any
	ErrorDetails string   `json:"error_details"`
	StackTrace   []string `json:"stack_trace"`
	File         string   `json:"file"`
	Line         int      `json:"line"`
	Message      string   `json:"message"`
}
