package parser

import (
	"fmt"
	"regexp"
	"strings"

	"pfx/internal/domain"
)

// PHPUnitParser parses PHPUnit CLI output
type PHPUnitParser struct{}

// NewPHPUnitParser creates a new PHPUnitParser
func NewPHPUnitParser() *PHPUnitParser {
	return &PHPUnitParser{}
}

var (
	okPattern       = regexp.MustCompile(`OK\s*\(\s*(\d+)\s+tests?`)
	testsPattern    = regexp.MustCompile(`Tests:\s*(\d+)`)
	failuresPattern = regexp.MustCompile(`Failures:\s*(\d+)`)
	errorsPattern   = regexp.MustCompile(`Errors:\s*(\d+)`)

	// PHPUnit failure listing: "1) Tests\Unit\UserTest::testCreateUser"
	failureHeaderPattern = regexp.MustCompile(`^\d+\)\s+(.+)::(\w+)`)
	traceLinePattern     = regexp.MustCompile(`\.php:\d+$`)
)

// ParseTestCounts extracts passed and failed test case counts from PHPUnit output.
// Returns (passed, failed). If parsing fails, returns (1,0) for success or (0,1) for failure (file-level fallback).
func (p *PHPUnitParser) ParseTestCounts(result domain.TestResult) (passed, failed int) {
	output := result.Output

	// OK (N tests, ...) - all passed
	if match := okPattern.FindStringSubmatch(output); len(match) >= 2 {
		var total int
		fmt.Sscanf(match[1], "%d", &total)
		return total, 0
	}

	// FAILURES! or ERRORS! - Tests: N, Assertions: ..., Failures: F, Errors: E
	var total, failures, errors int
	if match := testsPattern.FindStringSubmatch(output); len(match) >= 2 {
		fmt.Sscanf(match[1], "%d", &total)
	}
	if match := failuresPattern.FindStringSubmatch(output); len(match) >= 2 {
		fmt.Sscanf(match[1], "%d", &failures)
	}
	if match := errorsPattern.FindStringSubmatch(output); len(match) >= 2 {
		fmt.Sscanf(match[1], "%d", &errors)
	}
	failed = failures + errors
	if total >= failed {
		passed = total - failed
	}
	if passed > 0 || failed > 0 {
		return passed, failed
	}

	// Fallback: one "test" per file
	if result.Success {
		return 1, 0
	}
	return 0, 1
}

// ParseFailures extracts per-case failures from PHPUnit's failure listing
func (p *PHPUnitParser) ParseFailures(result domain.TestResult) []domain.TestFailure {
	var failures []domain.TestFailure
	var current *failureBuilder

	flush := func() {
		if current != nil {
			failures = append(failures, current.build())
			current = nil
		}
	}

	for _, line := range strings.Split(result.Output, "\n") {
		if match := failureHeaderPattern.FindStringSubmatch(line); match != nil {
			flush()
			current = &failureBuilder{
				failure: domain.TestFailure{
					TestName: match[2],
					FilePath: result.TestPath,
					Stage:    domain.StageTest,
				},
			}
			continue
		}
		if current == nil {
			continue
		}

		trimmed := strings.TrimSpace(line)

		// Summary lines end the listing
		if strings.HasPrefix(trimmed, "FAILURES!") || strings.HasPrefix(trimmed, "ERRORS!") || strings.HasPrefix(trimmed, "Tests:") {
			flush()
			continue
		}

		if traceLinePattern.MatchString(trimmed) {
			current.addTrace(trimmed)
			continue
		}

		current.addMessage(line)
	}
	flush()

	return failures
}

// failureBuilder accumulates message and stack trace lines for one failure
type failureBuilder struct {
	failure domain.TestFailure
	message []string
	trace   []string
}

func (b *failureBuilder) addMessage(line string) {
	// Skip empty lines before the message starts
	if len(b.message) == 0 && strings.TrimSpace(line) == "" {
		return
	}
	b.message = append(b.message, line)
}

func (b *failureBuilder) addTrace(line string) {
	b.trace = append(b.trace, line)

	// The first trace line inside the test suite locates the failure
	if b.failure.File == "" && strings.Contains(line, "tests/") {
		if idx := strings.LastIndex(line, ":"); idx > 0 {
			b.failure.File = line[:idx]
			fmt.Sscanf(line[idx+1:], "%d", &b.failure.Line)
		}
	}
}

func (b *failureBuilder) build() domain.TestFailure {
	// Trim trailing empty message lines
	msg := b.message
	for len(msg) > 0 && strings.TrimSpace(msg[len(msg)-1]) == "" {
		msg = msg[:len(msg)-1]
	}
	b.failure.Message = strings.Join(msg, "\n")
	if b.trace == nil {
		b.trace = []string{}
	}
	b.failure.StackTrace = b.trace
	return b.failure
}
