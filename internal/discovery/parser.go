package discovery

import (
	"fmt"
	"os"
	"regexp"
	"sort"
	"strings"
)

// Parser parses test files to extract test cases
type Parser struct{}

// NewParser creates a new Parser
func NewParser() *Parser {
	return &Parser{}
}

var (
	// Methods whose name starts with "test", regardless of visibility:
	//   public function testCreateUser()
	//   protected static function test_user_login()
	testMethodPattern = regexp.MustCompile(`(?m)^\s*(?:(?:public|protected|private|static|final)\s+)*(?:public|protected|private)?\s*function\s+(test\w+)\s*\(`)

	// Methods marked with an @test annotation in a preceding docblock
	annotatedPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?m)@test\s*\n\s*(?:/\*\*.*?\*/)?\s*(?:(?:public|protected|private|static|final)\s+)*(?:public|protected|private)?\s*function\s+(\w+)\s*\(`),
		regexp.MustCompile(`(?m)/\*\*[\s\S]*?@test[\s\S]*?\*/\s*(?:(?:public|protected|private|static|final)\s+)*(?:public|protected|private)?\s*function\s+(\w+)\s*\(`),
	}
)

// FindTestCases finds all test cases in a test file
func (p *Parser) FindTestCases(filePath string) ([]string, error) {
	content, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("error reading file %s: %w", filePath, err)
	}

	fileContent := string(content)
	seen := make(map[string]bool)

	for _, match := range testMethodPattern.FindAllStringSubmatch(fileContent, -1) {
		if len(match) > 1 {
			seen[match[1]] = true
		}
	}

	for _, pattern := range annotatedPatterns {
		for _, match := range pattern.FindAllStringSubmatch(fileContent, -1) {
			if len(match) > 1 && !strings.HasPrefix(match[1], "test") {
				seen[match[1]] = true
			}
		}
	}

	testCases := make([]string, 0, len(seen))
	for testCase := range seen {
		testCases = append(testCases, testCase)
	}

	// Sort for consistent output
	sort.Strings(testCases)

	return testCases, nil
}
