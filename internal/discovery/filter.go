package discovery

import (
	"path/filepath"
	"strings"
)

// Filter filters test files by name pattern
type Filter struct{}

// NewFilter creates a new Filter
func NewFilter() *Filter {
	return &Filter{}
}

// FilterByName filters test files by name pattern using wildcard matching.
// Supports patterns like "*UserTest.php" or "*Payment*"; a pattern without
// wildcards matches as a substring of the file name.
func (f *Filter) FilterByName(tests []string, pattern string) []string {
	if pattern == "" {
		return tests
	}

	hasWildcards := strings.ContainsAny(pattern, "*?")

	var filtered []string
	for _, test := range tests {
		testName := filepath.Base(test)

		if matched, err := filepath.Match(pattern, testName); err == nil && matched {
			filtered = append(filtered, test)
			continue
		}

		if hasWildcards {
			if matchesParts(testName, pattern) {
				filtered = append(filtered, test)
			}
			continue
		}

		if strings.Contains(testName, pattern) {
			filtered = append(filtered, test)
		}
	}

	return filtered
}

// matchesParts checks that every literal segment of a wildcard pattern occurs
// in the name, e.g. "*User*Test.php" needs both "User" and "Test.php".
func matchesParts(name, pattern string) bool {
	parts := strings.Split(pattern, "*")
	hasLiteral := false
	for _, part := range parts {
		if part == "" {
			continue
		}
		hasLiteral = true
		if !strings.Contains(name, part) {
			return false
		}
	}
	return hasLiteral
}
