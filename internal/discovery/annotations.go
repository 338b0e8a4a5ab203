package discovery

import (
	"fmt"
	"os"
	"regexp"
	"strings"
)

// FixtureTag is the docblock annotation that declares a fixture for a test
// method or test class, e.g. "@dataFixture products.php".
const FixtureTag = "dataFixture"

// Annotations holds the fixture metadata declared by a single test file.
type Annotations struct {
	Class          string              // Fully qualified class name
	ClassFixtures  []string            // Fixture ids from the class docblock, in declaration order
	MethodFixtures map[string][]string // Fixture ids per method, in declaration order
	ZeroArgMethods map[string]bool     // Methods declared with an empty parameter list
}

// CaseFixtures returns the fixture ids declared at method scope for the given
// test case. Scope fallback is decided by the caller, not here.
func (a *Annotations) CaseFixtures(method string) []string {
	return a.MethodFixtures[method]
}

// AnnotationParser extracts fixture annotations from PHP test sources
type AnnotationParser struct {
	tagPattern *regexp.Regexp
}

// NewAnnotationParser creates a parser for @dataFixture annotations
func NewAnnotationParser() *AnnotationParser {
	return &AnnotationParser{
		tagPattern: regexp.MustCompile(`@` + FixtureTag + `\s+(\S+)`),
	}
}

var (
	namespacePattern = regexp.MustCompile(`(?m)^\s*namespace\s+([\w\\]+)\s*;`)

	// A docblock immediately followed by a class or function declaration.
	// Groups: 1 docblock body, 2 declaration keyword, 3 name, 4 parameter list
	// (functions only).
	docBlockPattern = regexp.MustCompile(`/\*\*([\s\S]*?)\*/\s*(?:(?:abstract|final|public|protected|private|static)\s+)*(class|function)\s+(\w+)\s*(?:\(([^)]*)\))?`)

	// Every declared method with an empty parameter list
	zeroArgPattern = regexp.MustCompile(`function\s+(\w+)\s*\(\s*\)`)
)

// Parse reads a PHP test file and returns its fixture annotations
func (p *AnnotationParser) Parse(filePath string) (*Annotations, error) {
	content, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("error reading file %s: %w", filePath, err)
	}

	source := string(content)
	ann := &Annotations{
		MethodFixtures: make(map[string][]string),
		ZeroArgMethods: make(map[string]bool),
	}

	var namespace string
	if match := namespacePattern.FindStringSubmatch(source); len(match) > 1 {
		namespace = match[1]
	}

	for _, match := range docBlockPattern.FindAllStringSubmatch(source, -1) {
		docBlock, kind, name := match[1], match[2], match[3]

		fixtures := p.fixtureIDs(docBlock)

		switch kind {
		case "class":
			// Only the first (outer) class declaration counts
			if ann.Class == "" {
				ann.Class = qualify(namespace, name)
				ann.ClassFixtures = fixtures
			}
		case "function":
			if len(fixtures) > 0 {
				ann.MethodFixtures[name] = fixtures
			}
		}
	}

	// The class may have no docblock at all
	if ann.Class == "" {
		classPattern := regexp.MustCompile(`(?m)^\s*(?:(?:abstract|final)\s+)*class\s+(\w+)`)
		if match := classPattern.FindStringSubmatch(source); len(match) > 1 {
			ann.Class = qualify(namespace, match[1])
		}
	}

	for _, match := range zeroArgPattern.FindAllStringSubmatch(source, -1) {
		ann.ZeroArgMethods[match[1]] = true
	}

	return ann, nil
}

// fixtureIDs extracts fixture identifiers from a docblock body in order
func (p *AnnotationParser) fixtureIDs(docBlock string) []string {
	var ids []string
	for _, match := range p.tagPattern.FindAllStringSubmatch(docBlock, -1) {
		ids = append(ids, strings.TrimSpace(match[1]))
	}
	return ids
}

func qualify(namespace, class string) string {
	if namespace == "" {
		return class
	}
	return namespace + `\` + class
}
