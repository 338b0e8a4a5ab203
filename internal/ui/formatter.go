package ui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/fatih/color"

	"pfx/internal/config"
	"pfx/internal/discovery"
	"pfx/internal/domain"
	"pfx/internal/storage"
)

// Formatter formats and displays output
type Formatter struct {
	config      *config.Config
	parser      *discovery.Parser
	annotations *discovery.AnnotationParser
	storage     storage.Storage
}

// NewFormatter creates a new Formatter
func NewFormatter(cfg *config.Config, parser *discovery.Parser, annotations *discovery.AnnotationParser, st storage.Storage) *Formatter {
	return &Formatter{
		config:      cfg,
		parser:      parser,
		annotations: annotations,
		storage:     st,
	}
}

// PrintMetaStats displays the statistics of the last saved run
func (f *Formatter) PrintMetaStats() error {
	output, err := f.storage.Load()
	if err != nil {
		return err
	}

	meta := output.Meta

	fmt.Print("\n")
	color.Cyan("╔═══════════════════════════════════════════════════════════════╗")
	color.Cyan("║                    Test Execution Statistics                  ║")
	color.Cyan("╚═══════════════════════════════════════════════════════════════╝\n")

	fmt.Println("┌─────────────────────────────────┬─────────────────────────────┐")
	f.statRow("Total Tests", color.New(color.FgWhite), meta.TotalTests)
	f.statRow("Passed Tests", color.New(color.FgGreen), meta.PassedTests)
	f.statRow("Failed Tests", color.New(color.FgRed), meta.FailedTests)
	f.statRow("Fixture Failures", color.New(color.FgRed), meta.FixtureFailures)
	f.statRow("Failed Test Cases", color.New(color.FgRed), meta.FailedTestCases)

	fmt.Printf("│ %-31s │ ", "Duration")
	color.White("%-27s │", fmt.Sprintf("%.2fs", meta.DurationSeconds))
	fmt.Println("├─────────────────────────────────┼─────────────────────────────┤")

	f.statRow("Workers", color.New(color.FgWhite), meta.Workers)

	fmt.Printf("│ %-31s │ ", "Timestamp")
	color.White("%-27s │", meta.Timestamp)
	fmt.Println("└─────────────────────────────────┴─────────────────────────────┘")

	fmt.Println()
	if meta.FailedTests == 0 {
		color.Green("✓ All tests passed!")
	} else {
		color.Red("✗ %d test(s) failed with %d test case failure(s)", meta.FailedTests, meta.FailedTestCases)
		fmt.Println()
		f.printFailureTree(output.Details)
	}

	return nil
}

func (f *Formatter) statRow(label string, valueColor *color.Color, value int) {
	fmt.Printf("│ %-31s │ ", label)
	valueColor.Printf("%-27d", value)
	fmt.Println(" │")
	fmt.Println("├─────────────────────────────────┼─────────────────────────────┤")
}

// PrintTestList lists discovered test files, optionally with their cases and
// declared fixtures.
func (f *Formatter) PrintTestList(tests []string, showCases, showFixtures bool) error {
	color.Cyan("Found %d test file(s):\n", len(tests))

	for _, test := range tests {
		color.White("  %s", test)

		if !showCases && !showFixtures {
			continue
		}

		var ann *discovery.Annotations
		if showFixtures {
			parsed, err := f.annotations.Parse(test)
			if err != nil {
				color.Red("    cannot parse annotations: %v", err)
				continue
			}
			ann = parsed
			for _, id := range ann.ClassFixtures {
				color.Magenta("    @ %s (class)", id)
			}
		}

		if showCases || showFixtures {
			cases, err := f.parser.FindTestCases(test)
			if err != nil {
				color.Red("    cannot parse test cases: %v", err)
				continue
			}
			for _, testCase := range cases {
				color.Yellow("    - %s", testCase)
				if ann != nil {
					for _, id := range ann.CaseFixtures(testCase) {
						color.Magenta("      @ %s", id)
					}
				}
			}
		}
	}

	return nil
}

// treeNode represents a node in the failed-test file tree
type treeNode struct {
	name     string
	children map[string]*treeNode
	failures []domain.TestFailure
	isFile   bool
}

// printFailureTree prints failed tests grouped by their file path
func (f *Formatter) printFailureTree(failures []domain.TestFailure) {
	if len(failures) == 0 {
		return
	}

	root := &treeNode{children: make(map[string]*treeNode)}

	for _, failure := range failures {
		parts := strings.Split(strings.TrimPrefix(failure.FilePath, "./"), "/")
		current := root
		for i, part := range parts {
			if part == "" {
				continue
			}
			if current.children[part] == nil {
				current.children[part] = &treeNode{
					name:     part,
					children: make(map[string]*treeNode),
					isFile:   i == len(parts)-1,
				}
			}
			current = current.children[part]
			if i == len(parts)-1 {
				current.failures = append(current.failures, failure)
			}
		}
	}

	f.printTreeNode(root, "")
}

func (f *Formatter) printTreeNode(node *treeNode, prefix string) {
	keys := make([]string, 0, len(node.children))
	for key := range node.children {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		child := node.children[key]

		connector := prefix
		if prefix != "" {
			connector = prefix + "|_ "
		}

		if child.isFile {
			color.Yellow("%s%s", connector, child.name)
			for _, failure := range child.failures {
				tag := ""
				if failure.Stage != domain.StageTest {
					tag = fmt.Sprintf(" [%s]", failure.Stage)
				}
				color.Red("%s   ✗ %s%s", prefix, failure.TestName, tag)
			}
		} else {
			color.Cyan("%s%s", connector, child.name)
		}

		f.printTreeNode(child, prefix+"  ")
	}
}
