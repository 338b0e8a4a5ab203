package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"pfx/internal/config"
	"pfx/internal/discovery"
	"pfx/internal/fixture"
	"pfx/internal/phpmodule"
)

// CheckCommand validates fixture declarations without executing anything:
// every declared identifier must resolve, and missing rollback artifacts are
// reported as warnings.
type CheckCommand struct {
	config      *config.Config
	scanner     *discovery.Scanner
	filter      *discovery.Filter
	annotations *discovery.AnnotationParser
}

// NewCheckCommand creates a new CheckCommand
func NewCheckCommand(
	cfg *config.Config,
	scanner *discovery.Scanner,
	filter *discovery.Filter,
	annotations *discovery.AnnotationParser,
) *CheckCommand {
	return &CheckCommand{
		config:      cfg,
		scanner:     scanner,
		filter:      filter,
		annotations: annotations,
	}
}

// Execute runs the command
func (cc *CheckCommand) Execute(cmd *cobra.Command, args []string) error {
	tests, err := cc.scanner.Scan(cc.config.GetTestPath())
	if err != nil {
		return err
	}
	tests = cc.filter.FilterByName(tests, cc.config.Flags.NameFilter)

	if len(tests) == 0 {
		color.Yellow("No tests found")
		return nil
	}

	modules, err := phpmodule.NewResolver(cc.config.ProjectPath, cc.config.GetModuleMapPath())
	if err != nil {
		return err
	}

	// A resolve-only manager: no invoker, nothing executes during a check
	manager, err := fixture.NewManager(cc.config.GetFixtureDir(), fixture.Options{Modules: modules})
	if err != nil {
		return err
	}

	var checked, problems, warnings int
	for _, test := range tests {
		ann, err := cc.annotations.Parse(test)
		if err != nil {
			color.Red("✗ %s: %v", test, err)
			problems++
			continue
		}

		for _, decl := range declarations(ann) {
			checked++
			problems += cc.checkFixture(manager, ann, test, decl, &warnings)
		}
	}

	fmt.Println()
	color.White("Checked %d fixture declaration(s) in %d test file(s)", checked, len(tests))
	if warnings > 0 {
		color.Yellow("%d fixture(s) have no rollback artifact", warnings)
	}
	if problems > 0 {
		color.Red("✗ %d problem(s) found", problems)
		return fmt.Errorf("%d fixture problem(s)", problems)
	}
	color.Green("✓ All fixtures resolve")
	return nil
}

// declaration ties a fixture id to where it was declared
type declaration struct {
	scope string // "class" or the method name
	id    string
}

func declarations(ann *discovery.Annotations) []declaration {
	var decls []declaration
	for _, id := range ann.ClassFixtures {
		decls = append(decls, declaration{scope: "class", id: id})
	}
	methods := make([]string, 0, len(ann.MethodFixtures))
	for method := range ann.MethodFixtures {
		methods = append(methods, method)
	}
	sort.Strings(methods)
	for _, method := range methods {
		for _, id := range ann.MethodFixtures[method] {
			decls = append(decls, declaration{scope: method, id: id})
		}
	}
	return decls
}

// checkFixture validates one declaration, returns 1 when it is a problem
func (cc *CheckCommand) checkFixture(manager *fixture.Manager, ann *discovery.Annotations, test string, decl declaration, warnings *int) int {
	where := fmt.Sprintf("%s (%s)", filepath.Base(test), decl.scope)

	if strings.Contains(decl.id, `\`) {
		color.Red("✗ %s: %q contains a forbidden directory separator", where, decl.id)
		return 1
	}

	// Callable fixture: method on the test class itself
	if ann.ZeroArgMethods[decl.id] {
		if !ann.ZeroArgMethods[decl.id+"Rollback"] {
			color.Yellow("! %s: callable %s has no %sRollback method", where, decl.id, decl.id)
			*warnings++
		}
		return 0
	}

	path, err := manager.ResolvePath(decl.id)
	if err != nil {
		color.Red("✗ %s: %v", where, err)
		return 1
	}
	if _, statErr := os.Stat(path); statErr != nil {
		color.Red("✗ %s: %q resolves to %s which does not exist", where, decl.id, path)
		return 1
	}

	ext := filepath.Ext(path)
	rollback := strings.TrimSuffix(path, ext) + "_rollback" + ext
	if _, statErr := os.Stat(rollback); statErr != nil {
		color.Yellow("! %s: %q has no rollback script", where, decl.id)
		*warnings++
	}

	return 0
}
