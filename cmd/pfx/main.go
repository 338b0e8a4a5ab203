package main

import (
	"fmt"
	"os"

	"pfx/internal/cli"
	"pfx/internal/cli/commands"
	"pfx/internal/config"

	"github.com/spf13/cobra"
)

var version = "dev"

func main() {
	rootCmd := &cobra.Command{
		Use:     "pfx",
		Short:   "PHP test fixture lifecycle processor",
		Long:    `Runs PHPUnit tests with their declared data fixtures: fixtures are discovered from @dataFixture annotations, applied before each test and rolled back afterward, across parallel workers.`,
		Version: version,
	}

	// Create initial config with defaults
	cfg := config.New()

	// Create flags struct (will be populated by command flags)
	var flags cli.Flags

	// Create commands with dependencies
	cmds := commands.NewCommands(cfg)

	// Register all commands
	cmds.Register(rootCmd, &flags, cfg)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
