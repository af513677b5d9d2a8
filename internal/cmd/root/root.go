// Package root provides the root command for the rdml CLI.
package root

import (
	"io"
	"log"

	"github.com/spf13/cobra"

	"github.com/open-cli-collective/rdml-cli/internal/cmd/build"
	"github.com/open-cli-collective/rdml-cli/internal/cmd/check"
	"github.com/open-cli-collective/rdml-cli/internal/cmd/commands"
	"github.com/open-cli-collective/rdml-cli/internal/cmd/compile"
	"github.com/open-cli-collective/rdml-cli/internal/cmd/completion"
	"github.com/open-cli-collective/rdml-cli/internal/cmd/configcmd"
	initcmd "github.com/open-cli-collective/rdml-cli/internal/cmd/init"
	"github.com/open-cli-collective/rdml-cli/internal/cmd/inspect"
	"github.com/open-cli-collective/rdml-cli/internal/config"
	"github.com/open-cli-collective/rdml-cli/internal/version"
	"github.com/open-cli-collective/rdml-cli/internal/view"
)

// NewCmdRoot creates the root command for rdml.
func NewCmdRoot() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rdml",
		Short: "A compiler for RDML event scripts",
		Long: `rdml compiles RDML, an HTML-like markup for game event scripts, into
event command lists.

Scripts are written as elements such as <m>, <wait> or <if>. Each element
becomes one or more numbered event commands with an indent and parameters.

Get started by running: rdml compile script.rdml`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		Version:           version.Version,
		PersistentPreRunE: preRun,
	}

	// Global flags
	cmd.PersistentFlags().StringP("config", "c", "", "config file (default: ~/.config/rdml/config.yml)")
	cmd.PersistentFlags().StringP("output", "o", "table", "output format: table, json, plain")
	cmd.PersistentFlags().Bool("no-color", false, "disable colored output")
	cmd.PersistentFlags().BoolP("verbose", "v", false, "log compiler warnings as they are found")

	// Set version template
	cmd.SetVersionTemplate("rdml version {{.Version}} (commit: " + version.Commit + ", built: " + version.Date + ")\n")

	// Subcommands
	cmd.AddCommand(compile.NewCmdCompile())
	cmd.AddCommand(build.NewCmdBuild())
	cmd.AddCommand(check.NewCmdCheck())
	cmd.AddCommand(inspect.NewCmdTokens())
	cmd.AddCommand(inspect.NewCmdTree())
	cmd.AddCommand(commands.NewCmdCommands())
	cmd.AddCommand(initcmd.NewCmdInit())
	cmd.AddCommand(configcmd.NewCmdConfig())
	cmd.AddCommand(completion.NewCmdCompletion())

	return cmd
}

// preRun routes the compiler's log output and settles the output format,
// taking it from the config file when -o was not given.
func preRun(cmd *cobra.Command, _ []string) error {
	verbose, _ := cmd.Flags().GetBool("verbose")
	if verbose {
		log.SetOutput(cmd.ErrOrStderr())
	} else {
		log.SetOutput(io.Discard)
	}

	if !cmd.Flags().Changed("output") {
		configPath, _ := cmd.Flags().GetString("config")
		if cfg, err := config.LoadWithEnv(config.ResolvePath(configPath)); err == nil && cfg.OutputFormat != "" {
			if err := cmd.Flags().Set("output", cfg.OutputFormat); err != nil {
				return err
			}
		}
	}

	output, _ := cmd.Flags().GetString("output")
	return view.ValidateFormat(output)
}

// Execute runs the root command and returns the process exit code.
func Execute() int {
	cmd := NewCmdRoot()
	if err := cmd.Execute(); err != nil {
		cmd.PrintErrln("Error:", err)
		return 1
	}
	return 0
}

