package configcmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/open-cli-collective/rdml-cli/internal/config"
)

// NewCmdShow creates the config show command.
func NewCmdShow() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Display current configuration",
		Long:  `Display the current rdml configuration and where each value comes from.`,
		Example: `  # Show current config
  rdml config show`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			noColor, _ := cmd.Flags().GetBool("no-color")
			return runShow(configPath(cmd), noColor, cmd.OutOrStdout())
		},
	}

	return cmd
}

func runShow(configPath string, noColor bool, out io.Writer) error {
	if noColor {
		color.NoColor = true
	}

	// Load file config (may not exist)
	fileCfg, fileErr := config.Load(configPath)
	if fileErr != nil {
		fileCfg = &config.Config{}
	}

	// Load full config with env overrides
	cfg, err := config.LoadWithEnv(configPath)
	if err != nil {
		return err
	}

	bold := color.New(color.Bold)
	dim := color.New(color.Faint)

	printField := func(label, value, fileValue, envVar string) {
		_, _ = bold.Fprintf(out, "%-12s", label+":")
		if value == "" {
			_, _ = dim.Fprintln(out, "-")
			return
		}

		fmt.Fprint(out, value)

		// Determine source
		source := "config"
		if v := os.Getenv(envVar); v != "" {
			source = envVar
		} else if fileValue != value {
			source = "-"
		}

		_, _ = dim.Fprintf(out, "  (source: %s)\n", source)
	}

	printField("Source dir", cfg.SourceDir, fileCfg.SourceDir, "RDML_SOURCE_DIR")
	printField("Base URL", cfg.BaseURL, fileCfg.BaseURL, "RDML_BASE_URL")
	printField("Paths", strings.Join(cfg.Paths, ", "), strings.Join(fileCfg.Paths, ", "), "RDML_PATHS")
	printField("Output", cfg.OutputFormat, fileCfg.OutputFormat, "RDML_OUTPUT")
	printField("Out file", cfg.OutFile, fileCfg.OutFile, "")

	fmt.Fprintln(out)
	_, _ = dim.Fprintf(out, "Config file: %s\n", configPath)
	if fileErr != nil {
		_, _ = dim.Fprintln(out, "(file not found)")
	}

	return nil
}
