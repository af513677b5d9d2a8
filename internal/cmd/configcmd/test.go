package configcmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/open-cli-collective/rdml-cli/internal/config"
	"github.com/open-cli-collective/rdml-cli/internal/source"
)

// NewCmdTest creates the config test command.
func NewCmdTest() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "test",
		Short: "Test that configured scripts can be loaded",
		Long: `Load every configured procedure file from the configured source.
Without a paths list, only check that the source folder exists.`,
		Example: `  # Test the source
  rdml config test`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			noColor, _ := cmd.Flags().GetBool("no-color")
			cfg, err := config.LoadWithEnv(configPath(cmd))
			if err != nil {
				return fmt.Errorf("failed to load config: %w (run 'rdml init' to configure)", err)
			}
			return runTest(cmd.Context(), cfg, noColor, cmd.OutOrStdout())
		},
	}

	return cmd
}

func runTest(ctx context.Context, cfg *config.Config, noColor bool, out io.Writer) error {
	if noColor {
		color.NoColor = true
	}
	if ctx == nil {
		ctx = context.Background()
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w (run 'rdml init' to configure)", err)
	}

	loader, err := source.New(cfg)
	if err != nil {
		return err
	}

	green := color.New(color.FgGreen)
	red := color.New(color.FgRed)

	where := cfg.SourceDir
	if cfg.BaseURL != "" {
		where = cfg.BaseURL
	}
	fmt.Fprintf(out, "Testing scripts in %s...\n", where)

	if len(cfg.Paths) == 0 {
		if cfg.BaseURL != "" {
			fmt.Fprintln(out, "\nNo paths configured; nothing to fetch.")
			return nil
		}
		info, err := os.Stat(cfg.SourceDir)
		if err != nil || !info.IsDir() {
			red.Fprintf(out, "✗ Source folder not found: %s\n", cfg.SourceDir)
			fmt.Fprintln(out, "\nReconfigure with: rdml init")
			return fmt.Errorf("source folder not found: %s", cfg.SourceDir)
		}
		green.Fprintln(out, "✓ Source folder found")
		return nil
	}

	failed := 0
	for _, p := range cfg.Paths {
		if _, err := loader.Load(ctx, p); err != nil {
			red.Fprintf(out, "✗ %s: %v\n", p, err)
			failed++
			continue
		}
		green.Fprintf(out, "✓ %s\n", p)
	}

	if failed > 0 {
		fmt.Fprintln(out, "\nCheck your settings with: rdml config show")
		return fmt.Errorf("%d of %d files could not be loaded", failed, len(cfg.Paths))
	}
	return nil
}
