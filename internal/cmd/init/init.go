// Package init provides the init command for rdml.
package init

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/open-cli-collective/rdml-cli/internal/config"
	"github.com/open-cli-collective/rdml-cli/internal/source"
	"github.com/open-cli-collective/rdml-cli/internal/view"
)

const verifyTimeout = 10 * time.Second

// NewCmdInit creates the init command.
func NewCmdInit() *cobra.Command {
	var (
		sourceDir string
		baseURL   string
		paths     string
		noVerify  bool
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize rdml configuration",
		Long: `Initialize rdml with the location of your scripts.

Scripts are read either from a local folder (source_dir) or from a web
server (base_url, with /rdml appended). The paths list names the procedure
files that 'rdml build' compiles. The configuration will be saved to
~/.config/rdml/config.yml.`,
		Example: `  # Interactive setup
  rdml init

  # Pre-populate the script folder
  rdml init --source-dir ./game/rdml --paths intro.rdml,town.rdml`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			configPath, _ := cmd.Flags().GetString("config")
			noColor, _ := cmd.Flags().GetBool("no-color")
			cfg := &config.Config{
				SourceDir: sourceDir,
				BaseURL:   baseURL,
				Paths:     config.SplitPaths(paths),
			}
			return runInit(cmd.Context(), config.ResolvePath(configPath), cfg, noVerify, noColor, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&sourceDir, "source-dir", "", "Folder containing RDML scripts")
	cmd.Flags().StringVar(&baseURL, "base-url", "", "Web server serving RDML scripts (e.g., https://example.com/game)")
	cmd.Flags().StringVar(&paths, "paths", "", "Comma separated procedure files to build")
	cmd.Flags().BoolVar(&noVerify, "no-verify", false, "Skip source verification")

	return cmd
}

func runInit(ctx context.Context, configPath string, cfg *config.Config, noVerify, noColor bool, out io.Writer) error {
	// Check if config already exists
	if _, err := os.Stat(configPath); err == nil {
		var overwrite bool
		err := huh.NewConfirm().
			Title("Configuration already exists").
			Description(fmt.Sprintf("Overwrite %s?", configPath)).
			Value(&overwrite).
			Run()
		if err != nil {
			return err
		}
		if !overwrite {
			fmt.Fprintln(out, "Initialization cancelled.")
			return nil
		}
	}

	paths := strings.Join(cfg.Paths, ", ")
	if cfg.OutputFormat == "" {
		cfg.OutputFormat = string(view.FormatTable)
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Script folder").
				Description("Local folder containing .rdml files (leave empty to use a URL)").
				Placeholder("./game/rdml").
				Value(&cfg.SourceDir),

			huh.NewInput().
				Title("Base URL (optional)").
				Description("Web server serving the scripts; /rdml is appended").
				Placeholder("https://example.com/game").
				Value(&cfg.BaseURL),

			huh.NewInput().
				Title("Procedure files").
				Description("Comma separated paths, relative to the source").
				Placeholder("intro.rdml, town.rdml").
				Value(&paths),

			huh.NewSelect[string]().
				Title("Output format").
				Options(huh.NewOptions(view.ValidFormats()...)...).
				Value(&cfg.OutputFormat),
		),
	)

	if err := form.Run(); err != nil {
		return err
	}

	cfg.Paths = config.SplitPaths(paths)
	cfg.NormalizeBaseURL()

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	if !noVerify {
		fmt.Fprint(out, "Verifying source... ")
		if err := verifySource(ctx, cfg); err != nil {
			fmt.Fprintln(out, "failed!")
			return fmt.Errorf("source verification failed: %w", err)
		}
		fmt.Fprintln(out, "success!")
	}

	if err := cfg.Save(configPath); err != nil {
		return err
	}

	renderer := view.NewRenderer(view.FormatTable, noColor)
	renderer.SetWriter(out)
	renderer.Success("Configuration saved to " + configPath)
	fmt.Fprintln(out, "\nYou're all set! Try running:")
	fmt.Fprintln(out, "  rdml config test")
	fmt.Fprintln(out, "  rdml build")

	return nil
}

// verifySource loads every configured path. Without paths it only checks
// that the source folder exists.
func verifySource(ctx context.Context, cfg *config.Config) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithTimeout(ctx, verifyTimeout)
	defer cancel()

	loader, err := source.New(cfg)
	if err != nil {
		return err
	}

	if len(cfg.Paths) > 0 {
		_, err := source.LoadAll(ctx, loader, cfg.Paths)
		return err
	}

	if cfg.BaseURL != "" {
		return nil
	}
	info, err := os.Stat(cfg.SourceDir)
	if err != nil {
		return fmt.Errorf("source folder not found: %s", cfg.SourceDir)
	}
	if !info.IsDir() {
		return errors.New("source_dir is not a folder: " + cfg.SourceDir)
	}
	return nil
}
