// Package build provides the build command.
package build

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/open-cli-collective/rdml-cli/internal/config"
	"github.com/open-cli-collective/rdml-cli/internal/source"
	"github.com/open-cli-collective/rdml-cli/internal/view"
	"github.com/open-cli-collective/rdml-cli/pkg/rdml"
)

type buildOptions struct {
	configPath string
	outFile    string
	noColor    bool
	stdout     io.Writer
	stderr     io.Writer

	// loader overrides the loader selected by the configuration.
	loader source.Loader
}

// NewCmdBuild creates the build command.
func NewCmdBuild() *cobra.Command {
	opts := &buildOptions{}

	cmd := &cobra.Command{
		Use:   "build [paths...]",
		Short: "Compile procedure files into one JSON document",
		Long: `Load procedure files, compile them and write every procedure as
{"procs": {"<name>": [instructions...]}}.

Paths are taken from the arguments, or from the paths list of the
configuration. They are resolved against base_url when set, otherwise
against source_dir, otherwise against the current directory.`,
		Example: `  # Build the files listed in the config
  rdml build

  # Build specific files and write the result to a file
  rdml build intro.rdml town.rdml --out data/procs.json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.configPath, _ = cmd.Flags().GetString("config")
			opts.noColor, _ = cmd.Flags().GetBool("no-color")
			opts.stdout = cmd.OutOrStdout()
			opts.stderr = cmd.ErrOrStderr()
			return runBuild(cmd.Context(), args, opts)
		},
	}

	cmd.Flags().StringVar(&opts.outFile, "out", "", "Write the result to this file instead of stdout")

	return cmd
}

func runBuild(ctx context.Context, paths []string, opts *buildOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := config.LoadWithEnv(config.ResolvePath(opts.configPath))
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if len(paths) == 0 {
		paths = cfg.Paths
	}
	if len(paths) == 0 {
		return errors.New("no procedure files given (pass paths or set paths in the config)")
	}

	loader := opts.loader
	if loader == nil {
		if loader, err = loaderFor(cfg); err != nil {
			return err
		}
	}

	files, err := source.LoadAll(ctx, loader, paths)
	if err != nil {
		return fmt.Errorf("failed to load procedure files: %w", err)
	}

	warn := view.NewRenderer(view.FormatTable, opts.noColor)
	warn.SetWriter(opts.stderr)

	prog := &rdml.Program{}
	for _, f := range files {
		p, err := rdml.CompileProcedures(f.Src, rdml.DefaultRegistry)
		if err != nil {
			return fmt.Errorf("%s: %w", f.Path, err)
		}
		warn.Warnings(f.Path, p.Warnings)
		if err := prog.Merge(p); err != nil {
			return fmt.Errorf("%s: %w", f.Path, err)
		}
	}

	data, err := json.MarshalIndent(prog, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode procedures: %w", err)
	}
	data = append(data, '\n')

	outFile := opts.outFile
	if outFile == "" {
		outFile = cfg.OutFile
	}
	if outFile == "" {
		_, err := opts.stdout.Write(data)
		return err
	}

	if err := writeFile(outFile, data); err != nil {
		return err
	}
	renderer := view.NewRenderer(view.FormatTable, opts.noColor)
	renderer.SetWriter(opts.stderr)
	renderer.Success(fmt.Sprintf("Wrote %d procedures from %d files to %s", len(prog.Procedures), len(files), outFile))
	return nil
}

// loaderFor picks the configured loader, falling back to the current
// directory when no source is configured.
func loaderFor(cfg *config.Config) (source.Loader, error) {
	if cfg.SourceDir == "" && cfg.BaseURL == "" {
		return source.DirLoader{Root: "."}, nil
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w (run 'rdml init' to configure)", err)
	}
	return source.New(cfg)
}

func writeFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
