// Package check provides the check command.
package check

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/open-cli-collective/rdml-cli/internal/source"
	"github.com/open-cli-collective/rdml-cli/internal/view"
	"github.com/open-cli-collective/rdml-cli/pkg/rdml"
)

type checkOptions struct {
	procs   bool
	noColor bool
	stdin   io.Reader
	stdout  io.Writer
}

// NewCmdCheck creates the check command.
func NewCmdCheck() *cobra.Command {
	opts := &checkOptions{}

	cmd := &cobra.Command{
		Use:   "check <file>...",
		Short: "Check that RDML files compile",
		Long: `Compile each file without printing the result and report whether it
succeeded. Exits non-zero if any file fails.`,
		Example: `  # Check every script in a folder
  rdml check scripts/*.rdml

  # Check procedure files
  rdml check --procs town.rdml inn.rdml`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.noColor, _ = cmd.Flags().GetBool("no-color")
			opts.stdin = cmd.InOrStdin()
			opts.stdout = cmd.OutOrStdout()
			return runCheck(args, opts)
		},
	}

	cmd.Flags().BoolVarP(&opts.procs, "procs", "p", false, "Read the inputs as procedure files")

	return cmd
}

func runCheck(files []string, opts *checkOptions) error {
	renderer := view.NewRenderer(view.FormatTable, opts.noColor)
	renderer.SetWriter(opts.stdout)

	failed := 0
	for _, name := range files {
		warnings, err := checkFile(name, opts)
		if err != nil {
			renderer.Error(fmt.Sprintf("%s: %v", name, err))
			failed++
			continue
		}
		switch len(warnings) {
		case 0:
			renderer.Success(name)
		case 1:
			renderer.Success(name + " (1 warning)")
		default:
			renderer.Success(fmt.Sprintf("%s (%d warnings)", name, len(warnings)))
		}
		renderer.Warnings("  "+name, warnings)
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d files failed", failed, len(files))
	}
	return nil
}

func checkFile(name string, opts *checkOptions) ([]string, error) {
	src, err := source.ReadInput(name, opts.stdin)
	if err != nil {
		return nil, err
	}
	if opts.procs {
		prog, err := rdml.CompileProcedures(src, rdml.DefaultRegistry)
		if err != nil {
			return nil, err
		}
		return prog.Warnings, nil
	}
	res, err := rdml.Compile(src, rdml.DefaultRegistry)
	if err != nil {
		return nil, err
	}
	return res.Warnings, nil
}
