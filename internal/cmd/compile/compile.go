// Package compile provides the compile command.
package compile

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/open-cli-collective/rdml-cli/internal/source"
	"github.com/open-cli-collective/rdml-cli/internal/view"
	"github.com/open-cli-collective/rdml-cli/pkg/rdml"
)

type compileOptions struct {
	procs   bool
	output  string
	noColor bool
	stdin   io.Reader
	stdout  io.Writer
	stderr  io.Writer
}

// NewCmdCompile creates the compile command.
func NewCmdCompile() *cobra.Command {
	opts := &compileOptions{}

	cmd := &cobra.Command{
		Use:   "compile <file|->",
		Short: "Compile an RDML script to event commands",
		Long: `Compile an RDML script and print the resulting event commands.

Every top-level element is compiled at indent 0 and the list is closed
with a terminator. With --procs the input is read as a procedure file
made of <proc> and <package> elements.`,
		Example: `  # Compile a script
  rdml compile intro.rdml

  # Read from stdin and print JSON
  echo '<wait time="60"/>' | rdml compile - -o json

  # Compile a procedure file
  rdml compile --procs town.rdml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.output, _ = cmd.Flags().GetString("output")
			opts.noColor, _ = cmd.Flags().GetBool("no-color")
			opts.stdin = cmd.InOrStdin()
			opts.stdout = cmd.OutOrStdout()
			opts.stderr = cmd.ErrOrStderr()
			return runCompile(args[0], opts)
		},
	}

	cmd.Flags().BoolVarP(&opts.procs, "procs", "p", false, "Read the input as a procedure file")

	return cmd
}

func runCompile(name string, opts *compileOptions) error {
	src, err := source.ReadInput(name, opts.stdin)
	if err != nil {
		return err
	}

	renderer := view.NewRenderer(view.Format(opts.output), opts.noColor)
	renderer.SetWriter(opts.stdout)
	warn := view.NewRenderer(view.Format(opts.output), opts.noColor)
	warn.SetWriter(opts.stderr)

	if opts.procs {
		prog, err := rdml.CompileProcedures(src, rdml.DefaultRegistry)
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		warn.Warnings(name, prog.Warnings)
		return renderer.RenderProgram(prog)
	}

	res, err := rdml.Compile(src, rdml.DefaultRegistry)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	warn.Warnings(name, res.Warnings)
	return renderer.RenderInstructions(res.Instructions)
}
