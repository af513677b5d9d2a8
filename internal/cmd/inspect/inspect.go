// Package inspect provides the tokens and tree commands, which print the
// intermediate forms of an RDML script.
package inspect

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/open-cli-collective/rdml-cli/internal/source"
	"github.com/open-cli-collective/rdml-cli/internal/view"
	"github.com/open-cli-collective/rdml-cli/pkg/rdml"
)

type inspectOptions struct {
	output  string
	noColor bool
	stdin   io.Reader
	stdout  io.Writer
}

func (o *inspectOptions) bind(cmd *cobra.Command) {
	o.output, _ = cmd.Flags().GetString("output")
	o.noColor, _ = cmd.Flags().GetBool("no-color")
	o.stdin = cmd.InOrStdin()
	o.stdout = cmd.OutOrStdout()
}

// NewCmdTokens creates the tokens command.
func NewCmdTokens() *cobra.Command {
	opts := &inspectOptions{}

	return &cobra.Command{
		Use:   "tokens <file|->",
		Short: "Print the tokens of an RDML script",
		Example: `  rdml tokens intro.rdml
  echo '<wait time="60"/>' | rdml tokens -`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.bind(cmd)
			return runTokens(args[0], opts)
		},
	}
}

// NewCmdTree creates the tree command.
func NewCmdTree() *cobra.Command {
	opts := &inspectOptions{}

	return &cobra.Command{
		Use:   "tree <file|->",
		Short: "Print the element tree of an RDML script",
		Long: `Parse an RDML script and print its element tree. Whitespace-only
text is omitted in table output.`,
		Example: `  rdml tree intro.rdml
  rdml tree intro.rdml -o json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.bind(cmd)
			return runTree(args[0], opts)
		},
	}
}

func runTokens(name string, opts *inspectOptions) error {
	src, err := source.ReadInput(name, opts.stdin)
	if err != nil {
		return err
	}

	tokens, err := rdml.Scan(src)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}

	renderer := view.NewRenderer(view.Format(opts.output), opts.noColor)
	renderer.SetWriter(opts.stdout)

	headers := []string{"TYPE", "LINE", "LITERAL"}
	rows := make([][]string, 0, len(tokens))
	for _, t := range tokens {
		rows = append(rows, []string{
			t.Type.String(),
			strconv.Itoa(t.Line),
			strconv.Quote(t.Literal(src)),
		})
	}
	renderer.RenderTable(headers, rows)
	return nil
}

func runTree(name string, opts *inspectOptions) error {
	src, err := source.ReadInput(name, opts.stdin)
	if err != nil {
		return err
	}

	nodes, err := rdml.Parse(src)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}

	renderer := view.NewRenderer(view.Format(opts.output), opts.noColor)
	renderer.SetWriter(opts.stdout)
	return renderer.RenderTree(nodes)
}
