package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/open-cli-collective/rdml-cli/pkg/md"
	"github.com/open-cli-collective/rdml-cli/pkg/rdml"
)

type docsOptions struct {
	html     bool
	outFile  string
	stdout   io.Writer
	registry rdml.Registry
}

func newDocsCmd() *cobra.Command {
	opts := &docsOptions{registry: rdml.DefaultRegistry}

	cmd := &cobra.Command{
		Use:   "docs [name]",
		Short: "Generate the command reference",
		Long: `Generate a Markdown reference of every command, or of a single one.
Use --html to render it as HTML.`,
		Example: `  # Write the reference to a file
  rdml commands docs --out COMMANDS.md

  # HTML page for one command
  rdml commands docs heal --html`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.stdout = cmd.OutOrStdout()
			name := ""
			if len(args) == 1 {
				name = args[0]
			}
			return runDocs(name, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.html, "html", false, "Render as HTML instead of Markdown")
	cmd.Flags().StringVar(&opts.outFile, "out", "", "Write to this file instead of stdout")

	return cmd
}

func runDocs(name string, opts *docsOptions) error {
	var doc []byte
	if name == "" {
		doc = md.Reference(opts.registry)
	} else {
		c, ok := opts.registry.Lookup(name)
		if !ok {
			return fmt.Errorf("unknown command %q", name)
		}
		doc = md.CommandReference(c)
	}

	if opts.html {
		html, err := md.ToHTML(doc)
		if err != nil {
			return fmt.Errorf("failed to render HTML: %w", err)
		}
		doc = []byte(html)
	}

	if opts.outFile == "" {
		_, err := opts.stdout.Write(doc)
		return err
	}
	if err := os.WriteFile(opts.outFile, doc, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", opts.outFile, err)
	}
	return nil
}
