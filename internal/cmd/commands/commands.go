// Package commands provides the commands command, which documents the
// elements the compiler understands.
package commands

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/open-cli-collective/rdml-cli/internal/view"
	"github.com/open-cli-collective/rdml-cli/pkg/rdml"
)

const maxDescWidth = 60

type commandsOptions struct {
	output   string
	noColor  bool
	stdout   io.Writer
	registry rdml.Registry
}

// NewCmdCommands creates the commands command.
func NewCmdCommands() *cobra.Command {
	opts := &commandsOptions{registry: rdml.DefaultRegistry}

	cmd := &cobra.Command{
		Use:     "commands [name]",
		Aliases: []string{"cmds"},
		Short:   "List RDML commands",
		Long: `List the elements the compiler understands, or show the attributes of
one of them.`,
		Example: `  # List all commands
  rdml commands

  # Show the attributes of <heal>
  rdml commands heal`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.output, _ = cmd.Flags().GetString("output")
			opts.noColor, _ = cmd.Flags().GetBool("no-color")
			opts.stdout = cmd.OutOrStdout()
			if len(args) == 1 {
				return runShow(args[0], opts)
			}
			return runList(opts)
		},
	}

	cmd.AddCommand(newDocsCmd())

	return cmd
}

func (o *commandsOptions) renderer() *view.Renderer {
	r := view.NewRenderer(view.Format(o.output), o.noColor)
	r.SetWriter(o.stdout)
	return r
}

func runList(opts *commandsOptions) error {
	renderer := opts.renderer()

	headers := []string{"NAME", "DESCRIPTION"}
	var rows [][]string
	for _, name := range opts.registry.Names() {
		desc := opts.registry[name].Desc
		if renderer.Format() == view.FormatTable {
			desc = view.Truncate(desc, maxDescWidth)
		}
		rows = append(rows, []string{name, desc})
	}
	renderer.RenderTable(headers, rows)
	return nil
}

type attrJSON struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

type argumentJSON struct {
	Key         string     `json:"key"`
	Description string     `json:"description"`
	Attributes  []attrJSON `json:"attributes"`
	Default     *string    `json:"default,omitempty"`
}

type commandJSON struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Arguments   []argumentJSON `json:"arguments"`
}

func runShow(name string, opts *commandsOptions) error {
	c, ok := opts.registry.Lookup(name)
	if !ok {
		return fmt.Errorf("unknown command %q (run 'rdml commands' to list them)", name)
	}

	renderer := opts.renderer()

	if renderer.Format() == view.FormatJSON {
		out := commandJSON{Name: c.Name, Description: c.Desc, Arguments: []argumentJSON{}}
		for _, g := range c.Groups {
			arg := argumentJSON{Key: g.Key, Description: g.Desc}
			for _, a := range g.Attrs {
				arg.Attributes = append(arg.Attributes, attrJSON{Name: a.Name, Type: a.Type.Name})
			}
			if g.Default != nil {
				def := fmt.Sprintf("%s=%q", g.Default.Attr, g.Default.Value)
				arg.Default = &def
			}
			out.Arguments = append(out.Arguments, arg)
		}
		return renderer.RenderJSON(out)
	}

	renderer.RenderKeyValue("Name", "<"+c.Name+">")
	renderer.RenderKeyValue("Description", c.Desc)
	if len(c.Groups) == 0 {
		return nil
	}
	renderer.RenderText("")

	headers := []string{"ARGUMENT", "ATTRIBUTES", "DEFAULT"}
	var rows [][]string
	for _, g := range c.Groups {
		attrs := make([]string, len(g.Attrs))
		for i, a := range g.Attrs {
			attrs[i] = a.Name + ":" + a.Type.Name
		}
		def := "required"
		if g.Default != nil {
			def = fmt.Sprintf("%s=%q", g.Default.Attr, g.Default.Value)
		}
		rows = append(rows, []string{g.Key, strings.Join(attrs, " | "), def})
	}
	renderer.RenderTable(headers, rows)
	return nil
}
