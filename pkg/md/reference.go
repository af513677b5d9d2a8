// reference.go generates the command reference from a registry.
package md

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/open-cli-collective/rdml-cli/pkg/rdml"
)

// Reference renders every command of reg as Markdown, in name order.
func Reference(reg rdml.Registry) []byte {
	var b bytes.Buffer
	b.WriteString("# RDML command reference\n")
	for _, name := range reg.Names() {
		writeCommand(&b, reg[name])
	}
	return b.Bytes()
}

// CommandReference renders a single command.
func CommandReference(cmd *rdml.Command) []byte {
	var b bytes.Buffer
	writeCommand(&b, cmd)
	return b.Bytes()
}

func writeCommand(b *bytes.Buffer, cmd *rdml.Command) {
	fmt.Fprintf(b, "\n## `<%s>`\n\n%s\n", cmd.Name, cmd.Desc)
	if len(cmd.Groups) == 0 {
		b.WriteString("\nNo attributes.\n")
		return
	}

	b.WriteString("\n| Argument | Attributes | Description | Default |\n")
	b.WriteString("|---|---|---|---|\n")
	for _, g := range cmd.Groups {
		attrs := make([]string, len(g.Attrs))
		for i, a := range g.Attrs {
			attrs[i] = fmt.Sprintf("`%s` (%s)", a.Name, a.Type.Desc)
		}
		def := "required"
		if g.Default != nil {
			def = fmt.Sprintf("`%s=%q`", g.Default.Attr, g.Default.Value)
		}
		fmt.Fprintf(b, "| %s | %s | %s | %s |\n",
			g.Key, cell(strings.Join(attrs, " or ")), cell(g.Desc), def)
	}
}

// cell escapes pipes so text stays inside one table cell.
func cell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
