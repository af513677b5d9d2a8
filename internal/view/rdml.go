package view

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/fatih/color"

	"github.com/open-cli-collective/rdml-cli/pkg/rdml"
)

// RenderInstructions renders compiled instructions. In table format each
// code is indented by its nesting depth.
func (r *Renderer) RenderInstructions(ins []rdml.Instruction) error {
	if r.format == FormatJSON {
		return r.RenderJSON(ins)
	}

	rows := make([][]string, 0, len(ins))
	for _, in := range ins {
		params, err := json.Marshal(in.Params)
		if err != nil {
			return fmt.Errorf("failed to encode parameters of %d: %w", in.Code, err)
		}
		code := strconv.Itoa(in.Code)
		if r.format == FormatTable {
			code = strings.Repeat("  ", in.Indent) + code
		}
		rows = append(rows, []string{code, strconv.Itoa(in.Indent), string(params)})
	}
	r.RenderTable([]string{"CODE", "INDENT", "PARAMETERS"}, rows)
	return nil
}

// RenderProgram renders every procedure of prog.
func (r *Renderer) RenderProgram(prog *rdml.Program) error {
	if r.format == FormatJSON {
		return r.RenderJSON(prog)
	}

	bold := color.New(color.Bold)
	for i, proc := range prog.Procedures {
		if i > 0 {
			fmt.Fprintln(r.writer)
		}
		bold.Fprintf(r.writer, "proc %s\n", proc.Name)
		if err := r.RenderInstructions(proc.Instructions); err != nil {
			return err
		}
	}
	return nil
}

// RenderTree renders a node tree, one node per line.
func (r *Renderer) RenderTree(nodes []rdml.Node) error {
	if r.format == FormatJSON {
		return r.RenderJSON(nodes)
	}
	r.renderNodes(nodes, 0)
	return nil
}

func (r *Renderer) renderNodes(nodes []rdml.Node, depth int) {
	indent := strings.Repeat("  ", depth)
	dim := color.New(color.Faint)
	for _, n := range nodes {
		switch n := n.(type) {
		case rdml.Text:
			if strings.TrimSpace(string(n)) == "" {
				continue
			}
			fmt.Fprintf(r.writer, "%s%q\n", indent, string(n))
		case *rdml.Element:
			fmt.Fprintf(r.writer, "%s%s", indent, startTag(n))
			dim.Fprintf(r.writer, "  line %d\n", n.Line)
			r.renderNodes(n.Nodes, depth+1)
		}
	}
}

func startTag(el *rdml.Element) string {
	names := make([]string, 0, len(el.Attrs))
	for name := range el.Attrs {
		names = append(names, name)
	}
	sort.Strings(names)

	var sb strings.Builder
	sb.WriteString("<" + el.Name)
	for _, name := range names {
		fmt.Fprintf(&sb, " %s=%q", name, el.Attrs[name])
	}
	if len(el.Nodes) == 0 {
		sb.WriteString("/>")
	} else {
		sb.WriteString(">")
	}
	return sb.String()
}

// Warnings prints each warning, prefixed with where it came from.
func (r *Renderer) Warnings(from string, warnings []string) {
	for _, w := range warnings {
		if from != "" {
			w = from + ": " + w
		}
		r.Warning(w)
	}
}
