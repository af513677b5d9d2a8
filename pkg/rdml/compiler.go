// compiler.go walks the node tree and emits instructions using a Registry.
package rdml

import (
	"errors"
	"fmt"
	"log"
	"sort"
	"strings"
)

// Instruction is one emitted event command.
type Instruction struct {
	Code   int     `json:"code"`
	Indent int     `json:"indent"`
	Params []Param `json:"parameters"`
}

// Result holds the compiled instructions and any warnings.
type Result struct {
	Instructions []Instruction
	Warnings     []string
}

// AddWarning logs a warning and stores it in the result.
func (r *Result) AddWarning(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	r.Warnings = append(r.Warnings, msg)
	log.Printf("WARN: "+format, args...)
}

// Compile compiles a script: every top-level element is compiled at depth
// zero, followed by one terminator.
func Compile(src string, reg Registry) (*Result, error) {
	nodes, err := Parse(src)
	if err != nil {
		return nil, err
	}

	c := NewCompiler(reg)
	for _, n := range nodes {
		switch n := n.(type) {
		case *Element:
			if err := c.CompileElement(n, 0); err != nil {
				return nil, err
			}
		case Text:
			c.checkText(n, "")
		}
	}
	c.Terminate(0)
	return c.Result(), nil
}

// EmitFunc appends the instructions for a resolved element.
type EmitFunc func(c *Compiler, el *Element, args Args, depth int) error

// Compiler accumulates instructions for one compilation.
type Compiler struct {
	reg    Registry
	result Result
}

// NewCompiler creates a compiler that consults reg.
func NewCompiler(reg Registry) *Compiler {
	return &Compiler{reg: reg}
}

// Result returns the accumulated output.
func (c *Compiler) Result() *Result {
	res := c.result
	if res.Instructions == nil {
		res.Instructions = []Instruction{}
	}
	return &res
}

// Warnf records a warning.
func (c *Compiler) Warnf(format string, args ...interface{}) {
	c.result.AddWarning(format, args...)
}

// Emit appends one instruction.
func (c *Compiler) Emit(code, indent int, params ...Param) {
	if params == nil {
		params = []Param{}
	}
	c.result.Instructions = append(c.result.Instructions, Instruction{
		Code:   code,
		Indent: indent,
		Params: params,
	})
}

// Terminate closes a scope at indent.
func (c *Compiler) Terminate(indent int) {
	c.Emit(0, indent)
}

// CompileElement validates el against its command and emits it at depth.
func (c *Compiler) CompileElement(el *Element, depth int) error {
	cmd, ok := c.reg.Lookup(el.Name)
	if !ok {
		return &CompileError{Element: el.Name, Line: el.Line, Err: ErrUnknownCommand}
	}

	args, err := c.Args(cmd, el)
	if err != nil {
		return err
	}

	if err := cmd.Emit(c, el, args, depth); err != nil {
		var ce *CompileError
		if errors.As(err, &ce) {
			return err
		}
		return &CompileError{Element: el.Name, Line: el.Line, Err: err}
	}
	return nil
}

// CompileChildren compiles every child element of el at depth. Text is
// ignored.
func (c *Compiler) CompileChildren(el *Element, depth int) error {
	return c.compileNodes(el, el.Nodes, depth)
}

func (c *Compiler) compileNodes(parent *Element, nodes []Node, depth int) error {
	for _, n := range nodes {
		switch n := n.(type) {
		case *Element:
			if err := c.CompileElement(n, depth); err != nil {
				return err
			}
		case Text:
			c.checkText(n, parent.Name)
		}
	}
	return nil
}

func (c *Compiler) checkText(t Text, parent string) {
	s := strings.TrimFunc(string(t), isSpace)
	if s == "" {
		return
	}
	if parent == "" {
		c.Warnf("ignoring top-level text %q", truncate(s, 20))
		return
	}
	c.Warnf("ignoring text %q in <%s>", truncate(s, 20), parent)
}

// Args resolves every attribute group of cmd against el.
func (c *Compiler) Args(cmd *Command, el *Element) (Args, error) {
	args := make(Args, len(cmd.Groups))
	known := make(map[string]bool, len(el.Attrs))

	for _, g := range cmd.Groups {
		arg, err := c.resolveGroup(g, el, known)
		if err != nil {
			return nil, &CompileError{Element: el.Name, Group: g.Key, Line: el.Line, Err: err}
		}
		args[g.Key] = arg
	}

	var unknown []string
	for name := range el.Attrs {
		if !known[name] {
			unknown = append(unknown, name)
		}
	}
	sort.Strings(unknown)
	for _, name := range unknown {
		c.Warnf("<%s> at line %d: ignoring unknown attribute %q", el.Name, el.Line, name)
	}
	return args, nil
}

// resolveGroup picks the first present alternative in declared order.
func (c *Compiler) resolveGroup(g AttrGroup, el *Element, known map[string]bool) (Arg, error) {
	var found []Attr
	for _, a := range g.Attrs {
		if _, ok := el.Attrs[a.Name]; ok {
			found = append(found, a)
			known[a.Name] = true
		}
	}

	var (
		attr      Attr
		raw       string
		defaulted bool
	)
	switch {
	case len(found) > 0:
		attr = found[0]
		raw = el.Attrs[attr.Name]
		if len(found) > 1 {
			c.Warnf("<%s> at line %d: attributes %s are alternatives, using %q",
				el.Name, el.Line, quoteAttrs(found), attr.Name)
		}
	case g.Default != nil:
		a, ok := g.attr(g.Default.Attr)
		if !ok {
			return Arg{}, fmt.Errorf("default refers to undeclared attribute %q", g.Default.Attr)
		}
		attr, raw, defaulted = a, g.Default.Value, true
	default:
		return Arg{}, fmt.Errorf("%w: expected one of %s", ErrRequiredAttr, strings.Join(quoteAll(g.attrNames()), ", "))
	}

	values, err := attr.Type.Convert(raw)
	if err != nil {
		return Arg{}, fmt.Errorf("%w: %s=%q: %v", ErrInvalidValue, attr.Name, raw, err)
	}
	return Arg{Attr: attr.Name, Values: values, Defaulted: defaulted}, nil
}

func quoteAttrs(attrs []Attr) string {
	names := make([]string, len(attrs))
	for i, a := range attrs {
		names[i] = a.Name
	}
	return strings.Join(quoteAll(names), ", ")
}

func quoteAll(ss []string) []string {
	out := make([]string, len(ss))
	for i, s := range ss {
		out[i] = fmt.Sprintf("%q", s)
	}
	return out
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
