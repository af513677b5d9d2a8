// procedure.go compiles procedure files: named <proc> elements, optionally
// grouped into <package> elements.
package rdml

import (
	"encoding/json"
	"fmt"
	"sort"
)

// Procedure is a named, independently callable instruction list.
type Procedure struct {
	Name         string        `json:"name"`
	Instructions []Instruction `json:"instructions"`
}

// Program is the result of compiling a procedure file.
type Program struct {
	Procedures []*Procedure
	Warnings   []string

	byName map[string]*Procedure
}

// Lookup returns the procedure with the given qualified name.
func (p *Program) Lookup(name string) (*Procedure, bool) {
	proc, ok := p.byName[name]
	return proc, ok
}

// Names returns the procedure names in sorted order.
func (p *Program) Names() []string {
	names := make([]string, 0, len(p.byName))
	for name := range p.byName {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Merge adds the procedures of other, rejecting duplicate names.
func (p *Program) Merge(other *Program) error {
	for _, proc := range other.Procedures {
		if err := p.add(proc); err != nil {
			return err
		}
	}
	p.Warnings = append(p.Warnings, other.Warnings...)
	return nil
}

// MarshalJSON encodes the program as {"procs": {name: instructions}}.
func (p *Program) MarshalJSON() ([]byte, error) {
	procs := make(map[string][]Instruction, len(p.Procedures))
	for _, proc := range p.Procedures {
		procs[proc.Name] = proc.Instructions
	}
	return json.Marshal(struct {
		Procs map[string][]Instruction `json:"procs"`
	}{procs})
}

func (p *Program) add(proc *Procedure) error {
	if p.byName == nil {
		p.byName = make(map[string]*Procedure)
	}
	if _, ok := p.byName[proc.Name]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicateProc, proc.Name)
	}
	p.byName[proc.Name] = proc
	p.Procedures = append(p.Procedures, proc)
	return nil
}

var (
	procSchema = &Command{
		Name: "proc",
		Desc: "A procedure; its content is compiled as a script.",
		Groups: []AttrGroup{
			{Key: "name", Desc: "procedure name", Attrs: []Attr{{"name", typeName}}},
		},
	}
	packageSchema = &Command{
		Name: "package",
		Desc: "Groups procedures under a common name prefix.",
		Groups: []AttrGroup{
			{Key: "name", Desc: "package name", Attrs: []Attr{{"name", typeName}}},
		},
	}
	typeName = ValueType{Name: "name", Desc: "non-empty name", Convert: nonEmpty}
)

func nonEmpty(src string) ([]Param, error) {
	if src == "" {
		return nil, fmt.Errorf("name must not be empty")
	}
	return []Param{src}, nil
}

// CompileProcedures compiles every <proc> of src. Procedures inside a
// <package name="p"> are named "p.<name>".
func CompileProcedures(src string, reg Registry) (*Program, error) {
	nodes, err := Parse(src)
	if err != nil {
		return nil, err
	}

	prog := &Program{byName: make(map[string]*Procedure)}
	top := &Compiler{reg: reg}
	for _, n := range nodes {
		switch n := n.(type) {
		case Text:
			top.checkText(n, "")
		case *Element:
			if err := compileUnit(prog, top, n, reg); err != nil {
				return nil, err
			}
		}
	}
	prog.Warnings = top.result.Warnings
	return prog, nil
}

func compileUnit(prog *Program, top *Compiler, el *Element, reg Registry) error {
	switch el.Name {
	case "proc":
		return compileProc(prog, top, el, "", reg)
	case "package":
		args, err := top.Args(packageSchema, el)
		if err != nil {
			return err
		}
		prefix := args["name"].Values[0].(string) + "."
		for _, n := range el.Nodes {
			switch n := n.(type) {
			case Text:
				top.checkText(n, el.Name)
			case *Element:
				if n.Name != "proc" {
					return &CompileError{
						Element: n.Name,
						Line:    n.Line,
						Err:     fmt.Errorf("%w: expected <proc> in <package>", ErrInvalidContent),
					}
				}
				if err := compileProc(prog, top, n, prefix, reg); err != nil {
					return err
				}
			}
		}
		return nil
	}
	return &CompileError{
		Element: el.Name,
		Line:    el.Line,
		Err:     fmt.Errorf("%w: expected <proc> or <package> at top level", ErrInvalidContent),
	}
}

func compileProc(prog *Program, top *Compiler, el *Element, prefix string, reg Registry) error {
	args, err := top.Args(procSchema, el)
	if err != nil {
		return err
	}
	name := prefix + args["name"].Values[0].(string)

	c := NewCompiler(reg)
	if err := c.CompileScope(el.Nodes, el, 0); err != nil {
		return err
	}
	res := c.Result()
	top.result.Warnings = append(top.result.Warnings, res.Warnings...)

	if err := prog.add(&Procedure{Name: name, Instructions: res.Instructions}); err != nil {
		return &CompileError{Element: el.Name, Group: "name", Line: el.Line, Err: err}
	}
	return nil
}
