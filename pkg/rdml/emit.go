// emit.go provides the reusable emission shapes used by registry entries.
package rdml

import "fmt"

// ParamSource produces one instruction parameter from resolved arguments.
type ParamSource func(args Args) (Param, error)

// Ref takes the first value of an argument.
func Ref(key string) ParamSource {
	return RefAt(key, 0)
}

// RefAt takes the i-th value of an argument.
func RefAt(key string, i int) ParamSource {
	return func(args Args) (Param, error) {
		return args.Value(key, i)
	}
}

// Const always yields v.
func Const(v Param) ParamSource {
	return func(Args) (Param, error) {
		return v, nil
	}
}

// ByAttr yields the value mapped to the attribute that supplied key.
func ByAttr(key string, values map[string]Param) ParamSource {
	return func(args Args) (Param, error) {
		v, ok := values[args.Attr(key)]
		if !ok {
			return nil, fmt.Errorf("argument %q: no mapping for attribute %q", key, args.Attr(key))
		}
		return v, nil
	}
}

func resolveParams(args Args, sources []ParamSource) ([]Param, error) {
	params := make([]Param, 0, len(sources))
	for _, src := range sources {
		p, err := src(args)
		if err != nil {
			return nil, err
		}
		params = append(params, p)
	}
	return params, nil
}

// Leaf emits a single instruction at the current depth. Children are
// ignored.
func Leaf(code int, params ...ParamSource) EmitFunc {
	return func(c *Compiler, _ *Element, args Args, depth int) error {
		ps, err := resolveParams(args, params)
		if err != nil {
			return err
		}
		c.Emit(code, depth, ps...)
		return nil
	}
}

// Block emits start at depth, the children one level deeper, then end at
// depth.
func Block(start int, params []ParamSource, end int) EmitFunc {
	return func(c *Compiler, el *Element, args Args, depth int) error {
		ps, err := resolveParams(args, params)
		if err != nil {
			return err
		}
		c.Emit(start, depth, ps...)
		if err := c.CompileChildren(el, depth+1); err != nil {
			return err
		}
		c.Emit(end, depth)
		return nil
	}
}

// Scoped is like Block, but the inner scope is closed with a terminator
// before the end instruction, as the host expects for branches and loops.
func Scoped(start int, params []ParamSource, end int) EmitFunc {
	return func(c *Compiler, el *Element, args Args, depth int) error {
		ps, err := resolveParams(args, params)
		if err != nil {
			return err
		}
		c.Emit(start, depth, ps...)
		if err := c.CompileScope(el.Nodes, el, depth+1); err != nil {
			return err
		}
		c.Emit(end, depth)
		return nil
	}
}

// CompileScope compiles nodes at depth and closes the scope with a
// terminator.
func (c *Compiler) CompileScope(nodes []Node, parent *Element, depth int) error {
	if err := c.compileNodes(parent, nodes, depth); err != nil {
		return err
	}
	c.Terminate(depth)
	return nil
}
