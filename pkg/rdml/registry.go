// registry.go defines the declarative command schema consulted by the compiler.
package rdml

import (
	"errors"
	"fmt"
	"sort"
)

// Attr is one accepted spelling of an attribute group.
type Attr struct {
	Name string
	Type ValueType
}

// Default is used when none of a group's attributes is present. Value is
// converted with the type of the alternative named by Attr.
type Default struct {
	Attr  string
	Value string
}

// DefaultTo builds a Default for the given alternative.
func DefaultTo(attr, value string) *Default {
	return &Default{Attr: attr, Value: value}
}

// AttrGroup is a set of mutually exclusive attributes resolved into a
// single argument. A nil Default makes the group required.
type AttrGroup struct {
	Key     string // argument key seen by the emitter
	Desc    string
	Attrs   []Attr
	Default *Default
}

// Required reports whether the group has no default.
func (g AttrGroup) Required() bool {
	return g.Default == nil
}

func (g AttrGroup) attr(name string) (Attr, bool) {
	for _, a := range g.Attrs {
		if a.Name == name {
			return a, true
		}
	}
	return Attr{}, false
}

func (g AttrGroup) attrNames() []string {
	names := make([]string, len(g.Attrs))
	for i, a := range g.Attrs {
		names[i] = a.Name
	}
	return names
}

// Command describes how one element name is validated and compiled.
type Command struct {
	Name   string
	Desc   string
	Groups []AttrGroup
	Emit   EmitFunc
}

// Registry maps element names to commands. It is populated once and only
// read afterwards, so it can be shared between goroutines.
type Registry map[string]*Command

// Lookup returns the command registered for name.
func (r Registry) Lookup(name string) (*Command, bool) {
	cmd, ok := r[name]
	return cmd, ok
}

// Names returns the registered element names in sorted order.
func (r Registry) Names() []string {
	names := make([]string, 0, len(r))
	for name := range r {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Validate checks the registry for inconsistent definitions.
func (r Registry) Validate() error {
	var errs []error
	for _, name := range r.Names() {
		if err := r[name].validate(name); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (c *Command) validate(name string) error {
	if c.Name != name {
		return fmt.Errorf("command %q registered as %q", c.Name, name)
	}
	if c.Emit == nil {
		return fmt.Errorf("command %q: no emitter", name)
	}
	return validateGroups(name, c.Groups)
}

func validateGroups(name string, groups []AttrGroup) error {
	keys := make(map[string]bool)
	attrs := make(map[string]string)
	for _, g := range groups {
		if g.Key == "" {
			return fmt.Errorf("command %q: attribute group without key", name)
		}
		if keys[g.Key] {
			return fmt.Errorf("command %q: duplicate group %q", name, g.Key)
		}
		keys[g.Key] = true
		if len(g.Attrs) == 0 {
			return fmt.Errorf("command %q: group %q has no attributes", name, g.Key)
		}
		for _, a := range g.Attrs {
			if other, ok := attrs[a.Name]; ok {
				return fmt.Errorf("command %q: attribute %q in groups %q and %q", name, a.Name, other, g.Key)
			}
			attrs[a.Name] = g.Key
			if a.Type.Convert == nil {
				return fmt.Errorf("command %q: attribute %q has no converter", name, a.Name)
			}
		}
		if g.Default != nil {
			a, ok := g.attr(g.Default.Attr)
			if !ok {
				return fmt.Errorf("command %q: group %q defaults to undeclared attribute %q", name, g.Key, g.Default.Attr)
			}
			if _, err := a.Type.Convert(g.Default.Value); err != nil {
				return fmt.Errorf("command %q: group %q has invalid default: %w", name, g.Key, err)
			}
		}
	}
	return nil
}

// Arg is a resolved attribute group.
type Arg struct {
	Attr      string // attribute that supplied the value
	Values    []Param
	Defaulted bool
}

// Args maps group keys to resolved arguments.
type Args map[string]Arg

// Value returns the i-th value of the argument key.
func (a Args) Value(key string, i int) (Param, error) {
	arg, ok := a[key]
	if !ok {
		return nil, fmt.Errorf("no argument %q", key)
	}
	if i < 0 || i >= len(arg.Values) {
		return nil, fmt.Errorf("argument %q has no value #%d", key, i)
	}
	return arg.Values[i], nil
}

// Attr returns the attribute name that supplied key.
func (a Args) Attr(key string) string {
	return a[key].Attr
}
