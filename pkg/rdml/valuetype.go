// valuetype.go provides the converters that turn raw attribute strings into
// instruction parameters.
package rdml

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Param is a single instruction parameter: int, string, bool or []Param.
type Param interface{}

// Converter validates a raw attribute value and converts it to one or more
// parameters.
type Converter func(src string) ([]Param, error)

// ValueType is a named, documented converter.
type ValueType struct {
	Name    string
	Desc    string
	Convert Converter
}

// Fixed ignores its input and always yields v.
func Fixed(v Param) Converter {
	return func(string) ([]Param, error) {
		return []Param{v}, nil
	}
}

// Bound restricts the range accepted by Int.
type Bound func(*intRange)

type intRange struct {
	min, max       int
	hasMin, hasMax bool
}

// Min sets an inclusive lower bound.
func Min(n int) Bound {
	return func(r *intRange) {
		r.min, r.hasMin = n, true
	}
}

// Max sets an inclusive upper bound.
func Max(n int) Bound {
	return func(r *intRange) {
		r.max, r.hasMax = n, true
	}
}

// Int parses a base-10 integer. Without bounds every int is accepted.
func Int(bounds ...Bound) Converter {
	var r intRange
	for _, b := range bounds {
		b(&r)
	}
	return func(src string) ([]Param, error) {
		n, err := strconv.Atoi(src)
		if err != nil {
			return nil, fmt.Errorf("cannot parse %q as integer", src)
		}
		if r.hasMin && n < r.min {
			return nil, fmt.Errorf("expected %q >= %d", src, r.min)
		}
		if r.hasMax && n > r.max {
			return nil, fmt.Errorf("expected %q <= %d", src, r.max)
		}
		return []Param{n}, nil
	}
}

// Match dispatches on the exact input. Input matching no case is passed
// verbatim to the "" case; without one the input is rejected.
func Match(cases map[string]Converter) Converter {
	return func(src string) ([]Param, error) {
		if c, ok := cases[src]; ok && src != "" {
			return c(src)
		}
		if fallback, ok := cases[""]; ok {
			return fallback(src)
		}
		return nil, fmt.Errorf("unexpected %q, expected one of %s", src, strings.Join(matchKeys(cases), ", "))
	}
}

func matchKeys(cases map[string]Converter) []string {
	keys := make([]string, 0, len(cases))
	for k := range cases {
		if k != "" {
			keys = append(keys, strconv.Quote(k))
		}
	}
	sort.Strings(keys)
	return keys
}

// Bool accepts the spellings understood by strconv.ParseBool.
func Bool() Converter {
	return func(src string) ([]Param, error) {
		b, err := strconv.ParseBool(src)
		if err != nil {
			return nil, fmt.Errorf("cannot parse %q as boolean", src)
		}
		return []Param{b}, nil
	}
}

// String passes the input through unchanged.
func String() Converter {
	return func(src string) ([]Param, error) {
		return []Param{src}, nil
	}
}

// Enum maps each accepted literal to a fixed integer.
func Enum(values map[string]int) Converter {
	cases := make(map[string]Converter, len(values))
	for k, v := range values {
		cases[k] = Fixed(v)
	}
	return Match(cases)
}
