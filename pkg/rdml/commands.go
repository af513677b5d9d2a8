// commands.go defines the built-in command registry. Opcodes follow the RPG
// Maker MV event command table.
package rdml

import "fmt"

const (
	codeShowChoices = 102
	codeIf          = 111
	codeLoop        = 112
	codeBreakLoop   = 113
	codeExit        = 115
	codeCommonEvent = 117
	codeLabel       = 118
	codeJumpToLabel = 119
	codeSwitch      = 121
	codeVariable    = 122
	codeGold        = 125
	codeItems       = 126
	codeWeapons     = 127
	codeArmors      = 128
	codeFadeout     = 221
	codeFadein      = 222
	codeWait        = 230
	codeWeather     = 236
	codeChangeHP    = 311
	codeChangeMP    = 312
	codeChangeTP    = 326
	codeWhen        = 402
	codeEndChoice   = 404
	codeElse        = 411
	codeEndIf       = 412
	codeRepeatAbove = 413
)

var (
	typeTime  = ValueType{Name: "time", Desc: "frame count, 60 per second", Convert: Int(Min(0))}
	typeCount = ValueType{Name: "count", Desc: "non-negative integer", Convert: Int(Min(0))}
	typeInt   = ValueType{Name: "int", Desc: "integer", Convert: Int()}
	typeID    = ValueType{Name: "id", Desc: "database ID", Convert: Int(Min(1))}
	typeVar   = ValueType{Name: "var", Desc: "variable ID", Convert: Int(Min(1))}
	typeBool  = ValueType{Name: "bool", Desc: "true or false", Convert: Bool()}
	typeText  = ValueType{Name: "text", Desc: "free text", Convert: String()}
	typeActor = ValueType{
		Name: "actor",
		Desc: `actor ID, or "all" for the whole party`,
		Convert: Match(map[string]Converter{
			"all": Fixed(0),
			"":    Int(Min(1)),
		}),
	}
	typeOnOff = ValueType{
		Name:    "on-off",
		Desc:    `"on" or "off"`,
		Convert: Enum(map[string]int{"on": 0, "off": 1}),
	}
	typeFaceIndex = ValueType{Name: "face-index", Desc: "face image index, 0 to 7", Convert: Int(Min(0), Max(7))}
	typeWindowBG  = ValueType{
		Name:    "background",
		Desc:    `"window", "dim" or "transparent"`,
		Convert: Enum(map[string]int{"window": 0, "dim": 1, "transparent": 2}),
	}
	typeWindowPos = ValueType{
		Name:    "window-position",
		Desc:    `"top", "middle" or "bottom"`,
		Convert: Enum(map[string]int{"top": 0, "middle": 1, "bottom": 2}),
	}
	typeChoicePos = ValueType{
		Name:    "choice-position",
		Desc:    `"left", "middle" or "right"`,
		Convert: Enum(map[string]int{"left": 0, "middle": 1, "right": 2}),
	}
	typeChoiceIndex = ValueType{
		Name: "choice-index",
		Desc: `0-based choice index, or "none"`,
		Convert: Match(map[string]Converter{
			"none": Fixed(-1),
			"":     Int(Min(0)),
		}),
	}
	typeCancel = ValueType{
		Name: "cancel",
		Desc: `0-based choice index taken on cancel, or "disallow"`,
		Convert: Match(map[string]Converter{
			"disallow": Fixed(-1),
			"":         Int(Min(0)),
		}),
	}
	typeWeather = ValueType{
		Name: "weather",
		Desc: `"none", "rain", "storm" or "snow"`,
		Convert: Match(map[string]Converter{
			"none":  Fixed("none"),
			"rain":  Fixed("rain"),
			"storm": Fixed("storm"),
			"snow":  Fixed("snow"),
		}),
	}
	typePower = ValueType{Name: "power", Desc: "strength, 1 to 9", Convert: Int(Min(1), Max(9))}
)

// operandType tells the host whether an operand is a constant or a variable.
var operandType = map[string]Param{
	"n": 0, "n_var": 1,
}

// DefaultRegistry holds the built-in commands.
var DefaultRegistry = Registry{
	"wait": {
		Name: "wait",
		Desc: "Waits for the given number of frames.",
		Groups: []AttrGroup{
			{Key: "time", Desc: "frames to wait", Attrs: []Attr{{"time", typeTime}}},
		},
		Emit: Leaf(codeWait, Ref("time")),
	},
	"comment": {
		Name: "comment",
		Desc: "Adds a comment; the text content is kept line by line.",
		Emit: emitComment,
	},
	"m": {
		Name: "m",
		Desc: "Shows a message. Blank lines start a new window; <br/> breaks a line.",
		Groups: []AttrGroup{
			{Key: "face", Desc: "face image name", Attrs: []Attr{{"face", typeText}}, Default: DefaultTo("face", "")},
			{Key: "index", Desc: "face image index", Attrs: []Attr{{"index", typeFaceIndex}}, Default: DefaultTo("index", "0")},
			{Key: "background", Desc: "window background", Attrs: []Attr{{"bg", typeWindowBG}}, Default: DefaultTo("bg", "window")},
			{Key: "position", Desc: "window position", Attrs: []Attr{{"pos", typeWindowPos}}, Default: DefaultTo("pos", "bottom")},
		},
		Emit: emitMessage,
	},
	"get":  itemCommand("get", "Increases the party's items, weapons or armors.", 0),
	"lose": itemCommand("lose", "Decreases the party's items, weapons or armors.", 1),
	"gold": {
		Name: "gold",
		Desc: "Changes the party's gold.",
		Groups: []AttrGroup{
			{
				Key:  "amount",
				Desc: "amount to gain or lose, constant or variable",
				Attrs: []Attr{
					{"gain", typeCount}, {"lose", typeCount},
					{"gain_var", typeVar}, {"lose_var", typeVar},
				},
			},
		},
		Emit: Leaf(codeGold,
			ByAttr("amount", map[string]Param{"gain": 0, "gain_var": 0, "lose": 1, "lose_var": 1}),
			ByAttr("amount", map[string]Param{"gain": 0, "lose": 0, "gain_var": 1, "lose_var": 1}),
			Ref("amount"),
		),
	},
	"heal": {
		Name: "heal",
		Desc: "Recovers HP, MP or TP of an actor.",
		Groups: []AttrGroup{
			{
				Key:   "actor",
				Desc:  "parameter to recover and target actor",
				Attrs: []Attr{{"hpof", typeActor}, {"mpof", typeActor}, {"tpof", typeActor}},
			},
			{
				Key:   "amount",
				Desc:  "amount, constant or variable",
				Attrs: []Attr{{"n", typeCount}, {"n_var", typeVar}},
			},
			{
				Key:     "revive",
				Desc:    "whether knocked out actors recover (hpof only)",
				Attrs:   []Attr{{"revive", typeBool}},
				Default: DefaultTo("revive", "false"),
			},
		},
		Emit: emitHeal,
	},
	"switch": {
		Name: "switch",
		Desc: "Turns a switch on or off.",
		Groups: []AttrGroup{
			{Key: "id", Desc: "switch ID", Attrs: []Attr{{"id", typeID}}},
			{Key: "value", Desc: "new state", Attrs: []Attr{{"to", typeOnOff}}},
		},
		Emit: Leaf(codeSwitch, Ref("id"), Ref("id"), Ref("value")),
	},
	"var": {
		Name: "var",
		Desc: "Operates on a variable with a constant.",
		Groups: []AttrGroup{
			{Key: "id", Desc: "variable ID", Attrs: []Attr{{"id", typeVar}}},
			{
				Key:  "op",
				Desc: "operation and operand",
				Attrs: []Attr{
					{"set", typeInt}, {"add", typeInt}, {"sub", typeInt},
					{"mul", typeInt}, {"div", typeInt}, {"mod", typeInt},
				},
			},
		},
		Emit: Leaf(codeVariable,
			Ref("id"), Ref("id"),
			ByAttr("op", map[string]Param{"set": 0, "add": 1, "sub": 2, "mul": 3, "div": 4, "mod": 5}),
			Const(0),
			Ref("op"),
		),
	},
	"weather": {
		Name: "weather",
		Desc: "Sets the weather effect.",
		Groups: []AttrGroup{
			{Key: "type", Desc: "weather type", Attrs: []Attr{{"type", typeWeather}}},
			{Key: "power", Desc: "strength", Attrs: []Attr{{"power", typePower}}, Default: DefaultTo("power", "5")},
			{Key: "time", Desc: "fade duration", Attrs: []Attr{{"time", typeTime}}, Default: DefaultTo("time", "60")},
			{Key: "wait", Desc: "wait for completion", Attrs: []Attr{{"wait", typeBool}}, Default: DefaultTo("wait", "false")},
		},
		Emit: Leaf(codeWeather, Ref("type"), Ref("power"), Ref("time"), Ref("wait")),
	},
	"call": {
		Name: "call",
		Desc: "Calls a common event.",
		Groups: []AttrGroup{
			{Key: "id", Desc: "common event ID", Attrs: []Attr{{"id", typeID}}},
		},
		Emit: Leaf(codeCommonEvent, Ref("id")),
	},
	"label": {
		Name: "label",
		Desc: "Defines a jump target.",
		Groups: []AttrGroup{
			{Key: "name", Desc: "label name", Attrs: []Attr{{"name", typeText}}},
		},
		Emit: Leaf(codeLabel, Ref("name")),
	},
	"jump": {
		Name: "jump",
		Desc: "Jumps to a label.",
		Groups: []AttrGroup{
			{Key: "label", Desc: "label name", Attrs: []Attr{{"to", typeText}}},
		},
		Emit: Leaf(codeJumpToLabel, Ref("label")),
	},
	"exit":    {Name: "exit", Desc: "Exits event processing.", Emit: Leaf(codeExit)},
	"fadeout": {Name: "fadeout", Desc: "Fades the screen out.", Emit: Leaf(codeFadeout)},
	"fadein":  {Name: "fadein", Desc: "Fades the screen in.", Emit: Leaf(codeFadein)},
	"if": {
		Name: "if",
		Desc: "Runs its content when a switch is in the given state; a trailing <else> runs otherwise.",
		Groups: []AttrGroup{
			{Key: "cond", Desc: "switch to test", Attrs: []Attr{{"switch", typeID}}},
			{Key: "is", Desc: "expected state", Attrs: []Attr{{"is", typeOnOff}}, Default: DefaultTo("is", "on")},
		},
		Emit: emitIf,
	},
	"loop": {
		Name: "loop",
		Desc: "Repeats its content until <break/>.",
		Emit: Scoped(codeLoop, nil, codeRepeatAbove),
	},
	"break": {Name: "break", Desc: "Breaks out of the innermost loop.", Emit: Leaf(codeBreakLoop)},
	"choice": {
		Name: "choice",
		Desc: "Shows choices; each <when text=\"...\"> child is one branch.",
		Groups: []AttrGroup{
			{Key: "cancel", Desc: "branch taken on cancel", Attrs: []Attr{{"cancel", typeCancel}}, Default: DefaultTo("cancel", "disallow")},
			{Key: "default", Desc: "initially selected branch", Attrs: []Attr{{"default", typeChoiceIndex}}, Default: DefaultTo("default", "0")},
			{Key: "position", Desc: "window position", Attrs: []Attr{{"pos", typeChoicePos}}, Default: DefaultTo("pos", "right")},
			{Key: "background", Desc: "window background", Attrs: []Attr{{"bg", typeWindowBG}}, Default: DefaultTo("bg", "window")},
		},
		Emit: emitChoice,
	},
}

// whenSchema validates the branches of a choice. It is not a command of
// its own.
var whenSchema = &Command{
	Name: "when",
	Desc: "One branch of a choice.",
	Groups: []AttrGroup{
		{Key: "text", Desc: "choice label", Attrs: []Attr{{"text", typeText}}},
	},
}

func itemCommand(name, desc string, op int) *Command {
	return &Command{
		Name: name,
		Desc: desc,
		Groups: []AttrGroup{
			{
				Key:   "target",
				Desc:  "kind and ID of the thing",
				Attrs: []Attr{{"item", typeID}, {"weapon", typeID}, {"armor", typeID}},
			},
			{
				Key:     "amount",
				Desc:    "how many, constant or variable",
				Attrs:   []Attr{{"n", typeCount}, {"n_var", typeVar}},
				Default: DefaultTo("n", "1"),
			},
		},
		Emit: func(c *Compiler, el *Element, args Args, depth int) error {
			code := map[string]int{"item": codeItems, "weapon": codeWeapons, "armor": codeArmors}[args.Attr("target")]
			params := []ParamSource{Ref("target"), Const(op), ByAttr("amount", operandType), Ref("amount")}
			if code != codeItems {
				params = append(params, Const(false)) // include equipment
			}
			return Leaf(code, params...)(c, el, args, depth)
		},
	}
}

func emitHeal(c *Compiler, el *Element, args Args, depth int) error {
	var code int
	switch args.Attr("actor") {
	case "hpof":
		code = codeChangeHP
	case "mpof":
		code = codeChangeMP
	default:
		code = codeChangeTP
	}

	params := []ParamSource{Const(0), Ref("actor"), Const(0), ByAttr("amount", operandType), Ref("amount")}
	if code == codeChangeHP {
		params = append(params, Ref("revive"))
	} else if !args["revive"].Defaulted {
		return &CompileError{
			Element: el.Name,
			Group:   "revive",
			Line:    el.Line,
			Err:     fmt.Errorf("%w: revive requires hpof", ErrInvalidValue),
		}
	}
	return Leaf(code, params...)(c, el, args, depth)
}

func emitIf(c *Compiler, el *Element, args Args, depth int) error {
	params, err := resolveParams(args, []ParamSource{Const(0), Ref("cond"), Ref("is")})
	if err != nil {
		return err
	}
	body, elseEl, err := splitElse(el)
	if err != nil {
		return err
	}

	c.Emit(codeIf, depth, params...)
	if err := c.CompileScope(body, el, depth+1); err != nil {
		return err
	}
	if elseEl != nil {
		if len(elseEl.Attrs) > 0 {
			c.Warnf("<else> at line %d: attributes are ignored", elseEl.Line)
		}
		c.Emit(codeElse, depth)
		if err := c.CompileScope(elseEl.Nodes, elseEl, depth+1); err != nil {
			return err
		}
	}
	c.Emit(codeEndIf, depth)
	return nil
}

// splitElse separates a trailing <else> from the rest of el's content.
func splitElse(el *Element) ([]Node, *Element, error) {
	var (
		body   []Node
		elseEl *Element
	)
	for _, n := range el.Nodes {
		child, isElem := n.(*Element)
		if isElem && child.Name == "else" {
			if elseEl != nil {
				return nil, nil, fmt.Errorf("%w: more than one <else> in <%s>", ErrInvalidContent, el.Name)
			}
			elseEl = child
			continue
		}
		if isElem && elseEl != nil {
			return nil, nil, fmt.Errorf("%w: <else> must be the last element of <%s>", ErrInvalidContent, el.Name)
		}
		body = append(body, n)
	}
	return body, elseEl, nil
}

func emitChoice(c *Compiler, el *Element, args Args, depth int) error {
	var (
		branches []*Element
		labels   []Param
	)
	for _, n := range el.Nodes {
		switch n := n.(type) {
		case Text:
			c.checkText(n, el.Name)
		case *Element:
			if n.Name != "when" {
				return fmt.Errorf("%w: expected <when> in <%s>, found <%s>", ErrInvalidContent, el.Name, n.Name)
			}
			wargs, err := c.Args(whenSchema, n)
			if err != nil {
				return err
			}
			label, err := wargs.Value("text", 0)
			if err != nil {
				return err
			}
			branches = append(branches, n)
			labels = append(labels, label)
		}
	}
	if len(branches) == 0 {
		return fmt.Errorf("%w: <%s> needs at least one <when>", ErrInvalidContent, el.Name)
	}
	for _, key := range []string{"cancel", "default"} {
		v, err := args.Value(key, 0)
		if err != nil {
			return err
		}
		if i, ok := v.(int); ok && i >= len(branches) {
			return &CompileError{
				Element: el.Name,
				Group:   key,
				Line:    el.Line,
				Err:     fmt.Errorf("%w: branch %d does not exist", ErrInvalidValue, i),
			}
		}
	}

	rest, err := resolveParams(args, []ParamSource{Ref("cancel"), Ref("default"), Ref("position"), Ref("background")})
	if err != nil {
		return err
	}
	c.Emit(codeShowChoices, depth, append([]Param{labels}, rest...)...)
	for i, b := range branches {
		c.Emit(codeWhen, depth, i, labels[i])
		if err := c.CompileScope(b.Nodes, b, depth+1); err != nil {
			return err
		}
	}
	c.Emit(codeEndChoice, depth)
	return nil
}
