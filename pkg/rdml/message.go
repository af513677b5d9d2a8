// message.go compiles elements whose text content becomes parameters.
package rdml

import (
	"fmt"
	"regexp"
	"strings"
)

const (
	codeMessage     = 101
	codeMessageLine = 401
	codeComment     = 108
	codeCommentLine = 408

	// maxMessageLines is the number of lines a message window can show.
	maxMessageLines = 4
)

var lineBreak = regexp.MustCompile(`\r\n|\r|\n`)

// contentLines returns el's text split into lines. A <br> child is a line
// break; any other child element is rejected.
func contentLines(el *Element) ([]string, error) {
	var sb strings.Builder
	for _, n := range el.Nodes {
		switch n := n.(type) {
		case Text:
			sb.WriteString(string(n))
		case *Element:
			if !n.IsVoid() {
				return nil, fmt.Errorf("%w: <%s> is not allowed in <%s>", ErrInvalidContent, n.Name, el.Name)
			}
			sb.WriteString("\n")
		}
	}
	return lineBreak.Split(sb.String(), -1), nil
}

// emitMessage writes one message window per run of non-blank lines, split
// further so that no window exceeds maxMessageLines.
func emitMessage(c *Compiler, el *Element, args Args, depth int) error {
	header, err := resolveParams(args, []ParamSource{
		Ref("face"), Ref("index"), Ref("background"), Ref("position"),
	})
	if err != nil {
		return err
	}

	lines, err := contentLines(el)
	if err != nil {
		return err
	}

	inWindow := 0
	for _, line := range lines {
		t := strings.TrimFunc(line, isSpace)
		if t == "" {
			inWindow = 0
			continue
		}
		if inWindow == 0 || inWindow == maxMessageLines {
			c.Emit(codeMessage, depth, header...)
			inWindow = 0
		}
		c.Emit(codeMessageLine, depth, t)
		inWindow++
	}
	return nil
}

// emitComment writes the first line as a comment and the rest as
// continuation lines. Leading and trailing blank lines are dropped.
func emitComment(c *Compiler, el *Element, _ Args, depth int) error {
	lines, err := contentLines(el)
	if err != nil {
		return err
	}
	for i := range lines {
		lines[i] = strings.TrimFunc(lines[i], isSpace)
	}
	for len(lines) > 0 && lines[0] == "" {
		lines = lines[1:]
	}
	for len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	if len(lines) == 0 {
		c.Emit(codeComment, depth, "")
		return nil
	}

	c.Emit(codeComment, depth, lines[0])
	for _, line := range lines[1:] {
		c.Emit(codeCommentLine, depth, line)
	}
	return nil
}
