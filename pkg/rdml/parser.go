// parser.go builds a node tree from the scanner's token stream.
package rdml

import (
	"errors"
	"fmt"
)

// Parse scans and parses src into a list of top-level nodes.
func Parse(src string) ([]Node, error) {
	tokens, err := Scan(src)
	if err != nil {
		return nil, err
	}
	return ParseTokens(src, tokens)
}

// ParseTokens parses a token list produced by Scan over src.
func ParseTokens(src string, tokens []Token) ([]Node, error) {
	if len(tokens) == 0 || tokens[len(tokens)-1].Type != TokenEOF {
		return nil, &ParseError{Line: 1, Err: fmt.Errorf("%w: token list not terminated", ErrUnexpectedEOF)}
	}
	p := &parser{src: src, tokens: tokens}
	return p.parseNodes("")
}

type parser struct {
	src    string
	tokens []Token
	pos    int
}

func (p *parser) tok() Token {
	return p.tokens[p.pos]
}

// next advances by one token. The cursor never moves past EOF.
func (p *parser) next() {
	if p.pos < len(p.tokens)-1 {
		p.pos++
	}
}

func (p *parser) lit(t Token) string {
	return t.Literal(p.src)
}

// expect consumes a token of the given type.
func (p *parser) expect(typ TokenType, element string) (Token, error) {
	t := p.tok()
	if t.Type != typ {
		return t, p.unexpected(t, element, typ.String())
	}
	p.next()
	return t, nil
}

func (p *parser) unexpected(t Token, element, want string) error {
	if t.Type == TokenEOF {
		return &ParseError{Element: element, Line: t.Line, Err: ErrUnexpectedEOF}
	}
	return &ParseError{
		Element: element,
		Line:    t.Line,
		Err:     fmt.Errorf("%w: expected %s, found %s %q", ErrUnexpectedToken, want, t.Type, p.lit(t)),
	}
}

// parseNodes collects nodes until the end tag named expected has been
// consumed, or until EOF at top level (expected == "").
func (p *parser) parseNodes(expected string) ([]Node, error) {
	nodes := []Node{}
	for {
		t := p.tok()
		switch t.Type {
		case TokenText:
			nodes = append(nodes, Text(DecodeText(p.lit(t))))
			p.next()

		case TokenTagOpen:
			el, err := p.parseElement()
			if err != nil {
				return nil, err
			}
			nodes = append(nodes, el)

		case TokenEndTagOpen:
			p.next()
			nameTok, err := p.expect(TokenElementName, expected)
			if err != nil {
				return nil, err
			}
			name := p.lit(nameTok)
			if name != expected {
				return nil, p.mismatch(expected, name, nameTok.Line)
			}
			if _, err := p.expect(TokenEndTagClose, expected); err != nil {
				return nil, err
			}
			return nodes, nil

		case TokenEOF:
			if expected != "" {
				return nil, &ParseError{
					Element: expected,
					Line:    t.Line,
					Err:     fmt.Errorf("%w: closing tag </%s> not found", ErrUnexpectedEOF, expected),
				}
			}
			return nodes, nil

		default:
			return nil, p.unexpected(t, expected, "text or tag")
		}
	}
}

func (p *parser) mismatch(open, close string, line int) error {
	if open == "" {
		return &ParseError{
			Line: line,
			Err:  fmt.Errorf("%w: unexpected closing tag </%s>", ErrMismatchedTag, close),
		}
	}
	return &ParseError{
		Element: open,
		Line:    line,
		Err:     fmt.Errorf("%w: open=<%s> close=</%s>", ErrMismatchedTag, open, close),
	}
}

func (p *parser) parseElement() (*Element, error) {
	open := p.tok()
	p.next() // '<'

	nameTok, err := p.expect(TokenElementName, "")
	if err != nil {
		return nil, err
	}
	el := &Element{
		Name:  p.lit(nameTok),
		Attrs: make(map[string]string),
		Line:  open.Line,
	}
	if el.Name == "" {
		return nil, &ParseError{Line: open.Line, Err: errors.New("missing element name")}
	}

	for {
		t := p.tok()
		switch t.Type {
		case TokenAttrName:
			key := p.lit(t)
			p.next()
			if _, err := p.expect(TokenEquals, el.Name); err != nil {
				return nil, err
			}
			v, err := p.expect(TokenValue, el.Name)
			if err != nil {
				return nil, err
			}
			el.Attrs[key] = DecodeValue(p.lit(v))

		case TokenTagClose:
			p.next()
			if el.IsVoid() {
				return el, nil
			}
			nodes, err := p.parseNodes(el.Name)
			if err != nil {
				return nil, err
			}
			el.Nodes = nodes
			return el, nil

		case TokenSelfClose:
			p.next()
			return el, nil

		default:
			return nil, p.unexpected(t, el.Name, "attribute or end of start tag")
		}
	}
}
