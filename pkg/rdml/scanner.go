// scanner.go implements the finite-state tokenizer for RDML source text.
package rdml

import (
	"fmt"
	"unicode/utf8"
)

const eof rune = -1

// state identifies the next step of the scanner's driver loop.
type state int

const (
	stateDone state = iota
	stateText
	stateTag
	stateEndTagName
	stateEndTagClose
	stateStartTagName
	stateAttr
	stateValue
)

// Scan splits src into tokens. The returned list always ends with a
// TokenEOF token. On failure no tokens are returned.
func Scan(src string) ([]Token, error) {
	s := newScanner(src)
	s.run()
	if s.err != nil {
		return nil, s.err
	}
	return s.tokens, nil
}

type scanner struct {
	src       string
	r         rune // current rune, eof past the end
	offset    int  // byte offset of r
	width     int
	start     int // start of the pending literal
	startLine int
	last      int // end of the previously emitted token
	line      int
	tokens    []Token
	err       *ScanError
}

func newScanner(src string) *scanner {
	s := &scanner{src: src, line: 1, startLine: 1}
	s.decode()
	return s
}

func (s *scanner) run() {
	st := stateText
	for st != stateDone {
		st = s.step(st)
	}
}

func (s *scanner) step(st state) state {
	switch st {
	case stateText:
		return s.scanText()
	case stateTag:
		return s.scanTag()
	case stateEndTagName:
		return s.scanEndTagName()
	case stateEndTagClose:
		return s.scanEndTagClose()
	case stateStartTagName:
		return s.scanStartTagName()
	case stateAttr:
		return s.scanAttr()
	case stateValue:
		return s.scanValue()
	}
	return stateDone
}

func (s *scanner) decode() {
	if s.offset >= len(s.src) {
		s.r, s.width = eof, 0
		return
	}
	s.r, s.width = utf8.DecodeRuneInString(s.src[s.offset:])
}

// next consumes the current rune.
func (s *scanner) next() {
	if s.r == eof {
		return
	}
	if s.r == '\n' {
		s.line++
	}
	s.offset += s.width
	s.decode()
}

// ignore drops the pending literal.
func (s *scanner) ignore() {
	s.start = s.offset
	s.startLine = s.line
}

func (s *scanner) emit(typ TokenType) {
	s.tokens = append(s.tokens, Token{
		Type:  typ,
		Pos:   s.last,
		Start: s.start,
		End:   s.offset,
		Line:  s.startLine,
	})
	s.last = s.offset
	s.ignore()
}

func (s *scanner) fail(format string, args ...interface{}) state {
	s.emit(TokenInvalid)
	s.err = &ScanError{Line: s.line, Msg: fmt.Sprintf(format, args...)}
	return stateDone
}

func (s *scanner) skipSpaces() {
	for isSpace(s.r) {
		s.next()
		s.ignore()
	}
}

func isSpace(r rune) bool {
	switch r {
	case ' ', '　', '\r', '\n', '\t':
		return true
	}
	return false
}

func isNamespacer(r rune) bool {
	switch r {
	case '>', '/', '=':
		return true
	}
	return isSpace(r)
}

func (s *scanner) scanText() state {
	for s.r != eof {
		if s.r == '<' {
			if s.start < s.offset {
				s.emit(TokenText)
			}
			return stateTag
		}
		s.next()
	}
	if s.start < s.offset {
		s.emit(TokenText)
	}
	s.emit(TokenEOF)
	return stateDone
}

func (s *scanner) scanTag() state {
	s.next() // '<'
	if s.r == '/' {
		s.next()
		s.emit(TokenEndTagOpen)
		return stateEndTagName
	}
	s.emit(TokenTagOpen)
	return stateStartTagName
}

func (s *scanner) scanEndTagName() state {
	for s.r != eof {
		if isNamespacer(s.r) {
			s.emit(TokenElementName)
			return stateEndTagClose
		}
		s.next()
	}
	return s.fail("unclosed end tag")
}

func (s *scanner) scanEndTagClose() state {
	for s.r != eof {
		if s.r == '>' {
			s.next()
			s.emit(TokenEndTagClose)
			return stateText
		}
		if !isSpace(s.r) {
			return s.fail("expected '>'")
		}
		s.next()
		s.ignore()
	}
	return s.fail("unclosed end tag")
}

func (s *scanner) scanStartTagName() state {
	for s.r != eof {
		if isNamespacer(s.r) {
			s.emit(TokenElementName)
			return stateAttr
		}
		s.next()
	}
	return s.fail("unclosed start tag")
}

func (s *scanner) scanAttr() state {
	s.skipSpaces()
	switch s.r {
	case '/':
		s.next()
		if s.r == '>' {
			s.next()
			s.emit(TokenSelfClose)
			return stateText
		}
		return s.fail("expected '/>', found '/'")
	case '>':
		s.next()
		s.emit(TokenTagClose)
		return stateText
	case '\'', '"':
		return s.fail("unexpected %c", s.r)
	}

	for s.r != eof {
		if isNamespacer(s.r) {
			s.emit(TokenAttrName)
			s.skipSpaces()
			if s.r != '=' {
				return s.fail("expected '='")
			}
			s.next()
			s.emit(TokenEquals)
			s.skipSpaces()
			return stateValue
		}
		s.next()
	}
	return s.fail("unclosed start tag")
}

// scanValue takes the current rune as the delimiter, whatever it is.
func (s *scanner) scanValue() state {
	delim := s.r
	s.next()
	s.ignore()
	for s.r != eof {
		if s.r == delim {
			s.emit(TokenValue)
			s.next()
			s.ignore()
			return stateAttr
		}
		s.next()
	}
	return s.fail("unclosed value")
}
