// tokens.go defines the token types produced by the scanner.
package rdml

import "fmt"

// TokenType represents the lexical class of a token.
type TokenType int

const (
	TokenInvalid     TokenType = iota // scan failed; carries the failing span
	TokenEOF                          // end of input
	TokenText                         // character data between tags
	TokenTagOpen                      // < of a start tag
	TokenElementName                  // name in a start or end tag
	TokenAttrName                     // attribute name
	TokenEquals                       // = between attribute name and value
	TokenValue                        // attribute value without delimiters
	TokenTagClose                     // > ending a start tag
	TokenSelfClose                    // /> ending a start tag
	TokenEndTagOpen                   // </
	TokenEndTagClose                  // > ending an end tag
)

var tokenTypeNames = map[TokenType]string{
	TokenInvalid:     "invalid",
	TokenEOF:         "eof",
	TokenText:        "text",
	TokenTagOpen:     "tag-open",
	TokenElementName: "element-name",
	TokenAttrName:    "attr-name",
	TokenEquals:      "equals",
	TokenValue:       "value",
	TokenTagClose:    "tag-close",
	TokenSelfClose:   "self-close",
	TokenEndTagOpen:  "end-tag-open",
	TokenEndTagClose: "end-tag-close",
}

func (t TokenType) String() string {
	if s, ok := tokenTypeNames[t]; ok {
		return s
	}
	return fmt.Sprintf("TokenType(%d)", int(t))
}

// Token is a classified span of the source text.
type Token struct {
	Type  TokenType
	Pos   int // byte offset where consumption of this token began
	Start int // byte offset of the literal
	End   int // byte offset just past the literal
	Line  int // 1-based line of Start
}

// Literal returns the token's literal text within src.
func (t Token) Literal(src string) string {
	return src[t.Start:t.End]
}

// Raw returns everything the scanner consumed for this token, including
// skipped whitespace and value delimiters that precede the literal.
func (t Token) Raw(src string) string {
	return src[t.Pos:t.End]
}
