package cdl

import (
	"fmt"
)

// SourceLocation is a zero-based line/column pair. For tokens it is the
// position just past the token's last character.
type SourceLocation struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

func (loc SourceLocation) String() string {
	return fmt.Sprintf("%d:%d", loc.Line+1, loc.Column+1)
}

// Token is a slice of the source text. Text shares storage with the source.
type Token struct {
	Text     string         `json:"text"`
	Location SourceLocation `json:"location"`
}

func (tok Token) String() string {
	return fmt.Sprintf("<%q %d:%d>", tok.Text, tok.Location.Line+1, tok.Location.Column+1)
}

// IsQuoted reports whether the token is a string literal.
func (tok Token) IsQuoted() bool {
	return len(tok.Text) >= 2 && tok.Text[0] == '"' && tok.Text[len(tok.Text)-1] == '"'
}

func isWhitespace(ch byte) bool {
	return ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r'
}

func isPunctuation(ch byte) bool {
	switch ch {
	case '{', '}', '(', ')', '*', ';', ',':
		return true
	}
	return false
}

type Scanner struct {
	src       string
	cursor    int
	wordStart int
	line      int
	column    int
	tokens    []Token
}

func NewScanner(src string) *Scanner {
	return &Scanner{src: src}
}

// Tokenize splits CDL source into word, punctuation and string tokens.
// Comments and whitespace are dropped.
func Tokenize(src string) []Token {
	return NewScanner(src).Scan()
}

func (s *Scanner) Scan() []Token {
	for s.cursor < len(s.src) {
		ch := s.src[s.cursor]
		switch {
		case isWhitespace(ch):
			s.stopWord()
			s.pop()
			s.wordStart = s.cursor
		case isPunctuation(ch):
			s.stopWord()
			s.pop()
			s.stopWord()
		case ch == '"':
			s.stopWord()
			s.pop()
			s.scanString()
		case ch == '/' && s.cursor+1 < len(s.src) && s.src[s.cursor+1] == '/':
			s.stopWord()
			s.skipComment()
		default:
			s.pop()
		}
	}
	s.stopWord()
	return s.tokens
}

func (s *Scanner) pop() {
	if s.src[s.cursor] == '\n' {
		s.line++
		s.column = 0
	} else {
		s.column++
	}
	s.cursor++
}

// stopWord emits the pending word, if any, located at the cursor.
func (s *Scanner) stopWord() {
	if s.cursor > s.wordStart {
		s.tokens = append(s.tokens, Token{
			Text:     s.src[s.wordStart:s.cursor],
			Location: SourceLocation{Line: s.line, Column: s.column},
		})
	}
	s.wordStart = s.cursor
}

// scanString runs to the closing quote. An unterminated string extends to
// the end of input.
func (s *Scanner) scanString() {
	for s.cursor < len(s.src) {
		ch := s.src[s.cursor]
		s.pop()
		if ch == '"' {
			break
		}
	}
	s.stopWord()
}

func (s *Scanner) skipComment() {
	for s.cursor < len(s.src) {
		ch := s.src[s.cursor]
		s.pop()
		if ch == '\n' {
			break
		}
	}
	s.wordStart = s.cursor
}
