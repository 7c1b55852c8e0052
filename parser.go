package cdl

import (
	"fmt"
	"log/slog"
	"os"
)

// Options tune a single parse.
type Options struct {
	Numbers NumberMode
	// Logger receives debug traces and hard failures. Nil discards them.
	Logger *slog.Logger
}

// ParseFile parses a CDL file. Any hard failure, even one the parser could
// recover from, is reported as a *ParseError.
func ParseFile(path string, opts Options) (*RootGroup, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	p := NewParser(string(b), opts)
	p.path = path
	return p.parseStrict()
}

// ParseString parses CDL source. Any hard failure is reported as a *ParseError.
func ParseString(src string, opts Options) (*RootGroup, error) {
	return NewParser(src, opts).parseStrict()
}

// ParseWithDiagnostics returns the best-effort document along with every
// diagnostic. The document is nil only when the root itself failed to parse.
func ParseWithDiagnostics(src string, opts Options) (*RootGroup, []*Diagnostic) {
	p := NewParser(src, opts)
	root, _ := p.Parse()
	return root, p.Diagnostics()
}

// Parser turns one CDL document into a RootGroup. It is not reusable.
type Parser struct {
	path        string
	source      string
	options     Options
	logger      *slog.Logger
	tokens      []Token
	cursor      int
	scopes      []*Group
	pending     []ComplexType
	section     *VariableSection
	diagnostics []*Diagnostic
}

func NewParser(src string, opts Options) *Parser {
	logger := opts.Logger
	if logger == nil {
		logger = discardLogger()
	}
	return &Parser{
		source:  src,
		options: opts,
		logger:  logger,
	}
}

func (p *Parser) Source() string {
	return p.source
}

func (p *Parser) Diagnostics() []*Diagnostic {
	return p.diagnostics
}

// HasErrors reports whether any hard failure was recorded.
func (p *Parser) HasErrors() bool {
	for _, d := range p.diagnostics {
		if d.Severity == SeverityError {
			return true
		}
	}
	return false
}

// Parse returns the document, or a *ParseError if the root production failed.
// Failures inside sections are recorded as diagnostics and do not stop the
// parse.
func (p *Parser) Parse() (*RootGroup, error) {
	p.tokens = Tokenize(p.source)
	p.cursor = 0
	p.logger.Debug("tokenized", "path", p.path, "tokens", len(p.tokens))
	root, err := p.parseRoot()
	if err != nil {
		return nil, &ParseError{Filename: p.path, Diagnostics: p.diagnostics}
	}
	if tok, ok := p.peek(); ok {
		p.warnAt(tok, "ignoring %q and anything after it, past the end of group %q", tok.Text, root.Group.Name)
	}
	return root, nil
}

func (p *Parser) parseStrict() (*RootGroup, error) {
	root, err := p.Parse()
	if err != nil {
		return nil, err
	}
	if p.HasErrors() {
		return nil, &ParseError{Filename: p.path, Diagnostics: p.diagnostics}
	}
	return root, nil
}

func (p *Parser) parseRoot() (*RootGroup, error) {
	tok, ok := p.pop()
	if !ok {
		return nil, p.errorAtEnd("empty input, expected %q", "netcdf")
	}
	if tok.Text != "netcdf" {
		return nil, p.errorAt(tok, "expected %q, found %q", "netcdf", tok.Text)
	}
	group, err := p.parseGroup()
	if err != nil {
		return nil, err
	}
	return &RootGroup{Group: group}, nil
}

func (p *Parser) peek() (Token, bool) {
	if p.cursor >= len(p.tokens) {
		return Token{}, false
	}
	return p.tokens[p.cursor], true
}

// peekAt looks n tokens past the next one without consuming anything.
func (p *Parser) peekAt(n int) Token {
	if p.cursor+n >= len(p.tokens) {
		return Token{}
	}
	return p.tokens[p.cursor+n]
}

func (p *Parser) peekText() string {
	tok, _ := p.peek()
	return tok.Text
}

func (p *Parser) pop() (Token, bool) {
	tok, ok := p.peek()
	if ok {
		p.cursor++
	}
	return tok, ok
}

// accept consumes the next token only if it is one of texts.
func (p *Parser) accept(texts ...string) (Token, bool) {
	tok, ok := p.peek()
	if !ok {
		return tok, false
	}
	for _, t := range texts {
		if tok.Text == t {
			p.cursor++
			return tok, true
		}
	}
	return tok, false
}

// expect is accept with a hard failure on mismatch.
func (p *Parser) expect(context string, texts ...string) (Token, error) {
	tok, ok := p.accept(texts...)
	if ok {
		return tok, nil
	}
	want := fmt.Sprintf("%q", texts[0])
	for _, t := range texts[1:] {
		want += fmt.Sprintf(" or %q", t)
	}
	if _, more := p.peek(); !more {
		return tok, p.errorAtEnd("expected %s %s, found end of input", want, context)
	}
	return tok, p.errorAt(tok, "expected %s %s, found %q", want, context, tok.Text)
}

func (p *Parser) expectName(context string) (Token, error) {
	tok, ok := p.pop()
	if !ok {
		return tok, p.errorAtEnd("expected %s, found end of input", context)
	}
	if !isName(tok.Text) {
		return tok, p.errorAt(tok, "expected %s, found %q", context, tok.Text)
	}
	return tok, nil
}

// atSectionEnd reports whether the next token ends the current section.
func (p *Parser) atSectionEnd() bool {
	tok, ok := p.peek()
	return !ok || tok.Text == "}" || IsSectionKeyword(tok.Text)
}

// recover skips to the next section keyword or the closing brace of the
// enclosing group. Braces opened since mark, the cursor where the failed
// section started, are closed first. A '}' consumed since mark that closes
// the enclosing group is put back.
func (p *Parser) recover(mark int) {
	depth := 0
	for i := mark; i < p.cursor; i++ {
		switch p.tokens[i].Text {
		case "{":
			depth++
		case "}":
			if depth == 0 {
				p.cursor = i
				return
			}
			depth--
		}
	}
	for {
		tok, ok := p.peek()
		if !ok {
			return
		}
		switch {
		case tok.Text == "{":
			depth++
		case tok.Text == "}":
			if depth == 0 {
				return
			}
			depth--
		case depth == 0 && IsSectionKeyword(tok.Text):
			return
		}
		p.cursor++
	}
}

func (p *Parser) lastToken() Token {
	if len(p.tokens) == 0 {
		return Token{}
	}
	return p.tokens[len(p.tokens)-1]
}

func (p *Parser) report(severity Severity, tok Token, suggestion string, msg string) *Diagnostic {
	d := &Diagnostic{
		Severity:   severity,
		Location:   tok.Location,
		Length:     len(tok.Text),
		Message:    msg,
		Suggestion: suggestion,
	}
	p.diagnostics = append(p.diagnostics, d)
	if severity == SeverityError {
		p.logger.Warn(msg, "path", p.path, "location", tok.Location.String())
	} else {
		p.logger.Info(msg, "path", p.path, "location", tok.Location.String())
	}
	return d
}

func (p *Parser) errorAt(tok Token, format string, args ...any) error {
	return p.report(SeverityError, tok, "", fmt.Sprintf(format, args...))
}

func (p *Parser) errorAtEnd(format string, args ...any) error {
	return p.report(SeverityError, p.lastToken(), "", fmt.Sprintf(format, args...))
}

// suggestAt is errorAt with a "did you mean" drawn from candidates.
func (p *Parser) suggestAt(tok Token, name string, candidates []string, format string, args ...any) error {
	return p.report(SeverityError, tok, suggest(name, candidates), fmt.Sprintf(format, args...))
}

func (p *Parser) warnAt(tok Token, format string, args ...any) {
	p.report(SeverityWarning, tok, "", fmt.Sprintf(format, args...))
}
