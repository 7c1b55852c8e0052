package cdl

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
)

type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
)

func (s Severity) String() string {
	if s == SeverityWarning {
		return "warning"
	}
	return "error"
}

func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Diagnostic is a problem found while parsing. Location is the end of the
// offending token and Length its width, so the token spans
// [Column-Length, Column) on its line.
type Diagnostic struct {
	Severity   Severity       `json:"severity"`
	Location   SourceLocation `json:"location"`
	Length     int            `json:"length,omitempty"`
	Message    string         `json:"message"`
	Suggestion string         `json:"suggestion,omitempty"`
}

func (d *Diagnostic) Error() string {
	msg := fmt.Sprintf("%s: %s", d.Location, d.Message)
	if d.Suggestion != "" {
		msg += fmt.Sprintf(" (did you mean %q?)", d.Suggestion)
	}
	return msg
}

// Annotate renders the diagnostic with up to contextLines lines of source on
// either side and the offending token highlighted.
func (d *Diagnostic) Annotate(filename string, source string, contextLines int) string {
	highlight := color.New(color.FgRed, color.Bold)
	if d.Severity == SeverityWarning {
		highlight = color.New(color.FgYellow, color.Bold)
	}
	prefix := d.Location.String()
	if filename != "" {
		prefix = filename + ":" + prefix
	}
	header := fmt.Sprintf("%s: %s: %s", prefix, d.Severity, highlight.Sprint(d.Message))
	if d.Suggestion != "" {
		header += fmt.Sprintf(" (did you mean %q?)", d.Suggestion)
	}
	if source == "" || contextLines < 0 {
		return header
	}
	lines := strings.Split(source, "\n")
	line := d.Location.Line
	begin := max(0, line-contextLines)
	end := min(len(lines), line+contextLines+1)
	var buf strings.Builder
	buf.WriteString(header)
	buf.WriteString("\n")
	for i := begin; i < end; i++ {
		l := lines[i]
		if i == line {
			stop := min(d.Location.Column, len(l))
			start := max(0, stop-d.Length)
			fmt.Fprintf(&buf, "%3d\t%s%s%s\n", i+1, l[:start], highlight.Sprint(l[start:stop]), l[stop:])
		} else {
			fmt.Fprintf(&buf, "%3d\t%s\n", i+1, l)
		}
	}
	return buf.String()
}

// ParseError is returned when no document could be produced.
type ParseError struct {
	Filename    string
	Diagnostics []*Diagnostic
}

func (e *ParseError) Error() string {
	var msgs []string
	for _, d := range e.Diagnostics {
		if d.Severity == SeverityError {
			msgs = append(msgs, d.Error())
		}
	}
	if len(msgs) == 0 {
		msgs = append(msgs, "no document")
	}
	prefix := "cdl: "
	if e.Filename != "" {
		prefix = e.Filename + ": "
	}
	return prefix + strings.Join(msgs, "; ")
}
