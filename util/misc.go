package util

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ghodss/yaml"
)

func Capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[0:1]) + s[1:]
}

// characters that may not appear in a CDL name
const forbiddenNameChars = "!\"#$%&()*,:;<=>?[]^`´{}|~\\"

func IsNameChar(ch rune) bool {
	return ch > ' ' && !strings.ContainsRune(forbiddenNameChars, ch)
}

func IsValidName(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if !IsNameChar(c) {
			return false
		}
	}
	return true
}

func IsDigit(ch rune) bool {
	return ch >= '0' && ch <= '9'
}

func IsLetter(ch rune) bool {
	return (ch >= 'A' && ch <= 'Z') || (ch >= 'a' && ch <= 'z')
}

// Identifier rewrites a name so it is a valid [_A-Za-z][_0-9A-Za-z]* symbol.
func Identifier(s string) string {
	var buf strings.Builder
	for i, c := range s {
		switch {
		case IsLetter(c) || c == '_':
			buf.WriteRune(c)
		case IsDigit(c):
			if i == 0 {
				buf.WriteRune('_')
			}
			buf.WriteRune(c)
		default:
			buf.WriteRune('_')
		}
	}
	if buf.Len() == 0 {
		return "_"
	}
	return buf.String()
}

// SplitPath splits "/a/b/c" into its non-empty segments.
func SplitPath(path string) []string {
	var segments []string
	for _, s := range strings.Split(path, "/") {
		if s != "" {
			segments = append(segments, s)
		}
	}
	return segments
}

// SplitAt splits s at the first occurrence of sep. ok is false if sep is missing.
func SplitAt(s string, sep byte) (head, tail string, ok bool) {
	n := strings.IndexByte(s, sep)
	if n < 0 {
		return s, "", false
	}
	return s[:n], s[n+1:], true
}

func Pretty(obj interface{}) string {
	buf := new(bytes.Buffer)
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(&obj); err != nil {
		return fmt.Sprint(obj)
	}
	return buf.String()
}

func ToYAML(obj interface{}) (string, error) {
	b, err := yaml.Marshal(obj)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func BaseFileName(path string) string {
	fname := filepath.Base(path)
	n := strings.LastIndex(fname, ".")
	if n < 1 {
		return fname
	}
	return fname[:n]
}
