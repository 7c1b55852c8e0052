package cdl

import (
	"fmt"
	"strconv"
	"strings"
)

// NumberMode controls how loose literals are treated: trailing text after a
// numeric literal, and unquoted words given as string data.
type NumberMode int

const (
	// Permissive converts the longest numeric prefix and ignores the rest.
	Permissive NumberMode = iota
	// Warn converts like Permissive and reports a warning for leftovers and
	// unquoted strings.
	Warn
	// Strict rejects leftovers other than CDL type suffixes like "b" or "UL",
	// and string data that is not quoted.
	Strict
)

func (m NumberMode) String() string {
	switch m {
	case Warn:
		return "warn"
	case Strict:
		return "strict"
	}
	return "permissive"
}

func ParseNumberMode(s string) (NumberMode, error) {
	switch s {
	case "", "permissive":
		return Permissive, nil
	case "warn":
		return Warn, nil
	case "strict":
		return Strict, nil
	}
	return Permissive, fmt.Errorf("unknown number mode %q", s)
}

var typeSuffixes = map[string]bool{
	"b": true, "s": true, "l": true, "ll": true,
	"u": true, "ub": true, "us": true, "ul": true, "ull": true,
	"f": true, "d": true,
}

// IsTypeSuffix reports whether rest is a CDL literal suffix such as "UB".
func IsTypeSuffix(rest string) bool {
	return typeSuffixes[strings.ToLower(rest)]
}

// Number is a numeric literal stored in the representation of its
// elementary type.
type Number struct {
	Type ElementaryType
	i    int64
	u    uint64
	f    float64
}

func IntNumber(t ElementaryType, v int64) Number {
	return Number{Type: t, i: v}
}

func UintNumber(t ElementaryType, v uint64) Number {
	return Number{Type: t, u: v}
}

// IntegerNumber stores v in the representation t uses, signed or unsigned.
func IntegerNumber(t ElementaryType, v int64) Number {
	if t.IsUnsigned() {
		return UintNumber(t, uint64(v))
	}
	if t.IsFloat() {
		return FloatNumber(t, float64(v))
	}
	return IntNumber(t, v)
}

func FloatNumber(t ElementaryType, v float64) Number {
	if t.Bits() == 32 {
		v = float64(float32(v))
	}
	return Number{Type: t, f: v}
}

// Value returns the number as the Go type named by Type.GoName.
func (n Number) Value() any {
	switch n.Type {
	case Char, Byte:
		return int8(n.i)
	case Ubyte:
		return uint8(n.u)
	case Short:
		return int16(n.i)
	case Ushort:
		return uint16(n.u)
	case Int, Long:
		return int32(n.i)
	case Uint:
		return uint32(n.u)
	case Int64:
		return n.i
	case Uint64:
		return n.u
	case Float, Real:
		return float32(n.f)
	case Double:
		return n.f
	}
	return nil
}

func (n Number) Int64() int64 {
	switch {
	case n.Type.IsFloat():
		return int64(n.f)
	case n.Type.IsUnsigned():
		return int64(n.u)
	}
	return n.i
}

func (n Number) Float64() float64 {
	switch {
	case n.Type.IsFloat():
		return n.f
	case n.Type.IsUnsigned():
		return float64(n.u)
	}
	return float64(n.i)
}

func (n Number) Equal(other Number) bool {
	return n.Type == other.Type && n.i == other.i && n.u == other.u && n.f == other.f
}

func (n Number) String() string {
	switch {
	case n.Type.IsFloat():
		return strconv.FormatFloat(n.f, 'g', -1, n.Type.Bits())
	case n.Type.IsUnsigned():
		return strconv.FormatUint(n.u, 10)
	}
	return strconv.FormatInt(n.i, 10)
}

func (n Number) MarshalJSON() ([]byte, error) {
	return []byte(n.String()), nil
}

// ParseNumber converts the longest numeric prefix of text to a value of
// type t and returns whatever text follows it.
func ParseNumber(text string, t ElementaryType) (Number, string, error) {
	if !t.IsNumeric() {
		return Number{}, text, fmt.Errorf("%s is not a numeric type", t)
	}
	if t.IsFloat() {
		prefix := floatPrefix(text)
		if prefix == "" {
			return Number{}, text, fmt.Errorf("not a number: %q", text)
		}
		v, err := strconv.ParseFloat(prefix, t.Bits())
		if err != nil {
			return Number{}, text, fmt.Errorf("cannot convert %q to %s: %v", text, t, unwrapNumError(err))
		}
		return FloatNumber(t, v), text[len(prefix):], nil
	}
	prefix := integerPrefix(text)
	if prefix == "" {
		return Number{}, text, fmt.Errorf("not a number: %q", text)
	}
	if t.IsUnsigned() {
		if prefix[0] == '-' {
			return Number{}, text, fmt.Errorf("cannot convert %q to %s: negative value", text, t)
		}
		v, err := strconv.ParseUint(strings.TrimPrefix(prefix, "+"), 10, t.Bits())
		if err != nil {
			return Number{}, text, fmt.Errorf("cannot convert %q to %s: %v", text, t, unwrapNumError(err))
		}
		return UintNumber(t, v), text[len(prefix):], nil
	}
	v, err := strconv.ParseInt(prefix, 10, t.Bits())
	if err != nil {
		return Number{}, text, fmt.Errorf("cannot convert %q to %s: %v", text, t, unwrapNumError(err))
	}
	return IntNumber(t, v), text[len(prefix):], nil
}

func unwrapNumError(err error) error {
	if ne, ok := err.(*strconv.NumError); ok {
		return ne.Err
	}
	return err
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func digits(s string, i int) int {
	for i < len(s) && isDigit(s[i]) {
		i++
	}
	return i
}

func integerPrefix(s string) string {
	i := 0
	if i < len(s) && (s[i] == '-' || s[i] == '+') {
		i++
	}
	end := digits(s, i)
	if end == i {
		return ""
	}
	return s[:end]
}

func floatPrefix(s string) string {
	i := 0
	if i < len(s) && (s[i] == '-' || s[i] == '+') {
		i++
	}
	lower := strings.ToLower(s[i:])
	for _, special := range []string{"infinity", "inf", "nan"} {
		if strings.HasPrefix(lower, special) {
			return s[:i+len(special)]
		}
	}
	mantissa := digits(s, i)
	end := mantissa
	if end < len(s) && s[end] == '.' {
		end = digits(s, end+1)
	}
	if end == i || (end == i+1 && s[i] == '.') {
		return ""
	}
	if end < len(s) && (s[end] == 'e' || s[end] == 'E') {
		j := end + 1
		if j < len(s) && (s[j] == '-' || s[j] == '+') {
			j++
		}
		if k := digits(s, j); k > j {
			end = k
		}
	}
	return s[:end]
}
