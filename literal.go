package cdl

import (
	"encoding/json"
	"strings"
)

// Value is a literal attached to a variable or an attribute. Implementations
// are Number, Text, Range, Array, Sequence, Compound and List.
type Value interface {
	String() string
	isValue()
}

// Text is free text or the contents of a quoted string literal.
type Text string

// Range is a valid_range pair.
type Range struct {
	Start Number `json:"start"`
	End   Number `json:"end"`
}

// Array is a comma separated list of numbers.
type Array []Number

// Sequence is a brace-delimited list of numbers for vlen and array types.
type Sequence []Number

// Compound holds one value per field of a compound type, in field order.
type Compound []Value

// List is a comma separated list of non-numeric values.
type List []Value

func (Number) isValue()   {}
func (Text) isValue()     {}
func (Range) isValue()    {}
func (Array) isValue()    {}
func (Sequence) isValue() {}
func (Compound) isValue() {}
func (List) isValue()     {}

func (t Text) String() string {
	return string(t)
}

func (r Range) String() string {
	return "[" + r.Start.String() + ", " + r.End.String() + "]"
}

func (a Array) String() string {
	if len(a) == 0 {
		return "[ ]"
	}
	return "[" + joinNumbers(a) + "]"
}

func (s Sequence) String() string {
	return "{" + joinNumbers(s) + "}"
}

func (c Compound) String() string {
	return "{" + joinValues(c) + "}"
}

func (l List) String() string {
	return joinValues(l)
}

func (a Array) MarshalJSON() ([]byte, error) {
	return json.Marshal([]Number(a))
}

func (s Sequence) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string][]Number{"sequence": s})
}

func (c Compound) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string][]Value{"compound": c})
}

func joinNumbers(numbers []Number) string {
	parts := make([]string, 0, len(numbers))
	for _, n := range numbers {
		parts = append(parts, n.String())
	}
	return strings.Join(parts, ", ")
}

func joinValues(values []Value) string {
	parts := make([]string, 0, len(values))
	for _, v := range values {
		parts = append(parts, v.String())
	}
	return strings.Join(parts, ", ")
}
