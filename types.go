package cdl

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ElementaryType is one of the built-in CDL types.
type ElementaryType int

const (
	// Default marks a type that was never resolved.
	Default ElementaryType = iota
	Char
	Byte
	Ubyte
	Short
	Ushort
	Int
	Uint
	Long
	Int64
	Uint64
	Float
	Real
	Double
	String
)

var elementaryNames = map[ElementaryType]string{
	Char:   "char",
	Byte:   "byte",
	Ubyte:  "ubyte",
	Short:  "short",
	Ushort: "ushort",
	Int:    "int",
	Uint:   "uint",
	Long:   "long",
	Int64:  "int64",
	Uint64: "uint64",
	Float:  "float",
	Real:   "real",
	Double: "double",
	String: "string",
}

var elementaryTypes = map[string]ElementaryType{}

func init() {
	for t, name := range elementaryNames {
		elementaryTypes[name] = t
	}
}

// LookupElementaryType maps a CDL keyword like "ushort" to its type.
func LookupElementaryType(name string) (ElementaryType, bool) {
	t, ok := elementaryTypes[name]
	return t, ok
}

func (t ElementaryType) Name() string {
	if name, ok := elementaryNames[t]; ok {
		return name
	}
	return "default"
}

func (t ElementaryType) String() string {
	return t.Name()
}

// GoName is the name of the Go type that holds values of t.
func (t ElementaryType) GoName() string {
	switch t {
	case Char, Byte:
		return "int8"
	case Ubyte:
		return "uint8"
	case Short:
		return "int16"
	case Ushort:
		return "uint16"
	case Int, Long:
		return "int32"
	case Uint:
		return "uint32"
	case Int64:
		return "int64"
	case Uint64:
		return "uint64"
	case Float, Real:
		return "float32"
	case Double:
		return "float64"
	case String:
		return "string"
	}
	return ""
}

func (t ElementaryType) IsNumeric() bool {
	return t != Default && t != String
}

func (t ElementaryType) IsInteger() bool {
	return t.IsNumeric() && !t.IsFloat()
}

func (t ElementaryType) IsFloat() bool {
	return t == Float || t == Real || t == Double
}

func (t ElementaryType) IsUnsigned() bool {
	switch t {
	case Ubyte, Ushort, Uint, Uint64:
		return true
	}
	return false
}

// Bits is the storage width of integer and float types, 0 for the rest.
func (t ElementaryType) Bits() int {
	switch t {
	case Char, Byte, Ubyte:
		return 8
	case Short, Ushort:
		return 16
	case Int, Long, Uint, Float, Real:
		return 32
	case Int64, Uint64, Double:
		return 64
	}
	return 0
}

func (t ElementaryType) MarshalText() ([]byte, error) {
	return []byte(t.Name()), nil
}

func (t *ElementaryType) UnmarshalText(text []byte) error {
	et, ok := LookupElementaryType(string(text))
	if !ok {
		return fmt.Errorf("unknown elementary type %q", text)
	}
	*t = et
	return nil
}

// ComplexType is a user-declared type. The set of implementations is closed:
// *OpaqueType, *EnumType, *VLenType, *ArrayType and *CompoundType.
type ComplexType interface {
	TypeName() string
	Description() string
	complexType()
}

type OpaqueType struct {
	Name   string `json:"name"`
	Length int    `json:"length"`
}

type EnumValue struct {
	Name  string `json:"name"`
	Value int64  `json:"value"`
}

type EnumType struct {
	Name   string         `json:"name"`
	Base   ElementaryType `json:"base"`
	Values []EnumValue    `json:"values"`
}

type VLenType struct {
	Name string         `json:"name"`
	Base ElementaryType `json:"base"`
}

type ArrayType struct {
	Name       string         `json:"name"`
	Base       ElementaryType `json:"base"`
	Dimensions []Dimension    `json:"dimensions"`
}

type CompoundField struct {
	Name string      `json:"name"`
	Type ComplexType `json:"type"`
}

type CompoundType struct {
	Name   string          `json:"name"`
	Fields []CompoundField `json:"fields"`
}

func (*OpaqueType) complexType()   {}
func (*EnumType) complexType()     {}
func (*VLenType) complexType()     {}
func (*ArrayType) complexType()    {}
func (*CompoundType) complexType() {}

func (t *OpaqueType) TypeName() string   { return t.Name }
func (t *EnumType) TypeName() string     { return t.Name }
func (t *VLenType) TypeName() string     { return t.Name }
func (t *ArrayType) TypeName() string    { return t.Name }
func (t *CompoundType) TypeName() string { return t.Name }

func (t *OpaqueType) Description() string {
	return fmt.Sprintf("OpaqueType opaque(%d) %s", t.Length, t.Name)
}

func (t *EnumType) Description() string {
	values := make([]string, 0, len(t.Values))
	for _, v := range t.Values {
		values = append(values, fmt.Sprintf("%s = %d", v.Name, v.Value))
	}
	return fmt.Sprintf("EnumType %s %s: [ %s ]", t.Name, t.Base, strings.Join(values, ", "))
}

// Lookup returns the enumerator with the given name.
func (t *EnumType) Lookup(name string) (EnumValue, bool) {
	for _, v := range t.Values {
		if v.Name == name {
			return v, true
		}
	}
	return EnumValue{}, false
}

func (t *VLenType) Description() string {
	return fmt.Sprintf("VLenType %s %s(*)", t.Name, t.Base)
}

func (t *ArrayType) Description() string {
	return fmt.Sprintf("ArrayType %s %s(%s)", t.Name, t.Base, t.shape())
}

func (t *ArrayType) shape() string {
	dims := make([]string, 0, len(t.Dimensions))
	for _, d := range t.Dimensions {
		if d.Name != "" {
			dims = append(dims, d.Name)
		} else {
			dims = append(dims, fmt.Sprint(d.Length))
		}
	}
	return strings.Join(dims, ", ")
}

// Shape lists the extents of each dimension.
func (t *ArrayType) Shape() []int {
	shape := make([]int, 0, len(t.Dimensions))
	for _, d := range t.Dimensions {
		shape = append(shape, d.Length)
	}
	return shape
}

func (t *CompoundType) Description() string {
	fields := make([]string, 0, len(t.Fields))
	for _, f := range t.Fields {
		fields = append(fields, fmt.Sprintf("%s %s;", f.Type.TypeName(), f.Name))
	}
	return fmt.Sprintf("CompoundType %s { %s }", t.Name, strings.Join(fields, " "))
}

func (t *OpaqueType) MarshalJSON() ([]byte, error) {
	type opaque OpaqueType
	return json.Marshal(struct {
		Kind string `json:"kind"`
		*opaque
	}{"opaque", (*opaque)(t)})
}

func (t *EnumType) MarshalJSON() ([]byte, error) {
	type enum EnumType
	return json.Marshal(struct {
		Kind string `json:"kind"`
		*enum
	}{"enum", (*enum)(t)})
}

func (t *VLenType) MarshalJSON() ([]byte, error) {
	type vlen VLenType
	return json.Marshal(struct {
		Kind string `json:"kind"`
		*vlen
	}{"vlen", (*vlen)(t)})
}

func (t *ArrayType) MarshalJSON() ([]byte, error) {
	type array ArrayType
	return json.Marshal(struct {
		Kind string `json:"kind"`
		*array
	}{"array", (*array)(t)})
}

func (t *CompoundType) MarshalJSON() ([]byte, error) {
	type compound CompoundType
	return json.Marshal(struct {
		Kind string `json:"kind"`
		*compound
	}{"compound", (*compound)(t)})
}

// MarshalJSON writes the field type by name; the declaration is listed with
// the group's types.
func (f CompoundField) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Name string `json:"name"`
		Type string `json:"type"`
	}{f.Name, f.Type.TypeName()})
}

// SchemaType is either an ElementaryType or a ComplexType. The zero value is
// the unresolved Default type.
type SchemaType struct {
	elementary ElementaryType
	complex    ComplexType
}

func Elementary(t ElementaryType) SchemaType {
	return SchemaType{elementary: t}
}

func Complex(t ComplexType) SchemaType {
	return SchemaType{complex: t}
}

func (t SchemaType) IsElementary() bool {
	return t.complex == nil
}

func (t SchemaType) IsValid() bool {
	return t.complex != nil || t.elementary != Default
}

// Elementary returns the elementary type, if that is what t holds.
func (t SchemaType) Elementary() (ElementaryType, bool) {
	return t.elementary, t.complex == nil
}

// Complex returns the user-declared type, if that is what t holds.
func (t SchemaType) Complex() (ComplexType, bool) {
	return t.complex, t.complex != nil
}

func (t SchemaType) Name() string {
	if t.complex != nil {
		return t.complex.TypeName()
	}
	return t.elementary.Name()
}

func (t SchemaType) String() string {
	return t.Name()
}

func (t SchemaType) MarshalJSON() ([]byte, error) {
	if t.complex != nil {
		return json.Marshal(map[string]string{"complex": t.complex.TypeName()})
	}
	return json.Marshal(map[string]string{"elementary": t.elementary.Name()})
}
