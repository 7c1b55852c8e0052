package cdl

import (
	"fmt"
	"strings"
)

// Section keywords. A section keyword ends whatever section precedes it.
const (
	KeywordDimensions = "dimensions:"
	KeywordTypes      = "types:"
	KeywordVariables  = "variables:"
	KeywordData       = "data:"
	KeywordGroup      = "group:"
)

var sectionKeywords = map[string]bool{
	KeywordDimensions: true,
	KeywordTypes:      true,
	KeywordVariables:  true,
	KeywordData:       true,
	KeywordGroup:      true,
}

func IsSectionKeyword(s string) bool {
	return sectionKeywords[s]
}

// Dimension is a named extent. A Length of 0 means unlimited.
type Dimension struct {
	Name   string `json:"name,omitempty"`
	Length int    `json:"length"`
}

func (d Dimension) IsUnlimited() bool {
	return d.Length == 0
}

func (d Dimension) String() string {
	if d.IsUnlimited() {
		return d.Name + " = UNLIMITED"
	}
	return fmt.Sprintf("%s = %d", d.Name, d.Length)
}

// VariableDimension names a dimension used by a variable. It is not bound to
// a Dimension at parse time; see Group.ResolveDimension.
type VariableDimension struct {
	Name string `json:"name"`
}

type Variable struct {
	Name       string              `json:"name"`
	Type       SchemaType          `json:"type"`
	Dimensions []VariableDimension `json:"dimensions,omitempty"`
	Value      Value               `json:"value,omitempty"`
}

// BasicType is the variable's type as an elementary type, or Default when it
// has a user-declared type.
func (v *Variable) BasicType() ElementaryType {
	if t, ok := v.Type.Elementary(); ok {
		return t
	}
	return Default
}

func (v *Variable) IsScalar() bool {
	return len(v.Dimensions) == 0
}

func (v *Variable) DimensionNames() []string {
	names := make([]string, 0, len(v.Dimensions))
	for _, d := range v.Dimensions {
		names = append(names, d.Name)
	}
	return names
}

func (v *Variable) String() string {
	s := v.Type.Name() + " " + v.Name
	if len(v.Dimensions) > 0 {
		s += "(" + strings.Join(v.DimensionNames(), ", ") + ")"
	}
	return s
}

// Attribute is a name/value pair owned by a variable, or by the group when
// Variable is empty.
type Attribute struct {
	Variable string      `json:"variable,omitempty"`
	Name     string      `json:"name"`
	Type     *SchemaType `json:"type,omitempty"`
	Value    Value       `json:"value,omitempty"`
}

func (a *Attribute) IsGlobal() bool {
	return a.Variable == ""
}

// FullName is the attribute name as written, "var:name" or ":name".
func (a *Attribute) FullName() string {
	return a.Variable + ":" + a.Name
}

func (a *Attribute) String() string {
	if a.Value == nil {
		return ""
	}
	return a.Value.String()
}

type DimensionSection struct {
	Dimensions []Dimension `json:"dimensions"`
}

type VariableSection struct {
	Variables  []*Variable  `json:"variables"`
	Attributes []*Attribute `json:"attributes"`
}

// Group is a named scope. Nil sections were absent from the source, which is
// different from a section that was present but empty.
type Group struct {
	Name          string            `json:"name"`
	TypeDefs      []ComplexType     `json:"types,omitempty"`
	DimensionDefs *DimensionSection `json:"dimensions,omitempty"`
	VariableDefs  *VariableSection  `json:"variables,omitempty"`
	Children      []*Group          `json:"groups,omitempty"`
}

func (g *Group) Types() []ComplexType {
	if g.TypeDefs == nil {
		return []ComplexType{}
	}
	return g.TypeDefs
}

func (g *Group) Dimensions() []Dimension {
	if g.DimensionDefs == nil {
		return []Dimension{}
	}
	return g.DimensionDefs.Dimensions
}

func (g *Group) Variables() []*Variable {
	if g.VariableDefs == nil {
		return []*Variable{}
	}
	return g.VariableDefs.Variables
}

func (g *Group) Attributes() []*Attribute {
	if g.VariableDefs == nil {
		return []*Attribute{}
	}
	return g.VariableDefs.Attributes
}

func (g *Group) Groups() []*Group {
	if g.Children == nil {
		return []*Group{}
	}
	return g.Children
}

func (g *Group) FindType(name string) ComplexType {
	for _, t := range g.TypeDefs {
		if t.TypeName() == name {
			return t
		}
	}
	return nil
}

func (g *Group) FindVariable(name string) *Variable {
	for _, v := range g.Variables() {
		if v.Name == name {
			return v
		}
	}
	return nil
}

func (g *Group) FindChild(name string) *Group {
	for _, c := range g.Children {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// VariableAttributes returns the attributes owned by the named variable.
func (g *Group) VariableAttributes(name string) []*Attribute {
	var attrs []*Attribute
	for _, a := range g.Attributes() {
		if a.Variable == name {
			attrs = append(attrs, a)
		}
	}
	return attrs
}

// GlobalAttributes returns the attributes owned by the group itself.
func (g *Group) GlobalAttributes() []*Attribute {
	return g.VariableAttributes("")
}

// ResolveDimension binds a dimension name against this group's declarations.
func (g *Group) ResolveDimension(name string) (Dimension, bool) {
	for _, d := range g.Dimensions() {
		if d.Name == name {
			return d, true
		}
	}
	return Dimension{}, false
}

// RootGroup is a parsed CDL document.
type RootGroup struct {
	Group *Group `json:"group"`
}

func (r *RootGroup) Name() string {
	return r.Group.Name
}

// FindGroup walks child group names from the root. "/" is the root itself.
func (r *RootGroup) FindGroup(path string) *Group {
	group := r.Group
	for _, name := range splitPath(path) {
		if group = group.FindChild(name); group == nil {
			return nil
		}
	}
	return group
}

// FindVariable resolves a path like "/sub/var" to a variable.
func (r *RootGroup) FindVariable(path string) *Variable {
	segments := splitPath(path)
	if len(segments) == 0 {
		return nil
	}
	group := r.FindGroup(strings.Join(segments[:len(segments)-1], "/"))
	if group == nil {
		return nil
	}
	return group.FindVariable(segments[len(segments)-1])
}
