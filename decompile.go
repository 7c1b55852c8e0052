package cdl

import (
	"fmt"
	"strings"
)

// Decompile renders the document back to CDL source. Parsing the output
// yields an equal document.
func Decompile(root *RootGroup) (string, error) {
	d := &decompiler{owners: make(map[ComplexType]string)}
	d.indexTypes(root.Group, "")
	d.Begin()
	d.Emit("netcdf " + root.Group.Name + " {\n")
	d.group(root.Group)
	d.Emit("}\n")
	out := d.End()
	if d.Err != nil {
		return "", d.Err
	}
	return out, nil
}

type decompiler struct {
	Generator
	scopes []*Group
	// owners maps each declared type to the path of the group declaring it
	owners map[ComplexType]string
}

func (d *decompiler) indexTypes(g *Group, path string) {
	for _, t := range g.TypeDefs {
		d.owners[t] = path
	}
	for _, c := range g.Children {
		d.indexTypes(c, path+"/"+c.Name)
	}
}

// typeName is the plain name when it resolves to t from the current scope,
// and an absolute path otherwise.
func (d *decompiler) typeName(t SchemaType) string {
	ct, ok := t.Complex()
	if !ok {
		return t.Name()
	}
	for i := len(d.scopes) - 1; i >= 0; i-- {
		if found := d.scopes[i].FindType(ct.TypeName()); found != nil {
			if found == ct {
				return ct.TypeName()
			}
			break
		}
	}
	return d.owners[ct] + "/" + ct.TypeName()
}

func (d *decompiler) group(g *Group) {
	d.scopes = append(d.scopes, g)
	defer func() { d.scopes = d.scopes[:len(d.scopes)-1] }()
	// array types may name dimensions, so those come first
	if g.DimensionDefs != nil {
		d.Emitf("dimensions:")
		d.Depth++
		for _, dim := range g.DimensionDefs.Dimensions {
			if dim.IsUnlimited() {
				d.Emitf("%s = UNLIMITED ;", dim.Name)
			} else {
				d.Emitf("%s = %d ;", dim.Name, dim.Length)
			}
		}
		d.Depth--
	}
	if len(g.TypeDefs) > 0 {
		d.Emitf("types:")
		d.Depth++
		for _, t := range g.TypeDefs {
			d.typeDef(t)
		}
		d.Depth--
	}
	if g.VariableDefs != nil {
		d.Emitf("variables:")
		d.Depth++
		for _, v := range g.VariableDefs.Variables {
			d.variable(v)
		}
		d.Depth++
		for _, a := range g.VariableDefs.Attributes {
			d.attribute(a)
		}
		d.Depth -= 2
	}
	var data []*Variable
	for _, v := range g.Variables() {
		if v.Value != nil {
			data = append(data, v)
		}
	}
	if len(data) > 0 {
		d.Emitf("data:")
		d.Depth++
		for _, v := range data {
			d.Emitf("%s = %s ;", v.Name, literal(v.Value))
		}
		d.Depth--
	}
	for _, c := range g.Children {
		d.Emitf("group: %s {", c.Name)
		d.Depth++
		d.group(c)
		d.Depth--
		d.Emitf("}")
	}
}

func (d *decompiler) typeDef(t ComplexType) {
	switch t := t.(type) {
	case *OpaqueType:
		d.Emitf("opaque(%d) %s ;", t.Length, t.Name)
	case *EnumType:
		values := make([]string, 0, len(t.Values))
		for _, v := range t.Values {
			values = append(values, fmt.Sprintf("%s = %d", v.Name, v.Value))
		}
		d.Emitf("%s enum %s {%s} ;", t.Base, t.Name, strings.Join(values, ", "))
	case *VLenType:
		d.Emitf("%s(*) %s ;", t.Base, t.Name)
	case *ArrayType:
		d.Emitf("%s(%s) %s ;", t.Base, t.shape(), t.Name)
	case *CompoundType:
		d.Emitf("compound %s {", t.Name)
		d.Depth++
		for _, f := range t.Fields {
			d.Emitf("%s %s ;", d.typeName(Complex(f.Type)), f.Name)
		}
		d.Depth--
		d.Emitf("} ;")
	default:
		d.Err = fmt.Errorf("cannot decompile type %T", t)
	}
}

func (d *decompiler) variable(v *Variable) {
	if len(v.Dimensions) == 0 {
		d.Emitf("%s %s ;", d.typeName(v.Type), v.Name)
		return
	}
	d.Emitf("%s %s(%s) ;", d.typeName(v.Type), v.Name, strings.Join(v.DimensionNames(), ", "))
}

func (d *decompiler) attribute(a *Attribute) {
	prefix := ""
	if a.Type != nil {
		prefix = d.typeName(*a.Type) + " "
	}
	d.Emitf("%s%s = %s ;", prefix, a.FullName(), literal(a.Value))
}

// literal renders a value as CDL source.
func literal(v Value) string {
	switch v := v.(type) {
	case nil:
		return `""`
	case Text:
		return quote(string(v))
	case Range:
		return v.Start.String() + ", " + v.End.String()
	case Array:
		return joinNumbers(v)
	case Compound:
		parts := make([]string, 0, len(v))
		for _, f := range v {
			parts = append(parts, literal(f))
		}
		return "{" + strings.Join(parts, ", ") + "}"
	case List:
		parts := make([]string, 0, len(v))
		for _, e := range v {
			parts = append(parts, literal(e))
		}
		return strings.Join(parts, ", ")
	default:
		return v.String()
	}
}
