package graphql

import (
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"

	"github.com/graphql-go/graphql/language/ast"
	"github.com/graphql-go/graphql/language/printer"

	"github.com/boynton/cdl"
	"github.com/boynton/cdl/util"
)

// Export renders the document as GraphQL SDL. Each group becomes an object
// type whose fields are its variables and child groups.
func Export(root *cdl.RootGroup, logger *slog.Logger) (string, error) {
	doc, err := FromCDL(root, logger)
	if err != nil {
		return "", err
	}
	if len(doc.Definitions) == 0 {
		return "", nil
	}
	printed, ok := printer.Print(doc).(string)
	if !ok {
		return "", fmt.Errorf("graphql: cannot print schema for %q", root.Name())
	}
	return printed + "\n", nil
}

// FromCDL builds the SDL document without printing it.
func FromCDL(root *cdl.RootGroup, logger *slog.Logger) (*ast.Document, error) {
	if root == nil || root.Group == nil {
		return nil, fmt.Errorf("graphql: no document")
	}
	w := &GraphqlWriter{
		declared:      make(map[string]bool),
		customScalars: make(map[string]bool),
		logger:        logger,
	}
	if w.logger == nil {
		w.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	w.emitGroup(root.Group, "")
	scalars := make([]string, 0, len(w.customScalars))
	for name := range w.customScalars {
		scalars = append(scalars, name)
	}
	sort.Strings(scalars)
	for _, name := range scalars {
		w.definitions = append(w.definitions, ast.NewScalarDefinition(&ast.ScalarDefinition{
			Name: gqlName(name),
		}))
	}
	return ast.NewDocument(&ast.Document{Definitions: w.definitions}), nil
}

type GraphqlWriter struct {
	definitions   []ast.Node
	declared      map[string]bool
	customScalars map[string]bool
	logger        *slog.Logger
}

func gqlName(s string) *ast.Name {
	return ast.NewName(&ast.Name{Value: s})
}

func named(s string) *ast.Named {
	return ast.NewNamed(&ast.Named{Name: gqlName(s)})
}

func nonNull(t ast.Type) ast.Type {
	return ast.NewNonNull(&ast.NonNull{Type: t})
}

func list(t ast.Type) ast.Type {
	return ast.NewList(&ast.List{Type: nonNull(t)})
}

func description(s string) *ast.StringValue {
	if s == "" {
		return nil
	}
	return ast.NewStringValue(&ast.StringValue{Value: s})
}

// GroupTypeName is the object type name for a group, qualified by its
// enclosing groups.
func GroupTypeName(prefix, name string) string {
	return prefix + util.Capitalize(util.Identifier(name))
}

// emitGroup appends the group's object type and its types, children first.
// It reports false for a group with nothing to export.
func (w *GraphqlWriter) emitGroup(g *cdl.Group, prefix string) (string, bool) {
	typeName := GroupTypeName(prefix, g.Name)
	for _, t := range g.Types() {
		w.emitType(t)
	}
	var fields []*ast.FieldDefinition
	for _, v := range g.Variables() {
		fields = append(fields, ast.NewFieldDefinition(&ast.FieldDefinition{
			Name:        gqlName(util.Identifier(v.Name)),
			Description: description(variableDescription(g, v)),
			Type:        w.variableType(v),
		}))
	}
	for _, child := range g.Groups() {
		childType, ok := w.emitGroup(child, typeName)
		if !ok {
			continue
		}
		fields = append(fields, ast.NewFieldDefinition(&ast.FieldDefinition{
			Name: gqlName(util.Identifier(child.Name)),
			Type: nonNull(named(childType)),
		}))
	}
	if len(fields) == 0 {
		w.logger.Debug("skipping empty group", "group", g.Name)
		return typeName, false
	}
	w.definitions = append(w.definitions, ast.NewObjectDefinition(&ast.ObjectDefinition{
		Name:        gqlName(typeName),
		Description: description(groupDescription(g)),
		Fields:      fields,
	}))
	return typeName, true
}

func (w *GraphqlWriter) emitType(t cdl.ComplexType) {
	typeName := util.Identifier(t.TypeName())
	if w.declared[typeName] {
		w.logger.Warn("type already exported, skipping", "type", t.TypeName())
		return
	}
	w.declared[typeName] = true
	switch t := t.(type) {
	case *cdl.EnumType:
		var values []*ast.EnumValueDefinition
		for _, v := range t.Values {
			values = append(values, ast.NewEnumValueDefinition(&ast.EnumValueDefinition{
				Name: gqlName(util.Identifier(v.Name)),
			}))
		}
		w.definitions = append(w.definitions, ast.NewEnumDefinition(&ast.EnumDefinition{
			Name:   gqlName(typeName),
			Values: values,
		}))
	case *cdl.CompoundType:
		var fields []*ast.FieldDefinition
		for _, f := range t.Fields {
			fields = append(fields, ast.NewFieldDefinition(&ast.FieldDefinition{
				Name: gqlName(util.Identifier(f.Name)),
				Type: nonNull(w.typeRef(cdl.Complex(f.Type))),
			}))
		}
		w.definitions = append(w.definitions, ast.NewObjectDefinition(&ast.ObjectDefinition{
			Name:   gqlName(typeName),
			Fields: fields,
		}))
	case *cdl.OpaqueType:
		w.customScalars[typeName] = true
	case *cdl.VLenType, *cdl.ArrayType:
		// references expand to list syntax
	}
}

func (w *GraphqlWriter) scalarType(t cdl.ElementaryType) string {
	switch t {
	case cdl.Char, cdl.String:
		return "String"
	case cdl.Byte, cdl.Ubyte, cdl.Short, cdl.Ushort, cdl.Int, cdl.Long:
		return "Int"
	case cdl.Float, cdl.Real, cdl.Double:
		return "Float"
	case cdl.Uint:
		w.customScalars["UInt"] = true
		return "UInt"
	case cdl.Int64:
		w.customScalars["Int64"] = true
		return "Int64"
	case cdl.Uint64:
		w.customScalars["UInt64"] = true
		return "UInt64"
	}
	return "String"
}

func (w *GraphqlWriter) typeRef(t cdl.SchemaType) ast.Type {
	if et, ok := t.Elementary(); ok {
		return named(w.scalarType(et))
	}
	ct, _ := t.Complex()
	switch ct := ct.(type) {
	case *cdl.VLenType:
		return list(named(w.scalarType(ct.Base)))
	case *cdl.ArrayType:
		var inner ast.Type = named(w.scalarType(ct.Base))
		for range ct.Dimensions {
			inner = list(inner)
		}
		return inner
	case *cdl.OpaqueType:
		name := util.Identifier(ct.Name)
		w.customScalars[name] = true
		return named(name)
	default:
		return named(util.Identifier(ct.TypeName()))
	}
}

func (w *GraphqlWriter) variableType(v *cdl.Variable) ast.Type {
	t := w.typeRef(v.Type)
	for range v.Dimensions {
		t = list(t)
	}
	return nonNull(t)
}

// variableDescription joins long_name and units.
func variableDescription(g *cdl.Group, v *cdl.Variable) string {
	var parts []string
	for _, a := range g.VariableAttributes(v.Name) {
		switch a.Name {
		case "long_name":
			parts = append([]string{a.String()}, parts...)
		case "units":
			parts = append(parts, "units: "+a.String())
		}
	}
	return strings.Join(parts, ", ")
}

func groupDescription(g *cdl.Group) string {
	for _, a := range g.GlobalAttributes() {
		if a.Name == "title" {
			return a.String()
		}
	}
	return ""
}
