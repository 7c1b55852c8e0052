package graphql

import (
	"fmt"

	gql_ast "github.com/graphql-go/graphql/language/ast"
	gql_parser "github.com/graphql-go/graphql/language/parser"
	gql_source "github.com/graphql-go/graphql/language/source"
)

// Validate parses SDL text back into a document, as a check on exported
// output.
func Validate(sdl string) (*gql_ast.Document, error) {
	doc, err := gql_parser.Parse(gql_parser.ParseParams{
		Source: &gql_source.Source{
			Body: []byte(sdl),
			Name: "GraphQL",
		},
		Options: gql_parser.ParseOptions{
			NoLocation: true,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("graphql: exported schema does not parse: %v", err)
	}
	return doc, nil
}

// DefinitionNames lists the names of the named definitions in doc.
func DefinitionNames(doc *gql_ast.Document) []string {
	var names []string
	for _, def := range doc.Definitions {
		switch tdef := def.(type) {
		case *gql_ast.ObjectDefinition:
			names = append(names, tdef.Name.Value)
		case *gql_ast.EnumDefinition:
			names = append(names, tdef.Name.Value)
		case *gql_ast.ScalarDefinition:
			names = append(names, tdef.Name.Value)
		}
	}
	return names
}
