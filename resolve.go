package cdl

import (
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

func (p *Parser) pushScope(g *Group) {
	p.scopes = append(p.scopes, g)
}

func (p *Parser) popScope() {
	p.scopes = p.scopes[:len(p.scopes)-1]
}

func (p *Parser) currentScope() *Group {
	if len(p.scopes) == 0 {
		return nil
	}
	return p.scopes[len(p.scopes)-1]
}

// resolveType looks a type name up as an elementary type, then as a path,
// then through the enclosing scopes from the innermost outward. A path that
// names a missing group or type is an error; a plain name that matches
// nothing is not.
func (p *Parser) resolveType(tok Token) (SchemaType, bool, error) {
	name := tok.Text
	if t, ok := LookupElementaryType(name); ok {
		return Elementary(t), true, nil
	}
	if strings.Contains(name, "/") {
		t, err := p.resolveTypePath(tok)
		if err != nil {
			return SchemaType{}, false, err
		}
		return Complex(t), true, nil
	}
	for _, t := range p.pending {
		if t.TypeName() == name {
			return Complex(t), true, nil
		}
	}
	for i := len(p.scopes) - 1; i >= 0; i-- {
		if t := p.scopes[i].FindType(name); t != nil {
			return Complex(t), true, nil
		}
	}
	return SchemaType{}, false, nil
}

// resolveTypePath resolves "/g1/g2/t" from the root group, or "g1/t" from the
// current group, by walking child group names.
func (p *Parser) resolveTypePath(tok Token) (ComplexType, error) {
	if len(p.scopes) == 0 {
		return nil, p.errorAt(tok, "type path %q used outside a group", tok.Text)
	}
	group := p.currentScope()
	if strings.HasPrefix(tok.Text, "/") {
		group = p.scopes[0]
	}
	segments := splitPath(tok.Text)
	if len(segments) == 0 {
		return nil, p.errorAt(tok, "empty type path %q", tok.Text)
	}
	for _, name := range segments[:len(segments)-1] {
		child := group.FindChild(name)
		if child == nil {
			return nil, p.suggestAt(tok, name, groupNames(group), "no group %q in type path %q", name, tok.Text)
		}
		group = child
	}
	typeName := segments[len(segments)-1]
	if t := group.FindType(typeName); t != nil {
		return t, nil
	}
	if group == p.currentScope() {
		for _, t := range p.pending {
			if t.TypeName() == typeName {
				return t, nil
			}
		}
	}
	return nil, p.suggestAt(tok, typeName, typeNames(group.TypeDefs), "no type %q in type path %q", typeName, tok.Text)
}

// resolveVariable finds a variable in the current group only, including the
// variables section still being parsed.
func (p *Parser) resolveVariable(name string) *Variable {
	if p.section != nil {
		for _, v := range p.section.Variables {
			if v.Name == name {
				return v
			}
		}
	}
	if scope := p.currentScope(); scope != nil {
		return scope.FindVariable(name)
	}
	return nil
}

// visibleTypeNames lists every type name a plain reference could resolve to.
func (p *Parser) visibleTypeNames() []string {
	names := make([]string, 0, len(elementaryTypes))
	for name := range elementaryTypes {
		names = append(names, name)
	}
	names = append(names, typeNames(p.pending)...)
	for _, g := range p.scopes {
		names = append(names, typeNames(g.TypeDefs)...)
	}
	return names
}

func typeNames(types []ComplexType) []string {
	names := make([]string, 0, len(types))
	for _, t := range types {
		names = append(names, t.TypeName())
	}
	return names
}

func groupNames(g *Group) []string {
	names := make([]string, 0, len(g.Children))
	for _, c := range g.Children {
		names = append(names, c.Name)
	}
	return names
}

func (p *Parser) visibleVariableNames() []string {
	var names []string
	if p.section != nil {
		for _, v := range p.section.Variables {
			names = append(names, v.Name)
		}
	}
	if scope := p.currentScope(); scope != nil {
		for _, v := range scope.Variables() {
			names = append(names, v.Name)
		}
	}
	return names
}

// suggest picks the candidate closest to name, or "" if none is close.
func suggest(name string, candidates []string) string {
	if ranks := fuzzy.RankFindFold(name, candidates); len(ranks) > 0 {
		sort.Sort(ranks)
		return ranks[0].Target
	}
	best, bestDistance := "", len(name)/2+1
	for _, c := range candidates {
		if d := fuzzy.LevenshteinDistance(strings.ToLower(name), strings.ToLower(c)); d < bestDistance {
			best, bestDistance = c, d
		}
	}
	return best
}
