package cdl

import (
	"strings"
)

// Attributes whose value is always taken as free text, whatever type is
// declared for them.
var freeTextAttributes = map[string]bool{
	"long_name":     true,
	"units":         true,
	"_ChunkSizes":   true,
	"_Storage":      true,
	"_Fletcher32":   true,
	"_DeflateLevel": true,
	"_Endianness":   true,
	"_NoFill":       true,
	"_IsNetcdf4":    true,
	"_Shuffle":      true,
}

const (
	fillValueAttribute  = "_FillValue"
	validRangeAttribute = "valid_range"
)

// parseVariables parses variable and attribute declarations up to the end of
// the section. It returns nil, nil when the first token starts neither.
func (p *Parser) parseVariables() (*VariableSection, error) {
	saved := p.section
	p.section = &VariableSection{}
	defer func() { p.section = saved }()
	var shared *SchemaType
	for !p.atSectionEnd() {
		before := len(p.section.Variables)
		matched, err := p.parseDeclaration(shared)
		if err != nil {
			return nil, err
		}
		if !matched {
			break
		}
		shared = nil
		if len(p.section.Variables) > before {
			if _, ok := p.accept(","); ok {
				last := p.section.Variables[len(p.section.Variables)-1]
				shared = &last.Type
			}
		}
	}
	if shared != nil {
		if tok, ok := p.peek(); ok {
			return nil, p.errorAt(tok, "expected a variable name after ',', found %q", tok.Text)
		}
		return nil, p.errorAtEnd("expected a variable name after ',', found end of input")
	}
	if len(p.section.Variables) == 0 && len(p.section.Attributes) == 0 {
		return nil, nil
	}
	return p.section, nil
}

// parseDeclaration parses one variable or attribute into p.section. A
// non-nil shared type is the type carried over a ',' from the previous
// variable.
func (p *Parser) parseDeclaration(shared *SchemaType) (bool, error) {
	if shared != nil {
		v, err := p.parseVariable(*shared)
		if err != nil {
			return false, err
		}
		p.section.Variables = append(p.section.Variables, v)
		return true, nil
	}
	tok, _ := p.peek()
	if strings.Contains(tok.Text, ":") {
		return p.parseAttribute(nil)
	}
	t, found, err := p.resolveType(tok)
	if err != nil {
		return false, err
	}
	if !found {
		if isName(tok.Text) && isName(p.peekAt(1).Text) {
			switch p.peekAt(2).Text {
			case ";", "(", ",":
				return false, p.suggestAt(tok, tok.Text, p.visibleTypeNames(),
					"unknown type %q for variable %q", tok.Text, p.peekAt(1).Text)
			}
		}
		return p.parseAttribute(nil)
	}
	p.pop()
	next, ok := p.peek()
	if !ok {
		return false, p.errorAtEnd("missing name after type %q", tok.Text)
	}
	if strings.Contains(next.Text, ":") {
		return p.parseAttribute(&t)
	}
	v, err := p.parseVariable(t)
	if err != nil {
		return false, err
	}
	p.section.Variables = append(p.section.Variables, v)
	return true, nil
}

// parseVariable parses `name ;` or `name ( dim, ... ) ;`. A ',' in place of
// the ';' is left for the caller, which reuses the type for the next name.
func (p *Parser) parseVariable(t SchemaType) (*Variable, error) {
	nameTok, err := p.expectName("a variable name")
	if err != nil {
		return nil, err
	}
	v := &Variable{Name: nameTok.Text, Type: t}
	if existing := p.resolveVariable(v.Name); existing != nil {
		p.warnAt(nameTok, "variable %q is declared more than once", v.Name)
	}
	if p.peekText() == "," {
		return v, nil
	}
	sep, err := p.expect("after variable "+quote(v.Name), "(", ";")
	if err != nil {
		return nil, err
	}
	if sep.Text == ";" {
		return v, nil
	}
	for {
		dimTok, err := p.expectName("a dimension name for variable " + quote(v.Name))
		if err != nil {
			return nil, err
		}
		v.Dimensions = append(v.Dimensions, VariableDimension{Name: dimTok.Text})
		sep, err := p.expect("in dimensions of variable "+quote(v.Name), ",", ")")
		if err != nil {
			return nil, err
		}
		if sep.Text == ")" {
			break
		}
	}
	if p.peekText() == "," {
		return v, nil
	}
	if _, err := p.expect("after variable "+quote(v.Name), ";"); err != nil {
		return nil, err
	}
	return v, nil
}

// parseAttribute parses `owner:name = value ;`, where an empty owner makes a
// group attribute. With no declared type and no ':' in the name nothing is
// consumed and it reports no match.
func (p *Parser) parseAttribute(declared *SchemaType) (bool, error) {
	nameTok, ok := p.peek()
	if !ok {
		return false, nil
	}
	owner, name, hasColon := splitAttributeName(nameTok.Text)
	if !hasColon {
		if declared == nil {
			return false, nil
		}
		return false, p.errorAt(nameTok, "expected an attribute name like var:name, found %q", nameTok.Text)
	}
	p.pop()
	if name == "" || !isName(name) {
		return false, p.errorAt(nameTok, "invalid attribute name %q", nameTok.Text)
	}
	if _, err := p.expect("after attribute "+quote(nameTok.Text), "="); err != nil {
		return false, err
	}
	attr := &Attribute{Variable: owner, Name: name, Type: declared}
	var variable *Variable
	if owner != "" {
		if variable = p.resolveVariable(owner); variable == nil {
			return false, p.suggestAt(nameTok, owner, p.visibleVariableNames(),
				"attribute %q refers to undeclared variable %q", nameTok.Text, owner)
		}
	}
	var err error
	switch {
	case freeTextAttributes[name]:
		if attr.Type == nil {
			t := Elementary(String)
			attr.Type = &t
		}
		attr.Value, err = p.parseFreeText(nameTok)
	case name == fillValueAttribute && variable != nil:
		attr.Type = &variable.Type
		attr.Value, err = p.parseDatum(variable.Type, nameTok.Text)
	case name == validRangeAttribute && variable != nil:
		attr.Type = &variable.Type
		attr.Value, err = p.parseRange(variable, nameTok)
	case owner == "":
		t := Elementary(String)
		if declared != nil {
			t = *declared
		}
		attr.Type = &t
		attr.Value, err = p.parseValue(t, nameTok.Text)
	default:
		attr.Value, err = p.parseFreeText(nameTok)
	}
	if err != nil {
		return false, err
	}
	if _, err := p.expect("after attribute "+quote(nameTok.Text), ";"); err != nil {
		return false, err
	}
	p.section.Attributes = append(p.section.Attributes, attr)
	return true, nil
}

// parseFreeText takes the tokens up to the terminating ';' verbatim, with
// quotes removed from string literals.
func (p *Parser) parseFreeText(nameTok Token) (Value, error) {
	var buf strings.Builder
	count := 0
	for {
		tok, ok := p.peek()
		if !ok {
			return nil, p.errorAtEnd("missing ';' after attribute %q", nameTok.Text)
		}
		if tok.Text == ";" {
			break
		}
		p.pop()
		switch {
		case tok.Text == ",":
			buf.WriteString(",")
		case count > 0:
			buf.WriteString(" ")
			fallthrough
		default:
			buf.WriteString(unquote(tok))
		}
		count++
	}
	if count == 0 {
		return nil, p.errorAt(nameTok, "missing value for attribute %q", nameTok.Text)
	}
	return Text(buf.String()), nil
}

// parseRange parses `start , end` in the owning variable's type.
func (p *Parser) parseRange(v *Variable, nameTok Token) (Value, error) {
	base, ok := v.Type.Elementary()
	if !ok || !base.IsNumeric() {
		return nil, p.errorAt(nameTok, "valid_range needs a numeric variable, %q is %s", v.Name, v.Type.Name())
	}
	startTok, ok := p.pop()
	if !ok {
		return nil, p.errorAtEnd("missing start of valid_range for %q", v.Name)
	}
	start, err := p.number(startTok, base)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect("between valid_range values", ","); err != nil {
		return nil, err
	}
	endTok, ok := p.pop()
	if !ok {
		return nil, p.errorAtEnd("missing end of valid_range for %q", v.Name)
	}
	end, err := p.number(endTok, base)
	if err != nil {
		return nil, err
	}
	return Range{Start: start, End: end}, nil
}
