package cdl

// parseGroup parses `name { section* }`. The group is the innermost scope
// while its body is parsed.
func (p *Parser) parseGroup() (*Group, error) {
	nameTok, err := p.expectName("a group name")
	if err != nil {
		return nil, err
	}
	if _, err := p.expect("after group name "+quote(nameTok.Text), "{"); err != nil {
		return nil, err
	}
	group := &Group{Name: nameTok.Text}
	p.pushScope(group)
	defer p.popScope()
	p.logger.Debug("group", "name", group.Name, "depth", len(p.scopes))
	for {
		tok, ok := p.peek()
		if !ok {
			return nil, p.errorAtEnd("missing '}' at end of group %q", group.Name)
		}
		mark := p.cursor
		switch tok.Text {
		case "}":
			p.pop()
			return group, nil
		case KeywordDimensions:
			p.pop()
			p.logger.Debug("section", "keyword", tok.Text, "group", group.Name)
			dims, err := p.parseDimensions()
			if err != nil {
				p.recover(mark)
				continue
			}
			group.DimensionDefs = mergeDimensions(group.DimensionDefs, dims)
		case KeywordTypes:
			p.pop()
			p.logger.Debug("section", "keyword", tok.Text, "group", group.Name)
			types, err := p.parseTypes()
			if err != nil {
				p.recover(mark)
				continue
			}
			group.TypeDefs = append(group.TypeDefs, types...)
		case KeywordVariables:
			p.pop()
			p.logger.Debug("section", "keyword", tok.Text, "group", group.Name)
			vars, err := p.parseVariables()
			if err != nil {
				p.recover(mark)
				continue
			}
			group.VariableDefs = mergeVariables(group.VariableDefs, vars)
		case KeywordData:
			p.pop()
			p.logger.Debug("section", "keyword", tok.Text, "group", group.Name)
			if err := p.parseData(); err != nil {
				p.recover(mark)
			}
		case KeywordGroup:
			p.pop()
			child, err := p.parseGroup()
			if err != nil {
				p.recover(mark)
				continue
			}
			group.Children = append(group.Children, child)
		default:
			// attributes may precede the variables: header
			vars, err := p.parseVariables()
			if err != nil {
				p.recover(mark)
				continue
			}
			if vars == nil {
				p.pop()
				p.suggestAt(tok, tok.Text, []string{KeywordDimensions, KeywordTypes, KeywordVariables, KeywordData, KeywordGroup},
					"unexpected %q in group %q", tok.Text, group.Name)
				p.recover(mark)
				continue
			}
			group.VariableDefs = mergeVariables(group.VariableDefs, vars)
		}
	}
}

func mergeDimensions(into, from *DimensionSection) *DimensionSection {
	if from == nil {
		return into
	}
	if into == nil {
		return from
	}
	into.Dimensions = append(into.Dimensions, from.Dimensions...)
	return into
}

func mergeVariables(into, from *VariableSection) *VariableSection {
	if from == nil {
		return into
	}
	if into == nil {
		return from
	}
	into.Variables = append(into.Variables, from.Variables...)
	into.Attributes = append(into.Attributes, from.Attributes...)
	return into
}

// parseDimensions parses `name = length (,|;)` entries up to the end of the
// section. An empty section is absent.
func (p *Parser) parseDimensions() (*DimensionSection, error) {
	section := &DimensionSection{}
	for !p.atSectionEnd() {
		dim, err := p.parseDimension()
		if err != nil {
			return nil, err
		}
		section.Dimensions = append(section.Dimensions, dim)
	}
	if len(section.Dimensions) == 0 {
		return nil, nil
	}
	return section, nil
}

func (p *Parser) parseDimension() (Dimension, error) {
	nameTok, err := p.expectName("a dimension name")
	if err != nil {
		return Dimension{}, err
	}
	if _, err := p.expect("after dimension "+quote(nameTok.Text), "="); err != nil {
		return Dimension{}, err
	}
	valueTok, ok := p.pop()
	if !ok {
		return Dimension{}, p.errorAtEnd("missing length for dimension %q", nameTok.Text)
	}
	dim := Dimension{Name: nameTok.Text}
	if valueTok.Text != "UNLIMITED" && valueTok.Text != "unlimited" {
		n, err := p.number(valueTok, Int)
		if err != nil {
			return Dimension{}, err
		}
		if n.Int64() < 0 {
			return Dimension{}, p.errorAt(valueTok, "negative length for dimension %q", nameTok.Text)
		}
		dim.Length = int(n.Int64())
	}
	if _, err := p.expect("after dimension "+quote(nameTok.Text), ",", ";"); err != nil {
		return Dimension{}, err
	}
	return dim, nil
}
