package cdl

// parseTypes parses type declarations up to the end of the section. Types
// are visible to later declarations in the same section.
func (p *Parser) parseTypes() ([]ComplexType, error) {
	saved := p.pending
	p.pending = nil
	defer func() { p.pending = saved }()
	for !p.atSectionEnd() {
		t, err := p.parseComplexType()
		if err != nil {
			return nil, err
		}
		if scope := p.currentScope(); scope != nil && scope.FindType(t.TypeName()) != nil {
			p.logger.Warn("type redeclared", "name", t.TypeName(), "group", scope.Name)
		}
		p.pending = append(p.pending, t)
	}
	if len(p.pending) == 0 {
		return nil, nil
	}
	return p.pending, nil
}

func (p *Parser) parseComplexType() (ComplexType, error) {
	tok, _ := p.peek()
	switch tok.Text {
	case "opaque":
		p.pop()
		return p.parseOpaque()
	case "compound":
		p.pop()
		return p.parseCompound()
	}
	base, ok := LookupElementaryType(tok.Text)
	if !ok {
		p.pop()
		return nil, p.suggestAt(tok, tok.Text, append(sortedElementaryNames(), "opaque", "compound"),
			"unknown base type %q in type declaration", tok.Text)
	}
	p.pop()
	if _, ok := p.accept("enum"); ok {
		return p.parseEnum(base)
	}
	if _, err := p.expect("after base type "+quote(tok.Text), "("); err != nil {
		return nil, err
	}
	if _, ok := p.accept("*"); ok {
		return p.parseVLen(base)
	}
	return p.parseArrayType(base)
}

// opaque ( n ) name ;
func (p *Parser) parseOpaque() (ComplexType, error) {
	if _, err := p.expect("after opaque", "("); err != nil {
		return nil, err
	}
	sizeTok, ok := p.pop()
	if !ok {
		return nil, p.errorAtEnd("missing opaque size")
	}
	size, err := p.number(sizeTok, Int)
	if err != nil {
		return nil, err
	}
	if size.Int64() < 0 {
		return nil, p.errorAt(sizeTok, "negative opaque size %s", size)
	}
	if _, err := p.expect("after opaque size", ")"); err != nil {
		return nil, err
	}
	nameTok, err := p.expectName("an opaque type name")
	if err != nil {
		return nil, err
	}
	if _, err := p.expect("after opaque type "+quote(nameTok.Text), ";"); err != nil {
		return nil, err
	}
	return &OpaqueType{Name: nameTok.Text, Length: int(size.Int64())}, nil
}

// base enum name { a = 1, b = 2 } ;
func (p *Parser) parseEnum(base ElementaryType) (ComplexType, error) {
	if !base.IsInteger() {
		tok, _ := p.peek()
		return nil, p.errorAt(tok, "enum base type must be an integer type, not %s", base)
	}
	nameTok, err := p.expectName("an enum type name")
	if err != nil {
		return nil, err
	}
	enum := &EnumType{Name: nameTok.Text, Base: base}
	if _, err := p.expect("after enum "+quote(enum.Name), "{"); err != nil {
		return nil, err
	}
	for {
		labelTok, err := p.expectName("an enumerator name in " + quote(enum.Name))
		if err != nil {
			return nil, err
		}
		if _, err := p.expect("after enumerator "+quote(labelTok.Text), "="); err != nil {
			return nil, err
		}
		valueTok, ok := p.pop()
		if !ok {
			return nil, p.errorAtEnd("missing value for enumerator %q", labelTok.Text)
		}
		n, err := p.number(valueTok, base)
		if err != nil {
			return nil, err
		}
		if _, dup := enum.Lookup(labelTok.Text); dup {
			return nil, p.errorAt(labelTok, "duplicate enumerator %q in %q", labelTok.Text, enum.Name)
		}
		enum.Values = append(enum.Values, EnumValue{Name: labelTok.Text, Value: n.Int64()})
		sep, err := p.expect("after enumerator "+quote(labelTok.Text), ",", "}")
		if err != nil {
			return nil, err
		}
		if sep.Text == "}" {
			break
		}
	}
	if _, err := p.expect("after enum "+quote(enum.Name), ";"); err != nil {
		return nil, err
	}
	return enum, nil
}

// base(*) name ;
func (p *Parser) parseVLen(base ElementaryType) (ComplexType, error) {
	if _, err := p.expect("after '(*'", ")"); err != nil {
		return nil, err
	}
	nameTok, err := p.expectName("a vlen type name")
	if err != nil {
		return nil, err
	}
	if _, err := p.expect("after vlen type "+quote(nameTok.Text), ";"); err != nil {
		return nil, err
	}
	return &VLenType{Name: nameTok.Text, Base: base}, nil
}

// base(d1, d2, ...) name ; where each extent is a literal or a dimension
// declared in the current group.
func (p *Parser) parseArrayType(base ElementaryType) (ComplexType, error) {
	var dims []Dimension
	for {
		tok, ok := p.pop()
		if !ok {
			return nil, p.errorAtEnd("unterminated array type dimensions")
		}
		if _, _, err := ParseNumber(tok.Text, Int); err == nil {
			n, err := p.number(tok, Int)
			if err != nil {
				return nil, err
			}
			dims = append(dims, Dimension{Length: int(n.Int64())})
		} else {
			dim, found := p.currentScope().ResolveDimension(tok.Text)
			if !found {
				return nil, p.errorAt(tok, "unknown dimension %q in array type", tok.Text)
			}
			dims = append(dims, dim)
		}
		sep, err := p.expect("in array type dimensions", ",", ")")
		if err != nil {
			return nil, err
		}
		if sep.Text == ")" {
			break
		}
	}
	nameTok, err := p.expectName("an array type name")
	if err != nil {
		return nil, err
	}
	if _, err := p.expect("after array type "+quote(nameTok.Text), ";"); err != nil {
		return nil, err
	}
	return &ArrayType{Name: nameTok.Text, Base: base, Dimensions: dims}, nil
}

// compound name { type field ; ... } ;
// Field types must be declared types.
func (p *Parser) parseCompound() (ComplexType, error) {
	nameTok, err := p.expectName("a compound type name")
	if err != nil {
		return nil, err
	}
	compound := &CompoundType{Name: nameTok.Text}
	if _, err := p.expect("after compound "+quote(compound.Name), "{"); err != nil {
		return nil, err
	}
	for {
		if _, ok := p.accept("}"); ok {
			break
		}
		typeTok, ok := p.pop()
		if !ok {
			return nil, p.errorAtEnd("missing '}' at end of compound %q", compound.Name)
		}
		st, found, err := p.resolveType(typeTok)
		if err != nil {
			return nil, err
		}
		if !found {
			return nil, p.suggestAt(typeTok, typeTok.Text, p.visibleTypeNames(), "unknown type %q for a field of %q", typeTok.Text, compound.Name)
		}
		fieldType, isComplex := st.Complex()
		if !isComplex {
			return nil, p.errorAt(typeTok, "compound fields must have a declared type, %q is elementary", typeTok.Text)
		}
		for {
			fieldTok, err := p.expectName("a field name in " + quote(compound.Name))
			if err != nil {
				return nil, err
			}
			compound.Fields = append(compound.Fields, CompoundField{Name: fieldTok.Text, Type: fieldType})
			sep, err := p.expect("after field "+quote(fieldTok.Text), ",", ";")
			if err != nil {
				return nil, err
			}
			if sep.Text == ";" {
				break
			}
		}
	}
	p.accept(";")
	return compound, nil
}

func sortedElementaryNames() []string {
	names := make([]string, 0, len(elementaryNames))
	for t := Char; t <= String; t++ {
		names = append(names, t.Name())
	}
	return names
}
