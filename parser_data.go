package cdl

import (
	"slices"

	"github.com/boynton/cdl/ndarray"
)

// number converts a token to a number of type t, applying the configured
// NumberMode to any text after the numeric prefix.
func (p *Parser) number(tok Token, t ElementaryType) (Number, error) {
	n, rest, err := ParseNumber(tok.Text, t)
	if err != nil {
		return Number{}, p.errorAt(tok, "%v", err)
	}
	if rest == "" {
		return n, nil
	}
	switch p.options.Numbers {
	case Warn:
		p.warnAt(tok, "ignoring %q after %s literal %s", rest, t, n)
	case Strict:
		if !IsTypeSuffix(rest) {
			return Number{}, p.errorAt(tok, "invalid %s literal %q", t, tok.Text)
		}
	}
	return n, nil
}

// parseData parses `name = value ;` assignments up to the end of the section.
// Values are attached to variables of the current group only when the whole
// section parses.
func (p *Parser) parseData() error {
	type assignment struct {
		variable *Variable
		value    Value
	}
	var assignments []assignment
	for !p.atSectionEnd() {
		nameTok, _ := p.pop()
		v := p.resolveVariable(nameTok.Text)
		if v == nil {
			return p.suggestAt(nameTok, nameTok.Text, p.visibleVariableNames(), "data for undeclared variable %q", nameTok.Text)
		}
		if _, err := p.expect("after "+quote(v.Name)+" in data section", "="); err != nil {
			return err
		}
		value, err := p.parseValue(v.Type, v.Name)
		if err != nil {
			return err
		}
		if _, err := p.expect("after data for "+quote(v.Name), ";"); err != nil {
			return err
		}
		assignments = append(assignments, assignment{v, value})
	}
	for _, a := range assignments {
		a.variable.Value = a.value
	}
	return nil
}

// parseValue parses a comma separated list of literals of type t. A single
// literal is returned as is.
func (p *Parser) parseValue(t SchemaType, owner string) (Value, error) {
	first, err := p.parseDatum(t, owner)
	if err != nil {
		return nil, err
	}
	values := []Value{first}
	for {
		if _, ok := p.accept(","); !ok {
			break
		}
		v, err := p.parseDatum(t, owner)
		if err != nil {
			return nil, err
		}
		values = append(values, v)
	}
	if len(values) == 1 {
		return first, nil
	}
	numbers := make(Array, 0, len(values))
	for _, v := range values {
		n, ok := v.(Number)
		if !ok {
			return List(values), nil
		}
		numbers = append(numbers, n)
	}
	return numbers, nil
}

// parseDatum parses a single literal of type t: a number, a string, an enum
// label, or a braced literal for vlen, array and compound types.
func (p *Parser) parseDatum(t SchemaType, owner string) (Value, error) {
	tok, ok := p.peek()
	if !ok {
		return nil, p.errorAtEnd("missing value for %q", owner)
	}
	if tok.Text == ";" || tok.Text == "," || tok.Text == "}" {
		return nil, p.errorAt(tok, "missing value for %q", owner)
	}
	if base, isElementary := t.Elementary(); isElementary {
		p.pop()
		switch {
		case base == Default:
			return nil, p.errorAt(tok, "no type to read the value of %q with", owner)
		case base == String && !tok.IsQuoted():
			return p.unquotedString(tok, owner)
		case base == String || (base == Char && tok.IsQuoted()):
			return Text(unquote(tok)), nil
		}
		return p.number(tok, base)
	}
	ct, _ := t.Complex()
	switch ct := ct.(type) {
	case *EnumType:
		p.pop()
		if v, found := ct.Lookup(tok.Text); found {
			return IntegerNumber(ct.Base, v.Value), nil
		}
		if _, _, err := ParseNumber(tok.Text, ct.Base); err != nil {
			labels := make([]string, 0, len(ct.Values))
			for _, v := range ct.Values {
				labels = append(labels, v.Name)
			}
			return nil, p.suggestAt(tok, tok.Text, labels, "%q is not a value of enum %q", tok.Text, ct.Name)
		}
		return p.number(tok, ct.Base)
	case *OpaqueType:
		p.pop()
		return Text(unquote(tok)), nil
	case *VLenType:
		return p.parseSequence(ct.Base, owner, -1)
	case *ArrayType:
		count := ndarray.NumberOfElements(ct.Shape())
		if slices.Contains(ct.Shape(), 0) {
			count = -1
		}
		return p.parseSequence(ct.Base, owner, count)
	case *CompoundType:
		return p.parseCompoundValue(ct, owner)
	default:
		panic("unsupported complex type " + ct.TypeName())
	}
}

// unquotedString takes a bare word as a string value unless the number mode
// is strict.
func (p *Parser) unquotedString(tok Token, owner string) (Value, error) {
	switch p.options.Numbers {
	case Warn:
		p.warnAt(tok, "unquoted string %q for %q", tok.Text, owner)
	case Strict:
		return nil, p.errorAt(tok, "string value for %q must be quoted, found %q", owner, tok.Text)
	}
	return Text(tok.Text), nil
}

// parseSequence parses `{ n, ... }`. A non-negative count is the exact number
// of elements required.
func (p *Parser) parseSequence(base ElementaryType, owner string, count int) (Value, error) {
	open, err := p.expect("to start the value of "+quote(owner), "{")
	if err != nil {
		return nil, err
	}
	seq := Sequence{}
	if _, ok := p.accept("}"); !ok {
		for {
			tok, ok := p.pop()
			if !ok {
				return nil, p.errorAtEnd("missing '}' in value of %q", owner)
			}
			n, err := p.number(tok, base)
			if err != nil {
				return nil, err
			}
			seq = append(seq, n)
			sep, err := p.expect("in value of "+quote(owner), ",", "}")
			if err != nil {
				return nil, err
			}
			if sep.Text == "}" {
				break
			}
		}
	}
	if count >= 0 && len(seq) != count {
		return nil, p.errorAt(open, "value of %q has %d elements, expected %d", owner, len(seq), count)
	}
	return seq, nil
}

// parseCompoundValue parses `{ field1, field2, ... }` in field order.
func (p *Parser) parseCompoundValue(ct *CompoundType, owner string) (Value, error) {
	if _, err := p.expect("to start the value of "+quote(owner), "{"); err != nil {
		return nil, err
	}
	fields := make(Compound, 0, len(ct.Fields))
	for i, f := range ct.Fields {
		if i > 0 {
			if _, err := p.expect("between fields of "+quote(ct.Name), ","); err != nil {
				return nil, err
			}
		}
		v, err := p.parseDatum(Complex(f.Type), owner+"."+f.Name)
		if err != nil {
			return nil, err
		}
		fields = append(fields, v)
	}
	if _, err := p.expect("after the last field of "+quote(ct.Name), "}"); err != nil {
		return nil, err
	}
	return fields, nil
}
