package cdl

// Description renders the document as an indented tree, for debugging.
func (r *RootGroup) Description() string {
	gen := &Generator{}
	gen.Begin()
	gen.Emitf("RootGroup %s", r.Group.Name)
	gen.Depth++
	describeGroup(gen, r.Group)
	return gen.End()
}

// Description renders the group and everything below it as a tree.
func (g *Group) Description() string {
	gen := &Generator{}
	gen.Begin()
	describeGroup(gen, g)
	return gen.End()
}

func describeGroup(gen *Generator, g *Group) {
	gen.Emitf("Group %s", g.Name)
	gen.Depth++
	defer func() { gen.Depth-- }()
	if len(g.TypeDefs) > 0 {
		gen.Emitf("Types")
		gen.Depth++
		for _, t := range g.TypeDefs {
			gen.Emitf("%s", t.Description())
		}
		gen.Depth--
	}
	if g.DimensionDefs != nil {
		gen.Emitf("Dimensions")
		gen.Depth++
		for _, d := range g.DimensionDefs.Dimensions {
			if d.IsUnlimited() {
				gen.Emitf("%s = unlimited", d.Name)
			} else {
				gen.Emitf("%s = %d", d.Name, d.Length)
			}
		}
		gen.Depth--
	}
	if g.VariableDefs != nil {
		gen.Emitf("Variables")
		gen.Depth++
		for _, v := range g.VariableDefs.Variables {
			if v.Value != nil {
				gen.Emitf("%s = %s", v, v.Value)
			} else {
				gen.Emitf("%s", v)
			}
		}
		if len(g.VariableDefs.Attributes) > 0 {
			gen.Emitf("Attributes")
			gen.Depth++
			for _, a := range g.VariableDefs.Attributes {
				gen.Emitf("%s", describeAttribute(a))
			}
			gen.Depth--
		}
		gen.Depth--
	}
	for _, child := range g.Children {
		describeGroup(gen, child)
	}
}

func describeAttribute(a *Attribute) string {
	s := a.FullName() + " = " + a.String()
	if a.Type != nil {
		s = a.Type.Name() + " " + s
	}
	return s
}
