package cdl

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustParse(test *testing.T, src string) *RootGroup {
	test.Helper()
	root, err := ParseString(src, Options{})
	require.NoError(test, err)
	require.NotNil(test, root)
	require.NotNil(test, root.Group)
	return root
}

func errorDiagnostics(diags []*Diagnostic) []*Diagnostic {
	var errs []*Diagnostic
	for _, d := range diags {
		if d.Severity == SeverityError {
			errs = append(errs, d)
		}
	}
	return errs
}

func TestEmptyInput(test *testing.T) {
	root, err := ParseString("", Options{})
	assert.Nil(test, root)
	var perr *ParseError
	require.True(test, errors.As(err, &perr))
	require.Len(test, perr.Diagnostics, 1)

	root, diags := ParseWithDiagnostics("   // nothing\n", Options{})
	assert.Nil(test, root)
	assert.Len(test, diags, 1)
}

func TestNotNetcdf(test *testing.T) {
	_, err := ParseString("netcdl foo { }", Options{})
	assert.ErrorContains(test, err, `expected "netcdf"`)
}

func TestEmptyRoot(test *testing.T) {
	root := mustParse(test, "netcdf foo { }")
	assert.Equal(test, "foo", root.Name())
	assert.Empty(test, root.Group.Groups())
	assert.Nil(test, root.Group.DimensionDefs)
	assert.Nil(test, root.Group.VariableDefs)
	assert.Empty(test, root.Group.Variables())
}

func TestEmptySectionsAreAbsent(test *testing.T) {
	root := mustParse(test, "netcdf foo { dimensions: types: variables: data: }")
	assert.Nil(test, root.Group.DimensionDefs)
	assert.Nil(test, root.Group.TypeDefs)
	assert.Nil(test, root.Group.VariableDefs)
}

func TestChildGroups(test *testing.T) {
	root := mustParse(test, `netcdf foo {
   group: bar {
 variables:
 int i;
 }
 group: baz { }
}`)
	groups := root.Group.Groups()
	require.Len(test, groups, 2)
	assert.Equal(test, "bar", groups[0].Name)
	assert.Equal(test, "baz", groups[1].Name)
	require.Len(test, groups[0].Variables(), 1)
	assert.Equal(test, "i", groups[0].Variables()[0].Name)
	assert.Equal(test, Int, groups[0].Variables()[0].BasicType())

	assert.Same(test, groups[0], root.FindGroup("/bar"))
	assert.Same(test, root.Group, root.FindGroup("/"))
	assert.Nil(test, root.FindGroup("/nope"))
	assert.Same(test, groups[0].Variables()[0], root.FindVariable("/bar/i"))
	assert.Nil(test, root.FindVariable("/baz/i"))
}

func TestTypes(test *testing.T) {
	root := mustParse(test, `netcdf foo {
   types:
      int enum enum_t { entry1 = 1, entry2 = 3};
      uint(*) vlen_t;
      opaque(11) opaque_t;
      compound combined { enum_t t1; vlen_t t2, t3; };
}`)
	types := root.Group.Types()
	require.Len(test, types, 4)
	assert.Equal(test, "enum_t", types[0].TypeName())
	assert.Equal(test, "vlen_t", types[1].TypeName())
	assert.Equal(test, "opaque_t", types[2].TypeName())
	assert.Equal(test, "combined", types[3].TypeName())

	enum := types[0].(*EnumType)
	assert.Equal(test, Int, enum.Base)
	assert.Equal(test, []EnumValue{{Name: "entry1", Value: 1}, {Name: "entry2", Value: 3}}, enum.Values)
	assert.Equal(test, Uint, types[1].(*VLenType).Base)
	assert.Equal(test, 11, types[2].(*OpaqueType).Length)

	compound := types[3].(*CompoundType)
	require.Len(test, compound.Fields, 3)
	assert.Equal(test, "t1", compound.Fields[0].Name)
	assert.Same(test, enum, compound.Fields[0].Type)
	assert.Equal(test, "t3", compound.Fields[2].Name)
	assert.Same(test, types[1], compound.Fields[2].Type)
}

func TestArrayTypes(test *testing.T) {
	root := mustParse(test, `netcdf foo {
  dimensions:
    n = 2 ;
  types:
    float(n, 3) grid_t ;
}`)
	grid := root.Group.FindType("grid_t").(*ArrayType)
	assert.Equal(test, Float, grid.Base)
	assert.Equal(test, []int{2, 3}, grid.Shape())
	assert.Equal(test, "ArrayType grid_t float(n, 3)", grid.Description())

	_, diags := ParseWithDiagnostics("netcdf foo { types: float(m) grid_t ; }", Options{})
	require.Len(test, errorDiagnostics(diags), 1)
	assert.Contains(test, diags[0].Message, `unknown dimension "m"`)
}

func TestTypeErrors(test *testing.T) {
	cases := map[string]string{
		"netcdf foo { types: float enum e_t { a = 1 } ; }":       "enum base type must be an integer type",
		"netcdf foo { types: int enum e_t { a = 1, a = 2 } ; }":  `duplicate enumerator "a"`,
		"netcdf foo { types: compound c_t { int x ; } ; }":       "compound fields must have a declared type",
		"netcdf foo { types: compound c_t { missing_t x ; } ; }": `unknown type "missing_t"`,
		"netcdf foo { types: bogus(*) v_t ; }":                   `unknown base type "bogus"`,
		"netcdf foo { types: opaque(x) o_t ; }":                  "not a number",
		"netcdf foo { types: opaque(-3) o_t ; }":                 "negative opaque size -3",
	}
	for src, msg := range cases {
		_, err := ParseString(src, Options{})
		assert.ErrorContains(test, err, msg, src)
	}
}

func TestGlobalAttributes(test *testing.T) {
	root := mustParse(test, `netcdf foo {
   variables:
      :untyped_global_attribute = "global";
      int :globalatt = 1;
      char :charatt = "a";
      char :charatt2 = "é";
      :stratt = "aéb";
      int :list = 1, 2, 3 ;
}`)
	assert.Empty(test, root.Group.Variables())
	attrs := root.Group.Attributes()
	require.Len(test, attrs, 6)
	assert.Equal(test, attrs, root.Group.GlobalAttributes())

	expected := []struct {
		name  string
		t     ElementaryType
		value string
	}{
		{"untyped_global_attribute", String, "global"},
		{"globalatt", Int, "1"},
		{"charatt", Char, "a"},
		{"charatt2", Char, "é"},
		{"stratt", String, "aéb"},
		{"list", Int, "[1, 2, 3]"},
	}
	for i, e := range expected {
		assert.Equal(test, e.name, attrs[i].Name)
		assert.True(test, attrs[i].IsGlobal())
		require.NotNil(test, attrs[i].Type)
		assert.Equal(test, Elementary(e.t), *attrs[i].Type)
		assert.Equal(test, e.value, attrs[i].String())
	}
	assert.Equal(test, Array{IntNumber(Int, 1), IntNumber(Int, 2), IntNumber(Int, 3)}, attrs[5].Value)
}

func TestAttributes(test *testing.T) {
	root := mustParse(test, `netcdf foo {
   variables:
      int foo;
      foo:_FillValue = 1;
      float bar;
      bar:_FillValue = 1.4;
      bar:valid_range = 1.0, 2.5;
      bar:long_name = Some long name ;
      bar:comment = "free text" ;
}`)
	require.Len(test, root.Group.Variables(), 2)
	attrs := root.Group.Attributes()
	require.Len(test, attrs, 5)

	assert.Equal(test, "_FillValue", attrs[0].Name)
	assert.Equal(test, "foo", attrs[0].Variable)
	assert.Equal(test, Elementary(Int), *attrs[0].Type)
	assert.Equal(test, "1", attrs[0].String())

	assert.Equal(test, Elementary(Float), *attrs[1].Type)
	assert.Equal(test, "1.4", attrs[1].String())
	assert.Equal(test, "valid_range", attrs[2].Name)
	assert.Equal(test, Elementary(Float), *attrs[2].Type)
	assert.Equal(test, "[1, 2.5]", attrs[2].String())

	assert.Equal(test, Elementary(String), *attrs[3].Type)
	assert.Equal(test, Text("Some long name"), attrs[3].Value)
	assert.Nil(test, attrs[4].Type)
	assert.Equal(test, Text("free text"), attrs[4].Value)

	assert.Len(test, root.Group.VariableAttributes("bar"), 4)
	assert.Empty(test, root.Group.GlobalAttributes())
}

func TestRootGlobalAttributes(test *testing.T) {
	root := mustParse(test, `netcdf foo {
      int :global_typed_attribute = 1;
      :_NCProperties = "version=2,netcdf=4.8.1";
      :_IsNetcdf4 = 1 ;
      :_Format = "netCDF-4" ;
   variables:
     float bar;
}`)
	require.Len(test, root.Group.Variables(), 1)
	attrs := root.Group.Attributes()
	require.Len(test, attrs, 4)

	assert.Equal(test, "global_typed_attribute", attrs[0].Name)
	assert.Equal(test, Elementary(Int), *attrs[0].Type)
	assert.Equal(test, "1", attrs[0].String())

	assert.Equal(test, "_NCProperties", attrs[1].Name)
	assert.Equal(test, Elementary(String), *attrs[1].Type)
	assert.Equal(test, "version=2,netcdf=4.8.1", attrs[1].String())

	assert.Equal(test, "_IsNetcdf4", attrs[2].Name)
	assert.Equal(test, Elementary(String), *attrs[2].Type)
	assert.Equal(test, Text("1"), attrs[2].Value)

	assert.Equal(test, "_Format", attrs[3].Name)
	assert.Equal(test, "netCDF-4", attrs[3].String())
}

func TestVariables(test *testing.T) {
	root := mustParse(test, `netcdf foo {
  dimensions:
    dim = 5;
    time = UNLIMITED ;
  variables:
    int bar;
    float baz;
    ushort bee(dim, time);
}`)
	vars := root.Group.Variables()
	require.Len(test, vars, 3)
	assert.Equal(test, Int, vars[0].BasicType())
	assert.Equal(test, "bar", vars[0].Name)
	assert.True(test, vars[0].IsScalar())
	assert.Equal(test, Float, vars[1].BasicType())
	assert.Equal(test, Ushort, vars[2].BasicType())
	assert.Equal(test, []string{"dim", "time"}, vars[2].DimensionNames())
	assert.Equal(test, "ushort bee(dim, time)", vars[2].String())

	dims := root.Group.Dimensions()
	require.Len(test, dims, 2)
	assert.Equal(test, Dimension{Name: "dim", Length: 5}, dims[0])
	assert.True(test, dims[1].IsUnlimited())
	dim, ok := root.Group.ResolveDimension("dim")
	assert.True(test, ok)
	assert.Equal(test, 5, dim.Length)
}

func TestSharedVariableType(test *testing.T) {
	root := mustParse(test, `netcdf foo {
  dimensions:
    x = 2, y = 3 ;
  variables:
    double a, b(x, y), c ;
    int d ;
}`)
	vars := root.Group.Variables()
	require.Len(test, vars, 4)
	for _, v := range vars[:3] {
		assert.Equal(test, Double, v.BasicType(), v.Name)
	}
	assert.Equal(test, []string{"x", "y"}, vars[1].DimensionNames())
	assert.Equal(test, Int, vars[3].BasicType())
	assert.Len(test, root.Group.Dimensions(), 2)
}

func TestSharedVariableTypeMissingName(test *testing.T) {
	cases := map[string]string{
		"netcdf foo { variables: int a, }":                 `expected a variable name after ',', found "}"`,
		"netcdf foo { variables: int a, data: a = 1 ; }":   `expected a variable name after ',', found "data:"`,
		"netcdf foo { variables: int a(x), }":              `expected a variable name after ',', found "}"`,
		"netcdf foo { variables: int a, b, c ; float d, }": `found "}"`,
	}
	for src, msg := range cases {
		root, diags := ParseWithDiagnostics(src, Options{})
		require.NotNil(test, root, src)
		errs := errorDiagnostics(diags)
		require.NotEmpty(test, errs, src)
		assert.Contains(test, errs[0].Message, msg, src)
		assert.Nil(test, root.Group.VariableDefs, src)
	}
}

func TestUndeclaredAttributeOwner(test *testing.T) {
	src := `netcdf foo {
  variables:
    float temperature ;
    temprature:units = "K" ;
}`
	_, err := ParseString(src, Options{})
	var perr *ParseError
	require.True(test, errors.As(err, &perr))

	root, diags := ParseWithDiagnostics(src, Options{})
	require.NotNil(test, root)
	errs := errorDiagnostics(diags)
	require.Len(test, errs, 1)
	assert.Contains(test, errs[0].Message, `undeclared variable "temprature"`)
	assert.Equal(test, "temperature", errs[0].Suggestion)
	assert.Equal(test, 3, errs[0].Location.Line)
}

func TestRecovery(test *testing.T) {
	root, diags := ParseWithDiagnostics(`netcdf foo {
  dimensions:
    x = 1 ;
    bad! = 2 ;
  variables:
    int a ;
  junk ;
  group: child { variables: int b ; }
}`, Options{})
	require.NotNil(test, root)
	errs := errorDiagnostics(diags)
	require.Len(test, errs, 2)
	assert.Contains(test, errs[0].Message, "expected a dimension name")
	assert.Contains(test, errs[1].Message, `unexpected "junk"`)
	assert.Nil(test, root.Group.DimensionDefs)
	require.Len(test, root.Group.Variables(), 1)
	assert.Equal(test, "a", root.Group.Variables()[0].Name)
	require.Len(test, root.Group.Groups(), 1)
	assert.Len(test, root.Group.Groups()[0].Variables(), 1)
}

func TestRecoveryInsideBraces(test *testing.T) {
	root, diags := ParseWithDiagnostics(`netcdf foo {
  group: bar {
    types:
      int enum e_t { a = 1, b = x } ;
    variables:
      int v ;
  }
  types:
    int(*) vlen_t ;
  variables:
    vlen_t w ;
  data:
    w = {1, y, 3} ;
  variables:
    int z ;
}`, Options{})
	require.NotNil(test, root)
	errs := errorDiagnostics(diags)
	require.Len(test, errs, 2)
	assert.Contains(test, errs[0].Message, `"x"`)
	assert.Contains(test, errs[1].Message, `"y"`)

	bar := root.FindGroup("/bar")
	require.NotNil(test, bar)
	assert.Empty(test, bar.Types())
	require.Len(test, bar.Variables(), 1)
	assert.Equal(test, "v", bar.Variables()[0].Name)

	var names []string
	for _, v := range root.Group.Variables() {
		names = append(names, v.Name)
	}
	assert.Equal(test, []string{"w", "z"}, names)
	assert.Nil(test, root.Group.Variables()[0].Value)
}

func TestRecoveryRestoresGroupBrace(test *testing.T) {
	root, diags := ParseWithDiagnostics(`netcdf foo {
  group: bar {
    variables:
      int v(}
  variables:
    int z ;
}`, Options{})
	require.NotNil(test, root)
	require.Len(test, errorDiagnostics(diags), 1)
	bar := root.FindGroup("/bar")
	require.NotNil(test, bar)
	assert.Empty(test, bar.Variables())
	require.Len(test, root.Group.Variables(), 1)
	assert.Equal(test, "z", root.Group.Variables()[0].Name)
}

func TestMissingCloseBrace(test *testing.T) {
	_, err := ParseString("netcdf foo { variables: int a ;", Options{})
	assert.ErrorContains(test, err, `missing '}' at end of group "foo"`)
}

func TestTrailingTokens(test *testing.T) {
	root, err := ParseString("netcdf foo { } extra", Options{})
	require.NoError(test, err)
	assert.Equal(test, "foo", root.Name())

	_, diags := ParseWithDiagnostics("netcdf foo { } extra", Options{})
	require.Len(test, diags, 1)
	assert.Equal(test, SeverityWarning, diags[0].Severity)
}

func TestDataSection(test *testing.T) {
	root := mustParse(test, `netcdf foo {
  dimensions:
    x = 3 ;
  types:
    int(*) vlen_t ;
    ubyte enum cloud_t {Clear = 0, Stratus = 2} ;
    opaque(2) blob_t ;
    compound pair_t { vlen_t v ; cloud_t c ; } ;
  variables:
    int a(x) ;
    cloud_t sky ;
    vlen_t ragged ;
    pair_t p ;
    string name ;
    blob_t b ;
    char c ;
  data:
    a = 1, 2, 3 ;
    sky = Stratus ;
    ragged = {1, 2} ;
    p = {{4}, Clear} ;
    name = "bob" ;
    b = 0xCAFE ;
    c = "z" ;
}`)
	g := root.Group
	assert.Equal(test, Array{IntNumber(Int, 1), IntNumber(Int, 2), IntNumber(Int, 3)}, g.FindVariable("a").Value)
	assert.Equal(test, UintNumber(Ubyte, 2), g.FindVariable("sky").Value)
	assert.Equal(test, Sequence{IntNumber(Int, 1), IntNumber(Int, 2)}, g.FindVariable("ragged").Value)
	assert.Equal(test, Compound{Sequence{IntNumber(Int, 4)}, UintNumber(Ubyte, 0)}, g.FindVariable("p").Value)
	assert.Equal(test, Text("bob"), g.FindVariable("name").Value)
	assert.Equal(test, Text("0xCAFE"), g.FindVariable("b").Value)
	assert.Equal(test, Text("z"), g.FindVariable("c").Value)
	assert.Equal(test, "{{4}, 0}", g.FindVariable("p").Value.String())
}

func TestDataErrors(test *testing.T) {
	cases := map[string]string{
		"netcdf foo { variables: int a ; data: b = 1 ; }":                                `data for undeclared variable "b"`,
		"netcdf foo { variables: ushort u ; data: u = -1 ; }":                            "negative value",
		"netcdf foo { variables: byte b ; data: b = 300 ; }":                             "value out of range",
		"netcdf foo { types: int enum e_t {A = 1} ; variables: e_t e ; data: e = B ; }":  `"B" is not a value of enum "e_t"`,
		"netcdf foo { types: int(2, 2) m_t ; variables: m_t m ; data: m = {1, 2, 3} ; }": "has 3 elements, expected 4",
		"netcdf foo { types: int(*) v_t ; variables: v_t v ; data: v = 1 ; }":            `expected "{"`,
	}
	for src, msg := range cases {
		_, err := ParseString(src, Options{})
		assert.ErrorContains(test, err, msg, src)
	}
}

func TestDataIsAppliedPerSection(test *testing.T) {
	root, diags := ParseWithDiagnostics(`netcdf foo {
  variables:
    int a, b ;
  data:
    a = 1 ;
    b = oops ;
}`, Options{})
	require.Len(test, errorDiagnostics(diags), 1)
	assert.Nil(test, root.Group.FindVariable("a").Value)
	assert.Nil(test, root.Group.FindVariable("b").Value)
}

func TestNumberModes(test *testing.T) {
	src := "netcdf foo { variables: int a ; data: a = 12abc ; }"

	root, diags := ParseWithDiagnostics(src, Options{Numbers: Permissive})
	assert.Empty(test, diags)
	assert.Equal(test, IntNumber(Int, 12), root.Group.FindVariable("a").Value)

	root, diags = ParseWithDiagnostics(src, Options{Numbers: Warn})
	require.Len(test, diags, 1)
	assert.Equal(test, SeverityWarning, diags[0].Severity)
	assert.Equal(test, IntNumber(Int, 12), root.Group.FindVariable("a").Value)

	_, err := ParseString(src, Options{Numbers: Strict})
	assert.ErrorContains(test, err, `invalid int literal "12abc"`)

	root, err = ParseString("netcdf foo { variables: int a ; float f ; data: a = 12L ; f = 2.5f ; }", Options{Numbers: Strict})
	require.NoError(test, err)
	assert.Equal(test, IntNumber(Int, 12), root.Group.FindVariable("a").Value)
	assert.Equal(test, FloatNumber(Float, 2.5), root.Group.FindVariable("f").Value)
}

func TestUnquotedStrings(test *testing.T) {
	src := `netcdf foo { variables: string s ; data: s = hello ; }`

	root, diags := ParseWithDiagnostics(src, Options{Numbers: Permissive})
	assert.Empty(test, diags)
	assert.Equal(test, Text("hello"), root.Group.FindVariable("s").Value)

	root, diags = ParseWithDiagnostics(src, Options{Numbers: Warn})
	require.Len(test, diags, 1)
	assert.Equal(test, SeverityWarning, diags[0].Severity)
	assert.Contains(test, diags[0].Message, `unquoted string "hello"`)
	assert.Equal(test, Text("hello"), root.Group.FindVariable("s").Value)

	_, err := ParseString(src, Options{Numbers: Strict})
	assert.ErrorContains(test, err, `string value for "s" must be quoted, found "hello"`)

	root, err = ParseString(`netcdf foo { variables: string s ; data: s = "hello" ; }`, Options{Numbers: Strict})
	require.NoError(test, err)
	assert.Equal(test, Text("hello"), root.Group.FindVariable("s").Value)
}

func TestTypePaths(test *testing.T) {
	root := mustParse(test, `netcdf root {
  types:
    int(*) shared_t ;
  variables:
    a/local_t y ;
  group: a {
    types:
      short(*) local_t ;
      byte(*) shared_t ;
    variables:
      shared_t inner ;
  }
  group: b {
    variables:
      /a/local_t x ;
      shared_t outer ;
  }
}`)
	a := root.FindGroup("/a")
	b := root.FindGroup("/b")
	require.NotNil(test, a)
	require.NotNil(test, b)
	local := a.FindType("local_t")

	x, _ := b.FindVariable("x").Type.Complex()
	assert.Same(test, local, x)
	// a plain name resolves in the innermost scope that declares it
	inner, _ := a.FindVariable("inner").Type.Complex()
	assert.Same(test, a.FindType("shared_t"), inner)
	outer, _ := b.FindVariable("outer").Type.Complex()
	assert.Same(test, root.Group.FindType("shared_t"), outer)
	assert.Equal(test, Default, b.FindVariable("outer").BasicType())
}

func TestTypePathErrors(test *testing.T) {
	src := `netcdf root {
  group: alpha { types: int(*) v_t ; }
  variables:
    /alpah/v_t x ;
}`
	_, diags := ParseWithDiagnostics(src, Options{})
	errs := errorDiagnostics(diags)
	require.Len(test, errs, 1)
	assert.Contains(test, errs[0].Message, `no group "alpah"`)
	assert.Equal(test, "alpha", errs[0].Suggestion)

	_, err := ParseString("netcdf root { group: g { } variables: /g/w_t x ; }", Options{})
	assert.ErrorContains(test, err, `no type "w_t"`)
}

func TestParseFile(test *testing.T) {
	_, err := ParseFile("testdata/does-not-exist.cdl", Options{})
	assert.Error(test, err)

	root, err := ParseFile("testdata/weather.cdl", Options{})
	require.NoError(test, err)
	assert.Equal(test, "weather", root.Name())
	assert.NotEmpty(test, root.Group.Variables())
}
