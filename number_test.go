package cdl

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseNumber(test *testing.T) {
	cases := []struct {
		text string
		t    ElementaryType
		want Number
		rest string
	}{
		{"42", Int, IntNumber(Int, 42), ""},
		{"-7", Short, IntNumber(Short, -7), ""},
		{"+7", Ushort, UintNumber(Ushort, 7), ""},
		{"255ub", Ubyte, UintNumber(Ubyte, 255), "ub"},
		{"12abc", Int64, IntNumber(Int64, 12), "abc"},
		{"18446744073709551615", Uint64, UintNumber(Uint64, math.MaxUint64), ""},
		{"1.5", Double, FloatNumber(Double, 1.5), ""},
		{"2.5e3f", Float, FloatNumber(Float, 2500), "f"},
		{"-1.e-2", Double, FloatNumber(Double, -0.01), ""},
		{".5", Double, FloatNumber(Double, 0.5), ""},
		{"7", Double, FloatNumber(Double, 7), ""},
		{"3e", Double, FloatNumber(Double, 3), "e"},
		{"-Infinity", Double, FloatNumber(Double, math.Inf(-1)), ""},
	}
	for _, c := range cases {
		n, rest, err := ParseNumber(c.text, c.t)
		require.NoError(test, err, c.text)
		assert.Equal(test, c.want, n, c.text)
		assert.Equal(test, c.rest, rest, c.text)
	}
}

func TestParseNumberErrors(test *testing.T) {
	cases := []struct {
		text string
		t    ElementaryType
		msg  string
	}{
		{"abc", Int, "not a number"},
		{"-", Int, "not a number"},
		{".", Double, "not a number"},
		{"128", Byte, "value out of range"},
		{"-1", Uint, "negative value"},
		{"1", String, "not a numeric type"},
		{"4294967296", Uint, "value out of range"},
	}
	for _, c := range cases {
		_, _, err := ParseNumber(c.text, c.t)
		assert.ErrorContains(test, err, c.msg, c.text)
	}
}

func TestNumberValue(test *testing.T) {
	assert.Equal(test, int8(-3), IntNumber(Byte, -3).Value())
	assert.Equal(test, uint16(9), UintNumber(Ushort, 9).Value())
	assert.Equal(test, int32(5), IntNumber(Long, 5).Value())
	assert.Equal(test, float32(1.4), FloatNumber(Float, 1.4).Value())
	assert.Equal(test, 1.4, FloatNumber(Double, 1.4).Value())
	assert.Nil(test, Number{}.Value())

	assert.Equal(test, "1.4", FloatNumber(Float, 1.4).String())
	assert.Equal(test, "1e+06", FloatNumber(Double, 1e6).String())
	assert.Equal(test, int64(200), IntegerNumber(Ubyte, 200).Int64())
	assert.Equal(test, 200.0, IntegerNumber(Ubyte, 200).Float64())
	assert.Equal(test, FloatNumber(Double, 3), IntegerNumber(Double, 3))

	assert.True(test, IntNumber(Int, 1).Equal(IntNumber(Int, 1)))
	assert.False(test, IntNumber(Int, 1).Equal(IntNumber(Int64, 1)))

	b, err := json.Marshal(Array{IntNumber(Int, 1), FloatNumber(Double, 2.5)})
	require.NoError(test, err)
	assert.Equal(test, "[1,2.5]", string(b))
}

func TestNumberModeNames(test *testing.T) {
	for _, mode := range []NumberMode{Permissive, Warn, Strict} {
		parsed, err := ParseNumberMode(mode.String())
		require.NoError(test, err)
		assert.Equal(test, mode, parsed)
	}
	mode, err := ParseNumberMode("")
	require.NoError(test, err)
	assert.Equal(test, Permissive, mode)
	_, err = ParseNumberMode("lenient")
	assert.Error(test, err)

	assert.True(test, IsTypeSuffix("ULL"))
	assert.True(test, IsTypeSuffix("f"))
	assert.False(test, IsTypeSuffix("abc"))
	assert.False(test, IsTypeSuffix(""))
}
