package cdl

import (
	"fmt"
)

// Equal compares two schema types structurally. An elementary type never
// equals a complex one.
func (t SchemaType) Equal(other SchemaType) bool {
	if t.complex == nil || other.complex == nil {
		return t.complex == nil && other.complex == nil && t.elementary == other.elementary
	}
	return EqualComplex(t.complex, other.complex)
}

// EqualComplex compares complex types of the same variant field by field.
// Types of different variants are never equal.
func EqualComplex(a, b ComplexType) bool {
	switch a := a.(type) {
	case *OpaqueType:
		b, ok := b.(*OpaqueType)
		return ok && a.Equal(b)
	case *EnumType:
		b, ok := b.(*EnumType)
		return ok && a.Equal(b)
	case *VLenType:
		b, ok := b.(*VLenType)
		return ok && a.Equal(b)
	case *ArrayType:
		b, ok := b.(*ArrayType)
		return ok && a.Equal(b)
	case *CompoundType:
		b, ok := b.(*CompoundType)
		return ok && a.Equal(b)
	default:
		panic(fmt.Sprintf("unsupported complex type %T", a))
	}
}

func (t *OpaqueType) Equal(other *OpaqueType) bool {
	if t == nil || other == nil {
		return t == other
	}
	return t.Name == other.Name && t.Length == other.Length
}

func (t *EnumType) Equal(other *EnumType) bool {
	if t == nil || other == nil {
		return t == other
	}
	if t.Name != other.Name || t.Base != other.Base || len(t.Values) != len(other.Values) {
		return false
	}
	for i, v := range t.Values {
		if v != other.Values[i] {
			return false
		}
	}
	return true
}

func (t *VLenType) Equal(other *VLenType) bool {
	if t == nil || other == nil {
		return t == other
	}
	return t.Name == other.Name && t.Base == other.Base
}

func (t *ArrayType) Equal(other *ArrayType) bool {
	if t == nil || other == nil {
		return t == other
	}
	if t.Name != other.Name || t.Base != other.Base || len(t.Dimensions) != len(other.Dimensions) {
		return false
	}
	for i, d := range t.Dimensions {
		if d != other.Dimensions[i] {
			return false
		}
	}
	return true
}

func (t *CompoundType) Equal(other *CompoundType) bool {
	if t == nil || other == nil {
		return t == other
	}
	if t.Name != other.Name || len(t.Fields) != len(other.Fields) {
		return false
	}
	for i, f := range t.Fields {
		o := other.Fields[i]
		if f.Name != o.Name || !EqualComplex(f.Type, o.Type) {
			return false
		}
	}
	return true
}
