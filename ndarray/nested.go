package ndarray

import (
	"fmt"
	"reflect"
)

// Nested adapts a Go value of nested slices, such as [][]float32, or a plain
// T for depth 0.
type Nested[T any] struct {
	v     reflect.Value
	depth int
}

// NewNested wraps ptr, which must point to a T or to slices nested around T.
func NewNested[T any](ptr any) (*Nested[T], error) {
	rv := reflect.ValueOf(ptr)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return nil, fmt.Errorf("%w: need a non-nil pointer, got %T", ErrUnsupported, ptr)
	}
	depth, err := depthOf[T](rv.Type().Elem())
	if err != nil {
		return nil, err
	}
	return &Nested[T]{v: rv.Elem(), depth: depth}, nil
}

// Of wraps a scalar or nested slice value. The returned container shares the
// slice backing arrays with v.
func Of[T any](v any) (*Nested[T], error) {
	if v == nil {
		return nil, fmt.Errorf("%w: nil value", ErrUnsupported)
	}
	ptr := reflect.New(reflect.TypeOf(v))
	ptr.Elem().Set(reflect.ValueOf(v))
	return NewNested[T](ptr.Interface())
}

// Depth returns the static nesting depth of values of type typ holding T.
func Depth[T any](v any) (int, error) {
	return depthOf[T](reflect.TypeOf(v))
}

func depthOf[T any](typ reflect.Type) (int, error) {
	leaf := reflect.TypeFor[T]()
	depth := 0
	for t := typ; t != nil; t = t.Elem() {
		if t == leaf {
			return depth, nil
		}
		if t.Kind() != reflect.Slice {
			break
		}
		depth++
	}
	return 0, fmt.Errorf("%w: %v is not %v or nested slices of it", ErrUnsupported, typ, leaf)
}

func (n *Nested[T]) Depth() int {
	return n.depth
}

// Value returns the wrapped value.
func (n *Nested[T]) Value() any {
	return n.v.Interface()
}

// Shape measures the first element at each level and checks that every
// sibling has the same full shape. Empty levels report 0 for everything
// below them.
func (n *Nested[T]) Shape() ([]int, error) {
	return shapeOf(n.v, n.depth)
}

func shapeOf(v reflect.Value, depth int) ([]int, error) {
	if depth == 0 {
		return []int{}, nil
	}
	shape := make([]int, depth)
	shape[0] = v.Len()
	if v.Len() == 0 || depth == 1 {
		return shape, nil
	}
	first, err := shapeOf(v.Index(0), depth-1)
	if err != nil {
		return nil, err
	}
	for i := 1; i < v.Len(); i++ {
		sibling, err := shapeOf(v.Index(i), depth-1)
		if err != nil {
			return nil, err
		}
		if !equalShapes(first, sibling) {
			return nil, fmt.Errorf("%w: element %d has shape %v, element 0 has %v", ErrShapeMismatch, i, sibling, first)
		}
	}
	copy(shape[1:], first)
	return shape, nil
}

func equalShapes(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// Resize sizes every level, outermost first. Existing leading elements are
// kept.
func (n *Nested[T]) Resize(shape []int) error {
	if len(shape) != n.depth {
		return fmt.Errorf("%w: shape %v for depth %d", ErrDimensionCount, shape, n.depth)
	}
	if _, err := checkShape(shape); err != nil {
		return err
	}
	resize(n.v, shape)
	return nil
}

func resize(v reflect.Value, shape []int) {
	if len(shape) == 0 {
		return
	}
	if v.Len() != shape[0] {
		s := reflect.MakeSlice(v.Type(), shape[0], shape[0])
		reflect.Copy(s, v)
		v.Set(s)
	}
	for i := 0; i < shape[0]; i++ {
		resize(v.Index(i), shape[1:])
	}
}

func (n *Nested[T]) Walk(visit func(leaf *T) error) error {
	return walk(n.v, n.depth, visit)
}

func walk[T any](v reflect.Value, depth int, visit func(leaf *T) error) error {
	if depth == 0 {
		return visit(v.Addr().Interface().(*T))
	}
	for i := 0; i < v.Len(); i++ {
		if err := walk(v.Index(i), depth-1, visit); err != nil {
			return err
		}
	}
	return nil
}
