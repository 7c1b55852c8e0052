// Package ndarray flattens N-dimensional containers into a contiguous buffer
// plus a shape, and rebuilds them from one.
package ndarray

import (
	"errors"
	"fmt"
	"math"
)

var (
	ErrShapeMismatch  = errors.New("ndarray: sibling containers have different shapes")
	ErrDimensionCount = errors.New("ndarray: shape does not match container depth")
	ErrShortBuffer    = errors.New("ndarray: not enough elements for shape")
	ErrUnsupported    = errors.New("ndarray: unsupported container type")
	ErrInvalidShape   = errors.New("ndarray: invalid shape")
)

// Container is what the algorithms need from an N-dimensional container of
// T. Depth is fixed for a container: 0 is a scalar, 1 a vector and so on.
type Container[T any] interface {
	Depth() int
	// Shape returns one extent per level, outermost first.
	Shape() ([]int, error)
	// Resize makes the container exactly shape, which must have Depth entries.
	Resize(shape []int) error
	// Walk visits every leaf depth-first, outermost index slowest.
	Walk(visit func(leaf *T) error) error
}

// NumberOfElements is the product of the extents. An empty shape has none.
func NumberOfElements(shape []int) int {
	if len(shape) == 0 {
		return 0
	}
	n := 1
	for _, extent := range shape {
		n *= extent
	}
	return n
}

// checkShape returns the number of leaves a container of shape holds, one for
// a scalar. Negative extents and sizes that overflow int are rejected.
func checkShape(shape []int) (int, error) {
	size := 1
	for _, extent := range shape {
		if extent < 0 {
			return 0, fmt.Errorf("%w: negative extent in %v", ErrInvalidShape, shape)
		}
		if extent != 0 && size > math.MaxInt/extent {
			return 0, fmt.Errorf("%w: %v is too large", ErrInvalidShape, shape)
		}
		size *= extent
	}
	return size, nil
}

// Flatten copies the leaves of c into a new buffer in walk order. A scalar
// yields one element and an empty shape.
func Flatten[T any](c Container[T]) ([]T, []int, error) {
	shape, err := c.Shape()
	if err != nil {
		return nil, nil, err
	}
	size := NumberOfElements(shape)
	if len(shape) == 0 {
		size = 1
	}
	flat := make([]T, 0, size)
	err = c.Walk(func(leaf *T) error {
		flat = append(flat, *leaf)
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return flat, shape, nil
}

// Unflatten resizes c to shape and fills it from flat in walk order. Extra
// elements in flat are ignored.
func Unflatten[T any](c Container[T], flat []T, shape []int) error {
	if len(shape) != c.Depth() {
		return ErrDimensionCount
	}
	need, err := checkShape(shape)
	if err != nil {
		return err
	}
	if len(flat) < need {
		return ErrShortBuffer
	}
	if err := c.Resize(shape); err != nil {
		return err
	}
	i := 0
	return c.Walk(func(leaf *T) error {
		if i >= len(flat) {
			return ErrShortBuffer
		}
		*leaf = flat[i]
		i++
		return nil
	})
}
