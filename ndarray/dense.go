package ndarray

import (
	"fmt"
)

// Dense is a container backed by one flat slice in row-major order.
type Dense[T any] struct {
	Data []T
	Dims []int
}

// NewDense makes an empty container of the given depth. Depth 0 holds a
// single zero value.
func NewDense[T any](depth int) *Dense[T] {
	d := &Dense[T]{Dims: make([]int, depth)}
	if depth == 0 {
		d.Data = make([]T, 1)
	}
	return d
}

func (d *Dense[T]) Depth() int {
	return len(d.Dims)
}

func (d *Dense[T]) Shape() ([]int, error) {
	size := NumberOfElements(d.Dims)
	if len(d.Dims) == 0 {
		size = 1
	}
	if len(d.Data) != size {
		return nil, fmt.Errorf("%w: %d elements for shape %v", ErrShapeMismatch, len(d.Data), d.Dims)
	}
	return append([]int{}, d.Dims...), nil
}

func (d *Dense[T]) Resize(shape []int) error {
	if len(shape) != len(d.Dims) {
		return fmt.Errorf("%w: shape %v for depth %d", ErrDimensionCount, shape, len(d.Dims))
	}
	size, err := checkShape(shape)
	if err != nil {
		return err
	}
	if cap(d.Data) >= size {
		d.Data = d.Data[:size]
	} else {
		data := make([]T, size)
		copy(data, d.Data)
		d.Data = data
	}
	copy(d.Dims, shape)
	return nil
}

func (d *Dense[T]) Walk(visit func(leaf *T) error) error {
	for i := range d.Data {
		if err := visit(&d.Data[i]); err != nil {
			return err
		}
	}
	return nil
}

// At returns the element at the given index, one coordinate per dimension.
func (d *Dense[T]) At(index ...int) (T, error) {
	var zero T
	if len(index) != len(d.Dims) {
		return zero, fmt.Errorf("%w: index %v for depth %d", ErrDimensionCount, index, len(d.Dims))
	}
	offset := 0
	for i, x := range index {
		if x < 0 || x >= d.Dims[i] {
			return zero, fmt.Errorf("ndarray: index %v out of range for shape %v", index, d.Dims)
		}
		offset = offset*d.Dims[i] + x
	}
	return d.Data[offset], nil
}
