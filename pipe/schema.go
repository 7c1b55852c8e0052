package pipe

import (
	"errors"
	"fmt"

	"github.com/boynton/cdl"
	"github.com/boynton/cdl/ndarray"
)

var ErrUnknownVariable = errors.New("pipe: no such variable")

// Check verifies that a container of T fits the declared variable: T must be
// the Go type of the variable's elementary type and the container depth must
// equal the number of dimensions.
func Check[T any](v *cdl.Variable, c ndarray.Container[T]) error {
	base := v.BasicType()
	if base == cdl.Default {
		return fmt.Errorf("%w: %q has user-defined type %s", ErrKindMismatch, v.Name, v.Type.Name())
	}
	if kind := Kind[T](); kind != base.GoName() {
		return fmt.Errorf("%w: %q is %s, holds %s, not %s", ErrKindMismatch, v.Name, base, base.GoName(), kind)
	}
	if c.Depth() != len(v.Dimensions) {
		return fmt.Errorf("%w: %q has %d dimensions, container has depth %d", ndarray.ErrDimensionCount, v.Name, len(v.Dimensions), c.Depth())
	}
	return nil
}

func lookup(root *cdl.RootGroup, path string) (*cdl.Variable, error) {
	if err := ValidatePath(path); err != nil {
		return nil, err
	}
	v := root.FindVariable(path)
	if v == nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownVariable, path)
	}
	return v, nil
}

// WriteVariable is Write after checking c against the variable declared at
// path in root.
func WriteVariable[T any](p *Pipe, root *cdl.RootGroup, path string, c ndarray.Container[T]) error {
	v, err := lookup(root, path)
	if err != nil {
		return err
	}
	if err := Check(v, c); err != nil {
		return err
	}
	return Write(p, path, c)
}

// ReadVariable is Read after checking c against the variable declared at
// path in root.
func ReadVariable[T any](p *Pipe, root *cdl.RootGroup, path string, c ndarray.Container[T]) error {
	v, err := lookup(root, path)
	if err != nil {
		return err
	}
	if err := Check(v, c); err != nil {
		return err
	}
	return Read(p, path, c)
}
