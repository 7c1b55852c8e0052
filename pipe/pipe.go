// Package pipe moves N-dimensional arrays between processes as
// self-describing CBOR frames addressed by a variable path.
package pipe

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"reflect"
	"strings"

	"github.com/fxamacker/cbor/v2"

	"github.com/boynton/cdl/ndarray"
	"github.com/boynton/cdl/util"
)

var (
	ErrInvalidPath    = errors.New("pipe: invalid variable path")
	ErrUnexpectedPath = errors.New("pipe: frame is for a different path")
	ErrKindMismatch   = errors.New("pipe: frame holds a different element type")
)

// frame is the wire format. Data is decoded only once the header has been
// checked.
type frame struct {
	Path  string          `cbor:"1,keyasint"`
	Kind  string          `cbor:"2,keyasint"`
	Shape []int           `cbor:"3,keyasint"`
	Data  cbor.RawMessage `cbor:"4,keyasint"`
}

// Pipe reads and writes frames over a single stream. It is not safe for
// concurrent use.
type Pipe struct {
	rw     io.ReadWriter
	enc    *cbor.Encoder
	dec    *cbor.Decoder
	logger *slog.Logger
}

// New wraps rw. A nil logger discards.
func New(rw io.ReadWriter, logger *slog.Logger) *Pipe {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Pipe{
		rw:     rw,
		enc:    cbor.NewEncoder(rw),
		dec:    cbor.NewDecoder(rw),
		logger: logger,
	}
}

// Close closes the underlying stream if it can be closed.
func (p *Pipe) Close() error {
	if c, ok := p.rw.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// ValidatePath checks that path is absolute and made of valid CDL names.
func ValidatePath(path string) error {
	if !strings.HasPrefix(path, "/") {
		return fmt.Errorf("%w: %q is not absolute", ErrInvalidPath, path)
	}
	segments := util.SplitPath(path)
	if len(segments) == 0 {
		return fmt.Errorf("%w: %q names no variable", ErrInvalidPath, path)
	}
	for _, s := range segments {
		if !util.IsValidName(s) {
			return fmt.Errorf("%w: bad name %q in %q", ErrInvalidPath, s, path)
		}
	}
	return nil
}

// Kind names the element type T on the wire, e.g. "int32".
func Kind[T any]() string {
	return reflect.TypeFor[T]().String()
}

// Write flattens c and sends it as one frame for path.
func Write[T any](p *Pipe, path string, c ndarray.Container[T]) error {
	if err := ValidatePath(path); err != nil {
		return err
	}
	flat, shape, err := ndarray.Flatten(c)
	if err != nil {
		return err
	}
	data, err := cbor.Marshal(flat)
	if err != nil {
		return err
	}
	f := frame{Path: path, Kind: Kind[T](), Shape: shape, Data: data}
	if err := p.enc.Encode(&f); err != nil {
		return fmt.Errorf("pipe: write %s: %w", path, err)
	}
	p.logger.Debug("frame written", "path", path, "kind", f.Kind, "shape", shape)
	return nil
}

// Read receives the next frame and unflattens it into c. The frame is
// consumed even when it is rejected for its path or element type.
func Read[T any](p *Pipe, path string, c ndarray.Container[T]) error {
	if err := ValidatePath(path); err != nil {
		return err
	}
	var f frame
	if err := p.dec.Decode(&f); err != nil {
		return fmt.Errorf("pipe: read %s: %w", path, err)
	}
	p.logger.Debug("frame read", "path", f.Path, "kind", f.Kind, "shape", f.Shape)
	if f.Path != path {
		return fmt.Errorf("%w: want %q, got %q", ErrUnexpectedPath, path, f.Path)
	}
	if kind := Kind[T](); f.Kind != kind {
		return fmt.Errorf("%w: want %s, got %s for %q", ErrKindMismatch, kind, f.Kind, path)
	}
	var flat []T
	if err := cbor.Unmarshal(f.Data, &flat); err != nil {
		return fmt.Errorf("pipe: decode %s: %w", path, err)
	}
	if f.Shape == nil {
		f.Shape = []int{}
	}
	return ndarray.Unflatten(c, flat, f.Shape)
}

// WriteValue is Write for a scalar or nested slice value.
func WriteValue[T any](p *Pipe, path string, v any) error {
	c, err := ndarray.Of[T](v)
	if err != nil {
		return err
	}
	return Write[T](p, path, c)
}

// ReadValue is Read into the scalar or nested slice ptr points to.
func ReadValue[T any](p *Pipe, path string, ptr any) error {
	c, err := ndarray.NewNested[T](ptr)
	if err != nil {
		return err
	}
	return Read[T](p, path, c)
}
