package cdl

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
)

// Generator accumulates text output. The first error sticks and turns later
// calls into no-ops.
type Generator struct {
	Force  bool
	Err    error
	Depth  int
	buf    bytes.Buffer
	writer *bufio.Writer
}

func (gen *Generator) Begin() {
	if gen.Err != nil {
		return
	}
	gen.buf.Reset()
	gen.writer = bufio.NewWriter(&gen.buf)
}

func (gen *Generator) Emit(s string) {
	if gen.Err == nil && gen.writer != nil {
		_, gen.Err = gen.writer.WriteString(s)
	}
}

// Emitf writes one line at the current depth.
func (gen *Generator) Emitf(format string, args ...any) {
	gen.Emit(indent(gen.Depth) + fmt.Sprintf(format, args...) + "\n")
}

func (gen *Generator) End() string {
	if gen.Err != nil || gen.writer == nil {
		return ""
	}
	gen.writer.Flush()
	return gen.buf.String()
}

// WriteFile writes content to path. An existing file is only replaced when
// Force is set.
func (gen *Generator) WriteFile(path string, content string) {
	if gen.Err != nil {
		return
	}
	if !gen.Force && gen.FileExists(path) {
		gen.Err = fmt.Errorf("%s already exists, not overwriting", path)
		return
	}
	f, err := os.Create(path)
	if err != nil {
		gen.Err = err
		return
	}
	defer f.Close()
	writer := bufio.NewWriter(f)
	_, gen.Err = writer.WriteString(content)
	if err := writer.Flush(); err != nil && gen.Err == nil {
		gen.Err = err
	}
}

func (gen *Generator) FileExists(path string) bool {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return false
	}
	return true
}
