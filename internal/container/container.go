// Package container provides the storage collaborator the Exodus schema
// layer writes into: named dimensions, named typed variables and attributes,
// with flat slice-level reads and writes.
//
// The container owns the physical file handle. Definitions and data live in
// memory until Close, when the whole file is serialized as NetCDF classic
// via the cdf package. Holding the file in memory sidesteps the classic
// format's define-mode/data-mode split, which the Exodus schema violates
// freely: new dimensions and variables appear interleaved with data writes
// for the file's entire life.
package container

import (
	"bufio"
	"fmt"
	"os"

	"github.com/robert-malhotra/go-exodus/internal/cdf"
)

// Type identifies a variable's element type.
type Type = cdf.Type

// Variable element types.
const (
	Char    = cdf.Char
	Int32   = cdf.Int32
	Float32 = cdf.Float32
	Float64 = cdf.Float64
)

// File is an open container. All definitions and writes are synchronous and
// single-threaded; the data reaches disk at Close.
type File struct {
	path   string
	file   *os.File
	closed bool

	dims     []cdf.Dimension
	dimIndex map[string]int

	attrs []cdf.Attr

	vars     []*variable
	varIndex map[string]int
}

// variable pairs a cdf variable definition with its element count.
type variable struct {
	def cdf.Variable
	n   int
}

// Create creates a new container file. Creation is exclusive: an existing
// file at the path is an error, never overwritten.
func Create(path string) (*File, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o666)
	if err != nil {
		return nil, fmt.Errorf("creating container file: %w", err)
	}
	return &File{
		path:     path,
		file:     f,
		dimIndex: make(map[string]int),
		varIndex: make(map[string]int),
	}, nil
}

// Path returns the file path.
func (f *File) Path() string {
	return f.path
}

// DefineDimension declares a named dimension. Redefining a name is an error;
// dimension sizes are fixed for the file's lifetime.
func (f *File) DefineDimension(name string, size int) error {
	if f.closed {
		return errClosed
	}
	if size < 0 {
		return fmt.Errorf("dimension %q: negative size %d", name, size)
	}
	if _, ok := f.dimIndex[name]; ok {
		return fmt.Errorf("dimension %q already defined", name)
	}
	f.dimIndex[name] = len(f.dims)
	f.dims = append(f.dims, cdf.Dimension{Name: name, Size: size})
	return nil
}

// Dimension returns the size of a named dimension.
func (f *File) Dimension(name string) (int, bool) {
	i, ok := f.dimIndex[name]
	if !ok {
		return 0, false
	}
	return f.dims[i].Size, true
}

// SetAttr sets a file-level attribute, replacing any previous value.
func (f *File) SetAttr(name string, value interface{}) error {
	if f.closed {
		return errClosed
	}
	return setAttr(&f.attrs, name, value)
}

// CreateVariable creates a named variable over previously defined
// dimensions. Storage is allocated immediately and zero-filled.
func (f *File) CreateVariable(name string, dims []string, typ Type) error {
	if f.closed {
		return errClosed
	}
	if _, ok := f.varIndex[name]; ok {
		return fmt.Errorf("variable %q already exists", name)
	}

	ids := make([]int, len(dims))
	n := 1
	for i, dn := range dims {
		id, ok := f.dimIndex[dn]
		if !ok {
			return fmt.Errorf("variable %q: unknown dimension %q", name, dn)
		}
		ids[i] = id
		n *= f.dims[id].Size
	}

	v := &variable{
		def: cdf.Variable{Name: name, DimIDs: ids, Type: typ},
		n:   n,
	}
	switch typ {
	case Char:
		v.def.Data = make([]byte, n)
	case Int32:
		v.def.Data = make([]int32, n)
	case Float32:
		v.def.Data = make([]float32, n)
	case Float64:
		v.def.Data = make([]float64, n)
	default:
		return fmt.Errorf("variable %q: unsupported type %v", name, typ)
	}

	f.varIndex[name] = len(f.vars)
	f.vars = append(f.vars, v)
	return nil
}

// HasVariable reports whether a variable exists.
func (f *File) HasVariable(name string) bool {
	_, ok := f.varIndex[name]
	return ok
}

// SetVarAttr sets an attribute on a variable.
func (f *File) SetVarAttr(varName, name string, value interface{}) error {
	if f.closed {
		return errClosed
	}
	v, err := f.lookup(varName)
	if err != nil {
		return err
	}
	return setAttr(&v.def.Attrs, name, value)
}

// PutSlice writes data into a variable starting at the given flat element
// offset. The data's type must match the variable's element type.
func (f *File) PutSlice(name string, start int, data interface{}) error {
	if f.closed {
		return errClosed
	}
	v, err := f.lookup(name)
	if err != nil {
		return err
	}

	if err := v.copyIn(start, data); err != nil {
		return fmt.Errorf("variable %q: %w", name, err)
	}
	return nil
}

// GetSlice reads count elements starting at the given flat offset. The
// returned slice is a copy.
func (f *File) GetSlice(name string, start, count int) (interface{}, error) {
	v, err := f.lookup(name)
	if err != nil {
		return nil, err
	}
	if start < 0 || count < 0 || start+count > v.n {
		return nil, fmt.Errorf("variable %q: slice [%d, %d) out of range 0..%d", name, start, start+count, v.n)
	}
	switch buf := v.def.Data.(type) {
	case []byte:
		out := make([]byte, count)
		copy(out, buf[start:])
		return out, nil
	case []int32:
		out := make([]int32, count)
		copy(out, buf[start:])
		return out, nil
	case []float32:
		out := make([]float32, count)
		copy(out, buf[start:])
		return out, nil
	case []float64:
		out := make([]float64, count)
		copy(out, buf[start:])
		return out, nil
	}
	return nil, fmt.Errorf("variable %q: corrupt backing buffer", name)
}

// Values reads a variable's full contents as a copy of its flat buffer.
func (f *File) Values(name string) (interface{}, error) {
	v, err := f.lookup(name)
	if err != nil {
		return nil, err
	}
	return f.GetSlice(name, 0, v.n)
}

// Len returns a variable's total element count.
func (f *File) Len(name string) (int, error) {
	v, err := f.lookup(name)
	if err != nil {
		return 0, err
	}
	return v.n, nil
}

// Close serializes the container to disk and releases the file handle.
// Close is idempotent; calling it again after a successful or failed close
// returns nil. A failed serialization may leave a partial file behind.
func (f *File) Close() error {
	if f.closed {
		return nil
	}
	f.closed = true

	img := &cdf.File{Dims: f.dims, Attrs: f.attrs}
	for _, v := range f.vars {
		img.Vars = append(img.Vars, v.def)
	}

	bw := bufio.NewWriter(f.file)
	if err := cdf.Encode(bw, img); err != nil {
		f.file.Close()
		return fmt.Errorf("serializing container: %w", err)
	}
	if err := bw.Flush(); err != nil {
		f.file.Close()
		return fmt.Errorf("flushing container: %w", err)
	}
	if err := f.file.Sync(); err != nil {
		f.file.Close()
		return fmt.Errorf("syncing container: %w", err)
	}
	return f.file.Close()
}

var errClosed = fmt.Errorf("container is closed")

func (f *File) lookup(name string) (*variable, error) {
	i, ok := f.varIndex[name]
	if !ok {
		return nil, fmt.Errorf("variable %q does not exist", name)
	}
	return f.vars[i], nil
}

// copyIn copies a typed flat slice into the backing buffer at start.
func (v *variable) copyIn(start int, data interface{}) error {
	var n int
	switch src := data.(type) {
	case []byte:
		n = len(src)
	case []int32:
		n = len(src)
	case []float32:
		n = len(src)
	case []float64:
		n = len(src)
	default:
		return fmt.Errorf("unsupported slice type %T", data)
	}
	if start < 0 || start+n > v.n {
		return fmt.Errorf("write [%d, %d) out of range 0..%d", start, start+n, v.n)
	}

	switch src := data.(type) {
	case []byte:
		dst, ok := v.def.Data.([]byte)
		if !ok {
			return typeMismatch(v, data)
		}
		copy(dst[start:], src)
	case []int32:
		dst, ok := v.def.Data.([]int32)
		if !ok {
			return typeMismatch(v, data)
		}
		copy(dst[start:], src)
	case []float32:
		dst, ok := v.def.Data.([]float32)
		if !ok {
			return typeMismatch(v, data)
		}
		copy(dst[start:], src)
	case []float64:
		dst, ok := v.def.Data.([]float64)
		if !ok {
			return typeMismatch(v, data)
		}
		copy(dst[start:], src)
	}
	return nil
}

func typeMismatch(v *variable, data interface{}) error {
	return fmt.Errorf("cannot write %T into %v variable", data, v.def.Type)
}

func setAttr(attrs *[]cdf.Attr, name string, value interface{}) error {
	switch value.(type) {
	case string, int32, float32, float64, []int32, []float32, []float64:
	default:
		return fmt.Errorf("attribute %q: unsupported value type %T", name, value)
	}
	for i := range *attrs {
		if (*attrs)[i].Name == name {
			(*attrs)[i].Value = value
			return nil
		}
	}
	*attrs = append(*attrs, cdf.Attr{Name: name, Value: value})
	return nil
}
