package cdf

import (
	"encoding/binary"
	"fmt"
	"math"
)

// Decode parses a CDF-1 or CDF-2 byte image produced by Encode. It supports
// the fixed-size subset Exodus files use: no record variables.
func Decode(data []byte) (*File, error) {
	d := &decoder{buf: data}

	if len(data) < 8 || data[0] != 'C' || data[1] != 'D' || data[2] != 'F' {
		return nil, fmt.Errorf("not a CDF file")
	}
	version := data[3]
	if version != 1 && version != 2 {
		return nil, fmt.Errorf("unsupported CDF version %d", version)
	}
	d.off = 4
	offsetSize := 4
	if version == 2 {
		offsetSize = 8
	}

	if numrecs := d.i32(); numrecs != 0 {
		return nil, fmt.Errorf("record variables not supported (numrecs=%d)", numrecs)
	}

	f := &File{}

	// Dimensions.
	ndims, err := d.list(tagDimension)
	if err != nil {
		return nil, err
	}
	for i := 0; i < ndims; i++ {
		name := d.name()
		size := d.i32()
		f.Dims = append(f.Dims, Dimension{Name: name, Size: int(size)})
	}

	// Global attributes.
	f.Attrs, err = d.attrs()
	if err != nil {
		return nil, err
	}

	// Variables.
	nvars, err := d.list(tagVariable)
	if err != nil {
		return nil, err
	}
	type varEntry struct {
		v     Variable
		begin int64
	}
	entries := make([]varEntry, 0, nvars)
	for i := 0; i < nvars; i++ {
		var v Variable
		v.Name = d.name()
		nd := int(d.i32())
		for j := 0; j < nd; j++ {
			v.DimIDs = append(v.DimIDs, int(d.i32()))
		}
		v.Attrs, err = d.attrs()
		if err != nil {
			return nil, err
		}
		v.Type = Type(d.i32())
		d.i32() // vsize; recomputed from dimensions below
		var begin int64
		if offsetSize == 8 {
			begin = d.i64()
		} else {
			begin = int64(d.i32())
		}
		entries = append(entries, varEntry{v: v, begin: begin})
	}
	if d.err != nil {
		return nil, d.err
	}

	// Data sections.
	for _, e := range entries {
		n := 1
		for _, id := range e.v.DimIDs {
			if id < 0 || id >= len(f.Dims) {
				return nil, fmt.Errorf("variable %q: bad dimension id %d", e.v.Name, id)
			}
			n *= f.Dims[id].Size
		}
		raw, err := d.at(e.begin, n*e.v.Type.Size())
		if err != nil {
			return nil, fmt.Errorf("variable %q: %w", e.v.Name, err)
		}
		e.v.Data, err = decodeValues(e.v.Type, raw, n)
		if err != nil {
			return nil, fmt.Errorf("variable %q: %w", e.v.Name, err)
		}
		f.Vars = append(f.Vars, e.v)
	}

	return f, nil
}

func decodeValues(typ Type, raw []byte, n int) (interface{}, error) {
	switch typ {
	case Char:
		out := make([]byte, n)
		copy(out, raw)
		return out, nil
	case Int32:
		out := make([]int32, n)
		for i := range out {
			out[i] = int32(binary.BigEndian.Uint32(raw[i*4:]))
		}
		return out, nil
	case Float32:
		out := make([]float32, n)
		for i := range out {
			out[i] = math.Float32frombits(binary.BigEndian.Uint32(raw[i*4:]))
		}
		return out, nil
	case Float64:
		out := make([]float64, n)
		for i := range out {
			out[i] = math.Float64frombits(binary.BigEndian.Uint64(raw[i*8:]))
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unsupported type %v", typ)
	}
}

// Var returns the named variable, if present.
func (f *File) Var(name string) (*Variable, bool) {
	for i := range f.Vars {
		if f.Vars[i].Name == name {
			return &f.Vars[i], true
		}
	}
	return nil, false
}

// Dim returns the named dimension's size, if present.
func (f *File) Dim(name string) (int, bool) {
	for _, d := range f.Dims {
		if d.Name == name {
			return d.Size, true
		}
	}
	return 0, false
}

// Attr returns the named global attribute value, if present.
func (f *File) Attr(name string) (interface{}, bool) {
	return attrLookup(f.Attrs, name)
}

// Attr returns the named variable attribute value, if present.
func (v *Variable) Attr(name string) (interface{}, bool) {
	return attrLookup(v.Attrs, name)
}

func attrLookup(attrs []Attr, name string) (interface{}, bool) {
	for _, a := range attrs {
		if a.Name == name {
			return a.Value, true
		}
	}
	return nil, false
}

// decoder is a bounds-checked big-endian cursor with a latched error.
type decoder struct {
	buf []byte
	off int
	err error
}

func (d *decoder) take(n int) []byte {
	if d.err != nil {
		return nil
	}
	if n < 0 || d.off+n > len(d.buf) {
		d.err = fmt.Errorf("truncated file at offset %d", d.off)
		return nil
	}
	out := d.buf[d.off : d.off+n]
	d.off += n
	return out
}

func (d *decoder) at(begin int64, n int) ([]byte, error) {
	if begin < 0 || begin+int64(n) > int64(len(d.buf)) {
		return nil, fmt.Errorf("data section [%d, %d) out of bounds", begin, begin+int64(n))
	}
	return d.buf[begin : begin+int64(n)], nil
}

func (d *decoder) i32() int32 {
	b := d.take(4)
	if b == nil {
		return 0
	}
	return int32(binary.BigEndian.Uint32(b))
}

func (d *decoder) i64() int64 {
	b := d.take(8)
	if b == nil {
		return 0
	}
	return int64(binary.BigEndian.Uint64(b))
}

func (d *decoder) name() string {
	n := int(d.i32())
	b := d.take(pad4(n))
	if b == nil {
		return ""
	}
	return string(b[:n])
}

func (d *decoder) list(tag int32) (int, error) {
	if d.err != nil {
		return 0, d.err
	}
	gotTag := d.i32()
	n := int(d.i32())
	if d.err != nil {
		return 0, d.err
	}
	if gotTag == 0 && n == 0 {
		return 0, nil
	}
	if gotTag != tag {
		return 0, fmt.Errorf("expected list tag %#x, got %#x", tag, gotTag)
	}
	return n, nil
}

func (d *decoder) attrs() ([]Attr, error) {
	n, err := d.list(tagAttribute)
	if err != nil {
		return nil, err
	}
	var attrs []Attr
	for i := 0; i < n; i++ {
		name := d.name()
		typ := Type(d.i32())
		nelems := int(d.i32())
		raw := d.take(pad4(nelems * typ.Size()))
		if d.err != nil {
			return nil, d.err
		}
		val, err := decodeAttrValue(typ, raw[:nelems*typ.Size()], nelems)
		if err != nil {
			return nil, fmt.Errorf("attribute %q: %w", name, err)
		}
		attrs = append(attrs, Attr{Name: name, Value: val})
	}
	return attrs, nil
}

// decodeAttrValue maps attribute bytes back to the Go shapes attrType
// accepts: strings for char data, scalars for single elements.
func decodeAttrValue(typ Type, raw []byte, n int) (interface{}, error) {
	if typ == Char {
		return string(raw), nil
	}
	vals, err := decodeValues(typ, raw, n)
	if err != nil {
		return nil, err
	}
	if n != 1 {
		return vals, nil
	}
	switch v := vals.(type) {
	case []int32:
		return v[0], nil
	case []float32:
		return v[0], nil
	case []float64:
		return v[0], nil
	}
	return vals, nil
}
