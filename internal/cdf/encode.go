package cdf

import (
	"encoding/binary"
	"fmt"
	"io"
)

// magic is the CDF-2 (64-bit offset) signature.
var magic = [4]byte{'C', 'D', 'F', 2}

// Encode serializes the file as CDF-2. Header and data sections are written
// sequentially in a single pass; variable begin offsets are computed from
// the header size up front.
func Encode(w io.Writer, f *File) error {
	sizes, err := dataSizes(f)
	if err != nil {
		return err
	}

	begins := make([]int64, len(f.Vars))
	offset := int64(headerSize(f))
	for i := range f.Vars {
		begins[i] = offset
		offset += int64(sizes[i])
	}

	ew := &errWriter{w: w}

	ew.bytes(magic[:])
	ew.i32(0) // numrecs; the time dimension is fixed, no record variables

	// Dimension list.
	ew.list(tagDimension, len(f.Dims))
	for _, d := range f.Dims {
		ew.name(d.Name)
		ew.i32(int32(d.Size))
	}

	// Global attribute list.
	ew.attrs(f.Attrs)

	// Variable list.
	ew.list(tagVariable, len(f.Vars))
	for i, v := range f.Vars {
		ew.name(v.Name)
		ew.i32(int32(len(v.DimIDs)))
		for _, id := range v.DimIDs {
			ew.i32(int32(id))
		}
		ew.attrs(v.Attrs)
		ew.i32(int32(v.Type))
		ew.vsize(sizes[i])
		ew.i64(begins[i])
	}

	// Data sections, in variable order.
	for i, v := range f.Vars {
		n, err := dataLen(&f.Vars[i])
		if err != nil {
			return err
		}
		ew.values(v.Data, fmt.Sprintf("variable %q", v.Name))
		ew.pad(n * v.Type.Size())
	}

	return ew.err
}

// headerSize returns the byte length of the encoded header.
func headerSize(f *File) int {
	size := 4 + 4 // magic + numrecs

	size += 8 // dimension list tag + count
	for _, d := range f.Dims {
		size += nameSize(d.Name) + 4
	}

	size += attrListSize(f.Attrs)

	size += 8 // variable list tag + count
	for _, v := range f.Vars {
		size += nameSize(v.Name)
		size += 4 + 4*len(v.DimIDs)
		size += attrListSize(v.Attrs)
		size += 4 + 4 + 8 // type + vsize + begin (64-bit)
	}
	return size
}

// dataSizes returns the padded on-disk size of each variable's data section,
// validating every buffer against the variable's declared dimensions.
func dataSizes(f *File) ([]int, error) {
	sizes := make([]int, len(f.Vars))
	for i := range f.Vars {
		v := &f.Vars[i]
		n, err := dataLen(v)
		if err != nil {
			return nil, err
		}
		want := 1
		for _, id := range v.DimIDs {
			if id < 0 || id >= len(f.Dims) {
				return nil, fmt.Errorf("variable %q: bad dimension id %d", v.Name, id)
			}
			want *= f.Dims[id].Size
		}
		if n != want {
			return nil, fmt.Errorf("variable %q: buffer has %d elements, dimensions give %d", v.Name, n, want)
		}
		sizes[i] = pad4(n * v.Type.Size())
	}
	return sizes, nil
}

// dataLen returns the element count of a variable, validated against its
// dimensions and backing buffer.
func dataLen(v *Variable) (int, error) {
	var got int
	switch data := v.Data.(type) {
	case []byte:
		got = len(data)
	case []int32:
		got = len(data)
	case []float32:
		got = len(data)
	case []float64:
		got = len(data)
	default:
		return 0, fmt.Errorf("variable %q: unsupported data type %T", v.Name, v.Data)
	}
	return got, nil
}

func attrListSize(attrs []Attr) int {
	size := 8 // tag + count
	for _, a := range attrs {
		typ, n, err := attrType(a.Value)
		if err != nil {
			continue // surfaced by the writer during encoding
		}
		size += nameSize(a.Name) + 4 + 4 + pad4(n*typ.Size())
	}
	return size
}

// nameSize returns the encoded size of a name: length word plus padded bytes.
func nameSize(s string) int {
	return 4 + pad4(len(s))
}

// pad4 rounds n up to the next multiple of four.
func pad4(n int) int {
	return (n + 3) &^ 3
}

// errWriter writes big-endian header and data fields, latching the first
// error so encoding code stays linear.
type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) bytes(p []byte) {
	if ew.err != nil {
		return
	}
	_, ew.err = ew.w.Write(p)
}

func (ew *errWriter) i32(v int32) {
	var buf [4]byte
	binary.BigEndian.PutUint32(buf[:], uint32(v))
	ew.bytes(buf[:])
}

func (ew *errWriter) i64(v int64) {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], uint64(v))
	ew.bytes(buf[:])
}

// vsize writes a variable's data-section size. Sizes that do not fit the
// 32-bit field are written as the format's overflow sentinel; readers use
// the begin offsets instead.
func (ew *errWriter) vsize(size int) {
	if size > 0x7FFFFFFF {
		ew.i32(-1)
		return
	}
	ew.i32(int32(size))
}

// list writes a list header: the tag and count, or two zero words for an
// empty list.
func (ew *errWriter) list(tag int32, n int) {
	if n == 0 {
		ew.i32(0)
		ew.i32(0)
		return
	}
	ew.i32(tag)
	ew.i32(int32(n))
}

// name writes a length-prefixed name padded to a 4-byte boundary.
func (ew *errWriter) name(s string) {
	ew.i32(int32(len(s)))
	ew.bytes([]byte(s))
	ew.pad(len(s))
}

// pad writes the zero bytes needed to align n bytes to a 4-byte boundary.
func (ew *errWriter) pad(n int) {
	if r := n & 3; r != 0 {
		ew.bytes(make([]byte, 4-r))
	}
}

// attrs writes an attribute list.
func (ew *errWriter) attrs(attrs []Attr) {
	ew.list(tagAttribute, len(attrs))
	for _, a := range attrs {
		typ, n, err := attrType(a.Value)
		if err != nil {
			if ew.err == nil {
				ew.err = fmt.Errorf("attribute %q: %w", a.Name, err)
			}
			return
		}
		ew.name(a.Name)
		ew.i32(int32(typ))
		ew.i32(int32(n))
		ew.values(a.Value, fmt.Sprintf("attribute %q", a.Name))
		ew.pad(n * typ.Size())
	}
}

// values writes a typed value or flat slice in big-endian order.
func (ew *errWriter) values(v interface{}, what string) {
	if ew.err != nil {
		return
	}
	switch val := v.(type) {
	case string:
		ew.bytes([]byte(val))
	case []byte:
		ew.bytes(val)
	case int32:
		ew.i32(val)
	case []int32:
		ew.err = binary.Write(ew.w, binary.BigEndian, val)
	case float32:
		ew.err = binary.Write(ew.w, binary.BigEndian, val)
	case []float32:
		ew.err = binary.Write(ew.w, binary.BigEndian, val)
	case float64:
		ew.err = binary.Write(ew.w, binary.BigEndian, val)
	case []float64:
		ew.err = binary.Write(ew.w, binary.BigEndian, val)
	default:
		ew.err = fmt.Errorf("%s: unsupported value type %T", what, v)
	}
}
