package cdf

import "fmt"

// Type identifies a NetCDF external data type.
type Type int32

// Supported external types. Byte and Short exist in the format but are not
// produced by the Exodus schema.
const (
	Char    Type = 2
	Int32   Type = 4
	Float32 Type = 5
	Float64 Type = 6
)

// Size returns the on-disk size of one element in bytes.
func (t Type) Size() int {
	switch t {
	case Char:
		return 1
	case Int32, Float32:
		return 4
	case Float64:
		return 8
	default:
		return 0
	}
}

func (t Type) String() string {
	switch t {
	case Char:
		return "char"
	case Int32:
		return "int"
	case Float32:
		return "float"
	case Float64:
		return "double"
	default:
		return fmt.Sprintf("Type(%d)", int32(t))
	}
}

// List tags used in the header. A list that is present carries its tag and
// element count; an absent list is encoded as two zero words.
const (
	tagDimension = 0x0A
	tagVariable  = 0x0B
	tagAttribute = 0x0C
)

// Dimension is a named extent.
type Dimension struct {
	Name string
	Size int
}

// Attr is a named attribute value. Value must be one of string, int32,
// float32, float64, []int32, []float32 or []float64.
type Attr struct {
	Name  string
	Value interface{}
}

// Variable is a named multi-dimensional array. DimIDs index into the file's
// dimension list; Data is the flat backing buffer, typed to match Type
// ([]byte, []int32, []float32 or []float64).
type Variable struct {
	Name   string
	DimIDs []int
	Type   Type
	Attrs  []Attr
	Data   interface{}
}

// File is the in-memory form handed to Encode and returned by Decode.
type File struct {
	Dims  []Dimension
	Attrs []Attr
	Vars  []Variable
}

// attrType maps an attribute value to its external type and element count.
func attrType(v interface{}) (Type, int, error) {
	switch val := v.(type) {
	case string:
		return Char, len(val), nil
	case int32:
		return Int32, 1, nil
	case float32:
		return Float32, 1, nil
	case float64:
		return Float64, 1, nil
	case []int32:
		return Int32, len(val), nil
	case []float32:
		return Float32, len(val), nil
	case []float64:
		return Float64, len(val), nil
	default:
		return 0, 0, fmt.Errorf("unsupported attribute value type %T", v)
	}
}
