package base

import "fmt"

type DataType int32

const (
	U8 DataType = iota
	U16
	U32
	U64

	I8
	I16
	I32
	I64

	F16
	F32
	F64

	// Byte is an untyped octet, used for already packed payloads.
	Byte
)

var dtypeSizes = map[DataType]int{
	U8:  1,
	U16: 2,
	U32: 4,
	U64: 8,

	I8:  1,
	I16: 2,
	I32: 4,
	I64: 8,

	F16: 2,
	F32: 4,
	F64: 8,

	Byte: 1,
}

// Size returns the number of bytes of one element, or 0 for an unknown type.
func (t DataType) Size() int {
	return dtypeSizes[t]
}

func (t DataType) Valid() bool {
	_, ok := dtypeSizes[t]
	return ok
}

var dtypeNames = map[DataType]string{
	U8:  "u8",
	U16: "u16",
	U32: "u32",
	U64: "u64",

	I8:  "i8",
	I16: "i16",
	I32: "i32",
	I64: "i64",

	F16: "f16",
	F32: "f32",
	F64: "f64",

	Byte: "byte",
}

func (t DataType) String() string {
	if name, ok := dtypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("dtype(%d)", int32(t))
}

func ParseDataType(name string) (DataType, error) {
	for t, n := range dtypeNames {
		if n == name {
			return t, nil
		}
	}
	return 0, fmt.Errorf("invalid data type %q", name)
}

// Set implements flag.Value
func (t *DataType) Set(val string) error {
	value, err := ParseDataType(val)
	if err != nil {
		return err
	}
	*t = value
	return nil
}
