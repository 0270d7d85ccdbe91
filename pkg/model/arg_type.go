package model

import (
	"fmt"
	"strings"
)

// ArgType identifies the wire type of a command argument.
type ArgType uint8

const (
	ArgU8 ArgType = iota + 1
	ArgI8
	ArgU16
	ArgI16
	ArgU32
	ArgI32
	ArgU64
	ArgI64
	ArgFloat
	ArgDouble
	ArgString
	ArgEnum
	ArgBitfield
	ArgMultisetting
)

var argTypeNames = map[ArgType]string{
	ArgU8:           "u8",
	ArgI8:           "i8",
	ArgU16:          "u16",
	ArgI16:          "i16",
	ArgU32:          "u32",
	ArgI32:          "i32",
	ArgU64:          "u64",
	ArgI64:          "i64",
	ArgFloat:        "float",
	ArgDouble:       "double",
	ArgString:       "string",
	ArgEnum:         "enum",
	ArgBitfield:     "bitfield",
	ArgMultisetting: "multisetting",
}

// String returns the schema name of the type.
func (t ArgType) String() string {
	if name, ok := argTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("type(%d)", uint8(t))
}

// ParseArgType resolves a schema type name (case-insensitive).
func ParseArgType(name string) (ArgType, error) {
	lname := strings.ToLower(strings.TrimSpace(name))
	for t, n := range argTypeNames {
		if n == lname {
			return t, nil
		}
	}
	return 0, fmt.Errorf("unknown argument type %q", name)
}

// IsUnsignedInt reports whether t is one of the unsigned integer types
// allowed as bitfield storage.
func (t ArgType) IsUnsignedInt() bool {
	switch t {
	case ArgU8, ArgU16, ArgU32, ArgU64:
		return true
	}
	return false
}

// GoType returns the Go type name used for values of t:
//
//	u8 uint8, i8 int8, u16 uint16, i16 int16, u32 uint32, i32 int32,
//	u64 uint64, i64 int64, float float32, double float64, string string,
//	enum uint32, multisetting *Multisetting.
//
// Bitfields use the Go type of their underlying integer.
func (t ArgType) GoType() string {
	switch t {
	case ArgU8:
		return "uint8"
	case ArgI8:
		return "int8"
	case ArgU16:
		return "uint16"
	case ArgI16:
		return "int16"
	case ArgU32, ArgEnum:
		return "uint32"
	case ArgI32:
		return "int32"
	case ArgU64:
		return "uint64"
	case ArgI64:
		return "int64"
	case ArgFloat:
		return "float32"
	case ArgDouble:
		return "float64"
	case ArgString:
		return "string"
	case ArgMultisetting:
		return "*model.Multisetting"
	default:
		return "invalid"
	}
}
