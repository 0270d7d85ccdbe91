package model

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrArgumentMismatch indicates argument values that do not match a command definition.
var ErrArgumentMismatch = errors.New("argument mismatch")

// ZeroValue returns the zero value of an argument using its Go type.
// Multisetting arguments are zero as a nil *Multisetting.
func ZeroValue(a ArgDef) any {
	switch a.WireType() {
	case ArgU8:
		return uint8(0)
	case ArgI8:
		return int8(0)
	case ArgU16:
		return uint16(0)
	case ArgI16:
		return int16(0)
	case ArgU32:
		return uint32(0)
	case ArgI32:
		return int32(0)
	case ArgU64:
		return uint64(0)
	case ArgI64:
		return int64(0)
	case ArgFloat:
		return float32(0)
	case ArgDouble:
		return float64(0)
	case ArgString:
		return ""
	case ArgMultisetting:
		return (*Multisetting)(nil)
	}
	return nil
}

// ZeroArgs returns zero values for every argument of cmd.
func ZeroArgs(cmd *CommandDef) []any {
	args := make([]any, len(cmd.Args))
	for i, a := range cmd.Args {
		args[i] = ZeroValue(a)
	}
	return args
}

// CheckArgs verifies that args match the argument list of cmd in count and
// Go type. Set multisetting slots are checked recursively.
func CheckArgs(reg *Registry, cmd *CommandDef, args []any) error {
	if len(args) != len(cmd.Args) {
		return fmt.Errorf("%s: got %d arguments, want %d: %w",
			cmd.Name, len(args), len(cmd.Args), ErrArgumentMismatch)
	}
	for i, a := range cmd.Args {
		if err := checkValue(reg, a, args[i]); err != nil {
			return fmt.Errorf("%s argument %q: %w", cmd.Name, a.Name, err)
		}
	}
	return nil
}

func checkValue(reg *Registry, a ArgDef, v any) error {
	var ok bool
	switch a.WireType() {
	case ArgU8:
		_, ok = v.(uint8)
	case ArgI8:
		_, ok = v.(int8)
	case ArgU16:
		_, ok = v.(uint16)
	case ArgI16:
		_, ok = v.(int16)
	case ArgU32:
		_, ok = v.(uint32)
	case ArgI32:
		_, ok = v.(int32)
	case ArgU64:
		_, ok = v.(uint64)
	case ArgI64:
		_, ok = v.(int64)
	case ArgFloat:
		_, ok = v.(float32)
	case ArgDouble:
		_, ok = v.(float64)
	case ArgString:
		_, ok = v.(string)
	case ArgMultisetting:
		m, isMulti := v.(*Multisetting)
		if !isMulti || m == nil {
			return fmt.Errorf("nil multisetting: %w", ErrArgumentMismatch)
		}
		return m.check(reg, a.Multisetting)
	}
	if !ok {
		return fmt.Errorf("got %T, want %s: %w", v, a.Type.GoType(), ErrArgumentMismatch)
	}
	return nil
}

// ParseArg converts text into the Go value of argument a. Integers accept
// the prefixes understood by strconv (0x, 0o, 0b). Enums accept a value name
// or a number; bitfields accept a number or bit names joined with '|'.
func ParseArg(a ArgDef, text string) (any, error) {
	text = strings.TrimSpace(text)
	switch a.Type {
	case ArgEnum:
		if v, ok := a.Enum.Lookup(text); ok {
			return v, nil
		}
	case ArgBitfield:
		if v, ok := parseBitNames(a.Enum, text); ok {
			return castUnsigned(a.Underlying, v), nil
		}
	case ArgMultisetting:
		return nil, fmt.Errorf("argument %q: multisetting values cannot be parsed from text", a.Name)
	}

	var (
		v   any
		err error
	)
	switch t := a.WireType(); t {
	case ArgU8, ArgU16, ArgU32, ArgU64:
		var u uint64
		u, err = strconv.ParseUint(text, 0, bitSize(t))
		v = castUnsigned(t, u)
	case ArgI8, ArgI16, ArgI32, ArgI64:
		var i int64
		i, err = strconv.ParseInt(text, 0, bitSize(t))
		v = castSigned(t, i)
	case ArgFloat:
		var f float64
		f, err = strconv.ParseFloat(text, 32)
		v = float32(f)
	case ArgDouble:
		v, err = strconv.ParseFloat(text, 64)
	case ArgString:
		v = text
	default:
		err = ErrInvalidArgument
	}
	if err != nil {
		return nil, fmt.Errorf("argument %q (%s): %w", a.Name, a.Type, err)
	}
	return v, nil
}

func parseBitNames(e *EnumDef, text string) (uint64, bool) {
	if e == nil || text == "" {
		return 0, false
	}
	var bits uint64
	for _, name := range strings.Split(text, "|") {
		pos, ok := e.Lookup(strings.TrimSpace(name))
		if !ok || pos > 63 {
			return 0, false
		}
		bits |= 1 << pos
	}
	return bits, true
}

func bitSize(t ArgType) int {
	switch t {
	case ArgU8, ArgI8:
		return 8
	case ArgU16, ArgI16:
		return 16
	case ArgU32, ArgI32:
		return 32
	default:
		return 64
	}
}

func castUnsigned(t ArgType, v uint64) any {
	switch t {
	case ArgU8:
		return uint8(v)
	case ArgU16:
		return uint16(v)
	case ArgU32:
		return uint32(v)
	default:
		return v
	}
}

func castSigned(t ArgType, v int64) any {
	switch t {
	case ArgI8:
		return int8(v)
	case ArgI16:
		return int16(v)
	case ArgI32:
		return int32(v)
	default:
		return v
	}
}
