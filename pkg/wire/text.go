package wire

import "strconv"

// WriteString appends text at offset without a terminator. One byte of out
// is always kept free for the NUL written by Terminate.
func WriteString(text string, out []byte, offset int) (int, error) {
	if offset < 0 || offset+len(text) > len(out)-1 {
		return -1, ErrNotEnoughSpace
	}
	return offset + copy(out[offset:], text), nil
}

// Terminate writes the NUL terminator at offset and returns offset, the
// length of the text preceding it.
func Terminate(out []byte, offset int) (int, error) {
	if offset < 0 || offset >= len(out) {
		return -1, ErrNotEnoughSpace
	}
	out[offset] = 0
	return offset, nil
}

func printValue(label, value string, out []byte, offset int) (int, error) {
	next, err := WriteString(label, out, offset)
	if err != nil {
		return -1, err
	}
	return WriteString(value, out, next)
}

// PrintU8 writes label followed by v in decimal.
func PrintU8(label string, v uint8, out []byte, offset int) (int, error) {
	return printValue(label, strconv.FormatUint(uint64(v), 10), out, offset)
}

// PrintI8 writes label followed by v in decimal.
func PrintI8(label string, v int8, out []byte, offset int) (int, error) {
	return printValue(label, strconv.FormatInt(int64(v), 10), out, offset)
}

// PrintU16 writes label followed by v in decimal.
func PrintU16(label string, v uint16, out []byte, offset int) (int, error) {
	return printValue(label, strconv.FormatUint(uint64(v), 10), out, offset)
}

// PrintI16 writes label followed by v in decimal.
func PrintI16(label string, v int16, out []byte, offset int) (int, error) {
	return printValue(label, strconv.FormatInt(int64(v), 10), out, offset)
}

// PrintU32 writes label followed by v in decimal.
func PrintU32(label string, v uint32, out []byte, offset int) (int, error) {
	return printValue(label, strconv.FormatUint(uint64(v), 10), out, offset)
}

// PrintI32 writes label followed by v in decimal.
func PrintI32(label string, v int32, out []byte, offset int) (int, error) {
	return printValue(label, strconv.FormatInt(int64(v), 10), out, offset)
}

// PrintU64 writes label followed by v in decimal.
func PrintU64(label string, v uint64, out []byte, offset int) (int, error) {
	return printValue(label, strconv.FormatUint(v, 10), out, offset)
}

// PrintI64 writes label followed by v in decimal.
func PrintI64(label string, v int64, out []byte, offset int) (int, error) {
	return printValue(label, strconv.FormatInt(v, 10), out, offset)
}

// PrintFloat writes label followed by v with six decimals.
func PrintFloat(label string, v float32, out []byte, offset int) (int, error) {
	return printValue(label, strconv.FormatFloat(float64(v), 'f', 6, 32), out, offset)
}

// PrintDouble writes label followed by v with six decimals.
func PrintDouble(label string, v float64, out []byte, offset int) (int, error) {
	return printValue(label, strconv.FormatFloat(v, 'f', 6, 64), out, offset)
}

// PrintString writes label followed by v verbatim.
func PrintString(label, v string, out []byte, offset int) (int, error) {
	return printValue(label, v, out, offset)
}
