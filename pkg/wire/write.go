package wire

import (
	"encoding/binary"
	"math"
	"strings"
)

// AddU8 writes v at offset and returns the offset after it.
func AddU8(buf []byte, v uint8, offset int) (int, error) {
	if !fits(buf, offset, SizeU8) {
		return -1, ErrNotEnoughSpace
	}
	buf[offset] = v
	return offset + SizeU8, nil
}

// AddU16 writes v little-endian at offset.
func AddU16(buf []byte, v uint16, offset int) (int, error) {
	if !fits(buf, offset, SizeU16) {
		return -1, ErrNotEnoughSpace
	}
	binary.LittleEndian.PutUint16(buf[offset:], v)
	return offset + SizeU16, nil
}

// AddU32 writes v little-endian at offset.
func AddU32(buf []byte, v uint32, offset int) (int, error) {
	if !fits(buf, offset, SizeU32) {
		return -1, ErrNotEnoughSpace
	}
	binary.LittleEndian.PutUint32(buf[offset:], v)
	return offset + SizeU32, nil
}

// AddU64 writes v little-endian at offset.
func AddU64(buf []byte, v uint64, offset int) (int, error) {
	if !fits(buf, offset, SizeU64) {
		return -1, ErrNotEnoughSpace
	}
	binary.LittleEndian.PutUint64(buf[offset:], v)
	return offset + SizeU64, nil
}

// AddI8 writes a signed byte at offset.
func AddI8(buf []byte, v int8, offset int) (int, error) {
	return AddU8(buf, uint8(v), offset)
}

// AddI16 writes v little-endian at offset.
func AddI16(buf []byte, v int16, offset int) (int, error) {
	return AddU16(buf, uint16(v), offset)
}

// AddI32 writes v little-endian at offset.
func AddI32(buf []byte, v int32, offset int) (int, error) {
	return AddU32(buf, uint32(v), offset)
}

// AddI64 writes v little-endian at offset.
func AddI64(buf []byte, v int64, offset int) (int, error) {
	return AddU64(buf, uint64(v), offset)
}

// AddFloat writes the IEEE 754 bits of v at offset.
func AddFloat(buf []byte, v float32, offset int) (int, error) {
	return AddU32(buf, math.Float32bits(v), offset)
}

// AddDouble writes the IEEE 754 bits of v at offset.
func AddDouble(buf []byte, v float64, offset int) (int, error) {
	return AddU64(buf, math.Float64bits(v), offset)
}

// AddString writes s followed by a NUL terminator at offset.
func AddString(buf []byte, s string, offset int) (int, error) {
	if strings.IndexByte(s, 0) >= 0 {
		return -1, ErrInvalidString
	}
	if !fits(buf, offset, len(s)+1) {
		return -1, ErrNotEnoughSpace
	}
	n := copy(buf[offset:], s)
	buf[offset+n] = 0
	return offset + n + 1, nil
}
