package wire

import (
	"bytes"
	"encoding/binary"
	"math"
)

// Value widths in bytes.
const (
	SizeU8  = 1
	SizeU16 = 2
	SizeU32 = 4
	SizeU64 = 8
)

// fits reports whether width bytes starting at offset lie inside buf.
func fits(buf []byte, offset, width int) bool {
	return offset >= 0 && width <= len(buf)-offset
}

// ReadU8 reads one byte at offset.
func ReadU8(buf []byte, offset int) (uint8, int, error) {
	if !fits(buf, offset, SizeU8) {
		return 0, offset, ErrNotEnoughData
	}
	return buf[offset], offset + SizeU8, nil
}

// ReadU16 reads a little-endian uint16 at offset.
func ReadU16(buf []byte, offset int) (uint16, int, error) {
	if !fits(buf, offset, SizeU16) {
		return 0, offset, ErrNotEnoughData
	}
	return binary.LittleEndian.Uint16(buf[offset:]), offset + SizeU16, nil
}

// ReadU32 reads a little-endian uint32 at offset.
func ReadU32(buf []byte, offset int) (uint32, int, error) {
	if !fits(buf, offset, SizeU32) {
		return 0, offset, ErrNotEnoughData
	}
	return binary.LittleEndian.Uint32(buf[offset:]), offset + SizeU32, nil
}

// ReadU64 reads a little-endian uint64 at offset.
func ReadU64(buf []byte, offset int) (uint64, int, error) {
	if !fits(buf, offset, SizeU64) {
		return 0, offset, ErrNotEnoughData
	}
	return binary.LittleEndian.Uint64(buf[offset:]), offset + SizeU64, nil
}

// ReadI8 reads one signed byte at offset.
func ReadI8(buf []byte, offset int) (int8, int, error) {
	v, next, err := ReadU8(buf, offset)
	return int8(v), next, err
}

// ReadI16 reads a little-endian int16 at offset.
func ReadI16(buf []byte, offset int) (int16, int, error) {
	v, next, err := ReadU16(buf, offset)
	return int16(v), next, err
}

// ReadI32 reads a little-endian int32 at offset.
func ReadI32(buf []byte, offset int) (int32, int, error) {
	v, next, err := ReadU32(buf, offset)
	return int32(v), next, err
}

// ReadI64 reads a little-endian int64 at offset.
func ReadI64(buf []byte, offset int) (int64, int, error) {
	v, next, err := ReadU64(buf, offset)
	return int64(v), next, err
}

// ReadFloat reads an IEEE 754 single-precision value at offset.
func ReadFloat(buf []byte, offset int) (float32, int, error) {
	v, next, err := ReadU32(buf, offset)
	return math.Float32frombits(v), next, err
}

// ReadDouble reads an IEEE 754 double-precision value at offset.
func ReadDouble(buf []byte, offset int) (float64, int, error) {
	v, next, err := ReadU64(buf, offset)
	return math.Float64frombits(v), next, err
}

// ReadString reads a NUL-terminated string starting at offset.
// The returned offset points past the terminator.
func ReadString(buf []byte, offset int) (string, int, error) {
	if offset < 0 || offset >= len(buf) {
		return "", offset, ErrNotEnoughData
	}
	end := bytes.IndexByte(buf[offset:], 0)
	if end < 0 {
		return "", offset, ErrNotEnoughData
	}
	return string(buf[offset : offset+end]), offset + end + 1, nil
}
