// Package wire implements the fixed-width primitives of the ARCommands
// binary command protocol.
//
// All multi-byte values are little-endian on the wire regardless of host
// byte order. Strings are NUL-terminated and carry no length prefix.
//
// # Offsets
//
// Every primitive takes the current offset into the buffer and returns the
// offset after the value. The capacity of a buffer is its length; the
// primitives never read or write past len(buf).
//
//	v, off, err := wire.ReadU16(buf, off)
//	off, err = wire.AddU32(out, 42, off)
//
// A failed read returns the zero value together with the unchanged offset.
// A failed write returns -1 and leaves the buffer untouched.
//
// # Text output
//
// WriteString and the Print* family append human-readable text into a
// caller-supplied byte slice, always keeping one byte free for the NUL
// terminator written by Terminate.
package wire
