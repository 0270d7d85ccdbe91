package model

import "github.com/Parrot-Developers/libARCommands-sub000/pkg/wire"

// ReadHeader reads the 4-byte command header at offset. On failure the
// offset is returned unchanged with wire.ErrNotEnoughData.
func ReadHeader(buf []byte, offset int) (Identity, int, error) {
	if offset < 0 || offset+HeaderSize > len(buf) {
		return Identity{}, offset, wire.ErrNotEnoughData
	}
	feature, next, _ := wire.ReadU8(buf, offset)
	class, next, _ := wire.ReadU8(buf, next)
	command, next, _ := wire.ReadU16(buf, next)
	return ID(feature, class, command), next, nil
}

// WriteHeader writes the command header of id at offset. Writes stop at the
// first field that does not fit.
func WriteHeader(buf []byte, id Identity, offset int) (int, error) {
	next, err := wire.AddU8(buf, id.Feature, offset)
	if err != nil {
		return -1, err
	}
	if next, err = wire.AddU8(buf, id.Class, next); err != nil {
		return -1, err
	}
	return wire.AddU16(buf, id.Command, next)
}
