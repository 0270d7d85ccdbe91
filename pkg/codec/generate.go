package codec

import (
	"errors"
	"fmt"
	"math"

	"github.com/Parrot-Developers/libARCommands-sub000/pkg/model"
	"github.com/Parrot-Developers/libARCommands-sub000/pkg/wire"
)

// MaxCommandSize is the largest frame Encode produces.
const MaxCommandSize = 64 * 1024

const initialEncodeSize = 64

// Generate writes command id with args into buf and returns the frame length.
//
// Unknown commands and argument lists that do not match the definition fail
// with ErrBadArgs before anything is written. A buffer too small fails with
// ErrNotEnoughSpace; bytes already written are left in place and the caller
// must discard the buffer.
func Generate(reg *model.Registry, id model.Identity, buf []byte, args ...any) (int, error) {
	if reg == nil {
		return 0, ErrBadArgs
	}
	info, ok := reg.Lookup(id)
	if !ok {
		return 0, fmt.Errorf("%w: %s: %w", ErrBadArgs, id, model.ErrCommandNotFound)
	}
	if err := model.CheckArgs(reg, info.Command, args); err != nil {
		return 0, fmt.Errorf("%w: %w", ErrBadArgs, err)
	}
	return generate(reg, info, buf, 0, args)
}

// Encode is Generate into a buffer it allocates, doubling from 64 bytes up
// to MaxCommandSize.
func Encode(reg *model.Registry, id model.Identity, args ...any) ([]byte, error) {
	for size := initialEncodeSize; ; size *= 2 {
		buf := make([]byte, size)
		n, err := Generate(reg, id, buf, args...)
		if err == nil {
			return buf[:n], nil
		}
		if !errors.Is(err, ErrNotEnoughSpace) || size >= MaxCommandSize {
			return nil, err
		}
	}
}

func generate(reg *model.Registry, info model.CommandInfo, buf []byte, offset int, args []any) (int, error) {
	off, err := model.WriteHeader(buf, info.ID, offset)
	if err != nil {
		return 0, ErrNotEnoughSpace
	}
	for i, a := range info.Command.Args {
		if off, err = writeValue(reg, a, args[i], buf, off); err != nil {
			return 0, err
		}
	}
	return off, nil
}

// writeValue assumes v was checked by model.CheckArgs.
func writeValue(reg *model.Registry, a model.ArgDef, v any, buf []byte, off int) (int, error) {
	var err error
	switch a.WireType() {
	case model.ArgU8:
		off, err = wire.AddU8(buf, v.(uint8), off)
	case model.ArgI8:
		off, err = wire.AddI8(buf, v.(int8), off)
	case model.ArgU16:
		off, err = wire.AddU16(buf, v.(uint16), off)
	case model.ArgI16:
		off, err = wire.AddI16(buf, v.(int16), off)
	case model.ArgU32:
		off, err = wire.AddU32(buf, v.(uint32), off)
	case model.ArgI32:
		off, err = wire.AddI32(buf, v.(int32), off)
	case model.ArgU64:
		off, err = wire.AddU64(buf, v.(uint64), off)
	case model.ArgI64:
		off, err = wire.AddI64(buf, v.(int64), off)
	case model.ArgFloat:
		off, err = wire.AddFloat(buf, v.(float32), off)
	case model.ArgDouble:
		off, err = wire.AddDouble(buf, v.(float64), off)
	case model.ArgString:
		off, err = wire.AddString(buf, v.(string), off)
	case model.ArgMultisetting:
		return writeMultisetting(reg, v.(*model.Multisetting), buf, off)
	default:
		return 0, ErrError
	}
	switch {
	case errors.Is(err, wire.ErrInvalidString):
		return 0, fmt.Errorf("%w: argument %q: %w", ErrBadArgs, a.Name, err)
	case err != nil:
		return 0, ErrNotEnoughSpace
	}
	return off, nil
}

// writeMultisetting writes the aggregate size, then every set slot as a
// sub-command size followed by the sub-command. Both sizes are backfilled.
func writeMultisetting(reg *model.Registry, m *model.Multisetting, buf []byte, off int) (int, error) {
	sizeAt := off
	off, err := wire.AddU16(buf, 0, off)
	if err != nil {
		return 0, ErrNotEnoughSpace
	}
	start := off

	for _, slot := range m.Slots {
		if !slot.IsSet {
			continue
		}
		info, ok := reg.Lookup(slot.ID)
		if !ok {
			return 0, ErrBadArgs
		}
		subSizeAt := off
		if off, err = wire.AddU16(buf, 0, off); err != nil {
			return 0, ErrNotEnoughSpace
		}
		subStart := off
		if off, err = generate(reg, info, buf, off, slot.Args); err != nil {
			return 0, err
		}
		if off-subStart > math.MaxUint16 {
			return 0, fmt.Errorf("%w: sub-command %s exceeds %d bytes", ErrBadArgs, slot.ID, math.MaxUint16)
		}
		_, _ = wire.AddU16(buf, uint16(off-subStart), subSizeAt)
	}

	if off-start > math.MaxUint16 {
		return 0, fmt.Errorf("%w: multisetting %s exceeds %d bytes", ErrBadArgs, m.Def.Name, math.MaxUint16)
	}
	_, _ = wire.AddU16(buf, uint16(off-start), sizeAt)
	return off, nil
}
