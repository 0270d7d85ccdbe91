package codec

import (
	"errors"

	"github.com/Parrot-Developers/libARCommands-sub000/pkg/model"
	"github.com/Parrot-Developers/libARCommands-sub000/pkg/wire"
)

const (
	unknownCommand      = "UNKNOWN -> Unknown command"
	initialDescribeSize = 512
)

// Describe writes a NUL-terminated human-readable rendering of the command
// in buf into out and returns the text length:
//
//	camera.set_exposure: | mode -> 1 | iso -> 400 | shutter -> 0.010000
//
// Enums and bitfields print as numbers. Each set sub-command of a
// multisetting prints as {<sub-command rendering>}.
//
// An unknown identity is rendered as "<feature>[.<class>].UNKNOWN -> Unknown
// command" and reported as ErrUnknownCommand. A truncated command fails with
// ErrNotEnoughData and a full out with ErrNotEnoughSpace; in both cases the
// text written so far is terminated when out has room.
func Describe(reg *model.Registry, buf, out []byte) (int, error) {
	if reg == nil {
		return 0, ErrBadArgs
	}
	o, err := describeCommand(reg, buf, out, 0)
	n, terr := wire.Terminate(out, o)
	if terr != nil {
		return 0, ErrNotEnoughSpace
	}
	return n, err
}

// DescribeString is Describe into a buffer it allocates, growing from 512
// bytes up to MaxCommandSize. The text of an unknown command is returned
// together with ErrUnknownCommand.
func DescribeString(reg *model.Registry, buf []byte) (string, error) {
	for size := initialDescribeSize; ; size *= 2 {
		out := make([]byte, size)
		n, err := Describe(reg, buf, out)
		if errors.Is(err, ErrNotEnoughSpace) && size < MaxCommandSize {
			continue
		}
		return string(out[:n]), err
	}
}

func describeCommand(reg *model.Registry, frame, out []byte, o int) (int, error) {
	id, off, err := model.ReadHeader(frame, 0)
	if err != nil {
		return o, ErrNotEnoughData
	}
	info, ok := reg.Lookup(id)
	if !ok {
		o, err = writeText(unknownName(reg, id), out, o)
		if err != nil {
			return o, err
		}
		return o, ErrUnknownCommand
	}
	if o, err = writeText(info.Name()+":", out, o); err != nil {
		return o, err
	}
	for _, a := range info.Command.Args {
		if o, off, err = describeValue(reg, a, frame, off, out, o); err != nil {
			return o, err
		}
	}
	return o, nil
}

func unknownName(reg *model.Registry, id model.Identity) string {
	f := reg.Feature(id.Feature)
	if f == nil {
		return unknownCommand
	}
	if c := f.Class(id.Class); c != nil && c.Name != "" {
		return f.Name + "." + c.Name + "." + unknownCommand
	}
	return f.Name + "." + unknownCommand
}

// writeText appends text, keeping o unchanged on failure.
func writeText(text string, out []byte, o int) (int, error) {
	next, err := wire.WriteString(text, out, o)
	if err != nil {
		return o, ErrNotEnoughSpace
	}
	return next, nil
}

func printed(o, next int, err error) (int, error) {
	if err != nil {
		return o, ErrNotEnoughSpace
	}
	return next, nil
}

func describeValue(reg *model.Registry, a model.ArgDef, frame []byte, off int, out []byte, o int) (int, int, error) {
	label := " | " + a.Name + " -> "
	if a.Type == model.ArgMultisetting {
		return describeMultisetting(reg, label, frame, off, out, o)
	}

	v, next, err := readValue(reg, a, frame, off)
	if err != nil {
		return o, off, err
	}
	var (
		n    int
		perr error
	)
	switch x := v.(type) {
	case uint8:
		n, perr = wire.PrintU8(label, x, out, o)
	case int8:
		n, perr = wire.PrintI8(label, x, out, o)
	case uint16:
		n, perr = wire.PrintU16(label, x, out, o)
	case int16:
		n, perr = wire.PrintI16(label, x, out, o)
	case uint32:
		n, perr = wire.PrintU32(label, x, out, o)
	case int32:
		n, perr = wire.PrintI32(label, x, out, o)
	case uint64:
		n, perr = wire.PrintU64(label, x, out, o)
	case int64:
		n, perr = wire.PrintI64(label, x, out, o)
	case float32:
		n, perr = wire.PrintFloat(label, x, out, o)
	case float64:
		n, perr = wire.PrintDouble(label, x, out, o)
	case string:
		n, perr = wire.PrintString(label, x, out, o)
	default:
		return o, off, ErrError
	}
	o, err = printed(o, n, perr)
	return o, next, err
}

func describeMultisetting(reg *model.Registry, label string, frame []byte, off int, out []byte, o int) (int, int, error) {
	o, err := writeText(label, out, o)
	if err != nil {
		return o, off, err
	}
	next, err := walkMultisetting(frame, off, func(sub subCommand) error {
		var err error
		if o, err = writeText("{", out, o); err != nil {
			return err
		}
		o, err = describeCommand(reg, sub.frame, out, o)
		if err != nil && !errors.Is(err, ErrUnknownCommand) {
			return err
		}
		o, err = writeText("}", out, o)
		return err
	})
	if err != nil {
		return o, off, err
	}
	return o, next, nil
}
