package codec

import (
	"github.com/Parrot-Developers/libARCommands-sub000/pkg/model"
	"github.com/Parrot-Developers/libARCommands-sub000/pkg/wire"
)

// subCommand is one entry of a multisetting on the wire.
type subCommand struct {
	id model.Identity

	// frame holds the sub-command bytes; args start at model.HeaderSize.
	frame []byte
}

// walkMultisetting reads the aggregate size at off and calls fn for every
// sub-command until the aggregate is consumed. Each sub-command must fit
// inside the aggregate and the aggregate inside buf. It returns the offset
// past the aggregate.
func walkMultisetting(buf []byte, off int, fn func(sub subCommand) error) (int, error) {
	size, off, err := wire.ReadU16(buf, off)
	if err != nil {
		return off, ErrNotEnoughData
	}
	end := off + int(size)
	if end > len(buf) {
		return off, ErrNotEnoughData
	}
	agg := buf[:end]

	for off < end {
		subSize, next, err := wire.ReadU16(agg, off)
		if err != nil {
			return off, ErrNotEnoughData
		}
		subEnd := next + int(subSize)
		if subEnd > end {
			return off, ErrNotEnoughData
		}
		frame := agg[next:subEnd]
		id, _, err := model.ReadHeader(frame, 0)
		if err != nil {
			return off, ErrNotEnoughData
		}
		if err := fn(subCommand{id: id, frame: frame}); err != nil {
			return off, err
		}
		off = subEnd
	}
	return end, nil
}

// readMultisetting decodes an aggregate for def. Sub-commands that are not
// members of def, known or not, are skipped using their size prefix.
func readMultisetting(reg *model.Registry, def *model.MultisettingDef, buf []byte, off int) (any, int, error) {
	m := model.NewMultisetting(reg, def)
	next, err := walkMultisetting(buf, off, func(sub subCommand) error {
		slot := m.Slot(sub.id)
		if slot == nil {
			return nil
		}
		info, ok := reg.Lookup(sub.id)
		if !ok {
			return nil
		}
		args, _, err := readArgs(reg, info.Command, sub.frame, model.HeaderSize)
		if err != nil {
			return err
		}
		slot.Args = args
		slot.IsSet = true
		return nil
	})
	if err != nil {
		return nil, off, err
	}
	return m, next, nil
}
