// Package codec generates, decodes and describes ARCommands frames.
//
// A frame is a 4-byte header (feature u8, class u8, command u16, little
// endian) followed by the command arguments in declaration order. Frames
// carry no length; transports delimit them.
//
//	buf := make([]byte, 64)
//	n, err := codec.Generate(reg, id, buf, uint8(42))
//
//	dec := codec.NewDecoder(reg)
//	dec.SetCallback(id, func(id model.Identity, args []any, custom any) {
//	    ...
//	}, nil)
//	err = dec.Decode(buf[:n])
//
// Argument values use the Go types listed by model.ArgType.GoType.
package codec
