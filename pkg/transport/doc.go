// Package transport carries ARCommands buffers over byte streams.
//
// Commands carry no length of their own, so a stream delivers each command
// as one length-prefixed frame:
//
//	┌──────────────────────────┬───────────────────────────────┐
//	│ payload length (u32, LE) │ command (header + arguments)  │
//	└──────────────────────────┴───────────────────────────────┘
//
// The same layout is used for capture files read by the arcmd decode
// command. A frame payload is always a complete command buffer ready for
// the decoder or the filter.
//
// # Logging
//
// FrameReader and FrameWriter emit a transport-layer frame event for every
// frame when a log.Logger is set. Frame data in events is truncated to
// MaxLogFrameDataSize bytes.
package transport
