// Package log provides structured protocol logging for the command codec.
//
// This package defines the Logger interface and Event types for capturing
// protocol-level events at multiple layers (transport, codec, filter).
// It is separate from operational logging (slog) - protocol capture provides
// a complete machine-readable event trace for debugging and analysis.
//
// # Basic Usage
//
// Components accept a Logger implementation:
//
//	// For development: log to console via slog
//	dec := codec.NewDecoder(reg, codec.WithLogger(log.NewSlogAdapter(slog.Default()), ""))
//
//	// For captures: write to binary file
//	fl, _ := log.NewFileLogger("/tmp/session.alog")
//
//	// Both: use MultiLogger
//	l := log.NewMultiLogger(log.NewSlogAdapter(slog.Default()), fl)
//
// # Event Types
//
// Events are captured at multiple layers:
//   - Transport: Raw frame bytes (FrameEvent)
//   - Codec: Generated and decoded commands (CommandEvent)
//   - Filter: Allow/block verdicts (FilterEvent)
//
// Errors at any layer use ErrorEventData.
//
// # File Format
//
// Log files are a stream of CBOR-encoded events with the .alog extension.
// FileLogger buffers writes, so a file is complete only after Flush or
// Close. The arcmd view, stats, export and filter commands read them.
package log
