package log

import (
	"time"
)

// Event represents a protocol log event captured at any layer.
// CBOR encoding uses integer keys for compactness.
type Event struct {
	// Timestamp when the event occurred (nanosecond precision).
	Timestamp time.Time `cbor:"1,keyasint"`

	// SessionID identifies the decoder, capture or stream (UUID).
	SessionID string `cbor:"2,keyasint"`

	// Direction indicates whether the command was decoded or generated.
	Direction Direction `cbor:"3,keyasint"`

	// Layer where the event was captured.
	Layer Layer `cbor:"4,keyasint"`

	// Category classifies the event type.
	Category Category `cbor:"5,keyasint"`

	// Source names the capture file or peer the bytes came from.
	Source string `cbor:"6,keyasint,omitempty"`

	// Type-specific payload (one of these will be set).
	Frame   *FrameEvent     `cbor:"10,keyasint,omitempty"` // Transport layer
	Command *CommandEvent   `cbor:"11,keyasint,omitempty"` // Codec layer
	Filter  *FilterEvent    `cbor:"12,keyasint,omitempty"` // Filter verdicts
	Error   *ErrorEventData `cbor:"14,keyasint,omitempty"` // Errors at any layer
}

// Direction indicates the direction of command flow.
type Direction uint8

const (
	// DirectionIn indicates a received (decoded) command.
	DirectionIn Direction = 0
	// DirectionOut indicates a generated command.
	DirectionOut Direction = 1
)

// String returns the direction name.
func (d Direction) String() string {
	switch d {
	case DirectionIn:
		return "IN"
	case DirectionOut:
		return "OUT"
	default:
		return "UNKNOWN"
	}
}

// Layer indicates which component captured the event.
type Layer uint8

const (
	// LayerTransport is the framing layer (raw bytes).
	LayerTransport Layer = 0
	// LayerCodec is the command generator and decoder.
	LayerCodec Layer = 1
	// LayerFilter is the allow/block filter.
	LayerFilter Layer = 2
)

// String returns the layer name.
func (l Layer) String() string {
	switch l {
	case LayerTransport:
		return "TRANSPORT"
	case LayerCodec:
		return "CODEC"
	case LayerFilter:
		return "FILTER"
	default:
		return "UNKNOWN"
	}
}

// Category classifies the event type.
type Category uint8

const (
	// CategoryFrame indicates a raw transport frame.
	CategoryFrame Category = 0
	// CategoryCommand indicates a generated or decoded command.
	CategoryCommand Category = 1
	// CategoryFilter indicates a filter verdict.
	CategoryFilter Category = 2
	// CategoryError indicates an error event.
	CategoryError Category = 3
)

// String returns the category name.
func (c Category) String() string {
	switch c {
	case CategoryFrame:
		return "FRAME"
	case CategoryCommand:
		return "COMMAND"
	case CategoryFilter:
		return "FILTER"
	case CategoryError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// FrameEvent captures raw frame data at the transport layer.
type FrameEvent struct {
	// Size is the frame size in bytes (including length prefix).
	Size int `cbor:"1,keyasint"`

	// Data is the raw frame bytes (may be truncated for large frames).
	Data []byte `cbor:"2,keyasint,omitempty"`

	// Truncated indicates if Data was truncated.
	Truncated bool `cbor:"3,keyasint,omitempty"`
}

// CommandEvent captures a command at the codec layer.
type CommandEvent struct {
	Feature uint8  `cbor:"1,keyasint"`
	Class   uint8  `cbor:"2,keyasint"`
	Command uint16 `cbor:"3,keyasint"`

	// Name is the dotted command name, empty for unknown commands.
	Name string `cbor:"4,keyasint,omitempty"`

	// Size is the encoded command size in bytes.
	Size int `cbor:"5,keyasint"`

	// Result is the codec error text, empty on success.
	Result string `cbor:"6,keyasint,omitempty"`

	// Description is the human-readable rendering of the command.
	Description string `cbor:"7,keyasint,omitempty"`
}

// OK reports whether the command was handled without error.
func (c *CommandEvent) OK() bool {
	return c.Result == ""
}

// FilterEvent captures the verdict of a filter check.
type FilterEvent struct {
	Feature uint8  `cbor:"1,keyasint"`
	Class   uint8  `cbor:"2,keyasint"`
	Command uint16 `cbor:"3,keyasint"`

	// Status is the verdict name (ALLOWED, BLOCKED, UNKNOWN or ERROR).
	Status string `cbor:"4,keyasint"`
}

// ErrorEventData captures errors at any layer.
type ErrorEventData struct {
	// Layer where the error occurred.
	Layer Layer `cbor:"1,keyasint"`

	// Message is the error message.
	Message string `cbor:"2,keyasint"`

	// Code is the error code (if applicable).
	Code *int `cbor:"3,keyasint,omitempty"`

	// Context describes what operation was being performed.
	Context string `cbor:"4,keyasint,omitempty"`
}
