package wire

import "errors"

// Primitive errors.
var (
	// ErrNotEnoughData indicates a read would cross the end of the buffer.
	ErrNotEnoughData = errors.New("wire: not enough data")

	// ErrNotEnoughSpace indicates a write would cross the end of the buffer.
	ErrNotEnoughSpace = errors.New("wire: not enough space")

	// ErrInvalidString indicates a string that cannot be NUL-terminated.
	ErrInvalidString = errors.New("wire: string contains NUL byte")
)
