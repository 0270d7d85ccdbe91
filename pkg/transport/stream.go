package transport

import (
	"context"
	"errors"
	"io"

	"github.com/google/uuid"

	"github.com/Parrot-Developers/libARCommands-sub000/pkg/model"
)

// NewSessionID returns a fresh identifier for a stream or capture session.
func NewSessionID() string {
	return uuid.NewString()
}

// FrameHandler receives each complete command buffer read from a stream.
// Returning an error stops the loop.
type FrameHandler func(frame []byte) error

// ReadLoop reads frames from fr until the stream ends, ctx is done or fn
// fails. Payloads shorter than a command header are passed through; the
// codec reports them as truncated. A clean end of stream returns nil.
func ReadLoop(ctx context.Context, fr *FrameReader, fn FrameHandler) (frames int, err error) {
	for {
		if err := ctx.Err(); err != nil {
			return frames, err
		}
		frame, err := fr.ReadFrame()
		if errors.Is(err, io.EOF) {
			return frames, nil
		}
		if err != nil {
			return frames, err
		}
		frames++
		if err := fn(frame); err != nil {
			return frames, err
		}
	}
}

// PeekIdentity returns the command identity at the start of frame.
func PeekIdentity(frame []byte) (model.Identity, error) {
	id, _, err := model.ReadHeader(frame, 0)
	if err != nil {
		return model.Identity{}, ErrShortCommand
	}
	return id, nil
}
