package commands

import (
	"fmt"
	"os"

	"github.com/Parrot-Developers/libARCommands-sub000/pkg/transport"
)

// appendCapture appends buf as one frame to the capture file at path.
func appendCapture(path string, buf []byte) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open capture: %w", err)
	}
	if err := transport.NewFrameWriter(f).WriteFrame(buf); err != nil {
		f.Close()
		return fmt.Errorf("write capture: %w", err)
	}
	return f.Close()
}
