package codec

// Error is the closed set of generator and decoder results. A nil error
// means OK.
type Error uint8

const (
	// ErrBadArgs indicates an unknown command or arguments that do not match
	// its definition.
	ErrBadArgs Error = iota + 1
	// ErrNotEnoughSpace indicates an output buffer too small for the result.
	ErrNotEnoughSpace
	// ErrNoCallback indicates a successful decode with no callback registered.
	ErrNoCallback
	// ErrUnknownCommand indicates a command identity missing from the registry.
	ErrUnknownCommand
	// ErrNotEnoughData indicates a truncated command.
	ErrNotEnoughData
	// ErrError is the catch-all, also returned by a closed decoder.
	ErrError
	// ErrFiltered indicates a command dropped by the decoder's filter.
	ErrFiltered
)

func (e Error) Error() string {
	switch e {
	case ErrBadArgs:
		return "codec: bad arguments"
	case ErrNotEnoughSpace:
		return "codec: not enough space"
	case ErrNoCallback:
		return "codec: no callback"
	case ErrUnknownCommand:
		return "codec: unknown command"
	case ErrNotEnoughData:
		return "codec: not enough data"
	case ErrError:
		return "codec: error"
	case ErrFiltered:
		return "codec: command filtered"
	default:
		return "codec: unknown error"
	}
}
