package filter

// Error is the closed set of filter errors.
type Error uint8

const (
	// ErrAlloc reports an allocation failure. Allocation failures panic, so
	// no function returns it.
	ErrAlloc Error = iota + 1
	// ErrBadStatus indicates a behaviour other than StatusAllowed or StatusBlocked.
	ErrBadStatus
	// ErrBadFilter indicates a nil or closed filter.
	ErrBadFilter
	// ErrBadBuffer indicates a buffer too short to hold a command header.
	ErrBadBuffer
	// ErrOther indicates any other failure, such as an unknown scope.
	ErrOther
)

func (e Error) Error() string {
	switch e {
	case ErrAlloc:
		return "filter: allocation failed"
	case ErrBadStatus:
		return "filter: bad status"
	case ErrBadFilter:
		return "filter: bad filter"
	case ErrBadBuffer:
		return "filter: bad buffer"
	case ErrOther:
		return "filter: error"
	default:
		return "filter: unknown error"
	}
}
