package codec

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Parrot-Developers/libARCommands-sub000/pkg/filter"
	"github.com/Parrot-Developers/libARCommands-sub000/pkg/log"
	"github.com/Parrot-Developers/libARCommands-sub000/pkg/model"
	"github.com/Parrot-Developers/libARCommands-sub000/pkg/wire"
)

// Callback receives the arguments of a decoded command and the custom value
// registered with it.
type Callback func(id model.Identity, args []any, custom any)

type handler struct {
	cb     Callback
	custom any
}

// Decoder dispatches decoded commands to per-command callbacks.
//
// Callbacks are copied out under a read lock and invoked after it is
// released, so a slow callback never blocks registration or other decodes.
// A Decoder is safe for concurrent use.
type Decoder struct {
	reg     *model.Registry
	filter  *filter.Filter
	logger  log.Logger
	session string
	source  string

	mu       sync.RWMutex
	handlers map[uint32]handler
	closed   bool
}

// Option configures a Decoder.
type Option func(*Decoder)

// WithLogger sets the protocol logger. An empty sessionID is replaced by a
// random UUID.
func WithLogger(logger log.Logger, sessionID string) Option {
	return func(d *Decoder) {
		d.logger = log.OrNoop(logger)
		if sessionID != "" {
			d.session = sessionID
		}
	}
}

// WithSource sets the Source recorded in logged events.
func WithSource(source string) Option {
	return func(d *Decoder) {
		d.source = source
	}
}

// WithFilter attaches a filter consulted before dispatch. Blocked commands
// fail with ErrFiltered; commands the filter does not know proceed and fail
// with ErrUnknownCommand.
func WithFilter(f *filter.Filter) Option {
	return func(d *Decoder) {
		d.filter = f
	}
}

// NewDecoder creates a decoder for reg with no callbacks registered. A
// decoder built on a nil registry fails every operation with ErrError.
func NewDecoder(reg *model.Registry, opts ...Option) *Decoder {
	d := &Decoder{
		reg:      reg,
		logger:   log.NoopLogger{},
		session:  uuid.NewString(),
		handlers: make(map[uint32]handler),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// SessionID returns the id recorded in logged events.
func (d *Decoder) SessionID() string {
	return d.session
}

// Registry returns the registry the decoder dispatches on.
func (d *Decoder) Registry() *model.Registry {
	return d.reg
}

// SetCallback registers or replaces the callback of command id.
func (d *Decoder) SetCallback(id model.Identity, cb Callback, custom any) error {
	if cb == nil {
		return ErrBadArgs
	}
	if d.reg == nil {
		return ErrError
	}
	if _, ok := d.reg.Lookup(id); !ok {
		return ErrUnknownCommand
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return ErrError
	}
	d.handlers[id.Key()] = handler{cb: cb, custom: custom}
	return nil
}

// ClearCallback removes the callback of command id.
func (d *Decoder) ClearCallback(id model.Identity) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.handlers, id.Key())
}

// Decode parses the command in buf and invokes its callback.
//
// It returns ErrNotEnoughData for a truncated frame, ErrUnknownCommand for
// an identity missing from the registry, ErrFiltered when an attached filter
// blocks the command and ErrNoCallback when decoding succeeded but no
// callback is registered. Bytes following the last argument are ignored.
func (d *Decoder) Decode(buf []byte) error {
	if d.isClosed() {
		return ErrError
	}

	id, args, err := d.decode(buf, true)
	if err == nil {
		d.mu.RLock()
		h, ok := d.handlers[id.Key()]
		d.mu.RUnlock()
		if ok {
			h.cb(id, args, h.custom)
		} else {
			err = ErrNoCallback
		}
	}
	d.logDecode(id, buf, err)
	return err
}

// DecodeArgs parses the command in buf without filtering or dispatch.
func (d *Decoder) DecodeArgs(buf []byte) (model.Identity, []any, error) {
	if d.isClosed() {
		return model.Identity{}, nil, ErrError
	}
	return d.decode(buf, false)
}

// Describe renders the command in buf into out. See Describe.
func (d *Decoder) Describe(buf, out []byte) (int, error) {
	if d.isClosed() {
		return 0, ErrError
	}
	return Describe(d.reg, buf, out)
}

// Close drops all callbacks. Further calls fail with ErrError. Close is
// idempotent.
func (d *Decoder) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.closed = true
	d.handlers = nil
	return nil
}

func (d *Decoder) isClosed() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.closed || d.reg == nil
}

func (d *Decoder) decode(buf []byte, filtered bool) (model.Identity, []any, error) {
	id, off, err := model.ReadHeader(buf, 0)
	if err != nil {
		return id, nil, ErrNotEnoughData
	}
	if filtered && d.filter != nil {
		st, err := d.filter.Check(buf)
		if err != nil {
			return id, nil, ErrError
		}
		if st == filter.StatusBlocked {
			return id, nil, ErrFiltered
		}
	}
	info, ok := d.reg.Lookup(id)
	if !ok {
		return id, nil, ErrUnknownCommand
	}
	args, _, err := readArgs(d.reg, info.Command, buf, off)
	if err != nil {
		return id, nil, err
	}
	return id, args, nil
}

func readArgs(reg *model.Registry, cmd *model.CommandDef, buf []byte, off int) ([]any, int, error) {
	args := make([]any, len(cmd.Args))
	for i, a := range cmd.Args {
		v, next, err := readValue(reg, a, buf, off)
		if err != nil {
			return nil, off, err
		}
		args[i], off = v, next
	}
	return args, off, nil
}

func readValue(reg *model.Registry, a model.ArgDef, buf []byte, off int) (any, int, error) {
	var (
		v   any
		err error
	)
	switch a.WireType() {
	case model.ArgU8:
		var x uint8
		x, off, err = wire.ReadU8(buf, off)
		v = x
	case model.ArgI8:
		var x int8
		x, off, err = wire.ReadI8(buf, off)
		v = x
	case model.ArgU16:
		var x uint16
		x, off, err = wire.ReadU16(buf, off)
		v = x
	case model.ArgI16:
		var x int16
		x, off, err = wire.ReadI16(buf, off)
		v = x
	case model.ArgU32:
		var x uint32
		x, off, err = wire.ReadU32(buf, off)
		v = x
	case model.ArgI32:
		var x int32
		x, off, err = wire.ReadI32(buf, off)
		v = x
	case model.ArgU64:
		var x uint64
		x, off, err = wire.ReadU64(buf, off)
		v = x
	case model.ArgI64:
		var x int64
		x, off, err = wire.ReadI64(buf, off)
		v = x
	case model.ArgFloat:
		var x float32
		x, off, err = wire.ReadFloat(buf, off)
		v = x
	case model.ArgDouble:
		var x float64
		x, off, err = wire.ReadDouble(buf, off)
		v = x
	case model.ArgString:
		var x string
		x, off, err = wire.ReadString(buf, off)
		v = x
	case model.ArgMultisetting:
		return readMultisetting(reg, a.Multisetting, buf, off)
	default:
		return nil, off, ErrError
	}
	if err != nil {
		return nil, off, ErrNotEnoughData
	}
	return v, off, nil
}

func (d *Decoder) logDecode(id model.Identity, buf []byte, err error) {
	ev := &log.CommandEvent{
		Feature: id.Feature,
		Class:   id.Class,
		Command: id.Command,
		Name:    d.reg.Name(id),
		Size:    len(buf),
	}
	if err != nil {
		ev.Result = err.Error()
	}
	d.logger.Log(log.Event{
		Timestamp: time.Now(),
		SessionID: d.session,
		Direction: log.DirectionIn,
		Layer:     log.LayerCodec,
		Category:  log.CategoryCommand,
		Source:    d.source,
		Command:   ev,
	})
}
