// Package filter implements a per-instance allow/block table for commands,
// consulted on raw buffers before they are decoded.
package filter

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/Parrot-Developers/libARCommands-sub000/pkg/log"
	"github.com/Parrot-Developers/libARCommands-sub000/pkg/model"
)

// Status is the verdict of a filter check. StatusAllowed and StatusBlocked
// are also the only valid behaviours of a command.
type Status uint8

const (
	// StatusAllowed lets the command through.
	StatusAllowed Status = iota
	// StatusBlocked stops the command.
	StatusBlocked
	// StatusUnknown reports a command missing from the registry.
	StatusUnknown
	// StatusError reports a failed check.
	StatusError
)

// String returns the status name.
func (s Status) String() string {
	switch s {
	case StatusAllowed:
		return "ALLOWED"
	case StatusBlocked:
		return "BLOCKED"
	case StatusUnknown:
		return "UNKNOWN"
	case StatusError:
		return "ERROR"
	default:
		return fmt.Sprintf("STATUS(%d)", uint8(s))
	}
}

func (s Status) isBehavior() bool {
	return s == StatusAllowed || s == StatusBlocked
}

// ParseBehavior parses "allowed"/"allow" or "blocked"/"block".
func ParseBehavior(text string) (Status, error) {
	switch strings.ToLower(strings.TrimSpace(text)) {
	case "allowed", "allow":
		return StatusAllowed, nil
	case "blocked", "block":
		return StatusBlocked, nil
	}
	return StatusError, fmt.Errorf("behavior %q: %w", text, ErrBadStatus)
}

// Filter maps every command of a registry to a behaviour.
//
// A Filter is safe for concurrent use: checks take a read lock and
// behaviour changes take the write lock.
type Filter struct {
	reg *model.Registry

	mu     sync.RWMutex
	table  map[uint32]Status
	closed bool

	logger  log.Logger
	session string
}

// New creates a filter where every command of reg has behaviour def.
func New(reg *model.Registry, def Status) (*Filter, error) {
	if !def.isBehavior() {
		return nil, ErrBadStatus
	}
	if reg == nil {
		return nil, ErrBadFilter
	}
	f := &Filter{
		reg:    reg,
		table:  make(map[uint32]Status, reg.Len()),
		logger: log.NoopLogger{},
	}
	for _, info := range reg.Commands() {
		f.table[info.ID.Key()] = def
	}
	return f, nil
}

// SetLogger sets the protocol logger receiving a FilterEvent per check.
// A nil logger disables logging.
func (f *Filter) SetLogger(logger log.Logger, sessionID string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.logger = log.OrNoop(logger)
	f.session = sessionID
}

// Check returns the behaviour of the command in buf. A buffer shorter than a
// header yields StatusError with ErrBadBuffer; a command missing from the
// registry yields StatusUnknown.
func (f *Filter) Check(buf []byte) (Status, error) {
	if f == nil || f.Closed() {
		return StatusError, ErrBadFilter
	}
	id, _, err := model.ReadHeader(buf, 0)
	if err != nil {
		f.logError("check", ErrBadBuffer)
		return StatusError, ErrBadBuffer
	}
	st, err := f.Lookup(id)
	if err != nil {
		return StatusError, err
	}
	f.logVerdict(id, st)
	return st, nil
}

// Lookup returns the behaviour stored for id, or StatusUnknown.
func (f *Filter) Lookup(id model.Identity) (Status, error) {
	if f == nil {
		return StatusError, ErrBadFilter
	}
	f.mu.RLock()
	defer f.mu.RUnlock()
	if f.closed {
		return StatusError, ErrBadFilter
	}
	st, ok := f.table[id.Key()]
	if !ok {
		return StatusUnknown, nil
	}
	return st, nil
}

// SetFeatureBehavior sets the behaviour of every command of a feature.
func (f *Filter) SetFeatureBehavior(feature uint8, behavior Status) error {
	return f.set(behavior, func() error {
		if f.reg.Feature(feature) == nil {
			return fmt.Errorf("feature %d: %w", feature, ErrOther)
		}
		return nil
	}, func(id model.Identity) bool {
		return id.Feature == feature
	})
}

// SetClassBehavior sets the behaviour of every command of a class.
func (f *Filter) SetClassBehavior(feature, class uint8, behavior Status) error {
	return f.set(behavior, func() error {
		if f.reg.Class(feature, class) == nil {
			return fmt.Errorf("class %d.%d: %w", feature, class, ErrOther)
		}
		return nil
	}, func(id model.Identity) bool {
		return id.Feature == feature && id.Class == class
	})
}

// SetCommandBehavior sets the behaviour of a single command.
func (f *Filter) SetCommandBehavior(id model.Identity, behavior Status) error {
	return f.set(behavior, func() error {
		if _, ok := f.reg.Lookup(id); !ok {
			return fmt.Errorf("command %s: %w", id, ErrOther)
		}
		return nil
	}, func(other model.Identity) bool {
		return other == id
	})
}

// SetAllBehavior sets the behaviour of every command.
func (f *Filter) SetAllBehavior(behavior Status) error {
	return f.set(behavior, nil, func(model.Identity) bool { return true })
}

// SetBehaviorByName sets the behaviour of the feature, class or command
// named "feature[.class][.command]".
func (f *Filter) SetBehaviorByName(name string, behavior Status) error {
	if f == nil {
		return ErrBadFilter
	}
	scope, err := f.reg.ResolveScope(name)
	if err != nil {
		if !behavior.isBehavior() {
			return ErrBadStatus
		}
		return fmt.Errorf("%w: %w", ErrOther, err)
	}
	switch scope.Level {
	case model.ScopeFeature:
		return f.SetFeatureBehavior(scope.ID.Feature, behavior)
	case model.ScopeClass:
		return f.SetClassBehavior(scope.ID.Feature, scope.ID.Class, behavior)
	default:
		return f.SetCommandBehavior(scope.ID, behavior)
	}
}

func (f *Filter) set(behavior Status, exists func() error, match func(model.Identity) bool) error {
	if f == nil {
		return ErrBadFilter
	}
	if !behavior.isBehavior() {
		return ErrBadStatus
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return ErrBadFilter
	}
	if exists != nil {
		if err := exists(); err != nil {
			return err
		}
	}
	for key := range f.table {
		if match(model.IdentityFromKey(key)) {
			f.table[key] = behavior
		}
	}
	return nil
}

// Close releases the table. Further calls fail with ErrBadFilter.
// Close is idempotent.
func (f *Filter) Close() error {
	if f == nil {
		return ErrBadFilter
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	f.table = nil
	return nil
}

// Closed reports whether Close was called. A nil filter reports true.
func (f *Filter) Closed() bool {
	if f == nil {
		return true
	}
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.closed
}

func (f *Filter) logVerdict(id model.Identity, st Status) {
	f.mu.RLock()
	logger, session := f.logger, f.session
	f.mu.RUnlock()
	logger.Log(log.Event{
		Timestamp: time.Now(),
		SessionID: session,
		Direction: log.DirectionIn,
		Layer:     log.LayerFilter,
		Category:  log.CategoryFilter,
		Filter: &log.FilterEvent{
			Feature: id.Feature,
			Class:   id.Class,
			Command: id.Command,
			Status:  st.String(),
		},
	})
}

func (f *Filter) logError(context string, err error) {
	f.mu.RLock()
	logger, session := f.logger, f.session
	f.mu.RUnlock()
	logger.Log(log.Event{
		Timestamp: time.Now(),
		SessionID: session,
		Direction: log.DirectionIn,
		Layer:     log.LayerFilter,
		Category:  log.CategoryError,
		Error: &log.ErrorEventData{
			Layer:   log.LayerFilter,
			Message: err.Error(),
			Context: context,
		},
	})
}
