package model

import (
	"fmt"
	"slices"
	"strings"
)

// Registry maps command identities to their definitions.
//
// Features are added with Register and the registry is frozen with Seal.
// Registration is not safe for concurrent use; a sealed registry is
// read-only and may be shared freely between goroutines.
type Registry struct {
	features map[uint8]*FeatureDef
	commands map[uint32]CommandInfo
	sealed   bool
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		features: make(map[uint8]*FeatureDef),
		commands: make(map[uint32]CommandInfo),
	}
}

// Register adds a feature with all its classes and commands.
func (r *Registry) Register(f *FeatureDef) error {
	if r.sealed {
		return ErrSealed
	}
	if f == nil || f.Name == "" {
		return fmt.Errorf("feature: %w", ErrInvalidArgument)
	}
	if _, exists := r.features[f.ID]; exists {
		return fmt.Errorf("feature %s (%d): %w", f.Name, f.ID, ErrDuplicateID)
	}
	for _, other := range r.features {
		if strings.EqualFold(other.Name, f.Name) {
			return fmt.Errorf("feature %s: %w", f.Name, ErrDuplicateName)
		}
	}

	entries := make(map[uint32]CommandInfo)
	classIDs := make(map[uint8]bool)
	classNames := make(map[string]bool)
	for _, c := range f.Classes {
		if classIDs[c.ID] {
			return fmt.Errorf("%s class %d: %w", f.Name, c.ID, ErrDuplicateID)
		}
		classIDs[c.ID] = true
		if c.Name != "" {
			lname := strings.ToLower(c.Name)
			if classNames[lname] {
				return fmt.Errorf("%s class %s: %w", f.Name, c.Name, ErrDuplicateName)
			}
			classNames[lname] = true
		}

		cmdNames := make(map[string]bool)
		for _, cmd := range c.Commands {
			id := ID(f.ID, c.ID, cmd.ID)
			info := CommandInfo{ID: id, Feature: f, Class: c, Command: cmd}
			if _, dup := entries[id.Key()]; dup {
				return fmt.Errorf("%s command %d: %w", info.Name(), cmd.ID, ErrDuplicateID)
			}
			if cmd.Name == "" {
				return fmt.Errorf("%s command %d: %w", info.Name(), cmd.ID, ErrInvalidArgument)
			}
			lname := strings.ToLower(cmd.Name)
			if cmdNames[lname] {
				return fmt.Errorf("%s: %w", info.Name(), ErrDuplicateName)
			}
			cmdNames[lname] = true
			if err := validateArgs(cmd.Args); err != nil {
				return fmt.Errorf("%s: %w", info.Name(), err)
			}
			entries[id.Key()] = info
		}
	}

	r.features[f.ID] = f
	for k, v := range entries {
		r.commands[k] = v
	}
	return nil
}

func validateArgs(args []ArgDef) error {
	names := make(map[string]bool, len(args))
	for _, a := range args {
		if err := a.validate(); err != nil {
			return fmt.Errorf("argument %q: %w", a.Name, err)
		}
		if names[a.Name] {
			return fmt.Errorf("argument %q: %w", a.Name, ErrDuplicateName)
		}
		names[a.Name] = true
	}
	return nil
}

// Seal checks cross-feature references and freezes the registry.
func (r *Registry) Seal() error {
	if r.sealed {
		return nil
	}
	for _, info := range r.commands {
		for _, a := range info.Command.Args {
			if a.Type != ArgMultisetting {
				continue
			}
			for _, member := range a.Multisetting.Members {
				if _, ok := r.commands[member.Key()]; !ok {
					return fmt.Errorf("%s argument %q member %s: %w",
						info.Name(), a.Name, member, ErrUnknownMultisetting)
				}
			}
		}
	}
	r.sealed = true
	return nil
}

// Sealed reports whether Seal succeeded.
func (r *Registry) Sealed() bool {
	return r.sealed
}

// Lookup returns the definition of a command.
func (r *Registry) Lookup(id Identity) (CommandInfo, bool) {
	info, ok := r.commands[id.Key()]
	return info, ok
}

// Feature returns the feature with the given id, or nil.
func (r *Registry) Feature(id uint8) *FeatureDef {
	return r.features[id]
}

// Class returns the class of a feature, or nil.
func (r *Registry) Class(feature, class uint8) *ClassDef {
	f := r.features[feature]
	if f == nil {
		return nil
	}
	return f.Class(class)
}

// Features returns all features ordered by id.
func (r *Registry) Features() []*FeatureDef {
	out := make([]*FeatureDef, 0, len(r.features))
	for _, f := range r.features {
		out = append(out, f)
	}
	slices.SortFunc(out, func(a, b *FeatureDef) int { return int(a.ID) - int(b.ID) })
	return out
}

// Commands returns all commands ordered by identity.
func (r *Registry) Commands() []CommandInfo {
	out := make([]CommandInfo, 0, len(r.commands))
	for _, info := range r.commands {
		out = append(out, info)
	}
	slices.SortFunc(out, func(a, b CommandInfo) int {
		ka, kb := a.ID.Key(), b.ID.Key()
		switch {
		case ka < kb:
			return -1
		case ka > kb:
			return 1
		}
		return 0
	})
	return out
}

// Len returns the number of registered commands.
func (r *Registry) Len() int {
	return len(r.commands)
}

// Name returns the dotted name of a command, or "" when unknown.
func (r *Registry) Name(id Identity) string {
	if info, ok := r.Lookup(id); ok {
		return info.Name()
	}
	return ""
}

// Resolve resolves a dotted command name ("feature.class.command", or
// "feature.command" for class-less features) case-insensitively.
func (r *Registry) Resolve(name string) (Identity, bool) {
	scope, err := r.ResolveScope(name)
	if err != nil || scope.Level != ScopeCommand {
		return Identity{}, false
	}
	return scope.ID, true
}

// ScopeLevel selects how much of an Identity a Scope covers.
type ScopeLevel uint8

const (
	// ScopeFeature covers every command of a feature.
	ScopeFeature ScopeLevel = iota + 1
	// ScopeClass covers every command of one class of a feature.
	ScopeClass
	// ScopeCommand covers a single command.
	ScopeCommand
)

// String returns the level name.
func (l ScopeLevel) String() string {
	switch l {
	case ScopeFeature:
		return "feature"
	case ScopeClass:
		return "class"
	case ScopeCommand:
		return "command"
	default:
		return "unknown"
	}
}

// Scope addresses a whole feature, a whole class or a single command.
// Only the fields covered by Level are meaningful in ID.
type Scope struct {
	Level ScopeLevel
	ID    Identity
}

// ResolveScope resolves "feature", "feature.class", "feature.command" or
// "feature.class.command". For two segments a class name takes precedence
// over a command of the implicit feature class.
func (r *Registry) ResolveScope(name string) (Scope, error) {
	parts := strings.Split(strings.TrimSpace(name), ".")
	f := r.featureByName(parts[0])
	if f == nil {
		return Scope{}, fmt.Errorf("unknown feature %q: %w", parts[0], ErrCommandNotFound)
	}

	switch len(parts) {
	case 1:
		return Scope{Level: ScopeFeature, ID: ID(f.ID, 0, 0)}, nil
	case 2:
		if c := classByName(f, parts[1]); c != nil {
			return Scope{Level: ScopeClass, ID: ID(f.ID, c.ID, 0)}, nil
		}
		if c := f.Class(FeatureClass); c != nil && c.Name == "" {
			if cmd := commandByName(c, parts[1]); cmd != nil {
				return Scope{Level: ScopeCommand, ID: ID(f.ID, c.ID, cmd.ID)}, nil
			}
		}
	case 3:
		if c := classByName(f, parts[1]); c != nil {
			if cmd := commandByName(c, parts[2]); cmd != nil {
				return Scope{Level: ScopeCommand, ID: ID(f.ID, c.ID, cmd.ID)}, nil
			}
		}
	}
	return Scope{}, fmt.Errorf("unknown name %q: %w", name, ErrCommandNotFound)
}

func (r *Registry) featureByName(name string) *FeatureDef {
	for _, f := range r.features {
		if strings.EqualFold(f.Name, name) {
			return f
		}
	}
	return nil
}

func classByName(f *FeatureDef, name string) *ClassDef {
	for _, c := range f.Classes {
		if c.Name != "" && strings.EqualFold(c.Name, name) {
			return c
		}
	}
	return nil
}

func commandByName(c *ClassDef, name string) *CommandDef {
	for _, cmd := range c.Commands {
		if strings.EqualFold(cmd.Name, name) {
			return cmd
		}
	}
	return nil
}
