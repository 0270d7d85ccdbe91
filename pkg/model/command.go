package model

import (
	"errors"
	"strings"
)

// Definition errors.
var (
	ErrDuplicateID         = errors.New("duplicate id")
	ErrDuplicateName       = errors.New("duplicate name")
	ErrInvalidArgument     = errors.New("invalid argument definition")
	ErrUnknownMultisetting = errors.New("unknown multisetting member")
	ErrSealed              = errors.New("registry is sealed")
	ErrCommandNotFound     = errors.New("command not found")
)

// EnumValue is one named ordinal of an enum.
type EnumValue struct {
	Name        string
	Value       uint32
	Description string
}

// EnumDef describes an enum argument type.
type EnumDef struct {
	Name   string
	Values []EnumValue
}

// NameOf returns the name of an ordinal, or "" when the ordinal is unknown.
func (e *EnumDef) NameOf(v uint32) string {
	if e == nil {
		return ""
	}
	for _, ev := range e.Values {
		if ev.Value == v {
			return ev.Name
		}
	}
	return ""
}

// Lookup resolves an enum value name (case-insensitive).
func (e *EnumDef) Lookup(name string) (uint32, bool) {
	if e == nil {
		return 0, false
	}
	for _, ev := range e.Values {
		if strings.EqualFold(ev.Name, name) {
			return ev.Value, true
		}
	}
	return 0, false
}

// MultisettingDef describes an aggregate of optional sub-commands.
type MultisettingDef struct {
	Name string

	// Members lists the sub-commands, one slot each, in wire order.
	Members []Identity
}

// Index returns the slot index of id, or -1.
func (m *MultisettingDef) Index(id Identity) int {
	for i, member := range m.Members {
		if member == id {
			return i
		}
	}
	return -1
}

// ArgDef describes one command argument.
type ArgDef struct {
	Name        string
	Type        ArgType
	Description string

	// Underlying is the storage type of a bitfield.
	Underlying ArgType

	// Enum names the ordinals of an enum or the bits of a bitfield.
	Enum *EnumDef

	// Multisetting is set for multisetting arguments.
	Multisetting *MultisettingDef
}

// WireType returns the type actually written on the wire: enums are u32 and
// bitfields use their underlying integer.
func (a ArgDef) WireType() ArgType {
	switch a.Type {
	case ArgEnum:
		return ArgU32
	case ArgBitfield:
		return a.Underlying
	default:
		return a.Type
	}
}

func (a ArgDef) validate() error {
	switch {
	case a.Name == "":
		return ErrInvalidArgument
	case a.Type == ArgBitfield && !a.Underlying.IsUnsignedInt():
		return ErrInvalidArgument
	case a.Type == ArgMultisetting && a.Multisetting == nil:
		return ErrInvalidArgument
	case a.Type < ArgU8 || a.Type > ArgMultisetting:
		return ErrInvalidArgument
	}
	return nil
}

// CommandDef describes a command.
type CommandDef struct {
	ID          uint16
	Name        string
	Description string
	Deprecated  bool
	Args        []ArgDef
}

// ClassDef groups commands of a feature. Class 0 with an empty name is the
// implicit class of a feature without sub-classes.
type ClassDef struct {
	ID       uint8
	Name     string
	Commands []*CommandDef
}

// Command returns the command with the given id.
func (c *ClassDef) Command(id uint16) *CommandDef {
	for _, cmd := range c.Commands {
		if cmd.ID == id {
			return cmd
		}
	}
	return nil
}

// FeatureDef describes a feature.
type FeatureDef struct {
	ID          uint8
	Name        string
	Description string
	Classes     []*ClassDef
}

// Class returns the class with the given id.
func (f *FeatureDef) Class(id uint8) *ClassDef {
	for _, c := range f.Classes {
		if c.ID == id {
			return c
		}
	}
	return nil
}

// CommandInfo is the result of a registry lookup.
type CommandInfo struct {
	ID      Identity
	Feature *FeatureDef
	Class   *ClassDef
	Command *CommandDef
}

// Name returns the dotted name of the command. The class segment is omitted
// for the implicit feature class.
func (ci CommandInfo) Name() string {
	if ci.Class.Name == "" {
		return ci.Feature.Name + "." + ci.Command.Name
	}
	return ci.Feature.Name + "." + ci.Class.Name + "." + ci.Command.Name
}
