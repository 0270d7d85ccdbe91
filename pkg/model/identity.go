package model

import "fmt"

// FeatureClass is the class id used by features without sub-classes.
const FeatureClass uint8 = 0

// HeaderSize is the size of the command header on the wire.
const HeaderSize = 4

// Identity uniquely names a command.
type Identity struct {
	Feature uint8
	Class   uint8
	Command uint16
}

// ID creates an Identity.
func ID(feature, class uint8, command uint16) Identity {
	return Identity{Feature: feature, Class: class, Command: command}
}

// Key packs the identity into a single comparable integer.
func (id Identity) Key() uint32 {
	return uint32(id.Feature)<<24 | uint32(id.Class)<<16 | uint32(id.Command)
}

// IdentityFromKey unpacks a key created by Key.
func IdentityFromKey(key uint32) Identity {
	return Identity{
		Feature: uint8(key >> 24),
		Class:   uint8(key >> 16),
		Command: uint16(key),
	}
}

// String returns the numeric dotted form, e.g. "1.0.5".
func (id Identity) String() string {
	return fmt.Sprintf("%d.%d.%d", id.Feature, id.Class, id.Command)
}
