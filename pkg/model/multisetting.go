package model

import "fmt"

// Slot is one optional sub-command of a Multisetting.
type Slot struct {
	ID    Identity
	IsSet bool
	Args  []any
}

// Multisetting is the value of a multisetting argument. It holds one slot
// per member of its definition; unset slots carry zero-valued arguments and
// are not encoded.
type Multisetting struct {
	Def   *MultisettingDef
	Slots []Slot
}

// NewMultisetting creates an aggregate with every slot unset and
// zero-filled from the member definitions found in reg.
func NewMultisetting(reg *Registry, def *MultisettingDef) *Multisetting {
	m := &Multisetting{
		Def:   def,
		Slots: make([]Slot, len(def.Members)),
	}
	for i, id := range def.Members {
		m.Slots[i].ID = id
		if info, ok := reg.Lookup(id); ok {
			m.Slots[i].Args = ZeroArgs(info.Command)
		}
	}
	return m
}

// Slot returns the slot of sub-command id, or nil when id is not a member.
func (m *Multisetting) Slot(id Identity) *Slot {
	for i := range m.Slots {
		if m.Slots[i].ID == id {
			return &m.Slots[i]
		}
	}
	return nil
}

// Set marks sub-command id as present with the given arguments.
func (m *Multisetting) Set(id Identity, args ...any) error {
	s := m.Slot(id)
	if s == nil {
		return fmt.Errorf("%s is not a member of %s: %w", id, m.Def.Name, ErrCommandNotFound)
	}
	s.IsSet = true
	s.Args = args
	return nil
}

// Clear marks sub-command id as absent. Its arguments are kept.
func (m *Multisetting) Clear(id Identity) {
	if s := m.Slot(id); s != nil {
		s.IsSet = false
	}
}

// SetCount returns the number of set slots.
func (m *Multisetting) SetCount() int {
	n := 0
	for _, s := range m.Slots {
		if s.IsSet {
			n++
		}
	}
	return n
}

func (m *Multisetting) check(reg *Registry, def *MultisettingDef) error {
	if m.Def == nil || def == nil || m.Def.Name != def.Name || len(m.Slots) != len(def.Members) {
		return fmt.Errorf("multisetting definition mismatch: %w", ErrArgumentMismatch)
	}
	for i, s := range m.Slots {
		if s.ID != def.Members[i] {
			return fmt.Errorf("slot %d holds %s, want %s: %w", i, s.ID, def.Members[i], ErrArgumentMismatch)
		}
		if !s.IsSet {
			continue
		}
		info, ok := reg.Lookup(s.ID)
		if !ok {
			return fmt.Errorf("slot %s: %w", s.ID, ErrCommandNotFound)
		}
		if err := CheckArgs(reg, info.Command, s.Args); err != nil {
			return err
		}
	}
	return nil
}
