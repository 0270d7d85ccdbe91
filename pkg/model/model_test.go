package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRegistry(t *testing.T) (*Registry, *MultisettingDef) {
	t.Helper()

	settings := &MultisettingDef{Name: "Settings", Members: []Identity{ID(1, 0, 1), ID(1, 0, 2)}}
	mode := &EnumDef{Name: "mode", Values: []EnumValue{{Name: "auto", Value: 0}, {Name: "manual", Value: 1}}}
	reg := NewRegistry()
	require.NoError(t, reg.Register(&FeatureDef{
		ID:   1,
		Name: "camera",
		Classes: []*ClassDef{{
			ID: FeatureClass,
			Commands: []*CommandDef{
				{ID: 0, Name: "shoot"},
				{ID: 1, Name: "mode", Args: []ArgDef{{Name: "mode", Type: ArgEnum, Enum: mode}}},
				{ID: 2, Name: "zoom", Args: []ArgDef{{Name: "level", Type: ArgFloat}}},
				{ID: 3, Name: "apply", Args: []ArgDef{{Name: "settings", Type: ArgMultisetting, Multisetting: settings}}},
				{ID: 4, Name: "flags", Args: []ArgDef{{Name: "bits", Type: ArgBitfield, Underlying: ArgU16, Enum: mode}}},
			},
		}},
	}))
	require.NoError(t, reg.Register(&FeatureDef{
		ID:   2,
		Name: "piloting",
		Classes: []*ClassDef{
			{ID: 0, Name: "Move", Commands: []*CommandDef{{ID: 0, Name: "TakeOff"}}},
			{ID: 1, Name: "Settings", Commands: []*CommandDef{{ID: 7, Name: "MaxAltitude", Args: []ArgDef{{Name: "m", Type: ArgDouble}}}}},
		},
	}))
	require.NoError(t, reg.Seal())
	return reg, settings
}

func TestIdentityKeyRoundTrip(t *testing.T) {
	id := ID(0xAB, 0xCD, 0xBEEF)
	assert.Equal(t, uint32(0xABCDBEEF), id.Key())
	assert.Equal(t, id, IdentityFromKey(id.Key()))
	assert.Equal(t, "171.205.48879", id.String())
}

func TestRegistryLookupAndNames(t *testing.T) {
	reg, _ := testRegistry(t)

	info, ok := reg.Lookup(ID(2, 1, 7))
	require.True(t, ok)
	assert.Equal(t, "piloting.Settings.MaxAltitude", info.Name())
	assert.Equal(t, "camera.zoom", reg.Name(ID(1, 0, 2)))
	assert.Equal(t, "", reg.Name(ID(1, 0, 99)))

	_, ok = reg.Lookup(ID(3, 0, 0))
	assert.False(t, ok)

	assert.Equal(t, 7, reg.Len())
	cmds := reg.Commands()
	require.Len(t, cmds, 7)
	assert.Equal(t, ID(1, 0, 0), cmds[0].ID)
	assert.Equal(t, ID(2, 1, 7), cmds[6].ID)

	features := reg.Features()
	require.Len(t, features, 2)
	assert.Equal(t, "camera", features[0].Name)
	assert.NotNil(t, reg.Class(2, 1))
	assert.Nil(t, reg.Class(2, 9))
	assert.Nil(t, reg.Class(9, 0))
}

func TestRegistryResolve(t *testing.T) {
	reg, _ := testRegistry(t)

	tests := []struct {
		name  string
		want  Scope
		isErr bool
	}{
		{name: "camera", want: Scope{Level: ScopeFeature, ID: ID(1, 0, 0)}},
		{name: "CAMERA.Zoom", want: Scope{Level: ScopeCommand, ID: ID(1, 0, 2)}},
		{name: "piloting.settings", want: Scope{Level: ScopeClass, ID: ID(2, 1, 0)}},
		{name: "piloting.Move.TakeOff", want: Scope{Level: ScopeCommand, ID: ID(2, 0, 0)}},
		{name: "piloting.TakeOff", isErr: true},
		{name: "camera.missing", isErr: true},
		{name: "nothing", isErr: true},
		{name: "a.b.c.d", isErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := reg.ResolveScope(tt.name)
			if tt.isErr {
				assert.ErrorIs(t, err, ErrCommandNotFound)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	id, ok := reg.Resolve("camera.shoot")
	assert.True(t, ok)
	assert.Equal(t, ID(1, 0, 0), id)
	_, ok = reg.Resolve("piloting.Settings")
	assert.False(t, ok, "class scope is not a command")
}

func TestRegistryRejectsDuplicates(t *testing.T) {
	tests := []struct {
		name    string
		feature *FeatureDef
		want    error
	}{
		{
			name:    "feature id",
			feature: &FeatureDef{ID: 1, Name: "other"},
			want:    ErrDuplicateID,
		},
		{
			name:    "feature name",
			feature: &FeatureDef{ID: 9, Name: "Camera"},
			want:    ErrDuplicateName,
		},
		{
			name: "class id",
			feature: &FeatureDef{ID: 9, Name: "x", Classes: []*ClassDef{
				{ID: 1, Name: "a"}, {ID: 1, Name: "b"},
			}},
			want: ErrDuplicateID,
		},
		{
			name: "command id",
			feature: &FeatureDef{ID: 9, Name: "x", Classes: []*ClassDef{
				{ID: 0, Commands: []*CommandDef{{ID: 1, Name: "a"}, {ID: 1, Name: "b"}}},
			}},
			want: ErrDuplicateID,
		},
		{
			name: "command name",
			feature: &FeatureDef{ID: 9, Name: "x", Classes: []*ClassDef{
				{ID: 0, Commands: []*CommandDef{{ID: 1, Name: "a"}, {ID: 2, Name: "A"}}},
			}},
			want: ErrDuplicateName,
		},
		{
			name: "bad bitfield",
			feature: &FeatureDef{ID: 9, Name: "x", Classes: []*ClassDef{
				{ID: 0, Commands: []*CommandDef{{ID: 1, Name: "a", Args: []ArgDef{{Name: "b", Type: ArgBitfield, Underlying: ArgFloat}}}}},
			}},
			want: ErrInvalidArgument,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg := NewRegistry()
			require.NoError(t, reg.Register(&FeatureDef{ID: 1, Name: "camera"}))
			err := reg.Register(tt.feature)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestRegistrySeal(t *testing.T) {
	reg := NewRegistry()
	dangling := &MultisettingDef{Name: "M", Members: []Identity{ID(5, 0, 0)}}
	require.NoError(t, reg.Register(&FeatureDef{ID: 1, Name: "f", Classes: []*ClassDef{
		{Commands: []*CommandDef{{ID: 0, Name: "c", Args: []ArgDef{{Name: "m", Type: ArgMultisetting, Multisetting: dangling}}}}},
	}}))
	assert.ErrorIs(t, reg.Seal(), ErrUnknownMultisetting)
	assert.False(t, reg.Sealed())

	require.NoError(t, reg.Register(&FeatureDef{ID: 5, Name: "g", Classes: []*ClassDef{{Commands: []*CommandDef{{ID: 0, Name: "x"}}}}}))
	require.NoError(t, reg.Seal())
	assert.True(t, reg.Sealed())
	assert.ErrorIs(t, reg.Register(&FeatureDef{ID: 6, Name: "h"}), ErrSealed)
}

func TestCheckArgs(t *testing.T) {
	reg, settings := testRegistry(t)
	zoom, _ := reg.Lookup(ID(1, 0, 2))
	apply, _ := reg.Lookup(ID(1, 0, 3))
	flags, _ := reg.Lookup(ID(1, 0, 4))

	assert.NoError(t, CheckArgs(reg, zoom.Command, []any{float32(2)}))
	assert.ErrorIs(t, CheckArgs(reg, zoom.Command, []any{2.0}), ErrArgumentMismatch)
	assert.ErrorIs(t, CheckArgs(reg, zoom.Command, nil), ErrArgumentMismatch)
	assert.NoError(t, CheckArgs(reg, flags.Command, []any{uint16(3)}))

	m := NewMultisetting(reg, settings)
	assert.NoError(t, CheckArgs(reg, apply.Command, []any{m}))
	assert.ErrorIs(t, CheckArgs(reg, apply.Command, []any{(*Multisetting)(nil)}), ErrArgumentMismatch)

	require.NoError(t, m.Set(ID(1, 0, 2), float32(1.5)))
	assert.NoError(t, CheckArgs(reg, apply.Command, []any{m}))
	require.NoError(t, m.Set(ID(1, 0, 1), "manual"))
	assert.ErrorIs(t, CheckArgs(reg, apply.Command, []any{m}), ErrArgumentMismatch, "slot args are checked")
}

func TestMultisettingSlots(t *testing.T) {
	reg, settings := testRegistry(t)
	m := NewMultisetting(reg, settings)

	require.Len(t, m.Slots, 2)
	assert.Equal(t, []any{uint32(0)}, m.Slots[0].Args)
	assert.Equal(t, []any{float32(0)}, m.Slots[1].Args)
	assert.Equal(t, 0, m.SetCount())

	require.NoError(t, m.Set(ID(1, 0, 1), uint32(1)))
	assert.Equal(t, 1, m.SetCount())
	assert.True(t, m.Slot(ID(1, 0, 1)).IsSet)

	m.Clear(ID(1, 0, 1))
	assert.Equal(t, 0, m.SetCount())
	assert.ErrorIs(t, m.Set(ID(1, 0, 0)), ErrCommandNotFound)
	assert.Nil(t, m.Slot(ID(1, 0, 0)))
}

func TestParseArg(t *testing.T) {
	mode := &EnumDef{Name: "mode", Values: []EnumValue{{Name: "auto", Value: 0}, {Name: "manual", Value: 1}, {Name: "pro", Value: 3}}}
	tests := []struct {
		name  string
		arg   ArgDef
		text  string
		want  any
		isErr bool
	}{
		{name: "u8", arg: ArgDef{Name: "a", Type: ArgU8}, text: "200", want: uint8(200)},
		{name: "u8 overflow", arg: ArgDef{Name: "a", Type: ArgU8}, text: "256", isErr: true},
		{name: "i16", arg: ArgDef{Name: "a", Type: ArgI16}, text: "-300", want: int16(-300)},
		{name: "u32 hex", arg: ArgDef{Name: "a", Type: ArgU32}, text: "0xff", want: uint32(255)},
		{name: "i64", arg: ArgDef{Name: "a", Type: ArgI64}, text: "-9", want: int64(-9)},
		{name: "float", arg: ArgDef{Name: "a", Type: ArgFloat}, text: "1.5", want: float32(1.5)},
		{name: "double", arg: ArgDef{Name: "a", Type: ArgDouble}, text: "-2.5", want: -2.5},
		{name: "string", arg: ArgDef{Name: "a", Type: ArgString}, text: "hello", want: "hello"},
		{name: "enum name", arg: ArgDef{Name: "a", Type: ArgEnum, Enum: mode}, text: "Manual", want: uint32(1)},
		{name: "enum number", arg: ArgDef{Name: "a", Type: ArgEnum, Enum: mode}, text: "7", want: uint32(7)},
		{name: "enum bad", arg: ArgDef{Name: "a", Type: ArgEnum, Enum: mode}, text: "nope", isErr: true},
		{name: "bitfield names", arg: ArgDef{Name: "a", Type: ArgBitfield, Underlying: ArgU8, Enum: mode}, text: "auto|pro", want: uint8(9)},
		{name: "bitfield number", arg: ArgDef{Name: "a", Type: ArgBitfield, Underlying: ArgU16, Enum: mode}, text: "6", want: uint16(6)},
		{name: "multisetting", arg: ArgDef{Name: "a", Type: ArgMultisetting}, text: "x", isErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseArg(tt.arg, tt.text)
			if tt.isErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEnumLookup(t *testing.T) {
	e := &EnumDef{Values: []EnumValue{{Name: "a", Value: 0}, {Name: "b", Value: 5}}}
	assert.Equal(t, "b", e.NameOf(5))
	assert.Equal(t, "", e.NameOf(4))
	var none *EnumDef
	assert.Equal(t, "", none.NameOf(0))
	_, ok := none.Lookup("a")
	assert.False(t, ok)
}

func TestArgTypeNames(t *testing.T) {
	for typ := ArgU8; typ <= ArgMultisetting; typ++ {
		parsed, err := ParseArgType(typ.String())
		require.NoError(t, err)
		assert.Equal(t, typ, parsed)
	}
	_, err := ParseArgType("complex")
	assert.Error(t, err)
	assert.Equal(t, ArgU32, ArgDef{Type: ArgEnum}.WireType())
	assert.Equal(t, ArgU16, ArgDef{Type: ArgBitfield, Underlying: ArgU16}.WireType())
}

func TestHeader(t *testing.T) {
	buf := make([]byte, 6)
	n, err := WriteHeader(buf, ID(1, 2, 0x0305), 1)
	require.NoError(t, err)
	assert.Equal(t, 5, n)
	assert.Equal(t, []byte{0, 1, 2, 5, 3, 0}, buf)

	id, next, err := ReadHeader(buf, 1)
	require.NoError(t, err)
	assert.Equal(t, ID(1, 2, 0x0305), id)
	assert.Equal(t, 5, next)

	_, next, err = ReadHeader(buf, 3)
	assert.Error(t, err)
	assert.Equal(t, 3, next)

	n, err = WriteHeader(make([]byte, 3), ID(1, 0, 5), 0)
	assert.Error(t, err)
	assert.Equal(t, -1, n)
}
