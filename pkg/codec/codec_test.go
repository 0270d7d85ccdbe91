package codec_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Parrot-Developers/libARCommands-sub000/pkg/codec"
	"github.com/Parrot-Developers/libARCommands-sub000/pkg/examples"
	"github.com/Parrot-Developers/libARCommands-sub000/pkg/model"
)

type sample struct {
	name string
	id   model.Identity
	args func() []any
}

func plain(args ...any) func() []any {
	if args == nil {
		args = []any{}
	}
	return func() []any { return args }
}

func samples() []sample {
	return []sample{
		{"take_photo", examples.CameraTakePhoto, plain()},
		{"all_states", examples.CommonAllStates, plain()},
		{"current_date", examples.CommonCurrentDate, plain("2026-10-15")},
		{"empty string", examples.SettingsName, plain("")},
		{"set_exposure", examples.CameraSetExposure, plain(uint32(1), uint16(400), float32(0.01))},
		{"unknown enum ordinal", examples.CameraPhotoMode, plain(uint32(77))},
		{"set_zoom", examples.CameraSetZoom, plain(3.25)},
		{"alerts", examples.CameraAlerts, plain(uint8(0b1001))},
		{"ping", examples.CameraPing, plain(uint8(42))},
		{"telemetry", examples.CameraTelemetry, plain(
			uint8(0xFF), int8(-128), uint16(0xBEEF), int16(-32768),
			uint32(0xDEADBEEF), int32(-2), uint64(1<<63+5), int64(-1<<62),
			float32(-1.5), 6.02214076e23, "héllo wörld",
		)},
		{"pcmd", examples.PilotingPCMD, plain(uint8(1), int8(-10), int8(20), int8(-30), int8(40), uint32(123456))},
		{"flip", examples.AnimationsFlip, plain(uint32(3))},
		{"empty multisetting", examples.CameraSetConfig, func() []any {
			return []any{examples.CameraConfig()}
		}},
		{"partial multisetting", examples.CameraSetConfig, func() []any {
			m := examples.CameraConfig()
			mustSet(m, examples.CameraPhotoMode, uint32(2))
			mustSet(m, examples.CameraSetZoom, 1.5)
			return []any{m}
		}},
		{"full multisetting", examples.CameraSetConfig, func() []any {
			m := examples.CameraConfig()
			mustSet(m, examples.CameraPhotoMode, uint32(0))
			mustSet(m, examples.CameraSetExposure, uint32(0), uint16(100), float32(0.5))
			mustSet(m, examples.CameraSetZoom, 2.0)
			return []any{m}
		}},
	}
}

func mustSet(m *model.Multisetting, id model.Identity, args ...any) {
	if err := m.Set(id, args...); err != nil {
		panic(err)
	}
}

func TestGenerateZeroArgCommand(t *testing.T) {
	buf := make([]byte, 16)
	n, err := codec.Generate(examples.Registry(), model.ID(1, 0, 5), buf)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x01, 0x00, 0x05, 0x00}, buf[:n])
}

func TestGenerateNotEnoughSpaceAtCommandID(t *testing.T) {
	buf := make([]byte, 3)
	n, err := codec.Generate(examples.Registry(), model.ID(1, 0, 5), buf)
	assert.ErrorIs(t, err, codec.ErrNotEnoughSpace)
	assert.Zero(t, n)
	assert.Equal(t, []byte{0x01, 0x00, 0x00}, buf, "feature and class are written before the failure")
}

func TestGenerateLittleEndianArgs(t *testing.T) {
	reg := examples.Registry()
	b, err := codec.Encode(reg, examples.PilotingPCMD, uint8(1), int8(-1), int8(2), int8(-3), int8(4), uint32(0x01020304))
	require.NoError(t, err)
	assert.Equal(t, []byte{
		0x02, 0x00, 0x02, 0x00,
		0x01, 0xFF, 0x02, 0xFD, 0x04,
		0x04, 0x03, 0x02, 0x01,
	}, b)

	b, err = codec.Encode(reg, examples.SettingsName, "ab")
	require.NoError(t, err)
	assert.Equal(t, []byte{0x00, 0x02, 0x01, 0x00, 'a', 'b', 0x00}, b)
}

func TestGenerateBadArgs(t *testing.T) {
	reg := examples.Registry()
	buf := make([]byte, 128)

	tests := []struct {
		name string
		id   model.Identity
		args []any
	}{
		{"unknown command", model.ID(1, 0, 99), nil},
		{"too few", examples.CameraPing, nil},
		{"too many", examples.CameraPing, []any{uint8(1), uint8(2)}},
		{"wrong type", examples.CameraPing, []any{42}},
		{"enum as int", examples.CameraPhotoMode, []any{1}},
		{"nil multisetting", examples.CameraSetConfig, []any{(*model.Multisetting)(nil)}},
		{"untyped nil", examples.CameraSetConfig, []any{nil}},
		{"foreign multisetting", examples.CameraSetConfig, []any{&model.Multisetting{Def: &model.MultisettingDef{Name: "Other"}}}},
		{"NUL in string", examples.SettingsName, []any{"a\x00b"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := codec.Generate(reg, tt.id, buf, tt.args...)
			assert.ErrorIs(t, err, codec.ErrBadArgs)
		})
	}

	_, err := codec.Generate(nil, examples.CameraPing, buf, uint8(1))
	assert.ErrorIs(t, err, codec.ErrBadArgs)

	_, err = codec.Generate(reg, examples.CameraPing, buf, "x")
	assert.ErrorIs(t, err, model.ErrArgumentMismatch)
}

func TestGenerateMultisettingWireShape(t *testing.T) {
	m := examples.CameraConfig()
	mustSet(m, examples.CameraPhotoMode, uint32(2))
	mustSet(m, examples.CameraSetZoom, 1.0)

	b, err := codec.Encode(examples.Registry(), examples.CameraSetConfig, m)
	require.NoError(t, err)
	assert.Equal(t, []byte{
		0x01, 0x00, 0x0A, 0x00, // set_config
		24, 0x00, // aggregate size
		8, 0x00, 0x01, 0x00, 0x08, 0x00, 0x02, 0x00, 0x00, 0x00, // photo_mode(2)
		12, 0x00, 0x01, 0x00, 0x07, 0x00, 0, 0, 0, 0, 0, 0, 0xF0, 0x3F, // set_zoom(1.0)
	}, b)
}

func TestGenerateMultisettingNotEnoughSpace(t *testing.T) {
	m := examples.CameraConfig()
	mustSet(m, examples.CameraPhotoMode, uint32(2))
	mustSet(m, examples.CameraSetZoom, 1.0)

	// Room for the header, the aggregate and the first sub-command only.
	buf := make([]byte, 4+2+10+4)
	_, err := codec.Generate(examples.Registry(), examples.CameraSetConfig, buf, m)
	assert.ErrorIs(t, err, codec.ErrNotEnoughSpace)
}

func TestEncodeGrowsBuffer(t *testing.T) {
	long := strings.Repeat("x", 1000)
	b, err := codec.Encode(examples.Registry(), examples.SettingsName, long)
	require.NoError(t, err)
	assert.Len(t, b, 4+len(long)+1)

	_, err = codec.Encode(examples.Registry(), examples.SettingsName, strings.Repeat("x", codec.MaxCommandSize))
	assert.ErrorIs(t, err, codec.ErrNotEnoughSpace)
}

func TestRoundTrip(t *testing.T) {
	reg := examples.Registry()
	dec := codec.NewDecoder(reg)
	defer dec.Close()

	for _, s := range samples() {
		t.Run(s.name, func(t *testing.T) {
			args := s.args()
			b, err := codec.Encode(reg, s.id, args...)
			require.NoError(t, err)

			id, got, err := dec.DecodeArgs(b)
			require.NoError(t, err)
			assert.Equal(t, s.id, id)
			assert.Equal(t, args, got)
		})
	}
}

func TestTruncationYieldsNotEnoughData(t *testing.T) {
	reg := examples.Registry()
	dec := codec.NewDecoder(reg)
	defer dec.Close()

	for _, s := range samples() {
		t.Run(s.name, func(t *testing.T) {
			b, err := codec.Encode(reg, s.id, s.args()...)
			require.NoError(t, err)
			require.NoError(t, dec.SetCallback(s.id, func(model.Identity, []any, any) {
				t.Errorf("callback invoked for a truncated frame")
			}, nil))

			for n := 0; n < len(b); n++ {
				truncated := append([]byte(nil), b[:n]...)
				_, _, err := dec.DecodeArgs(truncated)
				assert.ErrorIs(t, err, codec.ErrNotEnoughData, "length %d", n)
				assert.ErrorIs(t, dec.Decode(truncated), codec.ErrNotEnoughData, "length %d", n)
			}
		})
	}
}

func TestMultisettingSubsetConsistency(t *testing.T) {
	reg := examples.Registry()
	m := examples.CameraConfig()
	mustSet(m, examples.CameraSetExposure, uint32(1), uint16(800), float32(0.25))

	b, err := codec.Encode(reg, examples.CameraSetConfig, m)
	require.NoError(t, err)

	_, args, err := codec.NewDecoder(reg).DecodeArgs(b)
	require.NoError(t, err)
	got := args[0].(*model.Multisetting)

	require.Len(t, got.Slots, 3)
	assert.False(t, got.Slot(examples.CameraPhotoMode).IsSet)
	assert.Equal(t, []any{uint32(0)}, got.Slot(examples.CameraPhotoMode).Args)
	assert.True(t, got.Slot(examples.CameraSetExposure).IsSet)
	assert.Equal(t, []any{uint32(1), uint16(800), float32(0.25)}, got.Slot(examples.CameraSetExposure).Args)
	assert.False(t, got.Slot(examples.CameraSetZoom).IsSet)
	assert.Equal(t, 1, got.SetCount())
}

func TestMultisettingSkipsForeignSubCommands(t *testing.T) {
	b := []byte{
		0x01, 0x00, 0x0A, 0x00,
		26, 0x00,
		7, 0x00, 0x01, 0x00, 0x63, 0x00, 0xAA, 0xBB, 0xCC, // unknown 1.0.99 with 3 arg bytes
		5, 0x00, 0x01, 0x00, 0x0B, 0x00, 0x07, // ping: known, not a member
		8, 0x00, 0x01, 0x00, 0x08, 0x00, 0x01, 0x00, 0x00, 0x00, // photo_mode(1)
	}
	_, args, err := codec.NewDecoder(examples.Registry()).DecodeArgs(b)
	require.NoError(t, err)

	m := args[0].(*model.Multisetting)
	assert.Equal(t, 1, m.SetCount())
	assert.Equal(t, []any{uint32(1)}, m.Slot(examples.CameraPhotoMode).Args)
}

func TestMultisettingBoundsChecks(t *testing.T) {
	dec := codec.NewDecoder(examples.Registry())
	tests := []struct {
		name string
		buf  []byte
	}{
		{
			name: "aggregate larger than buffer",
			buf:  []byte{0x01, 0x00, 0x0A, 0x00, 40, 0x00, 4, 0x00, 0x01, 0x00, 0x05, 0x00},
		},
		{
			name: "sub-command crosses aggregate end",
			buf:  []byte{0x01, 0x00, 0x0A, 0x00, 6, 0x00, 9, 0x00, 0x01, 0x00, 0x63, 0x00, 0, 0, 0, 0, 0},
		},
		{
			name: "sub-command shorter than header",
			buf:  []byte{0x01, 0x00, 0x0A, 0x00, 4, 0x00, 2, 0x00, 0x01, 0x00},
		},
		{
			name: "sub-command args cross sub-command size",
			buf:  []byte{0x01, 0x00, 0x0A, 0x00, 8, 0x00, 6, 0x00, 0x01, 0x00, 0x08, 0x00, 0x01, 0x00, 0x00, 0x00},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := dec.DecodeArgs(tt.buf)
			assert.ErrorIs(t, err, codec.ErrNotEnoughData)
		})
	}
}
