package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Parrot-Developers/libARCommands-sub000/pkg/examples"
	"github.com/Parrot-Developers/libARCommands-sub000/pkg/model"
	"github.com/Parrot-Developers/libARCommands-sub000/pkg/transport"
)

func TestParseHex(t *testing.T) {
	want := []byte{0x01, 0x00, 0x0b, 0x00, 0x2a}
	for _, tc := range []struct {
		name  string
		parts []string
	}{
		{"packed", []string{"01000b002a"}},
		{"spaced", []string{"01 00 0b 00 2a"}},
		{"separate args", []string{"01", "00", "0b", "00", "2a"}},
		{"colons", []string{"01:00:0B:00:2A"}},
		{"prefixed", []string{"0x01", "0x00", "0x0b", "0x00", "0X2a"}},
	} {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseHex(tc.parts...)
			require.NoError(t, err)
			assert.Equal(t, want, got)
		})
	}

	_, err := ParseHex("01 0")
	assert.Error(t, err)
	_, err = ParseHex("zz")
	assert.Error(t, err)
}

func TestRunDescribe(t *testing.T) {
	reg := examples.Registry()

	var out bytes.Buffer
	require.NoError(t, RunDescribe(reg, []string{"01 00 0b 00 2a"}, &out))
	assert.Equal(t, "camera.ping: | value -> 42\n", out.String())

	out.Reset()
	err := RunDescribe(reg, []string{"09000000"}, &out)
	assert.Error(t, err)
	assert.Equal(t, "UNKNOWN -> Unknown command\n", out.String())
}

func TestBuildArgs(t *testing.T) {
	reg := examples.Registry()

	info, args, err := BuildArgs(reg, "ARDRONE3.piloting.pcmd", []string{"1", "-10", "0", "10", "0", "7"})
	require.NoError(t, err)
	assert.Equal(t, examples.PilotingPCMD, info.ID)
	assert.Equal(t, []any{uint8(1), int8(-10), int8(0), int8(10), int8(0), uint32(7)}, args)

	_, args, err = BuildArgs(reg, "camera.set_exposure", []string{"manual", "400", "0.5"})
	require.NoError(t, err)
	assert.Equal(t, []any{uint32(1), uint16(400), float32(0.5)}, args)

	_, _, err = BuildArgs(reg, "camera.ping", nil)
	assert.ErrorContains(t, err, "takes 1 arguments")

	_, _, err = BuildArgs(reg, "camera.nope", nil)
	assert.ErrorContains(t, err, "unknown command")

	_, _, err = BuildArgs(reg, "camera.ping", []string{"256"})
	assert.Error(t, err)
}

func TestBuildArgsMultisetting(t *testing.T) {
	reg := examples.Registry()

	_, args, err := BuildArgs(reg, "camera.set_config", []string{"photo_mode=burst; camera.set_zoom=1.5"})
	require.NoError(t, err)
	require.Len(t, args, 1)
	m, ok := args[0].(*model.Multisetting)
	require.True(t, ok)

	set := map[model.Identity][]any{}
	for _, slot := range m.Slots {
		if slot.IsSet {
			set[slot.ID] = slot.Args
		}
	}
	assert.Equal(t, map[model.Identity][]any{
		examples.CameraPhotoMode: {uint32(2)},
		examples.CameraSetZoom:   {1.5},
	}, set)

	_, args, err = BuildArgs(reg, "camera.set_config", []string{""})
	require.NoError(t, err)
	for _, slot := range args[0].(*model.Multisetting).Slots {
		assert.False(t, slot.IsSet)
	}

	for _, text := range []string{
		"ping=1",
		"photo_mode=burst,1",
		"set_exposure=auto",
		"set_zoom=fast",
	} {
		_, _, err := BuildArgs(reg, "camera.set_config", []string{text})
		assert.Error(t, err, text)
	}
}

func TestRunEncode(t *testing.T) {
	reg := examples.Registry()

	var out bytes.Buffer
	require.NoError(t, RunEncode(reg, "camera.ping", []string{"42"}, EncodeOptions{}, &out))
	assert.Equal(t, "01000b002a\ncamera.ping: | value -> 42\n", out.String())

	out.Reset()
	require.NoError(t, RunEncode(reg, "camera.set_label", []string{"a"}, EncodeOptions{}, &out))
	assert.Contains(t, out.String(), "warning: camera.set_label is deprecated")

	out.Reset()
	require.NoError(t, RunEncode(reg, "camera.set_config", []string{"photo_mode=burst;set_zoom=1.5"}, EncodeOptions{}, &out))
	assert.Contains(t, out.String(),
		"camera.set_config: | settings -> {camera.photo_mode: | mode -> 2}{camera.set_zoom: | level -> 1.500000}")
}

func TestRunEncodeCapture(t *testing.T) {
	reg := examples.Registry()
	path := filepath.Join(t.TempDir(), "out.cap")

	require.NoError(t, RunEncode(reg, "camera.ping", []string{"1"}, EncodeOptions{Capture: path}, &bytes.Buffer{}))
	require.NoError(t, RunEncode(reg, "ardrone3.Piloting.TakeOff", nil, EncodeOptions{Capture: path}, &bytes.Buffer{}))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	fr := transport.NewFrameReader(f)
	first, err := fr.ReadFrame()
	require.NoError(t, err)
	assert.Equal(t, []byte{0x01, 0x00, 0x0b, 0x00, 0x01}, first)
	second, err := fr.ReadFrame()
	require.NoError(t, err)
	assert.Equal(t, []byte{0x02, 0x00, 0x01, 0x00}, second)
}

func TestRunList(t *testing.T) {
	reg := examples.Registry()

	var out bytes.Buffer
	RunList(reg, "", &out)
	assert.Len(t, strings.Split(strings.TrimSpace(out.String()), "\n"), reg.Len())

	out.Reset()
	RunList(reg, "Ardrone3.Piloting", &out)
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	assert.Len(t, lines, 4)
	assert.Contains(t, out.String(), "ardrone3.Piloting.PCMD(flag u8, roll i8, pitch i8, yaw i8, gaz i8, timestampAndSeqNum u32)")

	out.Reset()
	RunList(reg, "camera.set_label", &out)
	assert.Contains(t, out.String(), "[deprecated]")
}
