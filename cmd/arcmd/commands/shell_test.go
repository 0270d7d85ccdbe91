package commands

import (
	"bytes"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/Parrot-Developers/libARCommands-sub000/internal/config"
	"github.com/Parrot-Developers/libARCommands-sub000/pkg/examples"
)

func newTestShell() *Shell {
	return NewShell(&Env{
		Config:   config.Default(),
		Registry: examples.Registry(),
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
}

func TestShellEncodeThenDescribe(t *testing.T) {
	s := newTestShell()
	var out bytes.Buffer

	if s.Exec("encode camera.ping 42", &out) {
		t.Fatal("encode should not quit")
	}
	if got := out.String(); got != "01 00 0b 00 2a\n" {
		t.Errorf("encode output = %q", got)
	}

	out.Reset()
	s.Exec("describe", &out)
	if got := out.String(); got != "camera.ping: | value -> 42\n" {
		t.Errorf("describe output = %q", got)
	}

	out.Reset()
	s.Exec("d 02 00 01 00", &out)
	if got := out.String(); got != "ardrone3.Piloting.TakeOff:\n" {
		t.Errorf("describe hex output = %q", got)
	}
}

func TestShellDecode(t *testing.T) {
	s := newTestShell()
	var out bytes.Buffer

	s.Exec("e camera.photo_mode burst", &out)
	out.Reset()
	s.Exec("decode", &out)
	output := out.String()
	if !strings.Contains(output, "camera.photo_mode [1.0.8]") {
		t.Errorf("expected command header, got: %s", output)
	}
	if !strings.Contains(output, "mode enum = burst (2)") {
		t.Errorf("expected enum name, got: %s", output)
	}

	out.Reset()
	s.Exec("decode 01 00 0d 00 61 62 00", &out)
	if !strings.Contains(out.String(), `label string = "ab"`) {
		t.Errorf("expected quoted string, got: %s", out.String())
	}

	out.Reset()
	s.Exec("decode 09 00 00 00", &out)
	if !strings.HasPrefix(out.String(), "Error:") {
		t.Errorf("expected error for unknown command, got: %s", out.String())
	}
}

func TestShellErrors(t *testing.T) {
	s := newTestShell()

	tests := []struct {
		line string
		want string
	}{
		{"describe", "Error: no command encoded yet"},
		{"decode", "Error: no command encoded yet"},
		{"encode", "Usage: encode"},
		{"encode camera.ping", "Error:"},
		{"describe zz", "Error: invalid hex"},
		{"frobnicate", "Unknown command: frobnicate"},
	}
	for _, tt := range tests {
		var out bytes.Buffer
		s.Exec(tt.line, &out)
		if !strings.Contains(out.String(), tt.want) {
			t.Errorf("%q: expected %q in output, got: %s", tt.line, tt.want, out.String())
		}
	}
}

func TestShellListHelpQuit(t *testing.T) {
	s := newTestShell()
	var out bytes.Buffer

	s.Exec("ls camera.set", &out)
	if n := strings.Count(out.String(), "\n"); n != 4 {
		t.Errorf("expected 4 camera.set* commands, got %d:\n%s", n, out.String())
	}

	out.Reset()
	s.Exec("help", &out)
	if !strings.Contains(out.String(), "Commands:") {
		t.Errorf("expected help text, got: %s", out.String())
	}

	if s.Exec("   ", &out) {
		t.Error("blank line should not quit")
	}
	for _, line := range []string{"quit", "exit", "Q"} {
		if !s.Exec(line, &out) {
			t.Errorf("%q should quit", line)
		}
	}
}
