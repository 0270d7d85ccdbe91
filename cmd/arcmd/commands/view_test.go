package commands

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/Parrot-Developers/libARCommands-sub000/pkg/log"
)

func TestFormatFrameEvent(t *testing.T) {
	ts := time.Date(2026, 1, 28, 10, 15, 32, 123456000, time.UTC)
	event := log.Event{
		Timestamp: ts,
		SessionID: "abc12345-6789-0123-4567-890abcdef012",
		Direction: log.DirectionIn,
		Layer:     log.LayerTransport,
		Category:  log.CategoryFrame,
		Source:    "flight.cap",
		Frame: &log.FrameEvent{
			Size:      128,
			Data:      []byte{0xa1, 0x01, 0x02, 0x03},
			Truncated: true,
		},
	}

	var buf bytes.Buffer
	formatEvent(&buf, event)
	output := buf.String()

	for _, want := range []string{
		"2026-01-28T10:15:32.123456Z",
		"[session:abc12345]",
		"IN ",
		"TRANSPORT Frame",
		"Source: flight.cap",
		"Size: 128 bytes",
		"Data: a1010203 (truncated)",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("expected %q in output, got: %s", want, output)
		}
	}
}

func TestFormatCommandEvent(t *testing.T) {
	ts := time.Date(2026, 1, 28, 10, 15, 32, 0, time.UTC)
	event := log.Event{
		Timestamp: ts,
		SessionID: "abc",
		Direction: log.DirectionOut,
		Layer:     log.LayerCodec,
		Category:  log.CategoryCommand,
		Command: &log.CommandEvent{
			Feature:     2,
			Class:       5,
			Command:     0,
			Name:        "ardrone3.Animations.Flip",
			Size:        8,
			Description: "ardrone3.Animations.Flip: | direction -> 2",
		},
	}

	var buf bytes.Buffer
	formatEvent(&buf, event)
	output := buf.String()

	if !strings.Contains(output, "[session:abc]") {
		t.Errorf("expected short session ID kept, got: %s", output)
	}
	if !strings.Contains(output, "Command: ardrone3.Animations.Flip [2.5.0] 8 bytes") {
		t.Errorf("expected command line, got: %s", output)
	}
	if !strings.Contains(output, "Result: OK") {
		t.Errorf("expected OK result, got: %s", output)
	}
	if !strings.Contains(output, "| direction -> 2") {
		t.Errorf("expected description, got: %s", output)
	}
}

func TestFormatUnknownCommandAndError(t *testing.T) {
	code := 4
	events := []log.Event{
		{
			Layer:    log.LayerCodec,
			Category: log.CategoryCommand,
			Command:  &log.CommandEvent{Feature: 9, Size: 4, Result: "codec: unknown command"},
		},
		{
			Layer:    log.LayerFilter,
			Category: log.CategoryError,
			Error:    &log.ErrorEventData{Layer: log.LayerFilter, Message: "filter: bad buffer", Code: &code, Context: "check"},
		},
	}

	var buf bytes.Buffer
	for _, e := range events {
		formatEvent(&buf, e)
	}
	output := buf.String()

	for _, want := range []string{
		"Command: (unknown) [9.0.0] 4 bytes",
		"Result: codec: unknown command",
		"FILTER Error",
		"Message: filter: bad buffer",
		"Code: 4",
		"Context: check",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("expected %q in output, got: %s", want, output)
		}
	}
}

func TestParseFlags(t *testing.T) {
	if l, err := ParseLayerFlag("Codec"); err != nil || l != log.LayerCodec {
		t.Errorf("ParseLayerFlag(Codec) = %v, %v", l, err)
	}
	if _, err := ParseLayerFlag("wire"); err == nil {
		t.Error("expected error for unknown layer")
	}
	if d, err := ParseDirectionFlag("OUT"); err != nil || d != log.DirectionOut {
		t.Errorf("ParseDirectionFlag(OUT) = %v, %v", d, err)
	}
	if _, err := ParseDirectionFlag("both"); err == nil {
		t.Error("expected error for unknown direction")
	}
	if c, err := ParseCategoryFlag("filter"); err != nil || c != log.CategoryFilter {
		t.Errorf("ParseCategoryFlag(filter) = %v, %v", c, err)
	}
	if _, err := ParseCategoryFlag("message"); err == nil {
		t.Error("expected error for unknown category")
	}
}

func TestRunViewFiltered(t *testing.T) {
	ts := time.Date(2026, 1, 28, 10, 15, 32, 0, time.UTC)
	path := createTestLogFile(t, sampleEvents(ts))

	feature := uint8(2)
	var buf bytes.Buffer
	if err := RunView(path, ViewFilter{Feature: &feature}, &buf); err != nil {
		t.Fatalf("RunView failed: %v", err)
	}
	output := buf.String()
	if strings.Count(output, "[session:") != 1 {
		t.Errorf("expected one feature 2 event, got: %s", output)
	}
	if !strings.Contains(output, "Status: BLOCKED") {
		t.Errorf("expected filter verdict, got: %s", output)
	}

	category := log.CategoryCommand
	buf.Reset()
	if err := RunView(path, ViewFilter{Category: &category}, &buf); err != nil {
		t.Fatalf("RunView failed: %v", err)
	}
	if n := strings.Count(buf.String(), "[session:"); n != 2 {
		t.Errorf("expected 2 command events, got %d", n)
	}
}
