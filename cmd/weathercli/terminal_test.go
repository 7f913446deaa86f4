package main

import (
	"bytes"
	"strings"
	"testing"

	"city-weather/models"
)

func TestBackground(t *testing.T) {
	tests := []struct {
		tone models.Tone
		want string
	}{
		{models.HotTone, "\x1b[48;2;255;221;170m\x1b[30m"},
		{models.ColdTone, "\x1b[48;2;207;231;255m\x1b[30m"},
		{models.NeutralTone, "\x1b[48;2;242;242;242m\x1b[30m"},
		{"red", ""},
		{"#zzzzzz", ""},
	}
	for _, tt := range tests {
		if got := background(tt.tone); got != tt.want {
			t.Errorf("background(%q) = %q, want %q", tt.tone, got, tt.want)
		}
	}
}

func TestTerminalSurfaceRedrawsLine(t *testing.T) {
	var out bytes.Buffer
	s := newTerminalSurface(&out, false)

	s.ShowText(1, "Ricerca in corso...")
	s.ShowText(1, "Città: Rome — Temperatura: 30°C")
	s.SetTone(1, models.HotTone)
	s.done()

	want := clearLine + "Ricerca in corso..." +
		clearLine + "Città: Rome — Temperatura: 30°C" +
		clearLine + "Città: Rome — Temperatura: 30°C\n"
	if out.String() != want {
		t.Errorf("output = %q, want %q", out.String(), want)
	}
}

func TestTerminalSurfaceColorAndStaleUpdates(t *testing.T) {
	var out bytes.Buffer
	s := newTerminalSurface(&out, true)

	s.ShowText(2, "Città: Oslo — Temperatura: 5°C")
	s.SetTone(2, models.ColdTone)
	out.Reset()

	s.ShowText(1, "old")
	s.SetTone(1, models.HotTone)
	if out.Len() != 0 {
		t.Errorf("stale update drawn: %q", out.String())
	}

	s.SetTone(2, models.ColdTone)
	if !strings.Contains(out.String(), background(models.ColdTone)+" Città: Oslo") {
		t.Errorf("output = %q", out.String())
	}
}
