package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"city-weather/models"
)

const clearLine = "\r\x1b[2K"

// terminalSurface redraws a single output line, using the tone as a 24-bit background colour
type terminalSurface struct {
	mu        sync.Mutex
	out       io.Writer
	requestID uint64
	text      string
	tone      models.Tone
	color     bool
}

func newTerminalSurface(out io.Writer, color bool) *terminalSurface {
	return &terminalSurface{out: out, tone: models.NeutralTone, color: color}
}

func (t *terminalSurface) ShowText(requestID uint64, text string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if requestID < t.requestID {
		return
	}
	if requestID > t.requestID {
		t.tone = models.NeutralTone
	}
	t.requestID = requestID
	t.text = text
	t.redraw()
}

func (t *terminalSurface) SetTone(requestID uint64, tone models.Tone) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if requestID < t.requestID {
		return
	}
	t.requestID = requestID
	t.tone = tone
	t.redraw()
}

// done ends the current output line
func (t *terminalSurface) done() {
	t.mu.Lock()
	defer t.mu.Unlock()
	fmt.Fprintln(t.out)
}

func (t *terminalSurface) redraw() {
	if !t.color {
		fmt.Fprint(t.out, clearLine+t.text)
		return
	}
	fmt.Fprint(t.out, clearLine+background(t.tone)+" "+t.text+" \x1b[0m")
}

// background returns the escape sequence for a #rrggbb tone with dark text on top
func background(tone models.Tone) string {
	hex := strings.TrimPrefix(string(tone), "#")
	if len(hex) != 6 {
		return ""
	}
	rgb, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return ""
	}
	return fmt.Sprintf("\x1b[48;2;%d;%d;%dm\x1b[30m", rgb>>16&0xff, rgb>>8&0xff, rgb&0xff)
}
