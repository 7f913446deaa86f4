package flow

import (
	"city-weather/models"
)

// Surface is where the flow shows its progress and result.
// requestID grows with every accepted submission; a surface shared by several
// flows can use it to drop updates older than what it already shows.
type Surface interface {
	ShowText(requestID uint64, text string)
	SetTone(requestID uint64, tone models.Tone)
}

// Trigger is the control that starts a lookup, e.g. a search button
type Trigger interface {
	SetEnabled(enabled bool)
}

// Binding is the UI a flow drives. It is built once at startup.
type Binding struct {
	Surface Surface
	Trigger Trigger
}

// NopTrigger is for front ends with no control to disable
type NopTrigger struct{}

func (NopTrigger) SetEnabled(bool) {}

type nopSurface struct{}

func (nopSurface) ShowText(uint64, string) {}
func (nopSurface) SetTone(uint64, models.Tone) {}

func (b Binding) withDefaults() Binding {
	if b.Surface == nil {
		b.Surface = nopSurface{}
	}
	if b.Trigger == nil {
		b.Trigger = NopTrigger{}
	}
	return b
}
