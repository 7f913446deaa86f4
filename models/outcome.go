package models

// FlowState is the state of a lookup flow
type FlowState int

const (
	StateIdle FlowState = iota
	StateSearching
	StateSuccess
	StateNotFoundError
	StateNetworkError
	StateDataError
)

var flowStateNames = map[FlowState]string{
	StateIdle:          "idle",
	StateSearching:     "searching",
	StateSuccess:       "success",
	StateNotFoundError: "not_found_error",
	StateNetworkError:  "network_error",
	StateDataError:     "data_error",
}

func (s FlowState) String() string {
	if name, ok := flowStateNames[s]; ok {
		return name
	}
	return "unknown"
}

func (s FlowState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Terminal reports whether the flow has finished
func (s FlowState) Terminal() bool {
	return s != StateIdle && s != StateSearching
}

// Outcome is the result of one lookup flow run
type Outcome struct {
	RequestID   uint64              `json:"requestId"`
	Query       string              `json:"query"`
	State       FlowState           `json:"state"`
	Text        string              `json:"text"`
	Tone        Tone                `json:"tone"`
	Visual      *VisualState        `json:"visualState,omitempty"`
	Coordinates *Coordinates        `json:"coordinates,omitempty"`
	Reading     *TemperatureReading `json:"reading,omitempty"`
	ErrorKind   ErrorKind           `json:"errorKind,omitempty"`
}

// StateForError maps a stage failure to the terminal flow state it produces
func StateForError(err error) FlowState {
	switch KindOf(err) {
	case KindNotFound:
		return StateNotFoundError
	case KindDataUnavailable, KindInvalidCoordinates, KindInvalidTemperature:
		return StateDataError
	default:
		return StateNetworkError
	}
}
