package api

import "time"

// Track describes the background track currently assigned to the controller.
type Track struct {
	Title    string        `json:"title"`
	Artist   string        `json:"artist"`
	Album    string        `json:"album"`
	Duration time.Duration `json:"duration"`
	FilePath string        `json:"file_path"`
}

// Status is a read-only snapshot of the controller.
type Status struct {
	Available bool          `json:"available"`
	Ready     bool          `json:"ready"`
	Playing   bool          `json:"playing"`
	Position  time.Duration `json:"position"`
	Volume    float64       `json:"volume"`
	Level     float64       `json:"level"`
	Source    string        `json:"source"`
	Track     *Track        `json:"track,omitempty"`
}

// PlaybackOutcome reports how a play request ended.
type PlaybackOutcome int

const (
	OutcomeStarted PlaybackOutcome = iota
	OutcomeBlocked
	OutcomeUnavailable
	OutcomeFailed
)

func (o PlaybackOutcome) String() string {
	switch o {
	case OutcomeStarted:
		return "started"
	case OutcomeBlocked:
		return "blocked"
	case OutcomeUnavailable:
		return "unavailable"
	case OutcomeFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// EventType names a notification emitted by a playback resource.
type EventType int

const (
	EventLoadStart EventType = iota
	EventCanPlay
	EventCanPlayThrough
	EventPlay
	EventPause
	EventError
	EventAbort
	EventTimeUpdate
)

// AllEventTypes lists every resource notification.
var AllEventTypes = []EventType{
	EventLoadStart,
	EventCanPlay,
	EventCanPlayThrough,
	EventPlay,
	EventPause,
	EventError,
	EventAbort,
	EventTimeUpdate,
}

func (t EventType) String() string {
	switch t {
	case EventLoadStart:
		return "loadstart"
	case EventCanPlay:
		return "canplay"
	case EventCanPlayThrough:
		return "canplaythrough"
	case EventPlay:
		return "play"
	case EventPause:
		return "pause"
	case EventError:
		return "error"
	case EventAbort:
		return "abort"
	case EventTimeUpdate:
		return "timeupdate"
	default:
		return "unknown"
	}
}

// AudioEvent is a resource notification. Payload depends on Type:
// time.Duration for EventTimeUpdate, error for EventError, the source
// path for load events.
type AudioEvent struct {
	Type    EventType
	Payload interface{}
}
