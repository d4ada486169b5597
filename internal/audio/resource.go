package audio

import (
	"context"
	"math"
	"sync/atomic"
	"time"

	"github.com/jscyril/bgaudio/api"
)

// Resource is a single playable audio handle. Implementations publish
// api.AudioEvent notifications to subscribers as their state changes.
type Resource interface {
	SetSource(path string)
	Source() string
	SetVolume(v float64)
	Volume() float64
	SetLoop(loop bool)
	Loop() bool
	Position() time.Duration
	// Play may block until the output device accepts the request and
	// fails with ErrPlaybackBlocked while user activation is missing.
	Play(ctx context.Context) error
	Pause()
	Subscribe(types ...api.EventType) <-chan api.AudioEvent
	Unsubscribe(ch <-chan api.AudioEvent)
}

// Durationer is implemented by resources that know the length of the
// loaded source.
type Durationer interface {
	Duration() time.Duration
}

// Activation records whether the user has interacted with the
// application yet. Resources refuse to start playback until it is granted.
// A nil *Activation is always granted.
type Activation struct {
	granted atomic.Bool
}

// NewActivation creates an activation policy in the given state
func NewActivation(granted bool) *Activation {
	a := &Activation{}
	a.granted.Store(granted)
	return a
}

// Grant marks user activation as having happened
func (a *Activation) Grant() {
	if a == nil {
		return
	}
	a.granted.Store(true)
}

// Granted reports whether playback may start
func (a *Activation) Granted() bool {
	if a == nil {
		return true
	}
	return a.granted.Load()
}

// clamp01 limits v to [0,1]. NaN maps to 0.
func clamp01(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
