// Package audiotest provides an in-memory playback resource for tests.
package audiotest

import (
	"context"
	"sync"
	"time"

	"github.com/jscyril/bgaudio/api"
	playerrors "github.com/jscyril/bgaudio/pkg/errors"
	"github.com/jscyril/bgaudio/pkg/events"
)

// Resource records calls and publishes the notifications a real resource
// would. It starts at volume 1 with the loop flag set.
type Resource struct {
	mu       sync.Mutex
	bus      *events.Bus
	source   string
	volume   float64
	loop     bool
	position time.Duration
	playing  bool
	blocked  bool
	playErr  error

	plays   int
	pauses  int
	volumes []float64
}

// NewResource creates a fake resource
func NewResource() *Resource {
	return &Resource{bus: events.NewBus(), volume: 1, loop: true}
}

// SetBlocked makes Play fail with ErrPlaybackBlocked
func (r *Resource) SetBlocked(blocked bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.blocked = blocked
}

// Grant clears the blocked state, so the fake can serve as an activator
func (r *Resource) Grant() {
	r.SetBlocked(false)
}

// SetPlayErr makes Play return err
func (r *Resource) SetPlayErr(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.playErr = err
}

// Publish emits a notification to subscribers
func (r *Resource) Publish(ev api.AudioEvent) {
	r.bus.Publish(ev)
}

func (r *Resource) SetSource(path string) {
	r.mu.Lock()
	r.source = path
	r.position = 0
	r.mu.Unlock()
	r.bus.Publish(api.AudioEvent{Type: api.EventLoadStart, Payload: path})
	r.bus.Publish(api.AudioEvent{Type: api.EventCanPlay, Payload: path})
}

func (r *Resource) Source() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.source
}

func (r *Resource) SetVolume(v float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.volume = v
	r.volumes = append(r.volumes, v)
}

func (r *Resource) Volume() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.volume
}

func (r *Resource) SetLoop(loop bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.loop = loop
}

func (r *Resource) Loop() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.loop
}

func (r *Resource) Position() time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.position
}

func (r *Resource) Play(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.plays++
	if err := ctx.Err(); err != nil {
		return err
	}
	if r.blocked {
		return playerrors.NewResourceError("play", r.source, playerrors.ErrPlaybackBlocked)
	}
	if r.playErr != nil {
		return r.playErr
	}
	r.playing = true
	return nil
}

func (r *Resource) Pause() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pauses++
	r.playing = false
}

func (r *Resource) Subscribe(types ...api.EventType) <-chan api.AudioEvent {
	return r.bus.Subscribe(types...)
}

func (r *Resource) Unsubscribe(ch <-chan api.AudioEvent) {
	r.bus.Unsubscribe(ch)
}

// Playing reports whether the last Play/Pause left the fake playing
func (r *Resource) Playing() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.playing
}

// Plays returns the number of Play calls
func (r *Resource) Plays() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.plays
}

// Pauses returns the number of Pause calls
func (r *Resource) Pauses() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.pauses
}

// VolumeHistory returns every value passed to SetVolume
func (r *Resource) VolumeHistory() []float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]float64, len(r.volumes))
	copy(out, r.volumes)
	return out
}
