package audio

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/jscyril/bgaudio/api"
	playerrors "github.com/jscyril/bgaudio/pkg/errors"
)

// DefaultVolume is the stored volume of a new controller
const DefaultVolume = 0.5

// Controller is the single point of control for the background track.
// A nil resource models a context with no audio output: every operation
// becomes a logged no-op.
type Controller struct {
	mu       sync.RWMutex
	resource Resource
	ready    bool
	playing  bool
	position time.Duration
	volume   float64
	track    *api.Track

	fadeMu sync.Mutex
	fade   *Fade
	frame  time.Duration

	startOnce sync.Once
}

// Option configures a Controller
type Option func(*Controller)

// WithFrameInterval sets how often a fade writes the volume
func WithFrameInterval(d time.Duration) Option {
	return func(c *Controller) {
		if d > 0 {
			c.frame = d
		}
	}
}

// NewController creates a controller around res, which may be nil
func NewController(res Resource, opts ...Option) *Controller {
	c := &Controller{
		resource: res,
		volume:   DefaultVolume,
		frame:    defaultFrameInterval,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

var (
	shared     *Controller
	sharedOnce sync.Once
)

// Shared returns the process-wide controller, creating it from build on
// the first call. Later calls return the same instance and ignore build.
func Shared(build func() *Controller) *Controller {
	sharedOnce.Do(func() {
		shared = build()
	})
	return shared
}

// Start keeps the ready flag, playing flag and position in sync with
// resource notifications until ctx ends. Calling it more than once has no effect.
func (c *Controller) Start(ctx context.Context) {
	if c.resource == nil {
		return
	}
	c.startOnce.Do(func() {
		sub := c.resource.Subscribe(
			api.EventLoadStart,
			api.EventCanPlay,
			api.EventTimeUpdate,
			api.EventPlay,
			api.EventPause,
			api.EventError,
		)
		go c.listen(ctx, sub)
	})
}

// listen applies resource notifications to the controller state
func (c *Controller) listen(ctx context.Context, sub <-chan api.AudioEvent) {
	defer c.resource.Unsubscribe(sub)

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-sub:
			if !ok {
				return
			}
			switch ev.Type {
			case api.EventLoadStart:
				c.mu.Lock()
				c.ready = false
				c.position = 0
				c.mu.Unlock()
			case api.EventCanPlay:
				c.mu.Lock()
				c.ready = true
				c.mu.Unlock()
			case api.EventPlay, api.EventPause:
				c.mu.Lock()
				c.playing = ev.Type == api.EventPlay
				c.mu.Unlock()
			case api.EventTimeUpdate:
				if pos, ok := ev.Payload.(time.Duration); ok {
					c.mu.Lock()
					c.position = pos
					c.mu.Unlock()
				}
			case api.EventError:
				log.Printf("audio: resource error: %v", ev.Payload)
			}
		}
	}
}

// SetSrc assigns the resource source. Playback state and position are
// left alone.
func (c *Controller) SetSrc(path string) {
	if c.resource == nil {
		log.Printf("audio: SetSrc: %v", playerrors.ErrNoResource)
		return
	}

	log.Printf("audio: setting source to %q", path)
	c.resource.SetSource(path)

	track, err := ReadTrack(path)
	if err != nil {
		log.Printf("audio: read metadata: %v", err)
		track = fallbackTrack(path)
	}
	if d, ok := c.resource.(Durationer); ok {
		track.Duration = d.Duration()
	}

	c.mu.Lock()
	c.track = track
	c.mu.Unlock()
}

// SetVolume clamps v to [0,1], stores it and applies it to the resource
func (c *Controller) SetVolume(v float64) {
	v = clamp01(v)

	c.mu.Lock()
	c.volume = v
	c.mu.Unlock()

	if c.resource != nil {
		c.resource.SetVolume(v)
	}
}

// Play requests playback. Failures are logged and reported through the
// outcome; the playing flag only changes on success.
func (c *Controller) Play(ctx context.Context) api.PlaybackOutcome {
	if c.resource == nil {
		log.Printf("audio: Play: %v", playerrors.ErrNoResource)
		return api.OutcomeUnavailable
	}

	log.Printf("audio: attempting to play %q", c.resource.Source())
	if err := c.resource.Play(ctx); err != nil {
		log.Printf("audio: failed to play: %v", err)
		if errors.Is(err, playerrors.ErrPlaybackBlocked) {
			return api.OutcomeBlocked
		}
		return api.OutcomeFailed
	}

	c.mu.Lock()
	c.playing = true
	c.mu.Unlock()
	log.Printf("audio: playback started")
	return api.OutcomeStarted
}

// Pause stops playback
func (c *Controller) Pause() {
	if c.resource == nil {
		return
	}
	c.resource.Pause()

	c.mu.Lock()
	c.playing = false
	c.mu.Unlock()
}

// Status returns a snapshot of the controller state
func (c *Controller) Status() api.Status {
	c.mu.RLock()
	st := api.Status{
		Available: c.resource != nil,
		Ready:     c.ready,
		Playing:   c.playing,
		Position:  c.position,
		Volume:    c.volume,
		Level:     c.volume,
	}
	if c.track != nil {
		track := *c.track
		st.Track = &track
	}
	c.mu.RUnlock()

	if c.resource != nil {
		st.Level = c.resource.Volume()
		st.Source = c.resource.Source()
	}
	return st
}
