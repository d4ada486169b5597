package audio

import (
	"context"
	"math"
	"sync"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/effects"
	"github.com/faiface/beep/speaker"

	"github.com/jscyril/bgaudio/api"
	playerrors "github.com/jscyril/bgaudio/pkg/errors"
	"github.com/jscyril/bgaudio/pkg/events"
)

// Ensure SpeakerResource implements Resource at compile time
var _ Resource = (*SpeakerResource)(nil)

const (
	speakerRate       = beep.SampleRate(44100)
	resampleQuality   = 4
	timeUpdatePeriod  = 250 * time.Millisecond
	speakerBufferTime = time.Second / 10
)

var (
	speakerOnce sync.Once
	speakerErr  error
)

// initSpeaker opens the output device once per process.
func initSpeaker() error {
	speakerOnce.Do(func() {
		speakerErr = speaker.Init(speakerRate, speakerRate.N(speakerBufferTime))
	})
	return speakerErr
}

// SpeakerResource plays one looping source through the system speaker
type SpeakerResource struct {
	mu         sync.Mutex
	bus        *events.Bus
	activation *Activation

	source  string
	loop    bool
	level   float64
	playing bool

	streamer beep.StreamSeekCloser
	format   beep.Format
	ctrl     *beep.Ctrl
	volume   *effects.Volume
	queued   bool
}

// NewSpeakerResource creates a resource gated by the given activation
// policy. The loop flag starts set.
func NewSpeakerResource(activation *Activation) *SpeakerResource {
	return &SpeakerResource{
		bus:        events.NewBus(),
		activation: activation,
		loop:       true,
		level:      1,
	}
}

// Start begins emitting time updates while playing
func (s *SpeakerResource) Start(ctx context.Context) {
	go s.trackPosition(ctx)
}

// trackPosition publishes the playback position periodically
func (s *SpeakerResource) trackPosition(ctx context.Context) {
	ticker := time.NewTicker(timeUpdatePeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.mu.Lock()
			playing := s.playing
			s.mu.Unlock()
			if playing {
				s.bus.Publish(api.AudioEvent{Type: api.EventTimeUpdate, Payload: s.Position()})
			}
		}
	}
}

// SetSource loads path. Reassigning the current path is a no-op; a new path
// replaces the loaded stream and keeps the play state.
func (s *SpeakerResource) SetSource(path string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if path == s.source && s.streamer != nil {
		return
	}
	if s.streamer != nil {
		s.bus.Publish(api.AudioEvent{Type: api.EventAbort, Payload: s.source})
		s.releaseLocked()
	}

	s.source = path
	s.bus.Publish(api.AudioEvent{Type: api.EventLoadStart, Payload: path})

	streamer, format, err := openAudio(path)
	if err != nil {
		s.bus.Publish(api.AudioEvent{
			Type:    api.EventError,
			Payload: playerrors.NewResourceError("load", path, err),
		})
		return
	}

	var stream beep.Streamer = streamer
	if s.loop {
		stream = beep.Loop(-1, streamer)
	}
	if format.SampleRate != speakerRate {
		stream = beep.Resample(resampleQuality, format.SampleRate, speakerRate, stream)
	}

	s.streamer = streamer
	s.format = format
	s.ctrl = &beep.Ctrl{Streamer: stream, Paused: !s.playing}
	s.volume = &effects.Volume{Streamer: s.ctrl, Base: 2}
	s.applyLevelLocked()

	if s.playing {
		speaker.Play(s.volume)
		s.queued = true
	}

	s.bus.Publish(api.AudioEvent{Type: api.EventCanPlay, Payload: path})
	s.bus.Publish(api.AudioEvent{Type: api.EventCanPlayThrough, Payload: path})
}

// Source returns the assigned source path
func (s *SpeakerResource) Source() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.source
}

// SetVolume sets the output gain (0.0 to 1.0)
func (s *SpeakerResource) SetVolume(v float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.level = clamp01(v)
	s.applyLevelLocked()
}

// Volume returns the output gain
func (s *SpeakerResource) Volume() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.level
}

// SetLoop sets the loop flag. It applies from the next SetSource.
func (s *SpeakerResource) SetLoop(loop bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loop = loop
}

// Loop returns the loop flag
func (s *SpeakerResource) Loop() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loop
}

// Position returns the playback position within the source
func (s *SpeakerResource) Position() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.streamer == nil {
		return 0
	}
	var pos int
	s.withSpeakerLocked(func() {
		pos = s.streamer.Position()
	})
	return s.format.SampleRate.D(pos)
}

// Duration returns the length of the loaded source
func (s *SpeakerResource) Duration() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.streamer == nil {
		return 0
	}
	return s.format.SampleRate.D(s.streamer.Len())
}

// Play starts or resumes playback
func (s *SpeakerResource) Play(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.activation.Granted() {
		return playerrors.NewResourceError("play", s.source, playerrors.ErrPlaybackBlocked)
	}
	if s.streamer == nil {
		return playerrors.NewResourceError("play", s.source, playerrors.ErrNoSource)
	}
	if err := initSpeaker(); err != nil {
		rerr := playerrors.NewResourceError("speaker_init", s.source, err)
		s.bus.Publish(api.AudioEvent{Type: api.EventError, Payload: rerr})
		return rerr
	}

	if !s.queued {
		speaker.Play(s.volume)
		s.queued = true
	}
	s.withSpeakerLocked(func() {
		s.ctrl.Paused = false
	})

	if !s.playing {
		s.playing = true
		s.bus.Publish(api.AudioEvent{Type: api.EventPlay, Payload: s.source})
	}
	return nil
}

// Pause pauses playback
func (s *SpeakerResource) Pause() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ctrl != nil {
		s.withSpeakerLocked(func() {
			s.ctrl.Paused = true
		})
	}
	if s.playing {
		s.playing = false
		s.bus.Publish(api.AudioEvent{Type: api.EventPause, Payload: s.source})
	}
}

// Subscribe returns a channel of resource notifications
func (s *SpeakerResource) Subscribe(types ...api.EventType) <-chan api.AudioEvent {
	return s.bus.Subscribe(types...)
}

// Unsubscribe stops delivery to ch
func (s *SpeakerResource) Unsubscribe(ch <-chan api.AudioEvent) {
	s.bus.Unsubscribe(ch)
}

// Close stops playback and releases the decoder
func (s *SpeakerResource) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.playing = false
	s.releaseLocked()
	s.bus.Close()
	return nil
}

// releaseLocked detaches the current stream from the speaker and closes it
func (s *SpeakerResource) releaseLocked() {
	if s.ctrl != nil {
		// A Ctrl without a streamer reports drained, so the mixer drops it.
		s.withSpeakerLocked(func() {
			s.ctrl.Streamer = nil
		})
	}
	if s.streamer != nil {
		s.streamer.Close()
	}
	s.streamer = nil
	s.ctrl = nil
	s.volume = nil
	s.queued = false
}

// applyLevelLocked maps the linear level onto the base-2 volume effect
func (s *SpeakerResource) applyLevelLocked() {
	if s.volume == nil {
		return
	}
	level := s.level
	s.withSpeakerLocked(func() {
		if level <= 0 {
			s.volume.Silent = true
			return
		}
		s.volume.Silent = false
		s.volume.Volume = math.Log2(level)
	})
}

// withSpeakerLocked runs fn under the speaker lock once the stream has
// been handed to the speaker goroutine.
func (s *SpeakerResource) withSpeakerLocked(fn func()) {
	if !s.queued {
		fn()
		return
	}
	speaker.Lock()
	defer speaker.Unlock()
	fn()
}
