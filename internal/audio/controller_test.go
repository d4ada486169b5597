package audio

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/jscyril/bgaudio/api"
	"github.com/jscyril/bgaudio/internal/audio/audiotest"
)

var _ Resource = (*audiotest.Resource)(nil)

// eventually polls cond until it holds or a second passes
func eventually(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met within 1s")
}

func TestNewController(t *testing.T) {
	c := NewController(audiotest.NewResource())

	st := c.Status()
	if !st.Available {
		t.Error("Expected controller to be available")
	}
	if st.Ready {
		t.Error("New controller should not be ready")
	}
	if st.Playing {
		t.Error("New controller should not be playing")
	}
	if st.Volume != DefaultVolume {
		t.Errorf("Expected volume %v, got %v", DefaultVolume, st.Volume)
	}
	if c.frame != defaultFrameInterval {
		t.Errorf("Expected frame interval %v, got %v", defaultFrameInterval, c.frame)
	}
}

func TestSetVolume_Clamps(t *testing.T) {
	tests := []struct {
		name string
		in   float64
		want float64
	}{
		{"zero", 0, 0},
		{"half", 0.5, 0.5},
		{"full", 1, 1},
		{"below zero", -0.3, 0},
		{"above one", 1.7, 1},
		{"far below", -100, 0},
		{"NaN", math.NaN(), 0},
		{"positive infinity", math.Inf(1), 1},
		{"negative infinity", math.Inf(-1), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := audiotest.NewResource()
			c := NewController(res)
			c.SetVolume(tt.in)

			if got := c.Status().Volume; got != tt.want {
				t.Errorf("stored volume = %v, want %v", got, tt.want)
			}
			if got := res.Volume(); got != tt.want {
				t.Errorf("resource volume = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPlay_Outcomes(t *testing.T) {
	tests := []struct {
		name        string
		blocked     bool
		playErr     error
		want        api.PlaybackOutcome
		wantPlaying bool
	}{
		{"started", false, nil, api.OutcomeStarted, true},
		{"blocked", true, nil, api.OutcomeBlocked, false},
		{"failed", false, errors.New("device gone"), api.OutcomeFailed, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := audiotest.NewResource()
			res.SetBlocked(tt.blocked)
			res.SetPlayErr(tt.playErr)
			c := NewController(res)

			if got := c.Play(context.Background()); got != tt.want {
				t.Errorf("Play() = %v, want %v", got, tt.want)
			}
			if got := c.Status().Playing; got != tt.wantPlaying {
				t.Errorf("Playing = %v, want %v", got, tt.wantPlaying)
			}
		})
	}
}

func TestPlay_Idempotent(t *testing.T) {
	res := audiotest.NewResource()
	c := NewController(res)

	for i := 0; i < 3; i++ {
		if got := c.Play(context.Background()); got != api.OutcomeStarted {
			t.Fatalf("Play() #%d = %v", i, got)
		}
	}
	if !c.Status().Playing {
		t.Error("Expected playing after repeated Play")
	}
}

func TestPauseThenPlay(t *testing.T) {
	res := audiotest.NewResource()
	c := NewController(res)

	c.Play(context.Background())
	c.Pause()
	if c.Status().Playing {
		t.Error("Expected not playing after Pause")
	}
	if res.Pauses() != 1 {
		t.Errorf("Expected 1 resource pause, got %d", res.Pauses())
	}

	c.Play(context.Background())
	if !c.Status().Playing {
		t.Error("Expected playing after Pause then Play")
	}
}

func TestSetSrc_KeepsPlayState(t *testing.T) {
	res := audiotest.NewResource()
	c := NewController(res)

	c.Play(context.Background())
	c.SetSrc("/assets/other.mp3")

	st := c.Status()
	if !st.Playing {
		t.Error("SetSrc should not stop playback")
	}
	if st.Source != "/assets/other.mp3" {
		t.Errorf("Expected source to be set, got %q", st.Source)
	}
	if st.Track == nil || st.Track.Title != "other.mp3" {
		t.Errorf("Expected fallback track titled other.mp3, got %+v", st.Track)
	}
}

func TestStart_TracksResourceEvents(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	res := audiotest.NewResource()
	c := NewController(res)
	c.Start(ctx)
	c.Start(ctx) // second call is ignored

	c.SetSrc("/assets/fullsong.mp3")
	eventually(t, func() bool { return c.Status().Ready })

	res.Publish(api.AudioEvent{Type: api.EventTimeUpdate, Payload: 3 * time.Second})
	eventually(t, func() bool { return c.Status().Position == 3*time.Second })

	res.Publish(api.AudioEvent{Type: api.EventLoadStart, Payload: "/assets/next.mp3"})
	eventually(t, func() bool {
		st := c.Status()
		return !st.Ready && st.Position == 0
	})
}

func TestStart_TracksPlayPauseNotifications(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	res := audiotest.NewResource()
	c := NewController(res)
	c.Start(ctx)

	if got := c.Play(ctx); got != api.OutcomeStarted {
		t.Fatalf("Play() = %v", got)
	}

	// the resource stops on its own, e.g. the device went away
	res.Publish(api.AudioEvent{Type: api.EventPause, Payload: "/assets/fullsong.mp3"})
	eventually(t, func() bool { return !c.Status().Playing })

	res.Publish(api.AudioEvent{Type: api.EventPlay, Payload: "/assets/fullsong.mp3"})
	eventually(t, func() bool { return c.Status().Playing })
}

// Shared holds a process-wide instance, so this only checks identity and
// stays valid when the test binary runs the test more than once.
func TestShared_SameInstance(t *testing.T) {
	build := func() *Controller {
		return NewController(nil)
	}

	a := Shared(build)
	b := Shared(build)

	if a == nil {
		t.Fatal("Shared returned nil")
	}
	if a != b {
		t.Error("Shared returned different instances")
	}
}

func TestHeadless_NoOps(t *testing.T) {
	ctx := context.Background()
	c := NewController(nil)
	c.Start(ctx)

	before := c.Status()

	c.SetSrc("/assets/fullsong.mp3")
	if got := c.Play(ctx); got != api.OutcomeUnavailable {
		t.Errorf("Play() = %v, want unavailable", got)
	}
	c.Pause()
	if err := c.FadeOut(ctx, 50*time.Millisecond); err != nil {
		t.Errorf("FadeOut: %v", err)
	}
	if err := c.FadeIn(ctx, 1, 50*time.Millisecond); err != nil {
		t.Errorf("FadeIn: %v", err)
	}

	after := c.Status()
	if after != before {
		t.Errorf("Status changed in headless mode: %+v -> %+v", before, after)
	}
	if after.Available {
		t.Error("Expected headless controller to be unavailable")
	}
}
