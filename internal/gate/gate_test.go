package gate

import (
	"context"
	"sync"
	"testing"

	"github.com/jscyril/bgaudio/api"
	"github.com/jscyril/bgaudio/internal/audio"
	"github.com/jscyril/bgaudio/internal/input"
)

// fakePlayer refuses to play until activation is granted
type fakePlayer struct {
	mu         sync.Mutex
	activation *audio.Activation
	sources    []string
	volume     float64
	plays      int
}

func (p *fakePlayer) SetSrc(path string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.sources = append(p.sources, path)
}

func (p *fakePlayer) SetVolume(v float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.volume = v
}

func (p *fakePlayer) Play(ctx context.Context) api.PlaybackOutcome {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.plays++
	if !p.activation.Granted() {
		return api.OutcomeBlocked
	}
	return api.OutcomeStarted
}

func (p *fakePlayer) playCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.plays
}

func newGateFixture() (*Gate, *fakePlayer, *input.Dispatcher) {
	activation := audio.NewActivation(false)
	player := &fakePlayer{activation: activation}
	dispatcher := input.NewDispatcher(activation)
	g := New(player, dispatcher, "/assets/fullsong.mp3", DefaultVolume)
	return g, player, dispatcher
}

func listenerTotal(d *input.Dispatcher) int {
	total := 0
	for _, k := range interactionKinds {
		total += d.Listeners(k)
	}
	return total
}

func TestMount_ConfiguresAndPlays(t *testing.T) {
	g, player, dispatcher := newGateFixture()

	if got := g.Mount(context.Background()); got != api.OutcomeBlocked {
		t.Errorf("Expected blocked initial play, got %v", got)
	}
	if len(player.sources) != 1 || player.sources[0] != "/assets/fullsong.mp3" {
		t.Errorf("Unexpected sources %v", player.sources)
	}
	if player.volume != 0.5 {
		t.Errorf("Expected volume 0.5, got %v", player.volume)
	}
	if player.playCount() != 1 {
		t.Errorf("Expected 1 play, got %d", player.playCount())
	}
	for _, k := range interactionKinds {
		if n := dispatcher.Listeners(k); n != 1 {
			t.Errorf("Expected 1 %s listener, got %d", k, n)
		}
	}
	if !g.Armed() {
		t.Error("Expected gate to be armed")
	}
}

func TestKeyPressRetriesOnce(t *testing.T) {
	g, player, dispatcher := newGateFixture()
	g.Mount(context.Background())

	dispatcher.Dispatch(input.Event{Kind: input.KeyDown, Key: "a"})

	if player.playCount() != 2 {
		t.Errorf("Expected 2 plays, got %d", player.playCount())
	}
	if !g.Played() {
		t.Error("Expected played flag after interaction")
	}
	if n := listenerTotal(dispatcher); n != 0 {
		t.Errorf("Expected all listeners removed, %d left", n)
	}

	dispatcher.Dispatch(input.Event{Kind: input.KeyDown, Key: "b"})
	dispatcher.Dispatch(input.Event{Kind: input.PointerDown})
	if player.playCount() != 2 {
		t.Errorf("Expected no further plays, got %d", player.playCount())
	}
}

func TestAnyInteractionKindTriggersRetry(t *testing.T) {
	for _, kind := range interactionKinds {
		t.Run(kind.String(), func(t *testing.T) {
			g, player, dispatcher := newGateFixture()
			g.Mount(context.Background())

			dispatcher.Dispatch(input.Event{Kind: kind})

			if player.playCount() != 2 {
				t.Errorf("Expected 2 plays, got %d", player.playCount())
			}
			if g.Armed() {
				t.Error("Expected gate disarmed after interaction")
			}
		})
	}
}

func TestUnmountRemovesListeners(t *testing.T) {
	g, player, dispatcher := newGateFixture()
	g.Mount(context.Background())
	g.Unmount()

	if n := listenerTotal(dispatcher); n != 0 {
		t.Errorf("Expected listeners removed, %d left", n)
	}

	dispatcher.Dispatch(input.Event{Kind: input.KeyDown})
	if player.playCount() != 1 {
		t.Errorf("Expected no retry after unmount, got %d plays", player.playCount())
	}
}

func TestRemountBeforeInteraction(t *testing.T) {
	g, player, dispatcher := newGateFixture()
	g.Mount(context.Background())
	g.Unmount()
	g.Mount(context.Background())

	if player.playCount() != 2 {
		t.Errorf("Expected a play per mount, got %d", player.playCount())
	}
	for _, k := range interactionKinds {
		if n := dispatcher.Listeners(k); n != 1 {
			t.Errorf("Expected 1 %s listener after remount, got %d", k, n)
		}
	}

	dispatcher.Dispatch(input.Event{Kind: input.TouchStart})
	if player.playCount() != 3 {
		t.Errorf("Expected retry after remount, got %d plays", player.playCount())
	}
}

func TestRemountResetsPlayedFlag(t *testing.T) {
	g, _, dispatcher := newGateFixture()
	g.Mount(context.Background())
	dispatcher.Dispatch(input.Event{Kind: input.KeyDown})

	g.Mount(context.Background())
	if g.Played() {
		t.Error("Remount should reset the played flag")
	}
}
