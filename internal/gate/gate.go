package gate

import (
	"context"
	"log"
	"sync"

	"github.com/jscyril/bgaudio/api"
	"github.com/jscyril/bgaudio/internal/input"
)

// DefaultVolume is applied to the controller on mount
const DefaultVolume = 0.5

// interactionKinds are the inputs that count as user activation
var interactionKinds = []input.Kind{input.PointerDown, input.TouchStart, input.KeyDown}

// Player is the part of the audio controller the gate drives
type Player interface {
	SetSrc(path string)
	SetVolume(v float64)
	Play(ctx context.Context) api.PlaybackOutcome
}

// Listeners registers input listeners, returning a remover for each
type Listeners interface {
	AddListener(kind input.Kind, fn input.Handler) func()
}

// Gate starts background playback when mounted and, if the first attempt
// does not start it, retries once on the first user input.
type Gate struct {
	player    Player
	listeners Listeners
	source    string
	volume    float64

	mu       sync.Mutex
	ctx      context.Context
	mounted  bool
	played   bool
	removers []func()
}

// New creates a gate for player. volume is clamped by the player.
func New(player Player, listeners Listeners, source string, volume float64) *Gate {
	return &Gate{
		player:    player,
		listeners: listeners,
		source:    source,
		volume:    volume,
	}
}

// Mount configures the player, attempts playback and arms the
// interaction listeners. Mounting again resets the gate.
func (g *Gate) Mount(ctx context.Context) api.PlaybackOutcome {
	g.mu.Lock()
	g.removeLocked()
	g.ctx = ctx
	g.mounted = true
	g.played = false
	g.mu.Unlock()

	g.player.SetSrc(g.source)
	g.player.SetVolume(g.volume)
	outcome := g.player.Play(ctx)
	log.Printf("gate: initial play %s", outcome)

	g.mu.Lock()
	defer g.mu.Unlock()
	if !g.mounted {
		return outcome
	}
	for _, kind := range interactionKinds {
		g.removers = append(g.removers, g.listeners.AddListener(kind, g.onInteraction))
	}
	return outcome
}

// Unmount removes any listeners still armed. Playback is left running.
func (g *Gate) Unmount() {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.removeLocked()
	g.mounted = false
}

// Played reports whether the interaction retry has happened for this mount
func (g *Gate) Played() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.played
}

// Armed reports whether the interaction listeners are registered
func (g *Gate) Armed() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.removers) > 0
}

func (g *Gate) onInteraction(ev input.Event) {
	g.mu.Lock()
	if g.played || !g.mounted {
		g.mu.Unlock()
		return
	}
	g.played = true
	ctx := g.ctx
	g.removeLocked()
	g.mu.Unlock()

	outcome := g.player.Play(ctx)
	log.Printf("gate: play after %s %s", ev.Kind, outcome)
}

func (g *Gate) removeLocked() {
	for _, remove := range g.removers {
		remove()
	}
	g.removers = nil
}
