package ui

import (
	"context"
	"errors"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jscyril/bgaudio/api"
	"github.com/jscyril/bgaudio/internal/audio"
	"github.com/jscyril/bgaudio/internal/config"
	"github.com/jscyril/bgaudio/internal/ducking"
	"github.com/jscyril/bgaudio/internal/gate"
	"github.com/jscyril/bgaudio/internal/input"
	"github.com/jscyril/bgaudio/internal/ui/views"
)

// Model is the main bubbletea model
type Model struct {
	// Dimensions
	width  int
	height int

	playerView views.PlayerView

	// Components
	controller *audio.Controller
	gate       *gate.Gate
	dispatcher *input.Dispatcher
	keys       config.KeyMap

	// State
	ctx       context.Context
	cancel    context.CancelFunc
	recording bool
	memory    bool
	outcome   api.PlaybackOutcome
	err       error

	// Styles
	headerStyle lipgloss.Style
}

// TickMsg is sent periodically to update the UI
type TickMsg time.Time

// MountedMsg reports the gate's initial play attempt
type MountedMsg struct {
	Outcome api.PlaybackOutcome
}

// PlayedMsg reports a play request made from the keyboard
type PlayedMsg struct {
	Outcome api.PlaybackOutcome
}

// HookDoneMsg reports a finished duck or restore
type HookDoneMsg struct {
	Name string
	Err  error
}

// NewModel creates a new application model. Play and fade commands run
// under a context derived from parent.
func NewModel(parent context.Context, ctrl *audio.Controller, g *gate.Gate, d *input.Dispatcher, keys config.KeyMap) Model {
	ctx, cancel := context.WithCancel(parent)

	m := Model{
		width:      60,
		height:     16,
		controller: ctrl,
		gate:       g,
		dispatcher: d,
		keys:       keys,
		ctx:        ctx,
		cancel:     cancel,
		outcome:    api.OutcomeBlocked,
		headerStyle: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("212")).
			MarginBottom(1),
	}

	m.playerView = views.NewPlayerView(m.width, m.height)
	m.playerView.Controls = controlsHelp(keys)
	m.refresh()
	return m
}

// Init mounts the gate and starts the refresh ticker
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		tickCmd(),
		m.mountGate(),
	)
}

// tickCmd returns a command that ticks every 100ms so fades render smoothly
func tickCmd() tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

func (m Model) mountGate() tea.Cmd {
	return func() tea.Msg {
		return MountedMsg{Outcome: m.gate.Mount(m.ctx)}
	}
}

func (m Model) play() tea.Cmd {
	return func() tea.Msg {
		return PlayedMsg{Outcome: m.controller.Play(m.ctx)}
	}
}

func (m Model) runHook(name string, hook func(context.Context, *audio.Controller) error) tea.Cmd {
	return func() tea.Msg {
		return HookDoneMsg{Name: name, Err: hook(m.ctx, m.controller)}
	}
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.playerView.Width = m.width
		m.playerView.Height = m.height - 2
		m.playerView.ProgressBar.Width = m.width - 8

	case TickMsg:
		m.refresh()
		cmds = append(cmds, tickCmd())

	case MountedMsg:
		m.outcome = msg.Outcome
		m.refresh()

	case PlayedMsg:
		m.outcome = msg.Outcome
		m.refresh()

	case HookDoneMsg:
		if msg.Err != nil {
			m.err = fmt.Errorf("%s: %w", msg.Name, msg.Err)
		} else {
			m.err = nil
		}

	case tea.MouseMsg:
		if msg.Action == tea.MouseActionPress {
			m.dispatcher.Dispatch(input.Event{Kind: input.PointerDown})
		}

	case tea.KeyMsg:
		key := msg.String()
		played := m.gate.Played()
		m.dispatcher.Dispatch(input.Event{Kind: input.KeyDown, Key: key})
		// the press that lets the gate start playback is not also a toggle
		unlocked := !played && m.gate.Played()

		switch key {
		case m.keys.Quit, "ctrl+c":
			m.gate.Unmount()
			m.cancel()
			return m, tea.Quit

		case m.keys.PlayPause:
			if unlocked {
				break
			}
			if m.controller.Status().Playing {
				m.controller.Pause()
			} else {
				cmds = append(cmds, m.play())
			}

		case m.keys.VolumeUp, "=":
			m.controller.SetVolume(m.controller.Status().Volume + 0.1)

		case m.keys.VolumeDown:
			m.controller.SetVolume(m.controller.Status().Volume - 0.1)

		case m.keys.Recording:
			m.recording = !m.recording
			if m.recording {
				cmds = append(cmds, m.runHook("recording start", ducking.OnRecordingStart))
			} else {
				cmds = append(cmds, m.runHook("recording stop", ducking.OnRecordingStop))
			}

		case m.keys.Memory:
			m.memory = !m.memory
			if m.memory {
				cmds = append(cmds, m.runHook("memory playback start", ducking.OnMemoryPlaybackStart))
			} else {
				cmds = append(cmds, m.runHook("memory playback stop", ducking.OnMemoryPlaybackStop))
			}

		case m.keys.FadeOut:
			cmds = append(cmds, m.runHook("fade out", func(ctx context.Context, c *audio.Controller) error {
				return c.FadeOut(ctx, audio.DefaultFadeDuration)
			}))

		case m.keys.FadeIn:
			cmds = append(cmds, m.runHook("fade in", func(ctx context.Context, c *audio.Controller) error {
				return c.FadeInDefault(ctx, audio.DefaultFadeDuration)
			}))
		}
		m.refresh()
	}

	return m, tea.Batch(cmds...)
}

// refresh copies controller and gate state into the view
func (m *Model) refresh() {
	m.playerView.SetStatus(m.controller.Status())
	m.playerView.Gate = views.GateState{
		Armed:  m.gate.Armed(),
		Played: m.gate.Played(),
		Last:   m.outcome,
	}

	var ducks []string
	if m.recording {
		ducks = append(ducks, "recording")
	}
	if m.memory {
		ducks = append(ducks, "memory playback")
	}
	m.playerView.Ducks = ducks
}

// View renders the UI
func (m Model) View() string {
	sb := m.headerStyle.Render("bgaudio")
	sb += "\n"
	sb += m.playerView.View()

	if m.err != nil {
		errorStyle := lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)
		sb += "\n" + errorStyle.Render(fmt.Sprintf("Error: %v", m.err))
	}

	return sb
}

func controlsHelp(keys config.KeyMap) string {
	name := func(k string) string {
		if k == " " {
			return "Space"
		}
		return k
	}
	return fmt.Sprintf("[%s] Play/Pause  [%s/%s] Volume  [%s] Record  [%s] Memory  [%s/%s] Fade  [%s] Quit",
		name(keys.PlayPause), keys.VolumeUp, keys.VolumeDown, keys.Recording, keys.Memory,
		keys.FadeOut, keys.FadeIn, keys.Quit)
}

// Run starts the bubbletea program. Ending ctx stops the program and any
// play or fade command it started.
func Run(ctx context.Context, ctrl *audio.Controller, g *gate.Gate, d *input.Dispatcher, keys config.KeyMap) error {
	model := NewModel(ctx, ctrl, g, d, keys)
	defer model.cancel()

	p := tea.NewProgram(model,
		tea.WithContext(ctx),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		g.Unmount()
		return nil
	}
	return err
}
