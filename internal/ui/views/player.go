package views

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jscyril/bgaudio/api"
	"github.com/jscyril/bgaudio/internal/ui/components"
)

// GateState summarizes the autoplay gate for display
type GateState struct {
	Armed  bool
	Played bool
	Last   api.PlaybackOutcome
}

// PlayerView displays the background track and controller state
type PlayerView struct {
	Width       int
	Height      int
	Status      api.Status
	Gate        GateState
	Ducks       []string
	Controls    string
	ProgressBar components.ProgressBar

	// Styles
	TitleStyle    lipgloss.Style
	ArtistStyle   lipgloss.Style
	StatusStyle   lipgloss.Style
	MutedStyle    lipgloss.Style
	ControlsStyle lipgloss.Style
	BorderStyle   lipgloss.Style
}

// NewPlayerView creates a new player view
func NewPlayerView(width, height int) PlayerView {
	return PlayerView{
		Width:       width,
		Height:      height,
		ProgressBar: components.NewProgressBar(width - 4),
		TitleStyle: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("212")),
		ArtistStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("86")),
		StatusStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			Bold(true),
		MutedStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("244")),
		ControlsStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			MarginTop(1),
		BorderStyle: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(1, 2),
	}
}

// SetStatus updates the controller snapshot
func (v *PlayerView) SetStatus(st api.Status) {
	v.Status = st
	total := st.Position
	if st.Track != nil && st.Track.Duration > 0 {
		total = st.Track.Duration
	}
	v.ProgressBar.SetProgress(st.Position, total)
}

// Update handles messages
func (v PlayerView) Update(msg tea.Msg) (PlayerView, tea.Cmd) {
	return v, nil
}

// View renders the player view
func (v PlayerView) View() string {
	var sb strings.Builder
	st := v.Status

	if !st.Available {
		sb.WriteString(v.TitleStyle.Render("♪ No audio output"))
		sb.WriteString("\n")
		sb.WriteString(v.MutedStyle.Render("Running headless; playback requests are ignored"))
		sb.WriteString("\n")
		sb.WriteString(v.ControlsStyle.Render("[q] Quit"))
		return v.BorderStyle.Width(v.Width - 4).Render(sb.String())
	}

	statusIcon := "⏸"
	if st.Playing {
		statusIcon = "▶"
	}
	sb.WriteString(v.StatusStyle.Render(statusIcon + " "))

	title, artist := st.Source, ""
	if st.Track != nil {
		title, artist = st.Track.Title, st.Track.Artist
	}
	sb.WriteString(v.TitleStyle.Render(title))
	sb.WriteString("\n")
	if artist != "" {
		sb.WriteString(v.ArtistStyle.Render(artist))
		sb.WriteString("\n")
	}
	sb.WriteString("\n")

	sb.WriteString(v.ProgressBar.View())
	sb.WriteString("\n\n")

	sb.WriteString(fmt.Sprintf("Volume: %s %d%%\n", components.Meter(st.Volume), int(st.Volume*100+0.5)))
	sb.WriteString(fmt.Sprintf("Level:  %s %d%%\n", components.Meter(st.Level), int(st.Level*100+0.5)))

	var flags []string
	if st.Ready {
		flags = append(flags, "ready")
	} else {
		flags = append(flags, "loading")
	}
	switch {
	case v.Gate.Armed:
		flags = append(flags, "waiting for input")
	case v.Gate.Played:
		flags = append(flags, "unlocked")
	}
	if !st.Playing && v.Gate.Last == api.OutcomeBlocked {
		flags = append(flags, "autoplay blocked")
	}
	flags = append(flags, v.Ducks...)
	sb.WriteString(v.MutedStyle.Render(strings.Join(flags, " | ")))

	if v.Controls != "" {
		sb.WriteString("\n")
		sb.WriteString(v.ControlsStyle.Render(v.Controls))
	}

	return v.BorderStyle.Width(v.Width - 4).Render(sb.String())
}
