package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jscyril/bgaudio/internal/audio"
	"github.com/jscyril/bgaudio/internal/config"
	"github.com/jscyril/bgaudio/internal/gate"
	"github.com/jscyril/bgaudio/internal/input"
	"github.com/jscyril/bgaudio/internal/ui"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load configuration
	if err := config.LoadEnvFile(".env"); err != nil {
		return err
	}
	cfg, err := config.LoadOrCreate(config.GetConfigPath())
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := cfg.ApplyEnv(); err != nil {
		return fmt.Errorf("apply env: %w", err)
	}

	// The terminal belongs to the UI, so diagnostics go to a file
	logFile, err := tea.LogToFile(cfg.LogFile, "bgaudio")
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer logFile.Close()

	// Setup context with graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()

	activation := audio.NewActivation(!cfg.RequireInteraction)

	var speaker *audio.SpeakerResource
	ctrl := audio.Shared(func() *audio.Controller {
		if cfg.Headless {
			log.Printf("audio: headless mode, no playback resource")
			return audio.NewController(nil)
		}
		speaker = audio.NewSpeakerResource(activation)
		speaker.Start(ctx)
		return audio.NewController(speaker, audio.WithFrameInterval(cfg.FrameInterval()))
	})
	if speaker != nil {
		defer speaker.Close()
	}
	ctrl.Start(ctx)

	dispatcher := input.NewDispatcher(activation)
	autoplay := gate.New(ctrl, dispatcher, cfg.TrackPath, cfg.DefaultVolume)

	// Run UI
	if err := ui.Run(ctx, ctrl, autoplay, dispatcher, cfg.KeyBindings); err != nil {
		return fmt.Errorf("run ui: %w", err)
	}

	return nil
}
