// Package ducking lowers and restores the background track around
// foreground audio such as voice recording or memory playback. Callers pair
// each start hook with its stop hook; nothing is reference counted.
package ducking

import (
	"context"
	"time"

	"github.com/jscyril/bgaudio/internal/audio"
)

const (
	// RestoreVolume is the level the stop hooks fade back to
	RestoreVolume = 0.5

	RecordingFade = 800 * time.Millisecond
	PlaybackFade  = 400 * time.Millisecond
)

// OnRecordingStart fades the track out and pauses it. The pause is
// skipped if the fade did not finish.
func OnRecordingStart(ctx context.Context, c *audio.Controller) error {
	if err := c.FadeOut(ctx, RecordingFade); err != nil {
		return err
	}
	c.Pause()
	return nil
}

// OnRecordingStop fades the track back in and resumes it
func OnRecordingStop(ctx context.Context, c *audio.Controller) error {
	if err := c.FadeIn(ctx, RestoreVolume, RecordingFade); err != nil {
		return err
	}
	c.Play(ctx)
	return nil
}

// OnMemoryPlaybackStart fades the track out without pausing it
func OnMemoryPlaybackStart(ctx context.Context, c *audio.Controller) error {
	return c.FadeOut(ctx, PlaybackFade)
}

// OnMemoryPlaybackStop fades the track back in. Play state is untouched.
func OnMemoryPlaybackStop(ctx context.Context, c *audio.Controller) error {
	return c.FadeIn(ctx, RestoreVolume, PlaybackFade)
}
