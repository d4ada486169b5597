package audio

import (
	"context"
	"math"
	"sync"
	"time"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"

	playerrors "github.com/jscyril/bgaudio/pkg/errors"
)

const (
	// DefaultFadeDuration is used when a fade is requested with a
	// negative duration.
	DefaultFadeDuration = 600 * time.Millisecond

	defaultFrameInterval = time.Second / 60
)

// Fade is an in-flight volume ramp on a resource. A fade stops when it
// reaches its target, when Cancel is called, or when a later fade on the
// same controller supersedes it.
type Fade struct {
	target   float64
	duration time.Duration

	stop     chan struct{}
	stopOnce sync.Once
	reason   error

	done chan struct{}
	err  error
}

func newFade(target float64, duration time.Duration) *Fade {
	return &Fade{
		target:   target,
		duration: duration,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// finishedFade returns a fade that has already completed.
func finishedFade(target float64) *Fade {
	f := newFade(target, 0)
	close(f.done)
	return f
}

// Target returns the volume the fade ramps to
func (f *Fade) Target() float64 {
	return f.target
}

// Done is closed once the fade has stopped writing to the resource
func (f *Fade) Done() <-chan struct{} {
	return f.done
}

// Err returns why the fade stopped: nil when it reached its target,
// ErrFadeSuperseded or context.Canceled otherwise. Only valid after Done.
func (f *Fade) Err() error {
	select {
	case <-f.done:
		return f.err
	default:
		return nil
	}
}

// Cancel stops the fade, leaving the volume where the last frame put it
func (f *Fade) Cancel() {
	f.halt(context.Canceled)
}

// Wait blocks until the fade stops or ctx ends. Ending ctx does not stop
// the fade.
func (f *Fade) Wait(ctx context.Context) error {
	select {
	case <-f.done:
		return f.err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (f *Fade) halt(reason error) {
	f.stopOnce.Do(func() {
		f.reason = reason
		close(f.stop)
	})
}

// run steps the ramp once per frame using elapsed monotonic time and
// writes the exact target on the last step.
func (f *Fade) run(res Resource, frame time.Duration) {
	defer close(f.done)

	start := res.Volume()
	lo, hi := math.Min(start, f.target), math.Max(start, f.target)
	tween := gween.New(float32(start), float32(f.target), float32(f.duration.Seconds()), ease.Linear)

	ticker := time.NewTicker(frame)
	defer ticker.Stop()

	last := time.Now()
	for {
		select {
		case <-f.stop:
			f.err = f.reason
			return
		case now := <-ticker.C:
			dt := now.Sub(last)
			last = now

			v, finished := tween.Update(float32(dt.Seconds()))
			if finished {
				res.SetVolume(f.target)
				return
			}
			res.SetVolume(math.Max(lo, math.Min(hi, float64(v))))
		}
	}
}

// StartFade begins ramping the resource volume to target over d and
// returns immediately. Any fade already running on this controller is
// superseded and has stopped writing before the new one starts. A zero
// duration writes target at once. Without a resource the returned fade is
// already done.
func (c *Controller) StartFade(target float64, d time.Duration) *Fade {
	target = clamp01(target)
	if d < 0 {
		d = DefaultFadeDuration
	}

	res := c.resource
	if res == nil {
		return finishedFade(target)
	}

	c.fadeMu.Lock()
	defer c.fadeMu.Unlock()

	if prev := c.fade; prev != nil {
		prev.halt(playerrors.ErrFadeSuperseded)
		<-prev.done
		c.fade = nil
	}
	if d == 0 {
		res.SetVolume(target)
		return finishedFade(target)
	}
	f := newFade(target, d)
	c.fade = f
	go f.run(res, c.frame)
	return f
}

// FadeOut ramps the volume to 0 over d and waits for it
func (c *Controller) FadeOut(ctx context.Context, d time.Duration) error {
	return c.StartFade(0, d).Wait(ctx)
}

// FadeIn ramps the volume to target over d and waits for it
func (c *Controller) FadeIn(ctx context.Context, target float64, d time.Duration) error {
	return c.StartFade(target, d).Wait(ctx)
}

// FadeInDefault ramps back to the stored volume over d
func (c *Controller) FadeInDefault(ctx context.Context, d time.Duration) error {
	c.mu.RLock()
	target := c.volume
	c.mu.RUnlock()
	return c.FadeIn(ctx, target, d)
}
