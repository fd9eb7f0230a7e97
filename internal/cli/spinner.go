package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync/atomic"
	"time"
	"unicode/utf8"
)

const spinnerInterval = 80 * time.Millisecond

var spinnerFrames = [...]string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// fetchSpinner animates a "Fetching <keyboard>..." line while a remote
// keyboard.json is downloaded. Only its goroutine writes to w.
type fetchSpinner struct {
	w       io.Writer
	label   string
	ctx     context.Context
	cancel  context.CancelFunc
	done    chan struct{}
	started atomic.Bool
}

// newFetchSpinner returns a spinner for keyboard that also stops when ctx
// is cancelled.
func newFetchSpinner(ctx context.Context, w io.Writer, keyboard string) *fetchSpinner {
	ctx, cancel := context.WithCancel(ctx)
	return &fetchSpinner{
		w:      w,
		label:  fmt.Sprintf("Fetching %s...", keyboard),
		ctx:    ctx,
		cancel: cancel,
		done:   make(chan struct{}),
	}
}

func (s *fetchSpinner) start() {
	if !s.started.CompareAndSwap(false, true) {
		return
	}
	go func() {
		defer close(s.done)
		tick := time.NewTicker(spinnerInterval)
		defer tick.Stop()

		for frame := 0; ; frame++ {
			select {
			case <-s.ctx.Done():
				width := utf8.RuneCountInString(s.label) + 2
				fmt.Fprintf(s.w, "\r%s\r", strings.Repeat(" ", width))
				return
			case <-tick.C:
				glyph := spinnerFrames[frame%len(spinnerFrames)]
				fmt.Fprintf(s.w, "\r%s %s", styleSpinner.Render(glyph), StyleDim.Render(s.label))
			}
		}
	}()
}

// stop erases the line and waits for the animation to end. Calling it
// again, or before start, is a no-op.
func (s *fetchSpinner) stop() {
	s.cancel()
	if s.started.Load() {
		<-s.done
	}
}
