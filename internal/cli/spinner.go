package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// Spinner shows an animated status line on a terminal while a single
// operation runs. On other writers it stays silent.
type Spinner struct {
	w       io.Writer
	animate bool
	parent  context.Context
	ctx     context.Context
	cancel  context.CancelFunc
	stopped chan struct{}
	once    sync.Once

	mu      sync.Mutex
	message string
	width   int
}

// newSpinner creates a spinner on stderr that stops when ctx is cancelled.
func newSpinner(ctx context.Context, message string) *Spinner {
	return newSpinnerTo(ctx, os.Stderr, isTerminal(os.Stderr), message)
}

func newSpinnerTo(ctx context.Context, w io.Writer, animate bool, message string) *Spinner {
	sctx, cancel := context.WithCancel(ctx)
	return &Spinner{
		w:       w,
		animate: animate,
		parent:  ctx,
		ctx:     sctx,
		cancel:  cancel,
		stopped: make(chan struct{}),
		message: message,
	}
}

// Start begins the animation.
func (s *Spinner) Start() {
	if !s.animate {
		close(s.stopped)
		return
	}
	go func() {
		defer close(s.stopped)
		ticker := time.NewTicker(80 * time.Millisecond)
		defer ticker.Stop()
		for i := 0; ; i++ {
			select {
			case <-s.ctx.Done():
				s.clearLine()
				return
			case <-ticker.C:
				s.mu.Lock()
				line := styleIconSpinner.Render(spinnerFrames[i%len(spinnerFrames)]) + " " + StyleDim.Render(s.message)
				s.width = max(s.width, len(s.message)+2)
				fmt.Fprintf(s.w, "\r%s", line)
				s.mu.Unlock()
			}
		}
	}()
}

// Update replaces the message.
func (s *Spinner) Update(message string) {
	s.mu.Lock()
	s.message = message
	s.mu.Unlock()
}

// Stop stops the animation and clears the line. It is safe to call twice.
func (s *Spinner) Stop() {
	s.once.Do(s.cancel)
	<-s.stopped
}

func (s *Spinner) clearLine() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.width > 0 {
		fmt.Fprintf(s.w, "\r%s\r", strings.Repeat(" ", s.width+2))
	}
}

// StopWithSuccess stops the spinner and shows a success message.
func (s *Spinner) StopWithSuccess(format string, args ...any) {
	s.Stop()
	printSuccess(format, args...)
}

// StopWithError stops the spinner and shows an error message.
func (s *Spinner) StopWithError(format string, args ...any) {
	s.Stop()
	printError(format, args...)
}

// Cancelled reports whether the parent context was cancelled.
func (s *Spinner) Cancelled() bool {
	return s.parent.Err() != nil
}

// isTerminal reports whether f is a character device.
func isTerminal(f *os.File) bool {
	fi, err := f.Stat()
	return err == nil && fi.Mode()&os.ModeCharDevice != 0
}
