package logger

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"
)

// Spinner represents an animated spinner for long-running operations. A
// stopped spinner can be started again.
type Spinner struct {
	mu       sync.Mutex
	active   bool
	message  string
	frames   []string
	interval time.Duration
	stopChan chan struct{}
	done     chan struct{}
}

// SpinnerDots are the default spinner frames
var SpinnerDots = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// NewSpinner creates a new spinner with the default frames
func NewSpinner(message string) *Spinner {
	return &Spinner{
		message:  message,
		frames:   SpinnerDots,
		interval: 100 * time.Millisecond,
	}
}

// Start starts the spinner animation
func (s *Spinner) Start() {
	s.mu.Lock()
	if s.active {
		s.mu.Unlock()
		return
	}
	s.active = true
	stop := make(chan struct{})
	done := make(chan struct{})
	s.stopChan, s.done = stop, done
	s.mu.Unlock()

	w, noColor := output()
	msg := s.message

	go func() {
		defer close(done)
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for i := 0; ; i++ {
			frame := s.frames[i%len(s.frames)]
			if !noColor {
				frame = color.New(color.FgCyan).Sprint(frame)
			}
			_, _ = fmt.Fprintf(w, "\r%s %s", frame, msg)

			select {
			case <-stop:
				_, _ = fmt.Fprintf(w, "\r%s\r", strings.Repeat(" ", len(msg)+10))
				return
			case <-ticker.C:
			}
		}
	}()
}

// Stop stops the spinner and waits for the line to be cleared
func (s *Spinner) Stop() {
	s.mu.Lock()
	if !s.active {
		s.mu.Unlock()
		return
	}
	s.active = false
	close(s.stopChan)
	done := s.done
	s.mu.Unlock()

	<-done
}

// WithSpinner runs a function with a spinner
func WithSpinner(message string, fn func() error) error {
	spinner := NewSpinner(message)
	spinner.Start()

	err := fn()
	spinner.Stop()

	if err != nil {
		Errorf("%s failed: %v", message, err)
	} else {
		Successf("%s completed", message)
	}

	return err
}
