package ui

import (
	"fmt"
	"io"
	"sync"
	"time"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// Spinner is a lightweight line spinner for blocking reads outside the TUI.
type Spinner struct {
	out   io.Writer
	msg   string
	every time.Duration

	once sync.Once
	stop chan struct{}
	done chan struct{}
}

// NewSpinner creates a spinner writing to out.
func NewSpinner(out io.Writer, msg string) *Spinner {
	return &Spinner{
		out:   out,
		msg:   msg,
		every: 80 * time.Millisecond,
		stop:  make(chan struct{}),
		done:  make(chan struct{}),
	}
}

// Start begins the animation in a goroutine.
func (s *Spinner) Start() {
	go func() {
		defer close(s.done)
		t := time.NewTicker(s.every)
		defer t.Stop()
		for i := 0; ; i++ {
			fmt.Fprintf(s.out, "\r%s  %s", StyleChain.Render(spinnerFrames[i%len(spinnerFrames)]), s.msg)
			select {
			case <-s.stop:
				fmt.Fprintf(s.out, "\r%-60s\r", "")
				return
			case <-t.C:
			}
		}
	}()
}

// Stop halts the spinner and clears its line. It is safe to call twice.
func (s *Spinner) Stop() {
	s.once.Do(func() { close(s.stop) })
	<-s.done
}

// Spin shows msg while fn runs.
func Spin(out io.Writer, msg string, fn func() error) error {
	s := NewSpinner(out, msg)
	s.Start()
	defer s.Stop()
	return fn()
}
