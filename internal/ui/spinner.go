package ui

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/mattn/go-isatty"
)

// Spinner animates a loading indicator on stderr while a network call runs.
// On a non-terminal stderr it stays silent.
type Spinner struct {
	frames []string
	msg    string
	out    io.Writer
	active bool
	stop   chan struct{}
	done   chan struct{}
}

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// NewSpinner creates a new spinner with the given message.
func NewSpinner(msg string) *Spinner {
	return &Spinner{
		frames: spinnerFrames,
		msg:    msg,
		out:    os.Stderr,
		active: isatty.IsTerminal(os.Stderr.Fd()),
		stop:   make(chan struct{}),
		done:   make(chan struct{}),
	}
}

// Start begins the animation in a goroutine.
func (s *Spinner) Start() *Spinner {
	go func() {
		defer close(s.done)
		if !s.active {
			<-s.stop
			return
		}
		ticker := time.NewTicker(80 * time.Millisecond)
		defer ticker.Stop()
		for i := 0; ; i++ {
			frame := StyleChain.Render(s.frames[i%len(s.frames)])
			fmt.Fprintf(s.out, "\r%s  %s", frame, s.msg)
			select {
			case <-s.stop:
				fmt.Fprintf(s.out, "\r%-60s\r", "")
				return
			case <-ticker.C:
			}
		}
	}()
	return s
}

// Stop halts the spinner and waits for it to clear its line.
func (s *Spinner) Stop() {
	close(s.stop)
	<-s.done
}
