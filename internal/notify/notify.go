// Package notify shows short transient messages to the user and turns the
// error taxonomy of the other packages into something worth showing.
package notify

import (
	"fmt"
	"io"
	"sync"

	"github.com/Mohsinsiddi/lcurate/internal/ui"
)

// Notifier receives user-facing notifications.
type Notifier interface {
	Info(msg string)
	Success(msg string)
	Error(msg string)
}

// Console writes notifications to a terminal stream, one line each.
type Console struct {
	mu sync.Mutex
	w  io.Writer
}

var _ Notifier = (*Console)(nil)

// NewConsole returns a Console writing to w.
func NewConsole(w io.Writer) *Console {
	return &Console{w: w}
}

func (c *Console) Info(msg string)    { c.println(ui.Info(msg)) }
func (c *Console) Success(msg string) { c.println(ui.Success(msg)) }
func (c *Console) Error(msg string)   { c.println(ui.Err(msg)) }

// Fail reports err through Describe.
func (c *Console) Fail(err error) {
	if err != nil {
		c.Error(Describe(err))
	}
}

func (c *Console) println(s string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintln(c.w, s)
}

// Discard drops every notification.
type Discard struct{}

func (Discard) Info(string)    {}
func (Discard) Success(string) {}
func (Discard) Error(string)   {}
