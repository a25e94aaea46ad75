// Package terminal drives a Controller from a line-oriented console.
package terminal

import (
	"fmt"
	"io"
	"reflect"
	"sync"

	"quiz-client/internal/view"
	"github.com/fatih/color"
)

// Console prints views as text. Views that differ only in the countdown are
// skipped so the clock does not flood the screen.
type Console struct {
	mu   sync.Mutex
	out  io.Writer
	last *view.View
}

func NewConsole(out io.Writer) *Console {
	return &Console{out: out}
}

func (c *Console) Render(v view.View) {
	c.mu.Lock()
	defer c.mu.Unlock()
	bare := v.WithoutClock()
	if c.last != nil && reflect.DeepEqual(*c.last, bare) {
		return
	}
	c.last = &bare
	fmt.Fprintln(c.out)
	view.Text(c.out, v)
}

// Printf writes a line outside of any view.
func (c *Console) Printf(format string, args ...any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintf(c.out, format+"\n", args...)
}

// Warnf writes a highlighted line outside of any view.
func (c *Console) Warnf(format string, args ...any) {
	c.Printf("%s", color.YellowString(format, args...))
}
