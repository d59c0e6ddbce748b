package plates

import (
	"errors"
	"strings"
)

var errNoCapture = errors.New("plates: no output capture is open")

// captureStack is a stack of output accumulators. Writes always land in the
// innermost open capture.
type captureStack struct {
	buffers []*strings.Builder
}

func newCaptureStack() *captureStack {
	return &captureStack{}
}

func (c *captureStack) push() {
	c.buffers = append(c.buffers, &strings.Builder{})
}

// pop closes the innermost capture and returns its text.
func (c *captureStack) pop() string {
	if len(c.buffers) == 0 {
		return ""
	}
	last := len(c.buffers) - 1
	out := c.buffers[last].String()
	c.buffers[last] = nil
	c.buffers = c.buffers[:last]
	return out
}

func (c *captureStack) depth() int {
	return len(c.buffers)
}

// unwindTo discards every capture above level, innermost first.
func (c *captureStack) unwindTo(level int) {
	for len(c.buffers) > level {
		c.pop()
	}
}

func (c *captureStack) Write(p []byte) (int, error) {
	if len(c.buffers) == 0 {
		return 0, errNoCapture
	}
	return c.buffers[len(c.buffers)-1].Write(p)
}

func (c *captureStack) WriteString(s string) (int, error) {
	if len(c.buffers) == 0 {
		return 0, errNoCapture
	}
	return c.buffers[len(c.buffers)-1].WriteString(s)
}
