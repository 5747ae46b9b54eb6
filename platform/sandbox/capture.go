package sandbox

import (
	"slices"
	"strings"
	"sync"
)

// Capture collects print output for a single execution. Engines receive it
// as an argument instead of redirecting a shared output stream.
type Capture struct {
	mu    sync.Mutex
	lines []string
	limit int
	lost  int
}

// NewCapture returns a Capture keeping at most limit lines; limit <= 0
// keeps everything.
func NewCapture(limit int) *Capture {
	return &Capture{limit: limit}
}

// Print records one print call: args joined by single spaces.
func (c *Capture) Print(args ...string) {
	c.Append(strings.Join(args, " "))
}

// Append records one already-formatted line.
func (c *Capture) Append(line string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.limit > 0 && len(c.lines) >= c.limit {
		c.lost++
		return
	}
	c.lines = append(c.lines, line)
}

// Lines returns a copy of the captured lines, in call order.
func (c *Capture) Lines() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.lines)
}

// Len returns the number of recorded print calls, including dropped ones.
func (c *Capture) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.lines) + c.lost
}

// Dropped returns how many lines exceeded the limit.
func (c *Capture) Dropped() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lost
}
