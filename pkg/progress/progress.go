// Package progress renders a single-line progress bar on the terminal.
package progress

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
)

const barWidth = 30

// Terminal is a progress bar safe for use from several goroutines.
type Terminal struct {
	mu          sync.Mutex
	writer      io.Writer
	op          string
	total       int
	current     int
	lastLineLen int
	enabled     bool
}

// NewTerminal creates a progress bar writing to stderr.
func NewTerminal(op string, total int, enabled bool) *Terminal {
	return &Terminal{writer: os.Stderr, op: op, total: total, enabled: enabled}
}

// Step advances the bar by one and shows message next to it.
func (t *Terminal) Step(message string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.current < t.total {
		t.current++
	}
	if t.enabled {
		t.render(message)
	}
}

// Done fills the bar and ends the line.
func (t *Terminal) Done(message string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.enabled {
		return
	}
	t.current = t.total
	t.render(message)
	fmt.Fprintln(t.writer)
}

// Current returns how many steps have completed.
func (t *Terminal) Current() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.current
}

// render draws the bar. t.mu must be held.
func (t *Terminal) render(message string) {
	total := t.total
	if total <= 0 {
		total = 1
	}
	filled := barWidth * t.current / total
	bar := strings.Repeat("=", filled) + strings.Repeat(" ", barWidth-filled)

	clear := "\r"
	if t.lastLineLen > 0 {
		clear = "\r" + strings.Repeat(" ", t.lastLineLen) + "\r"
	}

	line := fmt.Sprintf("%s [%s] %d/%d (%.0f%%)", t.op, bar, t.current, t.total, float64(t.current)/float64(total)*100)
	if message != "" {
		line += " " + message
	}
	fmt.Fprint(t.writer, clear+line)
	t.lastLineLen = len(line)
}
