package tui

import (
	"fmt"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
)

// LogHook keeps the most recent log lines for the log pane
type LogHook struct {
	mu    sync.Mutex
	lines []string
	max   int
}

// NewLogHook creates a hook retaining up to max lines
func NewLogHook(max int) *LogHook {
	if max <= 0 {
		max = 100
	}
	return &LogHook{max: max}
}

// Levels implements logrus.Hook
func (h *LogHook) Levels() []logrus.Level {
	return logrus.AllLevels
}

// Fire implements logrus.Hook
func (h *LogHook) Fire(entry *logrus.Entry) error {
	line := fmt.Sprintf("%-5s %s", strings.ToUpper(entry.Level.String()), entry.Message)

	h.mu.Lock()
	defer h.mu.Unlock()

	h.lines = append(h.lines, line)
	if over := len(h.lines) - h.max; over > 0 {
		h.lines = append([]string(nil), h.lines[over:]...)
	}
	return nil
}

// Tail returns up to n of the most recent lines, oldest first
func (h *LogHook) Tail(n int) []string {
	h.mu.Lock()
	defer h.mu.Unlock()

	if n <= 0 || n > len(h.lines) {
		n = len(h.lines)
	}
	return append([]string(nil), h.lines[len(h.lines)-n:]...)
}
