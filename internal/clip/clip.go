// Package clip copies credential fields to the system clipboard.
package clip

import (
	"errors"
	"fmt"
	"sync"

	"github.com/atotto/clipboard"
)

// ErrUnsupported is returned when no clipboard utility is available
// (for example xclip/xsel/wl-copy missing on Linux).
var ErrUnsupported = errors.New("clipboard not available on this system")

// Clipboard receives copied text.
type Clipboard interface {
	Copy(text string) error
}

// System writes to the OS clipboard.
type System struct{}

func (System) Copy(text string) error {
	if clipboard.Unsupported {
		return ErrUnsupported
	}
	if err := clipboard.WriteAll(text); err != nil {
		return fmt.Errorf("copying to clipboard: %w", err)
	}
	return nil
}

// Memory records the last copied text. Used in tests and headless runs.
type Memory struct {
	mu   sync.Mutex
	last string
}

func (m *Memory) Copy(text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.last = text
	return nil
}

// Last returns the most recently copied text.
func (m *Memory) Last() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.last
}
