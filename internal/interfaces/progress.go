package interfaces

import "github.com/ternarybob/indago/internal/models"

// ProgressNotifier receives coarse pipeline stage events. The CLI and
// MCP server log them; tests record them.
type ProgressNotifier interface {
	Notify(event models.ProgressEvent)
}

// ProgressFunc adapts a function to the ProgressNotifier interface.
type ProgressFunc func(event models.ProgressEvent)

// Notify calls the wrapped function.
func (f ProgressFunc) Notify(event models.ProgressEvent) {
	if f != nil {
		f(event)
	}
}
