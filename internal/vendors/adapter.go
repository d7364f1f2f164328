package vendors

import (
	"errors"

	"github.com/devprompt/devprompt/internal/interview"
)

// ErrUnknownVendor is returned when no adapter is registered for an id.
// This is the only output-stage error surfaced to the user; the interview
// result itself is unaffected.
var ErrUnknownVendor = errors.New("unknown vendor")

// Adapter formats a generated rules prompt for a specific coding assistant.
// Each assistant expects a different file name and envelope; adapters hold
// those differences so the core stays vendor-agnostic. New vendors register
// on the Registry without touching the core.
type Adapter interface {
	// Name returns the vendor identifier used in --output (e.g. "cursor").
	Name() string

	// DisplayName returns the human-readable assistant name.
	DisplayName() string

	// OutputFilename returns the file the assistant reads rules from,
	// relative to the project root.
	OutputFilename() string

	// Format wraps the prompt in the vendor's expected envelope. The
	// snapshot supplies header metadata and may be partial.
	Format(prompt string, snap interview.Snapshot) (string, error)
}

// headerValue pulls a snapshot field for header metadata, falling back to a
// placeholder so partial profiles still produce valid headers.
func headerValue(snap interview.Snapshot, field, fallback string) string {
	if a, ok := snap.Value(field); ok && a.String() != "" {
		return a.String()
	}
	return fallback
}
