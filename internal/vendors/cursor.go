package vendors

import (
	"fmt"
	"strings"
	"time"

	"github.com/devprompt/devprompt/internal/interview"
)

// CursorAdapter writes rules for the Cursor AI IDE (.cursorrules: plain
// text with a commented header).
type CursorAdapter struct {
	// Now is overridable for deterministic tests; nil uses time.Now.
	Now func() time.Time
}

func (c *CursorAdapter) Name() string        { return "cursor" }
func (c *CursorAdapter) DisplayName() string { return "Cursor AI" }

func (c *CursorAdapter) OutputFilename() string { return ".cursorrules" }

func (c *CursorAdapter) Format(prompt string, snap interview.Snapshot) (string, error) {
	now := time.Now
	if c.Now != nil {
		now = c.Now
	}

	var sb strings.Builder
	sb.WriteString("# Generated with devprompt\n")
	fmt.Fprintf(&sb, "# Profile: %s developer, %s\n",
		headerValue(snap, "experience_level", "unspecified"),
		headerValue(snap, "primary_languages", "no languages given"))
	fmt.Fprintf(&sb, "# Intended use: %s\n", headerValue(snap, "intended_use", "coding assistance"))
	fmt.Fprintf(&sb, "# Generated on: %s\n", now().UTC().Format("2006-01-02"))
	if snap.Partial {
		sb.WriteString("# Note: interview ended early; profile is partial\n")
	}
	sb.WriteString("\n")
	sb.WriteString(prompt)
	sb.WriteString("\n")
	return sb.String(), nil
}
