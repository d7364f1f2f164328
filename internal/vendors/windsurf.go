package vendors

import (
	"fmt"
	"strings"

	"github.com/devprompt/devprompt/internal/interview"
)

// WindsurfAdapter writes rules for the Windsurf editor (.windsurfrules:
// plain markdown, no envelope).
type WindsurfAdapter struct{}

func (w *WindsurfAdapter) Name() string        { return "windsurf" }
func (w *WindsurfAdapter) DisplayName() string { return "Windsurf" }

func (w *WindsurfAdapter) OutputFilename() string { return ".windsurfrules" }

func (w *WindsurfAdapter) Format(prompt string, snap interview.Snapshot) (string, error) {
	var sb strings.Builder
	fmt.Fprintf(&sb, "<!-- devprompt: %s developer, %s -->\n",
		headerValue(snap, "experience_level", "unspecified"),
		headerValue(snap, "primary_languages", "no languages given"))
	if snap.Partial {
		sb.WriteString("<!-- partial interview -->\n")
	}
	sb.WriteString("\n")
	sb.WriteString(prompt)
	sb.WriteString("\n")
	return sb.String(), nil
}
