package vendors

import (
	"encoding/json"
	"fmt"

	"github.com/devprompt/devprompt/internal/interview"
)

// ContinueAdapter writes rules for the Continue VS Code extension
// (.continuerules: a JSON envelope carrying the system message).
type ContinueAdapter struct{}

func (c *ContinueAdapter) Name() string        { return "continue" }
func (c *ContinueAdapter) DisplayName() string { return "Continue" }

func (c *ContinueAdapter) OutputFilename() string { return ".continuerules" }

type continueEnvelope struct {
	SystemMessage string          `json:"systemMessage"`
	GeneratedBy   string          `json:"generatedBy"`
	Partial       bool            `json:"partial,omitempty"`
	Profile       continueProfile `json:"profile"`
}

type continueProfile struct {
	Languages  string `json:"languages"`
	Experience string `json:"experience"`
	Project    string `json:"project"`
}

func (c *ContinueAdapter) Format(prompt string, snap interview.Snapshot) (string, error) {
	env := continueEnvelope{
		SystemMessage: prompt,
		GeneratedBy:   "devprompt",
		Partial:       snap.Partial,
		Profile: continueProfile{
			Languages:  headerValue(snap, "primary_languages", ""),
			Experience: headerValue(snap, "experience_level", ""),
			Project:    headerValue(snap, "current_project", ""),
		},
	}

	data, err := json.MarshalIndent(env, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encoding continue envelope: %w", err)
	}
	return string(data) + "\n", nil
}
