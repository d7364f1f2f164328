package vendors

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/devprompt/devprompt/internal/interview"
)

// AiderAdapter writes rules for the Aider coding assistant
// (.aider.conf.yml: YAML configuration with the prompt as system message).
type AiderAdapter struct{}

func (a *AiderAdapter) Name() string        { return "aider" }
func (a *AiderAdapter) DisplayName() string { return "Aider" }

func (a *AiderAdapter) OutputFilename() string { return ".aider.conf.yml" }

type aiderConfig struct {
	SystemMessage string `yaml:"system-message"`
	AutoCommits   bool   `yaml:"auto-commits"`
	DirtyCommits  bool   `yaml:"dirty-commits"`
}

func (a *AiderAdapter) Format(prompt string, snap interview.Snapshot) (string, error) {
	cfg := aiderConfig{
		SystemMessage: prompt,
		AutoCommits:   false,
		DirtyCommits:  true,
	}

	body, err := yaml.Marshal(cfg)
	if err != nil {
		return "", fmt.Errorf("encoding aider config: %w", err)
	}

	var sb strings.Builder
	sb.WriteString("# Generated with devprompt\n")
	fmt.Fprintf(&sb, "# Profile: %s developer\n", headerValue(snap, "experience_level", "unspecified"))
	fmt.Fprintf(&sb, "# Languages: %s\n", headerValue(snap, "primary_languages", "unspecified"))
	if snap.Partial {
		sb.WriteString("# Note: interview ended early; profile is partial\n")
	}
	sb.WriteString("\n")
	sb.Write(body)
	return sb.String(), nil
}
