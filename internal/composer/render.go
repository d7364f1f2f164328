package composer

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/devprompt/devprompt/internal/catalog"
	"github.com/devprompt/devprompt/internal/engine"
	"github.com/devprompt/devprompt/internal/interview"
	"github.com/devprompt/devprompt/internal/project"
)

// Renderer turns a finished (or aborted) profile snapshot into the prompt
// text that vendor adapters wrap. The LLM path personalizes the rules; the
// offline path is a deterministic rendering used when no engine is available
// or the generation call fails. Rendering never fails the run.
type Renderer struct {
	engine  engine.Engine // nil = offline only
	model   string
	catalog *catalog.Catalog
}

// NewRenderer creates a Renderer. Pass a nil engine for offline-only
// rendering.
func NewRenderer(eng engine.Engine, model string, cat *catalog.Catalog) *Renderer {
	return &Renderer{engine: eng, model: model, catalog: cat}
}

// Render produces the rules prompt for the snapshot. Identical snapshots
// yield identical offline output; the LLM path is best-effort on top.
func (r *Renderer) Render(ctx context.Context, snap interview.Snapshot, proj *project.Info) string {
	if r.engine == nil {
		return r.RenderOffline(snap)
	}

	user := GeneratorUserPrompt(snap.Known(), r.catalog.Fields(), proj, snap.Partial)
	out, err := r.engine.Chat(ctx, r.model, []engine.Message{
		{Role: "system", Content: generatorSystemPrompt},
		{Role: "user", Content: user},
	}, nil)
	if err != nil || strings.TrimSpace(out) == "" {
		slog.Warn("composer: generation failed, using offline rendering", "error", err)
		return r.RenderOffline(snap)
	}
	return strings.TrimSpace(out)
}

// RenderOffline builds the rules document directly from the snapshot plus
// the catalog's per-field default assumptions. Deterministic for identical
// input.
func (r *Renderer) RenderOffline(snap interview.Snapshot) string {
	var sb strings.Builder
	sb.WriteString("# Coding Assistant Rules\n\n")

	if snap.Partial {
		sb.WriteString("> Note: generated from a partial interview; unanswered " +
			"preferences fall back to industry-standard assumptions.\n\n")
	}

	answers := snap.Known()
	var assumed []catalog.Field
	for _, f := range r.catalog.Fields() {
		v, ok := answers[f.Name]
		if !ok || v == "" {
			if f.Default != "" {
				assumed = append(assumed, f)
			}
			continue
		}
		fmt.Fprintf(&sb, "## %s\n%s\n\n", humanize(f.Name), v)
	}

	if len(assumed) > 0 {
		sb.WriteString("## Assumptions\n")
		for _, f := range assumed {
			fmt.Fprintf(&sb, "- %s: %s\n", humanize(f.Name), f.Default)
		}
		sb.WriteString("\n")
	}

	sb.WriteString("Follow industry-standard conventions for the languages above; " +
		"the rules here only specify deviations and explicit preferences.")
	return sb.String()
}
