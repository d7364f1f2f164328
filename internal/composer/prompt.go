package composer

import (
	"fmt"
	"sort"
	"strings"

	"github.com/devprompt/devprompt/internal/catalog"
	"github.com/devprompt/devprompt/internal/project"
)

// PlannerSystemPrompt frames the LLM as an adaptive technical interviewer.
// Detected project context is injected so questions can reference the
// developer's actual setup.
func PlannerSystemPrompt(proj *project.Info) string {
	var sb strings.Builder
	sb.WriteString("You are an experienced technical interviewer having a natural conversation " +
		"with a developer to understand their coding practices and preferences. " +
		"You pick up on context clues from previous answers, adapt to their experience level, " +
		"and choose the question that gives the most insight into their daily coding life.\n")

	if proj != nil && !proj.Empty() {
		sb.WriteString("\nThe developer is working in their project directory. Detected setup:\n")
		sb.WriteString(proj.Summary())
		sb.WriteString("\nPrefer questions about their actual setup and choices.\n")
	}

	sb.WriteString("\nFrom the candidate questions provided, pick the single most relevant one to ask next. " +
		`Respond with only a JSON object: {"question_id": "<id>"}`)
	return sb.String()
}

// PlannerUserPrompt summarizes what is already known and lists the candidate
// questions the selector must choose from.
func PlannerUserPrompt(known map[string]string, candidates []catalog.Question) string {
	var sb strings.Builder

	if len(known) == 0 {
		sb.WriteString("This is the start of the conversation; nothing is known yet.\n")
	} else {
		sb.WriteString("What I've learned so far:\n")
		for _, field := range sortedKeys(known) {
			fmt.Fprintf(&sb, "- %s: %s\n", humanize(field), known[field])
		}
	}

	sb.WriteString("\nCandidate questions:\n")
	for _, q := range candidates {
		fmt.Fprintf(&sb, "- id=%s (fills: %s): %s\n",
			q.ID, strings.Join(q.Fields, ", "), strings.TrimSpace(q.Prompt))
	}

	sb.WriteString("\nWhich candidate is the most natural, highest-value question to ask next?")
	return sb.String()
}

// generatorSystemPrompt instructs the LLM to produce house rules that
// complement, not restate, industry standards.
const generatorSystemPrompt = "You are a prompt generator creating actionable coding rules " +
	"for a coding assistant. Assume industry-standard practices for the given languages " +
	"(standard formatters, linters, directory layouts, naming conventions) and specify only " +
	"deviations, concrete tool choices, and project-specific requirements. " +
	"Produce practical house rules that complement the standards, not a tutorial."

// GeneratorUserPrompt lays out the full interview result for rules
// generation. Unanswered fields fall back to their catalog default
// assumption, labelled as such.
func GeneratorUserPrompt(answers map[string]string, fields []catalog.Field, proj *project.Info, partial bool) string {
	var sb strings.Builder
	sb.WriteString("Create coding assistant rules for this developer:\n\n")

	for _, f := range fields {
		if v, ok := answers[f.Name]; ok && v != "" {
			fmt.Fprintf(&sb, "%s: %s\n", humanize(f.Name), v)
		} else if f.Default != "" {
			fmt.Fprintf(&sb, "%s: %s (assumed, not answered)\n", humanize(f.Name), f.Default)
		}
	}

	if proj != nil && !proj.Empty() {
		sb.WriteString("\nDetected project context:\n")
		sb.WriteString(proj.Summary())
	}

	if partial {
		sb.WriteString("\nThe interview ended early, so the profile is partial. " +
			"Keep the rules conservative and note the assumptions.\n")
	}

	sb.WriteString("\nFocus on specific tool choices, project-specific requirements, and " +
		"workflow preferences. Assume the developer knows language conventions.")
	return sb.String()
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func humanize(field string) string {
	words := strings.Split(field, "_")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
