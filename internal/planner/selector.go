package planner

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/devprompt/devprompt/internal/catalog"
	"github.com/devprompt/devprompt/internal/composer"
	"github.com/devprompt/devprompt/internal/engine"
	"github.com/devprompt/devprompt/internal/project"
)

// LLMSelector asks an inference backend to rank the candidate question with
// the highest information gain for the current profile.
type LLMSelector struct {
	engine  engine.Engine
	model   string
	project *project.Info
}

// NewLLMSelector creates an LLMSelector. proj may be nil when no project
// context was detected.
func NewLLMSelector(eng engine.Engine, model string, proj *project.Info) *LLMSelector {
	return &LLMSelector{engine: eng, model: model, project: proj}
}

var selectionSchema = &engine.Schema{
	Type: "object",
	Properties: map[string]engine.SchemaProperty{
		"question_id": {Type: "string", Description: "Id of the chosen candidate question"},
	},
	Required: []string{"question_id"},
}

// SelectQuestion returns the chosen question id. Any transport or parse
// failure is an error; the Planner treats it as a fallback trigger, never a
// fatal condition.
func (s *LLMSelector) SelectQuestion(ctx context.Context, known map[string]string, candidates []catalog.Question) (string, error) {
	resp, err := s.engine.Chat(ctx, s.model, []engine.Message{
		{Role: "system", Content: composer.PlannerSystemPrompt(s.project)},
		{Role: "user", Content: composer.PlannerUserPrompt(known, candidates)},
	}, selectionSchema)
	if err != nil {
		return "", err
	}
	return parseSelection(resp)
}

// parseSelection extracts the question id from an LLM response. Models
// frequently wrap the JSON in markdown code fences or prepend conversational
// filler, so the parser:
//  1. Strips markdown code fences if present (```json ... ```)
//  2. Finds the first { and last } to extract the JSON object
//  3. Attempts json.Unmarshal on the extracted substring
func parseSelection(resp string) (string, error) {
	s := strings.TrimSpace(resp)

	// Strip markdown code fences.
	if idx := strings.Index(s, "```"); idx != -1 {
		s = s[idx+3:]
		if strings.HasPrefix(s, "json") {
			s = s[4:]
		}
		if end := strings.Index(s, "```"); end != -1 {
			s = s[:end]
		}
	}

	// Extract JSON object by brace position.
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start == -1 || end <= start {
		return "", fmt.Errorf("no JSON object in response")
	}

	var obj struct {
		QuestionID string `json:"question_id"`
	}
	if err := json.Unmarshal([]byte(s[start:end+1]), &obj); err != nil {
		return "", fmt.Errorf("unmarshal selection: %w", err)
	}
	if obj.QuestionID == "" {
		return "", fmt.Errorf("empty question_id in response")
	}
	return obj.QuestionID, nil
}
