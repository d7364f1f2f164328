package catalog

import (
	"fmt"
	"sort"
	"strings"
)

// Shape declares how a field's answer should be interpreted.
type Shape string

const (
	ShapeText Shape = "text"
	ShapeEnum Shape = "enum"
	ShapeList Shape = "list"
)

// Field is a named slot of the developer profile.
type Field struct {
	Name     string   `yaml:"name"`
	Required bool     `yaml:"required"`
	Shape    Shape    `yaml:"shape"`
	Options  []string `yaml:"options,omitempty"`
	// Default is the industry-standard assumption used by the renderer when
	// the field was never answered. It is metadata only and never mutated.
	Default string `yaml:"default,omitempty"`
}

// Question is a catalog entry capable of filling one or more fields.
type Question struct {
	ID       string   `yaml:"id"`
	Fields   []string `yaml:"fields"`
	Priority int      `yaml:"priority"`
	// Requires lists fields that must be answered before this question
	// becomes askable.
	Requires []string `yaml:"requires,omitempty"`
	// Prompt may reference known answers with {field_name} placeholders.
	Prompt string `yaml:"prompt"`
}

// AnswerSet is the view of the profile store the catalog needs to evaluate
// prerequisites and target-field completion. Implemented by interview.Profile.
type AnswerSet interface {
	Answered(field string) bool
}

// Catalog is the static question registry. Loaded once at startup and
// read-only for the rest of the run.
type Catalog struct {
	fields     map[string]Field
	fieldOrder []string
	questions  []Question
}

// New validates field and question definitions and assembles a Catalog.
func New(fields []Field, questions []Question) (*Catalog, error) {
	c := &Catalog{fields: make(map[string]Field, len(fields))}

	for _, f := range fields {
		if f.Name == "" {
			return nil, fmt.Errorf("field with empty name")
		}
		if _, dup := c.fields[f.Name]; dup {
			return nil, fmt.Errorf("duplicate field %q", f.Name)
		}
		switch f.Shape {
		case ShapeText, ShapeEnum, ShapeList:
		case "":
			f.Shape = ShapeText
		default:
			return nil, fmt.Errorf("field %q: unknown shape %q", f.Name, f.Shape)
		}
		c.fields[f.Name] = f
		c.fieldOrder = append(c.fieldOrder, f.Name)
	}

	seen := make(map[string]bool, len(questions))
	for _, q := range questions {
		if q.ID == "" {
			return nil, fmt.Errorf("question with empty id")
		}
		if seen[q.ID] {
			return nil, fmt.Errorf("duplicate question id %q", q.ID)
		}
		seen[q.ID] = true
		if len(q.Fields) == 0 {
			return nil, fmt.Errorf("question %q targets no fields", q.ID)
		}
		for _, f := range q.Fields {
			if _, ok := c.fields[f]; !ok {
				return nil, fmt.Errorf("question %q targets unknown field %q", q.ID, f)
			}
		}
		for _, f := range q.Requires {
			if _, ok := c.fields[f]; !ok {
				return nil, fmt.Errorf("question %q requires unknown field %q", q.ID, f)
			}
		}
		if strings.TrimSpace(q.Prompt) == "" {
			return nil, fmt.Errorf("question %q has no prompt", q.ID)
		}
		c.questions = append(c.questions, q)
	}

	return c, nil
}

// Field returns the definition of a named field.
func (c *Catalog) Field(name string) (Field, bool) {
	f, ok := c.fields[name]
	return f, ok
}

// Fields returns all field definitions in declaration order.
func (c *Catalog) Fields() []Field {
	out := make([]Field, 0, len(c.fieldOrder))
	for _, name := range c.fieldOrder {
		out = append(out, c.fields[name])
	}
	return out
}

// Questions returns all catalog questions in declaration order.
func (c *Catalog) Questions() []Question {
	out := make([]Question, len(c.questions))
	copy(out, c.questions)
	return out
}

// Candidates returns the questions whose prerequisites are satisfied and
// whose target fields are not yet all answered. Recomputed fresh on every
// call since the profile mutates between calls.
func (c *Catalog) Candidates(answers AnswerSet) []Question {
	var out []Question
	for _, q := range c.questions {
		if !c.eligible(q, answers) {
			continue
		}
		out = append(out, q)
	}
	return out
}

func (c *Catalog) eligible(q Question, answers AnswerSet) bool {
	for _, f := range q.Requires {
		if !answers.Answered(f) {
			return false
		}
	}
	// A question stays a candidate while at least one target field is open.
	for _, f := range q.Fields {
		if !answers.Answered(f) {
			return true
		}
	}
	return false
}

// FallbackOrder returns Candidates in the deterministic fallback order:
// priority descending, id ascending for ties. Stable for identical input
// state.
func (c *Catalog) FallbackOrder(answers AnswerSet) []Question {
	out := c.Candidates(answers)
	sortByPriority(out)
	return out
}

func sortByPriority(qs []Question) {
	sort.SliceStable(qs, func(i, j int) bool {
		if qs[i].Priority != qs[j].Priority {
			return qs[i].Priority > qs[j].Priority
		}
		return qs[i].ID < qs[j].ID
	})
}

// RequiredFields returns the names of required fields in catalog priority
// order: ordered by the highest-priority question targeting each field,
// declaration order breaking ties.
func (c *Catalog) RequiredFields() []string {
	best := make(map[string]int, len(c.fields))
	for _, q := range c.questions {
		for _, f := range q.Fields {
			if p, ok := best[f]; !ok || q.Priority > p {
				best[f] = q.Priority
			}
		}
	}

	var out []string
	for _, name := range c.fieldOrder {
		if c.fields[name].Required {
			out = append(out, name)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return best[out[i]] > best[out[j]]
	})
	return out
}

// RenderPrompt expands {field_name} placeholders in the question prompt with
// already-known answers. Unknown placeholders are left untouched.
func RenderPrompt(q Question, known map[string]string) string {
	prompt := q.Prompt
	for field, value := range known {
		if value == "" {
			continue
		}
		prompt = strings.ReplaceAll(prompt, "{"+field+"}", value)
	}
	return prompt
}
