package interview

import (
	"strings"

	"github.com/devprompt/devprompt/internal/catalog"
)

// ValueKind tags how an answer value was interpreted.
type ValueKind string

const (
	KindText ValueKind = "text"
	KindEnum ValueKind = "enum"
	KindList ValueKind = "list"
)

// Answer is a tagged answer value. Text is always populated with the raw
// input; List carries the parsed items for list-shaped fields.
type Answer struct {
	Kind ValueKind
	Text string
	List []string
}

// String renders the answer for display and prompt injection.
func (a Answer) String() string {
	if a.Kind == KindList && len(a.List) > 0 {
		return strings.Join(a.List, ", ")
	}
	return a.Text
}

// Profile holds the evolving set of answered fields for one interview.
// The interview loop is the sole mutator; it runs single-threaded, so no
// locking is needed.
type Profile struct {
	catalog *catalog.Catalog
	answers map[string]Answer
	order   []string
}

// NewProfile creates an empty profile bound to a catalog's field definitions.
func NewProfile(cat *catalog.Catalog) *Profile {
	return &Profile{
		catalog: cat,
		answers: make(map[string]Answer),
	}
}

// Merge inserts or overwrites the value for field. The raw input is parsed
// according to the field's declared shape; anything that doesn't fit the
// shape is kept as raw text rather than rejected. Empty input is ignored.
func (p *Profile) Merge(field, raw string) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return
	}

	_, existed := p.answers[field]
	p.answers[field] = p.parse(field, raw)
	if !existed {
		p.order = append(p.order, field)
	}
}

func (p *Profile) parse(field, raw string) Answer {
	def, ok := p.catalog.Field(field)
	if !ok {
		return Answer{Kind: KindText, Text: raw}
	}

	switch def.Shape {
	case catalog.ShapeList:
		items := splitList(raw)
		if len(items) > 0 {
			return Answer{Kind: KindList, Text: raw, List: items}
		}
	case catalog.ShapeEnum:
		for _, opt := range def.Options {
			if strings.EqualFold(raw, opt) {
				return Answer{Kind: KindEnum, Text: opt}
			}
		}
		// No option matched: keep the raw text as a best-effort value.
	}
	return Answer{Kind: KindText, Text: raw}
}

func splitList(raw string) []string {
	parts := strings.FieldsFunc(raw, func(r rune) bool {
		return r == ',' || r == ';'
	})
	var items []string
	for _, part := range parts {
		if s := strings.TrimSpace(part); s != "" {
			items = append(items, s)
		}
	}
	return items
}

// Answered reports whether field has a non-empty entry. Satisfies
// catalog.AnswerSet.
func (p *Profile) Answered(field string) bool {
	a, ok := p.answers[field]
	return ok && a.Text != ""
}

// IsRequiredComplete reports whether every required field has a non-empty
// entry.
func (p *Profile) IsRequiredComplete() bool {
	return len(p.UnansweredRequiredFields()) == 0
}

// UnansweredRequiredFields returns required field names with no entry yet,
// in catalog priority order.
func (p *Profile) UnansweredRequiredFields() []string {
	var out []string
	for _, f := range p.catalog.RequiredFields() {
		if !p.Answered(f) {
			out = append(out, f)
		}
	}
	return out
}

// Known returns answered fields as display strings, for prompt templating.
func (p *Profile) Known() map[string]string {
	out := make(map[string]string, len(p.answers))
	for f, a := range p.answers {
		out[f] = a.String()
	}
	return out
}

// Snapshot returns an immutable deep copy of the current answers. Downstream
// consumers never observe in-progress mutation.
func (p *Profile) Snapshot() Snapshot {
	answers := make(map[string]Answer, len(p.answers))
	for f, a := range p.answers {
		cp := a
		if a.List != nil {
			cp.List = make([]string, len(a.List))
			copy(cp.List, a.List)
		}
		answers[f] = cp
	}
	order := make([]string, len(p.order))
	copy(order, p.order)
	return Snapshot{Answers: answers, Order: order}
}

// Snapshot is a finalized, read-only view of a profile.
type Snapshot struct {
	Answers map[string]Answer
	Order   []string
	// Partial is set when the interview was aborted before completion;
	// renderers use it to adjust disclaimers.
	Partial bool
}

// Value returns the answer recorded for field.
func (s Snapshot) Value(field string) (Answer, bool) {
	a, ok := s.Answers[field]
	return a, ok
}

// Known returns answered fields as display strings, in answer order.
func (s Snapshot) Known() map[string]string {
	out := make(map[string]string, len(s.Answers))
	for f, a := range s.Answers {
		out[f] = a.String()
	}
	return out
}
