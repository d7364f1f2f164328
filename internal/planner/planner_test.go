package planner

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/devprompt/devprompt/internal/catalog"
	"github.com/devprompt/devprompt/internal/interview"
)

// mockSelector is a canned Selector; set block to honor only ctx expiry.
type mockSelector struct {
	id    string
	err   error
	block bool
	calls int
}

func (m *mockSelector) SelectQuestion(ctx context.Context, _ map[string]string, _ []catalog.Question) (string, error) {
	m.calls++
	if m.block {
		<-ctx.Done()
		return "", ctx.Err()
	}
	return m.id, m.err
}

func testCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	fields := []catalog.Field{
		{Name: "use", Required: true},
		{Name: "langs", Required: true, Shape: catalog.ShapeList},
		{Name: "style"},
	}
	questions := []catalog.Question{
		{ID: "q-use", Fields: []string{"use"}, Priority: 100, Prompt: "What for?"},
		{ID: "q-langs", Fields: []string{"langs"}, Priority: 90, Prompt: "Which languages?"},
		{ID: "q-style", Fields: []string{"style"}, Priority: 40, Requires: []string{"langs"}, Prompt: "Style?"},
	}
	c, err := catalog.New(fields, questions)
	if err != nil {
		t.Fatalf("catalog.New: %v", err)
	}
	return c
}

func TestSelectNextAdaptive(t *testing.T) {
	cat := testCatalog(t)
	sel := &mockSelector{id: "q-langs"}
	p := New(cat, sel, time.Second)

	q, ok := p.SelectNext(context.Background(), interview.NewProfile(cat), nil)
	if !ok {
		t.Fatal("expected a question")
	}
	if q.ID != "q-langs" {
		t.Errorf("ID = %q, want the selector's choice q-langs", q.ID)
	}
	if sel.calls != 1 {
		t.Errorf("selector calls = %d, want 1", sel.calls)
	}
}

func TestSelectNextFallbackOnError(t *testing.T) {
	cat := testCatalog(t)
	sel := &mockSelector{err: errors.New("model unavailable")}
	p := New(cat, sel, time.Second)

	q, ok := p.SelectNext(context.Background(), interview.NewProfile(cat), nil)
	if !ok {
		t.Fatal("expected a question")
	}
	if q.ID != "q-use" {
		t.Errorf("ID = %q, want highest-priority fallback q-use", q.ID)
	}
}

func TestSelectNextFallbackOnInvalidID(t *testing.T) {
	cat := testCatalog(t)
	// q-style is gated behind langs, so it is not a candidate yet.
	sel := &mockSelector{id: "q-style"}
	p := New(cat, sel, time.Second)

	q, ok := p.SelectNext(context.Background(), interview.NewProfile(cat), nil)
	if !ok {
		t.Fatal("expected a question")
	}
	if q.ID != "q-use" {
		t.Errorf("ID = %q, want fallback q-use for out-of-set selection", q.ID)
	}
}

func TestSelectNextFallbackOnTimeout(t *testing.T) {
	cat := testCatalog(t)
	sel := &mockSelector{block: true}
	p := New(cat, sel, 10*time.Millisecond)

	start := time.Now()
	q, ok := p.SelectNext(context.Background(), interview.NewProfile(cat), nil)
	if !ok {
		t.Fatal("expected a question")
	}
	if q.ID != "q-use" {
		t.Errorf("ID = %q, want fallback q-use after timeout", q.ID)
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Errorf("selection took %v, timeout not enforced", elapsed)
	}
}

func TestSelectNextNilSelector(t *testing.T) {
	cat := testCatalog(t)
	p := New(cat, nil, 0)

	q, ok := p.SelectNext(context.Background(), interview.NewProfile(cat), nil)
	if !ok || q.ID != "q-use" {
		t.Errorf("got %v ok=%v, want deterministic q-use", q, ok)
	}
}

func TestSelectNextSkipsAsked(t *testing.T) {
	cat := testCatalog(t)
	p := New(cat, nil, 0)

	q, ok := p.SelectNext(context.Background(), interview.NewProfile(cat), []string{"q-use"})
	if !ok || q.ID != "q-langs" {
		t.Errorf("got %v ok=%v, want q-langs with q-use already asked", q, ok)
	}
}

func TestSelectNextExhausted(t *testing.T) {
	cat := testCatalog(t)
	p := New(cat, nil, 0)

	profile := interview.NewProfile(cat)
	profile.Merge("use", "work")
	profile.Merge("langs", "go")
	profile.Merge("style", "tabs")

	if q, ok := p.SelectNext(context.Background(), profile, nil); ok {
		t.Errorf("got %v, want no candidates on a full profile", q.ID)
	}
}

// TestFailingSelectorYieldsFallbackSequence replays a whole interview with a
// selector that always errors and checks it matches the deterministic order.
func TestFailingSelectorYieldsFallbackSequence(t *testing.T) {
	cat := testCatalog(t)
	sel := &mockSelector{err: errors.New("always down")}
	p := New(cat, sel, time.Second)

	profile := interview.NewProfile(cat)
	answers := map[string]string{"use": "work", "langs": "go", "style": "tabs"}

	var asked []string
	for {
		q, ok := p.SelectNext(context.Background(), profile, asked)
		if !ok {
			break
		}
		asked = append(asked, q.ID)
		for _, f := range q.Fields {
			profile.Merge(f, answers[f])
		}
		if len(asked) > 10 {
			t.Fatal("planner did not terminate")
		}
	}

	want := []string{"q-use", "q-langs", "q-style"}
	if len(asked) != len(want) {
		t.Fatalf("asked = %v, want %v", asked, want)
	}
	for i := range want {
		if asked[i] != want[i] {
			t.Fatalf("asked = %v, want %v", asked, want)
		}
	}
}

func TestParseSelection(t *testing.T) {
	tests := []struct {
		name    string
		resp    string
		want    string
		wantErr bool
	}{
		{
			name: "plain json",
			resp: `{"question_id": "q-langs"}`,
			want: "q-langs",
		},
		{
			name: "fenced json",
			resp: "```json\n{\"question_id\": \"q-use\"}\n```",
			want: "q-use",
		},
		{
			name: "conversational filler",
			resp: `Sure! The best next question is: {"question_id": "q-style"} Hope that helps.`,
			want: "q-style",
		},
		{
			name:    "no json object",
			resp:    "q-langs",
			wantErr: true,
		},
		{
			name:    "empty id",
			resp:    `{"question_id": ""}`,
			wantErr: true,
		},
		{
			name:    "malformed json",
			resp:    `{"question_id": q-langs}`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseSelection(tt.resp)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("got %q, want error", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}
