package planner

import (
	"context"
	"log/slog"
	"time"

	"github.com/devprompt/devprompt/internal/catalog"
	"github.com/devprompt/devprompt/internal/interview"
)

const defaultSelectTimeout = 10 * time.Second

// Selector picks the highest-information-gain question id from a candidate
// list. Implementations may call out to an LLM; any error is treated as a
// recoverable selection failure by the Planner.
type Selector interface {
	SelectQuestion(ctx context.Context, known map[string]string, candidates []catalog.Question) (string, error)
}

// Planner chooses the next interview question. The adaptive path goes
// through the Selector under an enforced timeout; every failure mode (call
// error, timeout, malformed output, id outside the candidate set) degrades
// to the catalog's deterministic fallback order. The planner keeps no state
// between calls.
type Planner struct {
	catalog  *catalog.Catalog
	selector Selector // nil disables the adaptive path
	timeout  time.Duration
}

// New creates a Planner. Pass a nil selector for fallback-only operation;
// timeout <= 0 uses the default.
func New(cat *catalog.Catalog, selector Selector, timeout time.Duration) *Planner {
	if timeout <= 0 {
		timeout = defaultSelectTimeout
	}
	return &Planner{catalog: cat, selector: selector, timeout: timeout}
}

// SelectNext returns the next question to ask, or ok=false when no
// candidates remain (the normal terminal condition).
func (p *Planner) SelectNext(ctx context.Context, profile *interview.Profile, askedIDs []string) (*catalog.Question, bool) {
	asked := make(map[string]struct{}, len(askedIDs))
	for _, id := range askedIDs {
		asked[id] = struct{}{}
	}

	var candidates []catalog.Question
	for _, q := range p.catalog.Candidates(profile) {
		if _, done := asked[q.ID]; !done {
			candidates = append(candidates, q)
		}
	}
	if len(candidates) == 0 {
		return nil, false
	}

	if p.selector != nil {
		if q := p.adaptive(ctx, profile, candidates); q != nil {
			return q, true
		}
	}

	// Deterministic fallback: first candidate in priority order.
	for _, q := range p.catalog.FallbackOrder(profile) {
		if _, done := asked[q.ID]; done {
			continue
		}
		picked := q
		return &picked, true
	}
	return nil, false
}

// adaptive runs the selector under the planner timeout and validates that
// the returned id belongs to the candidate set. Returns nil on any failure;
// failures never surface to the user.
func (p *Planner) adaptive(ctx context.Context, profile *interview.Profile, candidates []catalog.Question) *catalog.Question {
	selectCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	id, err := p.selector.SelectQuestion(selectCtx, profile.Known(), candidates)
	if err != nil {
		slog.Debug("planner: adaptive selection failed, using fallback order", "error", err)
		return nil
	}

	for _, q := range candidates {
		if q.ID == id {
			picked := q
			return &picked
		}
	}
	slog.Debug("planner: selector returned id outside candidate set", "id", id)
	return nil
}
