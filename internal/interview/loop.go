package interview

import (
	"context"
	"errors"
	"log/slog"

	"github.com/devprompt/devprompt/internal/catalog"
)

// ErrStop is returned by an Asker when the user signals early termination
// (for example by typing /done or closing stdin).
var ErrStop = errors.New("interview stopped by user")

// Planner selects the next question for the current profile state. It must
// be stateless between calls; all state travels in profile and askedIDs.
// Implemented by planner.Planner.
type Planner interface {
	SelectNext(ctx context.Context, profile *Profile, askedIDs []string) (*catalog.Question, bool)
}

// Asker poses a question prompt and returns the user's free-text answer.
type Asker interface {
	Ask(ctx context.Context, prompt string) (string, error)
}

// Loop drives the interview cycle: plan, ask, merge, repeat until a terminal
// condition. It is the sole mutator of the session's profile.
type Loop struct {
	planner      Planner
	asker        Asker
	maxQuestions int
}

// NewLoop creates a Loop. maxQuestions bounds the worst-case interview
// length; values < 1 fall back to 1.
func NewLoop(p Planner, a Asker, maxQuestions int) *Loop {
	if maxQuestions < 1 {
		maxQuestions = 1
	}
	return &Loop{planner: p, asker: a, maxQuestions: maxQuestions}
}

// Run executes the interview until the session reaches Complete or Aborted,
// then returns the final profile snapshot. A cancelled context or an Asker
// stop signal aborts the session; the partial snapshot remains usable.
func (l *Loop) Run(ctx context.Context, session *Session) Snapshot {
	for session.state == Running {
		if session.count >= l.maxQuestions {
			slog.Debug("interview: question budget reached", "count", session.count)
			session.state = Complete
			break
		}

		q, ok := l.planner.SelectNext(ctx, session.Profile, session.AskedIDs())
		if !ok {
			session.state = Complete
			break
		}

		prompt := catalog.RenderPrompt(*q, session.Profile.Known())
		answer, err := l.asker.Ask(ctx, prompt)
		switch {
		case errors.Is(err, ErrStop), errors.Is(err, context.Canceled):
			session.state = Aborted
		case err != nil:
			slog.Warn("interview: reading answer failed, aborting", "error", err)
			session.state = Aborted
		default:
			for _, field := range q.Fields {
				if !session.Profile.Answered(field) {
					session.Profile.Merge(field, answer)
				}
			}
			session.MarkAsked(q.ID)
		}
	}

	snap := session.Profile.Snapshot()
	snap.Partial = session.state == Aborted
	return snap
}
