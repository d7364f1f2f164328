package interview

import (
	"time"

	"github.com/google/uuid"

	"github.com/devprompt/devprompt/internal/catalog"
)

// State is the interview loop state.
type State int

const (
	Running State = iota
	Complete
	Aborted
)

func (s State) String() string {
	switch s {
	case Running:
		return "running"
	case Complete:
		return "complete"
	case Aborted:
		return "aborted"
	default:
		return "unknown"
	}
}

// Session is the ephemeral aggregate of one interview run: the profile, the
// set of already-asked question ids, the question count, and the loop state.
// Created per run and discarded at process end.
type Session struct {
	ID        string
	StartedAt time.Time
	Profile   *Profile

	asked      map[string]struct{}
	askedOrder []string
	count      int
	state      State
}

// NewSession creates a running session with an empty profile.
func NewSession(cat *catalog.Catalog) *Session {
	return &Session{
		ID:        uuid.NewString(),
		StartedAt: time.Now().UTC(),
		Profile:   NewProfile(cat),
		asked:     make(map[string]struct{}),
		state:     Running,
	}
}

// MarkAsked records a question id. Ids are a set: a duplicate mark is a no-op
// and does not bump the question count.
func (s *Session) MarkAsked(id string) {
	if _, dup := s.asked[id]; dup {
		return
	}
	s.asked[id] = struct{}{}
	s.askedOrder = append(s.askedOrder, id)
	s.count++
}

// AskedIDs returns the asked question ids in ask order.
func (s *Session) AskedIDs() []string {
	out := make([]string, len(s.askedOrder))
	copy(out, s.askedOrder)
	return out
}

// QuestionCount returns how many questions have been asked.
func (s *Session) QuestionCount() int { return s.count }

// State returns the current loop state.
func (s *Session) State() State { return s.state }
