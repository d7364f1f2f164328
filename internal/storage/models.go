package storage

import (
	"errors"
	"time"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("not found")

// Session is an archived interview run.
type Session struct {
	ID            string
	StartedAt     time.Time
	FinishedAt    time.Time
	State         string // "complete" or "aborted"
	QuestionCount int
	Vendor        string
	OutputPath    string
	Answers       []AnswerRecord
}

// AnswerRecord is one answered profile field within a session.
type AnswerRecord struct {
	Field string
	Value string
}
