// Package interview owns the conversational protocol of an AI-conducted
// interview: per-session state, the turn loop with its termination rule,
// and the post-hoc structured analysis pass.
package interview

import (
	"time"

	"github.com/google/uuid"
)

// Role tags transcript entries. The set is closed; anything else is a bug.
type Role string

// Transcript roles.
const (
	RoleInterviewer Role = "interviewer"
	RoleCandidate   Role = "candidate"
)

// Question count bounds. A start request outside the bounds is clamped,
// and a missing or non-numeric count falls back to the default.
const (
	MinQuestions     = 5
	MaxQuestions     = 25
	DefaultQuestions = 12
)

// ClampQuestions normalizes a requested question count into the allowed
// range. Zero or negative means "unspecified" and yields the default.
func ClampQuestions(n int) int {
	if n <= 0 {
		return DefaultQuestions
	}
	if n < MinQuestions {
		return MinQuestions
	}
	if n > MaxQuestions {
		return MaxQuestions
	}
	return n
}

// TranscriptEntry is one line of the conversation.
type TranscriptEntry struct {
	Role      Role      `json:"role"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

// Session is the volatile state of one in-progress interview. It lives in
// the session store for its lifetime and is lost on process restart.
type Session struct {
	ID             uuid.UUID         `json:"id"`
	OwnerID        uuid.UUID         `json:"ownerId,omitempty"` // uuid.Nil when the owner is unresolved
	JobTitle       string            `json:"jobTitle"`
	Company        string            `json:"company"`
	TotalQuestions int               `json:"totalQuestions"`
	Transcript     []TranscriptEntry `json:"transcript"`
	CreatedAt      time.Time         `json:"createdAt"`
	UpdatedAt      time.Time         `json:"updatedAt"`
}

// NewSession creates a session in its initial state, before the opening
// question has been generated.
func NewSession(ownerID uuid.UUID, jobTitle, company string, totalQuestions int) *Session {
	now := time.Now().UTC()
	return &Session{
		ID:             uuid.New(),
		OwnerID:        ownerID,
		JobTitle:       jobTitle,
		Company:        company,
		TotalQuestions: ClampQuestions(totalQuestions),
		Transcript:     []TranscriptEntry{},
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

// Append adds one transcript entry and touches the update timestamp. The
// transcript is append-only.
func (s *Session) Append(role Role, text string) {
	now := time.Now().UTC()
	s.Transcript = append(s.Transcript, TranscriptEntry{
		Role:      role,
		Text:      text,
		Timestamp: now,
	})
	s.UpdatedAt = now
}

// AskedCount returns the number of interviewer questions asked so far.
// It is monotonically non-decreasing because the transcript is append-only.
func (s *Session) AskedCount() int {
	count := 0
	for _, entry := range s.Transcript {
		if entry.Role == RoleInterviewer {
			count++
		}
	}
	return count
}

// Complete reports whether the session has reached its question budget.
func (s *Session) Complete() bool {
	return s.AskedCount() >= s.TotalQuestions
}
