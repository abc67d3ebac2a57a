package interview

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

// TestClampQuestions pins the clamping table: below the minimum, above the
// maximum, unspecified, and in range.
func TestClampQuestions(t *testing.T) {
	tests := []struct {
		name     string
		input    int
		expected int
	}{
		{"below minimum", 3, 5},
		{"above maximum", 99, 25},
		{"unspecified", 0, 12},
		{"negative", -4, 12},
		{"in range", 10, 10},
		{"at minimum", 5, 5},
		{"at maximum", 25, 25},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ClampQuestions(tt.input))
		})
	}
}

// TestSessionAskedCount counts only interviewer entries.
func TestSessionAskedCount(t *testing.T) {
	s := NewSession(uuid.Nil, "Backend Engineer", "Acme", 5)
	assert.Equal(t, 0, s.AskedCount())

	s.Append(RoleInterviewer, "Question one?")
	s.Append(RoleCandidate, "Answer one.")
	s.Append(RoleInterviewer, "Question two?")

	assert.Equal(t, 2, s.AskedCount())
	assert.Len(t, s.Transcript, 3)
}

// TestSessionCompleteBoundary: complete exactly when the question budget
// is reached, and an extra candidate answer does not change that.
func TestSessionCompleteBoundary(t *testing.T) {
	s := NewSession(uuid.Nil, "Backend Engineer", "Acme", 5)

	for i := 0; i < 4; i++ {
		s.Append(RoleInterviewer, "question")
		s.Append(RoleCandidate, "answer")
	}
	assert.False(t, s.Complete())

	s.Append(RoleInterviewer, "question five")
	assert.True(t, s.Complete())

	s.Append(RoleCandidate, "final answer")
	assert.True(t, s.Complete())
	assert.Equal(t, 5, s.AskedCount())
}

// TestSessionAppendTouchesUpdatedAt keeps UpdatedAt moving with the
// transcript.
func TestSessionAppendTouchesUpdatedAt(t *testing.T) {
	s := NewSession(uuid.Nil, "Backend Engineer", "Acme", 5)
	created := s.UpdatedAt

	s.Append(RoleInterviewer, "question")

	assert.False(t, s.UpdatedAt.Before(created))
	assert.Equal(t, created, s.CreatedAt)
}
