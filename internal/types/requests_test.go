package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStartInterviewRequest_Validate(t *testing.T) {
	req := &StartInterviewRequest{JobTitle: "Backend Engineer", Company: "Acme"}
	assert.NoError(t, req.Validate())

	req = &StartInterviewRequest{Company: "Acme"}
	assert.Error(t, req.Validate())

	req = &StartInterviewRequest{JobTitle: "Backend Engineer"}
	assert.Error(t, req.Validate())
}

// TestStartInterviewRequest_Questions covers the coercion of the loose
// totalQuestions field as it arrives from decoded JSON.
func TestStartInterviewRequest_Questions(t *testing.T) {
	tests := []struct {
		name string
		body string
		want int
	}{
		{"number", `{"jobTitle":"a","company":"b","totalQuestions":15}`, 15},
		{"numeric string", `{"jobTitle":"a","company":"b","totalQuestions":"15"}`, 15},
		{"non-numeric string", `{"jobTitle":"a","company":"b","totalQuestions":"abc"}`, 0},
		{"float string", `{"jobTitle":"a","company":"b","totalQuestions":"12.5"}`, 0},
		{"null", `{"jobTitle":"a","company":"b","totalQuestions":null}`, 0},
		{"absent", `{"jobTitle":"a","company":"b"}`, 0},
		{"object", `{"jobTitle":"a","company":"b","totalQuestions":{"n":5}}`, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var req StartInterviewRequest
			require.NoError(t, json.Unmarshal([]byte(tt.body), &req))
			assert.Equal(t, tt.want, req.Questions())
		})
	}
}

func TestStartInterviewRequest_QuestionsJSONNumber(t *testing.T) {
	req := &StartInterviewRequest{TotalQuestions: json.Number("20")}
	assert.Equal(t, 20, req.Questions())

	req = &StartInterviewRequest{TotalQuestions: json.Number("nope")}
	assert.Equal(t, 0, req.Questions())
}

func TestNextTurnRequest_Validate(t *testing.T) {
	req := &NextTurnRequest{Answer: "I led the migration."}
	assert.NoError(t, req.Validate())

	req = &NextTurnRequest{}
	assert.Error(t, req.Validate())
}
