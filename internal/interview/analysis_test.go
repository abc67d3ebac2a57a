package interview

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validAnalysisJSON = `{
	"overallScore": 82,
	"feedback": "Strong technical depth, shorter answers on behavioral questions.",
	"skills": [{"skill": "Go", "score": 90}, {"skill": "System design", "score": 75}],
	"strengths": [{"title": "Clarity", "description": "Explains tradeoffs well."}],
	"improvements": [{"title": "Examples", "description": "More concrete examples."}]
}`

// TestParseAnalysis_Valid parses a clean payload.
func TestParseAnalysis_Valid(t *testing.T) {
	analysis, parsed := ParseAnalysis(validAnalysisJSON)

	require.True(t, parsed)
	assert.Equal(t, 82.0, analysis.OverallScore)
	assert.Len(t, analysis.Skills, 2)
	assert.Equal(t, "Go", analysis.Skills[0].Skill)
	assert.Len(t, analysis.Strengths, 1)
	assert.Len(t, analysis.Improvements, 1)
}

// TestParseAnalysis_Fenced strips markdown fences before parsing.
func TestParseAnalysis_Fenced(t *testing.T) {
	analysis, parsed := ParseAnalysis("```json\n" + validAnalysisJSON + "\n```")

	require.True(t, parsed)
	assert.Equal(t, 82.0, analysis.OverallScore)
}

// TestParseAnalysis_Garbage degrades to the documented default.
func TestParseAnalysis_Garbage(t *testing.T) {
	analysis, parsed := ParseAnalysis("I think the candidate did quite well overall!")

	assert.False(t, parsed)
	assert.Equal(t, DefaultAnalysis(), analysis)
	assert.Equal(t, 0.0, analysis.OverallScore)
	assert.Empty(t, analysis.Skills)
	assert.Empty(t, analysis.Strengths)
	assert.Empty(t, analysis.Improvements)
}

// TestParseAnalysis_Empty degrades to the default.
func TestParseAnalysis_Empty(t *testing.T) {
	analysis, parsed := ParseAnalysis("")

	assert.False(t, parsed)
	assert.Equal(t, DefaultAnalysis(), analysis)
}

// TestParseAnalysis_SchemaViolation rejects payloads that are valid JSON
// but do not match the expected shape.
func TestParseAnalysis_SchemaViolation(t *testing.T) {
	analysis, parsed := ParseAnalysis(`{"overallScore": "eighty", "feedback": "ok"}`)

	assert.False(t, parsed)
	assert.Equal(t, DefaultAnalysis(), analysis)
}

// TestParseAnalysis_MissingRequired rejects payloads without the required
// fields.
func TestParseAnalysis_MissingRequired(t *testing.T) {
	_, parsed := ParseAnalysis(`{"skills": []}`)
	assert.False(t, parsed)
}

// TestParseAnalysis_TruncatesLists caps skills at 5 and the two point
// lists at 3.
func TestParseAnalysis_TruncatesLists(t *testing.T) {
	payload := `{
		"overallScore": 50,
		"feedback": "ok",
		"skills": [
			{"skill": "a", "score": 1}, {"skill": "b", "score": 2},
			{"skill": "c", "score": 3}, {"skill": "d", "score": 4},
			{"skill": "e", "score": 5}, {"skill": "f", "score": 6}
		],
		"strengths": [
			{"title": "1"}, {"title": "2"}, {"title": "3"}, {"title": "4"}
		],
		"improvements": [
			{"title": "1"}, {"title": "2"}, {"title": "3"}, {"title": "4"}
		]
	}`

	analysis, parsed := ParseAnalysis(payload)

	require.True(t, parsed)
	assert.Len(t, analysis.Skills, 5)
	assert.Len(t, analysis.Strengths, 3)
	assert.Len(t, analysis.Improvements, 3)
}

// TestParseAnalysis_NilListsBecomeEmpty keeps the JSON shape stable for
// callers: lists are never null.
func TestParseAnalysis_NilListsBecomeEmpty(t *testing.T) {
	analysis, parsed := ParseAnalysis(`{"overallScore": 70, "feedback": "fine"}`)

	require.True(t, parsed)
	assert.NotNil(t, analysis.Skills)
	assert.NotNil(t, analysis.Strengths)
	assert.NotNil(t, analysis.Improvements)
}

// TestParseAnalysis_ClampsScores repairs out-of-range scores instead of
// rejecting the whole payload.
func TestParseAnalysis_ClampsScores(t *testing.T) {
	analysis, parsed := ParseAnalysis(`{
		"overallScore": 140,
		"feedback": "ok",
		"skills": [{"skill": "Go", "score": -3}]
	}`)

	require.True(t, parsed)
	assert.Equal(t, 100.0, analysis.OverallScore)
	assert.Equal(t, 0.0, analysis.Skills[0].Score)
}

// TestDefaultAnalysis pins the documented zero-value default.
func TestDefaultAnalysis(t *testing.T) {
	d := DefaultAnalysis()

	assert.Equal(t, 0.0, d.OverallScore)
	assert.Equal(t, "", d.Feedback)
	assert.Empty(t, d.Skills)
	assert.Empty(t, d.Strengths)
	assert.Empty(t, d.Improvements)
}
