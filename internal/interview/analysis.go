package interview

import (
	_ "embed"
	"encoding/json"

	"github.com/xeipuuv/gojsonschema"

	"github.com/jonathan/interview-agent/internal/llm"
)

//go:embed analysis_schema.json
var analysisSchema []byte

// List caps for a parsed analysis. The evaluator prompt asks for the same
// limits; anything beyond them is truncated.
const (
	maxSkills       = 5
	maxStrengths    = 3
	maxImprovements = 3
)

// SkillScore rates one skill observed in the interview.
type SkillScore struct {
	Skill string  `json:"skill"`
	Score float64 `json:"score"`
}

// AnalysisPoint is one titled strength or improvement item.
type AnalysisPoint struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// AnalysisResult is the structured post-hoc evaluation of a completed
// interview.
type AnalysisResult struct {
	OverallScore float64         `json:"overallScore"`
	Feedback     string          `json:"feedback"`
	Skills       []SkillScore    `json:"skills"`
	Strengths    []AnalysisPoint `json:"strengths"`
	Improvements []AnalysisPoint `json:"improvements"`
}

// DefaultAnalysis is the documented fallback value used whenever the
// analysis pass cannot produce a usable result: zero score, empty lists.
func DefaultAnalysis() AnalysisResult {
	return AnalysisResult{
		Skills:       []SkillScore{},
		Strengths:    []AnalysisPoint{},
		Improvements: []AnalysisPoint{},
	}
}

// ParseAnalysis extracts an AnalysisResult from free-form model output.
// Parse failures are expected control flow, not exceptional: any fence
// noise is stripped, the payload is checked against the embedded JSON
// Schema, and anything unusable degrades to DefaultAnalysis. The second
// return value reports whether the payload parsed.
func ParseAnalysis(raw string) (AnalysisResult, bool) {
	text := llm.StripFences(raw)
	if text == "" {
		return DefaultAnalysis(), false
	}

	docLoader := gojsonschema.NewStringLoader(text)
	schemaLoader := gojsonschema.NewBytesLoader(analysisSchema)
	result, err := gojsonschema.Validate(schemaLoader, docLoader)
	if err != nil || !result.Valid() {
		return DefaultAnalysis(), false
	}

	var analysis AnalysisResult
	if err := json.Unmarshal([]byte(text), &analysis); err != nil {
		return DefaultAnalysis(), false
	}

	return normalizeAnalysis(analysis), true
}

// normalizeAnalysis enforces the documented bounds on a parsed payload:
// scores clamped to 0..100, lists truncated, nil slices made empty so the
// JSON shape is stable for callers.
func normalizeAnalysis(a AnalysisResult) AnalysisResult {
	a.OverallScore = clampScore(a.OverallScore)

	if len(a.Skills) > maxSkills {
		a.Skills = a.Skills[:maxSkills]
	}
	for i := range a.Skills {
		a.Skills[i].Score = clampScore(a.Skills[i].Score)
	}
	if len(a.Strengths) > maxStrengths {
		a.Strengths = a.Strengths[:maxStrengths]
	}
	if len(a.Improvements) > maxImprovements {
		a.Improvements = a.Improvements[:maxImprovements]
	}

	if a.Skills == nil {
		a.Skills = []SkillScore{}
	}
	if a.Strengths == nil {
		a.Strengths = []AnalysisPoint{}
	}
	if a.Improvements == nil {
		a.Improvements = []AnalysisPoint{}
	}
	return a
}

func clampScore(score float64) float64 {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}
