package interview

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jonathan/interview-agent/internal/llm"
	"github.com/jonathan/interview-agent/internal/logger"
	"github.com/jonathan/interview-agent/internal/prompts"
)

// transcriptWindow bounds how many recent transcript lines a continuation
// prompt carries. Older lines are dropped, not summarized.
const transcriptWindow = 10

// ErrInvalidInput marks client mistakes: empty job title, empty company,
// empty answer. Wrapped errors carry the specific field.
var ErrInvalidInput = errors.New("interview: invalid input")

// TextGenerator is the slice of the fallback engine the orchestrator
// needs. *llm.Engine satisfies it.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string, order []llm.Provider) (string, llm.Provider, error)
}

// ResultRecord is what the orchestrator hands to the result sink when an
// interview ends with a resolved owner.
type ResultRecord struct {
	OwnerID    uuid.UUID
	JobTitle   string
	Company    string
	Analysis   AnalysisResult
	Transcript []TranscriptEntry
}

// ResultSink is the durable persistence boundary for completed analyses.
// Writes are best-effort; the orchestrator logs and swallows failures.
type ResultSink interface {
	Write(ctx context.Context, rec ResultRecord) error
}

// Orchestrator drives interview sessions end to end: start, turn loop,
// termination, and the closing analysis pass.
type Orchestrator struct {
	engine TextGenerator
	store  Store
	sink   ResultSink // nil disables result persistence
	order  []llm.Provider
	log    *zap.Logger
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithOrder overrides the provider fallback order.
func WithOrder(order []llm.Provider) Option {
	return func(o *Orchestrator) { o.order = order }
}

// WithSink attaches a result sink for completed analyses.
func WithSink(sink ResultSink) Option {
	return func(o *Orchestrator) { o.sink = sink }
}

// NewOrchestrator creates an orchestrator over the given engine and store.
func NewOrchestrator(engine TextGenerator, store Store, log *zap.Logger, opts ...Option) *Orchestrator {
	if log == nil {
		log = zap.NewNop()
	}
	o := &Orchestrator{
		engine: engine,
		store:  store,
		order:  llm.DefaultOrder(),
		log:    log,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// StartResult is the response payload of a successful interview start.
type StartResult struct {
	SessionID      uuid.UUID    `json:"sessionId"`
	Provider       llm.Provider `json:"providerUsed"`
	QuestionNumber int          `json:"questionNumber"`
	TotalQuestions int          `json:"totalQuestions"`
	Message        string       `json:"interviewerMessage"`
}

// Start creates a session and generates the opening question. The session
// is registered before generation, so a fallback exhaustion leaves behind
// a created session with an empty transcript; the caller may retry the
// first turn or end the session.
func (o *Orchestrator) Start(ctx context.Context, ownerID uuid.UUID, jobTitle, company string, totalQuestions int) (*StartResult, error) {
	jobTitle = strings.TrimSpace(jobTitle)
	company = strings.TrimSpace(company)
	if jobTitle == "" {
		return nil, fmt.Errorf("%w: job title is required", ErrInvalidInput)
	}
	if company == "" {
		return nil, fmt.Errorf("%w: company is required", ErrInvalidInput)
	}

	session := NewSession(ownerID, jobTitle, company, totalQuestions)
	o.store.Create(session)

	prompt := o.openingPrompt(session)
	text, provider, err := o.engine.Generate(ctx, prompt, o.order)
	if err != nil {
		o.log.Warn("opening question generation failed",
			zap.String("session_id", session.ID.String()),
			zap.Error(err),
		)
		return nil, err
	}

	session.Append(RoleInterviewer, text)
	o.store.Update(session)

	o.log.Info("interview started",
		zap.String("session_id", session.ID.String()),
		zap.String("provider", string(provider)),
		zap.Int("total_questions", session.TotalQuestions),
	)

	return &StartResult{
		SessionID:      session.ID,
		Provider:       provider,
		QuestionNumber: 1,
		TotalQuestions: session.TotalQuestions,
		Message:        text,
	}, nil
}

// TurnResult is the response payload of a next-turn call. When the
// session was already complete before this turn, Transcript is populated
// and no new question is generated.
type TurnResult struct {
	SessionID      uuid.UUID         `json:"sessionId"`
	Provider       llm.Provider      `json:"providerUsed,omitempty"`
	QuestionNumber int               `json:"questionNumber,omitempty"`
	TotalQuestions int               `json:"totalQuestions"`
	Message        string            `json:"interviewerMessage,omitempty"`
	Done           bool              `json:"done"`
	Transcript     []TranscriptEntry `json:"transcript,omitempty"`
}

// NextTurn appends the candidate's answer and either generates the next
// question or, when the question budget is exhausted, completes the
// session. The answer stays appended even if generation fails, preserving
// partial progress.
func (o *Orchestrator) NextTurn(ctx context.Context, sessionID uuid.UUID, answer string) (*TurnResult, error) {
	answer = strings.TrimSpace(answer)
	if answer == "" {
		return nil, fmt.Errorf("%w: answer is required", ErrInvalidInput)
	}

	session, err := o.store.Get(sessionID)
	if err != nil {
		return nil, err
	}

	session.Append(RoleCandidate, answer)
	o.store.Update(session)

	if session.Complete() {
		o.log.Info("interview complete",
			zap.String("session_id", session.ID.String()),
			zap.Int("questions_asked", session.AskedCount()),
		)
		return &TurnResult{
			SessionID:      session.ID,
			TotalQuestions: session.TotalQuestions,
			Done:           true,
			Transcript:     session.Transcript,
		}, nil
	}

	prompt := o.continuationPrompt(session, answer)
	text, provider, err := o.engine.Generate(ctx, prompt, o.order)
	if err != nil {
		o.log.Warn("follow-up question generation failed",
			zap.String("session_id", session.ID.String()),
			zap.Error(err),
		)
		return nil, err
	}

	session.Append(RoleInterviewer, text)
	o.store.Update(session)

	return &TurnResult{
		SessionID:      session.ID,
		Provider:       provider,
		QuestionNumber: session.AskedCount(),
		TotalQuestions: session.TotalQuestions,
		Message:        text,
		Done:           session.Complete(),
	}, nil
}

// Transcript returns the session state as-is. It never mutates the
// session.
func (o *Orchestrator) Transcript(sessionID uuid.UUID) (*Session, error) {
	return o.store.Get(sessionID)
}

// End runs the analysis pass and tears the session down. It never fails
// on analysis problems: unparsable model output degrades to the default
// result, and sink write errors are logged and swallowed. The session is
// removed from the store as the final step regardless of outcome.
func (o *Orchestrator) End(ctx context.Context, sessionID uuid.UUID) (AnalysisResult, error) {
	session, err := o.store.Get(sessionID)
	if err != nil {
		return AnalysisResult{}, err
	}
	defer o.store.Delete(sessionID)

	analysis := o.analyze(ctx, session)

	if o.sink != nil && session.OwnerID != uuid.Nil {
		rec := ResultRecord{
			OwnerID:    session.OwnerID,
			JobTitle:   session.JobTitle,
			Company:    session.Company,
			Analysis:   analysis,
			Transcript: session.Transcript,
		}
		if err := o.sink.Write(ctx, rec); err != nil {
			o.log.Warn("analysis sink write failed",
				zap.String("session_id", session.ID.String()),
				zap.Error(err),
			)
		}
	}

	return analysis, nil
}

// analyze asks a provider for the structured evaluation and parses it
// best-effort.
func (o *Orchestrator) analyze(ctx context.Context, session *Session) AnalysisResult {
	text, provider, err := o.engine.Generate(ctx, o.analysisPrompt(session), o.order)
	if err != nil {
		o.log.Warn("analysis generation failed",
			zap.String("session_id", session.ID.String()),
			zap.Error(err),
		)
		return DefaultAnalysis()
	}

	analysis, parsed := ParseAnalysis(text)
	if !parsed {
		o.log.Warn("analysis output did not parse, using default",
			zap.String("session_id", session.ID.String()),
			zap.String("provider", string(provider)),
			zap.String("output", logger.Excerpt(text, 200)),
		)
	}
	return analysis
}

func (o *Orchestrator) openingPrompt(s *Session) string {
	return prompts.Format(prompts.MustGet("interview.json", "opening"), map[string]string{
		"JobTitle": s.JobTitle,
		"Company":  s.Company,
		"Total":    strconv.Itoa(s.TotalQuestions),
	})
}

func (o *Orchestrator) continuationPrompt(s *Session, answer string) string {
	asked := s.AskedCount()
	return prompts.Format(prompts.MustGet("interview.json", "continuation"), map[string]string{
		"JobTitle":   s.JobTitle,
		"Company":    s.Company,
		"Total":      strconv.Itoa(s.TotalQuestions),
		"Asked":      strconv.Itoa(asked),
		"Remaining":  strconv.Itoa(s.TotalQuestions - asked),
		"Transcript": renderTranscript(s.Transcript, transcriptWindow),
		"Answer":     answer,
	})
}

func (o *Orchestrator) analysisPrompt(s *Session) string {
	return prompts.Format(prompts.MustGet("interview.json", "analysis"), map[string]string{
		"JobTitle":   s.JobTitle,
		"Company":    s.Company,
		"Transcript": renderTranscript(s.Transcript, len(s.Transcript)),
	})
}

// renderTranscript flattens the last limit transcript entries into
// "role: text" lines for prompt embedding.
func renderTranscript(entries []TranscriptEntry, limit int) string {
	if limit > 0 && len(entries) > limit {
		entries = entries[len(entries)-limit:]
	}
	lines := make([]string, 0, len(entries))
	for _, entry := range entries {
		lines = append(lines, fmt.Sprintf("%s: %s", entry.Role, entry.Text))
	}
	return strings.Join(lines, "\n")
}
