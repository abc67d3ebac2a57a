// Package types provides the request payloads of the interview API.
package types

import (
	"encoding/json"

	"github.com/go-playground/validator/v10"
)

// StartInterviewRequest begins a new interview session.
//
// TotalQuestions is deliberately loose: clients send numbers, numeric
// strings, junk, or nothing at all, and anything not usable as a number
// falls back to the default count rather than failing the request.
type StartInterviewRequest struct {
	JobTitle       string `json:"jobTitle" validate:"required,min=1"`
	Company        string `json:"company" validate:"required,min=1"`
	TotalQuestions any    `json:"totalQuestions,omitempty"`
}

// Validate validates the StartInterviewRequest using the validator.
func (r *StartInterviewRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// Questions coerces the raw totalQuestions value to an int. Zero means
// "unspecified or non-numeric"; the interview package maps that to its
// default and clamps the rest.
func (r *StartInterviewRequest) Questions() int {
	switch v := r.TotalQuestions.(type) {
	case float64:
		return int(v)
	case json.Number:
		if n, err := v.Int64(); err == nil {
			return int(n)
		}
	case string:
		var num json.Number = json.Number(v)
		if n, err := num.Int64(); err == nil {
			return int(n)
		}
	}
	return 0
}

// NextTurnRequest submits one candidate answer.
type NextTurnRequest struct {
	Answer string `json:"answer" validate:"required,min=1"`
}

// Validate validates the NextTurnRequest using the validator.
func (r *NextTurnRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}
