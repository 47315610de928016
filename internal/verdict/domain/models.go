// Package domain contains the investment evaluation types.
package domain

import (
	"context"
	"errors"
)

// ErrUpstreamUnavailable marks failures of the chat completions API.
var ErrUpstreamUnavailable = errors.New("evaluation upstream unavailable")

// Investment describes the instrument under review.
type Investment struct {
	Name         string `json:"name"`
	Type         string `json:"type"`
	Description  string `json:"description"`
	Riba         string `json:"riba"`
	IncomeNature string `json:"incomeNature"`
	Industry     string `json:"industry"`
	Transparency string `json:"transparency"`
	IncomeSource string `json:"incomeSource"`
	Ethics       string `json:"ethics"`
}

// Evaluation is the parsed model reply. Verdict is empty when the reply did
// not match the expected two-line format; Raw always carries the full text.
type Evaluation struct {
	Verdict string `json:"verdict,omitempty"`
	Reason  string `json:"reason,omitempty"`
	Raw     string `json:"response"`
}

// Client calls the chat completions endpoint.
type Client interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Service evaluates investments for Shariah compliance.
type Service interface {
	Evaluate(ctx context.Context, inv Investment) (*Evaluation, error)
}
