// Package presentation shapes tokens and run history for the headless
// commands' JSON output.
package presentation

import (
	"time"

	"github.com/zjrosen/shelldesk/internal/history"
	"github.com/zjrosen/shelldesk/internal/lexer"
)

// TokenDTO is one lexer token.
type TokenDTO struct {
	Kind   string `json:"kind"`
	Offset int    `json:"offset"`
	Length int    `json:"length"`
	Text   string `json:"text"`
}

// RunDTO is one recorded interpreter run.
type RunDTO struct {
	ID         string    `json:"id"`
	Script     string    `json:"script"`
	StartedAt  time.Time `json:"started_at"`
	DurationMS int64     `json:"duration_ms"`
	ExitCode   int       `json:"exit_code"`
	Error      string    `json:"error,omitempty"`
	Output     string    `json:"output,omitempty"` // only for a single run
}

// FromTokens converts tokens to DTOs. Whitespace tokens are dropped unless
// withSkip is set.
func FromTokens(tokens []lexer.Token, withSkip bool) []TokenDTO {
	dtos := make([]TokenDTO, 0, len(tokens))
	for _, tok := range tokens {
		if tok.Kind == lexer.Skip && !withSkip {
			continue
		}
		dtos = append(dtos, TokenDTO{
			Kind:   tok.Kind.String(),
			Offset: tok.Offset,
			Length: tok.Length,
			Text:   tok.Text,
		})
	}
	return dtos
}

// FromRun converts a stored run. Output is included only when withOutput
// is set, since listings would otherwise repeat every transcript.
func FromRun(run history.Run, withOutput bool) RunDTO {
	dto := RunDTO{
		ID:         run.ID,
		Script:     run.Script,
		StartedAt:  run.StartedAt,
		DurationMS: run.Duration.Milliseconds(),
		ExitCode:   run.ExitCode,
		Error:      run.Error,
	}
	if withOutput {
		dto.Output = run.Output
	}
	return dto
}

// FromRuns converts a listing of runs.
func FromRuns(runs []history.Run) []RunDTO {
	dtos := make([]RunDTO, len(runs))
	for i, run := range runs {
		dtos[i] = FromRun(run, false)
	}
	return dtos
}
