package presentation

import (
	"encoding/json"
	"io"
)

// Formatter handles output formatting
type Formatter struct {
	writer io.Writer
}

// NewFormatter creates a new formatter
func NewFormatter(writer io.Writer) *Formatter {
	return &Formatter{
		writer: writer,
	}
}

// FormatTokens formats a token list as JSON
func (f *Formatter) FormatTokens(tokens []TokenDTO) error {
	return f.encode(tokens)
}

// FormatRuns formats a run listing as JSON
func (f *Formatter) FormatRuns(runs []RunDTO) error {
	return f.encode(runs)
}

// FormatRun formats a single run as JSON
func (f *Formatter) FormatRun(run RunDTO) error {
	return f.encode(run)
}

func (f *Formatter) encode(v any) error {
	encoder := json.NewEncoder(f.writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
