package model

import "time"

// SuggestionSource tags where a suggestion came from.
type SuggestionSource string

const (
	SourceAI        SuggestionSource = "ai"
	SourceFallback  SuggestionSource = "fallback"
	SourceHeuristic SuggestionSource = "heuristic"
	SourceUnknown   SuggestionSource = "unknown"
)

// AISuggestion is one accounting classification proposal for an invoice.
// LineNumber ties the suggestion to a specific invoice line; zero means the
// suggestion applies to the whole invoice.
//
// The full set for an invoice is replaced atomically on every regeneration;
// there is no incremental update.
type AISuggestion struct {
	AccountCode string           `json:"account_code"`
	Rationale   string           `json:"rationale"`
	Confidence  float64          `json:"confidence"`
	Source      SuggestionSource `json:"source"`
	GeneratedAt time.Time        `json:"generated_at"`
	IsSelected  bool             `json:"is_selected"`
	LineNumber  int              `json:"line_number,omitempty"`
}
