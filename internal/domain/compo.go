package domain

import "time"

const (
	ScoreSortAscending  = "asc"
	ScoreSortDescending = "desc"

	AggregationAverage = "average"
	AggregationSum     = "sum"
)

type Compo struct {
	ID      uint `json:"id"`
	EventID uint `json:"event_id"`

	Name string `json:"name"`

	EditingEnd  time.Time `json:"editing_end"`
	VotingStart time.Time `json:"voting_start"`
	VotingEnd   time.Time `json:"voting_end"`

	ShowVotingResults bool   `json:"show_voting_results"`
	Active            bool   `json:"active"`
	ScoreSort         string `json:"score_sort"`
	Aggregation       string `json:"aggregation"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// VotingOpenAt reports whether ballots are accepted at the given instant.
// The window is half-open: [VotingStart, VotingEnd).
func (c Compo) VotingOpenAt(t time.Time) bool {
	return !t.Before(c.VotingStart) && t.Before(c.VotingEnd)
}

// CompoEntry is a submitted work. Score and Rank are derived values owned by
// the scoring recompute; they are never written through the public surface.
type CompoEntry struct {
	ID      uint `json:"id"`
	CompoID uint `json:"compo_id"`
	UserID  uint `json:"user_id"`

	Title string `json:"title"`

	Score *float64 `json:"score"`
	Rank  *int     `json:"rank"`

	Disqualified       bool   `json:"disqualified"`
	DisqualifiedReason string `json:"disqualified_reason,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
