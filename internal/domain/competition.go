package domain

import "time"

// Competition is a skill contest scored by organizers rather than by public
// ballot, e.g. fastest tracker music or a gaming tournament.
type Competition struct {
	ID      uint `json:"id"`
	EventID uint `json:"event_id"`

	Name string `json:"name"`

	ParticipationEnd time.Time `json:"participation_end"`
	Start            time.Time `json:"start"`
	End              time.Time `json:"end"`

	// ScoreType labels the unit organizers score in ("points", "seconds").
	ScoreType string `json:"score_type"`
	ScoreSort string `json:"score_sort"`

	ShowResults     bool `json:"show_results"`
	Active          bool `json:"active"`
	HideFromArchive bool `json:"hide_from_archive"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type CompetitionParticipation struct {
	ID            uint `json:"id"`
	CompetitionID uint `json:"competition_id"`
	UserID        uint `json:"user_id"`

	Score *float64 `json:"score"`
	Rank  *int     `json:"rank"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
