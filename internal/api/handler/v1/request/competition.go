package request

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
)

type CreateCompetitionRequest struct {
	Name             string    `json:"name"`
	ParticipationEnd time.Time `json:"participation_end"`
	Start            time.Time `json:"start"`
	End              time.Time `json:"end"`
	ScoreType        string    `json:"score_type"`
	ScoreSort        string    `json:"score_sort"`
	ShowResults      bool      `json:"show_results"`
	Active           bool      `json:"active"`
	HideFromArchive  bool      `json:"hide_from_archive"`
}

func (req *CreateCompetitionRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Name, validation.Required, validation.Length(1, 100)),
		validation.Field(&req.ScoreType, validation.Length(0, 50)),
		validation.Field(&req.ScoreSort, validation.In("asc", "desc")),
	)
}

type CreateParticipationRequest struct {
	UserID uint `json:"user_id"`
}

func (req *CreateParticipationRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.UserID, validation.Required),
	)
}

type SetScoreRequest struct {
	Score *float64 `json:"score"`
}

func (req *SetScoreRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Score, validation.NotNil),
	)
}
