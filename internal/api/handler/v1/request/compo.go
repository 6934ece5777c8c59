package request

import (
	"errors"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
)

var (
	errVotingWindowInverted = errors.New("voting_end must be after voting_start")
	errVotingWindowPartial  = errors.New("voting_start and voting_end must be provided together")
)

type CreateCompoRequest struct {
	Name              string    `json:"name"`
	EditingEnd        time.Time `json:"editing_end"`
	VotingStart       time.Time `json:"voting_start"`
	VotingEnd         time.Time `json:"voting_end"`
	ShowVotingResults bool      `json:"show_voting_results"`
	Active            bool      `json:"active"`
	ScoreSort         string    `json:"score_sort"`
	Aggregation       string    `json:"aggregation"`
}

// Validate accepts an absent voting window; the compo then inherits the
// event-level one. A window given halfway is rejected.
func (req *CreateCompoRequest) Validate() error {
	err := validation.ValidateStruct(
		req,
		validation.Field(&req.Name, validation.Required, validation.Length(1, 100)),
		validation.Field(&req.ScoreSort, validation.In("asc", "desc")),
		validation.Field(&req.Aggregation, validation.In("average", "sum")),
	)
	if err != nil {
		return err
	}

	if req.VotingStart.IsZero() != req.VotingEnd.IsZero() {
		return errVotingWindowPartial
	}
	if !req.VotingStart.IsZero() && !req.VotingEnd.After(req.VotingStart) {
		return errVotingWindowInverted
	}

	return nil
}

type CreateEntryRequest struct {
	Title string `json:"title"`
}

func (req *CreateEntryRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Title, validation.Required, validation.Length(1, 200)),
	)
}

type DisqualifyEntryRequest struct {
	Reason string `json:"reason"`
}

func (req *DisqualifyEntryRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Reason, validation.Required, validation.Length(1, 500)),
	)
}

type BallotVote struct {
	EntryID uint    `json:"entry_id"`
	Points  float64 `json:"points"`
}

type SubmitBallotRequest struct {
	Votes []BallotVote `json:"votes"`
}

func (req *SubmitBallotRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Votes, validation.Required, validation.Length(1, 0)),
	)
}

// PointsByEntry flattens the vote list; the last occurrence of an entry wins,
// mirroring how a resubmitted ballot replaces an earlier one.
func (req *SubmitBallotRequest) PointsByEntry() map[uint]float64 {
	points := make(map[uint]float64, len(req.Votes))
	for _, v := range req.Votes {
		points[v.EntryID] = v.Points
	}

	return points
}
