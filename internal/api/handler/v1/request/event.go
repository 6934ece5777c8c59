package request

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
)

type CreateEventRequest struct {
	Name        string    `json:"name"`
	Date        time.Time `json:"date"`
	VotingStart time.Time `json:"voting_start"`
	VotingEnd   time.Time `json:"voting_end"`
	Hidden      bool      `json:"hidden"`
}

func (req *CreateEventRequest) Validate() error {
	err := validation.ValidateStruct(
		req,
		validation.Field(&req.Name, validation.Required, validation.Length(1, 100)),
		validation.Field(&req.Date, validation.Required),
		validation.Field(&req.VotingStart, validation.Required),
		validation.Field(&req.VotingEnd, validation.Required),
	)
	if err != nil {
		return err
	}

	if !req.VotingEnd.After(req.VotingStart) {
		return errVotingWindowInverted
	}

	return nil
}

type RecordTicketRequest struct {
	OwnerID      uint `json:"owner_id"`
	Delivered    bool `json:"delivered"`
	VoteEligible bool `json:"vote_eligible"`
}

func (req *RecordTicketRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.OwnerID, validation.Required),
	)
}
