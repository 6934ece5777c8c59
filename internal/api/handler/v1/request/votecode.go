package request

import (
	validation "github.com/go-ozzo/ozzo-validation"
)

type RequestVoteCodeRequest struct {
	Reason string `json:"reason"`
}

func (req *RequestVoteCodeRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Reason, validation.Required, validation.Length(1, 500)),
	)
}
