package request

import (
	validation "github.com/go-ozzo/ozzo-validation"
)

type TransferRightsRequest struct {
	FromTicketID uint `json:"from_ticket_id"`
	ToTicketID   uint `json:"to_ticket_id"`
}

func (req *TransferRightsRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.FromTicketID, validation.Required),
		validation.Field(&req.ToTicketID, validation.Required),
	)
}
