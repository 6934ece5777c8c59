package domain

import "time"

const (
	VoteCodeOriginTicket  = "ticket"
	VoteCodeOriginRequest = "request"
)

const (
	RequestStatusPending  = "pending"
	RequestStatusApproved = "approved"
	RequestStatusRejected = "rejected"
)

// VoteCode is the one-per-event-per-user credential that authorizes ballot
// submission. Codes are never deleted; they stay around for auditing even
// after an event is archived and its votes pruned.
type VoteCode struct {
	ID      uint `json:"id"`
	EventID uint `json:"event_id"`
	UserID  uint `json:"user_id"`

	Code   string `json:"code"`
	Origin string `json:"origin"`

	CreatedAt time.Time `json:"created_at"`
}

// TicketVoteCode links a ticket-derived vote code to the ticket that backs
// it. The link can be moved to another ticket when a ticket is re-issued,
// without touching the code itself or any ballots cast under it.
type TicketVoteCode struct {
	ID         uint `json:"id"`
	VoteCodeID uint `json:"vote_code_id"`
	TicketID   uint `json:"ticket_id"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// VoteCodeRequest is filed by a user who wants to vote without holding an
// eligible ticket. One row per (event, user); a rejected request may be
// re-opened, an approved one is terminal.
type VoteCodeRequest struct {
	ID      uint `json:"id"`
	EventID uint `json:"event_id"`
	UserID  uint `json:"user_id"`

	Reason string `json:"reason"`
	Status string `json:"status"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
