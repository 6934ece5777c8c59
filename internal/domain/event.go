package domain

import "time"

// Event is one edition of the party. Archived events are read-only history;
// hidden events are excluded from every public listing.
type Event struct {
	ID uint `json:"id"`

	Name string    `json:"name"`
	Date time.Time `json:"date"`

	VotingStart time.Time `json:"voting_start"`
	VotingEnd   time.Time `json:"voting_end"`

	Archived bool `json:"archived"`
	Hidden   bool `json:"hidden"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Ticket mirrors the ticket shop's delivery state. The shop itself lives in
// another system; organizers record delivered tickets through the API.
type Ticket struct {
	ID uint `json:"id"`

	EventID uint `json:"event_id"`
	OwnerID uint `json:"owner_id"`

	Delivered    bool `json:"delivered"`
	VoteEligible bool `json:"vote_eligible"`

	CreatedAt time.Time `json:"created_at"`
}
