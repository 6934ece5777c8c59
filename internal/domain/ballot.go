package domain

import "time"

// VoteGroup is one voter's complete ballot for one compo. The (user, compo)
// pair is unique; resubmitting replaces the group's votes wholesale.
type VoteGroup struct {
	ID      uint `json:"id"`
	UserID  uint `json:"user_id"`
	CompoID uint `json:"compo_id"`

	Votes []Vote `json:"votes"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Vote struct {
	ID          uint `json:"id"`
	VoteGroupID uint `json:"vote_group_id"`
	EntryID     uint `json:"entry_id"`

	Points float64 `json:"points"`
}

// MaintenanceResult reports the outcome of an administrative bulk job.
// Failed entities are collected rather than aborting the whole batch.
type MaintenanceResult struct {
	Processed int                  `json:"processed"`
	Failed    []MaintenanceFailure `json:"failed,omitempty"`
}

type MaintenanceFailure struct {
	EntityID uint   `json:"entity_id"`
	Reason   string `json:"reason"`
}
