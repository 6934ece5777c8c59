package dao

import "gorm.io/gorm"

func InitTables(db *gorm.DB) error {
	return db.AutoMigrate(
		&User{},
		&Event{},
		&Ticket{},
		&VoteCode{},
		&TicketVoteCode{},
		&VoteCodeRequest{},
		&Compo{},
		&CompoEntry{},
		&VoteGroup{},
		&Vote{},
		&Competition{},
		&CompetitionParticipation{},
	)
}
