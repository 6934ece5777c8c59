package service

import "partyvote/internal/domain"

// Two independent gates compose here: whether an item exists for the caller
// at all, and whether its score and rank are exposed. Organizers always see
// everything.

func EventVisible(event domain.Event, privileged bool) bool {
	if privileged {
		return true
	}

	return !event.Hidden
}

func CompoVisible(compo domain.Compo, event domain.Event, privileged bool) bool {
	if privileged {
		return true
	}
	if event.Hidden {
		return false
	}
	if compo.Active {
		return true
	}

	// Inactive compos stay browsable once the event is archived history.
	return event.Archived
}

func CompetitionVisible(competition domain.Competition, event domain.Event, privileged bool) bool {
	if privileged {
		return true
	}
	if event.Hidden {
		return false
	}
	if competition.Active {
		return true
	}

	return event.Archived && !competition.HideFromArchive
}

// RedactEntry strips score and rank unless results are published or the
// caller is privileged. The stored values are untouched; only the view is
// filtered.
func RedactEntry(entry domain.CompoEntry, compo domain.Compo, privileged bool) domain.CompoEntry {
	if privileged || compo.ShowVotingResults {
		return entry
	}

	entry.Score = nil
	entry.Rank = nil

	return entry
}

func RedactParticipation(participation domain.CompetitionParticipation, competition domain.Competition, privileged bool) domain.CompetitionParticipation {
	if privileged || competition.ShowResults {
		return participation
	}

	participation.Score = nil
	participation.Rank = nil

	return participation
}
