package domain

import "time"

// Participant is a traveler on a trip. The ID is the authoritative
// reference; renaming a participant never rewrites expense history.
type Participant struct {
	ID   string
	Name string
}

// Trip owns an ordered list of expenses and a set of participants.
// LastSeq is the per-trip sequence counter used to order expenses
// deterministically when timestamps collide.
type Trip struct {
	ID           string
	Name         string
	BudgetMinor  int64
	Participants []Participant
	LastSeq      int64
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Member reports whether id belongs to the trip's participant set.
func (t *Trip) Member(id string) bool {
	for _, p := range t.Participants {
		if p.ID == id {
			return true
		}
	}

	return false
}

// ParticipantIDs returns the ids of all trip participants in declaration order.
func (t *Trip) ParticipantIDs() []string {
	ids := make([]string, len(t.Participants))
	for i, p := range t.Participants {
		ids[i] = p.ID
	}

	return ids
}
