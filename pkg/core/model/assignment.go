package model

import "time"

// AssignmentRecord is one filled slot in one week. The ledger keeps at most
// one live record per (Week, Slot).
type AssignmentRecord struct {
	Week     Date
	Slot     string
	PersonID string
	Code     string

	// RecordedAt orders rows from append-only stores; the latest row wins
	RecordedAt time.Time
}

// WeekType describes what kind of meeting week is being scheduled
type WeekType string

const (
	WeekNormal             WeekType = "normal"
	WeekCircuitOverseer    WeekType = "co_visit"
	WeekCircuitAssembly    WeekType = "circuit_assembly"
	WeekRegionalConvention WeekType = "convention"
	WeekMemorial           WeekType = "memorial"
	WeekNoMeeting          WeekType = "no_meeting"
)

func (w WeekType) IsValid() bool {
	switch w {
	case WeekNormal, WeekCircuitOverseer, WeekCircuitAssembly, WeekRegionalConvention, WeekMemorial, WeekNoMeeting:
		return true
	}
	return false
}

// HasMeeting reports whether assignments are made for the week at all
func (w WeekType) HasMeeting() bool {
	switch w {
	case WeekCircuitAssembly, WeekRegionalConvention, WeekMemorial, WeekNoMeeting:
		return false
	}
	return true
}

// CandidateKind tags the variant held by a Candidate
type CandidateKind int

const (
	CandidatePerson CandidateKind = iota
	CandidatePlaceholder
)

// Placeholder is a synthetic candidate that is not a roster member, such as
// the visiting circuit overseer or a free-text name in pocket mode
type Placeholder struct {
	ID          string
	DisplayName string
}

// Candidate is one entry of an ordered candidate list
type Candidate struct {
	Kind        CandidateKind
	Person      Person
	Placeholder Placeholder

	// Recency of the last assignment in the same family, nil when never assigned
	LastAssigned      *Date
	WeeksSince        int
	LastAssignedLabel string

	// Recency as an assistant, only filled for student parts
	LastAssistant      *Date
	LastAssistantLabel string
}

// PersonCandidate wraps a roster member
func PersonCandidate(p Person) Candidate {
	return Candidate{Kind: CandidatePerson, Person: p}
}

// PlaceholderCandidate builds a synthetic candidate. Placeholders are saved
// under their name, so the name is also the identifier.
func PlaceholderCandidate(displayName string) Candidate {
	return Candidate{
		Kind: CandidatePlaceholder,
		Placeholder: Placeholder{
			ID:          displayName,
			DisplayName: displayName,
		},
	}
}

func (c Candidate) ID() string {
	if c.Kind == CandidatePlaceholder {
		return c.Placeholder.ID
	}
	return c.Person.ID
}

func (c Candidate) DisplayName() string {
	if c.Kind == CandidatePlaceholder {
		return c.Placeholder.DisplayName
	}
	return c.Person.Name()
}

func (c Candidate) IsPlaceholder() bool {
	return c.Kind == CandidatePlaceholder
}
