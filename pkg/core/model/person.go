package model

import "strings"

// Gender is a member's recorded gender. Many assignment types are restricted by it.
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

func (g Gender) IsValid() bool {
	return g == GenderMale || g == GenderFemale
}

// ParseGender accepts the spellings found in member sheets ("M", "Male", "brother", ...)
func ParseGender(s string) (Gender, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "m", "male", "brother":
		return GenderMale, true
	case "f", "female", "sister":
		return GenderFemale, true
	default:
		return "", false
	}
}

// Status is a time-bounded standing held by a member
type Status string

const (
	StatusBaptizedPublisher   Status = "baptized_publisher"
	StatusUnbaptizedPublisher Status = "unbaptized_publisher"
	StatusElder               Status = "elder"
	StatusMinisterialServant  Status = "ministerial_servant"
	StatusEnrolled            Status = "enrolled"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusBaptizedPublisher, StatusUnbaptizedPublisher, StatusElder, StatusMinisterialServant, StatusEnrolled:
		return true
	}
	return false
}

// Period is a date range with an inclusive start and an optional inclusive end.
// A nil End means the period is still running.
type Period struct {
	Start Date
	End   *Date
}

// Covers reports whether d falls within the period
func (p Period) Covers(d Date) bool {
	if d.Before(p.Start) {
		return false
	}
	return p.End == nil || !d.After(*p.End)
}

// StatusPeriod records that a member held a status over a period
type StatusPeriod struct {
	Status Status
	Period
}

// TimeAway is a declared interval of unavailability
type TimeAway struct {
	ID     string
	Start  Date
	End    *Date // nil means open-ended
	Reason string
}

// Covers reports whether the member is away on d under this interval
func (t TimeAway) Covers(d Date) bool {
	return Period{Start: t.Start, End: t.End}.Covers(d)
}

// Flag is a role or privilege derived from a member's statuses
type Flag uint8

const (
	FlagPublisher Flag = 1 << iota
	FlagBaptized
	FlagElder
	FlagMinisterialServant
	FlagEnrolled
	FlagAssistant
)

// Flags is a set of Flag values
type Flags uint8

func (f Flags) Has(flag Flag) bool {
	return f&Flags(flag) != 0
}

// HasAny reports whether at least one of the given flags is set
func (f Flags) HasAny(flags ...Flag) bool {
	for _, flag := range flags {
		if f.Has(flag) {
			return true
		}
	}
	return false
}

func (f Flags) With(flag Flag) Flags {
	return f | Flags(flag)
}

// Person is a congregation member as seen by the scheduling engine
type Person struct {
	ID          string
	FirstName   string
	LastName    string
	DisplayName string
	Gender      Gender

	// AssistantEligible marks members who may be paired as an assistant on student parts
	AssistantEligible bool
	Archived          bool

	Statuses []StatusPeriod
	TimeAway []TimeAway
}

// Name returns the display name, falling back to the full name
func (p Person) Name() string {
	if p.DisplayName != "" {
		return p.DisplayName
	}
	return strings.TrimSpace(p.FirstName + " " + p.LastName)
}

// HasStatusAt reports whether any of the given statuses covers d
func (p Person) HasStatusAt(d Date, statuses ...Status) bool {
	for _, sp := range p.Statuses {
		if !sp.Covers(d) {
			continue
		}
		for _, s := range statuses {
			if sp.Status == s {
				return true
			}
		}
	}
	return false
}

// IsActiveAt reports whether the member was a baptized or unbaptized publisher on d
func (p Person) IsActiveAt(d Date) bool {
	if p.Archived {
		return false
	}
	return p.HasStatusAt(d, StatusBaptizedPublisher, StatusUnbaptizedPublisher)
}

// FlagsAt derives the member's role flags as of d. Statuses that start after d
// or ended before d do not count.
func (p Person) FlagsAt(d Date) Flags {
	var flags Flags
	for _, sp := range p.Statuses {
		if !sp.Covers(d) {
			continue
		}
		switch sp.Status {
		case StatusBaptizedPublisher:
			flags = flags.With(FlagPublisher).With(FlagBaptized)
		case StatusUnbaptizedPublisher:
			flags = flags.With(FlagPublisher)
		case StatusElder:
			flags = flags.With(FlagElder)
		case StatusMinisterialServant:
			flags = flags.With(FlagMinisterialServant)
		case StatusEnrolled:
			flags = flags.With(FlagEnrolled)
		}
	}
	if p.AssistantEligible {
		flags = flags.With(FlagAssistant)
	}
	return flags
}

// AssistantPair links a student to a member who may assist them
type AssistantPair struct {
	PrincipalID string
	AssistantID string
}
