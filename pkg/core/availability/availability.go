package availability

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jakechorley/meeting-assignments/pkg/core/model"
)

// Mode selects how several time-away intervals combine
type Mode string

const (
	// ModeAll treats a member as available only when no interval covers the week
	ModeAll Mode = "all"

	// ModeAny treats a member as available as soon as one interval leaves the
	// week uncovered. It matches the behaviour of older schedules and is kept
	// for congregations whose data relies on it.
	ModeAny Mode = "any"
)

// ParseMode parses a configured mode. The empty string selects ModeAll.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case "", ModeAll:
		return ModeAll, nil
	case ModeAny:
		return ModeAny, nil
	default:
		return "", fmt.Errorf("unknown availability mode %q", s)
	}
}

// IsAvailable decides whether a member can take an assignment in week.
//
// A closed interval [start, end] excludes every week with start <= week <= end.
// An open interval excludes every week on or after its start. Members with no
// intervals are always available.
func IsAvailable(p model.Person, week model.Date, mode Mode) bool {
	if len(p.TimeAway) == 0 {
		return true
	}

	if mode == ModeAny {
		for _, t := range p.TimeAway {
			if !t.Covers(week) {
				return true
			}
		}
		return false
	}

	for _, t := range p.TimeAway {
		if t.Covers(week) {
			return false
		}
	}
	return true
}

// Filter keeps the members available in week, preserving order
func Filter(persons []model.Person, week model.Date, mode Mode) []model.Person {
	out := make([]model.Person, 0, len(persons))
	for _, p := range persons {
		if IsAvailable(p, week, mode) {
			out = append(out, p)
		}
	}
	return out
}

// Validate rejects an interval that ends before it starts
func Validate(personID string, t model.TimeAway) error {
	if t.Start.IsZero() {
		return &model.DataIntegrityError{
			PersonID: personID,
			Detail:   fmt.Sprintf("time away %s has no start date", t.ID),
		}
	}
	if t.End != nil && t.End.Before(t.Start) {
		return &model.DataIntegrityError{
			PersonID: personID,
			Detail:   fmt.Sprintf("time away %s ends %s before it starts %s", t.ID, t.End, t.Start),
		}
	}
	return nil
}

// ValidatePerson checks every interval owned by a member and joins the failures
func ValidatePerson(p model.Person) error {
	var errs []error
	for _, t := range p.TimeAway {
		if err := Validate(p.ID, t); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
