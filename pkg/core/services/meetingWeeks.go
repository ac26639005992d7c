package services

import (
	"fmt"
	"time"

	"github.com/teambition/rrule-go"

	"github.com/jakechorley/meeting-assignments/internal/config"
	"github.com/jakechorley/meeting-assignments/pkg/core/model"
)

// MeetingWeek is one schedulable week with the dates its meetings fall on.
// A nil date means the rule has no meeting of that kind in the week.
type MeetingWeek struct {
	Week    model.Date
	Midweek *model.Date
	Weekend *model.Date
}

// MeetingWeeks lists count weeks starting with the week containing from, with
// meeting dates taken from the configured recurrence rules
func MeetingWeeks(cfg *config.Config, from model.Date, count int) ([]MeetingWeek, error) {
	if count <= 0 {
		return nil, fmt.Errorf("week count must be positive, got %d", count)
	}
	if from.IsZero() {
		return nil, fmt.Errorf("no start date given")
	}

	start := from.Monday()
	end := start.AddWeeks(count)

	midweek, err := occurrences(cfg.MidweekRRule, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to expand midweekRRule: %w", err)
	}
	weekend, err := occurrences(cfg.WeekendRRule, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to expand weekendRRule: %w", err)
	}

	weeks := make([]MeetingWeek, count)
	for i := range weeks {
		week := start.AddWeeks(i)
		weeks[i] = MeetingWeek{
			Week:    week,
			Midweek: midweek[week],
			Weekend: weekend[week],
		}
	}

	return weeks, nil
}

// occurrences expands a rule over [start, end) and keys the first occurrence of
// each week by its Monday
func occurrences(rule string, start, end model.Date) (map[model.Date]*model.Date, error) {
	r, err := rrule.StrToRRule(rule)
	if err != nil {
		return nil, err
	}
	r.DTStart(start.Time())

	out := make(map[model.Date]*model.Date)
	for _, t := range r.Between(start.Time(), end.Time().Add(-time.Nanosecond), true) {
		d := model.DateOf(t)
		week := d.Monday()
		if _, ok := out[week]; !ok {
			out[week] = &d
		}
	}
	return out, nil
}
