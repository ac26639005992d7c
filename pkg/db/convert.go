package db

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/jakechorley/meeting-assignments/pkg/core/model"
)

// StatusesByPerson converts status rows into per-member periods. Malformed rows
// are skipped and reported together in the returned error.
func StatusesByPerson(rows []StatusPeriod) (map[string][]model.StatusPeriod, error) {
	out := make(map[string][]model.StatusPeriod)
	var errs []error

	for _, row := range rows {
		personID := strings.TrimSpace(row.PersonID)
		status := model.Status(strings.ToLower(strings.TrimSpace(row.Status)))
		if !status.IsValid() {
			errs = append(errs, &model.DataIntegrityError{PersonID: personID, Detail: fmt.Sprintf("unknown status %q", row.Status)})
			continue
		}

		period, err := parsePeriod(row.Start, row.End)
		if err != nil {
			errs = append(errs, &model.DataIntegrityError{PersonID: personID, Detail: fmt.Sprintf("status %s: %v", status, err)})
			continue
		}

		out[personID] = append(out[personID], model.StatusPeriod{Status: status, Period: period})
	}

	return out, errors.Join(errs...)
}

// TimeAwaysByPerson converts time-away rows into per-member intervals
func TimeAwaysByPerson(rows []TimeAway) (map[string][]model.TimeAway, error) {
	out := make(map[string][]model.TimeAway)
	var errs []error

	for _, row := range rows {
		personID := strings.TrimSpace(row.PersonID)

		period, err := parsePeriod(row.Start, row.End)
		if err != nil {
			errs = append(errs, &model.DataIntegrityError{PersonID: personID, Detail: fmt.Sprintf("time away %s: %v", row.ID, err)})
			continue
		}

		out[personID] = append(out[personID], model.TimeAway{
			ID:     row.ID,
			Start:  period.Start,
			End:    period.End,
			Reason: row.Reason,
		})
	}

	return out, errors.Join(errs...)
}

func parsePeriod(start, end string) (model.Period, error) {
	s, err := model.ParseDate(strings.TrimSpace(start))
	if err != nil {
		return model.Period{}, fmt.Errorf("invalid start: %w", err)
	}
	if s.IsZero() {
		return model.Period{}, fmt.Errorf("missing start")
	}

	period := model.Period{Start: s}

	if end = strings.TrimSpace(end); end != "" {
		e, err := model.ParseDate(end)
		if err != nil {
			return model.Period{}, fmt.Errorf("invalid end: %w", err)
		}
		if e.Before(s) {
			return model.Period{}, fmt.Errorf("end %s before start %s", e, s)
		}
		period.End = &e
	}

	return period, nil
}

// AssistantPairs converts pair rows, dropping rows with a missing side
func AssistantPairs(rows []AssistantPair) []model.AssistantPair {
	out := make([]model.AssistantPair, 0, len(rows))
	for _, row := range rows {
		principal := strings.TrimSpace(row.PrincipalID)
		assistant := strings.TrimSpace(row.AssistantID)
		if principal == "" || assistant == "" {
			continue
		}
		out = append(out, model.AssistantPair{PrincipalID: principal, AssistantID: assistant})
	}
	return out
}

// AssignmentRecords converts stored rows into ledger records, clears included
func AssignmentRecords(rows []Assignment) []model.AssignmentRecord {
	out := make([]model.AssignmentRecord, 0, len(rows))
	for _, row := range rows {
		out = append(out, model.AssignmentRecord{
			Week:       row.Week,
			Slot:       row.Slot,
			PersonID:   row.PersonID,
			Code:       row.Code,
			RecordedAt: row.RecordedAt,
		})
	}
	return out
}

// AssignmentRow builds a new row for a ledger record
func AssignmentRow(rec model.AssignmentRecord) *Assignment {
	return &Assignment{
		ID:         uuid.New().String(),
		Week:       rec.Week,
		Slot:       rec.Slot,
		PersonID:   rec.PersonID,
		Code:       rec.Code,
		RecordedAt: rec.RecordedAt,
	}
}
