package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jakechorley/meeting-assignments/pkg/core/model"
	"github.com/jakechorley/meeting-assignments/pkg/db"
)

// GetStatusPeriods retrieves all status records
func (d *DB) GetStatusPeriods(ctx context.Context) ([]db.StatusPeriod, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT id, person_id, status, start_date, end_date
		FROM status_period
		ORDER BY person_id, start_date
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query status periods: %w", err)
	}
	defer rows.Close()

	var periods []db.StatusPeriod
	for rows.Next() {
		var p db.StatusPeriod
		var start time.Time
		var end *time.Time
		if err := rows.Scan(&p.ID, &p.PersonID, &p.Status, &start, &end); err != nil {
			return nil, fmt.Errorf("failed to scan status period: %w", err)
		}
		p.Start = formatDate(&start)
		p.End = formatDate(end)
		periods = append(periods, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating status periods: %w", err)
	}

	return periods, nil
}

// GetTimeAways retrieves all time-away records
func (d *DB) GetTimeAways(ctx context.Context) ([]db.TimeAway, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT id, person_id, start_date, end_date, reason
		FROM time_away
		ORDER BY person_id, start_date
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query time away: %w", err)
	}
	defer rows.Close()

	var aways []db.TimeAway
	for rows.Next() {
		var a db.TimeAway
		var start time.Time
		var end *time.Time
		if err := rows.Scan(&a.ID, &a.PersonID, &start, &end, &a.Reason); err != nil {
			return nil, fmt.Errorf("failed to scan time away: %w", err)
		}
		a.Start = formatDate(&start)
		a.End = formatDate(end)
		aways = append(aways, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating time away: %w", err)
	}

	return aways, nil
}

// InsertTimeAway inserts a time-away record
func (d *DB) InsertTimeAway(ctx context.Context, away *db.TimeAway) error {
	start, err := parseDate(away.Start)
	if err != nil {
		return fmt.Errorf("invalid time away start: %w", err)
	}
	if start == nil {
		return fmt.Errorf("time away %s has no start date", away.ID)
	}
	end, err := parseDate(away.End)
	if err != nil {
		return fmt.Errorf("invalid time away end: %w", err)
	}

	_, err = d.pool.Exec(ctx, `
		INSERT INTO time_away (id, person_id, start_date, end_date, reason)
		VALUES ($1, $2, $3, $4, $5)
	`, away.ID, away.PersonID, *start, end, away.Reason)
	if err != nil {
		return fmt.Errorf("failed to insert time away: %w", err)
	}
	return nil
}

// GetAssistantPairs retrieves all assistant pair records
func (d *DB) GetAssistantPairs(ctx context.Context) ([]db.AssistantPair, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT id, principal_id, assistant_id
		FROM assistant_pair
		ORDER BY principal_id, assistant_id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query assistant pairs: %w", err)
	}
	defer rows.Close()

	var pairs []db.AssistantPair
	for rows.Next() {
		var p db.AssistantPair
		if err := rows.Scan(&p.ID, &p.PrincipalID, &p.AssistantID); err != nil {
			return nil, fmt.Errorf("failed to scan assistant pair: %w", err)
		}
		pairs = append(pairs, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating assistant pairs: %w", err)
	}

	return pairs, nil
}

// formatDate renders a nullable DATE column in the roster text form
func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return model.DateOf(*t).String()
}

// parseDate is the inverse of formatDate. Empty text is NULL.
func parseDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	d, err := model.ParseDate(s)
	if err != nil {
		return nil, err
	}
	t := d.Time()
	return &t, nil
}
